package events

import (
	"strconv"
	"time"

	"github.com/google/uuid"
)

// NotificationRequestedType is the event type of NotificationRequested.
const NotificationRequestedType = "NotificationRequested"

// NotificationRequested asks the notification service to deliver Message to
// a customer. Only the recipient and message are part of the JSON payload;
// ID and CreatedAt travel as message metadata.
type NotificationRequested struct {
	ID             uuid.UUID `json:"-"`
	ToCustomerID   int64     `json:"toCustomerId"`
	ToCustomerName string    `json:"toCustomerName"`
	Message        string    `json:"message"`
	CreatedAt      time.Time `json:"-"`
}

// NewNotificationRequested creates a notification event with a fresh id.
func NewNotificationRequested(toID int64, toName, message string) *NotificationRequested {
	return &NotificationRequested{
		ID:             uuid.New(),
		ToCustomerID:   toID,
		ToCustomerName: toName,
		Message:        message,
		CreatedAt:      time.Now().UTC(),
	}
}

// Type implements Event.
func (e *NotificationRequested) Type() string { return NotificationRequestedType }

// Key partitions notifications by recipient so they stay in order.
func (e *NotificationRequested) Key() string { return strconv.FormatInt(e.ToCustomerID, 10) }

// EventID returns the event id as a string.
func (e *NotificationRequested) EventID() string { return e.ID.String() }
