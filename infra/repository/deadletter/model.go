package deadletter

import (
	"time"

	"github.com/google/uuid"
)

// DeadLetter is the persisted form of an event that could not be published.
type DeadLetter struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	Bus          string    `gorm:"size:32;not null"`
	Topic        string    `gorm:"size:255"`
	EventType    string    `gorm:"size:128;not null;index"`
	EventKey     string    `gorm:"size:255"`
	Payload      []byte    `gorm:"type:jsonb"`
	ErrorMessage string
	FailedAt     time.Time `gorm:"not null"`
	CreatedAt    time.Time `gorm:"index"`
}

func (DeadLetter) TableName() string {
	return "dead_letters"
}
