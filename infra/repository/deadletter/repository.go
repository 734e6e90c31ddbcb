// Package deadletter stores notification events the event bus failed to
// publish.
package deadletter

import (
	"context"
	"fmt"

	"github.com/amirasaad/bankdemo/pkg/eventbus"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repository struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Record implements eventbus.DeadLetterRecorder.
func (r *Repository) Record(ctx context.Context, letter eventbus.DeadLetter) error {
	model := DeadLetter{
		ID:        uuid.New(),
		Bus:       letter.Bus,
		Topic:     letter.Topic,
		EventType: letter.EventType,
		EventKey:  letter.Key,
		Payload:   letter.Payload,
		FailedAt:  letter.FailedAt,
	}
	if letter.Err != nil {
		model.ErrorMessage = letter.Err.Error()
	}
	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		return fmt.Errorf("record dead letter: %w", err)
	}
	return nil
}

// List returns the most recent dead letters, newest first.
func (r *Repository) List(ctx context.Context, limit int) ([]DeadLetter, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	var out []DeadLetter
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&out).Error
	if err != nil {
		return nil, fmt.Errorf("list dead letters: %w", err)
	}
	return out, nil
}

// Delete removes a dead letter once it has been dealt with.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&DeadLetter{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("delete dead letter: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

var _ eventbus.DeadLetterRecorder = (*Repository)(nil)
