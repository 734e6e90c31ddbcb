// Package deadletter exposes the notifications that could not be published.
package deadletter

import (
	"context"
	"errors"
	"log/slog"
	"time"

	infradl "github.com/amirasaad/bankdemo/infra/repository/deadletter"
	"github.com/amirasaad/bankdemo/webapi/common"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Store is the part of the dead-letter repository the handlers need.
type Store interface {
	List(ctx context.Context, limit int) ([]infradl.DeadLetter, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// DeadLetterDTO is the API view of a dead letter.
type DeadLetterDTO struct {
	ID        uuid.UUID `json:"id"`
	Bus       string    `json:"bus"`
	Topic     string    `json:"topic,omitempty"`
	EventType string    `json:"eventType"`
	Key       string    `json:"key,omitempty"`
	Payload   string    `json:"payload,omitempty"`
	Error     string    `json:"error,omitempty"`
	FailedAt  time.Time `json:"failedAt"`
}

// Routes registers the dead-letter endpoints.
//
// Routes:
//   - GET    /api/v1/dead-letters     : list the newest dead letters (?limit=N).
//   - DELETE /api/v1/dead-letters/:id : discard a dead letter.
func Routes(app *fiber.App, store Store, logger *slog.Logger) {
	app.Get("/api/v1/dead-letters", List(store, logger))
	app.Delete("/api/v1/dead-letters/:id", Delete(store, logger))
}

func List(store Store, logger *slog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		letters, err := store.List(c.UserContext(), c.QueryInt("limit", 100))
		if err != nil {
			logger.Error("failed to list dead letters", "error", err)
			return common.ErrorResponseJSON(c, fiber.StatusInternalServerError, "Failed to list dead letters", err.Error())
		}
		out := make([]DeadLetterDTO, 0, len(letters))
		for _, l := range letters {
			out = append(out, DeadLetterDTO{
				ID:        l.ID,
				Bus:       l.Bus,
				Topic:     l.Topic,
				EventType: l.EventType,
				Key:       l.EventKey,
				Payload:   string(l.Payload),
				Error:     l.ErrorMessage,
				FailedAt:  l.FailedAt,
			})
		}
		return c.JSON(common.Response{Status: fiber.StatusOK, Message: "Dead letters fetched", Data: out})
	}
}

func Delete(store Store, logger *slog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := uuid.Parse(c.Params("id"))
		if err != nil {
			return common.ErrorResponseJSON(c, fiber.StatusBadRequest, "Invalid dead letter ID", err.Error())
		}
		if err := store.Delete(c.UserContext(), id); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return common.ErrorResponseJSON(c, fiber.StatusNotFound, "Dead letter not found", nil)
			}
			logger.Error("failed to delete dead letter", "id", id, "error", err)
			return common.ErrorResponseJSON(c, fiber.StatusInternalServerError, "Failed to delete dead letter", err.Error())
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}
