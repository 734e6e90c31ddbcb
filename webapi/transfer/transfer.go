// Package transfer exposes the transfer orchestrator over HTTP.
package transfer

import (
	"fmt"
	"log/slog"

	"github.com/amirasaad/bankdemo/pkg/domain"
	transfersvc "github.com/amirasaad/bankdemo/pkg/service/transfer"
	"github.com/amirasaad/bankdemo/webapi/common"
	"github.com/gofiber/fiber/v2"
)

// Routes registers the transfer endpoint.
//
// Routes:
//   - POST /user/:login/transfer : move money from :login to another customer.
func Routes(app *fiber.App, svc *transfersvc.Service, logger *slog.Logger) {
	app.Post("/user/:login/transfer", Transfer(svc, logger))
}

// Transfer returns a Fiber handler that runs a transfer on behalf of :login.
// It always answers 200 with a domain.TransferResult; request problems and
// internal faults are reported inside the result.
func Transfer(svc *transfersvc.Service, logger *slog.Logger) fiber.Handler {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("handler", "transfer")

	return func(c *fiber.Ctx) (err error) {
		login := c.Params("login")
		defer func() {
			if r := recover(); r != nil {
				logger.Error("transfer panicked", "login", login, "panic", r)
				err = c.JSON(domain.TransferOwnError(domain.MsgServiceUnavailable))
			}
		}()

		var input TransferRequest
		if err := c.BodyParser(&input); err != nil {
			logger.Warn("invalid transfer body", "login", login, "error", err)
			return c.JSON(domain.TransferOwnError(domain.MsgInvalidRequest))
		}
		input.normalize()

		if msgs, err := validationMessages(input); err != nil || len(msgs) > 0 {
			if err != nil {
				logger.Error("transfer validation error", "login", login, "error", err)
				msgs = []string{domain.MsgInvalidRequest}
			}
			return c.JSON(domain.TransferFailed(msgs, nil))
		}

		result, err := svc.Transfer(common.RequestContext(c), login, input.toDomain())
		if err != nil {
			logger.Error("transfer failed", "login", login, "to_login", input.ToLogin, "error", err)
			return c.JSON(domain.TransferOwnError(domain.MsgServiceUnavailable))
		}
		return c.JSON(result)
	}
}

func validationMessages(input TransferRequest) ([]string, error) {
	fields, err := common.Validate(input)
	if err != nil {
		return nil, fmt.Errorf("validate transfer request: %w", err)
	}
	var msgs []string
	if !input.Value.IsPositive() {
		msgs = append(msgs, domain.MsgAmountMustBePositive)
	}
	for _, field := range []string{"FromCurrency", "ToCurrency", "ToLogin"} {
		if _, failed := fields[field]; failed {
			msgs = append(msgs, fieldMessages[field])
		}
	}
	return msgs, nil
}
