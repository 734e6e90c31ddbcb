// Package cash exposes cash deposits and withdrawals over HTTP.
package cash

import (
	"log/slog"
	"strings"

	"github.com/amirasaad/bankdemo/pkg/currency"
	"github.com/amirasaad/bankdemo/pkg/domain"
	"github.com/amirasaad/bankdemo/pkg/money"
	cashsvc "github.com/amirasaad/bankdemo/pkg/service/cash"
	"github.com/amirasaad/bankdemo/webapi/common"
	"github.com/gofiber/fiber/v2"
)

// CashRequest is the body of POST /api/v1/cash/operation.
type CashRequest struct {
	Login    string      `json:"login"`
	Currency string      `json:"currency"`
	Value    money.Money `json:"value"`
	Action   string      `json:"action"`
}

// Routes registers the cash endpoint.
func Routes(app *fiber.App, svc *cashsvc.Service, logger *slog.Logger) {
	app.Post("/api/v1/cash/operation", Operation(svc, logger))
}

// Operation returns a Fiber handler that deposits or withdraws cash. It
// always answers 200 with a domain.CashResult.
func Operation(svc *cashsvc.Service, logger *slog.Logger) fiber.Handler {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("handler", "cash")

	return func(c *fiber.Ctx) error {
		var input CashRequest
		if err := c.BodyParser(&input); err != nil {
			logger.Warn("invalid cash body", "error", err)
			return c.JSON(domain.CashFailed(domain.MsgInvalidRequest))
		}
		req := domain.CashRequest{
			Login:    strings.TrimSpace(input.Login),
			Currency: currency.Normalize(input.Currency),
			Value:    input.Value,
			Action:   domain.CashAction(strings.ToUpper(strings.TrimSpace(input.Action))),
		}
		return c.JSON(svc.Process(common.RequestContext(c), req))
	}
}
