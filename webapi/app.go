// Package webapi assembles the HTTP API.
package webapi

import (
	"errors"
	"log/slog"
	"time"

	"github.com/amirasaad/bankdemo/pkg/config"
	"github.com/amirasaad/bankdemo/pkg/domain"
	cashsvc "github.com/amirasaad/bankdemo/pkg/service/cash"
	transfersvc "github.com/amirasaad/bankdemo/pkg/service/transfer"
	"github.com/amirasaad/bankdemo/webapi/cash"
	"github.com/amirasaad/bankdemo/webapi/common"
	"github.com/amirasaad/bankdemo/webapi/deadletter"
	"github.com/amirasaad/bankdemo/webapi/transfer"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/fiber/v2/utils"
)

// Services are the handlers' backends. DeadLetters may be nil.
type Services struct {
	Transfer    *transfersvc.Service
	Cash        *cashsvc.Service
	DeadLetters deadletter.Store
}

func NewApp(cfg *config.App, svcs Services, logger *slog.Logger) *fiber.App {
	if logger == nil {
		logger = slog.Default()
	}
	app := fiber.New(fiber.Config{
		AppName:               "transfer-service",
		DisableStartupMessage: true,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			var fe *fiber.Error
			if errors.As(err, &fe) {
				return common.ErrorResponseJSON(c, fe.Code, utils.StatusMessage(fe.Code), fe.Message)
			}
			logger.Error("unhandled request error", "method", c.Method(), "path", c.Path(), "error", err)
			return common.ErrorResponseJSON(c, fiber.StatusInternalServerError, "Internal Server Error", domain.MsgServiceUnavailable)
		},
	})

	maxRequests, window := 100, time.Minute
	if cfg != nil && cfg.RateLimit != nil {
		maxRequests, window = cfg.RateLimit.MaxRequests, cfg.RateLimit.Window
	}
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format: "${time} ${locals:requestid} ${status} - ${method} ${path} ${latency}\n",
	}))
	app.Use(limiter.New(limiter.Config{
		Max:        maxRequests,
		Expiration: window,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return common.ErrorResponseJSON(c, fiber.StatusTooManyRequests, "Too Many Requests", "Rate limit exceeded")
		},
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(common.Response{Status: fiber.StatusOK, Message: "UP"})
	})

	transfer.Routes(app, svcs.Transfer, logger)
	cash.Routes(app, svcs.Cash, logger)
	if svcs.DeadLetters != nil {
		deadletter.Routes(app, svcs.DeadLetters, logger)
	}

	return app
}
