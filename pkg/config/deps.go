package config

import (
	"log/slog"

	"github.com/amirasaad/bankdemo/pkg/eventbus"
	"github.com/amirasaad/bankdemo/pkg/provider"
)

// Deps holds the collaborators services are built from.
type Deps struct {
	Accounts provider.AccountDirectory
	Fraud    provider.FraudChecker
	Rates    provider.RateProvider
	EventBus eventbus.Bus
	Logger   *slog.Logger
	Config   *App
}
