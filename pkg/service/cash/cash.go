// Package cash implements cash deposits and withdrawals against the account
// directory.
package cash

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/amirasaad/bankdemo/pkg/config"
	"github.com/amirasaad/bankdemo/pkg/domain"
	"github.com/amirasaad/bankdemo/pkg/domain/events"
	"github.com/amirasaad/bankdemo/pkg/eventbus"
	"github.com/amirasaad/bankdemo/pkg/provider"
	"github.com/google/uuid"
)

// Service processes cash operations.
type Service struct {
	accounts provider.AccountDirectory
	bus      eventbus.Bus
	logger   *slog.Logger
}

// NewService creates a new Service with the provided dependencies.
func NewService(deps config.Deps) *Service {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		accounts: deps.Accounts,
		bus:      deps.EventBus,
		logger:   logger.With("service", "cash"),
	}
}

// Process applies req to the customer's account in req.Currency. Collaborator
// failures are reported as a failed result with a generic message.
func (s *Service) Process(ctx context.Context, req domain.CashRequest) domain.CashResult {
	logger := s.logger.With(
		"request_id", uuid.NewString(),
		"login", req.Login,
		"currency", req.Currency,
		"action", req.Action,
		"value", req.Value.String(),
	)

	if errs := req.Validate(); len(errs) > 0 {
		logger.Warn("cash operation validation failed", "errors", errs)
		return domain.CashFailed(errs...)
	}

	customer, err := s.accounts.GetCustomer(ctx, req.Login)
	if errors.Is(err, domain.ErrCustomerNotFound) {
		return domain.CashFailed(domain.MsgCustomerNotFound)
	}
	if err != nil {
		logger.Error("customer lookup failed", "error", err)
		return domain.CashFailed(domain.MsgServiceUnavailable)
	}

	account, ok := customer.FindAccount(req.Currency)
	if !ok {
		return domain.CashFailed(fmt.Sprintf("Account with currency %s not found", req.Currency))
	}

	balance := account.Balance
	switch req.Action {
	case domain.CashWithdraw:
		if balance.LessThan(req.Value) {
			logger.Info("insufficient funds for withdrawal", "available", balance.String())
			return domain.CashFailed(fmt.Sprintf("%s. Available: %s %s",
				domain.MsgInsufficientFunds, balance.StringFixed(2), req.Currency))
		}
		balance = balance.Sub(req.Value)
	case domain.CashDeposit:
		balance = balance.Add(req.Value)
	}

	if err := ctx.Err(); err != nil {
		return domain.CashFailed(domain.MsgServiceUnavailable)
	}
	if err := s.accounts.UpdateAccountBalance(ctx, customer.Login, req.Currency, balance); err != nil {
		logger.Error("balance update failed", "error", err)
		return domain.CashFailed(domain.MsgServiceUnavailable)
	}

	verb := "Deposit to"
	if req.Action == domain.CashWithdraw {
		verb = "Withdrawal from"
	}
	msg := fmt.Sprintf("%s %s account: %s %s. New balance: %s %s", verb, req.Currency,
		req.Value.StringFixed(2), req.Currency, balance.StringFixed(2), req.Currency)
	if s.bus != nil {
		evt := events.NewNotificationRequested(customer.ID, customer.Name, msg)
		if err := s.bus.Emit(context.WithoutCancel(ctx), evt); err != nil {
			logger.Warn("failed to emit notification", "event_id", evt.ID, "error", err)
		}
	}

	logger.Info("cash operation completed", "balance", balance.String())
	return domain.CashResult{Success: true}
}
