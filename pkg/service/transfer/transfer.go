// Package transfer orchestrates cross-account funds transfers.
//
// A transfer is a fixed sequence of collaborator calls: sender lookup, fraud
// gate, counterpart lookup, existence checks, currency conversion, a
// sufficiency check, two independent balance overwrites and a notification
// fan-out. Business outcomes are returned as a domain.TransferResult; only
// collaborator failures are returned as errors.
//
// The two balance overwrites are not atomic and there is no compensation:
// if the credit fails after the debit succeeded the ledger stays
// inconsistent and ErrPartialTransfer is returned.
package transfer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/amirasaad/bankdemo/pkg/config"
	"github.com/amirasaad/bankdemo/pkg/currency"
	"github.com/amirasaad/bankdemo/pkg/domain"
	"github.com/amirasaad/bankdemo/pkg/domain/events"
	"github.com/amirasaad/bankdemo/pkg/eventbus"
	"github.com/amirasaad/bankdemo/pkg/money"
	"github.com/amirasaad/bankdemo/pkg/provider"
	"github.com/google/uuid"
)

// ErrPartialTransfer is returned when the debit was applied but the credit
// could not be.
var ErrPartialTransfer = errors.New("transfer partially applied")

// Service is the transfer orchestrator.
type Service struct {
	accounts provider.AccountDirectory
	fraud    provider.FraudChecker
	rates    provider.RateProvider
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
		fraud:    deps.Fraud,
		rates:    deps.Rates,
		bus:      deps.EventBus,
		logger:   logger.With("service", "transfer"),
	}
}

// Transfer moves req.Value from login's req.FromCurrency account to
// req.ToLogin's req.ToCurrency account.
func (s *Service) Transfer(ctx context.Context, login string, req domain.TransferRequest) (domain.TransferResult, error) {
	logger := s.logger.With(
		"request_id", uuid.NewString(),
		"from_login", login,
		"to_login", req.ToLogin,
		"from_currency", req.FromCurrency,
		"to_currency", req.ToCurrency,
		"value", req.Value.String(),
	)

	if errs := req.Validate(); len(errs) > 0 {
		logger.Info("transfer rejected", "errors", errs)
		return domain.TransferFailed(errs, nil), nil
	}

	sender, err := s.accounts.GetCustomer(ctx, login)
	if errors.Is(err, domain.ErrCustomerNotFound) {
		return domain.TransferOwnError(domain.MsgCustomerNotFound), nil
	}
	if err != nil {
		return domain.TransferResult{}, fmt.Errorf("lookup sender %q: %w", login, err)
	}

	fraudster, err := s.fraud.IsFraudster(ctx, sender.ID)
	if err != nil {
		return domain.TransferResult{}, fmt.Errorf("fraud check: %w", err)
	}
	if fraudster {
		logger.Warn("transfer blocked by fraud gate", "customer_id", sender.ID)
		return domain.TransferOwnError(domain.MsgFraudDetected), nil
	}

	self := req.ToLogin == login
	receiver := sender
	if !self {
		receiver, err = s.accounts.GetCustomer(ctx, req.ToLogin)
		if errors.Is(err, domain.ErrCustomerNotFound) {
			return domain.TransferFailed(nil, []string{domain.MsgRecipientNotFound}), nil
		}
		if err != nil {
			return domain.TransferResult{}, fmt.Errorf("lookup recipient %q: %w", req.ToLogin, err)
		}
	}

	var own, other []string
	src, srcOK := sender.FindAccount(req.FromCurrency)
	if !srcOK {
		own = append(own, domain.MsgSourceAccountNotFound)
	}
	dst, dstOK := receiver.FindAccount(req.ToCurrency)
	if !dstOK {
		if self {
			own = append(own, domain.MsgDestinationAccountNotFound)
		} else {
			other = append(other, domain.MsgDestinationAccountNotFound)
		}
	}
	if len(own) > 0 || len(other) > 0 {
		logger.Info("transfer rejected", "own_errors", own, "other_errors", other)
		return domain.TransferFailed(own, other), nil
	}

	credit, err := s.convert(ctx, req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return domain.TransferResult{}, ctxErr
		}
		logger.Info("currency conversion failed", "error", err)
		return domain.TransferOwnError(domain.MsgConversionFailed + err.Error()), nil
	}

	if src.Balance.LessThan(req.Value) {
		logger.Info("transfer rejected", "reason", "insufficient funds", "balance", src.Balance.String())
		return domain.TransferOwnError(domain.MsgInsufficientFunds), nil
	}

	if err := ctx.Err(); err != nil {
		return domain.TransferResult{}, err
	}

	debited := src.Balance.Sub(req.Value)
	if err := s.accounts.UpdateAccountBalance(ctx, sender.Login, req.FromCurrency, debited); err != nil {
		return domain.TransferResult{}, fmt.Errorf("debit %s %s: %w", sender.Login, req.FromCurrency, err)
	}

	// The debit is applied and cannot be revoked; finish without the caller's cancellation.
	ctx = context.WithoutCancel(ctx)

	// The credit overwrites the balance read before the debit, so a transfer
	// within one account ends at the read balance plus the value.
	if err := s.accounts.UpdateAccountBalance(ctx, receiver.Login, req.ToCurrency, dst.Balance.Add(credit)); err != nil {
		logger.Error("partial transfer: debit applied, credit failed",
			"debited_balance", debited.String(),
			"credit", credit.String(),
			"error", err,
		)
		return domain.TransferResult{}, fmt.Errorf("%w: credit %s %s: %w", ErrPartialTransfer, receiver.Login, req.ToCurrency, err)
	}

	msg := fmt.Sprintf("Transfer %s %s -> %s %s from %s to %s",
		req.Value.StringFixed(2), req.FromCurrency,
		credit.StringFixed(2), req.ToCurrency,
		sender.Login, receiver.Login,
	)
	s.notify(ctx, logger, sender, msg)
	if !self {
		s.notify(ctx, logger, receiver, msg)
	}

	logger.Info("transfer completed", "credit", credit.String())
	return domain.TransferSucceeded(), nil
}

func (s *Service) convert(ctx context.Context, req domain.TransferRequest) (money.Money, error) {
	if req.FromCurrency == req.ToCurrency {
		return req.Value, nil
	}
	rates, err := s.rates.GetRates(ctx)
	if err != nil {
		return money.Zero, err
	}
	return currency.Convert(req.Value, req.FromCurrency, req.ToCurrency, rates)
}

func (s *Service) notify(ctx context.Context, logger *slog.Logger, to *domain.Customer, msg string) {
	if s.bus == nil {
		return
	}
	evt := events.NewNotificationRequested(to.ID, to.Name, msg)
	if err := s.bus.Emit(ctx, evt); err != nil {
		logger.Warn("failed to emit notification", "to_customer_id", to.ID, "event_id", evt.ID, "error", err)
	}
}
