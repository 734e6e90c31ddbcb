package provider

import (
	"context"

	"github.com/amirasaad/bankdemo/pkg/currency"
	"github.com/amirasaad/bankdemo/pkg/domain"
	"github.com/amirasaad/bankdemo/pkg/money"
	"github.com/amirasaad/bankdemo/pkg/provider"
	"github.com/amirasaad/bankdemo/pkg/resilience"
)

// ResilientAccountDirectory guards an AccountDirectory with a policy. When
// the directory cannot be reached the call fails with
// resilience.ErrServiceUnavailable.
type ResilientAccountDirectory struct {
	next   provider.AccountDirectory
	policy *resilience.Policy
}

func NewResilientAccountDirectory(next provider.AccountDirectory, policy *resilience.Policy) *ResilientAccountDirectory {
	return &ResilientAccountDirectory{next: next, policy: policy}
}

func (r *ResilientAccountDirectory) GetCustomer(ctx context.Context, login string) (*domain.Customer, error) {
	return resilience.Execute(ctx, r.policy,
		func(ctx context.Context) (*domain.Customer, error) {
			return r.next.GetCustomer(ctx, login)
		},
		resilience.FallbackUnavailable[*domain.Customer](),
	)
}

func (r *ResilientAccountDirectory) UpdateAccountBalance(ctx context.Context, login string, code currency.Code, balance money.Money) error {
	_, err := resilience.Execute(ctx, r.policy,
		func(ctx context.Context) (struct{}, error) {
			return struct{}{}, r.next.UpdateAccountBalance(ctx, login, code, balance)
		},
		resilience.FallbackUnavailable[struct{}](),
	)
	return err
}

// ResilientFraudChecker guards a FraudChecker. The gate fails closed: an
// unreachable fraud service yields resilience.ErrServiceUnavailable, never
// a "not a fraudster" answer.
type ResilientFraudChecker struct {
	next   provider.FraudChecker
	policy *resilience.Policy
}

func NewResilientFraudChecker(next provider.FraudChecker, policy *resilience.Policy) *ResilientFraudChecker {
	return &ResilientFraudChecker{next: next, policy: policy}
}

func (r *ResilientFraudChecker) IsFraudster(ctx context.Context, customerID int64) (bool, error) {
	return resilience.Execute(ctx, r.policy,
		func(ctx context.Context) (bool, error) {
			return r.next.IsFraudster(ctx, customerID)
		},
		resilience.FallbackUnavailable[bool](),
	)
}

// ResilientRateProvider guards a RateProvider and falls back to a static
// rate table when the exchange service is unavailable.
type ResilientRateProvider struct {
	next     provider.RateProvider
	policy   *resilience.Policy
	fallback currency.RateTable
}

// NewResilientRateProvider uses currency.DefaultRates when fallback is nil.
func NewResilientRateProvider(next provider.RateProvider, policy *resilience.Policy, fallback currency.RateTable) *ResilientRateProvider {
	if fallback == nil {
		fallback = currency.DefaultRates()
	}
	return &ResilientRateProvider{next: next, policy: policy, fallback: fallback}
}

func (r *ResilientRateProvider) GetRates(ctx context.Context) (currency.RateTable, error) {
	return resilience.Execute(ctx, r.policy,
		r.next.GetRates,
		resilience.FallbackValue(r.fallback),
	)
}

var (
	_ provider.AccountDirectory = (*ResilientAccountDirectory)(nil)
	_ provider.FraudChecker     = (*ResilientFraudChecker)(nil)
	_ provider.RateProvider     = (*ResilientRateProvider)(nil)
)
