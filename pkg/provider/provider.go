// Package provider declares the capabilities the transfer and cash services
// need from external collaborators.
package provider

import (
	"context"

	"github.com/amirasaad/bankdemo/pkg/currency"
	"github.com/amirasaad/bankdemo/pkg/domain"
	"github.com/amirasaad/bankdemo/pkg/money"
)

// FraudChecker is the fraud gate.
type FraudChecker interface {
	IsFraudster(ctx context.Context, customerID int64) (bool, error)
}

// AccountDirectory is the system of record for customers and balances.
type AccountDirectory interface {
	// GetCustomer returns domain.ErrCustomerNotFound when login is unknown.
	GetCustomer(ctx context.Context, login string) (*domain.Customer, error)
	// UpdateAccountBalance overwrites the balance. It is not a delta.
	UpdateAccountBalance(ctx context.Context, login string, code currency.Code, balance money.Money) error
}

// RateProvider returns the current rates against currency.Base.
type RateProvider interface {
	GetRates(ctx context.Context) (currency.RateTable, error)
}
