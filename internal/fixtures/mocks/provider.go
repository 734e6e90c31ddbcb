package mocks

import (
	"context"

	"github.com/amirasaad/bankdemo/pkg/currency"
	"github.com/amirasaad/bankdemo/pkg/domain"
	"github.com/amirasaad/bankdemo/pkg/money"
	"github.com/amirasaad/bankdemo/pkg/provider"
	"github.com/stretchr/testify/mock"
)

// MockFraudChecker is a mock of provider.FraudChecker.
type MockFraudChecker struct {
	mock.Mock
}

// NewMockFraudChecker creates a mock whose expectations are asserted on cleanup.
func NewMockFraudChecker(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockFraudChecker {
	m := &MockFraudChecker{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockFraudChecker) IsFraudster(ctx context.Context, customerID int64) (bool, error) {
	args := m.Called(ctx, customerID)
	return args.Bool(0), args.Error(1)
}

// MockAccountDirectory is a mock of provider.AccountDirectory.
type MockAccountDirectory struct {
	mock.Mock
}

// NewMockAccountDirectory creates a mock whose expectations are asserted on cleanup.
func NewMockAccountDirectory(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockAccountDirectory {
	m := &MockAccountDirectory{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockAccountDirectory) GetCustomer(ctx context.Context, login string) (*domain.Customer, error) {
	args := m.Called(ctx, login)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Customer), args.Error(1)
}

func (m *MockAccountDirectory) UpdateAccountBalance(
	ctx context.Context,
	login string,
	code currency.Code,
	balance money.Money,
) error {
	args := m.Called(ctx, login, code, balance)
	return args.Error(0)
}

// MockRateProvider is a mock of provider.RateProvider.
type MockRateProvider struct {
	mock.Mock
}

// NewMockRateProvider creates a mock whose expectations are asserted on cleanup.
func NewMockRateProvider(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockRateProvider {
	m := &MockRateProvider{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockRateProvider) GetRates(ctx context.Context) (currency.RateTable, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(currency.RateTable), args.Error(1)
}

var (
	_ provider.FraudChecker     = (*MockFraudChecker)(nil)
	_ provider.AccountDirectory = (*MockAccountDirectory)(nil)
	_ provider.RateProvider     = (*MockRateProvider)(nil)
)
