package transfer_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/amirasaad/bankdemo/internal/fixtures/mocks"
	"github.com/amirasaad/bankdemo/pkg/config"
	"github.com/amirasaad/bankdemo/pkg/currency"
	"github.com/amirasaad/bankdemo/pkg/domain"
	"github.com/amirasaad/bankdemo/pkg/domain/events"
	"github.com/amirasaad/bankdemo/pkg/money"
	"github.com/amirasaad/bankdemo/pkg/resilience"
	"github.com/amirasaad/bankdemo/pkg/service/transfer"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	accounts *mocks.MockAccountDirectory
	fraud    *mocks.MockFraudChecker
	rates    *mocks.MockRateProvider
	bus      *mocks.MockBus
	svc      *transfer.Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		accounts: mocks.NewMockAccountDirectory(t),
		fraud:    mocks.NewMockFraudChecker(t),
		rates:    mocks.NewMockRateProvider(t),
		bus:      mocks.NewMockBus(t),
	}
	f.svc = transfer.NewService(config.Deps{
		Accounts: f.accounts,
		Fraud:    f.fraud,
		Rates:    f.rates,
		EventBus: f.bus,
		Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	return f
}

func amount(s string) any {
	want := money.MustParse(s)
	return mock.MatchedBy(func(m money.Money) bool { return m.Equal(want) })
}

func notificationTo(id int64, name string) any {
	return mock.MatchedBy(func(e events.Event) bool {
		n, ok := e.(*events.NotificationRequested)
		return ok && n.ToCustomerID == id && n.ToCustomerName == name
	})
}

func request(from, to currency.Code, value, toLogin string) domain.TransferRequest {
	return domain.TransferRequest{
		FromCurrency: from,
		ToCurrency:   to,
		Value:        money.MustParse(value),
		ToLogin:      toLogin,
	}
}

func TestTransfer_SameCurrencyToAnotherCustomer(t *testing.T) {
	f := newFixture(t)
	alice := mocks.Customer(1, "alice", mocks.Account(currency.RUB, "1000"))
	bob := mocks.Customer(2, "bob", mocks.Account(currency.RUB, "200"))

	f.accounts.On("GetCustomer", mock.Anything, "alice").Return(alice, nil).Once()
	f.fraud.On("IsFraudster", mock.Anything, int64(1)).Return(false, nil).Once()
	f.accounts.On("GetCustomer", mock.Anything, "bob").Return(bob, nil).Once()
	debit := f.accounts.On("UpdateAccountBalance", mock.Anything, "alice", currency.RUB, amount("850")).Return(nil).Once()
	f.accounts.On("UpdateAccountBalance", mock.Anything, "bob", currency.RUB, amount("350")).Return(nil).Once().NotBefore(debit)
	f.bus.On("Emit", mock.Anything, notificationTo(1, "Name alice")).Return(nil).Once()
	f.bus.On("Emit", mock.Anything, notificationTo(2, "Name bob")).Return(nil).Once()

	res, err := f.svc.Transfer(context.Background(), "alice", request(currency.RUB, currency.RUB, "150", "bob"))
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Empty(t, res.OwnErrors)
	assert.Empty(t, res.CounterpartErrors)
	f.rates.AssertNotCalled(t, "GetRates", mock.Anything)
}

func TestTransfer_CrossCurrencyRoundsHalfUp(t *testing.T) {
	f := newFixture(t)
	sender := mocks.Customer(1, "ivan", mocks.Account(currency.RUB, "1000"))
	receiver := mocks.Customer(2, "john", mocks.Account(currency.USD, "50"))

	f.accounts.On("GetCustomer", mock.Anything, "ivan").Return(sender, nil).Once()
	f.fraud.On("IsFraudster", mock.Anything, int64(1)).Return(false, nil).Once()
	f.accounts.On("GetCustomer", mock.Anything, "john").Return(receiver, nil).Once()
	f.rates.On("GetRates", mock.Anything).Return(currency.RateTable{
		currency.USD: decimal.NewFromInt(90),
	}, nil).Once()
	f.accounts.On("UpdateAccountBalance", mock.Anything, "ivan", currency.RUB, amount("900")).Return(nil).Once()
	f.accounts.On("UpdateAccountBalance", mock.Anything, "john", currency.USD, amount("51")).Return(nil).Once()
	f.bus.On("Emit", mock.Anything, mock.Anything).Return(nil).Twice()

	res, err := f.svc.Transfer(context.Background(), "ivan", request(currency.RUB, currency.USD, "100", "john"))
	require.NoError(t, err)
	assert.True(t, res.Success)
}

func TestTransfer_USDToRUB(t *testing.T) {
	f := newFixture(t)
	user1 := mocks.Customer(1, "user1", mocks.Account(currency.USD, "100"))
	user2 := mocks.Customer(2, "user2", mocks.Account(currency.RUB, "0"))

	f.accounts.On("GetCustomer", mock.Anything, "user1").Return(user1, nil).Once()
	f.fraud.On("IsFraudster", mock.Anything, int64(1)).Return(false, nil).Once()
	f.accounts.On("GetCustomer", mock.Anything, "user2").Return(user2, nil).Once()
	f.rates.On("GetRates", mock.Anything).Return(currency.NewRateTable([]currency.RateEntry{
		{Title: "Доллар", Name: currency.USD, Value: 95},
		{Title: "Рубль", Name: currency.RUB, Value: 1},
	}), nil).Once()
	f.accounts.On("UpdateAccountBalance", mock.Anything, "user1", currency.USD, amount("90")).Return(nil).Once()
	f.accounts.On("UpdateAccountBalance", mock.Anything, "user2", currency.RUB, amount("950")).Return(nil).Once()
	f.bus.On("Emit", mock.Anything, mock.MatchedBy(func(e events.Event) bool {
		n := e.(*events.NotificationRequested)
		return n.Message == "Transfer 10.00 USD -> 950.00 RUB from user1 to user2"
	})).Return(nil).Twice()

	res, err := f.svc.Transfer(context.Background(), "user1", request(currency.USD, currency.RUB, "10", "user2"))
	require.NoError(t, err)
	assert.True(t, res.Success)
}

func TestTransfer_FraudDetected(t *testing.T) {
	f := newFixture(t)
	f.accounts.On("GetCustomer", mock.Anything, "alice").Return(mocks.Customer(1, "alice", mocks.Account(currency.RUB, "500")), nil).Once()
	f.fraud.On("IsFraudster", mock.Anything, int64(1)).Return(true, nil).Once()

	res, err := f.svc.Transfer(context.Background(), "alice", request(currency.RUB, currency.RUB, "100", "bob"))
	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.Equal(t, []string{"Fraud detected"}, res.OwnErrors)
	assert.Empty(t, res.CounterpartErrors)
	f.accounts.AssertNotCalled(t, "GetCustomer", mock.Anything, "bob")
	f.accounts.AssertNotCalled(t, "UpdateAccountBalance", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	f.bus.AssertNotCalled(t, "Emit", mock.Anything, mock.Anything)
}

func TestTransfer_NonPositiveAmountMakesNoRemoteCall(t *testing.T) {
	for _, value := range []string{"0", "-1", "-0.01"} {
		t.Run(value, func(t *testing.T) {
			f := newFixture(t)
			res, err := f.svc.Transfer(context.Background(), "alice", request(currency.RUB, currency.RUB, value, "bob"))
			require.NoError(t, err)
			assert.False(t, res.Success)
			assert.Equal(t, []string{domain.MsgAmountMustBePositive}, res.OwnErrors)
			f.accounts.AssertNotCalled(t, "GetCustomer", mock.Anything, mock.Anything)
			f.fraud.AssertNotCalled(t, "IsFraudster", mock.Anything, mock.Anything)
		})
	}
}

func TestTransfer_InsufficientFunds(t *testing.T) {
	f := newFixture(t)
	f.accounts.On("GetCustomer", mock.Anything, "alice").Return(mocks.Customer(1, "alice", mocks.Account(currency.RUB, "500")), nil).Once()
	f.fraud.On("IsFraudster", mock.Anything, int64(1)).Return(false, nil).Once()
	f.accounts.On("GetCustomer", mock.Anything, "bob").Return(mocks.Customer(2, "bob", mocks.Account(currency.RUB, "0")), nil).Once()

	res, err := f.svc.Transfer(context.Background(), "alice", request(currency.RUB, currency.RUB, "1000", "bob"))
	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.Equal(t, []string{domain.MsgInsufficientFunds}, res.OwnErrors)
	f.accounts.AssertNotCalled(t, "UpdateAccountBalance", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestTransfer_SufficiencyUsesDebitAmountNotConverted(t *testing.T) {
	f := newFixture(t)
	// 10 USD costs 950 RUB, but the source balance is compared in USD
	f.accounts.On("GetCustomer", mock.Anything, "alice").Return(mocks.Customer(1, "alice", mocks.Account(currency.USD, "10")), nil).Once()
	f.fraud.On("IsFraudster", mock.Anything, int64(1)).Return(false, nil).Once()
	f.accounts.On("GetCustomer", mock.Anything, "bob").Return(mocks.Customer(2, "bob", mocks.Account(currency.RUB, "0")), nil).Once()
	f.rates.On("GetRates", mock.Anything).Return(currency.DefaultRates(), nil).Once()
	f.accounts.On("UpdateAccountBalance", mock.Anything, "alice", currency.USD, amount("0")).Return(nil).Once()
	f.accounts.On("UpdateAccountBalance", mock.Anything, "bob", currency.RUB, amount("950")).Return(nil).Once()
	f.bus.On("Emit", mock.Anything, mock.Anything).Return(nil).Twice()

	res, err := f.svc.Transfer(context.Background(), "alice", request(currency.USD, currency.RUB, "10", "bob"))
	require.NoError(t, err)
	assert.True(t, res.Success)
}

func TestTransfer_UnknownCurrency(t *testing.T) {
	f := newFixture(t)
	xyz := domain.Account{Currency: "XYZ", Balance: money.Zero, Exists: true}
	f.accounts.On("GetCustomer", mock.Anything, "alice").Return(mocks.Customer(1, "alice", mocks.Account(currency.RUB, "1000")), nil).Once()
	f.fraud.On("IsFraudster", mock.Anything, int64(1)).Return(false, nil).Once()
	f.accounts.On("GetCustomer", mock.Anything, "bob").Return(mocks.Customer(2, "bob", xyz), nil).Once()
	f.rates.On("GetRates", mock.Anything).Return(currency.DefaultRates(), nil).Once()

	res, err := f.svc.Transfer(context.Background(), "alice", request(currency.RUB, "XYZ", "100", "bob"))
	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.Equal(t, []string{"Currency conversion failed: Exchange rate not found for XYZ"}, res.OwnErrors)
	f.accounts.AssertNotCalled(t, "UpdateAccountBalance", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestTransfer_MissingAccounts(t *testing.T) {
	t.Run("both sides", func(t *testing.T) {
		f := newFixture(t)
		f.accounts.On("GetCustomer", mock.Anything, "alice").Return(mocks.Customer(1, "alice", mocks.Account(currency.USD, "1")), nil).Once()
		f.fraud.On("IsFraudster", mock.Anything, int64(1)).Return(false, nil).Once()
		f.accounts.On("GetCustomer", mock.Anything, "bob").Return(mocks.Customer(2, "bob"), nil).Once()

		res, err := f.svc.Transfer(context.Background(), "alice", request(currency.RUB, currency.CNY, "1", "bob"))
		require.NoError(t, err)
		assert.False(t, res.Success)
		assert.Equal(t, []string{domain.MsgSourceAccountNotFound}, res.OwnErrors)
		assert.Equal(t, []string{domain.MsgDestinationAccountNotFound}, res.CounterpartErrors)
		f.rates.AssertNotCalled(t, "GetRates", mock.Anything)
	})

	t.Run("counterpart only", func(t *testing.T) {
		f := newFixture(t)
		f.accounts.On("GetCustomer", mock.Anything, "alice").Return(mocks.Customer(1, "alice", mocks.Account(currency.RUB, "100")), nil).Once()
		f.fraud.On("IsFraudster", mock.Anything, int64(1)).Return(false, nil).Once()
		closed := domain.Account{Currency: currency.CNY, Exists: false}
		f.accounts.On("GetCustomer", mock.Anything, "bob").Return(mocks.Customer(2, "bob", closed), nil).Once()

		res, err := f.svc.Transfer(context.Background(), "alice", request(currency.RUB, currency.CNY, "1", "bob"))
		require.NoError(t, err)
		assert.Empty(t, res.OwnErrors)
		assert.Equal(t, []string{domain.MsgDestinationAccountNotFound}, res.CounterpartErrors)
	})

	t.Run("self transfer attributes destination to initiator", func(t *testing.T) {
		f := newFixture(t)
		f.accounts.On("GetCustomer", mock.Anything, "alice").Return(mocks.Customer(1, "alice", mocks.Account(currency.RUB, "100")), nil).Once()
		f.fraud.On("IsFraudster", mock.Anything, int64(1)).Return(false, nil).Once()

		res, err := f.svc.Transfer(context.Background(), "alice", request(currency.RUB, currency.USD, "1", "alice"))
		require.NoError(t, err)
		assert.Equal(t, []string{domain.MsgDestinationAccountNotFound}, res.OwnErrors)
		assert.Empty(t, res.CounterpartErrors)
	})
}

func TestTransfer_CustomerNotFound(t *testing.T) {
	t.Run("sender", func(t *testing.T) {
		f := newFixture(t)
		f.accounts.On("GetCustomer", mock.Anything, "ghost").Return(nil, domain.ErrCustomerNotFound).Once()

		res, err := f.svc.Transfer(context.Background(), "ghost", request(currency.RUB, currency.RUB, "1", "bob"))
		require.NoError(t, err)
		assert.Equal(t, []string{domain.MsgCustomerNotFound}, res.OwnErrors)
		f.fraud.AssertNotCalled(t, "IsFraudster", mock.Anything, mock.Anything)
	})

	t.Run("recipient", func(t *testing.T) {
		f := newFixture(t)
		f.accounts.On("GetCustomer", mock.Anything, "alice").Return(mocks.Customer(1, "alice", mocks.Account(currency.RUB, "100")), nil).Once()
		f.fraud.On("IsFraudster", mock.Anything, int64(1)).Return(false, nil).Once()
		f.accounts.On("GetCustomer", mock.Anything, "ghost").Return(nil, domain.ErrCustomerNotFound).Once()

		res, err := f.svc.Transfer(context.Background(), "alice", request(currency.RUB, currency.RUB, "1", "ghost"))
		require.NoError(t, err)
		assert.Empty(t, res.OwnErrors)
		assert.Equal(t, []string{domain.MsgRecipientNotFound}, res.CounterpartErrors)
	})
}

func TestTransfer_SelfTransfer(t *testing.T) {
	t.Run("cross currency emits one notification", func(t *testing.T) {
		f := newFixture(t)
		alice := mocks.Customer(1, "alice", mocks.Account(currency.USD, "10"), mocks.Account(currency.RUB, "5"))
		f.accounts.On("GetCustomer", mock.Anything, "alice").Return(alice, nil).Once()
		f.fraud.On("IsFraudster", mock.Anything, int64(1)).Return(false, nil).Once()
		f.rates.On("GetRates", mock.Anything).Return(currency.DefaultRates(), nil).Once()
		f.accounts.On("UpdateAccountBalance", mock.Anything, "alice", currency.USD, amount("9")).Return(nil).Once()
		f.accounts.On("UpdateAccountBalance", mock.Anything, "alice", currency.RUB, amount("100")).Return(nil).Once()
		f.bus.On("Emit", mock.Anything, notificationTo(1, "Name alice")).Return(nil).Once()

		res, err := f.svc.Transfer(context.Background(), "alice", request(currency.USD, currency.RUB, "1", "alice"))
		require.NoError(t, err)
		assert.True(t, res.Success)
		f.accounts.AssertNumberOfCalls(t, "GetCustomer", 1)
		f.bus.AssertNumberOfCalls(t, "Emit", 1)
	})

	t.Run("same account credits the balance read before the debit", func(t *testing.T) {
		f := newFixture(t)
		alice := mocks.Customer(1, "alice", mocks.Account(currency.RUB, "100"))
		f.accounts.On("GetCustomer", mock.Anything, "alice").Return(alice, nil).Once()
		f.fraud.On("IsFraudster", mock.Anything, int64(1)).Return(false, nil).Once()
		debit := f.accounts.On("UpdateAccountBalance", mock.Anything, "alice", currency.RUB, amount("70")).Return(nil).Once()
		f.accounts.On("UpdateAccountBalance", mock.Anything, "alice", currency.RUB, amount("130")).Return(nil).Once().NotBefore(debit)
		f.bus.On("Emit", mock.Anything, mock.Anything).Return(nil).Once()

		res, err := f.svc.Transfer(context.Background(), "alice", request(currency.RUB, currency.RUB, "30", "alice"))
		require.NoError(t, err)
		assert.True(t, res.Success)
		f.accounts.AssertNumberOfCalls(t, "UpdateAccountBalance", 2)
	})
}

func TestTransfer_NotificationFailureIsSwallowed(t *testing.T) {
	f := newFixture(t)
	f.accounts.On("GetCustomer", mock.Anything, "alice").Return(mocks.Customer(1, "alice", mocks.Account(currency.RUB, "100")), nil).Once()
	f.fraud.On("IsFraudster", mock.Anything, int64(1)).Return(false, nil).Once()
	f.accounts.On("GetCustomer", mock.Anything, "bob").Return(mocks.Customer(2, "bob", mocks.Account(currency.RUB, "0")), nil).Once()
	f.accounts.On("UpdateAccountBalance", mock.Anything, mock.Anything, currency.RUB, mock.Anything).Return(nil).Twice()
	f.bus.On("Emit", mock.Anything, mock.Anything).Return(errors.New("broker down")).Twice()

	res, err := f.svc.Transfer(context.Background(), "alice", request(currency.RUB, currency.RUB, "10", "bob"))
	require.NoError(t, err)
	assert.True(t, res.Success)
}

func TestTransfer_InfrastructureFailures(t *testing.T) {
	unavailable := resilience.ErrServiceUnavailable

	t.Run("fraud gate unavailable", func(t *testing.T) {
		f := newFixture(t)
		f.accounts.On("GetCustomer", mock.Anything, "alice").Return(mocks.Customer(1, "alice", mocks.Account(currency.RUB, "100")), nil).Once()
		f.fraud.On("IsFraudster", mock.Anything, int64(1)).Return(false, unavailable).Once()

		_, err := f.svc.Transfer(context.Background(), "alice", request(currency.RUB, currency.RUB, "10", "bob"))
		require.ErrorIs(t, err, unavailable)
	})

	t.Run("debit fails", func(t *testing.T) {
		f := newFixture(t)
		f.accounts.On("GetCustomer", mock.Anything, "alice").Return(mocks.Customer(1, "alice", mocks.Account(currency.RUB, "100")), nil).Once()
		f.fraud.On("IsFraudster", mock.Anything, int64(1)).Return(false, nil).Once()
		f.accounts.On("GetCustomer", mock.Anything, "bob").Return(mocks.Customer(2, "bob", mocks.Account(currency.RUB, "0")), nil).Once()
		f.accounts.On("UpdateAccountBalance", mock.Anything, "alice", currency.RUB, amount("90")).Return(unavailable).Once()

		_, err := f.svc.Transfer(context.Background(), "alice", request(currency.RUB, currency.RUB, "10", "bob"))
		require.ErrorIs(t, err, unavailable)
		assert.NotErrorIs(t, err, transfer.ErrPartialTransfer)
		f.accounts.AssertNumberOfCalls(t, "UpdateAccountBalance", 1)
		f.bus.AssertNotCalled(t, "Emit", mock.Anything, mock.Anything)
	})

	t.Run("credit fails after debit", func(t *testing.T) {
		f := newFixture(t)
		f.accounts.On("GetCustomer", mock.Anything, "alice").Return(mocks.Customer(1, "alice", mocks.Account(currency.RUB, "100")), nil).Once()
		f.fraud.On("IsFraudster", mock.Anything, int64(1)).Return(false, nil).Once()
		f.accounts.On("GetCustomer", mock.Anything, "bob").Return(mocks.Customer(2, "bob", mocks.Account(currency.RUB, "0")), nil).Once()
		f.accounts.On("UpdateAccountBalance", mock.Anything, "alice", currency.RUB, amount("90")).Return(nil).Once()
		f.accounts.On("UpdateAccountBalance", mock.Anything, "bob", currency.RUB, amount("10")).Return(unavailable).Once()

		_, err := f.svc.Transfer(context.Background(), "alice", request(currency.RUB, currency.RUB, "10", "bob"))
		require.ErrorIs(t, err, transfer.ErrPartialTransfer)
		assert.ErrorIs(t, err, unavailable)
		f.bus.AssertNotCalled(t, "Emit", mock.Anything, mock.Anything)
	})
}

func TestTransfer_CancelledBeforeMutation(t *testing.T) {
	f := newFixture(t)
	ctx, cancel := context.WithCancel(context.Background())
	f.accounts.On("GetCustomer", mock.Anything, "alice").Return(mocks.Customer(1, "alice", mocks.Account(currency.RUB, "100")), nil).Once()
	f.fraud.On("IsFraudster", mock.Anything, int64(1)).Return(false, nil).Once()
	f.accounts.On("GetCustomer", mock.Anything, "bob").
		Return(mocks.Customer(2, "bob", mocks.Account(currency.RUB, "0")), nil).
		Run(func(mock.Arguments) { cancel() }).
		Once()

	_, err := f.svc.Transfer(ctx, "alice", request(currency.RUB, currency.RUB, "10", "bob"))
	require.ErrorIs(t, err, context.Canceled)
	f.accounts.AssertNotCalled(t, "UpdateAccountBalance", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestTransfer_CreditSurvivesCallerCancellation(t *testing.T) {
	f := newFixture(t)
	ctx, cancel := context.WithCancel(context.Background())
	f.accounts.On("GetCustomer", mock.Anything, "alice").Return(mocks.Customer(1, "alice", mocks.Account(currency.RUB, "100")), nil).Once()
	f.fraud.On("IsFraudster", mock.Anything, int64(1)).Return(false, nil).Once()
	f.accounts.On("GetCustomer", mock.Anything, "bob").Return(mocks.Customer(2, "bob", mocks.Account(currency.RUB, "0")), nil).Once()
	f.accounts.On("UpdateAccountBalance", mock.Anything, "alice", currency.RUB, amount("90")).
		Return(nil).
		Run(func(mock.Arguments) { cancel() }).
		Once()
	f.accounts.On("UpdateAccountBalance", mock.MatchedBy(func(ctx context.Context) bool {
		return ctx.Err() == nil
	}), "bob", currency.RUB, amount("10")).Return(nil).Once()
	f.bus.On("Emit", mock.Anything, mock.Anything).Return(nil).Twice()

	res, err := f.svc.Transfer(ctx, "alice", request(currency.RUB, currency.RUB, "10", "bob"))
	require.NoError(t, err)
	assert.True(t, res.Success)
}
