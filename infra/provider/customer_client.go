package provider

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/amirasaad/bankdemo/pkg/currency"
	"github.com/amirasaad/bankdemo/pkg/domain"
	"github.com/amirasaad/bankdemo/pkg/money"
	"github.com/amirasaad/bankdemo/pkg/provider"
	"github.com/amirasaad/bankdemo/pkg/resilience"
)

// CustomerClient talks to the customer service, the system of record for
// customers and their balances.
type CustomerClient struct {
	http   httpClient
	logger *slog.Logger
}

// NewCustomerClient creates a client for the customer service at baseURL.
func NewCustomerClient(baseURL string, client *http.Client, logger *slog.Logger) *CustomerClient {
	if logger == nil {
		logger = slog.Default()
	}
	return &CustomerClient{
		http:   newHTTPClient(baseURL, client),
		logger: logger.With("client", "customers"),
	}
}

// GetCustomer fetches a customer with all of their accounts.
func (c *CustomerClient) GetCustomer(ctx context.Context, login string) (*domain.Customer, error) {
	var customer domain.Customer
	err := c.http.do(ctx, http.MethodGet, "/api/v1/customers/"+url.PathEscape(login), nil, &customer)
	if err != nil {
		if isNotFound(err) {
			return nil, resilience.Permanent(fmt.Errorf("%w: %s", domain.ErrCustomerNotFound, login))
		}
		c.logger.Debug("get customer failed", "login", login, "error", err)
		return nil, err
	}
	if customer.Login == "" {
		customer.Login = login
	}
	return &customer, nil
}

// UpdateAccountBalance overwrites the balance of one account.
func (c *CustomerClient) UpdateAccountBalance(ctx context.Context, login string, code currency.Code, balance money.Money) error {
	path := fmt.Sprintf("/api/v1/customers/%s/accounts/%s/balance", url.PathEscape(login), url.PathEscape(code.String()))
	err := c.http.do(ctx, http.MethodPut, path, balance, nil)
	if err != nil {
		if isNotFound(err) {
			return resilience.Permanent(fmt.Errorf("%w: %s %s", domain.ErrAccountNotFound, login, code))
		}
		c.logger.Debug("update balance failed", "login", login, "currency", code, "error", err)
		return err
	}
	return nil
}

var _ provider.AccountDirectory = (*CustomerClient)(nil)
