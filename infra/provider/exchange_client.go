package provider

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/amirasaad/bankdemo/pkg/currency"
	"github.com/amirasaad/bankdemo/pkg/provider"
)

// ExchangeClient fetches the current rate table from the exchange service.
type ExchangeClient struct {
	http   httpClient
	logger *slog.Logger
}

// NewExchangeClient creates a client for the exchange service at baseURL.
func NewExchangeClient(baseURL string, client *http.Client, logger *slog.Logger) *ExchangeClient {
	if logger == nil {
		logger = slog.Default()
	}
	return &ExchangeClient{
		http:   newHTTPClient(baseURL, client),
		logger: logger.With("client", "exchange"),
	}
}

// GetRates returns the rates published by the exchange service. Entries with
// unknown codes or non-positive values are dropped.
func (c *ExchangeClient) GetRates(ctx context.Context) (currency.RateTable, error) {
	var entries []currency.RateEntry
	if err := c.http.do(ctx, http.MethodGet, "/api/rates", nil, &entries); err != nil {
		c.logger.Debug("fetch rates failed", "error", err)
		return nil, err
	}
	table := currency.NewRateTable(entries)
	c.logger.Debug("fetched rates", "entries", len(entries), "usable", len(table))
	return table, nil
}

var _ provider.RateProvider = (*ExchangeClient)(nil)
