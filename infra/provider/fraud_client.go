package provider

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/amirasaad/bankdemo/pkg/provider"
)

type fraudCheckResponse struct {
	IsFraudster bool `json:"isFraudster"`
}

// FraudClient talks to the fraud service.
type FraudClient struct {
	http   httpClient
	logger *slog.Logger
}

// NewFraudClient creates a client for the fraud service at baseURL.
func NewFraudClient(baseURL string, client *http.Client, logger *slog.Logger) *FraudClient {
	if logger == nil {
		logger = slog.Default()
	}
	return &FraudClient{
		http:   newHTTPClient(baseURL, client),
		logger: logger.With("client", "fraud"),
	}
}

// IsFraudster asks whether the customer is flagged.
func (c *FraudClient) IsFraudster(ctx context.Context, customerID int64) (bool, error) {
	var resp fraudCheckResponse
	if err := c.http.do(ctx, http.MethodGet, "/api/v1/fraud-check/"+strconv.FormatInt(customerID, 10), nil, &resp); err != nil {
		c.logger.Debug("fraud check failed", "customer_id", customerID, "error", err)
		return false, err
	}
	if resp.IsFraudster {
		c.logger.Info("customer flagged as fraudster", "customer_id", customerID)
	}
	return resp.IsFraudster, nil
}

var _ provider.FraudChecker = (*FraudClient)(nil)
