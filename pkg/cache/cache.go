package cache

import (
	"context"
	"time"

	"github.com/amirasaad/bankdemo/pkg/currency"
)

// RateTableCache stores rate tables for a limited time.
type RateTableCache interface {
	// Get returns ok == false on a miss or an expired entry.
	Get(ctx context.Context, key string) (table currency.RateTable, ok bool, err error)
	Set(ctx context.Context, key string, table currency.RateTable, ttl time.Duration) error
}
