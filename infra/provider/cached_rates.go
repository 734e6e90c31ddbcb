package provider

import (
	"context"
	"log/slog"
	"maps"
	"time"

	"github.com/amirasaad/bankdemo/pkg/cache"
	"github.com/amirasaad/bankdemo/pkg/currency"
	"github.com/amirasaad/bankdemo/pkg/provider"
	"golang.org/x/sync/singleflight"
)

const ratesCacheKey = "current"

// CachedRateProvider serves the rate table from a cache and collapses
// concurrent misses into a single upstream fetch. Cache failures are logged
// and treated as misses.
type CachedRateProvider struct {
	next   provider.RateProvider
	cache  cache.RateTableCache
	ttl    time.Duration
	logger *slog.Logger
	group  singleflight.Group
}

func NewCachedRateProvider(next provider.RateProvider, c cache.RateTableCache, ttl time.Duration, logger *slog.Logger) *CachedRateProvider {
	if logger == nil {
		logger = slog.Default()
	}
	return &CachedRateProvider{
		next:   next,
		cache:  c,
		ttl:    ttl,
		logger: logger.With("provider", "cached_rates"),
	}
}

func (p *CachedRateProvider) GetRates(ctx context.Context) (currency.RateTable, error) {
	if table, ok := p.lookup(ctx); ok {
		return table, nil
	}

	v, err, shared := p.group.Do(ratesCacheKey, func() (any, error) {
		// another caller may have filled the cache while we waited
		if table, ok := p.lookup(ctx); ok {
			return table, nil
		}
		table, err := p.next.GetRates(ctx)
		if err != nil {
			return nil, err
		}
		if err := p.cache.Set(ctx, ratesCacheKey, table, p.ttl); err != nil {
			p.logger.Warn("failed to cache rates", "error", err)
		}
		return table, nil
	})
	if err != nil {
		return nil, err
	}
	if shared {
		p.logger.Debug("rate fetch shared between callers")
	}
	return maps.Clone(v.(currency.RateTable)), nil
}

func (p *CachedRateProvider) lookup(ctx context.Context) (currency.RateTable, bool) {
	table, ok, err := p.cache.Get(ctx, ratesCacheKey)
	if err != nil {
		p.logger.Warn("rate cache lookup failed", "error", err)
		return nil, false
	}
	return table, ok && len(table) > 0
}

var _ provider.RateProvider = (*CachedRateProvider)(nil)
