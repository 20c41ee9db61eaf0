// Package cache provides Redis backed helpers: a read-through exchange rate cache and a
// distributed lock.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/household_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/household_ledger/internal/core/ports/repositories"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
)

// RateCache serves GetRate from Redis and falls back to the wrapped provider on a miss.
// Saving a rate bumps the pair's version so every cached lookup of that pair goes stale.
type RateCache struct {
	client redis.UniversalClient
	rates  portsrepo.RateProvider
	writer portsrepo.ExchangeRateWriter
	ttl    time.Duration
	logger *slog.Logger
}

// NewRateCache wraps rates and writer. A non-positive ttl defaults to one hour.
func NewRateCache(client redis.UniversalClient, rates portsrepo.RateProvider, writer portsrepo.ExchangeRateWriter, ttl time.Duration, logger *slog.Logger) *RateCache {
	if ttl <= 0 {
		ttl = time.Hour
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &RateCache{client: client, rates: rates, writer: writer, ttl: ttl, logger: logger}
}

var (
	_ portsrepo.RateProvider       = (*RateCache)(nil)
	_ portsrepo.ExchangeRateWriter = (*RateCache)(nil)
)

type cachedRate struct {
	Rate decimal.Decimal `json:"rate"`
	OK   bool            `json:"ok"`
}

func versionKey(from, to string) string {
	return fmt.Sprintf("fx:version:%s:%s", from, to)
}

func rateKey(from, to string, version int64, on domain.Date) string {
	return fmt.Sprintf("fx:%s:%s:v%d:%s", from, to, version, on)
}

func (c *RateCache) version(ctx context.Context, from, to string) (int64, error) {
	v, err := c.client.Get(ctx, versionKey(from, to)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return v, err
}

// GetRate answers from the cache when possible. Redis failures degrade to the wrapped provider.
func (c *RateCache) GetRate(ctx context.Context, from, to string, on domain.Date) (decimal.Decimal, bool, error) {
	version, err := c.version(ctx, from, to)
	if err != nil {
		c.logger.WarnContext(ctx, "Rate cache unavailable", slog.String("error", err.Error()))
		return c.rates.GetRate(ctx, from, to, on)
	}
	key := rateKey(from, to, version, on)

	if raw, err := c.client.Get(ctx, key).Bytes(); err == nil {
		var hit cachedRate
		if err := json.Unmarshal(raw, &hit); err == nil {
			return hit.Rate, hit.OK, nil
		}
	} else if !errors.Is(err, redis.Nil) {
		c.logger.WarnContext(ctx, "Rate cache read failed", slog.String("key", key), slog.String("error", err.Error()))
	}

	rate, ok, err := c.rates.GetRate(ctx, from, to, on)
	if err != nil {
		return decimal.Zero, false, err
	}
	raw, _ := json.Marshal(cachedRate{Rate: rate, OK: ok})
	if err := c.client.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		c.logger.WarnContext(ctx, "Rate cache write failed", slog.String("key", key), slog.String("error", err.Error()))
	}
	return rate, ok, nil
}

// SaveExchangeRate writes through and invalidates the pair.
func (c *RateCache) SaveExchangeRate(ctx context.Context, rate domain.ExchangeRate) error {
	if err := c.writer.SaveExchangeRate(ctx, rate); err != nil {
		return err
	}
	if err := c.client.Incr(ctx, versionKey(rate.FromCurrencyCode, rate.ToCurrencyCode)).Err(); err != nil {
		c.logger.WarnContext(ctx, "Rate cache invalidation failed",
			slog.String("from", rate.FromCurrencyCode), slog.String("to", rate.ToCurrencyCode), slog.String("error", err.Error()))
	}
	return nil
}
