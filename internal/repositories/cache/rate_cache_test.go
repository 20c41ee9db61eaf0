package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/SscSPs/household_ledger/internal/core/domain"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockRates struct {
	mock.Mock
}

func (m *mockRates) GetRate(ctx context.Context, from, to string, on domain.Date) (decimal.Decimal, bool, error) {
	args := m.Called(ctx, from, to, on)
	return args.Get(0).(decimal.Decimal), args.Bool(1), args.Error(2)
}

func (m *mockRates) SaveExchangeRate(ctx context.Context, rate domain.ExchangeRate) error {
	return m.Called(ctx, rate).Error(0)
}

func TestRateKey(t *testing.T) {
	assert.Equal(t, "fx:EUR:USD:v3:2024-05-01", rateKey("EUR", "USD", 3, domain.NewDate(2024, 5, 1)))
	assert.Equal(t, "fx:version:EUR:USD", versionKey("EUR", "USD"))
}

func redisClient(t *testing.T) redis.UniversalClient {
	t.Helper()
	url := os.Getenv("REDIS_URL")
	if url == "" {
		t.Skip("REDIS_URL not set")
	}
	opts, err := redis.ParseURL(url)
	require.NoError(t, err)
	client := redis.NewClient(opts)
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestRateCacheReadThroughAndInvalidate(t *testing.T) {
	client := redisClient(t)
	ctx := context.Background()
	// random pair so reruns do not see old entries
	from, to := uuid.NewString()[:8], "USD"
	on := domain.NewDate(2024, 5, 1)

	rates := new(mockRates)
	rates.On("GetRate", mock.Anything, from, to, on).Return(decimal.RequireFromString("1.1"), true, nil).Once()
	c := NewRateCache(client, rates, rates, time.Minute, nil)

	for i := 0; i < 2; i++ {
		rate, ok, err := c.GetRate(ctx, from, to, on)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.True(t, decimal.RequireFromString("1.1").Equal(rate))
	}
	rates.AssertNumberOfCalls(t, "GetRate", 1)

	rates.On("SaveExchangeRate", mock.Anything, mock.Anything).Return(nil).Once()
	require.NoError(t, c.SaveExchangeRate(ctx, domain.ExchangeRate{FromCurrencyCode: from, ToCurrencyCode: to}))

	rates.On("GetRate", mock.Anything, from, to, on).Return(decimal.RequireFromString("1.2"), true, nil).Once()
	rate, _, err := c.GetRate(ctx, from, to, on)
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("1.2").Equal(rate))
	rates.AssertExpectations(t)
}

func TestWithLockExcludesSecondHolder(t *testing.T) {
	client := redisClient(t)
	ctx := context.Background()
	key := "lock:test:" + uuid.NewString()

	err := WithLock(ctx, client, key, 5*time.Second, 0, func(ctx context.Context) error {
		inner := WithLock(ctx, client, key, 5*time.Second, 0, func(context.Context) error { return nil })
		assert.ErrorIs(t, inner, ErrLockNotObtained)
		return nil
	})
	require.NoError(t, err)
}
