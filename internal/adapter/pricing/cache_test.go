package pricing

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simaogato/walletfolio-backend/internal/domain"
)

// stubQuoter records calls and answers from a fixed price table
type stubQuoter struct {
	table map[string]decimal.Decimal
	err   error
	calls [][]string
}

func (s *stubQuoter) Prices(_ context.Context, ids []string, _ domain.Currency) (map[string]decimal.Decimal, error) {
	sorted := append([]string(nil), ids...)
	sort.Strings(sorted)
	s.calls = append(s.calls, sorted)

	if s.err != nil {
		return nil, s.err
	}
	out := make(map[string]decimal.Decimal)
	for _, id := range ids {
		if p, ok := s.table[id]; ok {
			out[id] = p
		}
	}
	return out, nil
}

func TestCachedQuoter_ServesFreshEntriesWithoutRefetch(t *testing.T) {
	stub := &stubQuoter{table: map[string]decimal.Decimal{"bitcoin": decimal.NewFromInt(60000)}}
	cached := NewCached(stub, DefaultCacheTTL).(*cachedQuoter)

	now := time.Now()
	cached.now = func() time.Time { return now }

	first, err := cached.Prices(context.Background(), []string{"bitcoin"}, domain.CurrencyEUR)
	require.NoError(t, err)
	assert.True(t, first["bitcoin"].Equal(decimal.NewFromInt(60000)))

	second, err := cached.Prices(context.Background(), []string{"bitcoin"}, domain.CurrencyEUR)
	require.NoError(t, err)
	assert.True(t, second["bitcoin"].Equal(decimal.NewFromInt(60000)))

	assert.Len(t, stub.calls, 1, "second lookup must be served from cache")
}

func TestCachedQuoter_ExpiredEntriesRefetch(t *testing.T) {
	stub := &stubQuoter{table: map[string]decimal.Decimal{"bitcoin": decimal.NewFromInt(60000)}}
	cached := NewCached(stub, DefaultCacheTTL).(*cachedQuoter)

	now := time.Now()
	cached.now = func() time.Time { return now }

	_, err := cached.Prices(context.Background(), []string{"bitcoin"}, domain.CurrencyEUR)
	require.NoError(t, err)

	cached.now = func() time.Time { return now.Add(DefaultCacheTTL + time.Second) }

	_, err = cached.Prices(context.Background(), []string{"bitcoin"}, domain.CurrencyEUR)
	require.NoError(t, err)
	assert.Len(t, stub.calls, 2)
}

func TestCachedQuoter_OnlyMissingIDsForwarded(t *testing.T) {
	stub := &stubQuoter{table: map[string]decimal.Decimal{
		"bitcoin":  decimal.NewFromInt(60000),
		"ethereum": decimal.NewFromInt(3000),
	}}
	cached := NewCached(stub, DefaultCacheTTL).(*cachedQuoter)

	now := time.Now()
	cached.now = func() time.Time { return now }

	_, err := cached.Prices(context.Background(), []string{"bitcoin"}, domain.CurrencyEUR)
	require.NoError(t, err)

	prices, err := cached.Prices(context.Background(), []string{"bitcoin", "ethereum"}, domain.CurrencyEUR)
	require.NoError(t, err)
	require.Len(t, prices, 2)

	require.Len(t, stub.calls, 2)
	assert.Equal(t, []string{"ethereum"}, stub.calls[1])
}

func TestCachedQuoter_QuoteCurrencyIsolation(t *testing.T) {
	stub := &stubQuoter{table: map[string]decimal.Decimal{"bitcoin": decimal.NewFromInt(60000)}}
	cached := NewCached(stub, DefaultCacheTTL).(*cachedQuoter)

	now := time.Now()
	cached.now = func() time.Time { return now }

	_, err := cached.Prices(context.Background(), []string{"bitcoin"}, domain.CurrencyEUR)
	require.NoError(t, err)

	// Same id in another quote currency is a distinct cache entry
	_, err = cached.Prices(context.Background(), []string{"bitcoin"}, domain.CurrencyUSD)
	require.NoError(t, err)
	assert.Len(t, stub.calls, 2)
}

func TestCachedQuoter_ProviderErrorReturnsCachedPartial(t *testing.T) {
	stub := &stubQuoter{table: map[string]decimal.Decimal{"bitcoin": decimal.NewFromInt(60000)}}
	cached := NewCached(stub, DefaultCacheTTL).(*cachedQuoter)

	now := time.Now()
	cached.now = func() time.Time { return now }

	_, err := cached.Prices(context.Background(), []string{"bitcoin"}, domain.CurrencyEUR)
	require.NoError(t, err)

	stub.err = errors.New("connection refused")

	prices, err := cached.Prices(context.Background(), []string{"bitcoin", "ethereum"}, domain.CurrencyEUR)
	assert.Error(t, err)
	assert.True(t, prices["bitcoin"].Equal(decimal.NewFromInt(60000)), "cached hit survives the provider error")
}
