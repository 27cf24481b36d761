package pricing

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/simaogato/walletfolio-backend/internal/domain"
)

// DefaultCacheTTL bounds call volume against provider rate limits.
// Caching is a performance concern only: a stale or missing entry never
// changes correctness, it just costs another upstream call.
const DefaultCacheTTL = 60 * time.Second

type cachedPrice struct {
	price   decimal.Decimal
	fetched time.Time
}

// cachedQuoter wraps a Quoter with a short in-memory TTL cache keyed by
// quote currency and provider identifier
type cachedQuoter struct {
	next Quoter
	ttl  time.Duration
	now  func() time.Time

	mu      sync.RWMutex
	entries map[string]cachedPrice
}

// NewCached wraps a provider client with a TTL price cache
func NewCached(next Quoter, ttl time.Duration) Quoter {
	return &cachedQuoter{
		next:    next,
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]cachedPrice),
	}
}

// Prices serves fresh cached entries and forwards only the missing ids to
// the underlying provider. Unresolvable ids are not negatively cached, so
// a provider hiccup heals on the next call.
func (c *cachedQuoter) Prices(ctx context.Context, ids []string, quote domain.Currency) (map[string]decimal.Decimal, error) {
	prices := make(map[string]decimal.Decimal, len(ids))
	var missing []string

	now := c.now()
	c.mu.RLock()
	for _, id := range ids {
		entry, ok := c.entries[cacheKey(id, quote)]
		if ok && now.Sub(entry.fetched) < c.ttl {
			prices[id] = entry.price
		} else {
			missing = append(missing, id)
		}
	}
	c.mu.RUnlock()

	if len(missing) == 0 {
		return prices, nil
	}

	fetched, err := c.next.Prices(ctx, missing, quote)
	if err != nil {
		// Partial cached result still counts; the caller decides how to log
		return prices, err
	}

	c.mu.Lock()
	for id, p := range fetched {
		c.entries[cacheKey(id, quote)] = cachedPrice{price: p, fetched: now}
		prices[id] = p
	}
	c.mu.Unlock()

	return prices, nil
}

func cacheKey(id string, quote domain.Currency) string {
	return vsCurrency(quote) + ":" + id
}
