// Package pricing resolves live unit prices for catalog assets from the
// upstream quote providers (CoinGecko for crypto, TwelveData for equities
// and ETFs). Provider failures always degrade to missing prices; the
// valuation pipeline never sees a pricing error as fatal.
package pricing

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/simaogato/walletfolio-backend/internal/domain"
)

// Quoter looks up current unit prices for a batch of provider-specific
// identifiers in a quote currency. Identifiers that cannot be resolved are
// simply absent from the result map; partial failure is not an error.
type Quoter interface {
	Prices(ctx context.Context, ids []string, quote domain.Currency) (map[string]decimal.Decimal, error)
}

// Resolver routes priced assets to their bound provider and merges the
// provider results into a per-asset price map
type Resolver struct {
	crypto Quoter
	equity Quoter
	log    zerolog.Logger
}

// NewResolver creates a Resolver over the two provider clients
func NewResolver(crypto, equity Quoter, log zerolog.Logger) *Resolver {
	return &Resolver{
		crypto: crypto,
		equity: equity,
		log:    log.With().Str("component", "price_resolver").Logger(),
	}
}

type boundAsset struct {
	assetID uuid.UUID
	apiID   string
}

// Resolve fetches live prices for all priceable assets in the batch.
// Both providers are queried concurrently. MANUAL assets, assets without a
// provider identifier and assets the providers cannot price are absent
// from the result - the caller values them at zero.
func (r *Resolver) Resolve(ctx context.Context, assets []*domain.Asset, quote domain.Currency) map[uuid.UUID]decimal.Decimal {
	var cg, td []boundAsset

	for _, a := range assets {
		if a == nil || !a.Priceable() {
			continue
		}
		switch a.Provider {
		case domain.ProviderCoinGecko:
			cg = append(cg, boundAsset{assetID: a.ID, apiID: a.APIID})
		case domain.ProviderTwelveData:
			td = append(td, boundAsset{assetID: a.ID, apiID: a.APIID})
		}
	}

	var (
		wg    sync.WaitGroup
		cgMap map[string]decimal.Decimal
		tdMap map[string]decimal.Decimal
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		cgMap = r.fetch(ctx, r.crypto, "coingecko", apiIDs(cg), quote)
	}()
	go func() {
		defer wg.Done()
		tdMap = r.fetch(ctx, r.equity, "twelvedata", apiIDs(td), quote)
	}()
	wg.Wait()

	prices := make(map[uuid.UUID]decimal.Decimal)
	for _, b := range cg {
		if p, ok := cgMap[b.apiID]; ok {
			prices[b.assetID] = p
		}
	}
	for _, b := range td {
		if p, ok := tdMap[b.apiID]; ok {
			prices[b.assetID] = p
		}
	}

	return prices
}

// fetch queries one provider and absorbs any transport error into an
// empty result, logging it. Repeated calls are idempotent and cheap to
// retry, so no retry loop lives here.
func (r *Resolver) fetch(ctx context.Context, q Quoter, name string, ids []string, quote domain.Currency) map[string]decimal.Decimal {
	if len(ids) == 0 {
		return nil
	}

	prices, err := q.Prices(ctx, ids, quote)
	if err != nil {
		r.log.Warn().Err(err).Str("provider", name).Int("ids", len(ids)).
			Msg("Price lookup failed, assets stay unpriced this round")
		return nil
	}
	return prices
}

func apiIDs(bound []boundAsset) []string {
	seen := make(map[string]struct{}, len(bound))
	ids := make([]string, 0, len(bound))
	for _, b := range bound {
		if _, ok := seen[b.apiID]; ok {
			continue
		}
		seen[b.apiID] = struct{}{}
		ids = append(ids, b.apiID)
	}
	return ids
}

// vsCurrency maps a wallet quote currency to the lowercase form the
// providers expect, defaulting to eur
func vsCurrency(quote domain.Currency) string {
	if strings.EqualFold(string(quote), "usd") {
		return "usd"
	}
	return "eur"
}
