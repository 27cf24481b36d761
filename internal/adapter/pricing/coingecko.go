package pricing

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/simaogato/walletfolio-backend/internal/domain"
)

const coinGeckoBaseURL = "https://api.coingecko.com/api/v3"

// CoinGeckoClient fetches crypto spot prices from the CoinGecko
// simple/price endpoint. No API key is required.
type CoinGeckoClient struct {
	baseURL string
	client  *http.Client
	log     zerolog.Logger
}

// NewCoinGeckoClient creates a new CoinGecko client
func NewCoinGeckoClient(log zerolog.Logger) *CoinGeckoClient {
	return &CoinGeckoClient{
		baseURL: coinGeckoBaseURL,
		client:  &http.Client{Timeout: 10 * time.Second},
		log:     log.With().Str("client", "coingecko").Logger(),
	}
}

// Prices looks up current prices for a batch of CoinGecko coin ids.
// An empty id list short-circuits to an empty result. A non-2xx response
// yields an empty result rather than an error: the caller treats it as
// "no prices this round".
func (c *CoinGeckoClient) Prices(ctx context.Context, ids []string, quote domain.Currency) (map[string]decimal.Decimal, error) {
	prices := make(map[string]decimal.Decimal)
	if len(ids) == 0 {
		return prices, nil
	}

	vs := vsCurrency(quote)

	u, err := url.Parse(c.baseURL + "/simple/price")
	if err != nil {
		return nil, fmt.Errorf("failed to build coingecko url: %w", err)
	}
	q := u.Query()
	q.Set("ids", strings.Join(ids, ","))
	q.Set("vs_currencies", vs)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build coingecko request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("coingecko request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.log.Warn().Int("status", resp.StatusCode).Int("ids", len(ids)).
			Msg("CoinGecko returned non-2xx, skipping prices this round")
		return prices, nil
	}

	// Payload shape: { "<id>": { "<vs>": 12345.67 }, ... }
	var payload map[string]map[string]float64
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to parse coingecko response: %w", err)
	}

	for _, id := range ids {
		row, ok := payload[id]
		if !ok {
			continue
		}
		if p, ok := row[vs]; ok {
			prices[id] = decimal.NewFromFloat(p)
		}
	}

	return prices, nil
}
