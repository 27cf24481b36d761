package pricing

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/simaogato/walletfolio-backend/internal/domain"
)

const twelveDataBaseURL = "https://api.twelvedata.com"

// TwelveDataClient fetches stock and ETF quotes from the TwelveData quote
// endpoint. An API key is required; without one the client silently
// resolves nothing, narrowing the tracker to crypto-only pricing.
type TwelveDataClient struct {
	baseURL string
	apiKey  string
	client  *http.Client
	log     zerolog.Logger
}

// NewTwelveDataClient creates a new TwelveData client.
// apiKey may be empty - equity pricing is then disabled, not an error.
func NewTwelveDataClient(apiKey string, log zerolog.Logger) *TwelveDataClient {
	return &TwelveDataClient{
		baseURL: twelveDataBaseURL,
		apiKey:  apiKey,
		client:  &http.Client{Timeout: 10 * time.Second},
		log:     log.With().Str("client", "twelvedata").Logger(),
	}
}

// Prices looks up current quotes for a batch of symbols.
// The upstream answers in two shapes: a single quote object when one
// symbol is requested, and a map of symbol to quote row for a batch.
// Upstream error payloads carry status "error" and are treated as no
// data. The unit price is probed from close, price, last and
// previous_close in that order, first finite number wins.
func (c *TwelveDataClient) Prices(ctx context.Context, ids []string, quote domain.Currency) (map[string]decimal.Decimal, error) {
	prices := make(map[string]decimal.Decimal)
	if len(ids) == 0 || c.apiKey == "" {
		return prices, nil
	}

	u, err := url.Parse(c.baseURL + "/quote")
	if err != nil {
		return nil, fmt.Errorf("failed to build twelvedata url: %w", err)
	}
	q := u.Query()
	q.Set("symbol", strings.Join(ids, ","))
	q.Set("apikey", c.apiKey)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build twelvedata request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("twelvedata request failed: %w", err)
	}
	defer resp.Body.Close()

	var payload map[string]json.RawMessage
	decodeErr := json.NewDecoder(resp.Body).Decode(&payload)

	if resp.StatusCode < 200 || resp.StatusCode > 299 || isErrorPayload(payload) {
		c.log.Error().Int("status", resp.StatusCode).Int("symbols", len(ids)).
			Msg("TwelveData returned an error payload, skipping quotes this round")
		return prices, nil
	}
	if decodeErr != nil {
		return nil, fmt.Errorf("failed to parse twelvedata response: %w", decodeErr)
	}

	// Shape 1: single quote object, recognisable by its symbol field
	if raw, ok := payload["symbol"]; ok {
		var sym string
		if err := json.Unmarshal(raw, &sym); err == nil && sym != "" {
			if p, ok := probePrice(payload); ok {
				prices[sym] = p
			}
			return prices, nil
		}
	}

	// Shape 2: batch map of symbol -> quote row
	for _, sym := range ids {
		raw, ok := payload[sym]
		if !ok {
			continue
		}
		var row map[string]json.RawMessage
		if err := json.Unmarshal(raw, &row); err != nil {
			continue
		}
		if p, ok := probePrice(row); ok {
			prices[sym] = p
		}
	}

	return prices, nil
}

// priceFields in preference order
var priceFields = []string{"close", "price", "last", "previous_close"}

// probePrice extracts the first finite numeric price from a quote row.
// TwelveData encodes numbers as JSON strings, so both forms are accepted.
func probePrice(row map[string]json.RawMessage) (decimal.Decimal, bool) {
	for _, field := range priceFields {
		raw, ok := row[field]
		if !ok {
			continue
		}
		if v, ok := asFinite(raw); ok {
			return decimal.NewFromFloat(v), true
		}
	}
	return decimal.Decimal{}, false
}

func asFinite(raw json.RawMessage) (float64, bool) {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
		return v, !math.IsInf(v, 0) && !math.IsNaN(v)
	}

	var v float64
	if err := json.Unmarshal(raw, &v); err == nil {
		return v, !math.IsInf(v, 0) && !math.IsNaN(v)
	}
	return 0, false
}

func isErrorPayload(payload map[string]json.RawMessage) bool {
	raw, ok := payload["status"]
	if !ok {
		return false
	}
	var status string
	if err := json.Unmarshal(raw, &status); err != nil {
		return false
	}
	return status == "error"
}
