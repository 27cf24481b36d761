package http

import (
	"net/http"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/simaogato/walletfolio-backend/internal/domain"
)

type pointResponse struct {
	Date  string          `json:"date"`
	Value decimal.Decimal `json:"value"`
}

type summaryResponse struct {
	QuoteCurrency     domain.Currency  `json:"quoteCurrency"`
	CurrentTotalValue decimal.Decimal  `json:"currentTotalValue"`
	OverallPL         decimal.Decimal  `json:"overallPL"`
	Allocation        []bucketResponse `json:"allocation"`
	TimeSeries        []pointResponse  `json:"timeSeries"`
}

// handleAnalyticsSummary returns the cross-wallet dashboard payload:
// combined valuation, category allocation and the carry-forward daily
// time series over the configured lookback window
func (s *Server) handleAnalyticsSummary(w http.ResponseWriter, r *http.Request) {
	quote := domain.Currency(strings.ToUpper(r.URL.Query().Get("vs")))
	if quote == "" {
		quote = domain.CurrencyEUR
	}
	if quote != domain.CurrencyEUR && quote != domain.CurrencyUSD {
		s.writeError(w, http.StatusBadRequest, "vs must be EUR or USD")
		return
	}

	summary, err := s.analytics.Summary(r.Context(), userFromContext(r.Context()), quote)
	if err != nil {
		s.log.Error().Err(err).Msg("Failed to compute analytics summary")
		s.writeError(w, http.StatusInternalServerError, "failed to compute summary")
		return
	}

	allocation := make([]bucketResponse, 0, len(summary.Allocation))
	for _, b := range summary.Allocation {
		allocation = append(allocation, bucketResponse{Name: b.Name, Value: b.Value})
	}

	series := make([]pointResponse, 0, len(summary.TimeSeries))
	for _, p := range summary.TimeSeries {
		series = append(series, pointResponse{Date: p.Date, Value: p.Value})
	}

	s.writeJSON(w, http.StatusOK, summaryResponse{
		QuoteCurrency:     summary.QuoteCurrency,
		CurrentTotalValue: summary.CurrentTotalValue,
		OverallPL:         summary.OverallPL,
		Allocation:        allocation,
		TimeSeries:        series,
	})
}
