package http

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/simaogato/walletfolio-backend/internal/domain"
)

type assetRequest struct {
	Class    domain.AssetClass    `json:"class"`
	Symbol   string               `json:"symbol"`
	Name     string               `json:"name"`
	Provider domain.PriceProvider `json:"provider"`
	APIID    string               `json:"apiId"`
	Exchange string               `json:"exchange"`
}

type assetResponse struct {
	ID       uuid.UUID            `json:"id"`
	Class    domain.AssetClass    `json:"class"`
	Symbol   string               `json:"symbol"`
	Name     string               `json:"name"`
	Provider domain.PriceProvider `json:"provider"`
	APIID    string               `json:"apiId,omitempty"`
	Exchange string               `json:"exchange,omitempty"`
}

type priceResponse struct {
	AssetID uuid.UUID       `json:"assetId"`
	Symbol  string          `json:"symbol"`
	Price   decimal.Decimal `json:"price"`
}

func toAssetResponse(a *domain.Asset) assetResponse {
	return assetResponse{
		ID:       a.ID,
		Class:    a.Class,
		Symbol:   a.Symbol,
		Name:     a.Name,
		Provider: a.Provider,
		APIID:    a.APIID,
		Exchange: a.Exchange,
	}
}

// handleListAssets returns the shared asset catalog
func (s *Server) handleListAssets(w http.ResponseWriter, r *http.Request) {
	assets, err := s.assetRepo.List(r.Context())
	if err != nil {
		s.log.Error().Err(err).Msg("Failed to list assets")
		s.writeError(w, http.StatusInternalServerError, "failed to list assets")
		return
	}

	response := make([]assetResponse, 0, len(assets))
	for _, asset := range assets {
		response = append(response, toAssetResponse(asset))
	}

	s.writeJSON(w, http.StatusOK, response)
}

// handleCreateAsset adds a new catalog entry
func (s *Server) handleCreateAsset(w http.ResponseWriter, r *http.Request) {
	var req assetRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	asset := &domain.Asset{
		ID:       uuid.New(),
		Class:    req.Class,
		Symbol:   req.Symbol,
		Name:     req.Name,
		Provider: req.Provider,
		APIID:    req.APIID,
		Exchange: req.Exchange,
	}

	if err := asset.Validate(); err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.assetRepo.Create(r.Context(), asset); err != nil {
		s.log.Error().Err(err).Msg("Failed to create asset")
		s.writeError(w, http.StatusInternalServerError, "failed to create asset")
		return
	}

	s.writeJSON(w, http.StatusCreated, toAssetResponse(asset))
}

// handleGetPrices resolves live prices for the requested catalog assets.
// Assets the providers cannot price right now are absent from the
// result rather than failing the request.
func (s *Server) handleGetPrices(w http.ResponseWriter, r *http.Request) {
	ids, err := parseAssetIDs(r.URL.Query().Get("assetIds"))
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid assetIds parameter")
		return
	}
	if len(ids) == 0 {
		s.writeError(w, http.StatusBadRequest, "assetIds parameter is required")
		return
	}

	quote := domain.Currency(strings.ToUpper(r.URL.Query().Get("vs")))
	if quote == "" {
		quote = domain.CurrencyEUR
	}
	if quote != domain.CurrencyEUR && quote != domain.CurrencyUSD {
		s.writeError(w, http.StatusBadRequest, "vs must be EUR or USD")
		return
	}

	assets, err := s.assetRepo.ListByIDs(r.Context(), ids)
	if err != nil {
		s.log.Error().Err(err).Msg("Failed to load assets")
		s.writeError(w, http.StatusInternalServerError, "failed to load assets")
		return
	}

	prices := s.prices.Resolve(r.Context(), assets, quote)

	response := make([]priceResponse, 0, len(prices))
	for _, asset := range assets {
		price, ok := prices[asset.ID]
		if !ok {
			continue
		}
		response = append(response, priceResponse{
			AssetID: asset.ID,
			Symbol:  asset.Symbol,
			Price:   price,
		})
	}

	s.writeJSON(w, http.StatusOK, response)
}

func parseAssetIDs(raw string) ([]uuid.UUID, error) {
	if raw == "" {
		return nil, nil
	}

	parts := strings.Split(raw, ",")
	ids := make([]uuid.UUID, 0, len(parts))
	for _, part := range parts {
		id, err := uuid.Parse(strings.TrimSpace(part))
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}
