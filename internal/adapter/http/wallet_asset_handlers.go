package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/simaogato/walletfolio-backend/internal/domain"
)

type walletAssetRequest struct {
	Name  string          `json:"name"`
	Value decimal.Decimal `json:"value"`
}

type walletAssetResponse struct {
	ID        uuid.UUID       `json:"id"`
	WalletID  uuid.UUID       `json:"walletId"`
	Name      string          `json:"name"`
	Value     decimal.Decimal `json:"value"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

func toWalletAssetResponse(a *domain.WalletAsset) walletAssetResponse {
	return walletAssetResponse{
		ID:        a.ID,
		WalletID:  a.WalletID,
		Name:      a.Name,
		Value:     a.Value,
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
}

// handleListWalletAssets lists a wallet's manually-valued items
func (s *Server) handleListWalletAssets(w http.ResponseWriter, r *http.Request) {
	wallet := s.ownedWallet(w, r)
	if wallet == nil {
		return
	}

	assets, err := s.walletAssetRepo.ListByWallet(r.Context(), wallet.ID)
	if err != nil {
		s.log.Error().Err(err).Msg("Failed to list wallet assets")
		s.writeError(w, http.StatusInternalServerError, "failed to list wallet assets")
		return
	}

	response := make([]walletAssetResponse, 0, len(assets))
	for _, asset := range assets {
		response = append(response, toWalletAssetResponse(asset))
	}

	s.writeJSON(w, http.StatusOK, response)
}

// handleCreateWalletAsset adds a manually-valued item to a wallet.
// Negative values model debts. No snapshot is recorded; these items are
// revalued on the next snapshot of any reason.
func (s *Server) handleCreateWalletAsset(w http.ResponseWriter, r *http.Request) {
	wallet := s.ownedWallet(w, r)
	if wallet == nil {
		return
	}

	var req walletAssetRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	now := time.Now().UTC()
	asset := &domain.WalletAsset{
		ID:        uuid.New(),
		WalletID:  wallet.ID,
		Name:      req.Name,
		Value:     req.Value,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := asset.Validate(); err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.walletAssetRepo.Create(r.Context(), asset); err != nil {
		s.log.Error().Err(err).Msg("Failed to create wallet asset")
		s.writeError(w, http.StatusInternalServerError, "failed to create wallet asset")
		return
	}

	s.writeJSON(w, http.StatusCreated, toWalletAssetResponse(asset))
}

// handleDeleteWalletAsset removes a manually-valued item
func (s *Server) handleDeleteWalletAsset(w http.ResponseWriter, r *http.Request) {
	wallet := s.ownedWallet(w, r)
	if wallet == nil {
		return
	}

	walletAssetID, err := pathUUID(r, "walletAssetID")
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid wallet asset id")
		return
	}

	if err := s.walletAssetRepo.Delete(r.Context(), walletAssetID, wallet.ID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			s.writeError(w, http.StatusNotFound, "wallet asset not found")
			return
		}
		s.log.Error().Err(err).Msg("Failed to delete wallet asset")
		s.writeError(w, http.StatusInternalServerError, "failed to delete wallet asset")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
