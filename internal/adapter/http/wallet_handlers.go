package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/simaogato/walletfolio-backend/internal/domain"
	"github.com/simaogato/walletfolio-backend/internal/usecase/valuation"
)

type walletRequest struct {
	Name     string          `json:"name"`
	Currency domain.Currency `json:"currency"`
}

type walletResponse struct {
	ID        uuid.UUID       `json:"id"`
	UserID    uuid.UUID       `json:"userId"`
	Name      string          `json:"name"`
	Currency  domain.Currency `json:"currency"`
	CreatedAt time.Time       `json:"createdAt"`
}

type bucketResponse struct {
	Name  string          `json:"name"`
	Value decimal.Decimal `json:"value"`
}

type valuationResponse struct {
	MainValue         decimal.Decimal  `json:"mainValue"`
	OtherValue        decimal.Decimal  `json:"otherValue"`
	CurrentTotalValue decimal.Decimal  `json:"currentTotalValue"`
	Invested          decimal.Decimal  `json:"invested"`
	OverallPL         decimal.Decimal  `json:"overallPL"`
	Allocation        []bucketResponse `json:"allocation"`
}

type walletDetailResponse struct {
	walletResponse
	Valuation valuationResponse `json:"valuation"`
}

func toWalletResponse(w *domain.Wallet) walletResponse {
	return walletResponse{
		ID:        w.ID,
		UserID:    w.UserID,
		Name:      w.Name,
		Currency:  w.Currency,
		CreatedAt: w.CreatedAt,
	}
}

func toValuationResponse(result *valuation.Result) valuationResponse {
	allocation := make([]bucketResponse, 0, len(result.Allocation))
	for _, b := range result.Allocation {
		allocation = append(allocation, bucketResponse{Name: b.Name, Value: b.Value.Round(2)})
	}

	return valuationResponse{
		MainValue:         result.MainValue.Round(2),
		OtherValue:        result.OtherValue.Round(2),
		CurrentTotalValue: result.CurrentTotalValue.Round(2),
		Invested:          result.Invested.Round(2),
		OverallPL:         result.OverallPL.Round(2),
		Allocation:        allocation,
	}
}

// handleListWallets lists the authenticated user's wallets
func (s *Server) handleListWallets(w http.ResponseWriter, r *http.Request) {
	wallets, err := s.walletRepo.ListByUser(r.Context(), userFromContext(r.Context()))
	if err != nil {
		s.log.Error().Err(err).Msg("Failed to list wallets")
		s.writeError(w, http.StatusInternalServerError, "failed to list wallets")
		return
	}

	response := make([]walletResponse, 0, len(wallets))
	for _, wallet := range wallets {
		response = append(response, toWalletResponse(wallet))
	}

	s.writeJSON(w, http.StatusOK, response)
}

// handleCreateWallet creates a new wallet for the authenticated user
func (s *Server) handleCreateWallet(w http.ResponseWriter, r *http.Request) {
	var req walletRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	wallet := &domain.Wallet{
		ID:        uuid.New(),
		UserID:    userFromContext(r.Context()),
		Name:      req.Name,
		Currency:  req.Currency,
		CreatedAt: time.Now().UTC(),
	}

	if err := wallet.Validate(); err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.walletRepo.Create(r.Context(), wallet); err != nil {
		s.log.Error().Err(err).Msg("Failed to create wallet")
		s.writeError(w, http.StatusInternalServerError, "failed to create wallet")
		return
	}

	s.writeJSON(w, http.StatusCreated, toWalletResponse(wallet))
}

// handleGetWallet returns a wallet with its live valuation.
// Viewing a wallet also guarantees today's snapshot exists, so charts
// stay populated even on days without ledger activity.
func (s *Server) handleGetWallet(w http.ResponseWriter, r *http.Request) {
	wallet := s.ownedWallet(w, r)
	if wallet == nil {
		return
	}

	if _, err := s.snapshots.EnsureDailySnapshot(r.Context(), wallet.ID); err != nil {
		s.log.Warn().Err(err).Str("wallet_id", wallet.ID.String()).Msg("Daily snapshot check failed")
	}

	result, err := s.valuation.ValueWallet(r.Context(), wallet)
	if err != nil {
		s.log.Error().Err(err).Str("wallet_id", wallet.ID.String()).Msg("Failed to value wallet")
		s.writeError(w, http.StatusInternalServerError, "failed to value wallet")
		return
	}

	s.writeJSON(w, http.StatusOK, walletDetailResponse{
		walletResponse: toWalletResponse(wallet),
		Valuation:      toValuationResponse(result),
	})
}

// handleUpdateWallet changes a wallet's name and currency
func (s *Server) handleUpdateWallet(w http.ResponseWriter, r *http.Request) {
	wallet := s.ownedWallet(w, r)
	if wallet == nil {
		return
	}

	var req walletRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	wallet.Name = req.Name
	wallet.Currency = req.Currency

	if err := wallet.Validate(); err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.walletRepo.Update(r.Context(), wallet); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			s.writeError(w, http.StatusNotFound, "wallet not found")
			return
		}
		s.log.Error().Err(err).Msg("Failed to update wallet")
		s.writeError(w, http.StatusInternalServerError, "failed to update wallet")
		return
	}

	s.writeJSON(w, http.StatusOK, toWalletResponse(wallet))
}

// handleDeleteWallet removes a wallet and everything it owns
func (s *Server) handleDeleteWallet(w http.ResponseWriter, r *http.Request) {
	wallet := s.ownedWallet(w, r)
	if wallet == nil {
		return
	}

	if err := s.walletRepo.Delete(r.Context(), wallet.ID); err != nil {
		s.log.Error().Err(err).Msg("Failed to delete wallet")
		s.writeError(w, http.StatusInternalServerError, "failed to delete wallet")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
