package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/simaogato/walletfolio-backend/internal/domain"
)

type transactionRequest struct {
	AssetID      uuid.UUID              `json:"assetId"`
	Type         domain.TransactionType `json:"type"`
	Quantity     decimal.Decimal        `json:"quantity"`
	PricePerUnit decimal.Decimal        `json:"pricePerUnit"`
	Date         time.Time              `json:"date"`
	Note         string                 `json:"note"`
}

type transactionResponse struct {
	ID           uuid.UUID              `json:"id"`
	WalletID     uuid.UUID              `json:"walletId"`
	AssetID      uuid.UUID              `json:"assetId"`
	Type         domain.TransactionType `json:"type"`
	Quantity     decimal.Decimal        `json:"quantity"`
	PricePerUnit decimal.Decimal        `json:"pricePerUnit"`
	Date         time.Time              `json:"date"`
	Note         string                 `json:"note,omitempty"`
}

func toTransactionResponse(tx *domain.Transaction) transactionResponse {
	return transactionResponse{
		ID:           tx.ID,
		WalletID:     tx.WalletID,
		AssetID:      tx.AssetID,
		Type:         tx.Type,
		Quantity:     tx.Quantity,
		PricePerUnit: tx.PricePerUnit,
		Date:         tx.Date,
		Note:         tx.Note,
	}
}

// handleListTransactions returns a wallet's ledger in ascending date order
func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	wallet := s.ownedWallet(w, r)
	if wallet == nil {
		return
	}

	txs, err := s.transactionRepo.ListByWallet(r.Context(), wallet.ID)
	if err != nil {
		s.log.Error().Err(err).Msg("Failed to list transactions")
		s.writeError(w, http.StatusInternalServerError, "failed to list transactions")
		return
	}

	response := make([]transactionResponse, 0, len(txs))
	for _, tx := range txs {
		response = append(response, toTransactionResponse(tx))
	}

	s.writeJSON(w, http.StatusOK, response)
}

// handleCreateTransaction appends a new ledger entry and records a
// revaluation snapshot
func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	wallet := s.ownedWallet(w, r)
	if wallet == nil {
		return
	}

	var req transactionRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	tx := &domain.Transaction{
		ID:           uuid.New(),
		WalletID:     wallet.ID,
		AssetID:      req.AssetID,
		Type:         req.Type,
		Quantity:     req.Quantity,
		PricePerUnit: req.PricePerUnit,
		Date:         req.Date,
		Note:         req.Note,
	}

	if err := tx.Validate(); err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	// The referenced asset must exist in the catalog
	if _, err := s.assetRepo.GetByID(r.Context(), tx.AssetID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			s.writeError(w, http.StatusBadRequest, "unknown asset")
			return
		}
		s.log.Error().Err(err).Msg("Failed to load asset")
		s.writeError(w, http.StatusInternalServerError, "failed to load asset")
		return
	}

	if err := s.transactionRepo.Create(r.Context(), tx); err != nil {
		s.log.Error().Err(err).Msg("Failed to create transaction")
		s.writeError(w, http.StatusInternalServerError, "failed to create transaction")
		return
	}

	s.snapshots.Record(r.Context(), wallet.ID, domain.SnapshotReasonTxAdd)

	s.writeJSON(w, http.StatusCreated, toTransactionResponse(tx))
}

// handleUpdateTransaction edits an existing ledger entry and records a
// revaluation snapshot
func (s *Server) handleUpdateTransaction(w http.ResponseWriter, r *http.Request) {
	wallet := s.ownedWallet(w, r)
	if wallet == nil {
		return
	}

	transactionID, err := pathUUID(r, "transactionID")
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid transaction id")
		return
	}

	tx, err := s.transactionRepo.GetByID(r.Context(), transactionID, wallet.ID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			s.writeError(w, http.StatusNotFound, "transaction not found")
			return
		}
		s.log.Error().Err(err).Msg("Failed to load transaction")
		s.writeError(w, http.StatusInternalServerError, "failed to load transaction")
		return
	}

	var req transactionRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	tx.Quantity = req.Quantity
	tx.PricePerUnit = req.PricePerUnit
	tx.Date = req.Date
	tx.Note = req.Note

	if err := tx.Validate(); err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.transactionRepo.Update(r.Context(), tx); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			s.writeError(w, http.StatusNotFound, "transaction not found")
			return
		}
		s.log.Error().Err(err).Msg("Failed to update transaction")
		s.writeError(w, http.StatusInternalServerError, "failed to update transaction")
		return
	}

	s.snapshots.Record(r.Context(), wallet.ID, domain.SnapshotReasonTxEdit)

	s.writeJSON(w, http.StatusOK, toTransactionResponse(tx))
}

// handleDeleteTransaction removes a ledger entry and records a
// revaluation snapshot
func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	wallet := s.ownedWallet(w, r)
	if wallet == nil {
		return
	}

	transactionID, err := pathUUID(r, "transactionID")
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid transaction id")
		return
	}

	// Scope the lookup to the wallet before deleting by bare id
	if _, err := s.transactionRepo.GetByID(r.Context(), transactionID, wallet.ID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			s.writeError(w, http.StatusNotFound, "transaction not found")
			return
		}
		s.log.Error().Err(err).Msg("Failed to load transaction")
		s.writeError(w, http.StatusInternalServerError, "failed to load transaction")
		return
	}

	if err := s.transactionRepo.Delete(r.Context(), transactionID); err != nil {
		s.log.Error().Err(err).Msg("Failed to delete transaction")
		s.writeError(w, http.StatusInternalServerError, "failed to delete transaction")
		return
	}

	s.snapshots.Record(r.Context(), wallet.ID, domain.SnapshotReasonTxDelete)

	w.WriteHeader(http.StatusNoContent)
}
