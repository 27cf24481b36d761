package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/simaogato/walletfolio-backend/internal/domain"
)

const (
	defaultSnapshotLimit = 365
	minSnapshotLimit     = 10
	maxSnapshotLimit     = 1000
)

type snapshotResponse struct {
	ID        uuid.UUID             `json:"id"`
	WalletID  uuid.UUID             `json:"walletId"`
	Value     decimal.Decimal       `json:"value"`
	Currency  domain.Currency       `json:"currency"`
	Reason    domain.SnapshotReason `json:"reason"`
	CreatedAt time.Time             `json:"createdAt"`
}

// handleListSnapshots returns a wallet's value history in ascending
// creation order. Today's snapshot is ensured first so a freshly viewed
// chart never ends on a stale day.
func (s *Server) handleListSnapshots(w http.ResponseWriter, r *http.Request) {
	wallet := s.ownedWallet(w, r)
	if wallet == nil {
		return
	}

	if _, err := s.snapshots.EnsureDailySnapshot(r.Context(), wallet.ID); err != nil {
		s.log.Warn().Err(err).Str("wallet_id", wallet.ID.String()).Msg("Daily snapshot check failed")
	}

	limit := defaultSnapshotLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			s.writeError(w, http.StatusBadRequest, "invalid limit parameter")
			return
		}
		limit = parsed
	}
	if limit < minSnapshotLimit {
		limit = minSnapshotLimit
	}
	if limit > maxSnapshotLimit {
		limit = maxSnapshotLimit
	}

	snapshots, err := s.snapshotRepo.ListByWallet(r.Context(), wallet.ID, limit)
	if err != nil {
		s.log.Error().Err(err).Msg("Failed to list snapshots")
		s.writeError(w, http.StatusInternalServerError, "failed to list snapshots")
		return
	}

	response := make([]snapshotResponse, 0, len(snapshots))
	for _, snap := range snapshots {
		response = append(response, snapshotResponse{
			ID:        snap.ID,
			WalletID:  snap.WalletID,
			Value:     snap.Value,
			Currency:  snap.Currency,
			Reason:    snap.Reason,
			CreatedAt: snap.CreatedAt,
		})
	}

	s.writeJSON(w, http.StatusOK, response)
}
