// Package snapshot maintains the per-wallet time series of value
// observations used for historical charting. Snapshots are taken after
// every ledger mutation and at most once per local calendar day when a
// wallet is viewed, and are append-only.
package snapshot

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/simaogato/walletfolio-backend/internal/domain"
	"github.com/simaogato/walletfolio-backend/internal/usecase/valuation"
)

// DayKey converts a timestamp to its YYYY-MM-DD calendar day in the given
// reference timezone. The key, not the raw row timestamp, is the grouping
// unit for all chart construction.
func DayKey(t time.Time, loc *time.Location) string {
	return t.In(loc).Format("2006-01-02")
}

// Valuer computes the live valuation the snapshot records
type Valuer interface {
	ValueWallet(ctx context.Context, wallet *domain.Wallet) (*valuation.Result, error)
}

// Service creates wallet value snapshots and guarantees at most one is
// needed per local day. The reference timezone and clock are injected so
// day boundaries are testable.
type Service struct {
	WalletRepo   domain.WalletRepository
	SnapshotRepo domain.SnapshotRepository
	Valuer       Valuer
	Location     *time.Location

	now func() time.Time
	log zerolog.Logger
}

// NewService creates a new snapshot Service instance
func NewService(
	walletRepo domain.WalletRepository,
	snapshotRepo domain.SnapshotRepository,
	valuer Valuer,
	location *time.Location,
	log zerolog.Logger,
) *Service {
	return &Service{
		WalletRepo:   walletRepo,
		SnapshotRepo: snapshotRepo,
		Valuer:       valuer,
		Location:     location,
		now:          time.Now,
		log:          log.With().Str("component", "snapshot").Logger(),
	}
}

// CreateSnapshot recomputes the wallet's live total value and appends a
// new snapshot tagged with the given reason. The recorded value is the
// 2-decimal rounded current total (priced holdings plus OTHER assets).
func (s *Service) CreateSnapshot(ctx context.Context, walletID uuid.UUID, reason domain.SnapshotReason) (*domain.WalletSnapshot, error) {
	wallet, err := s.WalletRepo.GetByID(ctx, walletID)
	if err != nil {
		return nil, fmt.Errorf("failed to load wallet: %w", err)
	}

	result, err := s.Valuer.ValueWallet(ctx, wallet)
	if err != nil {
		return nil, fmt.Errorf("failed to value wallet: %w", err)
	}

	snap := &domain.WalletSnapshot{
		ID:        uuid.New(),
		WalletID:  walletID,
		Value:     result.CurrentTotalValue.Round(2),
		Currency:  wallet.Currency,
		Reason:    reason,
		CreatedAt: s.now(),
	}

	if err := s.SnapshotRepo.Append(ctx, snap); err != nil {
		return nil, fmt.Errorf("failed to append snapshot: %w", err)
	}

	s.log.Debug().
		Str("wallet", walletID.String()).
		Str("reason", string(reason)).
		Str("value", snap.Value.String()).
		Msg("Snapshot created")

	return snap, nil
}

// EnsureDailySnapshot makes sure the wallet has at least one snapshot for
// the current local day, creating an EOD snapshot when the latest one (of
// any reason) is older. Safe to call on every wallet view: within one day
// repeated calls are no-ops. Two concurrent calls may both insert; that
// is tolerated because chart reads take the last snapshot per day.
func (s *Service) EnsureDailySnapshot(ctx context.Context, walletID uuid.UUID) (bool, error) {
	latest, err := s.SnapshotRepo.Latest(ctx, walletID)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return false, fmt.Errorf("failed to load latest snapshot: %w", err)
	}

	if latest != nil && DayKey(latest.CreatedAt, s.Location) == DayKey(s.now(), s.Location) {
		return false, nil
	}

	if _, err := s.CreateSnapshot(ctx, walletID, domain.SnapshotReasonEOD); err != nil {
		return false, err
	}
	return true, nil
}

// Record takes a best-effort snapshot after a ledger mutation. A snapshot
// failure never rolls back the committed mutation; it is logged and
// swallowed, the snapshot being derived telemetry rather than part of the
// mutation's contract.
func (s *Service) Record(ctx context.Context, walletID uuid.UUID, reason domain.SnapshotReason) {
	if _, err := s.CreateSnapshot(ctx, walletID, reason); err != nil {
		s.log.Error().Err(err).
			Str("wallet", walletID.String()).
			Str("reason", string(reason)).
			Msg("Best-effort snapshot failed")
	}
}
