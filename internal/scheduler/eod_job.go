package scheduler

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/simaogato/walletfolio-backend/internal/domain"
)

// EODSchedule fires shortly before local midnight so the recorded value
// still lands on the closing day
const EODSchedule = "0 55 23 * * *"

// Snapshotter guarantees a wallet has a snapshot for the current day
type Snapshotter interface {
	EnsureDailySnapshot(ctx context.Context, walletID uuid.UUID) (bool, error)
}

// EODJob sweeps every wallet at end of day and fills in the daily
// snapshot for wallets that saw no activity. Per-wallet failures are
// logged and skipped so one broken wallet cannot starve the rest.
type EODJob struct {
	WalletRepo  domain.WalletRepository
	Snapshotter Snapshotter
	Timeout     time.Duration

	log zerolog.Logger
}

// NewEODJob creates the end-of-day snapshot job
func NewEODJob(walletRepo domain.WalletRepository, snapshotter Snapshotter, log zerolog.Logger) *EODJob {
	return &EODJob{
		WalletRepo:  walletRepo,
		Snapshotter: snapshotter,
		Timeout:     5 * time.Minute,
		log:         log.With().Str("component", "eod_job").Logger(),
	}
}

// Name returns the job name
func (j *EODJob) Name() string {
	return "eod_snapshots"
}

// Run ensures today's snapshot exists for every wallet
func (j *EODJob) Run() error {
	ctx, cancel := context.WithTimeout(context.Background(), j.Timeout)
	defer cancel()

	wallets, err := j.WalletRepo.ListAll(ctx)
	if err != nil {
		return err
	}

	created := 0
	for _, wallet := range wallets {
		ok, err := j.Snapshotter.EnsureDailySnapshot(ctx, wallet.ID)
		if err != nil {
			j.log.Error().Err(err).Str("wallet", wallet.ID.String()).Msg("EOD snapshot failed")
			continue
		}
		if ok {
			created++
		}
	}

	j.log.Info().
		Int("wallets", len(wallets)).
		Int("created", created).
		Msg("EOD snapshot sweep finished")

	return nil
}
