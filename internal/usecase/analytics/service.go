// Package analytics aggregates valuation and snapshot history across all
// of a user's wallets into the summary the charts are built from.
package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/simaogato/walletfolio-backend/internal/domain"
	"github.com/simaogato/walletfolio-backend/internal/usecase/snapshot"
	"github.com/simaogato/walletfolio-backend/internal/usecase/valuation"
)

// DefaultLookbackDays is the chart window when none is configured
const DefaultLookbackDays = 60

// Point is one day of the aggregated time series
type Point struct {
	Date  string          // Local day key, YYYY-MM-DD
	Value decimal.Decimal // 2-decimal rounded sum across wallets
}

// Summary is the cross-wallet analytics result.
// All monetary fields are rounded to 2 decimal places.
type Summary struct {
	QuoteCurrency     domain.Currency
	CurrentTotalValue decimal.Decimal
	OverallPL         decimal.Decimal
	Allocation        []valuation.Bucket
	TimeSeries        []Point
}

// Valuer computes the combined live valuation of a set of wallets
type Valuer interface {
	ValueWallets(ctx context.Context, walletIDs []uuid.UUID, quote domain.Currency) (*valuation.Result, error)
}

// Service produces per-user analytics summaries
type Service struct {
	WalletRepo   domain.WalletRepository
	SnapshotRepo domain.SnapshotRepository
	Valuer       Valuer
	Location     *time.Location
	LookbackDays int

	now func() time.Time
	log zerolog.Logger
}

// NewService creates a new analytics Service instance
func NewService(
	walletRepo domain.WalletRepository,
	snapshotRepo domain.SnapshotRepository,
	valuer Valuer,
	location *time.Location,
	lookbackDays int,
	log zerolog.Logger,
) *Service {
	if lookbackDays <= 0 {
		lookbackDays = DefaultLookbackDays
	}
	return &Service{
		WalletRepo:   walletRepo,
		SnapshotRepo: snapshotRepo,
		Valuer:       valuer,
		Location:     location,
		LookbackDays: lookbackDays,
		now:          time.Now,
		log:          log.With().Str("component", "analytics").Logger(),
	}
}

// Summary computes current total value, overall P/L, category allocation
// and the carry-forward daily time series across all wallets of a user
func (s *Service) Summary(ctx context.Context, userID uuid.UUID, quote domain.Currency) (*Summary, error) {
	wallets, err := s.WalletRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list wallets: %w", err)
	}

	if len(wallets) == 0 {
		return &Summary{
			QuoteCurrency:     quote,
			CurrentTotalValue: decimal.Zero,
			OverallPL:         decimal.Zero,
			Allocation: []valuation.Bucket{
				{Name: valuation.BucketCrypto, Value: decimal.Zero},
				{Name: valuation.BucketStocks, Value: decimal.Zero},
				{Name: valuation.BucketETFs, Value: decimal.Zero},
				{Name: valuation.BucketOther, Value: decimal.Zero},
			},
			TimeSeries: []Point{},
		}, nil
	}

	walletIDs := make([]uuid.UUID, 0, len(wallets))
	for _, w := range wallets {
		walletIDs = append(walletIDs, w.ID)
	}

	result, err := s.Valuer.ValueWallets(ctx, walletIDs, quote)
	if err != nil {
		return nil, fmt.Errorf("failed to value wallets: %w", err)
	}

	series, err := s.timeSeries(ctx, walletIDs)
	if err != nil {
		return nil, err
	}

	allocation := make([]valuation.Bucket, 0, len(result.Allocation))
	for _, b := range result.Allocation {
		allocation = append(allocation, valuation.Bucket{Name: b.Name, Value: b.Value.Round(2)})
	}

	return &Summary{
		QuoteCurrency:     quote,
		CurrentTotalValue: result.CurrentTotalValue.Round(2),
		OverallPL:         result.OverallPL.Round(2),
		Allocation:        allocation,
		TimeSeries:        series,
	}, nil
}

// timeSeries builds the aggregated daily series with carry-forward:
// per wallet the last snapshot per local day is kept, missing days reuse
// the wallet's previous value, and a wallet contributes nothing before
// its first-ever observation. Without the carry-forward a wallet that
// skipped a day would show up as a misleading dip to zero.
func (s *Service) timeSeries(ctx context.Context, walletIDs []uuid.UUID) ([]Point, error) {
	days := s.dayKeys()

	since, err := time.ParseInLocation("2006-01-02", days[0], s.Location)
	if err != nil {
		return nil, fmt.Errorf("failed to parse window start: %w", err)
	}

	snaps, err := s.SnapshotRepo.ListByWalletsSince(ctx, walletIDs, since)
	if err != nil {
		return nil, fmt.Errorf("failed to load snapshots: %w", err)
	}

	// Snapshots arrive in ascending creation order, so the later write
	// per (wallet, day) naturally overwrites the bucket.
	lastPerDay := make(map[uuid.UUID]map[string]decimal.Decimal)
	for _, sn := range snaps {
		if sn == nil {
			continue
		}
		day := snapshot.DayKey(sn.CreatedAt, s.Location)
		if lastPerDay[sn.WalletID] == nil {
			lastPerDay[sn.WalletID] = make(map[string]decimal.Decimal)
		}
		lastPerDay[sn.WalletID][day] = sn.Value
	}

	carried := make(map[uuid.UUID]decimal.Decimal)
	series := make([]Point, 0, len(days))

	for _, day := range days {
		for _, walletID := range walletIDs {
			if v, ok := lastPerDay[walletID][day]; ok {
				carried[walletID] = v
			}
		}

		total := decimal.Zero
		for _, v := range carried {
			total = total.Add(v)
		}
		series = append(series, Point{Date: day, Value: total.Round(2)})
	}

	return series, nil
}

// dayKeys builds the canonical inclusive span of local day keys covering
// [today - lookback, today]. Today is appended explicitly if the calendar
// stepping ever lands short of it (DST and month-length edges must not
// drop the boundary day).
func (s *Service) dayKeys() []string {
	end := s.now().In(s.Location)
	start := end.AddDate(0, 0, -s.LookbackDays)

	keys := make([]string, 0, s.LookbackDays+1)
	seen := make(map[string]struct{}, s.LookbackDays+1)

	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		k := d.Format("2006-01-02")
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		keys = append(keys, k)
	}

	today := end.Format("2006-01-02")
	if _, ok := seen[today]; !ok {
		keys = append(keys, today)
	}
	return keys
}
