package analytics

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/simaogato/walletfolio-backend/internal/domain"
	"github.com/simaogato/walletfolio-backend/internal/usecase/valuation"
)

// MockWalletRepository is a mock implementation of WalletRepository for testing
type MockWalletRepository struct {
	mock.Mock
}

func (m *MockWalletRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Wallet, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Wallet), args.Error(1)
}

func (m *MockWalletRepository) GetForUser(ctx context.Context, id, userID uuid.UUID) (*domain.Wallet, error) {
	args := m.Called(ctx, id, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Wallet), args.Error(1)
}

func (m *MockWalletRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Wallet, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Wallet), args.Error(1)
}

func (m *MockWalletRepository) ListAll(ctx context.Context) ([]*domain.Wallet, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Wallet), args.Error(1)
}

func (m *MockWalletRepository) Create(ctx context.Context, wallet *domain.Wallet) error {
	args := m.Called(ctx, wallet)
	return args.Error(0)
}

func (m *MockWalletRepository) Update(ctx context.Context, wallet *domain.Wallet) error {
	args := m.Called(ctx, wallet)
	return args.Error(0)
}

func (m *MockWalletRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockSnapshotRepository is a mock implementation of SnapshotRepository for testing
type MockSnapshotRepository struct {
	mock.Mock
}

func (m *MockSnapshotRepository) Append(ctx context.Context, snap *domain.WalletSnapshot) error {
	args := m.Called(ctx, snap)
	return args.Error(0)
}

func (m *MockSnapshotRepository) Latest(ctx context.Context, walletID uuid.UUID) (*domain.WalletSnapshot, error) {
	args := m.Called(ctx, walletID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.WalletSnapshot), args.Error(1)
}

func (m *MockSnapshotRepository) ListByWallet(ctx context.Context, walletID uuid.UUID, limit int) ([]*domain.WalletSnapshot, error) {
	args := m.Called(ctx, walletID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.WalletSnapshot), args.Error(1)
}

func (m *MockSnapshotRepository) ListByWalletsSince(ctx context.Context, walletIDs []uuid.UUID, since time.Time) ([]*domain.WalletSnapshot, error) {
	args := m.Called(ctx, walletIDs, since)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.WalletSnapshot), args.Error(1)
}

// stubValuer answers with a fixed combined valuation
type stubValuer struct {
	result *valuation.Result
	err    error
}

func (s *stubValuer) ValueWallets(_ context.Context, _ []uuid.UUID, _ domain.Currency) (*valuation.Result, error) {
	return s.result, s.err
}

func snap(walletID uuid.UUID, at time.Time, value int64) *domain.WalletSnapshot {
	return &domain.WalletSnapshot{
		ID:        uuid.New(),
		WalletID:  walletID,
		Value:     decimal.NewFromInt(value),
		Currency:  domain.CurrencyEUR,
		Reason:    domain.SnapshotReasonEOD,
		CreatedAt: at,
	}
}

func zeroValuation() *valuation.Result {
	return &valuation.Result{
		MainValue:         decimal.Zero,
		OtherValue:        decimal.Zero,
		CurrentTotalValue: decimal.Zero,
		Invested:          decimal.Zero,
		OverallPL:         decimal.Zero,
		Allocation: []valuation.Bucket{
			{Name: valuation.BucketCrypto, Value: decimal.Zero},
			{Name: valuation.BucketStocks, Value: decimal.Zero},
			{Name: valuation.BucketETFs, Value: decimal.Zero},
			{Name: valuation.BucketOther, Value: decimal.Zero},
		},
	}
}

func newTestService(walletRepo *MockWalletRepository, snapRepo *MockSnapshotRepository, valuer Valuer, lookback int, now time.Time) *Service {
	s := NewService(walletRepo, snapRepo, valuer, time.UTC, lookback, zerolog.Nop())
	s.now = func() time.Time { return now }
	return s
}

func day(dayOfMonth int) time.Time {
	return time.Date(2025, 3, dayOfMonth, 12, 0, 0, 0, time.UTC)
}

// Wallet with snapshots on days 1 and 5 (100, 150) in a 7-day window:
// the series must carry 100 through days 1-4 and 150 through days 5-7.
func TestSummary_CarryForward(t *testing.T) {
	ctx := context.Background()
	walletRepo := new(MockWalletRepository)
	snapRepo := new(MockSnapshotRepository)

	userID := uuid.New()
	wallet := &domain.Wallet{ID: uuid.New(), UserID: userID, Name: "Main portfolio", Currency: domain.CurrencyEUR}
	walletRepo.On("ListByUser", ctx, userID).Return([]*domain.Wallet{wallet}, nil)

	snapRepo.On("ListByWalletsSince", ctx, []uuid.UUID{wallet.ID}, mock.AnythingOfType("time.Time")).Return([]*domain.WalletSnapshot{
		snap(wallet.ID, day(1), 100),
		snap(wallet.ID, day(5), 150),
	}, nil)

	service := newTestService(walletRepo, snapRepo, &stubValuer{result: zeroValuation()}, 6, day(7))

	summary, err := service.Summary(ctx, userID, domain.CurrencyEUR)
	require.NoError(t, err)
	require.Len(t, summary.TimeSeries, 7)

	wantByDate := map[string]int64{
		"2025-03-01": 100,
		"2025-03-02": 100,
		"2025-03-03": 100,
		"2025-03-04": 100,
		"2025-03-05": 150,
		"2025-03-06": 150,
		"2025-03-07": 150,
	}
	for _, p := range summary.TimeSeries {
		want, ok := wantByDate[p.Date]
		require.True(t, ok, "unexpected day %s", p.Date)
		assert.True(t, p.Value.Equal(decimal.NewFromInt(want)), "day %s: got %s want %d", p.Date, p.Value, want)
	}
}

// A wallet contributes 0 (not NaN, not undefined) on days strictly before
// its first-ever snapshot.
func TestSummary_ZeroBeforeFirstObservation(t *testing.T) {
	ctx := context.Background()
	walletRepo := new(MockWalletRepository)
	snapRepo := new(MockSnapshotRepository)

	userID := uuid.New()
	wallet := &domain.Wallet{ID: uuid.New(), UserID: userID, Name: "Main portfolio", Currency: domain.CurrencyEUR}
	walletRepo.On("ListByUser", ctx, userID).Return([]*domain.Wallet{wallet}, nil)

	snapRepo.On("ListByWalletsSince", ctx, mock.Anything, mock.AnythingOfType("time.Time")).Return([]*domain.WalletSnapshot{
		snap(wallet.ID, day(5), 150),
	}, nil)

	service := newTestService(walletRepo, snapRepo, &stubValuer{result: zeroValuation()}, 6, day(7))

	summary, err := service.Summary(ctx, userID, domain.CurrencyEUR)
	require.NoError(t, err)

	for _, p := range summary.TimeSeries {
		if p.Date < "2025-03-05" {
			assert.True(t, p.Value.IsZero(), "day %s must be zero before first snapshot, got %s", p.Date, p.Value)
		}
	}
}

func TestSummary_SumsAcrossWallets(t *testing.T) {
	ctx := context.Background()
	walletRepo := new(MockWalletRepository)
	snapRepo := new(MockSnapshotRepository)

	userID := uuid.New()
	a := &domain.Wallet{ID: uuid.New(), UserID: userID, Name: "Wallet A", Currency: domain.CurrencyEUR}
	b := &domain.Wallet{ID: uuid.New(), UserID: userID, Name: "Wallet B", Currency: domain.CurrencyEUR}
	walletRepo.On("ListByUser", ctx, userID).Return([]*domain.Wallet{a, b}, nil)

	snapRepo.On("ListByWalletsSince", ctx, mock.Anything, mock.AnythingOfType("time.Time")).Return([]*domain.WalletSnapshot{
		snap(a.ID, day(5), 100),
		snap(b.ID, day(6), 40),
	}, nil)

	service := newTestService(walletRepo, snapRepo, &stubValuer{result: zeroValuation()}, 2, day(7))

	summary, err := service.Summary(ctx, userID, domain.CurrencyEUR)
	require.NoError(t, err)
	require.Len(t, summary.TimeSeries, 3)

	assert.True(t, summary.TimeSeries[0].Value.Equal(decimal.NewFromInt(100)), "day 5: wallet A only")
	assert.True(t, summary.TimeSeries[1].Value.Equal(decimal.NewFromInt(140)), "day 6: A carried + B observed")
	assert.True(t, summary.TimeSeries[2].Value.Equal(decimal.NewFromInt(140)), "day 7: both carried")
}

// Duplicate snapshots on the same local day collapse to the last one, so
// chart output is identical whether ensureDailySnapshot ran once or twice.
func TestSummary_LastSnapshotPerDayWins(t *testing.T) {
	ctx := context.Background()
	walletRepo := new(MockWalletRepository)
	snapRepo := new(MockSnapshotRepository)

	userID := uuid.New()
	wallet := &domain.Wallet{ID: uuid.New(), UserID: userID, Name: "Main portfolio", Currency: domain.CurrencyEUR}
	walletRepo.On("ListByUser", ctx, userID).Return([]*domain.Wallet{wallet}, nil)

	morning := time.Date(2025, 3, 7, 8, 0, 0, 0, time.UTC)
	noon := time.Date(2025, 3, 7, 12, 0, 0, 0, time.UTC)
	evening := time.Date(2025, 3, 7, 20, 0, 0, 0, time.UTC)

	snapRepo.On("ListByWalletsSince", ctx, mock.Anything, mock.AnythingOfType("time.Time")).Return([]*domain.WalletSnapshot{
		snap(wallet.ID, morning, 100),
		snap(wallet.ID, noon, 120),
		snap(wallet.ID, evening, 130),
	}, nil)

	service := newTestService(walletRepo, snapRepo, &stubValuer{result: zeroValuation()}, 1, day(7))

	summary, err := service.Summary(ctx, userID, domain.CurrencyEUR)
	require.NoError(t, err)

	last := summary.TimeSeries[len(summary.TimeSeries)-1]
	assert.Equal(t, "2025-03-07", last.Date)
	assert.True(t, last.Value.Equal(decimal.NewFromInt(130)))
}

func TestSummary_NoWallets(t *testing.T) {
	ctx := context.Background()
	walletRepo := new(MockWalletRepository)
	snapRepo := new(MockSnapshotRepository)

	userID := uuid.New()
	walletRepo.On("ListByUser", ctx, userID).Return([]*domain.Wallet{}, nil)

	service := newTestService(walletRepo, snapRepo, &stubValuer{}, DefaultLookbackDays, day(7))

	summary, err := service.Summary(ctx, userID, domain.CurrencyUSD)
	require.NoError(t, err)

	assert.True(t, summary.CurrentTotalValue.IsZero())
	assert.True(t, summary.OverallPL.IsZero())
	assert.Len(t, summary.Allocation, 4)
	assert.Empty(t, summary.TimeSeries)
	snapRepo.AssertNotCalled(t, "ListByWalletsSince", mock.Anything, mock.Anything, mock.Anything)
}

func TestDayKeys_InclusiveWindowEndsToday(t *testing.T) {
	service := newTestService(new(MockWalletRepository), new(MockSnapshotRepository), &stubValuer{}, 60, day(7))

	keys := service.dayKeys()

	require.Len(t, keys, 61)
	assert.Equal(t, "2025-01-06", keys[0])
	assert.Equal(t, "2025-03-07", keys[len(keys)-1])

	// Strictly increasing, no duplicates
	for i := 1; i < len(keys); i++ {
		assert.Less(t, keys[i-1], keys[i])
	}
}
