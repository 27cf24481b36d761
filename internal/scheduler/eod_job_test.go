package scheduler

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simaogato/walletfolio-backend/internal/domain"
)

type stubWalletLister struct {
	wallets []*domain.Wallet
	err     error
}

func (s *stubWalletLister) GetByID(context.Context, uuid.UUID) (*domain.Wallet, error) {
	return nil, domain.ErrNotFound
}

func (s *stubWalletLister) GetForUser(context.Context, uuid.UUID, uuid.UUID) (*domain.Wallet, error) {
	return nil, domain.ErrNotFound
}

func (s *stubWalletLister) ListByUser(context.Context, uuid.UUID) ([]*domain.Wallet, error) {
	return nil, nil
}

func (s *stubWalletLister) ListAll(context.Context) ([]*domain.Wallet, error) {
	return s.wallets, s.err
}

func (s *stubWalletLister) Create(context.Context, *domain.Wallet) error { return nil }
func (s *stubWalletLister) Update(context.Context, *domain.Wallet) error { return nil }
func (s *stubWalletLister) Delete(context.Context, uuid.UUID) error      { return nil }

type stubSnapshotter struct {
	ensured []uuid.UUID
	failFor map[uuid.UUID]error
}

func (s *stubSnapshotter) EnsureDailySnapshot(_ context.Context, walletID uuid.UUID) (bool, error) {
	if err, ok := s.failFor[walletID]; ok {
		return false, err
	}
	s.ensured = append(s.ensured, walletID)
	return true, nil
}

func TestEODJob_SweepsAllWallets(t *testing.T) {
	wallets := []*domain.Wallet{
		{ID: uuid.New(), Name: "Wallet A"},
		{ID: uuid.New(), Name: "Wallet B"},
		{ID: uuid.New(), Name: "Wallet C"},
	}
	snapshotter := &stubSnapshotter{}

	job := NewEODJob(&stubWalletLister{wallets: wallets}, snapshotter, zerolog.Nop())

	require.NoError(t, job.Run())
	assert.Len(t, snapshotter.ensured, 3)
}

func TestEODJob_SkipsFailingWallet(t *testing.T) {
	broken := &domain.Wallet{ID: uuid.New(), Name: "Broken"}
	healthy := &domain.Wallet{ID: uuid.New(), Name: "Healthy"}
	snapshotter := &stubSnapshotter{
		failFor: map[uuid.UUID]error{broken.ID: errors.New("pricing unavailable")},
	}

	job := NewEODJob(&stubWalletLister{wallets: []*domain.Wallet{broken, healthy}}, snapshotter, zerolog.Nop())

	// One wallet failing must not fail the sweep
	require.NoError(t, job.Run())
	assert.Equal(t, []uuid.UUID{healthy.ID}, snapshotter.ensured)
}

func TestEODJob_PropagatesListError(t *testing.T) {
	job := NewEODJob(&stubWalletLister{err: errors.New("db down")}, &stubSnapshotter{}, zerolog.Nop())

	assert.Error(t, job.Run())
}
