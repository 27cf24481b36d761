package holdings

import (
	"math/rand"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simaogato/walletfolio-backend/internal/domain"
)

func tx(assetID uuid.UUID, typ domain.TransactionType, qty string) *domain.Transaction {
	return &domain.Transaction{
		ID:           uuid.New(),
		WalletID:     uuid.New(),
		AssetID:      assetID,
		Type:         typ,
		Quantity:     decimal.RequireFromString(qty),
		PricePerUnit: decimal.NewFromInt(1),
		Date:         time.Now(),
	}
}

func TestResolve_NetQuantities(t *testing.T) {
	btc := uuid.New()
	eth := uuid.New()

	txs := []*domain.Transaction{
		tx(btc, domain.TransactionTypeBuy, "1.0"),
		tx(btc, domain.TransactionTypeBuy, "0.5"),
		tx(btc, domain.TransactionTypeSell, "0.2"),
		tx(eth, domain.TransactionTypeBuy, "10"),
	}

	net := Resolve(txs)

	require.Len(t, net, 2)
	assert.True(t, net[btc].Equal(decimal.RequireFromString("1.3")))
	assert.True(t, net[eth].Equal(decimal.NewFromInt(10)))
}

// The signed-sum fold must be order independent: any permutation of the
// same ledger produces an identical mapping.
func TestResolve_OrderIndependence(t *testing.T) {
	assets := []uuid.UUID{uuid.New(), uuid.New(), uuid.New()}

	txs := []*domain.Transaction{
		tx(assets[0], domain.TransactionTypeBuy, "3.25"),
		tx(assets[0], domain.TransactionTypeSell, "1.1"),
		tx(assets[1], domain.TransactionTypeBuy, "0.0001"),
		tx(assets[1], domain.TransactionTypeBuy, "42"),
		tx(assets[2], domain.TransactionTypeSell, "7"),
		tx(assets[2], domain.TransactionTypeBuy, "7"),
		tx(assets[0], domain.TransactionTypeBuy, "0.85"),
	}

	want := Resolve(txs)

	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 20; i++ {
		shuffled := make([]*domain.Transaction, len(txs))
		copy(shuffled, txs)
		rng.Shuffle(len(shuffled), func(a, b int) {
			shuffled[a], shuffled[b] = shuffled[b], shuffled[a]
		})

		got := Resolve(shuffled)
		require.Len(t, got, len(want))
		for assetID, qty := range want {
			assert.True(t, got[assetID].Equal(qty), "asset %s differs after shuffle", assetID)
		}
	}
}

func TestResolve_SkipsInvalidEntries(t *testing.T) {
	btc := uuid.New()

	missingAsset := tx(uuid.Nil, domain.TransactionTypeBuy, "5")
	missingAsset.AssetID = uuid.Nil
	negative := tx(btc, domain.TransactionTypeBuy, "1")
	negative.Quantity = decimal.NewFromInt(-4)

	net := Resolve([]*domain.Transaction{
		missingAsset,
		negative,
		nil,
		tx(btc, domain.TransactionTypeBuy, "2"),
	})

	require.Len(t, net, 1)
	assert.True(t, net[btc].Equal(decimal.NewFromInt(2)))
}

func TestActive_ClosesDustAndShortPositions(t *testing.T) {
	open := uuid.New()
	dust := uuid.New()
	short := uuid.New()
	flat := uuid.New()

	net := map[uuid.UUID]decimal.Decimal{
		open:  decimal.RequireFromString("1.5"),
		dust:  decimal.New(1, -13), // below epsilon
		short: decimal.NewFromInt(-2),
		flat:  decimal.Zero,
	}

	active := Active(net)

	require.Len(t, active, 1)
	assert.Equal(t, open, active[0].AssetID)
	assert.True(t, active[0].Quantity.Equal(decimal.RequireFromString("1.5")))
}
