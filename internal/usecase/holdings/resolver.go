package holdings

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/simaogato/walletfolio-backend/internal/domain"
)

// epsilon below which a net position is treated as closed. Quantities are
// decimal end to end, but edits and partial sells can still leave residual
// dust that must not count as an open position.
var epsilon = decimal.New(1, -12) // 1e-12

// Resolve replays a transaction ledger into net per-asset quantities.
// BUY adds, SELL subtracts. Entries with a missing asset reference or a
// non-positive quantity are skipped rather than failing the batch.
// The fold is commutative, so the result does not depend on ledger order.
func Resolve(txs []*domain.Transaction) map[uuid.UUID]decimal.Decimal {
	net := make(map[uuid.UUID]decimal.Decimal)

	for _, tx := range txs {
		if tx == nil || tx.AssetID == uuid.Nil {
			continue
		}
		if tx.Quantity.LessThanOrEqual(decimal.Zero) {
			continue
		}
		net[tx.AssetID] = net[tx.AssetID].Add(tx.SignedQuantity())
	}

	return net
}

// Active filters a net-quantity mapping down to open positions: holdings
// whose net quantity is strictly greater than epsilon. Negative and
// near-zero residual positions are treated as closed.
func Active(net map[uuid.UUID]decimal.Decimal) []domain.Holding {
	active := make([]domain.Holding, 0, len(net))
	for assetID, qty := range net {
		if qty.GreaterThan(epsilon) {
			active = append(active, domain.Holding{AssetID: assetID, Quantity: qty})
		}
	}
	return active
}
