package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SnapshotReason tags why a wallet snapshot was taken
type SnapshotReason string

const (
	SnapshotReasonTxAdd    SnapshotReason = "TX_ADD"
	SnapshotReasonTxEdit   SnapshotReason = "TX_EDIT"
	SnapshotReasonTxDelete SnapshotReason = "TX_DELETE"
	SnapshotReasonEOD      SnapshotReason = "EOD"
)

// WalletSnapshot represents an immutable point observation of a wallet's
// total value. Snapshots only ever accumulate; there is no update or
// delete. Multiple snapshots may exist per calendar day - charting uses
// the last one per day.
type WalletSnapshot struct {
	ID        uuid.UUID
	WalletID  uuid.UUID
	Value     decimal.Decimal
	Currency  Currency
	Reason    SnapshotReason
	CreatedAt time.Time
}

// Holding is the derived net position of one asset within one wallet,
// computed by replaying the transaction ledger. It is never persisted.
type Holding struct {
	AssetID  uuid.UUID
	Quantity decimal.Decimal // Net signed quantity (BUY - SELL)
}
