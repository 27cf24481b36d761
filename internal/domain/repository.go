package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// WalletRepository defines the interface for wallet persistence operations
type WalletRepository interface {
	// GetByID retrieves a wallet by its ID
	GetByID(ctx context.Context, id uuid.UUID) (*Wallet, error)

	// GetForUser retrieves a wallet only if it belongs to the given user
	GetForUser(ctx context.Context, id, userID uuid.UUID) (*Wallet, error)

	// ListByUser retrieves all wallets owned by a user
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*Wallet, error)

	// ListAll retrieves every wallet (used by the EOD scheduler)
	ListAll(ctx context.Context) ([]*Wallet, error)

	// Create creates a new wallet
	Create(ctx context.Context, wallet *Wallet) error

	// Update changes a wallet's name and currency
	Update(ctx context.Context, wallet *Wallet) error

	// Delete removes a wallet; transactions, wallet assets and snapshots
	// cascade at the store layer
	Delete(ctx context.Context, id uuid.UUID) error
}

// AssetRepository defines the interface for catalog asset persistence operations
type AssetRepository interface {
	// GetByID retrieves an asset by its ID
	GetByID(ctx context.Context, id uuid.UUID) (*Asset, error)

	// ListByIDs retrieves the assets matching the given IDs
	// Unknown IDs are silently absent from the result
	ListByIDs(ctx context.Context, ids []uuid.UUID) ([]*Asset, error)

	// List retrieves the full asset catalog
	List(ctx context.Context) ([]*Asset, error)

	// Create creates a new catalog asset
	Create(ctx context.Context, asset *Asset) error
}

// TransactionRepository defines the interface for ledger persistence operations
type TransactionRepository interface {
	// GetByID retrieves a transaction scoped to a wallet
	GetByID(ctx context.Context, id, walletID uuid.UUID) (*Transaction, error)

	// ListByWallet retrieves a wallet's full ledger in ascending date order
	ListByWallet(ctx context.Context, walletID uuid.UUID) ([]*Transaction, error)

	// ListByWallets retrieves the combined ledger of several wallets
	ListByWallets(ctx context.Context, walletIDs []uuid.UUID) ([]*Transaction, error)

	// Create appends a new ledger entry
	Create(ctx context.Context, tx *Transaction) error

	// Update changes the quantity and price of an existing entry
	Update(ctx context.Context, tx *Transaction) error

	// Delete removes a ledger entry
	Delete(ctx context.Context, id uuid.UUID) error
}

// WalletAssetRepository defines the interface for OTHER asset persistence operations
type WalletAssetRepository interface {
	// ListByWallet retrieves a wallet's OTHER assets, newest first
	ListByWallet(ctx context.Context, walletID uuid.UUID) ([]*WalletAsset, error)

	// ListByWallets retrieves the OTHER assets of several wallets
	ListByWallets(ctx context.Context, walletIDs []uuid.UUID) ([]*WalletAsset, error)

	// Create creates a new OTHER asset
	Create(ctx context.Context, asset *WalletAsset) error

	// Delete removes an OTHER asset scoped to a wallet
	Delete(ctx context.Context, id, walletID uuid.UUID) error
}

// SnapshotRepository defines the interface for wallet snapshot persistence
// operations. Snapshots are append-only.
type SnapshotRepository interface {
	// Append stores a new snapshot observation
	Append(ctx context.Context, snapshot *WalletSnapshot) error

	// Latest retrieves the most recent snapshot of any reason for a wallet
	// Returns ErrNotFound when the wallet has no snapshots yet
	Latest(ctx context.Context, walletID uuid.UUID) (*WalletSnapshot, error)

	// ListByWallet retrieves up to limit snapshots in ascending creation order
	ListByWallet(ctx context.Context, walletID uuid.UUID, limit int) ([]*WalletSnapshot, error)

	// ListByWalletsSince retrieves all snapshots of several wallets created
	// at or after since, in ascending creation order per wallet
	ListByWalletsSince(ctx context.Context, walletIDs []uuid.UUID, since time.Time) ([]*WalletSnapshot, error)
}
