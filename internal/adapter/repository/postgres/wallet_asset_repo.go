package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/simaogato/walletfolio-backend/internal/domain"
)

// walletAssetRepository implements domain.WalletAssetRepository
type walletAssetRepository struct {
	db *DB
}

// NewWalletAssetRepository creates a new wallet asset repository
func NewWalletAssetRepository(db *DB) domain.WalletAssetRepository {
	return &walletAssetRepository{db: db}
}

// ListByWallet retrieves a wallet's OTHER assets, newest first
func (r *walletAssetRepository) ListByWallet(ctx context.Context, walletID uuid.UUID) ([]*domain.WalletAsset, error) {
	query := `
		SELECT id, wallet_id, name, value, created_at, updated_at
		FROM wallet_assets
		WHERE wallet_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query, walletID)
	if err != nil {
		return nil, fmt.Errorf("failed to list wallet assets: %w", err)
	}
	defer rows.Close()

	return scanWalletAssets(rows)
}

// ListByWallets retrieves the OTHER assets of several wallets
func (r *walletAssetRepository) ListByWallets(ctx context.Context, walletIDs []uuid.UUID) ([]*domain.WalletAsset, error) {
	if len(walletIDs) == 0 {
		return nil, nil
	}

	query := `
		SELECT id, wallet_id, name, value, created_at, updated_at
		FROM wallet_assets
		WHERE wallet_id = ANY($1)
		ORDER BY created_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query, pq.Array(walletIDs))
	if err != nil {
		return nil, fmt.Errorf("failed to list wallet assets by wallets: %w", err)
	}
	defer rows.Close()

	return scanWalletAssets(rows)
}

// Create creates a new OTHER asset
func (r *walletAssetRepository) Create(ctx context.Context, asset *domain.WalletAsset) error {
	query := `
		INSERT INTO wallet_assets (id, wallet_id, name, value, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.db.ExecContext(ctx, query,
		asset.ID,
		asset.WalletID,
		asset.Name,
		asset.Value.String(),
		asset.CreatedAt,
		asset.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create wallet asset: %w", err)
	}

	return nil
}

// Delete removes an OTHER asset scoped to a wallet
func (r *walletAssetRepository) Delete(ctx context.Context, id, walletID uuid.UUID) error {
	query := `DELETE FROM wallet_assets WHERE id = $1 AND wallet_id = $2`

	result, err := r.db.ExecContext(ctx, query, id, walletID)
	if err != nil {
		return fmt.Errorf("failed to delete wallet asset: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read delete result: %w", err)
	}
	if rows == 0 {
		return domain.ErrNotFound
	}

	return nil
}

func scanWalletAssets(rows *sql.Rows) ([]*domain.WalletAsset, error) {
	var assets []*domain.WalletAsset
	for rows.Next() {
		var asset domain.WalletAsset
		var valueStr string

		if err := rows.Scan(
			&asset.ID,
			&asset.WalletID,
			&asset.Name,
			&valueStr,
			&asset.CreatedAt,
			&asset.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan wallet asset row: %w", err)
		}

		value, err := decimal.NewFromString(valueStr)
		if err != nil {
			return nil, fmt.Errorf("failed to parse wallet asset value: %w", err)
		}
		asset.Value = value
		assets = append(assets, &asset)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate wallet asset rows: %w", err)
	}

	return assets, nil
}
