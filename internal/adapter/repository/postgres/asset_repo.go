package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/simaogato/walletfolio-backend/internal/domain"
)

// assetRepository implements domain.AssetRepository
type assetRepository struct {
	db *DB
}

// NewAssetRepository creates a new asset catalog repository
func NewAssetRepository(db *DB) domain.AssetRepository {
	return &assetRepository{db: db}
}

// GetByID retrieves an asset by its ID
func (r *assetRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Asset, error) {
	query := `
		SELECT id, class, symbol, name, provider, api_id, exchange
		FROM assets
		WHERE id = $1
	`

	var asset domain.Asset
	var apiID, exchange sql.NullString

	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&asset.ID,
		&asset.Class,
		&asset.Symbol,
		&asset.Name,
		&asset.Provider,
		&apiID,
		&exchange,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get asset by ID: %w", err)
	}

	asset.APIID = apiID.String
	asset.Exchange = exchange.String

	return &asset, nil
}

// ListByIDs retrieves the assets matching the given IDs
// Unknown IDs are silently absent from the result
func (r *assetRepository) ListByIDs(ctx context.Context, ids []uuid.UUID) ([]*domain.Asset, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	query := `
		SELECT id, class, symbol, name, provider, api_id, exchange
		FROM assets
		WHERE id = ANY($1)
		ORDER BY symbol ASC
	`

	rows, err := r.db.QueryContext(ctx, query, pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("failed to list assets by IDs: %w", err)
	}
	defer rows.Close()

	return scanAssets(rows)
}

// List retrieves the full asset catalog
func (r *assetRepository) List(ctx context.Context) ([]*domain.Asset, error) {
	query := `
		SELECT id, class, symbol, name, provider, api_id, exchange
		FROM assets
		ORDER BY symbol ASC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list assets: %w", err)
	}
	defer rows.Close()

	return scanAssets(rows)
}

// Create creates a new catalog asset
func (r *assetRepository) Create(ctx context.Context, asset *domain.Asset) error {
	query := `
		INSERT INTO assets (id, class, symbol, name, provider, api_id, exchange)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.db.ExecContext(ctx, query,
		asset.ID,
		string(asset.Class),
		asset.Symbol,
		asset.Name,
		string(asset.Provider),
		nullString(asset.APIID),
		nullString(asset.Exchange),
	)
	if err != nil {
		return fmt.Errorf("failed to create asset: %w", err)
	}

	return nil
}

func scanAssets(rows *sql.Rows) ([]*domain.Asset, error) {
	var assets []*domain.Asset
	for rows.Next() {
		var asset domain.Asset
		var apiID, exchange sql.NullString

		if err := rows.Scan(
			&asset.ID,
			&asset.Class,
			&asset.Symbol,
			&asset.Name,
			&asset.Provider,
			&apiID,
			&exchange,
		); err != nil {
			return nil, fmt.Errorf("failed to scan asset row: %w", err)
		}

		asset.APIID = apiID.String
		asset.Exchange = exchange.String
		assets = append(assets, &asset)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate asset rows: %w", err)
	}

	return assets, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
