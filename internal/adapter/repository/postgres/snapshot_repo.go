package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/simaogato/walletfolio-backend/internal/domain"
)

// snapshotRepository implements domain.SnapshotRepository
// The snapshots table is append-only: no UPDATE or DELETE exists here
type snapshotRepository struct {
	db *DB
}

// NewSnapshotRepository creates a new snapshot repository
func NewSnapshotRepository(db *DB) domain.SnapshotRepository {
	return &snapshotRepository{db: db}
}

// Append stores a new snapshot observation
func (r *snapshotRepository) Append(ctx context.Context, snapshot *domain.WalletSnapshot) error {
	query := `
		INSERT INTO wallet_snapshots (id, wallet_id, value, currency, reason, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.db.ExecContext(ctx, query,
		snapshot.ID,
		snapshot.WalletID,
		snapshot.Value.String(),
		string(snapshot.Currency),
		string(snapshot.Reason),
		snapshot.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to append snapshot: %w", err)
	}

	return nil
}

// Latest retrieves the most recent snapshot of any reason for a wallet
func (r *snapshotRepository) Latest(ctx context.Context, walletID uuid.UUID) (*domain.WalletSnapshot, error) {
	query := `
		SELECT id, wallet_id, value, currency, reason, created_at
		FROM wallet_snapshots
		WHERE wallet_id = $1
		ORDER BY created_at DESC
		LIMIT 1
	`

	var snapshot domain.WalletSnapshot
	var valueStr string

	err := r.db.QueryRowContext(ctx, query, walletID).Scan(
		&snapshot.ID,
		&snapshot.WalletID,
		&valueStr,
		&snapshot.Currency,
		&snapshot.Reason,
		&snapshot.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get latest snapshot: %w", err)
	}

	value, err := decimal.NewFromString(valueStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse snapshot value: %w", err)
	}
	snapshot.Value = value

	return &snapshot, nil
}

// ListByWallet retrieves up to limit snapshots in ascending creation order
func (r *snapshotRepository) ListByWallet(ctx context.Context, walletID uuid.UUID, limit int) ([]*domain.WalletSnapshot, error) {
	// Take the newest rows, then flip back to ascending for charting
	query := `
		SELECT id, wallet_id, value, currency, reason, created_at
		FROM (
			SELECT id, wallet_id, value, currency, reason, created_at
			FROM wallet_snapshots
			WHERE wallet_id = $1
			ORDER BY created_at DESC
			LIMIT $2
		) latest
		ORDER BY created_at ASC
	`

	rows, err := r.db.QueryContext(ctx, query, walletID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list snapshots: %w", err)
	}
	defer rows.Close()

	return scanSnapshots(rows)
}

// ListByWalletsSince retrieves all snapshots of several wallets created
// at or after since, in ascending creation order
func (r *snapshotRepository) ListByWalletsSince(ctx context.Context, walletIDs []uuid.UUID, since time.Time) ([]*domain.WalletSnapshot, error) {
	if len(walletIDs) == 0 {
		return nil, nil
	}

	query := `
		SELECT id, wallet_id, value, currency, reason, created_at
		FROM wallet_snapshots
		WHERE wallet_id = ANY($1) AND created_at >= $2
		ORDER BY created_at ASC
	`

	rows, err := r.db.QueryContext(ctx, query, pq.Array(walletIDs), since)
	if err != nil {
		return nil, fmt.Errorf("failed to list snapshots since: %w", err)
	}
	defer rows.Close()

	return scanSnapshots(rows)
}

func scanSnapshots(rows *sql.Rows) ([]*domain.WalletSnapshot, error) {
	var snapshots []*domain.WalletSnapshot
	for rows.Next() {
		var snapshot domain.WalletSnapshot
		var valueStr string

		if err := rows.Scan(
			&snapshot.ID,
			&snapshot.WalletID,
			&valueStr,
			&snapshot.Currency,
			&snapshot.Reason,
			&snapshot.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan snapshot row: %w", err)
		}

		value, err := decimal.NewFromString(valueStr)
		if err != nil {
			return nil, fmt.Errorf("failed to parse snapshot value: %w", err)
		}
		snapshot.Value = value
		snapshots = append(snapshots, &snapshot)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate snapshot rows: %w", err)
	}

	return snapshots, nil
}
