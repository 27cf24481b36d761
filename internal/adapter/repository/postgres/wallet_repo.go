package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/simaogato/walletfolio-backend/internal/domain"
)

// walletRepository implements domain.WalletRepository
type walletRepository struct {
	db *DB
}

// NewWalletRepository creates a new wallet repository
func NewWalletRepository(db *DB) domain.WalletRepository {
	return &walletRepository{db: db}
}

// GetByID retrieves a wallet by its ID
func (r *walletRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Wallet, error) {
	query := `
		SELECT id, user_id, name, currency, created_at
		FROM wallets
		WHERE id = $1
	`

	var wallet domain.Wallet
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&wallet.ID,
		&wallet.UserID,
		&wallet.Name,
		&wallet.Currency,
		&wallet.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get wallet by ID: %w", err)
	}

	return &wallet, nil
}

// GetForUser retrieves a wallet only if it belongs to the given user
func (r *walletRepository) GetForUser(ctx context.Context, id, userID uuid.UUID) (*domain.Wallet, error) {
	query := `
		SELECT id, user_id, name, currency, created_at
		FROM wallets
		WHERE id = $1 AND user_id = $2
	`

	var wallet domain.Wallet
	err := r.db.QueryRowContext(ctx, query, id, userID).Scan(
		&wallet.ID,
		&wallet.UserID,
		&wallet.Name,
		&wallet.Currency,
		&wallet.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get wallet for user: %w", err)
	}

	return &wallet, nil
}

// ListByUser retrieves all wallets owned by a user
func (r *walletRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Wallet, error) {
	query := `
		SELECT id, user_id, name, currency, created_at
		FROM wallets
		WHERE user_id = $1
		ORDER BY created_at ASC
	`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list wallets by user: %w", err)
	}
	defer rows.Close()

	return scanWallets(rows)
}

// ListAll retrieves every wallet
func (r *walletRepository) ListAll(ctx context.Context) ([]*domain.Wallet, error) {
	query := `
		SELECT id, user_id, name, currency, created_at
		FROM wallets
		ORDER BY created_at ASC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list all wallets: %w", err)
	}
	defer rows.Close()

	return scanWallets(rows)
}

// Create creates a new wallet
func (r *walletRepository) Create(ctx context.Context, wallet *domain.Wallet) error {
	query := `
		INSERT INTO wallets (id, user_id, name, currency, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := r.db.ExecContext(ctx, query,
		wallet.ID,
		wallet.UserID,
		wallet.Name,
		string(wallet.Currency),
		wallet.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create wallet: %w", err)
	}

	return nil
}

// Update changes a wallet's name and currency
func (r *walletRepository) Update(ctx context.Context, wallet *domain.Wallet) error {
	query := `
		UPDATE wallets
		SET name = $2, currency = $3
		WHERE id = $1
	`

	result, err := r.db.ExecContext(ctx, query,
		wallet.ID,
		wallet.Name,
		string(wallet.Currency),
	)
	if err != nil {
		return fmt.Errorf("failed to update wallet: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read update result: %w", err)
	}
	if rows == 0 {
		return domain.ErrNotFound
	}

	return nil
}

// Delete removes a wallet; transactions, wallet assets and snapshots
// cascade via foreign keys
func (r *walletRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM wallets WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete wallet: %w", err)
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

func scanWallets(rows *sql.Rows) ([]*domain.Wallet, error) {
	var wallets []*domain.Wallet
	for rows.Next() {
		var wallet domain.Wallet
		if err := rows.Scan(
			&wallet.ID,
			&wallet.UserID,
			&wallet.Name,
			&wallet.Currency,
			&wallet.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan wallet row: %w", err)
		}
		wallets = append(wallets, &wallet)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate wallet rows: %w", err)
	}

	return wallets, nil
}
