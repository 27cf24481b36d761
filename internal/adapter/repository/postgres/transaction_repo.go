package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/simaogato/walletfolio-backend/internal/domain"
)

// transactionRepository implements domain.TransactionRepository
type transactionRepository struct {
	db *DB
}

// NewTransactionRepository creates a new transaction repository
func NewTransactionRepository(db *DB) domain.TransactionRepository {
	return &transactionRepository{db: db}
}

// GetByID retrieves a transaction scoped to a wallet
func (r *transactionRepository) GetByID(ctx context.Context, id, walletID uuid.UUID) (*domain.Transaction, error) {
	query := `
		SELECT id, wallet_id, asset_id, type, quantity, price_per_unit, date, note
		FROM transactions
		WHERE id = $1 AND wallet_id = $2
	`

	var tx domain.Transaction
	var quantityStr, priceStr string
	var note sql.NullString

	err := r.db.QueryRowContext(ctx, query, id, walletID).Scan(
		&tx.ID,
		&tx.WalletID,
		&tx.AssetID,
		&tx.Type,
		&quantityStr,
		&priceStr,
		&tx.Date,
		&note,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get transaction by ID: %w", err)
	}

	if err := parseTransactionAmounts(&tx, quantityStr, priceStr); err != nil {
		return nil, err
	}
	tx.Note = note.String

	return &tx, nil
}

// ListByWallet retrieves a wallet's full ledger in ascending date order
func (r *transactionRepository) ListByWallet(ctx context.Context, walletID uuid.UUID) ([]*domain.Transaction, error) {
	query := `
		SELECT id, wallet_id, asset_id, type, quantity, price_per_unit, date, note
		FROM transactions
		WHERE wallet_id = $1
		ORDER BY date ASC
	`

	rows, err := r.db.QueryContext(ctx, query, walletID)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions by wallet: %w", err)
	}
	defer rows.Close()

	return scanTransactions(rows)
}

// ListByWallets retrieves the combined ledger of several wallets
func (r *transactionRepository) ListByWallets(ctx context.Context, walletIDs []uuid.UUID) ([]*domain.Transaction, error) {
	if len(walletIDs) == 0 {
		return nil, nil
	}

	query := `
		SELECT id, wallet_id, asset_id, type, quantity, price_per_unit, date, note
		FROM transactions
		WHERE wallet_id = ANY($1)
		ORDER BY date ASC
	`

	rows, err := r.db.QueryContext(ctx, query, pq.Array(walletIDs))
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions by wallets: %w", err)
	}
	defer rows.Close()

	return scanTransactions(rows)
}

// Create appends a new ledger entry
func (r *transactionRepository) Create(ctx context.Context, tx *domain.Transaction) error {
	query := `
		INSERT INTO transactions (id, wallet_id, asset_id, type, quantity, price_per_unit, date, note)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.db.ExecContext(ctx, query,
		tx.ID,
		tx.WalletID,
		tx.AssetID,
		string(tx.Type),
		tx.Quantity.String(),
		tx.PricePerUnit.String(),
		tx.Date,
		nullString(tx.Note),
	)
	if err != nil {
		return fmt.Errorf("failed to create transaction: %w", err)
	}

	return nil
}

// Update changes the quantity and price of an existing entry
func (r *transactionRepository) Update(ctx context.Context, tx *domain.Transaction) error {
	query := `
		UPDATE transactions
		SET quantity = $2, price_per_unit = $3, date = $4, note = $5
		WHERE id = $1
	`

	result, err := r.db.ExecContext(ctx, query,
		tx.ID,
		tx.Quantity.String(),
		tx.PricePerUnit.String(),
		tx.Date,
		nullString(tx.Note),
	)
	if err != nil {
		return fmt.Errorf("failed to update transaction: %w", err)
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

// Delete removes a ledger entry
func (r *transactionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM transactions WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete transaction: %w", err)
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

func scanTransactions(rows *sql.Rows) ([]*domain.Transaction, error) {
	var txs []*domain.Transaction
	for rows.Next() {
		var tx domain.Transaction
		var quantityStr, priceStr string
		var note sql.NullString

		if err := rows.Scan(
			&tx.ID,
			&tx.WalletID,
			&tx.AssetID,
			&tx.Type,
			&quantityStr,
			&priceStr,
			&tx.Date,
			&note,
		); err != nil {
			return nil, fmt.Errorf("failed to scan transaction row: %w", err)
		}

		if err := parseTransactionAmounts(&tx, quantityStr, priceStr); err != nil {
			return nil, err
		}
		tx.Note = note.String
		txs = append(txs, &tx)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate transaction rows: %w", err)
	}

	return txs, nil
}

func parseTransactionAmounts(tx *domain.Transaction, quantityStr, priceStr string) error {
	quantity, err := decimal.NewFromString(quantityStr)
	if err != nil {
		return fmt.Errorf("failed to parse quantity: %w", err)
	}
	tx.Quantity = quantity

	price, err := decimal.NewFromString(priceStr)
	if err != nil {
		return fmt.Errorf("failed to parse price_per_unit: %w", err)
	}
	tx.PricePerUnit = price

	return nil
}
