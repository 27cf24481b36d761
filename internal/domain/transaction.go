package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionType represents the direction of a ledger entry
type TransactionType string

const (
	TransactionTypeBuy  TransactionType = "BUY"
	TransactionTypeSell TransactionType = "SELL"
)

// Transaction represents a ledger entry in the domain layer
// The append-only transaction ledger is the sole source of truth for
// holdings; entries are only ever changed by an explicit owner edit or
// delete, each of which triggers a revaluation snapshot.
type Transaction struct {
	ID           uuid.UUID
	WalletID     uuid.UUID
	AssetID      uuid.UUID
	Type         TransactionType
	Quantity     decimal.Decimal // ABSOLUTE VALUE (Always Positive)
	PricePerUnit decimal.Decimal // Unit price at execution (Always Positive)
	Date         time.Time
	Note         string
}

// Validate ensures the transaction adheres to domain rules
// Returns an error if validation fails
func (t *Transaction) Validate() error {
	if t.Type != TransactionTypeBuy && t.Type != TransactionTypeSell {
		return errors.New("transaction type must be BUY or SELL")
	}

	if t.WalletID == uuid.Nil {
		return errors.New("transaction must reference a wallet")
	}

	if t.AssetID == uuid.Nil {
		return errors.New("transaction must reference an asset")
	}

	if t.Quantity.LessThanOrEqual(decimal.Zero) {
		return errors.New("transaction quantity must be positive")
	}

	if t.PricePerUnit.LessThanOrEqual(decimal.Zero) {
		return errors.New("transaction price per unit must be positive")
	}

	if t.Date.IsZero() {
		return errors.New("transaction date is required")
	}

	return nil
}

// SignedQuantity returns the quantity with the ledger sign applied:
// positive for BUY, negative for SELL
func (t *Transaction) SignedQuantity() decimal.Decimal {
	if t.Type == TransactionTypeSell {
		return t.Quantity.Neg()
	}
	return t.Quantity
}
