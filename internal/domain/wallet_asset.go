package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// WalletAsset represents a manually-valued OTHER item in the domain layer
// It has no market asset binding and lives outside the transaction ledger
// The value is signed: negative values model debts
type WalletAsset struct {
	ID        uuid.UUID
	WalletID  uuid.UUID
	Name      string
	Value     decimal.Decimal // Signed: savings positive, debt negative
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Validate ensures the wallet asset adheres to domain rules
// Returns an error if validation fails
func (a *WalletAsset) Validate() error {
	if len(a.Name) < 2 {
		return errors.New("wallet asset name must have at least 2 characters")
	}

	if a.WalletID == uuid.Nil {
		return errors.New("wallet asset must belong to a wallet")
	}

	return nil
}
