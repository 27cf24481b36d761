package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Currency is the quote currency of a wallet
type Currency string

const (
	CurrencyEUR Currency = "EUR"
	CurrencyUSD Currency = "USD"
)

// Wallet represents a wallet entity in the domain layer
// A wallet belongs to exactly one user and owns its transactions,
// its OTHER assets and its snapshots
type Wallet struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Name      string
	Currency  Currency
	CreatedAt time.Time
}

// Validate ensures the wallet adheres to domain rules
// Returns an error if validation fails
func (w *Wallet) Validate() error {
	if len(w.Name) < 3 {
		return errors.New("wallet name must have at least 3 characters")
	}

	if w.Currency == "" {
		return errors.New("wallet currency is required")
	}

	if w.Currency != CurrencyEUR && w.Currency != CurrencyUSD {
		return errors.New("wallet currency must be EUR or USD")
	}

	if w.UserID == uuid.Nil {
		return errors.New("wallet must belong to a user")
	}

	return nil
}
