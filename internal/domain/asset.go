package domain

import (
	"errors"

	"github.com/google/uuid"
)

// AssetClass represents the category of a catalog asset
type AssetClass string

const (
	AssetClassCrypto AssetClass = "CRYPTO"
	AssetClassStock  AssetClass = "STOCK"
	AssetClassETF    AssetClass = "ETF"
	AssetClassCash   AssetClass = "CASH"
)

// PriceProvider identifies which upstream quote source prices an asset
type PriceProvider string

const (
	ProviderCoinGecko  PriceProvider = "COINGECKO"
	ProviderTwelveData PriceProvider = "TWELVEDATA"
	ProviderManual     PriceProvider = "MANUAL"
)

// Asset represents a catalog entry in the domain layer
// Assets are owned by a shared catalog, not by any wallet, and are
// immutable once priced transactions reference them
type Asset struct {
	ID       uuid.UUID
	Class    AssetClass
	Symbol   string
	Name     string
	Provider PriceProvider
	APIID    string // Provider-specific identifier (CoinGecko id or TwelveData symbol)
	Exchange string // Optional exchange hint for equities
}

// Validate ensures the asset adheres to domain rules
// Returns an error if validation fails
func (a *Asset) Validate() error {
	if a.Symbol == "" {
		return errors.New("asset symbol cannot be empty")
	}

	switch a.Class {
	case AssetClassCrypto, AssetClassStock, AssetClassETF, AssetClassCash:
	default:
		return errors.New("asset class must be CRYPTO, STOCK, ETF or CASH")
	}

	switch a.Provider {
	case ProviderCoinGecko, ProviderTwelveData, ProviderManual:
	default:
		return errors.New("asset provider must be COINGECKO, TWELVEDATA or MANUAL")
	}

	// A provider binding without an identifier cannot be priced
	if a.Provider != ProviderManual && a.APIID == "" {
		return errors.New("priced asset must have a provider apiId")
	}

	return nil
}

// Priceable reports whether the asset can be resolved against a live
// quote source. MANUAL assets and assets without an apiId are excluded.
func (a *Asset) Priceable() bool {
	if a.APIID == "" {
		return false
	}
	switch {
	case a.Provider == ProviderCoinGecko && a.Class == AssetClassCrypto:
		return true
	case a.Provider == ProviderTwelveData && (a.Class == AssetClassStock || a.Class == AssetClassETF):
		return true
	}
	return false
}
