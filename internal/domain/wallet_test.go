package domain

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestWalletValidate_Valid(t *testing.T) {
	w := Wallet{
		ID:       uuid.New(),
		UserID:   uuid.New(),
		Name:     "Main portfolio",
		Currency: CurrencyEUR,
	}
	assert.NoError(t, w.Validate())
}

func TestWalletValidate_ShortName(t *testing.T) {
	w := Wallet{
		ID:       uuid.New(),
		UserID:   uuid.New(),
		Name:     "ab",
		Currency: CurrencyEUR,
	}

	err := w.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "at least 3 characters")
}

func TestWalletValidate_UnsupportedCurrency(t *testing.T) {
	w := Wallet{
		ID:       uuid.New(),
		UserID:   uuid.New(),
		Name:     "Main portfolio",
		Currency: "GBP",
	}
	assert.Error(t, w.Validate())
}

func TestWalletValidate_MissingUser(t *testing.T) {
	w := Wallet{
		ID:       uuid.New(),
		Name:     "Main portfolio",
		Currency: CurrencyUSD,
	}
	assert.Error(t, w.Validate())
}

func TestAssetPriceable(t *testing.T) {
	crypto := Asset{Class: AssetClassCrypto, Provider: ProviderCoinGecko, APIID: "bitcoin", Symbol: "BTC"}
	assert.True(t, crypto.Priceable())

	stock := Asset{Class: AssetClassStock, Provider: ProviderTwelveData, APIID: "AAPL", Symbol: "AAPL"}
	assert.True(t, stock.Priceable())

	etf := Asset{Class: AssetClassETF, Provider: ProviderTwelveData, APIID: "VWCE", Symbol: "VWCE"}
	assert.True(t, etf.Priceable())

	// MANUAL assets and missing apiIds never resolve to a live price
	manual := Asset{Class: AssetClassCash, Provider: ProviderManual, Symbol: "SAVINGS"}
	assert.False(t, manual.Priceable())

	noID := Asset{Class: AssetClassCrypto, Provider: ProviderCoinGecko, Symbol: "ETH"}
	assert.False(t, noID.Priceable())

	// A provider/class mismatch is not priceable either
	mismatch := Asset{Class: AssetClassCrypto, Provider: ProviderTwelveData, APIID: "BTC", Symbol: "BTC"}
	assert.False(t, mismatch.Priceable())
}
