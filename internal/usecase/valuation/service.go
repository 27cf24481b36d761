// Package valuation computes point-in-time portfolio value and cost-basis
// profit/loss from the transaction ledger, OTHER wallet assets and live
// prices.
package valuation

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/simaogato/walletfolio-backend/internal/domain"
	"github.com/simaogato/walletfolio-backend/internal/usecase/holdings"
)

// Allocation bucket names shown in the category breakdown
const (
	BucketCrypto = "Crypto"
	BucketStocks = "Stocks"
	BucketETFs   = "ETFs"
	BucketOther  = "Other"
)

// Bucket is one category slice of the allocation breakdown
type Bucket struct {
	Name  string
	Value decimal.Decimal
}

// Result represents a computed portfolio valuation.
// All amounts are unrounded; rounding to 2 decimal places happens at the
// response boundary only.
type Result struct {
	MainValue         decimal.Decimal // Priced holdings at live prices
	OtherValue        decimal.Decimal // Signed sum of OTHER assets
	CurrentTotalValue decimal.Decimal // MainValue + OtherValue
	Invested          decimal.Decimal // Cumulative BUY cost basis
	OverallPL         decimal.Decimal // MainValue - Invested
	Allocation        []Bucket
	PricedAssetCount  int
}

// Compute derives a valuation from a transaction ledger, OTHER assets,
// asset metadata and resolved prices.
//
// Cost basis ("invested") sums quantity x execution price over BUY
// transactions only; SELLs do not reduce it. The basis tracks cumulative
// capital deployed rather than FIFO-matched remaining lots - a documented
// simplification of this design, and OTHER assets carry no basis at all,
// so OverallPL covers priced holdings only.
func Compute(
	txs []*domain.Transaction,
	others []*domain.WalletAsset,
	assets []*domain.Asset,
	prices map[uuid.UUID]decimal.Decimal,
) *Result {
	classByID := make(map[uuid.UUID]domain.AssetClass, len(assets))
	for _, a := range assets {
		if a != nil {
			classByID[a.ID] = a.Class
		}
	}

	invested := decimal.Zero
	for _, tx := range txs {
		if tx == nil || tx.Type != domain.TransactionTypeBuy {
			continue
		}
		if tx.Quantity.LessThanOrEqual(decimal.Zero) || tx.PricePerUnit.LessThanOrEqual(decimal.Zero) {
			continue
		}
		invested = invested.Add(tx.Quantity.Mul(tx.PricePerUnit))
	}

	mainValue := decimal.Zero
	vCrypto, vStocks, vETFs := decimal.Zero, decimal.Zero, decimal.Zero
	priced := 0

	for _, h := range holdings.Active(holdings.Resolve(txs)) {
		price, ok := prices[h.AssetID]
		if !ok {
			// Missing price contributes zero, never fails the valuation
			continue
		}
		priced++

		v := h.Quantity.Mul(price)
		mainValue = mainValue.Add(v)

		switch classByID[h.AssetID] {
		case domain.AssetClassCrypto:
			vCrypto = vCrypto.Add(v)
		case domain.AssetClassStock:
			vStocks = vStocks.Add(v)
		case domain.AssetClassETF:
			vETFs = vETFs.Add(v)
		}
	}

	otherValue := decimal.Zero
	for _, o := range others {
		if o == nil {
			continue
		}
		otherValue = otherValue.Add(o.Value)
	}

	return &Result{
		MainValue:         mainValue,
		OtherValue:        otherValue,
		CurrentTotalValue: mainValue.Add(otherValue),
		Invested:          invested,
		OverallPL:         mainValue.Sub(invested),
		Allocation: []Bucket{
			{Name: BucketCrypto, Value: vCrypto},
			{Name: BucketStocks, Value: vStocks},
			{Name: BucketETFs, Value: vETFs},
			{Name: BucketOther, Value: otherValue},
		},
		PricedAssetCount: priced,
	}
}

// Percentages computes each bucket's share of the summed allocation.
// When the total is zero every share is zero - never a division by zero.
func Percentages(allocation []Bucket) map[string]decimal.Decimal {
	total := decimal.Zero
	for _, b := range allocation {
		total = total.Add(b.Value)
	}

	shares := make(map[string]decimal.Decimal, len(allocation))
	for _, b := range allocation {
		if total.IsZero() {
			shares[b.Name] = decimal.Zero
			continue
		}
		shares[b.Name] = b.Value.Div(total).Mul(decimal.NewFromInt(100))
	}
	return shares
}

// PriceResolver is the live-pricing collaborator of the valuation service
type PriceResolver interface {
	Resolve(ctx context.Context, assets []*domain.Asset, quote domain.Currency) map[uuid.UUID]decimal.Decimal
}

// Service loads a wallet's ledger and OTHER assets, resolves live prices
// and computes its valuation
type Service struct {
	TransactionRepo domain.TransactionRepository
	WalletAssetRepo domain.WalletAssetRepository
	AssetRepo       domain.AssetRepository
	Prices          PriceResolver

	log zerolog.Logger
}

// NewService creates a new valuation Service instance
func NewService(
	transactionRepo domain.TransactionRepository,
	walletAssetRepo domain.WalletAssetRepository,
	assetRepo domain.AssetRepository,
	prices PriceResolver,
	log zerolog.Logger,
) *Service {
	return &Service{
		TransactionRepo: transactionRepo,
		WalletAssetRepo: walletAssetRepo,
		AssetRepo:       assetRepo,
		Prices:          prices,
		log:             log.With().Str("component", "valuation").Logger(),
	}
}

// ValueWallet computes the live valuation of a single wallet
func (s *Service) ValueWallet(ctx context.Context, wallet *domain.Wallet) (*Result, error) {
	txs, err := s.TransactionRepo.ListByWallet(ctx, wallet.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load transactions: %w", err)
	}

	others, err := s.WalletAssetRepo.ListByWallet(ctx, wallet.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load wallet assets: %w", err)
	}

	return s.value(ctx, txs, others, wallet.Currency)
}

// ValueWallets computes one combined valuation across several wallets,
// all priced in the given quote currency
func (s *Service) ValueWallets(ctx context.Context, walletIDs []uuid.UUID, quote domain.Currency) (*Result, error) {
	if len(walletIDs) == 0 {
		return Compute(nil, nil, nil, nil), nil
	}

	txs, err := s.TransactionRepo.ListByWallets(ctx, walletIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load transactions: %w", err)
	}

	others, err := s.WalletAssetRepo.ListByWallets(ctx, walletIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load wallet assets: %w", err)
	}

	return s.value(ctx, txs, others, quote)
}

func (s *Service) value(ctx context.Context, txs []*domain.Transaction, others []*domain.WalletAsset, quote domain.Currency) (*Result, error) {
	held := holdings.Active(holdings.Resolve(txs))

	assetIDs := make([]uuid.UUID, 0, len(held))
	for _, h := range held {
		assetIDs = append(assetIDs, h.AssetID)
	}

	var assets []*domain.Asset
	if len(assetIDs) > 0 {
		var err error
		assets, err = s.AssetRepo.ListByIDs(ctx, assetIDs)
		if err != nil {
			return nil, fmt.Errorf("failed to load asset metadata: %w", err)
		}
	}

	prices := s.Prices.Resolve(ctx, assets, quote)
	result := Compute(txs, others, assets, prices)

	if result.PricedAssetCount < len(held) {
		s.log.Debug().
			Int("held", len(held)).
			Int("priced", result.PricedAssetCount).
			Msg("Some holdings valued at zero due to missing prices")
	}

	return result, nil
}
