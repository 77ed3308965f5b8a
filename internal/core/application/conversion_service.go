package application

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/tdex-network/dogecustody/internal/core/domain"
	"github.com/tdex-network/dogecustody/internal/core/ports"
)

// ConversionService converts amounts between DOGE, USDT and BRL at the
// current market rate
type ConversionService interface {
	// GetRate returns how many units of quote are worth one unit of base
	GetRate(ctx context.Context, base, quote string) (decimal.Decimal, error)
	Convert(
		ctx context.Context, amount decimal.Decimal, from, to string,
	) (decimal.Decimal, error)
}

type conversionService struct {
	rateProvider ports.RateProvider
}

// NewConversionService returns a conversion service backed by the given rate
// provider. Rates are fetched on every call.
func NewConversionService(
	rateProvider ports.RateProvider,
) (ConversionService, error) {
	if rateProvider == nil {
		return nil, ErrNullRateProvider
	}
	return &conversionService{rateProvider}, nil
}

func (s *conversionService) GetRate(
	ctx context.Context, base, quote string,
) (decimal.Decimal, error) {
	if err := validateAssets(base, quote); err != nil {
		return decimal.Zero, err
	}
	if base == quote {
		return decimal.New(1, 0), nil
	}

	// Pairs not involving USDT are crossed through USDT.
	if base != domain.AssetUSDT && quote != domain.AssetUSDT {
		baseRate, err := s.getRate(ctx, base, domain.AssetUSDT)
		if err != nil {
			return decimal.Zero, err
		}
		quoteRate, err := s.getRate(ctx, domain.AssetUSDT, quote)
		if err != nil {
			return decimal.Zero, err
		}
		return baseRate.Mul(quoteRate), nil
	}

	return s.getRate(ctx, base, quote)
}

func (s *conversionService) Convert(
	ctx context.Context, amount decimal.Decimal, from, to string,
) (decimal.Decimal, error) {
	if amount.IsNegative() {
		return decimal.Zero, domain.ErrInvalidAmount
	}

	rate, err := s.GetRate(ctx, from, to)
	if err != nil {
		return decimal.Zero, err
	}
	return amount.Mul(rate), nil
}

func (s *conversionService) getRate(
	ctx context.Context, base, quote string,
) (decimal.Decimal, error) {
	rate, err := s.rateProvider.GetRate(ctx, base, quote)
	if err != nil {
		return decimal.Zero, domain.NewExternalServiceError("rate provider", err)
	}
	if !rate.IsPositive() {
		return decimal.Zero, domain.NewExternalServiceError(
			"rate provider",
			fmt.Errorf("got non positive rate %s for %s/%s", rate, base, quote),
		)
	}
	return rate, nil
}

func validateAssets(assets ...string) error {
	for _, asset := range assets {
		if !domain.IsSupportedAsset(asset) {
			return fmt.Errorf("%w: %s", domain.ErrUnsupportedAsset, asset)
		}
	}
	return nil
}
