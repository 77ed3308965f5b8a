package ports

import (
	"context"

	"github.com/shopspring/decimal"
)

// RateProvider returns the current exchange rate of a pair of assets, that
// is how many units of quote are worth one unit of base
type RateProvider interface {
	GetRate(ctx context.Context, base, quote string) (decimal.Decimal, error)
}
