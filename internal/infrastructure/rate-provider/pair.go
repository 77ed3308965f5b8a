package rateprovider

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/tdex-network/dogecustody/pkg/mathutil"
)

// ErrUnsupportedPair is returned for pairs a provider has no market for
var ErrUnsupportedPair = errors.New("pair is not supported")

// Pair identifies a market by its base and quote assets
type Pair struct {
	Base  string
	Quote string
}

func (p Pair) String() string {
	return fmt.Sprintf("%s/%s", p.Base, p.Quote)
}

// Inverse returns the pair with base and quote swapped
func (p Pair) Inverse() Pair {
	return Pair{p.Quote, p.Base}
}

// Markets maps the pairs a provider quotes to the provider's own market
// identifiers
type Markets map[Pair]string

// Lookup returns the market identifier of the given pair. If only the inverse
// pair is quoted by the provider, its identifier is returned along with
// inverse set to true.
func (m Markets) Lookup(base, quote string) (market string, inverse bool, err error) {
	pair := Pair{base, quote}
	if market, ok := m[pair]; ok {
		return market, false, nil
	}
	if market, ok := m[pair.Inverse()]; ok {
		return market, true, nil
	}
	return "", false, fmt.Errorf("%w: %s", ErrUnsupportedPair, pair)
}

// ApplyDirection returns the price as is or its inverse
func ApplyDirection(price decimal.Decimal, inverse bool) (decimal.Decimal, error) {
	if !price.IsPositive() {
		return decimal.Zero, fmt.Errorf("got non positive price %s", price)
	}
	if inverse {
		return mathutil.DivDecimal(decimal.New(1, 0), price), nil
	}
	return price, nil
}
