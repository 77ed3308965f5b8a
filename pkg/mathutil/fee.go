package mathutil

import (
	"math/big"

	"github.com/shopspring/decimal"
)

// SplitFee splits an amount into the share given by fraction (rounded down)
// and the remainder. Fractions outside [0, 1) are clamped.
func SplitFee(amount uint64, fraction decimal.Decimal) (fee, rest uint64) {
	if fraction.IsNegative() {
		fraction = decimal.Zero
	}
	if fraction.GreaterThanOrEqual(decimal.New(1, 0)) {
		return amount, 0
	}

	amountDecimal := decimal.NewFromBigInt(new(big.Int).SetUint64(amount), 0)
	feeDecimal := MulDecimal(amountDecimal, fraction).Floor()

	fee = feeDecimal.BigInt().Uint64()
	rest = amount - fee
	return
}
