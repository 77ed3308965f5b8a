package mathutil

import (
	"math"
	"math/big"

	"github.com/shopspring/decimal"
)

var (
	//BigOne represents a single unit of an asset with precision 8
	BigOne = uint64(math.Pow10(8))
	//BigOneDecimal represents a single unit of an asset with precision 8 as decimal.Decimal
	BigOneDecimal = decimal.NewFromInt(int64(BigOne))
)

// DivisionPrecision is the number of decimal places kept by DivDecimal. It
// is larger than the precision of any supported asset so that rates can be
// multiplied by large amounts without losing base units.
const DivisionPrecision = 18

//MulDecimal takes two decimal.Decimal numbers and multiply them x * y and returns the result as decimal.Decimal
func MulDecimal(X, Y decimal.Decimal) (z decimal.Decimal) {
	z = X.Mul(Y)
	return
}

// DivDecimal returns x / y rounded to DivisionPrecision decimal places
func DivDecimal(X, Y decimal.Decimal) (z decimal.Decimal) {
	z = X.DivRound(Y, DivisionPrecision)
	return
}

// FromUnits converts an amount expressed in the smallest unit (ie. koinu) to
// the same amount expressed in coins, given a precision of 8 decimals
func FromUnits(amount uint64) decimal.Decimal {
	return decimal.NewFromBigInt(new(big.Int).SetUint64(amount), -8)
}

// ToUnits converts an amount expressed in coins to the smallest unit, given a
// precision of 8 decimals. The result is rounded down and negative amounts
// are converted to 0.
func ToUnits(amount decimal.Decimal) uint64 {
	if amount.IsNegative() {
		return 0
	}
	return amount.Shift(8).Floor().BigInt().Uint64()
}

// ToBaseUnits converts an amount to an integer of the given precision, like
// the 6 decimals used by USDT on Ethereum. The result is rounded down.
func ToBaseUnits(amount decimal.Decimal, precision int32) *big.Int {
	return amount.Shift(precision).Floor().BigInt()
}
