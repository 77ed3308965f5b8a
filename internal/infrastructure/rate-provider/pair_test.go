package rateprovider_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	rateprovider "github.com/tdex-network/dogecustody/internal/infrastructure/rate-provider"
	"github.com/tdex-network/dogecustody/pkg/mathutil"
)

func TestApplyDirection(t *testing.T) {
	price := decimal.RequireFromString("0.12345678")

	rate, err := rateprovider.ApplyDirection(price, false)
	require.NoError(t, err)
	require.True(t, rate.Equal(price))

	rate, err = rateprovider.ApplyDirection(price, true)
	require.NoError(t, err)
	require.Equal(t, "8.100000664200054464", rate.String())

	// 1M USDT converted at the inverse rate must not lose koinu.
	amount := decimal.NewFromInt(1_000_000).Mul(rate)
	require.Equal(t, uint64(810000066420005), mathutil.ToUnits(amount))

	_, err = rateprovider.ApplyDirection(decimal.Zero, true)
	require.Error(t, err)
}
