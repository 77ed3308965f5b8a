package binance_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tdex-network/dogecustody/internal/core/domain"
	rateprovider "github.com/tdex-network/dogecustody/internal/infrastructure/rate-provider"
	"github.com/tdex-network/dogecustody/internal/infrastructure/rate-provider/binance"
)

func newTestServer(t *testing.T) *httptest.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/ticker/price", func(w http.ResponseWriter, r *http.Request) {
		switch symbol := r.URL.Query().Get("symbol"); symbol {
		case "DOGEUSDT":
			w.Write([]byte(`{"symbol":"DOGEUSDT","price":"0.25000000"}`))
		case "USDTBRL":
			w.Write([]byte(`{"symbol":"USDTBRL","price":"5.00000000"}`))
		default:
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"code":-1121,"msg":"Invalid symbol."}`))
		}
	})
	return httptest.NewServer(mux)
}

func TestGetRate(t *testing.T) {
	server := newTestServer(t)
	defer server.Close()

	ctx := context.Background()
	provider := binance.NewRateProvider(server.URL, 0)

	tests := []struct {
		base, quote  string
		expectedRate string
	}{
		{domain.AssetDOGE, domain.AssetUSDT, "0.25"},
		{domain.AssetUSDT, domain.AssetDOGE, "4"},
		{domain.AssetUSDT, domain.AssetBRL, "5"},
		{domain.AssetBRL, domain.AssetUSDT, "0.2"},
	}

	for _, tt := range tests {
		t.Run(tt.base+"/"+tt.quote, func(t *testing.T) {
			rate, err := provider.GetRate(ctx, tt.base, tt.quote)
			require.NoError(t, err)
			require.Equal(t, tt.expectedRate, rate.String())
		})
	}

	_, err := provider.GetRate(ctx, "BTC", domain.AssetUSDT)
	require.ErrorIs(t, err, rateprovider.ErrUnsupportedPair)
}

func TestGetRateFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"code":-1121,"msg":"Invalid symbol."}`))
		},
	))
	defer server.Close()

	provider := binance.NewRateProvider(server.URL, 0)
	_, err := provider.GetRate(
		context.Background(), domain.AssetDOGE, domain.AssetUSDT,
	)
	require.EqualError(t, err, "binance: -1121: Invalid symbol.")
}
