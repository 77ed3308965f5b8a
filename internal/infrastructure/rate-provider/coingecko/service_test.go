package coingecko_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tdex-network/dogecustody/internal/core/domain"
	rateprovider "github.com/tdex-network/dogecustody/internal/infrastructure/rate-provider"
	"github.com/tdex-network/dogecustody/internal/infrastructure/rate-provider/coingecko"
)

func newTestServer(t *testing.T) *httptest.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/simple/price", func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()
		switch query.Get("ids") + ":" + query.Get("vs_currencies") {
		case "dogecoin:usdt":
			w.Write([]byte(`{"dogecoin":{"usdt":0.125}}`))
		case "tether:brl":
			w.Write([]byte(`{"tether":{"brl":5.25}}`))
		default:
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"error":"invalid vs_currency"}`))
		}
	})
	return httptest.NewServer(mux)
}

func TestGetRate(t *testing.T) {
	server := newTestServer(t)
	defer server.Close()

	ctx := context.Background()
	provider := coingecko.NewRateProvider(server.URL, 0)

	tests := []struct {
		base, quote  string
		expectedRate string
	}{
		{domain.AssetDOGE, domain.AssetUSDT, "0.125"},
		{domain.AssetUSDT, domain.AssetDOGE, "8"},
		{domain.AssetUSDT, domain.AssetBRL, "5.25"},
		{domain.AssetBRL, domain.AssetUSDT, "0.190476190476190476"},
	}

	for _, tt := range tests {
		t.Run(tt.base+"/"+tt.quote, func(t *testing.T) {
			rate, err := provider.GetRate(ctx, tt.base, tt.quote)
			require.NoError(t, err)
			require.Equal(t, tt.expectedRate, rate.String())
		})
	}

	_, err := provider.GetRate(ctx, domain.AssetDOGE, domain.AssetBRL)
	require.ErrorIs(t, err, rateprovider.ErrUnsupportedPair)
}

func TestGetRateFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTooManyRequests)
			w.Write([]byte(`{"status":{"error_code":429}}`))
		},
	))
	defer server.Close()

	provider := coingecko.NewRateProvider(server.URL, 0)
	_, err := provider.GetRate(
		context.Background(), domain.AssetDOGE, domain.AssetUSDT,
	)
	require.Error(t, err)
	require.Contains(t, err.Error(), "429")
}
