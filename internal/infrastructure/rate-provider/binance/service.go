package binance

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/tdex-network/dogecustody/internal/core/domain"
	"github.com/tdex-network/dogecustody/internal/core/ports"
	rateprovider "github.com/tdex-network/dogecustody/internal/infrastructure/rate-provider"
	"github.com/tdex-network/dogecustody/pkg/httputil"
)

const (
	// BaseURL is the base url of the Binance spot API
	BaseURL = "https://api.binance.com/api/v3"
	// DefaultRequestsPerSecond ...
	DefaultRequestsPerSecond = 10
)

var markets = rateprovider.Markets{
	{Base: domain.AssetDOGE, Quote: domain.AssetUSDT}: "DOGEUSDT",
	{Base: domain.AssetUSDT, Quote: domain.AssetBRL}:  "USDTBRL",
}

type tickerPrice struct {
	Symbol string `json:"symbol"`
	Price  string `json:"price"`
}

type apiError struct {
	Code int    `json:"code"`
	Msg  string `json:"msg"`
}

type service struct {
	baseURL string
	client  *httputil.Client
}

// NewRateProvider returns a RateProvider backed by the Binance ticker price
// API
func NewRateProvider(baseURL string, timeout time.Duration) ports.RateProvider {
	baseURL = strings.TrimSuffix(baseURL, "/")
	if baseURL == "" {
		baseURL = BaseURL
	}
	return &service{
		baseURL: baseURL,
		client: httputil.NewClient(httputil.ClientOpts{
			Name:              "binance",
			Timeout:           timeout,
			RequestsPerSecond: DefaultRequestsPerSecond,
		}),
	}
}

func (s *service) GetRate(
	ctx context.Context, base, quote string,
) (decimal.Decimal, error) {
	symbol, inverse, err := markets.Lookup(base, quote)
	if err != nil {
		return decimal.Zero, err
	}

	query := url.Values{}
	query.Set("symbol", symbol)
	status, resp, err := s.client.NewHTTPRequest(
		ctx, http.MethodGet, s.baseURL+"/ticker/price?"+query.Encode(), "", nil,
	)
	if err != nil {
		return decimal.Zero, err
	}
	if status != http.StatusOK {
		var e apiError
		if err := json.Unmarshal([]byte(resp), &e); err == nil && e.Msg != "" {
			return decimal.Zero, fmt.Errorf("binance: %d: %s", e.Code, e.Msg)
		}
		return decimal.Zero, fmt.Errorf("binance: %d: %s", status, resp)
	}

	var ticker tickerPrice
	if err := json.Unmarshal([]byte(resp), &ticker); err != nil {
		return decimal.Zero, fmt.Errorf("binance: failed to parse response: %w", err)
	}
	price, err := decimal.NewFromString(ticker.Price)
	if err != nil {
		return decimal.Zero, fmt.Errorf("binance: invalid price: %w", err)
	}

	return rateprovider.ApplyDirection(price, inverse)
}
