package coingecko

import (
	"bytes"
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
	// BaseURL is the base url of the public CoinGecko API
	BaseURL = "https://api.coingecko.com/api/v3"
	// DefaultRequestsPerSecond keeps the client within the limits of the
	// public API
	DefaultRequestsPerSecond = 1
)

// markets maps the supported pairs to the CoinGecko coin id and the
// currency it is priced in
var markets = rateprovider.Markets{
	{Base: domain.AssetDOGE, Quote: domain.AssetUSDT}: "dogecoin:usdt",
	{Base: domain.AssetUSDT, Quote: domain.AssetBRL}:  "tether:brl",
}

type service struct {
	baseURL string
	client  *httputil.Client
}

// NewRateProvider returns a RateProvider backed by the CoinGecko simple
// price API
func NewRateProvider(baseURL string, timeout time.Duration) ports.RateProvider {
	baseURL = strings.TrimSuffix(baseURL, "/")
	if baseURL == "" {
		baseURL = BaseURL
	}
	return &service{
		baseURL: baseURL,
		client: httputil.NewClient(httputil.ClientOpts{
			Name:              "coingecko",
			Timeout:           timeout,
			RequestsPerSecond: DefaultRequestsPerSecond,
		}),
	}
}

func (s *service) GetRate(
	ctx context.Context, base, quote string,
) (decimal.Decimal, error) {
	market, inverse, err := markets.Lookup(base, quote)
	if err != nil {
		return decimal.Zero, err
	}
	coinID, currency, _ := strings.Cut(market, ":")

	query := url.Values{}
	query.Set("ids", coinID)
	query.Set("vs_currencies", currency)
	status, resp, err := s.client.NewHTTPRequest(
		ctx, http.MethodGet, s.baseURL+"/simple/price?"+query.Encode(), "", nil,
	)
	if err != nil {
		return decimal.Zero, err
	}
	if status != http.StatusOK {
		return decimal.Zero, fmt.Errorf("coingecko: %d: %s", status, resp)
	}

	prices := make(map[string]map[string]json.Number)
	dec := json.NewDecoder(bytes.NewBufferString(resp))
	dec.UseNumber()
	if err := dec.Decode(&prices); err != nil {
		return decimal.Zero, fmt.Errorf("coingecko: failed to parse response: %w", err)
	}

	number, ok := prices[coinID][currency]
	if !ok {
		return decimal.Zero, fmt.Errorf(
			"coingecko: price of %s in %s not found", coinID, currency,
		)
	}
	price, err := decimal.NewFromString(number.String())
	if err != nil {
		return decimal.Zero, fmt.Errorf("coingecko: invalid price: %w", err)
	}

	return rateprovider.ApplyDirection(price, inverse)
}
