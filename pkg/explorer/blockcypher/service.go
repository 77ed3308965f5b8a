package blockcypher

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/tdex-network/dogecustody/pkg/explorer"
	"github.com/tdex-network/dogecustody/pkg/httputil"
)

const (
	// MainnetURL is the base url of the BlockCypher API for Dogecoin mainnet
	MainnetURL = "https://api.blockcypher.com/v1/doge/main"
	// DefaultRequestsPerSecond is the rate limit of the free BlockCypher plan
	DefaultRequestsPerSecond = 3
)

type blockcypher struct {
	apiURL string
	token  string
	client *httputil.Client
}

// ServiceOpts is the struct given to NewService method
type ServiceOpts struct {
	APIURL            string
	Token             string
	RequestsPerSecond int
	Timeout           time.Duration
	SkipHealthCheck   bool
}

// NewService returns a new BlockCypher service as an explorer.Service
// interface
func NewService(opts ServiceOpts) (explorer.Service, error) {
	apiURL := strings.TrimSuffix(opts.APIURL, "/")
	if apiURL == "" {
		apiURL = MainnetURL
	}
	rps := opts.RequestsPerSecond
	if rps == 0 {
		rps = DefaultRequestsPerSecond
	}

	service := &blockcypher{
		apiURL: apiURL,
		token:  opts.Token,
		client: httputil.NewClient(httputil.ClientOpts{
			Name:              "blockcypher",
			Timeout:           opts.Timeout,
			RequestsPerSecond: rps,
		}),
	}

	if !opts.SkipHealthCheck {
		if err := service.healthCheck(); err != nil {
			return nil, fmt.Errorf("health check: %w", err)
		}
	}

	return service, nil
}

func (b *blockcypher) healthCheck() error {
	ctx, cancel := context.WithTimeout(context.Background(), httputil.DefaultTimeout)
	defer cancel()

	status, resp, err := b.client.NewHTTPRequest(
		ctx, http.MethodGet, b.url("", nil), "", nil,
	)
	if err != nil {
		return err
	}
	if status != http.StatusOK {
		return parseError(status, resp)
	}
	return nil
}

func (b *blockcypher) url(path string, query url.Values) string {
	if query == nil {
		query = url.Values{}
	}
	if b.token != "" {
		query.Set("token", b.token)
	}
	u := b.apiURL + path
	if encoded := query.Encode(); encoded != "" {
		u += "?" + encoded
	}
	return u
}

type apiError struct {
	Error  string   `json:"error"`
	Errors []string `json:"errors"`
}

func parseError(status int, resp string) error {
	var e apiError
	if err := json.Unmarshal([]byte(resp), &e); err == nil {
		if e.Error != "" {
			return fmt.Errorf("blockcypher: %d: %s", status, e.Error)
		}
		if len(e.Errors) > 0 {
			return fmt.Errorf("blockcypher: %d: %s", status, strings.Join(e.Errors, ", "))
		}
	}
	return fmt.Errorf("blockcypher: %d: %s", status, resp)
}
