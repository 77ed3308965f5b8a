package httputil

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sony/gobreaker"
	"github.com/tdex-network/dogecustody/pkg/circuitbreaker"
	"go.uber.org/ratelimit"
)

const (
	// DefaultTimeout is the timeout applied to every request if not otherwise
	// specified
	DefaultTimeout = 30 * time.Second
)

var errServerError = errors.New("server error")

// Client is an http client that throttles outgoing requests and stops
// hitting a service once it started failing
type Client struct {
	client  *http.Client
	limiter ratelimit.Limiter
	cb      *gobreaker.CircuitBreaker
}

// ClientOpts is the struct given to NewClient method
type ClientOpts struct {
	// Name identifies the remote service in circuit breaker state changes
	Name string
	// Timeout of every single request
	Timeout time.Duration
	// RequestsPerSecond caps the rate of outgoing requests, 0 disables it
	RequestsPerSecond int
}

// NewClient returns a new Client for the given options
func NewClient(opts ClientOpts) *Client {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	limiter := ratelimit.NewUnlimited()
	if opts.RequestsPerSecond > 0 {
		limiter = ratelimit.New(opts.RequestsPerSecond)
	}

	return &Client{
		client:  &http.Client{Timeout: timeout},
		limiter: limiter,
		cb:      circuitbreaker.NewCircuitBreaker(opts.Name),
	}
}

// NewHTTPRequest function builds and sends an http request, returning the
// status code and the body of the response.
// Transport errors and 5xx responses count as failures for the circuit
// breaker, and once it's open requests fail straight away with
// gobreaker.ErrOpenState.
func (c *Client) NewHTTPRequest(
	ctx context.Context,
	method, url, bodyString string,
	header map[string]string,
) (int, string, error) {
	switch method {
	case http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete:
	default:
		return 0, "", fmt.Errorf("verb not supported %s", method)
	}

	res, err := c.cb.Execute(func() (interface{}, error) {
		c.limiter.Take()

		status, body, err := c.do(ctx, method, url, bodyString, header)
		if err != nil {
			return nil, err
		}
		resp := response{status, body}
		if status >= http.StatusInternalServerError {
			return resp, errServerError
		}
		return resp, nil
	})
	if err != nil && !errors.Is(err, errServerError) {
		return 0, "", err
	}

	resp := res.(response)
	return resp.status, resp.body, nil
}

type response struct {
	status int
	body   string
}

func (c *Client) do(
	ctx context.Context,
	method, url, bodyString string,
	header map[string]string,
) (int, string, error) {
	var body io.Reader
	if len(bodyString) > 0 {
		body = strings.NewReader(bodyString)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return 0, "", err
	}

	for key, value := range header {
		req.Header.Set(key, value)
	}
	if len(bodyString) > 0 && req.Header.Get("Content-Type") == "" {
		req.Header.Set("Content-Type", "application/json")
	}

	rs, err := c.client.Do(req)
	if err != nil {
		return 0, "", err
	}
	defer rs.Body.Close()

	bodyBytes, err := io.ReadAll(rs.Body)
	if err != nil {
		return 0, "", fmt.Errorf("failed to parse response body: %s", err)
	}

	return rs.StatusCode, string(bodyBytes), nil
}
