package httputil_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/require"
	"github.com/tdex-network/dogecustody/pkg/circuitbreaker"
	"github.com/tdex-network/dogecustody/pkg/httputil"
)

func TestNewHTTPRequest(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, "secret", r.Header.Get("X-Api-Key"))
			if r.Method == http.MethodPost {
				require.Equal(t, "application/json", r.Header.Get("Content-Type"))
				body, _ := io.ReadAll(r.Body)
				w.WriteHeader(http.StatusCreated)
				w.Write(body)
				return
			}
			w.Write([]byte("pong"))
		},
	))
	defer server.Close()

	client := httputil.NewClient(httputil.ClientOpts{
		Name: "test", RequestsPerSecond: 100,
	})
	header := map[string]string{"X-Api-Key": "secret"}

	status, body, err := client.NewHTTPRequest(
		context.Background(), http.MethodGet, server.URL, "", header,
	)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, "pong", body)

	status, body, err = client.NewHTTPRequest(
		context.Background(), http.MethodPost, server.URL, `{"a":1}`, header,
	)
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, status)
	require.Equal(t, `{"a":1}`, body)

	_, _, err = client.NewHTTPRequest(
		context.Background(), "LIST", server.URL, "", header,
	)
	require.Error(t, err)
}

func TestNewHTTPRequestOpensCircuit(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		},
	))
	defer server.Close()

	client := httputil.NewClient(httputil.ClientOpts{Name: "failing"})

	for i := 0; i <= circuitbreaker.MaxNumOfFailingRequests; i++ {
		status, _, err := client.NewHTTPRequest(
			context.Background(), http.MethodGet, server.URL, "", nil,
		)
		require.NoError(t, err)
		require.Equal(t, http.StatusBadGateway, status)
	}

	_, _, err := client.NewHTTPRequest(
		context.Background(), http.MethodGet, server.URL, "", nil,
	)
	require.ErrorIs(t, err, gobreaker.ErrOpenState)
}
