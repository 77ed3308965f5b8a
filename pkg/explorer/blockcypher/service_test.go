package blockcypher

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

const (
	testAddress = "DH5yaieqoZN36fDVciNyRueRGvGLR3mr7L"
	testToken   = "testtoken"
	testScript  = "76a91485e1f2a0bf2b1d5a8c4f5b9d7a2e4a45d3ab4f3088ac"

	pagedAddress = "DPagedAddress"
	stuckAddress = "DStuckAddress"
)

func newTestServer(t *testing.T) *httptest.Server {
	mux := http.NewServeMux()

	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"name":"DOGE.main","height":5000000}`))
	})
	mux.HandleFunc(fmt.Sprintf("/addrs/%s/balance", testAddress),
		func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, testToken, r.URL.Query().Get("token"))
			w.Write([]byte(fmt.Sprintf(
				`{"address":"%s","balance":150000000,"unconfirmed_balance":5,"final_balance":150000005}`,
				testAddress,
			)))
		},
	)
	mux.HandleFunc(fmt.Sprintf("/addrs/%s", testAddress),
		func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, "true", r.URL.Query().Get("unspentOnly"))
			require.Equal(t, "true", r.URL.Query().Get("includeScript"))
			require.Equal(t, "2000", r.URL.Query().Get("limit"))
			w.Write([]byte(fmt.Sprintf(`{
				"address": "%s",
				"txrefs": [
					{"tx_hash": "%064x", "tx_output_n": 1, "value": 30, "script": "%s", "confirmations": 3},
					{"tx_hash": "%064x", "tx_output_n": 0, "value": 40, "script": "%s", "confirmations": 0},
					{"tx_hash": "%064x", "tx_output_n": 2, "value": 50, "script": "%s", "confirmations": 1, "spent": true}
				]
			}`, testAddress, 1, testScript, 2, testScript, 3, testScript)))
		},
	)
	mux.HandleFunc("/addrs/"+pagedAddress,
		func(w http.ResponseWriter, r *http.Request) {
			switch r.URL.Query().Get("before") {
			case "":
				w.Write([]byte(fmt.Sprintf(`{
					"hasMore": true,
					"txrefs": [
						{"tx_hash": "%064x", "block_height": 100, "tx_output_n": 0, "value": 10, "script": "%s", "confirmations": 9},
						{"tx_hash": "%064x", "block_height": 90, "tx_output_n": 0, "value": 20, "script": "%s", "confirmations": 19}
					]
				}`, 1, testScript, 2, testScript)))
			case "91":
				w.Write([]byte(fmt.Sprintf(`{
					"txrefs": [
						{"tx_hash": "%064x", "block_height": 90, "tx_output_n": 0, "value": 20, "script": "%s", "confirmations": 19},
						{"tx_hash": "%064x", "block_height": 90, "tx_output_n": 1, "value": 30, "script": "%s", "confirmations": 19},
						{"tx_hash": "%064x", "block_height": 80, "tx_output_n": 0, "value": 40, "script": "%s", "confirmations": 29}
					]
				}`, 2, testScript, 2, testScript, 3, testScript)))
			default:
				w.WriteHeader(http.StatusBadRequest)
				w.Write([]byte(`{"error": "unexpected page"}`))
			}
		},
	)
	mux.HandleFunc("/addrs/"+stuckAddress,
		func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(fmt.Sprintf(`{
				"hasMore": true,
				"txrefs": [
					{"tx_hash": "%064x", "block_height": 70, "tx_output_n": 0, "value": 10, "script": "%s", "confirmations": 9}
				]
			}`, 1, testScript)))
		},
	)
	mux.HandleFunc("/addrs/unknown/balance",
		func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"error": "Address unknown not found"}`))
		},
	)
	mux.HandleFunc("/txs/push", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		body, _ := io.ReadAll(r.Body)
		var req pushRequest
		require.NoError(t, json.Unmarshal(body, &req))
		if req.Tx == "bad" {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"error": "Error validating generated transaction"}`))
			return
		}
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"tx": {"hash": "abcdef"}}`))
	})

	return httptest.NewServer(mux)
}

func newTestService(t *testing.T, url string) *blockcypher {
	svc, err := NewService(ServiceOpts{
		APIURL:            url,
		Token:             testToken,
		RequestsPerSecond: 100,
	})
	require.NoError(t, err)
	return svc.(*blockcypher)
}

func TestGetBalance(t *testing.T) {
	server := newTestServer(t)
	defer server.Close()
	svc := newTestService(t, server.URL)

	balance, err := svc.GetBalance(context.Background(), testAddress)
	require.NoError(t, err)
	require.Equal(t, int64(150000000), balance)

	_, err = svc.GetBalance(context.Background(), "unknown")
	require.EqualError(t, err, "blockcypher: 404: Address unknown not found")
}

func TestGetUnspents(t *testing.T) {
	server := newTestServer(t)
	defer server.Close()
	svc := newTestService(t, server.URL)

	unspents, err := svc.GetUnspents(context.Background(), testAddress)
	require.NoError(t, err)
	require.Len(t, unspents, 2)

	script, _ := hex.DecodeString(testScript)
	require.Equal(t, fmt.Sprintf("%064x", 1), unspents[0].Hash())
	require.Equal(t, uint32(1), unspents[0].Index())
	require.Equal(t, uint64(30), unspents[0].Value())
	require.Equal(t, script, unspents[0].Script())
	require.True(t, unspents[0].IsConfirmed())
	require.Equal(t, uint64(40), unspents[1].Value())
	require.False(t, unspents[1].IsConfirmed())
}

func TestGetUnspentsPaged(t *testing.T) {
	server := newTestServer(t)
	defer server.Close()
	svc := newTestService(t, server.URL)

	unspents, err := svc.GetUnspents(context.Background(), pagedAddress)
	require.NoError(t, err)
	require.Len(t, unspents, 4)

	total := uint64(0)
	for _, u := range unspents {
		total += u.Value()
	}
	require.Equal(t, uint64(100), total)

	_, err = svc.GetUnspents(context.Background(), stuckAddress)
	require.Error(t, err)
}

func TestBroadcastTransaction(t *testing.T) {
	server := newTestServer(t)
	defer server.Close()
	svc := newTestService(t, server.URL)

	txid, err := svc.BroadcastTransaction(context.Background(), "0100")
	require.NoError(t, err)
	require.Equal(t, "abcdef", txid)

	_, err = svc.BroadcastTransaction(context.Background(), "bad")
	require.EqualError(t, err, "blockcypher: 400: Error validating generated transaction")
}

func TestFailingHealthCheck(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"error": "invalid token"}`))
		},
	))
	defer server.Close()

	_, err := NewService(ServiceOpts{APIURL: server.URL})
	require.Error(t, err)
}
