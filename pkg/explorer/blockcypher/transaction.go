package blockcypher

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

type pushRequest struct {
	Tx string `json:"tx"`
}

type pushResponse struct {
	Tx struct {
		Hash string `json:"hash"`
	} `json:"tx"`
}

func (b *blockcypher) BroadcastTransaction(
	ctx context.Context, txHex string,
) (string, error) {
	body, _ := json.Marshal(pushRequest{txHex})

	status, resp, err := b.client.NewHTTPRequest(
		ctx, http.MethodPost, b.url("/txs/push", nil), string(body), nil,
	)
	if err != nil {
		return "", fmt.Errorf("error on broadcasting tx: %w", err)
	}
	if status != http.StatusOK && status != http.StatusCreated {
		return "", parseError(status, resp)
	}

	var res pushResponse
	if err := json.Unmarshal([]byte(resp), &res); err != nil {
		return "", fmt.Errorf("error on broadcasting tx: %s", err)
	}
	if res.Tx.Hash == "" {
		return "", fmt.Errorf("error on broadcasting tx: missing hash in response")
	}
	return res.Tx.Hash, nil
}
