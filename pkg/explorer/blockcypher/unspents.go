package blockcypher

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/tdex-network/dogecustody/pkg/explorer"
)

// unspentsPageLimit is the max number of txrefs allowed by the API per page
const unspentsPageLimit = 2000

type txRef struct {
	TxHash        string `json:"tx_hash"`
	BlockHeight   int64  `json:"block_height"`
	TxOutputN     uint32 `json:"tx_output_n"`
	Value         uint64 `json:"value"`
	Script        string `json:"script"`
	Confirmations int64  `json:"confirmations"`
	Spent         bool   `json:"spent"`
}

type addressInfo struct {
	Address            string  `json:"address"`
	Balance            int64   `json:"balance"`
	UnconfirmedBalance int64   `json:"unconfirmed_balance"`
	FinalBalance       int64   `json:"final_balance"`
	TxRefs             []txRef `json:"txrefs"`
	HasMore            bool    `json:"hasMore"`
}

func (b *blockcypher) GetBalance(
	ctx context.Context, addr string,
) (int64, error) {
	path := fmt.Sprintf("/addrs/%s/balance", url.PathEscape(addr))
	status, resp, err := b.client.NewHTTPRequest(
		ctx, http.MethodGet, b.url(path, nil), "", nil,
	)
	if err != nil {
		return 0, fmt.Errorf("error on retrieving balance: %w", err)
	}
	if status != http.StatusOK {
		return 0, parseError(status, resp)
	}

	var info addressInfo
	if err := json.Unmarshal([]byte(resp), &info); err != nil {
		return 0, fmt.Errorf("error on retrieving balance: %s", err)
	}
	return info.Balance, nil
}

// GetUnspents pages through the txrefs of the address from the most recent
// block backwards. Pages are requested with before set to one past the lowest
// height of the previous page, so that a block split across two pages is
// fetched again and the duplicates are skipped.
func (b *blockcypher) GetUnspents(
	ctx context.Context, addr string,
) ([]explorer.Utxo, error) {
	unspents := make([]explorer.Utxo, 0)
	seen := make(map[string]struct{})
	before := int64(0)

	for {
		info, err := b.getUnspentsPage(ctx, addr, before)
		if err != nil {
			return nil, err
		}

		added := 0
		lowest := int64(-1)
		for _, ref := range info.TxRefs {
			if ref.BlockHeight > 0 && (lowest < 0 || ref.BlockHeight < lowest) {
				lowest = ref.BlockHeight
			}
			outpoint := fmt.Sprintf("%s:%d", ref.TxHash, ref.TxOutputN)
			if _, ok := seen[outpoint]; ok {
				continue
			}
			seen[outpoint] = struct{}{}
			added++

			if ref.Spent {
				continue
			}
			script, err := hex.DecodeString(ref.Script)
			if err != nil {
				return nil, fmt.Errorf(
					"error on retrieving utxos: invalid script for %s:%d",
					ref.TxHash, ref.TxOutputN,
				)
			}
			unspents = append(unspents, explorer.NewUtxo(
				ref.TxHash, ref.TxOutputN, ref.Value, script, ref.Confirmations > 0,
			))
		}

		if !info.HasMore {
			return unspents, nil
		}
		if added <= 0 || lowest < 0 {
			return nil, fmt.Errorf(
				"error on retrieving utxos: unable to page past block %d", lowest,
			)
		}
		before = lowest + 1
	}
}

func (b *blockcypher) getUnspentsPage(
	ctx context.Context, addr string, before int64,
) (*addressInfo, error) {
	path := fmt.Sprintf("/addrs/%s", url.PathEscape(addr))
	query := url.Values{}
	query.Set("unspentOnly", "true")
	query.Set("includeScript", "true")
	query.Set("limit", strconv.Itoa(unspentsPageLimit))
	if before > 0 {
		query.Set("before", strconv.FormatInt(before, 10))
	}

	status, resp, err := b.client.NewHTTPRequest(
		ctx, http.MethodGet, b.url(path, query), "", nil,
	)
	if err != nil {
		return nil, fmt.Errorf("error on retrieving utxos: %w", err)
	}
	if status != http.StatusOK {
		return nil, parseError(status, resp)
	}

	info := &addressInfo{}
	if err := json.Unmarshal([]byte(resp), info); err != nil {
		return nil, fmt.Errorf("error on retrieving utxos: %s", err)
	}
	return info, nil
}
