package explorer

import "context"

// Service is representation of an explorer that allows to fetch data from the
// Dogecoin chain and to broadcast transactions.
type Service interface {
	// GetBalance returns the confirmed balance in koinu of the given address.
	GetBalance(ctx context.Context, addr string) (balance int64, err error)
	// GetUnspents fetches the spendable utxos locked by the given address.
	GetUnspents(ctx context.Context, addr string) (unspents []Utxo, err error)
	// BroadcastTransaction attempts to add the given tx in hex format to the
	// mempool and returns its tx hash.
	BroadcastTransaction(ctx context.Context, txhex string) (txid string, err error)
}
