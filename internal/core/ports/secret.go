package ports

import "context"

// SecretStore returns the secret the wallet is restored from, either a
// mnemonic or a base58 serialized extended private key
type SecretStore interface {
	LoadSecret(ctx context.Context) (string, error)
}
