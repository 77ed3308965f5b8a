package secretstore

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/tdex-network/dogecustody/internal/core/ports"
	"github.com/tdex-network/dogecustody/pkg/wallet"
)

var (
	// ErrNullSecretPath ...
	ErrNullSecretPath = errors.New("secret file path must not be null")
	// ErrNullPasswordPath ...
	ErrNullPasswordPath = errors.New("password file path must not be null")
	// ErrInvalidSecret ...
	ErrInvalidSecret = errors.New(
		"secret is neither a valid mnemonic nor an extended private key",
	)
)

type fileStore struct {
	secretPath   string
	passwordPath string
}

// NewFileStore returns a SecretStore that decrypts the secret file produced
// by the operator CLI with the password read from passwordPath
func NewFileStore(secretPath, passwordPath string) (ports.SecretStore, error) {
	if secretPath == "" {
		return nil, ErrNullSecretPath
	}
	if passwordPath == "" {
		return nil, ErrNullPasswordPath
	}
	for _, path := range []string{secretPath, passwordPath} {
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("%s must be an existing path: %w", path, err)
		}
	}
	return &fileStore{secretPath, passwordPath}, nil
}

func (s *fileStore) LoadSecret(_ context.Context) (string, error) {
	cypherText, err := os.ReadFile(s.secretPath)
	if err != nil {
		return "", err
	}
	password, err := os.ReadFile(s.passwordPath)
	if err != nil {
		return "", err
	}

	secret, err := wallet.Decrypt(wallet.DecryptOpts{
		CypherText: strings.TrimSpace(string(cypherText)),
		Passphrase: strings.TrimSpace(string(password)),
	})
	if err != nil {
		return "", err
	}
	return CheckSecret(secret)
}

type staticStore struct {
	secret string
}

// NewStaticStore returns a SecretStore serving the given plaintext mnemonic
// or master key, meant for development setups only
func NewStaticStore(secret string) (ports.SecretStore, error) {
	secret, err := CheckSecret(secret)
	if err != nil {
		return nil, err
	}
	return &staticStore{secret}, nil
}

func (s *staticStore) LoadSecret(_ context.Context) (string, error) {
	return s.secret, nil
}

// CheckSecret normalizes the whitespaces of the given secret and makes sure
// it's either a bip39 mnemonic or a base58 extended private key. The network
// of a master key is checked only once the wallet is restored.
func CheckSecret(secret string) (string, error) {
	words := strings.Fields(secret)
	if len(words) == 1 {
		if !wallet.IsMasterKey(words[0]) {
			return "", ErrInvalidSecret
		}
		return words[0], nil
	}

	mnemonic := strings.Join(words, " ")
	if !wallet.IsMnemonicValid(mnemonic) {
		return "", ErrInvalidSecret
	}
	return mnemonic, nil
}
