package wallet

import (
	"fmt"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg"
)

// DerivedKey is the key pair derived at some path of the hierarchy along with
// its P2PKH address
type DerivedKey struct {
	Path       DerivationPath
	PrivateKey *btcec.PrivateKey
	PublicKey  *btcec.PublicKey
	Address    string

	network *chaincfg.Params
}

// WIF returns the private key in wallet import format for the key's network
func (k *DerivedKey) WIF() (string, error) {
	wif, err := btcutil.NewWIF(k.PrivateKey, k.network, true)
	if err != nil {
		return "", err
	}
	return wif.String(), nil
}

// SigningKey returns the derived private key as a network bound signing key
func (k *DerivedKey) SigningKey() *SigningKey {
	return &SigningKey{
		privateKey: k.PrivateKey,
		address:    k.Address,
		network:    k.network,
	}
}

// DeriveChildOpts is the struct given to DeriveChild method
type DeriveChildOpts struct {
	DerivationPath string
}

func (o DeriveChildOpts) validate() error {
	if len(o.DerivationPath) <= 0 {
		return ErrNullDerivationPath
	}

	derivationPath, err := ParseDerivationPath(o.DerivationPath)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidDerivationPath, err)
	}

	return checkDerivationPath(derivationPath)
}

// DeriveChild derives the key pair and address at the given path. The path
// must be in the form m/44'/3'/0'/0/index.
func (w *Wallet) DeriveChild(opts DeriveChildOpts) (*DerivedKey, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	if err := w.validate(); err != nil {
		return nil, err
	}

	derivationPath, _ := ParseDerivationPath(opts.DerivationPath)
	return w.deriveKey(derivationPath)
}

// DeriveKey derives the key pair and address at m/44'/3'/0'/0/index
func (w *Wallet) DeriveKey(index uint32) (*DerivedKey, error) {
	if err := w.validate(); err != nil {
		return nil, err
	}
	return w.deriveKey(DepositPath(index))
}

// DeriveAddress derives the P2PKH address at m/44'/3'/0'/0/index
func (w *Wallet) DeriveAddress(index uint32) (string, error) {
	key, err := w.DeriveKey(index)
	if err != nil {
		return "", err
	}
	return key.Address, nil
}

func (w *Wallet) deriveKey(path DerivationPath) (*DerivedKey, error) {
	hdNode, err := w.derive(path)
	if err != nil {
		return nil, err
	}

	prvkey, err := hdNode.ECPrivKey()
	if err != nil {
		return nil, err
	}
	pubkey := prvkey.PubKey()

	addr, err := p2pkhAddress(pubkey, w.network)
	if err != nil {
		return nil, err
	}

	return &DerivedKey{
		Path:       path,
		PrivateKey: prvkey,
		PublicKey:  pubkey,
		Address:    addr.EncodeAddress(),
		network:    w.network,
	}, nil
}

func p2pkhAddress(
	pubkey *btcec.PublicKey, net *chaincfg.Params,
) (*btcutil.AddressPubKeyHash, error) {
	return btcutil.NewAddressPubKeyHash(
		btcutil.Hash160(pubkey.SerializeCompressed()), net,
	)
}
