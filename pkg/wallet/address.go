package wallet

import (
	"fmt"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/btcd/txscript"
	"github.com/tdex-network/dogecustody/pkg/network"
)

// DecodeAddress parses a base58 P2PKH or P2SH address and makes sure it
// belongs to the given network
func DecodeAddress(addr string, net *chaincfg.Params) (btcutil.Address, error) {
	if net == nil {
		return nil, ErrNullNetwork
	}
	if len(addr) <= 0 {
		return nil, ErrInvalidAddress
	}

	decoded, err := btcutil.DecodeAddress(addr, net)
	if err == nil && decoded.IsForNet(net) {
		switch decoded.(type) {
		case *btcutil.AddressPubKeyHash, *btcutil.AddressScriptHash:
			return decoded, nil
		default:
			return nil, fmt.Errorf(
				"%w: only P2PKH and P2SH addresses are supported", ErrInvalidAddress,
			)
		}
	}

	for _, other := range network.All() {
		if other.Net == net.Net {
			continue
		}
		if d, err := btcutil.DecodeAddress(addr, other); err == nil &&
			d.IsForNet(other) {
			return nil, fmt.Errorf(
				"%w: address %s belongs to network %s",
				ErrNetworkMismatch, addr, other.Name,
			)
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrInvalidAddress, addr)
}

// PayToAddrScript returns the locking script of the given address
func PayToAddrScript(addr string, net *chaincfg.Params) ([]byte, error) {
	decoded, err := DecodeAddress(addr, net)
	if err != nil {
		return nil, err
	}
	return txscript.PayToAddrScript(decoded)
}

// SigningKey is a private key bound to a network, usable to spend the coins
// locked by its P2PKH address
type SigningKey struct {
	privateKey *btcec.PrivateKey
	address    string
	network    *chaincfg.Params
}

// ParseSigningKey decodes a WIF encoded private key and makes sure it belongs
// to the given network
func ParseSigningKey(wif string, net *chaincfg.Params) (*SigningKey, error) {
	if net == nil {
		return nil, ErrNullNetwork
	}
	if len(wif) <= 0 {
		return nil, ErrNullSigningKey
	}

	decoded, err := btcutil.DecodeWIF(wif)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrSigningKeyInvalid, err)
	}
	if !decoded.IsForNet(net) {
		return nil, fmt.Errorf(
			"%w: signing key is not for network %s", ErrNetworkMismatch, net.Name,
		)
	}
	if !decoded.CompressPubKey {
		return nil, fmt.Errorf(
			"%w: signing key must use compressed public key", ErrSigningKeyInvalid,
		)
	}

	addr, err := p2pkhAddress(decoded.PrivKey.PubKey(), net)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrSigningKeyInvalid, err)
	}

	return &SigningKey{
		privateKey: decoded.PrivKey,
		address:    addr.EncodeAddress(),
		network:    net,
	}, nil
}

// Address returns the P2PKH address controlled by the key
func (k *SigningKey) Address() string {
	return k.address
}

// PublicKey returns the compressed public key
func (k *SigningKey) PublicKey() *btcec.PublicKey {
	return k.privateKey.PubKey()
}

// WIF returns the key in wallet import format
func (k *SigningKey) WIF() (string, error) {
	wif, err := btcutil.NewWIF(k.privateKey, k.network, true)
	if err != nil {
		return "", err
	}
	return wif.String(), nil
}

func (k *SigningKey) validate(net *chaincfg.Params) error {
	if k == nil || k.privateKey == nil {
		return ErrNullSigningKey
	}
	if net == nil {
		return ErrNullNetwork
	}
	if k.network == nil || k.network.Net != net.Net {
		return fmt.Errorf(
			"%w: signing key is not for network %s", ErrNetworkMismatch, net.Name,
		)
	}
	return nil
}
