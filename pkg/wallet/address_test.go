package wallet

import (
	"testing"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/stretchr/testify/require"
	"github.com/tdex-network/dogecustody/pkg/network"
)

func TestDecodeAddress(t *testing.T) {
	w := newTestWallet(t)
	addr, err := w.DeriveAddress(1)
	require.NoError(t, err)

	decoded, err := DecodeAddress(addr, &network.Dogecoin)
	require.NoError(t, err)
	require.Equal(t, addr, decoded.EncodeAddress())

	script, err := PayToAddrScript(addr, &network.Dogecoin)
	require.NoError(t, err)
	require.Len(t, script, 25)
}

func TestFailingDecodeAddress(t *testing.T) {
	testnetAddr, err := btcutil.NewAddressPubKeyHash(make([]byte, 20), &network.Testnet)
	require.NoError(t, err)
	bitcoinAddr, err := btcutil.NewAddressPubKeyHash(make([]byte, 20), &chaincfg.MainNetParams)
	require.NoError(t, err)

	tests := []struct {
		name string
		addr string
		err  error
	}{
		{"empty address", "", ErrInvalidAddress},
		{"garbage", "notanaddress", ErrInvalidAddress},
		{"testnet address", testnetAddr.EncodeAddress(), ErrNetworkMismatch},
		{"bitcoin address", bitcoinAddr.EncodeAddress(), ErrNetworkMismatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeAddress(tt.addr, &network.Dogecoin)
			require.ErrorIs(t, err, tt.err)
		})
	}
}

func TestParseSigningKey(t *testing.T) {
	w := newTestWallet(t)
	key, err := w.DeriveKey(0)
	require.NoError(t, err)

	mainnetWIF, err := key.WIF()
	require.NoError(t, err)

	testnetWIF, err := btcutil.NewWIF(key.PrivateKey, &network.Testnet, true)
	require.NoError(t, err)
	uncompressedWIF, err := btcutil.NewWIF(key.PrivateKey, &network.Dogecoin, false)
	require.NoError(t, err)

	signingKey, err := ParseSigningKey(mainnetWIF, &network.Dogecoin)
	require.NoError(t, err)
	require.Equal(t, key.Address, signingKey.Address())
	require.Equal(t, key.PublicKey.SerializeCompressed(), signingKey.PublicKey().SerializeCompressed())

	wif, err := signingKey.WIF()
	require.NoError(t, err)
	require.Equal(t, mainnetWIF, wif)

	tests := []struct {
		name string
		wif  string
		err  error
	}{
		{"empty key", "", ErrNullSigningKey},
		{"malformed key", "QNotAKey", ErrSigningKeyInvalid},
		{"testnet key", testnetWIF.String(), ErrNetworkMismatch},
		{"uncompressed key", uncompressedWIF.String(), ErrSigningKeyInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseSigningKey(tt.wif, &network.Dogecoin)
			require.ErrorIs(t, err, tt.err)
		})
	}
}
