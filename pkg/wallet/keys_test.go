package wallet

import (
	"strings"
	"testing"

	"github.com/btcsuite/btcd/btcutil/hdkeychain"
	"github.com/stretchr/testify/require"
)

func TestDeriveChild(t *testing.T) {
	w := newTestWallet(t)

	key, err := w.DeriveChild(DeriveChildOpts{"m/44'/3'/0'/0/7"})
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(key.Address, "D"))
	require.Equal(t, uint32(7), key.Path.Index())
	require.Equal(t, "m/44'/3'/0'/0/7", key.Path.String())

	sameKey, err := w.DeriveKey(7)
	require.NoError(t, err)
	require.Equal(t, key.Address, sameKey.Address)
	require.Equal(t, key.PrivateKey.Serialize(), sameKey.PrivateKey.Serialize())
	require.Equal(t, key.PublicKey.SerializeCompressed(), sameKey.PublicKey.SerializeCompressed())

	otherKey, err := w.DeriveKey(8)
	require.NoError(t, err)
	require.NotEqual(t, key.Address, otherKey.Address)

	wif, err := key.WIF()
	require.NoError(t, err)
	signingKey, err := ParseSigningKey(wif, w.Network())
	require.NoError(t, err)
	require.Equal(t, key.Address, signingKey.Address())
	require.Equal(t, key.Address, key.SigningKey().Address())
}

func TestDeriveKeyHardenedRangeIndex(t *testing.T) {
	w := newTestWallet(t)

	index := uint32(hdkeychain.HardenedKeyStart + 12)
	key, err := w.DeriveKey(index)
	require.NoError(t, err)
	require.Equal(t, index, key.Path.Index())

	again, err := w.DeriveKey(index)
	require.NoError(t, err)
	require.Equal(t, key.Address, again.Address)

	nonHardened, err := w.DeriveKey(12)
	require.NoError(t, err)
	require.NotEqual(t, key.Address, nonHardened.Address)
}

func TestFailingDeriveChild(t *testing.T) {
	w := newTestWallet(t)

	tests := []struct {
		name string
		path string
		err  error
	}{
		{"null path", "", ErrNullDerivationPath},
		{"malformed path", "m/44'/3'/0'/0/x", ErrInvalidDerivationPath},
		{"too short", "m/44'/3'/0'/0", ErrInvalidDerivationPath},
		{"too long", "m/44'/3'/0'/0/1/2", ErrInvalidDerivationPath},
		{"wrong purpose", "m/84'/3'/0'/0/1", ErrInvalidDerivationPath},
		{"wrong coin type", "m/44'/0'/0'/0/1", ErrInvalidDerivationPath},
		{"non hardened account", "m/44'/3'/0/0/1", ErrInvalidDerivationPath},
		{"internal chain", "m/44'/3'/0'/1/1", ErrInvalidDerivationPath},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := w.DeriveChild(DeriveChildOpts{tt.path})
			require.ErrorIs(t, err, tt.err)
		})
	}
}

func TestDeriveWithoutKeyMaterial(t *testing.T) {
	var w *Wallet

	_, err := w.DeriveKey(0)
	require.ErrorIs(t, err, ErrKeyMaterialUnavailable)

	_, err = w.DeriveChild(DeriveChildOpts{"m/44'/3'/0'/0/0"})
	require.ErrorIs(t, err, ErrKeyMaterialUnavailable)

	_, err = w.MasterKey()
	require.ErrorIs(t, err, ErrKeyMaterialUnavailable)
}
