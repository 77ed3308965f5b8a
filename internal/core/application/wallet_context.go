package application

import (
	"context"
	"fmt"

	"github.com/btcsuite/btcd/chaincfg"
	"github.com/tdex-network/dogecustody/internal/core/ports"
	"github.com/tdex-network/dogecustody/pkg/wallet"
)

// UnlockWallet restores the wallet from the secret of the given store, either
// a mnemonic or a master key. A master key serialized for a network other
// than the given one is rejected with wallet.ErrNetworkMismatch.
func UnlockWallet(
	ctx context.Context, store ports.SecretStore, network *chaincfg.Params,
) (*wallet.Wallet, error) {
	if store == nil {
		return nil, ErrNullSecretStore
	}

	secret, err := store.LoadSecret(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to unlock secret: %w", err)
	}

	return wallet.NewWalletFromSecret(wallet.NewWalletFromSecretOpts{
		Secret:  secret,
		Network: network,
	})
}

// WalletContextOpts is the struct given to NewWalletContext
type WalletContextOpts struct {
	Wallet *wallet.Wallet
	// FeeAddress receives the operator fee of every transfer. Defaults to the
	// primary address.
	FeeAddress string
	FeePolicy  wallet.FeePolicy
}

func (o WalletContextOpts) validate() error {
	if o.Wallet == nil {
		return ErrNullWallet
	}
	if _, err := o.Wallet.MasterKey(); err != nil {
		return err
	}
	if len(o.FeeAddress) > 0 {
		if _, err := wallet.DecodeAddress(
			o.FeeAddress, o.Wallet.Network(),
		); err != nil {
			return fmt.Errorf("fee address: %w", err)
		}
	}
	return nil
}

// WalletContext holds the key hierarchy of the custodian along with the
// primary wallet and the fee settings. It is created once at startup and
// shared by the services that need to derive keys. The master key never
// leaves it.
type WalletContext struct {
	wallet     *wallet.Wallet
	primary    *wallet.DerivedKey
	feeAddress string
	feePolicy  wallet.FeePolicy
}

// NewWalletContext derives the primary wallet at index 0 and binds the fee
// settings to the given wallet
func NewWalletContext(opts WalletContextOpts) (*WalletContext, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}

	primary, err := opts.Wallet.DeriveKey(wallet.PrimaryIndex)
	if err != nil {
		return nil, err
	}

	feeAddress := opts.FeeAddress
	if len(feeAddress) <= 0 {
		feeAddress = primary.Address
	}

	return &WalletContext{
		wallet:     opts.Wallet,
		primary:    primary,
		feeAddress: feeAddress,
		feePolicy:  opts.FeePolicy,
	}, nil
}

// Network returns the network params of the wallet
func (c *WalletContext) Network() *chaincfg.Params {
	return c.wallet.Network()
}

// PrimaryAddress returns the address of the operator's wallet
func (c *WalletContext) PrimaryAddress() string {
	return c.primary.Address
}

// FeeAddress returns the address receiving the operator fees
func (c *WalletContext) FeeAddress() string {
	return c.feeAddress
}

// FeePolicy returns how transfers are split between fees and payouts
func (c *WalletContext) FeePolicy() wallet.FeePolicy {
	return c.feePolicy
}

// ExtendedPublicKey returns the account level public key of the deposit
// addresses, useful to watch them without exposing private keys
func (c *WalletContext) ExtendedPublicKey() (string, error) {
	return c.wallet.ExtendedPublicKey()
}

func (c *WalletContext) primaryKey() *wallet.DerivedKey {
	return c.primary
}

func (c *WalletContext) deriveKey(index uint32) (*wallet.DerivedKey, error) {
	return c.wallet.DeriveKey(index)
}

func (c *WalletContext) deriveAddress(index uint32) (string, error) {
	return c.wallet.DeriveAddress(index)
}
