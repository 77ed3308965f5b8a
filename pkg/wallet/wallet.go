package wallet

import (
	"errors"
	"fmt"
	"strings"

	"github.com/btcsuite/btcd/btcutil/hdkeychain"
	"github.com/btcsuite/btcd/chaincfg"
)

var (
	// ErrNullNetwork ...
	ErrNullNetwork = errors.New("network params are null")
	// ErrNullMnemonic ...
	ErrNullMnemonic = errors.New("mnemonic is null")
	// ErrNullSeed ...
	ErrNullSeed = errors.New("seed is null")
	// ErrNullMasterKey ...
	ErrNullMasterKey = errors.New("master key is null")
	// ErrNullPassphrase ...
	ErrNullPassphrase = errors.New("passphrase must not be null")
	// ErrNullPlainText ...
	ErrNullPlainText = errors.New("text to encrypt must not be null")
	// ErrNullCypherText ...
	ErrNullCypherText = errors.New("cypher to decrypt must not be null")
	// ErrNullDerivationPath ...
	ErrNullDerivationPath = errors.New("derivation path must not be null")
	// ErrNullSigningKey ...
	ErrNullSigningKey = errors.New("signing key must not be null")

	// ErrInvalidMnemonic ...
	ErrInvalidMnemonic = errors.New("mnemonic is invalid")
	// ErrInvalidEntropySize ...
	ErrInvalidEntropySize = errors.New(
		"entropy size must be a multiple of 32 in the range [128,256]",
	)
	// ErrInvalidSeedLength ...
	ErrInvalidSeedLength = fmt.Errorf(
		"seed length must be in the range [%d, %d] bytes",
		hdkeychain.MinSeedBytes, hdkeychain.MaxSeedBytes,
	)
	// ErrInvalidMasterKey ...
	ErrInvalidMasterKey = errors.New("master key is not a valid extended key")
	// ErrInvalidCypherText ...
	ErrInvalidCypherText = errors.New("cypher must be in base64 format")
	// ErrInvalidPassphrase ...
	ErrInvalidPassphrase = errors.New("passphrase is not valid for cypher")
	// ErrInvalidAddress ...
	ErrInvalidAddress = errors.New("address is not valid")
	// ErrMalformedDerivationPath ...
	ErrMalformedDerivationPath = errors.New(
		"path must not start or end with a '/' and " +
			"can optionally start with 'm/' for absolute paths",
	)

	// ErrInvalidDerivationPath is returned for any path not matching the
	// m/44'/3'/0'/0/index template.
	ErrInvalidDerivationPath = errors.New("invalid derivation path")
	// ErrKeyMaterialUnavailable is returned when a private key operation is
	// requested on a wallet without private key material.
	ErrKeyMaterialUnavailable = errors.New("key material unavailable")
	// ErrNetworkMismatch is returned when a key or an address belongs to a
	// network other than the configured one.
	ErrNetworkMismatch = errors.New("network mismatch")
	// ErrSigningKeyInvalid is returned for malformed signing keys or keys not
	// owning the coins being spent.
	ErrSigningKeyInvalid = errors.New("signing key invalid")
	// ErrInsufficientFunds is returned when the selected coins do not cover
	// the target amount.
	ErrInsufficientFunds = errors.New("insufficient funds")
	// ErrNegativeChange is returned when the outputs of a transaction would
	// spend more than its inputs.
	ErrNegativeChange = errors.New("negative change")
	// ErrInvalidFeeFraction ...
	ErrInvalidFeeFraction = errors.New("operator fee fraction must be in range [0, 1)")
	// ErrZeroTargetAmount ...
	ErrZeroTargetAmount = errors.New("target amount must not be zero")
	// ErrEmptyInputs ...
	ErrEmptyInputs = errors.New("input list must not be empty")
)

// Wallet data structure holds the root extended key of a hierarchical
// deterministic wallet bound to a network, and derives the signing key pairs
// of the custodial accounts from it
type Wallet struct {
	mnemonic  string
	masterKey *hdkeychain.ExtendedKey
	network   *chaincfg.Params
}

// NewWalletOpts is the struct given to the NewWallet method
type NewWalletOpts struct {
	EntropySize int
	Network     *chaincfg.Params
}

func (o NewWalletOpts) validate() error {
	if o.Network == nil {
		return ErrNullNetwork
	}
	return NewMnemonicOpts{o.EntropySize}.validate()
}

// NewWallet creates a new wallet from a randomly generated mnemonic
func NewWallet(opts NewWalletOpts) (*Wallet, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	if opts.EntropySize == 0 {
		opts.EntropySize = 256
	}

	mnemonic, err := generateMnemonic(opts.EntropySize)
	if err != nil {
		return nil, err
	}

	return NewWalletFromMnemonic(NewWalletFromMnemonicOpts{
		Mnemonic: joinMnemonic(mnemonic),
		Network:  opts.Network,
	})
}

// NewWalletFromMnemonicOpts is the struct given to the NewWalletFromMnemonic
// method
type NewWalletFromMnemonicOpts struct {
	Mnemonic   string
	Passphrase string
	Network    *chaincfg.Params
}

func (o NewWalletFromMnemonicOpts) validate() error {
	if len(o.Mnemonic) <= 0 {
		return ErrNullMnemonic
	}
	if !isMnemonicValid(o.Mnemonic) {
		return ErrInvalidMnemonic
	}
	if o.Network == nil {
		return ErrNullNetwork
	}
	return nil
}

// NewWalletFromMnemonic generates the root key from the seed of the given
// mnemonic and optional passphrase
func NewWalletFromMnemonic(opts NewWalletFromMnemonicOpts) (*Wallet, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}

	seed := generateSeedFromMnemonic(opts.Mnemonic, opts.Passphrase)
	w, err := NewWalletFromSeed(NewWalletFromSeedOpts{
		Seed:    seed,
		Network: opts.Network,
	})
	if err != nil {
		return nil, err
	}
	w.mnemonic = opts.Mnemonic
	return w, nil
}

// NewWalletFromSeedOpts is the struct given to the NewWalletFromSeed method
type NewWalletFromSeedOpts struct {
	Seed    []byte
	Network *chaincfg.Params
}

func (o NewWalletFromSeedOpts) validate() error {
	if len(o.Seed) <= 0 {
		return ErrNullSeed
	}
	if len(o.Seed) < hdkeychain.MinSeedBytes ||
		len(o.Seed) > hdkeychain.MaxSeedBytes {
		return ErrInvalidSeedLength
	}
	if o.Network == nil {
		return ErrNullNetwork
	}
	return nil
}

// NewWalletFromSeed generates the root key from the given seed
func NewWalletFromSeed(opts NewWalletFromSeedOpts) (*Wallet, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}

	masterKey, err := hdkeychain.NewMaster(opts.Seed, opts.Network)
	if err != nil {
		return nil, err
	}

	return &Wallet{
		masterKey: masterKey,
		network:   opts.Network,
	}, nil
}

// NewWalletFromMasterKeyOpts is the struct given to the NewWalletFromMasterKey
// method
type NewWalletFromMasterKeyOpts struct {
	MasterKey string
	Network   *chaincfg.Params
}

func (o NewWalletFromMasterKeyOpts) validate() error {
	if len(o.MasterKey) <= 0 {
		return ErrNullMasterKey
	}
	if o.Network == nil {
		return ErrNullNetwork
	}
	return nil
}

// NewWalletFromMasterKey restores a wallet from a base58 serialized extended
// private key. The version bytes of the key must match the given network.
func NewWalletFromMasterKey(opts NewWalletFromMasterKeyOpts) (*Wallet, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}

	masterKey, err := hdkeychain.NewKeyFromString(opts.MasterKey)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidMasterKey, err)
	}
	if !masterKey.IsForNet(opts.Network) {
		return nil, fmt.Errorf(
			"%w: master key is not for network %s",
			ErrNetworkMismatch, opts.Network.Name,
		)
	}
	if !masterKey.IsPrivate() {
		return nil, fmt.Errorf(
			"%w: master key must be an extended private key",
			ErrKeyMaterialUnavailable,
		)
	}

	return &Wallet{
		masterKey: masterKey,
		network:   opts.Network,
	}, nil
}

// IsMasterKey returns whether the given string is a base58 serialized
// extended private key, of any network
func IsMasterKey(key string) bool {
	masterKey, err := hdkeychain.NewKeyFromString(strings.TrimSpace(key))
	return err == nil && masterKey.IsPrivate()
}

// NewWalletFromSecretOpts is the struct given to the NewWalletFromSecret
// method
type NewWalletFromSecretOpts struct {
	Secret  string
	Network *chaincfg.Params
}

// NewWalletFromSecret restores a wallet from either a space separated
// mnemonic or a base58 serialized extended private key. A single word secret
// is treated as a master key.
func NewWalletFromSecret(opts NewWalletFromSecretOpts) (*Wallet, error) {
	words := strings.Fields(opts.Secret)
	if len(words) == 1 {
		return NewWalletFromMasterKey(NewWalletFromMasterKeyOpts{
			MasterKey: words[0],
			Network:   opts.Network,
		})
	}
	return NewWalletFromMnemonic(NewWalletFromMnemonicOpts{
		Mnemonic: strings.Join(words, " "),
		Network:  opts.Network,
	})
}

// Network returns the network parameters the wallet is bound to
func (w *Wallet) Network() *chaincfg.Params {
	return w.network
}

// Mnemonic returns the mnemonic of the wallet, if it has been restored from
// one
func (w *Wallet) Mnemonic() (string, error) {
	if err := w.validate(); err != nil {
		return "", err
	}
	if len(w.mnemonic) <= 0 {
		return "", ErrNullMnemonic
	}
	return w.mnemonic, nil
}

// MasterKey returns the root extended private key in base58 format
func (w *Wallet) MasterKey() (string, error) {
	if err := w.validate(); err != nil {
		return "", err
	}
	return w.masterKey.String(), nil
}

// ExtendedPublicKey returns the extended public key of the deposit account
// m/44'/3'/0' in base58 format
func (w *Wallet) ExtendedPublicKey() (string, error) {
	if err := w.validate(); err != nil {
		return "", err
	}

	account, err := w.derive(DepositAccountPath)
	if err != nil {
		return "", err
	}
	xpub, err := account.Neuter()
	if err != nil {
		return "", err
	}
	return xpub.String(), nil
}

func (w *Wallet) validate() error {
	if w == nil || w.masterKey == nil {
		return ErrKeyMaterialUnavailable
	}
	if !w.masterKey.IsPrivate() {
		return ErrKeyMaterialUnavailable
	}
	if w.network == nil {
		return ErrNullNetwork
	}
	return nil
}

func (w *Wallet) derive(path DerivationPath) (*hdkeychain.ExtendedKey, error) {
	hdNode := w.masterKey
	for _, step := range path {
		var err error
		hdNode, err = hdNode.Derive(step)
		if err != nil {
			return nil, err
		}
	}
	return hdNode, nil
}
