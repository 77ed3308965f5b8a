package wallet

import (
	"fmt"
	"math"
	"math/big"
	"strings"

	"github.com/btcsuite/btcd/btcutil/hdkeychain"
)

// DerivationPath is the internal representation of a hierarchical
// deterministic wallet account
type DerivationPath []uint32

const (
	// Purpose is the BIP-44 purpose of every derived key
	Purpose = 44
	// CoinType is the SLIP-44 coin type of Dogecoin
	CoinType = 3
	// Account is the only account used to derive custodial keys
	Account = 0
	// ExternalChain is the only chain used to derive custodial keys
	ExternalChain = 0
	// PrimaryIndex is the index of the operator's primary wallet
	PrimaryIndex = 0

	derivationPathLen = 5
)

var (
	// DepositAccountPath m/44'/3'/0'
	DepositAccountPath = DerivationPath{
		hdkeychain.HardenedKeyStart + Purpose,
		hdkeychain.HardenedKeyStart + CoinType,
		hdkeychain.HardenedKeyStart + Account,
	}
)

// DepositPath returns the derivation path m/44'/3'/0'/0/index.
// The index is used as is, values in the hardened range are therefore
// derived as hardened children.
func DepositPath(index uint32) DerivationPath {
	path := make(DerivationPath, 0, derivationPathLen)
	path = append(path, DepositAccountPath...)
	return append(path, ExternalChain, index)
}

// ParseDerivationPath converts a derivation path string to the
// internal binary representation
func ParseDerivationPath(strPath string) (DerivationPath, error) {
	var path DerivationPath

	elems := strings.Split(strPath, "/")
	switch {
	case strPath == "":
		return nil, ErrNullDerivationPath

	case containsEmptyString(elems):
		return nil, ErrMalformedDerivationPath
	case len(elems) < 2:
		return nil, ErrMalformedDerivationPath

	case len(elems) > 1:
		if strings.TrimSpace(elems[0]) == "m" {
			elems = elems[1:]
		}

	default:
		return nil, ErrMalformedDerivationPath
	}

	// all remaining elems are relative, append one by one
	for _, elem := range elems {
		elem = strings.TrimSpace(elem)
		var value uint32

		if strings.HasSuffix(elem, "'") {
			value = hdkeychain.HardenedKeyStart
			elem = strings.TrimSpace(strings.TrimSuffix(elem, "'"))
		}

		// use big int for convertion
		bigval, ok := new(big.Int).SetString(elem, 0)
		if !ok {
			return nil, fmt.Errorf("invalid elem '%s' in path", elem)
		}

		max := math.MaxUint32 - value
		if bigval.Sign() < 0 || bigval.Cmp(big.NewInt(int64(max))) > 0 {
			if value == 0 {
				return nil, fmt.Errorf("elem %v must be in range [0, %d]", bigval, max)
			}
			return nil, fmt.Errorf("elem %v must be in hardened range [0, %d]", bigval, max)
		}
		value += uint32(bigval.Uint64())

		path = append(path, value)
	}

	return path, nil
}

// String converts a binary derivation path to its canonical representation
func (path DerivationPath) String() string {
	if len(path) <= 0 {
		return ""
	}

	result := "m"
	for _, component := range path {
		var hardened bool
		if component >= hdkeychain.HardenedKeyStart {
			component -= hdkeychain.HardenedKeyStart
			hardened = true
		}
		result = fmt.Sprintf("%s/%d", result, component)
		if hardened {
			result += "'"
		}
	}
	return result
}

// Index returns the last element of the path
func (path DerivationPath) Index() uint32 {
	if len(path) <= 0 {
		return 0
	}
	return path[len(path)-1]
}

// checkDerivationPath makes sure the path follows the template
// purpose'/coinType'/account'/chain/index
func checkDerivationPath(path DerivationPath) error {
	if len(path) != derivationPathLen {
		return fmt.Errorf(
			"%w: path must be in the form m/%d'/%d'/%d'/%d/index",
			ErrInvalidDerivationPath, Purpose, CoinType, Account, ExternalChain,
		)
	}
	for i, elem := range DepositAccountPath {
		if path[i] != elem {
			return fmt.Errorf(
				"%w: elem %d must be %s",
				ErrInvalidDerivationPath, i, DerivationPath{elem}.String()[2:],
			)
		}
	}
	if path[3] != ExternalChain {
		return fmt.Errorf(
			"%w: chain must be %d", ErrInvalidDerivationPath, ExternalChain,
		)
	}
	return nil
}

func containsEmptyString(composedPath []string) bool {
	for _, s := range composedPath {
		if s == "" {
			return true
		}
	}
	return false
}
