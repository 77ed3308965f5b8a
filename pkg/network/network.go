package network

import (
	"errors"
	"fmt"

	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/btcd/wire"
)

const (
	// DogecoinName is the name of the Dogecoin main network
	DogecoinName = "dogecoin"
	// TestnetName is the name of the Dogecoin test network
	TestnetName = "testnet"

	// CoinType is the SLIP-44 registered coin type of Dogecoin
	CoinType = 3
	// KoinuPerCoin is the number of smallest units in one DOGE
	KoinuPerCoin = 100000000
)

// Dogecoin defines the network parameters for the Dogecoin main network
var Dogecoin = chaincfg.Params{
	Name:             DogecoinName,
	Net:              wire.BitcoinNet(0xc0c0c0c0),
	DefaultPort:      "22556",
	Bech32HRPSegwit:  "doge",
	PubKeyHashAddrID: 0x1e,
	ScriptHashAddrID: 0x16,
	PrivateKeyID:     0x9e,
	HDPrivateKeyID:   [4]byte{0x02, 0xfa, 0xc3, 0x98},
	HDPublicKeyID:    [4]byte{0x02, 0xfa, 0xca, 0xfd},
	HDCoinType:       CoinType,
}

// Testnet defines the network parameters for the Dogecoin test network
var Testnet = chaincfg.Params{
	Name:             TestnetName,
	Net:              wire.BitcoinNet(0xdcb7c1fc),
	DefaultPort:      "44556",
	Bech32HRPSegwit:  "tdge",
	PubKeyHashAddrID: 0x71,
	ScriptHashAddrID: 0xc4,
	PrivateKeyID:     0xf1,
	HDPrivateKeyID:   [4]byte{0x04, 0x35, 0x83, 0x94},
	HDPublicKeyID:    [4]byte{0x04, 0x35, 0x87, 0xcf},
	HDCoinType:       1,
}

var (
	// ErrUnknownNetwork ...
	ErrUnknownNetwork = errors.New("unknown network")
)

func init() {
	// registration is required to let hdkeychain map private to public
	// extended key versions when neutering.
	for _, p := range []*chaincfg.Params{&Dogecoin, &Testnet} {
		if err := chaincfg.Register(p); err != nil &&
			!errors.Is(err, chaincfg.ErrDuplicateNet) {
			panic(fmt.Sprintf("registering %s params: %s", p.Name, err))
		}
	}
}

// FromName returns the network parameters identified by the given name
func FromName(name string) (*chaincfg.Params, error) {
	switch name {
	case DogecoinName, "mainnet":
		return &Dogecoin, nil
	case TestnetName:
		return &Testnet, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownNetwork, name)
	}
}

// All returns the parameters of every known network. Bitcoin mainnet is
// part of the list only to detect foreign addresses and keys.
func All() []*chaincfg.Params {
	return []*chaincfg.Params{&Dogecoin, &Testnet, &chaincfg.MainNetParams}
}
