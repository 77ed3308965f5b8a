package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
	"github.com/tdex-network/dogecustody/pkg/network"
)

const (
	// NetworkKey is the Dogecoin network to use, either "dogecoin" or "testnet"
	NetworkKey = "NETWORK"
	// DatadirKey is the local data directory to store the internal state of daemon
	DatadirKey = "DATADIR"
	// LogLevelKey are the different logging levels. For reference on the values https://godoc.org/github.com/sirupsen/logrus#Level
	LogLevelKey = "LOG_LEVEL"
	// HTTPListeningPortKey is the port where the REST interface will listen on
	HTTPListeningPortKey = "HTTP_LISTENING_PORT"
	// DBTypeKey is used to switch database type between those supported
	DBTypeKey = "DB_TYPE"
	// SecretFileKey is the path of the encrypted mnemonic or master key
	// produced by the CLI.
	// Defaults to the secret file in the datadir
	SecretFileKey = "SECRET_FILE"
	// SecretPasswordFileKey is the path of the file containing the password
	// to decrypt the secret file
	SecretPasswordFileKey = "SECRET_PASSWORD_FILE"
	// MnemonicKey is a plaintext mnemonic, alternative to the secret file
	// for development setups
	MnemonicKey = "MNEMONIC"
	// MasterKeyKey is a plaintext base58 extended private key, alternative to
	// the secret file for development setups
	MasterKeyKey = "MASTER_KEY"
	// FeeAddressKey is the address receiving the operator fee. Defaults to the
	// primary address
	FeeAddressKey = "FEE_ADDRESS"
	// OperatorFeeFractionKey is the fraction of every transfer paid to the fee
	// address
	OperatorFeeFractionKey = "OPERATOR_FEE_FRACTION"
	// NetworkFeeKey is the flat network fee in koinu left to miners by every
	// transaction
	NetworkFeeKey = "NETWORK_FEE"
	// ExplorerURLKey is the base url of the BlockCypher compatible explorer
	ExplorerURLKey = "EXPLORER_URL"
	// ExplorerTokenKey is the optional api token for the explorer
	ExplorerTokenKey = "EXPLORER_TOKEN"
	// ExplorerRPSKey caps the requests per second sent to the explorer
	ExplorerRPSKey = "EXPLORER_RPS"
	// RateProviderKey selects the source of exchange rates, either
	// "coingecko" or "binance"
	RateProviderKey = "RATE_PROVIDER"
	// CoinGeckoURLKey is the base url of the CoinGecko API
	CoinGeckoURLKey = "COINGECKO_URL"
	// BinanceURLKey is the base url of the Binance API
	BinanceURLKey = "BINANCE_URL"
	// EthRPCURLKey is the endpoint of the Ethereum node used for token
	// transfers. Cross-asset transfers are disabled if not set
	EthRPCURLKey = "ETH_RPC_URL"
	// EthPrivateKeyKey is the hex encoded key of the account paying out tokens
	EthPrivateKeyKey = "ETH_PRIVATE_KEY"
	// USDTContractKey is the address of the token contract
	USDTContractKey = "USDT_CONTRACT"
	// PagarMeURLKey is the base url of the Pagar.me API
	PagarMeURLKey = "PAGARME_URL"
	// PagarMeAPIKeyKey is the secret key for the Pagar.me API. PIX payments
	// are disabled if not set
	PagarMeAPIKeyKey = "PAGARME_API_KEY"
	// RequestTimeoutKey is the timeout of every request sent to external
	// services
	RequestTimeoutKey = "REQUEST_TIMEOUT"

	// DBBadger ...
	DBBadger = "badger"
	// DBInMemory ...
	DBInMemory = "inmemory"
	// RateProviderCoinGecko ...
	RateProviderCoinGecko = "coingecko"
	// RateProviderBinance ...
	RateProviderBinance = "binance"

	DbLocation     = "db"
	SecretFilename = "secret"
)

var vip *viper.Viper
var defaultDatadir = btcutil.AppDataDir("dogecustody", false)

func InitConfig() error {
	vip = viper.New()
	vip.SetEnvPrefix("CUSTODY")
	vip.AutomaticEnv()

	vip.SetDefault(NetworkKey, network.DogecoinName)
	vip.SetDefault(DatadirKey, defaultDatadir)
	vip.SetDefault(LogLevelKey, 4)
	vip.SetDefault(HTTPListeningPortKey, 9090)
	vip.SetDefault(DBTypeKey, DBBadger)
	vip.SetDefault(OperatorFeeFractionKey, "0.1")
	vip.SetDefault(NetworkFeeKey, 0)
	vip.SetDefault(ExplorerRPSKey, 3)
	vip.SetDefault(RateProviderKey, RateProviderCoinGecko)
	vip.SetDefault(RequestTimeoutKey, 30*time.Second)

	if err := validate(); err != nil {
		return fmt.Errorf("error while validating config: %s", err)
	}

	if err := initDatadir(); err != nil {
		return fmt.Errorf("error while creating datadir: %s", err)
	}

	return nil
}

func GetString(key string) string {
	return vip.GetString(key)
}

func GetInt(key string) int {
	return vip.GetInt(key)
}

func GetUint64(key string) uint64 {
	return vip.GetUint64(key)
}

func GetDuration(key string) time.Duration {
	return vip.GetDuration(key)
}

func GetDatadir() string {
	return GetString(DatadirKey)
}

// GetNetwork returns the params of the configured network
func GetNetwork() *chaincfg.Params {
	net, _ := network.FromName(GetString(NetworkKey))
	return net
}

// GetOperatorFeeFraction returns the configured operator fee as a decimal
func GetOperatorFeeFraction() decimal.Decimal {
	fraction, _ := decimal.NewFromString(GetString(OperatorFeeFractionKey))
	return fraction
}

// GetSecretFile returns the path of the encrypted mnemonic
func GetSecretFile() string {
	if path := GetString(SecretFileKey); path != "" {
		return path
	}
	return filepath.Join(GetDatadir(), SecretFilename)
}

// GetDBDir returns the directory of the transfer journal, empty for the
// in-memory store
func GetDBDir() string {
	if GetString(DBTypeKey) == DBInMemory {
		return ""
	}
	return filepath.Join(GetDatadir(), DbLocation)
}

func validate() error {
	datadir := GetString(DatadirKey)
	if len(datadir) <= 0 {
		return fmt.Errorf("missing datadir")
	}

	if _, err := network.FromName(GetString(NetworkKey)); err != nil {
		return err
	}
	if GetString(NetworkKey) == network.TestnetName && !vip.IsSet(ExplorerURLKey) {
		return fmt.Errorf("%s must be set for testnet", ExplorerURLKey)
	}

	switch dbType := GetString(DBTypeKey); dbType {
	case DBBadger, DBInMemory:
	default:
		return fmt.Errorf("unsupported db type %s", dbType)
	}

	fraction, err := decimal.NewFromString(GetString(OperatorFeeFractionKey))
	if err != nil {
		return fmt.Errorf("%s must be a decimal number", OperatorFeeFractionKey)
	}
	if fraction.IsNegative() || fraction.GreaterThanOrEqual(decimal.NewFromInt(1)) {
		return fmt.Errorf("%s must be in range [0, 1)", OperatorFeeFractionKey)
	}
	if GetInt(NetworkFeeKey) < 0 {
		return fmt.Errorf("%s must not be negative", NetworkFeeKey)
	}

	if !vip.IsSet(MnemonicKey) && !vip.IsSet(MasterKeyKey) &&
		!vip.IsSet(SecretPasswordFileKey) {
		return fmt.Errorf(
			"one of %s, %s or %s must be set",
			MnemonicKey, MasterKeyKey, SecretPasswordFileKey,
		)
	}

	switch provider := GetString(RateProviderKey); provider {
	case RateProviderCoinGecko, RateProviderBinance:
	default:
		return fmt.Errorf("unsupported rate provider %s", provider)
	}

	if vip.IsSet(EthPrivateKeyKey) && !vip.IsSet(EthRPCURLKey) {
		return fmt.Errorf("%s requires %s to be set", EthPrivateKeyKey, EthRPCURLKey)
	}
	if vip.IsSet(EthRPCURLKey) && !vip.IsSet(EthPrivateKeyKey) {
		return fmt.Errorf("%s requires %s to be set", EthRPCURLKey, EthPrivateKeyKey)
	}

	if GetDuration(RequestTimeoutKey) <= 0 {
		return fmt.Errorf("%s must be a positive duration", RequestTimeoutKey)
	}

	return nil
}

func initDatadir() error {
	if GetString(DBTypeKey) == DBInMemory {
		return makeDirectoryIfNotExists(GetDatadir())
	}
	return makeDirectoryIfNotExists(filepath.Join(GetDatadir(), DbLocation))
}

func makeDirectoryIfNotExists(path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return os.MkdirAll(path, os.ModeDir|0755)
	}
	return nil
}
