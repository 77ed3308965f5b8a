package erc20

import (
	"context"
	"crypto/ecdsa"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
	"github.com/tdex-network/dogecustody/internal/core/domain"
	"github.com/tdex-network/dogecustody/internal/core/ports"
	"github.com/tdex-network/dogecustody/pkg/mathutil"
)

const (
	// USDTContract is the address of the Tether USD contract on Ethereum
	// mainnet
	USDTContract = "0xdAC17F958D2ee523a2206206994597C13D831ec7"
	// USDTDecimals ...
	USDTDecimals = 6

	defaultReceiptPollInterval = 3 * time.Second
	defaultReceiptTimeout      = 5 * time.Minute

	transferABI = `[{"constant":false,"inputs":[{"name":"_to","type":"address"},` +
		`{"name":"_value","type":"uint256"}],"name":"transfer","outputs":[],` +
		`"payable":false,"stateMutability":"nonpayable","type":"function"}]`
)

var (
	// ErrInvalidAddress ...
	ErrInvalidAddress = errors.New("token address is not a valid hex address")
	// ErrInvalidPrivateKey ...
	ErrInvalidPrivateKey = errors.New("private key is not valid")
	// ErrAmountTooSmall ...
	ErrAmountTooSmall = errors.New("amount is lower than the token precision")
)

// Backend is the subset of the Ethereum JSON-RPC API needed to send token
// transfers, satisfied by *ethclient.Client
type Backend interface {
	ChainID(ctx context.Context) (*big.Int, error)
	PendingNonceAt(ctx context.Context, account common.Address) (uint64, error)
	SuggestGasTipCap(ctx context.Context) (*big.Int, error)
	HeaderByNumber(ctx context.Context, number *big.Int) (*types.Header, error)
	EstimateGas(ctx context.Context, msg ethereum.CallMsg) (uint64, error)
	SendTransaction(ctx context.Context, tx *types.Transaction) error
	TransactionReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error)
}

// ServiceOpts is the struct given to NewService. Backend takes precedence
// over RPCURL when both are given.
type ServiceOpts struct {
	RPCURL          string
	Backend         Backend
	PrivateKey      string
	ContractAddress string
	Decimals        int32
	Asset           string

	ReceiptPollInterval time.Duration
	ReceiptTimeout      time.Duration
}

func (o ServiceOpts) validate() error {
	if o.Backend == nil && len(o.RPCURL) <= 0 {
		return fmt.Errorf("missing rpc url")
	}
	if len(o.PrivateKey) <= 0 {
		return ErrInvalidPrivateKey
	}
	if len(o.ContractAddress) > 0 && !common.IsHexAddress(o.ContractAddress) {
		return fmt.Errorf("contract: %w", ErrInvalidAddress)
	}
	if o.Decimals < 0 {
		return fmt.Errorf("decimals must not be negative")
	}
	return nil
}

type service struct {
	backend  Backend
	key      *ecdsa.PrivateKey
	from     common.Address
	contract common.Address
	decimals int32
	asset    string
	chainID  *big.Int
	abi      abi.ABI

	pollInterval   time.Duration
	receiptTimeout time.Duration

	// serializes nonce assignment
	lock *sync.Mutex
}

// NewService returns a TokenTransferer sending ERC-20 tokens, USDT by
// default, from the account of the given private key
func NewService(ctx context.Context, opts ServiceOpts) (ports.TokenTransferer, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}

	key, err := crypto.HexToECDSA(strings.TrimPrefix(opts.PrivateKey, "0x"))
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidPrivateKey, err)
	}

	backend := opts.Backend
	if backend == nil {
		client, err := ethclient.DialContext(ctx, opts.RPCURL)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to ethereum node: %w", err)
		}
		backend = client
	}

	chainID, err := backend.ChainID(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch chain id: %w", err)
	}

	parsedABI, err := abi.JSON(strings.NewReader(transferABI))
	if err != nil {
		return nil, err
	}

	contract := opts.ContractAddress
	if contract == "" {
		contract = USDTContract
	}
	decimals := opts.Decimals
	if decimals == 0 {
		decimals = USDTDecimals
	}
	asset := opts.Asset
	if asset == "" {
		asset = domain.AssetUSDT
	}
	pollInterval := opts.ReceiptPollInterval
	if pollInterval <= 0 {
		pollInterval = defaultReceiptPollInterval
	}
	receiptTimeout := opts.ReceiptTimeout
	if receiptTimeout <= 0 {
		receiptTimeout = defaultReceiptTimeout
	}

	return &service{
		backend:        backend,
		key:            key,
		from:           crypto.PubkeyToAddress(key.PublicKey),
		contract:       common.HexToAddress(contract),
		decimals:       decimals,
		asset:          asset,
		chainID:        chainID,
		abi:            parsedABI,
		pollInterval:   pollInterval,
		receiptTimeout: receiptTimeout,
		lock:           &sync.Mutex{},
	}, nil
}

func (s *service) Asset() string {
	return s.asset
}

func (s *service) ValidateAddress(address string) error {
	if !common.IsHexAddress(address) {
		return fmt.Errorf("%w: %s", ErrInvalidAddress, address)
	}
	return nil
}

func (s *service) SendTransfer(
	ctx context.Context, to string, amount decimal.Decimal,
) (string, error) {
	if err := s.ValidateAddress(to); err != nil {
		return "", err
	}
	value := mathutil.ToBaseUnits(amount, s.decimals)
	if value.Sign() <= 0 {
		return "", fmt.Errorf("%w: %s", ErrAmountTooSmall, amount)
	}

	data, err := s.abi.Pack("transfer", common.HexToAddress(to), value)
	if err != nil {
		return "", err
	}

	tx, err := s.sendTransaction(ctx, data)
	if err != nil {
		return "", err
	}

	log.WithFields(log.Fields{
		"hash":   tx.Hash().Hex(),
		"nonce":  tx.Nonce(),
		"to":     to,
		"amount": amount.String(),
		"asset":  s.asset,
	}).Debug("token transfer sent")

	return tx.Hash().Hex(), nil
}

func (s *service) WaitForTransfer(ctx context.Context, txid string) error {
	if !isHexHash(txid) {
		return fmt.Errorf("invalid transaction hash %s", txid)
	}
	return s.waitForReceipt(ctx, common.HexToHash(txid))
}

func (s *service) sendTransaction(
	ctx context.Context, data []byte,
) (*types.Transaction, error) {
	s.lock.Lock()
	defer s.lock.Unlock()

	nonce, err := s.backend.PendingNonceAt(ctx, s.from)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch nonce: %w", err)
	}
	tip, err := s.backend.SuggestGasTipCap(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch gas tip: %w", err)
	}
	header, err := s.backend.HeaderByNumber(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch latest header: %w", err)
	}
	baseFee := header.BaseFee
	if baseFee == nil {
		baseFee = big.NewInt(0)
	}
	feeCap := new(big.Int).Add(new(big.Int).Mul(baseFee, big.NewInt(2)), tip)

	gas, err := s.backend.EstimateGas(ctx, ethereum.CallMsg{
		From: s.from,
		To:   &s.contract,
		Data: data,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to estimate gas: %w", err)
	}

	tx := types.NewTx(&types.DynamicFeeTx{
		ChainID:   s.chainID,
		Nonce:     nonce,
		GasTipCap: tip,
		GasFeeCap: feeCap,
		Gas:       gas,
		To:        &s.contract,
		Value:     big.NewInt(0),
		Data:      data,
	})

	signedTx, err := types.SignTx(tx, types.NewLondonSigner(s.chainID), s.key)
	if err != nil {
		return nil, err
	}
	if err := s.backend.SendTransaction(ctx, signedTx); err != nil {
		return nil, fmt.Errorf("failed to send transaction: %w", err)
	}
	return signedTx, nil
}

func (s *service) waitForReceipt(ctx context.Context, hash common.Hash) error {
	ctx, cancel := context.WithTimeout(ctx, s.receiptTimeout)
	defer cancel()

	ticker := time.NewTicker(s.pollInterval)
	defer ticker.Stop()

	for {
		receipt, err := s.backend.TransactionReceipt(ctx, hash)
		if err == nil {
			if receipt.Status != types.ReceiptStatusSuccessful {
				return fmt.Errorf(
					"%w: %s", ports.ErrTokenTransferReverted, hash.Hex(),
				)
			}
			return nil
		}
		if ctx.Err() != nil {
			return pendingError(hash, ctx.Err())
		}
		if !errors.Is(err, ethereum.NotFound) {
			return fmt.Errorf("failed to fetch receipt: %w", err)
		}

		select {
		case <-ctx.Done():
			return pendingError(hash, ctx.Err())
		case <-ticker.C:
		}
	}
}

func pendingError(hash common.Hash, cause error) error {
	return fmt.Errorf("%w: %s: %s", ports.ErrTokenTransferPending, hash.Hex(), cause)
}

func isHexHash(txid string) bool {
	b, err := hexutil.Decode(txid)
	return err == nil && len(b) == common.HashLength
}
