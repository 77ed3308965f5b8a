package erc20_test

import (
	"context"
	"encoding/hex"
	"errors"
	"math/big"
	"sync"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/tdex-network/dogecustody/internal/core/domain"
	"github.com/tdex-network/dogecustody/internal/core/ports"
	"github.com/tdex-network/dogecustody/internal/infrastructure/token/erc20"
)

const testRecipient = "0x000000000000000000000000000000000000dEaD"

type fakeBackend struct {
	lock          sync.Mutex
	chainID       *big.Int
	nonce         uint64
	sent          []*types.Transaction
	pendingPolls  int
	receiptStatus uint64
	sendErr       error
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		chainID:       big.NewInt(1),
		nonce:         7,
		pendingPolls:  1,
		receiptStatus: types.ReceiptStatusSuccessful,
	}
}

func (b *fakeBackend) ChainID(context.Context) (*big.Int, error) {
	return b.chainID, nil
}

func (b *fakeBackend) PendingNonceAt(context.Context, common.Address) (uint64, error) {
	b.lock.Lock()
	defer b.lock.Unlock()
	return b.nonce + uint64(len(b.sent)), nil
}

func (b *fakeBackend) SuggestGasTipCap(context.Context) (*big.Int, error) {
	return big.NewInt(2_000_000_000), nil
}

func (b *fakeBackend) HeaderByNumber(context.Context, *big.Int) (*types.Header, error) {
	return &types.Header{BaseFee: big.NewInt(10_000_000_000)}, nil
}

func (b *fakeBackend) EstimateGas(context.Context, ethereum.CallMsg) (uint64, error) {
	return 65000, nil
}

func (b *fakeBackend) SendTransaction(_ context.Context, tx *types.Transaction) error {
	b.lock.Lock()
	defer b.lock.Unlock()
	if b.sendErr != nil {
		return b.sendErr
	}
	b.sent = append(b.sent, tx)
	return nil
}

func (b *fakeBackend) TransactionReceipt(
	_ context.Context, hash common.Hash,
) (*types.Receipt, error) {
	b.lock.Lock()
	defer b.lock.Unlock()
	if b.pendingPolls > 0 {
		b.pendingPolls--
		return nil, ethereum.NotFound
	}
	return &types.Receipt{TxHash: hash, Status: b.receiptStatus}, nil
}

func (b *fakeBackend) mine() {
	b.lock.Lock()
	defer b.lock.Unlock()
	b.pendingPolls = 0
}

func (b *fakeBackend) sentCount() int {
	b.lock.Lock()
	defer b.lock.Unlock()
	return len(b.sent)
}

func newTestKey(t *testing.T) (string, common.Address) {
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	return hex.EncodeToString(crypto.FromECDSA(key)),
		crypto.PubkeyToAddress(key.PublicKey)
}

func TestTransfer(t *testing.T) {
	ctx := context.Background()

	t.Run("valid", func(t *testing.T) {
		backend := newFakeBackend()
		privateKey, from := newTestKey(t)

		svc, err := erc20.NewService(ctx, erc20.ServiceOpts{
			Backend:             backend,
			PrivateKey:          privateKey,
			ReceiptPollInterval: time.Millisecond,
		})
		require.NoError(t, err)
		require.Equal(t, domain.AssetUSDT, svc.Asset())

		hash, err := svc.SendTransfer(
			ctx, testRecipient, decimal.RequireFromString("12.3456789"),
		)
		require.NoError(t, err)
		require.Len(t, backend.sent, 1)
		require.NoError(t, svc.WaitForTransfer(ctx, hash))

		tx := backend.sent[0]
		require.Equal(t, tx.Hash().Hex(), hash)
		require.Equal(t, uint64(7), tx.Nonce())
		require.Equal(t, uint64(65000), tx.Gas())
		require.Equal(t, common.HexToAddress(erc20.USDTContract), *tx.To())
		require.Zero(t, tx.Value().Sign())
		require.Equal(t, big.NewInt(22_000_000_000), tx.GasFeeCap())

		sender, err := types.Sender(types.NewLondonSigner(big.NewInt(1)), tx)
		require.NoError(t, err)
		require.Equal(t, from, sender)

		data := tx.Data()
		require.Len(t, data, 68)
		require.Equal(t, "a9059cbb", hex.EncodeToString(data[:4]))
		require.Equal(t, common.HexToAddress(testRecipient), common.BytesToAddress(data[4:36]))
		require.Equal(t, big.NewInt(12_345_678), new(big.Int).SetBytes(data[36:68]))
	})

	t.Run("reverted", func(t *testing.T) {
		backend := newFakeBackend()
		backend.receiptStatus = types.ReceiptStatusFailed
		privateKey, _ := newTestKey(t)

		svc, err := erc20.NewService(ctx, erc20.ServiceOpts{
			Backend:             backend,
			PrivateKey:          privateKey,
			ReceiptPollInterval: time.Millisecond,
		})
		require.NoError(t, err)

		hash, err := svc.SendTransfer(ctx, testRecipient, decimal.NewFromInt(1))
		require.NoError(t, err)
		err = svc.WaitForTransfer(ctx, hash)
		require.ErrorIs(t, err, ports.ErrTokenTransferReverted)
	})

	t.Run("not mined", func(t *testing.T) {
		backend := newFakeBackend()
		backend.pendingPolls = 1 << 20
		privateKey, _ := newTestKey(t)

		svc, err := erc20.NewService(ctx, erc20.ServiceOpts{
			Backend:             backend,
			PrivateKey:          privateKey,
			ReceiptPollInterval: time.Millisecond,
			ReceiptTimeout:      20 * time.Millisecond,
		})
		require.NoError(t, err)

		hash, err := svc.SendTransfer(ctx, testRecipient, decimal.NewFromInt(1))
		require.NoError(t, err)
		require.NotEmpty(t, hash)

		err = svc.WaitForTransfer(ctx, hash)
		require.ErrorIs(t, err, ports.ErrTokenTransferPending)
		require.Contains(t, err.Error(), hash)

		backend.mine()
		require.NoError(t, svc.WaitForTransfer(ctx, hash))
		require.Equal(t, 1, backend.sentCount())

		err = svc.WaitForTransfer(ctx, "0x1234")
		require.Error(t, err)
	})

	t.Run("invalid", func(t *testing.T) {
		backend := newFakeBackend()
		backend.sendErr = errors.New("insufficient funds for gas")
		privateKey, _ := newTestKey(t)

		svc, err := erc20.NewService(ctx, erc20.ServiceOpts{
			Backend:    backend,
			PrivateKey: privateKey,
		})
		require.NoError(t, err)

		require.ErrorIs(t, svc.ValidateAddress("0x123"), erc20.ErrInvalidAddress)
		require.NoError(t, svc.ValidateAddress(testRecipient))

		_, err = svc.SendTransfer(ctx, "DH5yaieqoZN36fDVciNyRueRGvGLR3mr7L", decimal.NewFromInt(1))
		require.ErrorIs(t, err, erc20.ErrInvalidAddress)

		_, err = svc.SendTransfer(ctx, testRecipient, decimal.RequireFromString("0.0000001"))
		require.ErrorIs(t, err, erc20.ErrAmountTooSmall)

		_, err = svc.SendTransfer(ctx, testRecipient, decimal.NewFromInt(1))
		require.Error(t, err)
		require.Empty(t, backend.sent)
	})

	t.Run("invalid opts", func(t *testing.T) {
		backend := newFakeBackend()

		_, err := erc20.NewService(ctx, erc20.ServiceOpts{Backend: backend})
		require.ErrorIs(t, err, erc20.ErrInvalidPrivateKey)

		_, err = erc20.NewService(ctx, erc20.ServiceOpts{
			Backend:    backend,
			PrivateKey: "zz",
		})
		require.ErrorIs(t, err, erc20.ErrInvalidPrivateKey)

		_, err = erc20.NewService(ctx, erc20.ServiceOpts{PrivateKey: "aa"})
		require.Error(t, err)
	})
}
