package application_test

import (
	"bytes"
	"context"
	"encoding/hex"

	"github.com/btcsuite/btcd/wire"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/tdex-network/dogecustody/internal/core/domain"
	"github.com/tdex-network/dogecustody/internal/core/ports"
	"github.com/tdex-network/dogecustody/pkg/explorer"
)

// **** Explorer ****

type mockExplorer struct {
	mock.Mock
}

func (m *mockExplorer) GetBalance(
	ctx context.Context, addr string,
) (int64, error) {
	args := m.Called(ctx, addr)

	var res int64
	if a := args.Get(0); a != nil {
		res = a.(int64)
	}
	return res, args.Error(1)
}

func (m *mockExplorer) GetUnspents(
	ctx context.Context, addr string,
) ([]explorer.Utxo, error) {
	args := m.Called(ctx, addr)

	var res []explorer.Utxo
	if a := args.Get(0); a != nil {
		res = a.([]explorer.Utxo)
	}
	return res, args.Error(1)
}

func (m *mockExplorer) BroadcastTransaction(
	ctx context.Context, txhex string,
) (string, error) {
	args := m.Called(ctx, txhex)

	var res string
	switch a := args.Get(0).(type) {
	case func(string) string:
		res = a(txhex)
	case string:
		res = a
	}
	return res, args.Error(1)
}

// txidFromHex behaves like a real explorer, returning the hash of the
// broadcasted transaction
func txidFromHex(txhex string) string {
	buf, err := hex.DecodeString(txhex)
	if err != nil {
		return ""
	}
	tx := wire.NewMsgTx(1)
	if err := tx.Deserialize(bytes.NewReader(buf)); err != nil {
		return ""
	}
	return tx.TxHash().String()
}

// **** RateProvider ****

type mockRateProvider struct {
	mock.Mock
}

func (m *mockRateProvider) GetRate(
	ctx context.Context, base, quote string,
) (decimal.Decimal, error) {
	args := m.Called(ctx, base, quote)

	res := decimal.Zero
	if a := args.Get(0); a != nil {
		res = a.(decimal.Decimal)
	}
	return res, args.Error(1)
}

// **** TokenTransferer ****

type mockToken struct {
	mock.Mock
}

func (m *mockToken) Asset() string {
	return domain.AssetUSDT
}

func (m *mockToken) ValidateAddress(address string) error {
	args := m.Called(address)
	return args.Error(0)
}

func (m *mockToken) SendTransfer(
	ctx context.Context, to string, amount decimal.Decimal,
) (string, error) {
	args := m.Called(ctx, to, amount)
	return args.String(0), args.Error(1)
}

func (m *mockToken) WaitForTransfer(ctx context.Context, txid string) error {
	args := m.Called(ctx, txid)
	return args.Error(0)
}

// **** PaymentRail ****

type mockPaymentRail struct {
	mock.Mock
}

func (m *mockPaymentRail) CreateCharge(
	ctx context.Context, amount decimal.Decimal, customer ports.PixCustomer,
) (*ports.PixCharge, error) {
	args := m.Called(ctx, amount, customer)

	var res *ports.PixCharge
	if a := args.Get(0); a != nil {
		res = a.(*ports.PixCharge)
	}
	return res, args.Error(1)
}

func (m *mockPaymentRail) GetCharge(
	ctx context.Context, chargeID string,
) (*ports.PixCharge, error) {
	args := m.Called(ctx, chargeID)

	var res *ports.PixCharge
	if a := args.Get(0); a != nil {
		res = a.(*ports.PixCharge)
	}
	return res, args.Error(1)
}

func (m *mockPaymentRail) SendPayout(
	ctx context.Context, amount decimal.Decimal, pixKey string,
	recipient ports.PixRecipient,
) (*ports.PixPayout, error) {
	args := m.Called(ctx, amount, pixKey, recipient)

	var res *ports.PixPayout
	if a := args.Get(0); a != nil {
		res = a.(*ports.PixPayout)
	}
	return res, args.Error(1)
}

type mockPubSub struct {
	mock.Mock
}

func (m *mockPubSub) Subscribe(
	ctx context.Context, topic, endpoint, secret string,
) (string, error) {
	args := m.Called(ctx, topic, endpoint, secret)
	return args.String(0), args.Error(1)
}

func (m *mockPubSub) Unsubscribe(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockPubSub) ListSubscriptions(
	ctx context.Context, topic string,
) ([]ports.Subscription, error) {
	args := m.Called(ctx, topic)

	var res []ports.Subscription
	if a := args.Get(0); a != nil {
		res = a.([]ports.Subscription)
	}
	return res, args.Error(1)
}

func (m *mockPubSub) Publish(
	ctx context.Context, topic string, message []byte,
) error {
	args := m.Called(ctx, topic, message)
	return args.Error(0)
}
