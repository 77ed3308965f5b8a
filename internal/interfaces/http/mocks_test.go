package httpinterface_test

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/tdex-network/dogecustody/internal/core/domain"
	"github.com/tdex-network/dogecustody/internal/core/ports"
)

type mockDepositService struct {
	mock.Mock
}

func (m *mockDepositService) UserIndex(userID string) (uint32, error) {
	args := m.Called(userID)
	return args.Get(0).(uint32), args.Error(1)
}

func (m *mockDepositService) AddressForUser(userID string) (string, error) {
	args := m.Called(userID)
	return args.String(0), args.Error(1)
}

type mockTransferService struct {
	mock.Mock
}

func transferResult(args mock.Arguments) (*domain.Transfer, error) {
	var transfer *domain.Transfer
	if v := args.Get(0); v != nil {
		transfer = v.(*domain.Transfer)
	}
	return transfer, args.Error(1)
}

func (m *mockTransferService) Transfer(
	ctx context.Context, req domain.TransferRequest,
) (string, error) {
	args := m.Called(ctx, req)
	return args.String(0), args.Error(1)
}

func (m *mockTransferService) TransferFromPrimary(
	ctx context.Context, destination string, amount uint64,
) (*domain.Transfer, error) {
	return transferResult(m.Called(ctx, destination, amount))
}

func (m *mockTransferService) TransferFromUser(
	ctx context.Context, userID, destination string, amount uint64,
) (*domain.Transfer, error) {
	return transferResult(m.Called(ctx, userID, destination, amount))
}

func (m *mockTransferService) TransferQuoted(
	ctx context.Context, destination string, amount decimal.Decimal,
	asset string,
) (*domain.Transfer, error) {
	return transferResult(m.Called(ctx, destination, amount, asset))
}

func (m *mockTransferService) TransferToToken(
	ctx context.Context, userID, tokenAddress string, amount uint64,
) (*domain.Transfer, error) {
	return transferResult(m.Called(ctx, userID, tokenAddress, amount))
}

func (m *mockTransferService) CompleteSecondaryLeg(
	ctx context.Context, transferID string,
) (*domain.Transfer, error) {
	return transferResult(m.Called(ctx, transferID))
}

func (m *mockTransferService) GetTransfer(
	ctx context.Context, transferID string,
) (*domain.Transfer, error) {
	return transferResult(m.Called(ctx, transferID))
}

func (m *mockTransferService) ListTransfers(
	ctx context.Context, statuses ...domain.TransferStatus,
) ([]*domain.Transfer, error) {
	args := m.Called(ctx, statuses)
	var transfers []*domain.Transfer
	if v := args.Get(0); v != nil {
		transfers = v.([]*domain.Transfer)
	}
	return transfers, args.Error(1)
}

func (m *mockTransferService) GetBalance(
	ctx context.Context, address string,
) (int64, error) {
	args := m.Called(ctx, address)
	return args.Get(0).(int64), args.Error(1)
}

type mockConversionService struct {
	mock.Mock
}

func (m *mockConversionService) GetRate(
	ctx context.Context, base, quote string,
) (decimal.Decimal, error) {
	args := m.Called(ctx, base, quote)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *mockConversionService) Convert(
	ctx context.Context, amount decimal.Decimal, from, to string,
) (decimal.Decimal, error) {
	args := m.Called(ctx, amount, from, to)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

type mockPaymentService struct {
	mock.Mock
}

func (m *mockPaymentService) CreateCharge(
	ctx context.Context, amount decimal.Decimal, customer ports.PixCustomer,
) (*ports.PixCharge, error) {
	args := m.Called(ctx, amount, customer)
	var charge *ports.PixCharge
	if v := args.Get(0); v != nil {
		charge = v.(*ports.PixCharge)
	}
	return charge, args.Error(1)
}

func (m *mockPaymentService) GetCharge(
	ctx context.Context, chargeID string,
) (*ports.PixCharge, error) {
	args := m.Called(ctx, chargeID)
	var charge *ports.PixCharge
	if v := args.Get(0); v != nil {
		charge = v.(*ports.PixCharge)
	}
	return charge, args.Error(1)
}

func (m *mockPaymentService) PayoutToBank(
	ctx context.Context, amount uint64, pixKey string,
	recipient ports.PixRecipient,
) (*ports.PixPayout, error) {
	args := m.Called(ctx, amount, pixKey, recipient)
	var payout *ports.PixPayout
	if v := args.Get(0); v != nil {
		payout = v.(*ports.PixPayout)
	}
	return payout, args.Error(1)
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
	var subs []ports.Subscription
	if v := args.Get(0); v != nil {
		subs = v.([]ports.Subscription)
	}
	return subs, args.Error(1)
}

func (m *mockPubSub) Publish(
	ctx context.Context, topic string, message []byte,
) error {
	args := m.Called(ctx, topic, message)
	return args.Error(0)
}
