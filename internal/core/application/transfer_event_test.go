package application_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/tdex-network/dogecustody/internal/core/application"
	"github.com/tdex-network/dogecustody/internal/core/domain"
)

type publishedEvent struct {
	Topic    string `json:"topic"`
	Transfer struct {
		ID        string `json:"id"`
		Kind      string `json:"kind"`
		Status    string `json:"status"`
		TxID      string `json:"txid"`
		Secondary *struct {
			Amount string `json:"amount"`
			TxID   string `json:"txid"`
		} `json:"secondary"`
	} `json:"transfer"`
}

func TestTransferTopics(t *testing.T) {
	require.Equal(
		t, "transfer.secondary_failed",
		application.TransferTopic(domain.TransferStatusSecondaryFailed),
	)
	require.Equal(t, []string{
		"transfer.broadcasted",
		"transfer.completed",
		"transfer.secondary_failed",
		"transfer.failed",
	}, application.TransferTopics())
}

func TestTransferEvents(t *testing.T) {
	ctx := context.Background()

	setup := func(t *testing.T) (application.TransferService, transferTestEnv, chan publishedEvent) {
		env := newTransferTestEnv(t)
		events := make(chan publishedEvent, 10)
		pubsub := &mockPubSub{}
		pubsub.On("Publish", mock.Anything, mock.Anything, mock.Anything).
			Run(func(args mock.Arguments) {
				var event publishedEvent
				assert.NoError(t, json.Unmarshal(args.Get(2).([]byte), &event))
				assert.Equal(t, args.String(1), event.Topic)
				events <- event
			}).
			Return(errors.New("webhook unreachable"))

		conversion, err := application.NewConversionService(env.rates)
		require.NoError(t, err)
		svc, err := application.NewTransferService(application.TransferServiceOpts{
			WalletContext: env.walletCtx,
			Explorer:      env.explorer,
			Locker:        env.locker,
			Repository:    env.repository,
			Conversion:    conversion,
			Token:         env.token,
			PubSub:        pubsub,
		})
		require.NoError(t, err)
		return svc, env, events
	}

	waitEvents := func(t *testing.T, events chan publishedEvent, n int) map[string]publishedEvent {
		byTopic := make(map[string]publishedEvent)
		for i := 0; i < n; i++ {
			select {
			case event := <-events:
				byTopic[event.Topic] = event
			case <-time.After(2 * time.Second):
				t.Fatalf("expected %d events, got %d", n, i)
			}
		}
		return byTopic
	}

	t.Run("completed", func(t *testing.T) {
		svc, env, events := setup(t)
		env.fundAddress(t, env.walletCtx.PrimaryAddress(), 2000)
		env.acceptBroadcasts()

		transfer, err := svc.TransferFromPrimary(ctx, env.destination, 1000)
		require.NoError(t, err)

		byTopic := waitEvents(t, events, 1)
		event, ok := byTopic["transfer.completed"]
		require.True(t, ok)
		require.Equal(t, transfer.ID, event.Transfer.ID)
		require.Equal(t, "doge", event.Transfer.Kind)
		require.Equal(t, transfer.TxID, event.Transfer.TxID)
		require.Nil(t, event.Transfer.Secondary)
	})

	t.Run("failed", func(t *testing.T) {
		svc, env, events := setup(t)
		env.fundAddress(t, env.walletCtx.PrimaryAddress(), 500)

		_, err := svc.TransferFromPrimary(ctx, env.destination, 1000)
		require.ErrorIs(t, err, domain.ErrInsufficientBalance)

		byTopic := waitEvents(t, events, 1)
		require.Contains(t, byTopic, "transfer.failed")
	})

	t.Run("token", func(t *testing.T) {
		svc, env, events := setup(t)
		deposit, err := application.NewDepositService(env.walletCtx)
		require.NoError(t, err)
		userAddress, err := deposit.AddressForUser(testUserID)
		require.NoError(t, err)

		env.fundAddress(t, userAddress, 3_000_000_000)
		env.acceptBroadcasts()
		env.rates.On("GetRate", mock.Anything, domain.AssetDOGE, domain.AssetUSDT).
			Return(decimal.RequireFromString("0.1"), nil)
		env.token.On("ValidateAddress", testTokenAddress).Return(nil)
		env.token.On("SendTransfer", mock.Anything, testTokenAddress, mock.Anything).
			Return("0xethtx", nil)
		env.token.On("WaitForTransfer", mock.Anything, "0xethtx").Return(nil)

		transfer, err := svc.TransferToToken(
			ctx, testUserID, testTokenAddress, 3_000_000_000,
		)
		require.NoError(t, err)

		byTopic := waitEvents(t, events, 2)
		require.Contains(t, byTopic, "transfer.broadcasted")
		completed, ok := byTopic["transfer.completed"]
		require.True(t, ok)
		require.Equal(t, transfer.ID, completed.Transfer.ID)
		require.NotNil(t, completed.Transfer.Secondary)
		require.Equal(t, "0xethtx", completed.Transfer.Secondary.TxID)
		require.Equal(t, "2.7", completed.Transfer.Secondary.Amount)
	})
}
