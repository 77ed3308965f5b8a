package inmemory_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tdex-network/dogecustody/internal/core/domain"
	"github.com/tdex-network/dogecustody/internal/infrastructure/storage/db/inmemory"
)

func TestTransferRepository(t *testing.T) {
	ctx := context.Background()
	repo := inmemory.NewTransferRepository()

	transfer := domain.NewTransfer(
		domain.TransferKindToken, "user", "src", "dst", "fee", 1000,
	)
	transfer.Secondary = &domain.SecondaryLeg{Destination: "0xabc"}

	err := repo.AddTransfer(ctx, transfer)
	require.NoError(t, err)
	err = repo.AddTransfer(ctx, transfer)
	require.Error(t, err)

	_, err = repo.GetTransfer(ctx, "unknown")
	require.ErrorIs(t, err, domain.ErrTransferNotFound)

	stored, err := repo.GetTransfer(ctx, transfer.ID)
	require.NoError(t, err)
	stored.Secondary.Destination = "0xdef"

	stored, err = repo.GetTransfer(ctx, transfer.ID)
	require.NoError(t, err)
	require.Equal(t, "0xabc", stored.Secondary.Destination)

	err = repo.UpdateTransfer(
		ctx, transfer.ID,
		func(tr *domain.Transfer) (*domain.Transfer, error) {
			err := tr.Broadcast("txid", 100, 900, 0)
			return tr, err
		},
	)
	require.NoError(t, err)

	other := domain.NewTransfer(
		domain.TransferKindDoge, "", "src", "dst", "fee", 500,
	)
	err = repo.AddTransfer(ctx, other)
	require.NoError(t, err)

	all, err := repo.ListTransfers(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)

	broadcasted, err := repo.ListTransfers(ctx, domain.TransferStatusBroadcasted)
	require.NoError(t, err)
	require.Len(t, broadcasted, 1)
	require.Equal(t, transfer.ID, broadcasted[0].ID)
	require.Equal(t, "txid", broadcasted[0].TxID)

	pending, err := repo.ListTransfers(
		ctx, domain.TransferStatusPending, domain.TransferStatusFailed,
	)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	require.Equal(t, other.ID, pending[0].ID)
}
