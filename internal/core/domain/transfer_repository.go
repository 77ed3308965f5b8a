package domain

import "context"

// TransferRepository is the abstraction for any kind of database intended to
// persist the transfer journal.
type TransferRepository interface {
	// AddTransfer stores a new transfer.
	AddTransfer(ctx context.Context, transfer *Transfer) error
	// GetTransfer returns the transfer with the given id or ErrTransferNotFound.
	GetTransfer(ctx context.Context, id string) (*Transfer, error)
	// ListTransfers returns all the transfers, if no status is given, or those
	// in one of the given statuses, oldest first.
	ListTransfers(
		ctx context.Context, statuses ...TransferStatus,
	) ([]*Transfer, error)
	// UpdateTransfer allows to commit multiple changes to the same transfer in
	// a transactional way.
	UpdateTransfer(
		ctx context.Context, id string,
		updateFn func(t *Transfer) (*Transfer, error),
	) error
}
