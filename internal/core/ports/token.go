package ports

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
)

var (
	// ErrTokenTransferPending is returned when a token transfer has been sent
	// but is not mined yet. The transfer must not be sent again.
	ErrTokenTransferPending = errors.New("token transfer sent but not mined yet")
	// ErrTokenTransferReverted is returned when a token transfer has been
	// mined but reverted, hence nothing was paid out.
	ErrTokenTransferReverted = errors.New("token transfer reverted")
)

// TokenTransferer sends ERC-20 tokens from the operator's account
type TokenTransferer interface {
	// Asset returns the ticker of the token
	Asset() string
	ValidateAddress(address string) error
	// SendTransfer broadcasts a transfer of the given amount of tokens,
	// expressed in whole units, and returns its hash without waiting for it
	// to be mined.
	SendTransfer(
		ctx context.Context, to string, amount decimal.Decimal,
	) (string, error)
	// WaitForTransfer waits for the given transfer to be mined. It returns
	// ErrTokenTransferPending if that does not happen within the receipt
	// timeout and ErrTokenTransferReverted if the transfer reverted.
	WaitForTransfer(ctx context.Context, txid string) error
}
