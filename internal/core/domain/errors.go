package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrInsufficientBalance is returned when the balance of the source address
	// does not cover the requested amount
	ErrInsufficientBalance = errors.New("insufficient balance")
	// ErrExternalServiceFailure is returned when a chain, rate, token or
	// payment collaborator fails
	ErrExternalServiceFailure = errors.New("external service failure")
	// ErrInvalidUserID ...
	ErrInvalidUserID = errors.New("user id must not be empty")
	// ErrInvalidAmount ...
	ErrInvalidAmount = errors.New("amount must be greater than zero")
	// ErrUnsupportedAsset ...
	ErrUnsupportedAsset = errors.New("asset is not supported")
	// ErrTransferNotFound ...
	ErrTransferNotFound = errors.New("transfer not found")
	// ErrInvalidTransferStatus is returned when an operation is not allowed for
	// the current status of a transfer
	ErrInvalidTransferStatus = errors.New("operation not allowed for transfer status")
	// ErrNullSourceAddress ...
	ErrNullSourceAddress = errors.New("source address must not be null")
	// ErrNullDestinationAddress ...
	ErrNullDestinationAddress = errors.New("destination address must not be null")
	// ErrNullFeeAddress ...
	ErrNullFeeAddress = errors.New("fee address must not be null")
	// ErrNullSecondaryTxID ...
	ErrNullSecondaryTxID = errors.New("secondary txid must not be null")
)

// ExternalServiceError wraps an error returned by an external collaborator.
// It matches ErrExternalServiceFailure with errors.Is while keeping the
// original error reachable with errors.Unwrap.
type ExternalServiceError struct {
	Service string
	Err     error
}

// NewExternalServiceError wraps err as a failure of the named service. A nil
// error stays nil.
func NewExternalServiceError(service string, err error) error {
	if err == nil {
		return nil
	}
	return &ExternalServiceError{service, err}
}

func (e *ExternalServiceError) Error() string {
	return fmt.Sprintf("%s: %s: %s", ErrExternalServiceFailure, e.Service, e.Err)
}

func (e *ExternalServiceError) Unwrap() error {
	return e.Err
}

func (e *ExternalServiceError) Is(target error) bool {
	return target == ErrExternalServiceFailure
}

// PartialTransferError is returned by a cross-asset transfer whose Dogecoin
// leg has been broadcasted while the token leg failed. The funds moved by the
// first leg are not compensated.
type PartialTransferError struct {
	TransferID  string
	PrimaryTxID string
	Err         error
}

func (e *PartialTransferError) Error() string {
	return fmt.Sprintf(
		"transfer %s partially completed, primary tx %s broadcasted but "+
			"secondary leg failed: %s", e.TransferID, e.PrimaryTxID, e.Err,
	)
}

func (e *PartialTransferError) Unwrap() error {
	return e.Err
}
