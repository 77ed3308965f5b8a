package httpinterface

import (
	"errors"
	"net/http"

	"github.com/tdex-network/dogecustody/internal/core/application"
	"github.com/tdex-network/dogecustody/internal/core/domain"
	"github.com/tdex-network/dogecustody/internal/core/ports"
	"github.com/tdex-network/dogecustody/pkg/wallet"
)

var (
	// ErrPaymentsDisabled ...
	ErrPaymentsDisabled = errors.New("pix payments are disabled")
	// ErrInvalidStatusFilter ...
	ErrInvalidStatusFilter = errors.New("unknown transfer status")
	// ErrInvalidRequestBody ...
	ErrInvalidRequestBody = errors.New("invalid request body")
	// ErrWebhooksDisabled ...
	ErrWebhooksDisabled = errors.New("webhooks are disabled")
	// ErrUnknownTopic ...
	ErrUnknownTopic = errors.New("unknown webhook topic")
)

var (
	badRequestErrors = []error{
		ErrInvalidRequestBody,
		ErrInvalidStatusFilter,
		domain.ErrInvalidUserID,
		domain.ErrInvalidAmount,
		domain.ErrUnsupportedAsset,
		domain.ErrNullSourceAddress,
		domain.ErrNullDestinationAddress,
		domain.ErrNullFeeAddress,
		wallet.ErrInvalidAddress,
		wallet.ErrNetworkMismatch,
		wallet.ErrSigningKeyInvalid,
		wallet.ErrAmountOutOfRange,
		application.ErrInvalidTokenAddress,
		application.ErrNullPixKey,
		application.ErrInvalidRecipient,
		application.ErrInvalidCustomer,
		ErrUnknownTopic,
		ports.ErrMissingTopic,
		ports.ErrInvalidEndpoint,
	}
	unprocessableErrors = []error{
		domain.ErrInsufficientBalance,
		wallet.ErrInsufficientFunds,
	}
	notImplementedErrors = []error{
		application.ErrTokenTransfersDisabled,
		application.ErrNullConversionService,
		ErrPaymentsDisabled,
		ErrWebhooksDisabled,
	}
)

// httpStatus maps an error returned by the application services to the
// status code of the response. Partial transfers are handled by the caller.
func httpStatus(err error) int {
	switch {
	case isAny(err, badRequestErrors):
		return http.StatusBadRequest
	case isAny(err, unprocessableErrors):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrExternalServiceFailure):
		return http.StatusBadGateway
	case errors.Is(err, domain.ErrTransferNotFound),
		errors.Is(err, ports.ErrSubscriptionNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidTransferStatus):
		return http.StatusConflict
	case isAny(err, notImplementedErrors):
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}

func isAny(err error, targets []error) bool {
	for _, target := range targets {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
