package application

import "errors"

var (
	// ErrNullWallet ...
	ErrNullWallet = errors.New("wallet must not be null")
	// ErrNullSecretStore ...
	ErrNullSecretStore = errors.New("missing secret store")
	// ErrNullWalletContext ...
	ErrNullWalletContext = errors.New("missing wallet context")
	// ErrNullExplorer ...
	ErrNullExplorer = errors.New("missing explorer service")
	// ErrNullLocker ...
	ErrNullLocker = errors.New("missing address locker")
	// ErrNullRepository ...
	ErrNullRepository = errors.New("missing transfer repository")
	// ErrNullRateProvider ...
	ErrNullRateProvider = errors.New("missing rate provider")
	// ErrNullConversionService ...
	ErrNullConversionService = errors.New("missing conversion service")
	// ErrNullPaymentRail ...
	ErrNullPaymentRail = errors.New("missing payment rail")
	// ErrTokenTransfersDisabled is returned by cross-asset transfers when no
	// token transferer is configured
	ErrTokenTransfersDisabled = errors.New("token transfers are disabled")
	// ErrInvalidTokenAddress ...
	ErrInvalidTokenAddress = errors.New("token address is not valid")
	// ErrNullPixKey ...
	ErrNullPixKey = errors.New("pix key must not be null")
	// ErrInvalidRecipient ...
	ErrInvalidRecipient = errors.New("recipient name and document number must not be null")
	// ErrInvalidCustomer ...
	ErrInvalidCustomer = errors.New("customer name and document number must not be null")
)
