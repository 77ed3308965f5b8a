package application

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
	"github.com/tdex-network/dogecustody/internal/core/domain"
	"github.com/tdex-network/dogecustody/internal/core/ports"
	"github.com/tdex-network/dogecustody/pkg/explorer"
	"github.com/tdex-network/dogecustody/pkg/mathutil"
	"github.com/tdex-network/dogecustody/pkg/wallet"
)

const transferLockPrefix = "transfer:"

// TransferService moves the funds held by the custodian
type TransferService interface {
	// Transfer sends the requested amount from the source address, split
	// between the fee address and the destination, and returns the hash of the
	// broadcasted transaction.
	Transfer(ctx context.Context, req domain.TransferRequest) (string, error)
	// TransferFromPrimary sends from the operator's wallet.
	TransferFromPrimary(
		ctx context.Context, destination string, amount uint64,
	) (*domain.Transfer, error)
	// TransferFromUser sends from the deposit address of the given user.
	TransferFromUser(
		ctx context.Context, userID, destination string, amount uint64,
	) (*domain.Transfer, error)
	// TransferQuoted sends from the operator's wallet the Dogecoin equivalent
	// of an amount expressed in another asset.
	TransferQuoted(
		ctx context.Context, destination string, amount decimal.Decimal,
		asset string,
	) (*domain.Transfer, error)
	// TransferToToken moves the given amount from the user's deposit address to
	// the operator's wallet and pays out the token equivalent of the user's
	// share to the given token address. A failure of the token leg after the
	// Dogecoin leg is broadcasted results in a *domain.PartialTransferError.
	TransferToToken(
		ctx context.Context, userID, tokenAddress string, amount uint64,
	) (*domain.Transfer, error)
	// CompleteSecondaryLeg retries the token leg of a partially completed
	// cross-asset transfer.
	CompleteSecondaryLeg(
		ctx context.Context, transferID string,
	) (*domain.Transfer, error)
	GetTransfer(ctx context.Context, transferID string) (*domain.Transfer, error)
	ListTransfers(
		ctx context.Context, statuses ...domain.TransferStatus,
	) ([]*domain.Transfer, error)
	// GetBalance returns the confirmed balance in koinu of the given address.
	GetBalance(ctx context.Context, address string) (int64, error)
}

// TransferServiceOpts is the struct given to NewTransferService. Conversion
// is required by quoted and cross-asset transfers, Token by the latter only.
// If PubSub is set, every status change of a transfer is published for the
// topic returned by TransferTopic.
type TransferServiceOpts struct {
	WalletContext *WalletContext
	Explorer      explorer.Service
	Locker        ports.AddressLocker
	Repository    domain.TransferRepository
	Conversion    ConversionService
	Token         ports.TokenTransferer
	PubSub        ports.PubSub
}

func (o TransferServiceOpts) validate() error {
	if o.WalletContext == nil {
		return ErrNullWalletContext
	}
	if o.Explorer == nil {
		return ErrNullExplorer
	}
	if o.Locker == nil {
		return ErrNullLocker
	}
	if o.Repository == nil {
		return ErrNullRepository
	}
	return nil
}

type transferService struct {
	walletCtx  *WalletContext
	explorer   explorer.Service
	locker     ports.AddressLocker
	repository domain.TransferRepository
	conversion ConversionService
	token      ports.TokenTransferer
	pubsub     ports.PubSub
}

// NewTransferService returns the transfer orchestrator
func NewTransferService(opts TransferServiceOpts) (TransferService, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	return &transferService{
		walletCtx:  opts.WalletContext,
		explorer:   opts.Explorer,
		locker:     opts.Locker,
		repository: opts.Repository,
		conversion: opts.Conversion,
		token:      opts.Token,
		pubsub:     opts.PubSub,
	}, nil
}

func (s *transferService) Transfer(
	ctx context.Context, req domain.TransferRequest,
) (string, error) {
	transfer := domain.NewTransfer(
		domain.TransferKindDoge, "", req.SourceAddress, req.DestinationAddress,
		req.FeeAddress, req.Amount,
	)
	if err := s.send(ctx, req, transfer); err != nil {
		return "", err
	}
	return transfer.TxID, nil
}

func (s *transferService) TransferFromPrimary(
	ctx context.Context, destination string, amount uint64,
) (*domain.Transfer, error) {
	req, err := s.requestForKey(s.walletCtx.primaryKey(), destination, amount)
	if err != nil {
		return nil, err
	}

	transfer := domain.NewTransfer(
		domain.TransferKindDoge, "", req.SourceAddress, destination,
		req.FeeAddress, amount,
	)
	if err := s.send(ctx, req, transfer); err != nil {
		return nil, err
	}
	return transfer, nil
}

func (s *transferService) TransferFromUser(
	ctx context.Context, userID, destination string, amount uint64,
) (*domain.Transfer, error) {
	key, err := s.userKey(userID)
	if err != nil {
		return nil, err
	}
	req, err := s.requestForKey(key, destination, amount)
	if err != nil {
		return nil, err
	}

	transfer := domain.NewTransfer(
		domain.TransferKindDoge, userID, req.SourceAddress, destination,
		req.FeeAddress, amount,
	)
	if err := s.send(ctx, req, transfer); err != nil {
		return nil, err
	}
	return transfer, nil
}

func (s *transferService) TransferQuoted(
	ctx context.Context, destination string, amount decimal.Decimal,
	asset string,
) (*domain.Transfer, error) {
	if s.conversion == nil {
		return nil, ErrNullConversionService
	}
	if err := validateAssets(asset); err != nil {
		return nil, err
	}
	if !amount.IsPositive() {
		return nil, domain.ErrInvalidAmount
	}

	dogeAmount, err := s.conversion.Convert(ctx, amount, asset, domain.AssetDOGE)
	if err != nil {
		return nil, err
	}
	koinu := mathutil.ToUnits(dogeAmount)
	if koinu == 0 {
		return nil, fmt.Errorf(
			"%w: %s %s is worth less than 1 koinu",
			domain.ErrInvalidAmount, amount, asset,
		)
	}

	req, err := s.requestForKey(s.walletCtx.primaryKey(), destination, koinu)
	if err != nil {
		return nil, err
	}

	transfer := domain.NewTransfer(
		domain.TransferKindQuoted, "", req.SourceAddress, destination,
		req.FeeAddress, koinu,
	)
	transfer.QuotedAmount = amount
	transfer.QuotedAsset = asset
	if err := s.send(ctx, req, transfer); err != nil {
		return nil, err
	}
	return transfer, nil
}

func (s *transferService) TransferToToken(
	ctx context.Context, userID, tokenAddress string, amount uint64,
) (*domain.Transfer, error) {
	if s.token == nil {
		return nil, ErrTokenTransfersDisabled
	}
	if s.conversion == nil {
		return nil, ErrNullConversionService
	}
	if amount == 0 {
		return nil, domain.ErrInvalidAmount
	}
	if err := s.token.ValidateAddress(tokenAddress); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidTokenAddress, err)
	}

	key, err := s.userKey(userID)
	if err != nil {
		return nil, err
	}

	// The token payout is quoted on the share of the user, known in advance
	// since the operator fee only depends on the target amount.
	_, userShare := mathutil.SplitFee(
		amount, s.walletCtx.FeePolicy().OperatorFeeFraction,
	)
	tokenAmount, err := s.conversion.Convert(
		ctx, mathutil.FromUnits(userShare), domain.AssetDOGE, s.token.Asset(),
	)
	if err != nil {
		return nil, err
	}
	if !tokenAmount.IsPositive() {
		return nil, domain.ErrInvalidAmount
	}

	req, err := s.requestForKey(key, s.walletCtx.PrimaryAddress(), amount)
	if err != nil {
		return nil, err
	}

	transfer := domain.NewTransfer(
		domain.TransferKindToken, userID, req.SourceAddress,
		req.DestinationAddress, req.FeeAddress, amount,
	)
	transfer.Secondary = &domain.SecondaryLeg{
		Asset:       s.token.Asset(),
		Destination: tokenAddress,
		Amount:      tokenAmount,
	}

	unlock, err := s.locker.Lock(ctx, transferLockPrefix+transfer.ID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	if err := s.send(ctx, req, transfer); err != nil {
		return nil, err
	}
	return s.sendSecondaryLeg(ctx, transfer)
}

func (s *transferService) CompleteSecondaryLeg(
	ctx context.Context, transferID string,
) (*domain.Transfer, error) {
	if s.token == nil {
		return nil, ErrTokenTransfersDisabled
	}

	unlock, err := s.locker.Lock(ctx, transferLockPrefix+transferID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	transfer, err := s.repository.GetTransfer(ctx, transferID)
	if err != nil {
		return nil, err
	}
	if !transfer.IsSecondaryPending() {
		return nil, fmt.Errorf(
			"%w: transfer %s is %s",
			domain.ErrInvalidTransferStatus, transfer.ID, transfer.Status,
		)
	}
	if transfer.Secondary.Asset != s.token.Asset() {
		return nil, fmt.Errorf(
			"%w: %s", domain.ErrUnsupportedAsset, transfer.Secondary.Asset,
		)
	}

	return s.sendSecondaryLeg(ctx, transfer)
}

func (s *transferService) GetTransfer(
	ctx context.Context, transferID string,
) (*domain.Transfer, error) {
	return s.repository.GetTransfer(ctx, transferID)
}

func (s *transferService) ListTransfers(
	ctx context.Context, statuses ...domain.TransferStatus,
) ([]*domain.Transfer, error) {
	return s.repository.ListTransfers(ctx, statuses...)
}

func (s *transferService) GetBalance(
	ctx context.Context, address string,
) (int64, error) {
	if _, err := wallet.DecodeAddress(address, s.walletCtx.Network()); err != nil {
		return 0, err
	}

	balance, err := s.explorer.GetBalance(ctx, address)
	if err != nil {
		return 0, domain.NewExternalServiceError("explorer", err)
	}
	return balance, nil
}

// send validates the request, adds the transfer to the journal and then
// broadcasts the transaction paying it. The outcome is recorded in the
// journal in any case.
func (s *transferService) send(
	ctx context.Context, req domain.TransferRequest, transfer *domain.Transfer,
) error {
	signingKey, err := s.validateRequest(req)
	if err != nil {
		return err
	}

	if err := s.repository.AddTransfer(ctx, transfer); err != nil {
		return err
	}

	tx, err := s.broadcast(ctx, req, signingKey)
	if err != nil {
		s.journal(ctx, transfer, func(t *domain.Transfer) error {
			return t.Fail(err)
		})
		return err
	}

	s.journal(ctx, transfer, func(t *domain.Transfer) error {
		return t.Broadcast(
			tx.TxID(), tx.FeeAmount(), tx.UserAmount(), tx.ChangeAmount(),
		)
	})

	log.WithFields(log.Fields{
		"transfer_id": transfer.ID,
		"txid":        transfer.TxID,
		"source":      transfer.SourceAddress,
		"amount":      transfer.Amount,
		"fee":         transfer.FeeAmount,
	}).Info("transfer broadcasted")
	return nil
}

func (s *transferService) broadcast(
	ctx context.Context, req domain.TransferRequest,
	signingKey *wallet.SigningKey,
) (*wallet.SignedTransaction, error) {
	// Balance check, selection, signing and broadcast must not interleave with
	// another transfer spending from the same address.
	unlock, err := s.locker.Lock(ctx, req.SourceAddress)
	if err != nil {
		return nil, err
	}
	defer unlock()

	balance, err := s.explorer.GetBalance(ctx, req.SourceAddress)
	if err != nil {
		return nil, domain.NewExternalServiceError("explorer", err)
	}
	if err := domain.EnsureSufficientBalance(balance, req.Amount); err != nil {
		return nil, err
	}

	utxos, err := s.explorer.GetUnspents(ctx, req.SourceAddress)
	if err != nil {
		return nil, domain.NewExternalServiceError("explorer", err)
	}

	feePolicy := s.walletCtx.FeePolicy()
	selectedUtxos, totalInput := explorer.SelectUnspents(
		explorer.ConfirmedUnspents(utxos), req.Amount+feePolicy.NetworkFee,
	)
	if len(selectedUtxos) <= 0 {
		return nil, fmt.Errorf(
			"%w: no spendable coins for address %s",
			wallet.ErrInsufficientFunds, req.SourceAddress,
		)
	}

	tx, err := wallet.BuildTransaction(wallet.BuildTransactionOpts{
		Network:            s.walletCtx.Network(),
		Unspents:           selectedUtxos,
		TotalInput:         totalInput,
		TargetAmount:       req.Amount,
		DestinationAddress: req.DestinationAddress,
		FeeAddress:         req.FeeAddress,
		ChangeAddress:      req.SourceAddress,
		SigningKey:         signingKey,
		FeePolicy:          feePolicy,
	})
	if err != nil {
		if errors.Is(err, wallet.ErrNegativeChange) {
			log.WithError(err).WithField("source", req.SourceAddress).Error(
				"coin selection returned inconsistent total",
			)
		}
		return nil, err
	}

	txid, err := s.explorer.BroadcastTransaction(ctx, tx.Hex())
	if err != nil {
		return nil, domain.NewExternalServiceError("explorer", err)
	}
	if txid != tx.TxID() {
		log.WithFields(log.Fields{
			"expected": tx.TxID(),
			"got":      txid,
		}).Warn("explorer returned unexpected txid for broadcasted transaction")
	}

	return tx, nil
}

// sendSecondaryLeg pays out the token leg of a cross-asset transfer whose
// Dogecoin leg has already been broadcasted. A leg whose transaction is
// already known is never sent again, only waited for.
func (s *transferService) sendSecondaryLeg(
	ctx context.Context, transfer *domain.Transfer,
) (*domain.Transfer, error) {
	leg := transfer.Secondary
	if len(leg.TxID) <= 0 {
		txid, err := s.token.SendTransfer(ctx, leg.Destination, leg.Amount)
		if err != nil {
			return s.failSecondaryLeg(ctx, transfer, err)
		}
		s.journal(ctx, transfer, func(t *domain.Transfer) error {
			return t.SendSecondary(txid)
		})
	}

	// TODO: resend with the same nonce if the transaction is dropped from the
	// mempool, now it stays pending until the operator acts.
	if err := s.token.WaitForTransfer(ctx, leg.TxID); err != nil {
		return s.failSecondaryLeg(ctx, transfer, err)
	}

	txid := leg.TxID
	s.journal(ctx, transfer, func(t *domain.Transfer) error {
		return t.CompleteSecondary(txid)
	})

	log.WithFields(log.Fields{
		"transfer_id": transfer.ID,
		"asset":       leg.Asset,
		"amount":      leg.Amount.String(),
		"txid":        txid,
	}).Info("secondary leg of transfer mined")
	return transfer, nil
}

func (s *transferService) failSecondaryLeg(
	ctx context.Context, transfer *domain.Transfer, err error,
) (*domain.Transfer, error) {
	err = domain.NewExternalServiceError("token", err)
	s.journal(ctx, transfer, func(t *domain.Transfer) error {
		if errors.Is(err, ports.ErrTokenTransferReverted) {
			return t.RevertSecondary(err)
		}
		return t.FailSecondary(err)
	})

	log.WithError(err).WithFields(log.Fields{
		"transfer_id":    transfer.ID,
		"txid":           transfer.TxID,
		"secondary_txid": transfer.Secondary.TxID,
	}).Warn("secondary leg of transfer failed")

	return transfer, &domain.PartialTransferError{
		TransferID:  transfer.ID,
		PrimaryTxID: transfer.TxID,
		Err:         err,
	}
}

// journal applies the given transition to the transfer and persists it. The
// funds may have moved already at this point, therefore a failure is logged
// and not returned. Subscribers are notified only of status changes.
func (s *transferService) journal(
	ctx context.Context, transfer *domain.Transfer,
	transition func(t *domain.Transfer) error,
) {
	status := transfer.Status
	if err := transition(transfer); err != nil {
		log.WithError(err).WithField("transfer_id", transfer.ID).Warn(
			"failed to update transfer status",
		)
		return
	}

	if err := s.repository.UpdateTransfer(
		ctx, transfer.ID,
		func(_ *domain.Transfer) (*domain.Transfer, error) {
			return transfer, nil
		},
	); err != nil {
		log.WithError(err).WithField("transfer_id", transfer.ID).Warn(
			"failed to persist transfer",
		)
	}

	if transfer.Status != status {
		s.publish(transfer)
	}
}

// publish notifies the subscribers of the status of the transfer in
// background.
func (s *transferService) publish(transfer *domain.Transfer) {
	if s.pubsub == nil {
		return
	}

	topic := TransferTopic(transfer.Status)
	message, err := newTransferEvent(topic, transfer)
	if err != nil {
		log.WithError(err).WithField("transfer_id", transfer.ID).Warn(
			"failed to serialize transfer event",
		)
		return
	}

	go func() {
		if err := s.pubsub.Publish(
			context.Background(), topic, message,
		); err != nil {
			log.WithError(err).WithFields(log.Fields{
				"transfer_id": transfer.ID,
				"topic":       topic,
			}).Warn("failed to publish transfer event")
		}
	}()
}

func (s *transferService) validateRequest(
	req domain.TransferRequest,
) (*wallet.SigningKey, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	net := s.walletCtx.Network()
	for _, addr := range []struct {
		name, value string
	}{
		{"source", req.SourceAddress},
		{"destination", req.DestinationAddress},
		{"fee", req.FeeAddress},
	} {
		if _, err := wallet.DecodeAddress(addr.value, net); err != nil {
			return nil, fmt.Errorf("%s address: %w", addr.name, err)
		}
	}

	signingKey, err := wallet.ParseSigningKey(req.SigningKey, net)
	if err != nil {
		return nil, err
	}
	if signingKey.Address() != req.SourceAddress {
		return nil, fmt.Errorf(
			"%w: key does not control source address %s",
			wallet.ErrSigningKeyInvalid, req.SourceAddress,
		)
	}
	return signingKey, nil
}

func (s *transferService) requestForKey(
	key *wallet.DerivedKey, destination string, amount uint64,
) (domain.TransferRequest, error) {
	wif, err := key.WIF()
	if err != nil {
		return domain.TransferRequest{}, err
	}
	return domain.TransferRequest{
		Amount:             amount,
		SourceAddress:      key.Address,
		DestinationAddress: destination,
		SigningKey:         wif,
		FeeAddress:         s.walletCtx.FeeAddress(),
	}, nil
}

func (s *transferService) userKey(userID string) (*wallet.DerivedKey, error) {
	index, err := userIndex(userID)
	if err != nil {
		return nil, err
	}
	return s.walletCtx.deriveKey(index)
}
