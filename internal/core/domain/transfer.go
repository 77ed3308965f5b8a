package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	// AssetDOGE ...
	AssetDOGE = "DOGE"
	// AssetUSDT ...
	AssetUSDT = "USDT"
	// AssetBRL ...
	AssetBRL = "BRL"
)

// IsSupportedAsset returns whether the given asset ticker can be converted
// from or to Dogecoin
func IsSupportedAsset(asset string) bool {
	switch asset {
	case AssetDOGE, AssetUSDT, AssetBRL:
		return true
	default:
		return false
	}
}

// TransferKind tells how a transfer has been requested
type TransferKind int

const (
	// TransferKindDoge is a plain Dogecoin transfer expressed in koinu
	TransferKindDoge TransferKind = iota
	// TransferKindQuoted is a Dogecoin transfer whose amount has been quoted in
	// another asset
	TransferKindQuoted
	// TransferKindToken is a cross-asset transfer made of a Dogecoin leg and an
	// ERC-20 token leg
	TransferKindToken
)

func (k TransferKind) String() string {
	switch k {
	case TransferKindDoge:
		return "doge"
	case TransferKindQuoted:
		return "quoted"
	case TransferKindToken:
		return "token"
	default:
		return "unknown"
	}
}

// TransferStatus represents the different statuses a transfer can assume
type TransferStatus int

const (
	// TransferStatusPending is the status of a transfer not yet broadcasted
	TransferStatusPending TransferStatus = iota
	// TransferStatusBroadcasted is the status of a cross-asset transfer whose
	// Dogecoin leg has been broadcasted, waiting for the token leg
	TransferStatusBroadcasted
	// TransferStatusCompleted is the status of a transfer whose every leg has
	// been sent
	TransferStatusCompleted
	// TransferStatusSecondaryFailed is the status of a cross-asset transfer
	// whose token leg failed after the Dogecoin leg was broadcasted
	TransferStatusSecondaryFailed
	// TransferStatusFailed is the status of a transfer that failed before
	// anything was broadcasted
	TransferStatusFailed
)

func (s TransferStatus) String() string {
	switch s {
	case TransferStatusPending:
		return "pending"
	case TransferStatusBroadcasted:
		return "broadcasted"
	case TransferStatusCompleted:
		return "completed"
	case TransferStatusSecondaryFailed:
		return "secondary_failed"
	case TransferStatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// ParseTransferStatus is the inverse of TransferStatus.String
func ParseTransferStatus(status string) (TransferStatus, bool) {
	for s := TransferStatusPending; s <= TransferStatusFailed; s++ {
		if s.String() == status {
			return s, true
		}
	}
	return -1, false
}

// TransferRequest holds the parameters of a Dogecoin transfer from a source
// address controlled by a signing key
type TransferRequest struct {
	// Amount is the target amount in koinu, split between fee and destination
	Amount             uint64
	SourceAddress      string
	DestinationAddress string
	// SigningKey is the WIF encoded private key of the source address
	SigningKey string
	FeeAddress string
}

// Validate performs the network independent checks of the request
func (r TransferRequest) Validate() error {
	if r.Amount == 0 {
		return ErrInvalidAmount
	}
	if len(r.SourceAddress) <= 0 {
		return ErrNullSourceAddress
	}
	if len(r.DestinationAddress) <= 0 {
		return ErrNullDestinationAddress
	}
	if len(r.FeeAddress) <= 0 {
		return ErrNullFeeAddress
	}
	return nil
}

// SecondaryLeg is the token payout of a cross-asset transfer
type SecondaryLeg struct {
	Asset       string
	Destination string
	Amount      decimal.Decimal
	TxID        string
	Error       string
}

// Transfer is the journal record of a transfer made by the custodian
type Transfer struct {
	ID                 string
	Kind               TransferKind
	UserID             string
	SourceAddress      string
	DestinationAddress string
	FeeAddress         string
	// Amount is the target amount in koinu
	Amount       uint64
	FeeAmount    uint64
	UserAmount   uint64
	ChangeAmount uint64
	// QuotedAmount and QuotedAsset are set for transfers requested in an
	// asset other than Dogecoin
	QuotedAmount decimal.Decimal
	QuotedAsset  string
	TxID         string
	Secondary    *SecondaryLeg
	Status       TransferStatus
	Error        string
	CreatedAt    int64
	UpdatedAt    int64
}

// NewTransfer returns a Pending transfer with a new id
func NewTransfer(
	kind TransferKind, userID, source, destination, feeAddress string,
	amount uint64,
) *Transfer {
	now := time.Now().Unix()
	return &Transfer{
		ID:                 uuid.New().String(),
		Kind:               kind,
		UserID:             userID,
		SourceAddress:      source,
		DestinationAddress: destination,
		FeeAddress:         feeAddress,
		Amount:             amount,
		Status:             TransferStatusPending,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
}

// IsPending ...
func (t *Transfer) IsPending() bool {
	return t.Status == TransferStatusPending
}

// IsSecondaryPending returns whether the token leg of a cross-asset transfer
// still has to be sent
func (t *Transfer) IsSecondaryPending() bool {
	return t.Secondary != nil &&
		(t.Status == TransferStatusBroadcasted ||
			t.Status == TransferStatusSecondaryFailed)
}

// Broadcast records the Dogecoin transaction of the transfer. Transfers
// without a token leg are completed straight away.
func (t *Transfer) Broadcast(
	txid string, feeAmount, userAmount, changeAmount uint64,
) error {
	if !t.IsPending() {
		return ErrInvalidTransferStatus
	}

	t.TxID = txid
	t.FeeAmount = feeAmount
	t.UserAmount = userAmount
	t.ChangeAmount = changeAmount
	t.Status = TransferStatusCompleted
	if t.Secondary != nil {
		t.Status = TransferStatusBroadcasted
	}
	t.touch()
	return nil
}

// Fail marks a Pending transfer as Failed
func (t *Transfer) Fail(err error) error {
	if !t.IsPending() {
		return ErrInvalidTransferStatus
	}
	t.Status = TransferStatusFailed
	if err != nil {
		t.Error = err.Error()
	}
	t.touch()
	return nil
}

// SendSecondary records the transaction of the token leg once broadcasted
// and before it is mined. The status of the transfer is left unchanged.
func (t *Transfer) SendSecondary(txid string) error {
	if !t.IsSecondaryPending() {
		return ErrInvalidTransferStatus
	}
	if len(txid) <= 0 {
		return ErrNullSecondaryTxID
	}
	t.Secondary.TxID = txid
	t.Secondary.Error = ""
	t.touch()
	return nil
}

// CompleteSecondary records the mined transaction of the token leg
func (t *Transfer) CompleteSecondary(txid string) error {
	if !t.IsSecondaryPending() {
		return ErrInvalidTransferStatus
	}
	t.Secondary.TxID = txid
	t.Secondary.Error = ""
	t.Status = TransferStatusCompleted
	t.touch()
	return nil
}

// FailSecondary records the failure of the token leg. The transaction of the
// leg, if any, is kept since it might still be mined.
func (t *Transfer) FailSecondary(err error) error {
	if !t.IsSecondaryPending() {
		return ErrInvalidTransferStatus
	}
	if err != nil {
		t.Secondary.Error = err.Error()
	}
	t.Status = TransferStatusSecondaryFailed
	t.touch()
	return nil
}

func (t *Transfer) touch() {
	t.UpdatedAt = time.Now().Unix()
}

// RevertSecondary records the failure of a token leg whose transaction has
// been mined but reverted. The transaction is discarded so that the leg can be
// sent again.
func (t *Transfer) RevertSecondary(err error) error {
	if !t.IsSecondaryPending() {
		return ErrInvalidTransferStatus
	}
	t.Secondary.TxID = ""
	return t.FailSecondary(err)
}
