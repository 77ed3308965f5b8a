package wallet

import (
	"bytes"
	"encoding/hex"
	"errors"
	"fmt"
	"math"

	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/txscript"
	"github.com/btcsuite/btcd/wire"
	"github.com/shopspring/decimal"
	"github.com/tdex-network/dogecustody/pkg/explorer"
	"github.com/tdex-network/dogecustody/pkg/mathutil"
)

const (
	// TxVersion is the version of every transaction crafted by the wallet
	TxVersion = 1
)

var (
	// DefaultOperatorFeeFraction is the share of every transfer paid to the
	// operator's fee address when not otherwise configured
	DefaultOperatorFeeFraction = decimal.New(1, -1)

	// ErrInvalidUnspent ...
	ErrInvalidUnspent = errors.New("unspent is not valid")
	// ErrAmountOutOfRange ...
	ErrAmountOutOfRange = errors.New("amount exceeds max transaction value")
)

// FeePolicy defines how the value of a transfer is distributed besides the
// payout to the beneficiary. OperatorFeeFraction is the share of the target
// amount paid to the operator's fee address, NetworkFee is a flat amount
// withheld from change and left to miners.
type FeePolicy struct {
	OperatorFeeFraction decimal.Decimal
	NetworkFee          uint64
}

// DefaultFeePolicy returns a 10% operator fee and no network fee
func DefaultFeePolicy() FeePolicy {
	return FeePolicy{
		OperatorFeeFraction: DefaultOperatorFeeFraction,
	}
}

func (p FeePolicy) validate() error {
	if p.OperatorFeeFraction.IsNegative() ||
		p.OperatorFeeFraction.GreaterThanOrEqual(decimal.New(1, 0)) {
		return ErrInvalidFeeFraction
	}
	if p.NetworkFee > math.MaxInt64 {
		return ErrAmountOutOfRange
	}
	return nil
}

// TxOutput is an output of a signed transaction
type TxOutput struct {
	Address string
	Value   uint64
}

// SignedTransaction is a finalized transaction, ready to be broadcasted
type SignedTransaction struct {
	raw          []byte
	txid         string
	outputs      []TxOutput
	feeAmount    uint64
	userAmount   uint64
	changeAmount uint64
}

// Bytes returns the serialized transaction
func (t *SignedTransaction) Bytes() []byte {
	return append([]byte{}, t.raw...)
}

// Hex returns the serialized transaction in hex format
func (t *SignedTransaction) Hex() string {
	return hex.EncodeToString(t.raw)
}

// TxID returns the hash of the transaction
func (t *SignedTransaction) TxID() string {
	return t.txid
}

// Outputs returns the list of outputs in the order they appear in the
// transaction
func (t *SignedTransaction) Outputs() []TxOutput {
	return append([]TxOutput{}, t.outputs...)
}

// FeeAmount returns the amount paid to the operator's fee address
func (t *SignedTransaction) FeeAmount() uint64 {
	return t.feeAmount
}

// UserAmount returns the amount paid to the destination address
func (t *SignedTransaction) UserAmount() uint64 {
	return t.userAmount
}

// ChangeAmount returns the amount sent back to the change address
func (t *SignedTransaction) ChangeAmount() uint64 {
	return t.changeAmount
}

// BuildTransactionOpts is the struct given to BuildTransaction method
type BuildTransactionOpts struct {
	Network            *chaincfg.Params
	Unspents           []explorer.Utxo
	TotalInput         uint64
	TargetAmount       uint64
	DestinationAddress string
	FeeAddress         string
	ChangeAddress      string
	SigningKey         *SigningKey
	FeePolicy          FeePolicy
}

func (o BuildTransactionOpts) validate() error {
	if o.Network == nil {
		return ErrNullNetwork
	}
	if len(o.Unspents) <= 0 {
		return ErrEmptyInputs
	}
	if o.TargetAmount == 0 {
		return ErrZeroTargetAmount
	}
	if o.TotalInput > math.MaxInt64 || o.TargetAmount > math.MaxInt64 {
		return ErrAmountOutOfRange
	}
	if err := o.FeePolicy.validate(); err != nil {
		return err
	}

	for _, addr := range []struct {
		name, value string
	}{
		{"destination", o.DestinationAddress},
		{"fee", o.FeeAddress},
		{"change", o.ChangeAddress},
	} {
		if _, err := DecodeAddress(addr.value, o.Network); err != nil {
			return fmt.Errorf("%s address: %w", addr.name, err)
		}
	}

	if err := o.SigningKey.validate(o.Network); err != nil {
		if errors.Is(err, ErrNetworkMismatch) {
			return err
		}
		return fmt.Errorf("%w: %s", ErrSigningKeyInvalid, err)
	}

	for i, u := range o.Unspents {
		if u == nil {
			return fmt.Errorf("%w: input %d is null", ErrInvalidUnspent, i)
		}
		if _, err := chainhash.NewHashFromStr(u.Hash()); err != nil {
			return fmt.Errorf("%w: input %d: %s", ErrInvalidUnspent, i, err)
		}
	}

	return nil
}

// BuildTransaction crafts and signs a transaction spending the given
// unspents. The target amount is split between the fee address and the
// destination address according to the fee policy, while what's left of the
// input total, net of the network fee, goes back to the change address.
// Outputs are added in this order and zero-value outputs are skipped.
// Signatures are deterministic, therefore the same options always produce
// the same transaction.
func BuildTransaction(opts BuildTransactionOpts) (*SignedTransaction, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}

	requiredAmount := opts.TargetAmount + opts.FeePolicy.NetworkFee
	if opts.TotalInput < requiredAmount {
		return nil, fmt.Errorf(
			"%w: total input %d does not cover target amount %d",
			ErrInsufficientFunds, opts.TotalInput, requiredAmount,
		)
	}

	feeAmount, userAmount := mathutil.SplitFee(
		opts.TargetAmount, opts.FeePolicy.OperatorFeeFraction,
	)
	changeAmount := opts.TotalInput - requiredAmount

	signerScript, err := PayToAddrScript(opts.SigningKey.Address(), opts.Network)
	if err != nil {
		return nil, err
	}

	tx := wire.NewMsgTx(TxVersion)
	prevOuts := txscript.NewMultiPrevOutFetcher(
		make(map[wire.OutPoint]*wire.TxOut, len(opts.Unspents)),
	)
	prevOutScripts := make([][]byte, 0, len(opts.Unspents))
	inputsAmount := uint64(0)

	for i, u := range opts.Unspents {
		script := u.Script()
		if len(script) <= 0 {
			script = signerScript
		}
		if !bytes.Equal(script, signerScript) {
			return nil, fmt.Errorf(
				"%w: input %d is not locked by address %s",
				ErrSigningKeyInvalid, i, opts.SigningKey.Address(),
			)
		}

		hash, _ := chainhash.NewHashFromStr(u.Hash())
		outpoint := wire.NewOutPoint(hash, u.Index())
		tx.AddTxIn(wire.NewTxIn(outpoint, nil, nil))
		prevOuts.AddPrevOut(*outpoint, wire.NewTxOut(int64(u.Value()), script))
		prevOutScripts = append(prevOutScripts, script)
		inputsAmount += u.Value()
	}

	outputs := make([]TxOutput, 0, 3)
	for _, out := range []TxOutput{
		{opts.FeeAddress, feeAmount},
		{opts.DestinationAddress, userAmount},
		{opts.ChangeAddress, changeAmount},
	} {
		if out.Value == 0 {
			continue
		}
		script, err := PayToAddrScript(out.Address, opts.Network)
		if err != nil {
			return nil, err
		}
		tx.AddTxOut(wire.NewTxOut(int64(out.Value), script))
		outputs = append(outputs, out)
	}

	outputsAmount := feeAmount + userAmount + changeAmount
	if inputsAmount < outputsAmount {
		return nil, fmt.Errorf(
			"%w: inputs amount %d is lower than outputs amount %d",
			ErrNegativeChange, inputsAmount, outputsAmount,
		)
	}

	for i := range tx.TxIn {
		if err := signInput(
			tx, i, prevOutScripts[i], opts.SigningKey, prevOuts,
		); err != nil {
			return nil, err
		}
	}

	var buf bytes.Buffer
	if err := tx.SerializeNoWitness(&buf); err != nil {
		return nil, err
	}

	return &SignedTransaction{
		raw:          buf.Bytes(),
		txid:         tx.TxHash().String(),
		outputs:      outputs,
		feeAmount:    feeAmount,
		userAmount:   userAmount,
		changeAmount: changeAmount,
	}, nil
}
