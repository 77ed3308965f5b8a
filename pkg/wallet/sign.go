package wallet

import (
	"fmt"

	"github.com/btcsuite/btcd/txscript"
	"github.com/btcsuite/btcd/wire"
)

func signInput(
	tx *wire.MsgTx,
	inIndex int,
	prevOutScript []byte,
	key *SigningKey,
	prevOuts *txscript.MultiPrevOutFetcher,
) error {
	sigScript, err := txscript.SignatureScript(
		tx, inIndex, prevOutScript, txscript.SigHashAll, key.privateKey, true,
	)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrSigningKeyInvalid, err)
	}
	tx.TxIn[inIndex].SignatureScript = sigScript

	return verifyInput(tx, inIndex, prevOuts)
}

func verifyInput(
	tx *wire.MsgTx, inIndex int, prevOuts *txscript.MultiPrevOutFetcher,
) error {
	prevOut := prevOuts.FetchPrevOutput(tx.TxIn[inIndex].PreviousOutPoint)
	if prevOut == nil {
		return fmt.Errorf("previous output not found for input %d", inIndex)
	}

	vm, err := txscript.NewEngine(
		prevOut.PkScript, tx, inIndex, txscript.StandardVerifyFlags, nil,
		txscript.NewTxSigHashes(tx, prevOuts), prevOut.Value, prevOuts,
	)
	if err != nil {
		return err
	}
	if err := vm.Execute(); err != nil {
		return fmt.Errorf(
			"%w: signature verification failed for input %d: %s",
			ErrSigningKeyInvalid, inIndex, err,
		)
	}
	return nil
}
