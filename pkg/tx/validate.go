package tx

import (
	"errors"
	"fmt"

	"github.com/btcsuite/btcd/txscript"
	"github.com/btcsuite/btcd/wire"
)

// Validation errors.
var (
	ErrNoInputs           = errors.New("transaction has no inputs")
	ErrNoOutputs          = errors.New("transaction has no outputs")
	ErrDuplicateInput     = errors.New("duplicate input")
	ErrOutputOverflow     = errors.New("output values overflow")
	ErrNegativeOutput     = errors.New("output value is negative")
	ErrTooManyInputs      = errors.New("too many inputs")
	ErrTooManyOutputs     = errors.New("too many outputs")
	ErrScriptDataTooLarge = errors.New("script too large")
)

// Offers carry one funding input and one output; the limits leave room for
// a counterparty to add its own.
const (
	MaxOfferInputs  = 16
	MaxOfferOutputs = 16
)

// Validate checks the structure of an offer received from another party.
// It does not check that inputs exist or that signatures are valid.
func Validate(msg *wire.MsgTx) error {
	if len(msg.TxIn) == 0 {
		return ErrNoInputs
	}
	if len(msg.TxOut) == 0 {
		return ErrNoOutputs
	}
	if len(msg.TxIn) > MaxOfferInputs {
		return fmt.Errorf("%w: %d inputs, max %d", ErrTooManyInputs, len(msg.TxIn), MaxOfferInputs)
	}
	if len(msg.TxOut) > MaxOfferOutputs {
		return fmt.Errorf("%w: %d outputs, max %d", ErrTooManyOutputs, len(msg.TxOut), MaxOfferOutputs)
	}

	seen := make(map[wire.OutPoint]bool, len(msg.TxIn))
	for i, in := range msg.TxIn {
		if seen[in.PreviousOutPoint] {
			return fmt.Errorf("input %d: %w", i, ErrDuplicateInput)
		}
		seen[in.PreviousOutPoint] = true
	}

	for i, out := range msg.TxOut {
		if len(out.PkScript) > txscript.MaxScriptSize {
			return fmt.Errorf("output %d: %w: %d bytes", i, ErrScriptDataTooLarge, len(out.PkScript))
		}
	}

	if _, err := TotalOutputValue(msg); err != nil {
		return err
	}
	return nil
}
