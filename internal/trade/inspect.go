package trade

import (
	"fmt"
	"strings"

	"github.com/btcsuite/btcd/wire"

	"github.com/Klingon-tech/nametrade/pkg/script"
	"github.com/Klingon-tech/nametrade/pkg/tx"
	"github.com/Klingon-tech/nametrade/pkg/types"
)

// Output kinds reported by Inspect.
const (
	OutputNameUpdate = "name_update"
	OutputPayment    = "payment"
	OutputUnknown    = "unknown"
)

// Summary describes an offer for display.
type Summary struct {
	TxID        string
	Version     int32
	NameTx      bool
	Inputs      []InputSummary
	Outputs     []OutputSummary
	TotalOutput types.Amount
}

// InputSummary describes one input.
type InputSummary struct {
	Reference types.OutputReference
	Signed    bool
}

// OutputSummary describes one output. Claim is set for name updates and
// Address for plain payments.
type OutputSummary struct {
	Value   types.Amount
	Kind    string
	Claim   *types.NameClaim
	Address string
}

// Inspect decodes msg for display. Unrecognized scripts are reported as
// OutputUnknown rather than failing.
func Inspect(msg *wire.MsgTx, params *types.Params) Summary {
	s := Summary{
		TxID:    msg.TxHash().String(),
		Version: msg.Version,
		NameTx:  tx.IsNameTx(msg),
	}

	for _, in := range msg.TxIn {
		s.Inputs = append(s.Inputs, InputSummary{
			Reference: types.ReferenceFromOutPoint(in.PreviousOutPoint),
			Signed:    len(in.SignatureScript) > 0,
		})
	}

	for _, out := range msg.TxOut {
		o := OutputSummary{Value: types.Amount(out.Value), Kind: OutputUnknown}
		if claim, err := script.DecodeNameUpdate(out.PkScript, params); err == nil {
			o.Kind = OutputNameUpdate
			o.Claim = &claim
			o.Address = claim.Address.String()
		} else if addr, err := script.ExtractPayToAddress(out.PkScript, params); err == nil {
			o.Kind = OutputPayment
			o.Address = addr.String()
		}
		s.Outputs = append(s.Outputs, o)
	}

	if total, err := tx.TotalOutputValue(msg); err == nil {
		s.TotalOutput = types.Amount(total)
	}
	return s
}

// FullySigned reports whether every input carries a signature script.
func (s Summary) FullySigned() bool {
	for _, in := range s.Inputs {
		if !in.Signed {
			return false
		}
	}
	return len(s.Inputs) > 0
}

// String renders the summary as human-readable lines.
func (s Summary) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Transaction: %s\n", s.TxID)
	fmt.Fprintf(&b, "Version:     %#x", s.Version)
	if s.NameTx {
		b.WriteString(" (name operation)")
	}
	b.WriteString("\n")

	fmt.Fprintf(&b, "Inputs:      %d\n", len(s.Inputs))
	for i, in := range s.Inputs {
		state := "unsigned"
		if in.Signed {
			state = "signed"
		}
		fmt.Fprintf(&b, "  [%d] %s (%s)\n", i, in.Reference, state)
	}

	fmt.Fprintf(&b, "Outputs:     %d\n", len(s.Outputs))
	for i, out := range s.Outputs {
		switch out.Kind {
		case OutputNameUpdate:
			fmt.Fprintf(&b, "  [%d] %s name_update %q = %q to %s\n",
				i, out.Value, out.Claim.Name, out.Claim.Data, out.Address)
		case OutputPayment:
			fmt.Fprintf(&b, "  [%d] %s to %s\n", i, out.Value, out.Address)
		default:
			fmt.Fprintf(&b, "  [%d] %s unrecognized script\n", i, out.Value)
		}
	}
	fmt.Fprintf(&b, "Total:       %s\n", s.TotalOutput)
	return b.String()
}
