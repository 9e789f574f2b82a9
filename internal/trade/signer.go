package trade

import (
	"context"
	"errors"
	"fmt"

	"github.com/btcsuite/btcd/txscript"
	"github.com/btcsuite/btcd/wire"

	"github.com/Klingon-tech/nametrade/internal/gateway"
	"github.com/Klingon-tech/nametrade/internal/log"
	"github.com/Klingon-tech/nametrade/pkg/crypto"
	"github.com/Klingon-tech/nametrade/pkg/tx"
	"github.com/Klingon-tech/nametrade/pkg/types"
)

// ErrKeyMismatch is returned when the wallet hands back a key that does not
// control the output it was requested for.
var ErrKeyMismatch = errors.New("key does not match output owner")

// OfferSigHash commits to every output but only to the input being signed,
// so the counterparty can still add inputs of its own.
const OfferSigHash = txscript.SigHashAll | txscript.SigHashAnyOneCanPay

// Signer signs the offer inputs the local wallet holds keys for.
type Signer struct {
	gw     gateway.Gateway
	params *types.Params
}

// NewSigner creates a signer that fetches keys through gw.
func NewSigner(gw gateway.Gateway, params *types.Params) *Signer {
	return &Signer{gw: gw, params: params}
}

// Sign adds signature scripts to every unsigned input of msg whose key the
// wallet holds and returns how many inputs it signed. Inputs that already
// carry a signature script are left alone, as are inputs the wallet has no
// key for.
func (s *Signer) Sign(ctx context.Context, msg *wire.MsgTx) (int, error) {
	signed := 0
	for i, in := range msg.TxIn {
		if len(in.SignatureScript) > 0 {
			continue
		}
		ref := types.ReferenceFromOutPoint(in.PreviousOutPoint)

		ok, err := s.signInput(ctx, msg, i, ref)
		if err != nil {
			return signed, fmt.Errorf("input %d (%s): %w", i, ref, err)
		}
		if ok {
			signed++
		}
	}
	return signed, nil
}

func (s *Signer) signInput(ctx context.Context, msg *wire.MsgTx, idx int, ref types.OutputReference) (bool, error) {
	owner, err := s.gw.GetOutputOwner(ctx, ref)
	if err != nil {
		return false, err
	}

	wif, err := s.gw.GetPrivateKey(ctx, owner)
	if errors.Is(err, gateway.ErrGatewayRejected) {
		log.Trade.Debug().
			Str("input", ref.String()).
			Str("owner", owner).
			Err(err).
			Msg("no wallet key, leaving input unsigned")
		return false, nil
	}
	if err != nil {
		return false, err
	}

	key, err := crypto.DecodeWIF(wif, s.params)
	if err != nil {
		return false, err
	}
	defer key.Zero()

	if got := key.Address(s.params).String(); got != owner {
		return false, fmt.Errorf("%w: key for %s, output paid to %s", ErrKeyMismatch, got, owner)
	}

	prevScript, err := s.prevOutputScript(ctx, ref)
	if err != nil {
		return false, err
	}

	sigScript, err := txscript.SignatureScript(msg, idx, prevScript, OfferSigHash, key.Key(), key.Compressed())
	if err != nil {
		return false, fmt.Errorf("sign: %w", err)
	}
	msg.TxIn[idx].SignatureScript = sigScript

	log.Trade.Info().
		Str("input", ref.String()).
		Str("owner", owner).
		Msg("signed input")
	return true, nil
}

func (s *Signer) prevOutputScript(ctx context.Context, ref types.OutputReference) ([]byte, error) {
	raw, err := s.gw.GetRawTransaction(ctx, ref.TxID)
	if err != nil {
		return nil, err
	}
	prev, err := tx.Deserialize(raw)
	if err != nil {
		return nil, err
	}
	if got := prev.TxHash(); got != ref.TxID {
		return nil, fmt.Errorf("node returned transaction %s for %s", got, ref.TxID)
	}
	if int(ref.Index) >= len(prev.TxOut) {
		return nil, fmt.Errorf("output %s: %w", ref, gateway.ErrNotFound)
	}
	return prev.TxOut[ref.Index].PkScript, nil
}
