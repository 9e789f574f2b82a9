// Package trade assembles name-trade offers from ledger lookups.
//
// A buy offer spends the buyer's funding output into a name_update that
// hands the name to the buyer; the current owner completes it by signing
// the name input. A sell offer pays the seller from a single input. Neither
// is valid until the counterparty adds and signs its side.
package trade

import (
	"context"
	"errors"
	"fmt"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/wire"

	"github.com/Klingon-tech/nametrade/internal/gateway"
	"github.com/Klingon-tech/nametrade/internal/log"
	"github.com/Klingon-tech/nametrade/pkg/script"
	"github.com/Klingon-tech/nametrade/pkg/tx"
	"github.com/Klingon-tech/nametrade/pkg/types"
)

// Trade errors.
var (
	ErrNameNotFound          = errors.New("name not found")
	ErrOwnershipLookupFailed = errors.New("ownership lookup failed")
	ErrInvalidAmount         = errors.New("amount must be positive")
	ErrMissingFunding        = errors.New("funding reference required")
)

// Builder builds unsigned offer transactions.
type Builder struct {
	gw     gateway.Gateway
	params *types.Params
}

// NewBuilder creates a builder that resolves names through gw.
func NewBuilder(gw gateway.Gateway, params *types.Params) *Builder {
	return &Builder{gw: gw, params: params}
}

// LastOutput finds the output currently holding name.
//
// Expired history entries are ignored. Of the remaining entries the one
// with the largest ExpiresIn wins; on a tie the first one listed is kept.
func (b *Builder) LastOutput(ctx context.Context, name string) (types.NameOwnership, error) {
	history, err := b.gw.GetTransactionHistory(ctx, name)
	if err != nil {
		return types.NameOwnership{}, fmt.Errorf("history of %q: %w", name, err)
	}

	best := -1
	for i := range history {
		if history[i].Expired {
			continue
		}
		if best < 0 || history[i].ExpiresIn > history[best].ExpiresIn {
			best = i
		}
	}
	if best < 0 {
		return types.NameOwnership{}, fmt.Errorf("%q: %w", name, ErrNameNotFound)
	}

	txid, err := chainhash.NewHashFromStr(history[best].TxID)
	if err != nil {
		return types.NameOwnership{}, fmt.Errorf("%q: bad txid %q: %w", name, history[best].TxID, ErrOwnershipLookupFailed)
	}

	decoded, err := b.gw.GetTransaction(ctx, *txid)
	if err != nil {
		return types.NameOwnership{}, fmt.Errorf("transaction %s: %w", txid, err)
	}

	for _, out := range decoded.Vout {
		op := out.ScriptPubKey.NameOp
		if op == nil || op.Name != name {
			continue
		}
		ownership := types.NameOwnership{
			Reference: types.OutputReference{TxID: *txid, Index: out.N},
			Amount:    out.Value,
		}
		log.Trade.Debug().
			Str("name", name).
			Str("output", ownership.Reference.String()).
			Str("amount", ownership.Amount.String()).
			Msg("resolved name output")
		return ownership, nil
	}

	return types.NameOwnership{}, fmt.Errorf("%q: transaction %s has no operation for the name: %w",
		name, txid, ErrOwnershipLookupFailed)
}

// BuildBuyOffer builds a transaction spending funding into a name_update
// that assigns name and data to destination. The output carries the same
// value as the name's current output.
func (b *Builder) BuildBuyOffer(ctx context.Context, funding types.OutputReference, name, data string, destination types.Address) (*wire.MsgTx, error) {
	if funding.IsZero() {
		return nil, ErrMissingFunding
	}

	last, err := b.LastOutput(ctx, name)
	if err != nil {
		return nil, err
	}

	pkScript, err := script.EncodeNameUpdate(types.NameClaim{
		Name:    []byte(name),
		Data:    []byte(data),
		Address: destination,
	})
	if err != nil {
		return nil, fmt.Errorf("encode claim: %w", err)
	}

	msg := tx.NewBuilder().
		AddInput(funding).
		AddOutput(last.Amount, pkScript).
		Build()
	if err := tx.Validate(msg); err != nil {
		return nil, fmt.Errorf("buy offer: %w", err)
	}

	log.Trade.Info().
		Str("name", name).
		Str("funding", funding.String()).
		Str("value", last.Amount.String()).
		Msg("built buy offer")
	return msg, nil
}

// BuildSellOffer builds a transaction spending funding into a single
// payment of amount to payout.
func (b *Builder) BuildSellOffer(_ context.Context, funding types.OutputReference, payout types.Address, amount types.Amount) (*wire.MsgTx, error) {
	if funding.IsZero() {
		return nil, ErrMissingFunding
	}
	if amount <= 0 {
		return nil, fmt.Errorf("%s: %w", amount, ErrInvalidAmount)
	}

	pkScript, err := script.PayToAddress(payout)
	if err != nil {
		return nil, fmt.Errorf("payout script: %w", err)
	}

	msg := tx.NewBuilder().
		AddInput(funding).
		AddOutput(amount, pkScript).
		Build()
	if err := tx.Validate(msg); err != nil {
		return nil, fmt.Errorf("sell offer: %w", err)
	}

	log.Trade.Info().
		Str("funding", funding.String()).
		Str("payout", payout.String()).
		Str("amount", amount.String()).
		Msg("built sell offer")
	return msg, nil
}
