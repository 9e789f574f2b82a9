// Package script encodes and decodes the output scripts used by name trade
// offers: the name-update claim and the plain pay-to-pubkey-hash payout.
package script

import (
	"errors"
	"fmt"

	"github.com/Klingon-tech/nametrade/pkg/types"
	"github.com/btcsuite/btcd/txscript"
)

// OpNameUpdate is the opcode that introduces a name-update output. Namecoin
// reuses OP_3 for it.
const OpNameUpdate = txscript.OP_3

// nameUpdateElements is the number of tokens in a name-update script.
const nameUpdateElements = 9

var (
	// ErrMalformedScript is returned when a script is not exactly a canonical
	// name-update (or pay-to-pubkey-hash) script.
	ErrMalformedScript = errors.New("malformed script")

	// ErrInvalidAddress is returned when an address cannot be converted to or
	// from its embedded public-key hash.
	ErrInvalidAddress = fmt.Errorf("script: %w", types.ErrInvalidAddress)
)

// EncodeNameUpdate builds the output script that assigns claim.Name (with
// claim.Data as its value) to claim.Address:
//
//	OP_NAME_UPDATE <name> <data> OP_2DROP OP_DROP
//	OP_DUP OP_HASH160 <pubkeyhash> OP_EQUALVERIFY OP_CHECKSIG
func EncodeNameUpdate(claim types.NameClaim) ([]byte, error) {
	if claim.Address.IsZero() {
		return nil, fmt.Errorf("%w: empty address", ErrInvalidAddress)
	}
	name, err := pushData(claim.Name)
	if err != nil {
		return nil, err
	}
	data, err := pushData(claim.Data)
	if err != nil {
		return nil, err
	}

	b := txscript.NewScriptBuilder()
	b.AddOp(OpNameUpdate)
	b.AddOps(name)
	b.AddOps(data)
	b.AddOp(txscript.OP_2DROP)
	b.AddOp(txscript.OP_DROP)
	addPayToPubKeyHash(b, claim.Address.Hash160())

	s, err := b.Script()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedScript, err)
	}
	return s, nil
}

// DecodeNameUpdate extracts the claim from a name-update script. The result
// is re-encoded and compared with the input, so only scripts that
// EncodeNameUpdate could have produced are accepted.
func DecodeNameUpdate(script []byte, params *types.Params) (types.NameClaim, error) {
	tokens, err := tokenize(script)
	if err != nil {
		return types.NameClaim{}, err
	}
	if len(tokens) != nameUpdateElements {
		return types.NameClaim{}, fmt.Errorf("%w: %d elements, want %d", ErrMalformedScript, len(tokens), nameUpdateElements)
	}
	if tokens[0].op != OpNameUpdate {
		return types.NameClaim{}, fmt.Errorf("%w: first opcode is %s", ErrMalformedScript, opName(tokens[0].op))
	}
	for _, i := range []int{1, 2, 7} {
		if !tokens[i].push {
			return types.NameClaim{}, fmt.Errorf("%w: element %d is %s, want a data push", ErrMalformedScript, i, opName(tokens[i].op))
		}
	}

	addr, err := types.NewAddress(tokens[7].data, params)
	if err != nil {
		return types.NameClaim{}, fmt.Errorf("%w: %v", ErrInvalidAddress, err)
	}
	claim := types.NameClaim{
		Name:    tokens[1].data,
		Data:    tokens[2].data,
		Address: addr,
	}

	again, err := EncodeNameUpdate(claim)
	if err != nil {
		return types.NameClaim{}, err
	}
	if string(again) != string(script) {
		return types.NameClaim{}, fmt.Errorf("%w: not a canonical name-update script", ErrMalformedScript)
	}
	return claim, nil
}

// IsNameUpdate reports whether script is a canonical name-update script.
func IsNameUpdate(script []byte) bool {
	// The version byte does not affect the comparison.
	_, err := DecodeNameUpdate(script, &types.MainNetParams)
	return err == nil
}

// PayToAddress builds a pay-to-pubkey-hash script for addr.
func PayToAddress(addr types.Address) ([]byte, error) {
	if addr.IsZero() {
		return nil, fmt.Errorf("%w: empty address", ErrInvalidAddress)
	}
	b := txscript.NewScriptBuilder()
	addPayToPubKeyHash(b, addr.Hash160())
	s, err := b.Script()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedScript, err)
	}
	return s, nil
}

// ExtractPayToAddress returns the address paid by a pay-to-pubkey-hash script.
func ExtractPayToAddress(script []byte, params *types.Params) (types.Address, error) {
	tokens, err := tokenize(script)
	if err != nil {
		return types.Address{}, err
	}
	if len(tokens) != 5 || !tokens[2].push {
		return types.Address{}, fmt.Errorf("%w: not a pay-to-pubkey-hash script", ErrMalformedScript)
	}
	addr, err := types.NewAddress(tokens[2].data, params)
	if err != nil {
		return types.Address{}, fmt.Errorf("%w: %v", ErrInvalidAddress, err)
	}
	again, err := PayToAddress(addr)
	if err != nil {
		return types.Address{}, err
	}
	if string(again) != string(script) {
		return types.Address{}, fmt.Errorf("%w: not a pay-to-pubkey-hash script", ErrMalformedScript)
	}
	return addr, nil
}

func addPayToPubKeyHash(b *txscript.ScriptBuilder, hash []byte) {
	b.AddOp(txscript.OP_DUP)
	b.AddOp(txscript.OP_HASH160)
	b.AddData(hash)
	b.AddOp(txscript.OP_EQUALVERIFY)
	b.AddOp(txscript.OP_CHECKSIG)
}
