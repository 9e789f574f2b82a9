// Package types defines the value types shared by the name trading packages.
package types

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/wire"
)

// OutputReference identifies one spendable transaction output.
type OutputReference struct {
	TxID  chainhash.Hash `json:"txid"`
	Index uint32         `json:"vout"`
}

// ParseOutputReference parses "txid:index" where txid is in the usual
// byte-reversed hex display order.
func ParseOutputReference(s string) (OutputReference, error) {
	txid, index, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok {
		return OutputReference{}, fmt.Errorf("output reference %q: expected txid:index", s)
	}
	hash, err := chainhash.NewHashFromStr(txid)
	if err != nil {
		return OutputReference{}, fmt.Errorf("output reference %q: invalid txid: %w", s, err)
	}
	if len(txid) != chainhash.MaxHashStringSize {
		return OutputReference{}, fmt.Errorf("output reference %q: txid must be %d hex chars", s, chainhash.MaxHashStringSize)
	}
	n, err := strconv.ParseUint(index, 10, 32)
	if err != nil {
		return OutputReference{}, fmt.Errorf("output reference %q: invalid index: %w", s, err)
	}
	return OutputReference{TxID: *hash, Index: uint32(n)}, nil
}

// IsZero returns true if the reference has a zero txid and zero index.
func (r OutputReference) IsZero() bool {
	return r.TxID == chainhash.Hash{} && r.Index == 0
}

// OutPoint converts the reference to its wire form.
func (r OutputReference) OutPoint() *wire.OutPoint {
	return wire.NewOutPoint(&r.TxID, r.Index)
}

// String returns "txid:index".
func (r OutputReference) String() string {
	return fmt.Sprintf("%s:%d", r.TxID.String(), r.Index)
}

// ReferenceFromOutPoint converts a wire outpoint back to a reference.
func ReferenceFromOutPoint(op wire.OutPoint) OutputReference {
	return OutputReference{TxID: op.Hash, Index: op.Index}
}
