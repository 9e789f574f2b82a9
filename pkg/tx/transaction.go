// Package tx builds and serializes offer transactions on top of the wire
// format types from btcd.
package tx

import (
	"bytes"
	"fmt"
	"math"

	"github.com/btcsuite/btcd/wire"
)

// NameTxVersion marks a transaction as carrying a name operation.
const NameTxVersion int32 = 0x7100

// Serialize returns the network encoding of msg.
func Serialize(msg *wire.MsgTx) ([]byte, error) {
	var buf bytes.Buffer
	buf.Grow(msg.SerializeSize())
	if err := msg.Serialize(&buf); err != nil {
		return nil, fmt.Errorf("serialize tx: %w", err)
	}
	return buf.Bytes(), nil
}

// Deserialize decodes a transaction and rejects trailing bytes.
func Deserialize(raw []byte) (*wire.MsgTx, error) {
	msg := &wire.MsgTx{}
	r := bytes.NewReader(raw)
	if err := msg.Deserialize(r); err != nil {
		return nil, fmt.Errorf("deserialize tx: %w", err)
	}
	if r.Len() != 0 {
		return nil, fmt.Errorf("deserialize tx: %d trailing bytes", r.Len())
	}
	return msg, nil
}

// IsNameTx reports whether msg carries the name-operation version tag.
func IsNameTx(msg *wire.MsgTx) bool {
	return msg.Version == NameTxVersion
}

// TotalOutputValue returns the sum of all output values.
// Returns an error if an output is negative or the sum overflows int64.
func TotalOutputValue(msg *wire.MsgTx) (int64, error) {
	var total int64
	for i, out := range msg.TxOut {
		if out.Value < 0 {
			return 0, fmt.Errorf("output %d: %w", i, ErrNegativeOutput)
		}
		if total > math.MaxInt64-out.Value {
			return 0, ErrOutputOverflow
		}
		total += out.Value
	}
	return total, nil
}
