package tx

import (
	"github.com/Klingon-tech/nametrade/pkg/types"
	"github.com/btcsuite/btcd/wire"
)

// Builder constructs transactions incrementally.
type Builder struct {
	tx *wire.MsgTx
}

// NewBuilder creates a builder for a name transaction.
func NewBuilder() *Builder {
	return &Builder{
		tx: wire.NewMsgTx(NameTxVersion),
	}
}

// AddInput adds an unsigned input spending ref.
func (b *Builder) AddInput(ref types.OutputReference) *Builder {
	b.tx.AddTxIn(wire.NewTxIn(ref.OutPoint(), nil, nil))
	return b
}

// AddOutput adds an output with a value and locking script.
func (b *Builder) AddOutput(value types.Amount, pkScript []byte) *Builder {
	b.tx.AddTxOut(wire.NewTxOut(int64(value), pkScript))
	return b
}

// Build returns the constructed transaction.
// Does NOT validate; call Validate separately.
func (b *Builder) Build() *wire.MsgTx {
	return b.tx
}
