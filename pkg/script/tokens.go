package script

import (
	"encoding/binary"
	"fmt"

	"github.com/btcsuite/btcd/txscript"
)

// token is one parsed script element.
type token struct {
	op   byte
	data []byte
	push bool
}

func tokenize(script []byte) ([]token, error) {
	var tokens []token
	tok := txscript.MakeScriptTokenizer(0, script)
	for tok.Next() {
		t := token{op: tok.Opcode()}
		if t.op <= txscript.OP_PUSHDATA4 {
			t.data, t.push = append([]byte{}, tok.Data()...), true
		}
		tokens = append(tokens, t)
	}
	if err := tok.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedScript, err)
	}
	return tokens, nil
}

// pushData returns the shortest plain push of data. Unlike
// ScriptBuilder.AddData it never turns one-byte values into small-integer
// opcodes, which name operations do not accept as arguments.
func pushData(data []byte) ([]byte, error) {
	n := len(data)
	if n > txscript.MaxScriptElementSize {
		return nil, fmt.Errorf("%w: push of %d bytes exceeds %d", ErrMalformedScript, n, txscript.MaxScriptElementSize)
	}
	var out []byte
	switch {
	case n < txscript.OP_PUSHDATA1:
		out = append(out, byte(n))
	case n <= 0xff:
		out = append(out, txscript.OP_PUSHDATA1, byte(n))
	default:
		out = append(out, txscript.OP_PUSHDATA2)
		out = binary.LittleEndian.AppendUint16(out, uint16(n))
	}
	return append(out, data...), nil
}

func opName(op byte) string {
	return fmt.Sprintf("opcode 0x%02x", op)
}
