package types

import (
	"strings"
	"testing"
)

const testTxID = "4a5e1e4baab89f3a32518a88c31bc87f618f76673e2cc77ab2127b7afdeda33b"

func TestParseOutputReference(t *testing.T) {
	ref, err := ParseOutputReference(testTxID + ":3")
	if err != nil {
		t.Fatalf("ParseOutputReference: %v", err)
	}
	if ref.Index != 3 {
		t.Errorf("Index = %d, want 3", ref.Index)
	}
	if ref.TxID.String() != testTxID {
		t.Errorf("TxID = %s, want %s", ref.TxID, testTxID)
	}
	if ref.String() != testTxID+":3" {
		t.Errorf("String() = %s", ref.String())
	}

	op := ref.OutPoint()
	if back := ReferenceFromOutPoint(*op); back != ref {
		t.Errorf("outpoint roundtrip = %v, want %v", back, ref)
	}
}

func TestParseOutputReference_Invalid(t *testing.T) {
	tests := []string{
		"",
		testTxID,
		testTxID + ":",
		testTxID + ":-1",
		testTxID + ":4294967296",
		"abcd:0",
		strings.Repeat("zz", 32) + ":0",
	}
	for _, s := range tests {
		if _, err := ParseOutputReference(s); err == nil {
			t.Errorf("ParseOutputReference(%q) should fail", s)
		}
	}
}

func TestOutputReference_IsZero(t *testing.T) {
	var zero OutputReference
	if !zero.IsZero() {
		t.Error("zero-value OutputReference should be zero")
	}
	if (OutputReference{Index: 1}).IsZero() {
		t.Error("OutputReference with non-zero Index should not be zero")
	}
}
