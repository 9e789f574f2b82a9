package types

import (
	"encoding/json"
	"testing"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		in   string
		want Amount
	}{
		{"1.5", 150_000_000},
		{"2.0", 200_000_000},
		{"2", 200_000_000},
		{"0.01", 1_000_000},
		{"0.00000001", 1},
		{".5", 50_000_000},
		{"1.500000000", 150_000_000},
		{" 3 ", 300_000_000},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseAmount(tt.in)
			if err != nil {
				t.Fatalf("ParseAmount(%q): %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("ParseAmount(%q) = %d, want %d", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseAmount_Invalid(t *testing.T) {
	for _, s := range []string{"", "-1", "abc", "1.000000001", "1.2.3", "99999999999999999999"} {
		if _, err := ParseAmount(s); err == nil {
			t.Errorf("ParseAmount(%q) should fail", s)
		}
	}
}

func TestAmount_String(t *testing.T) {
	if got := Amount(150_000_000).String(); got != "1.50000000" {
		t.Errorf("String() = %q, want 1.50000000", got)
	}
	if got := Amount(1).String(); got != "0.00000001" {
		t.Errorf("String() = %q, want 0.00000001", got)
	}
}

func TestAmount_JSON(t *testing.T) {
	var v struct {
		Value Amount `json:"value"`
	}
	for in, want := range map[string]Amount{
		`{"value": 0.01}`:    1_000_000,
		`{"value": 1.5}`:     150_000_000,
		`{"value": "2.0"}`:   200_000_000,
		`{"value": 1e-08}`:   1,
		`{"value": 0.10000}`: 10_000_000,
	} {
		if err := json.Unmarshal([]byte(in), &v); err != nil {
			t.Fatalf("Unmarshal(%s): %v", in, err)
		}
		if v.Value != want {
			t.Errorf("Unmarshal(%s) = %d, want %d", in, v.Value, want)
		}
	}

	out, err := json.Marshal(Amount(150_000_000))
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if string(out) != "1.50000000" {
		t.Errorf("Marshal = %s, want 1.50000000", out)
	}
}
