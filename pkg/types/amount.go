package types

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Decimals is the number of fractional digits of one coin.
const Decimals = 8

// Coin is the number of minor units in one coin.
const Coin = 100_000_000

// Amount is a quantity of minor units.
type Amount int64

// ParseAmount converts a decimal string such as "1.5" to minor units without
// going through floating point.
func ParseAmount(s string) (Amount, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty amount")
	}
	if strings.HasPrefix(s, "-") {
		return 0, fmt.Errorf("negative amount")
	}
	s = strings.TrimPrefix(s, "+")

	parts := strings.SplitN(s, ".", 2)
	if parts[0] == "" {
		parts[0] = "0"
	}
	whole, err := strconv.ParseUint(parts[0], 10, 63)
	if err != nil {
		return 0, fmt.Errorf("invalid whole part: %w", err)
	}

	var frac uint64
	if len(parts) == 2 && parts[1] != "" {
		fracStr := parts[1]
		if len(fracStr) > Decimals {
			// Trailing zeros past the scale are harmless ("1.500000000").
			trimmed := strings.TrimRight(fracStr[Decimals:], "0")
			if trimmed != "" {
				return 0, fmt.Errorf("too many decimal places (max %d)", Decimals)
			}
			fracStr = fracStr[:Decimals]
		}
		fracStr = fracStr + strings.Repeat("0", Decimals-len(fracStr))
		frac, err = strconv.ParseUint(fracStr, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid fractional part: %w", err)
		}
	}

	if whole > math.MaxInt64/Coin {
		return 0, fmt.Errorf("amount too large")
	}
	result := whole * Coin
	if result > math.MaxInt64-frac {
		return 0, fmt.Errorf("amount too large")
	}
	return Amount(result + frac), nil
}

// String formats the amount as a decimal coin value, e.g. "1.50000000".
func (a Amount) String() string {
	sign := ""
	u := uint64(a)
	if a < 0 {
		sign = "-"
		u = uint64(-a)
	}
	return fmt.Sprintf("%s%d.%0*d", sign, u/Coin, Decimals, u%Coin)
}

// UnmarshalJSON accepts a JSON number or a quoted decimal string.
func (a *Amount) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if strings.ContainsAny(s, "eE") {
		// Nodes print tiny values in exponent form (1e-08).
		var n json.Number = json.Number(s)
		f, err := n.Float64()
		if err != nil {
			return fmt.Errorf("amount %q: %w", s, err)
		}
		s = strconv.FormatFloat(f, 'f', Decimals, 64)
	}
	v, err := ParseAmount(s)
	if err != nil {
		return fmt.Errorf("amount %q: %w", s, err)
	}
	*a = v
	return nil
}

// MarshalJSON encodes the amount as a JSON decimal number.
func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(a.String()), nil
}
