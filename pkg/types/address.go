package types

import (
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/btcsuite/btcd/btcutil/base58"
)

// AddressSize is the length of a public-key hash in bytes.
const AddressSize = 20

// ErrInvalidAddress is returned when an address fails base58check decoding,
// has the wrong payload length, or belongs to another network.
var ErrInvalidAddress = errors.New("invalid address")

// Address is a pay-to-pubkey-hash address: a 160-bit public-key hash plus
// the network version byte used when it is rendered as base58check.
type Address struct {
	hash    [AddressSize]byte
	version byte
}

// NewAddress wraps a 20-byte public-key hash for the given network.
func NewAddress(hash []byte, params *Params) (Address, error) {
	if len(hash) != AddressSize {
		return Address{}, fmt.Errorf("%w: hash must be %d bytes, got %d", ErrInvalidAddress, AddressSize, len(hash))
	}
	a := Address{version: params.PubKeyHashAddrID}
	copy(a.hash[:], hash)
	return a, nil
}

// ParseAddress decodes a base58check address and checks that it is a
// pay-to-pubkey-hash address for params.
func ParseAddress(s string, params *Params) (Address, error) {
	if s == "" {
		return Address{}, fmt.Errorf("%w: empty address", ErrInvalidAddress)
	}
	payload, version, err := base58.CheckDecode(s)
	if err != nil {
		return Address{}, fmt.Errorf("%w: %q: %v", ErrInvalidAddress, s, err)
	}
	if len(payload) != AddressSize {
		return Address{}, fmt.Errorf("%w: %q: payload is %d bytes, want %d", ErrInvalidAddress, s, len(payload), AddressSize)
	}
	if version != params.PubKeyHashAddrID {
		return Address{}, fmt.Errorf("%w: %q: version %d is not a %s pubkey-hash address", ErrInvalidAddress, s, version, params.Name)
	}
	a := Address{version: version}
	copy(a.hash[:], payload)
	return a, nil
}

// IsZero returns true for the zero-value address.
func (a Address) IsZero() bool {
	return a == Address{}
}

// Hash160 returns a copy of the public-key hash.
func (a Address) Hash160() []byte {
	b := make([]byte, AddressSize)
	copy(b, a.hash[:])
	return b
}

// Version returns the base58check version byte.
func (a Address) Version() byte {
	return a.version
}

// String returns the base58check encoding.
func (a Address) String() string {
	return base58.CheckEncode(a.hash[:], a.version)
}

// Hex returns the hex-encoded public-key hash.
func (a Address) Hex() string {
	return hex.EncodeToString(a.hash[:])
}
