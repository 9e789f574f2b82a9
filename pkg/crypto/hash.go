// Package crypto provides the hashing and key primitives used to build and
// sign name trade offers.
package crypto

import (
	"crypto/sha256"

	"golang.org/x/crypto/ripemd160" //nolint:staticcheck // part of the address format
)

// Hash160 computes RIPEMD160(SHA256(data)), the public-key hash embedded in
// addresses and scripts.
func Hash160(data []byte) []byte {
	sum := sha256.Sum256(data)
	h := ripemd160.New()
	h.Write(sum[:])
	return h.Sum(nil)
}
