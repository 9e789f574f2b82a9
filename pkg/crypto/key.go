package crypto

import (
	"errors"
	"fmt"

	"github.com/Klingon-tech/nametrade/pkg/types"
	"github.com/btcsuite/btcd/btcutil/base58"
	"github.com/decred/dcrd/dcrec/secp256k1/v4"
)

// ErrInvalidKey is returned when a WIF string cannot be decoded.
var ErrInvalidKey = errors.New("invalid private key")

// compressMagic marks a WIF key whose public key is used in compressed form.
const compressMagic = 0x01

// PrivateKey wraps a secp256k1 key together with the public-key encoding the
// wallet uses for it.
type PrivateKey struct {
	key        *secp256k1.PrivateKey
	compressed bool
}

// DecodeWIF parses a wallet-import-format key as returned by dumpprivkey.
func DecodeWIF(wif string, params *types.Params) (*PrivateKey, error) {
	payload, version, err := base58.CheckDecode(wif)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidKey, err)
	}
	if version != params.PrivateKeyID {
		return nil, fmt.Errorf("%w: version %d is not a %s key", ErrInvalidKey, version, params.Name)
	}

	var compressed bool
	switch {
	case len(payload) == 32:
	case len(payload) == 33 && payload[32] == compressMagic:
		compressed = true
	default:
		return nil, fmt.Errorf("%w: malformed payload (%d bytes)", ErrInvalidKey, len(payload))
	}

	return &PrivateKey{
		key:        secp256k1.PrivKeyFromBytes(payload[:32]),
		compressed: compressed,
	}, nil
}

// Key returns the underlying secp256k1 key.
func (pk *PrivateKey) Key() *secp256k1.PrivateKey {
	return pk.key
}

// Compressed reports whether the public key is serialized compressed.
func (pk *PrivateKey) Compressed() bool {
	return pk.compressed
}

// PublicKey returns the serialized public key in the wallet's encoding.
func (pk *PrivateKey) PublicKey() []byte {
	if pk.compressed {
		return pk.key.PubKey().SerializeCompressed()
	}
	return pk.key.PubKey().SerializeUncompressed()
}

// Address returns the pay-to-pubkey-hash address controlled by the key.
func (pk *PrivateKey) Address(params *types.Params) types.Address {
	// Hash160 is always 20 bytes.
	a, _ := types.NewAddress(Hash160(pk.PublicKey()), params)
	return a
}

// Zero clears the key material.
func (pk *PrivateKey) Zero() {
	pk.key.Zero()
}
