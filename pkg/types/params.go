package types

import "fmt"

// Params holds the per-network constants needed to encode addresses and keys
// and to reach a node.
type Params struct {
	Name             string
	PubKeyHashAddrID byte // base58check version byte for pay-to-pubkey-hash addresses
	PrivateKeyID     byte // base58check version byte for WIF private keys
	DefaultRPCPort   int
}

// Namecoin network parameters.
var (
	MainNetParams = Params{
		Name:             "mainnet",
		PubKeyHashAddrID: 52, // N / M
		PrivateKeyID:     180,
		DefaultRPCPort:   8336,
	}
	TestNetParams = Params{
		Name:             "testnet",
		PubKeyHashAddrID: 111, // m / n
		PrivateKeyID:     239,
		DefaultRPCPort:   18336,
	}
	RegTestParams = Params{
		Name:             "regtest",
		PubKeyHashAddrID: 111,
		PrivateKeyID:     239,
		DefaultRPCPort:   18443,
	}
)

// ParamsForNetwork returns the parameters for a network name.
func ParamsForNetwork(name string) (*Params, error) {
	switch name {
	case "", MainNetParams.Name, "main":
		return &MainNetParams, nil
	case TestNetParams.Name, "test":
		return &TestNetParams, nil
	case RegTestParams.Name:
		return &RegTestParams, nil
	default:
		return nil, fmt.Errorf("unknown network %q", name)
	}
}
