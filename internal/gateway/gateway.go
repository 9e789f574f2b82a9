// Package gateway defines the ledger queries the offer builder depends on
// and a namecoind-backed implementation of them.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/btcsuite/btcd/chaincfg/chainhash"

	"github.com/Klingon-tech/nametrade/pkg/types"
)

//go:generate mockgen -source=gateway.go -destination=mocks/gateway.go -package=mocks

// Gateway errors.
var (
	// ErrGatewayUnavailable covers transport failures and timeouts.
	ErrGatewayUnavailable = errors.New("gateway unavailable")
	// ErrGatewayRejected is returned when the node answers with an RPC error
	// or with a result that does not decode.
	ErrGatewayRejected = errors.New("gateway rejected request")
	// ErrNotFound is returned for unknown transactions, names or keys.
	ErrNotFound = errors.New("not found")
)

// Gateway is the ledger query surface used to build, sign and submit offers.
type Gateway interface {
	// GetRawTransaction returns the serialized transaction with the given id.
	GetRawTransaction(ctx context.Context, txid chainhash.Hash) ([]byte, error)
	// GetTransaction returns the node's decoded view of a transaction.
	GetTransaction(ctx context.Context, txid chainhash.Hash) (*Transaction, error)
	// GetTransactionHistory returns every operation recorded for a name.
	GetTransactionHistory(ctx context.Context, name string) ([]HistoryEntry, error)
	// GetOutputOwner returns the first address paid by the referenced output.
	GetOutputOwner(ctx context.Context, ref types.OutputReference) (string, error)
	// GetPrivateKey returns the WIF-encoded key the wallet holds for address.
	GetPrivateKey(ctx context.Context, address string) (string, error)
	// UnlockWallet unlocks an encrypted wallet for the given duration.
	UnlockWallet(ctx context.Context, passphrase string, timeout time.Duration) error
	// Broadcast submits a serialized transaction and returns its id.
	Broadcast(ctx context.Context, rawTx []byte) (chainhash.Hash, error)
}

// Transaction is the decoded form of a transaction as reported by the node.
type Transaction struct {
	TxID    string   `json:"txid"`
	Version int32    `json:"version"`
	Vout    []Output `json:"vout"`
}

// Output is one decoded transaction output.
type Output struct {
	Value        types.Amount `json:"value"`
	N            uint32       `json:"n"`
	ScriptPubKey ScriptPubKey `json:"scriptPubKey"`
}

// ScriptPubKey describes an output script. Older nodes report a list of
// addresses, newer ones a single address.
type ScriptPubKey struct {
	Hex       string   `json:"hex"`
	Type      string   `json:"type"`
	Address   string   `json:"address,omitempty"`
	Addresses []string `json:"addresses,omitempty"`
	NameOp    *NameOp  `json:"nameOp,omitempty"`
}

// Owner returns the first address paid by the script, or "".
func (s *ScriptPubKey) Owner() string {
	if s.Address != "" {
		return s.Address
	}
	if len(s.Addresses) > 0 {
		return s.Addresses[0]
	}
	return ""
}

// NameOp is the name operation attached to an output, if any.
type NameOp struct {
	Op    string `json:"op"`
	Name  string `json:"name"`
	Value string `json:"value"`
}

// HistoryEntry is one operation in a name's history.
type HistoryEntry struct {
	Name      string `json:"name"`
	TxID      string `json:"txid"`
	Vout      uint32 `json:"vout"`
	Address   string `json:"address"`
	Height    int64  `json:"height"`
	ExpiresIn int64  `json:"expires_in"`
	Expired   bool   `json:"expired"`
}

// UnmarshalJSON accepts the expired flag either as a boolean or as a number,
// the form older nodes send. A non-zero number marks the entry expired; a
// missing or null flag does not.
func (e *HistoryEntry) UnmarshalJSON(data []byte) error {
	type plain HistoryEntry
	aux := struct {
		*plain
		Expired json.RawMessage `json:"expired"`
	}{plain: (*plain)(e)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	flag := bytes.TrimSpace(aux.Expired)
	switch string(flag) {
	case "", "null", "false":
		e.Expired = false
	case "true":
		e.Expired = true
	default:
		n, err := strconv.ParseFloat(string(flag), 64)
		if err != nil {
			return fmt.Errorf("history entry: invalid expired flag %s", flag)
		}
		e.Expired = n != 0
	}
	return nil
}
