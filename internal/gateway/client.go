package gateway

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/btcsuite/btcd/chaincfg/chainhash"

	"github.com/Klingon-tech/nametrade/internal/log"
	"github.com/Klingon-tech/nametrade/internal/rpcclient"
	"github.com/Klingon-tech/nametrade/pkg/types"
)

// codeInvalidAddressOrKey is the node's RPC_INVALID_ADDRESS_OR_KEY code,
// returned for unknown transactions and addresses.
const codeInvalidAddressOrKey = -5

// Client implements Gateway on top of a namecoind JSON-RPC endpoint.
type Client struct {
	rpc *rpcclient.Client
}

var _ Gateway = (*Client)(nil)

// NewClient wraps an RPC client.
func NewClient(rpc *rpcclient.Client) *Client {
	return &Client{rpc: rpc}
}

// Close releases the underlying connections.
func (c *Client) Close() {
	c.rpc.Close()
}

// call performs one RPC and maps failures onto the gateway error taxonomy.
// Params are never logged since they may carry keys or passphrases.
func (c *Client) call(ctx context.Context, method string, params []interface{}, result interface{}) error {
	start := time.Now()
	err := c.rpc.Call(ctx, method, params, result)
	log.Gateway.Debug().
		Str("method", method).
		Dur("took", time.Since(start)).
		AnErr("error", err).
		Msg("rpc call")
	if err == nil {
		return nil
	}

	var rpcErr *rpcclient.RPCError
	if errors.As(err, &rpcErr) {
		if rpcErr.Code == codeInvalidAddressOrKey {
			return fmt.Errorf("%s: %w: %w: %w", method, ErrNotFound, ErrGatewayRejected, err)
		}
		return fmt.Errorf("%s: %w: %w", method, ErrGatewayRejected, err)
	}
	if errors.Is(err, rpcclient.ErrMalformedResponse) {
		return fmt.Errorf("%s: %w: %w", method, ErrGatewayRejected, err)
	}
	return fmt.Errorf("%s: %w: %w", method, ErrGatewayUnavailable, err)
}

// GetRawTransaction fetches the serialized transaction.
func (c *Client) GetRawTransaction(ctx context.Context, txid chainhash.Hash) ([]byte, error) {
	var rawHex string
	if err := c.call(ctx, "getrawtransaction", []interface{}{txid.String(), 0}, &rawHex); err != nil {
		return nil, err
	}
	raw, err := hex.DecodeString(rawHex)
	if err != nil {
		return nil, fmt.Errorf("getrawtransaction: %w: decode hex: %w", ErrGatewayRejected, err)
	}
	return raw, nil
}

// GetTransaction fetches the verbose form of a transaction.
func (c *Client) GetTransaction(ctx context.Context, txid chainhash.Hash) (*Transaction, error) {
	var tx Transaction
	if err := c.call(ctx, "getrawtransaction", []interface{}{txid.String(), 1}, &tx); err != nil {
		return nil, err
	}
	return &tx, nil
}

// GetTransactionHistory returns the name's history in node order.
func (c *Client) GetTransactionHistory(ctx context.Context, name string) ([]HistoryEntry, error) {
	var entries []HistoryEntry
	if err := c.call(ctx, "name_history", []interface{}{name}, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// GetOutputOwner resolves the address paid by ref.
func (c *Client) GetOutputOwner(ctx context.Context, ref types.OutputReference) (string, error) {
	tx, err := c.GetTransaction(ctx, ref.TxID)
	if err != nil {
		return "", err
	}
	for i := range tx.Vout {
		if tx.Vout[i].N != ref.Index {
			continue
		}
		owner := tx.Vout[i].ScriptPubKey.Owner()
		if owner == "" {
			return "", fmt.Errorf("output %s has no address: %w", ref, ErrNotFound)
		}
		return owner, nil
	}
	return "", fmt.Errorf("output %s: %w", ref, ErrNotFound)
}

// GetPrivateKey dumps the wallet key for address in WIF form.
func (c *Client) GetPrivateKey(ctx context.Context, address string) (string, error) {
	var wif string
	if err := c.call(ctx, "dumpprivkey", []interface{}{address}, &wif); err != nil {
		return "", err
	}
	return wif, nil
}

// UnlockWallet calls walletpassphrase. Durations under a second round up.
func (c *Client) UnlockWallet(ctx context.Context, passphrase string, timeout time.Duration) error {
	secs := int64(timeout / time.Second)
	if secs < 1 {
		secs = 1
	}
	return c.call(ctx, "walletpassphrase", []interface{}{passphrase, secs}, nil)
}

// Broadcast submits rawTx and returns the id the node assigned.
func (c *Client) Broadcast(ctx context.Context, rawTx []byte) (chainhash.Hash, error) {
	var txid string
	if err := c.call(ctx, "sendrawtransaction", []interface{}{hex.EncodeToString(rawTx)}, &txid); err != nil {
		return chainhash.Hash{}, err
	}
	h, err := chainhash.NewHashFromStr(txid)
	if err != nil {
		return chainhash.Hash{}, fmt.Errorf("sendrawtransaction: %w: bad txid %q: %w", ErrGatewayRejected, txid, err)
	}
	return *h, nil
}
