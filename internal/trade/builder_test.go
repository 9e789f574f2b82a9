package trade_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/mock/gomock"

	"github.com/Klingon-tech/nametrade/internal/gateway"
	"github.com/Klingon-tech/nametrade/internal/gateway/mocks"
	"github.com/Klingon-tech/nametrade/internal/trade"
	"github.com/Klingon-tech/nametrade/pkg/script"
	"github.com/Klingon-tech/nametrade/pkg/tx"
	"github.com/Klingon-tech/nametrade/pkg/types"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

var params = &types.TestNetParams

// hashOf returns a hash filled with b, standing in for a transaction id.
func hashOf(b byte) chainhash.Hash {
	var h chainhash.Hash
	copy(h[:], bytes.Repeat([]byte{b}, chainhash.HashSize))
	return h
}

func testAddress(t *testing.T, b byte) types.Address {
	t.Helper()
	addr, err := types.NewAddress(bytes.Repeat([]byte{b}, types.AddressSize), params)
	require.NoError(t, err)
	return addr
}

func nameTx(name string, n uint32, value types.Amount) *gateway.Transaction {
	return &gateway.Transaction{
		Version: tx.NameTxVersion,
		Vout: []gateway.Output{
			{Value: 100_000, N: 0, ScriptPubKey: gateway.ScriptPubKey{Type: "pubkeyhash"}},
			{Value: value, N: n, ScriptPubKey: gateway.ScriptPubKey{
				NameOp: &gateway.NameOp{Op: "name_update", Name: name, Value: "v=0"},
			}},
		},
	}
}

func TestLastOutput_IgnoresExpired(t *testing.T) {
	ctl := gomock.NewController(t)
	gw := mocks.NewMockGateway(ctl)

	a, b := hashOf(0xaa), hashOf(0xbb)
	gw.EXPECT().GetTransactionHistory(gomock.Any(), "example").Return([]gateway.HistoryEntry{
		{TxID: a.String(), ExpiresIn: 10, Expired: false},
		{TxID: b.String(), ExpiresIn: 50, Expired: true},
	}, nil)
	// Only A may be fetched.
	gw.EXPECT().GetTransaction(gomock.Any(), a).Return(nameTx("example", 1, 150_000_000), nil)

	own, err := trade.NewBuilder(gw, params).LastOutput(context.Background(), "example")
	require.NoError(t, err)
	assert.Equal(t, types.OutputReference{TxID: a, Index: 1}, own.Reference)
	assert.Equal(t, types.Amount(150_000_000), own.Amount)
}

func TestLastOutput_PicksLargestExpiresIn(t *testing.T) {
	ctl := gomock.NewController(t)
	gw := mocks.NewMockGateway(ctl)

	a, b, c := hashOf(0xaa), hashOf(0xbb), hashOf(0xcc)
	gw.EXPECT().GetTransactionHistory(gomock.Any(), "example").Return([]gateway.HistoryEntry{
		{TxID: a.String(), ExpiresIn: 10},
		{TxID: b.String(), ExpiresIn: 300},
		{TxID: c.String(), ExpiresIn: 200},
	}, nil)
	gw.EXPECT().GetTransaction(gomock.Any(), b).Return(nameTx("example", 1, 1_000_000), nil)

	own, err := trade.NewBuilder(gw, params).LastOutput(context.Background(), "example")
	require.NoError(t, err)
	assert.Equal(t, b, own.Reference.TxID)
}

func TestLastOutput_TieKeepsFirst(t *testing.T) {
	ctl := gomock.NewController(t)
	gw := mocks.NewMockGateway(ctl)

	a, b := hashOf(0xaa), hashOf(0xbb)
	gw.EXPECT().GetTransactionHistory(gomock.Any(), "example").Return([]gateway.HistoryEntry{
		{TxID: a.String(), ExpiresIn: 30},
		{TxID: b.String(), ExpiresIn: 30},
	}, nil)
	gw.EXPECT().GetTransaction(gomock.Any(), a).Return(nameTx("example", 1, 1_000_000), nil)

	own, err := trade.NewBuilder(gw, params).LastOutput(context.Background(), "example")
	require.NoError(t, err)
	assert.Equal(t, a, own.Reference.TxID)
}

func TestLastOutput_NameNotFound(t *testing.T) {
	tests := []struct {
		name    string
		history []gateway.HistoryEntry
	}{
		{"empty history", nil},
		{"all expired", []gateway.HistoryEntry{
			{TxID: hashOf(0xaa).String(), ExpiresIn: -10, Expired: true},
			{TxID: hashOf(0xbb).String(), ExpiresIn: 50, Expired: true},
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctl := gomock.NewController(t)
			gw := mocks.NewMockGateway(ctl)
			gw.EXPECT().GetTransactionHistory(gomock.Any(), "example").Return(tt.history, nil)

			_, err := trade.NewBuilder(gw, params).LastOutput(context.Background(), "example")
			assert.ErrorIs(t, err, trade.ErrNameNotFound)
		})
	}
}

func TestLastOutput_NoMatchingNameOp(t *testing.T) {
	ctl := gomock.NewController(t)
	gw := mocks.NewMockGateway(ctl)

	a := hashOf(0xaa)
	gw.EXPECT().GetTransactionHistory(gomock.Any(), "example").Return([]gateway.HistoryEntry{
		{TxID: a.String(), ExpiresIn: 10},
	}, nil)
	gw.EXPECT().GetTransaction(gomock.Any(), a).Return(nameTx("other", 1, 1_000_000), nil)

	_, err := trade.NewBuilder(gw, params).LastOutput(context.Background(), "example")
	assert.ErrorIs(t, err, trade.ErrOwnershipLookupFailed)
}

func TestLastOutput_BadHistoryTxID(t *testing.T) {
	ctl := gomock.NewController(t)
	gw := mocks.NewMockGateway(ctl)
	gw.EXPECT().GetTransactionHistory(gomock.Any(), "example").Return([]gateway.HistoryEntry{
		{TxID: "not-a-txid", ExpiresIn: 10},
	}, nil)

	_, err := trade.NewBuilder(gw, params).LastOutput(context.Background(), "example")
	assert.ErrorIs(t, err, trade.ErrOwnershipLookupFailed)
}

func TestLastOutput_PropagatesGatewayErrors(t *testing.T) {
	ctl := gomock.NewController(t)
	gw := mocks.NewMockGateway(ctl)

	unavailable := fmt.Errorf("name_history: %w: connection refused", gateway.ErrGatewayUnavailable)
	gw.EXPECT().GetTransactionHistory(gomock.Any(), "example").Return(nil, unavailable)

	_, err := trade.NewBuilder(gw, params).LastOutput(context.Background(), "example")
	assert.ErrorIs(t, err, gateway.ErrGatewayUnavailable)
	assert.NotErrorIs(t, err, trade.ErrNameNotFound)

	a := hashOf(0xaa)
	gw.EXPECT().GetTransactionHistory(gomock.Any(), "example").Return([]gateway.HistoryEntry{
		{TxID: a.String(), ExpiresIn: 10},
	}, nil)
	gw.EXPECT().GetTransaction(gomock.Any(), a).Return(nil, fmt.Errorf("getrawtransaction: %w", gateway.ErrNotFound))

	_, err = trade.NewBuilder(gw, params).LastOutput(context.Background(), "example")
	assert.ErrorIs(t, err, gateway.ErrNotFound)
}

func TestBuildBuyOffer(t *testing.T) {
	ctl := gomock.NewController(t)
	gw := mocks.NewMockGateway(ctl)

	a := hashOf(0xaa)
	gw.EXPECT().GetTransactionHistory(gomock.Any(), "example").Return([]gateway.HistoryEntry{
		{TxID: a.String(), ExpiresIn: 10},
	}, nil)
	gw.EXPECT().GetTransaction(gomock.Any(), a).Return(nameTx("example", 1, 150_000_000), nil)

	funding := types.OutputReference{TxID: hashOf(0xf0), Index: 0}
	dest := testAddress(t, 0x11)

	msg, err := trade.NewBuilder(gw, params).BuildBuyOffer(context.Background(), funding, "example", "v=1", dest)
	require.NoError(t, err)

	assert.Equal(t, int32(0x7100), msg.Version)
	require.Len(t, msg.TxIn, 1)
	assert.Equal(t, *funding.OutPoint(), msg.TxIn[0].PreviousOutPoint)
	assert.Empty(t, msg.TxIn[0].SignatureScript)

	want, err := script.EncodeNameUpdate(types.NameClaim{
		Name:    []byte("example"),
		Data:    []byte("v=1"),
		Address: dest,
	})
	require.NoError(t, err)
	require.Len(t, msg.TxOut, 1)
	assert.Equal(t, int64(150_000_000), msg.TxOut[0].Value)
	assert.Equal(t, want, msg.TxOut[0].PkScript)
}

func TestBuildBuyOffer_Errors(t *testing.T) {
	funding := types.OutputReference{TxID: hashOf(0xf0), Index: 0}

	t.Run("missing funding", func(t *testing.T) {
		gw := mocks.NewMockGateway(gomock.NewController(t))
		_, err := trade.NewBuilder(gw, params).BuildBuyOffer(context.Background(),
			types.OutputReference{}, "example", "", testAddress(t, 0x11))
		assert.ErrorIs(t, err, trade.ErrMissingFunding)
	})

	t.Run("unknown name", func(t *testing.T) {
		gw := mocks.NewMockGateway(gomock.NewController(t))
		gw.EXPECT().GetTransactionHistory(gomock.Any(), "example").Return(nil, nil)
		msg, err := trade.NewBuilder(gw, params).BuildBuyOffer(context.Background(),
			funding, "example", "", testAddress(t, 0x11))
		assert.ErrorIs(t, err, trade.ErrNameNotFound)
		assert.Nil(t, msg)
	})

	t.Run("empty destination", func(t *testing.T) {
		gw := mocks.NewMockGateway(gomock.NewController(t))
		a := hashOf(0xaa)
		gw.EXPECT().GetTransactionHistory(gomock.Any(), "example").Return([]gateway.HistoryEntry{
			{TxID: a.String(), ExpiresIn: 10},
		}, nil)
		gw.EXPECT().GetTransaction(gomock.Any(), a).Return(nameTx("example", 1, 1_000_000), nil)

		_, err := trade.NewBuilder(gw, params).BuildBuyOffer(context.Background(),
			funding, "example", "", types.Address{})
		assert.ErrorIs(t, err, types.ErrInvalidAddress)
	})
}

func TestBuildSellOffer(t *testing.T) {
	gw := mocks.NewMockGateway(gomock.NewController(t))

	funding := types.OutputReference{TxID: hashOf(0xf0), Index: 0}
	payout := testAddress(t, 0x22)
	amount, err := types.ParseAmount("2.0")
	require.NoError(t, err)

	msg, err := trade.NewBuilder(gw, params).BuildSellOffer(context.Background(), funding, payout, amount)
	require.NoError(t, err)

	assert.Equal(t, int32(0x7100), msg.Version)
	require.Len(t, msg.TxIn, 1)
	assert.Equal(t, *funding.OutPoint(), msg.TxIn[0].PreviousOutPoint)
	require.Len(t, msg.TxOut, 1)
	assert.Equal(t, int64(200_000_000), msg.TxOut[0].Value)

	got, err := script.ExtractPayToAddress(msg.TxOut[0].PkScript, params)
	require.NoError(t, err)
	assert.Equal(t, payout.String(), got.String())
}

func TestBuildSellOffer_RejectsNonPositiveAmount(t *testing.T) {
	gw := mocks.NewMockGateway(gomock.NewController(t))
	b := trade.NewBuilder(gw, params)
	funding := types.OutputReference{TxID: hashOf(0xf0), Index: 0}

	for _, amount := range []types.Amount{0, -1, -types.Coin} {
		_, err := b.BuildSellOffer(context.Background(), funding, testAddress(t, 0x22), amount)
		assert.ErrorIs(t, err, trade.ErrInvalidAmount, "amount %d", amount)
	}
}

func TestBuildSellOffer_EmptyPayout(t *testing.T) {
	gw := mocks.NewMockGateway(gomock.NewController(t))
	funding := types.OutputReference{TxID: hashOf(0xf0), Index: 0}

	_, err := trade.NewBuilder(gw, params).BuildSellOffer(context.Background(), funding, types.Address{}, types.Coin)
	assert.True(t, errors.Is(err, types.ErrInvalidAddress))
}

func TestOffersSerializeWithNameVersion(t *testing.T) {
	gw := mocks.NewMockGateway(gomock.NewController(t))
	funding := types.OutputReference{TxID: hashOf(0xf0), Index: 3}

	msg, err := trade.NewBuilder(gw, params).BuildSellOffer(context.Background(), funding, testAddress(t, 0x22), types.Coin)
	require.NoError(t, err)

	raw, err := tx.Serialize(msg)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x00, 0x71, 0x00, 0x00}, raw[:4])

	back, err := tx.Deserialize(raw)
	require.NoError(t, err)
	assert.Equal(t, msg.TxHash(), back.TxHash())
}
