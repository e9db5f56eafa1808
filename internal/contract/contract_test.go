package contract

import (
	"context"
	"crypto/ecdsa"
	"encoding/hex"
	"encoding/json"
	"errors"
	"math/big"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/Mohsinsiddi/minedash/internal/chain"
	"github.com/Mohsinsiddi/minedash/internal/config"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

var (
	dappAddr  = common.HexToAddress("0x9641515C95c6BCc8dBb1bfa0b05004B0b9b30da4")
	tokenAddr = common.HexToAddress("0x896fC7D9bA75C4ed4552a7Bcd3FD0577726FDb2a")
	userAddr  = common.HexToAddress("0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266")
	refAddr   = common.HexToAddress("0x70997970C51812dc3A010C7d01b50e0d17dc79C8")
)

// fakeNode answers contract calls by 4-byte selector and records writes.
type fakeNode struct {
	mu        sync.Mutex
	results   map[string][]byte // selector hex → return data
	callErr   error
	estimate  uint64
	estErr    error
	fees      *chain.Fees
	nonce     uint64
	sent      []string
	callMsgs  []chain.CallMsg
	sendCalls int
}

func newFakeNode() *fakeNode {
	return &fakeNode{
		results:  map[string][]byte{},
		estimate: 100_000,
		fees: &chain.Fees{
			BaseFee:   big.NewInt(1_000_000_000),
			TipCap:    big.NewInt(1_000_000_000),
			FeeCap:    big.NewInt(3_000_000_000),
			GasPrice:  big.NewInt(3_000_000_000),
			IsEIP1559: true,
		},
		nonce: 7,
	}
}

func (f *fakeNode) on(method abi.Method, ret ...interface{}) {
	data, err := method.Outputs.Pack(ret...)
	if err != nil {
		panic(err)
	}
	f.results[hex.EncodeToString(method.ID)] = data
}

func (f *fakeNode) CallContract(_ context.Context, msg chain.CallMsg) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.callMsgs = append(f.callMsgs, msg)
	if f.callErr != nil {
		return "", f.callErr
	}
	sel := strings.TrimPrefix(msg.Data, "0x")[:8]
	if data, ok := f.results[sel]; ok {
		return "0x" + hex.EncodeToString(data), nil
	}
	return "0x", nil
}

func (f *fakeNode) EstimateGas(context.Context, chain.CallMsg) (uint64, error) {
	return f.estimate, f.estErr
}

func (f *fakeNode) SuggestFees(context.Context) (*chain.Fees, error) { return f.fees, nil }

func (f *fakeNode) PendingNonce(context.Context, string) (uint64, error) { return f.nonce, nil }

func (f *fakeNode) SendRawTransaction(_ context.Context, raw string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sendCalls++
	f.sent = append(f.sent, raw)
	return "0x00", nil
}

type keySigner struct{ key *ecdsa.PrivateKey }

func (s keySigner) Address() common.Address { return crypto.PubkeyToAddress(s.key.PublicKey) }

func (s keySigner) SignTx(tx *types.Transaction, chainID *big.Int) (*types.Transaction, error) {
	return types.SignTx(tx, types.NewLondonSigner(chainID), s.key)
}

func newKeySigner(t *testing.T) keySigner {
	t.Helper()
	key, err := crypto.HexToECDSA("ac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80")
	require.NoError(t, err)
	return keySigner{key: key}
}

func decodeSent(t *testing.T, raw string) *types.Transaction {
	t.Helper()
	b, err := hex.DecodeString(strings.TrimPrefix(raw, "0x"))
	require.NoError(t, err)
	tx := new(types.Transaction)
	require.NoError(t, tx.UnmarshalBinary(b))
	return tx
}

// rpcMock serves a fixed JSON-RPC result per method.
func rpcMock(t *testing.T, responses map[string]interface{}) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Method string `json:"method"`
			ID     int64  `json:"id"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		resp := map[string]interface{}{"jsonrpc": "2.0", "id": req.ID}
		if result, ok := responses[req.Method]; ok {
			resp["result"] = result
		} else {
			resp["error"] = map[string]interface{}{"code": -32601, "message": "method not found"}
		}
		json.NewEncoder(w).Encode(resp) //nolint:errcheck
	}))
}

func revertData(t *testing.T, reason string) string {
	t.Helper()
	enc, err := stringArgs.Pack(reason)
	require.NoError(t, err)
	return "0x" + hex.EncodeToString(append(append([]byte{}, errorSelector...), enc...))
}

// ---------------------------------------------------------------------------
// ABI and layouts
// ---------------------------------------------------------------------------

func TestErrorSelector(t *testing.T) {
	assert.Equal(t, "08c379a0", hex.EncodeToString(errorSelector))
}

func TestMiningABISelectors(t *testing.T) {
	parsed, err := MiningABI("v2")
	require.NoError(t, err)

	// Selectors depend only on the inputs, so they match across layouts.
	v1, err := MiningABI("v1")
	require.NoError(t, err)
	for _, name := range []string{fnUsers, fnPendingReward, fnActivateMining, fnClaimRewards} {
		require.Contains(t, parsed.Methods, name)
		assert.Equal(t, parsed.Methods[name].ID, v1.Methods[name].ID, name)
	}
	assert.True(t, parsed.Methods[fnActivateMining].IsPayable())
	assert.Equal(t, "activateMining(address)", parsed.Methods[fnActivateMining].Sig)
	assert.Equal(t, "claimMiningRewards()", parsed.Methods[fnClaimRewards].Sig)
}

func TestMiningABIUnknownLayout(t *testing.T) {
	_, err := MiningABI("v9")
	assert.ErrorIs(t, err, ErrUnknownLayout)

	_, err = NewReader(newFakeNode(), dappAddr, "v9")
	assert.ErrorIs(t, err, ErrUnknownLayout)
}

func TestMiningABIJSON(t *testing.T) {
	raw, err := MiningABIJSON("v1")
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"getPendingMmt"`)
	assert.NotContains(t, string(raw), FieldIndirectReferrals)
}

func TestLayouts(t *testing.T) {
	assert.Equal(t, []string{"v1", "v2"}, LayoutVersions())

	v1, _ := LayoutFor("v1")
	v2, _ := LayoutFor("v2")
	assert.False(t, v1.Has(FieldIndirectReferrals))
	assert.True(t, v2.Has(FieldIndirectReferrals))
	assert.Len(t, v1.Fields, 5)
	assert.Len(t, v2.Fields, 6)
}

// ---------------------------------------------------------------------------
// reads
// ---------------------------------------------------------------------------

func TestReaderUserRecordV2(t *testing.T) {
	node := newFakeNode()
	r, err := NewReader(node, dappAddr, "v2")
	require.NoError(t, err)

	node.on(r.abi.Methods[fnUsers], true, refAddr, big.NewInt(5), big.NewInt(12), big.NewInt(120), big.NewInt(9))

	u, err := r.UserRecord(context.Background(), userAddr)
	require.NoError(t, err)
	assert.True(t, u.IsActivated)
	assert.Equal(t, refAddr, u.Referrer)
	assert.True(t, u.HasReferrer())
	assert.Equal(t, int64(5), u.DirectReferrals.Int64())
	assert.Equal(t, int64(12), u.IndirectReferrals.Int64())
	assert.Equal(t, int64(120), u.MiningPower.Int64())
	assert.Equal(t, int64(9), u.RewardDebt.Int64())

	require.Len(t, node.callMsgs, 1)
	assert.Equal(t, dappAddr.Hex(), node.callMsgs[0].To)
}

func TestReaderUserRecordV1(t *testing.T) {
	node := newFakeNode()
	r, err := NewReader(node, dappAddr, "v1")
	require.NoError(t, err)

	node.on(r.abi.Methods[fnUsers], false, common.Address{}, big.NewInt(0), big.NewInt(0), big.NewInt(0))

	u, err := r.UserRecord(context.Background(), userAddr)
	require.NoError(t, err)
	assert.False(t, u.IsActivated)
	assert.False(t, u.HasReferrer())
	assert.Equal(t, int64(0), u.IndirectReferrals.Int64(), "absent field reads zero")
}

func TestReaderPendingReward(t *testing.T) {
	node := newFakeNode()
	r, err := NewReader(node, dappAddr, "v2")
	require.NoError(t, err)

	want, _ := new(big.Int).SetString("1234567800000000000", 10)
	node.on(r.abi.Methods[fnPendingReward], want)

	got, err := r.PendingReward(context.Background(), userAddr)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestReaderEmptyResult(t *testing.T) {
	r, err := NewReader(newFakeNode(), dappAddr, "v2")
	require.NoError(t, err)

	_, err = r.PendingReward(context.Background(), userAddr)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty result")
}

func TestReaderPropagatesNodeError(t *testing.T) {
	node := newFakeNode()
	node.callErr = errors.New("connection refused")
	r, err := NewReader(node, dappAddr, "v2")
	require.NoError(t, err)

	_, err = r.UserRecord(context.Background(), userAddr)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection refused")
}

func TestTokenInfoAndBalance(t *testing.T) {
	node := newFakeNode()
	tok, err := NewToken(node, tokenAddr)
	require.NoError(t, err)

	node.on(tok.abi.Methods["symbol"], "MMT")
	node.on(tok.abi.Methods["decimals"], uint8(18))
	node.on(tok.abi.Methods["balanceOf"], big.NewInt(42))

	info, err := tok.Info(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "MMT", info.Symbol)
	assert.Equal(t, uint8(18), info.Decimals)
	assert.Equal(t, tokenAddr, info.Address)

	bal, err := tok.BalanceOf(context.Background(), userAddr)
	require.NoError(t, err)
	assert.Equal(t, int64(42), bal.Int64())
}

// reader against a real JSON-RPC client
func TestReaderOverEVMClient(t *testing.T) {
	parsed, err := MiningABI("v2")
	require.NoError(t, err)
	out, err := parsed.Methods[fnPendingReward].Outputs.Pack(big.NewInt(77))
	require.NoError(t, err)

	srv := rpcMock(t, map[string]interface{}{"eth_call": "0x" + hex.EncodeToString(out)})
	defer srv.Close()

	r, err := NewReader(chain.NewEVMClient(srv.URL), dappAddr, "v2")
	require.NoError(t, err)
	got, err := r.PendingReward(context.Background(), userAddr)
	require.NoError(t, err)
	assert.Equal(t, int64(77), got.Int64())
}

// ---------------------------------------------------------------------------
// writes
// ---------------------------------------------------------------------------

func newTestWriter(t *testing.T, node *fakeNode) *Writer {
	t.Helper()
	w, err := NewWriter(node, newKeySigner(t), 97, dappAddr, chain.MustParseEther(config.DefaultActivationFee),
		WithWriterLogger(zaptest.NewLogger(t)))
	require.NoError(t, err)
	return w
}

func TestNewWriterRequiresSigner(t *testing.T) {
	_, err := NewWriter(newFakeNode(), nil, 97, dappAddr, big.NewInt(1))
	assert.ErrorIs(t, err, ErrNoSigner)
}

func TestActivateMiningBuildsPayableTx(t *testing.T) {
	node := newFakeNode()
	w := newTestWriter(t, node)

	hash, err := w.ActivateMining(context.Background(), refAddr)
	require.NoError(t, err)
	require.Len(t, node.sent, 1)

	tx := decodeSent(t, node.sent[0])
	assert.Equal(t, hash, tx.Hash())
	assert.Equal(t, uint8(types.DynamicFeeTxType), tx.Type())
	assert.Equal(t, big.NewInt(97), tx.ChainId())
	assert.Equal(t, dappAddr, *tx.To())
	assert.Equal(t, chain.MustParseEther("0.01"), tx.Value())
	assert.Equal(t, uint64(7), tx.Nonce())
	assert.Equal(t, uint64(120_000), tx.Gas(), "estimate plus 20%")
	assert.Equal(t, node.fees.FeeCap, tx.GasFeeCap())

	args, err := w.abi.Methods[fnActivateMining].Inputs.Unpack(tx.Data()[4:])
	require.NoError(t, err)
	assert.Equal(t, refAddr, args[0])

	from, err := types.Sender(types.NewLondonSigner(big.NewInt(97)), tx)
	require.NoError(t, err)
	assert.Equal(t, w.From(), from)
}

func TestActivateMiningZeroReferrer(t *testing.T) {
	node := newFakeNode()
	w := newTestWriter(t, node)

	_, err := w.ActivateMining(context.Background(), common.Address{})
	require.NoError(t, err)
	tx := decodeSent(t, node.sent[0])
	args, err := w.abi.Methods[fnActivateMining].Inputs.Unpack(tx.Data()[4:])
	require.NoError(t, err)
	assert.Equal(t, common.Address{}, args[0])
}

func TestClaimMiningRewards(t *testing.T) {
	node := newFakeNode()
	node.estErr = errors.New("estimate unavailable")
	w := newTestWriter(t, node)

	_, err := w.ClaimMiningRewards(context.Background())
	require.NoError(t, err)

	tx := decodeSent(t, node.sent[0])
	assert.Equal(t, 0, tx.Value().Sign())
	assert.Equal(t, config.GasLimitClaim, tx.Gas(), "falls back to fixed limit")
	assert.Equal(t, w.abi.Methods[fnClaimRewards].ID, tx.Data()[:4])
}

func TestWriterLegacyFees(t *testing.T) {
	node := newFakeNode()
	node.fees = &chain.Fees{GasPrice: big.NewInt(5), TipCap: big.NewInt(5), FeeCap: big.NewInt(5)}
	w := newTestWriter(t, node)

	_, err := w.ClaimMiningRewards(context.Background())
	require.NoError(t, err)
	tx := decodeSent(t, node.sent[0])
	assert.Equal(t, uint8(types.LegacyTxType), tx.Type())
	assert.Equal(t, big.NewInt(5), tx.GasPrice())
	assert.Equal(t, big.NewInt(97), tx.ChainId())
}

func TestActivateReferrerNotActivated(t *testing.T) {
	node := newFakeNode()
	node.callErr = &chain.RPCError{Code: 3, Message: "execution reverted", Data: revertData(t, "Referrer not activated")}
	w := newTestWriter(t, node)

	_, err := w.ActivateMining(context.Background(), refAddr)
	require.Error(t, err)
	assert.Zero(t, node.sendCalls, "nothing broadcast after a failed simulation")

	var rev *RevertError
	require.ErrorAs(t, err, &rev)
	assert.Equal(t, "Referrer not activated", rev.Reason)
	assert.True(t, IsReferrerNotActivated(err))
	assert.Equal(t, "推荐人未激活！", Humanize(err, "推荐人未激活！"))

	assert.ErrorAs(t, w.Simulate(context.Background(), refAddr), &rev)
}

// ---------------------------------------------------------------------------
// errors
// ---------------------------------------------------------------------------

func TestDecodeRevert(t *testing.T) {
	raw, err := hex.DecodeString(strings.TrimPrefix(revertData(t, "Already activated"), "0x"))
	require.NoError(t, err)
	reason, ok := DecodeRevert(raw)
	require.True(t, ok)
	assert.Equal(t, "Already activated", reason)

	_, ok = DecodeRevert([]byte{1, 2, 3, 4, 5})
	assert.False(t, ok)
	_, ok = DecodeRevert(nil)
	assert.False(t, ok)
}

func TestAsRevertFromMessage(t *testing.T) {
	err := asRevert(&chain.RPCError{Code: -32000, Message: "execution reverted: Referrer not activated"})
	var rev *RevertError
	require.ErrorAs(t, err, &rev)
	assert.Equal(t, "Referrer not activated", rev.Reason)

	plain := errors.New("timeout")
	assert.Same(t, plain, asRevert(plain))

	rpcErr := &chain.RPCError{Code: -32000, Message: "insufficient funds for gas * price + value"}
	assert.Equal(t, error(rpcErr), asRevert(rpcErr))
}

func TestHumanize(t *testing.T) {
	assert.Equal(t, "", Humanize(nil, "x"))
	assert.Equal(t, "user rejected", Humanize(errors.New("user rejected"), "x"))
	assert.Equal(t, "x", Humanize(errors.New("rpc: Referrer not activated"), "x"))
}
