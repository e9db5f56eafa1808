package chain

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/big"
	"net/http"
	"strings"
	"sync/atomic"
	"time"
)

// ErrReverted is returned by WaitForReceipt when the mined transaction failed.
var ErrReverted = errors.New("transaction reverted")

// EVMClient is a minimal JSON-RPC client for EVM chains.
type EVMClient struct {
	url    string
	client *http.Client
	nextID atomic.Int64
}

// CallMsg describes an eth_call / eth_estimateGas request.
type CallMsg struct {
	From  string
	To    string
	Data  string // 0x-prefixed calldata
	Value *big.Int
}

func (m CallMsg) params() map[string]string {
	p := map[string]string{"to": m.To}
	if m.From != "" {
		p["from"] = m.From
	}
	if m.Data != "" {
		p["data"] = m.Data
	}
	if m.Value != nil && m.Value.Sign() > 0 {
		p["value"] = "0x" + m.Value.Text(16)
	}
	return p
}

// TxReceipt holds the on-chain receipt of a mined transaction.
type TxReceipt struct {
	Hash        string
	Status      uint64 // 1 = success, 0 = reverted
	BlockNumber uint64
	GasUsed     uint64
}

// Succeeded reports whether the receipt status is 1.
func (r *TxReceipt) Succeeded() bool { return r.Status == 1 }

// RPCError is a JSON-RPC error object. Data carries the raw revert payload
// when the node includes one.
type RPCError struct {
	Code    int
	Message string
	Data    string
}

func (e *RPCError) Error() string {
	return fmt.Sprintf("RPC error %d: %s", e.Code, e.Message)
}

// NewEVMClient creates a new EVM JSON-RPC client pointed at url.
func NewEVMClient(url string) *EVMClient {
	return &EVMClient{
		url: url,
		client: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// URL returns the endpoint the client talks to.
func (c *EVMClient) URL() string { return c.url }

// ChainID returns the chain's ID.
func (c *EVMClient) ChainID(ctx context.Context) (int64, error) {
	n, err := c.callBig(ctx, "eth_chainId")
	if err != nil {
		return 0, fmt.Errorf("chain id: %w", err)
	}
	return n.Int64(), nil
}

// BlockNumber returns the latest block number.
func (c *EVMClient) BlockNumber(ctx context.Context) (uint64, error) {
	n, err := c.callBig(ctx, "eth_blockNumber")
	if err != nil {
		return 0, fmt.Errorf("block number: %w", err)
	}
	return n.Uint64(), nil
}

// Balance returns the native balance of address in wei.
func (c *EVMClient) Balance(ctx context.Context, address string) (*big.Int, error) {
	n, err := c.callBig(ctx, "eth_getBalance", address, "latest")
	if err != nil {
		return nil, fmt.Errorf("balance: %w", err)
	}
	return n, nil
}

// GasPrice returns the current legacy gas price.
func (c *EVMClient) GasPrice(ctx context.Context) (*big.Int, error) {
	n, err := c.callBig(ctx, "eth_gasPrice")
	if err != nil {
		return nil, fmt.Errorf("gas price: %w", err)
	}
	return n, nil
}

// PendingNonce returns the transaction count including queued transactions.
func (c *EVMClient) PendingNonce(ctx context.Context, address string) (uint64, error) {
	n, err := c.callBig(ctx, "eth_getTransactionCount", address, "pending")
	if err != nil {
		return 0, fmt.Errorf("nonce: %w", err)
	}
	return n.Uint64(), nil
}

// EstimateGas estimates gas for msg.
func (c *EVMClient) EstimateGas(ctx context.Context, msg CallMsg) (uint64, error) {
	n, err := c.callBig(ctx, "eth_estimateGas", msg.params())
	if err != nil {
		return 0, fmt.Errorf("estimate gas: %w", err)
	}
	return n.Uint64(), nil
}

// CallContract executes msg against the latest block and returns the raw
// 0x-prefixed return data. A revert surfaces as an *RPCError.
func (c *EVMClient) CallContract(ctx context.Context, msg CallMsg) (string, error) {
	var out string
	if err := c.call(ctx, &out, "eth_call", msg.params(), "latest"); err != nil {
		return "", err
	}
	return out, nil
}

// SendRawTransaction broadcasts a signed raw transaction and returns its hash.
func (c *EVMClient) SendRawTransaction(ctx context.Context, rawTx string) (string, error) {
	var hash string
	if err := c.call(ctx, &hash, "eth_sendRawTransaction", rawTx); err != nil {
		return "", err
	}
	return hash, nil
}

// GetTransactionReceipt fetches the receipt for hash.
// Returns nil, nil if the transaction is still pending.
func (c *EVMClient) GetTransactionReceipt(ctx context.Context, hash string) (*TxReceipt, error) {
	var r *struct {
		Status      string `json:"status"`
		BlockNumber string `json:"blockNumber"`
		GasUsed     string `json:"gasUsed"`
	}
	if err := c.call(ctx, &r, "eth_getTransactionReceipt", hash); err != nil {
		return nil, err
	}
	if r == nil {
		return nil, nil // still pending
	}

	receipt := &TxReceipt{Hash: hash}
	if s, ok := parseBigHex(r.Status); ok {
		receipt.Status = s.Uint64()
	}
	if bn, ok := parseBigHex(r.BlockNumber); ok {
		receipt.BlockNumber = bn.Uint64()
	}
	if gu, ok := parseBigHex(r.GasUsed); ok {
		receipt.GasUsed = gu.Uint64()
	}
	return receipt, nil
}

// WaitForReceipt polls every interval until the transaction is mined or ctx
// is done. There is no built-in deadline. A reverted receipt is returned
// together with ErrReverted.
func (c *EVMClient) WaitForReceipt(ctx context.Context, hash string, interval time.Duration) (*TxReceipt, error) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		receipt, err := c.GetTransactionReceipt(ctx, hash)
		if err != nil && ctx.Err() != nil {
			return nil, ctx.Err()
		}
		// Transient lookup errors are retried on the next tick.
		if err == nil && receipt != nil {
			if !receipt.Succeeded() {
				return receipt, fmt.Errorf("%w (hash: %s)", ErrReverted, hash)
			}
			return receipt, nil
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}
}

// Ping tests the RPC endpoint and returns latency + block number.
func (c *EVMClient) Ping(ctx context.Context) (latency time.Duration, blockNum uint64, err error) {
	start := time.Now()
	n, err := c.callBig(ctx, "eth_blockNumber")
	latency = time.Since(start)
	if err != nil {
		return latency, 0, err
	}
	return latency, n.Uint64(), nil
}

// --- internal JSON-RPC plumbing ---

type rpcRequest struct {
	JSONRPC string        `json:"jsonrpc"`
	Method  string        `json:"method"`
	Params  []interface{} `json:"params"`
	ID      int64         `json:"id"`
}

type rpcResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      int64           `json:"id"`
	Result  json.RawMessage `json:"result"`
	Error   *rpcError       `json:"error"`
}

type rpcError struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func (e *rpcError) toError() *RPCError {
	out := &RPCError{Code: e.Code, Message: e.Message}
	if len(e.Data) == 0 {
		return out
	}
	// Most nodes send the revert payload as a hex string; some wrap it.
	var s string
	if json.Unmarshal(e.Data, &s) == nil {
		out.Data = s
		return out
	}
	var obj struct {
		Data string `json:"data"`
	}
	if json.Unmarshal(e.Data, &obj) == nil {
		out.Data = obj.Data
	}
	return out
}

func (c *EVMClient) call(ctx context.Context, out interface{}, method string, params ...interface{}) error {
	if params == nil {
		params = []interface{}{}
	}
	reqBody, err := json.Marshal(rpcRequest{
		JSONRPC: "2.0",
		Method:  method,
		Params:  params,
		ID:      c.nextID.Add(1),
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(reqBody))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("RPC request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}

	var rpcResp rpcResponse
	if err := json.Unmarshal(body, &rpcResp); err != nil {
		return fmt.Errorf("parsing response: %w", err)
	}
	if rpcResp.Error != nil {
		return rpcResp.Error.toError()
	}
	if out == nil || len(rpcResp.Result) == 0 {
		return nil
	}
	if err := json.Unmarshal(rpcResp.Result, out); err != nil {
		return fmt.Errorf("parsing result: %w", err)
	}
	return nil
}

func (c *EVMClient) callBig(ctx context.Context, method string, params ...interface{}) (*big.Int, error) {
	var hexStr string
	if err := c.call(ctx, &hexStr, method, params...); err != nil {
		return nil, err
	}
	n, ok := parseBigHex(hexStr)
	if !ok {
		return nil, fmt.Errorf("could not parse %s result: %q", method, hexStr)
	}
	return n, nil
}

func parseBigHex(s string) (*big.Int, bool) {
	s = strings.TrimPrefix(s, "0x")
	if s == "" {
		return nil, false
	}
	return new(big.Int).SetString(s, 16)
}
