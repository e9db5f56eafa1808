package contract

import (
	"context"
	"encoding/hex"
	"fmt"
	"math/big"
	"strings"

	"github.com/Mohsinsiddi/minedash/internal/chain"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
)

// CallClient executes read-only contract calls.
type CallClient interface {
	CallContract(ctx context.Context, msg chain.CallMsg) (string, error)
}

// Reader performs the mining contract's view calls.
type Reader struct {
	client   CallClient
	contract common.Address
	layout   Layout
	abi      abi.ABI
}

// NewReader binds a reader to the contract at addr using the users() layout
// named by version.
func NewReader(client CallClient, addr common.Address, version string) (*Reader, error) {
	l, err := LayoutFor(version)
	if err != nil {
		return nil, err
	}
	parsed, err := buildABI(miningEntries(l))
	if err != nil {
		return nil, err
	}
	return &Reader{client: client, contract: addr, layout: l, abi: parsed}, nil
}

// Layout returns the layout the reader decodes with.
func (r *Reader) Layout() Layout { return r.layout }

// Contract returns the bound contract address.
func (r *Reader) Contract() common.Address { return r.contract }

// UserRecord reads users(addr).
func (r *Reader) UserRecord(ctx context.Context, addr common.Address) (UserRecord, error) {
	out, err := call(ctx, r.client, r.abi, r.contract, fnUsers, addr)
	if err != nil {
		return UserRecord{}, err
	}
	return decodeUser(r.abi.Methods[fnUsers].Outputs, out)
}

// PendingReward reads getPendingMmt(addr) in the token's smallest unit.
func (r *Reader) PendingReward(ctx context.Context, addr common.Address) (*big.Int, error) {
	out, err := call(ctx, r.client, r.abi, r.contract, fnPendingReward, addr)
	if err != nil {
		return nil, err
	}
	return firstBig(fnPendingReward, out)
}

// TokenInfo describes an ERC-20 token.
type TokenInfo struct {
	Address  common.Address
	Symbol   string
	Decimals uint8
}

// Token reads ERC-20 metadata and balances.
type Token struct {
	client CallClient
	info   TokenInfo
	abi    abi.ABI
}

// NewToken binds an ERC-20 reader to addr.
func NewToken(client CallClient, addr common.Address) (*Token, error) {
	parsed, err := buildABI(erc20Entries)
	if err != nil {
		return nil, err
	}
	return &Token{client: client, info: TokenInfo{Address: addr, Decimals: 18}, abi: parsed}, nil
}

// Info reads symbol() and decimals() and caches them on the token.
func (t *Token) Info(ctx context.Context) (TokenInfo, error) {
	out, err := call(ctx, t.client, t.abi, t.info.Address, "symbol")
	if err != nil {
		return t.info, err
	}
	sym, ok := out[0].(string)
	if !ok {
		return t.info, fmt.Errorf("symbol(): unexpected %T", out[0])
	}
	out, err = call(ctx, t.client, t.abi, t.info.Address, "decimals")
	if err != nil {
		return t.info, err
	}
	dec, ok := out[0].(uint8)
	if !ok {
		return t.info, fmt.Errorf("decimals(): unexpected %T", out[0])
	}
	t.info.Symbol = sym
	t.info.Decimals = dec
	return t.info, nil
}

// BalanceOf reads balanceOf(owner).
func (t *Token) BalanceOf(ctx context.Context, owner common.Address) (*big.Int, error) {
	out, err := call(ctx, t.client, t.abi, t.info.Address, "balanceOf", owner)
	if err != nil {
		return nil, err
	}
	return firstBig("balanceOf", out)
}

func call(ctx context.Context, client CallClient, parsed abi.ABI, to common.Address, method string, args ...interface{}) ([]interface{}, error) {
	data, err := parsed.Pack(method, args...)
	if err != nil {
		return nil, fmt.Errorf("encoding %s: %w", method, err)
	}
	res, err := client.CallContract(ctx, chain.CallMsg{
		To:   to.Hex(),
		Data: "0x" + hex.EncodeToString(data),
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", method, asRevert(err))
	}
	raw, err := hex.DecodeString(strings.TrimPrefix(res, "0x"))
	if err != nil {
		return nil, fmt.Errorf("%s: bad result %q", method, res)
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("%s: empty result (no contract at %s?)", method, to.Hex())
	}
	out, err := parsed.Methods[method].Outputs.Unpack(raw)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", method, err)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%s: no outputs", method)
	}
	return out, nil
}

func firstBig(method string, out []interface{}) (*big.Int, error) {
	n, ok := out[0].(*big.Int)
	if !ok {
		return nil, fmt.Errorf("%s: unexpected %T", method, out[0])
	}
	return n, nil
}
