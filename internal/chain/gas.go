package chain

import (
	"context"
	"fmt"
	"math/big"
)

// minTip is the priority fee floor (1 gwei) used when the node has no
// eth_maxPriorityFeePerGas or reports zero.
var minTip = big.NewInt(1_000_000_000)

// Fees holds EIP-1559 fee caps for a new transaction.
type Fees struct {
	BaseFee   *big.Int // nil on legacy chains
	TipCap    *big.Int
	FeeCap    *big.Int
	GasPrice  *big.Int // legacy eth_gasPrice
	IsEIP1559 bool
}

// SuggestFees derives fee caps from the latest block's base fee. On chains
// without a base fee the legacy gas price is used for both caps.
func (c *EVMClient) SuggestFees(ctx context.Context) (*Fees, error) {
	gp, err := c.GasPrice(ctx)
	if err != nil {
		return nil, err
	}
	fees := &Fees{GasPrice: gp, TipCap: gp, FeeCap: gp}

	var block *struct {
		BaseFeePerGas string `json:"baseFeePerGas"`
	}
	if err := c.call(ctx, &block, "eth_getBlockByNumber", "latest", false); err != nil || block == nil {
		return fees, nil
	}
	bf, ok := parseBigHex(block.BaseFeePerGas)
	if !ok {
		return fees, nil
	}

	tip := new(big.Int).Set(minTip)
	var tipHex string
	if err := c.call(ctx, &tipHex, "eth_maxPriorityFeePerGas"); err == nil {
		if t, ok := parseBigHex(tipHex); ok && t.Sign() > 0 {
			tip = t
		}
	}

	// feeCap = 2*baseFee + tip, never below the legacy price.
	feeCap := new(big.Int).Mul(bf, big.NewInt(2))
	feeCap.Add(feeCap, tip)
	if feeCap.Cmp(gp) < 0 {
		feeCap = new(big.Int).Set(gp)
	}

	fees.BaseFee = bf
	fees.TipCap = tip
	fees.FeeCap = feeCap
	fees.IsEIP1559 = true
	return fees, nil
}

// MaxCost returns gas*feeCap + value, the balance the sender must hold.
func (f *Fees) MaxCost(gas uint64, value *big.Int) *big.Int {
	cost := new(big.Int).Mul(new(big.Int).SetUint64(gas), f.FeeCap)
	if value != nil {
		cost.Add(cost, value)
	}
	return cost
}

// String renders the caps in gwei.
func (f *Fees) String() string {
	if !f.IsEIP1559 {
		return fmt.Sprintf("gas price %s gwei", FormatUnits(f.GasPrice, 9, 2))
	}
	return fmt.Sprintf("base %s gwei, tip %s gwei",
		FormatUnits(f.BaseFee, 9, 2), FormatUnits(f.TipCap, 9, 2))
}
