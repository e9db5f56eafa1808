package chain_test

import (
	"math/big"
	"testing"

	"github.com/Mohsinsiddi/minedash/internal/chain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryGetByName(t *testing.T) {
	registry := chain.NewRegistry()

	tests := []struct {
		name    string
		mainnet int64
		testnet int64
	}{
		{"bnb", 56, 97},
		{"ethereum", 1, 11155111},
		{"opbnb", 204, 5611},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := registry.GetByName(tt.name)
			require.NoError(t, err)
			assert.Equal(t, tt.mainnet, c.ID("mainnet"))
			assert.Equal(t, tt.testnet, c.ID("testnet"))
		})
	}
}

func TestRegistryGetByChainID(t *testing.T) {
	registry := chain.NewRegistry()

	c, err := registry.GetByChainID(97)
	require.NoError(t, err)
	assert.Equal(t, "bnb", c.Name)
	assert.Equal(t, "BNB Testnet", c.Label("testnet"))
	assert.Equal(t, "tBNB", c.Currency("testnet"))
	assert.Equal(t, "BNB", c.Currency("mainnet"))
}

func TestRegistryGetUnknownChain(t *testing.T) {
	registry := chain.NewRegistry()
	_, err := registry.GetByName("unknownchain")
	assert.ErrorIs(t, err, chain.ErrChainNotFound)

	_, err = registry.GetByChainID(424242)
	assert.ErrorIs(t, err, chain.ErrChainNotFound)
}

func TestAllChainsHaveRPC(t *testing.T) {
	registry := chain.NewRegistry()
	for _, c := range registry.All() {
		t.Run(c.Name, func(t *testing.T) {
			assert.NotEmpty(t, c.MainnetRPCs, "chain %s has no mainnet RPCs", c.Name)
			assert.NotEmpty(t, c.TestnetRPCs, "chain %s has no testnet RPCs", c.Name)
		})
	}
}

func TestExplorerLinks(t *testing.T) {
	c, err := chain.NewRegistry().GetByName("bnb")
	require.NoError(t, err)
	assert.Equal(t, "https://testnet.bscscan.com/tx/0xabc", c.TxURL("testnet", "0xabc"))
	assert.Equal(t, "https://bscscan.com/address/0xdef", c.AddressURL("mainnet", "0xdef"))
}

// ---------------------------------------------------------------------------
// units
// ---------------------------------------------------------------------------

func TestParseEther(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"0.01", "10000000000000000"},
		{"1", "1000000000000000000"},
		{"0.004", "4000000000000000"},
		{" 2.5 ", "2500000000000000000"},
		{"0", "0"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := chain.ParseEther(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.String())
		})
	}
}

func TestParseEtherRejects(t *testing.T) {
	for _, in := range []string{"", "abc", "-1", "0.0000000000000000001"} {
		_, err := chain.ParseEther(in)
		assert.ErrorIs(t, err, chain.ErrInvalidAmount, in)
	}
}

func TestFormatUnits(t *testing.T) {
	wei, _ := new(big.Int).SetString("1234567890000000000", 10)
	assert.Equal(t, "1.234568", chain.FormatEther(wei, 6))
	assert.Equal(t, "0.000000", chain.FormatEther(nil, 6))
	assert.Equal(t, "1.50", chain.FormatUnits(big.NewInt(1_500_000_000), 9, 2))
	assert.Equal(t, "0.020", chain.FormatUnits(big.NewInt(20), 3, 3))
}

func TestMustParseEtherPanics(t *testing.T) {
	assert.Panics(t, func() { chain.MustParseEther("nope") })
	assert.Equal(t, "10000000000000000", chain.MustParseEther("0.01").String())
}
