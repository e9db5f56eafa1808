package chain

import (
	"errors"
	"strings"
)

// ErrChainNotFound is returned when a chain is not in the registry.
var ErrChainNotFound = errors.New("chain not found")

// Chain holds all metadata for a single EVM chain.
type Chain struct {
	Name            string   `json:"name"`
	DisplayName     string   `json:"display_name"`
	ChainID         int64    `json:"chain_id"`
	TestnetChainID  int64    `json:"testnet_chain_id"`
	NativeCurrency  string   `json:"native_currency"`
	MainnetRPCs     []string `json:"mainnet_rpcs"`
	TestnetRPCs     []string `json:"testnet_rpcs"`
	MainnetExplorer string   `json:"mainnet_explorer"`
	TestnetExplorer string   `json:"testnet_explorer"`
	TestnetName     string   `json:"testnet_name"`
	TestnetCurrency string   `json:"testnet_currency"`
	FaucetURL       string   `json:"faucet_url,omitempty"`
}

// Registry is the chain registry.
type Registry struct {
	chains []Chain
	byName map[string]*Chain
	byID   map[int64]*Chain
}

// NewRegistry returns the registry of supported chains.
func NewRegistry() *Registry {
	chains := allChains()
	r := &Registry{
		chains: chains,
		byName: make(map[string]*Chain, len(chains)),
		byID:   make(map[int64]*Chain, len(chains)*2),
	}
	for i := range r.chains {
		c := &r.chains[i]
		r.byName[c.Name] = c
		r.byID[c.ChainID] = c
		if c.TestnetChainID != 0 {
			r.byID[c.TestnetChainID] = c
		}
	}
	return r
}

// All returns every chain in the registry.
func (r *Registry) All() []Chain {
	return r.chains
}

// GetByName finds a chain by its slug name (e.g. "bnb", "ethereum").
func (r *Registry) GetByName(name string) (*Chain, error) {
	c, ok := r.byName[strings.ToLower(name)]
	if !ok {
		return nil, ErrChainNotFound
	}
	return c, nil
}

// GetByChainID finds a chain by mainnet or testnet chain ID.
func (r *Registry) GetByChainID(id int64) (*Chain, error) {
	c, ok := r.byID[id]
	if !ok {
		return nil, ErrChainNotFound
	}
	return c, nil
}

// RPCs returns the RPC list for a chain in the given mode ("mainnet"/"testnet").
func (c *Chain) RPCs(mode string) []string {
	if mode == "testnet" {
		return c.TestnetRPCs
	}
	return c.MainnetRPCs
}

// Explorer returns the explorer URL for a chain in the given mode.
func (c *Chain) Explorer(mode string) string {
	if mode == "testnet" {
		return c.TestnetExplorer
	}
	return c.MainnetExplorer
}

// ID returns the chain ID for mode.
func (c *Chain) ID(mode string) int64 {
	if mode == "testnet" {
		return c.TestnetChainID
	}
	return c.ChainID
}

// Label returns the human network name for mode, e.g. "BNB Testnet".
func (c *Chain) Label(mode string) string {
	if mode == "testnet" && c.TestnetName != "" {
		return c.TestnetName
	}
	return c.DisplayName
}

// Currency returns the native currency symbol for mode, e.g. "tBNB".
func (c *Chain) Currency(mode string) string {
	if mode == "testnet" && c.TestnetCurrency != "" {
		return c.TestnetCurrency
	}
	return c.NativeCurrency
}

// TxURL links to a transaction on the explorer.
func (c *Chain) TxURL(mode, hash string) string {
	return c.Explorer(mode) + "/tx/" + hash
}

// AddressURL links to an address on the explorer.
func (c *Chain) AddressURL(mode, addr string) string {
	return c.Explorer(mode) + "/address/" + addr
}

// --- chain data ---

func allChains() []Chain {
	return []Chain{
		{
			Name: "bnb", DisplayName: "BNB Chain", ChainID: 56, TestnetChainID: 97,
			NativeCurrency:  "BNB",
			MainnetRPCs:     []string{"https://bsc-dataseed.binance.org", "https://bsc-rpc.publicnode.com"},
			TestnetRPCs:     []string{"https://data-seed-prebsc-1-s1.binance.org:8545", "https://bsc-testnet-rpc.publicnode.com"},
			MainnetExplorer: "https://bscscan.com",
			TestnetExplorer: "https://testnet.bscscan.com",
			TestnetName:     "BNB Testnet",
			TestnetCurrency: "tBNB",
			FaucetURL:       "https://www.bnbchain.org/en/testnet-faucet",
		},
		{
			Name: "ethereum", DisplayName: "Ethereum", ChainID: 1, TestnetChainID: 11155111,
			NativeCurrency:  "ETH",
			MainnetRPCs:     []string{"https://eth.llamarpc.com", "https://ethereum-rpc.publicnode.com"},
			TestnetRPCs:     []string{"https://ethereum-sepolia-rpc.publicnode.com", "https://rpc.sepolia.org"},
			MainnetExplorer: "https://etherscan.io",
			TestnetExplorer: "https://sepolia.etherscan.io",
			TestnetName:     "Sepolia",
			TestnetCurrency: "SepoliaETH",
		},
		{
			Name: "opbnb", DisplayName: "opBNB", ChainID: 204, TestnetChainID: 5611,
			NativeCurrency:  "BNB",
			MainnetRPCs:     []string{"https://opbnb-mainnet-rpc.bnbchain.org", "https://opbnb-rpc.publicnode.com"},
			TestnetRPCs:     []string{"https://opbnb-testnet-rpc.bnbchain.org"},
			MainnetExplorer: "https://opbnb.bscscan.com",
			TestnetExplorer: "https://opbnb-testnet.bscscan.com",
			TestnetName:     "opBNB Testnet",
			TestnetCurrency: "tBNB",
		},
		{
			Name: "local", DisplayName: "Localhost", ChainID: 1337, TestnetChainID: 31337,
			NativeCurrency: "ETH",
			MainnetRPCs:    []string{"http://127.0.0.1:8545"},
			TestnetRPCs:    []string{"http://127.0.0.1:8545"},
			TestnetName:    "Hardhat",
		},
	}
}
