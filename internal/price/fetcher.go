package price

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/big"
	"net/http"
	"strings"
	"time"
)

const defaultBaseURL = "https://api.coingecko.com/api/v3"

// ErrNoMarket is returned for testnet and local chains, whose coins have no
// price.
var ErrNoMarket = errors.New("no market price on testnets")

// Fetcher retrieves native coin prices from CoinGecko.
type Fetcher struct {
	client   *http.Client
	baseURL  string
	currency string
}

// NewFetcher creates a price fetcher quoting in currency (default usd).
func NewFetcher(currency string) *Fetcher {
	if currency == "" {
		currency = "usd"
	}
	return &Fetcher{
		client:   &http.Client{Timeout: 10 * time.Second},
		baseURL:  defaultBaseURL,
		currency: strings.ToLower(currency),
	}
}

// Currency returns the quote currency, lowercased.
func (f *Fetcher) Currency() string { return f.currency }

// coinGeckoIDs maps registry network names to CoinGecko coin IDs.
var coinGeckoIDs = map[string]string{
	"bnb":      "binancecoin",
	"opbnb":    "binancecoin",
	"ethereum": "ethereum",
}

// NativePrice returns the price of a network's native coin. Only mainnet
// deployments have one.
func (f *Fetcher) NativePrice(ctx context.Context, network, mode string) (float64, error) {
	if mode != "mainnet" {
		return 0, ErrNoMarket
	}
	id, ok := coinGeckoIDs[strings.ToLower(network)]
	if !ok {
		return 0, fmt.Errorf("no price source for network %q", network)
	}
	prices, err := f.fetch(ctx, id)
	if err != nil {
		return 0, err
	}
	p, ok := prices[id]
	if !ok {
		return 0, fmt.Errorf("price not available for: %s", id)
	}
	return p, nil
}

// Value converts a wei amount at price into the quote currency.
func Value(wei *big.Int, price float64) float64 {
	if wei == nil {
		return 0
	}
	eth, _ := new(big.Float).Quo(new(big.Float).SetInt(wei), big.NewFloat(1e18)).Float64()
	return eth * price
}

func (f *Fetcher) fetch(ctx context.Context, ids ...string) (map[string]float64, error) {
	url := fmt.Sprintf("%s/simple/price?ids=%s&vs_currencies=%s",
		f.baseURL, strings.Join(ids, ","), f.currency)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching prices: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetching prices: HTTP %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading price response: %w", err)
	}

	// {"binancecoin":{"usd":612.3}}
	var raw map[string]map[string]float64
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("parsing price response: %w", err)
	}
	prices := make(map[string]float64)
	for id, quotes := range raw {
		if p, ok := quotes[f.currency]; ok {
			prices[id] = p
		}
	}
	return prices, nil
}
