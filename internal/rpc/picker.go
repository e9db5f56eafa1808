package rpc

import (
	"errors"
	"fmt"
	"sync"
	"time"
)

// ErrNoHealthyRPC is returned when no healthy RPC endpoint is available.
var ErrNoHealthyRPC = errors.New("no healthy RPC endpoint available")

// Algorithm defines how an RPC endpoint is selected.
type Algorithm string

const (
	AlgorithmFastest    Algorithm = "fastest"
	AlgorithmRoundRobin Algorithm = "round-robin"
	AlgorithmFailover   Algorithm = "failover"

	// Discard nodes more than this many blocks behind the best.
	staleBlockThreshold = 3
)

// ParseAlgorithm maps a config value to an Algorithm. Empty means fastest.
func ParseAlgorithm(s string) (Algorithm, error) {
	switch Algorithm(s) {
	case "", AlgorithmFastest:
		return AlgorithmFastest, nil
	case AlgorithmRoundRobin, AlgorithmFailover:
		return Algorithm(s), nil
	}
	return "", fmt.Errorf("unknown rpc algorithm %q", s)
}

// Endpoint represents a single RPC endpoint with its measured attributes.
type Endpoint struct {
	URL         string
	Latency     time.Duration
	BlockNumber uint64
	ChainID     int64
	Err         error // non-nil when the probe failed or the chain did not match
}

// Healthy reports whether the last probe succeeded.
func (e Endpoint) Healthy() bool { return e.Err == nil }

// Picker selects an RPC endpoint according to the configured algorithm.
type Picker struct {
	algo    Algorithm
	mu      sync.Mutex
	rrIndex int
}

// NewPicker creates a new Picker with the given algorithm.
func NewPicker(algo Algorithm) *Picker {
	return &Picker{algo: algo}
}

// Pick selects an endpoint from the provided list according to the algorithm.
func (p *Picker) Pick(endpoints []Endpoint) (Endpoint, error) {
	healthy := make([]Endpoint, 0, len(endpoints))
	for _, e := range endpoints {
		if e.Healthy() {
			healthy = append(healthy, e)
		}
	}
	if len(healthy) == 0 {
		return Endpoint{}, ErrNoHealthyRPC
	}

	switch p.algo {
	case AlgorithmRoundRobin:
		p.mu.Lock()
		defer p.mu.Unlock()
		idx := p.rrIndex % len(healthy)
		p.rrIndex = idx + 1
		return healthy[idx], nil
	case AlgorithmFailover:
		// First healthy endpoint in configuration order.
		return healthy[0], nil
	default:
		return pickFastest(healthy)
	}
}

func pickFastest(healthy []Endpoint) (Endpoint, error) {
	var bestBlock uint64
	for _, e := range healthy {
		bestBlock = max(bestBlock, e.BlockNumber)
	}

	var (
		winner    Endpoint
		found     bool
		bestScore float64
	)
	for _, e := range healthy {
		if bestBlock-e.BlockNumber > staleBlockThreshold {
			continue
		}
		if s := score(e, bestBlock); !found || s > bestScore {
			winner, bestScore, found = e, s, true
		}
	}
	if !found {
		return Endpoint{}, ErrNoHealthyRPC
	}
	return winner, nil
}

// score rewards low latency and penalises every block behind the tip.
func score(e Endpoint, bestBlock uint64) float64 {
	var s float64
	if ms := e.Latency.Milliseconds(); ms > 0 {
		s += 1000.0 / float64(ms)
	} else {
		s += 1000.0
	}
	s -= float64(bestBlock - e.BlockNumber)
	return s
}
