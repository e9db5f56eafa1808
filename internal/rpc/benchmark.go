package rpc

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/Mohsinsiddi/minedash/internal/chain"
	"go.uber.org/zap"
)

// ErrWrongChain marks an endpoint that serves a different chain than wanted.
var ErrWrongChain = errors.New("endpoint serves a different chain")

const probeTimeout = 5 * time.Second

// Probe pings url and, when wantChainID is non-zero, checks eth_chainId.
func Probe(ctx context.Context, url string, wantChainID int64) Endpoint {
	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	c := chain.NewEVMClient(url)
	latency, block, err := c.Ping(ctx)
	ep := Endpoint{URL: url, Latency: latency, BlockNumber: block, Err: err}
	if err != nil || wantChainID == 0 {
		return ep
	}

	id, err := c.ChainID(ctx)
	if err != nil {
		ep.Err = err
		return ep
	}
	ep.ChainID = id
	if id != wantChainID {
		ep.Err = fmt.Errorf("%w: got %d, want %d", ErrWrongChain, id, wantChainID)
	}
	return ep
}

// Benchmark probes all urls in parallel. Results keep the input order.
func Benchmark(ctx context.Context, urls []string, wantChainID int64) []Endpoint {
	results := make([]Endpoint, len(urls))
	var wg sync.WaitGroup

	for i, url := range urls {
		wg.Add(1)
		go func(idx int, u string) {
			defer wg.Done()
			results[idx] = Probe(ctx, u, wantChainID)
		}(i, url)
	}

	wg.Wait()
	return results
}

// Selector benchmarks candidate endpoints and picks one.
type Selector struct {
	picker *Picker
	log    *zap.Logger
}

// NewSelector returns a Selector. A nil logger disables logging.
func NewSelector(algo Algorithm, log *zap.Logger) *Selector {
	if log == nil {
		log = zap.NewNop()
	}
	return &Selector{picker: NewPicker(algo), log: log.Named("rpc")}
}

// Select returns the best URL serving wantChainID. A single candidate is
// returned without probing.
func (s *Selector) Select(ctx context.Context, urls []string, wantChainID int64) (string, error) {
	switch len(urls) {
	case 0:
		return "", ErrNoHealthyRPC
	case 1:
		return urls[0], nil
	}

	endpoints := Benchmark(ctx, urls, wantChainID)
	for _, e := range endpoints {
		if e.Healthy() {
			s.log.Debug("endpoint probed",
				zap.String("url", e.URL),
				zap.Duration("latency", e.Latency),
				zap.Uint64("block", e.BlockNumber))
		} else {
			s.log.Warn("endpoint unhealthy", zap.String("url", e.URL), zap.Error(e.Err))
		}
	}

	winner, err := s.picker.Pick(endpoints)
	if err != nil {
		return "", err
	}
	s.log.Info("endpoint selected", zap.String("url", winner.URL), zap.String("algorithm", string(s.picker.algo)))
	return winner.URL, nil
}
