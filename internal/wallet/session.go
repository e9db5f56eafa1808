package wallet

import (
	"context"
	"fmt"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"
)

// Status is the connection state of a Session.
type Status int

const (
	StatusDisconnected Status = iota
	StatusConnecting
	StatusReconnecting
	StatusConnected
)

func (s Status) String() string {
	switch s {
	case StatusConnecting:
		return "connecting"
	case StatusReconnecting:
		return "reconnecting"
	case StatusConnected:
		return "connected"
	default:
		return "disconnected"
	}
}

// WalletSession is a point-in-time view of the connection.
type WalletSession struct {
	Wallet  string
	Address *common.Address
	ChainID int64
	Status  Status
}

// SessionEvent carries the session state after a change. Err is set when a
// connection attempt failed.
type SessionEvent struct {
	Session WalletSession
	Err     error
}

// ChainReader reports the chain the connector is attached to.
type ChainReader interface {
	ChainID(ctx context.Context) (int64, error)
}

// Session is the local connector: it unlocks a stored signing wallet and
// publishes every status change on Events. Connect and friends return at
// once; the outcome arrives as an event.
type Session struct {
	mgr   *Manager
	chain ChainReader
	cache *SessionCache
	log   *zap.Logger

	mu       sync.Mutex
	snap     WalletSession
	signer   *Signer
	selected string
	gen      uint64

	pubMu  sync.Mutex
	events chan SessionEvent
}

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithSessionCache enables reconnect-on-start.
func WithSessionCache(c *SessionCache) SessionOption {
	return func(s *Session) { s.cache = c }
}

// WithSessionLogger sets the logger.
func WithSessionLogger(l *zap.Logger) SessionOption {
	return func(s *Session) { s.log = l.Named("session") }
}

// WithWallet selects the wallet Connect will use. Empty means the default.
func WithWallet(name string) SessionOption {
	return func(s *Session) { s.selected = name }
}

// NewSession builds a disconnected session.
func NewSession(mgr *Manager, chain ChainReader, opts ...SessionOption) *Session {
	s := &Session{
		mgr:    mgr,
		chain:  chain,
		log:    zap.NewNop(),
		events: make(chan SessionEvent, 16),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Events delivers session changes in order. When the consumer falls behind
// the oldest undelivered events are dropped; each one carries a full
// snapshot, so the latest state is never lost.
func (s *Session) Events() <-chan SessionEvent { return s.events }

// Snapshot returns the current state.
func (s *Session) Snapshot() WalletSession {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snap
}

// Signer returns the unlocked signer, or nil when not connected.
func (s *Session) Signer() *Signer {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.snap.Status != StatusConnected {
		return nil
	}
	return s.signer
}

// Connect starts connecting the selected wallet.
func (s *Session) Connect(ctx context.Context) {
	s.mu.Lock()
	name := s.selected
	s.mu.Unlock()
	s.start(ctx, name, StatusConnecting)
}

// Reconnect resumes the wallet remembered by the session cache. It reports
// false, and does nothing, when nothing is remembered.
func (s *Session) Reconnect(ctx context.Context) bool {
	name, ok := s.cache.Last()
	if !ok {
		return false
	}
	s.mu.Lock()
	s.selected = name
	s.mu.Unlock()
	s.start(ctx, name, StatusReconnecting)
	return true
}

// SwitchAccount connects to another stored wallet. Any in-flight attempt is
// superseded.
func (s *Session) SwitchAccount(ctx context.Context, name string) {
	s.mu.Lock()
	s.selected = name
	s.mu.Unlock()
	s.start(ctx, name, StatusConnecting)
}

// Disconnect drops the signer and forgets the cached session.
func (s *Session) Disconnect() {
	s.mu.Lock()
	s.gen++
	s.signer = nil
	s.snap = WalletSession{Status: StatusDisconnected}
	snap := s.snap
	s.mu.Unlock()

	if err := s.cache.Forget(); err != nil {
		s.log.Warn("forgetting session", zap.Error(err))
	}
	s.log.Info("disconnected")
	s.publish(SessionEvent{Session: snap})
}

func (s *Session) start(ctx context.Context, name string, status Status) {
	s.mu.Lock()
	s.gen++
	gen := s.gen
	s.signer = nil
	s.snap = WalletSession{Wallet: name, Status: status}
	snap := s.snap
	s.mu.Unlock()

	s.publish(SessionEvent{Session: snap})
	go s.connect(ctx, gen, name)
}

func (s *Session) connect(ctx context.Context, gen uint64, name string) {
	signer, chainID, err := s.unlock(ctx, name)

	s.mu.Lock()
	if gen != s.gen {
		s.mu.Unlock()
		return // superseded
	}
	if err != nil {
		s.snap = WalletSession{Status: StatusDisconnected}
	} else {
		addr := signer.Address()
		s.signer = signer
		s.snap = WalletSession{
			Wallet:  signer.Name(),
			Address: &addr,
			ChainID: chainID,
			Status:  StatusConnected,
		}
	}
	snap := s.snap
	s.mu.Unlock()

	if err != nil {
		s.log.Warn("connect failed", zap.String("wallet", name), zap.Error(err))
		s.publish(SessionEvent{Session: snap, Err: err})
		return
	}
	if cerr := s.cache.Remember(snap.Wallet); cerr != nil {
		s.log.Warn("caching session", zap.Error(cerr))
	}
	s.log.Info("connected",
		zap.String("wallet", snap.Wallet),
		zap.String("address", snap.Address.Hex()),
		zap.Int64("chain_id", chainID))
	s.publish(SessionEvent{Session: snap})
}

func (s *Session) unlock(ctx context.Context, name string) (*Signer, int64, error) {
	w, err := s.mgr.Resolve(name)
	if err != nil {
		return nil, 0, err
	}
	signer, err := NewSigner(w, s.mgr.Keystore())
	if err != nil {
		return nil, 0, err
	}
	chainID, err := s.chain.ChainID(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("reading chain: %w", err)
	}
	if err := handshake(signer, chainID); err != nil {
		return nil, 0, err
	}
	return signer, chainID, nil
}

func (s *Session) publish(ev SessionEvent) {
	s.pubMu.Lock()
	defer s.pubMu.Unlock()
	for {
		select {
		case s.events <- ev:
			return
		default:
		}
		select {
		case <-s.events:
		default:
		}
	}
}
