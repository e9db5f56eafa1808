package sync

import (
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
)

// ErrTxPending is returned by Submit while a write of the same kind is
// still awaiting its hash or confirmation.
var ErrTxPending = errors.New("transaction already pending")

// Kind names a write operation. Each kind owns independent state.
type Kind string

const (
	KindActivate Kind = "activate"
	KindClaim    Kind = "claim"
)

// Phase is the lifecycle stage of one write.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseSubmitting
	PhaseSubmitted
	PhaseConfirmed
	PhaseFailed
)

func (p Phase) String() string {
	switch p {
	case PhaseSubmitting:
		return "submitting"
	case PhaseSubmitted:
		return "submitted"
	case PhaseConfirmed:
		return "confirmed"
	case PhaseFailed:
		return "failed"
	default:
		return "idle"
	}
}

// TxState is the visible state of one write kind.
type TxState struct {
	Kind      Kind
	Phase     Phase
	Hash      *common.Hash
	Err       string
	Confirmed bool
}

// Pending reports whether the write is waiting on the network.
func (s TxState) Pending() bool {
	return s.Phase == PhaseSubmitting || s.Phase == PhaseSubmitted
}

// Effect is a follow-up the owner must perform after a transition.
type Effect int

const (
	RefetchUserRecord Effect = iota + 1
	RefetchPendingReward
	ResetActivate
)

func (e Effect) String() string {
	switch e {
	case RefetchUserRecord:
		return "refetch-user"
	case RefetchPendingReward:
		return "refetch-pending"
	case ResetActivate:
		return "reset-activate"
	default:
		return fmt.Sprintf("effect(%d)", int(e))
	}
}

// Controller tracks the activate and claim writes. It performs no I/O; the
// owner feeds it submission and confirmation outcomes.
type Controller struct {
	states   map[Kind]*TxState
	humanize func(error) string
}

// NewController returns a controller with both kinds idle. humanize turns
// write errors into display text; nil shows errors verbatim.
func NewController(humanize func(error) string) *Controller {
	if humanize == nil {
		humanize = func(err error) string { return err.Error() }
	}
	return &Controller{
		states: map[Kind]*TxState{
			KindActivate: {Kind: KindActivate},
			KindClaim:    {Kind: KindClaim},
		},
		humanize: humanize,
	}
}

func (c *Controller) state(k Kind) *TxState {
	s, ok := c.states[k]
	if !ok {
		s = &TxState{Kind: k}
		c.states[k] = s
	}
	return s
}

// State returns a copy of the state for k.
func (c *Controller) State(k Kind) TxState {
	s := *c.state(k)
	if s.Hash != nil {
		h := *s.Hash
		s.Hash = &h
	}
	return s
}

// Submit moves k to submitting. It is refused while k is pending.
func (c *Controller) Submit(k Kind) error {
	s := c.state(k)
	if s.Pending() {
		return fmt.Errorf("%w: %s", ErrTxPending, k)
	}
	*s = TxState{Kind: k, Phase: PhaseSubmitting}
	return nil
}

// Submitted records the hash accepted by the node.
func (c *Controller) Submitted(k Kind, hash common.Hash) {
	s := c.state(k)
	if s.Phase != PhaseSubmitting {
		return
	}
	s.Phase = PhaseSubmitted
	s.Hash = &hash
}

// Failed records a submission error.
func (c *Controller) Failed(k Kind, err error) {
	s := c.state(k)
	if s.Phase != PhaseSubmitting {
		return
	}
	s.Phase = PhaseFailed
	s.Err = c.humanize(err)
}

// Confirmed records a successful receipt for hash and returns the effects
// the owner must run. Activation resets to idle; claim keeps its hash.
// A hash that is not the current one yields nothing.
func (c *Controller) Confirmed(k Kind, hash common.Hash) []Effect {
	s := c.state(k)
	if !c.current(s, hash) {
		return nil
	}
	effects := []Effect{RefetchUserRecord, RefetchPendingReward}
	if k == KindActivate {
		*s = TxState{Kind: k}
		return append(effects, ResetActivate)
	}
	s.Phase = PhaseConfirmed
	s.Confirmed = true
	return effects
}

// Reverted records a mined transaction with failed status.
func (c *Controller) Reverted(k Kind, hash common.Hash) {
	s := c.state(k)
	if !c.current(s, hash) {
		return
	}
	s.Phase = PhaseFailed
	s.Err = "transaction reverted"
}

// Reset returns k to idle unless it is pending.
func (c *Controller) Reset(k Kind) {
	s := c.state(k)
	if s.Pending() {
		return
	}
	*s = TxState{Kind: k}
}

func (c *Controller) current(s *TxState, hash common.Hash) bool {
	return s.Phase == PhaseSubmitted && s.Hash != nil && *s.Hash == hash
}
