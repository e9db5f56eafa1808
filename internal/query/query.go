// Package query holds the client-side state of one keyed contract read.
//
// A Query never performs I/O. The owner asks it whether a fetch is due,
// runs the fetch elsewhere and feeds the result back; results that no
// longer match the current key or sequence are dropped. Queries are not
// safe for concurrent use and are meant to live inside a single reducer.
package query

import "time"

// Request identifies one fetch. It is handed to the fetching goroutine and
// returned inside the Result.
type Request struct {
	Key string
	Seq uint64
}

// Result carries a fetch outcome back to the query.
type Result[T any] struct {
	Request
	Value T
	Err   error
}

// Ticket is a poll token. It stays valid while the query is enabled for the
// same key and has not been cancelled since the ticket was issued.
type Ticket struct {
	Key string
	Gen uint64
}

// Query is the cached state of one read.
type Query[T any] struct {
	name     string
	interval time.Duration

	key     string
	enabled bool
	seq     uint64
	gen     uint64

	value     T
	hasValue  bool
	err       error
	inFlight  bool
	updatedAt time.Time
}

// Option configures a Query.
type Option func(*options)

type options struct {
	interval time.Duration
}

// WithInterval makes the query poll at d while enabled.
func WithInterval(d time.Duration) Option {
	return func(o *options) { o.interval = d }
}

// New creates a disabled query.
func New[T any](name string, opts ...Option) *Query[T] {
	var o options
	for _, fn := range opts {
		fn(&o)
	}
	return &Query[T]{name: name, interval: o.interval}
}

// Name returns the query name used in logs and metrics.
func (q *Query[T]) Name() string { return q.name }

// Interval returns the poll interval, zero when the query does not poll.
func (q *Query[T]) Interval() time.Duration { return q.interval }

// Key returns the current key.
func (q *Query[T]) Key() string { return q.key }

// Enabled reports whether the query may fetch.
func (q *Query[T]) Enabled() bool { return q.enabled }

// SetKey updates the key and enabled flag and reports whether a fetch must
// be issued now. A key change forgets the cached value, and disabling
// cancels any schedule.
func (q *Query[T]) SetKey(key string, enabled bool) bool {
	if !enabled || key == "" {
		if q.enabled {
			q.gen++
		}
		q.enabled = false
		if key != q.key {
			q.key = key
			q.reset()
		}
		return false
	}
	if key == q.key && q.enabled {
		return false
	}
	if key != q.key {
		q.key = key
		q.reset()
	}
	q.enabled = true
	q.gen++
	return true
}

func (q *Query[T]) reset() {
	var zero T
	q.value = zero
	q.hasValue = false
	q.err = nil
	q.inFlight = false
	q.updatedAt = time.Time{}
}

// Begin stamps a new request. Any request begun earlier becomes stale.
func (q *Query[T]) Begin() Request {
	q.seq++
	q.inFlight = true
	return Request{Key: q.key, Seq: q.seq}
}

// Refetch reports whether an immediate re-issue is allowed, which is the
// case whenever the query is enabled.
func (q *Query[T]) Refetch() bool { return q.enabled }

// Resolve applies r if it belongs to the latest request for the current key
// and reports whether it was applied. A failed fetch keeps the previous
// value and records the error.
func (q *Query[T]) Resolve(r Result[T]) bool {
	if r.Key != q.key || r.Seq != q.seq {
		return false
	}
	q.inFlight = false
	if r.Err != nil {
		q.err = r.Err
		return true
	}
	q.value = r.Value
	q.hasValue = true
	q.err = nil
	q.updatedAt = time.Now()
	return true
}

// Value returns the cached value and whether one has resolved.
func (q *Query[T]) Value() (T, bool) { return q.value, q.hasValue }

// Err returns the error from the latest failed fetch since the last success.
func (q *Query[T]) Err() error { return q.err }

// Loading reports whether a request is in flight.
func (q *Query[T]) Loading() bool { return q.inFlight }

// UpdatedAt returns the time of the last successful resolution.
func (q *Query[T]) UpdatedAt() time.Time { return q.updatedAt }

// Schedule issues a poll ticket. ok is false when the query does not poll
// or is disabled.
func (q *Query[T]) Schedule() (t Ticket, ok bool) {
	if q.interval <= 0 || !q.enabled {
		return Ticket{}, false
	}
	return Ticket{Key: q.key, Gen: q.gen}, true
}

// Valid reports whether a ticket may still trigger a fetch.
func (q *Query[T]) Valid(t Ticket) bool {
	return q.enabled && t.Key == q.key && t.Gen == q.gen
}

// Cancel invalidates every outstanding ticket.
func (q *Query[T]) Cancel() { q.gen++ }
