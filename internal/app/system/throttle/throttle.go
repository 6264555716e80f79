// internal/app/system/throttle/throttle.go
package throttle

import (
	"sync"
	"time"
)

// Policy defaults. Five consecutive failures lock an identity out for
// thirty minutes; any successful login clears the slate immediately.
const (
	DefaultMaxFailures = 5
	DefaultCooldown    = 30 * time.Minute
)

// Tracker counts consecutive failed login attempts per identity and
// answers whether an identity is currently locked out.
// It is safe for concurrent use.
//
// State is process-lifetime only: a restart clears all records, which
// merely weakens throttling until attempts accumulate again.
type Tracker struct {
	mu          sync.Mutex
	records     map[string]*record
	maxFailures int
	cooldown    time.Duration
	now         func() time.Time
}

// record exists only while failureCount > 0; it is deleted, never zeroed.
type record struct {
	count       int
	lastFailure time.Time
}

// Option configures a Tracker.
type Option func(*Tracker)

// WithClock overrides the time source. For tests.
func WithClock(now func() time.Time) Option {
	return func(t *Tracker) { t.now = now }
}

// New creates a Tracker. Non-positive maxFailures or cooldown fall back
// to the defaults.
func New(maxFailures int, cooldown time.Duration, opts ...Option) *Tracker {
	if maxFailures <= 0 {
		maxFailures = DefaultMaxFailures
	}
	if cooldown <= 0 {
		cooldown = DefaultCooldown
	}
	t := &Tracker{
		records:     make(map[string]*record),
		maxFailures: maxFailures,
		cooldown:    cooldown,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Blocked reports whether the identity has reached the failure limit
// within the cool-down window. An elapsed window deletes the record on
// the spot (lazy expiry), so a stale lockout never blocks anyone.
func (t *Tracker) Blocked(identity string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	rec, ok := t.records[identity]
	if !ok {
		return false
	}

	if t.now().Sub(rec.lastFailure) > t.cooldown {
		delete(t.records, identity)
		return false
	}

	return rec.count >= t.maxFailures
}

// RecordFailure notes one failed attempt and returns the post-increment
// count. Callers use the returned value for operator-facing messages
// instead of re-reading shared state.
func (t *Tracker) RecordFailure(identity string) int {
	t.mu.Lock()
	defer t.mu.Unlock()

	rec, ok := t.records[identity]
	if !ok {
		rec = &record{}
		t.records[identity] = rec
	}
	rec.count++
	rec.lastFailure = t.now()
	return rec.count
}

// RecordSuccess clears the identity's failure record regardless of its
// prior state.
func (t *Tracker) RecordSuccess(identity string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.records, identity)
}
