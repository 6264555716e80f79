package throttle_test

import (
	"sync"
	"testing"
	"time"

	"github.com/dalemusser/ledgerhub/internal/app/system/throttle"
)

// fakeClock is a settable time source for deterministic window tests.
type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

func TestBlocked_AfterMaxFailures(t *testing.T) {
	clock := newFakeClock()
	tr := throttle.New(5, 30*time.Minute, throttle.WithClock(clock.Now))

	for i := 1; i <= 4; i++ {
		if got := tr.RecordFailure("a@x.com"); got != i {
			t.Fatalf("RecordFailure #%d: got count %d, want %d", i, got, i)
		}
		if tr.Blocked("a@x.com") {
			t.Fatalf("blocked after %d failures, want unblocked below limit", i)
		}
	}

	if got := tr.RecordFailure("a@x.com"); got != 5 {
		t.Fatalf("RecordFailure #5: got count %d, want 5", got)
	}
	if !tr.Blocked("a@x.com") {
		t.Error("expected blocked after 5 failures within the window")
	}

	// Other identities are unaffected.
	if tr.Blocked("b@x.com") {
		t.Error("unrelated identity should not be blocked")
	}
}

func TestBlocked_CooldownElapsedClearsRecord(t *testing.T) {
	clock := newFakeClock()
	tr := throttle.New(5, 30*time.Minute, throttle.WithClock(clock.Now))

	for i := 0; i < 5; i++ {
		tr.RecordFailure("a@x.com")
	}
	if !tr.Blocked("a@x.com") {
		t.Fatal("expected blocked")
	}

	// Just inside the window: still blocked.
	clock.Advance(30 * time.Minute)
	if !tr.Blocked("a@x.com") {
		t.Error("expected blocked at exactly the cool-down boundary")
	}

	// Past the window: lazily cleared.
	clock.Advance(time.Second)
	if tr.Blocked("a@x.com") {
		t.Error("expected unblocked after the cool-down elapsed")
	}

	// The record was deleted, so the next failure starts a fresh count.
	if got := tr.RecordFailure("a@x.com"); got != 1 {
		t.Errorf("count after expiry: got %d, want 1", got)
	}
}

func TestRecordSuccess_ClearsFailures(t *testing.T) {
	tr := throttle.New(5, 30*time.Minute)

	for i := 0; i < 5; i++ {
		tr.RecordFailure("a@x.com")
	}
	if !tr.Blocked("a@x.com") {
		t.Fatal("expected blocked")
	}

	tr.RecordSuccess("a@x.com")
	if tr.Blocked("a@x.com") {
		t.Error("expected unblocked after success")
	}
	if got := tr.RecordFailure("a@x.com"); got != 1 {
		t.Errorf("count after success: got %d, want 1", got)
	}

	// Success on an identity with no record is a no-op.
	tr.RecordSuccess("never-seen@x.com")
}

func TestRecordFailure_FreshFailuresSlideTheWindow(t *testing.T) {
	clock := newFakeClock()
	tr := throttle.New(5, 30*time.Minute, throttle.WithClock(clock.Now))

	for i := 0; i < 5; i++ {
		tr.RecordFailure("a@x.com")
		clock.Advance(10 * time.Minute)
	}

	// Last failure was 10 minutes ago; the window is measured from the
	// most recent failure, so the identity is still blocked.
	if !tr.Blocked("a@x.com") {
		t.Error("expected blocked: last failure is inside the window")
	}
}

func TestRecordFailure_ConcurrentIncrementsAreNotLost(t *testing.T) {
	tr := throttle.New(5, 30*time.Minute)

	const n = 100
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			tr.RecordFailure("a@x.com")
		}()
	}
	wg.Wait()

	// The next failure must see all n prior increments.
	if got := tr.RecordFailure("a@x.com"); got != n+1 {
		t.Errorf("count after %d concurrent failures: got %d, want %d", n, got, n+1)
	}
}

func TestNew_DefaultsApplied(t *testing.T) {
	tr := throttle.New(0, 0)
	for i := 0; i < throttle.DefaultMaxFailures-1; i++ {
		tr.RecordFailure("a@x.com")
	}
	if tr.Blocked("a@x.com") {
		t.Error("blocked below the default limit")
	}
	tr.RecordFailure("a@x.com")
	if !tr.Blocked("a@x.com") {
		t.Error("expected blocked at the default limit")
	}
}
