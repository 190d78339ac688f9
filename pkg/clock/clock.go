// Package clock supplies the time source used for all expiry and quota math.
//
// Every instant it returns is wall-clock UTC with no monotonic reading, so a
// value compares the same before and after a round trip through the store.
// Expiry and quota windows therefore follow the wall clock, including any
// step it takes. In-process durations such as request latency or a
// reconcile pass are measured with time.Now and time.Since instead.
package clock

import (
	"sync"
	"time"
)

// TimeSource returns the current instant. Implementations must return UTC.
type TimeSource interface {
	Now() time.Time
}

// System reads the wall clock. The monotonic reading is dropped.
type System struct{}

func (System) Now() time.Time { return time.Now().UTC() }

// Fake is a manually driven TimeSource for tests and the admin CLI dry runs.
type Fake struct {
	mu  sync.Mutex
	now time.Time
}

// NewFake returns a Fake frozen at t.
func NewFake(t time.Time) *Fake {
	return &Fake{now: t.UTC()}
}

func (f *Fake) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

// Advance moves the clock forward by d.
func (f *Fake) Advance(d time.Duration) {
	f.mu.Lock()
	f.now = f.now.Add(d)
	f.mu.Unlock()
}

// Set jumps the clock to t.
func (f *Fake) Set(t time.Time) {
	f.mu.Lock()
	f.now = t.UTC()
	f.mu.Unlock()
}

// MonthStart returns 00:00:00 UTC on the first day of t's calendar month.
func MonthStart(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// Or falls back to System when ts is nil.
func Or(ts TimeSource) TimeSource {
	if ts == nil {
		return System{}
	}
	return ts
}
