package data

import "time"

// TimeProvider abstracts the clock so repositories can stamp review and
// activation times deterministically in tests.
type TimeProvider interface {
	Now() time.Time
}

// RealTimeProvider reads the system clock.
type RealTimeProvider struct{}

func (r *RealTimeProvider) Now() time.Time { return time.Now() }

// FixedTimeProvider returns a pinned instant, adjustable between assertions.
type FixedTimeProvider struct {
	fixedTime time.Time
}

// NewFixedTimeProvider pins the clock to t.
func NewFixedTimeProvider(t time.Time) *FixedTimeProvider {
	return &FixedTimeProvider{fixedTime: t}
}

func (f *FixedTimeProvider) Now() time.Time { return f.fixedTime }

// SetTime moves the pinned clock to t.
func (f *FixedTimeProvider) SetTime(t time.Time) { f.fixedTime = t }

// AddTime advances the pinned clock by d.
func (f *FixedTimeProvider) AddTime(d time.Duration) { f.fixedTime = f.fixedTime.Add(d) }
