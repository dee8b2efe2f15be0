// Package scheduler polls a set of providers on independent cadences.
package scheduler

import (
	"time"

	"github.com/kestrelmon/kestrel/internal/provider"
	"github.com/kestrelmon/kestrel/internal/sample"
)

type entry struct {
	provider provider.Provider
	interval time.Duration
	lastPoll time.Time
}

// Scheduler polls each registered provider once its interval has elapsed.
type Scheduler struct {
	entries []*entry
	now     func() time.Time
}

// New creates an empty Scheduler.
func New() *Scheduler {
	return &Scheduler{now: time.Now}
}

// Register adds a provider with its own poll cadence. The provider is
// always included in the result of the very next Poll call, regardless of
// interval, since its last-poll time starts at the zero value.
func (s *Scheduler) Register(p provider.Provider, interval time.Duration) {
	s.entries = append(s.entries, &entry{provider: p, interval: interval})
}

// SetClock overrides the clock used to decide whether an interval has
// elapsed. Intended for tests.
func (s *Scheduler) SetClock(now func() time.Time) {
	s.now = now
}

// Poll returns a sample from each registered provider whose interval has
// elapsed since its last poll, in registration order. An interval of zero
// elapses on every call.
func (s *Scheduler) Poll() []sample.Sample {
	now := s.now()
	var readings []sample.Sample

	for _, e := range s.entries {
		if now.Sub(e.lastPoll) >= e.interval {
			readings = append(readings, e.provider.Read())
			e.lastPoll = now
		}
	}

	return readings
}
