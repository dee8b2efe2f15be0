package provider

import (
	"context"
	"time"

	"github.com/kestrelmon/kestrel/internal/sample"
	"golang.org/x/time/rate"
)

// Scripted is a fake Provider that replays a fixed sequence of samples,
// used by tests to drive the engine and supervisor deterministically.
// Once the script is exhausted it repeats the final entry.
type Scripted struct {
	id      string
	script  []sample.Sample
	index   int
	limiter *rate.Limiter
}

// NewScripted returns a Scripted provider that yields each entry in script
// in order on successive Read calls.
func NewScripted(id string, script []sample.Sample) *Scripted {
	return &Scripted{id: id, script: script}
}

// WithRateLimit paces Read calls to at most one per interval, blocking the
// caller via the limiter's wait. Intended for tests that need to assert on
// cadence rather than raw throughput.
func (s *Scripted) WithRateLimit(interval time.Duration) *Scripted {
	s.limiter = rate.NewLimiter(rate.Every(interval), 1)
	return s
}

func (s *Scripted) ID() string { return s.id }

func (s *Scripted) Read() sample.Sample {
	if s.limiter != nil {
		_ = s.limiter.Wait(context.Background())
	}

	if len(s.script) == 0 {
		return sample.Sample{SignalID: s.id, Valid: false, Timestamp: time.Now()}
	}

	i := s.index
	if i >= len(s.script) {
		i = len(s.script) - 1
	} else {
		s.index++
	}

	next := s.script[i]
	if next.SignalID == "" {
		next.SignalID = s.id
	}
	if next.Timestamp.IsZero() {
		next.Timestamp = time.Now()
	}

	return next
}
