// Package supervisor drives the tick loop that ties every other domain
// package together: advance scheduled faults, poll signals, inject
// faults, log readings, run the engine, log transitions, sleep.
package supervisor

import (
	"context"
	"time"

	"github.com/kestrelmon/kestrel/internal/engine"
	"github.com/kestrelmon/kestrel/internal/fault"
	"github.com/kestrelmon/kestrel/internal/logger"
	"github.com/kestrelmon/kestrel/internal/metrics"
	"github.com/kestrelmon/kestrel/internal/scheduler"
	"github.com/kestrelmon/kestrel/internal/sink"
	"golang.org/x/sync/errgroup"
)

// Supervisor owns the tick loop's collaborators: what to poll, how to
// judge it, where faults get injected, and where results get recorded.
type Supervisor struct {
	Scheduler *scheduler.Scheduler
	Engine    *engine.Engine
	Injector  *fault.Injector
	Faults    []*fault.Config
	Sink      *sink.Sink
	Metrics   metrics.Collector
	Interval  time.Duration

	startedAt           time.Time
	prevTransitionCount int
	now                 func() time.Time
}

// New wires a Supervisor from its collaborators. Metrics may be nil, in
// which case no metrics snapshot is recorded.
func New(sched *scheduler.Scheduler, eng *engine.Engine, injector *fault.Injector,
	faults []*fault.Config, evtSink *sink.Sink, collector metrics.Collector, interval time.Duration) *Supervisor {

	return &Supervisor{
		Scheduler: sched,
		Engine:    eng,
		Injector:  injector,
		Faults:    faults,
		Sink:      evtSink,
		Metrics:   collector,
		Interval:  interval,
		now:       time.Now,
	}
}

// Run drives the tick loop until ctx is cancelled. It reports the final
// aggregate state on return.
func (s *Supervisor) Run(ctx context.Context) error {
	s.startedAt = s.now()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return s.loop(ctx)
	})

	return g.Wait()
}

func (s *Supervisor) loop(ctx context.Context) error {
	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()

	s.tick(ctx)

	for {
		select {
		case <-ctx.Done():
			logger.Info().
				Str("aggregate_state", s.Engine.AggregateState().String()).
				Msg("shutting down")
			return nil
		case <-ticker.C:
			s.tick(ctx)
		}
	}
}

func (s *Supervisor) tick(ctx context.Context) {
	elapsed := s.now().Sub(s.startedAt)

	s.advanceFaultSchedule(elapsed)

	readings := s.Scheduler.Poll()

	for i, r := range readings {
		readings[i] = s.Injector.Apply(r)
	}

	for _, r := range readings {
		if s.Sink != nil {
			s.Sink.LogReading(r)
		}
	}

	s.Engine.Process(readings)

	transitions := s.Engine.RecentTransitions()
	for i := s.prevTransitionCount; i < len(transitions); i++ {
		if s.Sink != nil {
			s.Sink.LogTransition(transitions[i])
		}
	}
	s.prevTransitionCount = len(transitions)

	if s.Metrics != nil {
		s.recordMetrics(ctx)
	}
}

// advanceFaultSchedule injects faults whose trigger time has arrived and
// clears faults whose duration has elapsed.
func (s *Supervisor) advanceFaultSchedule(elapsed time.Duration) {
	for _, fc := range s.Faults {
		if !fc.Triggered && elapsed >= fc.TriggerAfter {
			s.Injector.Inject(fc.SignalID, fc.Kind, fc.Params)
			fc.Triggered = true
			fc.InjectedAfter = elapsed
			if s.Sink != nil {
				s.Sink.LogFault(fc.SignalID, fc.Kind.String(), fc.Params.InjectedValue)
			}
		}

		if fc.Triggered && !fc.Cleared && fc.Duration > 0 && elapsed >= fc.InjectedAfter+fc.Duration {
			s.Injector.Clear(fc.SignalID)
			fc.Cleared = true
		}
	}
}

func (s *Supervisor) recordMetrics(ctx context.Context) {
	signals := make(map[string]metrics.SignalSnapshot)

	for _, signalID := range s.Engine.SignalIDs() {
		latest := s.Engine.Window().Latest(signalID)
		signals[signalID] = metrics.SignalSnapshot{
			Value: latest.Value,
			Valid: latest.Valid,
			State: s.Engine.SignalState(signalID).String(),
		}
	}

	snapshot := &metrics.Snapshot{
		Timestamp: s.now(),
		Aggregate: s.Engine.AggregateState().String(),
		Signals:   signals,
	}

	if err := s.Metrics.Record(ctx, snapshot); err != nil {
		logger.Error().Err(err).
			Str("component", "supervisor").
			Str("operation", "record_metrics").
			Msg("failed to record metrics snapshot")
	}
}
