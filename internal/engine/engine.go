// Package engine reduces a stream of samples to per-signal and aggregate
// system state, driven by a pluggable set of rules.
package engine

import (
	"time"

	"github.com/kestrelmon/kestrel/internal/rule"
	"github.com/kestrelmon/kestrel/internal/sample"
	"github.com/kestrelmon/kestrel/internal/window"
)

// Engine holds the measurement window, the rule pipeline, the current
// state of every observed signal, and the history of state transitions.
type Engine struct {
	win          *window.Window
	rules        []rule.Rule
	signalStates map[string]sample.State
	transitions  []sample.Transition
	now          func() time.Time
}

// New creates an Engine with the given measurement window capacity.
func New(windowCapacity int) (*Engine, error) {
	w, err := window.New(windowCapacity)
	if err != nil {
		return nil, err
	}

	return &Engine{
		win:          w,
		signalStates: make(map[string]sample.State),
		now:          time.Now,
	}, nil
}

// AddRule appends a rule to the evaluation pipeline. Rules run in the
// order they were added.
func (e *Engine) AddRule(r rule.Rule) {
	e.rules = append(e.rules, r)
}

// SetClock overrides the clock used to timestamp transitions. Intended for
// tests; production callers should leave the default time.Now in place.
func (e *Engine) SetClock(now func() time.Time) {
	e.now = now
}

// Process pushes each sample into the window, re-evaluates its signal, and
// records a transition whenever the signal's state changes.
func (e *Engine) Process(samples []sample.Sample) {
	for _, s := range samples {
		e.win.Push(s)

		if _, ok := e.signalStates[s.SignalID]; !ok {
			e.signalStates[s.SignalID] = sample.StateUnknown
		}

		newState := e.evaluateSignal(s.SignalID)
		if newState != e.signalStates[s.SignalID] {
			e.transition(s.SignalID, newState, "rule_evaluation")
		}
	}
}

// SignalIDs returns the IDs of every signal observed so far, in no
// particular order.
func (e *Engine) SignalIDs() []string {
	ids := make([]string, 0, len(e.signalStates))
	for id := range e.signalStates {
		ids = append(ids, id)
	}
	return ids
}

// SignalState returns the current state of a signal, or StateUnknown if it
// has never been observed.
func (e *Engine) SignalState(signalID string) sample.State {
	if st, ok := e.signalStates[signalID]; ok {
		return st
	}
	return sample.StateUnknown
}

// AggregateState reduces every known signal's state to a single worst-wins
// system state. An empty signal set is UNKNOWN.
func (e *Engine) AggregateState() sample.State {
	if len(e.signalStates) == 0 {
		return sample.StateUnknown
	}

	worst := sample.StateOK
	for _, st := range e.signalStates {
		if st == sample.StateFailed {
			return sample.StateFailed
		}
		if st == sample.StateUnknown {
			worst = sample.StateUnknown
		} else if st == sample.StateDegraded && worst == sample.StateOK {
			worst = sample.StateDegraded
		}
	}
	return worst
}

// RecentTransitions returns every transition recorded so far, oldest first.
func (e *Engine) RecentTransitions() []sample.Transition {
	return e.transitions
}

// Window returns the underlying measurement window.
func (e *Engine) Window() *window.Window {
	return e.win
}

// evaluateSignal runs the rule pipeline against a signal's latest reading.
// The first rule to report FAILED or DEGRADED short-circuits the
// evaluation: later rules are not consulted, even if they would report a
// higher severity.
func (e *Engine) evaluateSignal(signalID string) sample.State {
	latest := e.win.Latest(signalID)
	if !latest.Valid {
		return sample.StateFailed
	}

	for _, r := range e.rules {
		result := r.Evaluate(e.win, signalID)
		if result.Severity == sample.SeverityFailed {
			return sample.StateFailed
		}
		if result.Severity == sample.SeverityDegraded {
			return sample.StateDegraded
		}
	}

	return sample.StateOK
}

func (e *Engine) transition(signalID string, newState sample.State, reason string) {
	e.transitions = append(e.transitions, sample.Transition{
		SignalID:  signalID,
		From:      e.signalStates[signalID],
		To:        newState,
		Reason:    reason,
		Timestamp: e.now(),
	})
	e.signalStates[signalID] = newState
}
