// Package fault implements the fault injection stage: a pass-through
// wrapper around real readings that can substitute, suppress, delay, or
// invalidate a signal's samples on command.
package fault

import (
	"time"

	"github.com/kestrelmon/kestrel/internal/sample"
)

// Parameters configures how a Kind modifies a reading.
type Parameters struct {
	InjectedValue  float64
	SuppressCycles int // for MissingUpdate
	DelayMS        int // for DelayedReading
}

type activeFault struct {
	kind            Kind
	params          Parameters
	cyclesRemaining int
}

// Injector wraps a signal's readings and optionally injects faults into
// them. It holds at most one active fault per signal.
type Injector struct {
	faults map[string]*activeFault
}

// NewInjector returns an Injector with no active faults.
func NewInjector() *Injector {
	return &Injector{faults: make(map[string]*activeFault)}
}

// Inject arms a fault for a signal, replacing any fault already active on
// it.
func (inj *Injector) Inject(signalID string, kind Kind, params Parameters) {
	inj.faults[signalID] = &activeFault{
		kind:            kind,
		params:          params,
		cyclesRemaining: params.SuppressCycles,
	}
}

// Clear disarms any fault active on a signal.
func (inj *Injector) Clear(signalID string) {
	delete(inj.faults, signalID)
}

// ClearAll disarms every active fault.
func (inj *Injector) ClearAll() {
	inj.faults = make(map[string]*activeFault)
}

// HasFault reports whether a fault is currently active on a signal.
func (inj *Injector) HasFault(signalID string) bool {
	_, ok := inj.faults[signalID]
	return ok
}

// Apply returns s modified by whatever fault is active on its signal. A
// signal with no active fault passes through unchanged.
func (inj *Injector) Apply(s sample.Sample) sample.Sample {
	f, ok := inj.faults[s.SignalID]
	if !ok {
		return s
	}

	modified := s

	switch f.kind {
	case InvalidValue:
		modified.Value = f.params.InjectedValue

	case DelayedReading:
		time.Sleep(time.Duration(f.params.DelayMS) * time.Millisecond)

	case MissingUpdate:
		if f.cyclesRemaining > 0 {
			f.cyclesRemaining--
			modified.Valid = false
		} else {
			delete(inj.faults, s.SignalID)
		}

	case Spike:
		modified.Value = f.params.InjectedValue
		// Spike is one-shot: clear after applying.
		delete(inj.faults, s.SignalID)

	case InterfaceFailure:
		modified.Valid = false
	}

	return modified
}
