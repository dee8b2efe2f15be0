package engine_test

import (
	"testing"
	"time"

	"github.com/kestrelmon/kestrel/internal/engine"
	"github.com/kestrelmon/kestrel/internal/rule"
	"github.com/kestrelmon/kestrel/internal/sample"
	"github.com/kestrelmon/kestrel/internal/window"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fixedRule always reports the same severity, regardless of the window's
// contents. It exists to pin down the engine's short-circuit ordering.
type fixedRule struct {
	name     string
	severity sample.Severity
}

func (r *fixedRule) Name() string { return r.name }

func (r *fixedRule) Evaluate(_ *window.Window, signalID string) rule.Result {
	return rule.Result{RuleName: r.name, SignalID: signalID, Severity: r.severity}
}

func TestCleanBootTransitionsUnknownToOK(t *testing.T) {
	eng, err := engine.New(8)
	require.NoError(t, err)
	eng.AddRule(rule.NewThresholdRule(0.0, 0.95, sample.SeverityDegraded, "cpu_load"))

	eng.Process([]sample.Sample{{SignalID: "cpu_load", Value: 0.3, Valid: true, Timestamp: time.Now()}})

	assert.Equal(t, sample.StateOK, eng.SignalState("cpu_load"))
	transitions := eng.RecentTransitions()
	require.Len(t, transitions, 1)
	assert.Equal(t, sample.StateUnknown, transitions[0].From)
	assert.Equal(t, sample.StateOK, transitions[0].To)
}

func TestThresholdBreachTransitionsToDegraded(t *testing.T) {
	eng, err := engine.New(8)
	require.NoError(t, err)
	eng.AddRule(rule.NewThresholdRule(0.0, 0.95, sample.SeverityDegraded, "cpu_load"))

	eng.Process([]sample.Sample{{SignalID: "cpu_load", Value: 0.99, Valid: true, Timestamp: time.Now()}})

	assert.Equal(t, sample.StateDegraded, eng.SignalState("cpu_load"))
}

func TestInvalidReadingWinsOverRulePipeline(t *testing.T) {
	eng, err := engine.New(8)
	require.NoError(t, err)
	// Even a rule that would report OK must not override an invalid latest reading.
	eng.AddRule(&fixedRule{name: "always-ok", severity: sample.SeverityOK})

	eng.Process([]sample.Sample{{SignalID: "cpu_load", Value: 0, Valid: false, Timestamp: time.Now()}})

	assert.Equal(t, sample.StateFailed, eng.SignalState("cpu_load"))
}

func TestRecoveryTransitionsBackToOK(t *testing.T) {
	eng, err := engine.New(8)
	require.NoError(t, err)
	eng.AddRule(rule.NewThresholdRule(0.0, 0.95, sample.SeverityDegraded, "cpu_load"))

	now := time.Now()
	eng.Process([]sample.Sample{{SignalID: "cpu_load", Value: 0.3, Valid: true, Timestamp: now}})
	eng.Process([]sample.Sample{{SignalID: "cpu_load", Value: 0.99, Valid: true, Timestamp: now.Add(time.Second)}})
	eng.Process([]sample.Sample{{SignalID: "cpu_load", Value: 0.3, Valid: true, Timestamp: now.Add(2 * time.Second)}})

	assert.Equal(t, sample.StateOK, eng.SignalState("cpu_load"))
	transitions := eng.RecentTransitions()
	require.Len(t, transitions, 3)
	assert.Equal(t, sample.StateDegraded, transitions[1].To)
	assert.Equal(t, sample.StateOK, transitions[2].To)
}

func TestAggregateStateIsWorstWins(t *testing.T) {
	eng, err := engine.New(8)
	require.NoError(t, err)
	eng.AddRule(rule.NewThresholdRule(0.0, 0.95, sample.SeverityDegraded, ""))

	now := time.Now()
	eng.Process([]sample.Sample{
		{SignalID: "cpu_load", Value: 0.1, Valid: true, Timestamp: now},
		{SignalID: "memory", Value: 0, Valid: false, Timestamp: now},
		{SignalID: "storage", Value: 0.99, Valid: true, Timestamp: now},
	})

	assert.Equal(t, sample.StateFailed, eng.AggregateState())
}

func TestAggregateStateEmptyIsUnknown(t *testing.T) {
	eng, err := engine.New(8)
	require.NoError(t, err)

	assert.Equal(t, sample.StateUnknown, eng.AggregateState())
}

func TestAggregateStateDegradedBeatsOK(t *testing.T) {
	eng, err := engine.New(8)
	require.NoError(t, err)
	eng.AddRule(rule.NewThresholdRule(0.0, 0.95, sample.SeverityDegraded, ""))

	now := time.Now()
	eng.Process([]sample.Sample{
		{SignalID: "cpu_load", Value: 0.1, Valid: true, Timestamp: now},
		{SignalID: "memory", Value: 0.99, Valid: true, Timestamp: now},
	})

	assert.Equal(t, sample.StateDegraded, eng.AggregateState())
}

func TestEvaluateSignalShortCircuitsOnFirstNonOKRule(t *testing.T) {
	eng, err := engine.New(8)
	require.NoError(t, err)
	// The first rule reports DEGRADED; a later rule would report FAILED, but
	// must never be consulted once the engine has a verdict.
	eng.AddRule(&fixedRule{name: "first", severity: sample.SeverityDegraded})
	eng.AddRule(&fixedRule{name: "second", severity: sample.SeverityFailed})

	eng.Process([]sample.Sample{{SignalID: "cpu_load", Value: 0.5, Valid: true, Timestamp: time.Now()}})

	assert.Equal(t, sample.StateDegraded, eng.SignalState("cpu_load"))
}

func TestSignalIDsTracksEveryObservedSignal(t *testing.T) {
	eng, err := engine.New(8)
	require.NoError(t, err)

	eng.Process([]sample.Sample{
		{SignalID: "cpu_load", Value: 0.1, Valid: true, Timestamp: time.Now()},
		{SignalID: "memory", Value: 0.2, Valid: true, Timestamp: time.Now()},
	})

	ids := eng.SignalIDs()
	assert.ElementsMatch(t, []string{"cpu_load", "memory"}, ids)
}
