package fault_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/kestrelmon/kestrel/internal/fault"
	"github.com/kestrelmon/kestrel/internal/sample"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyPassesThroughWithoutFault(t *testing.T) {
	inj := fault.NewInjector()
	s := sample.Sample{SignalID: "cpu_load", Value: 0.5, Valid: true}

	out := inj.Apply(s)

	assert.Equal(t, s, out)
}

func TestApplySpikeIsOneShot(t *testing.T) {
	inj := fault.NewInjector()
	inj.Inject("cpu_load", fault.Spike, fault.Parameters{InjectedValue: 9.9})

	s := sample.Sample{SignalID: "cpu_load", Value: 0.5, Valid: true}

	spiked := inj.Apply(s)
	assert.InDelta(t, 9.9, spiked.Value, 0.0001)
	assert.False(t, inj.HasFault("cpu_load"))

	recovered := inj.Apply(s)
	assert.InDelta(t, 0.5, recovered.Value, 0.0001)
}

func TestApplyInvalidValueHolds(t *testing.T) {
	inj := fault.NewInjector()
	inj.Inject("cpu_load", fault.InvalidValue, fault.Parameters{InjectedValue: -42})

	s := sample.Sample{SignalID: "cpu_load", Value: 0.5, Valid: true}

	first := inj.Apply(s)
	second := inj.Apply(s)

	assert.InDelta(t, -42, first.Value, 0.0001)
	assert.InDelta(t, -42, second.Value, 0.0001)
	assert.True(t, inj.HasFault("cpu_load"))
}

func TestApplyMissingUpdateDecrementsThenClears(t *testing.T) {
	inj := fault.NewInjector()
	inj.Inject("cpu_load", fault.MissingUpdate, fault.Parameters{SuppressCycles: 2})

	s := sample.Sample{SignalID: "cpu_load", Value: 0.5, Valid: true}

	first := inj.Apply(s)
	assert.False(t, first.Valid)
	assert.True(t, inj.HasFault("cpu_load"))

	second := inj.Apply(s)
	assert.False(t, second.Valid)
	assert.True(t, inj.HasFault("cpu_load"))

	third := inj.Apply(s)
	assert.True(t, third.Valid)
	assert.False(t, inj.HasFault("cpu_load"))
}

func TestApplyInterfaceFailureIsPermanent(t *testing.T) {
	inj := fault.NewInjector()
	inj.Inject("cpu_load", fault.InterfaceFailure, fault.Parameters{})

	s := sample.Sample{SignalID: "cpu_load", Value: 0.5, Valid: true}

	for i := 0; i < 5; i++ {
		out := inj.Apply(s)
		assert.False(t, out.Valid)
		assert.True(t, inj.HasFault("cpu_load"))
	}
}

func TestApplyDelayedReadingSleeps(t *testing.T) {
	inj := fault.NewInjector()
	inj.Inject("cpu_load", fault.DelayedReading, fault.Parameters{DelayMS: 5})

	start := time.Now()
	inj.Apply(sample.Sample{SignalID: "cpu_load", Value: 0.5, Valid: true})
	elapsed := time.Since(start)

	assert.GreaterOrEqual(t, elapsed, 5*time.Millisecond)
}

func TestClearAndClearAll(t *testing.T) {
	inj := fault.NewInjector()
	inj.Inject("cpu_load", fault.InterfaceFailure, fault.Parameters{})
	inj.Inject("memory", fault.InterfaceFailure, fault.Parameters{})

	inj.Clear("cpu_load")
	assert.False(t, inj.HasFault("cpu_load"))
	assert.True(t, inj.HasFault("memory"))

	inj.ClearAll()
	assert.False(t, inj.HasFault("memory"))
}

func TestParseKindRoundTrip(t *testing.T) {
	kinds := []fault.Kind{fault.Spike, fault.InvalidValue, fault.MissingUpdate, fault.DelayedReading, fault.InterfaceFailure}
	for _, k := range kinds {
		parsed, err := fault.ParseKind(k.String())
		require.NoError(t, err)
		assert.Equal(t, k, parsed)
	}
}

func TestParseKindUnknown(t *testing.T) {
	_, err := fault.ParseKind("NotAKind")
	assert.Error(t, err)
}

func TestLoadProfile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "faults.json")
	content := `{"faults":[
		{"sensor_id":"cpu_load","type":"Spike","value":9.9,"trigger_after_s":2,"duration_s":0},
		{"sensor_id":"memory","type":"MissingUpdate","suppress_cycles":3,"trigger_after_s":5,"duration_s":10}
	]}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	configs, err := fault.LoadProfile(path)
	require.NoError(t, err)
	require.Len(t, configs, 2)

	assert.Equal(t, "cpu_load", configs[0].SignalID)
	assert.Equal(t, fault.Spike, configs[0].Kind)
	assert.InDelta(t, 9.9, configs[0].Params.InjectedValue, 0.0001)
	assert.Equal(t, 2*time.Second, configs[0].TriggerAfter)

	assert.Equal(t, "memory", configs[1].SignalID)
	assert.Equal(t, fault.MissingUpdate, configs[1].Kind)
	assert.Equal(t, 3, configs[1].Params.SuppressCycles)
	assert.Equal(t, 10*time.Second, configs[1].Duration)
}

func TestLoadProfileRejectsInvalidJSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "faults.json")
	require.NoError(t, os.WriteFile(path, []byte("not json"), 0o600))

	_, err := fault.LoadProfile(path)
	assert.Error(t, err)
}

func TestLoadProfileRejectsMissingFaultsArray(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "faults.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"other":[]}`), 0o600))

	_, err := fault.LoadProfile(path)
	assert.Error(t, err)
}

func TestSaveProfileRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "faults.json")

	original := []*fault.Config{
		{
			SignalID:     "battery",
			Kind:         fault.InvalidValue,
			Params:       fault.Parameters{InjectedValue: -5, SuppressCycles: 0, DelayMS: 0},
			TriggerAfter: 3 * time.Second,
			Duration:     6 * time.Second,
		},
	}

	require.NoError(t, fault.SaveProfile(path, original))

	loaded, err := fault.LoadProfile(path)
	require.NoError(t, err)
	require.Len(t, loaded, 1)

	assert.Equal(t, original[0].SignalID, loaded[0].SignalID)
	assert.Equal(t, original[0].Kind, loaded[0].Kind)
	assert.InDelta(t, original[0].Params.InjectedValue, loaded[0].Params.InjectedValue, 0.0001)
	assert.Equal(t, original[0].TriggerAfter, loaded[0].TriggerAfter)
	assert.Equal(t, original[0].Duration, loaded[0].Duration)
}
