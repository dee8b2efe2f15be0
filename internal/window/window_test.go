package window_test

import (
	"testing"
	"time"

	"github.com/kestrelmon/kestrel/internal/sample"
	"github.com/kestrelmon/kestrel/internal/window"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRejectsNonPositiveCapacity(t *testing.T) {
	_, err := window.New(0)
	require.Error(t, err)

	_, err = window.New(-1)
	require.Error(t, err)
}

func TestLatestOnUnseenSignalIsInvalid(t *testing.T) {
	w, err := window.New(4)
	require.NoError(t, err)

	latest := w.Latest("cpu_load")
	assert.False(t, latest.Valid)
	assert.Equal(t, "cpu_load", latest.SignalID)
}

func TestPushAndLatest(t *testing.T) {
	w, err := window.New(4)
	require.NoError(t, err)

	base := time.Now()
	w.Push(sample.Sample{SignalID: "cpu_load", Value: 0.1, Timestamp: base, Valid: true})
	w.Push(sample.Sample{SignalID: "cpu_load", Value: 0.2, Timestamp: base.Add(time.Second), Valid: true})

	latest := w.Latest("cpu_load")
	assert.InDelta(t, 0.2, latest.Value, 0.0001)
}

func TestReadingsForIsOldestFirst(t *testing.T) {
	w, err := window.New(3)
	require.NoError(t, err)

	base := time.Now()
	for i := 0; i < 3; i++ {
		w.Push(sample.Sample{
			SignalID:  "memory",
			Value:     float64(i),
			Timestamp: base.Add(time.Duration(i) * time.Second),
			Valid:     true,
		})
	}

	readings := w.ReadingsFor("memory")
	require.Len(t, readings, 3)
	assert.InDelta(t, 0, readings[0].Value, 0.0001)
	assert.InDelta(t, 1, readings[1].Value, 0.0001)
	assert.InDelta(t, 2, readings[2].Value, 0.0001)
}

func TestPushEvictsOldestOnceCapacityExceeded(t *testing.T) {
	w, err := window.New(2)
	require.NoError(t, err)

	base := time.Now()
	w.Push(sample.Sample{SignalID: "memory", Value: 1, Timestamp: base, Valid: true})
	w.Push(sample.Sample{SignalID: "memory", Value: 2, Timestamp: base.Add(time.Second), Valid: true})
	w.Push(sample.Sample{SignalID: "memory", Value: 3, Timestamp: base.Add(2 * time.Second), Valid: true})

	readings := w.ReadingsFor("memory")
	require.Len(t, readings, 2)
	assert.InDelta(t, 2, readings[0].Value, 0.0001)
	assert.InDelta(t, 3, readings[1].Value, 0.0001)
	assert.InDelta(t, 3, w.Latest("memory").Value, 0.0001)
}

func TestBuffersAreIndependentPerSignal(t *testing.T) {
	w, err := window.New(2)
	require.NoError(t, err)

	w.Push(sample.Sample{SignalID: "cpu_load", Value: 0.5, Valid: true})
	w.Push(sample.Sample{SignalID: "memory", Value: 0.7, Valid: true})

	assert.InDelta(t, 0.5, w.Latest("cpu_load").Value, 0.0001)
	assert.InDelta(t, 0.7, w.Latest("memory").Value, 0.0001)
}

func TestCapacity(t *testing.T) {
	w, err := window.New(7)
	require.NoError(t, err)
	assert.Equal(t, 7, w.Capacity())
}
