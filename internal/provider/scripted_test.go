package provider_test

import (
	"testing"
	"time"

	"github.com/kestrelmon/kestrel/internal/provider"
	"github.com/kestrelmon/kestrel/internal/sample"
	"github.com/stretchr/testify/assert"
)

func TestScriptedReplaysInOrder(t *testing.T) {
	p := provider.NewScripted("cpu_load", []sample.Sample{
		{Value: 0.1, Valid: true},
		{Value: 0.2, Valid: true},
	})

	first := p.Read()
	second := p.Read()

	assert.InDelta(t, 0.1, first.Value, 0.0001)
	assert.InDelta(t, 0.2, second.Value, 0.0001)
}

func TestScriptedRepeatsFinalEntryOnceExhausted(t *testing.T) {
	p := provider.NewScripted("cpu_load", []sample.Sample{
		{Value: 0.1, Valid: true},
	})

	p.Read()
	again := p.Read()
	andAgain := p.Read()

	assert.InDelta(t, 0.1, again.Value, 0.0001)
	assert.InDelta(t, 0.1, andAgain.Value, 0.0001)
}

func TestScriptedAssignsIDWhenUnset(t *testing.T) {
	p := provider.NewScripted("battery", []sample.Sample{{Value: 0.8, Valid: true}})

	s := p.Read()

	assert.Equal(t, "battery", s.SignalID)
}

func TestScriptedEmptyScriptYieldsInvalid(t *testing.T) {
	p := provider.NewScripted("storage", nil)

	s := p.Read()

	assert.False(t, s.Valid)
	assert.Equal(t, "storage", s.SignalID)
}

func TestScriptedWithRateLimitPacesReads(t *testing.T) {
	p := provider.NewScripted("memory", []sample.Sample{
		{Value: 0.1, Valid: true},
		{Value: 0.2, Valid: true},
	}).WithRateLimit(20 * time.Millisecond)

	start := time.Now()
	p.Read()
	p.Read()
	elapsed := time.Since(start)

	assert.GreaterOrEqual(t, elapsed, 15*time.Millisecond)
}
