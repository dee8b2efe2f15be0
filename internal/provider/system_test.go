package provider_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/kestrelmon/kestrel/internal/provider"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCPULoadFirstReadIsPrimingRead(t *testing.T) {
	p := provider.NewCPULoad()

	first := p.Read()

	assert.True(t, first.Valid)
	assert.Equal(t, "cpu_load", first.SignalID)
	assert.InDelta(t, 0, first.Value, 0.0001)
}

func TestCPULoadSecondReadReportsDelta(t *testing.T) {
	p := provider.NewCPULoad()
	p.Read()

	second := p.Read()

	assert.True(t, second.Valid)
	assert.GreaterOrEqual(t, second.Value, 0.0)
	assert.LessOrEqual(t, second.Value, 1.0)
}

func TestMemoryReadIsValidFraction(t *testing.T) {
	p := provider.NewMemory()

	s := p.Read()

	assert.True(t, s.Valid)
	assert.Equal(t, "memory", s.SignalID)
	assert.GreaterOrEqual(t, s.Value, 0.0)
	assert.LessOrEqual(t, s.Value, 1.0)
}

func TestBatteryMissingSysfsIsInvalidNotFatal(t *testing.T) {
	p := provider.NewBatteryWithPath(filepath.Join(t.TempDir(), "does-not-exist"))

	s := p.Read()

	assert.False(t, s.Valid)
	assert.Equal(t, "battery", s.SignalID)
}

func TestBatteryReadsCapacityFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "capacity")
	require.NoError(t, os.WriteFile(path, []byte("42\n"), 0o644))

	p := provider.NewBatteryWithPath(path)

	s := p.Read()

	require.True(t, s.Valid)
	assert.InDelta(t, 0.42, s.Value, 0.0001)
}

func TestStorageReadsRootMountPoint(t *testing.T) {
	p := provider.NewStorage()

	s := p.Read()

	assert.True(t, s.Valid)
	assert.Equal(t, "storage", s.SignalID)
	assert.GreaterOrEqual(t, s.Value, 0.0)
	assert.LessOrEqual(t, s.Value, 1.0)
}

func TestStorageInvalidMountPointIsInvalid(t *testing.T) {
	p := provider.NewStorageWithMountPoint(filepath.Join(t.TempDir(), "does-not-exist"))

	s := p.Read()

	assert.False(t, s.Valid)
}
