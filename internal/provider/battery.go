package provider

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/kestrelmon/kestrel/internal/sample"
)

// Battery reports fractional charge in [0.0, 1.0] from
// /sys/class/power_supply/<name>/capacity. Invalid (no battery present,
// e.g. on a desktop or server host) is a legitimate, non-fatal reading.
type Battery struct {
	sysPath string
}

func NewBattery() *Battery {
	return &Battery{sysPath: "/sys/class/power_supply/BAT0/capacity"}
}

// NewBatteryWithPath creates a Battery reading capacity from an arbitrary
// path, for tests that can't rely on /sys/class/power_supply existing.
func NewBatteryWithPath(path string) *Battery {
	return &Battery{sysPath: path}
}

func (b *Battery) ID() string { return "battery" }

func (b *Battery) Read() sample.Sample {
	now := time.Now()

	raw, err := os.ReadFile(b.sysPath)
	if err != nil {
		return sample.Sample{SignalID: b.ID(), Timestamp: now, Valid: false}
	}

	pct, err := strconv.Atoi(strings.TrimSpace(string(raw)))
	if err != nil {
		return sample.Sample{SignalID: b.ID(), Timestamp: now, Valid: false}
	}

	return sample.Sample{SignalID: b.ID(), Value: float64(pct) / 100.0, Timestamp: now, Valid: true}
}
