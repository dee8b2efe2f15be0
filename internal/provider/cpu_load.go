package provider

import (
	"bufio"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/kestrelmon/kestrel/internal/sample"
)

// CPULoad reports fractional CPU utilization in [0.0, 1.0], derived from
// the delta between two /proc/stat snapshots taken one Read apart.
type CPULoad struct {
	prevTotal uint64
	prevIdle  uint64
	primed    bool
}

func NewCPULoad() *CPULoad {
	return &CPULoad{}
}

func (c *CPULoad) ID() string { return "cpu_load" }

func (c *CPULoad) Read() sample.Sample {
	now := time.Now()

	total, idle, err := readProcStatCPU()
	if err != nil {
		return sample.Sample{SignalID: c.ID(), Timestamp: now, Valid: false}
	}

	if !c.primed {
		c.prevTotal, c.prevIdle = total, idle
		c.primed = true
		// No delta to compute yet; report idle so the first reading doesn't
		// look like a spike.
		return sample.Sample{SignalID: c.ID(), Value: 0, Timestamp: now, Valid: true}
	}

	deltaTotal := total - c.prevTotal
	deltaIdle := idle - c.prevIdle
	c.prevTotal, c.prevIdle = total, idle

	if deltaTotal == 0 {
		return sample.Sample{SignalID: c.ID(), Value: 0, Timestamp: now, Valid: true}
	}

	busy := 1.0 - float64(deltaIdle)/float64(deltaTotal)
	return sample.Sample{SignalID: c.ID(), Value: busy, Timestamp: now, Valid: true}
}

func readProcStatCPU() (total, idle uint64, err error) {
	f, err := os.Open("/proc/stat")
	if err != nil {
		return 0, 0, err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	if !scanner.Scan() {
		return 0, 0, scanner.Err()
	}

	fields := strings.Fields(scanner.Text())
	// fields[0] == "cpu", followed by user nice system idle iowait irq softirq steal...
	for i, field := range fields[1:] {
		v, parseErr := strconv.ParseUint(field, 10, 64)
		if parseErr != nil {
			continue
		}
		total += v
		if i == 3 { // idle
			idle = v
		}
	}

	return total, idle, nil
}
