package provider

import (
	"bufio"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/kestrelmon/kestrel/internal/sample"
)

// Memory reports fractional memory in use, in [0.0, 1.0], from
// /proc/meminfo's MemTotal and MemAvailable.
type Memory struct{}

func NewMemory() *Memory { return &Memory{} }

func (m *Memory) ID() string { return "memory" }

func (m *Memory) Read() sample.Sample {
	now := time.Now()

	total, available, err := readProcMeminfo()
	if err != nil || total == 0 {
		return sample.Sample{SignalID: m.ID(), Timestamp: now, Valid: false}
	}

	used := 1.0 - float64(available)/float64(total)
	return sample.Sample{SignalID: m.ID(), Value: used, Timestamp: now, Valid: true}
}

func readProcMeminfo() (total, available uint64, err error) {
	f, err := os.Open("/proc/meminfo")
	if err != nil {
		return 0, 0, err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		switch {
		case strings.HasPrefix(line, "MemTotal:"):
			total = parseMeminfoLine(line)
		case strings.HasPrefix(line, "MemAvailable:"):
			available = parseMeminfoLine(line)
		}
	}

	return total, available, scanner.Err()
}

func parseMeminfoLine(line string) uint64 {
	fields := strings.Fields(line)
	if len(fields) < 2 {
		return 0
	}
	v, err := strconv.ParseUint(fields[1], 10, 64)
	if err != nil {
		return 0
	}
	return v
}
