package provider

import (
	"syscall"
	"time"

	"github.com/kestrelmon/kestrel/internal/sample"
)

// Storage reports fractional disk usage in [0.0, 1.0] for a mount point,
// via statfs.
type Storage struct {
	mountPoint string
}

func NewStorage() *Storage {
	return &Storage{mountPoint: "/"}
}

// NewStorageWithMountPoint creates a Storage provider for an arbitrary mount
// point, for tests that want a predictable filesystem.
func NewStorageWithMountPoint(mountPoint string) *Storage {
	return &Storage{mountPoint: mountPoint}
}

func (s *Storage) ID() string { return "storage" }

func (s *Storage) Read() sample.Sample {
	now := time.Now()

	var stat syscall.Statfs_t
	if err := syscall.Statfs(s.mountPoint, &stat); err != nil {
		return sample.Sample{SignalID: s.ID(), Timestamp: now, Valid: false}
	}

	total := stat.Blocks * uint64(stat.Bsize)
	free := stat.Bavail * uint64(stat.Bsize)
	if total == 0 {
		return sample.Sample{SignalID: s.ID(), Timestamp: now, Valid: false}
	}

	used := 1.0 - float64(free)/float64(total)
	return sample.Sample{SignalID: s.ID(), Value: used, Timestamp: now, Valid: true}
}
