package metrics

import (
	"context"
	"time"
)

// Collector defines the core domain interface for recording periodic
// snapshots of engine state.
type Collector interface {
	Record(ctx context.Context, snapshot *Snapshot) error
	Close() error
}

// Repository defines the interface for snapshot storage.
type Repository interface {
	Record(snapshot *Snapshot) error
	Close() error
}

// Snapshot represents one recorded tick: the aggregate state and every
// observed signal's reading at the moment the supervisor captured it.
type Snapshot struct {
	Timestamp time.Time
	Aggregate string
	Signals   map[string]SignalSnapshot
}

// SignalSnapshot is the per-signal slice of a Snapshot.
type SignalSnapshot struct {
	Value float64
	Valid bool
	State string
}
