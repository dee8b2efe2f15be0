// Package provider implements the signal sources the scheduler polls:
// real /proc- and /sys-backed readers on Linux, plus a scripted fake used
// by tests.
package provider

import "github.com/kestrelmon/kestrel/internal/sample"

// Provider produces one fresh sample per Read call for a single signal.
type Provider interface {
	ID() string
	Read() sample.Sample
}
