// Package rule implements the pluggable checks the engine runs against the
// measurement window for each signal.
package rule

import (
	"github.com/kestrelmon/kestrel/internal/sample"
	"github.com/kestrelmon/kestrel/internal/window"
)

// Result is one rule's verdict for one signal.
type Result struct {
	RuleName string
	SignalID string
	Severity sample.Severity
	Message  string
}

// Rule evaluates a signal's recent readings in the measurement window and
// returns a verdict. Implementations must not mutate the window.
type Rule interface {
	Evaluate(w *window.Window, signalID string) Result
	Name() string
}
