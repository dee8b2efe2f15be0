package rule

import (
	"fmt"
	"math"

	"github.com/kestrelmon/kestrel/internal/sample"
	"github.com/kestrelmon/kestrel/internal/window"
)

// RateOfChangeRule flags a signal whose value changes faster than an
// expected rate per second, comparing the two most recent readings.
type RateOfChangeRule struct {
	maxRatePerSecond float64
}

func NewRateOfChangeRule(maxRatePerSecond float64) *RateOfChangeRule {
	return &RateOfChangeRule{maxRatePerSecond: maxRatePerSecond}
}

func (r *RateOfChangeRule) Name() string { return "RateOfChangeRule" }

func (r *RateOfChangeRule) Evaluate(w *window.Window, signalID string) Result {
	result := Result{RuleName: r.Name(), SignalID: signalID}

	readings := w.ReadingsFor(signalID)
	if len(readings) < 2 {
		result.Severity = sample.SeverityOK
		return result
	}

	prev := readings[len(readings)-2]
	curr := readings[len(readings)-1]

	if !prev.Valid || !curr.Valid {
		result.Severity = sample.SeverityOK
		return result
	}

	dt := curr.Timestamp.Sub(prev.Timestamp).Seconds()
	if dt <= 0.0 {
		result.Severity = sample.SeverityOK
		return result
	}

	rate := math.Abs(curr.Value-prev.Value) / dt

	if rate > r.maxRatePerSecond {
		result.Severity = sample.SeverityDegraded
		result.Message = fmt.Sprintf("rate of change %v/s exceeds limit %v/s", rate, r.maxRatePerSecond)
		return result
	}

	result.Severity = sample.SeverityOK
	return result
}
