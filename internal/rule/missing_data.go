package rule

import (
	"time"

	"github.com/kestrelmon/kestrel/internal/sample"
	"github.com/kestrelmon/kestrel/internal/window"
)

// MissingDataRule flags degraded or failed state when no fresh reading has
// arrived within the expected interval.
type MissingDataRule struct {
	maxAge  time.Duration
	failAge time.Duration
}

func NewMissingDataRule(maxAge, failAge time.Duration) *MissingDataRule {
	return &MissingDataRule{maxAge: maxAge, failAge: failAge}
}

func (r *MissingDataRule) Name() string { return "MissingDataRule" }

func (r *MissingDataRule) Evaluate(w *window.Window, signalID string) Result {
	result := Result{RuleName: r.Name(), SignalID: signalID}

	latest := w.Latest(signalID)
	if !latest.Valid {
		result.Severity = sample.SeverityFailed
		result.Message = "no valid reading available"
		return result
	}

	age := time.Since(latest.Timestamp)

	if age > r.failAge {
		result.Severity = sample.SeverityFailed
		result.Message = "reading age exceeds failure threshold"
		return result
	}

	if age > r.maxAge {
		result.Severity = sample.SeverityDegraded
		result.Message = "reading age exceeds expected interval"
		return result
	}

	result.Severity = sample.SeverityOK
	return result
}
