package rule

import (
	"fmt"

	"github.com/kestrelmon/kestrel/internal/sample"
	"github.com/kestrelmon/kestrel/internal/window"
)

// ImplausibleValueRule flags values outside a physically possible range.
// Its bounds are harder limits than ThresholdRule's and always report
// FAILED; a missing reading is left for MissingDataRule to judge.
type ImplausibleValueRule struct {
	absoluteMin float64
	absoluteMax float64
}

func NewImplausibleValueRule(absoluteMin, absoluteMax float64) *ImplausibleValueRule {
	return &ImplausibleValueRule{absoluteMin: absoluteMin, absoluteMax: absoluteMax}
}

func (r *ImplausibleValueRule) Name() string { return "ImplausibleValueRule" }

func (r *ImplausibleValueRule) Evaluate(w *window.Window, signalID string) Result {
	result := Result{RuleName: r.Name(), SignalID: signalID}

	latest := w.Latest(signalID)
	if !latest.Valid {
		result.Severity = sample.SeverityOK
		return result
	}

	if latest.Value < r.absoluteMin || latest.Value > r.absoluteMax {
		result.Severity = sample.SeverityFailed
		result.Message = fmt.Sprintf("implausible value %v outside absolute bounds [%v, %v]",
			latest.Value, r.absoluteMin, r.absoluteMax)
		return result
	}

	result.Severity = sample.SeverityOK
	return result
}
