package rule

import (
	"fmt"

	"github.com/kestrelmon/kestrel/internal/sample"
	"github.com/kestrelmon/kestrel/internal/window"
)

// Bounds is the [Min, Max] range a signal must stay within, and the
// severity to report when it doesn't.
type Bounds struct {
	Min            float64
	Max            float64
	BreachSeverity sample.Severity
}

// ThresholdRule flags a signal whose latest reading falls outside a
// configured range. It runs either in global mode, applying the same
// bounds to every signal (targetSignal == ""), or in map mode, applying
// per-signal bounds.
type ThresholdRule struct {
	bounds    map[string]Bounds
	global    Bounds
	useGlobal bool
}

// NewThresholdRule creates a rule bound to a single signal, or to every
// signal if targetSignal is empty.
func NewThresholdRule(min, max float64, breachSeverity sample.Severity, targetSignal string) *ThresholdRule {
	bounds := Bounds{Min: min, Max: max, BreachSeverity: breachSeverity}

	if targetSignal == "" {
		return &ThresholdRule{global: bounds, useGlobal: true}
	}

	return &ThresholdRule{bounds: map[string]Bounds{targetSignal: bounds}}
}

// NewThresholdRuleFromBounds creates a rule with distinct bounds per signal.
// Signals absent from the map are not evaluated by this rule.
func NewThresholdRuleFromBounds(bounds map[string]Bounds) *ThresholdRule {
	return &ThresholdRule{bounds: bounds}
}

func (r *ThresholdRule) Name() string { return "ThresholdRule" }

func (r *ThresholdRule) Evaluate(w *window.Window, signalID string) Result {
	result := Result{RuleName: r.Name(), SignalID: signalID}

	var b Bounds
	if r.useGlobal {
		b = r.global
	} else {
		bb, ok := r.bounds[signalID]
		if !ok {
			result.Severity = sample.SeverityOK
			return result
		}
		b = bb
	}

	latest := w.Latest(signalID)
	if !latest.Valid {
		result.Severity = sample.SeverityFailed
		result.Message = "no valid reading"
		return result
	}

	if latest.Value < b.Min || latest.Value > b.Max {
		result.Severity = b.BreachSeverity
		result.Message = fmt.Sprintf("value %v outside bounds [%v, %v]", latest.Value, b.Min, b.Max)
		return result
	}

	result.Severity = sample.SeverityOK
	return result
}
