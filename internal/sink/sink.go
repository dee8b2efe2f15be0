// Package sink implements the JSON-lines event log: every reading, state
// transition, injected fault, and rule violation the supervisor observes
// is appended as one compact JSON object per line.
package sink

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/kestrelmon/kestrel/internal/errors"
	"github.com/kestrelmon/kestrel/internal/rule"
	"github.com/kestrelmon/kestrel/internal/sample"
	"github.com/tidwall/pretty"
)

const timestampLayout = "2006-01-02T15:04:05Z"

// Sink appends newline-delimited JSON events to a file and echoes them to
// stdout. It is safe for concurrent use.
type Sink struct {
	file *os.File
	mu   sync.Mutex
}

// New opens (creating if necessary) the file at path for appending. An
// empty path disables file output; events still go to stdout.
func New(path string) (*Sink, error) {
	if path == "" {
		return &Sink{}, nil
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, errors.New().Wrap(errors.ErrInitFailed, err)
	}

	return &Sink{file: f}, nil
}

// Close closes the underlying file, if one is open.
func (s *Sink) Close() error {
	if s.file == nil {
		return nil
	}
	return s.file.Close()
}

// LogReading appends a "reading" event.
func (s *Sink) LogReading(r sample.Sample) {
	s.writeEvent(map[string]any{
		"ts":    isoTimestamp(),
		"type":  "reading",
		"sensor": r.SignalID,
		"value": r.Value,
		"valid": r.Valid,
	})
}

// LogTransition appends a "transition" event.
func (s *Sink) LogTransition(t sample.Transition) {
	s.writeEvent(map[string]any{
		"ts":     isoTimestamp(),
		"type":   "transition",
		"sensor": t.SignalID,
		"from":   t.From.String(),
		"to":     t.To.String(),
		"reason": t.Reason,
	})
}

// LogFault appends a "fault" event.
func (s *Sink) LogFault(signalID, faultType string, injectedValue float64) {
	s.writeEvent(map[string]any{
		"ts":             isoTimestamp(),
		"type":           "fault",
		"sensor":         signalID,
		"fault_type":     faultType,
		"injected_value": injectedValue,
	})
}

// LogRuleViolation appends a "rule_violation" event.
func (s *Sink) LogRuleViolation(r rule.Result) {
	s.writeEvent(map[string]any{
		"ts":      isoTimestamp(),
		"type":    "rule_violation",
		"rule":    r.RuleName,
		"sensor":  r.SignalID,
		"message": r.Message,
	})
}

func (s *Sink) writeEvent(event map[string]any) {
	line, err := json.Marshal(event)
	if err != nil {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.file != nil {
		s.file.Write(line)
		s.file.Write([]byte("\n"))
	}
	fmt.Println(string(line))
}

// PrettyPrint renders a raw JSON-lines event for interactive debugging; it
// is never used on the hot append path.
func PrettyPrint(line []byte) string {
	return string(pretty.Pretty(line))
}

func isoTimestamp() string {
	return time.Now().UTC().Format(timestampLayout)
}
