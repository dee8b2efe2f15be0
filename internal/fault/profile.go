package fault

import (
	"os"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/kestrelmon/kestrel/internal/errors"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// Config describes one scheduled fault from a fault profile file, plus the
// runtime bookkeeping the supervisor needs to trigger and auto-clear it
// exactly once.
type Config struct {
	ID            string
	SignalID      string
	Kind          Kind
	Params        Parameters
	TriggerAfter  time.Duration
	Duration      time.Duration // 0 means no auto-clear
	Triggered     bool
	Cleared       bool
	InjectedAfter time.Duration
}

// LoadProfile reads a JSON fault profile from path. Each entry's "type"
// must be one of the Kind names; sensor_id is required.
func LoadProfile(path string) ([]*Config, error) {
	errFactory := errors.New()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errFactory.Wrap(errors.ErrFaultProfileRead, err)
	}

	if !gjson.ValidBytes(data) {
		return nil, errFactory.WithMessage(errors.ErrFaultProfileParse, "fault profile is not valid JSON")
	}

	faults := gjson.GetBytes(data, "faults")
	if !faults.IsArray() {
		return nil, errFactory.WithMessage(errors.ErrFaultProfileParse, "fault profile missing \"faults\" array")
	}

	var configs []*Config
	var parseErr error

	faults.ForEach(func(_, entry gjson.Result) bool {
		kind, err := ParseKind(entry.Get("type").String())
		if err != nil {
			parseErr = err
			return false
		}

		signalID := entry.Get("sensor_id")
		if !signalID.Exists() {
			parseErr = errFactory.WithMessage(errors.ErrFaultProfileParse, "fault entry missing \"sensor_id\"")
			return false
		}

		configs = append(configs, &Config{
			ID:           uuid.NewString(),
			SignalID:     signalID.String(),
			Kind:         kind,
			TriggerAfter: secondsToDuration(entry.Get("trigger_after_s").Float()),
			Duration:     secondsToDuration(entry.Get("duration_s").Float()),
			Params: Parameters{
				InjectedValue:  entry.Get("value").Float(),
				SuppressCycles: int(entry.Get("suppress_cycles").Int()),
				DelayMS:        int(entry.Get("delay_ms").Int()),
			},
		})
		return true
	})

	if parseErr != nil {
		return nil, errFactory.Wrap(errors.ErrFaultProfileParse, parseErr)
	}

	return configs, nil
}

// SaveProfile writes configs back out in the same shape LoadProfile reads,
// dropping runtime-only fields. It exists primarily to support
// round-trip testing of the profile format.
func SaveProfile(path string, configs []*Config) error {
	errFactory := errors.New()

	json := `{"faults":[]}`
	var err error

	for i, c := range configs {
		prefix := "faults." + strconv.Itoa(i)
		if json, err = sjson.Set(json, prefix+".sensor_id", c.SignalID); err != nil {
			return errFactory.Wrap(errors.ErrFaultProfileParse, err)
		}
		if json, err = sjson.Set(json, prefix+".type", c.Kind.String()); err != nil {
			return errFactory.Wrap(errors.ErrFaultProfileParse, err)
		}
		if json, err = sjson.Set(json, prefix+".trigger_after_s", c.TriggerAfter.Seconds()); err != nil {
			return errFactory.Wrap(errors.ErrFaultProfileParse, err)
		}
		if json, err = sjson.Set(json, prefix+".duration_s", c.Duration.Seconds()); err != nil {
			return errFactory.Wrap(errors.ErrFaultProfileParse, err)
		}
		if json, err = sjson.Set(json, prefix+".value", c.Params.InjectedValue); err != nil {
			return errFactory.Wrap(errors.ErrFaultProfileParse, err)
		}
		if json, err = sjson.Set(json, prefix+".suppress_cycles", c.Params.SuppressCycles); err != nil {
			return errFactory.Wrap(errors.ErrFaultProfileParse, err)
		}
		if json, err = sjson.Set(json, prefix+".delay_ms", c.Params.DelayMS); err != nil {
			return errFactory.Wrap(errors.ErrFaultProfileParse, err)
		}
	}

	if err := os.WriteFile(path, []byte(json), 0o644); err != nil {
		return errFactory.Wrap(errors.ErrFaultProfileRead, err)
	}

	return nil
}

func secondsToDuration(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}
