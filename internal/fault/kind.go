package fault

import "github.com/kestrelmon/kestrel/internal/errors"

// Kind identifies the shape of fault a Injector can apply to a reading.
type Kind int8

const (
	Spike Kind = iota
	InvalidValue
	MissingUpdate
	DelayedReading
	InterfaceFailure
)

func (k Kind) String() string {
	switch k {
	case Spike:
		return "Spike"
	case InvalidValue:
		return "InvalidValue"
	case MissingUpdate:
		return "MissingUpdate"
	case DelayedReading:
		return "DelayedReading"
	case InterfaceFailure:
		return "InterfaceFailure"
	default:
		return "Unknown"
	}
}

// ParseKind maps the profile's fault type names onto a Kind.
func ParseKind(s string) (Kind, error) {
	switch s {
	case "Spike":
		return Spike, nil
	case "InvalidValue":
		return InvalidValue, nil
	case "MissingUpdate":
		return MissingUpdate, nil
	case "DelayedReading":
		return DelayedReading, nil
	case "InterfaceFailure":
		return InterfaceFailure, nil
	default:
		return 0, errors.New().WithData(errors.ErrUnknownFaultKind, s)
	}
}
