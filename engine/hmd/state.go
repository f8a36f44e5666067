package hmd

// State is a session's position in its device lifecycle.
type State int

const (
	StateUninitialized State = iota
	StateProbingDevice
	StateDisabled
	StateReady
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateProbingDevice:
		return "probing"
	case StateDisabled:
		return "disabled"
	case StateReady:
		return "ready"
	default:
		return "unknown"
	}
}
