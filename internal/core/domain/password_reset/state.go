package passwordreset

type State int

const (
	StateRequested State = iota
	StateIssued
	StateValid
	StateExpired
	StateInvalid
	StateConsumed
)

func (s State) String() string {
	switch s {
	case StateRequested:
		return "requested"
	case StateIssued:
		return "issued"
	case StateValid:
		return "valid"
	case StateExpired:
		return "expired"
	case StateInvalid:
		return "invalid"
	case StateConsumed:
		return "consumed"
	default:
		return "unknown"
	}
}
