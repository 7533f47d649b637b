package client

// State is a step of a single exchange.
// An exchange only moves forward and ends in exactly one of the closed states.
type State uint8

const (
	StateIdle State = iota
	StateConnecting
	StateConnected
	StateSending
	StateReceiving
	StateClosedSuccess
	StateClosedFailure
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	case StateSending:
		return "sending"
	case StateReceiving:
		return "receiving"
	case StateClosedSuccess:
		return "closed(success)"
	case StateClosedFailure:
		return "closed(failure)"
	}
	return "unknown"
}

func (s State) Closed() bool { return s == StateClosedSuccess || s == StateClosedFailure }
