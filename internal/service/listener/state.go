package listener

// State is the lifecycle of one recipient subscription.
//
//	Unsubscribed -> Subscribing -> Active -> (Error -> Active) -> Unsubscribed
type State int

const (
	StateUnsubscribed State = iota
	StateSubscribing
	StateActive
	StateError
)

func (s State) String() string {
	switch s {
	case StateUnsubscribed:
		return "unsubscribed"
	case StateSubscribing:
		return "subscribing"
	case StateActive:
		return "active"
	case StateError:
		return "error"
	default:
		return "unknown"
	}
}

func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}
