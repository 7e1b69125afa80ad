package callthrottle

// State is a step in the life of one admission.
//
//	idle -> deciding -> rejected
//	idle -> deciding -> done
//	idle -> deciding -> waiting -> done
type State int

const (
	StateIdle State = iota
	StateDeciding
	StateWaiting
	StateDone
	StateRejected
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateDeciding:
		return "deciding"
	case StateWaiting:
		return "waiting"
	case StateDone:
		return "done"
	case StateRejected:
		return "rejected"
	default:
		return "unknown"
	}
}
