package widget

// State es el estado del widget respecto a la petición en curso.
type State int

const (
	StateIdle State = iota
	StateSending
	StateError
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateSending:
		return "sending"
	case StateError:
		return "error"
	default:
		return "unknown"
	}
}
