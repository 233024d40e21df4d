package bootstrap

// State is the position of an App in its lifecycle.
type State int32

const (
	StateUninitialized State = iota
	StateInitializing
	StateRunning
	StateClosing
	StateClosed
	// StateFailed is entered when Init fails. The app can only be closed.
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateInitializing:
		return "initializing"
	case StateRunning:
		return "running"
	case StateClosing:
		return "closing"
	case StateClosed:
		return "closed"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}
