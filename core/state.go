package core

// State lifecycle state of a managed instance
//
// Transitions: Created → Initialized → Ready → {Paused ⇄ Resumed} → Disposed
// Disposed is terminal and entered exactly once.
type State int

const (
	StateCreated State = iota
	StateInitialized
	StateReady
	StatePaused
	StateResumed
	StateDisposed
)

func (s State) String() string {
	switch s {
	case StateCreated:
		return "created"
	case StateInitialized:
		return "initialized"
	case StateReady:
		return "ready"
	case StatePaused:
		return "paused"
	case StateResumed:
		return "resumed"
	case StateDisposed:
		return "disposed"
	default:
		return "unknown"
	}
}
