package settle

// State represents the current state of a Validator.
type State int32

const (
	// StateIdle indicates no window is armed and no predicate call is running.
	StateIdle State = iota

	// StateDebouncing indicates a window is armed and waiting for its quiet
	// period to elapse.
	StateDebouncing

	// StateValidating indicates at least one predicate call is in flight and
	// no window is armed.
	StateValidating

	// StateClosed indicates the Validator has been torn down. Submissions
	// resolve immediately with the last known result.
	StateClosed
)

// String returns the string representation of the state.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateDebouncing:
		return "debouncing"
	case StateValidating:
		return "validating"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}
