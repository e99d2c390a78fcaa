package execution

// State is the phase of a search invocation.
type State int

// Search phases.
const (
	Idle State = iota
	Running
	Succeeded
	Failed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Running:
		return "running"
	case Succeeded:
		return "succeeded"
	case Failed:
		return "failed"
	}
	return "unknown"
}

// Trigger tells submit and replay invocations apart.
type Trigger string

// Invocation triggers.
const (
	TriggerSubmit Trigger = "submit"
	TriggerReplay Trigger = "replay"
)

// Skip reasons for invocations that never dispatched.
const (
	SkipEmptyFilters   = "empty_filters"
	SkipEmptyReference = "empty_reference"
)
