package checkout

// State tracks one submission attempt through the checkout flow.
type State string

const (
	StateIdle       State = "IDLE"
	StateSubmitting State = "SUBMITTING"
	StateSucceeded  State = "SUCCEEDED"
	StateFailed     State = "FAILED"
)

// IsTerminal reports whether the attempt is finished for good. Failed is
// not terminal: the user may retry, which re-enters Submitting with a
// fresh cart snapshot.
func (s State) IsTerminal() bool {
	return s == StateSucceeded
}

func (s State) String() string {
	return string(s)
}
