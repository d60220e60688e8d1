package domain

import "strings"

type ApplicationState string

const (
	StateInterested ApplicationState = "interested"
	StateApplied    ApplicationState = "applied"
	StateAccepted   ApplicationState = "accepted"
	StateRejected   ApplicationState = "rejected"
)

// InitialApplicationState is the state a new application starts in.
const InitialApplicationState = StateApplied

var applicationStates = []ApplicationState{
	StateInterested,
	StateApplied,
	StateAccepted,
	StateRejected,
}

// ApplicationStates returns the recognised labels in display order.
func ApplicationStates() []ApplicationState {
	out := make([]ApplicationState, len(applicationStates))
	copy(out, applicationStates)
	return out
}

func (s ApplicationState) Valid() bool {
	for _, st := range applicationStates {
		if s == st {
			return true
		}
	}
	return false
}

// CanTransition reports whether an application in state s may move to next.
// Any recognised label is reachable from any other, including itself; only
// membership in the label set is enforced.
func (s ApplicationState) CanTransition(next ApplicationState) bool {
	return next.Valid()
}

// ParseApplicationState returns the state named by label. Labels are
// matched exactly.
func ParseApplicationState(label string) (ApplicationState, bool) {
	st := ApplicationState(label)
	return st, st.Valid()
}

// StateLabels joins the recognised labels for use in messages.
func StateLabels() string {
	labels := make([]string, len(applicationStates))
	for i, st := range applicationStates {
		labels[i] = string(st)
	}
	return strings.Join(labels, ", ")
}

type Application struct {
	Username string           `json:"username"`
	JobID    int              `json:"jobId"`
	State    ApplicationState `json:"state"`
}
