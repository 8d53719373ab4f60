package booking

import "fmt"

// Status represents the current state of a booking in its lifecycle.
type Status string

const (
	// StatusWaiting is the only status a booking can be created in.
	StatusWaiting Status = "WAITING"
	// StatusApproved is terminal: the owner accepted the request.
	StatusApproved Status = "APPROVED"
	// StatusRejected is terminal: the owner declined the request.
	StatusRejected Status = "REJECTED"
	// StatusCanceled is defined for wire compatibility but has no producing
	// transition: no operation in this service sets it.
	StatusCanceled Status = "CANCELED"
)

// validTransitions defines the state machine. The only live transitions are
// WAITING -> APPROVED and WAITING -> REJECTED, both terminal.
var validTransitions = map[Status][]Status{
	StatusWaiting:  {StatusApproved, StatusRejected},
	StatusApproved: {},
	StatusRejected: {},
	StatusCanceled: {},
}

// IsValid returns true if the status is a recognized booking status.
func (s Status) IsValid() bool {
	_, exists := validTransitions[s]
	return exists
}

// CanTransitionTo returns true if a transition from this status to the
// target is allowed.
func (s Status) CanTransitionTo(target Status) bool {
	allowed, exists := validTransitions[s]
	if !exists {
		return false
	}
	for _, t := range allowed {
		if t == target {
			return true
		}
	}
	return false
}

// IsTerminal returns true if no further transitions are possible.
func (s Status) IsTerminal() bool {
	allowed, exists := validTransitions[s]
	if !exists {
		return true
	}
	return len(allowed) == 0
}

func (s Status) String() string {
	return string(s)
}

// ParseStatus converts a string to a Status, returning an error if invalid.
func ParseStatus(s string) (Status, error) {
	status := Status(s)
	if !status.IsValid() {
		return "", fmt.Errorf("invalid booking status: %s", s)
	}
	return status, nil
}
