package inventory

import "fmt"

// TransitionRule defines an allowed maintenance-request status transition.
type TransitionRule struct {
	From RequestStatus
	To   RequestStatus
}

// requestTransitions defines the allowed workflow transitions. Requests enter
// at pending; completed, rejected and cancelled are terminal.
var requestTransitions = []TransitionRule{
	{From: StatusPending, To: StatusApproved},
	{From: StatusPending, To: StatusRejected},
	{From: StatusPending, To: StatusCancelled},
	{From: StatusApproved, To: StatusInProgress},
	{From: StatusApproved, To: StatusCancelled},
	{From: StatusInProgress, To: StatusCompleted},
}

// TransitionError is a structured error for invalid workflow transitions.
type TransitionError struct {
	Code    string        `json:"code"`
	From    RequestStatus `json:"from"`
	To      RequestStatus `json:"to"`
	Message string        `json:"message"`
}

func (e *TransitionError) Error() string {
	return e.Message
}

// ValidateRequestTransition checks whether a request may move from one status
// to another. Same-status transitions are a no-op and allowed.
func ValidateRequestTransition(from, to RequestStatus) error {
	if from == to {
		return nil
	}
	for _, t := range requestTransitions {
		if t.From == from && t.To == to {
			return nil
		}
	}
	return &TransitionError{
		Code:    "REQUEST_INVALID_TRANSITION",
		From:    from,
		To:      to,
		Message: fmt.Sprintf("no transition defined from %s to %s", from, to),
	}
}

// AllowedRequestTransitions returns all valid target statuses from the given status.
func AllowedRequestTransitions(from RequestStatus) []RequestStatus {
	var allowed []RequestStatus
	for _, t := range requestTransitions {
		if t.From == from {
			allowed = append(allowed, t.To)
		}
	}
	return allowed
}
