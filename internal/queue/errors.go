package queue

import (
	"fmt"

	"github.com/jonathan/pressbooks-auditor/internal/types"
)

var (
	// ErrNotTracked is returned when a finding ID is not in the queue.
	ErrNotTracked = fmt.Errorf("finding not tracked")
	// ErrBadVerdict is returned when Decide is called with a verdict other
	// than approved or rejected.
	ErrBadVerdict = fmt.Errorf("verdict must be approved or rejected")
	// ErrPolicyRequired is returned when a new-window link finding is marked
	// applied without a recorded window policy.
	ErrPolicyRequired = fmt.Errorf("new-window link requires a recorded policy decision")
	// ErrBadPolicy is returned for an unrecognized window policy value.
	ErrBadPolicy = fmt.Errorf("unrecognized window policy")
)

// IllegalTransitionError rejects a state change the lifecycle does not allow.
// The queue's state is left unchanged; the caller must inspect the current
// status and retry the correct transition.
type IllegalTransitionError struct {
	FindingID string
	From      types.Status
	To        types.Status
}

func (e *IllegalTransitionError) Error() string {
	return fmt.Sprintf("illegal transition for finding %s: %s -> %s", e.FindingID, e.From, e.To)
}
