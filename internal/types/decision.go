package types

import "time"

// Decision is one entry in a finding's review history.
type Decision struct {
	ID        string    `json:"id"`
	FindingID string    `json:"finding_id"`
	Verdict   Status    `json:"verdict"`
	Note      string    `json:"note,omitempty"`
	DecidedBy string    `json:"decided_by"`
	DecidedAt time.Time `json:"decided_at"`
}

// WindowPolicy is the recorded decision for a new-window link finding.
// New-window anchors may not be touched until one of these is on record.
type WindowPolicy string

const (
	// PolicyKeepWithWarning keeps the new-window target and adds a textual warning.
	PolicyKeepWithWarning WindowPolicy = "keep-with-warning"
	// PolicyRemove removes the new-window target attribute.
	PolicyRemove WindowPolicy = "remove"
	// PolicyLeave leaves the anchor untouched.
	PolicyLeave WindowPolicy = "leave"
)

// ValidWindowPolicy reports whether p is one of the recognized policies.
func ValidWindowPolicy(p WindowPolicy) bool {
	switch p {
	case PolicyKeepWithWarning, PolicyRemove, PolicyLeave:
		return true
	}
	return false
}
