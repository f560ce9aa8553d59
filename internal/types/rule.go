package types

// Severity is the blocking tier of a rule.
type Severity string

const (
	// SeverityBlocking findings must be decided before a chapter is pushed back.
	SeverityBlocking Severity = "blocking"
	// SeverityAdvisory findings are reported but never block remediation.
	SeverityAdvisory Severity = "advisory"
)

// Rule describes one detector in the fixed catalog.
type Rule struct {
	ID          string   `json:"rule_id"`
	Description string   `json:"description"`
	Severity    Severity `json:"severity"`

	// ManualReview marks rules that can only flag candidates; the engine
	// cannot judge the fix programmatically (e.g. alt text quality).
	ManualReview bool `json:"manual_review"`
}

// Diagnostic records a coverage gap: a document or construct the loader or a
// rule could not evaluate. Diagnostics ride alongside the manifest and are
// never fatal to a scan.
type Diagnostic struct {
	DocumentID string `json:"document_id"`
	RuleID     string `json:"rule_id,omitempty"`
	Message    string `json:"message"`
}
