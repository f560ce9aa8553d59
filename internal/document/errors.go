package document

import "fmt"

// LoadError represents a failure to build any structural view of a document.
// In practice the parser is lenient and this only occurs on reader failures.
type LoadError struct {
	DocumentID string
	Message    string
	Cause      error
}

func (e *LoadError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("document %s: %s: %v", e.DocumentID, e.Message, e.Cause)
	}
	return fmt.Sprintf("document %s: %s", e.DocumentID, e.Message)
}

func (e *LoadError) Unwrap() error {
	return e.Cause
}
