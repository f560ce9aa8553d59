package pressbooks

import "fmt"

var (
	// ErrAuthFailed is returned on HTTP 401. Check the username and
	// application password; app passwords must not contain extra spaces.
	ErrAuthFailed = fmt.Errorf("authentication failed: check username and application password")
	// ErrPermissionDenied is returned on HTTP 403: the account lacks edit
	// access to this book.
	ErrPermissionDenied = fmt.Errorf("permission denied: account may not have edit access to this book")
)

// APIError represents any other failure talking to the Pressbooks API.
type APIError struct {
	Message string
	Cause   error
}

func (e *APIError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("pressbooks API error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("pressbooks API error: %s", e.Message)
}

func (e *APIError) Unwrap() error {
	return e.Cause
}
