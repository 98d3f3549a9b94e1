package backend

import "fmt"

// ValidationError is raised when the backend rejects a request with a 422
// validation status. Message carries the extracted validation detail.
type ValidationError struct {
	Message    string
	StatusCode int
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("VALIDATION_ERROR: %s", e.Message)
}

// APIError is raised for any other backend error response. Code carries
// the backend's error code when the fault descriptor includes one.
type APIError struct {
	Message    string
	Code       string
	StatusCode int
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%s (%s)", e.Message, e.Code)
	}
	return e.Message
}
