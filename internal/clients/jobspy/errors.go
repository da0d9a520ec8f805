package jobspy

import "fmt"

// ProviderError classifies retrieval failures. Transient errors (timeouts,
// rate limiting, server-side faults) may be retried; fatal ones may not.
type ProviderError struct {
	Transient  bool
	StatusCode int
	Message    string
}

func (e *ProviderError) Error() string {
	kind := "fatal"
	if e.Transient {
		kind = "transient"
	}
	if e.StatusCode != 0 {
		return fmt.Sprintf("provider error (%s, status %d): %s", kind, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("provider error (%s): %s", kind, e.Message)
}

func transientError(statusCode int, format string, args ...any) *ProviderError {
	return &ProviderError{Transient: true, StatusCode: statusCode, Message: fmt.Sprintf(format, args...)}
}

func fatalError(statusCode int, format string, args ...any) *ProviderError {
	return &ProviderError{StatusCode: statusCode, Message: fmt.Sprintf(format, args...)}
}
