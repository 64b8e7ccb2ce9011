package errs

import (
	"fmt"
	"runtime/debug"
)

type ErrorMessage struct {
	Message string
}

func (e *ErrorMessage) Error() string { return e.Message }

type ValidationError struct {
	ErrorMessage
}

// UpstreamUnavailableError means a vendor client was never constructed. It
// persists until the process restarts with working credentials.
type UpstreamUnavailableError struct {
	ErrorMessage
	Service string
	Fix     string
}

type PaymentRequiredError struct {
	ErrorMessage
	Hint string
}

// ExternalServiceError wraps a failed vendor call. Summary is the
// user-facing label; the wrapped error becomes the details.
type ExternalServiceError struct {
	Service string
	Summary string
	Err     error
	// Stack is only set through WithStack.
	Stack []byte
}

func (e *ExternalServiceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Service, e.Err)
}

func (e *ExternalServiceError) Unwrap() error { return e.Err }

// WithStack records the caller's stack for development error bodies.
func (e *ExternalServiceError) WithStack() *ExternalServiceError {
	e.Stack = debug.Stack()
	return e
}

func NewValidationError(message string) *ValidationError {
	return &ValidationError{
		ErrorMessage: ErrorMessage{Message: message},
	}
}

func NewUpstreamUnavailableError(service, message, fix string) *UpstreamUnavailableError {
	return &UpstreamUnavailableError{
		ErrorMessage: ErrorMessage{Message: message},
		Service:      service,
		Fix:          fix,
	}
}

func NewPaymentRequiredError(message, hint string) *PaymentRequiredError {
	return &PaymentRequiredError{
		ErrorMessage: ErrorMessage{Message: message},
		Hint:         hint,
	}
}

func NewExternalServiceError(service, summary string, err error) *ExternalServiceError {
	return &ExternalServiceError{
		Service: service,
		Summary: summary,
		Err:     err,
	}
}
