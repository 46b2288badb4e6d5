package webhook

import (
	"fmt"
	"time"
)

// ErrorType categorizes delivery failures
type ErrorType string

const (
	ErrorTypeTimeout    ErrorType = "timeout"
	ErrorTypeNetwork    ErrorType = "network"
	ErrorTypeHTTPStatus ErrorType = "http_status"
	ErrorTypeInvalidURL ErrorType = "invalid_url"
	ErrorTypeCancelled  ErrorType = "cancelled"
)

// DeliveryError is a failed webhook delivery
type DeliveryError struct {
	Type       ErrorType
	Message    string
	StatusCode int
	Body       string
	Cause      error
}

// Error implements the error interface
func (e *DeliveryError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the underlying error for error unwrapping
func (e *DeliveryError) Unwrap() error {
	return e.Cause
}

// UserMessage returns the text shown next to a failed scan
func (e *DeliveryError) UserMessage() string {
	switch e.Type {
	case ErrorTypeHTTPStatus:
		return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Body)
	case ErrorTypeNetwork:
		if e.Cause != nil {
			return e.Cause.Error()
		}
		return e.Message
	case ErrorTypeInvalidURL:
		return fmt.Sprintf("Invalid webhook URL: %s", e.Message)
	default:
		return e.Message
	}
}

func newTimeoutError(timeout time.Duration, cause error) *DeliveryError {
	return &DeliveryError{
		Type:    ErrorTypeTimeout,
		Message: fmt.Sprintf("Request timed out after %s", describeTimeout(timeout)),
		Cause:   cause,
	}
}

func newNetworkError(cause error) *DeliveryError {
	return &DeliveryError{
		Type:    ErrorTypeNetwork,
		Message: "Network error",
		Cause:   cause,
	}
}

func newHTTPStatusError(statusCode int, body string) *DeliveryError {
	return &DeliveryError{
		Type:       ErrorTypeHTTPStatus,
		Message:    fmt.Sprintf("unexpected status %d", statusCode),
		StatusCode: statusCode,
		Body:       body,
	}
}

func newInvalidURLError(message string, cause error) *DeliveryError {
	return &DeliveryError{
		Type:    ErrorTypeInvalidURL,
		Message: message,
		Cause:   cause,
	}
}

func newCancelledError(cause error) *DeliveryError {
	return &DeliveryError{
		Type:    ErrorTypeCancelled,
		Message: "Delivery cancelled",
		Cause:   cause,
	}
}

func describeTimeout(d time.Duration) string {
	if d%time.Second == 0 {
		secs := int(d / time.Second)
		if secs == 1 {
			return "1 second"
		}
		return fmt.Sprintf("%d seconds", secs)
	}
	return d.String()
}
