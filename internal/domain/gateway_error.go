package domain

import "fmt"

// GatewayErrorKind classifies a failed call to the completion service.
type GatewayErrorKind string

const (
	// GatewayServiceUnavailable means the endpoint refused the connection,
	// typically because the local model server is not running.
	GatewayServiceUnavailable GatewayErrorKind = "service_unavailable"
	// GatewayUpstream means the service answered with a non-success status.
	GatewayUpstream GatewayErrorKind = "upstream_error"
	// GatewayTransport covers every other network or timeout failure.
	GatewayTransport GatewayErrorKind = "transport_error"
)

// GatewayError is the single error type crossing the completion-gateway
// boundary. Callers branch on Kind; Status is only set for GatewayUpstream.
type GatewayError struct {
	Kind    GatewayErrorKind
	Status  int
	Message string
	Cause   error
}

func (e *GatewayError) Error() string {
	switch e.Kind {
	case GatewayServiceUnavailable:
		return "completion service is not running: " + e.Message
	case GatewayUpstream:
		return fmt.Sprintf("completion service error (http %d): %s", e.Status, e.Message)
	default:
		return "completion service transport failure: " + e.Message
	}
}

func (e *GatewayError) Unwrap() error { return e.Cause }

// NewGatewayError builds a GatewayError keeping the original cause for errors.Is/As.
func NewGatewayError(kind GatewayErrorKind, status int, msg string, cause error) *GatewayError {
	return &GatewayError{Kind: kind, Status: status, Message: msg, Cause: cause}
}
