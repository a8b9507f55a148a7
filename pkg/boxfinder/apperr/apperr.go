// Package apperr defines the error taxonomy shown to visitors and the
// mapping from collaborator failures onto it.
package apperr

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
)

// Kind classifies a failure for display and recovery decisions
type Kind string

const (
	ValidationRejected Kind = "validation_rejected"
	DuplicateName      Kind = "duplicate_name"
	NotFound           Kind = "not_found"
	PermissionDenied   Kind = "permission_denied"
	TransientNetwork   Kind = "transient_network"
	Unknown            Kind = "unknown"
)

// FieldError is a single field-level rejection
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error is a classified failure. Err keeps the underlying cause, if any.
type Error struct {
	Kind    Kind
	Message string
	Fields  []FieldError
	Err     error
}

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return string(e.Kind)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New creates an Error of the given kind
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap creates an Error of the given kind around cause
func Wrap(kind Kind, cause error, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Err: cause}
}

// Rejected creates a ValidationRejected error carrying field messages.
// The first field message becomes the error message.
func Rejected(fields ...FieldError) *Error {
	msg := "validation failed"
	if len(fields) > 0 {
		msg = fields[0].Message
	}
	return &Error{Kind: ValidationRejected, Message: msg, Fields: fields}
}

// transientMarkers are the message fragments that mark a retryable failure
var transientMarkers = []string{"network", "timeout", "failed to fetch"}

// isTransientMessage reports whether msg looks like a retryable network failure
func isTransientMessage(msg string) bool {
	lower := strings.ToLower(msg)
	for _, m := range transientMarkers {
		if strings.Contains(lower, m) {
			return true
		}
	}
	return false
}

// Classify maps any error onto the taxonomy. Already classified errors are
// returned unchanged; nil yields nil.
func Classify(err error) *Error {
	if err == nil {
		return nil
	}

	var ae *Error
	if errors.As(err, &ae) {
		return ae
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return &Error{Kind: TransientNetwork, Message: "request timeout", Err: err}
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return &Error{Kind: TransientNetwork, Message: "network error: " + netErr.Error(), Err: err}
	}

	if isTransientMessage(err.Error()) {
		return &Error{Kind: TransientNetwork, Message: err.Error(), Err: err}
	}

	return &Error{Kind: Unknown, Message: err.Error(), Err: err}
}

// KindOf returns the kind of err after classification
func KindOf(err error) Kind {
	if ae := Classify(err); ae != nil {
		return ae.Kind
	}
	return ""
}

// IsTransient reports whether err should be retried automatically
func IsTransient(err error) bool {
	return KindOf(err) == TransientNetwork
}

// HTTPStatus maps a kind onto a response status code
func HTTPStatus(kind Kind) int {
	switch kind {
	case ValidationRejected:
		return http.StatusBadRequest
	case DuplicateName:
		return http.StatusConflict
	case NotFound:
		return http.StatusNotFound
	case PermissionDenied:
		return http.StatusForbidden
	case TransientNetwork:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// Response builds the HTTP status and JSON body for err. Unknown failures
// report fallback instead of the raw cause when one is given.
func Response(err error, fallback string) (int, map[string]any) {
	ae := Classify(err)
	if ae == nil {
		ae = New(Unknown, fallback)
	}
	msg := ae.Error()
	if ae.Kind == Unknown && fallback != "" {
		msg = fallback
	}
	body := map[string]any{"error": msg, "kind": ae.Kind}
	if len(ae.Fields) > 0 {
		body["fields"] = ae.Fields
	}
	return HTTPStatus(ae.Kind), body
}
