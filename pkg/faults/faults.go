// Package faults classifies the errors the store's core operations can
// produce, so callers can tell "nothing happened, retry safely" apart from
// "a charge happened, do not retry blindly".
package faults

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind is the coarse error category surfaced to transports and logs.
type Kind int

const (
	// Unknown is any error that was not produced through this package.
	Unknown Kind = iota

	// AuthenticationRequired means no valid session; sign in and retry.
	AuthenticationRequired

	// AuthorizationDenied means the caller is signed in but lacks the
	// required permission or ownership.
	AuthorizationDenied

	// Validation means malformed input; retryable after correction.
	Validation

	// NotFound means the referenced record is absent or not visible to
	// the caller. Deliberately generic where existence must not leak.
	NotFound

	// GatewayDeclined means the payment was refused. No order was
	// created and the cart is untouched.
	GatewayDeclined

	// Reconciliation means a charge succeeded but the order could not be
	// persisted. High severity: an operator must resolve it by hand.
	Reconciliation

	// TransientStore means the backing store was unavailable.
	TransientStore
)

func (k Kind) String() string {
	switch k {
	case AuthenticationRequired:
		return "authentication_required"
	case AuthorizationDenied:
		return "authorization_denied"
	case Validation:
		return "validation"
	case NotFound:
		return "not_found"
	case GatewayDeclined:
		return "gateway_declined"
	case Reconciliation:
		return "reconciliation"
	case TransientStore:
		return "transient_store"
	default:
		return "unknown"
	}
}

// HTTPStatus maps a kind to the status code used by the HTTP edges.
func (k Kind) HTTPStatus() int {
	switch k {
	case AuthenticationRequired:
		return http.StatusUnauthorized
	case AuthorizationDenied:
		return http.StatusForbidden
	case Validation:
		return http.StatusUnprocessableEntity
	case NotFound:
		return http.StatusNotFound
	case GatewayDeclined:
		return http.StatusPaymentRequired
	case TransientStore:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// Error carries a kind, a user-facing message, and an optional cause.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// New builds a fault with a user-facing message.
func New(kind Kind, message string) error {
	return &Error{Kind: kind, Message: message}
}

// Newf builds a fault with a formatted user-facing message.
func Newf(kind Kind, format string, args ...interface{}) error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches a kind and message to an underlying error.
func Wrap(kind Kind, message string, err error) error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// KindOf extracts the kind of err, or Unknown.
func KindOf(err error) Kind {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return Unknown
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	return KindOf(err) == kind
}

// UserMessage returns the message safe to show the caller.
// Unclassified errors collapse into a generic message so internals never
// leak through the API.
func UserMessage(err error) string {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Message
	}
	return "Internal server error"
}
