package faults

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOfAndIs(t *testing.T) {
	err := New(GatewayDeclined, "card declined")
	assert.Equal(t, GatewayDeclined, KindOf(err))
	assert.True(t, Is(err, GatewayDeclined))
	assert.False(t, Is(err, Validation))

	// Kind survives wrapping with %w.
	wrapped := fmt.Errorf("checkout: %w", err)
	assert.Equal(t, GatewayDeclined, KindOf(wrapped))

	assert.Equal(t, Unknown, KindOf(errors.New("plain")))
	assert.Equal(t, Unknown, KindOf(nil))
}

func TestWrapKeepsCause(t *testing.T) {
	cause := errors.New("unique constraint violated")
	err := Wrap(Reconciliation, "order could not be recorded", cause)

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, Reconciliation, KindOf(err))
	assert.Contains(t, err.Error(), "reconciliation")
	assert.Contains(t, err.Error(), "unique constraint violated")
}

func TestUserMessageNeverLeaksInternals(t *testing.T) {
	cause := errors.New("dial tcp 10.0.0.5:5432: connection refused")
	err := Wrap(TransientStore, "could not sign in", cause)

	msg := UserMessage(err)
	assert.Equal(t, "could not sign in", msg)
	assert.NotContains(t, msg, "10.0.0.5")

	assert.Equal(t, "Internal server error", UserMessage(cause))
}

func TestHTTPStatusMapping(t *testing.T) {
	cases := map[Kind]int{
		AuthenticationRequired: http.StatusUnauthorized,
		AuthorizationDenied:    http.StatusForbidden,
		Validation:             http.StatusUnprocessableEntity,
		NotFound:               http.StatusNotFound,
		GatewayDeclined:        http.StatusPaymentRequired,
		TransientStore:         http.StatusServiceUnavailable,
		Reconciliation:         http.StatusInternalServerError,
		Unknown:                http.StatusInternalServerError,
	}
	for kind, want := range cases {
		assert.Equal(t, want, kind.HTTPStatus(), kind.String())
	}
}
