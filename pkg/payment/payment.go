// Package payment defines the charge gateway consumed by checkout and a
// Stripe-backed implementation.
//
// The gateway contract is synchronous: one Charge call either moves money
// and returns a charge reference, or it fails with a typed decline or a
// transport error. Checkout calls it at most once per invocation.
package payment

import (
	"context"
	"errors"
	"fmt"
)

// Charge is the gateway's record of a successful charge. Amount is what
// was actually charged, in minor currency units; orders store this value,
// not the locally computed total, so gateway-side rounding cannot drift.
type Charge struct {
	ID       string
	Amount   int
	Currency string
}

// DeclineError means the gateway refused the payment. The customer can
// retry with a different payment method; nothing was charged.
type DeclineError struct {
	Code    string
	Message string
}

func (e *DeclineError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("payment declined: %s", e.Message)
	}
	return "payment declined"
}

// ErrGatewayUnreachable wraps transport failures talking to the gateway.
// The caller cannot know whether a charge happened; it must NOT blindly
// retry without an idempotency key.
var ErrGatewayUnreachable = errors.New("payment: gateway unreachable")

// ErrChargeStateUnknown wraps the narrower failure where the gateway
// accepted the request but its response could not be read: money has
// likely moved and there is no charge reference to show for it. Checkout
// journals this for manual reconciliation and keeps the idempotency
// claim.
var ErrChargeStateUnknown = errors.New("payment: charge state unknown")

// Gateway is the external charge API.
type Gateway interface {
	// Charge moves amount (minor units) using the opaque payment source
	// supplied by the client. Returns the gateway's charge record, a
	// *DeclineError, or a transport error wrapping ErrGatewayUnreachable.
	Charge(ctx context.Context, amount int, currency, source string) (*Charge, error)
}
