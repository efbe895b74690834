package billing

import (
	"errors"

	"github.com/stripe/stripe-go/v81"
)

// GatewayError is a normalized payment-gateway failure (card declined,
// connection failure). The orchestrator catches it at its boundary and turns
// it into a failed result instead of letting it propagate.
type GatewayError struct {
	Code        string
	DeclineCode string
	Message     string
	Err         error
}

// Error implements the error interface
func (e *GatewayError) Error() string {
	return e.Message
}

// Unwrap returns the underlying gateway error
func (e *GatewayError) Unwrap() error {
	return e.Err
}

// newGatewayError normalizes a stripe-go error into a GatewayError
func newGatewayError(err error) *GatewayError {
	var stripeErr *stripe.Error
	if errors.As(err, &stripeErr) {
		msg := stripeErr.Msg
		if msg == "" {
			msg = "Payment failed"
		}
		return &GatewayError{
			Code:        string(stripeErr.Code),
			DeclineCode: string(stripeErr.DeclineCode),
			Message:     msg,
			Err:         err,
		}
	}
	return &GatewayError{
		Message: "Payment gateway unavailable",
		Err:     err,
	}
}

// AsGatewayError reports whether err is a normalized gateway failure
func AsGatewayError(err error) (*GatewayError, bool) {
	var gwErr *GatewayError
	if errors.As(err, &gwErr) {
		return gwErr, true
	}
	return nil, false
}
