package payment

import (
	"context"
	"errors"
)

// ErrSessionNotFound is returned by Gateway implementations when the
// processor reports that a checkout session id does not exist, as
// opposed to any other upstream failure.
var ErrSessionNotFound = errors.New("checkout session not found")

// CheckoutSession is the processor-neutral view of a hosted checkout
// session. JourneyID comes from session metadata and is empty when the
// session carries none.
type CheckoutSession struct {
	ID            string
	PaymentStatus string
	JourneyID     string
}

// Event is a verified webhook notification from the processor.
type Event struct {
	Type    string
	Session CheckoutSession
}

// Gateway wraps the hosted payment processor. The concrete Stripe
// implementation lives in stripe.go; tests substitute a fake.
type Gateway interface {
	CreateCheckoutSession(ctx context.Context, journeyID, journeyTitle string) (CheckoutSession, error)
	GetCheckoutSession(ctx context.Context, sessionID string) (CheckoutSession, error)
	VerifyWebhook(payload []byte, signature string) (Event, error)
}
