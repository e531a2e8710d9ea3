package payment

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/client"
	"github.com/stripe/stripe-go/v79/webhook"
)

// journeyPricePence is the fixed unlock fee: £5.00.
const journeyPricePence = 500

const checkoutCompletedEvent = "checkout.session.completed"

type StripeGateway struct {
	api           *client.API
	webhookSecret string
	clientURL     string
}

// NewStripeGateway builds a gateway around its own API client rather
// than the package-global stripe key, so instances can be constructed
// per configuration and swapped in tests.
func NewStripeGateway(secretKey, webhookSecret, clientURL string) *StripeGateway {
	api := &client.API{}
	api.Init(secretKey, nil)
	return &StripeGateway{
		api:           api,
		webhookSecret: webhookSecret,
		clientURL:     clientURL,
	}
}

func (g *StripeGateway) CreateCheckoutSession(ctx context.Context, journeyID, journeyTitle string) (CheckoutSession, error) {
	params := &stripe.CheckoutSessionParams{
		Params:             stripe.Params{Context: ctx},
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		Mode:               stripe.String(string(stripe.CheckoutSessionModePayment)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency:   stripe.String(string(stripe.CurrencyGBP)),
					UnitAmount: stripe.Int64(journeyPricePence),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name:        stripe.String("Journey: " + journeyTitle),
						Description: stripe.String("Share your thoughtful journey with someone special"),
					},
				},
				Quantity: stripe.Int64(1),
			},
		},
		SuccessURL: stripe.String(g.clientURL + "/journeys/" + journeyID + "/success"),
		CancelURL:  stripe.String(g.clientURL + "/journeys/" + journeyID),
	}
	params.AddMetadata("journeyId", journeyID)

	sess, err := g.api.CheckoutSessions.New(params)
	if err != nil {
		return CheckoutSession{}, err
	}
	return fromStripeSession(sess), nil
}

func (g *StripeGateway) GetCheckoutSession(ctx context.Context, sessionID string) (CheckoutSession, error) {
	params := &stripe.CheckoutSessionParams{
		Params: stripe.Params{Context: ctx},
	}
	sess, err := g.api.CheckoutSessions.Get(sessionID, params)
	if err != nil {
		var stripeErr *stripe.Error
		if errors.As(err, &stripeErr) && stripeErr.Code == stripe.ErrorCodeResourceMissing {
			return CheckoutSession{}, ErrSessionNotFound
		}
		return CheckoutSession{}, err
	}
	return fromStripeSession(sess), nil
}

// VerifyWebhook checks the signature over the raw payload and, for
// checkout completion events, lifts the embedded session into the
// processor-neutral shape.
func (g *StripeGateway) VerifyWebhook(payload []byte, signature string) (Event, error) {
	stripeEvent, err := webhook.ConstructEvent(payload, signature, g.webhookSecret)
	if err != nil {
		return Event{}, err
	}

	event := Event{Type: string(stripeEvent.Type)}
	if event.Type != checkoutCompletedEvent {
		return event, nil
	}

	var sess stripe.CheckoutSession
	if err := json.Unmarshal(stripeEvent.Data.Raw, &sess); err != nil {
		return Event{}, err
	}
	event.Session = fromStripeSession(&sess)
	return event, nil
}

func fromStripeSession(sess *stripe.CheckoutSession) CheckoutSession {
	return CheckoutSession{
		ID:            sess.ID,
		PaymentStatus: string(sess.PaymentStatus),
		JourneyID:     sess.Metadata["journeyId"],
	}
}
