package payment

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	stripe "github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/webhook"
)

const (
	stripeSignatureHeader = "Stripe-Signature"
	stripePaymentSuccess  = "payment_intent.succeeded"
	stripeOrderIDMetadata = "orderId"
)

// Stripe verifies and normalises Stripe webhook notifications using the
// official signed-envelope scheme: HMAC-SHA256 over "timestamp.body" with a
// tolerance window, both enforced by the stripe-go webhook package.
type Stripe struct {
	WebhookSecret string
}

// Name implements Provider.
func (s Stripe) Name() string { return "stripe" }

// VerifyWebhook validates the Stripe-Signature envelope over the raw body.
// Expired timestamps and bad signatures both fail verification.
func (s Stripe) VerifyWebhook(r *http.Request, body []byte) error {
	header := r.Header.Get(stripeSignatureHeader)
	if header == "" {
		return ErrSignatureMissing
	}
	_, err := webhook.ConstructEventWithOptions(body, header, s.WebhookSecret, webhook.ConstructEventOptions{
		IgnoreAPIVersionMismatch: true,
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSignatureInvalid, err)
	}
	return nil
}

// Normalize parses a verified payload. Only payment_intent.succeeded settles
// an order; the order id travels in the payment intent's metadata map.
func (s Stripe) Normalize(body []byte) (Event, error) {
	var event stripe.Event
	if err := json.Unmarshal(body, &event); err != nil {
		return Event{}, fmt.Errorf("parse stripe event: %w", err)
	}

	evt := Event{Provider: s.Name(), Kind: string(event.Type)}
	if string(event.Type) != stripePaymentSuccess {
		evt.Ignored = true
		evt.IgnoreReason = "unhandled event kind"
		return evt, nil
	}

	var intent struct {
		AmountReceived int64             `json:"amount_received"`
		Metadata       map[string]string `json:"metadata"`
	}
	if event.Data == nil || json.Unmarshal(event.Data.Raw, &intent) != nil {
		evt.Ignored = true
		evt.IgnoreReason = "malformed payment intent object"
		return evt, nil
	}
	evt.Amount = intent.AmountReceived

	raw, ok := intent.Metadata[stripeOrderIDMetadata]
	if !ok {
		evt.Ignored = true
		evt.IgnoreReason = "missing order id metadata"
		return evt, nil
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		evt.Ignored = true
		evt.IgnoreReason = "unparseable order id"
		return evt, nil
	}
	evt.OrderID = id
	return evt, nil
}

// RejectionBody implements Provider using Stripe's conventional error shape.
func (Stripe) RejectionBody(err error) string {
	return fmt.Sprintf("Webhook Error: %v", err)
}
