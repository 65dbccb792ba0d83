package payment

import (
	"errors"
	"net/http"
)

// Signature verification failures. Endpoints map any of these to HTTP 400
// with no state mutation.
var (
	ErrSignatureMissing = errors.New("missing signature header")
	ErrSignatureInvalid = errors.New("signature verification failed")
)

// Event is the provider-agnostic form of a webhook notification after
// signature verification and parsing.
//
// Exactly one event kind per provider settles a payment; everything else is
// carried as an explicit Ignored event so callers (and tests) can assert that
// no reconciliation happens for it.
type Event struct {
	Provider     string
	Kind         string
	OrderID      int64
	Amount       int64
	Ignored      bool
	IgnoreReason string
}

// Provider abstracts a payment gateway's webhook authentication and payload
// shape.
//
// VerifyWebhook must be called before Normalize: the signature is computed
// over the exact raw bytes received, and untrusted bytes are never parsed.
type Provider interface {
	Name() string
	VerifyWebhook(r *http.Request, body []byte) error
	Normalize(body []byte) (Event, error)
	RejectionBody(err error) string
}
