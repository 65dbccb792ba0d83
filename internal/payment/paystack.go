package payment

import (
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
)

const (
	paystackSignatureHeader = "x-paystack-signature"
	paystackChargeSuccess   = "charge.success"
	orderIDFieldName        = "order_id"
)

// Paystack verifies and normalises Paystack webhook notifications.
//
// Paystack signs the exact raw body with hex-encoded HMAC-SHA512 keyed by the
// account secret and sends the digest in x-paystack-signature.
type Paystack struct {
	SecretKey string
}

// Name implements Provider.
func (p Paystack) Name() string { return "paystack" }

// VerifyWebhook checks the body signature against the request header.
func (p Paystack) VerifyWebhook(r *http.Request, body []byte) error {
	provided := strings.TrimSpace(r.Header.Get(paystackSignatureHeader))
	if provided == "" {
		return ErrSignatureMissing
	}
	expected := p.computeSignature(body)
	if expected == "" || !hmac.Equal([]byte(expected), []byte(provided)) {
		return ErrSignatureInvalid
	}
	return nil
}

func (p Paystack) computeSignature(body []byte) string {
	key := strings.TrimSpace(p.SecretKey)
	if key == "" {
		return ""
	}
	mac := hmac.New(sha512.New, []byte(key))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

// Normalize parses a verified payload into the provider-agnostic event form.
// Only charge.success settles an order; the order id travels in the metadata
// custom field list under variable_name "order_id".
func (p Paystack) Normalize(body []byte) (Event, error) {
	var payload struct {
		Event string `json:"event"`
		Data  struct {
			Amount   int64 `json:"amount"`
			Metadata struct {
				CustomFields []struct {
					VariableName string          `json:"variable_name"`
					Value        json.RawMessage `json:"value"`
				} `json:"custom_fields"`
			} `json:"metadata"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return Event{}, fmt.Errorf("parse paystack payload: %w", err)
	}

	evt := Event{Provider: p.Name(), Kind: payload.Event, Amount: payload.Data.Amount}
	if payload.Event != paystackChargeSuccess {
		evt.Ignored = true
		evt.IgnoreReason = "unhandled event kind"
		return evt, nil
	}

	for _, field := range payload.Data.Metadata.CustomFields {
		if field.VariableName != orderIDFieldName {
			continue
		}
		id, err := parseFlexibleInt(field.Value)
		if err != nil {
			evt.Ignored = true
			evt.IgnoreReason = "unparseable order id"
			return evt, nil
		}
		evt.OrderID = id
		return evt, nil
	}
	evt.Ignored = true
	evt.IgnoreReason = "missing order id metadata"
	return evt, nil
}

// RejectionBody implements Provider. Paystack retries on anything but 200, so
// the body is informational only.
func (Paystack) RejectionBody(err error) string {
	if err == ErrSignatureMissing {
		return "Missing signature"
	}
	return "Invalid signature"
}

// parseFlexibleInt accepts both JSON numbers and numeric strings; provider
// dashboards are inconsistent about which one metadata values arrive as.
func parseFlexibleInt(raw json.RawMessage) (int64, error) {
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" || trimmed == "null" {
		return 0, fmt.Errorf("empty value")
	}
	if unquoted, err := strconv.Unquote(trimmed); err == nil {
		trimmed = unquoted
	}
	return strconv.ParseInt(strings.TrimSpace(trimmed), 10, 64)
}
