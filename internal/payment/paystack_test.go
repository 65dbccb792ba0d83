package payment_test

import (
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/laybackco/backend-garments/internal/payment"
)

const paystackSecret = "sk_test_paystack_secret"

func signPaystack(secret string, body []byte) string {
	mac := hmac.New(sha512.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

func paystackRequest(body []byte, signature string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/api/paystack/webhook", nil)
	if signature != "" {
		req.Header.Set("x-paystack-signature", signature)
	}
	return req
}

func TestPaystackVerifyValidSignature(t *testing.T) {
	p := payment.Paystack{SecretKey: paystackSecret}
	body := []byte(`{"event":"charge.success","data":{"amount":150000}}`)
	req := paystackRequest(body, signPaystack(paystackSecret, body))
	require.NoError(t, p.VerifyWebhook(req, body))
}

func TestPaystackVerifyRejectsTamperedBody(t *testing.T) {
	p := payment.Paystack{SecretKey: paystackSecret}
	body := []byte(`{"event":"charge.success","data":{"amount":150000}}`)
	sig := signPaystack(paystackSecret, body)

	tampered := make([]byte, len(body))
	copy(tampered, body)
	tampered[len(tampered)/2] ^= 0x01

	req := paystackRequest(tampered, sig)
	require.ErrorIs(t, p.VerifyWebhook(req, tampered), payment.ErrSignatureInvalid)
}

func TestPaystackVerifyRejectsMutatedSignature(t *testing.T) {
	p := payment.Paystack{SecretKey: paystackSecret}
	body := []byte(`{"event":"charge.success"}`)
	sig := []byte(signPaystack(paystackSecret, body))
	if sig[0] == 'a' {
		sig[0] = 'b'
	} else {
		sig[0] = 'a'
	}
	req := paystackRequest(body, string(sig))
	require.ErrorIs(t, p.VerifyWebhook(req, body), payment.ErrSignatureInvalid)
}

func TestPaystackVerifyRejectsMissingHeader(t *testing.T) {
	p := payment.Paystack{SecretKey: paystackSecret}
	body := []byte(`{}`)
	req := paystackRequest(body, "")
	require.ErrorIs(t, p.VerifyWebhook(req, body), payment.ErrSignatureMissing)
}

func TestPaystackNormalizeChargeSuccess(t *testing.T) {
	p := payment.Paystack{SecretKey: paystackSecret}
	body := []byte(`{
		"event": "charge.success",
		"data": {
			"amount": 150000,
			"metadata": {
				"custom_fields": [
					{"variable_name": "cart_ref", "value": "abc"},
					{"variable_name": "order_id", "value": "42"}
				]
			}
		}
	}`)
	evt, err := p.Normalize(body)
	require.NoError(t, err)
	require.False(t, evt.Ignored)
	require.Equal(t, "paystack", evt.Provider)
	require.Equal(t, "charge.success", evt.Kind)
	require.Equal(t, int64(42), evt.OrderID)
	require.Equal(t, int64(150000), evt.Amount)
}

func TestPaystackNormalizeNumericOrderID(t *testing.T) {
	p := payment.Paystack{}
	body := []byte(`{"event":"charge.success","data":{"metadata":{"custom_fields":[{"variable_name":"order_id","value":42}]}}}`)
	evt, err := p.Normalize(body)
	require.NoError(t, err)
	require.False(t, evt.Ignored)
	require.Equal(t, int64(42), evt.OrderID)
}

func TestPaystackNormalizeIgnoresOtherKinds(t *testing.T) {
	p := payment.Paystack{}
	for _, kind := range []string{"charge.failed", "invoice.created", "transfer.success"} {
		evt, err := p.Normalize([]byte(`{"event":"` + kind + `"}`))
		require.NoError(t, err)
		require.True(t, evt.Ignored, "expected %s to be ignored", kind)
		require.Equal(t, kind, evt.Kind)
	}
}

func TestPaystackNormalizeMissingOrderID(t *testing.T) {
	p := payment.Paystack{}
	evt, err := p.Normalize([]byte(`{"event":"charge.success","data":{"metadata":{"custom_fields":[]}}}`))
	require.NoError(t, err)
	require.True(t, evt.Ignored)
	require.Equal(t, "missing order id metadata", evt.IgnoreReason)
}

func TestPaystackNormalizeMalformedJSON(t *testing.T) {
	p := payment.Paystack{}
	_, err := p.Normalize([]byte(`{not json`))
	require.Error(t, err)
}
