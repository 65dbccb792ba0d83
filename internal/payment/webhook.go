package payment

import (
	"context"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/laybackco/backend-garments/internal/common"
	"github.com/laybackco/backend-garments/internal/obs"
)

// ReceiptNotifier schedules a post-settlement notification. Failures are
// logged and swallowed: the database write, not the notification, is the
// webhook's durability boundary.
type ReceiptNotifier interface {
	EnqueueReceipt(ctx context.Context, orderID int64) error
}

// Webhook handles payment provider callbacks: signature verification, event
// normalisation, and order settlement, in that order.
type Webhook struct {
	Providers  map[string]Provider
	Reconciler Reconciler
	Notifier   ReceiptNotifier
	Log        zerolog.Logger
}

// Handle processes POST /api/{provider}/webhook.
//
// The raw body is captured verbatim before anything touches it; both
// providers sign the exact bytes on the wire and a reserialised body would
// never match.
func (h Webhook) Handle(w http.ResponseWriter, r *http.Request) {
	providerKey := strings.ToLower(strings.TrimSpace(chi.URLParam(r, "provider")))
	provider, ok := h.Providers[providerKey]
	if !ok {
		common.Text(w, http.StatusNotFound, "unknown provider")
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		common.Text(w, http.StatusBadRequest, "unable to read payload")
		return
	}

	if err := provider.VerifyWebhook(r, body); err != nil {
		h.Log.Warn().Err(err).
			Str("provider", provider.Name()).
			Str("remote_addr", common.ClientIP(r)).
			Msg("webhook signature rejected")
		obs.CountWebhook(provider.Name(), "rejected")
		common.Text(w, http.StatusBadRequest, provider.RejectionBody(err))
		return
	}

	evt, err := provider.Normalize(body)
	if err != nil {
		h.Log.Warn().Err(err).
			Str("provider", provider.Name()).
			Msg("webhook payload malformed")
		obs.CountWebhook(provider.Name(), "malformed")
		common.Text(w, http.StatusBadRequest, "Invalid payload")
		return
	}

	if evt.Ignored {
		logEvt := h.Log.Debug()
		if evt.Kind == paystackChargeSuccess || evt.Kind == stripePaymentSuccess {
			// A recognised settlement we cannot attribute to an order is the
			// one case manual reconciliation may be needed for.
			logEvt = h.Log.Warn()
		}
		logEvt.
			Str("provider", evt.Provider).
			Str("event", evt.Kind).
			Str("reason", evt.IgnoreReason).
			Msg("webhook event ignored")
		obs.CountWebhook(provider.Name(), "ignored")
		common.JSON(w, http.StatusOK, map[string]bool{"received": true})
		return
	}

	outcome, err := h.Reconciler.Reconcile(r.Context(), evt)
	if err != nil {
		obs.CountWebhook(provider.Name(), "error")
		common.JSONError(w, http.StatusBadGateway, "SETTLEMENT_FAILED", "order settlement failed, delivery will be retried", nil)
		return
	}

	if outcome == OutcomeUpdated && h.Notifier != nil {
		if err := h.Notifier.EnqueueReceipt(r.Context(), evt.OrderID); err != nil {
			h.Log.Error().Err(err).
				Int64("order_id", evt.OrderID).
				Msg("enqueue receipt notification")
		}
	}

	obs.CountWebhook(provider.Name(), string(outcome))
	common.JSON(w, http.StatusOK, map[string]bool{"received": true})
}
