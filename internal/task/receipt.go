package task

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"

	"github.com/laybackco/backend-garments/internal/common"
)

// TypeOrderReceipt is the asynq task type for post-settlement receipt emails.
const TypeOrderReceipt = "email:order_receipt"

type orderReceiptPayload struct {
	OrderID int64 `json:"order_id"`
}

// NewOrderReceiptTask builds a receipt email task for the given order.
func NewOrderReceiptTask(orderID int64) (*asynq.Task, error) {
	payload, err := json.Marshal(orderReceiptPayload{OrderID: orderID})
	if err != nil {
		return nil, fmt.Errorf("marshal receipt payload: %w", err)
	}
	return asynq.NewTask(TypeOrderReceipt, payload, asynq.MaxRetry(5), asynq.Timeout(30*time.Second)), nil
}

// Enqueuer schedules receipt tasks on the shared asynq client.
type Enqueuer struct {
	Client *asynq.Client
}

// EnqueueReceipt queues a receipt email for a freshly settled order.
func (e Enqueuer) EnqueueReceipt(ctx context.Context, orderID int64) error {
	t, err := NewOrderReceiptTask(orderID)
	if err != nil {
		return err
	}
	if _, err := e.Client.EnqueueContext(ctx, t); err != nil {
		return fmt.Errorf("enqueue %s: %w", TypeOrderReceipt, err)
	}
	return nil
}

// EmailLookup resolves the buyer email for an order.
type EmailLookup interface {
	Email(ctx context.Context, orderID int64) (string, error)
}

// ReceiptHandler processes order receipt tasks.
type ReceiptHandler struct {
	Orders EmailLookup
	Sender common.EmailSender
	Log    zerolog.Logger
}

// ProcessTask implements asynq.Handler.
func (h ReceiptHandler) ProcessTask(ctx context.Context, t *asynq.Task) error {
	var payload orderReceiptPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		// Malformed payloads never become valid; do not retry.
		return fmt.Errorf("unmarshal receipt payload: %v: %w", err, asynq.SkipRetry)
	}

	email, err := h.Orders.Email(ctx, payload.OrderID)
	if err != nil {
		return fmt.Errorf("lookup order %d email: %w", payload.OrderID, err)
	}

	subject := fmt.Sprintf("Payment received for order #%d", payload.OrderID)
	body := fmt.Sprintf("We have received your payment for order #%d. Thank you for shopping with us.", payload.OrderID)
	if err := h.Sender.Send(email, subject, body); err != nil {
		return fmt.Errorf("send receipt for order %d: %w", payload.OrderID, err)
	}

	h.Log.Info().Int64("order_id", payload.OrderID).Msg("order receipt sent")
	return nil
}
