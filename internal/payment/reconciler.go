package payment

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
)

// Outcome reports how a settlement event was applied to the order record.
type Outcome string

const (
	// OutcomeUpdated means the order transitioned to Paid by this event.
	OutcomeUpdated Outcome = "updated"
	// OutcomeUnchanged means the update matched no unpaid row: the order was
	// already paid or does not exist. The two cases are deliberately not
	// distinguished; replays and cross-provider races converge here and must
	// be acknowledged, not errored.
	OutcomeUnchanged Outcome = "unchanged"
)

// OrderMarker is the single store operation the reconciler needs.
type OrderMarker interface {
	MarkPaid(ctx context.Context, orderID int64) (rowsAffected int64, err error)
}

// Reconciler applies a normalised settlement event to the orders table.
//
// The update is idempotent by value: concurrent duplicate deliveries for the
// same order all drive it to Paid regardless of interleaving, so no in-process
// locking is taken. A store error is returned untouched; the caller answers
// 5xx and relies on provider redelivery, never acknowledging before the write
// commits.
type Reconciler struct {
	Orders OrderMarker
	Log    zerolog.Logger
}

// Reconcile marks the event's order as paid.
func (rc Reconciler) Reconcile(ctx context.Context, evt Event) (Outcome, error) {
	if rc.Orders == nil {
		return "", fmt.Errorf("reconciler: order store not configured")
	}
	rows, err := rc.Orders.MarkPaid(ctx, evt.OrderID)
	if err != nil {
		rc.Log.Error().Err(err).
			Str("provider", evt.Provider).
			Str("event", evt.Kind).
			Int64("order_id", evt.OrderID).
			Msg("payment settlement write failed; awaiting provider redelivery")
		return "", fmt.Errorf("mark order %d paid: %w", evt.OrderID, err)
	}
	if rows == 0 {
		rc.Log.Info().
			Str("provider", evt.Provider).
			Int64("order_id", evt.OrderID).
			Msg("settlement event matched no unpaid order")
		return OutcomeUnchanged, nil
	}
	rc.Log.Info().
		Str("provider", evt.Provider).
		Str("event", evt.Kind).
		Int64("order_id", evt.OrderID).
		Int64("amount", evt.Amount).
		Msg("order marked paid")
	return OutcomeUpdated, nil
}
