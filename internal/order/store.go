package order

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Status enumerates the payment states an order moves through.
type Status string

const (
	StatusUnpaid Status = "Unpaid"
	StatusPaid   Status = "Paid"
)

// ErrNotFound is returned when an order does not exist or belongs to another user.
var ErrNotFound = errors.New("order not found")

// Order is a persisted customer order.
type Order struct {
	ID            int64     `json:"id"`
	UserID        int64     `json:"user_id"`
	TotalAmount   int64     `json:"total_amount"`
	Currency      string    `json:"currency"`
	PaymentStatus Status    `json:"payment_status"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Store owns all order SQL. Statements are parameterized throughout; orders
// are created by an out-of-scope placement flow and only mutated here.
type Store struct {
	Pool *pgxpool.Pool
}

// NewStore constructs a Store over the injected connection pool.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{Pool: pool}
}

// MarkPaid performs the single conditional settlement update and reports the
// number of rows touched. Zero rows means the order is already paid or
// unknown; callers treat both as a safe no-op.
func (s *Store) MarkPaid(ctx context.Context, orderID int64) (int64, error) {
	tag, err := s.Pool.Exec(ctx,
		`UPDATE orders SET payment_status = $1, updated_at = now() WHERE order_id = $2 AND payment_status <> $1`,
		StatusPaid, orderID,
	)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// Get returns a single order scoped to its owner.
func (s *Store) Get(ctx context.Context, orderID, userID int64) (Order, error) {
	var o Order
	err := s.Pool.QueryRow(ctx,
		`SELECT order_id, user_id, total_amount, currency, payment_status, created_at, updated_at
		   FROM orders WHERE order_id = $1 AND user_id = $2`,
		orderID, userID,
	).Scan(&o.ID, &o.UserID, &o.TotalAmount, &o.Currency, &o.PaymentStatus, &o.CreatedAt, &o.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Order{}, ErrNotFound
	}
	if err != nil {
		return Order{}, err
	}
	return o, nil
}

// ListByUser returns the user's orders, newest first.
func (s *Store) ListByUser(ctx context.Context, userID int64, limit, offset int32) ([]Order, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	rows, err := s.Pool.Query(ctx,
		`SELECT order_id, user_id, total_amount, currency, payment_status, created_at, updated_at
		   FROM orders WHERE user_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`,
		userID, limit, offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Order
	for rows.Next() {
		var o Order
		if err := rows.Scan(&o.ID, &o.UserID, &o.TotalAmount, &o.Currency, &o.PaymentStatus, &o.CreatedAt, &o.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

// Email returns the order owner's email for receipt notifications.
func (s *Store) Email(ctx context.Context, orderID int64) (string, error) {
	var email string
	err := s.Pool.QueryRow(ctx,
		`SELECT u.email FROM orders o JOIN users u ON u.id = o.user_id WHERE o.order_id = $1`,
		orderID,
	).Scan(&email)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", ErrNotFound
	}
	return email, err
}
