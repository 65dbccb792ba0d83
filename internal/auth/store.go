package auth

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// User is the safe subset of the account model returned to clients. The
// password hash never leaves the package.
type User struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	passwordHash string
}

// Querier is the persistence surface the auth service depends on.
type Querier interface {
	CreateUser(ctx context.Context, name, email, passwordHash, role string) (User, error)
	GetUserByEmail(ctx context.Context, email string) (User, error)
	GetUserByID(ctx context.Context, id int64) (User, error)
}

// Store implements Querier against Postgres.
type Store struct {
	Pool *pgxpool.Pool
}

func (s Store) CreateUser(ctx context.Context, name, email, passwordHash, role string) (User, error) {
	const q = `
		INSERT INTO users (name, email, password_hash, role)
		VALUES ($1, $2, $3, $4)
		RETURNING id, name, email, role, created_at, updated_at`
	var u User
	err := s.Pool.QueryRow(ctx, q, name, email, passwordHash, role).
		Scan(&u.ID, &u.Name, &u.Email, &u.Role, &u.CreatedAt, &u.UpdatedAt)
	return u, err
}

func (s Store) GetUserByEmail(ctx context.Context, email string) (User, error) {
	const q = `
		SELECT id, name, email, password_hash, role, created_at, updated_at
		FROM users
		WHERE email = $1`
	var u User
	err := s.Pool.QueryRow(ctx, q, email).
		Scan(&u.ID, &u.Name, &u.Email, &u.passwordHash, &u.Role, &u.CreatedAt, &u.UpdatedAt)
	return u, err
}

func (s Store) GetUserByID(ctx context.Context, id int64) (User, error) {
	const q = `
		SELECT id, name, email, role, created_at, updated_at
		FROM users
		WHERE id = $1`
	var u User
	err := s.Pool.QueryRow(ctx, q, id).
		Scan(&u.ID, &u.Name, &u.Email, &u.Role, &u.CreatedAt, &u.UpdatedAt)
	return u, err
}
