package auth

import (
	"context"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type fakeQueries struct {
	mu      sync.Mutex
	nextID  int64
	byEmail map[string]User
	byID    map[int64]User
}

func newFakeQueries() *fakeQueries {
	return &fakeQueries{
		nextID:  1,
		byEmail: map[string]User{},
		byID:    map[int64]User{},
	}
}

func (f *fakeQueries) CreateUser(_ context.Context, name, email, passwordHash, role string) (User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, exists := f.byEmail[email]; exists {
		return User{}, &pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"}
	}
	now := time.Now()
	u := User{
		ID:           f.nextID,
		Name:         name,
		Email:        email,
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
		passwordHash: passwordHash,
	}
	f.nextID++
	f.byEmail[email] = u
	f.byID[u.ID] = u
	return u, nil
}

func (f *fakeQueries) GetUserByEmail(_ context.Context, email string) (User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.byEmail[email]
	if !ok {
		return User{}, pgx.ErrNoRows
	}
	return u, nil
}

func (f *fakeQueries) GetUserByID(_ context.Context, id int64) (User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.byID[id]
	if !ok {
		return User{}, pgx.ErrNoRows
	}
	return u, nil
}

func newTestService(queries Querier) *Service {
	svc, err := NewService(Config{Queries: queries, Secret: "test-secret-key"})
	if err != nil {
		panic(err)
	}
	return svc
}
