package application

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Application is a job application submission. CVFileName is the stored
// filename under the upload directory, empty when no resume was attached.
type Application struct {
	FirstName   string
	LastName    string
	Email       string
	Phone       string
	Address     string
	City        string
	PostalCode  string
	Country     string
	JobRole     string
	HowFound    string
	CoverLetter string
	CVFileName  string
}

// Inserter persists a submitted application.
type Inserter interface {
	Insert(ctx context.Context, app Application) (int64, error)
}

// Store implements Inserter against Postgres.
type Store struct {
	Pool *pgxpool.Pool
}

func (s Store) Insert(ctx context.Context, app Application) (int64, error) {
	const q = `
		INSERT INTO job_applications (
			first_name, last_name, email, phone, address, city, postal_code,
			country, job_role, how_found, cover_letter, cv_file_name
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id`
	var id int64
	err := s.Pool.QueryRow(ctx, q,
		app.FirstName, app.LastName, app.Email, app.Phone,
		app.Address, app.City, app.PostalCode, app.Country,
		app.JobRole, app.HowFound, nullable(app.CoverLetter), nullable(app.CVFileName),
	).Scan(&id)
	return id, err
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
