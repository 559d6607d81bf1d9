package contact

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ordivo/shopkit/pkg/pg"
)

// PGStorage persists contacts in PostgreSQL.
type PGStorage struct {
	pool *pgxpool.Pool
}

// NewPGStorage wires a PostgreSQL-backed contact store.
func NewPGStorage(pool *pgxpool.Pool) (*PGStorage, error) {
	if pool == nil {
		return nil, errors.New("contact: pgx pool is required")
	}
	return &PGStorage{pool: pool}, nil
}

func (s *PGStorage) Save(ctx context.Context, c *Contact) error {
	const query = `
		INSERT INTO contacts (id, name, email, subject, message, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	if _, err := s.pool.Exec(ctx, query,
		c.ID, c.Name, c.Email, c.Subject, c.Message, c.CreatedAt,
	); err != nil {
		return fmt.Errorf("insert contact: %w", err)
	}
	return nil
}

func (s *PGStorage) FindByID(ctx context.Context, id uuid.UUID) (*Contact, error) {
	const query = `
		SELECT id, name, email, subject, message, created_at
		FROM contacts
		WHERE id = $1`

	var c Contact
	err := s.pool.QueryRow(ctx, query, id).Scan(
		&c.ID, &c.Name, &c.Email, &c.Subject, &c.Message, &c.CreatedAt,
	)
	if err != nil {
		if pg.IsNotFoundError(err) {
			return nil, ErrContactNotFound
		}
		return nil, fmt.Errorf("select contact: %w", err)
	}
	return &c, nil
}

func (s *PGStorage) FindAll(ctx context.Context) ([]Contact, error) {
	const query = `
		SELECT id, name, email, subject, message, created_at
		FROM contacts
		ORDER BY created_at DESC`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("select contacts: %w", err)
	}
	defer rows.Close()

	var list []Contact
	for rows.Next() {
		var c Contact
		if err := rows.Scan(&c.ID, &c.Name, &c.Email, &c.Subject, &c.Message, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan contact: %w", err)
		}
		list = append(list, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate contacts: %w", err)
	}
	return list, nil
}

func (s *PGStorage) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM contacts`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count contacts: %w", err)
	}
	return n, nil
}
