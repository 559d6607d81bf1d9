package order

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ordivo/shopkit/pkg/orderstatus"
	"github.com/ordivo/shopkit/pkg/pg"
)

// PGStorage persists orders in PostgreSQL. Order items are stored as a
// JSONB column since they are only ever read back with their order.
type PGStorage struct {
	pool *pgxpool.Pool
}

// NewPGStorage wires a PostgreSQL-backed order store.
func NewPGStorage(pool *pgxpool.Pool) (*PGStorage, error) {
	if pool == nil {
		return nil, errors.New("order: pgx pool is required")
	}
	return &PGStorage{pool: pool}, nil
}

func (s *PGStorage) Save(ctx context.Context, o *Order) error {
	items, err := json.Marshal(o.Items)
	if err != nil {
		return fmt.Errorf("marshal order items: %w", err)
	}

	const query = `
		INSERT INTO orders (id, number, customer_name, customer_email, status, total, items, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	if _, err := s.pool.Exec(ctx, query,
		o.ID, o.Number, o.CustomerName, o.CustomerEmail,
		string(o.Status), o.Total, items, o.CreatedAt, o.UpdatedAt,
	); err != nil {
		if pg.IsDuplicateKeyError(err) {
			return ErrDuplicateNumber
		}
		return fmt.Errorf("insert order: %w", err)
	}
	return nil
}

func (s *PGStorage) FindByNumber(ctx context.Context, number string) (*Order, error) {
	const query = `
		SELECT id, number, customer_name, customer_email, status, total, items, created_at, updated_at
		FROM orders
		WHERE number = $1`

	o, err := scanOrder(s.pool.QueryRow(ctx, query, number))
	if err != nil {
		if pg.IsNotFoundError(err) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("select order: %w", err)
	}
	return o, nil
}

func (s *PGStorage) FindAll(ctx context.Context) ([]Order, error) {
	const query = `
		SELECT id, number, customer_name, customer_email, status, total, items, created_at, updated_at
		FROM orders
		ORDER BY created_at DESC`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("select orders: %w", err)
	}
	defer rows.Close()

	var list []Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		list = append(list, *o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate orders: %w", err)
	}
	return list, nil
}

func (s *PGStorage) UpdateStatus(ctx context.Context, number string, status orderstatus.Status, updatedAt time.Time) error {
	const query = `
		UPDATE orders
		SET status = $1, updated_at = $2
		WHERE number = $3`

	tag, err := s.pool.Exec(ctx, query, string(status), updatedAt, number)
	if err != nil {
		return fmt.Errorf("update order status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrOrderNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOrder(row rowScanner) (*Order, error) {
	var (
		o      Order
		status string
		items  []byte
	)
	if err := row.Scan(
		&o.ID, &o.Number, &o.CustomerName, &o.CustomerEmail,
		&status, &o.Total, &items, &o.CreatedAt, &o.UpdatedAt,
	); err != nil {
		return nil, err
	}
	o.Status = orderstatus.Status(status)
	if len(items) > 0 {
		if err := json.Unmarshal(items, &o.Items); err != nil {
			return nil, fmt.Errorf("unmarshal order items: %w", err)
		}
	}
	return &o, nil
}
