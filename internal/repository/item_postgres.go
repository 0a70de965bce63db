package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/item-service/internal/domain"
)

type postgresItemRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresItemRepository returns a Postgres-backed implementation.
func NewPostgresItemRepository(pool *pgxpool.Pool) ItemRepository {
	return &postgresItemRepository{pool: pool}
}

func (r *postgresItemRepository) Create(ctx context.Context, item *domain.Item) error {
	const query = `
        INSERT INTO items (id, name, description)
        VALUES ($1, $2, $3)
        RETURNING created_at, updated_at`

	return r.pool.QueryRow(ctx, query,
		item.ID,
		item.Name,
		item.Description,
	).Scan(&item.CreatedAt, &item.UpdatedAt)
}

func (r *postgresItemRepository) Update(ctx context.Context, item *domain.Item) error {
	const query = `
        UPDATE items SET name=$1, description=$2, updated_at=NOW()
        WHERE id=$3`

	cmd, err := r.pool.Exec(ctx, query, item.Name, item.Description, item.ID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrItemNotFound
	}
	return nil
}

func (r *postgresItemRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM items WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrItemNotFound
	}
	return nil
}

func (r *postgresItemRepository) GetByID(ctx context.Context, id string) (*domain.Item, error) {
	const query = `
        SELECT id, name, description, created_at, updated_at
        FROM items WHERE id=$1`

	var item domain.Item
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&item.ID,
		&item.Name,
		&item.Description,
		&item.CreatedAt,
		&item.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrItemNotFound
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *postgresItemRepository) List(ctx context.Context) ([]domain.Item, error) {
	const query = `
        SELECT id, name, description, created_at, updated_at
        FROM items ORDER BY created_at`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.Item
	for rows.Next() {
		var item domain.Item
		if err := rows.Scan(
			&item.ID,
			&item.Name,
			&item.Description,
			&item.CreatedAt,
			&item.UpdatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}
