package table

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/shababeek/pos/internal/apperr"
	"github.com/shababeek/pos/internal/database"
	"github.com/shababeek/pos/internal/query"
)

const notFoundMessage = "We couldn't find the table you are looking for."

type Repository interface {
	Create(ctx context.Context, t *Table) error
	GetByID(ctx context.Context, id string) (*Table, error)
	List(ctx context.Context, p query.ListParams) ([]*Table, error)
	Update(ctx context.Context, t *Table) error
	Delete(ctx context.Context, id string) error
}

type tableRepository struct {
	db database.SQLClient
}

func NewRepository(db database.SQLClient) Repository {
	return &tableRepository{db: db}
}

var sortColumns = map[string]string{
	"createdAt": "created_at",
	"updatedAt": "updated_at",
	"name":      "name",
}

func (r *tableRepository) Create(ctx context.Context, t *Table) error {
	t.ID = uuid.NewString()
	now := time.Now().UTC()
	t.CreatedAt, t.UpdatedAt = now, now

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO tables (id, name, created_at, updated_at)
		VALUES ($1, $2, $3, $4)
	`, t.ID, t.Name, t.CreatedAt, t.UpdatedAt)
	if err != nil {
		if database.IsDuplicateKey(err) {
			return apperr.NewDuplicate(database.DuplicateKeyField(err))
		}
		return apperr.Wrap(fmt.Errorf("failed to create table: %w", err))
	}

	return nil
}

func (r *tableRepository) GetByID(ctx context.Context, id string) (*Table, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, apperr.New(apperr.NotFound, notFoundMessage)
	}

	row := r.db.QueryRowContext(ctx, `
		SELECT id, name, created_at, updated_at FROM tables WHERE id = $1
	`, id)

	t := &Table{}
	err := row.Scan(&t.ID, &t.Name, &t.CreatedAt, &t.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, apperr.New(apperr.NotFound, notFoundMessage)
	}
	if err != nil {
		return nil, apperr.Wrap(fmt.Errorf("failed to get table: %w", err))
	}

	return t, nil
}

func (r *tableRepository) List(ctx context.Context, p query.ListParams) ([]*Table, error) {
	q := `SELECT id, name, created_at, updated_at FROM tables`
	args := []any{}

	q += database.OrderAndPage(p, sortColumns, &args)

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, apperr.Wrap(fmt.Errorf("failed to list tables: %w", err))
	}
	defer rows.Close()

	tables := []*Table{}
	for rows.Next() {
		t := &Table{}
		if err := rows.Scan(&t.ID, &t.Name, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, apperr.Wrap(fmt.Errorf("failed to scan table: %w", err))
		}
		tables = append(tables, t)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Wrap(err)
	}

	return tables, nil
}

func (r *tableRepository) Update(ctx context.Context, t *Table) error {
	t.UpdatedAt = time.Now().UTC()

	result, err := r.db.ExecContext(ctx, `
		UPDATE tables SET name = $1, updated_at = $2 WHERE id = $3
	`, t.Name, t.UpdatedAt, t.ID)
	if err != nil {
		if database.IsDuplicateKey(err) {
			return apperr.NewDuplicate(database.DuplicateKeyField(err))
		}
		return apperr.Wrap(fmt.Errorf("failed to update table: %w", err))
	}

	return database.RequireRow(result, notFoundMessage)
}

func (r *tableRepository) Delete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return apperr.New(apperr.NotFound, notFoundMessage)
	}

	result, err := r.db.ExecContext(ctx, `DELETE FROM tables WHERE id = $1`, id)
	if err != nil {
		return apperr.Wrap(fmt.Errorf("failed to delete table: %w", err))
	}

	return database.RequireRow(result, notFoundMessage)
}
