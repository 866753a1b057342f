package category

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

const notFoundMessage = "We couldn't find the category you are looking for."

// ListOptions combines the uniform list contract with the category filters.
type ListOptions struct {
	query.ListParams
	IsActive *bool
}

type Repository interface {
	Create(ctx context.Context, c *Category) error
	GetByID(ctx context.Context, id string) (*Category, error)
	List(ctx context.Context, opts ListOptions) ([]*Category, error)
	Update(ctx context.Context, c *Category) error
	Delete(ctx context.Context, id string) error
}

type categoryRepository struct {
	db database.SQLClient
}

func NewRepository(db database.SQLClient) Repository {
	return &categoryRepository{db: db}
}

const categoryColumns = `id, name, description, is_active, created_at, updated_at`

var sortColumns = map[string]string{
	"createdAt": "created_at",
	"updatedAt": "updated_at",
	"name":      "name",
	"isActive":  "is_active",
}

func (r *categoryRepository) Create(ctx context.Context, c *Category) error {
	c.ID = uuid.NewString()
	now := time.Now().UTC()
	c.CreatedAt, c.UpdatedAt = now, now

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO categories (`+categoryColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, c.ID, c.Name, c.Description, c.IsActive, c.CreatedAt, c.UpdatedAt)
	if err != nil {
		if database.IsDuplicateKey(err) {
			return apperr.NewDuplicate(database.DuplicateKeyField(err))
		}
		return apperr.Wrap(fmt.Errorf("failed to create category: %w", err))
	}

	return nil
}

func (r *categoryRepository) GetByID(ctx context.Context, id string) (*Category, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, apperr.New(apperr.NotFound, notFoundMessage)
	}

	row := r.db.QueryRowContext(ctx, `SELECT `+categoryColumns+` FROM categories WHERE id = $1`, id)
	return scanCategory(row)
}

func (r *categoryRepository) List(ctx context.Context, opts ListOptions) ([]*Category, error) {
	q := `SELECT ` + categoryColumns + ` FROM categories WHERE 1=1`
	args := []any{}

	if opts.IsActive != nil {
		args = append(args, *opts.IsActive)
		q += fmt.Sprintf(" AND is_active = $%d", len(args))
	}

	q += database.OrderAndPage(opts.ListParams, sortColumns, &args)

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, apperr.Wrap(fmt.Errorf("failed to list categories: %w", err))
	}
	defer rows.Close()

	categories := []*Category{}
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Wrap(err)
	}

	return categories, nil
}

func (r *categoryRepository) Update(ctx context.Context, c *Category) error {
	c.UpdatedAt = time.Now().UTC()

	result, err := r.db.ExecContext(ctx, `
		UPDATE categories
		SET name = $1, description = $2, is_active = $3, updated_at = $4
		WHERE id = $5
	`, c.Name, c.Description, c.IsActive, c.UpdatedAt, c.ID)
	if err != nil {
		if database.IsDuplicateKey(err) {
			return apperr.NewDuplicate(database.DuplicateKeyField(err))
		}
		return apperr.Wrap(fmt.Errorf("failed to update category: %w", err))
	}

	return database.RequireRow(result, notFoundMessage)
}

func (r *categoryRepository) Delete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return apperr.New(apperr.NotFound, notFoundMessage)
	}

	result, err := r.db.ExecContext(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return apperr.Wrap(fmt.Errorf("failed to delete category: %w", err))
	}

	return database.RequireRow(result, notFoundMessage)
}

func scanCategory(scanner interface{ Scan(dest ...any) error }) (*Category, error) {
	c := &Category{}
	err := scanner.Scan(&c.ID, &c.Name, &c.Description, &c.IsActive, &c.CreatedAt, &c.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, apperr.New(apperr.NotFound, notFoundMessage)
	}
	if err != nil {
		return nil, apperr.Wrap(fmt.Errorf("failed to scan category: %w", err))
	}
	return c, nil
}
