package product

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

const notFoundMessage = "We couldn't find the product you are looking for."

// ListOptions combines the uniform list contract with the product filters.
type ListOptions struct {
	query.ListParams
	Category string
	IsActive *bool
}

type Repository interface {
	Create(ctx context.Context, p *Product) error
	GetByID(ctx context.Context, id string) (*Product, error)
	List(ctx context.Context, opts ListOptions) ([]*Product, error)
	Update(ctx context.Context, p *Product) error
	Delete(ctx context.Context, id string) error
}

type productRepository struct {
	db database.SQLClient
}

func NewRepository(db database.SQLClient) Repository {
	return &productRepository{db: db}
}

// selectProducts hydrates the category name with a best-effort LEFT JOIN;
// integrity between products and categories is not enforced by the store.
const selectProducts = `
	SELECT p.id, p.category_id, c.name, p.name, p.description, p.price, p.image_url,
	       p.minimum_ordered, p.maximum_ordered, p.is_active, p.created_at, p.updated_at
	FROM products p
	LEFT JOIN categories c ON c.id = p.category_id
`

var sortColumns = map[string]string{
	"createdAt":      "p.created_at",
	"updatedAt":      "p.updated_at",
	"name":           "p.name",
	"price":          "p.price",
	"isActive":       "p.is_active",
	"minimumOrdered": "p.minimum_ordered",
	"maximumOrdered": "p.maximum_ordered",
}

func (r *productRepository) Create(ctx context.Context, p *Product) error {
	p.ID = uuid.NewString()
	now := time.Now().UTC()
	p.CreatedAt, p.UpdatedAt = now, now

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO products (id, category_id, name, description, price, image_url,
			minimum_ordered, maximum_ordered, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`, p.ID, p.Category.ID, p.Name, p.Description, p.Price, p.ImageUrl,
		p.MinimumOrdered, p.MaximumOrdered, p.IsActive, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		if database.IsDuplicateKey(err) {
			return apperr.NewDuplicate(database.DuplicateKeyField(err))
		}
		return apperr.Wrap(fmt.Errorf("failed to create product: %w", err))
	}

	return nil
}

func (r *productRepository) GetByID(ctx context.Context, id string) (*Product, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, apperr.New(apperr.NotFound, notFoundMessage)
	}

	row := r.db.QueryRowContext(ctx, selectProducts+` WHERE p.id = $1`, id)
	return scanProduct(row)
}

func (r *productRepository) List(ctx context.Context, opts ListOptions) ([]*Product, error) {
	q := selectProducts + ` WHERE 1=1`
	args := []any{}

	if opts.Category != "" {
		args = append(args, opts.Category)
		q += fmt.Sprintf(" AND p.category_id = $%d", len(args))
	}
	if opts.IsActive != nil {
		args = append(args, *opts.IsActive)
		q += fmt.Sprintf(" AND p.is_active = $%d", len(args))
	}

	q += database.OrderAndPage(opts.ListParams, sortColumns, &args)

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, apperr.Wrap(fmt.Errorf("failed to list products: %w", err))
	}
	defer rows.Close()

	products := []*Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Wrap(err)
	}

	return products, nil
}

func (r *productRepository) Update(ctx context.Context, p *Product) error {
	p.UpdatedAt = time.Now().UTC()

	result, err := r.db.ExecContext(ctx, `
		UPDATE products
		SET description = $1, price = $2, image_url = $3, minimum_ordered = $4,
		    maximum_ordered = $5, is_active = $6, updated_at = $7
		WHERE id = $8
	`, p.Description, p.Price, p.ImageUrl, p.MinimumOrdered, p.MaximumOrdered,
		p.IsActive, p.UpdatedAt, p.ID)
	if err != nil {
		return apperr.Wrap(fmt.Errorf("failed to update product: %w", err))
	}

	return database.RequireRow(result, notFoundMessage)
}

func (r *productRepository) Delete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return apperr.New(apperr.NotFound, notFoundMessage)
	}

	result, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return apperr.Wrap(fmt.Errorf("failed to delete product: %w", err))
	}

	return database.RequireRow(result, notFoundMessage)
}

func scanProduct(scanner interface{ Scan(dest ...any) error }) (*Product, error) {
	p := &Product{}
	var categoryName sql.NullString

	err := scanner.Scan(
		&p.ID, &p.Category.ID, &categoryName, &p.Name, &p.Description, &p.Price,
		&p.ImageUrl, &p.MinimumOrdered, &p.MaximumOrdered, &p.IsActive,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, apperr.New(apperr.NotFound, notFoundMessage)
	}
	if err != nil {
		return nil, apperr.Wrap(fmt.Errorf("failed to scan product: %w", err))
	}

	p.Category.Name = categoryName.String

	return p, nil
}
