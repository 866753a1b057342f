package order

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/shababeek/pos/internal/apperr"
	"github.com/shababeek/pos/internal/database"
	"github.com/shababeek/pos/internal/query"
)

const notFoundMessage = "We couldn't find the order you are looking for."

// ListOptions combines the uniform list contract with the order filters.
// Admin is the scoping filter; the service decides whether the caller may
// choose it or has it forced to their own id.
type ListOptions struct {
	query.ListParams
	Category string
	Admin    string
}

type Repository interface {
	Create(ctx context.Context, o *Order) error
	GetByID(ctx context.Context, id string) (*Order, error)
	List(ctx context.Context, opts ListOptions) ([]*Order, error)
	Update(ctx context.Context, o *Order) error
	Delete(ctx context.Context, id string) error
}

type orderRepository struct {
	db database.SQLClient
}

func NewRepository(db database.SQLClient) Repository {
	return &orderRepository{db: db}
}

// selectOrders hydrates the admin, table and category references with
// best-effort LEFT JOINs; dangling references read back as bare ids.
const selectOrders = `
	SELECT o.id, o.admin_id, a.first_name, a.last_name,
	       o.table_id, t.name, o.category_id, c.name,
	       o.status, o.payment_type, o.products, o.created_at, o.updated_at
	FROM orders o
	LEFT JOIN admins a ON a.id = o.admin_id
	LEFT JOIN tables t ON t.id = o.table_id
	LEFT JOIN categories c ON c.id = o.category_id
`

var sortColumns = map[string]string{
	"createdAt":   "o.created_at",
	"updatedAt":   "o.updated_at",
	"status":      "o.status",
	"paymentType": "o.payment_type",
}

func (r *orderRepository) Create(ctx context.Context, o *Order) error {
	o.ID = uuid.NewString()
	now := time.Now().UTC()
	o.CreatedAt, o.UpdatedAt = now, now

	products, err := json.Marshal(o.Products)
	if err != nil {
		return apperr.Wrap(fmt.Errorf("failed to encode order products: %w", err))
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO orders (id, admin_id, table_id, category_id, status, payment_type,
			products, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, o.ID, o.Admin.ID, o.Table.ID, o.Category.ID, o.Status, o.PaymentType,
		products, o.CreatedAt, o.UpdatedAt)
	if err != nil {
		return apperr.Wrap(fmt.Errorf("failed to create order: %w", err))
	}

	return nil
}

func (r *orderRepository) GetByID(ctx context.Context, id string) (*Order, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, apperr.New(apperr.NotFound, notFoundMessage)
	}

	row := r.db.QueryRowContext(ctx, selectOrders+` WHERE o.id = $1`, id)
	return scanOrder(row)
}

func (r *orderRepository) List(ctx context.Context, opts ListOptions) ([]*Order, error) {
	q := selectOrders + ` WHERE 1=1`
	args := []any{}

	if opts.Admin != "" {
		args = append(args, opts.Admin)
		q += fmt.Sprintf(" AND o.admin_id = $%d", len(args))
	}
	if opts.Category != "" {
		args = append(args, opts.Category)
		q += fmt.Sprintf(" AND o.category_id = $%d", len(args))
	}

	q += database.OrderAndPage(opts.ListParams, sortColumns, &args)

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, apperr.Wrap(fmt.Errorf("failed to list orders: %w", err))
	}
	defer rows.Close()

	orders := []*Order{}
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Wrap(err)
	}

	return orders, nil
}

func (r *orderRepository) Update(ctx context.Context, o *Order) error {
	o.UpdatedAt = time.Now().UTC()

	products, err := json.Marshal(o.Products)
	if err != nil {
		return apperr.Wrap(fmt.Errorf("failed to encode order products: %w", err))
	}

	result, err := r.db.ExecContext(ctx, `
		UPDATE orders
		SET status = $1, payment_type = $2, products = $3, updated_at = $4
		WHERE id = $5
	`, o.Status, o.PaymentType, products, o.UpdatedAt, o.ID)
	if err != nil {
		return apperr.Wrap(fmt.Errorf("failed to update order: %w", err))
	}

	return database.RequireRow(result, notFoundMessage)
}

func (r *orderRepository) Delete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return apperr.New(apperr.NotFound, notFoundMessage)
	}

	result, err := r.db.ExecContext(ctx, `DELETE FROM orders WHERE id = $1`, id)
	if err != nil {
		return apperr.Wrap(fmt.Errorf("failed to delete order: %w", err))
	}

	return database.RequireRow(result, notFoundMessage)
}

func scanOrder(scanner interface{ Scan(dest ...any) error }) (*Order, error) {
	o := &Order{}
	var firstName, lastName, tableName, categoryName sql.NullString
	var products []byte

	err := scanner.Scan(
		&o.ID, &o.Admin.ID, &firstName, &lastName,
		&o.Table.ID, &tableName, &o.Category.ID, &categoryName,
		&o.Status, &o.PaymentType, &products, &o.CreatedAt, &o.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, apperr.New(apperr.NotFound, notFoundMessage)
	}
	if err != nil {
		return nil, apperr.Wrap(fmt.Errorf("failed to scan order: %w", err))
	}

	if err := json.Unmarshal(products, &o.Products); err != nil {
		return nil, apperr.Wrap(fmt.Errorf("failed to decode order products: %w", err))
	}

	o.Admin.FirstName = firstName.String
	o.Admin.LastName = lastName.String
	o.Table.Name = tableName.String
	o.Category.Name = categoryName.String

	return o, nil
}
