package admin

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

const notFoundMessage = "We couldn't find the admin you are looking for."

type Repository interface {
	Create(ctx context.Context, a *Admin) error
	GetByID(ctx context.Context, id string) (*Admin, error)
	GetByEmail(ctx context.Context, email string) (*Admin, error)
	GetByIDAndToken(ctx context.Context, id, token string) (*Admin, error)
	List(ctx context.Context, p query.ListParams) ([]*Admin, error)
	Update(ctx context.Context, a *Admin) error
	Delete(ctx context.Context, id string) error
	AddToken(ctx context.Context, id, token string) error
	RemoveToken(ctx context.Context, id, token string) error
	ClearTokens(ctx context.Context, id string) error
}

type adminRepository struct {
	db database.SQLClient
}

func NewRepository(db database.SQLClient) Repository {
	return &adminRepository{db: db}
}

const adminColumns = `id, first_name, last_name, phone_number, email, password_hash, role, tokens, created_at, updated_at`

// sortColumns maps JSON sort fields to columns. Unknown fields fall back to
// created_at.
var sortColumns = map[string]string{
	"createdAt": "created_at",
	"updatedAt": "updated_at",
	"firstName": "first_name",
	"lastName":  "last_name",
	"email":     "email",
	"role":      "role",
}

func (r *adminRepository) Create(ctx context.Context, a *Admin) error {
	a.ID = uuid.NewString()
	now := time.Now().UTC()
	a.CreatedAt, a.UpdatedAt = now, now
	if a.Tokens == nil {
		a.Tokens = []string{}
	}

	tokensJSON, err := json.Marshal(a.Tokens)
	if err != nil {
		return apperr.Wrap(err)
	}

	q := `
		INSERT INTO admins (` + adminColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err = r.db.ExecContext(
		ctx, q,
		a.ID, a.FirstName, a.LastName, a.PhoneNumber, a.Email,
		a.PasswordHash, a.Role, tokensJSON, a.CreatedAt, a.UpdatedAt,
	)
	if err != nil {
		if database.IsDuplicateKey(err) {
			return apperr.NewDuplicate(database.DuplicateKeyField(err))
		}
		return apperr.Wrap(fmt.Errorf("failed to create admin: %w", err))
	}

	return nil
}

func (r *adminRepository) GetByID(ctx context.Context, id string) (*Admin, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, apperr.New(apperr.NotFound, notFoundMessage)
	}

	row := r.db.QueryRowContext(ctx, `SELECT `+adminColumns+` FROM admins WHERE id = $1`, id)
	return scanAdmin(row)
}

func (r *adminRepository) GetByEmail(ctx context.Context, email string) (*Admin, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+adminColumns+` FROM admins WHERE email = $1`, email)
	return scanAdmin(row)
}

func (r *adminRepository) GetByIDAndToken(ctx context.Context, id, token string) (*Admin, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, apperr.New(apperr.NotFound, notFoundMessage)
	}

	row := r.db.QueryRowContext(ctx, `
		SELECT `+adminColumns+` FROM admins
		WHERE id = $1 AND tokens @> jsonb_build_array($2::text)
	`, id, token)
	return scanAdmin(row)
}

func (r *adminRepository) List(ctx context.Context, p query.ListParams) ([]*Admin, error) {
	q := `SELECT ` + adminColumns + ` FROM admins`
	args := []any{}

	q += database.OrderAndPage(p, sortColumns, &args)

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, apperr.Wrap(fmt.Errorf("failed to list admins: %w", err))
	}
	defer rows.Close()

	admins := []*Admin{}
	for rows.Next() {
		a, err := scanAdmin(rows)
		if err != nil {
			return nil, err
		}
		admins = append(admins, a)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Wrap(err)
	}

	return admins, nil
}

func (r *adminRepository) Update(ctx context.Context, a *Admin) error {
	a.UpdatedAt = time.Now().UTC()

	result, err := r.db.ExecContext(ctx, `
		UPDATE admins
		SET first_name = $1, last_name = $2, phone_number = $3, email = $4,
		    password_hash = $5, role = $6, updated_at = $7
		WHERE id = $8
	`, a.FirstName, a.LastName, a.PhoneNumber, a.Email, a.PasswordHash, a.Role, a.UpdatedAt, a.ID)
	if err != nil {
		if database.IsDuplicateKey(err) {
			return apperr.NewDuplicate(database.DuplicateKeyField(err))
		}
		return apperr.Wrap(fmt.Errorf("failed to update admin: %w", err))
	}

	return database.RequireRow(result, notFoundMessage)
}

func (r *adminRepository) Delete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return apperr.New(apperr.NotFound, notFoundMessage)
	}

	result, err := r.db.ExecContext(ctx, `DELETE FROM admins WHERE id = $1`, id)
	if err != nil {
		return apperr.Wrap(fmt.Errorf("failed to delete admin: %w", err))
	}

	return database.RequireRow(result, notFoundMessage)
}

func (r *adminRepository) AddToken(ctx context.Context, id, token string) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE admins
		SET tokens = tokens || jsonb_build_array($1::text), updated_at = $2
		WHERE id = $3
	`, token, time.Now().UTC(), id)
	if err != nil {
		return apperr.Wrap(fmt.Errorf("failed to add token: %w", err))
	}

	return database.RequireRow(result, notFoundMessage)
}

func (r *adminRepository) RemoveToken(ctx context.Context, id, token string) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE admins
		SET tokens = tokens - $1::text, updated_at = $2
		WHERE id = $3
	`, token, time.Now().UTC(), id)
	if err != nil {
		return apperr.Wrap(fmt.Errorf("failed to remove token: %w", err))
	}

	return database.RequireRow(result, notFoundMessage)
}

func (r *adminRepository) ClearTokens(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE admins
		SET tokens = '[]'::jsonb, updated_at = $1
		WHERE id = $2
	`, time.Now().UTC(), id)
	if err != nil {
		return apperr.Wrap(fmt.Errorf("failed to clear tokens: %w", err))
	}

	return database.RequireRow(result, notFoundMessage)
}

// --- Helpers ---

func scanAdmin(scanner interface{ Scan(dest ...any) error }) (*Admin, error) {
	a := &Admin{}
	var tokensJSON []byte

	err := scanner.Scan(
		&a.ID, &a.FirstName, &a.LastName, &a.PhoneNumber, &a.Email,
		&a.PasswordHash, &a.Role, &tokensJSON, &a.CreatedAt, &a.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, apperr.New(apperr.NotFound, notFoundMessage)
	}
	if err != nil {
		return nil, apperr.Wrap(fmt.Errorf("failed to scan admin: %w", err))
	}

	if len(tokensJSON) > 0 {
		if err := json.Unmarshal(tokensJSON, &a.Tokens); err != nil {
			return nil, apperr.Wrap(err)
		}
	}

	return a, nil
}
