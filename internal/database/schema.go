package database

import (
	"context"
	"database/sql"
	"fmt"
)

// Referential fields are plain uuid columns on purpose: the store does not
// enforce integrity between resources, reads hydrate references best-effort.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS admins (
		id            uuid PRIMARY KEY,
		first_name    text NOT NULL,
		last_name     text NOT NULL,
		phone_number  text NOT NULL,
		email         text NOT NULL,
		password_hash text NOT NULL,
		role          text NOT NULL,
		tokens        jsonb NOT NULL DEFAULT '[]',
		created_at    timestamptz NOT NULL,
		updated_at    timestamptz NOT NULL,
		CONSTRAINT admins_email_key UNIQUE (email)
	)`,
	`CREATE TABLE IF NOT EXISTS tables (
		id         uuid PRIMARY KEY,
		name       text NOT NULL,
		created_at timestamptz NOT NULL,
		updated_at timestamptz NOT NULL,
		CONSTRAINT tables_name_key UNIQUE (name)
	)`,
	`CREATE TABLE IF NOT EXISTS categories (
		id          uuid PRIMARY KEY,
		name        text NOT NULL,
		description text NOT NULL,
		is_active   boolean NOT NULL DEFAULT true,
		created_at  timestamptz NOT NULL,
		updated_at  timestamptz NOT NULL,
		CONSTRAINT categories_name_key UNIQUE (name)
	)`,
	`CREATE TABLE IF NOT EXISTS products (
		id              uuid PRIMARY KEY,
		category_id     uuid NOT NULL,
		name            text NOT NULL,
		description     text NOT NULL,
		price           text NOT NULL,
		image_url       text NOT NULL DEFAULT '',
		minimum_ordered integer NOT NULL,
		maximum_ordered integer NOT NULL,
		is_active       boolean NOT NULL DEFAULT true,
		created_at      timestamptz NOT NULL,
		updated_at      timestamptz NOT NULL,
		CONSTRAINT products_name_key UNIQUE (name)
	)`,
	`CREATE TABLE IF NOT EXISTS orders (
		id           uuid PRIMARY KEY,
		admin_id     uuid NOT NULL,
		table_id     uuid NOT NULL,
		category_id  uuid NOT NULL,
		status       text NOT NULL,
		payment_type text NOT NULL DEFAULT '',
		products     jsonb NOT NULL,
		created_at   timestamptz NOT NULL,
		updated_at   timestamptz NOT NULL
	)`,
}

// EnsureSchema creates any missing tables so a fresh database is usable
// without an external migration step.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to ensure schema: %w", err)
		}
	}
	return nil
}
