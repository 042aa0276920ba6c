package database

import (
	"context"
	"database/sql"
	"fmt"
)

// schema creates the tables this service reads and writes. Every statement
// is idempotent so EnsureSchema runs on each start.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS files (
		id SERIAL PRIMARY KEY,
		name TEXT NOT NULL DEFAULT '',
		alternative_text TEXT,
		url TEXT NOT NULL,
		mime TEXT NOT NULL,
		size NUMERIC NOT NULL DEFAULT 0,
		width INT,
		height INT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS institutions (
		id SERIAL PRIMARY KEY,
		document_id TEXT NOT NULL UNIQUE,
		name TEXT NOT NULL,
		slug TEXT NOT NULL UNIQUE,
		banner_title TEXT,
		banner_subtitle TEXT,
		banner_image_id INT REFERENCES files(id) ON DELETE SET NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS icon_badges (
		id SERIAL PRIMARY KEY,
		name TEXT NOT NULL,
		icon_image_id INT REFERENCES files(id) ON DELETE SET NULL
	)`,
	`CREATE TABLE IF NOT EXISTS programs (
		id SERIAL PRIMARY KEY,
		name TEXT NOT NULL,
		slug TEXT NOT NULL UNIQUE,
		institution_id INT REFERENCES institutions(id) ON DELETE CASCADE
	)`,
	`CREATE TABLE IF NOT EXISTS program_sections (
		id SERIAL PRIMARY KEY,
		title TEXT NOT NULL,
		description TEXT,
		icon_id INT REFERENCES icon_badges(id) ON DELETE SET NULL,
		program_id INT REFERENCES programs(id) ON DELETE CASCADE,
		learn_more_text TEXT NOT NULL DEFAULT 'Learn More',
		learn_more_url TEXT,
		learn_more_is_external BOOLEAN NOT NULL DEFAULT false,
		ord INT NOT NULL DEFAULT 0,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS up_roles (
		id SERIAL PRIMARY KEY,
		name TEXT NOT NULL,
		type TEXT NOT NULL UNIQUE
	)`,
	`CREATE TABLE IF NOT EXISTS up_permissions (
		id SERIAL PRIMARY KEY,
		action TEXT NOT NULL,
		role_id INT NOT NULL REFERENCES up_roles(id) ON DELETE CASCADE,
		enabled BOOLEAN NOT NULL DEFAULT false,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		UNIQUE (action, role_id)
	)`,
	`CREATE TABLE IF NOT EXISTS admin_users (
		id SERIAL PRIMARY KEY,
		email TEXT NOT NULL UNIQUE,
		password TEXT NOT NULL,
		firstname TEXT NOT NULL DEFAULT '',
		lastname TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	// the public role must exist before permissions can be granted to it
	`INSERT INTO up_roles (name, type) VALUES ('Public', 'public'), ('Authenticated', 'authenticated')
		ON CONFLICT (type) DO NOTHING`,
}

// EnsureSchema creates missing tables and seeds the built-in roles.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	for i, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("schema statement %d: %w", i, err)
		}
	}
	return nil
}
