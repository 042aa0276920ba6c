package admin

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/sona-group/institution-cms/internal/database"
)

type PostgresRepository struct {
	db *sql.DB
}

const (
	selectAdminByEmailQuery = `
		SELECT id, email, password, firstname, lastname, created_at
		FROM admin_users
		WHERE lower(email) = lower($1)
	`
	insertAdminQuery = `
		INSERT INTO admin_users (email, password, firstname, lastname, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`
)

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (Admin, error) {
	var a Admin
	err := r.db.QueryRowContext(ctx, selectAdminByEmailQuery, email).
		Scan(&a.ID, &a.Email, &a.Password, &a.FirstName, &a.LastName, &a.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Admin{}, ErrNotFound
	}
	if err != nil {
		return Admin{}, err
	}
	return a, nil
}

func (r *PostgresRepository) Create(ctx context.Context, a Admin) (Admin, error) {
	err := r.db.QueryRowContext(ctx, insertAdminQuery,
		strings.ToLower(a.Email), a.Password, a.FirstName, a.LastName, a.CreatedAt,
	).Scan(&a.ID)
	if database.IsUniqueViolation(err) {
		return Admin{}, ErrEmailExists
	}
	if err != nil {
		return Admin{}, err
	}
	return a, nil
}
