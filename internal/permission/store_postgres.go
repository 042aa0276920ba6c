package permission

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"
)

const (
	publicRoleQuery  = `SELECT id FROM up_roles WHERE type = 'public'`
	permissionsQuery = `
		SELECT id, action, role_id, enabled
		FROM up_permissions
		WHERE role_id = $1 AND action = ANY($2)
	`
	insertPermissionQuery = `INSERT INTO up_permissions (action, role_id, enabled) VALUES ($1, $2, true)`
	enablePermissionQuery = `UPDATE up_permissions SET enabled = true, updated_at = now() WHERE id = $1`
)

// PostgresStore implements Store on the up_roles / up_permissions tables.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) PublicRoleID(ctx context.Context) (int, error) {
	var id int
	err := s.db.QueryRowContext(ctx, publicRoleQuery).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrRoleNotFound
	}
	return id, err
}

func (s *PostgresStore) Permissions(ctx context.Context, roleID int, actions []string) (map[string]Permission, error) {
	rows, err := s.db.QueryContext(ctx, permissionsQuery, roleID, pq.Array(actions))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string]Permission, len(actions))
	for rows.Next() {
		var p Permission
		if err := rows.Scan(&p.ID, &p.Action, &p.RoleID, &p.Enabled); err != nil {
			return nil, err
		}
		out[p.Action] = p
	}
	return out, rows.Err()
}

func (s *PostgresStore) Create(ctx context.Context, action string, roleID int) error {
	_, err := s.db.ExecContext(ctx, insertPermissionQuery, action, roleID)
	return err
}

func (s *PostgresStore) Enable(ctx context.Context, id int) error {
	_, err := s.db.ExecContext(ctx, enablePermissionQuery, id)
	return err
}
