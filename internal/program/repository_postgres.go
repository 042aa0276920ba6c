package program

import (
	"context"
	"database/sql"
)

// Repository provides access to program rows.
type Repository interface {
	List(ctx context.Context, institutionSlug string, limit int) ([]Item, error)
}

type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// List returns programs ordered by name, optionally only those of one
// institution.
func (r *PostgresRepository) List(ctx context.Context, institutionSlug string, limit int) ([]Item, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT p.id, p.name, p.slug, i.id, i.name, i.slug
		FROM programs p
		LEFT JOIN institutions i ON i.id = p.institution_id
		WHERE $1 = '' OR i.slug = $1
		ORDER BY p.name, p.id
		LIMIT $2`, institutionSlug, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Item, 0)
	for rows.Next() {
		var (
			item     Item
			instID   sql.NullInt64
			instName sql.NullString
			instSlug sql.NullString
		)
		if err := rows.Scan(&item.ID, &item.Name, &item.Slug, &instID, &instName, &instSlug); err != nil {
			return nil, err
		}
		if instID.Valid {
			item.Institution = &Institution{ID: int(instID.Int64), Name: instName.String, Slug: instSlug.String}
		}
		out = append(out, item)
	}
	return out, rows.Err()
}
