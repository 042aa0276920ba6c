package institution

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/sona-group/institution-cms/internal/banner"
	"github.com/sona-group/institution-cms/internal/database"
	"github.com/sona-group/institution-cms/internal/query"
)

// PostgresRepository implements Repository using Postgres.
type PostgresRepository struct {
	db *sql.DB
}

type rowScanner interface {
	Scan(dest ...any) error
}

const (
	selectInstitutions = `
		SELECT i.id, i.document_id, i.name, i.slug, i.banner_title, i.banner_subtitle, i.banner_image_id, i.created_at, i.updated_at,
		       f.id, f.name, f.alternative_text, f.url, f.mime, f.size, f.width, f.height
		FROM institutions i
		LEFT JOIN files f ON f.id = i.banner_image_id`
	insertInstitutionQuery = `
		INSERT INTO institutions (document_id, name, slug, banner_title, banner_subtitle, banner_image_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`
	updateInstitutionQuery = `
		UPDATE institutions
		SET name = COALESCE($1, name),
			slug = COALESCE($2, slug),
			banner_title = CASE WHEN $3 THEN $4 ELSE banner_title END,
			banner_subtitle = CASE WHEN $3 THEN $5 ELSE banner_subtitle END,
			banner_image_id = CASE WHEN $3 THEN $6 ELSE banner_image_id END,
			updated_at = $7
		WHERE id = $8
	`
)

// filterColumns whitelists the fields a descriptor may filter or sort on.
var filterColumns = map[string]string{
	"id":         "i.id",
	"documentId": "i.document_id",
	"slug":       "i.slug",
	"name":       "i.name",
	"createdAt":  "i.created_at",
	"updatedAt":  "i.updated_at",
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// buildSelect translates a descriptor into SQL and its arguments.
func buildSelect(d query.Descriptor) (string, []any, error) {
	var (
		b     strings.Builder
		args  []any
		where []string
	)
	b.WriteString(selectInstitutions)

	// sorted for stable SQL text
	fields := make([]string, 0, len(d.Filters))
	for f := range d.Filters {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	for _, f := range fields {
		col, ok := filterColumns[f]
		if !ok {
			return "", nil, fmt.Errorf("cannot filter on %q", f)
		}
		v := d.Filters[f].Eq
		if f == "id" {
			id, err := toInt(v)
			if err != nil {
				return "", nil, fmt.Errorf("filter id: %w", err)
			}
			v = id
		}
		args = append(args, v)
		where = append(where, fmt.Sprintf("%s = $%d", col, len(args)))
	}
	if len(where) > 0 {
		b.WriteString("\n\t\tWHERE ")
		b.WriteString(strings.Join(where, " AND "))
	}

	order := make([]string, 0, len(d.Sort)+1)
	for _, s := range d.Sort {
		field, desc := parseSort(s)
		col, ok := filterColumns[field]
		if !ok {
			return "", nil, fmt.Errorf("cannot sort on %q", field)
		}
		dir := "ASC"
		if desc {
			dir = "DESC"
		}
		order = append(order, col+" "+dir)
	}
	order = append(order, "i.id ASC")
	b.WriteString("\n\t\tORDER BY ")
	b.WriteString(strings.Join(order, ", "))

	if d.Limit > 0 {
		args = append(args, d.Limit)
		fmt.Fprintf(&b, "\n\t\tLIMIT $%d", len(args))
	}
	return b.String(), args, nil
}

func (r *PostgresRepository) Find(ctx context.Context, d query.Descriptor) ([]Institution, error) {
	q, args, err := buildSelect(d)
	if err != nil {
		return nil, err
	}
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Institution, 0)
	for rows.Next() {
		inst, err := scanInstitution(rows, d.Populate)
		if err != nil {
			return nil, err
		}
		out = append(out, inst)
	}
	return out, rows.Err()
}

func (r *PostgresRepository) FindOne(ctx context.Context, d query.Descriptor) (Institution, error) {
	d.Limit = 1
	rows, err := r.Find(ctx, d)
	if err != nil {
		return Institution{}, err
	}
	if len(rows) == 0 {
		return Institution{}, ErrNotFound
	}
	return rows[0], nil
}

func (r *PostgresRepository) Create(ctx context.Context, inst Institution) (Institution, error) {
	err := r.db.QueryRowContext(ctx, insertInstitutionQuery,
		inst.DocumentID, inst.Name, inst.Slug, inst.BannerTitle, inst.BannerSubtitle, inst.BannerImageID, inst.CreatedAt, inst.UpdatedAt,
	).Scan(&inst.ID)
	if err != nil {
		return Institution{}, mapWriteError(err)
	}
	return inst, nil
}

func (r *PostgresRepository) Update(ctx context.Context, id int, in Input, at time.Time) (Institution, error) {
	var imageID *int
	if in.BannerImage != nil {
		imageID = &in.BannerImage.ID
	}
	res, err := r.db.ExecContext(ctx, updateInstitutionQuery,
		in.Name, in.Slug, in.touchesBanner(), in.BannerTitle, in.BannerSubtitle, imageID, at, id,
	)
	if err != nil {
		return Institution{}, mapWriteError(err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return Institution{}, ErrNotFound
	}
	return r.FindOne(ctx, query.Descriptor{Filters: query.Filters{"id": {Eq: id}}})
}

func mapWriteError(err error) error {
	switch {
	case database.IsUniqueViolation(err):
		return ErrSlugTaken
	case database.IsForeignKeyViolation(err):
		return ErrUnknownImage
	}
	return err
}

func scanInstitution(row rowScanner, populate query.Populate) (Institution, error) {
	var (
		inst       Institution
		title      sql.NullString
		subtitle   sql.NullString
		imageID    sql.NullInt64
		fileID     sql.NullInt64
		fileName   sql.NullString
		fileAlt    sql.NullString
		fileURL    sql.NullString
		fileMime   sql.NullString
		fileSize   sql.NullFloat64
		fileWidth  sql.NullInt64
		fileHeight sql.NullInt64
	)
	if err := row.Scan(
		&inst.ID, &inst.DocumentID, &inst.Name, &inst.Slug, &title, &subtitle, &imageID, &inst.CreatedAt, &inst.UpdatedAt,
		&fileID, &fileName, &fileAlt, &fileURL, &fileMime, &fileSize, &fileWidth, &fileHeight,
	); err != nil {
		return Institution{}, err
	}

	if title.Valid {
		inst.BannerTitle = &title.String
	}
	if subtitle.Valid {
		inst.BannerSubtitle = &subtitle.String
	}
	if imageID.Valid {
		id := int(imageID.Int64)
		inst.BannerImageID = &id
	}
	if populate.Has(query.BannerImage) && fileID.Valid {
		img := &banner.ImageRef{
			ID:   int(fileID.Int64),
			URL:  fileURL.String,
			Mime: fileMime.String,
			Size: fileSize.Float64,
			Name: fileName.String,
		}
		if fileAlt.Valid {
			img.AlternativeText = &fileAlt.String
		}
		if fileWidth.Valid {
			w := int(fileWidth.Int64)
			img.Width = &w
		}
		if fileHeight.Valid {
			h := int(fileHeight.Int64)
			img.Height = &h
		}
		inst.BannerImage = img
	}
	return inst, nil
}

func toInt(v any) (int, error) {
	switch x := v.(type) {
	case int:
		return x, nil
	case string:
		return strconv.Atoi(x)
	}
	return 0, fmt.Errorf("unsupported value %v", v)
}
