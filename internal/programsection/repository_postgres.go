package programsection

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/sona-group/institution-cms/internal/banner"
	"github.com/sona-group/institution-cms/internal/database"
	"github.com/sona-group/institution-cms/internal/query"
)

type PostgresRepository struct {
	db *sql.DB
}

const (
	selectSections = `
		SELECT s.id, s.title, COALESCE(s.description, ''), s.icon_id, s.program_id, s.learn_more_text,
		       COALESCE(s.learn_more_url, ''), s.learn_more_is_external, s.ord, s.created_at, s.updated_at,
		       b.id, b.name, f.id, f.url, f.mime, f.size, f.name,
		       p.id, p.name, p.slug
		FROM program_sections s
		LEFT JOIN icon_badges b ON b.id = s.icon_id
		LEFT JOIN files f ON f.id = b.icon_image_id
		LEFT JOIN programs p ON p.id = s.program_id`
	insertSectionQuery = `
		INSERT INTO program_sections (title, description, icon_id, program_id, learn_more_text, learn_more_url, learn_more_is_external, ord, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id
	`
)

var sectionColumns = map[string]string{
	"id":      "s.id",
	"title":   "s.title",
	"program": "s.program_id",
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func buildSelect(d query.Descriptor) (string, []any, error) {
	var (
		b     strings.Builder
		args  []any
		where []string
	)
	b.WriteString(selectSections)

	fields := make([]string, 0, len(d.Filters))
	for f := range d.Filters {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	for _, f := range fields {
		col, ok := sectionColumns[f]
		if !ok {
			return "", nil, fmt.Errorf("cannot filter on %q", f)
		}
		v := d.Filters[f].Eq
		if f != "title" {
			n, err := toInt(v)
			if err != nil {
				return "", nil, fmt.Errorf("filter %s: %w", f, err)
			}
			v = n
		}
		args = append(args, v)
		where = append(where, fmt.Sprintf("%s = $%d", col, len(args)))
	}
	if len(where) > 0 {
		b.WriteString("\n\t\tWHERE ")
		b.WriteString(strings.Join(where, " AND "))
	}
	b.WriteString("\n\t\tORDER BY s.ord ASC, s.id ASC")

	if d.Limit > 0 {
		args = append(args, d.Limit)
		fmt.Fprintf(&b, "\n\t\tLIMIT $%d", len(args))
	}
	return b.String(), args, nil
}

func (r *PostgresRepository) Find(ctx context.Context, d query.Descriptor) ([]Section, error) {
	q, args, err := buildSelect(d)
	if err != nil {
		return nil, err
	}
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Section, 0)
	for rows.Next() {
		s, err := scanSection(rows, d.Populate)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *PostgresRepository) FindOne(ctx context.Context, d query.Descriptor) (Section, error) {
	d.Limit = 1
	rows, err := r.Find(ctx, d)
	if err != nil {
		return Section{}, err
	}
	if len(rows) == 0 {
		return Section{}, ErrNotFound
	}
	return rows[0], nil
}

func (r *PostgresRepository) Create(ctx context.Context, s Section) (Section, error) {
	var url *string
	if s.LearnMoreURL != "" {
		url = &s.LearnMoreURL
	}
	err := r.db.QueryRowContext(ctx, insertSectionQuery,
		s.Title, s.Description, s.IconID, s.ProgramID, s.LearnMoreText, url, s.LearnMoreIsExternal, s.Order, s.CreatedAt, s.UpdatedAt,
	).Scan(&s.ID)
	if database.IsForeignKeyViolation(err) {
		return Section{}, ErrUnknownRelation
	}
	if err != nil {
		return Section{}, err
	}
	return s, nil
}

func scanSection(rows *sql.Rows, populate query.Populate) (Section, error) {
	var (
		s         Section
		iconID    sql.NullInt64
		programID sql.NullInt64
		badgeID   sql.NullInt64
		badgeName sql.NullString
		fileID    sql.NullInt64
		fileURL   sql.NullString
		fileMime  sql.NullString
		fileSize  sql.NullFloat64
		fileName  sql.NullString
		progID    sql.NullInt64
		progName  sql.NullString
		progSlug  sql.NullString
	)
	if err := rows.Scan(
		&s.ID, &s.Title, &s.Description, &iconID, &programID, &s.LearnMoreText,
		&s.LearnMoreURL, &s.LearnMoreIsExternal, &s.Order, &s.CreatedAt, &s.UpdatedAt,
		&badgeID, &badgeName, &fileID, &fileURL, &fileMime, &fileSize, &fileName,
		&progID, &progName, &progSlug,
	); err != nil {
		return Section{}, err
	}

	if iconID.Valid {
		id := int(iconID.Int64)
		s.IconID = &id
	}
	if programID.Valid {
		id := int(programID.Int64)
		s.ProgramID = &id
	}
	if populate.Has(RelationIcon) && badgeID.Valid {
		s.Icon = &Icon{ID: int(badgeID.Int64), Name: badgeName.String}
		if fileID.Valid {
			s.Icon.Image = &banner.ImageRef{
				ID:   int(fileID.Int64),
				URL:  fileURL.String,
				Mime: fileMime.String,
				Size: fileSize.Float64,
				Name: fileName.String,
			}
		}
	}
	if populate.Has(RelationProgram) && progID.Valid {
		s.Program = &Program{ID: int(progID.Int64), Name: progName.String, Slug: progSlug.String}
	}
	return s, nil
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
