package institution

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/sona-group/institution-cms/internal/query"
)

var rowColumns = []string{
	"id", "document_id", "name", "slug", "banner_title", "banner_subtitle", "banner_image_id", "created_at", "updated_at",
	"f_id", "f_name", "f_alt", "f_url", "f_mime", "f_size", "f_width", "f_height",
}

func TestBuildSelect(t *testing.T) {
	q, args, err := buildSelect(query.Descriptor{
		Filters: query.Filters{"slug": {Eq: "sona-tech-school"}, "id": {Eq: "4"}},
		Sort:    []string{"name:desc"},
		Limit:   10,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(q, "WHERE i.id = $1 AND i.slug = $2") {
		t.Fatalf("unexpected where clause in %q", q)
	}
	if !strings.Contains(q, "ORDER BY i.name DESC, i.id ASC") {
		t.Fatalf("unexpected order clause in %q", q)
	}
	if !strings.Contains(q, "LIMIT $3") {
		t.Fatalf("missing limit in %q", q)
	}
	if len(args) != 3 || args[0] != 4 || args[1] != "sona-tech-school" || args[2] != 10 {
		t.Fatalf("unexpected args %v", args)
	}

	if _, _, err := buildSelect(query.Descriptor{Filters: query.Filters{"password": {Eq: "x"}}}); err == nil {
		t.Fatalf("expected error for unknown filter column")
	}
	if _, _, err := buildSelect(query.Descriptor{Sort: []string{"banner_title; DROP TABLE files"}}); err == nil {
		t.Fatalf("expected error for unknown sort column")
	}
}

func TestFindOne_PopulatesBannerImage(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	defer db.Close()
	repo := NewPostgresRepository(db)

	now := time.Date(2025, 1, 10, 9, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows(rowColumns).
		AddRow(1, "doc-tech", "SONA Tech School", "sona-tech-school", "Pioneering", nil, 7, now, now,
			7, "tech.jpg", nil, "/uploads/tech.jpg", "image/jpeg", 120.5, 1920, 1080)
	mock.ExpectQuery("FROM institutions i").WithArgs("sona-tech-school", 1).WillReturnRows(rows)

	inst, err := repo.FindOne(context.Background(), query.BySlugWithBanner("sona-tech-school"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if inst.BannerTitle == nil || *inst.BannerTitle != "Pioneering" {
		t.Fatalf("unexpected banner title %v", inst.BannerTitle)
	}
	if inst.BannerSubtitle != nil {
		t.Fatalf("expected nil subtitle, got %q", *inst.BannerSubtitle)
	}
	if inst.BannerImage == nil || inst.BannerImage.URL != "/uploads/tech.jpg" || *inst.BannerImage.Width != 1920 {
		t.Fatalf("unexpected banner image %+v", inst.BannerImage)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestFindOne_WithoutPopulateSkipsImage(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	defer db.Close()
	repo := NewPostgresRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows(rowColumns).
		AddRow(1, "doc-tech", "SONA Tech School", "sona-tech-school", "Pioneering", nil, 7, now, now,
			7, "tech.jpg", nil, "/uploads/tech.jpg", "image/jpeg", 120.5, nil, nil)
	mock.ExpectQuery("FROM institutions i").WithArgs("sona-tech-school", 1).WillReturnRows(rows)

	inst, err := repo.FindOne(context.Background(), query.Descriptor{Filters: query.Filters{"slug": {Eq: "sona-tech-school"}}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if inst.BannerImage != nil {
		t.Fatalf("expected banner image to be left unpopulated")
	}
	if inst.BannerImageID == nil || *inst.BannerImageID != 7 {
		t.Fatalf("expected banner image id 7, got %v", inst.BannerImageID)
	}
}

func TestFindOne_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	defer db.Close()
	repo := NewPostgresRepository(db)

	mock.ExpectQuery("FROM institutions i").WithArgs("missing", 1).WillReturnRows(sqlmock.NewRows(rowColumns))

	if _, err := repo.FindOne(context.Background(), query.BySlugWithBanner("missing")); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestCreate_MapsConstraintErrors(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	defer db.Close()
	repo := NewPostgresRepository(db)

	mock.ExpectQuery("INSERT INTO institutions").WillReturnError(&pgconn.PgError{Code: "23505"})
	if _, err := repo.Create(context.Background(), Institution{Name: "A", Slug: "a"}); !errors.Is(err, ErrSlugTaken) {
		t.Fatalf("expected ErrSlugTaken, got %v", err)
	}

	mock.ExpectQuery("INSERT INTO institutions").WillReturnError(&pgconn.PgError{Code: "23503"})
	if _, err := repo.Create(context.Background(), Institution{Name: "B", Slug: "b", BannerImageID: ptr(99)}); !errors.Is(err, ErrUnknownImage) {
		t.Fatalf("expected ErrUnknownImage, got %v", err)
	}

	mock.ExpectQuery("INSERT INTO institutions").WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(12))
	inst, err := repo.Create(context.Background(), Institution{Name: "C", Slug: "c"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if inst.ID != 12 {
		t.Fatalf("expected id 12, got %d", inst.ID)
	}
}

func TestUpdate_NoRows(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	defer db.Close()
	repo := NewPostgresRepository(db)

	mock.ExpectExec("UPDATE institutions").WillReturnResult(sqlmock.NewResult(0, 0))
	if _, err := repo.Update(context.Background(), 5, Input{Name: ptr("X")}, time.Now()); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
