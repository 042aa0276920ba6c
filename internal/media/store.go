package media

import (
	"context"
	"database/sql"
	"sync"

	"github.com/sona-group/institution-cms/internal/banner"
)

const insertFileQuery = `
	INSERT INTO files (name, alternative_text, url, mime, size, width, height)
	VALUES ($1, $2, $3, $4, $5, $6, $7)
	RETURNING id
`

type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Create(ctx context.Context, f banner.ImageRef) (banner.ImageRef, error) {
	err := s.db.QueryRowContext(ctx, insertFileQuery,
		f.Name, f.AlternativeText, f.URL, f.Mime, f.Size, f.Width, f.Height,
	).Scan(&f.ID)
	if err != nil {
		return banner.ImageRef{}, err
	}
	return f, nil
}

type InMemoryStore struct {
	mu    sync.Mutex
	files []banner.ImageRef
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{}
}

func (s *InMemoryStore) Create(ctx context.Context, f banner.ImageRef) (banner.ImageRef, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	f.ID = len(s.files) + 1
	s.files = append(s.files, f)
	return f, nil
}

func (s *InMemoryStore) All() []banner.ImageRef {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]banner.ImageRef, len(s.files))
	copy(out, s.files)
	return out
}
