package admin

import (
	"context"
	"errors"
	"strings"
	"sync"
)

var (
	ErrNotFound           = errors.New("admin not found")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailExists        = errors.New("email already exists")
)

type Repository interface {
	GetByEmail(ctx context.Context, email string) (Admin, error)
	Create(ctx context.Context, a Admin) (Admin, error)
}

type InMemoryRepository struct {
	mu     sync.RWMutex
	admins []Admin
	nextID int
}

func NewInMemoryRepository(seed []Admin) *InMemoryRepository {
	repo := &InMemoryRepository{admins: make([]Admin, 0, len(seed)), nextID: 1}
	for _, a := range seed {
		repo.admins = append(repo.admins, a)
		if a.ID >= repo.nextID {
			repo.nextID = a.ID + 1
		}
	}
	return repo
}

func (r *InMemoryRepository) GetByEmail(ctx context.Context, email string) (Admin, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, a := range r.admins {
		if strings.EqualFold(a.Email, email) {
			return a, nil
		}
	}
	return Admin{}, ErrNotFound
}

func (r *InMemoryRepository) Create(ctx context.Context, a Admin) (Admin, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.admins {
		if strings.EqualFold(existing.Email, a.Email) {
			return Admin{}, ErrEmailExists
		}
	}
	a.ID = r.nextID
	r.nextID++
	r.admins = append(r.admins, a)
	return a, nil
}
