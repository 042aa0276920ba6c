package permission

import (
	"context"
	"sync"
)

// MemoryStore is an in-memory Store for tests and local runs.
type MemoryStore struct {
	mu     sync.RWMutex
	roleID int
	rows   []Permission
	nextID int
}

// NewMemoryStore returns a store whose public role has the given id.
// A roleID of 0 means the public role does not exist.
func NewMemoryStore(roleID int, seed []Permission) *MemoryStore {
	s := &MemoryStore{roleID: roleID, nextID: 1}
	for _, p := range seed {
		s.rows = append(s.rows, p)
		if p.ID >= s.nextID {
			s.nextID = p.ID + 1
		}
	}
	return s
}

func (s *MemoryStore) PublicRoleID(ctx context.Context) (int, error) {
	if s.roleID == 0 {
		return 0, ErrRoleNotFound
	}
	return s.roleID, nil
}

func (s *MemoryStore) Permissions(ctx context.Context, roleID int, actions []string) (map[string]Permission, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	want := make(map[string]bool, len(actions))
	for _, a := range actions {
		want[a] = true
	}
	out := map[string]Permission{}
	for _, p := range s.rows {
		if p.RoleID == roleID && want[p.Action] {
			out[p.Action] = p
		}
	}
	return out, nil
}

func (s *MemoryStore) Create(ctx context.Context, action string, roleID int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows = append(s.rows, Permission{ID: s.nextID, Action: action, RoleID: roleID, Enabled: true})
	s.nextID++
	return nil
}

func (s *MemoryStore) Enable(ctx context.Context, id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.rows {
		if s.rows[i].ID == id {
			s.rows[i].Enabled = true
		}
	}
	return nil
}

// All returns a copy of every stored row.
func (s *MemoryStore) All() []Permission {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Permission, len(s.rows))
	copy(out, s.rows)
	return out
}
