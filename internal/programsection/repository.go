package programsection

import (
	"context"
	"errors"
	"sort"
	"strconv"
	"sync"

	"github.com/sona-group/institution-cms/internal/query"
)

var (
	ErrNotFound        = errors.New("program section not found")
	ErrUnknownRelation = errors.New("icon or program does not exist")
)

type Repository interface {
	Find(ctx context.Context, d query.Descriptor) ([]Section, error)
	FindOne(ctx context.Context, d query.Descriptor) (Section, error)
	Create(ctx context.Context, s Section) (Section, error)
}

// InMemoryRepository is a Repository backed by slices, used in tests and
// local runs.
type InMemoryRepository struct {
	mu       sync.RWMutex
	sections []Section
	icons    map[int]Icon
	programs map[int]Program
	nextID   int
}

func NewInMemoryRepository(seed []Section, icons []Icon, programs []Program) *InMemoryRepository {
	r := &InMemoryRepository{icons: map[int]Icon{}, programs: map[int]Program{}, nextID: 1}
	for _, i := range icons {
		r.icons[i.ID] = i
	}
	for _, p := range programs {
		r.programs[p.ID] = p
	}
	for _, s := range seed {
		r.sections = append(r.sections, s)
		if s.ID >= r.nextID {
			r.nextID = s.ID + 1
		}
	}
	return r
}

func (r *InMemoryRepository) Find(ctx context.Context, d query.Descriptor) ([]Section, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Section, 0)
	for _, s := range r.sections {
		if !matches(s, d.Filters) {
			continue
		}
		out = append(out, r.populate(s, d.Populate))
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Order != out[j].Order {
			return out[i].Order < out[j].Order
		}
		return out[i].ID < out[j].ID
	})
	if d.Limit > 0 && len(out) > d.Limit {
		out = out[:d.Limit]
	}
	return out, nil
}

func (r *InMemoryRepository) FindOne(ctx context.Context, d query.Descriptor) (Section, error) {
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

func (r *InMemoryRepository) Create(ctx context.Context, s Section) (Section, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if s.IconID != nil {
		if _, ok := r.icons[*s.IconID]; !ok {
			return Section{}, ErrUnknownRelation
		}
	}
	if s.ProgramID != nil {
		if _, ok := r.programs[*s.ProgramID]; !ok {
			return Section{}, ErrUnknownRelation
		}
	}
	s.ID = r.nextID
	r.nextID++
	s.Icon, s.Program = nil, nil
	r.sections = append(r.sections, s)
	return s, nil
}

func (r *InMemoryRepository) populate(s Section, p query.Populate) Section {
	s.Icon, s.Program = nil, nil
	if p.Has(RelationIcon) && s.IconID != nil {
		if icon, ok := r.icons[*s.IconID]; ok {
			s.Icon = &icon
		}
	}
	if p.Has(RelationProgram) && s.ProgramID != nil {
		if prog, ok := r.programs[*s.ProgramID]; ok {
			s.Program = &prog
		}
	}
	return s
}

func matches(s Section, filters query.Filters) bool {
	for field, cond := range filters {
		want := eqString(cond.Eq)
		var got string
		switch field {
		case "id":
			got = strconv.Itoa(s.ID)
		case "title":
			got = s.Title
		case "program":
			if s.ProgramID == nil {
				return false
			}
			got = strconv.Itoa(*s.ProgramID)
		default:
			return false
		}
		if got != want {
			return false
		}
	}
	return true
}

func eqString(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case int:
		return strconv.Itoa(x)
	}
	return ""
}
