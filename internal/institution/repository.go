package institution

import (
	"context"
	"errors"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/sona-group/institution-cms/internal/banner"
	"github.com/sona-group/institution-cms/internal/query"
)

var (
	ErrNotFound     = errors.New("institution not found")
	ErrSlugTaken    = errors.New("slug already in use")
	ErrUnknownImage = errors.New("banner image does not exist")
)

// Repository executes query descriptors against institution storage.
type Repository interface {
	Find(ctx context.Context, d query.Descriptor) ([]Institution, error)
	FindOne(ctx context.Context, d query.Descriptor) (Institution, error)
	Create(ctx context.Context, inst Institution) (Institution, error)
	Update(ctx context.Context, id int, in Input, at time.Time) (Institution, error)
}

// InMemoryRepository is a Repository for tests and local runs. Files are
// looked up by id when the banner image is populated.
type InMemoryRepository struct {
	mu     sync.RWMutex
	rows   []Institution
	files  map[int]banner.ImageRef
	nextID int
}

func NewInMemoryRepository(seed []Institution, files []banner.ImageRef) *InMemoryRepository {
	r := &InMemoryRepository{files: map[int]banner.ImageRef{}, nextID: 1}
	for _, f := range files {
		r.files[f.ID] = f
	}
	for _, inst := range seed {
		r.rows = append(r.rows, inst)
		if inst.ID >= r.nextID {
			r.nextID = inst.ID + 1
		}
	}
	return r
}

func (r *InMemoryRepository) Find(ctx context.Context, d query.Descriptor) ([]Institution, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Institution, 0)
	for _, inst := range r.rows {
		if !matches(inst, d.Filters) {
			continue
		}
		out = append(out, r.populate(inst, d.Populate))
	}
	sortInstitutions(out, d.Sort)
	if d.Limit > 0 && len(out) > d.Limit {
		out = out[:d.Limit]
	}
	return out, nil
}

func (r *InMemoryRepository) FindOne(ctx context.Context, d query.Descriptor) (Institution, error) {
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

func (r *InMemoryRepository) Create(ctx context.Context, inst Institution) (Institution, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.rows {
		if existing.Slug == inst.Slug {
			return Institution{}, ErrSlugTaken
		}
	}
	if inst.BannerImageID != nil {
		if _, ok := r.files[*inst.BannerImageID]; !ok {
			return Institution{}, ErrUnknownImage
		}
	}
	inst.ID = r.nextID
	r.nextID++
	inst.BannerImage = nil
	r.rows = append(r.rows, inst)
	return inst, nil
}

func (r *InMemoryRepository) Update(ctx context.Context, id int, in Input, at time.Time) (Institution, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	idx := -1
	for i := range r.rows {
		if r.rows[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return Institution{}, ErrNotFound
	}
	if in.Slug != nil {
		for _, existing := range r.rows {
			if existing.ID != id && existing.Slug == *in.Slug {
				return Institution{}, ErrSlugTaken
			}
		}
	}

	inst := r.rows[idx]
	if in.Name != nil {
		inst.Name = *in.Name
	}
	if in.Slug != nil {
		inst.Slug = *in.Slug
	}
	if in.touchesBanner() {
		var imageID *int
		if in.BannerImage != nil {
			if _, ok := r.files[in.BannerImage.ID]; !ok {
				return Institution{}, ErrUnknownImage
			}
			imageID = &in.BannerImage.ID
		}
		inst.BannerTitle = in.BannerTitle
		inst.BannerSubtitle = in.BannerSubtitle
		inst.BannerImageID = imageID
	}
	inst.UpdatedAt = at
	r.rows[idx] = inst
	return inst, nil
}

func (r *InMemoryRepository) populate(inst Institution, p query.Populate) Institution {
	inst.BannerImage = nil
	if p.Has(query.BannerImage) && inst.BannerImageID != nil {
		if f, ok := r.files[*inst.BannerImageID]; ok {
			inst.BannerImage = &f
		}
	}
	return inst
}

func matches(inst Institution, filters query.Filters) bool {
	for field, cond := range filters {
		want := toString(cond.Eq)
		var got string
		switch field {
		case "id":
			got = strconv.Itoa(inst.ID)
		case "documentId":
			got = inst.DocumentID
		case "slug":
			got = inst.Slug
		case "name":
			got = inst.Name
		default:
			return false
		}
		if got != want {
			return false
		}
	}
	return true
}

func toString(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case int:
		return strconv.Itoa(x)
	}
	return ""
}

func sortInstitutions(rows []Institution, sorts []string) {
	field, desc := "id", false
	if len(sorts) > 0 {
		field, desc = parseSort(sorts[0])
	}
	less := func(a, b Institution) bool {
		switch field {
		case "name":
			return a.Name < b.Name
		case "slug":
			return a.Slug < b.Slug
		case "createdAt":
			return a.CreatedAt.Before(b.CreatedAt)
		case "updatedAt":
			return a.UpdatedAt.Before(b.UpdatedAt)
		}
		return a.ID < b.ID
	}
	sort.SliceStable(rows, func(i, j int) bool {
		if desc {
			return less(rows[j], rows[i])
		}
		return less(rows[i], rows[j])
	})
}

// parseSort splits "name:desc" into ("name", true).
func parseSort(s string) (string, bool) {
	field, dir, _ := strings.Cut(s, ":")
	return field, strings.EqualFold(dir, "desc")
}
