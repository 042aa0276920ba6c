package institution

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sona-group/institution-cms/internal/banner"
	"github.com/sona-group/institution-cms/internal/query"
)

// FieldErrors maps request fields to validation messages.
type FieldErrors map[string]string

func (fe FieldErrors) Error() string {
	parts := make([]string, 0, len(fe))
	for k, v := range fe {
		parts = append(parts, k+": "+v)
	}
	return strings.Join(parts, "; ")
}

// Service provides business logic for institutions.
type Service struct {
	repo   Repository
	cache  Cache
	logger *zap.Logger
	now    func() time.Time
}

func NewService(repo Repository, cache Cache, logger *zap.Logger) *Service {
	if cache == nil {
		cache = NopCache{}
	}
	return &Service{repo: repo, cache: cache, logger: logger, now: time.Now}
}

// List runs d, populating the banner image unless the caller chose its
// own populate list, and returns formatted records.
func (s *Service) List(ctx context.Context, d query.Descriptor) ([]banner.Record, error) {
	d.Populate = query.ResolvePopulate(d.Populate, query.PopulateBanner().Populate)

	rows, err := s.repo.Find(ctx, d)
	if err != nil {
		return nil, fmt.Errorf("find institutions: %w", err)
	}

	out := make([]banner.Record, 0, len(rows))
	for _, inst := range rows {
		rec := inst.Record(d.Populate)
		if d.Populate.Has(query.BannerImage) {
			if _, err := banner.Normalize(rec); err != nil {
				return nil, fmt.Errorf("institution %d: %w", inst.ID, err)
			}
		}
		out = append(out, banner.Format(rec))
	}
	return out, nil
}

// FindBySlug returns the formatted institution with its banner.
func (s *Service) FindBySlug(ctx context.Context, slug string) (banner.Record, error) {
	key := banner.CacheKey(slug)
	if rec, ok := s.cache.Get(ctx, key); ok {
		return rec, nil
	}

	d := query.BySlugWithBanner(slug)
	inst, err := s.repo.FindOne(ctx, d)
	if errors.Is(err, ErrNotFound) {
		return nil, banner.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find institution %q: %w", slug, err)
	}

	rec, err := banner.Normalize(inst.Record(d.Populate))
	if err != nil {
		return nil, err
	}
	if img, ok := rec[banner.FieldImage].(map[string]any); ok {
		if err := banner.ValidateImageMetadata(img); err != nil {
			s.logger.Warn("incomplete banner image", zap.String("slug", slug), zap.Error(err))
		}
	}

	out := banner.Format(rec)
	s.cache.Set(ctx, key, out)
	return out, nil
}

// Create stores a new institution. The slug is derived from the name when
// it is not given.
func (s *Service) Create(ctx context.Context, in Input) (banner.Record, error) {
	if errs := validateInput(&in, true); len(errs) > 0 {
		return nil, errs
	}

	now := s.now().UTC()
	inst := Institution{
		DocumentID:     uuid.NewString(),
		Name:           *in.Name,
		Slug:           *in.Slug,
		BannerTitle:    in.BannerTitle,
		BannerSubtitle: in.BannerSubtitle,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if in.BannerImage != nil {
		inst.BannerImageID = &in.BannerImage.ID
	}

	created, err := s.repo.Create(ctx, inst)
	if err != nil {
		return nil, err
	}
	s.logger.Info("institution created", zap.Int("id", created.ID), zap.String("slug", created.Slug))
	return s.findByID(ctx, created.ID)
}

// Update applies the fields present in in and drops cached responses for
// both the old and the new slug.
func (s *Service) Update(ctx context.Context, id int, in Input) (banner.Record, error) {
	if errs := validateInput(&in, false); len(errs) > 0 {
		return nil, errs
	}

	before, err := s.repo.FindOne(ctx, byID(id))
	if errors.Is(err, ErrNotFound) {
		return nil, banner.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	updated, err := s.repo.Update(ctx, id, in, s.now().UTC())
	if errors.Is(err, ErrNotFound) {
		return nil, banner.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	s.cache.Delete(ctx, banner.CacheKey(before.Slug), banner.CacheKey(updated.Slug))
	s.logger.Info("institution updated", zap.Int("id", id), zap.String("slug", updated.Slug))
	return s.findByID(ctx, id)
}

func (s *Service) findByID(ctx context.Context, id int) (banner.Record, error) {
	d := byID(id)
	inst, err := s.repo.FindOne(ctx, d)
	if err != nil {
		return nil, err
	}
	rec, err := banner.Normalize(inst.Record(d.Populate))
	if err != nil {
		return nil, err
	}
	return banner.Format(rec), nil
}

func byID(id int) query.Descriptor {
	d := query.PopulateBanner()
	d.Filters = query.Filters{"id": {Eq: id}}
	return d
}

func validateInput(in *Input, creating bool) FieldErrors {
	errs := FieldErrors{}

	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		in.Name = &name
	}
	if creating && (in.Name == nil || *in.Name == "") {
		errs["name"] = "name is required"
	} else if in.Name != nil && *in.Name == "" {
		errs["name"] = "name cannot be empty"
	}

	if creating && (in.Slug == nil || *in.Slug == "") && in.Name != nil && *in.Name != "" {
		slug := Slugify(*in.Name)
		in.Slug = &slug
	}
	if in.Slug != nil && !validSlug(*in.Slug) {
		errs["slug"] = "slug must contain only lowercase letters, digits and hyphens"
	}
	return errs
}
