package programsection

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"go.uber.org/zap"

	"github.com/sona-group/institution-cms/internal/content"
	"github.com/sona-group/institution-cms/internal/query"
)

// descriptionPolicy keeps the formatting the rich-text editor produces and
// drops scripts, styles and event handlers.
var descriptionPolicy = bluemonday.UGCPolicy()

type Service struct {
	repo   Repository
	logger *zap.Logger
	now    func() time.Time
}

func NewService(repo Repository, logger *zap.Logger) *Service {
	return &Service{repo: repo, logger: logger, now: time.Now}
}

// Find lists sections, populating DefaultPopulate unless d names its own
// relations.
func (s *Service) Find(ctx context.Context, d query.Descriptor) ([]Section, error) {
	d.Populate = query.ResolvePopulate(d.Populate, DefaultPopulate)
	rows, err := s.repo.Find(ctx, d)
	if err != nil {
		return nil, fmt.Errorf("find program sections: %w", err)
	}
	return rows, nil
}

// FindOne returns the section with the given id.
func (s *Service) FindOne(ctx context.Context, id int, populate query.Populate) (Section, error) {
	d := query.Descriptor{
		Filters:  query.Filters{"id": {Eq: id}},
		Populate: query.ResolvePopulate(populate, DefaultPopulate),
	}
	return s.repo.FindOne(ctx, d)
}

func (s *Service) Create(ctx context.Context, in Input) (Section, error) {
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(descriptionPolicy.Sanitize(in.Description))
	in.ApplyDefaults()

	errs := content.Validate(in.ProgramSection)
	if in.Program != nil && *in.Program <= 0 {
		if errs == nil {
			errs = content.FieldErrors{}
		}
		errs["program"] = "program must be greater than 0"
	}
	if len(errs) > 0 {
		return Section{}, errs
	}

	created, err := s.repo.Create(ctx, in.section(s.now().UTC()))
	if err != nil {
		return Section{}, err
	}
	s.logger.Info("program section created", zap.Int("id", created.ID), zap.String("title", created.Title))
	return s.FindOne(ctx, created.ID, nil)
}
