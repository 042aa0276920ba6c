// Package programsection serves the feature blocks shown on program pages.
package programsection

import (
	"time"

	"github.com/sona-group/institution-cms/internal/banner"
	"github.com/sona-group/institution-cms/internal/content"
	"github.com/sona-group/institution-cms/internal/query"
)

// Relations that can be populated on a section.
const (
	RelationIcon    = "icon"
	RelationProgram = "program"
)

// DefaultPopulate is used when a request does not name its own relations.
var DefaultPopulate = query.Populate{RelationIcon, RelationProgram}

// Icon is a populated icon badge.
type Icon struct {
	ID    int              `json:"id"`
	Name  string           `json:"name"`
	Image *banner.ImageRef `json:"image"`
}

// Program is the populated owner of a section.
type Program struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// Section maps to the `program_sections` table. Icon and Program are only
// set when populated.
type Section struct {
	ID                  int       `json:"id"`
	Title               string    `json:"title"`
	Description         string    `json:"description"`
	IconID              *int      `json:"-"`
	ProgramID           *int      `json:"-"`
	Icon                *Icon     `json:"icon,omitempty"`
	Program             *Program  `json:"program,omitempty"`
	LearnMoreText       string    `json:"learnMoreText"`
	LearnMoreURL        string    `json:"learnMoreUrl"`
	LearnMoreIsExternal bool      `json:"learnMoreIsExternal"`
	Order               int       `json:"order"`
	CreatedAt           time.Time `json:"createdAt"`
	UpdatedAt           time.Time `json:"updatedAt"`
}

// Input is the `data` object of a create request.
type Input struct {
	content.ProgramSection
	Program *int `json:"program"`
}

func (in Input) section(now time.Time) Section {
	s := Section{
		Title:               in.Title,
		Description:         in.Description,
		ProgramID:           in.Program,
		LearnMoreText:       in.LearnMoreText,
		LearnMoreURL:        in.LearnMoreURL,
		LearnMoreIsExternal: in.LearnMoreIsExternal,
		Order:               in.Order,
		CreatedAt:           now,
		UpdatedAt:           now,
	}
	if in.Icon != nil {
		id := in.Icon.ID
		s.IconID = &id
	}
	return s
}
