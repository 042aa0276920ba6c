// Package content declares the reusable content components editors attach to
// pages, with the same constraints the admin schema enforces.
package content

// IconRef points at an icon-badge entry.
type IconRef struct {
	ID int `json:"id" validate:"required,gt=0"`
}

// MediaRef points at a media library file.
type MediaRef struct {
	ID int `json:"id" validate:"required,gt=0"`
}

type AchievementItem struct {
	Title       string `json:"title" validate:"required,max=120"`
	Statistic   string `json:"statistic" validate:"required,max=25"`
	Description string `json:"description,omitempty" validate:"max=255"`
	Order       int    `json:"order"`
}

// BulletItem is a markdown bullet point with an icon.
type BulletItem struct {
	Text string   `json:"text" validate:"required"`
	Icon *IconRef `json:"icon" validate:"required"`
}

type CampusGalleryImage struct {
	Image         *MediaRef `json:"image" validate:"required"`
	AltText       string    `json:"altText,omitempty" validate:"max=120"`
	LayoutVariant string    `json:"layoutVariant" validate:"omitempty,oneof=square tall wide"`
}

// CampusGalleryColumn holds exactly two gallery images.
type CampusGalleryColumn struct {
	Images []CampusGalleryImage `json:"images" validate:"required,len=2,dive"`
	Order  int                  `json:"order"`
}

type PartnershipItem struct {
	CompanyName     string    `json:"companyName" validate:"required"`
	CompanyLogo     *MediaRef `json:"companyLogo" validate:"required"`
	BackgroundColor string    `json:"backgroundColor,omitempty"`
}

type RecognitionItem struct {
	Title       string   `json:"title" validate:"required,max=120"`
	Description string   `json:"description,omitempty" validate:"max=255"`
	Icon        *IconRef `json:"icon" validate:"required"`
	Order       int      `json:"order"`
}

type TestimonialItem struct {
	Name    string    `json:"name" validate:"required"`
	Role    string    `json:"role" validate:"required"`
	Company string    `json:"company,omitempty"`
	Quote   string    `json:"quote" validate:"required"`
	Rating  int       `json:"rating" validate:"required,min=1,max=5"`
	Avatar  *MediaRef `json:"avatar,omitempty"`
}

type ValuePropositionItem struct {
	Title       string   `json:"title" validate:"required,max=100"`
	TitleColor  string   `json:"titleColor,omitempty" validate:"max=50"`
	Description string   `json:"description" validate:"required"`
	Icon        *IconRef `json:"icon" validate:"required"`
	Order       int      `json:"order"`
}

// ProgramSection is a section within a program page.
type ProgramSection struct {
	Title               string   `json:"title" validate:"required,max=255"`
	Description         string   `json:"description,omitempty"`
	Icon                *IconRef `json:"icon,omitempty"`
	LearnMoreText       string   `json:"learnMoreText,omitempty" validate:"max=100"`
	LearnMoreURL        string   `json:"learnMoreUrl,omitempty" validate:"max=500"`
	LearnMoreIsExternal bool     `json:"learnMoreIsExternal"`
	Order               int      `json:"order"`
}

// Defaults applied when the editor leaves a field empty.
const (
	DefaultLearnMoreText = "Learn More"
	DefaultTitleColor    = "#fbbf24"
	DefaultLayoutVariant = "square"
	DefaultRating        = 5
)

// ApplyDefaults fills empty fields with their schema defaults.
func (p *ProgramSection) ApplyDefaults() {
	if p.LearnMoreText == "" {
		p.LearnMoreText = DefaultLearnMoreText
	}
}

func (v *ValuePropositionItem) ApplyDefaults() {
	if v.TitleColor == "" {
		v.TitleColor = DefaultTitleColor
	}
}

func (g *CampusGalleryImage) ApplyDefaults() {
	if g.LayoutVariant == "" {
		g.LayoutVariant = DefaultLayoutVariant
	}
}

func (t *TestimonialItem) ApplyDefaults() {
	if t.Rating == 0 {
		t.Rating = DefaultRating
	}
}
