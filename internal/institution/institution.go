package institution

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/sona-group/institution-cms/internal/banner"
	"github.com/sona-group/institution-cms/internal/query"
)

// Institution maps to the `institutions` table. BannerImage is only set when
// the banner image was populated.
type Institution struct {
	ID             int
	DocumentID     string
	Name           string
	Slug           string
	BannerTitle    *string
	BannerSubtitle *string
	BannerImage    *banner.ImageRef
	BannerImageID  *int
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Record converts the row to the loosely-typed record used by the response
// layer. bannerImage is only present when it was populated, like any other
// relation.
func (i Institution) Record(populate query.Populate) banner.Record {
	rec := banner.Record{
		"id":             i.ID,
		"documentId":     i.DocumentID,
		"name":           i.Name,
		"slug":           i.Slug,
		"bannerTitle":    nullable(i.BannerTitle),
		"bannerSubtitle": nullable(i.BannerSubtitle),
		"createdAt":      i.CreatedAt.UTC().Format(time.RFC3339),
		"updatedAt":      i.UpdatedAt.UTC().Format(time.RFC3339),
	}
	if populate.Has(query.BannerImage) {
		if i.BannerImage != nil {
			rec["bannerImage"] = i.BannerImage.Map()
		} else {
			rec["bannerImage"] = nil
		}
	}
	return rec
}

func nullable(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}

// Input is the `data` object of a create or update request. Nil fields were
// not sent. The banner fields have already been through banner.Middleware.
// ClearBanner is set when the request sent a null banner title.
type Input struct {
	Name           *string          `json:"name"`
	Slug           *string          `json:"slug"`
	BannerTitle    *string          `json:"bannerTitle"`
	BannerSubtitle *string          `json:"bannerSubtitle"`
	BannerImage    *banner.ImageRef `json:"bannerImage"`
	ClearBanner    bool             `json:"-"`
}

// UnmarshalJSON only accepts the exact field names. encoding/json would
// otherwise fill BannerTitle from "BANNERTITLE" as well.
func (in *Input) UnmarshalJSON(b []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(b, &fields); err != nil {
		return err
	}

	*in = Input{}
	targets := map[string]any{
		"name":               &in.Name,
		"slug":               &in.Slug,
		banner.FieldTitle:    &in.BannerTitle,
		banner.FieldSubtitle: &in.BannerSubtitle,
		banner.FieldImage:    &in.BannerImage,
	}
	for key, dst := range targets {
		raw, ok := fields[key]
		if !ok {
			continue
		}
		if err := json.Unmarshal(raw, dst); err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
	}

	if _, sent := fields[banner.FieldTitle]; sent && in.BannerTitle == nil {
		in.ClearBanner = true
		in.BannerSubtitle = nil
		in.BannerImage = nil
	}
	return nil
}

// touchesBanner reports whether the banner fields should be written. The
// middleware always sets a title when it accepts banner data, and nulls all
// three when it clears the banner.
func (in Input) touchesBanner() bool {
	return in.BannerTitle != nil || in.ClearBanner
}

var (
	slugPattern  = regexp.MustCompile(`^[a-z0-9]([a-z0-9\-]*[a-z0-9])?$`)
	nonSlugChars = regexp.MustCompile(`[^a-z0-9]+`)
)

// Slugify derives a URL slug from a display name:
// "SONA Tech School" -> "sona-tech-school".
func Slugify(name string) string {
	s := nonSlugChars.ReplaceAllString(strings.ToLower(name), "-")
	return strings.Trim(s, "-")
}

func validSlug(s string) bool {
	return len(s) <= 255 && slugPattern.MatchString(s)
}
