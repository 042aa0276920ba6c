package banner

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"strings"
)

// DefaultBaseURL is used for relative media URLs when neither a base URL nor
// STRAPI_URL is available.
const DefaultBaseURL = "http://localhost:1337"

// AllowedMimeTypes is the allow-list for banner images.
var AllowedMimeTypes = []string{"image/jpeg", "image/png", "image/webp", "image/gif"}

// ImageRef is a media library entry referenced by a banner.
type ImageRef struct {
	ID              int     `json:"id"`
	URL             string  `json:"url"`
	Mime            string  `json:"mime"`
	Size            float64 `json:"size"`
	Width           *int    `json:"width,omitempty"`
	Height          *int    `json:"height,omitempty"`
	Name            string  `json:"name"`
	AlternativeText *string `json:"alternativeText,omitempty"`
}

// Map returns the image in the loosely-typed form used by records.
func (i ImageRef) Map() map[string]any {
	m := map[string]any{
		"id":   i.ID,
		"url":  i.URL,
		"mime": i.Mime,
		"size": i.Size,
		"name": i.Name,
	}
	if i.Width != nil {
		m["width"] = *i.Width
	}
	if i.Height != nil {
		m["height"] = *i.Height
	}
	if i.AlternativeText != nil {
		m["alternativeText"] = *i.AlternativeText
	}
	return m
}

// ValidateImageRef checks that input references a usable banner image.
func ValidateImageRef(input any) error {
	var fields map[string]any
	switch v := input.(type) {
	case nil:
		return invalid(FieldImage, ErrMissing, "banner image is required")
	case map[string]any:
		if v == nil {
			return invalid(FieldImage, ErrMissing, "banner image is required")
		}
		fields = v
	case ImageRef:
		fields = v.Map()
	case *ImageRef:
		if v == nil {
			return invalid(FieldImage, ErrMissing, "banner image is required")
		}
		fields = v.Map()
	default:
		return invalid(FieldImage, ErrNotObject, "banner image must be an object")
	}

	id, ok := toNumber(fields["id"])
	if !ok || id <= 0 || id != math.Trunc(id) {
		return invalid(FieldImage+".id", ErrInvalid, "banner image must have a valid ID")
	}
	if url, ok := fields["url"].(string); !ok || url == "" {
		return invalid(FieldImage+".url", ErrInvalid, "banner image must have a valid URL")
	}
	mime, ok := fields["mime"].(string)
	if !ok || mime == "" {
		return invalid(FieldImage+".mime", ErrInvalid, "banner image must have a valid MIME type")
	}
	if !IsAllowedMime(mime) {
		return invalid(FieldImage+".mime", ErrUnsupportedMime, "banner image must be an image file. Received: %s", mime)
	}
	return nil
}

// IsAllowedMime reports whether mime is on the banner allow-list.
func IsAllowedMime(mime string) bool {
	for _, m := range AllowedMimeTypes {
		if m == mime {
			return true
		}
	}
	return false
}

// ValidateImageMetadata checks that an image carries everything the
// frontend needs to render it. Unlike the request validators it reports
// every missing property at once.
func ValidateImageMetadata(image map[string]any) error {
	var missing []string
	if n, ok := toNumber(image["id"]); !ok || n == 0 {
		missing = append(missing, "image must have an ID")
	}
	if s, _ := image["url"].(string); s == "" {
		missing = append(missing, "image must have a URL")
	}
	if s, _ := image["mime"].(string); s == "" {
		missing = append(missing, "image must have a MIME type")
	}
	if n, ok := toNumber(image["size"]); !ok || n == 0 {
		missing = append(missing, "image must have a size")
	}
	if len(missing) > 0 {
		return invalid(FieldImage, ErrMissing, "banner image validation failed: %s", strings.Join(missing, ", "))
	}
	return nil
}

// ExtractMetadata pulls the typed image properties out of a loosely-typed
// media object. Unknown or mistyped properties are left at their zero value.
func ExtractMetadata(image map[string]any) ImageRef {
	ref := ImageRef{}
	if n, ok := toNumber(image["id"]); ok {
		ref.ID = int(n)
	}
	ref.URL, _ = image["url"].(string)
	ref.Mime, _ = image["mime"].(string)
	ref.Name, _ = image["name"].(string)
	if n, ok := toNumber(image["size"]); ok {
		ref.Size = n
	}
	if n, ok := toNumber(image["width"]); ok {
		w := int(n)
		ref.Width = &w
	}
	if n, ok := toNumber(image["height"]); ok {
		h := int(n)
		ref.Height = &h
	}
	if alt, ok := image["alternativeText"].(string); ok {
		ref.AlternativeText = &alt
	}
	return ref
}

var commonRatios = []struct {
	label string
	value float64
}{
	{"16/9", 16.0 / 9.0},
	{"4/3", 4.0 / 3.0},
	{"1/1", 1},
	{"3/2", 3.0 / 2.0},
}

// AspectRatio returns a CSS aspect-ratio value for the given dimensions.
// Unknown dimensions fall back to 16/9.
func AspectRatio(width, height int) string {
	if width <= 0 || height <= 0 {
		return "16/9"
	}

	ratio := float64(width) / float64(height)
	for _, r := range commonRatios {
		if math.Abs(ratio-r.value) < 0.01 {
			return r.label
		}
	}
	return fmt.Sprintf("%d/%d", width, height)
}

// BuildImageURL turns a media path into an absolute URL. URLs that are
// already absolute are returned unchanged. An empty baseURL falls back to
// STRAPI_URL and then to DefaultBaseURL.
func BuildImageURL(imageURL, baseURL string) string {
	if strings.HasPrefix(imageURL, "http") {
		return imageURL
	}

	base := baseURL
	if base == "" {
		base = os.Getenv("STRAPI_URL")
	}
	if base == "" {
		base = DefaultBaseURL
	}
	return base + imageURL
}

func toNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	}
	return 0, false
}
