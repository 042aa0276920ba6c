package banner

// Record is a stored institution in the loosely-typed shape handed to the
// response layer. Key presence matters: a key mapped to nil is present.
type Record map[string]any

// PublicFields is the projection returned to API clients.
var PublicFields = []string{
	"id",
	"name",
	"slug",
	FieldTitle,
	FieldSubtitle,
	FieldImage,
	"createdAt",
	"updatedAt",
}

// Normalize checks that a stored record carries the banner fields the
// frontend relies on. It returns the record unchanged.
func Normalize(record Record) (Record, error) {
	if record == nil {
		return nil, ErrNotFound
	}
	if _, ok := record[FieldTitle]; !ok {
		return nil, &SchemaError{Field: FieldTitle, Msg: "missing required bannerTitle field"}
	}
	image, ok := record[FieldImage]
	if !ok {
		return nil, &SchemaError{Field: FieldImage, Msg: "missing required bannerImage field"}
	}
	if image != nil && !imageHasURL(image) {
		return nil, &SchemaError{Field: FieldImage + ".url", Msg: "banner image missing URL"}
	}
	return record, nil
}

func imageHasURL(image any) bool {
	switch v := image.(type) {
	case map[string]any:
		if v == nil {
			return true
		}
		url, _ := v["url"].(string)
		return url != ""
	case ImageRef:
		return v.URL != ""
	case *ImageRef:
		return v == nil || v.URL != ""
	}
	return false
}

// Format narrows a record to PublicFields. Absent fields come back as nil so
// the result always passes Normalize's presence checks.
func Format(record Record) Record {
	out := make(Record, len(PublicFields))
	for _, f := range PublicFields {
		out[f] = record[f]
	}
	return out
}

// HasBannerData reports whether the record has both a title and an image.
func HasBannerData(record Record) bool {
	return record[FieldTitle] != nil && record[FieldImage] != nil && !isNilImage(record[FieldImage])
}

func isNilImage(v any) bool {
	switch i := v.(type) {
	case *ImageRef:
		return i == nil
	case map[string]any:
		return i == nil
	}
	return false
}

// CacheKey is the cache key for an institution's banner response.
func CacheKey(slug string) string {
	return "institution:banner:" + slug
}
