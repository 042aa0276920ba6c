package banner

import (
	"strings"
	"unicode/utf8"
)

const (
	MaxTitleLength    = 255
	MaxSubtitleLength = 500
)

// Field names used by institution write bodies and stored records.
const (
	FieldTitle    = "bannerTitle"
	FieldSubtitle = "bannerSubtitle"
	FieldImage    = "bannerImage"
)

// Payload is the validated banner slice of an institution write.
// Image is passed through untouched once it has been checked.
type Payload struct {
	Title    string
	Subtitle *string
	Image    any
}

// ValidateTitle checks the banner title and returns it trimmed.
func ValidateTitle(input any) (string, error) {
	s, ok := asString(input)
	if !ok {
		return "", invalid(FieldTitle, ErrNotString, "banner title must be a string")
	}

	title := strings.TrimSpace(s)
	if title == "" {
		return "", invalid(FieldTitle, ErrEmpty, "banner title cannot be empty")
	}
	if utf8.RuneCountInString(title) > MaxTitleLength {
		return "", invalid(FieldTitle, ErrTooLong, "banner title must not exceed %d characters", MaxTitleLength)
	}
	return title, nil
}

// ValidateSubtitle checks the optional subtitle. A missing or blank subtitle
// is not an error; it yields nil.
func ValidateSubtitle(input any) (*string, error) {
	if input == nil {
		return nil, nil
	}
	if p, ok := input.(*string); ok && p == nil {
		return nil, nil
	}

	s, ok := asString(input)
	if !ok {
		return nil, invalid(FieldSubtitle, ErrNotString, "banner subtitle must be a string")
	}

	subtitle := strings.TrimSpace(s)
	if subtitle == "" {
		return nil, nil
	}
	if utf8.RuneCountInString(subtitle) > MaxSubtitleLength {
		return nil, invalid(FieldSubtitle, ErrTooLong, "banner subtitle must not exceed %d characters", MaxSubtitleLength)
	}
	return &subtitle, nil
}

// ValidatePayload runs the field validators in order (title, subtitle,
// image) and stops at the first failure.
func ValidatePayload(raw any) (Payload, error) {
	data, ok := raw.(map[string]any)
	if !ok || data == nil {
		return Payload{}, invalid("", ErrNotObject, "banner data must be an object")
	}

	title, err := ValidateTitle(data[FieldTitle])
	if err != nil {
		return Payload{}, err
	}
	subtitle, err := ValidateSubtitle(data[FieldSubtitle])
	if err != nil {
		return Payload{}, err
	}
	if err := ValidateImageRef(data[FieldImage]); err != nil {
		return Payload{}, err
	}

	return Payload{Title: title, Subtitle: subtitle, Image: data[FieldImage]}, nil
}

func asString(v any) (string, bool) {
	switch s := v.(type) {
	case string:
		return s, true
	case *string:
		if s == nil {
			return "", false
		}
		return *s, true
	}
	return "", false
}
