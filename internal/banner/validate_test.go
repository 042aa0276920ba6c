package banner

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validImage() map[string]any {
	return map[string]any{"id": 1, "url": "/x.png", "mime": "image/png"}
}

func TestValidateTitle(t *testing.T) {
	for _, in := range []string{"a", "  Welcome  ", strings.Repeat("x", 255), " " + strings.Repeat("é", 255) + "\n"} {
		got, err := ValidateTitle(in)
		require.NoError(t, err, "input %q", in)
		assert.Equal(t, strings.TrimSpace(in), got)
	}

	cases := []struct {
		name string
		in   any
		kind error
	}{
		{"nil", nil, ErrNotString},
		{"number", 42, ErrNotString},
		{"empty", "", ErrEmpty},
		{"whitespace", " \t\n ", ErrEmpty},
		{"too long", strings.Repeat("x", 256), ErrTooLong},
		{"too long after trim", "  " + strings.Repeat("x", 256) + "  ", ErrTooLong},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ValidateTitle(tc.in)
			var ve *ValidationError
			require.ErrorAs(t, err, &ve)
			assert.ErrorIs(t, err, tc.kind)
			assert.Equal(t, FieldTitle, ve.Field)
		})
	}
}

func TestValidateSubtitle(t *testing.T) {
	for _, in := range []any{nil, (*string)(nil), "", "   "} {
		got, err := ValidateSubtitle(in)
		require.NoError(t, err)
		assert.Nil(t, got, "input %#v", in)
	}

	got, err := ValidateSubtitle("  Pioneering Technology Education  ")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Pioneering Technology Education", *got)

	got, err = ValidateSubtitle(strings.Repeat("s", 500))
	require.NoError(t, err)
	assert.Len(t, *got, 500)

	_, err = ValidateSubtitle(strings.Repeat("s", 501))
	assert.ErrorIs(t, err, ErrTooLong)

	_, err = ValidateSubtitle(true)
	assert.ErrorIs(t, err, ErrNotString)
}

func TestValidateImageRef(t *testing.T) {
	require.NoError(t, ValidateImageRef(validImage()))
	require.NoError(t, ValidateImageRef(ImageRef{ID: 3, URL: "/a.webp", Mime: "image/webp"}))
	require.NoError(t, ValidateImageRef(map[string]any{"id": json.Number("7"), "url": "/a.gif", "mime": "image/gif"}))
	require.NoError(t, ValidateImageRef(map[string]any{"id": float64(7), "url": "/a.jpg", "mime": "image/jpeg"}))

	cases := []struct {
		name  string
		in    any
		kind  error
		field string
	}{
		{"absent", nil, ErrMissing, FieldImage},
		{"nil pointer", (*ImageRef)(nil), ErrMissing, FieldImage},
		{"not an object", "img.png", ErrNotObject, FieldImage},
		{"id string", map[string]any{"id": "1", "url": "/x.png", "mime": "image/png"}, ErrInvalid, "bannerImage.id"},
		{"id zero", map[string]any{"id": 0, "url": "/x.png", "mime": "image/png"}, ErrInvalid, "bannerImage.id"},
		{"id fractional", map[string]any{"id": 1.5, "url": "/x.png", "mime": "image/png"}, ErrInvalid, "bannerImage.id"},
		{"url missing", map[string]any{"id": 1, "mime": "image/png"}, ErrInvalid, "bannerImage.url"},
		{"url number", map[string]any{"id": 1, "url": 5, "mime": "image/png"}, ErrInvalid, "bannerImage.url"},
		{"mime missing", map[string]any{"id": 1, "url": "/x.png"}, ErrInvalid, "bannerImage.mime"},
		{"mime pdf", map[string]any{"id": 1, "url": "/x.png", "mime": "application/pdf"}, ErrUnsupportedMime, "bannerImage.mime"},
		{"mime svg", map[string]any{"id": 1, "url": "/x.svg", "mime": "image/svg+xml"}, ErrUnsupportedMime, "bannerImage.mime"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateImageRef(tc.in)
			var ve *ValidationError
			require.ErrorAs(t, err, &ve)
			assert.ErrorIs(t, err, tc.kind)
			assert.Equal(t, tc.field, ve.Field)
		})
	}

	err := ValidateImageRef(map[string]any{"id": 1, "url": "/x.png", "mime": "application/pdf"})
	assert.Contains(t, err.Error(), "application/pdf")
}

func TestValidatePayload(t *testing.T) {
	p, err := ValidatePayload(map[string]any{
		FieldTitle:    "  Welcome to AI CONSULTANCY ",
		FieldSubtitle: "   ",
		FieldImage:    validImage(),
	})
	require.NoError(t, err)
	assert.Equal(t, "Welcome to AI CONSULTANCY", p.Title)
	assert.Nil(t, p.Subtitle)
	assert.Equal(t, validImage(), p.Image)

	_, err = ValidatePayload("not a map")
	assert.ErrorIs(t, err, ErrNotObject)
	_, err = ValidatePayload(nil)
	assert.ErrorIs(t, err, ErrNotObject)
}

func TestValidatePayload_FailFast(t *testing.T) {
	// every field is broken; the title is reported because it runs first
	_, err := ValidatePayload(map[string]any{
		FieldTitle:    "",
		FieldSubtitle: 12,
		FieldImage:    nil,
	})
	assert.ErrorIs(t, err, ErrEmpty)

	_, err = ValidatePayload(map[string]any{
		FieldTitle:    "ok",
		FieldSubtitle: 12,
		FieldImage:    nil,
	})
	assert.ErrorIs(t, err, ErrNotString)

	_, err = ValidatePayload(map[string]any{FieldTitle: "ok"})
	assert.ErrorIs(t, err, ErrMissing)
	assert.False(t, errors.Is(err, ErrEmpty))
}
