package banner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func storedRecord() Record {
	return Record{
		"id":             4,
		"documentId":     "e1b2",
		"name":           "AI Consultancy",
		"slug":           "ai-consultancy",
		"bannerTitle":    "Welcome to AI CONSULTANCY",
		"bannerSubtitle": nil,
		"bannerImage":    map[string]any{"id": 9, "url": "/uploads/ai.jpg", "mime": "image/jpeg"},
		"createdAt":      "2026-01-02T03:04:05Z",
		"updatedAt":      "2026-01-02T03:04:05Z",
		"publishedAt":    nil,
	}
}

func TestNormalize(t *testing.T) {
	rec := storedRecord()
	got, err := Normalize(rec)
	require.NoError(t, err)
	assert.Equal(t, rec, got)

	// null values are fine, only presence is required
	got, err = Normalize(Record{"bannerTitle": nil, "bannerImage": nil})
	require.NoError(t, err)
	assert.Len(t, got, 2)

	_, err = Normalize(Record{"bannerTitle": "x", "bannerImage": &ImageRef{ID: 1, URL: "/a.png"}})
	assert.NoError(t, err)
}

func TestNormalize_Errors(t *testing.T) {
	_, err := Normalize(nil)
	assert.ErrorIs(t, err, ErrNotFound)

	var se *SchemaError

	_, err = Normalize(Record{"bannerImage": nil})
	require.ErrorAs(t, err, &se)
	assert.Equal(t, FieldTitle, se.Field)

	_, err = Normalize(Record{"bannerTitle": "x"})
	require.ErrorAs(t, err, &se)
	assert.Equal(t, FieldImage, se.Field)

	_, err = Normalize(Record{"bannerTitle": "x", "bannerImage": map[string]any{"id": 1, "url": ""}})
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "bannerImage.url", se.Field)

	_, err = Normalize(Record{"bannerTitle": "x", "bannerImage": ImageRef{ID: 1}})
	assert.ErrorAs(t, err, &se)
}

func TestFormat(t *testing.T) {
	got := Format(storedRecord())
	assert.Len(t, got, len(PublicFields))
	assert.NotContains(t, got, "documentId")
	assert.NotContains(t, got, "publishedAt")
	assert.Equal(t, "ai-consultancy", got["slug"])

	// keys the record lacks are projected as nil
	sparse := Format(Record{"id": 1})
	assert.Contains(t, sparse, "bannerSubtitle")
	assert.Nil(t, sparse["bannerSubtitle"])
}

func TestNormalizeFormatRoundTrip(t *testing.T) {
	for _, rec := range []Record{
		storedRecord(),
		{"bannerTitle": nil, "bannerImage": nil},
		{"id": 2, "bannerTitle": "t", "bannerImage": ImageRef{ID: 1, URL: "/a.png"}},
	} {
		n, err := Normalize(rec)
		require.NoError(t, err)
		_, err = Normalize(Format(n))
		assert.NoError(t, err)
	}
}

func TestHasBannerData(t *testing.T) {
	assert.True(t, HasBannerData(storedRecord()))
	assert.False(t, HasBannerData(Record{"bannerTitle": "x", "bannerImage": nil}))
	assert.False(t, HasBannerData(Record{"bannerTitle": "x", "bannerImage": (*ImageRef)(nil)}))
	assert.False(t, HasBannerData(Record{"bannerImage": map[string]any{"url": "/a"}}))
}

func TestCacheKey(t *testing.T) {
	assert.Equal(t, "institution:banner:sona-tech-school", CacheKey("sona-tech-school"))
}
