package institution

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sona-group/institution-cms/internal/banner"
)

func ptr[T any](v T) *T { return &v }

func seedRepo() *InMemoryRepository {
	created := time.Date(2025, 1, 10, 9, 0, 0, 0, time.UTC)
	files := []banner.ImageRef{
		{ID: 1, URL: "/uploads/tech.jpg", Mime: "image/jpeg", Size: 120.5, Width: ptr(1920), Height: ptr(1080), Name: "tech.jpg"},
		{ID: 2, URL: "https://cdn.example.com/ai.png", Mime: "image/png", Size: 80, Width: ptr(800), Height: ptr(600), Name: "ai.png"},
	}
	seed := []Institution{
		{ID: 1, DocumentID: "doc-tech", Name: "SONA Tech School", Slug: "sona-tech-school",
			BannerTitle: ptr("Pioneering Technology Education"), BannerImageID: ptr(1), CreatedAt: created, UpdatedAt: created},
		{ID: 2, DocumentID: "doc-hire", Name: "Contract to Hire", Slug: "contract-to-hire", CreatedAt: created, UpdatedAt: created},
	}
	return NewInMemoryRepository(seed, files)
}

func newTestApp(repo Repository) *fiber.App {
	h := NewHandler(NewService(repo, nil, zap.NewNop()), "http://cms.test", zap.NewNop())
	app := fiber.New()
	h.RegisterPublicRoutes(app)
	h.RegisterProtectedRoutes(app)
	return app
}

func doJSON(t *testing.T, app *fiber.App, method, target, body string) (int, map[string]any) {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	res, err := app.Test(req)
	require.NoError(t, err)

	b, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	var out map[string]any
	require.NoError(t, json.Unmarshal(b, &out), "body: %s", b)
	return res.StatusCode, out
}

func TestGetBySlug(t *testing.T) {
	app := newTestApp(seedRepo())

	status, body := doJSON(t, app, http.MethodGet, "/api/institutions/sona-tech-school", "")
	require.Equal(t, fiber.StatusOK, status)

	data := body["data"].(map[string]any)
	assert.Equal(t, "Pioneering Technology Education", data["bannerTitle"])
	assert.Nil(t, data["bannerSubtitle"])
	assert.NotContains(t, data, "documentId")

	img := data["bannerImage"].(map[string]any)
	assert.Equal(t, "http://cms.test/uploads/tech.jpg", img["url"])
	assert.Equal(t, "16/9", img["aspectRatio"])
}

func TestGetBySlug_NotFound(t *testing.T) {
	app := newTestApp(seedRepo())

	status, body := doJSON(t, app, http.MethodGet, "/api/institutions/unknown", "")
	assert.Equal(t, fiber.StatusNotFound, status)
	assert.Equal(t, "Institution not found", body["message"])
}

func TestGetBySlug_BrokenImage(t *testing.T) {
	repo := NewInMemoryRepository(
		[]Institution{{ID: 1, Name: "Broken", Slug: "broken", BannerTitle: ptr("T"), BannerImageID: ptr(5)}},
		[]banner.ImageRef{{ID: 5, Mime: "image/png"}},
	)
	app := newTestApp(repo)

	status, body := doJSON(t, app, http.MethodGet, "/api/institutions/broken", "")
	assert.Equal(t, fiber.StatusInternalServerError, status)
	assert.Equal(t, "banner image missing URL", body["message"])
}

func TestList(t *testing.T) {
	app := newTestApp(seedRepo())

	status, body := doJSON(t, app, http.MethodGet, "/api/institutions", "")
	require.Equal(t, fiber.StatusOK, status)
	assert.Len(t, body["data"], 2)

	status, body = doJSON(t, app, http.MethodGet, "/api/institutions?hasBanner=true", "")
	require.Equal(t, fiber.StatusOK, status)
	data := body["data"].([]any)
	require.Len(t, data, 1)
	assert.Equal(t, "sona-tech-school", data[0].(map[string]any)["slug"])
	assert.Equal(t, float64(1), body["meta"].(map[string]any)["total"])

	status, body = doJSON(t, app, http.MethodGet, "/api/institutions?filters%5Bslug%5D%5B%24eq%5D=contract-to-hire", "")
	require.Equal(t, fiber.StatusOK, status)
	data = body["data"].([]any)
	require.Len(t, data, 1)
	assert.Equal(t, "Contract to Hire", data[0].(map[string]any)["name"])

	status, _ = doJSON(t, app, http.MethodGet, "/api/institutions?filters%5Bslug%5D%5B%24ne%5D=x", "")
	assert.Equal(t, fiber.StatusBadRequest, status)
}

func TestCreate(t *testing.T) {
	app := newTestApp(seedRepo())

	payload := `{"data":{"name":"SONA Business School","bannerTitle":"  <b>Business</b> Leaders ","bannerSubtitle":"   ","bannerImage":{"id":2,"url":"https://cdn.example.com/ai.png","mime":"image/png"}}}`
	status, body := doJSON(t, app, http.MethodPost, "/api/institutions", payload)
	require.Equal(t, fiber.StatusCreated, status, "body: %v", body)

	data := body["data"].(map[string]any)
	assert.Equal(t, "sona-business-school", data["slug"])
	assert.Equal(t, "bBusiness/b Leaders", data["bannerTitle"])
	assert.Nil(t, data["bannerSubtitle"])
	img := data["bannerImage"].(map[string]any)
	assert.Equal(t, "https://cdn.example.com/ai.png", img["url"])
	assert.Equal(t, "4/3", img["aspectRatio"])

	status, _ = doJSON(t, app, http.MethodGet, "/api/institutions/sona-business-school", "")
	assert.Equal(t, fiber.StatusOK, status)
}

func TestCreate_Rejections(t *testing.T) {
	app := newTestApp(seedRepo())

	status, body := doJSON(t, app, http.MethodPost, "/api/institutions",
		`{"data":{"name":"X","bannerTitle":"Hi","bannerImage":{"id":1,"url":"/a.pdf","mime":"application/pdf"}}}`)
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "Banner validation error: banner image must be an image file. Received: application/pdf", body["message"])

	status, body = doJSON(t, app, http.MethodPost, "/api/institutions", `{"data":{"slug":"no-name"}}`)
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "name is required", body["errors"].(map[string]any)["name"])

	status, _ = doJSON(t, app, http.MethodPost, "/api/institutions", `{"data":{"name":"SONA Tech School"}}`)
	assert.Equal(t, fiber.StatusConflict, status)

	status, _ = doJSON(t, app, http.MethodPost, "/api/institutions",
		`{"data":{"name":"Ghost","bannerTitle":"Hi","bannerImage":{"id":42,"url":"/g.png","mime":"image/png"}}}`)
	assert.Equal(t, fiber.StatusBadRequest, status)
}

func TestUpdate(t *testing.T) {
	app := newTestApp(seedRepo())

	payload := `{"data":{"bannerTitle":"Hire Smarter","bannerSubtitle":"Flexible teams","bannerImage":{"id":1,"url":"/uploads/tech.jpg","mime":"image/jpeg"}}}`
	status, body := doJSON(t, app, http.MethodPut, "/api/institutions/2", payload)
	require.Equal(t, fiber.StatusOK, status, "body: %v", body)

	data := body["data"].(map[string]any)
	assert.Equal(t, "Contract to Hire", data["name"])
	assert.Equal(t, "Hire Smarter", data["bannerTitle"])
	assert.Equal(t, "Flexible teams", data["bannerSubtitle"])
	assert.Equal(t, "http://cms.test/uploads/tech.jpg", data["bannerImage"].(map[string]any)["url"])

	// name-only updates leave the banner alone
	status, body = doJSON(t, app, http.MethodPut, "/api/institutions/2", `{"data":{"name":"Contract To Hire"}}`)
	require.Equal(t, fiber.StatusOK, status)
	data = body["data"].(map[string]any)
	assert.Equal(t, "Contract To Hire", data["name"])
	assert.Equal(t, "Hire Smarter", data["bannerTitle"])

	status, _ = doJSON(t, app, http.MethodPut, "/api/institutions/99", `{"data":{"name":"Nobody"}}`)
	assert.Equal(t, fiber.StatusNotFound, status)
}

func TestUpdate_CaseVariantBannerKeysAreSanitized(t *testing.T) {
	app := newTestApp(seedRepo())

	payload := `{"data":{"BannerTitle":"<script>alert('x')</script>","bannerimage":{"id":1,"url":"/uploads/tech.jpg","mime":"image/jpeg"}}}`
	status, body := doJSON(t, app, http.MethodPut, "/api/institutions/2", payload)
	require.Equal(t, fiber.StatusOK, status, "body: %v", body)

	data := body["data"].(map[string]any)
	assert.Equal(t, "scriptalert(&#39;x&#39;)/script", data["bannerTitle"])
	assert.Equal(t, "http://cms.test/uploads/tech.jpg", data["bannerImage"].(map[string]any)["url"])

	status, body = doJSON(t, app, http.MethodPut, "/api/institutions/2",
		`{"data":{"BannerTitle":"  ","bannerImage":{"id":1,"url":"/uploads/tech.jpg","mime":"image/jpeg"}}}`)
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "Banner validation error: banner title cannot be empty", body["message"])

	status, _ = doJSON(t, app, http.MethodPut, "/api/institutions/2",
		`{"data":{"bannerTitle":"ok","BannerTitle":"<b>x</b>","bannerImage":{"id":1,"url":"/uploads/tech.jpg","mime":"image/jpeg"}}}`)
	assert.Equal(t, fiber.StatusBadRequest, status)
}

func TestUpdate_NullBannerClears(t *testing.T) {
	app := newTestApp(seedRepo())

	status, body := doJSON(t, app, http.MethodPut, "/api/institutions/1",
		`{"data":{"bannerTitle":null,"bannerSubtitle":null,"bannerImage":null}}`)
	require.Equal(t, fiber.StatusOK, status, "body: %v", body)

	data := body["data"].(map[string]any)
	assert.Equal(t, "SONA Tech School", data["name"])
	assert.Nil(t, data["bannerTitle"])
	assert.Nil(t, data["bannerSubtitle"])
	assert.Nil(t, data["bannerImage"])

	status, body = doJSON(t, app, http.MethodGet, "/api/institutions?hasBanner=true", "")
	require.Equal(t, fiber.StatusOK, status)
	assert.Len(t, body["data"], 0)
}

func TestWrite_RequiresJSON(t *testing.T) {
	app := newTestApp(seedRepo())

	req := httptest.NewRequest(http.MethodPut, "/api/institutions/2", strings.NewReader("data.BannerTitle=%3Cb%3Ex%3C%2Fb%3E"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	res, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnsupportedMediaType, res.StatusCode)

	status, body := doJSON(t, app, http.MethodGet, "/api/institutions/contract-to-hire", "")
	require.Equal(t, fiber.StatusOK, status)
	assert.Nil(t, body["data"].(map[string]any)["bannerTitle"])
}
