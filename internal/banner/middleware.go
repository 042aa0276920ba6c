package banner

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/sona-group/institution-cms/internal/metrics"
)

// ErrorPrefix tags every error raised by the banner middleware.
const ErrorPrefix = "Banner validation error: "

// ApplyToBody validates and sanitizes the banner fields of a write body of
// the form {"data": {...}}. Bodies that do not touch any banner field are
// left alone. Banner keys are matched case-insensitively and rewritten to
// their canonical spelling. When title, subtitle and image are all null the
// banner is cleared. Otherwise exactly bannerTitle, bannerSubtitle and
// bannerImage are rewritten in place.
func ApplyToBody(body map[string]any) error {
	data, ok := body["data"].(map[string]any)
	if !ok || !touchesBanner(data) {
		return nil
	}
	if err := canonicalizeKeys(data); err != nil {
		return fmt.Errorf("%s%w", ErrorPrefix, err)
	}

	if data[FieldTitle] == nil && data[FieldSubtitle] == nil && data[FieldImage] == nil {
		data[FieldTitle] = nil
		data[FieldSubtitle] = nil
		data[FieldImage] = nil
		return nil
	}

	payload, err := ValidatePayload(data)
	if err != nil {
		return fmt.Errorf("%s%w", ErrorPrefix, err)
	}

	var subtitle any
	if payload.Subtitle != nil {
		if s := SanitizeSubtitle(*payload.Subtitle); s != "" {
			subtitle = s
		}
	}

	data[FieldTitle] = SanitizeTitle(payload.Title)
	data[FieldSubtitle] = subtitle
	data[FieldImage] = payload.Image
	return nil
}

var bannerFields = []string{FieldTitle, FieldSubtitle, FieldImage}

// bannerField returns the canonical banner field that key matches, ignoring case
// the way encoding/json does when it fills struct fields.
func bannerField(key string) (string, bool) {
	for _, f := range bannerFields {
		if strings.EqualFold(key, f) {
			return f, true
		}
	}
	return "", false
}

func touchesBanner(data map[string]any) bool {
	for k := range data {
		if _, ok := bannerField(k); ok {
			return true
		}
	}
	return false
}

// canonicalizeKeys moves case variants such as "BannerTitle" to the
// canonical key. Two spellings of the same field are rejected and leave
// data untouched.
func canonicalizeKeys(data map[string]any) error {
	keys := make([]string, 0, len(data))
	for k := range data {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	renames := map[string]string{}
	seen := make(map[string]string, len(bannerFields))
	for _, k := range keys {
		f, ok := bannerField(k)
		if !ok {
			continue
		}
		if prev, dup := seen[f]; dup {
			return invalid(f, ErrDuplicate, "%s is sent more than once (%q, %q)", f, prev, k)
		}
		seen[f] = k
		if k != f {
			renames[k] = f
		}
	}

	for from, to := range renames {
		data[to] = data[from]
		delete(data, from)
	}
	return nil
}

// Middleware runs ApplyToBody on create/update requests and hands the
// sanitized body to the next handler. Bodies that are not JSON objects are
// passed through for the handler's own parser to reject.
func Middleware(logger *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		raw := c.Body()
		if len(bytes.TrimSpace(raw)) == 0 {
			return c.Next()
		}

		dec := json.NewDecoder(bytes.NewReader(raw))
		dec.UseNumber()
		var body map[string]any
		if err := dec.Decode(&body); err != nil {
			return c.Next()
		}
		if data, _ := body["data"].(map[string]any); !touchesBanner(data) {
			return c.Next()
		}

		if err := ApplyToBody(body); err != nil {
			metrics.BannerRejections.Inc()
			logger.Info("banner rejected",
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
				zap.Error(err),
			)
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
		}

		rewritten, err := json.Marshal(body)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
		}
		c.Request().SetBody(rewritten)
		return c.Next()
	}
}
