// Package seed prints the commands that create the sample institutions
// against a running server.
package seed

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed institutions.yaml
var defaultInstitutions []byte

// MediaPlaceholder stands in for the id of an uploaded banner image.
const MediaPlaceholder = "<MEDIA_ID>"

var ErrUnavailable = errors.New("server not available")

// Institution is one sample entry.
type Institution struct {
	Name            string `yaml:"name"`
	BannerTitle     string `yaml:"bannerTitle"`
	BannerSubtitle  string `yaml:"bannerSubtitle"`
	BannerImagePath string `yaml:"bannerImagePath"`
}

// Parse reads a YAML list of institutions.
func Parse(data []byte) ([]Institution, error) {
	var out []Institution
	if err := yaml.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("parse institutions: %w", err)
	}
	for i, inst := range out {
		if inst.Name == "" || inst.BannerTitle == "" {
			return nil, fmt.Errorf("institution %d: name and bannerTitle are required", i+1)
		}
	}
	return out, nil
}

// Defaults returns the embedded sample institutions.
func Defaults() []Institution {
	out, err := Parse(defaultInstitutions)
	if err != nil {
		panic(err)
	}
	return out
}

// CheckHealth calls GET {baseURL}/api/health and fails unless it answers 2xx.
func CheckHealth(ctx context.Context, client *http.Client, baseURL string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, strings.TrimRight(baseURL, "/")+"/api/health", nil)
	if err != nil {
		return fmt.Errorf("%w at %s: %v", ErrUnavailable, baseURL, err)
	}
	res, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("%w at %s: %v", ErrUnavailable, baseURL, err)
	}
	defer res.Body.Close()
	_, _ = io.Copy(io.Discard, res.Body)

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return fmt.Errorf("%w at %s: health check returned %d", ErrUnavailable, baseURL, res.StatusCode)
	}
	return nil
}

// Run checks the server first and only then writes the instructions, so
// nothing is printed for a server that is not reachable.
func Run(ctx context.Context, out io.Writer, client *http.Client, baseURL string, items []Institution) error {
	if err := CheckHealth(ctx, client, baseURL); err != nil {
		return err
	}
	return WriteInstructions(out, baseURL, items)
}

// WriteInstructions prints the upload and create commands for items.
func WriteInstructions(w io.Writer, baseURL string, items []Institution) error {
	base := strings.TrimRight(baseURL, "/")
	var b strings.Builder

	fmt.Fprintf(&b, "Server is running at %s\n", base)
	b.WriteString("To complete banner seeding:\n")
	b.WriteString("1. Log in with POST /api/admin/login and export the returned jwt as TOKEN\n")
	b.WriteString("2. Upload each banner image and note the returned media id and url\n")
	b.WriteString("3. Create each institution with the commands below, replacing " + MediaPlaceholder + " and <MEDIA_URL>\n")

	for i, inst := range items {
		fmt.Fprintf(&b, "\n# Institution %d: %s\n", i+1, inst.Name)
		if inst.BannerImagePath != "" {
			fmt.Fprintf(&b, "curl -X POST %s/api/upload \\\n  -H \"Authorization: Bearer $TOKEN\" \\\n  -F \"files=@%s\"\n\n", base, inst.BannerImagePath)
		}
		fmt.Fprintf(&b, `curl -X POST %s/api/institutions \
  -H "Content-Type: application/json" \
  -H "Authorization: Bearer $TOKEN" \
  -d '{
    "data": {
      "name": %s,
      "bannerTitle": %s,
      "bannerSubtitle": %s,
      "bannerImage": {"id": %s, "url": "<MEDIA_URL>", "mime": "image/jpeg"}
    }
  }'
`, base, quote(inst.Name), quote(inst.BannerTitle), quote(inst.BannerSubtitle), MediaPlaceholder)
	}

	b.WriteString("\nTip: the media id and url are in the response of POST /api/upload.\n")
	b.WriteString("Seed instructions complete.\n")

	_, err := io.WriteString(w, b.String())
	return err
}

// quote renders s as a JSON string that survives single-quoted shell.
func quote(s string) string {
	b, _ := json.Marshal(s)
	return strings.ReplaceAll(string(b), "'", `'\''`)
}
