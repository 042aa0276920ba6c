package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func envOf(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func TestFromEnv_Defaults(t *testing.T) {
	cfg, err := FromEnv(envOf(map[string]string{
		"DATABASE_URL": "postgres://localhost/cms",
		"JWT_SECRET":   "0123456789abcdef",
	}))
	require.NoError(t, err)

	assert.Equal(t, DefaultAddr, cfg.Addr)
	assert.Equal(t, DefaultPublicURL, cfg.PublicURL)
	assert.Equal(t, DefaultCacheTTL, cfg.CacheTTL)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, DefaultUploadDir, cfg.UploadDir)
	assert.Empty(t, cfg.RedisURL)
	assert.Empty(t, cfg.AdminEmail)
}

func TestFromEnv_Overrides(t *testing.T) {
	cfg, err := FromEnv(envOf(map[string]string{
		"ADDR":           ":8080",
		"DATABASE_URL":   "postgres://localhost/cms",
		"JWT_SECRET":     "0123456789abcdef",
		"STRAPI_URL":     "https://cms.example.com",
		"REDIS_URL":      "redis://localhost:6379/0",
		"CACHE_TTL":      "30s",
		"LOG_LEVEL":      "debug",
		"UPLOAD_DIR":     "/var/lib/cms/uploads",
		"ADMIN_EMAIL":    "admin@sona.edu",
		"ADMIN_PASSWORD": "change-me-please",
	}))
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, "https://cms.example.com", cfg.PublicURL)
	assert.Equal(t, 30*time.Second, cfg.CacheTTL)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "/var/lib/cms/uploads", cfg.UploadDir)
	assert.Equal(t, "admin@sona.edu", cfg.AdminEmail)
}

func TestFromEnv_Invalid(t *testing.T) {
	cases := map[string]map[string]string{
		"missing database": {"JWT_SECRET": "0123456789abcdef"},
		"short secret":     {"DATABASE_URL": "postgres://x", "JWT_SECRET": "short"},
		"bad level":        {"DATABASE_URL": "postgres://x", "JWT_SECRET": "0123456789abcdef", "LOG_LEVEL": "loud"},
		"bad ttl":          {"DATABASE_URL": "postgres://x", "JWT_SECRET": "0123456789abcdef", "CACHE_TTL": "soon"},
		"admin w/o pass":   {"DATABASE_URL": "postgres://x", "JWT_SECRET": "0123456789abcdef", "ADMIN_EMAIL": "a@b.co"},
	}
	for name, env := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := FromEnv(envOf(env))
			assert.Error(t, err)
		})
	}
}
