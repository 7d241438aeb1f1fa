// README: Config loader tests (defaults, TOML overlay, env precedence, validation).
package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("GEMINI_API_KEY", "test-key")
	t.Setenv("VOYAGER_FIREBASE_PROJECT_ID", "voyager-test")
	t.Setenv("UNSPLASH_ACCESS_KEY", "unsplash-key")
}

func TestLoadDefaults(t *testing.T) {
	setRequired(t)
	t.Setenv("VOYAGER_CONFIG_FILE", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.HTTP.Addr)
	assert.Equal(t, "INR", cfg.Currency)
	assert.Equal(t, "postgres", cfg.TripStore)
	assert.Equal(t, 45*time.Second, cfg.AI.AttemptTimeout)
	assert.Equal(t, 2, cfg.AI.MaxAttempts)
	assert.Equal(t, "unsplash", cfg.Images.Provider)
}

func TestLoadFileThenEnv(t *testing.T) {
	setRequired(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "voyager.toml")
	content := `
currency = "EUR"

[http]
addr = ":9000"

[ai]
max_attempts = 3
attempt_timeout = "30s"

[images]
provider = "places"
maps_key = "maps-from-file"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	t.Setenv("VOYAGER_CONFIG_FILE", path)
	t.Setenv("VOYAGER_HTTP_ADDR", ":7000")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "EUR", cfg.Currency)
	assert.Equal(t, ":7000", cfg.HTTP.Addr, "env overrides file")
	assert.Equal(t, 3, cfg.AI.MaxAttempts)
	assert.Equal(t, 30*time.Second, cfg.AI.AttemptTimeout)
	assert.Equal(t, "places", cfg.Images.Provider)
	assert.Equal(t, "maps-from-file", cfg.Images.MapsKey)
}

func TestLoadMissingGeminiKey(t *testing.T) {
	setRequired(t)
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("VOYAGER_CONFIG_FILE", "")

	_, err := Load()
	assert.ErrorContains(t, err, "GEMINI_API_KEY")
}

func TestValidate(t *testing.T) {
	base := defaults()
	base.AI.GeminiKey = "k"
	base.Firebase.ProjectID = "p"
	base.Images.UnsplashKey = "u"
	require.NoError(t, base.Validate())

	cases := map[string]func(c *Config){
		"unknown store":    func(c *Config) { c.TripStore = "mongo" },
		"unknown provider": func(c *Config) { c.Images.Provider = "bing" },
		"places no key":    func(c *Config) { c.Images.Provider = "places" },
		"zero attempts":    func(c *Config) { c.AI.MaxAttempts = 0 },
	}
	for name, mutate := range cases {
		c := base
		mutate(&c)
		assert.Error(t, c.Validate(), name)
	}
}

func TestEnvHelpersIgnoreGarbage(t *testing.T) {
	t.Setenv("VOYAGER_X_INT", "abc")
	t.Setenv("VOYAGER_X_DUR", "soon")
	t.Setenv("VOYAGER_X_BOOL", "maybe")
	assert.Equal(t, 4, envOrDefaultInt("VOYAGER_X_INT", 4))
	assert.Equal(t, time.Second, envOrDefaultDuration("VOYAGER_X_DUR", time.Second))
	assert.True(t, envOrDefaultBool("VOYAGER_X_BOOL", true))
}
