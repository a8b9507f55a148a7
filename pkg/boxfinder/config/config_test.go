package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "boxfinder.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, StoreSQLite, cfg.Store)
	assert.Equal(t, 300*time.Millisecond, cfg.DebounceQuiet)
	assert.Equal(t, 5*time.Second, cfg.ExitDelay)
	assert.Equal(t, 2, cfg.MaxRetries)
	assert.Empty(t, cfg.AdminToken)
}

func TestLoadYAMLThenEnv(t *testing.T) {
	path := writeConfig(t, `
httpAddr: ":9090"
store: mongo
mongoUri: mongodb://localhost:27017
exitDelay: 2s
placesApiKey: from-file
`)
	t.Setenv("BOXFINDER_HTTP_ADDR", ":7070")
	t.Setenv("BOXFINDER_MONGO_DATABASE", "directory")
	t.Setenv("BOXFINDER_SESSION_IDLE_TIMEOUT", "10m")
	t.Setenv("BOXFINDER_ADMIN_TOKEN", "admin-secret")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":7070", cfg.HTTPAddr)
	assert.Equal(t, StoreMongo, cfg.Store)
	assert.Equal(t, "mongodb://localhost:27017", cfg.MongoURI)
	assert.Equal(t, "directory", cfg.MongoDatabase)
	assert.Equal(t, 2*time.Second, cfg.ExitDelay)
	assert.Equal(t, 10*time.Minute, cfg.SessionIdleTimeout)
	assert.Equal(t, "from-file", cfg.PlacesAPIKey)
	assert.Equal(t, "admin-secret", cfg.AdminToken)
}

func TestGoogleMapsKeyFallback(t *testing.T) {
	t.Setenv("GOOGLE_MAPS_API_KEY", "legacy-key")
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "legacy-key", cfg.PlacesAPIKey)
}

func TestLoadRejectsBadFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = Load(writeConfig(t, "store: [not, a, string"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"defaults", func(*Config) {}, ""},
		{"unknown store", func(c *Config) { c.Store = "postgres" }, "invalid store"},
		{"mongo without uri", func(c *Config) { c.Store = StoreMongo }, "mongoUri is required"},
		{"firestore without project", func(c *Config) { c.Store = StoreFirestore }, "firestoreProject is required"},
		{"store is case-insensitive", func(c *Config) { c.Store = " SQLite " }, ""},
		{"zero exit delay", func(c *Config) { c.ExitDelay = 0 }, "exitDelay must be positive"},
		{"retries disabled", func(c *Config) { c.MaxRetries = 0 }, ""},
		{"negative retries", func(c *Config) { c.MaxRetries = -1 }, "maxRetries must not be negative"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestSearchRetries(t *testing.T) {
	cfg := Default()
	assert.Equal(t, 2, cfg.SearchRetries())

	cfg.MaxRetries = 0
	assert.Equal(t, -1, cfg.SearchRetries(), "zero must switch retries off")

	cfg.MaxRetries = 5
	assert.Equal(t, 5, cfg.SearchRetries())
}
