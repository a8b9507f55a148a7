// Package config loads service settings from defaults, an optional .env
// file, an optional YAML file and BOXFINDER_* environment variables, in
// that order of precedence (later wins).
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

const envPrefix = "boxfinder"

// Store backends
const (
	StoreSQLite    = "sqlite"
	StoreMongo     = "mongo"
	StoreFirestore = "firestore"
)

// Config holds every service setting
type Config struct {
	HTTPAddr        string        `yaml:"httpAddr"        envconfig:"HTTP_ADDR"`
	LogLevel        string        `yaml:"logLevel"        split_words:"true"`
	ShutdownTimeout time.Duration `yaml:"shutdownTimeout" split_words:"true"`
	MetricsEnabled  bool          `yaml:"metricsEnabled"  split_words:"true"`

	Store                string `yaml:"store"`
	SQLitePath           string `yaml:"sqlitePath"           envconfig:"SQLITE_PATH"`
	MongoURI             string `yaml:"mongoUri"             envconfig:"MONGO_URI"`
	MongoDatabase        string `yaml:"mongoDatabase"        split_words:"true"`
	FirestoreProject     string `yaml:"firestoreProject"     split_words:"true"`
	FirestoreCredentials string `yaml:"firestoreCredentials" split_words:"true"`

	PlacesAPIKey   string        `yaml:"placesApiKey"   envconfig:"PLACES_API_KEY"`
	PlacesBaseURL  string        `yaml:"placesBaseUrl"  envconfig:"PLACES_BASE_URL"`
	PlacesCacheTTL time.Duration `yaml:"placesCacheTtl" envconfig:"PLACES_CACHE_TTL"`

	SessionSecret      string        `yaml:"sessionSecret"      split_words:"true"`
	SessionTTL         time.Duration `yaml:"sessionTtl"         envconfig:"SESSION_TTL"`
	SessionIdleTimeout time.Duration `yaml:"sessionIdleTimeout" split_words:"true"`
	SweepInterval      time.Duration `yaml:"sweepInterval"      split_words:"true"`

	// AdminToken guards import and export. Empty disables those routes.
	AdminToken string `yaml:"adminToken" split_words:"true"`

	DebounceQuiet time.Duration `yaml:"debounceQuiet" split_words:"true"`
	ExitDelay     time.Duration `yaml:"exitDelay"     split_words:"true"`
	RetryBase     time.Duration `yaml:"retryBase"     split_words:"true"`

	// MaxRetries caps automatic retries of a failed search. 0 disables them.
	MaxRetries int `yaml:"maxRetries" split_words:"true"`
}

// Default returns the built-in settings
func Default() *Config {
	return &Config{
		HTTPAddr:           ":8080",
		LogLevel:           "info",
		ShutdownTimeout:    10 * time.Second,
		MetricsEnabled:     true,
		Store:              StoreSQLite,
		SQLitePath:         "boxfinder.db",
		MongoDatabase:      "boxfinder",
		PlacesCacheTTL:     time.Hour,
		SessionTTL:         24 * time.Hour,
		SessionIdleTimeout: 30 * time.Minute,
		SweepInterval:      time.Minute,
		DebounceQuiet:      300 * time.Millisecond,
		ExitDelay:          5 * time.Second,
		RetryBase:          time.Second,
		MaxRetries:         2,
	}
}

// Load builds the configuration. configFile may be empty.
func Load(configFile string) (*Config, error) {
	cfg := Default()

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("error reading .env file: %w", err)
	}

	if configFile != "" {
		buf, err := os.ReadFile(configFile)
		if err != nil {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		if err := yaml.Unmarshal(buf, cfg); err != nil {
			return nil, fmt.Errorf("error parsing config file: %w", err)
		}
	}

	if err := envconfig.Process(envPrefix, cfg); err != nil {
		return nil, fmt.Errorf("error processing environment: %w", err)
	}

	// The key name used by the original web client
	if cfg.PlacesAPIKey == "" {
		cfg.PlacesAPIKey = os.Getenv("GOOGLE_MAPS_API_KEY")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the settings for consistency
func (c *Config) Validate() error {
	var errs []error

	c.Store = strings.ToLower(strings.TrimSpace(c.Store))
	switch c.Store {
	case StoreSQLite:
		if c.SQLitePath == "" {
			errs = append(errs, errors.New("sqlitePath is required for the sqlite store"))
		}
	case StoreMongo:
		if c.MongoURI == "" {
			errs = append(errs, errors.New("mongoUri is required for the mongo store"))
		}
		if c.MongoDatabase == "" {
			errs = append(errs, errors.New("mongoDatabase is required for the mongo store"))
		}
	case StoreFirestore:
		if c.FirestoreProject == "" {
			errs = append(errs, errors.New("firestoreProject is required for the firestore store"))
		}
	default:
		errs = append(errs, fmt.Errorf("invalid store: %q (must be 'sqlite', 'mongo', or 'firestore')", c.Store))
	}

	if c.HTTPAddr == "" {
		errs = append(errs, errors.New("httpAddr is required"))
	}

	if c.MaxRetries < 0 {
		errs = append(errs, errors.New("maxRetries must not be negative"))
	}

	for name, d := range map[string]time.Duration{
		"sessionTtl":         c.SessionTTL,
		"sessionIdleTimeout": c.SessionIdleTimeout,
		"sweepInterval":      c.SweepInterval,
		"debounceQuiet":      c.DebounceQuiet,
		"exitDelay":          c.ExitDelay,
		"retryBase":          c.RetryBase,
	} {
		if d <= 0 {
			errs = append(errs, fmt.Errorf("%s must be positive", name))
		}
	}

	return errors.Join(errs...)
}

// SearchRetries returns MaxRetries in the form workflow options take, where
// zero means the default and a negative count disables retries.
func (c *Config) SearchRetries() int {
	if c.MaxRetries == 0 {
		return -1
	}
	return c.MaxRetries
}
