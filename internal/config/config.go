// Package config loads the service configuration from built-in defaults, an
// optional YAML file and MOVIELENS_ environment variables, in that order.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// Config holds the application configuration.
type Config struct {
	App     AppConfig     `koanf:"app"`
	Logger  LoggerConfig  `koanf:"logger"`
	Dataset DatasetConfig `koanf:"dataset"`
	Cache   CacheConfig   `koanf:"cache"`
	Enrich  EnrichConfig  `koanf:"enrich"`
	Server  ServerConfig  `koanf:"server"`
}

// AppConfig holds application-level configuration.
type AppConfig struct {
	Environment string `koanf:"environment"`
}

// LoggerConfig holds logging configuration.
type LoggerConfig struct {
	Level string `koanf:"level"`
	// Format is json or pretty. Empty picks by environment.
	Format string `koanf:"format" validate:"omitempty,oneof=json pretty"`
}

// DatasetConfig locates the MovieLens CSV files. Relative file names are
// resolved against Dir.
type DatasetConfig struct {
	Dir     string `koanf:"dir" validate:"required"`
	Movies  string `koanf:"movies" validate:"required"`
	Ratings string `koanf:"ratings" validate:"required"`
	Tags    string `koanf:"tags" validate:"required"`
	Links   string `koanf:"links" validate:"required"`
	// Limit caps the data rows read from each file.
	Limit int `koanf:"limit" validate:"gte=0"`
}

// CacheConfig selects the IMDb metadata cache backend.
type CacheConfig struct {
	Backend string `koanf:"backend" validate:"oneof=json badger sqlite"`
	Path    string `koanf:"path" validate:"required"`
}

// EnrichConfig configures the IMDb page client.
type EnrichConfig struct {
	URLTemplate       string        `koanf:"url_template" validate:"required"`
	UserAgent         string        `koanf:"user_agent" validate:"required"`
	Timeout           time.Duration `koanf:"timeout" validate:"gt=0"`
	RequestsPerSecond float64       `koanf:"requests_per_second" validate:"gt=0"`
	Burst             int           `koanf:"burst" validate:"gte=1"`
}

// ServerConfig holds server configuration.
type ServerConfig struct {
	Port         string        `koanf:"port" validate:"required,numeric"`
	ReadTimeout  time.Duration `koanf:"read_timeout"`
	WriteTimeout time.Duration `koanf:"write_timeout"`
	IdleTimeout  time.Duration `koanf:"idle_timeout"`
}

// defaultConfig returns the built-in defaults. The file and the environment
// override them.
func defaultConfig() *Config {
	return &Config{
		App: AppConfig{
			Environment: "development",
		},
		Logger: LoggerConfig{
			Level: "info",
		},
		Dataset: DatasetConfig{
			Dir:     "data",
			Movies:  "movies.csv",
			Ratings: "ratings.csv",
			Tags:    "tags.csv",
			Links:   "links.csv",
			Limit:   1000,
		},
		Cache: CacheConfig{
			Backend: "json",
			Path:    "imdb_cache.json",
		},
		Enrich: EnrichConfig{
			URLTemplate:       "https://www.imdb.com/title/tt{key}/",
			UserAgent:         "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36",
			Timeout:           3 * time.Second,
			RequestsPerSecond: 1,
			Burst:             3,
		},
		Server: ServerConfig{
			Port:         "8080",
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 60 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
	}
}

// Validate checks that all required configuration is present and valid.
func (c *Config) Validate() error {
	var errs []error

	validEnvs := map[string]bool{
		"development": true,
		"staging":     true,
		"production":  true,
	}
	if !validEnvs[c.App.Environment] {
		errs = append(errs, fmt.Errorf("invalid environment %q: must be one of development, staging, production", c.App.Environment))
	}

	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[strings.ToLower(c.Logger.Level)] {
		errs = append(errs, fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", c.Logger.Level))
	}

	if !strings.Contains(c.Enrich.URLTemplate, "{key}") {
		errs = append(errs, fmt.Errorf("enrich url template %q has no {key} placeholder", c.Enrich.URLTemplate))
	}

	if err := validate.Struct(c); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) {
			for _, fe := range fieldErrs {
				errs = append(errs, fmt.Errorf("%s: failed %q check", fe.Namespace(), fe.Tag()))
			}
		} else {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Path resolves a dataset file name against the dataset directory.
func (d DatasetConfig) Path(name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(d.Dir, name)
}

// MoviesPath returns the resolved movies file path.
func (d DatasetConfig) MoviesPath() string { return d.Path(d.Movies) }

// RatingsPath returns the resolved ratings file path.
func (d DatasetConfig) RatingsPath() string { return d.Path(d.Ratings) }

// TagsPath returns the resolved tags file path.
func (d DatasetConfig) TagsPath() string { return d.Path(d.Tags) }

// LinksPath returns the resolved links file path.
func (d DatasetConfig) LinksPath() string { return d.Path(d.Links) }

// expandPath expands ~ and makes the path absolute.
func expandPath(path string) (string, error) {
	if path == "" {
		return "", nil
	}

	if strings.HasPrefix(path, "~/") {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		path = filepath.Join(homeDir, path[2:])
	}

	if !filepath.IsAbs(path) {
		absPath, err := filepath.Abs(path)
		if err != nil {
			return "", fmt.Errorf("failed to get absolute path: %w", err)
		}
		path = absPath
	}

	return filepath.Clean(path), nil
}

// expandPaths makes the dataset directory and cache path absolute.
func (c *Config) expandPaths() error {
	var err error
	if c.Dataset.Dir, err = expandPath(c.Dataset.Dir); err != nil {
		return fmt.Errorf("dataset dir: %w", err)
	}
	if c.Cache.Path, err = expandPath(c.Cache.Path); err != nil {
		return fmt.Errorf("cache path: %w", err)
	}
	return nil
}
