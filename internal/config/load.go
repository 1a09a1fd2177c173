package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

const (
	// PathEnvVar overrides the config file location.
	PathEnvVar = "CONFIG_PATH"

	// EnvPrefix marks the environment variables read into the config.
	EnvPrefix = "MOVIELENS_"
)

// DefaultPaths lists the config files searched when CONFIG_PATH is unset.
// The first one found is used.
var DefaultPaths = []string{
	"config.yaml",
	"config.yml",
}

// Load builds the configuration from three layers, later ones winning:
//  1. built-in defaults
//  2. the YAML file named by CONFIG_PATH, or the first of DefaultPaths found
//  3. MOVIELENS_ environment variables
//
// Environment names map to keys by dropping the prefix, lowercasing and
// splitting the section at the first underscore:
// MOVIELENS_ENRICH_REQUESTS_PER_SECOND sets enrich.requests_per_second.
func Load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if path, err := findConfigFile(); err != nil {
		return nil, err
	} else if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.expandPaths(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// findConfigFile returns the config file to load, or "" when there is none.
// A CONFIG_PATH that does not exist is an error.
func findConfigFile() (string, error) {
	if path := os.Getenv(PathEnvVar); path != "" {
		if _, err := os.Stat(path); err != nil {
			return "", fmt.Errorf("config file %s: %w", path, err)
		}
		return path, nil
	}

	for _, path := range DefaultPaths {
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}
	return "", nil
}

// envKey maps MOVIELENS_SECTION_SOME_KEY to section.some_key. Variables
// without a section are skipped.
func envKey(name string) string {
	name = strings.ToLower(strings.TrimPrefix(name, EnvPrefix))
	section, key, ok := strings.Cut(name, "_")
	if !ok || section == "" || key == "" {
		return ""
	}
	return section + "." + key
}
