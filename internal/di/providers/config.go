// Package providers contains dependency injection providers for the movielens
// service.
package providers

import (
	"fmt"

	"github.com/samber/do/v2"

	"github.com/listenupapp/movielens/internal/config"
	"github.com/listenupapp/movielens/internal/logger"
)

// ProvideConfig provides the application configuration.
func ProvideConfig(_ do.Injector) (*config.Config, error) {
	return config.Load()
}

// ProvideLogger provides the structured logger.
func ProvideLogger(i do.Injector) (*logger.Logger, error) {
	cfg := do.MustInvoke[*config.Config](i)

	level, err := logger.ParseLevel(cfg.Logger.Level)
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}

	log := logger.New(logger.Config{
		Level:       level,
		Format:      cfg.Logger.Format,
		AddSource:   cfg.App.Environment == "development",
		Environment: cfg.App.Environment,
	})

	log.Info("Starting movielens server",
		"environment", cfg.App.Environment,
		"log_level", cfg.Logger.Level,
		"dataset_dir", cfg.Dataset.Dir,
		"row_limit", cfg.Dataset.Limit,
		"cache_backend", cfg.Cache.Backend,
		"cache_path", cfg.Cache.Path,
	)

	return log, nil
}
