package providers

import (
	"context"
	"fmt"

	"github.com/samber/do/v2"

	"github.com/listenupapp/movielens/internal/config"
	"github.com/listenupapp/movielens/internal/logger"
	"github.com/listenupapp/movielens/internal/metadata"
	"github.com/listenupapp/movielens/internal/metadata/imdb"
)

// IMDBClientHandle wraps the IMDb client with shutdown capability.
type IMDBClientHandle struct {
	*imdb.Client
}

// Shutdown implements do.Shutdownable.
func (h *IMDBClientHandle) Shutdown() error {
	h.Client.Close()
	return nil
}

// ProvideIMDBClient provides the IMDb title page client.
func ProvideIMDBClient(i do.Injector) (*IMDBClientHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	client := imdb.New(imdb.Options{
		URLTemplate:       cfg.Enrich.URLTemplate,
		UserAgent:         cfg.Enrich.UserAgent,
		Timeout:           cfg.Enrich.Timeout,
		RequestsPerSecond: cfg.Enrich.RequestsPerSecond,
		Burst:             cfg.Enrich.Burst,
	}, log.Component("imdb"))

	log.Info("IMDb client initialized",
		"timeout", cfg.Enrich.Timeout,
		"requests_per_second", cfg.Enrich.RequestsPerSecond,
	)

	return &IMDBClientHandle{Client: client}, nil
}

// MetadataCacheHandle wraps the metadata cache with shutdown capability.
type MetadataCacheHandle struct {
	*metadata.Cache
}

// Shutdown implements do.Shutdownable.
func (h *MetadataCacheHandle) Shutdown() error {
	return h.Cache.Close()
}

// ProvideMetadataCache opens the configured cache backend and loads it.
func ProvideMetadataCache(i do.Injector) (*MetadataCacheHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)
	clientHandle := do.MustInvoke[*IMDBClientHandle](i)

	cacheLog := log.Component("metadata")

	store, err := metadata.OpenStore(cfg.Cache.Backend, cfg.Cache.Path, cacheLog)
	if err != nil {
		return nil, fmt.Errorf("open metadata store: %w", err)
	}

	cache := metadata.NewCache(context.Background(), store, clientHandle.Client, cacheLog)

	log.Info("Metadata cache initialized",
		"backend", cfg.Cache.Backend,
		"path", cfg.Cache.Path,
		"entries", cache.Len(),
	)

	return &MetadataCacheHandle{Cache: cache}, nil
}
