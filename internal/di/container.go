// Package di provides dependency injection configuration for the movielens
// service.
package di

import (
	"github.com/samber/do/v2"

	"github.com/listenupapp/movielens/internal/catalog"
	"github.com/listenupapp/movielens/internal/config"
	"github.com/listenupapp/movielens/internal/di/providers"
	"github.com/listenupapp/movielens/internal/links"
	"github.com/listenupapp/movielens/internal/logger"
	"github.com/listenupapp/movielens/internal/ratings"
	"github.com/listenupapp/movielens/internal/tags"
)

// NewContainer creates and configures the DI container with all providers.
func NewContainer() *do.RootScope {
	injector := do.New()

	// Core infrastructure
	do.Provide(injector, providers.ProvideConfig)
	do.Provide(injector, providers.ProvideLogger)

	// Metadata layer
	do.Provide(injector, providers.ProvideIMDBClient)
	do.Provide(injector, providers.ProvideMetadataCache)

	// Analytics
	do.Provide(injector, providers.ProvideCatalog)
	do.Provide(injector, providers.ProvideTagAnalytics)
	do.Provide(injector, providers.ProvideRatingsEngine)
	do.Provide(injector, providers.ProvideLinks)

	// Server
	do.Provide(injector, providers.ProvideHTTPServer)

	return injector
}

// Bootstrap initializes all services. Provider errors, such as an invalid
// configuration, are returned instead of panicking.
func Bootstrap(injector *do.RootScope) error {
	if _, err := do.Invoke[*config.Config](injector); err != nil {
		return err
	}
	if _, err := do.Invoke[*logger.Logger](injector); err != nil {
		return err
	}

	_ = do.MustInvoke[*providers.IMDBClientHandle](injector)
	if _, err := do.Invoke[*providers.MetadataCacheHandle](injector); err != nil {
		return err
	}

	_ = do.MustInvoke[*catalog.Catalog](injector)
	_ = do.MustInvoke[*tags.Analytics](injector)
	_ = do.MustInvoke[*ratings.Engine](injector)
	_ = do.MustInvoke[*links.Links](injector)

	if _, err := do.Invoke[*providers.HTTPServerHandle](injector); err != nil {
		return err
	}

	return nil
}
