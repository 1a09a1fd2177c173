package providers

import (
	"github.com/samber/do/v2"

	"github.com/listenupapp/movielens/internal/catalog"
	"github.com/listenupapp/movielens/internal/config"
	"github.com/listenupapp/movielens/internal/links"
	"github.com/listenupapp/movielens/internal/logger"
	"github.com/listenupapp/movielens/internal/ratings"
	"github.com/listenupapp/movielens/internal/tags"
)

// ProvideCatalog provides the movie catalog.
func ProvideCatalog(i do.Injector) (*catalog.Catalog, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	c := catalog.New(catalog.Paths{
		Movies:  cfg.Dataset.MoviesPath(),
		Ratings: cfg.Dataset.RatingsPath(),
		Tags:    cfg.Dataset.TagsPath(),
	}, cfg.Dataset.Limit, log.Component("catalog"))

	log.Info("Movie catalog loaded", "movies", c.Len())

	return c, nil
}

// ProvideTagAnalytics provides the tag analytics.
func ProvideTagAnalytics(i do.Injector) (*tags.Analytics, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	a := tags.New(cfg.Dataset.TagsPath(), cfg.Dataset.Limit, log.Component("tags"))

	log.Info("Tag analytics loaded", "tags", a.Len())

	return a, nil
}

// ProvideRatingsEngine provides the ratings engine. Ratings load on first use.
func ProvideRatingsEngine(i do.Injector) (*ratings.Engine, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	return ratings.New(ratings.Paths{
		Ratings: cfg.Dataset.RatingsPath(),
		Movies:  cfg.Dataset.MoviesPath(),
	}, cfg.Dataset.Limit, log.Component("ratings")), nil
}

// ProvideLinks provides the external key map and enrichment rankings.
func ProvideLinks(i do.Injector) (*links.Links, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)
	cacheHandle := do.MustInvoke[*MetadataCacheHandle](i)

	l := links.New(links.Paths{
		Links:  cfg.Dataset.LinksPath(),
		Movies: cfg.Dataset.MoviesPath(),
	}, cfg.Dataset.Limit, cacheHandle.Cache, log.Component("links"))

	log.Info("Links loaded", "links", l.Len())

	return l, nil
}
