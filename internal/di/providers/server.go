package providers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/samber/do/v2"

	"github.com/listenupapp/movielens/internal/api"
	"github.com/listenupapp/movielens/internal/catalog"
	"github.com/listenupapp/movielens/internal/config"
	"github.com/listenupapp/movielens/internal/links"
	"github.com/listenupapp/movielens/internal/logger"
	"github.com/listenupapp/movielens/internal/ratings"
	"github.com/listenupapp/movielens/internal/tags"
)

// shutdownTimeout bounds the wait for in-flight requests on shutdown.
const shutdownTimeout = 30 * time.Second

// HTTPServerHandle wraps http.Server with Shutdownable.
type HTTPServerHandle struct {
	*http.Server
	handler *api.Server
}

// Shutdown implements do.Shutdownable.
func (h *HTTPServerHandle) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	defer h.handler.Close()
	return h.Server.Shutdown(ctx)
}

// ProvideHTTPServer provides the HTTP server and starts it in the background.
func ProvideHTTPServer(i do.Injector) (*HTTPServerHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)
	cacheHandle := do.MustInvoke[*MetadataCacheHandle](i)

	services := &api.Services{
		Catalog: do.MustInvoke[*catalog.Catalog](i),
		Tags:    do.MustInvoke[*tags.Analytics](i),
		Ratings: do.MustInvoke[*ratings.Engine](i),
		Links:   do.MustInvoke[*links.Links](i),
		Cache:   cacheHandle.Cache,
	}

	handler := api.NewServer(services, api.Options{}, log.Component("api"))

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		log.Info("HTTP server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("HTTP server error", "error", err)
		}
	}()

	return &HTTPServerHandle{Server: srv, handler: handler}, nil
}
