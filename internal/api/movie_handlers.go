package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/listenupapp/movielens/internal/catalog"
	domainerrors "github.com/listenupapp/movielens/internal/errors"
	"github.com/listenupapp/movielens/internal/result"
)

func (s *Server) registerMovieRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listMovies",
		Method:      http.MethodGet,
		Path:        "/api/v1/movies",
		Summary:     "List movies",
		Description: "Returns every loaded movie as id -> {title, genres, year}",
		Tags:        []string{"Movies"},
	}, s.handleListMovies)

	huma.Register(s.api, huma.Operation{
		OperationID: "getMovie",
		Method:      http.MethodGet,
		Path:        "/api/v1/movies/{id}",
		Summary:     "Get movie",
		Description: "Returns one loaded movie",
		Tags:        []string{"Movies"},
	}, s.handleGetMovie)

	huma.Register(s.api, huma.Operation{
		OperationID: "getMovieYearDistribution",
		Method:      http.MethodGet,
		Path:        "/api/v1/movies/distribution/years",
		Summary:     "Movies per release year",
		Description: "Counts movies per release year, most frequent year first. Titles without a year are left out.",
		Tags:        []string{"Movies"},
	}, s.handleMovieYears)

	huma.Register(s.api, huma.Operation{
		OperationID: "getMovieGenreDistribution",
		Method:      http.MethodGet,
		Path:        "/api/v1/movies/distribution/genres",
		Summary:     "Movies per genre",
		Description: "Counts movies per genre, most common first",
		Tags:        []string{"Movies"},
	}, s.handleMovieGenres)

	huma.Register(s.api, huma.Operation{
		OperationID: "getMoviesByGenreCount",
		Method:      http.MethodGet,
		Path:        "/api/v1/movies/top/genres",
		Summary:     "Movies with the most genres",
		Description: "Returns the top n titles by number of genres",
		Tags:        []string{"Movies"},
	}, s.handleTopByGenreCount)
}

func (s *Server) handleListMovies(_ context.Context, _ *struct{}) (*TableOutput, error) {
	return tableOutput(s.services.Catalog.Listing()), nil
}

// GetMovieInput contains parameters for getting a movie.
type GetMovieInput struct {
	ID int `path:"id" doc:"Movie ID"`
}

func (s *Server) handleGetMovie(_ context.Context, input *GetMovieInput) (*TableOutput, error) {
	movie, ok := s.services.Catalog.Movie(input.ID)
	if !ok {
		return nil, handlerError(domainerrors.NotFoundf("movie %d not found", input.ID))
	}

	listing := result.NewNested(catalog.ListingFields...)
	listing.Add(movie.ID, movie.Record())
	return tableOutput(listing), nil
}

func (s *Server) handleMovieYears(_ context.Context, _ *struct{}) (*TableOutput, error) {
	return tableOutput(s.services.Catalog.DistributionByYear()), nil
}

func (s *Server) handleMovieGenres(_ context.Context, _ *struct{}) (*TableOutput, error) {
	return tableOutput(s.services.Catalog.DistributionByGenre()), nil
}

func (s *Server) handleTopByGenreCount(_ context.Context, input *TopInput) (*TableOutput, error) {
	if err := s.validator.Validate(input); err != nil {
		return nil, handlerError(err)
	}
	return tableOutput(s.services.Catalog.TopByGenreCount(input.N)), nil
}
