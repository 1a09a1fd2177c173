package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/listenupapp/movielens/internal/metadata"
)

func (s *Server) registerLinkRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listLinkedMovieIDs",
		Method:      http.MethodGet,
		Path:        "/api/v1/links/ids",
		Summary:     "Linked movie ids",
		Description: "Returns the first n movie ids of the links file",
		Tags:        []string{"Links"},
	}, s.handleLinkIDs)

	huma.Register(s.api, huma.Operation{
		OperationID: "getIMDBMetadata",
		Method:      http.MethodGet,
		Path:        "/api/v1/links/imdb",
		Summary:     "IMDb metadata",
		Description: "Enriches the listed movies through the metadata cache and returns one row per linked movie, " +
			"highest id first. Uncached keys are fetched from IMDb.",
		Tags:        []string{"Links"},
		Middlewares: huma.Middlewares{s.rateLimitByClient},
	}, s.handleIMDB)

	huma.Register(s.api, huma.Operation{
		OperationID: "getTopDirectors",
		Method:      http.MethodGet,
		Path:        "/api/v1/links/top/directors",
		Summary:     "Most prolific directors",
		Description: "Counts cached movies per director",
		Tags:        []string{"Links"},
	}, s.handleTopDirectors)

	huma.Register(s.api, huma.Operation{
		OperationID: "getMostExpensiveMovies",
		Method:      http.MethodGet,
		Path:        "/api/v1/links/top/budget",
		Summary:     "Most expensive movies",
		Description: "Ranks cached movies with a known budget by budget",
		Tags:        []string{"Links"},
	}, s.handleMostExpensive)

	huma.Register(s.api, huma.Operation{
		OperationID: "getMostProfitableMovies",
		Method:      http.MethodGet,
		Path:        "/api/v1/links/top/profit",
		Summary:     "Most profitable movies",
		Description: "Ranks cached movies with budget and gross by gross minus budget",
		Tags:        []string{"Links"},
	}, s.handleMostProfitable)

	huma.Register(s.api, huma.Operation{
		OperationID: "getLongestMovies",
		Method:      http.MethodGet,
		Path:        "/api/v1/links/top/runtime",
		Summary:     "Longest movies",
		Description: "Ranks cached movies with a known runtime by minutes",
		Tags:        []string{"Links"},
	}, s.handleLongestMovies)

	huma.Register(s.api, huma.Operation{
		OperationID: "getTopCostPerMinute",
		Method:      http.MethodGet,
		Path:        "/api/v1/links/top/cost-per-minute",
		Summary:     "Highest cost per minute",
		Description: "Ranks cached movies with budget and runtime by budget per minute",
		Tags:        []string{"Links"},
	}, s.handleTopCostPerMinute)
}

func (s *Server) handleLinkIDs(_ context.Context, input *TopInput) (*TableOutput, error) {
	if err := s.validator.Validate(input); err != nil {
		return nil, handlerError(err)
	}
	return tableOutput(s.services.Links.IDs(input.N)), nil
}

// IMDBInput contains parameters for the metadata rows.
type IMDBInput struct {
	IDs    []string `query:"ids" validate:"max=100,dive,required" doc:"Movie ids; defaults to the first n linked ids"`
	N      int      `query:"n" default:"10" validate:"gte=0,lte=100" doc:"Number of linked ids used when ids is empty"`
	Fields []string `query:"fields" doc:"Metadata fields: Director, Budget, Cumulative Worldwide Gross, Runtime. Defaults to all."`
}

func (s *Server) handleIMDB(ctx context.Context, input *IMDBInput) (*TableOutput, error) {
	if err := s.validator.Validate(input); err != nil {
		return nil, handlerError(err)
	}

	ids := input.IDs
	if len(ids) == 0 {
		ids = s.services.Links.IDs(input.N)
	}
	fields := input.Fields
	if len(fields) == 0 {
		fields = metadata.Fields
	}

	return tableOutput(s.services.Links.IMDB(ctx, ids, fields)), nil
}

func (s *Server) handleTopDirectors(_ context.Context, input *TopInput) (*TableOutput, error) {
	if err := s.validator.Validate(input); err != nil {
		return nil, handlerError(err)
	}
	return tableOutput(s.services.Links.TopDirectors(input.N)), nil
}

func (s *Server) handleMostExpensive(_ context.Context, input *TopInput) (*TableOutput, error) {
	if err := s.validator.Validate(input); err != nil {
		return nil, handlerError(err)
	}
	return tableOutput(s.services.Links.MostExpensive(input.N)), nil
}

func (s *Server) handleMostProfitable(_ context.Context, input *TopInput) (*TableOutput, error) {
	if err := s.validator.Validate(input); err != nil {
		return nil, handlerError(err)
	}
	return tableOutput(s.services.Links.MostProfitable(input.N)), nil
}

func (s *Server) handleLongestMovies(_ context.Context, input *TopInput) (*TableOutput, error) {
	if err := s.validator.Validate(input); err != nil {
		return nil, handlerError(err)
	}
	return tableOutput(s.services.Links.Longest(input.N)), nil
}

func (s *Server) handleTopCostPerMinute(_ context.Context, input *TopInput) (*TableOutput, error) {
	if err := s.validator.Validate(input); err != nil {
		return nil, handlerError(err)
	}
	return tableOutput(s.services.Links.TopCostPerMinute(input.N)), nil
}
