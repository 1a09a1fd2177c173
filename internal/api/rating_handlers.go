package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/listenupapp/movielens/internal/stats"
)

func (s *Server) registerRatingRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "getRatingYearDistribution",
		Method:      http.MethodGet,
		Path:        "/api/v1/ratings/distribution/years",
		Summary:     "Ratings per year",
		Description: "Counts ratings per calendar year of submission, ordered by year",
		Tags:        []string{"Ratings"},
	}, s.handleRatingYears)

	huma.Register(s.api, huma.Operation{
		OperationID: "getRatingScoreDistribution",
		Method:      http.MethodGet,
		Path:        "/api/v1/ratings/distribution/scores",
		Summary:     "Ratings per score",
		Description: "Counts ratings per score, ordered by score",
		Tags:        []string{"Ratings"},
	}, s.handleRatingScores)

	huma.Register(s.api, huma.Operation{
		OperationID: "getMoviesByRatingCount",
		Method:      http.MethodGet,
		Path:        "/api/v1/ratings/movies/top/count",
		Summary:     "Most rated movies",
		Description: "Returns the top n movie titles by number of ratings",
		Tags:        []string{"Ratings"},
	}, s.handleMoviesByCount)

	huma.Register(s.api, huma.Operation{
		OperationID: "getMoviesByRatingMetric",
		Method:      http.MethodGet,
		Path:        "/api/v1/ratings/movies/top/metric",
		Summary:     "Best rated movies",
		Description: "Returns the top n movie titles by the rounded mean, median or variance of their ratings",
		Tags:        []string{"Ratings"},
	}, s.handleMoviesByMetric)

	huma.Register(s.api, huma.Operation{
		OperationID: "getMoviesByRatingVariance",
		Method:      http.MethodGet,
		Path:        "/api/v1/ratings/movies/top/variance",
		Summary:     "Most controversial movies",
		Description: "Returns the top n movie titles by rating variance",
		Tags:        []string{"Ratings"},
	}, s.handleMoviesByVariance)

	huma.Register(s.api, huma.Operation{
		OperationID: "getUserRatingCountDistribution",
		Method:      http.MethodGet,
		Path:        "/api/v1/ratings/users/distribution/count",
		Summary:     "Raters per rating count",
		Description: "Maps k to the number of raters with exactly k ratings",
		Tags:        []string{"Ratings"},
	}, s.handleUserCountDistribution)

	huma.Register(s.api, huma.Operation{
		OperationID: "getUserRatingMetricDistribution",
		Method:      http.MethodGet,
		Path:        "/api/v1/ratings/users/distribution/metric",
		Summary:     "Raters per metric value",
		Description: "Maps each rounded metric value to the number of raters having it",
		Tags:        []string{"Ratings"},
	}, s.handleUserMetricDistribution)

	huma.Register(s.api, huma.Operation{
		OperationID: "getUsersByRatingCount",
		Method:      http.MethodGet,
		Path:        "/api/v1/ratings/users/top/count",
		Summary:     "Most active raters",
		Description: "Returns the top n rater ids by number of ratings",
		Tags:        []string{"Ratings"},
	}, s.handleUsersByCount)

	huma.Register(s.api, huma.Operation{
		OperationID: "getUsersByRatingMetric",
		Method:      http.MethodGet,
		Path:        "/api/v1/ratings/users/top/metric",
		Summary:     "Raters by metric",
		Description: "Returns the top n rater ids by the rounded metric of their ratings",
		Tags:        []string{"Ratings"},
	}, s.handleUsersByMetric)

	huma.Register(s.api, huma.Operation{
		OperationID: "getUsersByRatingVariance",
		Method:      http.MethodGet,
		Path:        "/api/v1/ratings/users/top/variance",
		Summary:     "Least consistent raters",
		Description: "Returns the top n rater ids by rating variance",
		Tags:        []string{"Ratings"},
	}, s.handleUsersByVariance)
}

// MetricInput selects the summary metric.
type MetricInput struct {
	Metric string `query:"metric" default:"mean" doc:"Summary metric: mean, median, or variance"`
}

// TopMetricInput is a top-N query with a summary metric.
type TopMetricInput struct {
	TopInput
	MetricInput
}

// resolve maps the metric name to its function, or a 400 error.
func (in MetricInput) resolve() (stats.Metric, error) {
	metric, ok := stats.MetricByName(in.Metric)
	if !ok {
		return nil, huma.Error400BadRequest("unknown metric " + in.Metric + ": must be one of mean, median, variance")
	}
	return metric, nil
}

func (s *Server) handleRatingYears(_ context.Context, _ *struct{}) (*TableOutput, error) {
	return tableOutput(s.services.Ratings.Movies().DistributionByYear()), nil
}

func (s *Server) handleRatingScores(_ context.Context, _ *struct{}) (*TableOutput, error) {
	return tableOutput(s.services.Ratings.Movies().DistributionByScore()), nil
}

func (s *Server) handleMoviesByCount(_ context.Context, input *TopInput) (*TableOutput, error) {
	if err := s.validator.Validate(input); err != nil {
		return nil, handlerError(err)
	}
	return tableOutput(s.services.Ratings.Movies().TopByCount(input.N)), nil
}

func (s *Server) handleMoviesByMetric(_ context.Context, input *TopMetricInput) (*TableOutput, error) {
	if err := s.validator.Validate(input); err != nil {
		return nil, handlerError(err)
	}
	metric, err := input.resolve()
	if err != nil {
		return nil, err
	}
	return tableOutput(s.services.Ratings.Movies().TopByMetric(input.N, metric)), nil
}

func (s *Server) handleMoviesByVariance(_ context.Context, input *TopInput) (*TableOutput, error) {
	if err := s.validator.Validate(input); err != nil {
		return nil, handlerError(err)
	}
	return tableOutput(s.services.Ratings.Movies().TopByVariance(input.N)), nil
}

func (s *Server) handleUserCountDistribution(_ context.Context, _ *struct{}) (*TableOutput, error) {
	return tableOutput(s.services.Ratings.Users().DistributionByCount()), nil
}

func (s *Server) handleUserMetricDistribution(_ context.Context, input *MetricInput) (*TableOutput, error) {
	metric, err := input.resolve()
	if err != nil {
		return nil, err
	}
	return tableOutput(s.services.Ratings.Users().DistributionByMetric(metric)), nil
}

func (s *Server) handleUsersByCount(_ context.Context, input *TopInput) (*TableOutput, error) {
	if err := s.validator.Validate(input); err != nil {
		return nil, handlerError(err)
	}
	return tableOutput(s.services.Ratings.Users().TopByCount(input.N)), nil
}

func (s *Server) handleUsersByMetric(_ context.Context, input *TopMetricInput) (*TableOutput, error) {
	if err := s.validator.Validate(input); err != nil {
		return nil, handlerError(err)
	}
	metric, err := input.resolve()
	if err != nil {
		return nil, err
	}
	return tableOutput(s.services.Ratings.Users().TopByMetric(input.N, metric)), nil
}

func (s *Server) handleUsersByVariance(_ context.Context, input *TopInput) (*TableOutput, error) {
	if err := s.validator.Validate(input); err != nil {
		return nil, handlerError(err)
	}
	return tableOutput(s.services.Ratings.Users().TopByVariance(input.N)), nil
}
