package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

func (s *Server) registerTagRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "getTagsByWordCount",
		Method:      http.MethodGet,
		Path:        "/api/v1/tags/top/words",
		Summary:     "Tags with the most words",
		Description: "Returns the top n distinct tags by number of whitespace-separated words",
		Tags:        []string{"Tags"},
	}, s.handleTagsByWordCount)

	huma.Register(s.api, huma.Operation{
		OperationID: "getLongestTags",
		Method:      http.MethodGet,
		Path:        "/api/v1/tags/top/length",
		Summary:     "Longest tags",
		Description: "Returns the top n distinct tags by character length",
		Tags:        []string{"Tags"},
	}, s.handleLongestTags)

	huma.Register(s.api, huma.Operation{
		OperationID: "getTagIntersection",
		Method:      http.MethodGet,
		Path:        "/api/v1/tags/top/intersection",
		Summary:     "Tags both wordy and long",
		Description: "Returns tags present in both the top n by words and the top n by length",
		Tags:        []string{"Tags"},
	}, s.handleTagIntersection)

	huma.Register(s.api, huma.Operation{
		OperationID: "getPopularTags",
		Method:      http.MethodGet,
		Path:        "/api/v1/tags/top/popular",
		Summary:     "Most used tags",
		Description: "Returns the top n tags by number of uses, duplicates counted",
		Tags:        []string{"Tags"},
	}, s.handlePopularTags)

	huma.Register(s.api, huma.Operation{
		OperationID: "searchTags",
		Method:      http.MethodGet,
		Path:        "/api/v1/tags/search",
		Summary:     "Search tags",
		Description: "Returns distinct tags containing the word, case-insensitively, in byte order",
		Tags:        []string{"Tags"},
	}, s.handleSearchTags)
}

func (s *Server) handleTagsByWordCount(_ context.Context, input *TopInput) (*TableOutput, error) {
	if err := s.validator.Validate(input); err != nil {
		return nil, handlerError(err)
	}
	return tableOutput(s.services.Tags.TopByWordCount(input.N)), nil
}

func (s *Server) handleLongestTags(_ context.Context, input *TopInput) (*TableOutput, error) {
	if err := s.validator.Validate(input); err != nil {
		return nil, handlerError(err)
	}
	return tableOutput(s.services.Tags.Longest(input.N)), nil
}

func (s *Server) handleTagIntersection(_ context.Context, input *TopInput) (*TableOutput, error) {
	if err := s.validator.Validate(input); err != nil {
		return nil, handlerError(err)
	}
	return tableOutput(s.services.Tags.IntersectionOfTop(input.N)), nil
}

func (s *Server) handlePopularTags(_ context.Context, input *TopInput) (*TableOutput, error) {
	if err := s.validator.Validate(input); err != nil {
		return nil, handlerError(err)
	}
	return tableOutput(s.services.Tags.MostPopular(input.N)), nil
}

// SearchTagsInput contains parameters for searching tags.
type SearchTagsInput struct {
	Word string `query:"word" validate:"required" doc:"Substring to look for"`
}

func (s *Server) handleSearchTags(_ context.Context, input *SearchTagsInput) (*TableOutput, error) {
	if err := s.validator.Validate(input); err != nil {
		return nil, handlerError(err)
	}
	return tableOutput(s.services.Tags.Containing(input.Word)), nil
}
