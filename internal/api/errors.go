package api

import (
	"errors"

	"github.com/danielgtaylor/huma/v2"

	domainerrors "github.com/listenupapp/movielens/internal/errors"
)

// APIError is the error body of every failed operation.
type APIError struct { //nolint:revive // API prefix is intentional for clarity
	status  int
	Code    string `json:"code" doc:"Machine-readable error code"`
	Message string `json:"message" doc:"Human-readable error message"`
	Details any    `json:"details,omitempty" doc:"Additional error details"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return e.Message
}

// GetStatus implements huma.StatusError.
func (e *APIError) GetStatus() int {
	return e.status
}

// ContentType returns the content type for the error response.
func (e *APIError) ContentType(_ string) string {
	return "application/json"
}

// RegisterErrorHandler makes huma render coded errors as APIError.
// Call it after creating the huma.API and before serving.
func RegisterErrorHandler() {
	huma.NewError = func(status int, message string, errs ...error) huma.StatusError {
		for _, err := range errs {
			var coded *domainerrors.Error
			if errors.As(err, &coded) {
				return &APIError{
					status:  coded.HTTPStatus(),
					Code:    string(coded.Code),
					Message: coded.Message,
					Details: coded.Details,
				}
			}
		}

		var details any
		if len(errs) > 0 {
			msgs := make([]string, 0, len(errs))
			for _, err := range errs {
				if err != nil {
					msgs = append(msgs, err.Error())
				}
			}
			if len(msgs) > 0 {
				details = msgs
			}
		}

		return &APIError{
			status:  status,
			Code:    string(domainerrors.CodeForStatus(status)),
			Message: message,
			Details: details,
		}
	}
}

// handlerError converts an error returned by the engines into a huma error.
func handlerError(err error) error {
	var coded *domainerrors.Error
	if errors.As(err, &coded) {
		return huma.NewError(coded.HTTPStatus(), coded.Message, coded)
	}
	return huma.Error500InternalServerError("internal error", err)
}
