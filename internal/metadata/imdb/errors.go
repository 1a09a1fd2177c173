package imdb

import (
	"errors"
	"fmt"
)

// Sentinel errors for title page fetches.
var (
	ErrNotFound         = errors.New("imdb: not found")
	ErrRateLimited      = errors.New("imdb: rate limited by server")
	ErrServer           = errors.New("imdb: server error")
	ErrUnexpectedStatus = errors.New("imdb: unexpected status")
	ErrInvalidKey       = errors.New("imdb: invalid key format")
)

// Error wraps an underlying error with operation context.
type Error struct {
	Op  string // Operation: "fetch"
	Key string
	Err error
}

func (e *Error) Error() string {
	return fmt.Sprintf("imdb %s [%s]: %v", e.Op, e.Key, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// wrapError creates an Error with context.
func wrapError(op, key string, err error) error {
	return &Error{
		Op:  op,
		Key: key,
		Err: err,
	}
}
