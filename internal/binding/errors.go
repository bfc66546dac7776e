package binding

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/vyrodovalexey/conneg/internal/negotiation"
)

// Binding errors, wrapped in a *StatusError.
var (
	// ErrUnsupportedMediaType indicates that no formatter can read the request body.
	ErrUnsupportedMediaType = errors.New("unsupported media type")

	// ErrUnsupportedCharset indicates that the request body's charset is not
	// one the chosen formatter reads.
	ErrUnsupportedCharset = errors.New("unsupported charset")

	// ErrNotAcceptable indicates that no formatter can produce an acceptable response.
	ErrNotAcceptable = errors.New("not acceptable")

	// ErrBodyTooLarge indicates that the request body exceeds the configured limit.
	ErrBodyTooLarge = errors.New("request body too large")

	// ErrInvalidTarget indicates that a decode target is not a non-nil pointer.
	ErrInvalidTarget = errors.New("invalid decode target")
)

// StatusError is an error with the HTTP status it should produce.
type StatusError struct {
	Status int
	Err    error

	// Acceptable lists the media types that could have been produced. It is
	// set for 406 responses.
	Acceptable []string
}

// Error implements the error interface.
func (e *StatusError) Error() string {
	return fmt.Sprintf("%d %s: %v", e.Status, http.StatusText(e.Status), e.Err)
}

// Unwrap returns the underlying error.
func (e *StatusError) Unwrap() error {
	return e.Err
}

// NewStatusError creates a new StatusError.
func NewStatusError(status int, err error) *StatusError {
	return &StatusError{Status: status, Err: err}
}

// StatusCode maps err onto an HTTP status: the status of a *StatusError, 400
// for malformed headers, 500 otherwise.
func StatusCode(err error) int {
	var se *StatusError
	if errors.As(err, &se) {
		return se.Status
	}
	if errors.Is(err, negotiation.ErrMalformedHeader) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
