package negotiation

import (
	"errors"
	"fmt"
)

// Sentinel errors returned (wrapped) by the negotiation package.
var (
	// ErrConfiguration indicates that a negotiator could not be constructed.
	ErrConfiguration = errors.New("invalid negotiator configuration")

	// ErrMalformedHeader indicates that a media type, language range or
	// quality value could not be parsed into its structured form.
	ErrMalformedHeader = errors.New("malformed header")
)

// ConfigurationError is returned when a negotiator is built from an unusable
// handler registry.
type ConfigurationError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (e *ConfigurationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("negotiator configuration error at %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("negotiator configuration error: %s", e.Message)
}

// Is checks if the error matches the target.
func (e *ConfigurationError) Is(target error) bool {
	if target == ErrConfiguration {
		return true
	}
	_, ok := target.(*ConfigurationError)
	return ok
}

// NewConfigurationError creates a new ConfigurationError.
func NewConfigurationError(field, message string) *ConfigurationError {
	return &ConfigurationError{Field: field, Message: message}
}

// MalformedHeaderError is returned when a header value does not have the
// structure required for negotiation. Callers should answer with 400.
type MalformedHeaderError struct {
	Header string
	Value  string
	Reason string
	Cause  error
}

// Error implements the error interface.
func (e *MalformedHeaderError) Error() string {
	msg := fmt.Sprintf("malformed header value %q: %s", e.Value, e.Reason)
	if e.Header != "" {
		msg = fmt.Sprintf("malformed %s header value %q: %s", e.Header, e.Value, e.Reason)
	}
	if e.Cause != nil {
		return msg + ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying error.
func (e *MalformedHeaderError) Unwrap() error {
	return e.Cause
}

// Is checks if the error matches the target.
func (e *MalformedHeaderError) Is(target error) bool {
	if target == ErrMalformedHeader {
		return true
	}
	_, ok := target.(*MalformedHeaderError)
	return ok
}

// NewMalformedHeaderError creates a new MalformedHeaderError.
func NewMalformedHeaderError(value, reason string) *MalformedHeaderError {
	return &MalformedHeaderError{Value: value, Reason: reason}
}

// WithHeader returns a copy of err naming the header the value came from.
// Errors other than *MalformedHeaderError are returned unchanged.
func WithHeader(err error, header string) error {
	var malformed *MalformedHeaderError
	if !errors.As(err, &malformed) {
		return err
	}
	named := *malformed
	named.Header = header
	return &named
}
