package formatter

import (
	"errors"
	"fmt"
	"io"
	"reflect"
	"slices"

	"github.com/vyrodovalexey/conneg/internal/negotiation"
)

// Common formatter errors.
var (
	// ErrUnsupportedType indicates that the formatter cannot handle the value's type.
	ErrUnsupportedType = errors.New("unsupported type")

	// ErrUnsupportedCharset indicates that the charset is unknown.
	ErrUnsupportedCharset = errors.New("unsupported charset")

	// ErrEncodingFailed indicates that writing a value failed.
	ErrEncodingFailed = errors.New("encoding failed")

	// ErrDecodingFailed indicates that reading a value failed.
	ErrDecodingFailed = errors.New("decoding failed")

	// ErrNilValue indicates that the value to read into or write is nil.
	ErrNilValue = errors.New("nil value")
)

// Directions passed to type filters.
const (
	DirectionRead  = "read"
	DirectionWrite = "write"
)

// Formatter is a negotiation handler that can also move values to and from
// a byte stream.
type Formatter interface {
	negotiation.Handler
	negotiation.DefaultMediaTyper
	negotiation.DefaultEncoder

	// Name identifies the formatter in logs and metrics.
	Name() string

	// Read decodes r into v, which must be a non-nil pointer. charset is
	// the charset of r; "" means the formatter's default.
	Read(r io.Reader, v any, charset string) error

	// Write encodes v to w in the given charset.
	Write(w io.Writer, v any, charset string) error
}

// Option configures a formatter.
type Option func(*base)

// WithName overrides the formatter name.
func WithName(name string) Option {
	return func(b *base) {
		b.name = name
	}
}

// WithMediaTypes replaces the supported media types.
func WithMediaTypes(mediaTypes ...string) Option {
	return func(b *base) {
		b.mediaTypes = slices.Clone(mediaTypes)
	}
}

// WithEncodings replaces the supported charsets.
func WithEncodings(encodings ...string) Option {
	return func(b *base) {
		b.encodings = slices.Clone(encodings)
	}
}

// WithDefaultMediaType designates the default media type. It must be one of
// the supported media types.
func WithDefaultMediaType(mediaType string) Option {
	return func(b *base) {
		b.defaultMediaType = mediaType
	}
}

// WithDefaultEncoding designates the default charset. It must be one of the
// supported charsets.
func WithDefaultEncoding(encoding string) Option {
	return func(b *base) {
		b.defaultEncoding = encoding
	}
}

// WithFilter restricts the types handled to those for which the CEL
// expression holds. An invalid expression makes the constructor fail.
func WithFilter(expression string) Option {
	return func(b *base) {
		b.filterExpr = expression
	}
}

// base carries what every formatter shares: its declared capabilities and
// the optional type filter.
type base struct {
	name             string
	mediaTypes       []string
	encodings        []string
	defaultMediaType string
	defaultEncoding  string
	filterExpr       string
	filter           *TypeFilter
}

func newBase(name string, mediaTypes, encodings []string, opts []Option) (base, error) {
	b := base{
		name:       name,
		mediaTypes: mediaTypes,
		encodings:  encodings,
	}
	for _, opt := range opts {
		opt(&b)
	}

	if len(b.mediaTypes) == 0 {
		return base{}, fmt.Errorf("formatter %s: at least one media type is required", b.name)
	}
	if b.defaultMediaType != "" && !containsFold(b.mediaTypes, b.defaultMediaType) {
		return base{}, fmt.Errorf("formatter %s: default media type %q is not supported", b.name, b.defaultMediaType)
	}
	if b.defaultEncoding != "" && !containsFold(b.encodings, b.defaultEncoding) {
		return base{}, fmt.Errorf("formatter %s: default encoding %q is not supported", b.name, b.defaultEncoding)
	}
	for _, enc := range b.encodings {
		if _, err := lookupCharset(enc); err != nil {
			return base{}, fmt.Errorf("formatter %s: %w", b.name, err)
		}
	}

	if b.filterExpr != "" {
		filter, err := NewTypeFilter(b.filterExpr)
		if err != nil {
			return base{}, fmt.Errorf("formatter %s: %w", b.name, err)
		}
		b.filter = filter
	}

	return b, nil
}

// Name returns the formatter name.
func (b *base) Name() string { return b.name }

// SupportedMediaTypes returns a copy of the supported media types.
func (b *base) SupportedMediaTypes() []string { return slices.Clone(b.mediaTypes) }

// SupportedEncodings returns a copy of the supported charsets.
func (b *base) SupportedEncodings() []string { return slices.Clone(b.encodings) }

// DefaultMediaType returns the designated media type, or the first one.
func (b *base) DefaultMediaType() string {
	if b.defaultMediaType != "" {
		return b.defaultMediaType
	}
	return b.mediaTypes[0]
}

// DefaultEncoding returns the designated charset, or the first one, or "".
func (b *base) DefaultEncoding() string {
	if b.defaultEncoding != "" {
		return b.defaultEncoding
	}
	if len(b.encodings) > 0 {
		return b.encodings[0]
	}
	return ""
}

// allowed combines a formatter's own type check with the filter.
func (b *base) allowed(t reflect.Type, direction string, supported func(reflect.Type) bool) bool {
	if t == nil || !supported(t) {
		return false
	}
	return b.filter == nil || b.filter.Allows(t, direction)
}

// resolveEncoding maps "" to the default charset.
func (b *base) resolveEncoding(encoding string) string {
	if encoding == "" {
		return b.DefaultEncoding()
	}
	return encoding
}

// target checks that v is a non-nil pointer and returns its element type.
func target(v any) (reflect.Value, error) {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return reflect.Value{}, fmt.Errorf("%w: read target must be a non-nil pointer, got %T", ErrNilValue, v)
	}
	return rv.Elem(), nil
}

// serializable reports whether values of t can be represented by generic
// structured encoders.
func serializable(t reflect.Type) bool {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	switch t.Kind() {
	case reflect.Func, reflect.Chan, reflect.UnsafePointer, reflect.Complex64, reflect.Complex128, reflect.Invalid:
		return false
	default:
		return true
	}
}

func containsFold(values []string, s string) bool {
	_, ok := findFold(values, s)
	return ok
}
