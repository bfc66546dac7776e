package formatter

import (
	"fmt"
	"reflect"
	"slices"
	"strconv"

	"github.com/vyrodovalexey/conneg/internal/config"
	"github.com/vyrodovalexey/conneg/internal/negotiation"
)

// Registry holds formatters in preference order.
type Registry struct {
	formatters []Formatter
	byName     map[string]Formatter
}

// NewRegistry creates a registry over formatters, which must be non-empty
// and uniquely named.
func NewRegistry(formatters ...Formatter) (*Registry, error) {
	if len(formatters) == 0 {
		return nil, negotiation.NewConfigurationError("formatters", "list of formatters cannot be empty")
	}

	r := &Registry{
		formatters: slices.Clone(formatters),
		byName:     make(map[string]Formatter, len(formatters)),
	}
	for i, f := range formatters {
		field := "formatters[" + strconv.Itoa(i) + "]"
		if f == nil {
			return nil, negotiation.NewConfigurationError(field, "formatter cannot be nil")
		}
		if _, dup := r.byName[f.Name()]; dup {
			return nil, negotiation.NewConfigurationError(field, "duplicate formatter name "+strconv.Quote(f.Name()))
		}
		r.byName[f.Name()] = f
	}
	return r, nil
}

// NewRegistryFromConfig builds the configured formatters in order.
func NewRegistryFromConfig(cfgs []config.FormatterConfig) (*Registry, error) {
	formatters := make([]Formatter, 0, len(cfgs))
	for i := range cfgs {
		f, err := New(&cfgs[i])
		if err != nil {
			return nil, err
		}
		formatters = append(formatters, f)
	}
	return NewRegistry(formatters...)
}

// New builds one formatter from its configuration.
func New(cfg *config.FormatterConfig) (Formatter, error) {
	opts := optionsFromConfig(cfg)

	switch cfg.Kind {
	case config.FormatterKindJSON:
		return NewJSONWithConfig(cfg.JSON, opts...)
	case config.FormatterKindXML:
		return NewXML(opts...)
	case config.FormatterKindYAML:
		return NewYAML(opts...)
	case config.FormatterKindProtobuf:
		return NewProtobuf(opts...)
	case config.FormatterKindText:
		return NewText(opts...)
	case config.FormatterKindOctetStream:
		return NewByteStream(opts...)
	default:
		return nil, fmt.Errorf("formatter %s: unknown kind %q", cfg.Name, cfg.Kind)
	}
}

func optionsFromConfig(cfg *config.FormatterConfig) []Option {
	var opts []Option
	if cfg.Name != "" {
		opts = append(opts, WithName(cfg.Name))
	}
	if len(cfg.MediaTypes) > 0 {
		opts = append(opts, WithMediaTypes(cfg.MediaTypes...))
	}
	if len(cfg.Encodings) > 0 {
		opts = append(opts, WithEncodings(cfg.Encodings...))
	}
	if cfg.DefaultMediaType != "" {
		opts = append(opts, WithDefaultMediaType(cfg.DefaultMediaType))
	}
	if cfg.DefaultEncoding != "" {
		opts = append(opts, WithDefaultEncoding(cfg.DefaultEncoding))
	}
	if cfg.Filter != "" {
		opts = append(opts, WithFilter(cfg.Filter))
	}
	return opts
}

// Formatters returns the formatters in preference order.
func (r *Registry) Formatters() []Formatter {
	return slices.Clone(r.formatters)
}

// Handlers returns the formatters as negotiation handlers, in order.
func (r *Registry) Handlers() []negotiation.Handler {
	handlers := make([]negotiation.Handler, len(r.formatters))
	for i, f := range r.formatters {
		handlers[i] = f
	}
	return handlers
}

// Get returns the formatter with the given name.
func (r *Registry) Get(name string) (Formatter, bool) {
	f, ok := r.byName[name]
	return f, ok
}

// Reader returns the first formatter that supports mediaType and can read
// t. It serves request bodies that negotiation answered with a default
// media type and no handler.
func (r *Registry) Reader(mediaType string, t reflect.Type) (Formatter, bool) {
	for _, f := range r.formatters {
		if containsFold(f.SupportedMediaTypes(), mediaType) && f.CanRead(t) {
			return f, true
		}
	}
	return nil, false
}

// Lookup converts a negotiated handler back to a formatter.
func Lookup(h negotiation.Handler) (Formatter, bool) {
	f, ok := h.(Formatter)
	return f, ok
}
