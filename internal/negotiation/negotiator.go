package negotiation

import (
	"reflect"
	"slices"
	"strconv"

	"github.com/vyrodovalexey/conneg/internal/observability"
)

// DefaultMediaTypeOctetStream is returned for request bodies that carry no
// Content-Type (RFC 7231 section 3.1.1.5).
const DefaultMediaTypeOctetStream = "application/octet-stream"

// Header names read by the header source.
const (
	HeaderAccept          = "Accept"
	HeaderAcceptCharset   = "Accept-Charset"
	HeaderAcceptLanguage  = "Accept-Language"
	HeaderContentType     = "Content-Type"
	HeaderContentLanguage = "Content-Language"
)

// RequestHeaders holds the negotiation-relevant request headers, already
// split into list entries by a header source.
type RequestHeaders struct {
	// ContentType is the raw Content-Type value; "" means absent.
	ContentType string

	// Accept holds one media range expression per entry. A nil slice means
	// the header was absent.
	Accept []string

	// AcceptCharset holds the parsed Accept-Charset entries.
	AcceptCharset []QualityValue

	// AcceptLanguage holds the parsed Accept-Language entries.
	AcceptLanguage []LanguageRange

	// ContentLanguage is the raw Content-Language value; "" means absent.
	ContentLanguage string
}

// Result is the outcome of one negotiation. A nil Handler means no handler
// is acceptable, unless MediaType is set, in which case the caller should
// fall back to a generic byte-stream reader (see UsesDefault).
type Result struct {
	Handler   Handler
	MediaType string
	Encoding  string
	Language  string
}

// Matched reports whether a handler was selected.
func (r Result) Matched() bool {
	return r.Handler != nil
}

// UsesDefault reports whether the result is the no-Content-Type default.
func (r Result) UsesDefault() bool {
	return r.Handler == nil && r.MediaType != ""
}

// ContentType renders the media type with its charset parameter, suitable
// for a Content-Type header.
func (r Result) ContentType() string {
	if r.MediaType == "" || r.Encoding == "" {
		return r.MediaType
	}
	return r.MediaType + "; charset=" + r.Encoding
}

// Negotiator selects handlers, encodings and languages for request and
// response bodies. It holds no mutable state and is safe for concurrent use.
type Negotiator struct {
	handlers           []Handler
	supportedLanguages []string
	defaultMediaType   string
	logger             observability.Logger

	mediaTypes MediaTypeMatcher
	encodings  EncodingMatcher
	languages  LanguageMatcher
}

// Option is a functional option for configuring the negotiator.
type Option func(*Negotiator)

// WithSupportedLanguages sets the languages responses can be produced in,
// most preferred first.
func WithSupportedLanguages(languages []string) Option {
	return func(n *Negotiator) {
		n.supportedLanguages = slices.Clone(languages)
	}
}

// WithDefaultMediaType overrides the media type reported for request bodies
// without a Content-Type.
func WithDefaultMediaType(mediaType string) Option {
	return func(n *Negotiator) {
		n.defaultMediaType = mediaType
	}
}

// WithLogger sets the logger for the negotiator.
func WithLogger(logger observability.Logger) Option {
	return func(n *Negotiator) {
		if logger != nil {
			n.logger = logger.Named("negotiation")
		}
	}
}

// New creates a negotiator over handlers, which are consulted in order. It
// fails with a *ConfigurationError when handlers is empty, contains nil, or a
// handler declares a media type that is not "type/subtype".
func New(handlers []Handler, opts ...Option) (*Negotiator, error) {
	if len(handlers) == 0 {
		return nil, NewConfigurationError("handlers", "list of handlers cannot be empty")
	}

	for i, h := range handlers {
		field := "handlers[" + strconv.Itoa(i) + "]"
		if h == nil {
			return nil, NewConfigurationError(field, "handler cannot be nil")
		}
		for _, mt := range h.SupportedMediaTypes() {
			if _, _, err := splitMediaType(mt); err != nil {
				return nil, NewConfigurationError(field, "invalid supported media type "+strconv.Quote(mt))
			}
		}
	}

	n := &Negotiator{
		handlers:         slices.Clone(handlers),
		defaultMediaType: DefaultMediaTypeOctetStream,
		logger:           observability.NopLogger(),
	}

	for _, opt := range opts {
		opt(n)
	}

	return n, nil
}

// Handlers returns a copy of the registered handlers.
func (n *Negotiator) Handlers() []Handler {
	return slices.Clone(n.handlers)
}

// SupportedLanguages returns a copy of the configured languages.
func (n *Negotiator) SupportedLanguages() []string {
	return slices.Clone(n.supportedLanguages)
}

// NegotiateRequest selects how to read a request body into a value of type t.
//
// Without a Content-Type the result carries only the default media type and
// the Content-Language. With one, the first readable handler supporting that
// exact media type is chosen and its encoding resolved from the charset
// parameter. A Content-Type that is malformed or contains a wildcard yields a
// *MalformedHeaderError.
func (n *Negotiator) NegotiateRequest(t reflect.Type, headers RequestHeaders) (Result, error) {
	if headers.ContentType == "" {
		n.logger.Debug("no content type, using default media type",
			observability.String("type", typeName(t)),
			observability.String("media_type", n.defaultMediaType),
		)
		return Result{MediaType: n.defaultMediaType, Language: headers.ContentLanguage}, nil
	}

	contentType, err := ParseMediaTypeRange(headers.ContentType)
	if err != nil {
		return Result{}, WithHeader(err, HeaderContentType)
	}
	if contentType.IsWildcard() {
		return Result{}, &MalformedHeaderError{
			Header: HeaderContentType,
			Value:  headers.ContentType,
			Reason: "content type must not contain wildcards",
		}
	}
	contentType.Quality = MaxQuality

	match, ok := n.mediaTypes.BestMatch(n.readers(t), []MediaTypeRange{contentType})
	if !ok {
		n.logger.Debug("no handler can read request content",
			observability.String("type", typeName(t)),
			observability.String("content_type", contentType.MediaType()),
		)
		return Result{}, nil
	}

	result := Result{
		Handler:   match.Handler,
		MediaType: match.MediaType,
		Encoding:  n.encodings.BestMatch(match.Handler, nil, contentType.Charset()),
		Language:  headers.ContentLanguage,
	}

	n.logger.Debug("request content negotiated",
		observability.String("type", typeName(t)),
		observability.String("media_type", result.MediaType),
		observability.String("encoding", result.Encoding),
		observability.String("language", result.Language),
	)

	return result, nil
}

// NegotiateResponse selects how to write a value of type t in the response.
//
// The language comes from Accept-Language and the supported languages.
// Without an Accept header the first handler able to write t is used with its
// default media type. Otherwise Accept ranges are ranked and matched against
// writable handlers; a charset parameter on the winning range takes
// precedence over Accept-Charset. When no handler fits, the zero Result is
// returned. A malformed Accept entry yields a *MalformedHeaderError.
func (n *Negotiator) NegotiateResponse(t reflect.Type, headers RequestHeaders) (Result, error) {
	language := n.languages.BestMatch(n.supportedLanguages, headers.AcceptLanguage)
	writers := n.writers(t)

	if headers.Accept == nil {
		if len(writers) == 0 {
			n.logger.Debug("no handler can write response content",
				observability.String("type", typeName(t)),
			)
			return Result{}, nil
		}

		h := writers[0]
		result := Result{
			Handler:   h,
			MediaType: DefaultMediaType(h),
			Encoding:  n.encodings.BestMatch(h, headers.AcceptCharset, ""),
			Language:  language,
		}
		n.logResponse(t, result)
		return result, nil
	}

	ranges := make([]MediaTypeRange, 0, len(headers.Accept))
	for _, accept := range headers.Accept {
		r, err := ParseMediaTypeRange(accept)
		if err != nil {
			return Result{}, WithHeader(err, HeaderAccept)
		}
		ranges = append(ranges, r)
	}

	match, ok := n.mediaTypes.BestMatch(writers, ranges)
	if !ok {
		n.logger.Debug("no handler matches accepted media types",
			observability.String("type", typeName(t)),
			observability.Int("ranges", len(ranges)),
		)
		return Result{}, nil
	}

	result := Result{
		Handler:   match.Handler,
		MediaType: match.MediaType,
		Encoding:  n.encodings.BestMatch(match.Handler, headers.AcceptCharset, match.Range.Charset()),
		Language:  language,
	}
	n.logResponse(t, result)
	return result, nil
}

// AcceptableResponseMediaTypes lists, in registration order and without
// duplicates, every media type some handler able to write t supports.
func (n *Negotiator) AcceptableResponseMediaTypes(t reflect.Type) []string {
	var types []string
	seen := make(map[string]bool)
	for _, h := range n.writers(t) {
		for _, mt := range h.SupportedMediaTypes() {
			if !seen[mt] {
				seen[mt] = true
				types = append(types, mt)
			}
		}
	}
	return types
}

// readers returns the handlers that can read t, in registration order.
func (n *Negotiator) readers(t reflect.Type) []Handler {
	return n.filter(func(h Handler) bool { return h.CanRead(t) })
}

// writers returns the handlers that can write t, in registration order.
func (n *Negotiator) writers(t reflect.Type) []Handler {
	return n.filter(func(h Handler) bool { return h.CanWrite(t) })
}

func (n *Negotiator) filter(keep func(Handler) bool) []Handler {
	var out []Handler
	for _, h := range n.handlers {
		if keep(h) {
			out = append(out, h)
		}
	}
	return out
}

func (n *Negotiator) logResponse(t reflect.Type, result Result) {
	n.logger.Debug("response content negotiated",
		observability.String("type", typeName(t)),
		observability.String("media_type", result.MediaType),
		observability.String("encoding", result.Encoding),
		observability.String("language", result.Language),
	)
}

func typeName(t reflect.Type) string {
	if t == nil {
		return "<nil>"
	}
	return t.String()
}
