package binding

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/vyrodovalexey/conneg/internal/config"
	"github.com/vyrodovalexey/conneg/internal/formatter"
	"github.com/vyrodovalexey/conneg/internal/headers"
	"github.com/vyrodovalexey/conneg/internal/negotiation"
	"github.com/vyrodovalexey/conneg/internal/observability"
)

// varyHeaders are the request headers responses are negotiated on.
var varyHeaders = []string{
	negotiation.HeaderAccept,
	negotiation.HeaderAcceptCharset,
	negotiation.HeaderAcceptLanguage,
}

// Binder decodes requests and encodes responses using negotiated
// formatters. It is safe for concurrent use.
type Binder struct {
	registry   *formatter.Registry
	negotiator *negotiation.Negotiator

	logger             observability.Logger
	tracer             *observability.Tracer
	negotiationMetrics *negotiation.Metrics
	formatterMetrics   *formatter.Metrics
	maxBodyBytes       int64
}

// Option is a functional option for configuring the binder.
type Option func(*Binder)

// WithLogger sets the logger for the binder and the negotiator it builds.
func WithLogger(logger observability.Logger) Option {
	return func(b *Binder) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// WithTracer wraps every decode and encode in a span.
func WithTracer(tracer *observability.Tracer) Option {
	return func(b *Binder) {
		b.tracer = tracer
	}
}

// WithMetrics records negotiation outcomes and formatter operations.
// Either argument may be nil.
func WithMetrics(negotiationMetrics *negotiation.Metrics, formatterMetrics *formatter.Metrics) Option {
	return func(b *Binder) {
		b.negotiationMetrics = negotiationMetrics
		b.formatterMetrics = formatterMetrics
	}
}

// WithMaxBodyBytes limits request bodies. Zero or less means unlimited.
func WithMaxBodyBytes(n int64) Option {
	return func(b *Binder) {
		b.maxBodyBytes = n
	}
}

// New creates a binder over an existing registry and negotiator. The
// negotiator should have been built from the registry's handlers.
func New(registry *formatter.Registry, negotiator *negotiation.Negotiator, opts ...Option) *Binder {
	b := &Binder{
		registry:   registry,
		negotiator: negotiator,
		logger:     observability.NopLogger(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// NewFromConfig builds the formatters and negotiator a configuration
// declares. The configured body limit applies unless an option overrides it.
func NewFromConfig(cfg *config.Config, opts ...Option) (*Binder, error) {
	b := &Binder{
		logger:       observability.NopLogger(),
		maxBodyBytes: cfg.Spec.Server.MaxBodyBytes,
	}
	for _, opt := range opts {
		opt(b)
	}

	registry, err := formatter.NewRegistryFromConfig(cfg.Spec.Formatters)
	if err != nil {
		return nil, fmt.Errorf("failed to build formatters: %w", err)
	}

	negotiatorOpts := []negotiation.Option{
		negotiation.WithSupportedLanguages(cfg.Spec.Languages),
		negotiation.WithLogger(b.logger),
	}
	if cfg.Spec.DefaultMediaType != "" {
		negotiatorOpts = append(negotiatorOpts, negotiation.WithDefaultMediaType(cfg.Spec.DefaultMediaType))
	}

	negotiator, err := negotiation.New(registry.Handlers(), negotiatorOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to build negotiator: %w", err)
	}

	b.registry = registry
	b.negotiator = negotiator
	return b, nil
}

// Registry returns the formatter registry.
func (b *Binder) Registry() *formatter.Registry {
	return b.registry
}

// Negotiator returns the negotiator.
func (b *Binder) Negotiator() *negotiation.Negotiator {
	return b.negotiator
}

// Language returns the supported language negotiated from the
// Accept-Language header of r, or "" when none matches.
func (b *Binder) Language(r *http.Request) (string, error) {
	reqHeaders, err := headers.FromRequest(r)
	if err != nil {
		return "", NewStatusError(http.StatusBadRequest, err)
	}
	return negotiation.LanguageMatcher{}.BestMatch(b.negotiator.SupportedLanguages(), reqHeaders.AcceptLanguage), nil
}

// Decode reads the body of r into v, which must be a non-nil pointer. The
// formatter is chosen from the Content-Type header; a request without one is
// read by a formatter supporting the default media type, usually the byte
// stream formatter into a *[]byte.
func (b *Binder) Decode(r *http.Request, v any) (negotiation.Result, error) {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return negotiation.Result{}, NewStatusError(http.StatusInternalServerError,
			fmt.Errorf("%w: %T", ErrInvalidTarget, v))
	}
	t := rv.Type().Elem()

	ctx, span := b.startSpan(r.Context(), "conneg.Decode", t)
	defer span.End()
	logger := b.logger.WithContext(ctx)

	reqHeaders := headers.ParseContent(r.Header)
	result, err := b.negotiator.NegotiateRequest(t, reqHeaders)
	if err != nil {
		return negotiation.Result{}, b.malformed(span, logger, negotiation.DirectionRequest, err)
	}
	if err := checkCharset(reqHeaders.ContentType, result); err != nil {
		b.recordResult(negotiation.DirectionRequest, result)
		observability.RecordError(span, err)
		logger.Debug("request charset not supported",
			observability.String("content_type", reqHeaders.ContentType),
		)
		return result, err
	}
	return b.read(span, logger, r, v, t, result)
}

// checkCharset rejects a body whose Content-Type names a charset the
// matched reader does not declare. Readers declaring no charsets take any.
func checkCharset(contentType string, result negotiation.Result) error {
	if !result.Matched() || len(result.Handler.SupportedEncodings()) == 0 {
		return nil
	}
	mt, err := negotiation.ParseMediaTypeRange(contentType)
	if err != nil {
		return nil
	}
	charset := mt.Charset()
	if charset == "" || strings.EqualFold(charset, result.Encoding) {
		return nil
	}
	return NewStatusError(http.StatusUnsupportedMediaType,
		fmt.Errorf("%w: %s for %s", ErrUnsupportedCharset, charset, result.MediaType))
}

func (b *Binder) read(
	span trace.Span,
	logger observability.Logger,
	r *http.Request,
	v any,
	t reflect.Type,
	result negotiation.Result,
) (negotiation.Result, error) {
	b.recordResult(negotiation.DirectionRequest, result)

	f, ok := b.reader(result, t)
	if !ok {
		err := NewStatusError(http.StatusUnsupportedMediaType,
			fmt.Errorf("%w: cannot read %s into %s", ErrUnsupportedMediaType, result.MediaType, t))
		if result.MediaType == "" {
			err.Err = fmt.Errorf("%w: %s", ErrUnsupportedMediaType, r.Header.Get(negotiation.HeaderContentType))
		}
		observability.RecordError(span, err)
		logger.Debug("no formatter can read request body",
			observability.String("type", t.String()),
			observability.String("content_type", r.Header.Get(negotiation.HeaderContentType)),
		)
		return result, err
	}
	setResultAttributes(span, f, result)

	body := r.Body
	if body == nil {
		body = http.NoBody
	}
	if b.maxBodyBytes > 0 {
		body = http.MaxBytesReader(nil, body, b.maxBodyBytes)
	}

	err := f.Read(body, v, result.Encoding)
	b.recordOperation(f, formatter.OperationRead, result, err)
	if err != nil {
		status := http.StatusBadRequest
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			status = http.StatusRequestEntityTooLarge
			err = fmt.Errorf("%w: limit is %d bytes", ErrBodyTooLarge, maxErr.Limit)
		}
		statusErr := NewStatusError(status, err)
		observability.RecordError(span, statusErr)
		logger.Debug("failed to read request body",
			observability.String("formatter", f.Name()),
			observability.Error(err),
		)
		return result, statusErr
	}

	logger.Debug("request body decoded",
		observability.String("formatter", f.Name()),
		observability.String("media_type", result.MediaType),
		observability.String("charset", result.Encoding),
	)
	return result, nil
}

// reader resolves the formatter for a request result.
func (b *Binder) reader(result negotiation.Result, t reflect.Type) (formatter.Formatter, bool) {
	if result.Matched() {
		return formatter.Lookup(result.Handler)
	}
	if result.UsesDefault() {
		return b.registry.Reader(result.MediaType, t)
	}
	return nil, false
}

// Encode negotiates a representation of v for r and writes it with status.
// Nothing is written when an error is returned, except when writing the
// body itself fails.
func (b *Binder) Encode(w http.ResponseWriter, r *http.Request, status int, v any) error {
	if v == nil {
		return NewStatusError(http.StatusInternalServerError, formatter.ErrNilValue)
	}
	t := reflect.TypeOf(v)

	ctx, span := b.startSpan(r.Context(), "conneg.Encode", t)
	defer span.End()
	logger := b.logger.WithContext(ctx)

	addVary(w.Header())

	reqHeaders, err := headers.FromRequest(r)
	if err != nil {
		return b.malformed(span, logger, negotiation.DirectionResponse, err)
	}
	result, err := b.negotiator.NegotiateResponse(t, reqHeaders)
	if err != nil {
		return b.malformed(span, logger, negotiation.DirectionResponse, err)
	}
	b.recordResult(negotiation.DirectionResponse, result)

	if !result.Matched() {
		statusErr := NewStatusError(http.StatusNotAcceptable,
			fmt.Errorf("%w: %s", ErrNotAcceptable, strings.Join(reqHeaders.Accept, ", ")))
		statusErr.Acceptable = b.negotiator.AcceptableResponseMediaTypes(t)
		observability.RecordError(span, statusErr)
		logger.Debug("no acceptable representation",
			observability.String("type", t.String()),
			observability.Strings("accept", reqHeaders.Accept),
		)
		return statusErr
	}

	f, ok := formatter.Lookup(result.Handler)
	if !ok {
		return NewStatusError(http.StatusInternalServerError,
			fmt.Errorf("negotiated handler %T is not a formatter", result.Handler))
	}
	setResultAttributes(span, f, result)

	var buf bytes.Buffer
	err = f.Write(&buf, v, result.Encoding)
	b.recordOperation(f, formatter.OperationWrite, result, err)
	if err != nil {
		statusErr := NewStatusError(http.StatusInternalServerError, err)
		observability.RecordError(span, statusErr)
		logger.Error("failed to encode response",
			observability.String("formatter", f.Name()),
			observability.Error(err),
		)
		return statusErr
	}

	h := w.Header()
	h.Set(negotiation.HeaderContentType, result.ContentType())
	if result.Language != "" {
		h.Set(negotiation.HeaderContentLanguage, result.Language)
	}
	w.WriteHeader(status)

	if _, err := w.Write(buf.Bytes()); err != nil {
		logger.Debug("failed to write response body", observability.Error(err))
		return err
	}

	logger.Debug("response encoded",
		observability.String("formatter", f.Name()),
		observability.String("content_type", result.ContentType()),
		observability.String("language", result.Language),
	)
	return nil
}

// WriteError writes err as a plain text response with the status it maps to.
// A 406 response lists the media types that could have been produced.
func (b *Binder) WriteError(w http.ResponseWriter, err error) {
	status := StatusCode(err)

	message := http.StatusText(status)
	if status < http.StatusInternalServerError {
		message = err.Error()
	}

	var se *StatusError
	if errors.As(err, &se) && len(se.Acceptable) > 0 {
		message += "\nacceptable: " + strings.Join(se.Acceptable, ", ")
	}

	http.Error(w, message, status)
}

func (b *Binder) malformed(span trace.Span, logger observability.Logger, direction string, err error) error {
	var malformed *negotiation.MalformedHeaderError
	if errors.As(err, &malformed) && b.negotiationMetrics != nil {
		b.negotiationMetrics.RecordMalformed(direction, malformed.Header)
	}

	statusErr := NewStatusError(http.StatusBadRequest, err)
	observability.RecordError(span, statusErr)
	logger.Debug("malformed negotiation header",
		observability.String("direction", direction),
		observability.Error(err),
	)
	return statusErr
}

func (b *Binder) recordResult(direction string, result negotiation.Result) {
	if b.negotiationMetrics != nil {
		b.negotiationMetrics.RecordResult(direction, result)
	}
}

func (b *Binder) recordOperation(f formatter.Formatter, operation string, result negotiation.Result, err error) {
	if b.formatterMetrics != nil {
		b.formatterMetrics.RecordOperation(f.Name(), operation, result.MediaType, result.Encoding, err)
	}
}

func (b *Binder) startSpan(ctx context.Context, name string, t reflect.Type) (context.Context, trace.Span) {
	if b.tracer == nil {
		return ctx, noop.Span{}
	}
	return b.tracer.StartSpan(ctx, name,
		trace.WithAttributes(observability.AttrType.String(t.String())),
	)
}

func setResultAttributes(span trace.Span, f formatter.Formatter, result negotiation.Result) {
	span.SetAttributes(
		observability.AttrFormatter.String(f.Name()),
		observability.AttrMediaType.String(result.MediaType),
		observability.AttrCharset.String(result.Encoding),
		observability.AttrLanguage.String(result.Language),
	)
}

// addVary appends the negotiation headers to Vary without duplicating them.
func addVary(h http.Header) {
	present := make(map[string]bool)
	for _, v := range h.Values("Vary") {
		for _, name := range strings.Split(v, ",") {
			present[strings.ToLower(strings.TrimSpace(name))] = true
		}
	}
	for _, name := range varyHeaders {
		if !present[strings.ToLower(name)] {
			h.Add("Vary", name)
		}
	}
}
