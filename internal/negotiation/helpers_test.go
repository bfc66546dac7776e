package negotiation

import "reflect"

type user struct {
	Name string
}

var userType = reflect.TypeOf(user{})

// stubHandler is a Handler with fixed capabilities.
type stubHandler struct {
	name       string
	mediaTypes []string
	encodings  []string
	canRead    bool
	canWrite   bool
}

func newStub(name string, mediaTypes []string, encodings ...string) *stubHandler {
	return &stubHandler{
		name:       name,
		mediaTypes: mediaTypes,
		encodings:  encodings,
		canRead:    true,
		canWrite:   true,
	}
}

func (h *stubHandler) SupportedMediaTypes() []string { return h.mediaTypes }
func (h *stubHandler) SupportedEncodings() []string  { return h.encodings }
func (h *stubHandler) CanRead(reflect.Type) bool     { return h.canRead }
func (h *stubHandler) CanWrite(reflect.Type) bool    { return h.canWrite }

// defaultingHandler designates explicit defaults.
type defaultingHandler struct {
	*stubHandler
	defaultMediaType string
	defaultEncoding  string
}

func (h *defaultingHandler) DefaultMediaType() string { return h.defaultMediaType }
func (h *defaultingHandler) DefaultEncoding() string  { return h.defaultEncoding }

func mustRanges(exprs ...string) []MediaTypeRange {
	ranges := make([]MediaTypeRange, 0, len(exprs))
	for _, e := range exprs {
		r, err := ParseMediaTypeRange(e)
		if err != nil {
			panic(err)
		}
		ranges = append(ranges, r)
	}
	return ranges
}

func charsets(exprs ...string) []QualityValue {
	values := make([]QualityValue, 0, len(exprs))
	for _, e := range exprs {
		v, err := ParseQualityValue(e)
		if err != nil {
			panic(err)
		}
		values = append(values, v)
	}
	return values
}

func languages(exprs ...string) []LanguageRange {
	ranges := make([]LanguageRange, 0, len(exprs))
	for _, e := range exprs {
		r, err := ParseLanguageRange(e)
		if err != nil {
			panic(err)
		}
		ranges = append(ranges, r)
	}
	return ranges
}
