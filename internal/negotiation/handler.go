package negotiation

import "reflect"

// Handler is a content handler (media type formatter) that the negotiator
// selects from. Implementations must not change their answers after being
// registered with a Negotiator.
type Handler interface {
	// SupportedMediaTypes returns the media types the handler reads and
	// writes, most preferred first.
	SupportedMediaTypes() []string

	// SupportedEncodings returns the character encodings the handler can
	// use, most preferred first. It may be empty for binary formats.
	SupportedEncodings() []string

	// CanRead reports whether the handler can decode a body into t.
	CanRead(t reflect.Type) bool

	// CanWrite reports whether the handler can encode a value of type t.
	CanWrite(t reflect.Type) bool
}

// DefaultMediaTyper is implemented by handlers that designate a default media
// type other than their first supported one.
type DefaultMediaTyper interface {
	DefaultMediaType() string
}

// DefaultEncoder is implemented by handlers that designate a default
// encoding other than their first supported one.
type DefaultEncoder interface {
	DefaultEncoding() string
}

// DefaultMediaType returns the designated default media type of h: the value
// of its DefaultMediaType method when it has one, else its first supported
// media type, else "".
func DefaultMediaType(h Handler) string {
	if d, ok := h.(DefaultMediaTyper); ok {
		if mt := d.DefaultMediaType(); mt != "" {
			return mt
		}
	}
	if types := h.SupportedMediaTypes(); len(types) > 0 {
		return types[0]
	}
	return ""
}

// DefaultEncoding returns the designated default encoding of h, following
// the same rules as DefaultMediaType.
func DefaultEncoding(h Handler) string {
	if d, ok := h.(DefaultEncoder); ok {
		if enc := d.DefaultEncoding(); enc != "" {
			return enc
		}
	}
	if encodings := h.SupportedEncodings(); len(encodings) > 0 {
		return encodings[0]
	}
	return ""
}
