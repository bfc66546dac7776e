package formatter

import (
	"encoding"
	"fmt"
	"io"
	"reflect"
)

// MediaTypeTextPlain is the plain text media type.
const MediaTypeTextPlain = "text/plain"

var (
	textMarshalerType   = reflect.TypeFor[encoding.TextMarshaler]()
	textUnmarshalerType = reflect.TypeFor[encoding.TextUnmarshaler]()
	stringerType        = reflect.TypeFor[fmt.Stringer]()
	byteSliceType       = reflect.TypeFor[[]byte]()
)

// Text reads and writes plain text for strings, byte slices and types
// implementing the encoding.Text(Un)Marshaler interfaces. Writes also accept
// fmt.Stringer.
type Text struct {
	base
}

// NewText creates a text/plain formatter in UTF-8, UTF-16, ISO-8859-1 and
// windows-1252.
func NewText(opts ...Option) (*Text, error) {
	b, err := newBase("text",
		[]string{MediaTypeTextPlain},
		[]string{"utf-8", "utf-16", "iso-8859-1", "windows-1252"},
		opts,
	)
	if err != nil {
		return nil, err
	}
	return &Text{base: b}, nil
}

// CanRead reports whether a text body can be stored in t.
func (f *Text) CanRead(t reflect.Type) bool {
	return f.allowed(t, DirectionRead, func(t reflect.Type) bool {
		return t.Kind() == reflect.String || t == byteSliceType ||
			reflect.PointerTo(t).Implements(textUnmarshalerType)
	})
}

// CanWrite reports whether t has a text representation.
func (f *Text) CanWrite(t reflect.Type) bool {
	return f.allowed(t, DirectionWrite, func(t reflect.Type) bool {
		return t.Kind() == reflect.String || t == byteSliceType ||
			t.Implements(textMarshalerType) || t.Implements(stringerType)
	})
}

// Read stores the whole body of r, converted to UTF-8, in v.
func (f *Text) Read(r io.Reader, v any, charset string) error {
	elem, err := target(v)
	if err != nil {
		return err
	}

	r, err = decodingReader(r, f.resolveEncoding(charset))
	if err != nil {
		return err
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrDecodingFailed, err)
	}

	if u, ok := v.(encoding.TextUnmarshaler); ok {
		if err := u.UnmarshalText(data); err != nil {
			return fmt.Errorf("%w: %w", ErrDecodingFailed, err)
		}
		return nil
	}

	switch {
	case elem.Kind() == reflect.String:
		elem.SetString(string(data))
	case elem.Type() == byteSliceType:
		elem.SetBytes(data)
	default:
		return fmt.Errorf("%w: cannot read text into %T", ErrUnsupportedType, v)
	}
	return nil
}

// Write writes the text form of v in the given charset.
func (f *Text) Write(w io.Writer, v any, charset string) error {
	text, err := textOf(v)
	if err != nil {
		return err
	}

	out, err := encodingWriter(w, f.resolveEncoding(charset))
	if err != nil {
		return err
	}
	if _, err := out.Write(text); err != nil {
		return fmt.Errorf("%w: %w", ErrEncodingFailed, err)
	}
	return out.Close()
}

func textOf(v any) ([]byte, error) {
	switch val := v.(type) {
	case nil:
		return nil, ErrNilValue
	case string:
		return []byte(val), nil
	case []byte:
		return val, nil
	case encoding.TextMarshaler:
		text, err := val.MarshalText()
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrEncodingFailed, err)
		}
		return text, nil
	case fmt.Stringer:
		return []byte(val.String()), nil
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.String {
		return []byte(rv.String()), nil
	}
	return nil, fmt.Errorf("%w: %T has no text form", ErrUnsupportedType, v)
}
