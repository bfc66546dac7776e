package formatter

import (
	"encoding/xml"
	"fmt"
	"io"
	"reflect"
	"strings"
)

// XML media types.
const (
	MediaTypeXML     = "application/xml"
	MediaTypeTextXML = "text/xml"
)

var (
	xmlMarshalerType   = reflect.TypeFor[xml.Marshaler]()
	xmlUnmarshalerType = reflect.TypeFor[xml.Unmarshaler]()
)

// XML reads and writes XML documents.
type XML struct {
	base
	indent bool
}

// NewXML creates an XML formatter supporting application/xml and text/xml
// in UTF-8, UTF-16 and ISO-8859-1.
func NewXML(opts ...Option) (*XML, error) {
	b, err := newBase("xml",
		[]string{MediaTypeXML, MediaTypeTextXML},
		[]string{"utf-8", "utf-16", "iso-8859-1"},
		opts,
	)
	if err != nil {
		return nil, err
	}
	return &XML{base: b, indent: true}, nil
}

// CanRead reports whether t can be decoded from XML. Only structs and
// custom unmarshalers have a defined XML mapping.
func (f *XML) CanRead(t reflect.Type) bool {
	return f.allowed(t, DirectionRead, func(t reflect.Type) bool {
		return isStruct(t) || reflect.PointerTo(t).Implements(xmlUnmarshalerType)
	})
}

// CanWrite reports whether t can be encoded as XML.
func (f *XML) CanWrite(t reflect.Type) bool {
	return f.allowed(t, DirectionWrite, func(t reflect.Type) bool {
		return isStruct(t) || t.Implements(xmlMarshalerType)
	})
}

// Read decodes XML from r into v. The body is transcoded to UTF-8 first, so
// the encoding named in the XML declaration is not consulted.
func (f *XML) Read(r io.Reader, v any, charset string) error {
	if _, err := target(v); err != nil {
		return err
	}

	r, err := decodingReader(r, f.resolveEncoding(charset))
	if err != nil {
		return err
	}

	decoder := xml.NewDecoder(r)
	decoder.CharsetReader = func(_ string, input io.Reader) (io.Reader, error) {
		return input, nil
	}

	if err := decoder.Decode(v); err != nil {
		return fmt.Errorf("%w: %w", ErrDecodingFailed, err)
	}
	return nil
}

// Write encodes v as an XML document with a declaration naming the charset.
func (f *XML) Write(w io.Writer, v any, charset string) error {
	if v == nil {
		return ErrNilValue
	}

	charset = f.resolveEncoding(charset)
	out, err := encodingWriter(w, charset)
	if err != nil {
		return err
	}

	declared := charset
	if declared == "" {
		declared = "utf-8"
	}
	if _, err := io.WriteString(out, `<?xml version="1.0" encoding="`+strings.ToUpper(declared)+`"?>`+"\n"); err != nil {
		return err
	}

	encoder := xml.NewEncoder(out)
	if f.indent {
		encoder.Indent("", "  ")
	}
	if err := encoder.Encode(v); err != nil {
		return fmt.Errorf("%w: %w", ErrEncodingFailed, err)
	}
	if err := encoder.Close(); err != nil {
		return fmt.Errorf("%w: %w", ErrEncodingFailed, err)
	}
	return out.Close()
}

func isStruct(t reflect.Type) bool {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t.Kind() == reflect.Struct
}
