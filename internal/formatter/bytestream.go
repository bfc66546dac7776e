package formatter

import (
	"fmt"
	"io"
	"reflect"

	"github.com/vyrodovalexey/conneg/internal/negotiation"
)

// ByteStream passes raw bytes through untouched. It is the reader used for
// request bodies that arrive without a Content-Type.
type ByteStream struct {
	base
}

// NewByteStream creates an application/octet-stream formatter.
func NewByteStream(opts ...Option) (*ByteStream, error) {
	b, err := newBase("octet-stream", []string{negotiation.DefaultMediaTypeOctetStream}, nil, opts)
	if err != nil {
		return nil, err
	}
	return &ByteStream{base: b}, nil
}

// CanRead reports whether t is a byte slice.
func (f *ByteStream) CanRead(t reflect.Type) bool {
	return f.allowed(t, DirectionRead, func(t reflect.Type) bool {
		return t == byteSliceType
	})
}

// CanWrite reports whether t is a byte slice.
func (f *ByteStream) CanWrite(t reflect.Type) bool {
	return f.allowed(t, DirectionWrite, func(t reflect.Type) bool {
		return t == byteSliceType
	})
}

// Read copies r into v, which must be a *[]byte.
func (f *ByteStream) Read(r io.Reader, v any, _ string) error {
	dst, ok := v.(*[]byte)
	if !ok || dst == nil {
		return fmt.Errorf("%w: byte stream reads into *[]byte, got %T", ErrUnsupportedType, v)
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrDecodingFailed, err)
	}
	*dst = data
	return nil
}

// Write copies v, which must be a []byte, to w.
func (f *ByteStream) Write(w io.Writer, v any, _ string) error {
	data, ok := v.([]byte)
	if !ok {
		return fmt.Errorf("%w: byte stream writes []byte, got %T", ErrUnsupportedType, v)
	}
	_, err := w.Write(data)
	return err
}
