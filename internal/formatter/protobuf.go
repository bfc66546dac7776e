package formatter

import (
	"fmt"
	"io"
	"reflect"

	"google.golang.org/protobuf/proto"
)

// Protocol Buffers media types.
const (
	MediaTypeProtobuf  = "application/protobuf"
	MediaTypeXProtobuf = "application/x-protobuf"
)

var protoMessageType = reflect.TypeFor[proto.Message]()

// Protobuf reads and writes binary protobuf messages. It has no charsets.
type Protobuf struct {
	base
}

// NewProtobuf creates a Protocol Buffers formatter.
func NewProtobuf(opts ...Option) (*Protobuf, error) {
	b, err := newBase("protobuf", []string{MediaTypeProtobuf, MediaTypeXProtobuf}, nil, opts)
	if err != nil {
		return nil, err
	}
	return &Protobuf{base: b}, nil
}

// CanRead reports whether t is a protobuf message type.
func (f *Protobuf) CanRead(t reflect.Type) bool {
	return f.allowed(t, DirectionRead, isProtoMessage)
}

// CanWrite reports whether t is a protobuf message type.
func (f *Protobuf) CanWrite(t reflect.Type) bool {
	return f.allowed(t, DirectionWrite, isProtoMessage)
}

// Read decodes a binary message from r into v, which must be a
// proto.Message.
func (f *Protobuf) Read(r io.Reader, v any, _ string) error {
	msg, ok := v.(proto.Message)
	if !ok {
		return fmt.Errorf("%w: %T is not a protobuf message", ErrUnsupportedType, v)
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrDecodingFailed, err)
	}
	if err := proto.Unmarshal(data, msg); err != nil {
		return fmt.Errorf("%w: %w", ErrDecodingFailed, err)
	}
	return nil
}

// Write encodes v in the protobuf wire format.
func (f *Protobuf) Write(w io.Writer, v any, _ string) error {
	msg, ok := v.(proto.Message)
	if !ok {
		return fmt.Errorf("%w: %T is not a protobuf message", ErrUnsupportedType, v)
	}

	data, err := proto.Marshal(msg)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrEncodingFailed, err)
	}
	_, err = w.Write(data)
	return err
}

// isProtoMessage accepts both message structs and pointers to them.
func isProtoMessage(t reflect.Type) bool {
	if t.Implements(protoMessageType) {
		return true
	}
	return t.Kind() != reflect.Pointer && reflect.PointerTo(t).Implements(protoMessageType)
}
