package formatter

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"reflect"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/proto"

	"github.com/vyrodovalexey/conneg/internal/config"
)

// JSON media types.
const (
	MediaTypeJSON     = "application/json"
	MediaTypeTextJSON = "text/json"
)

// JSON reads and writes JSON. Protobuf messages go through protojson so that
// field naming and enum options apply; everything else uses encoding/json.
type JSON struct {
	base
	cfg config.JSONFormatterConfig
}

// NewJSON creates a JSON formatter supporting application/json and
// text/json in UTF-8.
func NewJSON(opts ...Option) (*JSON, error) {
	return NewJSONWithConfig(nil, opts...)
}

// NewJSONWithConfig creates a JSON formatter with encoding options.
func NewJSONWithConfig(cfg *config.JSONFormatterConfig, opts ...Option) (*JSON, error) {
	b, err := newBase("json", []string{MediaTypeJSON, MediaTypeTextJSON}, []string{"utf-8"}, opts)
	if err != nil {
		return nil, err
	}

	f := &JSON{base: b}
	if cfg != nil {
		f.cfg = *cfg
	}
	return f, nil
}

// CanRead reports whether t can be decoded from JSON.
func (f *JSON) CanRead(t reflect.Type) bool {
	return f.allowed(t, DirectionRead, serializable)
}

// CanWrite reports whether t can be encoded as JSON.
func (f *JSON) CanWrite(t reflect.Type) bool {
	return f.allowed(t, DirectionWrite, serializable)
}

// Read decodes JSON from r into v.
func (f *JSON) Read(r io.Reader, v any, charset string) error {
	if _, err := target(v); err != nil {
		return err
	}

	r, err := decodingReader(r, f.resolveEncoding(charset))
	if err != nil {
		return err
	}

	if msg, ok := v.(proto.Message); ok {
		data, err := io.ReadAll(r)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrDecodingFailed, err)
		}
		opts := protojson.UnmarshalOptions{DiscardUnknown: true}
		if err := opts.Unmarshal(data, msg); err != nil {
			return fmt.Errorf("%w: %w", ErrDecodingFailed, err)
		}
		return nil
	}

	decoder := json.NewDecoder(r)
	// Keep number precision for untyped targets.
	decoder.UseNumber()

	if err := decoder.Decode(v); err != nil {
		return fmt.Errorf("%w: %w", ErrDecodingFailed, err)
	}
	return nil
}

// Write encodes v as JSON to w.
func (f *JSON) Write(w io.Writer, v any, charset string) error {
	if v == nil {
		return ErrNilValue
	}

	data, err := f.marshal(v)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrEncodingFailed, err)
	}

	out, err := encodingWriter(w, f.resolveEncoding(charset))
	if err != nil {
		return err
	}
	if _, err := out.Write(data); err != nil {
		return err
	}
	return out.Close()
}

func (f *JSON) marshal(v any) ([]byte, error) {
	if msg, ok := v.(proto.Message); ok {
		opts := protojson.MarshalOptions{
			EmitUnpopulated: f.cfg.EmitDefaults,
			UseProtoNames:   f.cfg.UseProtoNames,
			UseEnumNumbers:  f.cfg.EnumAsIntegers,
		}
		if f.cfg.PrettyPrint {
			opts.Multiline = true
			opts.Indent = "  "
		}
		return opts.Marshal(msg)
	}

	var buf bytes.Buffer
	encoder := json.NewEncoder(&buf)
	if f.cfg.PrettyPrint {
		encoder.SetIndent("", "  ")
	}
	if err := encoder.Encode(v); err != nil {
		return nil, err
	}

	// Remove trailing newline added by encoder
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}
