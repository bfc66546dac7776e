package formatter

import (
	"errors"
	"fmt"
	"io"
	"reflect"

	"gopkg.in/yaml.v3"
)

// YAML media types.
const (
	MediaTypeYAML     = "application/yaml"
	MediaTypeXYAML    = "application/x-yaml"
	MediaTypeTextYAML = "text/yaml"
	yamlIndentSpaces  = 2
)

// YAML reads and writes YAML documents.
type YAML struct {
	base
}

// NewYAML creates a YAML formatter supporting application/yaml,
// application/x-yaml and text/yaml in UTF-8.
func NewYAML(opts ...Option) (*YAML, error) {
	b, err := newBase("yaml",
		[]string{MediaTypeYAML, MediaTypeXYAML, MediaTypeTextYAML},
		[]string{"utf-8"},
		opts,
	)
	if err != nil {
		return nil, err
	}
	return &YAML{base: b}, nil
}

// CanRead reports whether t can be decoded from YAML.
func (f *YAML) CanRead(t reflect.Type) bool {
	return f.allowed(t, DirectionRead, serializable)
}

// CanWrite reports whether t can be encoded as YAML.
func (f *YAML) CanWrite(t reflect.Type) bool {
	return f.allowed(t, DirectionWrite, serializable)
}

// Read decodes the first YAML document in r into v. An empty body leaves v
// untouched.
func (f *YAML) Read(r io.Reader, v any, charset string) error {
	if _, err := target(v); err != nil {
		return err
	}

	r, err := decodingReader(r, f.resolveEncoding(charset))
	if err != nil {
		return err
	}

	if err := yaml.NewDecoder(r).Decode(v); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("%w: %w", ErrDecodingFailed, err)
	}
	return nil
}

// Write encodes v as a YAML document.
func (f *YAML) Write(w io.Writer, v any, charset string) error {
	if v == nil {
		return ErrNilValue
	}

	out, err := encodingWriter(w, f.resolveEncoding(charset))
	if err != nil {
		return err
	}

	encoder := yaml.NewEncoder(out)
	encoder.SetIndent(yamlIndentSpaces)
	if err := encoder.Encode(v); err != nil {
		return fmt.Errorf("%w: %w", ErrEncodingFailed, err)
	}
	if err := encoder.Close(); err != nil {
		return fmt.Errorf("%w: %w", ErrEncodingFailed, err)
	}
	return out.Close()
}
