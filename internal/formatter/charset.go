package formatter

import (
	"fmt"
	"io"
	"slices"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/transform"
)

// lookupCharset resolves a charset label. UTF-8 and its aliases resolve to
// nil, meaning no transcoding is needed.
func lookupCharset(label string) (encoding.Encoding, error) {
	if label == "" || isUTF8(label) {
		return nil, nil
	}
	enc, err := htmlindex.Get(label)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedCharset, label)
	}
	return enc, nil
}

func isUTF8(label string) bool {
	switch strings.ToLower(label) {
	case "utf-8", "utf8", "unicode-1-1-utf-8":
		return true
	}
	return false
}

// decodingReader returns a reader that yields UTF-8 from r, which holds text
// in the given charset.
func decodingReader(r io.Reader, charset string) (io.Reader, error) {
	enc, err := lookupCharset(charset)
	if err != nil || enc == nil {
		return r, err
	}
	return transform.NewReader(r, enc.NewDecoder()), nil
}

// encodingWriter returns a writer that transcodes UTF-8 into the given
// charset on its way to w. Close must be called to flush it.
func encodingWriter(w io.Writer, charset string) (io.WriteCloser, error) {
	enc, err := lookupCharset(charset)
	if err != nil {
		return nil, err
	}
	if enc == nil {
		return nopCloser{w}, nil
	}
	return transform.NewWriter(w, enc.NewEncoder()), nil
}

type nopCloser struct {
	io.Writer
}

func (nopCloser) Close() error { return nil }

// findFold returns the element of values equal to s under case folding.
func findFold(values []string, s string) (string, bool) {
	i := slices.IndexFunc(values, func(v string) bool {
		return strings.EqualFold(v, s)
	})
	if i < 0 {
		return "", false
	}
	return values[i], true
}
