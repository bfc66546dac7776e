package formatter

import (
	"bytes"
	"net"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type shout string

func (s shout) String() string { return strings.ToUpper(string(s)) }

type label string

func TestText_CanReadWrite(t *testing.T) {
	f, err := NewText()
	require.NoError(t, err)

	tests := []struct {
		name      string
		typ       reflect.Type
		wantRead  bool
		wantWrite bool
	}{
		{name: "string", typ: stringType, wantRead: true, wantWrite: true},
		{name: "bytes", typ: byteSliceType, wantRead: true, wantWrite: true},
		{name: "text marshaler", typ: reflect.TypeFor[time.Time](), wantRead: true, wantWrite: true},
		{name: "stringer", typ: reflect.TypeFor[net.IPMask](), wantRead: false, wantWrite: true},
		{name: "struct", typ: greetingType, wantRead: false, wantWrite: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantRead, f.CanRead(tt.typ))
			assert.Equal(t, tt.wantWrite, f.CanWrite(tt.typ))
		})
	}
}

func TestText_Write(t *testing.T) {
	f, err := NewText()
	require.NoError(t, err)

	tests := []struct {
		name    string
		value   any
		charset string
		want    []byte
	}{
		{name: "string utf-8", value: "café", want: []byte("café")},
		{name: "latin1", value: "café", charset: "iso-8859-1", want: []byte{'c', 'a', 'f', 0xE9}},
		{name: "utf-16", value: "hi", charset: "utf-16", want: []byte{'h', 0, 'i', 0}},
		{name: "bytes", value: []byte("raw"), want: []byte("raw")},
		{name: "stringer", value: shout("hey"), want: []byte("HEY")},
		{name: "named string kind", value: label("x"), want: []byte("x")},
		{
			name:  "text marshaler",
			value: time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
			want:  []byte("2024-01-02T03:04:05Z"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, f.Write(&buf, tt.value, tt.charset))
			assert.Equal(t, tt.want, buf.Bytes())
		})
	}
}

func TestText_Read(t *testing.T) {
	f, err := NewText()
	require.NoError(t, err)

	var s string
	require.NoError(t, f.Read(bytes.NewReader([]byte{'c', 'a', 'f', 0xE9}), &s, "iso-8859-1"))
	assert.Equal(t, "café", s)

	var b []byte
	require.NoError(t, f.Read(strings.NewReader("bytes"), &b, ""))
	assert.Equal(t, []byte("bytes"), b)

	var ts time.Time
	require.NoError(t, f.Read(strings.NewReader("2024-01-02T03:04:05Z"), &ts, ""))
	assert.Equal(t, 2024, ts.Year())
}

func TestText_Errors(t *testing.T) {
	f, err := NewText()
	require.NoError(t, err)

	var g greeting
	assert.ErrorIs(t, f.Read(strings.NewReader("x"), &g, ""), ErrUnsupportedType)

	var ts time.Time
	assert.ErrorIs(t, f.Read(strings.NewReader("not a time"), &ts, ""), ErrDecodingFailed)

	assert.ErrorIs(t, f.Write(&bytes.Buffer{}, nil, ""), ErrNilValue)
	assert.ErrorIs(t, f.Write(&bytes.Buffer{}, 42, ""), ErrUnsupportedType)
	assert.ErrorIs(t, f.Write(&bytes.Buffer{}, "x", "klingon"), ErrUnsupportedCharset)
}
