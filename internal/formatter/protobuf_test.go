package formatter

import (
	"bytes"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

func TestProtobuf_CanReadWrite(t *testing.T) {
	f, err := NewProtobuf()
	require.NoError(t, err)

	tests := []struct {
		name string
		typ  reflect.Type
		want bool
	}{
		{name: "message pointer", typ: reflect.TypeFor[*wrapperspb.StringValue](), want: true},
		{name: "message struct", typ: reflect.TypeFor[wrapperspb.StringValue](), want: true},
		{name: "plain struct", typ: greetingType, want: false},
		{name: "string", typ: stringType, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, f.CanRead(tt.typ))
			assert.Equal(t, tt.want, f.CanWrite(tt.typ))
		})
	}
}

func TestProtobuf_RoundTrip(t *testing.T) {
	f, err := NewProtobuf()
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf, wrapperspb.String("hello"), ""))

	want, err := proto.Marshal(wrapperspb.String("hello"))
	require.NoError(t, err)
	assert.Equal(t, want, buf.Bytes())

	got := &wrapperspb.StringValue{}
	require.NoError(t, f.Read(&buf, got, ""))
	assert.Equal(t, "hello", got.GetValue())
}

func TestProtobuf_Errors(t *testing.T) {
	f, err := NewProtobuf()
	require.NoError(t, err)

	assert.ErrorIs(t, f.Write(&bytes.Buffer{}, greeting{}, ""), ErrUnsupportedType)
	assert.ErrorIs(t, f.Read(bytes.NewReader(nil), &greeting{}, ""), ErrUnsupportedType)
	assert.ErrorIs(t, f.Read(bytes.NewReader([]byte{0xff}), &wrapperspb.StringValue{}, ""), ErrDecodingFailed)
}
