package formatter

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestByteStream(t *testing.T) {
	f, err := NewByteStream()
	require.NoError(t, err)

	assert.True(t, f.CanRead(byteSliceType))
	assert.True(t, f.CanWrite(byteSliceType))
	assert.False(t, f.CanRead(stringType))
	assert.False(t, f.CanWrite(greetingType))
	assert.Empty(t, f.SupportedEncodings())

	var data []byte
	require.NoError(t, f.Read(strings.NewReader("\x00\x01binary"), &data, ""))
	assert.Equal(t, []byte("\x00\x01binary"), data)

	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf, data, ""))
	assert.Equal(t, data, buf.Bytes())
}

func TestByteStream_Errors(t *testing.T) {
	f, err := NewByteStream()
	require.NoError(t, err)

	var s string
	assert.ErrorIs(t, f.Read(strings.NewReader("x"), &s, ""), ErrUnsupportedType)
	assert.ErrorIs(t, f.Write(&bytes.Buffer{}, "x", ""), ErrUnsupportedType)
}
