package headers

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vyrodovalexey/conneg/internal/negotiation"
)

func header(kv ...string) http.Header {
	h := make(http.Header)
	for i := 0; i < len(kv); i += 2 {
		h.Add(kv[i], kv[i+1])
	}
	return h
}

func TestParse(t *testing.T) {
	tests := []struct {
		name   string
		header http.Header
		check  func(t *testing.T, got negotiation.RequestHeaders)
	}{
		{
			name:   "no headers",
			header: header(),
			check: func(t *testing.T, got negotiation.RequestHeaders) {
				assert.Nil(t, got.Accept)
				assert.Nil(t, got.AcceptCharset)
				assert.Nil(t, got.AcceptLanguage)
				assert.Empty(t, got.ContentType)
				assert.Empty(t, got.ContentLanguage)
			},
		},
		{
			name:   "content headers verbatim",
			header: header("Content-Type", " application/json; charset=utf-8 ", "Content-Language", "de-DE"),
			check: func(t *testing.T, got negotiation.RequestHeaders) {
				assert.Equal(t, "application/json; charset=utf-8", got.ContentType)
				assert.Equal(t, "de-DE", got.ContentLanguage)
			},
		},
		{
			name:   "accept list across repeated headers",
			header: header("Accept", "text/html, application/json;q=0.9", "Accept", "*/*;q=0.1"),
			check: func(t *testing.T, got negotiation.RequestHeaders) {
				assert.Equal(t, []string{"text/html", "application/json;q=0.9", "*/*;q=0.1"}, got.Accept)
			},
		},
		{
			name:   "quoted comma does not split",
			header: header("Accept", `application/json;profile="a,b", text/xml`),
			check: func(t *testing.T, got negotiation.RequestHeaders) {
				assert.Equal(t, []string{`application/json;profile="a,b"`, "text/xml"}, got.Accept)
			},
		},
		{
			name:   "empty accept is present and accepts nothing",
			header: header("Accept", " , "),
			check: func(t *testing.T, got negotiation.RequestHeaders) {
				assert.NotNil(t, got.Accept)
				assert.Empty(t, got.Accept)
			},
		},
		{
			name:   "blank accept value is present",
			header: header("Accept", ""),
			check: func(t *testing.T, got negotiation.RequestHeaders) {
				assert.NotNil(t, got.Accept)
				assert.Empty(t, got.Accept)
			},
		},
		{
			name:   "charsets parsed with quality",
			header: header("Accept-Charset", "utf-8, iso-8859-1;q=0.5"),
			check: func(t *testing.T, got negotiation.RequestHeaders) {
				require.Len(t, got.AcceptCharset, 2)
				assert.Equal(t, "utf-8", got.AcceptCharset[0].Value)
				assert.Equal(t, 1.0, got.AcceptCharset[0].Quality)
				assert.Equal(t, "iso-8859-1", got.AcceptCharset[1].Value)
				assert.Equal(t, 0.5, got.AcceptCharset[1].Quality)
			},
		},
		{
			name:   "languages parsed with wildcard",
			header: header("Accept-Language", "en-GB, en;q=0.8, *;q=0.1"),
			check: func(t *testing.T, got negotiation.RequestHeaders) {
				assert.Equal(t, []negotiation.LanguageRange{
					{Tag: "en-GB", Quality: 1},
					{Tag: "en", Quality: 0.8},
					{Tag: "*", Quality: 0.1},
				}, got.AcceptLanguage)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.header)
			require.NoError(t, err)
			tt.check(t, got)
		})
	}
}

func TestParse_Malformed(t *testing.T) {
	tests := []struct {
		name       string
		header     http.Header
		wantHeader string
	}{
		{
			name:       "bad charset quality",
			header:     header("Accept-Charset", "utf-8;q=high"),
			wantHeader: negotiation.HeaderAcceptCharset,
		},
		{
			name:       "bad language quality",
			header:     header("Accept-Language", "en;q=x"),
			wantHeader: negotiation.HeaderAcceptLanguage,
		},
		{
			name:       "invalid language tag",
			header:     header("Accept-Language", "en, not a tag"),
			wantHeader: negotiation.HeaderAcceptLanguage,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.header)
			require.Error(t, err)
			assert.ErrorIs(t, err, negotiation.ErrMalformedHeader)

			var malformed *negotiation.MalformedHeaderError
			require.True(t, errors.As(err, &malformed))
			assert.Equal(t, tt.wantHeader, malformed.Header)
		})
	}
}

func TestFromRequest(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Accept", "application/xml")

	got, err := FromRequest(req)
	require.NoError(t, err)
	assert.Equal(t, []string{"application/xml"}, got.Accept)
}

func TestSplitList(t *testing.T) {
	tests := []struct {
		name   string
		values []string
		want   []string
	}{
		{name: "nil", values: nil, want: nil},
		{name: "blank entries dropped", values: []string{"a,,b, "}, want: []string{"a", "b"}},
		{name: "escaped quote", values: []string{`x;p="a\",b", y`}, want: []string{`x;p="a\",b"`, "y"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SplitList(tt.values))
		})
	}
}

func TestParseContent(t *testing.T) {
	h := header(
		"Content-Type", " application/json ",
		"Content-Language", "de",
		"Accept", "text/html",
		"Accept-Language", "en;q=abc",
		"Accept-Charset", "utf-8;q=x",
	)

	got := ParseContent(h)

	assert.Equal(t, "application/json", got.ContentType)
	assert.Equal(t, "de", got.ContentLanguage)
	assert.Nil(t, got.Accept)
	assert.Nil(t, got.AcceptCharset)
	assert.Nil(t, got.AcceptLanguage)
}
