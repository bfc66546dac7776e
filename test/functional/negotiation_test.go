//go:build functional
// +build functional

package functional

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/vyrodovalexey/conneg/test/helpers"
)

func TestFunctional_ResponseNegotiation(t *testing.T) {
	inst := startSuite(t)

	tests := []struct {
		name            string
		headers         map[string]string
		wantStatus      int
		wantContentType string
		wantBody        string
	}{
		{
			name:            "no accept header",
			wantStatus:      http.StatusOK,
			wantContentType: "application/json; charset=utf-8",
			wantBody:        `{"id":1,"name":"widget"}`,
		},
		{
			name:            "browser accept",
			headers:         map[string]string{"Accept": "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8"},
			wantStatus:      http.StatusOK,
			wantContentType: "application/xml; charset=utf-8",
			wantBody:        "<name>widget</name>",
		},
		{
			name:            "wildcard subtype",
			headers:         map[string]string{"Accept": "text/*"},
			wantStatus:      http.StatusOK,
			wantContentType: "text/json; charset=utf-8",
			wantBody:        `"name":"widget"`,
		},
		{
			name:            "yaml preferred over json",
			headers:         map[string]string{"Accept": "application/json;q=0.4, application/x-yaml;q=0.6"},
			wantStatus:      http.StatusOK,
			wantContentType: "application/x-yaml; charset=utf-8",
			wantBody:        "name: widget",
		},
		{
			name:       "nothing acceptable",
			headers:    map[string]string{"Accept": "image/webp"},
			wantStatus: http.StatusNotAcceptable,
			wantBody:   "acceptable: application/json",
		},
		{
			name:       "empty accept",
			headers:    map[string]string{"Accept": ""},
			wantStatus: http.StatusNotAcceptable,
		},
		{
			name:       "malformed accept",
			headers:    map[string]string{"Accept": "application/json;q="},
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, body, err := helpers.MakeRequest(http.MethodGet, inst.BaseURL+"/item", "", tt.headers)
			require.NoError(t, err)

			assert.Equal(t, tt.wantStatus, resp.StatusCode)
			assert.Contains(t, string(body), tt.wantBody)
			if tt.wantContentType != "" {
				assert.Equal(t, tt.wantContentType, resp.Header.Get("Content-Type"))
			}
			assert.Contains(t, resp.Header.Values("Vary"), "Accept")
		})
	}
}

func TestFunctional_RequestNegotiation(t *testing.T) {
	inst := startSuite(t)

	tests := []struct {
		name       string
		body       string
		headers    map[string]string
		wantStatus int
		wantBody   string
	}{
		{
			name:       "json in xml out",
			body:       `{"id":7,"name":"gear"}`,
			headers:    map[string]string{"Content-Type": "application/json", "Accept": "text/xml"},
			wantStatus: http.StatusCreated,
			wantBody:   "<id>7</id>",
		},
		{
			name:       "yaml in json out",
			body:       "id: 8\nname: bolt\n",
			headers:    map[string]string{"Content-Type": "text/yaml", "Accept": "application/json"},
			wantStatus: http.StatusCreated,
			wantBody:   `{"id":8,"name":"bolt"}`,
		},
		{
			name:       "utf-16 xml",
			body:       "<\x00i\x00t\x00e\x00m\x00>\x00<\x00/\x00i\x00t\x00e\x00m\x00>\x00",
			headers:    map[string]string{"Content-Type": "application/xml; charset=utf-16", "Accept": "application/json"},
			wantStatus: http.StatusCreated,
			wantBody:   `{"id":0,"name":""}`,
		},
		{
			name:       "unsupported media type",
			body:       "id=1",
			headers:    map[string]string{"Content-Type": "application/x-www-form-urlencoded"},
			wantStatus: http.StatusUnsupportedMediaType,
		},
		{
			name:       "unsupported charset",
			body:       `{"id":1}`,
			headers:    map[string]string{"Content-Type": "application/json; charset=koi8-r"},
			wantStatus: http.StatusUnsupportedMediaType,
		},
		{
			name:       "invalid body",
			body:       `{"id":`,
			headers:    map[string]string{"Content-Type": "application/json"},
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, body, err := helpers.MakeRequest(http.MethodPost, inst.BaseURL+"/item", tt.body, tt.headers)
			require.NoError(t, err)

			assert.Equal(t, tt.wantStatus, resp.StatusCode)
			assert.Contains(t, string(body), tt.wantBody)
		})
	}
}

func TestFunctional_Protobuf(t *testing.T) {
	inst := startSuite(t)

	resp, body, err := helpers.MakeRequest(http.MethodGet, inst.BaseURL+"/value", "",
		map[string]string{"Accept": "application/x-protobuf"})
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/x-protobuf", resp.Header.Get("Content-Type"))

	var value wrapperspb.StringValue
	require.NoError(t, proto.Unmarshal(body, &value))
	assert.Equal(t, "proto value", value.GetValue())

	resp, body, err = helpers.MakeRequest(http.MethodGet, inst.BaseURL+"/value", "",
		map[string]string{"Accept": "application/json"})
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, `"proto value"`, string(body))
}

func TestFunctional_RecoveryAndRequestID(t *testing.T) {
	inst := startSuite(t)

	resp, _, err := helpers.MakeRequest(http.MethodGet, inst.BaseURL+"/panic", "",
		map[string]string{"X-Request-ID": "functional-1"})
	require.NoError(t, err)

	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, "functional-1", resp.Header.Get("X-Request-ID"))
}
