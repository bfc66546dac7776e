package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecovery(t *testing.T) {
	gin.SetMode(gin.TestMode)
	logger, buf := newBufferLogger(t)

	router := gin.New()
	router.Use(Recovery(logger))
	router.GET("/panic", func(c *gin.Context) {
		panic("test panic")
	})
	router.GET("/ok", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})

	t.Run("recovers from panic", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/panic", nil))

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.JSONEq(t, `{"error":"internal server error"}`, w.Body.String())

		lines := logLines(t, buf)
		require.Len(t, lines, 1)
		assert.Equal(t, "panic recovered", lines[0]["message"])
		assert.Equal(t, "test panic", lines[0]["error"])
		assert.NotEmpty(t, lines[0]["stack"])
	})

	t.Run("normal request passes through", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ok", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "OK", w.Body.String())
	})
}

func TestRecoveryWithConfig(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name       string
		config     RecoveryConfig
		wantStatus int
		wantStack  bool
	}{
		{
			name:       "without stack trace",
			config:     RecoveryConfig{},
			wantStatus: http.StatusInternalServerError,
		},
		{
			name: "custom panic handler",
			config: RecoveryConfig{
				EnableStackTrace: true,
				PanicHandler: func(c *gin.Context, _ any) {
					c.String(http.StatusServiceUnavailable, "try later")
				},
			},
			wantStatus: http.StatusServiceUnavailable,
			wantStack:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, buf := newBufferLogger(t)
			tt.config.Logger = logger

			router := gin.New()
			router.Use(RecoveryWithConfig(tt.config))
			router.GET("/", func(c *gin.Context) { panic("boom") })

			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

			assert.Equal(t, tt.wantStatus, w.Code)
			lines := logLines(t, buf)
			require.Len(t, lines, 1)
			_, hasStack := lines[0]["stack"]
			assert.Equal(t, tt.wantStack, hasStack)
		})
	}
}

func TestRecovery_NilLogger(t *testing.T) {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.Use(Recovery(nil))
	router.GET("/", func(c *gin.Context) { panic("boom") })

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
