//go:build functional
// +build functional

/*
Package functional provides functional tests for content negotiation over a
real HTTP server.
*/
package functional

import (
	"context"
	"encoding/xml"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/vyrodovalexey/conneg/internal/binding"
	"github.com/vyrodovalexey/conneg/internal/config"
	"github.com/vyrodovalexey/conneg/internal/observability"
	"github.com/vyrodovalexey/conneg/internal/server"
	"github.com/vyrodovalexey/conneg/test/helpers"
)

// item is the resource served by the test routes.
type item struct {
	XMLName xml.Name `xml:"item" json:"-" yaml:"-"`
	ID      int      `xml:"id" json:"id" yaml:"id"`
	Name    string   `xml:"name" json:"name" yaml:"name"`
}

// startSuite starts a server with the default formatters plus protobuf.
func startSuite(t *testing.T) *helpers.Instance {
	t.Helper()

	cfg := helpers.TestConfig()
	cfg.Spec.Languages = []string{"en", "de"}
	cfg.Spec.Formatters = append(cfg.Spec.Formatters,
		config.FormatterConfig{Name: "protobuf", Kind: config.FormatterKindProtobuf})

	logger := observability.NewZapLogger(zaptest.NewLogger(t))

	ctx := context.Background()
	inst, err := helpers.StartServer(ctx, cfg, logger, registerRoutes)
	require.NoError(t, err)

	t.Cleanup(func() {
		stopCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = inst.Stop(stopCtx)
	})
	return inst
}

func registerRoutes(srv *server.Server, b *binding.Binder) {
	engine := srv.Engine()

	engine.GET("/", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	engine.GET("/item", func(c *gin.Context) {
		b.RenderGin(c, http.StatusOK, item{ID: 1, Name: "widget"})
	})

	engine.POST("/item", func(c *gin.Context) {
		var in item
		if err := b.BindGin(c, &in); err != nil {
			return
		}
		b.RenderGin(c, http.StatusCreated, in)
	})

	engine.GET("/value", func(c *gin.Context) {
		b.RenderGin(c, http.StatusOK, wrapperspb.String("proto value"))
	})

	engine.GET("/panic", func(c *gin.Context) {
		panic("handler failure")
	})
}
