package binding

import (
	"encoding/xml"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vyrodovalexey/conneg/internal/config"
)

type greeting struct {
	XMLName xml.Name `xml:"greeting" json:"-" yaml:"-"`
	Message string   `xml:"message" json:"message" yaml:"message"`
}

func newTestBinder(t *testing.T, opts ...Option) *Binder {
	t.Helper()

	cfg := config.DefaultConfig()
	cfg.Spec.Languages = []string{"en", "de"}

	b, err := NewFromConfig(cfg, opts...)
	require.NoError(t, err)
	return b
}
