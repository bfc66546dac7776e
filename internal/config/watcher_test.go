package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vyrodovalexey/conneg/internal/observability"
)

func writeConfig(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func TestNewWatcher_WithOptions(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "conneg.yaml")
	writeConfig(t, configPath, validConfigYAML)

	logger := observability.NopLogger()
	watcher, err := NewWatcher(configPath, func(*Config) {},
		WithDebounceDelay(200*time.Millisecond),
		WithLogger(logger),
		WithErrorCallback(func(error) {}),
		WithCheck(func(*Config) error { return nil }),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = watcher.Stop() })

	assert.Equal(t, configPath, watcher.path)
	assert.Equal(t, 200*time.Millisecond, watcher.debounce)
	assert.NotNil(t, watcher.logger)
	assert.NotNil(t, watcher.onError)
	assert.NotNil(t, watcher.check)
}

func TestWatcher_Start(t *testing.T) {
	tests := []struct {
		name    string
		content string
		check   CheckFunc
		wantErr bool
	}{
		{name: "valid", content: validConfigYAML},
		{name: "invalid", content: invalidConfigYAML, wantErr: true},
		{name: "unparseable", content: "spec: [", wantErr: true},
		{
			name:    "check rejects",
			content: validConfigYAML,
			check:   func(*Config) error { return errors.New("rejected") },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			configPath := filepath.Join(t.TempDir(), "conneg.yaml")
			writeConfig(t, configPath, tt.content)

			var opts []WatcherOption
			if tt.check != nil {
				opts = append(opts, WithCheck(tt.check))
			}
			watcher, err := NewWatcher(configPath, nil, opts...)
			require.NoError(t, err)
			t.Cleanup(func() { _ = watcher.Stop() })

			err = watcher.Start(context.Background())
			if tt.wantErr {
				assert.Error(t, err)
				assert.Nil(t, watcher.Current())
				return
			}
			require.NoError(t, err)
			require.NotNil(t, watcher.Current())
			assert.Equal(t, "test", watcher.Current().Metadata.Name)

			// Second start is a no-op.
			assert.NoError(t, watcher.Start(context.Background()))
		})
	}
}

func TestWatcher_ReloadsOnChange(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "conneg.yaml")
	writeConfig(t, configPath, validConfigYAML)

	var reloaded atomic.Pointer[Config]
	watcher, err := NewWatcher(configPath, func(cfg *Config) { reloaded.Store(cfg) },
		WithDebounceDelay(10*time.Millisecond),
	)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, watcher.Start(ctx))
	t.Cleanup(func() { _ = watcher.Stop() })

	updated := `
apiVersion: conneg.avapigw.io/v1
kind: ContentNegotiation
metadata:
  name: updated
spec:
  formatters:
    - name: yaml
      kind: yaml
`
	writeConfig(t, configPath, updated)

	require.Eventually(t, func() bool {
		cfg := reloaded.Load()
		return cfg != nil && cfg.Metadata.Name == "updated"
	}, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, "updated", watcher.Current().Metadata.Name)
}

func TestWatcher_InvalidReloadKeepsPrevious(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "conneg.yaml")
	writeConfig(t, configPath, validConfigYAML)

	var reloadErr atomic.Bool
	watcher, err := NewWatcher(configPath, nil,
		WithDebounceDelay(10*time.Millisecond),
		WithErrorCallback(func(error) { reloadErr.Store(true) }),
	)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, watcher.Start(ctx))
	t.Cleanup(func() { _ = watcher.Stop() })

	writeConfig(t, configPath, invalidConfigYAML)

	require.Eventually(t, reloadErr.Load, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, "test", watcher.Current().Metadata.Name)
}

func TestWatcher_ForceReload(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "conneg.yaml")
	writeConfig(t, configPath, validConfigYAML)

	var calls atomic.Int32
	watcher, err := NewWatcher(configPath, func(*Config) { calls.Add(1) })
	require.NoError(t, err)
	t.Cleanup(func() { _ = watcher.Stop() })

	require.NoError(t, watcher.ForceReload())
	assert.Equal(t, int32(1), calls.Load())
	assert.NotNil(t, watcher.Current())

	writeConfig(t, configPath, invalidConfigYAML)
	assert.Error(t, watcher.ForceReload())
	assert.Equal(t, int32(1), calls.Load())
}

func TestWatcher_StopsWithContext(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "conneg.yaml")
	writeConfig(t, configPath, validConfigYAML)

	var calls atomic.Int32
	watcher, err := NewWatcher(configPath, func(*Config) { calls.Add(1) },
		WithDebounceDelay(10*time.Millisecond),
	)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, watcher.Start(ctx))
	cancel()

	done := make(chan error, 1)
	go func() { done <- watcher.Stop() }()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Stop did not return after the context was cancelled")
	}
	assert.Zero(t, calls.Load())
}

func TestWatcher_StopNotRunning(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "conneg.yaml")
	writeConfig(t, configPath, validConfigYAML)

	watcher, err := NewWatcher(configPath, nil)
	require.NoError(t, err)
	assert.NoError(t, watcher.Stop())
}
