// Package helpers provides common test utilities for the conneg tests.
package helpers

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/vyrodovalexey/conneg/internal/binding"
	"github.com/vyrodovalexey/conneg/internal/config"
	"github.com/vyrodovalexey/conneg/internal/middleware"
	"github.com/vyrodovalexey/conneg/internal/observability"
	"github.com/vyrodovalexey/conneg/internal/server"
)

// Instance is a running server with its binder.
type Instance struct {
	Server  *server.Server
	Binder  *binding.Binder
	BaseURL string
}

// TestConfig returns a configuration listening on a random local port.
func TestConfig() *config.Config {
	cfg := config.DefaultConfig()
	cfg.Spec.Server.Address = "127.0.0.1:0"
	cfg.ApplyDefaults()
	return cfg
}

// StartServer starts a server for cfg. register adds routes using the
// binder built from cfg.
func StartServer(
	ctx context.Context,
	cfg *config.Config,
	logger observability.Logger,
	register func(srv *server.Server, b *binding.Binder),
) (*Instance, error) {
	b, err := binding.NewFromConfig(cfg, binding.WithLogger(logger))
	if err != nil {
		return nil, err
	}

	srv := server.New(cfg.Spec.Server, server.WithLogger(logger))
	srv.Engine().Use(
		middleware.RequestID(),
		middleware.Logging(logger),
		middleware.Recovery(logger),
	)
	register(srv, b)

	if err := srv.Start(ctx); err != nil {
		return nil, err
	}

	inst := &Instance{Server: srv, Binder: b, BaseURL: "http://" + srv.Addr()}
	if err := WaitForReady(inst.BaseURL, 5*time.Second); err != nil {
		_ = srv.Stop(ctx)
		return nil, err
	}
	return inst, nil
}

// Stop stops the server.
func (i *Instance) Stop(ctx context.Context) error {
	return i.Server.Stop(ctx)
}

// WaitForReady polls url until it answers or the timeout expires.
func WaitForReady(url string, timeout time.Duration) error {
	client := HTTPClient()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		resp, err := client.Get(url)
		if err == nil {
			_ = resp.Body.Close()
			return nil
		}
		time.Sleep(20 * time.Millisecond)
	}
	return fmt.Errorf("server at %s not ready after %s", url, timeout)
}

// HTTPClient returns an HTTP client for tests.
func HTTPClient() *http.Client {
	return &http.Client{Timeout: 10 * time.Second}
}

// MakeRequest sends a request with the given headers and returns the
// response and its body.
func MakeRequest(method, url, body string, headers map[string]string) (*http.Response, []byte, error) {
	req, err := http.NewRequest(method, url, strings.NewReader(body))
	if err != nil {
		return nil, nil, err
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := HTTPClient().Do(req)
	if err != nil {
		return nil, nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, err
	}
	return resp, data, nil
}

// WriteConfigFile writes content to name inside dir and returns the path.
func WriteConfigFile(dir, name, content string) (string, error) {
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		return "", err
	}
	return path, nil
}
