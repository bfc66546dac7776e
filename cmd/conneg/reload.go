package main

import (
	"context"

	"github.com/vyrodovalexey/conneg/internal/config"
	"github.com/vyrodovalexey/conneg/internal/observability"
)

// startConfigWatcher watches the configuration file and swaps in a new
// binder when it changes. Only formatters, languages and the default media
// type are reloaded; server and observability settings need a restart.
func startConfigWatcher(ctx context.Context, app *application, configPath string) *config.Watcher {
	watcher, err := config.NewWatcher(configPath, app.applyConfig,
		config.WithLogger(app.logger),
		config.WithCheck(func(cfg *config.Config) error {
			_, err := app.buildBinder(cfg)
			return err
		}),
		config.WithErrorCallback(func(error) {
			app.metrics.RecordReload(false)
		}),
	)
	if err != nil {
		app.logger.Warn("failed to create config watcher", observability.Error(err))
		return nil
	}

	if err := watcher.Start(ctx); err != nil {
		app.logger.Warn("failed to start config watcher", observability.Error(err))
		_ = watcher.Stop()
		return nil
	}

	return watcher
}

// applyConfig builds a binder for cfg and makes it the active one.
func (a *application) applyConfig(cfg *config.Config) {
	b, err := a.buildBinder(cfg)
	if err != nil {
		a.logger.Error("failed to apply configuration", observability.Error(err))
		a.metrics.RecordReload(false)
		return
	}

	a.binder.Store(b)
	a.metrics.RecordReload(true)

	a.logger.Info("negotiation configuration applied",
		observability.Int("formatters", len(cfg.Spec.Formatters)),
		observability.Strings("languages", cfg.Spec.Languages),
		observability.String("default_media_type", cfg.Spec.DefaultMediaType),
	)
}
