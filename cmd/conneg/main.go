// Package main is the entry point for the content negotiation server.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/vyrodovalexey/conneg/internal/config"
	"github.com/vyrodovalexey/conneg/internal/observability"
)

// Version information (set at build time).
var (
	version   = "dev"
	buildTime = "unknown"
	gitCommit = "unknown"
)

// cliFlags holds command line flags.
type cliFlags struct {
	configPath  string
	logLevel    string
	logFormat   string
	showVersion bool
}

func main() {
	flags := parseFlags()

	if flags.showVersion {
		printVersion()
		return
	}

	cfg, configPath, err := loadConfig(flags.configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := initLogger(cfg, flags)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("starting conneg",
		observability.String("version", version),
		observability.String("config", configPath),
		observability.String("name", cfg.Metadata.Name),
		observability.Int("formatters", len(cfg.Spec.Formatters)),
		observability.Strings("languages", cfg.Spec.Languages),
	)

	app, err := newApplication(cfg, logger)
	if err != nil {
		logger.Fatal("failed to initialize application", observability.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, app, configPath, logger); err != nil {
		logger.Error("server stopped with error", observability.Error(err))
		_ = logger.Sync()
		os.Exit(1)
	}
}

// parseFlags parses command line flags.
func parseFlags() cliFlags {
	configPath := flag.String("config", envOrDefault("CONFIG_PATH", ""),
		"Path to configuration file (built-in defaults when empty)")
	logLevel := flag.String("log-level", envOrDefault("LOG_LEVEL", ""),
		"Log level override (debug, info, warn, error)")
	logFormat := flag.String("log-format", envOrDefault("LOG_FORMAT", ""),
		"Log format override (json, console)")
	showVersion := flag.Bool("version", false, "Show version information")
	flag.Parse()

	return cliFlags{
		configPath:  *configPath,
		logLevel:    *logLevel,
		logFormat:   *logFormat,
		showVersion: *showVersion,
	}
}

// printVersion prints version information.
func printVersion() {
	fmt.Printf("conneg version %s\n", version)
	fmt.Printf("  Build time: %s\n", buildTime)
	fmt.Printf("  Git commit: %s\n", gitCommit)
}

// loadConfig loads and validates the configuration file, falling back to
// the built-in defaults when no path is given. The resolved path is returned
// for the watcher.
func loadConfig(path string) (*config.Config, string, error) {
	if path == "" {
		cfg := config.DefaultConfig()
		cfg.ApplyDefaults()
		return cfg, "", nil
	}

	resolved, err := config.ResolveConfigPath(path)
	if err != nil {
		return nil, "", err
	}

	cfg, err := config.LoadConfig(resolved)
	if err != nil {
		return nil, "", err
	}
	if err := config.ValidateConfig(cfg); err != nil {
		return nil, "", err
	}
	return cfg, resolved, nil
}

// initLogger builds the logger from the configuration; flags override the
// configured level and format.
func initLogger(cfg *config.Config, flags cliFlags) (observability.Logger, error) {
	logCfg := observability.DefaultLogConfig()
	if o := cfg.Spec.Observability; o != nil && o.Logging != nil {
		if o.Logging.Level != "" {
			logCfg.Level = o.Logging.Level
		}
		if o.Logging.Format != "" {
			logCfg.Format = o.Logging.Format
		}
		if o.Logging.Output != "" {
			logCfg.Output = o.Logging.Output
		}
	}
	if flags.logLevel != "" {
		logCfg.Level = flags.logLevel
	}
	if flags.logFormat != "" {
		logCfg.Format = flags.logFormat
	}
	return observability.NewLogger(logCfg)
}
