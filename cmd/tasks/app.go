package main

import (
	"fmt"
	"io"
	"os"

	"github.com/amonks/tasklist/api"
	"github.com/amonks/tasklist/internal/config"
	"github.com/amonks/tasklist/internal/logging"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

// app is what a command needs to talk to the API.
type app struct {
	cfg    *config.Config
	client *api.Client
	logger *log.Logger
}

// loadConfig merges config sources with the root flags.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(config.Options{File: rootConfig})
	if err != nil {
		return nil, err
	}
	if cmd.Flags().Changed("api-url") {
		cfg.API.BaseURL = rootAPIURL
	}
	if cmd.Flags().Changed("log-level") {
		cfg.Log.Level = rootLogLevel
	}
	if cmd.Flags().Changed("log-format") {
		cfg.Log.Format = rootLogFormat
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadApp builds an API client logging to stderr.
func loadApp(cmd *cobra.Command) (*app, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	return newApp(cfg, cmd.ErrOrStderr())
}

func newApp(cfg *config.Config, w io.Writer) (*app, error) {
	logger, err := logging.New(w, logging.Options{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Prefix: "tasks",
	})
	if err != nil {
		return nil, err
	}
	return &app{
		cfg:    cfg,
		client: api.New(cfg.API.BaseURL, api.WithLogger(logger)),
		logger: logger,
	}, nil
}

// openLogFile opens path for appending. An empty path discards logs.
func openLogFile(path string) (io.Writer, func() error, error) {
	if path == "" {
		return io.Discard, func() error { return nil }, nil
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	return file, file.Close, nil
}
