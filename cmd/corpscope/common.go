package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/nao1215/corpscope/internal/client"
	"github.com/nao1215/corpscope/internal/config"
	corplog "github.com/nao1215/corpscope/internal/log"
	"github.com/nao1215/corpscope/internal/reveal"
	"github.com/nao1215/corpscope/internal/session"
)

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// buildConfig creates a Config from the configuration file and the global
// flags. Flags the user set explicitly win over the file.
func buildConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.NewConfig()
	flags := cmd.Flags()

	var err error
	cfg.ConfigFilePath, err = flags.GetString("config")
	if err != nil {
		return nil, err
	}

	// An explicitly named file must exist; otherwise a missing file just
	// means defaults.
	explicitConfigPath := cfg.ConfigFilePath != ""
	configPath := config.FindConfigFile(cfg.ConfigFilePath)
	switch {
	case configPath != "":
		file, err := config.LoadConfigFile(configPath)
		if err != nil {
			if errors.Is(err, config.ErrConfigNotFound) && explicitConfigPath {
				return nil, fmt.Errorf("configuration file not found: %s", cfg.ConfigFilePath)
			}
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
		file.Apply(cfg)
	case explicitConfigPath:
		return nil, fmt.Errorf("configuration file not found: %s", cfg.ConfigFilePath)
	default:
		cfg.File = &config.File{Companies: make(map[string]config.CompanyConfig)}
	}

	cfg.Verbose = getVerboseFlag(cmd)

	if flags.Changed("base-url") {
		if cfg.BaseURL, err = flags.GetString("base-url"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("proxy") {
		if cfg.ProxyAddress, err = flags.GetString("proxy"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("timeout") {
		if cfg.RequestTimeout, err = flags.GetDuration("timeout"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("session-dir") {
		if cfg.SessionDir, err = flags.GetString("session-dir"); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

// setupLogger creates the sanitizing logger for cmd and installs it as the
// slog default.
func setupLogger(cmd *cobra.Command, verbose bool) (*slog.Logger, error) {
	format, err := cmd.Flags().GetString("log-format")
	if err != nil {
		return nil, err
	}
	f, err := corplog.ParseFormat(format)
	if err != nil {
		return nil, err
	}
	logger := corplog.NewLogger(cmd.ErrOrStderr(), verbose, f)
	slog.SetDefault(logger)
	return logger, nil
}

// newBackendClient creates the research backend client for cfg.
func newBackendClient(cfg *config.Config, logger *slog.Logger) (*client.Client, error) {
	opts := []client.Option{
		client.WithTimeout(cfg.RequestTimeout),
		client.WithUserAgent(cfg.UserAgent),
		client.WithLogger(logger),
	}
	if cfg.ProxyAddress != "" {
		opts = append(opts, client.WithProxy(cfg.ProxyAddress))
	}
	return client.New(cfg.BaseURL, opts...)
}

// openSession opens the session database in cfg.SessionDir.
func openSession(cfg *config.Config, logger *slog.Logger) (*session.SQLiteStore, error) {
	store, err := session.OpenSQLite(cfg.SessionDir)
	if err != nil {
		return nil, fmt.Errorf("failed to open session database: %w", err)
	}
	logger.Debug("session database opened", "path", store.Path())
	return store, nil
}

// newRevealer returns the configured reveal animation, or an instant reveal
// when animate is false.
func newRevealer(cfg *config.Config, animate bool) *reveal.Revealer {
	if !animate {
		return reveal.NewRevealer(reveal.WithoutAnimation(), reveal.WithScrollDelay(0))
	}
	return reveal.NewRevealer(
		reveal.WithInterval(cfg.RevealInterval),
		reveal.WithScrollDelay(cfg.ScrollDelay),
	)
}

// createOutputFile creates path and its parent directories. The file is
// readable by the owner only.
func createOutputFile(path string) (*os.File, error) {
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600) //nolint:gosec // User-provided output path is intentional
	if err != nil {
		return nil, fmt.Errorf("failed to create output file: %w", err)
	}
	return f, nil
}
