package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/nao1215/corpscope/internal/controller"
	"github.com/nao1215/corpscope/internal/model"
	"github.com/nao1215/corpscope/internal/session"
)

// Environment variables read when the key flags are not given.
const (
	envCohereKey = "COHERE_API_KEY"
	envTavilyKey = "TAVILY_API_KEY"
)

// NewKeysCmd creates the keys command.
func NewKeysCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "keys",
		Short: "Manage the Cohere and Tavily API keys",
		Long: `Manage the API keys the research backend uses.

Keys are sent to the backend and kept in the session database until you log
out, so they only need to be entered once per session.`,
	}

	cmd.AddCommand(newKeysSetCmd())
	cmd.AddCommand(newKeysShowCmd())
	cmd.AddCommand(newKeysClearCmd())
	return cmd
}

func newKeysSetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set",
		Short: "Send the API keys to the backend and remember them",
		Long: `Send the Cohere and Tavily API keys to the research backend.

Keys not given as flags are read from the COHERE_API_KEY and TAVILY_API_KEY
environment variables.

Examples:
  corpscope keys set --cohere co-xxxx --tavily tvly-xxxx
  COHERE_API_KEY=co-xxxx TAVILY_API_KEY=tvly-xxxx corpscope keys set`,
		Args: cobra.NoArgs,
		RunE: runKeysSetCmd,
	}

	cmd.Flags().String("cohere", "", "Cohere API key (default: $"+envCohereKey+")")
	cmd.Flags().String("tavily", "", "Tavily API key (default: $"+envTavilyKey+")")
	return cmd
}

// keyFlag returns the flag value, or the environment variable when the flag
// was not set.
func keyFlag(cmd *cobra.Command, name, env string) (string, error) {
	if cmd.Flags().Changed(name) {
		return cmd.Flags().GetString(name)
	}
	return os.Getenv(env), nil
}

// deferredTimer holds a scheduled call until run is invoked.
type deferredTimer struct {
	f func()
}

func (t *deferredTimer) Stop() bool {
	stopped := t.f != nil
	t.f = nil
	return stopped
}

// run calls the held function once.
func (t *deferredTimer) run() {
	if t == nil || t.f == nil {
		return
	}
	f := t.f
	t.f = nil
	f()
}

func runKeysSetCmd(cmd *cobra.Command, _ []string) error {
	cohere, err := keyFlag(cmd, "cohere", envCohereKey)
	if err != nil {
		return err
	}
	tavily, err := keyFlag(cmd, "tavily", envTavilyKey)
	if err != nil {
		return err
	}

	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}
	logger, err := setupLogger(cmd, cfg.Verbose)
	if err != nil {
		return err
	}

	backend, err := newBackendClient(cfg, logger)
	if err != nil {
		return err
	}
	store, err := openSession(cfg, logger)
	if err != nil {
		return err
	}
	defer store.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// The process exits right after the save, so the mask reset runs as soon
	// as SubmitKeys returns instead of after the usual delay.
	var pending *deferredTimer
	view := controller.NewConsoleView(cmd.OutOrStdout(), cmd.ErrOrStderr())
	ctrl := controller.New(backend, view,
		controller.WithStore(store),
		controller.WithLogger(logger),
		controller.WithMaskResetDelay(cfg.MaskResetDelay),
		controller.WithAfterFunc(func(_ time.Duration, f func()) controller.Timer {
			pending = &deferredTimer{f: f}
			return pending
		}),
	)
	defer ctrl.Close()

	if err := ctrl.SubmitKeys(ctx, cohere, tavily); err != nil {
		return errReported
	}
	pending.run()
	view.PrintFields()
	return nil
}

func newKeysShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show the API keys stored in this session",
		Long: `Show the API keys stored in this session. Keys are masked unless
named with --reveal.

Examples:
  corpscope keys show
  corpscope keys show --reveal tavily`,
		Args: cobra.NoArgs,
		RunE: runKeysShowCmd,
	}

	cmd.Flags().StringSlice("reveal", nil, "Key fields to show in plain text (cohere, tavily)")
	return cmd
}

func runKeysShowCmd(cmd *cobra.Command, _ []string) error {
	revealFields, err := cmd.Flags().GetStringSlice("reveal")
	if err != nil {
		return err
	}

	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}
	logger, err := setupLogger(cmd, cfg.Verbose)
	if err != nil {
		return err
	}

	store, err := openSession(cfg, logger)
	if err != nil {
		return err
	}
	defer store.Close()

	view := controller.NewConsoleView(cmd.OutOrStdout(), cmd.ErrOrStderr())
	ctrl := controller.New(nil, view,
		controller.WithStore(store),
		controller.WithLogger(logger),
	)
	defer ctrl.Close()

	if err := ctrl.LoadStoredKeys(cmd.Context()); err != nil {
		return fmt.Errorf("failed to load stored keys: %w", err)
	}

	seen := make(map[model.KeyField]bool)
	for _, name := range revealFields {
		field := model.KeyField(name)
		if seen[field] {
			continue
		}
		seen[field] = true
		if _, err := ctrl.ToggleVisibility(field); err != nil {
			return err
		}
	}

	view.PrintFields()
	return nil
}

func newKeysClearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Forget the API keys stored in this session",
		Long: `Forget the API keys stored in this session. The backend keeps the keys it
was given until it restarts.`,
		Args: cobra.NoArgs,
		RunE: runKeysClearCmd,
	}
}

func runKeysClearCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}
	logger, err := setupLogger(cmd, cfg.Verbose)
	if err != nil {
		return err
	}

	store, err := openSession(cfg, logger)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.Delete(cmd.Context(), session.KeyAPIKeys); err != nil {
		return fmt.Errorf("failed to clear stored keys: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Stored API keys cleared")
	return nil
}
