package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/nao1215/corpscope/internal/config"
	"github.com/nao1215/corpscope/internal/report"
	"github.com/nao1215/corpscope/internal/server"
)

// NewPreviewCmd creates the preview command.
func NewPreviewCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Serve the current report in a browser",
		Long: `Preview starts a local web server showing the latest report generated in
this session. The report is revealed character by character like in the
research app, and the page can be refreshed after each "corpscope generate".

Endpoints:
  /               report page
  /report         report HTML fragment
  /report/stream  report HTML revealed as a chunked stream
  /api/report     raw report data as JSON
  /healthz        liveness check

Press Ctrl+C to stop the server.`,
		Args: cobra.NoArgs,
		RunE: runPreviewCmd,
	}

	cmd.Flags().String("addr", config.DefaultPreviewAddress, "Listen address")
	cmd.Flags().Bool("escape", false, "Escape HTML in report text")
	return cmd
}

func runPreviewCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}
	if cfg.PreviewAddress, err = cmd.Flags().GetString("addr"); err != nil {
		return err
	}
	escape, err := cmd.Flags().GetBool("escape")
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

	opts := []server.Option{
		server.WithRevealer(newRevealer(cfg, true)),
		server.WithLogger(logger),
	}
	if escape {
		opts = append(opts, server.WithMarkdownOptions(report.WithEscapedText()))
	}
	srv := server.New(store, opts...)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ready := make(chan string, 1)
	go func() {
		if addr, ok := <-ready; ok {
			fmt.Fprintf(cmd.OutOrStdout(), "Serving the current report on http://%s (press Ctrl+C to stop)\n", addr)
		}
	}()

	return srv.ListenAndServe(ctx, cfg.PreviewAddress, ready)
}
