// Package main provides the entry point for the corpscope CLI.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/nao1215/corpscope/internal/config"
)

// errReported is returned when the failure was already shown to the user.
var errReported = errors.New("already reported")

// NewRootCmd creates the root command for corpscope.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "corpscope",
		Short: "Generate company research reports",
		Long: `corpscope asks a research backend to investigate companies and renders
the results as structured research reports.

The backend needs a Cohere and a Tavily API key. Store them once per login
session with "corpscope keys set", then generate reports with
"corpscope generate".`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	flags := cmd.PersistentFlags()
	flags.BoolP("verbose", "v", false, "Enable verbose logging")
	flags.String("log-format", "text", "Log format: text or json")
	flags.StringP("config", "c", "",
		"Configuration file path (default: .corpscope in current or home directory)")
	flags.String("base-url", config.DefaultBaseURL, "Research backend base URL")
	flags.String("proxy", "", "SOCKS5 proxy address for backend requests (host:port)")
	flags.Duration("timeout", config.DefaultRequestTimeout, "Timeout for each backend request (0 = none)")
	flags.String("session-dir", "", "Directory of the session database (default: XDG runtime dir)")

	cmd.AddCommand(NewKeysCmd())
	cmd.AddCommand(NewGenerateCmd())
	cmd.AddCommand(NewPreviewCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		if !errors.Is(err, errReported) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}
