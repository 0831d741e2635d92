package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/nao1215/corpscope/internal/config"
	"github.com/nao1215/corpscope/internal/controller"
	"github.com/nao1215/corpscope/internal/model"
	"github.com/nao1215/corpscope/internal/pipeline"
	"github.com/nao1215/corpscope/internal/report"
	"github.com/nao1215/corpscope/internal/session"
)

// errLinkWithSeveralCompanies is returned when --link is combined with more
// than one company.
var errLinkWithSeveralCompanies = errors.New("--link can only be used with a single company; set links per company in the config file")

// NewGenerateCmd creates the generate command.
func NewGenerateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate [flags] <company>...",
		Short: "Generate research reports for one or more companies",
		Long: `Generate asks the research backend to investigate each company and
prints the resulting report. The backend needs the API keys stored with
"corpscope keys set".

A single company is shown as a formatted report on the terminal, with
--animate revealing it character by character. Several companies, a
--list file, --json or --output produce one report per company in the
selected format, generated concurrently.

The latest report is kept in the session and served by "corpscope preview".

Examples:
  # Research one company
  corpscope generate "Acme Corp" --link https://acme.example

  # Research companies from a file, three at a time, as Markdown files
  corpscope generate --list companies.txt --markdown -o reports.md

  # Raw report data as JSON
  corpscope generate "Acme Corp" --json`,
		RunE: runGenerateCmd,
	}

	flags := cmd.Flags()
	flags.StringP("list", "L", "", "File with one company name per line (# starts a comment)")
	flags.StringP("link", "l", "", "Company website sent with the request (single company only)")
	flags.IntP("batch", "b", config.DefaultBatchSize, "Number of companies researched concurrently")
	flags.Int("rate", config.DefaultRequestsPerMinute, "Maximum generate requests per minute (0 = unlimited)")
	flags.BoolP("json", "j", false, "Output the raw report data as JSON")
	flags.BoolP("markdown", "m", false, "Output the report as Markdown")
	flags.Bool("html", false, "Output the report as HTML")
	flags.StringP("output", "o", "", "Write reports to this file instead of stdout")
	flags.BoolP("animate", "a", false, "Reveal a single report character by character")
	flags.Bool("escape", false, "Escape HTML in report text")
	return cmd
}

// generateOptions holds generate flags that are not part of Config.
type generateOptions struct {
	link   string
	escape bool
}

func runGenerateCmd(cmd *cobra.Command, args []string) error {
	cfg, opts, err := buildGenerateConfig(cmd, args)
	if err != nil {
		return err
	}
	if err := cfg.ValidateGenerate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}
	if opts.link != "" && len(cfg.Companies) > 1 {
		return errLinkWithSeveralCompanies
	}

	logger, err := setupLogger(cmd, cfg.Verbose)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	backend, err := newBackendClient(cfg, logger)
	if err != nil {
		return err
	}
	store, err := openSession(cfg, logger)
	if err != nil {
		return err
	}
	defer store.Close()

	var markdownOpts []report.MarkdownOption
	if opts.escape {
		markdownOpts = append(markdownOpts, report.WithEscapedText())
	}

	if isInteractive(cfg) {
		return runInteractive(ctx, cmd, cfg, opts, backend, store, logger, markdownOpts)
	}
	return runBatch(ctx, cmd, cfg, opts, backend, store, logger, markdownOpts)
}

// buildGenerateConfig adds the generate flags and companies to the global
// configuration.
func buildGenerateConfig(cmd *cobra.Command, args []string) (*config.Config, generateOptions, error) {
	var opts generateOptions

	cfg, err := buildConfig(cmd)
	if err != nil {
		return nil, opts, err
	}

	flags := cmd.Flags()
	if flags.Changed("batch") {
		if cfg.BatchSize, err = flags.GetInt("batch"); err != nil {
			return nil, opts, err
		}
	}
	if flags.Changed("rate") {
		if cfg.RequestsPerMinute, err = flags.GetInt("rate"); err != nil {
			return nil, opts, err
		}
	}
	if cfg.JSONReport, err = flags.GetBool("json"); err != nil {
		return nil, opts, err
	}
	if cfg.MarkdownReport, err = flags.GetBool("markdown"); err != nil {
		return nil, opts, err
	}
	if cfg.HTMLReport, err = flags.GetBool("html"); err != nil {
		return nil, opts, err
	}
	if cfg.ReportFile, err = flags.GetString("output"); err != nil {
		return nil, opts, err
	}
	if cfg.Animate, err = flags.GetBool("animate"); err != nil {
		return nil, opts, err
	}
	if opts.link, err = flags.GetString("link"); err != nil {
		return nil, opts, err
	}
	opts.link = strings.TrimSpace(opts.link)
	if opts.escape, err = flags.GetBool("escape"); err != nil {
		return nil, opts, err
	}

	listPath, err := flags.GetString("list")
	if err != nil {
		return nil, opts, err
	}

	companies := make([]string, 0, len(args))
	for _, arg := range args {
		if name := strings.TrimSpace(arg); name != "" {
			companies = append(companies, name)
		}
	}
	if listPath != "" {
		listed, err := readCompanyList(listPath)
		if err != nil {
			return nil, opts, err
		}
		companies = append(companies, listed...)
	}
	cfg.Companies = companies

	return cfg, opts, nil
}

// readCompanyList reads company names from path, one per line. Blank lines
// and lines starting with # are skipped.
func readCompanyList(path string) ([]string, error) {
	f, err := os.Open(path) //nolint:gosec // User-provided list path is intentional
	if err != nil {
		return nil, fmt.Errorf("failed to open company list: %w", err)
	}
	defer f.Close()
	return parseCompanyList(f)
}

// parseCompanyList reads company names from r, one per line.
func parseCompanyList(r io.Reader) ([]string, error) {
	var companies []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		companies = append(companies, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read company list: %w", err)
	}
	return companies, nil
}

// isInteractive reports whether the report is shown on the terminal through
// the controller rather than written by the batch pipeline.
func isInteractive(cfg *config.Config) bool {
	return len(cfg.Companies) == 1 && !cfg.JSONReport && cfg.ReportFile == ""
}

// linkFor returns the website to send for company: the --link flag, then the
// config file entry.
func linkFor(cfg *config.Config, opts generateOptions, company string) string {
	if opts.link != "" {
		return opts.link
	}
	return cfg.File.GetCompanyConfig(company).Link
}

// runInteractive generates one report through the controller and reveals it
// on the terminal.
func runInteractive(
	ctx context.Context,
	cmd *cobra.Command,
	cfg *config.Config,
	opts generateOptions,
	backend controller.Backend,
	store session.Store,
	logger *slog.Logger,
	markdownOpts []report.MarkdownOption,
) error {
	render := func(data *model.ReportData) string {
		return report.RenderMarkdown(data, markdownOpts...)
	}
	if cfg.HTMLReport {
		render = func(data *model.ReportData) string {
			return report.RenderHTML(data, markdownOpts...)
		}
	}

	company := cfg.Companies[0]
	view := controller.NewConsoleView(cmd.OutOrStdout(), cmd.ErrOrStderr())
	ctrl := controller.New(backend, view,
		controller.WithStore(store),
		controller.WithRevealer(newRevealer(cfg, cfg.Animate)),
		controller.WithRenderer(render),
		controller.WithLogger(logger),
	)
	defer ctrl.Close()

	if err := ctrl.GenerateReport(ctx, company, linkFor(cfg, opts, company)); err != nil {
		return errReported
	}
	if err := ctrl.WaitReveal(); err != nil {
		return fmt.Errorf("report display interrupted: %w", err)
	}
	return nil
}

// runBatch generates reports for every company concurrently and writes them
// in the selected format once all are done.
func runBatch(
	ctx context.Context,
	cmd *cobra.Command,
	cfg *config.Config,
	opts generateOptions,
	backend pipeline.Generator,
	store session.Store,
	logger *slog.Logger,
	markdownOpts []report.MarkdownOption,
) error {
	progress := cmd.ErrOrStderr()
	total := len(cfg.Companies)
	fmt.Fprintf(progress, "Researching %d companies (concurrency: %d)...\n\n", total, cfg.BatchSize)
	startTime := time.Now()

	jobs := make([]*pipeline.Job, total)
	for i, company := range cfg.Companies {
		jobs[i] = pipeline.NewJob(company, linkFor(cfg, opts, company))
	}

	// With one job the pipeline stores the report itself. With several, only
	// the last successful one in input order becomes the current report.
	var stepStore session.Store
	if total == 1 {
		stepStore = store
	}

	bp := pipeline.NewBatchProcessor(
		func() *pipeline.Pipeline {
			return pipeline.New(pipeline.DefaultSteps(backend, stepStore), pipeline.WithLogger(logger))
		},
		pipeline.WithConcurrency(cfg.BatchSize),
		pipeline.WithRateLimit(cfg.RequestsPerMinute),
		pipeline.WithBatchLogger(logger),
	)

	var mu sync.Mutex
	err := bp.ProcessBatchWithCallback(ctx, jobs, func(job *pipeline.Job, index int) {
		mu.Lock()
		defer mu.Unlock()
		if job.Succeeded() {
			fmt.Fprintf(progress, "[%d/%d] Report completed: %s (%s)\n",
				index+1, total, job.Company, job.Elapsed.Round(time.Millisecond))
			return
		}
		fmt.Fprintf(progress, "[%d/%d] Report failed: %s: %v\n", index+1, total, job.Company, job.Err)
	})

	fmt.Fprintf(progress, "\nResearch completed in %s\n\n", time.Since(startTime).Round(time.Millisecond))

	if writeErr := writeReports(cmd, cfg, jobs, markdownOpts); writeErr != nil {
		return writeErr
	}

	if total > 1 {
		if last := lastSucceeded(jobs); last != nil {
			if err := session.SaveReport(ctx, store, last.Data); err != nil {
				logger.Warn("failed to store current report", "company", last.Company, "error", err)
			}
		}
	}

	if err != nil {
		return err
	}
	if failed := countFailed(jobs); failed > 0 {
		return fmt.Errorf("%d of %d reports failed", failed, total)
	}
	return nil
}

// writeReports writes every successful report in input order.
func writeReports(cmd *cobra.Command, cfg *config.Config, jobs []*pipeline.Job, markdownOpts []report.MarkdownOption) error {
	stdout := cmd.OutOrStdout()

	var writer report.Writer
	if cfg.ReportFile != "" {
		f, err := createOutputFile(cfg.ReportFile)
		if err != nil {
			return err
		}
		defer f.Close()
		// The file gets the selected format; the terminal gets a summary.
		writer = report.NewMultiWriter(
			formatWriter(cfg, f, true, markdownOpts),
			report.NewSimpleWriter(stdout),
		)
	} else {
		writer = formatWriter(cfg, stdout, false, markdownOpts)
	}

	for _, job := range jobs {
		if !job.Succeeded() {
			continue
		}
		if _, err := writer.Write(job.Data); err != nil {
			return fmt.Errorf("failed to write report for %s: %w", job.Company, err)
		}
	}

	if cfg.ReportFile != "" {
		fmt.Fprintf(cmd.ErrOrStderr(), "Reports written to %s\n", cfg.ReportFile)
	}
	return nil
}

// formatWriter returns the writer for the selected report format. Without a
// format, files get Markdown and the terminal gets the plain-text summary.
func formatWriter(cfg *config.Config, output io.Writer, toFile bool, markdownOpts []report.MarkdownOption) report.Writer {
	switch {
	case cfg.JSONReport:
		return report.NewJSONWriter(output, report.WithPrettyPrint())
	case cfg.HTMLReport:
		return report.NewHTMLWriter(output, markdownOpts...)
	case cfg.MarkdownReport, toFile:
		return report.NewMarkdownWriter(output, markdownOpts...)
	default:
		return report.NewSimpleWriter(output, report.WithVerbose(cfg.Verbose))
	}
}

// lastSucceeded returns the last successful job in input order, or nil.
func lastSucceeded(jobs []*pipeline.Job) *pipeline.Job {
	for i := len(jobs) - 1; i >= 0; i-- {
		if jobs[i].Succeeded() {
			return jobs[i]
		}
	}
	return nil
}

// countFailed returns the number of jobs without a report.
func countFailed(jobs []*pipeline.Job) int {
	n := 0
	for _, job := range jobs {
		if !job.Succeeded() {
			n++
		}
	}
	return n
}
