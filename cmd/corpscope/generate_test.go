package main

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nao1215/corpscope/internal/config"
	"github.com/nao1215/corpscope/internal/model"
	"github.com/nao1215/corpscope/internal/pipeline"
	"github.com/nao1215/corpscope/internal/report"
)

func TestParseCompanyList(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{name: "one per line", input: "Acme Corp\nGlobex\n", want: []string{"Acme Corp", "Globex"}},
		{name: "skips blanks and comments", input: "# watchlist\n\n  Acme Corp  \n   \n#Globex\nInitech", want: []string{"Acme Corp", "Initech"}},
		{name: "empty", input: "", want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := parseCompanyList(strings.NewReader(tt.input))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if strings.Join(got, "|") != strings.Join(tt.want, "|") {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestIsInteractive(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		cfg  config.Config
		want bool
	}{
		{name: "single company", cfg: config.Config{Companies: []string{"Acme"}}, want: true},
		{name: "single company markdown", cfg: config.Config{Companies: []string{"Acme"}, MarkdownReport: true}, want: true},
		{name: "several companies", cfg: config.Config{Companies: []string{"Acme", "Globex"}}, want: false},
		{name: "json", cfg: config.Config{Companies: []string{"Acme"}, JSONReport: true}, want: false},
		{name: "output file", cfg: config.Config{Companies: []string{"Acme"}, ReportFile: "r.md"}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := isInteractive(&tt.cfg); got != tt.want {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestLinkFor(t *testing.T) {
	t.Parallel()

	cfg := config.NewConfig()
	cfg.File = &config.File{Companies: map[string]config.CompanyConfig{
		"Acme Corp": {Link: "https://acme.example"},
	}}

	if got := linkFor(cfg, generateOptions{}, "acme corp"); got != "https://acme.example" {
		t.Errorf("expected link from config, got %q", got)
	}
	if got := linkFor(cfg, generateOptions{link: "https://other.example"}, "Acme Corp"); got != "https://other.example" {
		t.Errorf("expected flag to win, got %q", got)
	}
	if got := linkFor(cfg, generateOptions{}, "Globex"); got != "" {
		t.Errorf("expected no link, got %q", got)
	}
}

func TestFormatWriter(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		cfg    config.Config
		toFile bool
		want   string
	}{
		{name: "json", cfg: config.Config{JSONReport: true}, want: "*report.JSONWriter"},
		{name: "html", cfg: config.Config{HTMLReport: true}, want: "*report.HTMLWriter"},
		{name: "markdown", cfg: config.Config{MarkdownReport: true}, want: "*report.MarkdownWriter"},
		{name: "file default", toFile: true, want: "*report.MarkdownWriter"},
		{name: "terminal default", want: "*report.SimpleWriter"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			w := formatWriter(&tt.cfg, &strings.Builder{}, tt.toFile, nil)
			var got string
			switch w.(type) {
			case *report.JSONWriter:
				got = "*report.JSONWriter"
			case *report.HTMLWriter:
				got = "*report.HTMLWriter"
			case *report.MarkdownWriter:
				got = "*report.MarkdownWriter"
			case *report.SimpleWriter:
				got = "*report.SimpleWriter"
			}
			if got != tt.want {
				t.Errorf("expected %s, got %s", tt.want, got)
			}
		})
	}
}

func TestLastSucceededAndCountFailed(t *testing.T) {
	t.Parallel()

	ok1 := &pipeline.Job{Company: "A", Data: &model.ReportData{CompanyName: "A"}}
	ok2 := &pipeline.Job{Company: "B", Data: &model.ReportData{CompanyName: "B"}}
	failed := &pipeline.Job{Company: "C", Err: errors.New("boom")}

	if got := lastSucceeded([]*pipeline.Job{ok1, ok2, failed}); got != ok2 {
		t.Errorf("expected job B, got %+v", got)
	}
	if got := lastSucceeded([]*pipeline.Job{failed}); got != nil {
		t.Errorf("expected nil, got %+v", got)
	}
	if n := countFailed([]*pipeline.Job{ok1, failed, failed}); n != 2 {
		t.Errorf("expected 2 failed, got %d", n)
	}
}

func TestGenerateInteractive(t *testing.T) {
	t.Run("reveals the report and stores it", func(t *testing.T) {
		env := newCLIEnv(t, "companies:\n  Acme Corp:\n    link: https://acme.example\n")

		stdout, stderr, err := env.run(t, "generate", "Acme Corp")
		if err != nil {
			t.Fatalf("unexpected error: %v (stderr %q)", err, stderr)
		}
		if !strings.Contains(stdout, "Acme corp Research Report\n=========================") {
			t.Errorf("expected underlined title, got %q", stdout)
		}
		if !strings.Contains(stdout, "Acme Corp - Comprehensive Research Report") {
			t.Errorf("expected markdown report, got %q", stdout)
		}
		if !strings.Contains(stderr, "Researching company") {
			t.Errorf("expected progress line, got %q", stderr)
		}

		reqs := env.backend.generateRequests()
		if len(reqs) != 1 {
			t.Fatalf("expected 1 request, got %d", len(reqs))
		}
		if reqs[0].CompanyLink == nil || *reqs[0].CompanyLink != "https://acme.example" {
			t.Errorf("expected link from config, got %v", reqs[0].CompanyLink)
		}

		if got := env.currentReport(t).CompanyName; got != "Acme Corp" {
			t.Errorf("expected current report for Acme Corp, got %q", got)
		}
	})

	t.Run("html output", func(t *testing.T) {
		env := newCLIEnv(t, "")

		stdout, _, err := env.run(t, "generate", "Acme Corp", "--html")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(stdout, "<h1>Acme Corp - Comprehensive Research Report</h1>") {
			t.Errorf("expected html report, got %q", stdout)
		}
	})

	t.Run("sends null link without one", func(t *testing.T) {
		env := newCLIEnv(t, "")

		if _, _, err := env.run(t, "generate", "Globex"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		reqs := env.backend.generateRequests()
		if len(reqs) != 1 || reqs[0].CompanyLink != nil {
			t.Errorf("expected null link, got %+v", reqs)
		}
	})

	t.Run("shows backend errors", func(t *testing.T) {
		env := newCLIEnv(t, "")

		_, stderr, err := env.run(t, "generate", failingCompany)
		if !errors.Is(err, errReported) {
			t.Errorf("expected errReported, got %v", err)
		}
		if !strings.Contains(stderr, "Error: research failed") {
			t.Errorf("expected backend detail, got %q", stderr)
		}
	})
}

func TestGenerateBatch(t *testing.T) {
	t.Run("writes json to file and stores the last report", func(t *testing.T) {
		env := newCLIEnv(t, "")
		outputPath := filepath.Join(t.TempDir(), "out", "reports.json")

		stdout, stderr, err := env.run(t, "generate", "Acme Corp", "Globex", "--json", "-o", outputPath)
		if err != nil {
			t.Fatalf("unexpected error: %v (stderr %q)", err, stderr)
		}

		content, err := os.ReadFile(outputPath)
		if err != nil {
			t.Fatalf("failed to read output: %v", err)
		}
		dec := json.NewDecoder(strings.NewReader(string(content)))
		var names []string
		for dec.More() {
			var data model.ReportData
			if err := dec.Decode(&data); err != nil {
				t.Fatalf("failed to decode report: %v", err)
			}
			names = append(names, data.CompanyName)
		}
		if strings.Join(names, "|") != "Acme Corp|Globex" {
			t.Errorf("expected reports in input order, got %q", names)
		}

		if !strings.Contains(stdout, "ACME CORP RESEARCH REPORT") || !strings.Contains(stdout, "GLOBEX RESEARCH REPORT") {
			t.Errorf("expected summaries on stdout, got %q", stdout)
		}
		if !strings.Contains(stderr, "Reports written to "+outputPath) {
			t.Errorf("expected output notice, got %q", stderr)
		}

		if got := env.currentReport(t).CompanyName; got != "Globex" {
			t.Errorf("expected Globex as current report, got %q", got)
		}
	})

	t.Run("reads companies from a list", func(t *testing.T) {
		env := newCLIEnv(t, "")
		listPath := filepath.Join(t.TempDir(), "companies.txt")
		if err := os.WriteFile(listPath, []byte("# watchlist\nAcme Corp\n\nInitech\n"), 0600); err != nil {
			t.Fatalf("failed to write list: %v", err)
		}

		stdout, _, err := env.run(t, "generate", "--list", listPath, "--markdown", "--batch", "1")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(stdout, "# Acme Corp - Comprehensive Research Report") ||
			!strings.Contains(stdout, "# Initech - Comprehensive Research Report") {
			t.Errorf("expected markdown for both companies, got %q", stdout)
		}
		if n := len(env.backend.generateRequests()); n != 2 {
			t.Errorf("expected 2 requests, got %d", n)
		}
	})

	t.Run("continues past failures", func(t *testing.T) {
		env := newCLIEnv(t, "")

		stdout, stderr, err := env.run(t, "generate", "Acme Corp", failingCompany, "--json")
		if err == nil || !strings.Contains(err.Error(), "1 of 2 reports failed") {
			t.Errorf("expected failure count, got %v", err)
		}
		if !strings.Contains(stderr, "Report failed: "+failingCompany+": research failed") {
			t.Errorf("expected failure line, got %q", stderr)
		}
		if !strings.Contains(stdout, `"company_name": "Acme Corp"`) {
			t.Errorf("expected json for Acme Corp, got %q", stdout)
		}
		if got := env.currentReport(t).CompanyName; got != "Acme Corp" {
			t.Errorf("expected Acme Corp as current report, got %q", got)
		}
	})
}

func TestGenerateValidation(t *testing.T) {
	t.Run("requires a company", func(t *testing.T) {
		env := newCLIEnv(t, "")
		_, _, err := env.run(t, "generate")
		if !errors.Is(err, config.ErrNoCompany) {
			t.Errorf("expected ErrNoCompany, got %v", err)
		}
	})

	t.Run("rejects conflicting formats", func(t *testing.T) {
		env := newCLIEnv(t, "")
		_, _, err := env.run(t, "generate", "Acme Corp", "--json", "--markdown")
		if !errors.Is(err, config.ErrConflictingReportFormats) {
			t.Errorf("expected ErrConflictingReportFormats, got %v", err)
		}
	})

	t.Run("rejects link with several companies", func(t *testing.T) {
		env := newCLIEnv(t, "")
		_, _, err := env.run(t, "generate", "Acme Corp", "Globex", "--link", "https://acme.example")
		if !errors.Is(err, errLinkWithSeveralCompanies) {
			t.Errorf("expected errLinkWithSeveralCompanies, got %v", err)
		}
		if n := len(env.backend.generateRequests()); n != 0 {
			t.Errorf("expected no requests, got %d", n)
		}
	})

	t.Run("rejects unknown log format", func(t *testing.T) {
		env := newCLIEnv(t, "")
		if _, _, err := env.run(t, "generate", "Acme Corp", "--log-format", "xml"); err == nil {
			t.Error("expected error for unknown log format")
		}
	})

	t.Run("missing explicit config file", func(t *testing.T) {
		env := newCLIEnv(t, "")
		env.configPath = filepath.Join(t.TempDir(), "missing.yaml")
		_, _, err := env.run(t, "generate", "Acme Corp")
		if err == nil || !strings.Contains(err.Error(), "configuration file not found") {
			t.Errorf("expected config not found error, got %v", err)
		}
	})
}
