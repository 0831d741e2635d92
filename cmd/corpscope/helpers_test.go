package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/nao1215/corpscope/internal/client"
	"github.com/nao1215/corpscope/internal/model"
	"github.com/nao1215/corpscope/internal/session"
)

// failingCompany makes the fake backend answer with an error.
const failingCompany = "Fail Corp"

// fakeBackend is an in-process research backend.
type fakeBackend struct {
	*httptest.Server

	mu       sync.Mutex
	keys     []client.KeysRequest
	requests []client.GenerateRequest
}

func newFakeBackend(t *testing.T) *fakeBackend {
	t.Helper()

	b := &fakeBackend{}
	mux := http.NewServeMux()
	mux.HandleFunc("POST "+client.KeysPath, func(w http.ResponseWriter, r *http.Request) {
		var req client.KeysRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		b.mu.Lock()
		b.keys = append(b.keys, req)
		b.mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		if req.CohereAPIKey == "bad" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"detail":"invalid cohere key"}`))
			return
		}
		_, _ = w.Write([]byte(`{"message":"ok"}`))
	})
	mux.HandleFunc("POST "+client.GeneratePath, func(w http.ResponseWriter, r *http.Request) {
		var req client.GenerateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		b.mu.Lock()
		b.requests = append(b.requests, req)
		b.mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		if req.CompanyName == failingCompany {
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte(`{"detail":"research failed"}`))
			return
		}
		_ = json.NewEncoder(w).Encode(reportFor(req.CompanyName))
	})

	b.Server = httptest.NewServer(mux)
	t.Cleanup(b.Close)
	return b
}

// generateRequests returns the generate requests received so far.
func (b *fakeBackend) generateRequests() []client.GenerateRequest {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]client.GenerateRequest(nil), b.requests...)
}

// keyRequests returns the key requests received so far.
func (b *fakeBackend) keyRequests() []client.KeysRequest {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]client.KeysRequest(nil), b.keys...)
}

func reportFor(company string) *model.ReportData {
	return &model.ReportData{
		CompanyName: company,
		Report: &model.Report{
			Overview: model.Overview{
				BusinessDescription:     company + " builds anvils.",
				CoreProductsAndServices: []string{"Anvils", "Rockets"},
				LeadershipTeam:          []model.Leader{{Name: "Wile E. Coyote", Role: "CEO"}},
			},
			Industry: model.Industry{
				MarketLandscape: "Crowded.",
				Competition:     []string{"Roadrunner Inc"},
			},
			Financials: model.Financials{RevenueModel: "Direct sales"},
			News: model.News{NewsItems: []model.NewsItem{
				{Title: "Anvil recall", Date: "2024-05-01"},
			}},
			References: model.References{References: []model.Reference{
				{SourceName: "Acme site", URL: "https://acme.example"},
			}},
		},
	}
}

// cliEnv holds the isolated files of one CLI test.
type cliEnv struct {
	backend    *fakeBackend
	sessionDir string
	configPath string
}

// newCLIEnv creates a backend, a session directory and a config file.
func newCLIEnv(t *testing.T, configYAML string) *cliEnv {
	t.Helper()

	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(configPath, []byte(configYAML), 0600); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return &cliEnv{
		backend:    newFakeBackend(t),
		sessionDir: filepath.Join(dir, "session"),
		configPath: configPath,
	}
}

// run executes corpscope with the environment's global flags prepended.
func (e *cliEnv) run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	cmd := NewRootCmd()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(append(args,
		"--config", e.configPath,
		"--session-dir", e.sessionDir,
		"--base-url", e.backend.URL,
	))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

// currentReport loads the report stored in the session.
func (e *cliEnv) currentReport(t *testing.T) *model.ReportData {
	t.Helper()

	store, err := session.OpenSQLite(e.sessionDir)
	if err != nil {
		t.Fatalf("failed to open session: %v", err)
	}
	defer store.Close()

	data, err := session.LoadReport(context.Background(), store)
	if err != nil {
		t.Fatalf("failed to load current report: %v", err)
	}
	return data
}
