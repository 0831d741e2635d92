package config

import (
	"net"
	"net/url"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
)

// Default configuration values.
const (
	// DefaultBaseURL is where the research backend listens during local development.
	DefaultBaseURL = "http://127.0.0.1:8000"

	// DefaultRequestTimeout of zero means requests wait until the transport
	// gives up. Report generation can take minutes while the backend searches
	// and summarizes, so no deadline is imposed unless asked for.
	DefaultRequestTimeout time.Duration = 0

	// DefaultRevealInterval is the pause between characters of the reveal animation.
	DefaultRevealInterval = 5 * time.Millisecond

	// DefaultScrollDelay is how long after the last character the report
	// scrolls into view.
	DefaultScrollDelay = 300 * time.Millisecond

	// DefaultMaskResetDelay is how long key fields stay visible after a
	// successful save before they are masked again.
	DefaultMaskResetDelay = 1 * time.Second

	// DefaultBatchSize of 3 concurrent generations keeps the backend's
	// upstream search and LLM quotas in reach.
	DefaultBatchSize = 3

	// DefaultRequestsPerMinute of zero disables pacing.
	DefaultRequestsPerMinute = 0

	// DefaultPreviewAddress is the listen address of the preview server.
	DefaultPreviewAddress = "127.0.0.1:8080"

	// AppName is the application name used for XDG directory paths.
	AppName = "corpscope"

	// DefaultUserAgent identifies corpscope in HTTP requests.
	DefaultUserAgent = "corpscope/1.0 (+https://github.com/nao1215/corpscope)"
)

// Config holds all configuration options for corpscope.
// It is populated from the config file and CLI flags and passed down
// explicitly rather than kept in globals.
type Config struct {
	// BaseURL is the research backend root, e.g. "http://127.0.0.1:8000".
	BaseURL string

	// ProxyAddress is an optional SOCKS5 proxy in "host:port" format.
	// Empty means connect directly.
	ProxyAddress string

	// RequestTimeout bounds each backend request. Zero means no timeout.
	RequestTimeout time.Duration

	// UserAgent is the User-Agent header sent to the backend.
	UserAgent string

	// RevealInterval is the delay between characters of the reveal animation.
	// Zero renders every frame back to back.
	RevealInterval time.Duration

	// ScrollDelay is the pause after the reveal before scrolling into view.
	ScrollDelay time.Duration

	// MaskResetDelay is how long key fields stay visible after a save.
	MaskResetDelay time.Duration

	// SessionDir is the directory holding the session database.
	// Defaults to the XDG runtime directory, which the OS clears on logout.
	SessionDir string

	// BatchSize is the number of concurrent generations for several companies.
	BatchSize int

	// RequestsPerMinute caps backend generate calls during a batch.
	// Zero means unlimited.
	RequestsPerMinute int

	// Verbose enables detailed log output using slog.LevelDebug.
	// When false, only warnings and errors are logged.
	Verbose bool

	// ConfigFilePath is the path to the configuration file.
	// If empty, FindConfigFile searches the usual locations.
	ConfigFilePath string

	// File holds settings loaded from the configuration file, if any.
	File *File

	// JSONReport writes the raw ReportData as JSON.
	// Mutually exclusive with the other report formats.
	JSONReport bool

	// MarkdownReport writes the rendered Markdown document.
	// Mutually exclusive with the other report formats.
	MarkdownReport bool

	// HTMLReport writes the Markdown converted to HTML.
	// Mutually exclusive with the other report formats.
	HTMLReport bool

	// ReportFile is the output file path for the report.
	// When set, the report is written to this file instead of stdout.
	ReportFile string

	// Animate reveals the rendered report character by character on the terminal.
	Animate bool

	// PreviewAddress is the listen address of the preview server.
	PreviewAddress string

	// Companies is the list of company names to research.
	Companies []string
}

// NewConfig creates a new Config with default values.
func NewConfig() *Config {
	return &Config{
		BaseURL:           DefaultBaseURL,
		RequestTimeout:    DefaultRequestTimeout,
		UserAgent:         DefaultUserAgent,
		RevealInterval:    DefaultRevealInterval,
		ScrollDelay:       DefaultScrollDelay,
		MaskResetDelay:    DefaultMaskResetDelay,
		SessionDir:        XDGRuntimeDir(),
		BatchSize:         DefaultBatchSize,
		RequestsPerMinute: DefaultRequestsPerMinute,
		PreviewAddress:    DefaultPreviewAddress,
	}
}

// XDGRuntimeDir returns the XDG runtime directory for corpscope.
// On Linux: $XDG_RUNTIME_DIR/corpscope (usually /run/user/<uid>/corpscope)
// On macOS and Windows xdg falls back to a per-user temporary directory.
func XDGRuntimeDir() string {
	return filepath.Join(xdg.RuntimeDir, AppName)
}

// XDGConfigDir returns the XDG config directory for corpscope.
// On Linux: ~/.config/corpscope
// On macOS: ~/Library/Application Support/corpscope
// On Windows: %APPDATA%\corpscope
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// ReportFormatCount returns how many report formats are selected.
func (c *Config) ReportFormatCount() int {
	n := 0
	for _, on := range []bool{c.JSONReport, c.MarkdownReport, c.HTMLReport} {
		if on {
			n++
		}
	}
	return n
}

// Validate checks if the configuration is valid.
// It returns the first problem found as a package sentinel error.
func (c *Config) Validate() error {
	u, err := url.Parse(c.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return ErrInvalidBaseURL
	}

	if c.ProxyAddress != "" {
		if _, _, err := net.SplitHostPort(c.ProxyAddress); err != nil {
			return ErrInvalidProxyAddress
		}
	}

	if c.RequestTimeout < 0 {
		return ErrInvalidTimeout
	}

	if c.RevealInterval < 0 || c.ScrollDelay < 0 || c.MaskResetDelay < 0 {
		return ErrInvalidDelay
	}

	if c.BatchSize <= 0 {
		return ErrInvalidBatchSize
	}

	if c.RequestsPerMinute < 0 {
		return ErrInvalidRateLimit
	}

	if c.ReportFormatCount() > 1 {
		return ErrConflictingReportFormats
	}

	return nil
}

// ValidateGenerate runs Validate and additionally requires at least one company.
func (c *Config) ValidateGenerate() error {
	if len(c.Companies) == 0 {
		return ErrNoCompany
	}
	return c.Validate()
}
