package config

import (
	"strings"
	"time"
)

// CompanyConfig holds per-company settings from the config file.
type CompanyConfig struct {
	// Link is the company website sent with the generate request when none is
	// given on the command line.
	Link string `yaml:"link,omitempty"`
}

// BackendConfig overrides how the backend is reached.
type BackendConfig struct {
	BaseURL        string        `yaml:"baseURL,omitempty"`
	Proxy          string        `yaml:"proxy,omitempty"`
	RequestTimeout time.Duration `yaml:"requestTimeout,omitempty"`
	UserAgent      string        `yaml:"userAgent,omitempty"`
}

// RevealConfig overrides the reveal animation timings.
type RevealConfig struct {
	Interval    *time.Duration `yaml:"interval,omitempty"`
	ScrollDelay *time.Duration `yaml:"scrollDelay,omitempty"`
}

// File represents the structure of the .corpscope configuration file.
type File struct {
	// Backend overrides connection settings.
	Backend BackendConfig `yaml:"backend,omitempty"`

	// Reveal overrides animation timings. Pointers distinguish an explicit
	// zero from an absent value.
	Reveal RevealConfig `yaml:"reveal,omitempty"`

	// BatchSize overrides Config.BatchSize when positive.
	BatchSize int `yaml:"batchSize,omitempty"`

	// RequestsPerMinute overrides Config.RequestsPerMinute when positive.
	RequestsPerMinute int `yaml:"requestsPerMinute,omitempty"`

	// SessionDir overrides where the session database is kept.
	SessionDir string `yaml:"sessionDir,omitempty"`

	// Companies maps company names to their settings. Lookups are
	// case-insensitive.
	Companies map[string]CompanyConfig `yaml:"companies,omitempty"`
}

// Apply copies every value set in the file onto cfg.
// CLI flags are applied afterwards and win over the file.
func (cf *File) Apply(cfg *Config) {
	if cf.Backend.BaseURL != "" {
		cfg.BaseURL = cf.Backend.BaseURL
	}
	if cf.Backend.Proxy != "" {
		cfg.ProxyAddress = cf.Backend.Proxy
	}
	if cf.Backend.RequestTimeout != 0 {
		cfg.RequestTimeout = cf.Backend.RequestTimeout
	}
	if cf.Backend.UserAgent != "" {
		cfg.UserAgent = cf.Backend.UserAgent
	}
	if cf.Reveal.Interval != nil {
		cfg.RevealInterval = *cf.Reveal.Interval
	}
	if cf.Reveal.ScrollDelay != nil {
		cfg.ScrollDelay = *cf.Reveal.ScrollDelay
	}
	if cf.BatchSize > 0 {
		cfg.BatchSize = cf.BatchSize
	}
	if cf.RequestsPerMinute > 0 {
		cfg.RequestsPerMinute = cf.RequestsPerMinute
	}
	if cf.SessionDir != "" {
		cfg.SessionDir = cf.SessionDir
	}
	cfg.File = cf
}

// GetCompanyConfig returns the settings for company, or the zero value.
func (cf *File) GetCompanyConfig(company string) CompanyConfig {
	if cf == nil {
		return CompanyConfig{}
	}
	if c, ok := cf.Companies[company]; ok {
		return c
	}
	for name, c := range cf.Companies {
		if strings.EqualFold(name, company) {
			return c
		}
	}
	return CompanyConfig{}
}
