package log

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"strings"
)

// MaskValue replaces every redacted value.
const MaskValue = "***REDACTED***"

// credentialKeys are attribute keys that are always redacted, compared
// case-insensitively.
var credentialKeys = []string{
	// Backend credentials
	"cohere", "tavily", "cohere_api_key", "tavily_api_key", "api_keys", "apikeys",
	// HTTP headers
	"authorization", "proxy-authorization", "cookie", "set-cookie", "x-api-key",
}

// credentialKeywords redact any key containing them. A bare "key" is not one:
// "cache_key" and "sort_key" are not credentials.
var credentialKeywords = []string{
	"password", "secret", "token", "auth", "credential",
	"api_key", "apikey", "api-key",
}

// credentialValues match values that look like credentials whatever their key.
var credentialValues = []*regexp.Regexp{
	regexp.MustCompile(`^tvly-[A-Za-z0-9_-]{8,}$`),
	regexp.MustCompile(`^eyJ[A-Za-z0-9_-]*\.eyJ[A-Za-z0-9_-]*\.[A-Za-z0-9_-]*$`),
	regexp.MustCompile(`(?i)^bearer\s+.+`),
	regexp.MustCompile(`(?i)^basic\s+[A-Za-z0-9+/=]+$`),
	// Opaque keys such as Cohere's 40-character keys
	regexp.MustCompile(`^[a-zA-Z0-9]{32,}$`),
}

// Redactor decides which attributes are masked.
type Redactor struct {
	keys map[string]bool
}

// NewRedactor returns a Redactor for the built-in credential keys plus
// extraKeys.
func NewRedactor(extraKeys ...string) *Redactor {
	r := &Redactor{keys: make(map[string]bool, len(credentialKeys)+len(extraKeys))}
	for _, k := range credentialKeys {
		r.keys[k] = true
	}
	for _, k := range extraKeys {
		r.keys[strings.ToLower(k)] = true
	}
	return r
}

// SensitiveKey reports whether values logged under key are masked.
func (r *Redactor) SensitiveKey(key string) bool {
	key = strings.ToLower(key)
	if r.keys[key] {
		return true
	}
	for _, kw := range credentialKeywords {
		if strings.Contains(key, kw) {
			return true
		}
	}
	return false
}

// SensitiveValue reports whether value looks like a credential.
func (r *Redactor) SensitiveValue(value string) bool {
	for _, re := range credentialValues {
		if re.MatchString(value) {
			return true
		}
	}
	return false
}

// Redact returns a with its value masked when the key or value is sensitive.
// Groups are redacted member by member and LogValuers are resolved first.
func (r *Redactor) Redact(a slog.Attr) slog.Attr {
	a.Value = a.Value.Resolve()

	if a.Value.Kind() == slog.KindGroup {
		members := a.Value.Group()
		redacted := make([]slog.Attr, len(members))
		for i, m := range members {
			redacted[i] = r.Redact(m)
		}
		return slog.Attr{Key: a.Key, Value: slog.GroupValue(redacted...)}
	}

	if r.SensitiveKey(a.Key) {
		return slog.String(a.Key, MaskValue)
	}
	if a.Value.Kind() == slog.KindString && r.SensitiveValue(a.Value.String()) {
		return slog.String(a.Key, MaskValue)
	}
	return a
}

// SecureHandler is a slog.Handler that redacts credentials before passing
// records on to another handler.
type SecureHandler struct {
	handler  slog.Handler
	redactor *Redactor
}

// HandlerOption configures a SecureHandler.
type HandlerOption func(*SecureHandler)

// WithRedactor replaces the default Redactor.
func WithRedactor(r *Redactor) HandlerOption {
	return func(h *SecureHandler) {
		if r != nil {
			h.redactor = r
		}
	}
}

// NewSecureHandler wraps handler. A nil handler wraps slog.Default().Handler().
func NewSecureHandler(handler slog.Handler, opts ...HandlerOption) *SecureHandler {
	if handler == nil {
		handler = slog.Default().Handler()
	}
	h := &SecureHandler{handler: handler, redactor: NewRedactor()}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Enabled delegates to the wrapped handler.
func (h *SecureHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.handler.Enabled(ctx, level)
}

// Handle redacts the record's attributes and forwards it.
func (h *SecureHandler) Handle(ctx context.Context, r slog.Record) error {
	out := slog.NewRecord(r.Time, r.Level, r.Message, r.PC)
	r.Attrs(func(a slog.Attr) bool {
		out.AddAttrs(h.redactor.Redact(a))
		return true
	})
	return h.handler.Handle(ctx, out)
}

// WithAttrs redacts attrs before attaching them.
func (h *SecureHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	redacted := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		redacted[i] = h.redactor.Redact(a)
	}
	return &SecureHandler{handler: h.handler.WithAttrs(redacted), redactor: h.redactor}
}

// WithGroup returns a handler that nests later attributes under name.
func (h *SecureHandler) WithGroup(name string) slog.Handler {
	return &SecureHandler{handler: h.handler.WithGroup(name), redactor: h.redactor}
}

// Format selects the log output encoding.
type Format string

const (
	// FormatText writes logfmt-style text.
	FormatText Format = "text"
	// FormatJSON writes one JSON object per record.
	FormatJSON Format = "json"
)

// ParseFormat converts a --log-format value.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatText, FormatJSON:
		return f, nil
	default:
		return "", fmt.Errorf("unsupported log format %q (use text or json)", s)
	}
}

// NewLogger creates a redacting logger writing to w.
// Verbose logs from Debug up; otherwise only warnings and errors.
func NewLogger(w io.Writer, verbose bool, format Format) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if format == FormatJSON {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	return slog.New(NewSecureHandler(handler))
}
