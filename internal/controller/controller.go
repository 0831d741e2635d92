package controller

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/nao1215/corpscope/internal/client"
	"github.com/nao1215/corpscope/internal/model"
	"github.com/nao1215/corpscope/internal/report"
	"github.com/nao1215/corpscope/internal/reveal"
	"github.com/nao1215/corpscope/internal/session"
)

// User-facing messages.
const (
	MsgMissingKeys        = "Please enter both API keys"
	MsgKeysSaved          = "API keys saved successfully"
	MsgKeysFailed         = "Failed to set API keys"
	MsgMissingCompanyName = "Please enter a company name"
	MsgErrorPrefix        = "Error: "
)

// Control labels.
const (
	LabelGenerating    = "Generating..."
	LabelStartResearch = "Start Research"
	LabelHide          = "Hide"
	LabelView          = "View"
)

// DefaultMaskResetDelay is how long key fields keep their visibility after a
// successful save.
const DefaultMaskResetDelay = time.Second

var (
	// ErrMissingKeys is returned when either key is blank after trimming.
	ErrMissingKeys = errors.New("both api keys are required")

	// ErrMissingCompanyName is returned when the company name is blank after trimming.
	ErrMissingCompanyName = errors.New("company name is required")

	// ErrStaleResponse is returned by GenerateReport when a newer request
	// started before this one's response arrived.
	ErrStaleResponse = errors.New("report response superseded by a newer request")

	// ErrUnknownField is returned for a key field other than cohere or tavily.
	ErrUnknownField = errors.New("unknown key field")
)

// Backend is the subset of the backend API the Controller uses.
// *client.Client implements it.
type Backend interface {
	SetKeys(ctx context.Context, req client.KeysRequest) error
	GenerateReport(ctx context.Context, req client.GenerateRequest) (*model.ReportData, error)
}

// Timer is a pending delayed call. *time.Timer implements it.
type Timer interface {
	Stop() bool
}

// State is a snapshot of the Controller's session state.
// CurrentReport is shared, not copied, and must not be modified.
type State struct {
	StoredKeys    model.StoredKeys
	Visibility    model.VisibilityState
	CurrentReport *model.ReportData
	Generating    bool
}

// Controller coordinates the backend, the session store and a View.
type Controller struct {
	backend Backend
	view    View
	store   session.Store
	player  *reveal.Player
	render  func(*model.ReportData) string
	logger  *slog.Logger

	maskResetDelay time.Duration
	afterFunc      func(time.Duration, func()) Timer

	mu         sync.Mutex
	state      State
	generation uint64
	maskTimer  Timer

	// renderMu orders the staleness check with starting the reveal.
	renderMu sync.Mutex
}

// Option configures a Controller.
type Option func(*Controller)

// WithStore persists keys and the current report in store.
func WithStore(store session.Store) Option {
	return func(c *Controller) {
		c.store = store
	}
}

// WithRevealer uses revealer for report reveals.
func WithRevealer(revealer *reveal.Revealer) Option {
	return func(c *Controller) {
		c.player = reveal.NewPlayer(revealer)
	}
}

// WithRenderer replaces the report renderer. The default renders HTML.
func WithRenderer(render func(*model.ReportData) string) Option {
	return func(c *Controller) {
		c.render = render
	}
}

// WithMaskResetDelay sets how long key fields stay visible after a save.
func WithMaskResetDelay(d time.Duration) Option {
	return func(c *Controller) {
		c.maskResetDelay = d
	}
}

// WithAfterFunc replaces time.AfterFunc for scheduling the mask reset.
func WithAfterFunc(f func(time.Duration, func()) Timer) Option {
	return func(c *Controller) {
		c.afterFunc = f
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Controller) {
		c.logger = logger
	}
}

// New creates a Controller.
func New(backend Backend, view View, opts ...Option) *Controller {
	c := &Controller{
		backend:        backend,
		view:           view,
		maskResetDelay: DefaultMaskResetDelay,
		afterFunc: func(d time.Duration, f func()) Timer {
			return time.AfterFunc(d, f)
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.player == nil {
		c.player = reveal.NewPlayer(reveal.NewRevealer())
	}
	if c.render == nil {
		c.render = func(data *model.ReportData) string {
			return report.RenderHTML(data)
		}
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	return c
}

// State returns a snapshot of the current state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// LoadStoredKeys places keys saved earlier in the session into their fields,
// masked. Without a store it does nothing.
func (c *Controller) LoadStoredKeys(ctx context.Context) error {
	if c.store == nil {
		return nil
	}
	keys, err := session.LoadKeys(ctx, c.store)
	if err != nil {
		return err
	}

	c.mu.Lock()
	c.state.StoredKeys = keys
	c.mu.Unlock()

	for _, field := range model.KeyFields {
		if v := keys.Get(field); v != "" {
			c.view.SetFieldValue(field, v)
			c.view.SetFieldMasked(field, true)
		}
	}
	return nil
}

// ToggleVisibility flips whether field shows plaintext and returns the new
// visibility.
func (c *Controller) ToggleVisibility(field model.KeyField) (bool, error) {
	if field != model.KeyCohere && field != model.KeyTavily {
		return false, fmt.Errorf("%w: %q", ErrUnknownField, field)
	}

	c.mu.Lock()
	c.state.Visibility = c.state.Visibility.Toggle(field)
	visible := c.state.Visibility.Visible(field)
	c.mu.Unlock()

	c.view.SetFieldMasked(field, !visible)
	if visible {
		c.view.SetToggleLabel(field, LabelHide)
	} else {
		c.view.SetToggleLabel(field, LabelView)
	}
	return visible, nil
}

// SubmitKeys sends the key pair to the backend. Blank keys are rejected
// without a request.
func (c *Controller) SubmitKeys(ctx context.Context, cohere, tavily string) error {
	cohere = strings.TrimSpace(cohere)
	tavily = strings.TrimSpace(tavily)
	if cohere == "" || tavily == "" {
		c.view.ShowKeysMessage(MsgMissingKeys, MessageError)
		return ErrMissingKeys
	}

	err := c.backend.SetKeys(ctx, client.KeysRequest{CohereAPIKey: cohere, TavilyAPIKey: tavily})
	if err != nil {
		if client.IsAPI(err) {
			c.view.ShowKeysMessage(MsgKeysFailed, MessageError)
		} else {
			c.view.ShowKeysMessage(MsgErrorPrefix+err.Error(), MessageError)
		}
		c.logger.Debug("failed to set api keys", "error", err)
		return err
	}

	keys := model.NewStoredKeys(cohere, tavily)
	if c.store != nil {
		if err := session.SaveKeys(ctx, c.store, keys); err != nil {
			c.logger.Warn("failed to persist api keys", "error", err)
		}
	}

	c.mu.Lock()
	c.state.StoredKeys = keys
	c.mu.Unlock()

	c.view.ShowKeysMessage(MsgKeysSaved, MessageSuccess)
	c.scheduleMaskReset(cohere, tavily)
	return nil
}

// scheduleMaskReset masks both fields after the reset delay, keeping their
// values. A pending reset is replaced.
func (c *Controller) scheduleMaskReset(cohere, tavily string) {
	reset := func() {
		c.mu.Lock()
		c.state.Visibility = model.VisibilityState{}
		c.mu.Unlock()

		values := map[model.KeyField]string{model.KeyCohere: cohere, model.KeyTavily: tavily}
		for _, field := range model.KeyFields {
			c.view.SetFieldValue(field, values[field])
			c.view.SetFieldMasked(field, true)
			c.view.SetToggleLabel(field, LabelView)
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.maskTimer != nil {
		c.maskTimer.Stop()
	}
	c.maskTimer = c.afterFunc(c.maskResetDelay, reset)
}

// ClearReportError hides the report error area.
func (c *Controller) ClearReportError() {
	c.view.HideReportError()
}

// GenerateReport requests a report for name and reveals it.
//
// The reveal runs in the background under ctx; use WaitReveal to block until
// it ends. A blank name is rejected without a request. ErrStaleResponse is
// returned when a newer call started before this response arrived.
func (c *Controller) GenerateReport(ctx context.Context, name, link string) error {
	name = strings.TrimSpace(name)
	link = strings.TrimSpace(link)
	if name == "" {
		c.view.ShowReportError(MsgMissingCompanyName)
		return ErrMissingCompanyName
	}

	c.mu.Lock()
	c.generation++
	gen := c.generation
	c.state.Generating = true
	c.mu.Unlock()
	defer c.finishGeneration(gen)

	c.view.SetLoading(true)
	c.view.HideReportError()
	c.view.ShowReportSection()
	c.clearReport()
	c.view.SetTrigger(false, LabelGenerating)

	data, err := c.backend.GenerateReport(ctx, client.NewGenerateRequest(name, link))
	if err == nil {
		err = data.Validate()
	}

	c.renderMu.Lock()
	defer c.renderMu.Unlock()

	if !c.isCurrent(gen) {
		c.logger.Debug("discarding stale report response", "company", name, "generation", gen)
		return ErrStaleResponse
	}

	c.view.SetLoading(false)
	if err != nil {
		c.view.ShowReportError(MsgErrorPrefix + err.Error())
		return err
	}

	c.mu.Lock()
	c.state.CurrentReport = data
	c.mu.Unlock()

	if c.store != nil {
		if err := session.SaveReport(ctx, c.store, data); err != nil {
			c.logger.Warn("failed to persist report", "error", err)
		}
	}

	c.view.SetTitle(model.DisplayTitle(data.CompanyName))
	c.player.Play(ctx, c.render(data), c.view)
	return nil
}

// clearReport stops the reveal in progress and empties the report area.
// Holding renderMu keeps an older request from starting its reveal after
// the stop.
func (c *Controller) clearReport() {
	c.renderMu.Lock()
	defer c.renderMu.Unlock()
	c.player.Stop()
	c.view.ClearReport()
}

// isCurrent reports whether gen is the newest generation.
func (c *Controller) isCurrent(gen uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return gen == c.generation
}

// finishGeneration restores the trigger if gen is still the newest generation.
func (c *Controller) finishGeneration(gen uint64) {
	c.mu.Lock()
	current := gen == c.generation
	if current {
		c.state.Generating = false
	}
	c.mu.Unlock()

	if current {
		c.view.SetTrigger(true, LabelStartResearch)
	}
}

// WaitReveal blocks until the latest reveal ends and returns its error.
func (c *Controller) WaitReveal() error {
	return c.player.Wait()
}

// Close stops any running reveal and pending mask reset.
func (c *Controller) Close() {
	c.mu.Lock()
	if c.maskTimer != nil {
		c.maskTimer.Stop()
	}
	c.mu.Unlock()
	c.player.Stop()
}
