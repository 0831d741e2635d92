package reveal

import (
	"context"
	"iter"
	"time"
	"unicode/utf8"
)

// Default timings of the reveal animation.
const (
	// DefaultInterval is the delay between two frames.
	DefaultInterval = 5 * time.Millisecond

	// DefaultScrollDelay is the pause between the last frame and scrolling
	// the report into view.
	DefaultScrollDelay = 300 * time.Millisecond
)

// Sink receives the frames of a reveal.
type Sink interface {
	// Render replaces the visible output with partial.
	Render(partial string)

	// ScrollIntoView is called once after the full content is shown.
	ScrollIntoView()
}

// Frames yields every prefix of content that ends on a character boundary,
// from the first character up to the full string. Multi-byte characters are
// never split. An empty content yields nothing.
func Frames(content string) iter.Seq[string] {
	return func(yield func(string) bool) {
		for i := 0; i < len(content); {
			_, size := utf8.DecodeRuneInString(content[i:])
			i += size
			if !yield(content[:i]) {
				return
			}
		}
	}
}

// Revealer plays frames into a Sink.
type Revealer struct {
	interval    time.Duration
	scrollDelay time.Duration
	instant     bool
}

// Option configures a Revealer.
type Option func(*Revealer)

// WithInterval sets the delay between frames.
// A zero interval renders frames back to back.
func WithInterval(d time.Duration) Option {
	return func(r *Revealer) {
		if d >= 0 {
			r.interval = d
		}
	}
}

// WithScrollDelay sets the delay before ScrollIntoView.
func WithScrollDelay(d time.Duration) Option {
	return func(r *Revealer) {
		if d >= 0 {
			r.scrollDelay = d
		}
	}
}

// WithoutAnimation renders the whole content as a single frame.
func WithoutAnimation() Option {
	return func(r *Revealer) {
		r.instant = true
	}
}

// NewRevealer creates a Revealer with the default timings.
func NewRevealer(opts ...Option) *Revealer {
	r := &Revealer{
		interval:    DefaultInterval,
		scrollDelay: DefaultScrollDelay,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Reveal renders content into sink one character per tick, then scrolls it
// into view after the scroll delay. The sink is first cleared.
//
// Without animation the content is rendered in one frame.
//
// It returns ctx.Err() if ctx is cancelled before completion; in that case
// ScrollIntoView is not called and the sink keeps the last rendered frame.
func (r *Revealer) Reveal(ctx context.Context, content string, sink Sink) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if r.instant {
		sink.Render(content)
		if err := sleep(ctx, r.scrollDelay); err != nil {
			return err
		}
		sink.ScrollIntoView()
		return nil
	}

	sink.Render("")

	var tick <-chan time.Time
	if r.interval > 0 {
		ticker := time.NewTicker(r.interval)
		defer ticker.Stop()
		tick = ticker.C
	}

	for frame := range Frames(content) {
		if err := ctx.Err(); err != nil {
			return err
		}
		sink.Render(frame)
		if tick == nil {
			continue
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-tick:
		}
	}

	if err := sleep(ctx, r.scrollDelay); err != nil {
		return err
	}
	sink.ScrollIntoView()
	return nil
}

// sleep waits for d or until ctx is done.
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
