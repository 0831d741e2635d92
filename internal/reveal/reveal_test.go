package reveal

import (
	"context"
	"errors"
	"slices"
	"strings"
	"sync"
	"testing"
	"time"
)

// recordingSink records every frame it receives.
type recordingSink struct {
	mu       sync.Mutex
	frames   []string
	scrolled int
}

func (s *recordingSink) Render(partial string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.frames = append(s.frames, partial)
}

func (s *recordingSink) ScrollIntoView() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.scrolled++
}

func (s *recordingSink) last() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.frames) == 0 {
		return ""
	}
	return s.frames[len(s.frames)-1]
}

func (s *recordingSink) scrolls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.scrolled
}

func TestFrames(t *testing.T) {
	t.Parallel()

	t.Run("grows one character at a time", func(t *testing.T) {
		t.Parallel()
		got := slices.Collect(Frames("<p>"))
		want := []string{"<", "<p", "<p>"}
		if !slices.Equal(got, want) {
			t.Errorf("Frames = %q, want %q", got, want)
		}
	})

	t.Run("never splits multi-byte characters", func(t *testing.T) {
		t.Parallel()
		got := slices.Collect(Frames("héé"))
		want := []string{"h", "hé", "héé"}
		if !slices.Equal(got, want) {
			t.Errorf("Frames = %q, want %q", got, want)
		}
	})

	t.Run("empty content yields nothing", func(t *testing.T) {
		t.Parallel()
		if got := slices.Collect(Frames("")); len(got) != 0 {
			t.Errorf("expected no frames, got %q", got)
		}
	})

	t.Run("stops when consumer stops", func(t *testing.T) {
		t.Parallel()
		n := 0
		for range Frames("abcdef") {
			n++
			if n == 2 {
				break
			}
		}
		if n != 2 {
			t.Errorf("expected 2 iterations, got %d", n)
		}
	})
}

func TestRevealer_Reveal(t *testing.T) {
	t.Parallel()

	t.Run("renders every frame then scrolls", func(t *testing.T) {
		t.Parallel()

		sink := &recordingSink{}
		r := NewRevealer(WithInterval(0), WithScrollDelay(0))
		if err := r.Reveal(context.Background(), "abc", sink); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		want := []string{"", "a", "ab", "abc"}
		if !slices.Equal(sink.frames, want) {
			t.Errorf("frames = %q, want %q", sink.frames, want)
		}
		if sink.scrolls() != 1 {
			t.Errorf("expected one scroll, got %d", sink.scrolls())
		}
	})

	t.Run("without animation renders once", func(t *testing.T) {
		t.Parallel()

		sink := &recordingSink{}
		r := NewRevealer(WithoutAnimation(), WithScrollDelay(0))
		if err := r.Reveal(context.Background(), "héllo", sink); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if want := []string{"héllo"}; !slices.Equal(sink.frames, want) {
			t.Errorf("frames = %q, want %q", sink.frames, want)
		}
		if sink.scrolls() != 1 {
			t.Errorf("expected one scroll, got %d", sink.scrolls())
		}
	})

	t.Run("honours the interval", func(t *testing.T) {
		t.Parallel()

		sink := &recordingSink{}
		r := NewRevealer(WithInterval(2*time.Millisecond), WithScrollDelay(0))
		start := time.Now()
		if err := r.Reveal(context.Background(), "abcde", sink); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if elapsed := time.Since(start); elapsed < 8*time.Millisecond {
			t.Errorf("reveal finished too quickly: %s", elapsed)
		}
		if sink.last() != "abcde" {
			t.Errorf("expected full content, got %q", sink.last())
		}
	})

	t.Run("cancellation stops without scrolling", func(t *testing.T) {
		t.Parallel()

		sink := &recordingSink{}
		ctx, cancel := context.WithCancel(context.Background())
		r := NewRevealer(WithInterval(time.Millisecond), WithScrollDelay(0))

		go func() {
			time.Sleep(5 * time.Millisecond)
			cancel()
		}()

		err := r.Reveal(ctx, strings.Repeat("x", 10000), sink)
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("expected context.Canceled, got %v", err)
		}
		if sink.scrolls() != 0 {
			t.Error("expected no scroll after cancellation")
		}
		if len(sink.last()) == 10000 {
			t.Error("expected partial content after cancellation")
		}
	})

	t.Run("already cancelled context renders nothing", func(t *testing.T) {
		t.Parallel()

		sink := &recordingSink{}
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		if err := NewRevealer().Reveal(ctx, "abc", sink); !errors.Is(err, context.Canceled) {
			t.Fatalf("expected context.Canceled, got %v", err)
		}
		if len(sink.frames) != 0 {
			t.Errorf("expected no frames, got %q", sink.frames)
		}
	})
}

func TestPlayer(t *testing.T) {
	t.Parallel()

	t.Run("newer reveal replaces older one", func(t *testing.T) {
		t.Parallel()

		sink := &recordingSink{}
		p := NewPlayer(NewRevealer(WithInterval(time.Millisecond), WithScrollDelay(0)))

		first := p.Play(context.Background(), strings.Repeat("a", 5000), sink)
		time.Sleep(3 * time.Millisecond)
		p.Play(context.Background(), "second report", sink)

		<-first
		if err := p.Wait(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got := sink.last(); got != "second report" {
			t.Errorf("expected second report to win, got %q", got)
		}
		if sink.scrolls() != 1 {
			t.Errorf("expected exactly one scroll, got %d", sink.scrolls())
		}
	})

	t.Run("stop cancels the running reveal", func(t *testing.T) {
		t.Parallel()

		sink := &recordingSink{}
		p := NewPlayer(NewRevealer(WithInterval(time.Millisecond)))
		p.Play(context.Background(), strings.Repeat("a", 5000), sink)
		p.Stop()

		if err := p.Wait(); !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
	})

	t.Run("wait without play returns nil", func(t *testing.T) {
		t.Parallel()
		if err := NewPlayer(nil).Wait(); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	})
}
