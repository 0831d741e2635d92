package reveal

import (
	"context"
	"sync"
)

// Player runs at most one reveal at a time.
//
// Play cancels the reveal in progress before starting the next one, so a
// newer report always wins over an older one still animating.
type Player struct {
	revealer *Revealer

	mu      sync.Mutex
	current *run
}

// run is one reveal started by Play.
type run struct {
	cancel context.CancelFunc
	done   chan struct{}
	err    error
}

// NewPlayer creates a Player that uses revealer for every reveal.
func NewPlayer(revealer *Revealer) *Player {
	if revealer == nil {
		revealer = NewRevealer()
	}
	return &Player{revealer: revealer}
}

// Play cancels any running reveal, waits until it has stopped writing to its
// sink, and starts revealing content into sink in the background.
// The returned channel is closed when this reveal ends.
func (p *Player) Play(ctx context.Context, content string, sink Sink) <-chan struct{} {
	ctx, cancel := context.WithCancel(ctx)
	r := &run{cancel: cancel, done: make(chan struct{})}

	p.mu.Lock()
	prev := p.current
	p.current = r
	p.mu.Unlock()

	if prev != nil {
		prev.cancel()
		<-prev.done
	}

	go func() {
		defer close(r.done)
		r.err = p.revealer.Reveal(ctx, content, sink)
	}()

	return r.done
}

// Stop cancels the running reveal, if any, and waits for it to return.
func (p *Player) Stop() {
	p.mu.Lock()
	r := p.current
	p.mu.Unlock()

	if r == nil {
		return
	}
	r.cancel()
	<-r.done
}

// Wait blocks until the most recently started reveal ends and returns its
// error. It returns nil when nothing was played.
func (p *Player) Wait() error {
	p.mu.Lock()
	r := p.current
	p.mu.Unlock()

	if r == nil {
		return nil
	}
	<-r.done
	return r.err
}
