package macro

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/smorimura/mle/internal/keymap"
)

// EventHandler processes one replayed keystroke.
type EventHandler func(ks keymap.Keystroke)

// Player replays recorded macros.
type Player struct {
	recorder *Recorder
	mu       sync.Mutex
	playing  atomic.Bool
	cancel   context.CancelFunc
}

// NewPlayer creates a player backed by recorder's macro registry.
func NewPlayer(recorder *Recorder) *Player {
	return &Player{recorder: recorder}
}

// Play replays the named macro count times (minimum 1), calling handler for
// each keystroke. Runs synchronously; see PlayAsync for non-blocking replay.
func (p *Player) Play(name string, count int, handler EventHandler) error {
	return p.PlayWithContext(context.Background(), name, count, handler)
}

// PlayAsync replays a macro in a goroutine, closing done (if non-nil) when
// playback completes. Setup errors are returned immediately; playback
// errors are not surfaced since the caller has already returned.
func (p *Player) PlayAsync(name string, count int, handler EventHandler, done chan<- struct{}) error {
	events, err := p.begin(name, count, handler)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	p.mu.Lock()
	p.cancel = cancel
	p.mu.Unlock()

	go func() {
		defer p.end(done)
		if p.replay(ctx, events, count, handler) == nil {
			p.recorder.SetLastPlayed(name)
		}
	}()

	return nil
}

// PlayLast replays the most recently played macro. Equivalent to Vim's @@.
func (p *Player) PlayLast(count int, handler EventHandler) error {
	name := p.recorder.LastPlayed()
	if name == "" {
		return fmt.Errorf("macro: no macro has been played yet")
	}
	return p.Play(name, count, handler)
}

// PlayWithContext plays a macro under an externally supplied context,
// letting a caller cancel playback as part of a larger shutdown.
func (p *Player) PlayWithContext(ctx context.Context, name string, count int, handler EventHandler) error {
	events, err := p.begin(name, count, handler)
	if err != nil {
		return err
	}

	childCtx, cancel := context.WithCancel(ctx)
	p.mu.Lock()
	p.cancel = cancel
	p.mu.Unlock()
	defer p.end(nil)

	err = p.replay(childCtx, events, count, handler)
	if err == nil {
		p.recorder.SetLastPlayed(name)
	}
	return err
}

// IsPlaying reports whether a macro is currently being replayed.
func (p *Player) IsPlaying() bool {
	return p.playing.Load()
}

// Cancel stops the currently playing macro. Safe to call when idle.
func (p *Player) Cancel() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.cancel != nil {
		p.cancel()
	}
}

func (p *Player) begin(name string, count int, handler EventHandler) ([]keymap.Keystroke, error) {
	if handler == nil {
		return nil, fmt.Errorf("macro: handler cannot be nil")
	}
	events := p.recorder.Get(name)
	if len(events) == 0 {
		return nil, fmt.Errorf("macro: %q is empty or undefined", name)
	}
	if count < 1 {
		count = 1
	}

	p.mu.Lock()
	if p.playing.Load() {
		p.mu.Unlock()
		return nil, fmt.Errorf("macro: already playing")
	}
	p.playing.Store(true)
	p.mu.Unlock()

	return events, nil
}

func (p *Player) end(done chan<- struct{}) {
	p.playing.Store(false)
	p.mu.Lock()
	p.cancel = nil
	p.mu.Unlock()
	if done != nil {
		close(done)
	}
}

// replay runs events count times through handler, stopping early if ctx is
// cancelled.
func (p *Player) replay(ctx context.Context, events []keymap.Keystroke, count int, handler EventHandler) error {
	if count < 1 {
		count = 1
	}
	for i := 0; i < count; i++ {
		for _, ks := range events {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
				handler(ks)
			}
		}
	}
	return nil
}
