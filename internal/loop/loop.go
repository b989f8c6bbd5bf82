package loop

import (
	"fmt"

	"github.com/smorimura/mle/internal/async"
	"github.com/smorimura/mle/internal/command"
	"github.com/smorimura/mle/internal/dispatch"
	"github.com/smorimura/mle/internal/key"
	"github.com/smorimura/mle/internal/keymap"
	"github.com/smorimura/mle/internal/macro"
	"github.com/smorimura/mle/internal/term"
	"github.com/smorimura/mle/internal/view"
)

// Drawer renders a view's current state. The real terminal renderer lives
// outside this package; Run calls it once per turn as its first step.
type Drawer interface {
	Draw(v *view.View)
}

// AsyncSink receives bytes delivered by an async source and the outcome
// when that source finishes, so a subprocess or AI stream can append to
// whichever view it is bound to (view.AsyncSourceID) without the loop
// needing to know buffer internals.
type AsyncSink interface {
	DeliverAsync(views *view.Registry, sourceID string, data []byte)
	FinishAsync(views *view.Registry, sourceID string, err error)
}

// MacroNamer opens a nested input prompt to ask the user what to call a
// macro that is about to start recording. The loop package can't depend on
// internal/prompt directly (prompt.Controller itself holds a *Loop), so the
// editor wires a small adapter around its prompt controller into this
// interface instead. ok is false if the prompt was cancelled.
type MacroNamer interface {
	PromptMacroName(ctx *Context) (name string, ok bool)
}

// Loop owns every collaborator the reentrant event loop needs: the
// terminal backend, the view/command registries, the async multiplexer,
// and the macro recorder/player. A single Loop drives every nesting
// level; each level gets its own Context, created by whatever opens a
// prompt or menu and re-enters Run.
type Loop struct {
	Backend  term.Backend
	Views    *view.Registry
	Commands *command.Registry
	Async    *async.Multiplexer
	Recorder *macro.Recorder
	Player   *macro.Player
	Drawer   Drawer
	Sink     AsyncSink
	Namer    MacroNamer

	// ToggleKey starts/stops macro recording when matched as live input.
	// The zero Keystroke disables the toggle.
	ToggleKey keymap.Keystroke

	// TextInsertCommand names the command a plain character keystroke
	// resolves to in edit keymaps. Paste ingestion (ingestPaste) peeks for
	// this command so a bracketed paste is inserted as one batch instead
	// of one resolver pass per character.
	TextInsertCommand string

	input       chan term.Event
	replayQueue []keymap.Keystroke
	macroSeq    int
}

// New creates a Loop around its collaborators. Callers register commands
// and keymaps, and call StartInput, before calling Run.
func New(backend term.Backend, views *view.Registry, commands *command.Registry) *Loop {
	recorder := macro.NewRecorder()
	return &Loop{
		Backend:  backend,
		Views:    views,
		Commands: commands,
		Async:    async.New(),
		Recorder: recorder,
		Player:   macro.NewPlayer(recorder),
		input:    make(chan term.Event, 256),
	}
}

// StartInput launches the background goroutine that blocks on
// Backend.PollEvent and forwards events to Run. An event is dropped
// rather than blocking the terminal's own input source when the 256-event
// input buffer is full; this mirrors polling a live terminal,
// which cannot be paused while a command handler runs.
func (l *Loop) StartInput() {
	go func() {
		for {
			ev := l.Backend.PollEvent()
			select {
			case l.input <- ev:
			default:
			}
		}
	}()
}

// QueueMacro expands the named macro count times onto the loop's replay
// queue, which Run drains ahead of live terminal input. Commands bound to
// a macro-replay keystroke call this instead of macro.Player directly:
// Run needs to pull one keystroke at a time through the same dispatch path
// live input takes, rather than receive a callback push.
func (l *Loop) QueueMacro(name string, count int) error {
	events := l.Recorder.Get(name)
	if len(events) == 0 {
		return fmt.Errorf("loop: macro %q is empty or undefined", name)
	}
	if count < 1 {
		count = 1
	}
	for i := 0; i < count; i++ {
		l.replayQueue = append(l.replayQueue, events...)
	}
	l.Recorder.SetLastPlayed(name)
	return nil
}

// Replaying reports whether a macro replay is still queued up, so a
// should-exit check or a nested prompt can avoid stopping mid-replay.
func (l *Loop) Replaying() bool {
	return len(l.replayQueue) > 0
}

// Run drives ctx's view until ShouldExit is set, re-entering for nested
// prompt/menu contexts (see Context). Each iteration follows a fixed
// priority order: redraw, then queued macro replay, then a keystroke
// already waiting on the terminal, then async source output, and only
// once both are empty does the turn block waiting on the terminal. A
// keystroke sitting in the terminal's input queue is always serviced
// before async sources are drained that turn, so a busy subprocess or AI
// stream can never make typing feel laggy.
func (l *Loop) Run(ctx *Context) error {
	for !ctx.ShouldExit {
		if l.Drawer != nil {
			l.Drawer.Draw(ctx.View)
		}

		ks, fromReplay, ok := l.nextKeystroke(ctx)
		if !ok {
			continue
		}

		if !fromReplay && l.isToggle(ks) {
			l.toggleRecording(ctx)
			continue
		}
		if !fromReplay && l.Recorder.IsRecording() {
			l.Recorder.Record(ks)
		}

		l.dispatch(ctx, ks, fromReplay)
	}
	return nil
}

// drainAsync polls every registered async source once and reports whether
// any of them delivered data or finished this turn. A non-empty turn
// restarts the loop immediately (skipping the blocking input read) so a
// fast-finishing subprocess or AI stream is fully drained before the loop
// waits on the terminal again.
func (l *Loop) drainAsync(ctx *Context) bool {
	delivered := false
	l.Async.Poll(
		func(id string, data []byte) {
			delivered = true
			if l.Sink != nil {
				l.Sink.DeliverAsync(l.Views, id, data)
			}
		},
		func(id string, err error) {
			delivered = true
			if l.Sink != nil {
				l.Sink.FinishAsync(l.Views, id, err)
			}
		},
	)
	return delivered
}

// nextKeystroke returns the next keystroke to dispatch, trying each source
// in priority order. The second result is true when it came from macro
// replay rather than live input; the third is false when the turn consumed
// a non-key event, or delivered/finished async output, and Run should
// restart its iteration without dispatching.
func (l *Loop) nextKeystroke(ctx *Context) (keymap.Keystroke, bool, bool) {
	if len(l.replayQueue) > 0 {
		ks := l.replayQueue[0]
		l.replayQueue = l.replayQueue[1:]
		return ks, true, true
	}

	if ev, ready := l.tryInput(); ready {
		return l.handleEvent(ctx, ev)
	}

	if l.drainAsync(ctx) {
		return keymap.Keystroke{}, false, false
	}

	return l.handleEvent(ctx, <-l.input)
}

// tryInput reports whether a terminal event is already waiting without
// blocking for one, so Run can give it priority over draining async
// sources this turn.
func (l *Loop) tryInput() (term.Event, bool) {
	select {
	case ev := <-l.input:
		return ev, true
	default:
		return term.Event{}, false
	}
}

func (l *Loop) handleEvent(ctx *Context, ev term.Event) (keymap.Keystroke, bool, bool) {
	switch ev.Type {
	case term.EventKey:
		return toKeymapKeystroke(ev), false, true
	case term.EventPaste:
		l.ingestPaste(ctx, ev.PasteText)
		return keymap.Keystroke{}, false, false
	default:
		return keymap.Keystroke{}, false, false
	}
}

func toKeymapKeystroke(ev term.Event) keymap.Keystroke {
	return keymap.FromEvent(toKeyEvent(ev))
}

func (l *Loop) isToggle(ks keymap.Keystroke) bool {
	return l.ToggleKey != (keymap.Keystroke{}) && ks == l.ToggleKey
}

// toggleRecording starts or stops recording in response to ToggleKey.
// Starting opens a nested input prompt (via Namer) asking what to call the
// macro; cancelling that prompt aborts the recording instead of starting
// one under a throwaway name. If no Namer is wired, recording falls back
// to a generated placeholder name.
func (l *Loop) toggleRecording(ctx *Context) {
	if l.Recorder.IsRecording() {
		l.Recorder.StopRecording()
		return
	}

	name := ""
	if l.Namer != nil {
		got, ok := l.Namer.PromptMacroName(ctx)
		if !ok {
			return
		}
		name = got
	}
	if name == "" {
		l.macroSeq++
		name = fmt.Sprintf("macro-%d", l.macroSeq)
	}
	_ = l.Recorder.StartRecording(name)
}

// ingestPaste converts a bracketed paste into a single dispatch instead of
// resolving it one keystroke at a time. It peeks the current keymap stack
// with a representative rune to find the command bound to ordinary text
// entry (without mutating dispatch.State, since a chord mid-accumulation
// must not be disturbed by paste text), then runs that command once with
// the whole paste text attached, rather than risking pasted characters
// that happen to match bound chords from being interpreted as commands.
func (l *Loop) ingestPaste(ctx *Context, text string) {
	if text == "" {
		return
	}
	probe := keymap.Keystroke{Key: key.KeyRune, Rune: 'a'}
	res := dispatch.Resolve(ctx.View.Keymaps, ctx.State, probe, true)
	if res.Outcome != dispatch.Resolved || res.Command == nil {
		return
	}
	if l.TextInsertCommand != "" && res.Command.Name != l.TextInsertCommand {
		// The active keymap binds plain characters to something other than
		// text entry (e.g. a menu's filter-as-you-type is itself the
		// insert command, but a command-line prompt might not bind 'a' at
		// all); only ingest as a batch when it actually targets insertion.
		return
	}
	fn, err := res.Command.Resolve(l.Commands)
	if err != nil {
		return
	}
	fn(&command.Context{
		Editor:    l,
		View:      ctx.View,
		Loop:      ctx,
		Param:     res.Param,
		UserInput: true,
		Paste:     text,
	})
	ctx.LastCmd = res.Command
}

// dispatch resolves one keystroke against ctx's view and, if it completes
// a chord, runs the bound command.
func (l *Loop) dispatch(ctx *Context, ks keymap.Keystroke, fromReplay bool) {
	res := dispatch.Resolve(ctx.View.Keymaps, ctx.State, ks, false)
	if res.Outcome != dispatch.Resolved || res.Command == nil {
		return
	}

	fn, err := res.Command.Resolve(l.Commands)
	if err != nil {
		return
	}

	fn(&command.Context{
		Editor:    l,
		View:      ctx.View,
		Loop:      ctx,
		Rune:      ks.Rune,
		Param:     res.Param,
		Numeric:   res.Numeric,
		Wildcard:  res.Wildcard,
		UserInput: !fromReplay,
	})
	ctx.LastCmd = res.Command
}
