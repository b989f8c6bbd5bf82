package loop

import (
	"testing"

	"github.com/smorimura/mle/internal/async"
	"github.com/smorimura/mle/internal/command"
	"github.com/smorimura/mle/internal/key"
	"github.com/smorimura/mle/internal/keymap"
	"github.com/smorimura/mle/internal/term"
	"github.com/smorimura/mle/internal/view"
)

// countingSource counts how many times Poll has read from it, so a test
// can assert that a pending terminal keystroke was dispatched before it.
type countingSource struct {
	reads int
}

func (s *countingSource) ID() string { return "counting" }
func (s *countingSource) Read() ([]byte, bool, error) {
	s.reads++
	return nil, true, nil
}
func (s *countingSource) Done() bool   { return false }
func (s *countingSource) Close() error { return nil }

var _ async.Source = (*countingSource)(nil)

func newTestLoop(t *testing.T) (*Loop, *view.View, *command.Reference) {
	t.Helper()

	backend := term.NewNullBackend(80, 24)
	views := view.NewRegistry()
	commands := command.NewRegistry()

	km := keymap.New("normal")
	ref := command.NewReference("insert-char")
	if err := km.Bind("a", ref, ""); err != nil {
		t.Fatalf("Bind: %v", err)
	}

	stack := keymap.NewStack()
	stack.Push(km)

	buf := view.NewScratchBuffer()
	v := views.Open("scratch", view.TypeEdit, buf)
	v.Keymaps = stack

	l := New(backend, views, commands)
	l.StartInput()

	return l, v, ref
}

func TestRunDispatchesResolvedCommand(t *testing.T) {
	l, v, ref := newTestLoop(t)

	var got rune
	l.Commands.Register("insert-char", func(ctx *command.Context) command.Result {
		got = ctx.Rune
		ctx.Loop.RequestExit()
		return command.OK()
	})

	ctx := NewContext(v, nil)
	backend := l.Backend.(*term.NullBackend)
	backend.PostEvent(term.Event{Type: term.EventKey, Key: term.KeyRune, Rune: 'a'})

	if err := l.Run(ctx); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got != 'a' {
		t.Fatalf("expected command to see rune 'a', got %q", got)
	}
	if ctx.LastCmd != ref {
		t.Fatalf("expected LastCmd set to the resolved reference")
	}
}

func TestRunDrainsMacroReplayBeforeTerminal(t *testing.T) {
	l, v, _ := newTestLoop(t)

	var got []rune
	l.Commands.Register("insert-char", func(ctx *command.Context) command.Result {
		got = append(got, ctx.Rune)
		if len(got) == 2 {
			ctx.Loop.RequestExit()
		}
		return command.OK()
	})

	l.Recorder.Set("greet", []keymap.Keystroke{
		{Key: key.KeyRune, Rune: 'a'},
		{Key: key.KeyRune, Rune: 'a'},
	})
	if err := l.QueueMacro("greet", 1); err != nil {
		t.Fatalf("QueueMacro: %v", err)
	}

	ctx := NewContext(v, nil)
	if err := l.Run(ctx); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(got) != 2 || got[0] != 'a' || got[1] != 'a' {
		t.Fatalf("expected two replayed insertions, got %v", got)
	}
}

func TestRunServicesPendingKeystrokeBeforeDrainingAsync(t *testing.T) {
	l, v, _ := newTestLoop(t)

	src := &countingSource{}
	l.Async.Add(src)

	var readsAtDispatch int
	l.Commands.Register("insert-char", func(ctx *command.Context) command.Result {
		readsAtDispatch = src.reads
		ctx.Loop.RequestExit()
		return command.OK()
	})

	ctx := NewContext(v, nil)
	// Placed directly on the input channel (bypassing the backend/StartInput
	// goroutine) so the keystroke is deterministically waiting before Run's
	// first turn, rather than racing the polling goroutine to arrive there.
	l.input <- term.Event{Type: term.EventKey, Key: term.KeyRune, Rune: 'a'}

	if err := l.Run(ctx); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if readsAtDispatch != 0 {
		t.Fatalf("expected the queued keystroke dispatched before any async drain, got %d prior reads", readsAtDispatch)
	}
}

func TestIngestPasteDispatchesBatchedText(t *testing.T) {
	l, v, _ := newTestLoop(t)
	l.TextInsertCommand = "insert-char"

	var pasted string
	l.Commands.Register("insert-char", func(ctx *command.Context) command.Result {
		pasted = ctx.Paste
		ctx.Loop.RequestExit()
		return command.OK()
	})

	ctx := NewContext(v, nil)
	backend := l.Backend.(*term.NullBackend)
	backend.PostEvent(term.Event{Type: term.EventPaste, PasteText: "hello"})
	backend.PostEvent(term.Event{Type: term.EventKey, Key: term.KeyRune, Rune: 'a'})

	if err := l.Run(ctx); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if pasted != "hello" {
		t.Fatalf("expected paste ingestion to deliver %q, got %q", "hello", pasted)
	}
}

func TestToggleKeyStartsAndStopsRecordingWithoutRecordingItself(t *testing.T) {
	l, v, _ := newTestLoop(t)
	l.ToggleKey = keymap.Keystroke{Key: key.KeyRune, Rune: 'q'}

	qref := command.NewReference("noop")
	km := keymap.New("normal")
	if err := km.Bind("q", qref, ""); err != nil {
		t.Fatalf("Bind: %v", err)
	}
	if err := km.Bind("a", command.NewReference("insert-char"), ""); err != nil {
		t.Fatalf("Bind: %v", err)
	}
	if err := km.Bind("x", command.NewReference("exit"), ""); err != nil {
		t.Fatalf("Bind: %v", err)
	}
	stack := keymap.NewStack()
	stack.Push(km)
	v.Keymaps = stack

	l.Commands.Register("noop", func(ctx *command.Context) command.Result { return command.OK() })
	l.Commands.Register("insert-char", func(ctx *command.Context) command.Result { return command.OK() })
	l.Commands.Register("exit", func(ctx *command.Context) command.Result {
		ctx.Loop.RequestExit()
		return command.OK()
	})

	ctx := NewContext(v, nil)
	backend := l.Backend.(*term.NullBackend)
	backend.PostEvent(term.Event{Type: term.EventKey, Key: term.KeyRune, Rune: 'q'})
	backend.PostEvent(term.Event{Type: term.EventKey, Key: term.KeyRune, Rune: 'a'})
	backend.PostEvent(term.Event{Type: term.EventKey, Key: term.KeyRune, Rune: 'q'})
	backend.PostEvent(term.Event{Type: term.EventKey, Key: term.KeyRune, Rune: 'x'})

	if err := l.Run(ctx); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if l.Recorder.IsRecording() {
		t.Fatalf("expected recording to have been toggled back off")
	}
	name := l.Recorder.Names()
	if len(name) != 1 {
		t.Fatalf("expected exactly one recorded macro, got %v", name)
	}
	if got := l.Recorder.EventCount(name[0]); got != 1 {
		t.Fatalf("expected the toggle keystrokes excluded, recorded %d events", got)
	}
}

type fakeNamer struct {
	name string
	ok   bool
}

func (f fakeNamer) PromptMacroName(ctx *Context) (string, bool) { return f.name, f.ok }

func TestToggleKeyPromptsNamerForMacroName(t *testing.T) {
	l, v, _ := newTestLoop(t)
	l.ToggleKey = keymap.Keystroke{Key: key.KeyRune, Rune: 'q'}
	l.Namer = fakeNamer{name: "m1", ok: true}

	km := keymap.New("normal")
	if err := km.Bind("q", command.NewReference("noop"), ""); err != nil {
		t.Fatalf("Bind: %v", err)
	}
	if err := km.Bind("x", command.NewReference("exit"), ""); err != nil {
		t.Fatalf("Bind: %v", err)
	}
	stack := keymap.NewStack()
	stack.Push(km)
	v.Keymaps = stack

	l.Commands.Register("noop", func(ctx *command.Context) command.Result { return command.OK() })
	l.Commands.Register("exit", func(ctx *command.Context) command.Result {
		ctx.Loop.RequestExit()
		return command.OK()
	})

	ctx := NewContext(v, nil)
	backend := l.Backend.(*term.NullBackend)
	backend.PostEvent(term.Event{Type: term.EventKey, Key: term.KeyRune, Rune: 'q'})
	backend.PostEvent(term.Event{Type: term.EventKey, Key: term.KeyRune, Rune: 'x'})

	if err := l.Run(ctx); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if !l.Recorder.IsRecording() {
		t.Fatalf("expected recording started under the prompted name")
	}
	if got := l.Recorder.CurrentName(); got != "m1" {
		t.Fatalf("expected recording under %q, got %q", "m1", got)
	}
}

func TestToggleKeyAbortsWhenNamerCancels(t *testing.T) {
	l, v, _ := newTestLoop(t)
	l.ToggleKey = keymap.Keystroke{Key: key.KeyRune, Rune: 'q'}
	l.Namer = fakeNamer{ok: false}

	km := keymap.New("normal")
	if err := km.Bind("q", command.NewReference("noop"), ""); err != nil {
		t.Fatalf("Bind: %v", err)
	}
	if err := km.Bind("x", command.NewReference("exit"), ""); err != nil {
		t.Fatalf("Bind: %v", err)
	}
	stack := keymap.NewStack()
	stack.Push(km)
	v.Keymaps = stack

	l.Commands.Register("noop", func(ctx *command.Context) command.Result { return command.OK() })
	l.Commands.Register("exit", func(ctx *command.Context) command.Result {
		ctx.Loop.RequestExit()
		return command.OK()
	})

	ctx := NewContext(v, nil)
	backend := l.Backend.(*term.NullBackend)
	backend.PostEvent(term.Event{Type: term.EventKey, Key: term.KeyRune, Rune: 'q'})
	backend.PostEvent(term.Event{Type: term.EventKey, Key: term.KeyRune, Rune: 'x'})

	if err := l.Run(ctx); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if l.Recorder.IsRecording() {
		t.Fatalf("expected a cancelled name prompt to abort recording")
	}
	if names := l.Recorder.Names(); len(names) != 0 {
		t.Fatalf("expected no macro recorded, got %v", names)
	}
}
