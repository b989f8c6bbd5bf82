package editor

import (
	"testing"

	"github.com/smorimura/mle/internal/command"
	"github.com/smorimura/mle/internal/config"
	"github.com/smorimura/mle/internal/term"
)

func newTestEditor(t *testing.T) *Editor {
	t.Helper()
	opts := config.Default()
	ed, err := New(term.NewNullBackend(80, 24), opts)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return ed
}

func TestNewRegistersBuiltinCommands(t *testing.T) {
	ed := newTestEditor(t)
	for _, name := range []string{"insert-char", "newline", "backspace", "delete-forward", "move-left", "quit"} {
		if !ed.Commands.Has(name) {
			t.Errorf("expected builtin command %q to be registered", name)
		}
	}
	if ed.Keymaps.Get("mle_normal") == nil {
		t.Errorf("expected default initial keymap to be registered")
	}
}

func TestApplyKeymapsFromOptions(t *testing.T) {
	opts := config.Default()
	opts.Keymaps = []config.KeymapDef{
		{
			Name:          "mle_normal",
			AllowFallthru: true,
			Bindings: []config.KeyBinding{
				{Command: "move-left", Key: "left"},
				{Command: "quit", Key: "q"},
			},
		},
	}
	ed, err := New(term.NewNullBackend(80, 24), opts)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	km := ed.Keymaps.Get("mle_normal")
	if km == nil {
		t.Fatalf("expected mle_normal to be registered")
	}
	if !km.AllowFallthru {
		t.Errorf("expected AllowFallthru true")
	}
}

func TestOpenAndRunDispatchesQuit(t *testing.T) {
	ed := newTestEditor(t)
	v := ed.Open("", []byte("hello"), 0)
	if v != ed.Views.Active() {
		t.Fatalf("expected opened view to become active")
	}

	backend := ed.Backend.(*term.NullBackend)
	backend.PostEvent(term.Event{Type: term.EventKey, Key: term.KeyRune, Rune: 'x'})

	km := ed.Keymaps.GetOrCreate(ed.Options.InitialKeymap)
	if err := km.Bind("x", command.NewReference("quit"), ""); err != nil {
		t.Fatalf("Bind: %v", err)
	}

	if err := ed.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
}

func TestInsertCharThenQuit(t *testing.T) {
	ed := newTestEditor(t)
	v := ed.Open("", nil, 0)

	km := ed.Keymaps.GetOrCreate(ed.Options.InitialKeymap)
	if err := km.Bind("a", command.NewReference("insert-char"), ""); err != nil {
		t.Fatalf("Bind: %v", err)
	}
	if err := km.Bind("q", command.NewReference("quit"), ""); err != nil {
		t.Fatalf("Bind: %v", err)
	}

	backend := ed.Backend.(*term.NullBackend)
	backend.PostEvent(term.Event{Type: term.EventKey, Key: term.KeyRune, Rune: 'a'})
	backend.PostEvent(term.Event{Type: term.EventKey, Key: term.KeyRune, Rune: 'q'})

	if err := ed.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got := v.Buffer.Line(0); got != "a" {
		t.Fatalf("expected buffer line %q, got %q", "a", got)
	}
}
