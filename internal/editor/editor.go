// Package editor wires every core package into a single running instance:
// registries, the event loop, the prompt controller, and the background
// collaborators (subprocess supervisor, script interpreter, AI client)
// commands reach through Editor.
package editor

import (
	"fmt"
	"time"

	"github.com/smorimura/mle/internal/ai"
	"github.com/smorimura/mle/internal/async"
	"github.com/smorimura/mle/internal/command"
	"github.com/smorimura/mle/internal/config"
	"github.com/smorimura/mle/internal/key"
	"github.com/smorimura/mle/internal/keymap"
	"github.com/smorimura/mle/internal/logging"
	"github.com/smorimura/mle/internal/loop"
	"github.com/smorimura/mle/internal/macro"
	"github.com/smorimura/mle/internal/proc"
	"github.com/smorimura/mle/internal/prompt"
	"github.com/smorimura/mle/internal/script"
	"github.com/smorimura/mle/internal/term"
	"github.com/smorimura/mle/internal/view"
)

// shutdownGrace bounds how long Shutdown waits for spawned subprocesses to
// exit on their own before the supervisor force-kills them.
const shutdownGrace = 2 * time.Second

// Editor owns every registry and background collaborator the dispatch core
// and its commands reach through. Exactly one exists per process.
type Editor struct {
	Backend  term.Backend
	Commands *command.Registry
	Keymaps  *keymap.Registry
	Views    *view.Registry
	Recorder *macro.Recorder
	Loop     *loop.Loop
	Prompts  *prompt.Controller

	Supervisor *proc.Supervisor
	Script     *script.State
	AI         ai.Client

	Log *logging.Logger

	Options config.Options
}

// New builds a fully wired Editor from backend and the parsed startup
// options, registering every builtin command and loading every keymap and
// macro definition opts carries; syntax definitions and rules are not
// applied. It does not open any file or
// start the input goroutine; call Open and Run for that.
func New(backend term.Backend, opts config.Options) (*Editor, error) {
	ed := &Editor{
		Backend:    backend,
		Commands:   command.NewRegistry(),
		Keymaps:    keymap.NewRegistry(),
		Views:      view.NewRegistry(),
		Recorder:   macro.NewRecorder(),
		Supervisor: proc.NewSupervisor(),
		Log:        logging.Get().WithComponent("editor"),
		Options:    opts,
	}

	ed.registerBuiltinCommands()

	if err := ed.applyKeymaps(opts.Keymaps); err != nil {
		return nil, fmt.Errorf("editor: %w", err)
	}
	if err := ed.applyMacros(opts.Macros); err != nil {
		return nil, fmt.Errorf("editor: %w", err)
	}

	if ed.Keymaps.Get(opts.InitialKeymap) == nil {
		ed.Keymaps.Register(keymap.New(opts.InitialKeymap))
	}

	ed.Loop = loop.New(backend, ed.Views, ed.Commands)
	ed.Loop.Recorder = ed.Recorder
	ed.Loop.Player = macro.NewPlayer(ed.Recorder)
	ed.Loop.TextInsertCommand = "insert-char"
	ed.Loop.Sink = ed
	if opts.MacroToggle != "" {
		ev, err := key.Parse(opts.MacroToggle)
		if err != nil {
			return nil, fmt.Errorf("editor: macro toggle key %q: %w", opts.MacroToggle, err)
		}
		ed.Loop.ToggleKey = keymap.FromEvent(ev)
	}

	if opts.Script != "" {
		st, err := script.NewState()
		if err != nil {
			return nil, fmt.Errorf("editor: script state: %w", err)
		}
		st.InstallEditorAPI(ed.Views)
		ed.Script = st
	}

	shell := prompt.NewShellCompleter("compgen -f --")
	ed.Prompts = prompt.NewController(ed.Loop, ed.Views, ed.Commands, shell, prompt.RegexpSearcher{})
	ed.Loop.Namer = macroNamer{ed.Prompts}

	if opts.AIProvider != "" {
		client, err := ai.NewClient(ai.Config{
			Provider: ai.Provider(opts.AIProvider),
			APIKey:   config.ResolveAPIKey(opts.AIProvider),
		})
		if err != nil {
			ed.Log.Warn("ai provider %q unavailable: %v", opts.AIProvider, err)
		} else {
			ed.AI = client
		}
	}

	return ed, nil
}

// RunScript executes the "-x" startup script, if one was configured. It is a
// no-op when Options.Script is empty.
func (ed *Editor) RunScript() error {
	if ed.Script == nil {
		return nil
	}
	if err := ed.Script.DoFile(ed.Options.Script); err != nil {
		return fmt.Errorf("editor: running script %q: %w", ed.Options.Script, err)
	}
	return nil
}

// Open creates a view over a file (or an empty scratch buffer, if path is
// empty) using the initial keymap, and makes it active.
func (ed *Editor) Open(path string, content []byte, startLine int) *view.View {
	buf := view.NewBuffer(path, content)
	name := path
	if name == "" {
		name = "[No Name]"
	}
	v := ed.Views.Open(name, view.TypeEdit, buf)

	stack := keymap.NewStack()
	stack.Push(ed.Keymaps.GetOrCreate(ed.Options.InitialKeymap))
	v.Keymaps = stack

	if startLine > 0 {
		v.Cursor.Line = startLine - 1
		if v.Cursor.Line >= buf.LineCount() {
			v.Cursor.Line = buf.LineCount() - 1
		}
	}
	return v
}

// Run enters the top-level event loop over the currently active view. It
// returns when that loop's context requests exit (e.g. the quit command).
func (ed *Editor) Run() error {
	ed.Loop.StartInput()
	ctx := loop.NewContext(ed.Views.Active(), nil)
	return ed.Loop.Run(ctx)
}

// Shutdown releases every background collaborator. Safe to call more than
// once.
func (ed *Editor) Shutdown() {
	ed.Supervisor.Shutdown(shutdownGrace)
	if ed.Script != nil {
		_ = ed.Script.Close()
	}
	ed.Loop.Async.Shutdown()
	ed.Backend.Shutdown()
}

// spawnShellSource registers p's stdout as an async source under a unique
// ID, returning that ID for a command to stash on View.AsyncSourceID.
func (ed *Editor) spawnShellSource(name string, p *proc.Process) string {
	id := fmt.Sprintf("proc-%s-%d", name, p.PID())
	ed.Loop.Async.Add(async.NewProcessSource(id, p))
	return id
}
