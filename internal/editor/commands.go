package editor

import (
	"os/exec"
	"strings"

	"github.com/smorimura/mle/internal/command"
	"github.com/smorimura/mle/internal/loop"
	"github.com/smorimura/mle/internal/prompt"
	"github.com/smorimura/mle/internal/script"
	"github.com/smorimura/mle/internal/view"
)

// registerBuiltinCommands installs the minimal command set every default
// keymap (mle_normal, mle_insert, ...) binds against. Each is a closure
// over ed rather than reading ctx.Editor, since ctx.Editor is only ever set
// to the *loop.Loop that dispatched it, not the owning Editor.
func (ed *Editor) registerBuiltinCommands() {
	ed.Commands.Register("insert-char", ed.cmdInsertChar)
	ed.Commands.Register("newline", ed.cmdNewline)
	ed.Commands.Register("backspace", ed.cmdBackspace)
	ed.Commands.Register("delete-forward", ed.cmdDeleteForward)

	ed.Commands.Register("move-left", ed.cmdMove(0, -1))
	ed.Commands.Register("move-right", ed.cmdMove(0, 1))
	ed.Commands.Register("move-up", ed.cmdMove(-1, 0))
	ed.Commands.Register("move-down", ed.cmdMove(1, 0))
	ed.Commands.Register("move-line-start", ed.cmdMoveLineStart)
	ed.Commands.Register("move-line-end", ed.cmdMoveLineEnd)

	ed.Commands.Register("quit", ed.cmdQuit)
	ed.Commands.Register("shell-filter", ed.cmdShellFilter)
	ed.Commands.Register("run-script", ed.cmdRunScript)
}

func activeView(ctx *command.Context) *view.View {
	v, _ := ctx.View.(*view.View)
	return v
}

func (ed *Editor) cmdInsertChar(ctx *command.Context) command.Result {
	v := activeView(ctx)
	if v == nil {
		return command.NoOp()
	}
	text := ctx.Paste
	if text == "" {
		if ctx.Rune == 0 {
			return command.NoOp()
		}
		text = string(ctx.Rune)
	}
	v.Buffer.InsertAt(v.Cursor.Line, v.Cursor.Col, text)
	v.Cursor.Col += len([]rune(text))
	return command.OK()
}

func (ed *Editor) cmdNewline(ctx *command.Context) command.Result {
	v := activeView(ctx)
	if v == nil {
		return command.NoOp()
	}
	v.Buffer.InsertAt(v.Cursor.Line, v.Cursor.Col, "\n")
	v.Cursor.Line++
	v.Cursor.Col = 0
	return command.OK()
}

func (ed *Editor) cmdBackspace(ctx *command.Context) command.Result {
	v := activeView(ctx)
	if v == nil {
		return command.NoOp()
	}
	if v.Cursor.Col == 0 {
		if v.Cursor.Line == 0 {
			return command.NoOp()
		}
		prevLen := len(v.Buffer.Line(v.Cursor.Line - 1))
		v.Buffer.DeleteRange(v.Cursor.Line-1, prevLen, v.Cursor.Line, 0)
		v.Cursor.Line--
		v.Cursor.Col = prevLen
		return command.OK()
	}
	v.Buffer.DeleteRange(v.Cursor.Line, v.Cursor.Col-1, v.Cursor.Line, v.Cursor.Col)
	v.Cursor.Col--
	return command.OK()
}

func (ed *Editor) cmdDeleteForward(ctx *command.Context) command.Result {
	v := activeView(ctx)
	if v == nil {
		return command.NoOp()
	}
	line := v.Buffer.Line(v.Cursor.Line)
	if v.Cursor.Col >= len(line) {
		if v.Cursor.Line >= v.Buffer.LineCount()-1 {
			return command.NoOp()
		}
		v.Buffer.DeleteRange(v.Cursor.Line, v.Cursor.Col, v.Cursor.Line+1, 0)
		return command.OK()
	}
	v.Buffer.DeleteRange(v.Cursor.Line, v.Cursor.Col, v.Cursor.Line, v.Cursor.Col+1)
	return command.OK()
}

func (ed *Editor) cmdMove(dLine, dCol int) command.Func {
	return func(ctx *command.Context) command.Result {
		v := activeView(ctx)
		if v == nil {
			return command.NoOp()
		}
		count := 1
		for _, n := range ctx.Numeric {
			if n > 0 {
				count = n
			}
		}
		line := v.Cursor.Line + dLine*count
		if line < 0 {
			line = 0
		}
		if last := v.Buffer.LineCount() - 1; line > last {
			line = last
		}
		col := v.Cursor.Col + dCol*count
		if col < 0 {
			col = 0
		}
		if lineLen := len(v.Buffer.Line(line)); col > lineLen {
			col = lineLen
		}
		v.Cursor.Line, v.Cursor.Col = line, col
		return command.OK()
	}
}

func (ed *Editor) cmdMoveLineStart(ctx *command.Context) command.Result {
	v := activeView(ctx)
	if v == nil {
		return command.NoOp()
	}
	v.Cursor.Col = 0
	return command.OK()
}

func (ed *Editor) cmdMoveLineEnd(ctx *command.Context) command.Result {
	v := activeView(ctx)
	if v == nil {
		return command.NoOp()
	}
	v.Cursor.Col = len(v.Buffer.Line(v.Cursor.Line))
	return command.OK()
}

func (ed *Editor) cmdQuit(ctx *command.Context) command.Result {
	ctx.Loop.RequestExit()
	return command.OK()
}

// cmdShellFilter runs ctx.Param as a shell command and streams its stdout
// into the active view's buffer through the async multiplexer, matching
// the "subprocess as async source" design documented on ProcessSource.
func (ed *Editor) cmdShellFilter(ctx *command.Context) command.Result {
	v := activeView(ctx)
	if v == nil || strings.TrimSpace(ctx.Param) == "" {
		return command.NoOp()
	}
	cmd := exec.Command("/bin/sh", "-c", ctx.Param)
	p, err := ed.Supervisor.Start(ctx.Param, cmd)
	if err != nil {
		return command.Failed(err)
	}
	v.AsyncSourceID = ed.spawnShellSource(v.Name_, p)
	return command.Async()
}

// cmdRunScript runs ctx.Param as a path to a Lua file, lazily creating the
// editor's script state on first use so "run-script" works even when the
// editor wasn't started with "-x".
func (ed *Editor) cmdRunScript(ctx *command.Context) command.Result {
	path := strings.TrimSpace(ctx.Param)
	if path == "" {
		return command.NoOp()
	}
	if ed.Script == nil {
		st, err := script.NewState()
		if err != nil {
			return command.Failed(err)
		}
		st.InstallEditorAPI(ed.Views)
		ed.Script = st
	}
	if err := ed.Script.DoFile(path); err != nil {
		return command.Failed(err)
	}
	return command.OK()
}

// DeliverAsync implements loop.AsyncSink: appends delivered bytes to
// whichever view is bound to sourceID.
func (ed *Editor) DeliverAsync(views *view.Registry, sourceID string, data []byte) {
	for _, v := range views.AllViews() {
		if v.AsyncSourceID == sourceID {
			v.Buffer.InsertAt(v.Buffer.LineCount()-1, len(v.Buffer.Line(v.Buffer.LineCount()-1)), string(data))
		}
	}
}

// FinishAsync implements loop.AsyncSink: clears the binding once a source
// is done, logging any error it ended with.
func (ed *Editor) FinishAsync(views *view.Registry, sourceID string, err error) {
	if err != nil {
		ed.Log.Warn("async source %s ended: %v", sourceID, err)
	}
	for _, v := range views.AllViews() {
		if v.AsyncSourceID == sourceID {
			v.AsyncSourceID = ""
		}
	}
}

// macroNamer adapts prompt.Controller to loop.MacroNamer. It lives in this
// package (rather than internal/loop or internal/prompt) because it is the
// one place that can see both without creating an import cycle: prompt
// already depends on loop, so loop can't depend back on prompt.
type macroNamer struct {
	prompts *prompt.Controller
}

// PromptMacroName implements loop.MacroNamer.
func (m macroNamer) PromptMacroName(ctx *loop.Context) (string, bool) {
	name, ok, err := m.prompts.Input(ctx, "Record macro: ", "", nil)
	if err != nil || !ok {
		return "", false
	}
	return strings.TrimSpace(name), strings.TrimSpace(name) != ""
}
