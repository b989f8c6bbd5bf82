package prompt

import (
	"github.com/smorimura/mle/internal/command"
	"github.com/smorimura/mle/internal/loop"
	"github.com/smorimura/mle/internal/view"
)

// registerCommands installs the fixed command set every prompt/menu
// keymap contract binds against. Names are stable so default keymaps
// (and any RC-file override) can refer to them.
func (c *Controller) registerCommands() {
	c.commands.Register("prompt.submit", c.cmdSubmit)
	c.commands.Register("prompt.cancel", c.cmdCancel)
	c.commands.Register("prompt.yes", c.cmdAnswer(Yes))
	c.commands.Register("prompt.no", c.cmdAnswer(No))
	c.commands.Register("prompt.all", c.cmdAnswer(All))
	c.commands.Register("prompt.dismiss", c.cmdCancel)

	c.commands.Register("prompt.insert", c.cmdInsert)
	c.commands.Register("prompt.backspace", c.cmdBackspace)
	c.commands.Register("prompt.tab-complete", c.cmdTabComplete)

	c.commands.Register("prompt.menu-submit", c.cmdMenuSubmit)
	c.commands.Register("prompt.menu-cancel", c.cmdMenuCancel)
	c.commands.Register("prompt.prompt-menu-submit", c.cmdPromptMenuSubmit)
	c.commands.Register("prompt.menu-up", c.cmdMenuMove(-1))
	c.commands.Register("prompt.menu-down", c.cmdMenuMove(1))
	c.commands.Register("prompt.menu-page-up", c.cmdMenuMove(-10))
	c.commands.Register("prompt.menu-page-down", c.cmdMenuMove(10))

	c.commands.Register("prompt.isearch-next", c.cmdISearch(1))
	c.commands.Register("prompt.isearch-prev", c.cmdISearch(-1))
	c.commands.Register("prompt.isearch-mark-all", c.cmdISearchMarkAll)
}

// loopCtx recovers the concrete nested loop.Context a prompt command is
// running inside. Safe because every prompt view is always driven through
// Controller.Open, which always builds its nested context with
// loop.NewContext.
func loopCtx(ctx *command.Context) *loop.Context {
	return ctx.Loop.(*loop.Context)
}

func (c *Controller) cmdSubmit(ctx *command.Context) command.Result {
	lc := loopCtx(ctx)
	text := ctx.View.(*view.View).Buffer.Text()
	lc.PromptAnswer = &text
	lc.RequestExit()
	return command.OK()
}

func (c *Controller) cmdCancel(ctx *command.Context) command.Result {
	lc := loopCtx(ctx)
	lc.PromptAnswer = nil
	lc.RequestExit()
	return command.OK()
}

func (c *Controller) cmdAnswer(sentinel string) command.Func {
	return func(ctx *command.Context) command.Result {
		lc := loopCtx(ctx)
		answer := sentinel
		lc.PromptAnswer = &answer
		lc.RequestExit()
		return command.OK()
	}
}

// cmdInsert is the prompt's self-insert command: a single rune from live
// input, or a whole pasted string delivered by paste ingestion.
func (c *Controller) cmdInsert(ctx *command.Context) command.Result {
	v := ctx.View.(*view.View)
	text := ctx.Paste
	if text == "" {
		if ctx.Rune == 0 {
			return command.NoOp()
		}
		text = string(ctx.Rune)
	}
	v.Buffer.InsertAt(v.Cursor.Line, v.Cursor.Col, text)
	v.Cursor.Col += len(text)
	c.notifyChange(v)
	return command.OK()
}

func (c *Controller) cmdBackspace(ctx *command.Context) command.Result {
	v := ctx.View.(*view.View)
	if v.Cursor.Col == 0 {
		return command.NoOp()
	}
	v.Buffer.DeleteRange(v.Cursor.Line, v.Cursor.Col-1, v.Cursor.Line, v.Cursor.Col)
	v.Cursor.Col--
	c.notifyChange(v)
	return command.OK()
}

func (c *Controller) notifyChange(v *view.View) {
	if fn, ok := c.onChange[v]; ok {
		fn(v.Buffer.Text())
	}
}

// cmdMenuSubmit is KindMenu's "enter": it invokes the menu's callback,
// which decides for itself whether the prompt should close (by calling
// RequestExit through a different path, e.g. a subsequent command) — a
// plain submission does not exit on its own.
func (c *Controller) cmdMenuSubmit(ctx *command.Context) command.Result {
	v := ctx.View.(*view.View)
	line := v.Buffer.Line(v.Cursor.Line)
	if v.OnSubmit != nil {
		if err := v.OnSubmit(v, line); err != nil {
			return command.Failed(err)
		}
	}
	return command.OK()
}

// cmdPromptMenuSubmit is KindPromptMenu's "enter": unlike a plain menu, it
// always returns the currently selected line as the prompt's answer.
func (c *Controller) cmdPromptMenuSubmit(ctx *command.Context) command.Result {
	v := ctx.View.(*view.View)
	lc := loopCtx(ctx)
	answer := v.Buffer.Line(v.Cursor.Line)
	lc.PromptAnswer = &answer
	lc.RequestExit()
	return command.OK()
}

func (c *Controller) cmdMenuCancel(ctx *command.Context) command.Result {
	v := ctx.View.(*view.View)
	if v.AsyncSourceID != "" {
		c.loop.Async.Remove(v.AsyncSourceID)
	}
	return c.cmdCancel(ctx)
}

func (c *Controller) cmdMenuMove(delta int) command.Func {
	return func(ctx *command.Context) command.Result {
		v := ctx.View.(*view.View)
		line := v.Cursor.Line + delta
		if line < 0 {
			line = 0
		}
		if last := v.Buffer.LineCount() - 1; line > last {
			line = last
		}
		v.Cursor.Line = line
		v.Cursor.Col = 0
		return command.OK()
	}
}
