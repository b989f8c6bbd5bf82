// Package loop implements the reentrant event loop that turns terminal
// input, async source output, and macro replay into dispatched commands.
package loop

import (
	"github.com/smorimura/mle/internal/command"
	"github.com/smorimura/mle/internal/dispatch"
	"github.com/smorimura/mle/internal/view"
)

// Context is one nesting level's worth of loop state. The top-level editor
// loop owns the outermost Context; every nested prompt or menu pushes a
// fresh Context and re-enters Run with it, so a command running inside a
// prompt cannot see or disturb the invoking view's dispatch state.
type Context struct {
	// InvokingView is the parent context's View (nil at the top level);
	// isearch commands act on it. It is not made active again when this
	// context's loop returns.
	InvokingView *view.View

	// View is the view this loop context is driving input for.
	View *view.View

	// nestDepth is this context's nesting level; 0 is the top-level editor
	// loop. Exposed via Depth() rather than as a field, since command.LoopHandle
	// requires a Depth() method.
	nestDepth int

	// ShouldExit, once set, ends Run's next iteration.
	ShouldExit bool

	// PromptAnswer holds the line submitted to a prompt view, nil until
	// submission, consulted by Prompt after its nested loop returns.
	PromptAnswer *string

	// State is this context's dispatch resolver memory: the in-progress
	// chord node and accumulated numeric/wildcard parameters.
	State *dispatch.State

	// LastCmd is the most recently executed command reference, consulted by
	// commands that detect repeats (e.g. completion cycling).
	LastCmd *command.Reference

	// TabTerm and TabIndex are not used by this package; prompt tab
	// completion keeps its cycle state on prompt.Controller.
	TabTerm  string
	TabIndex int
}

// NewContext creates a loop context for view v, nested under parent (nil
// for the top-level editor loop).
func NewContext(v *view.View, parent *Context) *Context {
	depth := 0
	var invoking *view.View
	if parent != nil {
		depth = parent.nestDepth + 1
		invoking = parent.View
	}
	return &Context{
		View:         v,
		InvokingView: invoking,
		nestDepth:    depth,
		State:        dispatch.NewState(),
	}
}

// RequestExit implements command.LoopHandle.
func (c *Context) RequestExit() { c.ShouldExit = true }

// Depth implements command.LoopHandle.
func (c *Context) Depth() int { return c.nestDepth }

var _ command.LoopHandle = (*Context)(nil)
