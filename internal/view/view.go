// Package view implements the minimal view abstraction the dispatch core
// needs to exercise: buffer/cursor/keymap-stack/type, and the three view
// collections (circular all-views ring, doubly-linked top-views list,
// singly-linked split-child relationship) described for view lifecycle.
//
// Real buffer storage (rope/gap structures), syntax highlighting, and
// terminal drawing are collaborators outside this package's scope; Buffer
// here is a minimal line-oriented stand-in sufficient to exercise
// insert/delete dispatch.
package view

import (
	"github.com/smorimura/mle/internal/keymap"
)

// Type identifies what a view is for.
type Type int

const (
	TypeEdit Type = iota
	TypePrompt
	TypeStatus
	TypeMenu
)

// Cursor is a minimal cursor/mark pair into a Buffer.
type Cursor struct {
	Line, Col int
	MarkLine  int
	MarkCol   int
	HasMark   bool
}

// Rect is a screen rectangle in character cells.
type Rect struct {
	Top, Left, Bottom, Right int
}

// MenuCallback is invoked when a menu view's selection is submitted.
type MenuCallback func(v *View, line string) error

// View is an on-screen buffer window: a buffer, an active cursor, a
// keymap stack, a type, and (for menus) a callback.
type View struct {
	id int

	Name_    string
	Type     Type
	Buffer   *Buffer
	Cursor   Cursor
	Keymaps  *keymap.Stack
	Rect     Rect
	IsMenu   bool
	OnSubmit MenuCallback
	PromptStr string

	// AsyncSourceID, if non-empty, names the async source (subprocess or
	// AI stream) whose output is feeding this view's buffer.
	AsyncSourceID string

	// ExtraCursors holds simultaneous cursors beyond Cursor itself, e.g.
	// dropped at every isearch match by the prompt/menu controller.
	ExtraCursors []Cursor

	// all-views ring
	prevAll, nextAll *View
	// top-views list (nil if this view is a split child)
	prevTop, nextTop *View
	// split relationship: a view has at most one child; the child's
	// parent pointer lets Close() decide who becomes active next.
	splitParent *View
	splitChild  *View
}

// Name implements command.ViewHandle.
func (v *View) Name() string { return v.Name_ }

// IsTopLevel reports whether this view sits directly in the top-views list
// (as opposed to being a split child).
func (v *View) IsTopLevel() bool {
	return v.splitParent == nil
}
