// Package prompt implements the input/yes-no/menu/isearch sub-loops a
// command can open on top of the main event loop: a single-line (or
// full-height, for menus) view with its own keymap, driven by a nested
// loop.Context until one of its fixed commands sets an answer and exits.
package prompt

import (
	"errors"

	"github.com/smorimura/mle/internal/command"
	"github.com/smorimura/mle/internal/keymap"
	"github.com/smorimura/mle/internal/loop"
	"github.com/smorimura/mle/internal/view"
)

// Kind selects which fixed command contract and default keymap a prompt
// uses.
type Kind int

const (
	KindInput Kind = iota
	KindYesNo
	KindYesNoAll
	KindOK
	KindMenu
	KindPromptMenu
	KindISearch
)

// Distinguished answer sentinels for the yes/no and yes/no/all prompt
// kinds. Chosen so they can never collide with text a user actually types
// into an input prompt.
const (
	Yes = "\x01yes"
	No  = "\x01no"
	All = "\x01all"
)

// ErrPromptOpen reports that Open was called while another prompt is
// already running its nested loop. Only one prompt may be open at a time.
var ErrPromptOpen = errors.New("prompt: another prompt is already open")

// Params configures one Open call.
type Params struct {
	Kind Kind

	// Keymap overrides the controller's default keymap for Kind. Most
	// callers leave this nil.
	Keymap *keymap.Stack

	// Seed is the initial buffer text (e.g. a default answer, or a menu's
	// starting candidate list).
	Seed string

	// OnChange, if set, is called with the buffer's text after every
	// edit made through the prompt's self-insert/backspace commands.
	OnChange func(text string)

	// OnSubmit is the menu callback invoked by KindMenu's "enter" command.
	OnSubmit view.MenuCallback

	// AsyncSourceID binds a running async source (see internal/async) to
	// a KindMenu prompt, e.g. a subprocess streaming completion candidates
	// into the menu buffer. Cancelling the menu stops this source.
	AsyncSourceID string

	// Pattern is compiled into a KindISearch prompt's matcher when the
	// prompt opens; text typed into the prompt does not recompile it.
	Pattern string
}

// Controller owns the fixed prompt command set and the default keymap per
// Kind, and enforces the single-open-prompt invariant.
type Controller struct {
	loop     *loop.Loop
	views    *view.Registry
	commands *command.Registry
	shell    ShellRunner
	searcher ISearcher

	defaults map[Kind]*keymap.Keymap
	tabRef   *command.Reference

	open bool

	onChange map[*view.View]func(string)

	// tab-completion streak state; valid only while a prompt is open,
	// since prompts never nest (single-open invariant).
	tabStem       string
	tabCandidates []string
	tabIndex      int

	// isearch state, valid only while a KindISearch prompt is open.
	matcher Matcher
}

// NewController wires a prompt controller around the shared loop,
// view registry, and command registry, registering its fixed commands.
func NewController(l *loop.Loop, views *view.Registry, commands *command.Registry, shell ShellRunner, searcher ISearcher) *Controller {
	c := &Controller{
		loop:     l,
		views:    views,
		commands: commands,
		shell:    shell,
		searcher: searcher,
		onChange: make(map[*view.View]func(string)),
		tabRef:   command.NewReference("prompt.tab-complete"),
	}
	c.registerCommands()
	c.defaults = c.buildDefaultKeymaps()
	return c
}

// Open allocates a prompt or menu view, installs its keymap, runs a nested
// event loop over it, and returns the answer set by whichever fixed
// command ended that loop (nil if cancelled).
func (c *Controller) Open(parent *loop.Context, title string, p Params) (*string, error) {
	if c.open {
		return nil, ErrPromptOpen
	}
	c.open = true
	defer func() { c.open = false; c.matcher = nil }()

	stack := p.Keymap
	if stack == nil {
		stack = keymap.NewStack()
		stack.Push(c.defaults[p.Kind])
	}

	typ := view.TypePrompt
	if p.Kind == KindMenu || p.Kind == KindPromptMenu {
		typ = view.TypeMenu
	}

	buf := view.NewScratchBuffer()
	if p.Seed != "" {
		buf.SetText(p.Seed)
	}

	v := c.views.Open(title, typ, buf)
	v.PromptStr = title
	v.Keymaps = stack
	v.IsMenu = p.Kind == KindMenu || p.Kind == KindPromptMenu
	v.OnSubmit = p.OnSubmit
	v.AsyncSourceID = p.AsyncSourceID

	if p.OnChange != nil {
		c.onChange[v] = p.OnChange
	}
	defer delete(c.onChange, v)

	if p.Kind == KindISearch && c.searcher != nil {
		if pattern := p.Pattern; pattern != "" {
			m, err := c.searcher.Compile(pattern)
			if err == nil {
				c.matcher = m
			}
		}
	}

	ctx := loop.NewContext(v, parent)
	if err := c.loop.Run(ctx); err != nil {
		c.views.Close(v)
		return nil, err
	}
	c.views.Close(v)
	return ctx.PromptAnswer, nil
}

// Input opens a single-line input prompt and returns the submitted text,
// or ok=false if the prompt was cancelled.
func (c *Controller) Input(parent *loop.Context, title, seed string, onChange func(string)) (text string, ok bool, err error) {
	ans, err := c.Open(parent, title, Params{Kind: KindInput, Seed: seed, OnChange: onChange})
	if err != nil {
		return "", false, err
	}
	if ans == nil {
		return "", false, nil
	}
	return *ans, true, nil
}

// YesNo opens a yes/no prompt, returning Yes, No, or ok=false if
// cancelled.
func (c *Controller) YesNo(parent *loop.Context, title string) (answer string, ok bool, err error) {
	ans, err := c.Open(parent, title, Params{Kind: KindYesNo})
	return unwrap(ans, err)
}

// YesNoAll opens a yes/no/all prompt.
func (c *Controller) YesNoAll(parent *loop.Context, title string) (answer string, ok bool, err error) {
	ans, err := c.Open(parent, title, Params{Kind: KindYesNoAll})
	return unwrap(ans, err)
}

// OK opens a dismiss-on-any-key prompt and blocks until it is dismissed.
func (c *Controller) OK(parent *loop.Context, title string) error {
	_, err := c.Open(parent, title, Params{Kind: KindOK})
	return err
}

// Menu opens a full-height menu view bound to onSubmit, optionally fed by
// a running async source, and blocks until the menu closes. "enter" hands
// the selected line to onSubmit without closing the menu; the default menu
// keymap closes only by cancelling, so ok is false on return.
func (c *Controller) Menu(parent *loop.Context, title string, onSubmit view.MenuCallback, asyncSourceID string) (line string, ok bool, err error) {
	ans, err := c.Open(parent, title, Params{Kind: KindMenu, OnSubmit: onSubmit, AsyncSourceID: asyncSourceID})
	return unwrap(ans, err)
}

// ISearch opens an incremental-search prompt over parent.View's buffer
// using pattern as the initial compiled matcher.
func (c *Controller) ISearch(parent *loop.Context, title, pattern string) (answer string, ok bool, err error) {
	ans, err := c.Open(parent, title, Params{Kind: KindISearch, Pattern: pattern})
	return unwrap(ans, err)
}

func unwrap(ans *string, err error) (string, bool, error) {
	if err != nil {
		return "", false, err
	}
	if ans == nil {
		return "", false, nil
	}
	return *ans, true, nil
}
