package prompt

import (
	"github.com/smorimura/mle/internal/command"
	"github.com/smorimura/mle/internal/key"
	"github.com/smorimura/mle/internal/keymap"
)

// buildDefaultKeymaps builds the fixed keymap contract for every Kind a
// caller doesn't override with its own Params.Keymap.
func (c *Controller) buildDefaultKeymaps() map[Kind]*keymap.Keymap {
	return map[Kind]*keymap.Keymap{
		KindInput:      c.inputKeymap(),
		KindYesNo:      c.yesNoKeymap(false),
		KindYesNoAll:   c.yesNoKeymap(true),
		KindOK:         c.okKeymap(),
		KindMenu:       c.menuKeymap(),
		KindPromptMenu: c.promptMenuKeymap(),
		KindISearch:    c.isearchKeymap(),
	}
}

func bind(km *keymap.Keymap, pattern, cmd string) {
	_ = km.Bind(pattern, command.NewReference(cmd), "")
}

func (c *Controller) inputKeymap() *keymap.Keymap {
	km := keymap.New("prompt-input")
	bind(km, "enter", "prompt.submit")
	_ = km.Bind("tab", c.tabRef, "")
	bind(km, "C-c", "prompt.cancel")
	bind(km, "C-x", "prompt.cancel")
	bind(km, "M-c", "prompt.cancel")
	bind(km, "backspace", "prompt.backspace")
	bindPrintable(km, "prompt.insert")
	return km
}

func (c *Controller) yesNoKeymap(withAll bool) *keymap.Keymap {
	km := keymap.New("prompt-yesno")
	bind(km, "y", "prompt.yes")
	bind(km, "n", "prompt.no")
	if withAll {
		bind(km, "a", "prompt.all")
	}
	bind(km, "C-c", "prompt.cancel")
	bind(km, "C-x", "prompt.cancel")
	bind(km, "M-c", "prompt.cancel")
	return km
}

func (c *Controller) okKeymap() *keymap.Keymap {
	km := keymap.New("prompt-ok")
	km.SetDefault(command.NewReference("prompt.dismiss"))
	km.AllowFallthru = false
	return km
}

func (c *Controller) menuKeymap() *keymap.Keymap {
	km := keymap.New("prompt-menu")
	bind(km, "enter", "prompt.menu-submit")
	bind(km, "C-c", "prompt.menu-cancel")
	bind(km, "up", "prompt.menu-up")
	bind(km, "down", "prompt.menu-down")
	bind(km, "pageup", "prompt.menu-page-up")
	bind(km, "pagedown", "prompt.menu-page-down")
	_ = km.Bind("tab", c.tabRef, "")
	bind(km, "backspace", "prompt.backspace")
	bindPrintable(km, "prompt.insert")
	return km
}

func (c *Controller) promptMenuKeymap() *keymap.Keymap {
	km := keymap.New("prompt-prompt-menu")
	bind(km, "enter", "prompt.prompt-menu-submit")
	bind(km, "C-c", "prompt.cancel")
	bind(km, "up", "prompt.menu-up")
	bind(km, "down", "prompt.menu-down")
	bind(km, "pageup", "prompt.menu-page-up")
	bind(km, "pagedown", "prompt.menu-page-down")
	return km
}

func (c *Controller) isearchKeymap() *keymap.Keymap {
	km := keymap.New("prompt-isearch")
	bind(km, "down", "prompt.isearch-next")
	bind(km, "up", "prompt.isearch-prev")
	bind(km, "C-a", "prompt.isearch-mark-all")
	bind(km, "C-c", "prompt.cancel")
	bind(km, "enter", "prompt.submit")
	bind(km, "backspace", "prompt.backspace")
	bindPrintable(km, "prompt.insert")
	return km
}

// bindPrintable binds every printable ASCII character to cmd, so an input
// or menu/isearch prompt self-inserts ordinary typing. Letters bound here
// double as the probe dispatch.Resolve peeks during paste ingestion, since
// it always probes with a lowercase 'a'. Space is bound directly as a
// KeyRune edge rather than through Bind/ParsePattern, since a pattern
// string of literal whitespace tokenizes to nothing under
// strings.Fields.
func bindPrintable(km *keymap.Keymap, cmd string) {
	ref := command.NewReference(cmd)
	km.Root.Children[keymap.Keystroke{Key: key.KeyRune, Rune: ' '}] = &keymap.Node{
		Children: map[keymap.Keystroke]*keymap.Node{},
		Command:  ref,
	}
	for r := rune(0x21); r < 0x7f; r++ {
		_ = km.Bind(string(r), ref, "")
	}
}
