package key

import (
	"strings"
)

// Event is one keypress: a key identity, the rune it carries (only
// meaningful when Key == KeyRune), and any modifiers held down.
type Event struct {
	Key       Key
	Rune      rune
	Modifiers Modifier
}

// NewEvent builds an Event from its three parts directly; used when a
// terminal backend already has key/rune/modifier split out.
func NewEvent(k Key, r rune, mods Modifier) Event {
	return Event{Key: k, Rune: r, Modifiers: mods}
}

// NewRuneEvent builds a character keypress.
func NewRuneEvent(r rune, mods Modifier) Event {
	return Event{Key: KeyRune, Rune: r, Modifiers: mods}
}

// NewSpecialEvent builds a keypress for a named (non-character) key.
func NewSpecialEvent(k Key, mods Modifier) Event {
	return Event{Key: k, Modifiers: mods}
}

// isRune reports whether e carries a character rather than a named key.
func (e Event) isRune() bool {
	return e.Key == KeyRune && e.Rune != 0
}

// isModified reports whether e carries a modifier beyond what's already
// implied by the character itself. For rune events, bare Shift doesn't
// count as a modifier since it's what produced the uppercase/symbol rune
// in the first place; for named keys, every set modifier counts.
func (e Event) isModified() bool {
	if e.isRune() {
		return e.Modifiers&(ModCtrl|ModAlt|ModMeta) != 0
	}
	return e.Modifiers != ModNone
}

// String renders e in the hyphenated notation keymap bindings print in
// error messages and macro dumps: "a", "C-s", "C-A-f", "Enter".
func (e Event) String() string {
	var parts []string
	if e.Modifiers.HasCtrl() {
		parts = append(parts, "C")
	}
	if e.Modifiers.HasAlt() {
		parts = append(parts, "A")
	}
	if e.Modifiers.HasMeta() {
		parts = append(parts, "M")
	}
	if e.Modifiers.HasShift() && !e.isRune() {
		parts = append(parts, "S")
	}
	parts = append(parts, e.keyName(false))
	return strings.Join(parts, "-")
}

// VimString renders e in vim's bracketed chord notation: "a", "<C-s>",
// "<CR>". FormatSpec uses this as the canonical round-trip form for Parse.
func (e Event) VimString() string {
	if e.isRune() && !e.isModified() {
		if e.Rune == ' ' {
			return "<Space>"
		}
		return string(e.Rune)
	}

	var parts []string
	if e.Modifiers.HasCtrl() {
		parts = append(parts, "C")
	}
	if e.Modifiers.HasAlt() {
		parts = append(parts, "A")
	}
	if e.Modifiers.HasMeta() {
		parts = append(parts, "D") // vim's letter for Command/Meta
	}
	if e.Modifiers.HasShift() && !e.isRune() {
		parts = append(parts, "S")
	}
	parts = append(parts, e.keyName(true))
	return "<" + strings.Join(parts, "-") + ">"
}

// keyName resolves the key-name portion shared by String and VimString;
// vimStyle selects vim's abbreviations (CR instead of Enter, and so on).
func (e Event) keyName(vimStyle bool) string {
	if e.Key == KeyRune {
		if e.Rune == ' ' {
			return "Space"
		}
		if vimStyle {
			return strings.ToLower(string(e.Rune))
		}
		return string(e.Rune)
	}
	if vimStyle {
		switch e.Key {
		case KeyEnter:
			return "CR"
		case KeyEscape:
			return "Esc"
		case KeyPageUp:
			return "PageUp"
		case KeyPageDown:
			return "PageDown"
		}
	} else {
		switch e.Key {
		case KeyEscape:
			return "Esc"
		case KeyBackspace:
			return "BS"
		case KeyDelete:
			return "Del"
		case KeyInsert:
			return "Ins"
		case KeyPageUp:
			return "PgUp"
		case KeyPageDown:
			return "PgDn"
		}
	}
	return e.Key.String()
}
