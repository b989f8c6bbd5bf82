// Package keymap implements the keybinding trie and the per-view keymap
// stack that the dispatch package's resolver walks.
package keymap

import (
	"fmt"
	"strings"

	"github.com/smorimura/mle/internal/key"
)

// Keystroke is the comparable edge label of a trie node: a key plus its
// rune (for KeyRune) and active modifiers. It is comparable, so it is used
// as a map key.
type Keystroke struct {
	Key  key.Key
	Rune rune
	Mods key.Modifier
}

// FromEvent copies a key.Event's key, rune and modifiers into a Keystroke.
func FromEvent(e key.Event) Keystroke {
	return Keystroke{Key: e.Key, Rune: e.Rune, Mods: e.Modifiers}
}

// Numeric is the sentinel edge label matching any decimal digit.
var Numeric = Keystroke{Key: key.KeyNumeric}

// Wildcard is the sentinel edge label matching any keystroke.
var Wildcard = Keystroke{Key: key.KeyWildcard}

// IsDigit reports whether this keystroke is an ASCII decimal digit.
func (k Keystroke) IsDigit() bool {
	return k.Key == key.KeyRune && k.Rune >= '0' && k.Rune <= '9'
}

// String renders the keystroke using the same notation as key.Event.
func (k Keystroke) String() string {
	if k == Numeric {
		return "##"
	}
	if k == Wildcard {
		return "**"
	}
	return key.NewEvent(k.Key, k.Rune, k.Mods).String()
}

// ParsePattern parses a space-separated binding pattern into a sequence of
// Keystrokes. Besides everything key.Parse understands (named keys, "C-x"
// style chords, single runes), two additional literal tokens are
// recognized: "##" for the numeric sentinel and "**" for the wildcard
// sentinel.
func ParsePattern(pattern string) ([]Keystroke, error) {
	fields := strings.Fields(pattern)
	if len(fields) == 0 {
		return nil, fmt.Errorf("keymap: empty pattern")
	}
	out := make([]Keystroke, 0, len(fields))
	for _, tok := range fields {
		switch tok {
		case "##":
			out = append(out, Numeric)
		case "**":
			out = append(out, Wildcard)
		default:
			ev, err := key.Parse(tok)
			if err != nil {
				return nil, fmt.Errorf("keymap: %q: %w", tok, err)
			}
			out = append(out, FromEvent(ev))
		}
	}
	return out, nil
}
