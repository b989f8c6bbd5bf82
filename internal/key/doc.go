// Package key defines the keystroke primitives the dispatch resolver tries
// on: a Key (special key or KeyRune placeholder), a Modifier bitset, and an
// Event pairing the two into one keypress.
//
// Event fields are produced two ways: a terminal backend delivers them
// directly (internal/loop/convert.go), or a binding string from a keymap
// definition or RC file is turned into one by Parse. Parse accepts:
//
//   - a bare rune: "a", "A", "1", "@"
//   - a named key: "Enter", "Escape", "Tab", "Space", "F1"
//   - modifier+key: "Ctrl+S", "Alt+F4", "Ctrl+Shift+P"
//   - vim-style chord notation: "C-s", "M-y", "<C-S-p>", "<CR>", "<Esc>"
//
// Multi-keystroke chords ("g g", "d i w") are not a concern of this
// package; keymap.ParsePattern splits a binding string into keystrokes and
// hands each one to Parse in turn, then the keymap trie owns sequencing.
package key
