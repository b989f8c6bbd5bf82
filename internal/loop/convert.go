package loop

import (
	"github.com/smorimura/mle/internal/key"
	"github.com/smorimura/mle/internal/term"
)

// toKeyEvent converts a term.Event (key subtype) into a key.Event, folding
// the backend's separate Ctrl+letter constants into KeyRune+ModCtrl so the
// keymap trie only ever sees one representation of "C-a".
func toKeyEvent(ev term.Event) key.Event {
	k, r := mapTermKey(ev.Key, ev.Rune)

	mods := key.ModNone
	if ev.Mod.Has(term.ModCtrl) {
		mods = mods.With(key.ModCtrl)
	}
	if ev.Mod.Has(term.ModAlt) {
		mods = mods.With(key.ModAlt)
	}
	if ev.Mod.Has(term.ModShift) {
		mods = mods.With(key.ModShift)
	}
	if ev.Mod.Has(term.ModMeta) {
		mods = mods.With(key.ModMeta)
	}
	if isCtrlLetter(ev.Key) {
		mods = mods.With(key.ModCtrl)
	}

	return key.NewEvent(k, r, mods)
}

func isCtrlLetter(k term.Key) bool {
	return k >= term.KeyCtrlA && k <= term.KeyCtrlZ
}

// mapTermKey maps a term.Key/rune pair to a key.Key/rune pair. Ctrl+letter
// keys collapse to the underlying letter rune (with ModCtrl folded in by
// the caller), matching how a real terminal reports them as control codes
// rather than named keys.
func mapTermKey(tk term.Key, r rune) (key.Key, rune) {
	switch tk {
	case term.KeyRune:
		return key.KeyRune, r
	case term.KeyEscape:
		return key.KeyEscape, 0
	case term.KeyEnter:
		return key.KeyEnter, 0
	case term.KeyTab:
		return key.KeyTab, 0
	case term.KeyBackspace:
		return key.KeyBackspace, 0
	case term.KeyDelete:
		return key.KeyDelete, 0
	case term.KeyInsert:
		return key.KeyInsert, 0
	case term.KeyHome:
		return key.KeyHome, 0
	case term.KeyEnd:
		return key.KeyEnd, 0
	case term.KeyPageUp:
		return key.KeyPageUp, 0
	case term.KeyPageDown:
		return key.KeyPageDown, 0
	case term.KeyUp:
		return key.KeyUp, 0
	case term.KeyDown:
		return key.KeyDown, 0
	case term.KeyLeft:
		return key.KeyLeft, 0
	case term.KeyRight:
		return key.KeyRight, 0
	case term.KeyF1:
		return key.KeyF1, 0
	case term.KeyF2:
		return key.KeyF2, 0
	case term.KeyF3:
		return key.KeyF3, 0
	case term.KeyF4:
		return key.KeyF4, 0
	case term.KeyF5:
		return key.KeyF5, 0
	case term.KeyF6:
		return key.KeyF6, 0
	case term.KeyF7:
		return key.KeyF7, 0
	case term.KeyF8:
		return key.KeyF8, 0
	case term.KeyF9:
		return key.KeyF9, 0
	case term.KeyF10:
		return key.KeyF10, 0
	case term.KeyF11:
		return key.KeyF11, 0
	case term.KeyF12:
		return key.KeyF12, 0
	case term.KeyCtrlH:
		return key.KeyBackspace, 0
	case term.KeyCtrlI:
		return key.KeyTab, 0
	case term.KeyCtrlJ, term.KeyCtrlM:
		return key.KeyEnter, 0
	default:
		if isCtrlLetter(tk) {
			return key.KeyRune, ctrlLetterRune(tk)
		}
		if r != 0 {
			return key.KeyRune, r
		}
		return key.KeyNone, 0
	}
}

// ctrlLetterRune recovers the lowercase letter a Ctrl+<letter> constant
// represents ('a' for KeyCtrlA, and so on).
func ctrlLetterRune(tk term.Key) rune {
	return rune('a' + int(tk-term.KeyCtrlA))
}
