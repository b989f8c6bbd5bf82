package key

import "testing"

func TestKeyString(t *testing.T) {
	cases := map[Key]string{
		KeyNone:      "None",
		KeyEscape:    "Escape",
		KeyEnter:     "Enter",
		KeyTab:       "Tab",
		KeyBackspace: "Backspace",
		KeyDelete:    "Delete",
		KeyUp:        "Up",
		KeyDown:      "Down",
		KeyLeft:      "Left",
		KeyRight:     "Right",
		KeyF1:        "F1",
		KeyF12:       "F12",
		KeySpace:     "Space",
		KeyRune:      "Rune",
		KeyNumeric:   "##",
		KeyWildcard:  "**",
	}
	for k, want := range cases {
		if got := k.String(); got != want {
			t.Errorf("Key(%d).String() = %q, want %q", k, got, want)
		}
	}
}

func TestKeyStringUnknown(t *testing.T) {
	k := Key(9999)
	if got := k.String(); got != "Key(9999)" {
		t.Errorf("Key(9999).String() = %q, want %q", got, "Key(9999)")
	}
}

func TestKeyClassification(t *testing.T) {
	cases := []struct {
		key                                                     Key
		special, fn, arrow, nav                                 bool
	}{
		{KeyNone, false, false, false, false},
		{KeyRune, false, false, false, false},
		{KeyEscape, true, false, false, false},
		{KeyEnter, true, false, false, false},
		{KeyF1, true, true, false, false},
		{KeyF6, true, true, false, false},
		{KeyF12, true, true, false, false},
		{KeyUp, true, false, true, true},
		{KeyDown, true, false, true, true},
		{KeyLeft, true, false, true, true},
		{KeyRight, true, false, true, true},
		{KeyHome, true, false, false, true},
		{KeyEnd, true, false, false, true},
		{KeyPageUp, true, false, false, true},
		{KeyPageDown, true, false, false, true},
	}
	for _, tc := range cases {
		t.Run(tc.key.String(), func(t *testing.T) {
			if got := tc.key.IsSpecial(); got != tc.special {
				t.Errorf("IsSpecial() = %v, want %v", got, tc.special)
			}
			if got := tc.key.IsFunctionKey(); got != tc.fn {
				t.Errorf("IsFunctionKey() = %v, want %v", got, tc.fn)
			}
			if got := tc.key.IsArrowKey(); got != tc.arrow {
				t.Errorf("IsArrowKey() = %v, want %v", got, tc.arrow)
			}
			if got := tc.key.IsNavigationKey(); got != tc.nav {
				t.Errorf("IsNavigationKey() = %v, want %v", got, tc.nav)
			}
		})
	}
}

func TestKeyIsKeypadKey(t *testing.T) {
	for _, k := range []Key{KeyKP0, KeyKP9, KeyKPAdd, KeyKPEnter} {
		if !k.IsKeypadKey() {
			t.Errorf("%v.IsKeypadKey() = false, want true", k)
		}
	}
	for _, k := range []Key{KeyRune, KeyEscape, KeyUp} {
		if k.IsKeypadKey() {
			t.Errorf("%v.IsKeypadKey() = true, want false", k)
		}
	}
}

func TestKeyFromName(t *testing.T) {
	cases := map[string]Key{
		"escape":    KeyEscape,
		"esc":       KeyEscape,
		"enter":     KeyEnter,
		"return":    KeyEnter,
		"cr":        KeyEnter,
		"tab":       KeyTab,
		"backspace": KeyBackspace,
		"bs":        KeyBackspace,
		"delete":    KeyDelete,
		"del":       KeyDelete,
		"up":        KeyUp,
		"down":      KeyDown,
		"left":      KeyLeft,
		"right":     KeyRight,
		"f1":        KeyF1,
		"f12":       KeyF12,
		"space":     KeySpace,
		"pageup":    KeyPageUp,
		"pgup":      KeyPageUp,
		"pagedown":  KeyPageDown,
		"pgdn":      KeyPageDown,
		"unknown":   KeyNone,
		"":          KeyNone,
		"ESCAPE":    KeyEscape,
		"Escape":    KeyEscape,
		"F1":        KeyF1,
		"  space  ": KeySpace,
	}
	for name, want := range cases {
		t.Run(name, func(t *testing.T) {
			if got := KeyFromName(name); got != want {
				t.Errorf("KeyFromName(%q) = %v, want %v", name, got, want)
			}
		})
	}
}
