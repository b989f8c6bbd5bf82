package key

import (
	"errors"
	"testing"
)

func TestParseSingleCharacter(t *testing.T) {
	cases := map[string]struct {
		wantRune rune
		wantMod  Modifier
	}{
		"a": {'a', ModNone},
		"A": {'A', ModShift},
		"1": {'1', ModNone},
		"@": {'@', ModNone},
	}
	for spec, tc := range cases {
		t.Run(spec, func(t *testing.T) {
			event, err := Parse(spec)
			if err != nil {
				t.Fatalf("Parse(%q) error = %v", spec, err)
			}
			if event.Key != KeyRune || event.Rune != tc.wantRune || event.Modifiers != tc.wantMod {
				t.Errorf("Parse(%q) = %+v, want rune %q mod %v", spec, event, tc.wantRune, tc.wantMod)
			}
		})
	}
}

func TestParseSpecialKeys(t *testing.T) {
	cases := map[string]Key{
		"Enter": KeyEnter, "enter": KeyEnter,
		"Escape": KeyEscape, "escape": KeyEscape,
		"Tab": KeyTab, "Backspace": KeyBackspace, "Space": KeySpace,
		"Delete": KeyDelete, "Up": KeyUp, "Down": KeyDown,
		"Left": KeyLeft, "Right": KeyRight, "Home": KeyHome, "End": KeyEnd,
		"PageUp": KeyPageUp, "PageDown": KeyPageDown, "F1": KeyF1, "F12": KeyF12,
	}
	for spec, want := range cases {
		t.Run(spec, func(t *testing.T) {
			event, err := Parse(spec)
			if err != nil {
				t.Fatalf("Parse(%q) error = %v", spec, err)
			}
			if event.Key != want {
				t.Errorf("Parse(%q) key = %v, want %v", spec, event.Key, want)
			}
		})
	}
}

func TestParseModifierStyle(t *testing.T) {
	tests := []struct {
		spec     string
		wantKey  Key
		wantRune rune
		wantMod  Modifier
	}{
		{"Ctrl+s", KeyRune, 's', ModCtrl},
		{"Ctrl+S", KeyRune, 's', ModCtrl}, // Ctrl forces lowercase
		{"Alt+f", KeyRune, 'f', ModAlt},
		{"Ctrl+Alt+x", KeyRune, 'x', ModCtrl | ModAlt},
		{"Ctrl+Shift+p", KeyRune, 'p', ModCtrl | ModShift},
		{"Ctrl+Enter", KeyEnter, 0, ModCtrl},
		{"Alt+F4", KeyF4, 0, ModAlt},
	}
	for _, tt := range tests {
		event, err := Parse(tt.spec)
		if err != nil {
			t.Errorf("Parse(%q) error = %v", tt.spec, err)
			continue
		}
		if event.Key != tt.wantKey || event.Modifiers != tt.wantMod {
			t.Errorf("Parse(%q) = %+v, want key %v mod %v", tt.spec, event, tt.wantKey, tt.wantMod)
		}
		if tt.wantKey == KeyRune && event.Rune != tt.wantRune {
			t.Errorf("Parse(%q) rune = %q, want %q", tt.spec, event.Rune, tt.wantRune)
		}
	}
}

func TestParseVimStyle(t *testing.T) {
	tests := []struct {
		spec     string
		wantKey  Key
		wantRune rune
		wantMod  Modifier
	}{
		{"<C-s>", KeyRune, 's', ModCtrl},
		{"<A-f>", KeyRune, 'f', ModAlt},
		{"<C-A-x>", KeyRune, 'x', ModCtrl | ModAlt},
		{"<C-S-p>", KeyRune, 'p', ModCtrl | ModShift},
		{"<M-a>", KeyRune, 'a', ModMeta},
		{"<D-s>", KeyRune, 's', ModMeta},
		{"<CR>", KeyEnter, 0, ModNone},
		{"<Esc>", KeyEscape, 0, ModNone},
		{"<Tab>", KeyTab, 0, ModNone},
		{"<BS>", KeyBackspace, 0, ModNone},
		{"<Del>", KeyDelete, 0, ModNone},
		{"<Space>", KeyRune, ' ', ModNone},
		{"<Up>", KeyUp, 0, ModNone},
		{"<Down>", KeyDown, 0, ModNone},
		{"<Left>", KeyLeft, 0, ModNone},
		{"<Right>", KeyRight, 0, ModNone},
		{"<Home>", KeyHome, 0, ModNone},
		{"<End>", KeyEnd, 0, ModNone},
		{"<PageUp>", KeyPageUp, 0, ModNone},
		{"<PageDown>", KeyPageDown, 0, ModNone},
		{"<F1>", KeyF1, 0, ModNone},
		{"<C-CR>", KeyEnter, 0, ModCtrl},
		{"<C-Tab>", KeyTab, 0, ModCtrl},
	}
	for _, tt := range tests {
		event, err := Parse(tt.spec)
		if err != nil {
			t.Errorf("Parse(%q) error = %v", tt.spec, err)
			continue
		}
		if event.Key != tt.wantKey || event.Modifiers != tt.wantMod {
			t.Errorf("Parse(%q) = %+v, want key %v mod %v", tt.spec, event, tt.wantKey, tt.wantMod)
		}
		if tt.wantKey == KeyRune && event.Rune != tt.wantRune {
			t.Errorf("Parse(%q) rune = %q, want %q", tt.spec, event.Rune, tt.wantRune)
		}
	}
}

func TestParseVimAliases(t *testing.T) {
	cases := map[string]struct {
		wantKey  Key
		wantRune rune
	}{
		"<Return>": {KeyEnter, 0},
		"<Enter>":  {KeyEnter, 0},
		"<lt>":     {KeyRune, '<'},
		"<gt>":     {KeyRune, '>'},
		"<Bar>":    {KeyRune, '|'},
		"<Bslash>": {KeyRune, '\\'},
	}
	for spec, tc := range cases {
		t.Run(spec, func(t *testing.T) {
			event, err := Parse(spec)
			if err != nil {
				t.Fatalf("Parse(%q) error = %v", spec, err)
			}
			if event.Key != tc.wantKey {
				t.Errorf("Parse(%q) key = %v, want %v", spec, event.Key, tc.wantKey)
			}
			if tc.wantKey == KeyRune && event.Rune != tc.wantRune {
				t.Errorf("Parse(%q) rune = %q, want %q", spec, event.Rune, tc.wantRune)
			}
		})
	}
}

func TestParseErrors(t *testing.T) {
	cases := map[string]error{
		"":           ErrEmptySpec,
		"  ":         ErrEmptySpec,
		"<>":         ErrInvalidSpec,
		"<C->":       ErrInvalidSpec,
		"<X-a>":      ErrInvalidSpec,
		"Ctrl+":      ErrInvalidSpec,
		"Unknown+a":  ErrInvalidSpec,
		"unknownkey": ErrInvalidSpec,
	}
	for spec, want := range cases {
		t.Run(spec, func(t *testing.T) {
			_, err := Parse(spec)
			if !errors.Is(err, want) {
				t.Errorf("Parse(%q) error = %v, want %v", spec, err, want)
			}
		})
	}
}

func TestMustParse(t *testing.T) {
	event := MustParse("Ctrl+s")
	if event.Key != KeyRune || event.Rune != 's' {
		t.Error("MustParse valid spec failed")
	}

	defer func() {
		if r := recover(); r == nil {
			t.Error("MustParse should panic on invalid spec")
		}
	}()
	MustParse("")
}

func TestFormatSpec(t *testing.T) {
	cases := map[string]Event{
		"a":     NewRuneEvent('a', ModNone),
		"<C-s>": NewRuneEvent('s', ModCtrl),
		"<Esc>": NewSpecialEvent(KeyEscape, ModNone),
		"<CR>":  NewSpecialEvent(KeyEnter, ModNone),
	}
	for want, event := range cases {
		if got := FormatSpec(event); got != want {
			t.Errorf("FormatSpec(%+v) = %q, want %q", event, got, want)
		}
	}
}

func TestNormalizeSpec(t *testing.T) {
	cases := map[string]string{
		"Ctrl+s": "<C-s>",
		"<C-s>":  "<C-s>",
		"Enter":  "<CR>",
		"<CR>":   "<CR>",
		"a":      "a",
	}
	for input, want := range cases {
		t.Run(input, func(t *testing.T) {
			got, err := NormalizeSpec(input)
			if err != nil {
				t.Fatalf("NormalizeSpec(%q) error = %v", input, err)
			}
			if got != want {
				t.Errorf("NormalizeSpec(%q) = %q, want %q", input, got, want)
			}
		})
	}
}

func TestParseRoundTrip(t *testing.T) {
	specs := []string{
		"a", "A", "Ctrl+s", "<C-s>", "<Esc>", "<CR>",
		"<C-A-x>", "<F1>", "<Space>", "<Up>",
	}
	for _, spec := range specs {
		event1, err := Parse(spec)
		if err != nil {
			t.Errorf("Parse(%q) error = %v", spec, err)
			continue
		}
		event2, err := Parse(FormatSpec(event1))
		if err != nil {
			t.Errorf("Parse(FormatSpec(%q)) error = %v", spec, err)
			continue
		}
		if event1 != event2 {
			t.Errorf("round trip failed for %q: %+v != %+v", spec, event1, event2)
		}
	}
}
