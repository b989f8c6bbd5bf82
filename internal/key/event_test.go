package key

import "testing"

func TestNewRuneEvent(t *testing.T) {
	e := NewRuneEvent('a', ModNone)
	if e.Key != KeyRune || e.Rune != 'a' || e.Modifiers != ModNone {
		t.Fatalf("NewRuneEvent('a', ModNone) = %+v", e)
	}
}

func TestNewSpecialEvent(t *testing.T) {
	e := NewSpecialEvent(KeyEscape, ModNone)
	if e.Key != KeyEscape || e.Rune != 0 {
		t.Fatalf("NewSpecialEvent(KeyEscape, ModNone) = %+v", e)
	}
}

func TestEventString(t *testing.T) {
	cases := map[string]struct {
		event Event
		want  string
	}{
		"bare lowercase":  {NewRuneEvent('a', ModNone), "a"},
		"implicit shift":  {NewRuneEvent('A', ModShift), "A"},
		"ctrl letter":     {NewRuneEvent('s', ModCtrl), "C-s"},
		"ctrl alt letter": {NewRuneEvent('f', ModCtrl|ModAlt), "C-A-f"},
		"escape":          {NewSpecialEvent(KeyEscape, ModNone), "Esc"},
		"enter":           {NewSpecialEvent(KeyEnter, ModNone), "Enter"},
		"ctrl enter":      {NewSpecialEvent(KeyEnter, ModCtrl), "C-Enter"},
		"space rune":      {NewRuneEvent(' ', ModNone), "Space"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			if got := tc.event.String(); got != tc.want {
				t.Errorf("String() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestEventVimString(t *testing.T) {
	cases := map[string]struct {
		event Event
		want  string
	}{
		"bare lowercase":  {NewRuneEvent('a', ModNone), "a"},
		"implicit shift":  {NewRuneEvent('A', ModShift), "A"},
		"ctrl letter":     {NewRuneEvent('s', ModCtrl), "<C-s>"},
		"ctrl alt letter": {NewRuneEvent('f', ModCtrl|ModAlt), "<C-A-f>"},
		"escape":          {NewSpecialEvent(KeyEscape, ModNone), "<Esc>"},
		"enter":           {NewSpecialEvent(KeyEnter, ModNone), "<CR>"},
		"ctrl enter":      {NewSpecialEvent(KeyEnter, ModCtrl), "<C-CR>"},
		"space rune":      {NewRuneEvent(' ', ModNone), "<Space>"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			if got := tc.event.VimString(); got != tc.want {
				t.Errorf("VimString() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestFormatSpecRoundTrips(t *testing.T) {
	for _, spec := range []string{"a", "C-s", "<C-A-f>", "Enter", "<Esc>"} {
		ev, err := Parse(spec)
		if err != nil {
			t.Fatalf("Parse(%q): %v", spec, err)
		}
		again, err := Parse(FormatSpec(ev))
		if err != nil {
			t.Fatalf("Parse(FormatSpec(Parse(%q))): %v", spec, err)
		}
		if again != ev {
			t.Errorf("round-trip of %q: got %+v, want %+v", spec, again, ev)
		}
	}
}
