package key

import "testing"

func TestModifierHas(t *testing.T) {
	cases := []struct {
		mod, check Modifier
		want       bool
	}{
		{ModNone, ModCtrl, false},
		{ModCtrl, ModCtrl, true},
		{ModCtrl | ModAlt, ModCtrl, true},
		{ModCtrl | ModAlt, ModShift, false},
		{ModCtrl | ModAlt | ModShift | ModMeta, ModMeta, true},
	}
	for _, tc := range cases {
		if got := tc.mod.Has(tc.check); got != tc.want {
			t.Errorf("%d.Has(%d) = %v, want %v", tc.mod, tc.check, got, tc.want)
		}
	}
}

func TestModifierHasHelpers(t *testing.T) {
	mod := ModCtrl | ModAlt
	if !mod.HasCtrl() || !mod.HasAlt() {
		t.Errorf("%d should have Ctrl and Alt", mod)
	}
	if mod.HasShift() || mod.HasMeta() {
		t.Errorf("%d should not have Shift or Meta", mod)
	}
}

func TestModifierWith(t *testing.T) {
	mod := ModNone.With(ModCtrl)
	if !mod.HasCtrl() {
		t.Fatal("With(ModCtrl) should set Ctrl")
	}
	mod = mod.With(ModAlt)
	if !mod.HasCtrl() || !mod.HasAlt() {
		t.Fatal("With(ModAlt) should keep Ctrl and add Alt")
	}
}

func TestModifierFromName(t *testing.T) {
	cases := map[string]Modifier{
		"ctrl":    ModCtrl,
		"control": ModCtrl,
		"c":       ModCtrl,
		"alt":     ModAlt,
		"option":  ModAlt,
		"shift":   ModShift,
		"s":       ModShift,
		"meta":    ModMeta,
		"cmd":     ModMeta,
		"d":       ModMeta,
		"unknown": ModNone,
		"":        ModNone,
	}
	for name, want := range cases {
		if got := ModifierFromName(name); got != want {
			t.Errorf("ModifierFromName(%q) = %d, want %d", name, got, want)
		}
	}
}
