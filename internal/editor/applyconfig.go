package editor

import (
	"fmt"

	"github.com/smorimura/mle/internal/command"
	"github.com/smorimura/mle/internal/config"
	"github.com/smorimura/mle/internal/keymap"
)

// applyKeymaps turns every "-K"/"-k" definition gathered by config into a
// registered keymap.Keymap.
func (ed *Editor) applyKeymaps(defs []config.KeymapDef) error {
	for _, def := range defs {
		km := keymap.New(def.Name)
		if def.DefaultCmd != "" {
			km.SetDefault(command.NewReference(def.DefaultCmd))
		}
		km.AllowFallthru = def.AllowFallthru

		for _, b := range def.Bindings {
			ref := command.NewReference(b.Command)
			if err := km.Bind(b.Key, ref, b.Param); err != nil {
				return fmt.Errorf("keymap %q: binding %q: %w", def.Name, b.Key, err)
			}
		}
		ed.Keymaps.Register(km)
	}
	return nil
}

// applyMacros registers every "-M" macro definition with the recorder,
// parsing each key token through the same pattern parser keymap bindings
// use.
func (ed *Editor) applyMacros(defs []config.MacroDef) error {
	for _, def := range defs {
		var events []keymap.Keystroke
		for _, tok := range def.Keys {
			ks, err := keymap.ParsePattern(tok)
			if err != nil {
				return fmt.Errorf("macro %q: key %q: %w", def.Name, tok, err)
			}
			events = append(events, ks...)
		}
		if err := ed.Recorder.Set(def.Name, events); err != nil {
			return fmt.Errorf("macro %q: %w", def.Name, err)
		}
	}
	return nil
}
