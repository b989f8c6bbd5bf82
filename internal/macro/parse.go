package macro

import (
	"fmt"
	"strings"

	"github.com/smorimura/mle/internal/keymap"
)

// ParseLine parses one RC-file macro definition of the form
// "name,key1,key2,...", where each keyN is tokenized with the same key
// parser keymap bindings use. Returns the macro's name and keystrokes.
func ParseLine(line string) (string, []keymap.Keystroke, error) {
	fields := strings.Split(line, ",")
	if len(fields) < 2 {
		return "", nil, fmt.Errorf("macro: malformed definition %q: want name,key1,key2,...", line)
	}

	name := strings.TrimSpace(fields[0])
	if name == "" {
		return "", nil, fmt.Errorf("macro: empty name in definition %q", line)
	}

	events := make([]keymap.Keystroke, 0, len(fields)-1)
	for _, tok := range fields[1:] {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			continue
		}
		ks, err := keymap.ParsePattern(tok)
		if err != nil {
			return "", nil, fmt.Errorf("macro %q: %w", name, err)
		}
		events = append(events, ks...)
	}
	if len(events) == 0 {
		return "", nil, fmt.Errorf("macro %q: no keystrokes", name)
	}
	return name, events, nil
}

// LoadLines parses and registers every macro definition line into recorder,
// skipping blank lines and lines starting with '#'. Returns the first
// parse error encountered, if any, after registering everything parseable
// up to that point.
func LoadLines(recorder *Recorder, lines []string) error {
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		name, events, err := ParseLine(trimmed)
		if err != nil {
			return err
		}
		if err := recorder.Set(name, events); err != nil {
			return err
		}
	}
	return nil
}
