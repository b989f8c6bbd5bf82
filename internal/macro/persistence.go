package macro

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/smorimura/mle/internal/key"
	"github.com/smorimura/mle/internal/keymap"
)

// persistedKeystroke is the JSON-serializable form of keymap.Keystroke.
type persistedKeystroke struct {
	Key  uint16 `json:"key"`
	Rune rune   `json:"rune,omitempty"`
	Mods uint8  `json:"mods,omitempty"`
}

// persistedMacro represents a single named macro for persistence.
type persistedMacro struct {
	Name   string               `json:"name"`
	Events []persistedKeystroke `json:"events"`
}

// persistedData is the root structure for macro persistence.
type persistedData struct {
	Version    int              `json:"version"`
	SavedAt    time.Time        `json:"saved_at"`
	LastPlayed string           `json:"last_played,omitempty"`
	Macros     []persistedMacro `json:"macros"`
}

const currentVersion = 2

func toPersisted(ks keymap.Keystroke) persistedKeystroke {
	return persistedKeystroke{Key: uint16(ks.Key), Rune: ks.Rune, Mods: uint8(ks.Mods)}
}

func fromPersisted(p persistedKeystroke) keymap.Keystroke {
	return keymap.Keystroke{Key: key.Key(p.Key), Rune: p.Rune, Mods: key.Modifier(p.Mods)}
}

// Save writes every macro from recorder to path, atomically via a temp
// file plus rename.
func Save(recorder *Recorder, path string) error {
	all := recorder.All()

	data := persistedData{
		Version:    currentVersion,
		SavedAt:    time.Now(),
		LastPlayed: recorder.LastPlayed(),
		Macros:     make([]persistedMacro, 0, len(all)),
	}
	for name, events := range all {
		pm := persistedMacro{Name: name, Events: make([]persistedKeystroke, len(events))}
		for i, e := range events {
			pm.Events[i] = toPersisted(e)
		}
		data.Macros = append(data.Macros, pm)
	}

	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("macro: marshal: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("macro: create directory: %w", err)
	}

	tempPath := path + ".tmp"
	if err := os.WriteFile(tempPath, jsonData, 0o644); err != nil {
		return fmt.Errorf("macro: write temp file: %w", err)
	}
	if err := os.Rename(tempPath, path); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("macro: rename temp file: %w", err)
	}
	return nil
}

// Load reads macros from path into recorder, replacing its contents. A
// missing file is not an error — there is simply nothing to load yet.
func Load(recorder *Recorder, path string) error {
	jsonData, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("macro: read file: %w", err)
	}

	var data persistedData
	if err := json.Unmarshal(jsonData, &data); err != nil {
		return fmt.Errorf("macro: unmarshal: %w", err)
	}
	if data.Version > currentVersion {
		return fmt.Errorf("macro: unsupported file version %d (max %d)", data.Version, currentVersion)
	}

	macros := make(map[string][]keymap.Keystroke, len(data.Macros))
	for _, m := range data.Macros {
		if m.Name == "" {
			continue
		}
		events := make([]keymap.Keystroke, len(m.Events))
		for i, p := range m.Events {
			events[i] = fromPersisted(p)
		}
		macros[m.Name] = events
	}

	recorder.SetAll(macros)
	if data.LastPlayed != "" {
		recorder.SetLastPlayed(data.LastPlayed)
	}
	return nil
}

// LoadOrCreate loads macros from path, creating an empty file there if it
// does not yet exist.
func LoadOrCreate(recorder *Recorder, path string) error {
	if err := Load(recorder, path); err != nil {
		return err
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return Save(recorder, path)
	}
	return nil
}

// DefaultMacrosPath returns the default per-user macro storage path.
func DefaultMacrosPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("macro: config directory: %w", err)
	}
	return filepath.Join(configDir, "mle", "macros.json"), nil
}
