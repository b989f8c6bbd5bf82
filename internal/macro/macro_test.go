package macro

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/smorimura/mle/internal/key"
	"github.com/smorimura/mle/internal/keymap"
)

func makeKeystroke(r rune) keymap.Keystroke {
	return keymap.Keystroke{Key: key.KeyRune, Rune: r}
}

func TestRecorderStartStopRecording(t *testing.T) {
	r := NewRecorder()
	if err := r.StartRecording("greet"); err != nil {
		t.Fatalf("StartRecording: %v", err)
	}
	if !r.IsRecording() {
		t.Fatalf("expected IsRecording true")
	}
	if r.CurrentName() != "greet" {
		t.Fatalf("expected current name %q, got %q", "greet", r.CurrentName())
	}

	r.Record(makeKeystroke('h'))
	r.Record(makeKeystroke('i'))

	got := r.StopRecording()
	if len(got) != 2 {
		t.Fatalf("expected 2 recorded keystrokes, got %d", len(got))
	}
	if r.IsRecording() {
		t.Fatalf("expected IsRecording false after stop")
	}
	if !r.HasMacro("greet") {
		t.Fatalf("expected macro 'greet' saved")
	}
}

func TestRecorderRejectsConcurrentRecording(t *testing.T) {
	r := NewRecorder()
	if err := r.StartRecording("a"); err != nil {
		t.Fatalf("StartRecording: %v", err)
	}
	if err := r.StartRecording("b"); err == nil {
		t.Fatalf("expected error starting a second recording")
	}
}

func TestRecorderIgnoresEventsWhenNotRecording(t *testing.T) {
	r := NewRecorder()
	r.Record(makeKeystroke('x'))
	if r.CurrentRecordingLength() != 0 {
		t.Fatalf("expected no events recorded outside a recording session")
	}
}

func TestPlayerReplaysKeystrokesInOrder(t *testing.T) {
	r := NewRecorder()
	r.Set("greet", []keymap.Keystroke{makeKeystroke('h'), makeKeystroke('i')})

	p := NewPlayer(r)
	var got []rune
	if err := p.Play("greet", 2, func(ks keymap.Keystroke) {
		got = append(got, ks.Rune)
	}); err != nil {
		t.Fatalf("Play: %v", err)
	}

	want := []rune{'h', 'i', 'h', 'i'}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
	if r.LastPlayed() != "greet" {
		t.Fatalf("expected last played 'greet', got %q", r.LastPlayed())
	}
}

func TestPlayerRejectsUnknownMacro(t *testing.T) {
	p := NewPlayer(NewRecorder())
	if err := p.Play("nope", 1, func(keymap.Keystroke) {}); err == nil {
		t.Fatalf("expected error playing an undefined macro")
	}
}

func TestPlayLastWithoutPriorPlaybackFails(t *testing.T) {
	p := NewPlayer(NewRecorder())
	if err := p.PlayLast(1, func(keymap.Keystroke) {}); err == nil {
		t.Fatalf("expected error: no macro has been played")
	}
}

func TestParseLine(t *testing.T) {
	name, events, err := ParseLine("save-fmt,C-s,C-f")
	if err != nil {
		t.Fatalf("ParseLine: %v", err)
	}
	if name != "save-fmt" {
		t.Fatalf("expected name 'save-fmt', got %q", name)
	}
	if len(events) != 2 {
		t.Fatalf("expected 2 keystrokes, got %d", len(events))
	}
}

func TestParseLineRejectsMalformed(t *testing.T) {
	if _, _, err := ParseLine("justaname"); err == nil {
		t.Fatalf("expected error for a definition with no keys")
	}
}

func TestLoadLinesSkipsBlankAndComments(t *testing.T) {
	r := NewRecorder()
	err := LoadLines(r, []string{
		"# a comment",
		"",
		"hello,h,e,l,l,o",
	})
	if err != nil {
		t.Fatalf("LoadLines: %v", err)
	}
	if !r.HasMacro("hello") {
		t.Fatalf("expected macro 'hello' registered")
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "macros.json")

	r := NewRecorder()
	r.Set("greet", []keymap.Keystroke{makeKeystroke('h'), makeKeystroke('i')})
	r.SetLastPlayed("greet")

	if err := Save(r, path); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded := NewRecorder()
	if err := Load(loaded, path); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !loaded.HasMacro("greet") {
		t.Fatalf("expected 'greet' to round-trip")
	}
	if loaded.LastPlayed() != "greet" {
		t.Fatalf("expected last-played to round-trip")
	}
}

func TestLoadMissingFileIsNotAnError(t *testing.T) {
	r := NewRecorder()
	if err := Load(r, filepath.Join(t.TempDir(), "nope.json")); err != nil {
		t.Fatalf("expected no error loading a missing file, got %v", err)
	}
}

func TestLoadOrCreateWritesEmptyFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "macros.json")
	r := NewRecorder()
	if err := LoadOrCreate(r, path); err != nil {
		t.Fatalf("LoadOrCreate: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected file created, got %v", err)
	}
}
