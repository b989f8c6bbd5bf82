// Package macro provides keyboard macro recording and playback.
//
// A macro is a named, growable sequence of keystrokes. The editor holds a
// single recorder with a flat name → keystroke-sequence registry and at
// most one "currently recording" macro at a time.
//
// # Recording
//
// Recording starts with StartRecording(name). While recording, keystrokes
// are appended via Record. The loop is responsible for withholding the
// configured start/stop toggle keystroke itself from the recording, and
// for never passing replayed keystrokes to Record — otherwise playing a
// macro while recording another would feed back into it.
//
//	recorder := macro.NewRecorder()
//	recorder.StartRecording("save-and-format")
//	// ... user input is forwarded to Record ...
//	recorder.StopRecording()
//
// # Playback
//
// A Player sends a named macro's keystrokes through a callback, optionally
// repeated a given number of times:
//
//	player := macro.NewPlayer(recorder)
//	player.Play("save-and-format", 3, func(ks keymap.Keystroke) {
//	    // feed ks back through the dispatch resolver
//	})
//
// # RC-file definitions
//
// Macros may also be predefined via a line syntax "name,key1,key2,...",
// parsed with ParseLine/LoadLines using the same tokenizer as keymap
// bindings.
//
// # Persistence
//
// Save/Load/LoadOrCreate round-trip the recorder's registry to and from a
// JSON file, so macros recorded interactively persist across sessions.
package macro
