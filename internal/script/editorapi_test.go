package script

import (
	"testing"

	"github.com/smorimura/mle/internal/view"
)

func TestInstallEditorAPI_InsertAndRead(t *testing.T) {
	views := view.NewRegistry()
	buf := view.NewScratchBuffer()
	v := views.Open("scratch", view.TypeEdit, buf)

	state, err := NewState()
	if err != nil {
		t.Fatalf("NewState: %v", err)
	}
	defer state.Close()

	state.InstallEditorAPI(views)

	script := `
		editor.insert(0, 0, "hello")
		assert(editor.line(0) == "hello", "line(0) = " .. tostring(editor.line(0)))
		assert(editor.line_count() == 1, "line_count() = " .. tostring(editor.line_count()))
		assert(editor.text() == "hello", "text() = " .. tostring(editor.text()))
	`
	if err := state.DoString(script); err != nil {
		t.Fatalf("DoString: %v", err)
	}

	if got := v.Buffer.Line(0); got != "hello" {
		t.Errorf("expected buffer line %q, got %q", "hello", got)
	}
}

func TestInstallEditorAPI_NoActiveView(t *testing.T) {
	views := view.NewRegistry()

	state, err := NewState()
	if err != nil {
		t.Fatalf("NewState: %v", err)
	}
	defer state.Close()

	state.InstallEditorAPI(views)

	if err := state.DoString(`assert(editor.line_count() == 0)`); err != nil {
		t.Fatalf("DoString: %v", err)
	}

	if err := state.DoString(`editor.insert(0, 0, "x")`); err == nil {
		t.Error("expected an error inserting with no active view")
	}
}
