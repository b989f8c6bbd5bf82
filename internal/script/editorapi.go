package script

import (
	"fmt"

	lua "github.com/yuin/gopher-lua"

	"github.com/smorimura/mle/internal/view"
)

// InstallEditorAPI registers the "editor" Lua module, giving a script run
// through DoFile/DoString read/write access to the active view's buffer.
// Every function resolves views.Active() at call time rather than capturing
// it once, so a script that opens a buffer and then calls editor.insert
// still reaches the view it just opened.
func (s *State) InstallEditorAPI(views *view.Registry) {
	bridge := NewBridge(s.L)
	s.RegisterModule("editor", map[string]lua.LGFunction{
		"insert":     bridge.WrapGoFunc(apiInsert(views)),
		"line":       bridge.WrapGoFunc(apiLine(views)),
		"line_count": bridge.WrapGoFunc(apiLineCount(views)),
		"text":       bridge.WrapGoFunc(apiText(views)),
	})
}

func apiInsert(views *view.Registry) func([]interface{}) (interface{}, error) {
	return func(args []interface{}) (interface{}, error) {
		if len(args) != 3 {
			return nil, fmt.Errorf("editor.insert: expected (line, col, text), got %d arguments", len(args))
		}
		line, ok1 := args[0].(int64)
		col, ok2 := args[1].(int64)
		text, ok3 := args[2].(string)
		if !ok1 || !ok2 || !ok3 {
			return nil, fmt.Errorf("editor.insert: expected (number, number, string)")
		}
		v := views.Active()
		if v == nil {
			return nil, fmt.Errorf("editor.insert: no active view")
		}
		v.Buffer.InsertAt(int(line), int(col), text)
		return nil, nil
	}
}

func apiLine(views *view.Registry) func([]interface{}) (interface{}, error) {
	return func(args []interface{}) (interface{}, error) {
		if len(args) != 1 {
			return nil, fmt.Errorf("editor.line: expected (line), got %d arguments", len(args))
		}
		n, ok := args[0].(int64)
		if !ok {
			return nil, fmt.Errorf("editor.line: expected a number")
		}
		v := views.Active()
		if v == nil {
			return "", nil
		}
		return v.Buffer.Line(int(n)), nil
	}
}

func apiLineCount(views *view.Registry) func([]interface{}) (interface{}, error) {
	return func(args []interface{}) (interface{}, error) {
		v := views.Active()
		if v == nil {
			return int64(0), nil
		}
		return int64(v.Buffer.LineCount()), nil
	}
}

func apiText(views *view.Registry) func([]interface{}) (interface{}, error) {
	return func(args []interface{}) (interface{}, error) {
		v := views.Active()
		if v == nil {
			return "", nil
		}
		return v.Buffer.Text(), nil
	}
}
