package prompt

import (
	"regexp"

	"github.com/smorimura/mle/internal/command"
	"github.com/smorimura/mle/internal/view"
)

// ISearcher compiles an incremental-search pattern into a Matcher. The
// default implementation (RegexpSearcher/regexpMatcher) wraps regexp,
// which has no equivalent among the third-party packages this module
// otherwise draws on; incremental search over a buffer's lines is exactly
// the kind of self-contained text-matching job the standard library
// already covers well, so no external dependency is pulled in just to
// replace it.
type ISearcher interface {
	Compile(pattern string) (Matcher, error)
}

// Matcher locates the next/previous/every match of a compiled pattern in
// a buffer, used by an isearch prompt to step the active view's cursor.
type Matcher interface {
	Next(buf *view.Buffer, fromLine, fromCol int) (line, col int, ok bool)
	Prev(buf *view.Buffer, fromLine, fromCol int) (line, col int, ok bool)
	AllMatches(buf *view.Buffer) []view.Cursor
}

// RegexpSearcher is the default ISearcher, backed by regexp.Compile.
type RegexpSearcher struct{}

func (RegexpSearcher) Compile(pattern string) (Matcher, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, err
	}
	return regexpMatcher{re}, nil
}

type regexpMatcher struct {
	re *regexp.Regexp
}

func (m regexpMatcher) Next(buf *view.Buffer, fromLine, fromCol int) (int, int, bool) {
	n := buf.LineCount()
	for i := 0; i < n; i++ {
		line := (fromLine + i) % n
		text := buf.Line(line)
		start := 0
		if i == 0 {
			start = fromCol + 1
		}
		if start > len(text) {
			continue
		}
		if loc := m.re.FindStringIndex(text[start:]); loc != nil {
			return line, start + loc[0], true
		}
	}
	return 0, 0, false
}

func (m regexpMatcher) Prev(buf *view.Buffer, fromLine, fromCol int) (int, int, bool) {
	n := buf.LineCount()
	for i := 0; i < n; i++ {
		line := ((fromLine-i)%n + n) % n
		text := buf.Line(line)
		limit := len(text)
		if i == 0 {
			limit = fromCol
		}
		if limit < 0 {
			continue
		}
		locs := m.re.FindAllStringIndex(text[:min(limit, len(text))], -1)
		if len(locs) > 0 {
			last := locs[len(locs)-1]
			return line, last[0], true
		}
	}
	return 0, 0, false
}

func (m regexpMatcher) AllMatches(buf *view.Buffer) []view.Cursor {
	var out []view.Cursor
	for line := 0; line < buf.LineCount(); line++ {
		text := buf.Line(line)
		for _, loc := range m.re.FindAllStringIndex(text, -1) {
			out = append(out, view.Cursor{Line: line, Col: loc[0]})
		}
	}
	return out
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// cmdISearch steps the invoking view's cursor to the next (dir>0) or
// previous (dir<0) match of the active matcher.
func (c *Controller) cmdISearch(dir int) command.Func {
	return func(ctx *command.Context) command.Result {
		if c.matcher == nil {
			return command.NoOp()
		}
		lc := loopCtx(ctx)
		target := lc.InvokingView
		if target == nil {
			return command.NoOp()
		}
		var line, col int
		var ok bool
		if dir >= 0 {
			line, col, ok = c.matcher.Next(target.Buffer, target.Cursor.Line, target.Cursor.Col)
		} else {
			line, col, ok = c.matcher.Prev(target.Buffer, target.Cursor.Line, target.Cursor.Col)
		}
		if !ok {
			return command.NoOp()
		}
		target.Cursor.Line, target.Cursor.Col = line, col
		return command.OK()
	}
}

// cmdISearchMarkAll drops an extra cursor at every match in the invoking
// view's buffer, then exits the isearch prompt.
func (c *Controller) cmdISearchMarkAll(ctx *command.Context) command.Result {
	lc := loopCtx(ctx)
	target := lc.InvokingView
	if target == nil || c.matcher == nil {
		lc.RequestExit()
		return command.NoOp()
	}
	target.ExtraCursors = c.matcher.AllMatches(target.Buffer)
	lc.RequestExit()
	return command.OK()
}
