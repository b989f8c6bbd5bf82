package view

import "strings"

// Buffer is a minimal line-oriented text store, sufficient to exercise
// insertion/deletion dispatch without implementing a real rope or gap
// buffer (an explicit non-goal of this module).
type Buffer struct {
	Path     string
	lines    []string
	modified bool
	readOnly bool
}

// NewBuffer creates a buffer seeded with the given content.
func NewBuffer(path string, content []byte) *Buffer {
	text := string(content)
	lines := strings.Split(text, "\n")
	if len(lines) == 0 {
		lines = []string{""}
	}
	return &Buffer{Path: path, lines: lines}
}

// NewScratchBuffer creates an empty, unnamed buffer (e.g. for a prompt or
// menu view, which never has a backing file).
func NewScratchBuffer() *Buffer {
	return &Buffer{lines: []string{""}}
}

// Lines returns a copy of the buffer's lines.
func (b *Buffer) Lines() []string {
	out := make([]string, len(b.lines))
	copy(out, b.lines)
	return out
}

// Line returns line n (0-indexed), or "" if out of range.
func (b *Buffer) Line(n int) string {
	if n < 0 || n >= len(b.lines) {
		return ""
	}
	return b.lines[n]
}

// LineCount returns the number of lines.
func (b *Buffer) LineCount() int {
	return len(b.lines)
}

// SetText replaces the entire buffer content.
func (b *Buffer) SetText(text string) {
	b.lines = strings.Split(text, "\n")
	if len(b.lines) == 0 {
		b.lines = []string{""}
	}
	b.modified = true
}

// Text joins all lines back into a single string.
func (b *Buffer) Text() string {
	return strings.Join(b.lines, "\n")
}

// InsertAt inserts text at (line, col), splitting into new lines on "\n".
func (b *Buffer) InsertAt(line, col int, text string) {
	if line < 0 || line >= len(b.lines) {
		return
	}
	cur := b.lines[line]
	if col < 0 {
		col = 0
	}
	if col > len(cur) {
		col = len(cur)
	}
	before, after := cur[:col], cur[col:]
	parts := strings.Split(text, "\n")
	if len(parts) == 1 {
		b.lines[line] = before + parts[0] + after
	} else {
		newLines := make([]string, 0, len(b.lines)+len(parts)-1)
		newLines = append(newLines, b.lines[:line]...)
		newLines = append(newLines, before+parts[0])
		newLines = append(newLines, parts[1:len(parts)-1]...)
		newLines = append(newLines, parts[len(parts)-1]+after)
		newLines = append(newLines, b.lines[line+1:]...)
		b.lines = newLines
	}
	b.modified = true
}

// DeleteRange removes text between (startLine,startCol) and (endLine,endCol).
func (b *Buffer) DeleteRange(startLine, startCol, endLine, endCol int) {
	if startLine < 0 || endLine >= len(b.lines) || startLine > endLine {
		return
	}
	head := b.lines[startLine][:min(startCol, len(b.lines[startLine]))]
	tail := b.lines[endLine][min(endCol, len(b.lines[endLine])):]
	merged := head + tail
	newLines := make([]string, 0, len(b.lines)-(endLine-startLine))
	newLines = append(newLines, b.lines[:startLine]...)
	newLines = append(newLines, merged)
	newLines = append(newLines, b.lines[endLine+1:]...)
	b.lines = newLines
	b.modified = true
}

// IsModified reports whether the buffer has unsaved changes.
func (b *Buffer) IsModified() bool { return b.modified }

// SetModified overrides the modified flag (e.g. after a save).
func (b *Buffer) SetModified(m bool) { b.modified = m }

// IsScratch reports whether this buffer has no backing file.
func (b *Buffer) IsScratch() bool { return b.Path == "" }

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
