// Package position provides source code position tracking for the
// mylang parser. Positions are attached to every token and AST node so
// that errors can point at the offending text.
package position

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"
)

// Position is a point in a source file. Line and Column start at 1 and
// count bytes; Offset starts at 0.
type Position struct {
	Filename string
	Line     int
	Column   int
	Offset   int
}

// IsValid reports whether p was set by the lexer.
func (p Position) IsValid() bool {
	return p.Line > 0 && p.Column > 0 && p.Offset >= 0
}

// String formats p as file:line:col, dropping the directory part of the
// file name.
func (p Position) String() string {
	loc := fmt.Sprintf("%d:%d", p.Line, p.Column)
	if p.Filename == "" {
		return loc
	}
	return filepath.Base(p.Filename) + ":" + loc
}

// Span is the half-open range [Start, End).
type Span struct {
	Start Position
	End   Position
}

// SpanBetween returns the span from start to end.
func SpanBetween(start, end Position) Span {
	return Span{Start: start, End: end}
}

// IsValid reports whether both ends are valid, in one file, and ordered.
func (s Span) IsValid() bool {
	if !s.Start.IsValid() || !s.End.IsValid() {
		return false
	}
	return s.Start.Filename == s.End.Filename && s.Start.Offset <= s.End.Offset
}

func (s Span) String() string {
	end := fmt.Sprintf("%d:%d", s.End.Line, s.End.Column)
	if s.Start.Line == s.End.Line {
		end = fmt.Sprint(s.End.Column)
	}
	return s.Start.String() + "-" + end
}

// SourceFile indexes the line starts of a source text.
type SourceFile struct {
	Filename string
	Content  string

	lineStarts []int
}

// NewSourceFile indexes content.
func NewSourceFile(filename, content string) *SourceFile {
	starts := []int{0}
	for i := 0; i < len(content); i++ {
		if content[i] == '\n' {
			starts = append(starts, i+1)
		}
	}
	return &SourceFile{Filename: filename, Content: content, lineStarts: starts}
}

// LineCount returns the number of lines, counting a final line without a
// newline.
func (sf *SourceFile) LineCount() int {
	return len(sf.lineStarts)
}

// Line returns line n (1-based) without its line terminator, or "" when n
// is out of range.
func (sf *SourceFile) Line(n int) string {
	if n < 1 || n > len(sf.lineStarts) {
		return ""
	}
	end := len(sf.Content)
	if n < len(sf.lineStarts) {
		end = sf.lineStarts[n] - 1
	}
	return strings.TrimSuffix(sf.Content[sf.lineStarts[n-1]:end], "\r")
}

// Pos converts a byte offset into a Position. Offsets outside the
// content yield the zero Position.
func (sf *SourceFile) Pos(offset int) Position {
	if offset < 0 || offset > len(sf.Content) {
		return Position{}
	}
	line := sort.Search(len(sf.lineStarts), func(i int) bool { return sf.lineStarts[i] > offset })
	return Position{
		Filename: sf.Filename,
		Line:     line,
		Column:   offset - sf.lineStarts[line-1] + 1,
		Offset:   offset,
	}
}

// Text returns the source covered by span, or "" if span does not lie
// within the content.
func (sf *SourceFile) Text(span Span) string {
	if !span.IsValid() || span.End.Offset > len(sf.Content) {
		return ""
	}
	return sf.Content[span.Start.Offset:span.End.Offset]
}
