package position

import (
	"fmt"
	"strings"
)

// Highlight renders the line containing pos followed by a caret line
// pointing at the column, in the form
//
//	3 | while x < 10
//	  |         ^
//
// width is the number of carets to draw; values below one draw a single
// caret. Tabs before the column are kept so the caret lines up.
func (sf *SourceFile) Highlight(pos Position, width int) string {
	if pos.Line < 1 || pos.Line > sf.LineCount() {
		return ""
	}
	line := sf.Line(pos.Line)

	var result strings.Builder
	result.WriteString(fmt.Sprintf("%4d | %s\n", pos.Line, line))
	result.WriteString("     | ")

	for i := 1; i < pos.Column; i++ {
		if i <= len(line) && line[i-1] == '\t' {
			result.WriteString("\t")
		} else {
			result.WriteString(" ")
		}
	}

	if width < 1 {
		width = 1
	}
	if rest := len(line) - pos.Column + 1; rest > 0 && width > rest {
		width = rest
	}
	result.WriteString(strings.Repeat("^", width))
	result.WriteString("\n")

	return result.String()
}
