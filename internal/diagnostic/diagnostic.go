// Package diagnostic renders lexer and parser errors for terminals, with
// the offending source line and a caret under the error column.
package diagnostic

import (
	stderrors "errors"
	"fmt"
	"sort"
	"strings"

	"github.com/mylang-lang/mylang/internal/errors"
	"github.com/mylang-lang/mylang/internal/position"
)

const (
	ansiReset = "\x1b[0m"
	ansiBold  = "\x1b[1m"
	ansiRed   = "\x1b[31m"
	ansiCyan  = "\x1b[36m"
)

// Diagnostic is a front-end error together with the source it refers to.
type Diagnostic struct {
	Kind    errors.Kind
	Code    string
	Message string
	Pos     position.Position
	Source  *position.SourceFile // nil when the source is unavailable
}

// FromError converts err into a Diagnostic. Errors that are not front-end
// errors are reported without position.
func FromError(err error, source *position.SourceFile) *Diagnostic {
	var e *errors.Error
	if !stderrors.As(err, &e) {
		return &Diagnostic{Message: err.Error(), Source: source}
	}
	return &Diagnostic{Kind: e.Kind, Code: e.Code, Message: e.Message, Pos: e.Pos, Source: source}
}

// Render formats err against the source text it was produced from.
func Render(err error, filename, src string, color bool) string {
	return FromError(err, position.NewSourceFile(filename, src)).Format(color)
}

// Format returns the header line and, when the source is known, the
// highlighted excerpt.
func (d *Diagnostic) Format(color bool) string {
	paint := func(code, s string) string {
		if color {
			return code + s + ansiReset
		}
		return s
	}

	var result strings.Builder
	if d.Pos.IsValid() {
		result.WriteString(paint(ansiBold, d.Pos.String()+":") + " ")
	}
	if d.Kind != "" {
		label := string(d.Kind)
		if d.Code != "" {
			label += "[" + d.Code + "]"
		}
		result.WriteString(paint(ansiBold+ansiRed, label+":") + " ")
	}
	result.WriteString(d.Message)
	result.WriteString("\n")

	if d.Source != nil && d.Pos.IsValid() {
		if excerpt := d.Source.Highlight(d.Pos, 1); excerpt != "" {
			result.WriteString(paint(ansiCyan, excerpt))
		}
	}
	return result.String()
}

// Engine collects diagnostics from several files and prints them in
// position order.
type Engine struct {
	diagnostics []*Diagnostic
	config      Config
}

// Config controls diagnostic output.
type Config struct {
	Color     bool
	MaxErrors int // zero means unlimited
}

// NewEngine creates a new diagnostic engine.
func NewEngine(config Config) *Engine {
	return &Engine{config: config}
}

// Add records err for the named source. A nil err is ignored.
func (e *Engine) Add(err error, filename, src string) {
	if err == nil {
		return
	}
	e.diagnostics = append(e.diagnostics, FromError(err, position.NewSourceFile(filename, src)))
}

// Diagnostics returns all diagnostics.
func (e *Engine) Diagnostics() []*Diagnostic {
	return e.diagnostics
}

// HasErrors returns true if there are any errors.
func (e *Engine) HasErrors() bool {
	return len(e.diagnostics) > 0
}

// Sort orders diagnostics by file, then line, then column.
func (e *Engine) Sort() {
	sort.SliceStable(e.diagnostics, func(i, j int) bool {
		a, b := e.diagnostics[i].Pos, e.diagnostics[j].Pos
		if a.Filename != b.Filename {
			return a.Filename < b.Filename
		}
		if a.Line != b.Line {
			return a.Line < b.Line
		}
		return a.Column < b.Column
	})
}

// Format returns every diagnostic followed by a summary line.
func (e *Engine) Format() string {
	if len(e.diagnostics) == 0 {
		return ""
	}
	e.Sort()

	shown := e.diagnostics
	if e.config.MaxErrors > 0 && len(shown) > e.config.MaxErrors {
		shown = shown[:e.config.MaxErrors]
	}

	var result strings.Builder
	for i, d := range shown {
		if i > 0 {
			result.WriteString("\n")
		}
		result.WriteString(d.Format(e.config.Color))
	}
	if hidden := len(e.diagnostics) - len(shown); hidden > 0 {
		result.WriteString(fmt.Sprintf("\n... %d more error(s) not shown\n", hidden))
	}
	result.WriteString(e.summary())
	return result.String()
}

func (e *Engine) summary() string {
	files := make(map[string]bool)
	for _, d := range e.diagnostics {
		files[d.Pos.Filename] = true
	}
	return fmt.Sprintf("\nFound %d error(s) in %d file(s).\n", len(e.diagnostics), len(files))
}
