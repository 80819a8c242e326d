package format

import (
	"bufio"
	"fmt"
	"strings"
)

// DiffOptions controls diff generation.
type DiffOptions struct {
	Context int // Number of context lines to show
}

// DefaultDiffOptions returns default diff options.
func DefaultDiffOptions() DiffOptions {
	return DiffOptions{Context: 3}
}

// DiffResult represents the result of a diff operation.
type DiffResult struct {
	Hunks      []Hunk
	Stats      DiffStat
	HasChanges bool
}

// Hunk represents a contiguous block of changes.
type Hunk struct {
	Lines         []Line
	OriginalStart int
	OriginalCount int
	ModifiedStart int
	ModifiedCount int
}

// Header returns the unified diff range line of the hunk.
func (h Hunk) Header() string {
	return fmt.Sprintf("@@ -%d,%d +%d,%d @@", h.OriginalStart, h.OriginalCount, h.ModifiedStart, h.ModifiedCount)
}

// Line represents a single line in a diff.
type Line struct {
	Content string
	Type    LineType
}

// LineType represents the type of a diff line.
type LineType int

const (
	LineTypeContext LineType = iota // Unchanged context line
	LineTypeAdded                   // Added line (+)
	LineTypeRemoved                 // Removed line (-)
)

// DiffStat contains statistics about changes.
type DiffStat struct {
	LinesAdded   int // Number of lines added
	LinesRemoved int // Number of lines removed
}

// edit is one step of the line edit script. orig and mod count the
// lines of each side consumed before the step.
type edit struct {
	Line
	orig, mod int
}

// DiffFormatter generates unified diffs between source files.
type DiffFormatter struct {
	options DiffOptions
}

// NewDiffFormatter creates a new diff formatter.
func NewDiffFormatter(options DiffOptions) *DiffFormatter {
	if options.Context < 0 {
		options.Context = 0
	}
	return &DiffFormatter{options: options}
}

// GenerateDiff creates a diff between original and modified source.
func (df *DiffFormatter) GenerateDiff(original, modified string) *DiffResult {
	script := computeEdits(splitLines(original), splitLines(modified))
	hunks := df.groupHunks(script)

	result := &DiffResult{HasChanges: len(hunks) > 0, Hunks: hunks}
	for _, e := range script {
		switch e.Type {
		case LineTypeAdded:
			result.Stats.LinesAdded++
		case LineTypeRemoved:
			result.Stats.LinesRemoved++
		}
	}
	return result
}

// FormatDiff formats a diff result as a unified diff.
func (df *DiffFormatter) FormatDiff(filename string, result *DiffResult) string {
	if !result.HasChanges {
		return ""
	}

	var output strings.Builder
	fmt.Fprintf(&output, "--- %s\t(original)\n", filename)
	fmt.Fprintf(&output, "+++ %s\t(formatted)\n", filename)

	for _, hunk := range result.Hunks {
		output.WriteString(hunk.Header() + "\n")
		for _, line := range hunk.Lines {
			switch line.Type {
			case LineTypeContext:
				output.WriteString(" ")
			case LineTypeAdded:
				output.WriteString("+")
			case LineTypeRemoved:
				output.WriteString("-")
			}
			output.WriteString(line.Content + "\n")
		}
	}
	return output.String()
}

// Diff returns the unified diff turning original into formatted, or ""
// when they are equal.
func Diff(filename, original, formatted string) string {
	df := NewDiffFormatter(DefaultDiffOptions())
	return df.FormatDiff(filename, df.GenerateDiff(original, formatted))
}

// splitLines splits text into lines without their line endings.
func splitLines(text string) []string {
	if text == "" {
		return []string{}
	}

	scanner := bufio.NewScanner(strings.NewReader(text))
	scanner.Buffer(make([]byte, 0, 64*1024), len(text)+1)

	var lines []string
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	return lines
}

// computeEdits builds a shortest edit script from the longest common
// subsequence of the two line slices. Deletions come before insertions
// within a change.
func computeEdits(a, b []string) []edit {
	n, m := len(a), len(b)
	lcs := make([][]int, n+1)
	for i := range lcs {
		lcs[i] = make([]int, m+1)
	}
	for i := n - 1; i >= 0; i-- {
		for j := m - 1; j >= 0; j-- {
			if a[i] == b[j] {
				lcs[i][j] = lcs[i+1][j+1] + 1
			} else if lcs[i+1][j] >= lcs[i][j+1] {
				lcs[i][j] = lcs[i+1][j]
			} else {
				lcs[i][j] = lcs[i][j+1]
			}
		}
	}

	var script []edit
	i, j := 0, 0
	for i < n || j < m {
		switch {
		case i < n && j < m && a[i] == b[j]:
			script = append(script, edit{Line{a[i], LineTypeContext}, i, j})
			i++
			j++
		case j == m || (i < n && lcs[i+1][j] >= lcs[i][j+1]):
			script = append(script, edit{Line{a[i], LineTypeRemoved}, i, j})
			i++
		default:
			script = append(script, edit{Line{b[j], LineTypeAdded}, i, j})
			j++
		}
	}
	return script
}

// groupHunks splits an edit script into hunks. Changes separated by at
// most twice the context share a hunk.
func (df *DiffFormatter) groupHunks(script []edit) []Hunk {
	context := df.options.Context
	var hunks []Hunk

	for i := 0; i < len(script); {
		if script[i].Type == LineTypeContext {
			i++
			continue
		}

		last := i
		for j := i; j < len(script); j++ {
			if script[j].Type != LineTypeContext {
				last = j
			} else if j-last > 2*context {
				break
			}
		}
		start := max(0, i-context)
		stop := min(len(script), last+1+context)

		hunk := Hunk{OriginalStart: script[start].orig + 1, ModifiedStart: script[start].mod + 1}
		for _, e := range script[start:stop] {
			hunk.Lines = append(hunk.Lines, e.Line)
			if e.Type != LineTypeAdded {
				hunk.OriginalCount++
			}
			if e.Type != LineTypeRemoved {
				hunk.ModifiedCount++
			}
		}
		if hunk.OriginalCount == 0 {
			hunk.OriginalStart--
		}
		if hunk.ModifiedCount == 0 {
			hunk.ModifiedStart--
		}
		hunks = append(hunks, hunk)
		i = stop
	}
	return hunks
}
