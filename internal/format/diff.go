package format

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/fatih/color"
)

// DiffResult represents the difference between original and formatted code
type DiffResult struct {
	Original  string
	Formatted string
	Changed   bool
	edits     []edit
}

type editKind int

const (
	editKeep editKind = iota
	editDelete
	editInsert
)

type edit struct {
	kind editKind
	line string
	// 1-based line numbers in the original and formatted text
	from, to int
}

// Diff compares original and formatted code line by line
func Diff(original, formatted string) *DiffResult {
	d := &DiffResult{
		Original:  original,
		Formatted: formatted,
		Changed:   original != formatted,
	}
	if d.Changed {
		d.edits = lineEdits(splitLines(original), splitLines(formatted))
	}
	return d
}

func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(strings.TrimSuffix(s, "\n"), "\n")
}

// lineEdits computes a shortest edit script from the longest common
// subsequence of the two line lists
func lineEdits(a, b []string) []edit {
	lcs := make([][]int, len(a)+1)
	for i := range lcs {
		lcs[i] = make([]int, len(b)+1)
	}
	for i := len(a) - 1; i >= 0; i-- {
		for j := len(b) - 1; j >= 0; j-- {
			if a[i] == b[j] {
				lcs[i][j] = lcs[i+1][j+1] + 1
			} else {
				lcs[i][j] = max(lcs[i+1][j], lcs[i][j+1])
			}
		}
	}

	var edits []edit
	i, j := 0, 0
	for i < len(a) || j < len(b) {
		switch {
		case i < len(a) && j < len(b) && a[i] == b[j]:
			edits = append(edits, edit{kind: editKeep, line: a[i], from: i + 1, to: j + 1})
			i++
			j++
		case i < len(a) && (j == len(b) || lcs[i+1][j] >= lcs[i][j+1]):
			edits = append(edits, edit{kind: editDelete, line: a[i], from: i + 1, to: j})
			i++
		default:
			edits = append(edits, edit{kind: editInsert, line: b[j], from: i, to: j + 1})
			j++
		}
	}
	return edits
}

// String returns a human-readable diff with color highlighting
func (d *DiffResult) String() string {
	if !d.Changed {
		return color.GreenString("No changes needed")
	}

	var buf bytes.Buffer
	red := color.New(color.FgRed)
	green := color.New(color.FgGreen)
	cyan := color.New(color.FgCyan)

	inHunk := false
	for _, e := range d.edits {
		switch e.kind {
		case editKeep:
			inHunk = false
			continue
		case editDelete:
			if !inHunk {
				cyan.Fprintf(&buf, "@@ Line %d @@\n", e.from)
			}
			red.Fprintf(&buf, "- %s\n", e.line)
		case editInsert:
			if !inHunk {
				cyan.Fprintf(&buf, "@@ Line %d @@\n", e.to)
			}
			green.Fprintf(&buf, "+ %s\n", e.line)
		}
		inHunk = true
	}

	return buf.String()
}

// UnifiedDiff returns the changes in unified diff format, without context
// lines
func (d *DiffResult) UnifiedDiff(filename string) string {
	if !d.Changed {
		return ""
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "--- a/%s\n", filename)
	fmt.Fprintf(&buf, "+++ b/%s\n", filename)

	for start := 0; start < len(d.edits); {
		if d.edits[start].kind == editKeep {
			start++
			continue
		}
		end := start
		for end < len(d.edits) && d.edits[end].kind != editKeep {
			end++
		}
		hunk := d.edits[start:end]

		removed, added := 0, 0
		for _, e := range hunk {
			if e.kind == editDelete {
				removed++
			} else {
				added++
			}
		}
		first := hunk[0]
		fmt.Fprintf(&buf, "@@ -%d,%d +%d,%d @@\n", hunkStart(first.from, removed, first.kind == editDelete), removed,
			hunkStart(first.to, added, first.kind == editInsert), added)
		for _, e := range hunk {
			if e.kind == editDelete {
				fmt.Fprintf(&buf, "-%s\n", e.line)
			}
		}
		for _, e := range hunk {
			if e.kind == editInsert {
				fmt.Fprintf(&buf, "+%s\n", e.line)
			}
		}
		start = end
	}

	return buf.String()
}

// hunkStart returns the start line of one side of a hunk. line is the
// line of the first edit, or the count of lines before the hunk when the
// hunk opens with an edit of the other side. An empty side is reported at
// the line before the change.
func hunkStart(line, count int, own bool) int {
	if own || count == 0 {
		return line
	}
	return line + 1
}

// Stats returns statistics about the changes
func (d *DiffResult) Stats() string {
	if !d.Changed {
		return "No changes"
	}

	added, removed := 0, 0
	for _, e := range d.edits {
		switch e.kind {
		case editInsert:
			added++
		case editDelete:
			removed++
		}
	}
	return fmt.Sprintf("%d lines added, %d removed", added, removed)
}
