package presentation

import (
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// DiffOp is the kind of a DiffLine.
type DiffOp string

const (
	DiffEqual  DiffOp = " "
	DiffAdd    DiffOp = "+"
	DiffRemove DiffOp = "-"
)

// DiffLine is one line of a line-level diff.
type DiffLine struct {
	Op   DiffOp `json:"op"`
	Text string `json:"text"`
}

// Diff compares two texts line by line.
func Diff(oldText, newText string) []DiffLine {
	dmp := diffmatchpatch.New()
	a, b, lines := dmp.DiffLinesToChars(oldText, newText)
	diffs := dmp.DiffMain(a, b, false)
	diffs = dmp.DiffCharsToLines(diffs, lines)

	var out []DiffLine
	for _, d := range diffs {
		op := DiffEqual
		switch d.Type {
		case diffmatchpatch.DiffInsert:
			op = DiffAdd
		case diffmatchpatch.DiffDelete:
			op = DiffRemove
		}
		for _, line := range splitLines(d.Text) {
			out = append(out, DiffLine{Op: op, Text: line})
		}
	}
	return out
}

// Changed reports whether lines contain any addition or removal.
func Changed(lines []DiffLine) bool {
	for _, l := range lines {
		if l.Op != DiffEqual {
			return true
		}
	}
	return false
}

// RenderDiff formats lines with +/- prefixes and colors.
func RenderDiff(lines []DiffLine) string {
	var b strings.Builder
	for _, l := range lines {
		text := string(l.Op) + " " + l.Text
		switch l.Op {
		case DiffAdd:
			text = addedStyle.Render(text)
		case DiffRemove:
			text = deletedStyle.Render(text)
		default:
			text = mutedStyle.Render(text)
		}
		b.WriteString(text)
		b.WriteByte('\n')
	}
	return b.String()
}

func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(strings.TrimSuffix(s, "\n"), "\n")
}
