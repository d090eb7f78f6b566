// Package presentation renders repository state for the command line, either
// as indented JSON or as styled text.
package presentation

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"
)

// Formatter handles output formatting
type Formatter struct {
	writer io.Writer
	json   bool
}

// NewFormatter creates a new formatter. With asJSON every Format call
// writes indented JSON instead of text.
func NewFormatter(writer io.Writer, asJSON bool) *Formatter {
	return &Formatter{
		writer: writer,
		json:   asJSON,
	}
}

func (f *Formatter) encode(v any) error {
	encoder := json.NewEncoder(f.writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

func (f *Formatter) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(f.writer, format, args...)
}

// FormatDefinitions writes one line per definition.
func (f *Formatter) FormatDefinitions(defs []DefinitionDTO) error {
	if f.json {
		return f.encode(defs)
	}
	if len(defs) == 0 {
		f.printf("%s\n", mutedStyle.Render("No writing systems."))
		return nil
	}
	width := 0
	for _, d := range defs {
		width = max(width, len(d.ID))
	}
	for _, d := range defs {
		mark := " "
		if d.Modified {
			mark = modifiedStyle.Render("*")
		}
		f.printf("%s %s  %s\n", mark, idStyle.Render(pad(d.ID, width)), d.Description)
	}
	return nil
}

// FormatDefinition writes every property of a single definition.
func (f *Formatter) FormatDefinition(d DefinitionDTO) error {
	if f.json {
		return f.encode(d)
	}
	f.printf("%s\n", idStyle.Render(d.ID))
	rows := [][2]string{
		{"Label", d.Label},
		{"Description", d.Description},
		{"Language", d.Language},
		{"Script", d.Script},
		{"Region", d.Region},
		{"Variant", d.Variant},
		{"Abbreviation", d.Abbreviation},
		{"Language name", d.LanguageName},
		{"Keyboard", d.Keyboard},
		{"Font", d.DefaultFontName},
		{"IPA", d.Ipa},
		{"Sort using", d.SortUsing},
		{"Spell checking", d.SpellCheckingID},
	}
	if d.DefaultFontSize > 0 {
		rows = append(rows, [2]string{"Font size", fmt.Sprintf("%g", d.DefaultFontSize)})
	}
	if d.RightToLeft {
		rows = append(rows, [2]string{"Direction", "right to left"})
	}
	if d.IsVoice {
		rows = append(rows, [2]string{"Voice", "yes"})
	}
	if d.DateModified != nil {
		rows = append(rows, [2]string{"Modified", d.DateModified.UTC().Format(time.RFC3339)})
	}
	for _, r := range rows {
		if r[1] == "" {
			continue
		}
		f.printf("  %s%s\n", labelStyle.Render(r[0]), r[1])
	}
	return nil
}

// FormatProblems writes problems, or nothing when there are none.
func (f *Formatter) FormatProblems(problems []ProblemDTO) error {
	if f.json {
		return f.encode(problems)
	}
	for _, p := range problems {
		f.printf("%s %s: %s\n", warningStyle.Render("["+p.Consequence+"]"), p.File, errorStyle.Render(p.Error))
	}
	return nil
}

// FormatChanges writes change log entries oldest first.
func (f *Formatter) FormatChanges(changes []ChangeDTO) error {
	if f.json {
		return f.encode(changes)
	}
	if len(changes) == 0 {
		f.printf("%s\n", mutedStyle.Render("No changes recorded."))
		return nil
	}
	for _, c := range changes {
		var what string
		switch c.Type {
		case "add":
			what = addedStyle.Render("+ " + c.To)
		case "delete":
			what = deletedStyle.Render("- " + c.From)
		default:
			what = modifiedStyle.Render(fmt.Sprintf("%s -> %s", c.From, c.To))
		}
		f.printf("%s  %-8s %s\n", mutedStyle.Render(c.Time.UTC().Format(time.RFC3339)), c.Type, what)
	}
	return nil
}

// FormatResult writes an arbitrary result, as JSON or with %v.
func (f *Formatter) FormatResult(result any) error {
	if f.json {
		return f.encode(result)
	}
	f.printf("%v\n", result)
	return nil
}

// FormatDiff writes a line diff. JSON output lists the lines with their op.
func (f *Formatter) FormatDiff(lines []DiffLine) error {
	if f.json {
		return f.encode(lines)
	}
	f.printf("%s", RenderDiff(lines))
	return nil
}

func pad(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}
