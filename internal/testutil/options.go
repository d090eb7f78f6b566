package testutil

import "time"

// definitionData holds everything written for one fixture definition.
type definitionData struct {
	tag          string
	abbreviation string
	languageName string
	keyboard     string
	modified     time.Time
	fileName     string
}

func defaultDefinition(tag string) definitionData {
	return definitionData{
		tag:      tag,
		fileName: tag,
	}
}

// DefinitionOption configures a fixture definition.
type DefinitionOption func(*definitionData)

// Abbreviation sets the abbreviation attribute.
func Abbreviation(v string) DefinitionOption {
	return func(d *definitionData) { d.abbreviation = v }
}

// LanguageName sets the free-text language name.
func LanguageName(v string) DefinitionOption {
	return func(d *definitionData) { d.languageName = v }
}

// Keyboard sets the keyboard attribute.
func Keyboard(v string) DefinitionOption {
	return func(d *definitionData) { d.keyboard = v }
}

// Modified sets the generation date.
func Modified(t time.Time) DefinitionOption {
	return func(d *definitionData) { d.modified = t }
}

// FileName stores the definition under a stem other than its tag, for
// mismatch and legacy-name fixtures.
func FileName(stem string) DefinitionOption {
	return func(d *definitionData) { d.fileName = stem }
}
