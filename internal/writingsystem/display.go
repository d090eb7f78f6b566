package writingsystem

import (
	"strings"

	"github.com/zjrosen/wsrepo/internal/subtag"
)

const (
	unknownLabel    = "???"
	unknownLanguage = "Unknown language"
)

// CanonicalTag joins the non-empty subtags with "-". An unset language is
// written as the private-use placeholder "qaa".
func (d *Definition) CanonicalTag() string {
	lang := d.language
	if lang == "" {
		lang = subtag.PrivateUseLanguage
	}
	parts := []string{lang}
	for _, p := range []string{d.script, d.region, d.variant} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, "-")
}

// ID is the identifier the definition is stored under once saved.
func (d *Definition) ID() string { return d.CanonicalTag() }

// DisplayLabel is a short label for lists: the abbreviation, else the tag
// when it says something, else the start of the language name, else "???".
func (d *Definition) DisplayLabel() string {
	if d.abbreviation != "" {
		return d.abbreviation
	}
	if d.hasRealLanguage() || d.variant != "" {
		return d.CanonicalTag()
	}
	if d.languageName != "" {
		r := []rune(d.languageName)
		if len(r) > 4 {
			r = r[:4]
		}
		return string(r)
	}
	return unknownLabel
}

// VerboseDescription reads as a sentence, e.g.
// "English in US written in Korean script. (en-Kore-US-1901)".
func (d *Definition) VerboseDescription() string {
	var b strings.Builder
	b.WriteString(d.languageLabel())
	if d.region != "" {
		b.WriteString(" in ")
		b.WriteString(d.region)
	}
	if d.script != "" {
		label, ok := subtag.ScriptLabel(d.script)
		if !ok {
			label = d.script
		}
		b.WriteString(" written in ")
		b.WriteString(label)
		b.WriteString(" script")
	}
	b.WriteString(". (")
	b.WriteString(d.CanonicalTag())
	b.WriteString(")")
	return b.String()
}

func (d *Definition) languageLabel() string {
	if d.hasRealLanguage() {
		if label, ok := subtag.LanguageLabel(d.language); ok {
			return label
		}
	}
	if d.languageName != "" {
		return d.languageName
	}
	return unknownLanguage
}

func (d *Definition) hasRealLanguage() bool {
	return d.language != "" && !strings.EqualFold(d.language, subtag.PrivateUseLanguage)
}
