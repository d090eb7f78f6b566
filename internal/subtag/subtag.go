// Package subtag holds the read-only registries behind writing system tags:
// reserved subtags with special meaning, and code-to-label lookups for
// languages, scripts, regions and variants.
package subtag

import (
	"embed"
	"fmt"
	"strings"
	"sync"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
	"gopkg.in/yaml.v3"
)

// Reserved subtags.
const (
	// AudioScript is the ISO 15924 code for unwritten documents; voice
	// writing systems always carry it.
	AudioScript = "Zxxx"
	// AudioPrivateUse marks a voice writing system in the variant section.
	AudioPrivateUse = "x-audio"
	// AudioToken is the private-use token inside AudioPrivateUse.
	AudioToken = "audio"
	// IPAVariant marks an IPA transcription.
	IPAVariant = "fonipa"
	// PhoneticPrivateUse narrows IPA to a phonetic transcription.
	PhoneticPrivateUse = "x-etic"
	// PhoneticToken is the private-use token inside PhoneticPrivateUse.
	PhoneticToken = "etic"
	// PhonemicPrivateUse narrows IPA to a phonemic transcription.
	PhonemicPrivateUse = "x-emic"
	// PhonemicToken is the private-use token inside PhonemicPrivateUse.
	PhonemicToken = "emic"
	// PrivateUseLanguage is the language placeholder used when no language is set.
	PrivateUseLanguage = "qaa"
	// PrivateUseMarker starts the private-use section of a tag.
	PrivateUseMarker = "x"
)

// Entry is a code with its English label.
type Entry struct {
	Code  string `yaml:"code"`
	Label string `yaml:"label"`
}

//go:embed data
var dataFS embed.FS

type table struct {
	entries []Entry
	byCode  map[string]Entry
}

var (
	loadOnce sync.Once
	scripts  table
	variants table
	loadErr  error
)

func load() {
	loadOnce.Do(func() {
		if scripts, loadErr = readTable("data/scripts.yaml"); loadErr != nil {
			return
		}
		variants, loadErr = readTable("data/variants.yaml")
	})
	if loadErr != nil {
		// Embedded data is compiled in; a parse failure is a build defect.
		panic(loadErr)
	}
}

func readTable(name string) (table, error) {
	raw, err := dataFS.ReadFile(name)
	if err != nil {
		return table{}, fmt.Errorf("reading %s: %w", name, err)
	}
	var entries []Entry
	if err := yaml.Unmarshal(raw, &entries); err != nil {
		return table{}, fmt.Errorf("parsing %s: %w", name, err)
	}
	byCode := make(map[string]Entry, len(entries))
	for _, e := range entries {
		byCode[strings.ToLower(e.Code)] = e
	}
	return table{entries: entries, byCode: byCode}, nil
}

// Scripts returns the script table in presentation order.
func Scripts() []Entry {
	load()
	out := make([]Entry, len(scripts.entries))
	copy(out, scripts.entries)
	return out
}

// Variants returns the variant table, including the reserved private-use markers.
func Variants() []Entry {
	load()
	out := make([]Entry, len(variants.entries))
	copy(out, variants.entries)
	return out
}

// LanguageLabel returns the English name of a language code.
func LanguageLabel(code string) (string, bool) {
	if code == "" {
		return "", false
	}
	base, err := language.ParseBase(code)
	if err != nil {
		return "", false
	}
	name := display.English.Languages().Name(base)
	if name == "" {
		return "", false
	}
	return name, true
}

// ScriptLabel returns the English name of a script code. The embedded table
// wins over the CLDR display names so labels stay stable across x/text releases.
func ScriptLabel(code string) (string, bool) {
	if code == "" {
		return "", false
	}
	load()
	if e, ok := scripts.byCode[strings.ToLower(code)]; ok {
		return e.Label, true
	}
	s, err := language.ParseScript(code)
	if err != nil {
		return "", false
	}
	name := display.English.Scripts().Name(s)
	if name == "" {
		return "", false
	}
	return name, true
}

// RegionLabel returns the English name of a region code.
func RegionLabel(code string) (string, bool) {
	if code == "" {
		return "", false
	}
	r, err := language.ParseRegion(code)
	if err != nil {
		return "", false
	}
	name := display.English.Regions().Name(r)
	if name == "" {
		return "", false
	}
	return name, true
}

// VariantLabel returns the label of a registered variant or reserved private-use marker.
func VariantLabel(code string) (string, bool) {
	load()
	e, ok := variants.byCode[strings.ToLower(code)]
	if !ok {
		return "", false
	}
	return e.Label, true
}

// IsValidLanguage reports whether code is a well-formed, known language subtag.
func IsValidLanguage(code string) bool {
	_, err := language.ParseBase(code)
	return err == nil
}

// IsValidScript reports whether code is a well-formed, known script subtag.
func IsValidScript(code string) bool {
	_, err := language.ParseScript(code)
	return err == nil
}

// IsValidRegion reports whether code is a well-formed, known region subtag.
func IsValidRegion(code string) bool {
	_, err := language.ParseRegion(code)
	return err == nil
}
