// Package writingsystem models a single writing system definition: the
// language, script, region and variant subtags that make up its tag, the
// descriptive attributes stored alongside them, and a dirty flag tracking
// unsaved changes.
//
// Voice and IPA status are never stored. They are computed from the script
// and variant on every read, so they cannot drift from the subtags.
package writingsystem

import (
	"fmt"
	"strings"
	"time"

	"github.com/zjrosen/wsrepo/internal/log"
	"github.com/zjrosen/wsrepo/internal/subtag"
)

// IpaStatus describes whether, and how, a writing system transcribes in IPA.
type IpaStatus int

const (
	NotIpa IpaStatus = iota
	Ipa
	IpaPhonetic
	IpaPhonemic
)

func (s IpaStatus) String() string {
	switch s {
	case NotIpa:
		return "not-ipa"
	case Ipa:
		return "ipa"
	case IpaPhonetic:
		return "ipa-phonetic"
	case IpaPhonemic:
		return "ipa-phonemic"
	default:
		return fmt.Sprintf("ipa-status(%d)", int(s))
	}
}

// Definition is a mutable writing system. The zero value is not usable; use
// New, Parse or NewFromSubtags.
type Definition struct {
	language string
	script   string
	region   string
	variant  string

	abbreviation    string
	languageName    string
	defaultFontName string
	defaultFontSize float64
	keyboard        string
	rightToLeft     bool
	spellCheckingID string
	sortUsing       SortRulesType
	sortRules       string

	modified bool

	// Bookkeeping owned by the repository. Changing these never marks the
	// definition as modified.
	storeID           string
	markedForDeletion bool
	dateModified      time.Time
	dateLastChecked   time.Time
	template          string
}

// New returns an empty definition whose canonical tag is "qaa".
func New() *Definition {
	return &Definition{}
}

// NewFromSubtags builds a definition from individual components. When isVoice
// is true the result is a voice writing system regardless of script and variant.
func NewFromSubtags(language, script, region, variant string, isVoice bool) (*Definition, error) {
	d := New()
	if err := d.SetAllTagComponents(language, script, region, variant); err != nil {
		return nil, err
	}
	if isVoice {
		if err := d.SetIsVoice(true); err != nil {
			return nil, err
		}
	}
	d.AcceptChanges()
	return d, nil
}

// Subtags is a snapshot of the four tag components.
type Subtags struct {
	Language string
	Script   string
	Region   string
	Variant  string
}

// Subtags returns the current tag components.
func (d *Definition) Subtags() Subtags {
	return Subtags{Language: d.language, Script: d.script, Region: d.region, Variant: d.variant}
}

func (d *Definition) Language() string { return d.language }
func (d *Definition) Script() string   { return d.script }
func (d *Definition) Region() string   { return d.region }
func (d *Definition) Variant() string  { return d.variant }

// IsVoice reports whether this is an audio writing system: the script is the
// audio script and the last private-use subtag is the audio marker.
func (d *Definition) IsVoice() bool {
	return strings.EqualFold(d.script, subtag.AudioScript) && splitVariant(d.variant).endsWithAudio()
}

// IpaStatus derives the IPA status from the variant markers.
func (d *Definition) IpaStatus() IpaStatus {
	return splitVariant(d.variant).ipaStatus()
}

// Modified reports whether the definition changed since construction or the
// last AcceptChanges.
func (d *Definition) Modified() bool { return d.modified }

// AcceptChanges clears the modified flag.
func (d *Definition) AcceptChanges() { d.modified = false }

func (d *Definition) markModified() { d.modified = true }

// SetLanguage sets the language subtag. Empty values and values smuggling in
// audio or IPA markers are rejected.
func (d *Definition) SetLanguage(v string) error {
	if err := validateLanguage(v); err != nil {
		return err
	}
	if v == d.language {
		return nil
	}
	d.language = v
	d.markModified()
	return nil
}

// SetScript sets the script subtag. While the variant carries the audio marker
// only the audio script is accepted; turn voice off first to change it.
func (d *Definition) SetScript(v string) error {
	if err := validateSimple("script", v); err != nil {
		return err
	}
	v = normalizeScript(v)
	if splitVariant(d.variant).hasAudio() && v != subtag.AudioScript {
		return fmt.Errorf("%w: script %q conflicts with %s; clear voice first", ErrInvalidTag, v, subtag.AudioPrivateUse)
	}
	if v == d.script {
		return nil
	}
	d.script = v
	d.markModified()
	return nil
}

// SetRegion sets the region subtag.
func (d *Definition) SetRegion(v string) error {
	if err := validateSimple("region", v); err != nil {
		return err
	}
	if v == d.region {
		return nil
	}
	d.region = v
	d.markModified()
	return nil
}

// SetVariant replaces the variant and private-use subtags. Setting a value
// without the audio marker turns voice off but leaves the script unchanged.
func (d *Definition) SetVariant(v string) error {
	if err := validateVariant(v, d.script); err != nil {
		return err
	}
	if v == d.variant {
		return nil
	}
	d.variant = v
	d.markModified()
	return nil
}

// SetIsVoice turns voice on or off. Turning it on forces the audio script,
// drops IPA markers and appends the audio marker once. Turning it off removes
// the audio marker only.
func (d *Definition) SetIsVoice(on bool) error {
	p := splitVariant(d.variant)
	if on == d.IsVoice() && on == p.hasAudio() {
		return nil
	}
	script := d.script
	if on {
		p = p.withoutIPA().withoutAudio()
		p.private = append(p.private, subtag.AudioToken)
		script = subtag.AudioScript
	} else {
		p = p.withoutAudio()
	}
	variant := p.String()
	if variant == d.variant && script == d.script {
		return nil
	}
	d.script = script
	d.variant = variant
	d.markModified()
	return nil
}

// SetIpaStatus rewrites the IPA markers in the variant. Any status other than
// NotIpa fails while voice is on.
func (d *Definition) SetIpaStatus(s IpaStatus) error {
	if s < NotIpa || s > IpaPhonemic {
		return fmt.Errorf("%w: unknown IPA status %d", ErrInvalidTag, int(s))
	}
	if s != NotIpa && d.IsVoice() {
		return fmt.Errorf("%w: %s cannot be combined with voice", ErrInvalidTag, s)
	}
	if s == d.IpaStatus() {
		return nil
	}
	p := splitVariant(d.variant).withoutIPA()
	if s != NotIpa {
		p.variants = append(p.variants, subtag.IPAVariant)
	}
	switch s {
	case IpaPhonetic:
		p.private = append(p.private, subtag.PhoneticToken)
	case IpaPhonemic:
		p.private = append(p.private, subtag.PhonemicToken)
	}
	variant := p.String()
	if variant == d.variant {
		return nil
	}
	d.variant = variant
	d.markModified()
	return nil
}

// SetAllTagComponents replaces all four subtags at once. Every component is
// validated before any is applied. An empty language is allowed here and
// falls back to the private-use placeholder in the canonical tag.
func (d *Definition) SetAllTagComponents(language, script, region, variant string) error {
	if err := validateComponents(language, script, region, variant); err != nil {
		log.Debug(log.CatTag, "rejected tag components",
			"language", language, "script", script, "region", region, "variant", variant, "error", err)
		return err
	}
	script = normalizeScript(script)
	next := Subtags{Language: language, Script: script, Region: region, Variant: variant}
	if next == d.Subtags() {
		return nil
	}
	d.language, d.script, d.region, d.variant = language, script, region, variant
	d.markModified()
	return nil
}

func validateComponents(language, script, region, variant string) error {
	if language != "" {
		if err := validateLanguage(language); err != nil {
			return err
		}
	}
	if err := validateSimple("script", script); err != nil {
		return err
	}
	if err := validateSimple("region", region); err != nil {
		return err
	}
	return validateVariant(variant, script)
}

// Descriptive attributes.

func (d *Definition) Abbreviation() string { return d.abbreviation }

func (d *Definition) SetAbbreviation(v string) {
	if v != d.abbreviation {
		d.abbreviation = v
		d.markModified()
	}
}

func (d *Definition) LanguageName() string { return d.languageName }

func (d *Definition) SetLanguageName(v string) {
	if v != d.languageName {
		d.languageName = v
		d.markModified()
	}
}

func (d *Definition) DefaultFontName() string { return d.defaultFontName }

func (d *Definition) SetDefaultFontName(v string) {
	if v != d.defaultFontName {
		d.defaultFontName = v
		d.markModified()
	}
}

func (d *Definition) DefaultFontSize() float64 { return d.defaultFontSize }

func (d *Definition) SetDefaultFontSize(v float64) {
	if v != d.defaultFontSize {
		d.defaultFontSize = v
		d.markModified()
	}
}

func (d *Definition) Keyboard() string { return d.keyboard }

func (d *Definition) SetKeyboard(v string) {
	if v != d.keyboard {
		d.keyboard = v
		d.markModified()
	}
}

func (d *Definition) RightToLeftScript() bool { return d.rightToLeft }

func (d *Definition) SetRightToLeftScript(v bool) {
	if v != d.rightToLeft {
		d.rightToLeft = v
		d.markModified()
	}
}

func (d *Definition) SpellCheckingID() string { return d.spellCheckingID }

func (d *Definition) SetSpellCheckingID(v string) {
	if v != d.spellCheckingID {
		d.spellCheckingID = v
		d.markModified()
	}
}

func (d *Definition) SortUsing() SortRulesType { return d.sortUsing }

func (d *Definition) SetSortUsing(v SortRulesType) {
	if v != d.sortUsing {
		d.sortUsing = v
		d.markModified()
	}
}

func (d *Definition) SortRules() string { return d.sortRules }

func (d *Definition) SetSortRules(v string) {
	if v != d.sortRules {
		d.sortRules = v
		d.markModified()
	}
}

// Bookkeeping. None of these setters touch the modified flag.

// StoreID is the identifier the repository holds this definition under, or
// empty if it was never stored.
func (d *Definition) StoreID() string     { return d.storeID }
func (d *Definition) SetStoreID(v string) { d.storeID = v }

func (d *Definition) MarkedForDeletion() bool     { return d.markedForDeletion }
func (d *Definition) SetMarkedForDeletion(v bool) { d.markedForDeletion = v }

func (d *Definition) DateModified() time.Time     { return d.dateModified }
func (d *Definition) SetDateModified(t time.Time) { d.dateModified = t }

func (d *Definition) DateLastChecked() time.Time     { return d.dateLastChecked }
func (d *Definition) SetDateLastChecked(t time.Time) { d.dateLastChecked = t }

// Template is the path of the file this definition was seeded from, if any.
func (d *Definition) Template() string     { return d.template }
func (d *Definition) SetTemplate(p string) { d.template = p }

// Clone returns an independent copy carrying the same subtags, attributes,
// dates, template path and modified flag. The copy has no store id and is not
// marked for deletion.
func (d *Definition) Clone() *Definition {
	c := *d
	c.storeID = ""
	c.markedForDeletion = false
	return &c
}
