// Package ldml reads and writes writing system definitions as LDML files.
//
// Only the identity block and a small special block of descriptive attributes
// are interpreted. Every other top-level element found in the previous
// version of a file is written back untouched.
package ldml

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/zjrosen/wsrepo/internal/log"
	"github.com/zjrosen/wsrepo/internal/writingsystem"
)

// Extension is the file extension for definition files.
const Extension = ".ldml"

var (
	// ErrParse wraps every Read failure.
	ErrParse = errors.New("ldml parse error")
	// ErrWrite wraps every Write failure.
	ErrWrite = errors.New("ldml write error")
)

const specialType = "wsrepo"

type document struct {
	XMLName  xml.Name     `xml:"ldml"`
	Identity identity     `xml:"identity"`
	Special  *special     `xml:"special,omitempty"`
	Extra    []rawElement `xml:",any"`
}

type identity struct {
	Generation *dateAttr `xml:"generation,omitempty"`
	Language   typeAttr  `xml:"language"`
	Script     *typeAttr `xml:"script,omitempty"`
	Territory  *typeAttr `xml:"territory,omitempty"`
	Variant    *typeAttr `xml:"variant,omitempty"`
}

type typeAttr struct {
	Type string `xml:"type,attr"`
}

type dateAttr struct {
	Date string `xml:"date,attr"`
}

type valueAttr struct {
	Value string `xml:"value,attr"`
}

type special struct {
	Type            string     `xml:"type,attr"`
	Abbreviation    *valueAttr `xml:"abbreviation,omitempty"`
	LanguageName    *valueAttr `xml:"languageName,omitempty"`
	DefaultFontName *valueAttr `xml:"defaultFontFamily,omitempty"`
	DefaultFontSize *valueAttr `xml:"defaultFontSize,omitempty"`
	Keyboard        *valueAttr `xml:"defaultKeyboard,omitempty"`
	RightToLeft     *valueAttr `xml:"rightToLeft,omitempty"`
	SpellCheckingID *valueAttr `xml:"spellCheckingId,omitempty"`
	SortUsing       *valueAttr `xml:"sortUsing,omitempty"`
	SortRules       string     `xml:"sortRules,omitempty"`
}

// rawElement captures an element verbatim for round-tripping.
type rawElement struct {
	XMLName xml.Name
	Attrs   []xml.Attr `xml:",any,attr"`
	Inner   []byte     `xml:",innerxml"`
}

// Mapper is the file-level reader and writer used by the repository.
type Mapper struct{}

// NewMapper returns a Mapper.
func NewMapper() *Mapper { return &Mapper{} }

// Read loads the file at path into def. The modified flag of def is left as
// the setters leave it; callers decide when the loaded state counts as clean.
func (m *Mapper) Read(path string, def *writingsystem.Definition) error {
	data, err := os.ReadFile(path) //nolint:gosec // G304: repository-owned file
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrParse, path, err)
	}
	var doc document
	if err := xml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrParse, path, err)
	}
	id := doc.Identity
	if err := def.SetAllTagComponents(id.Language.Type, typeOf(id.Script), typeOf(id.Territory), typeOf(id.Variant)); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrParse, path, err)
	}
	if id.Generation != nil && id.Generation.Date != "" {
		t, err := time.Parse(time.RFC3339, id.Generation.Date)
		if err != nil {
			return fmt.Errorf("%w: %s: generation date: %w", ErrParse, path, err)
		}
		def.SetDateModified(t)
	}
	if doc.Special != nil && doc.Special.Type == specialType {
		if err := applySpecial(doc.Special, def); err != nil {
			return fmt.Errorf("%w: %s: %w", ErrParse, path, err)
		}
	}
	return nil
}

func applySpecial(s *special, def *writingsystem.Definition) error {
	def.SetAbbreviation(valueOf(s.Abbreviation))
	def.SetLanguageName(valueOf(s.LanguageName))
	def.SetDefaultFontName(valueOf(s.DefaultFontName))
	def.SetKeyboard(valueOf(s.Keyboard))
	def.SetSpellCheckingID(valueOf(s.SpellCheckingID))
	def.SetSortRules(s.SortRules)
	if v := valueOf(s.DefaultFontSize); v != "" {
		size, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("defaultFontSize: %w", err)
		}
		def.SetDefaultFontSize(size)
	}
	if v := valueOf(s.RightToLeft); v != "" {
		rtl, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("rightToLeft: %w", err)
		}
		def.SetRightToLeftScript(rtl)
	}
	if v := valueOf(s.SortUsing); v != "" {
		using, err := writingsystem.ParseSortRulesType(v)
		if err != nil {
			return err
		}
		def.SetSortUsing(using)
	}
	return nil
}

// Write stores def at path. previous holds the bytes of the file being
// replaced, or nil; elements this package does not interpret are copied
// from it into the new file.
func (m *Mapper) Write(path string, def *writingsystem.Definition, previous []byte) error {
	doc := document{}
	if len(previous) > 0 {
		var old document
		if err := xml.Unmarshal(previous, &old); err != nil {
			log.Warn(log.CatRepo, "Previous LDML unreadable, unknown content dropped", "path", path, "error", err)
		} else {
			doc.Extra = old.Extra
		}
	}
	doc.Identity = identity{
		Language:  typeAttr{Type: def.Language()},
		Script:    optionalType(def.Script()),
		Territory: optionalType(def.Region()),
		Variant:   optionalType(def.Variant()),
	}
	if !def.DateModified().IsZero() {
		doc.Identity.Generation = &dateAttr{Date: def.DateModified().UTC().Format(time.RFC3339)}
	}
	doc.Special = buildSpecial(def)

	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	enc := xml.NewEncoder(&buf)
	enc.Indent("", "\t")
	if err := enc.Encode(&doc); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrWrite, path, err)
	}
	buf.WriteByte('\n')

	tmp := filepath.Join(filepath.Dir(path), "."+filepath.Base(path)+".tmp")
	if err := os.WriteFile(tmp, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrWrite, path, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("%w: %s: %w", ErrWrite, path, err)
	}
	return nil
}

func buildSpecial(def *writingsystem.Definition) *special {
	s := &special{
		Type:            specialType,
		Abbreviation:    optionalValue(def.Abbreviation()),
		LanguageName:    optionalValue(def.LanguageName()),
		DefaultFontName: optionalValue(def.DefaultFontName()),
		Keyboard:        optionalValue(def.Keyboard()),
		SpellCheckingID: optionalValue(def.SpellCheckingID()),
		SortRules:       def.SortRules(),
	}
	if def.DefaultFontSize() != 0 {
		s.DefaultFontSize = &valueAttr{Value: strconv.FormatFloat(def.DefaultFontSize(), 'g', -1, 64)}
	}
	if def.RightToLeftScript() {
		s.RightToLeft = &valueAttr{Value: "true"}
	}
	if def.SortUsing() != writingsystem.DefaultOrdering {
		s.SortUsing = &valueAttr{Value: def.SortUsing().String()}
	}
	return s
}

func typeOf(a *typeAttr) string {
	if a == nil {
		return ""
	}
	return a.Type
}

func valueOf(a *valueAttr) string {
	if a == nil {
		return ""
	}
	return a.Value
}

func optionalType(v string) *typeAttr {
	if v == "" {
		return nil
	}
	return &typeAttr{Type: v}
}

func optionalValue(v string) *valueAttr {
	if v == "" {
		return nil
	}
	return &valueAttr{Value: v}
}
