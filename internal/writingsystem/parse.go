package writingsystem

import (
	"strings"

	"github.com/zjrosen/wsrepo/internal/subtag"
)

// Parse splits a full tag into language, script (four letters), region (two
// letters or three digits) and variant (everything after, private use
// included). An empty tag yields New(). A tag that starts with the private-use
// marker is all variant. The result is unmodified.
func Parse(tag string) (*Definition, error) {
	s := splitTag(tag)
	d := New()
	if err := d.SetAllTagComponents(s.Language, s.Script, s.Region, s.Variant); err != nil {
		return nil, err
	}
	d.AcceptChanges()
	return d, nil
}

func splitTag(tag string) Subtags {
	var s Subtags
	if tag == "" {
		return s
	}
	tokens := strings.Split(tag, "-")
	if strings.EqualFold(tokens[0], subtag.PrivateUseMarker) {
		s.Variant = tag
		return s
	}
	s.Language = tokens[0]
	rest := tokens[1:]
	if len(rest) > 0 && isScriptToken(rest[0]) {
		s.Script = rest[0]
		rest = rest[1:]
	}
	if len(rest) > 0 && isRegionToken(rest[0]) {
		s.Region = rest[0]
		rest = rest[1:]
	}
	s.Variant = strings.Join(rest, "-")
	return s
}

func isScriptToken(t string) bool {
	return len(t) == 4 && allASCII(t, isLetter)
}

func isRegionToken(t string) bool {
	return (len(t) == 2 && allASCII(t, isLetter)) || (len(t) == 3 && allASCII(t, isDigit))
}

func isLetter(b byte) bool { return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') }
func isDigit(b byte) bool  { return b >= '0' && b <= '9' }

func allASCII(s string, pred func(byte) bool) bool {
	for i := 0; i < len(s); i++ {
		if !pred(s[i]) {
			return false
		}
	}
	return true
}

// ConvertLegacyPrivateUse rewrites an identifier using the old convention of
// a leading private-use language ("x-kal-Latn-US") into the current form
// ("qaa-Latn-US-x-kal"). The second result is false when id does not use the
// old convention.
func ConvertLegacyPrivateUse(id string) (string, bool) {
	tokens := strings.Split(id, "-")
	if len(tokens) < 2 || !strings.EqualFold(tokens[0], subtag.PrivateUseMarker) || tokens[1] == "" {
		return id, false
	}
	privateLang := tokens[1]
	s := splitTag(subtag.PrivateUseLanguage + "-" + strings.Join(tokens[2:], "-"))
	p := splitVariant(strings.TrimSuffix(s.Variant, "-"))
	p.private = append([]string{privateLang}, p.private...)

	d := New()
	if err := d.SetAllTagComponents(subtag.PrivateUseLanguage, s.Script, s.Region, p.String()); err != nil {
		return id, false
	}
	return d.CanonicalTag(), true
}
