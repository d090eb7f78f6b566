package writingsystem

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/zjrosen/wsrepo/internal/subtag"
)

// variantParts is a variant string split at the first private-use marker.
type variantParts struct {
	variants []string
	private  []string
}

func splitVariant(v string) variantParts {
	var p variantParts
	if v == "" {
		return p
	}
	inPrivate := false
	for _, tok := range strings.Split(v, "-") {
		if !inPrivate && strings.EqualFold(tok, subtag.PrivateUseMarker) {
			inPrivate = true
			continue
		}
		if inPrivate {
			p.private = append(p.private, tok)
		} else {
			p.variants = append(p.variants, tok)
		}
	}
	return p
}

func (p variantParts) String() string {
	parts := make([]string, 0, len(p.variants)+len(p.private)+1)
	parts = append(parts, p.variants...)
	if len(p.private) > 0 {
		parts = append(parts, subtag.PrivateUseMarker)
		parts = append(parts, p.private...)
	}
	return strings.Join(parts, "-")
}

func (p variantParts) hasPrivate(token string) bool {
	return containsFold(p.private, token)
}

func (p variantParts) hasAudio() bool {
	return p.hasPrivate(subtag.AudioToken)
}

// endsWithAudio reports whether the last private-use token is the audio marker.
func (p variantParts) endsWithAudio() bool {
	n := len(p.private)
	return n > 0 && strings.EqualFold(p.private[n-1], subtag.AudioToken)
}

func (p variantParts) hasIPA() bool {
	return containsFold(p.variants, subtag.IPAVariant) ||
		p.hasPrivate(subtag.PhoneticToken) ||
		p.hasPrivate(subtag.PhonemicToken)
}

func (p variantParts) withoutAudio() variantParts {
	return variantParts{
		variants: p.variants,
		private:  removeFold(p.private, subtag.AudioToken),
	}
}

func (p variantParts) withoutIPA() variantParts {
	return variantParts{
		variants: removeFold(p.variants, subtag.IPAVariant),
		private:  removeFold(p.private, subtag.PhoneticToken, subtag.PhonemicToken),
	}
}

func (p variantParts) ipaStatus() IpaStatus {
	if !containsFold(p.variants, subtag.IPAVariant) {
		return NotIpa
	}
	switch {
	case p.hasPrivate(subtag.PhoneticToken):
		return IpaPhonetic
	case p.hasPrivate(subtag.PhonemicToken):
		return IpaPhonemic
	default:
		return Ipa
	}
}

func containsFold(tokens []string, want string) bool {
	for _, t := range tokens {
		if strings.EqualFold(t, want) {
			return true
		}
	}
	return false
}

func countFold(tokens []string, want string) int {
	n := 0
	for _, t := range tokens {
		if strings.EqualFold(t, want) {
			n++
		}
	}
	return n
}

func removeFold(tokens []string, drop ...string) []string {
	out := make([]string, 0, len(tokens))
	for _, t := range tokens {
		if !containsFold(drop, t) {
			out = append(out, t)
		}
	}
	return out
}

func hasUnderscoreOrSpace(s string) bool {
	return strings.IndexFunc(s, func(r rune) bool {
		return r == '_' || unicode.IsSpace(r)
	}) >= 0
}

// maxSubtagLen is the longest token a BCP 47 tag allows.
const maxSubtagLen = 8

// validToken reports whether tok has subtag shape: 1 to 8 ASCII letters or
// digits. The canonical tag is used as a file stem, so nothing else passes.
func validToken(tok string) bool {
	if tok == "" || len(tok) > maxSubtagLen {
		return false
	}
	for i := 0; i < len(tok); i++ {
		c := tok[i]
		if (c < 'a' || c > 'z') && (c < 'A' || c > 'Z') && (c < '0' || c > '9') {
			return false
		}
	}
	return true
}

// validateSimple checks a single-token subtag such as a script or region.
func validateSimple(kind, v string) error {
	if v == "" {
		return nil
	}
	if strings.Contains(v, "-") || hasUnderscoreOrSpace(v) {
		return fmt.Errorf("%w: %s %q must be a single subtag", ErrInvalidTag, kind, v)
	}
	if !validToken(v) {
		return fmt.Errorf("%w: %s %q must be 1 to %d ASCII letters or digits", ErrInvalidTag, kind, v, maxSubtagLen)
	}
	return nil
}

func validateLanguage(v string) error {
	if v == "" {
		return fmt.Errorf("%w: language cannot be empty", ErrInvalidTag)
	}
	if hasUnderscoreOrSpace(v) {
		return fmt.Errorf("%w: language %q contains an underscore or whitespace", ErrInvalidTag, v)
	}
	tokens := strings.Split(v, "-")
	for i, tok := range tokens {
		if tok == "" {
			return fmt.Errorf("%w: language %q has an empty subtag", ErrInvalidTag, v)
		}
		if !validToken(tok) {
			return fmt.Errorf("%w: language %q has malformed subtag %q", ErrInvalidTag, v, tok)
		}
		if strings.EqualFold(tok, subtag.AudioScript) || strings.EqualFold(tok, subtag.IPAVariant) {
			return fmt.Errorf("%w: language %q embeds reserved subtag %q", ErrInvalidTag, v, tok)
		}
		if strings.EqualFold(tok, subtag.PrivateUseMarker) && i+1 < len(tokens) {
			next := tokens[i+1]
			if containsFold([]string{subtag.AudioToken, subtag.PhoneticToken, subtag.PhonemicToken}, next) {
				return fmt.Errorf("%w: language %q embeds reserved private use %q", ErrInvalidTag, v, next)
			}
		}
	}
	return nil
}

// validateVariant checks variant syntax and the audio/IPA composition rules
// against the script the variant would be paired with.
func validateVariant(v, script string) error {
	if v == "" {
		return nil
	}
	if hasUnderscoreOrSpace(v) {
		return fmt.Errorf("%w: variant %q contains an underscore or whitespace", ErrInvalidTag, v)
	}
	for _, tok := range strings.Split(v, "-") {
		if tok == "" {
			return fmt.Errorf("%w: variant %q has an empty subtag", ErrInvalidTag, v)
		}
		if !validToken(tok) {
			return fmt.Errorf("%w: variant %q has malformed subtag %q", ErrInvalidTag, v, tok)
		}
	}
	p := splitVariant(v)
	if !p.hasAudio() {
		return nil
	}
	if countFold(p.private, subtag.AudioToken) > 1 {
		return fmt.Errorf("%w: variant %q repeats %s", ErrInvalidTag, v, subtag.AudioPrivateUse)
	}
	if p.hasIPA() {
		return fmt.Errorf("%w: variant %q combines %s with an IPA marker", ErrInvalidTag, v, subtag.AudioPrivateUse)
	}
	if !strings.EqualFold(script, subtag.AudioScript) {
		return fmt.Errorf("%w: variant %q requires script %s", ErrInvalidTag, v, subtag.AudioScript)
	}
	return nil
}

// normalizeScript folds any casing of the audio script to its canonical form.
func normalizeScript(s string) string {
	if strings.EqualFold(s, subtag.AudioScript) {
		return subtag.AudioScript
	}
	return s
}
