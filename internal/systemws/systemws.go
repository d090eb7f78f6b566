// Package systemws derives writing systems from the locale settings of the
// environment (LANGUAGE, LC_ALL, LC_MESSAGES, LANG).
package systemws

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"golang.org/x/text/language"

	"github.com/zjrosen/wsrepo/internal/log"
	"github.com/zjrosen/wsrepo/internal/repository"
	"github.com/zjrosen/wsrepo/internal/writingsystem"
)

// ErrNoLanguage is returned for locales that name no language ("C", "POSIX").
var ErrNoLanguage = errors.New("locale names no language")

// Provider reads locale variables through Getenv.
type Provider struct {
	Getenv func(string) string
}

var _ repository.SystemProvider = (*Provider)(nil)

// New returns a Provider over the process environment.
func New() *Provider {
	return &Provider{Getenv: os.Getenv}
}

// Locales returns the configured locales in priority order without duplicates.
func (p *Provider) Locales() []string {
	var raw []string
	raw = append(raw, strings.Split(p.Getenv("LANGUAGE"), ":")...)
	for _, key := range []string{"LC_ALL", "LC_MESSAGES", "LANG"} {
		raw = append(raw, p.Getenv(key))
	}

	seen := map[string]bool{}
	var out []string
	for _, l := range raw {
		l = strings.TrimSpace(l)
		if l == "" || seen[l] {
			continue
		}
		seen[l] = true
		out = append(out, l)
	}
	return out
}

// WritingSystems returns one definition per distinct usable locale.
func (p *Provider) WritingSystems() []*writingsystem.Definition {
	seen := map[string]bool{}
	var out []*writingsystem.Definition
	for _, locale := range p.Locales() {
		def, err := FromLocale(locale)
		if err != nil {
			log.Debug(log.CatRepo, "Skipping locale", "locale", locale, "error", err)
			continue
		}
		if seen[def.ID()] {
			continue
		}
		seen[def.ID()] = true
		out = append(out, def)
	}
	return out
}

// FromLocale converts a POSIX locale such as "pt_BR.UTF-8" or
// "sr_RS@latin" into a definition.
func FromLocale(locale string) (*writingsystem.Definition, error) {
	name := locale
	if i := strings.IndexAny(name, ".@"); i >= 0 {
		name = name[:i]
	}
	if name == "" || name == "C" || name == "POSIX" {
		return nil, fmt.Errorf("%w: %q", ErrNoLanguage, locale)
	}

	tag, err := language.Parse(strings.ReplaceAll(name, "_", "-"))
	if err != nil {
		return nil, fmt.Errorf("parsing locale %q: %w", locale, err)
	}
	base, script, region := tag.Raw()

	var scriptCode, regionCode string
	if script != (language.Script{}) {
		scriptCode = script.String()
	}
	if region != (language.Region{}) {
		regionCode = region.String()
	}
	return writingsystem.NewFromSubtags(base.String(), scriptCode, regionCode, "", false)
}
