package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/zjrosen/wsrepo/internal/presentation"
	"github.com/zjrosen/wsrepo/internal/writingsystem"
)

// propertyFlags are the definition properties settable from the command
// line, shared by "new" and "edit".
type propertyFlags struct {
	language, script, region, variant string
	ipa                               string
	voice                             bool
	abbreviation, name, keyboard      string
	font                              string
	fontSize                          float64
	rtl                               bool
	sortUsing, sortRules              string
	spellCheck                        string
}

func (p *propertyFlags) register(fs *pflag.FlagSet, withTag bool) {
	if withTag {
		fs.StringVar(&p.language, "language", "", "language subtag")
		fs.StringVar(&p.script, "script", "", "script subtag")
		fs.StringVar(&p.region, "region", "", "region subtag")
		fs.StringVar(&p.variant, "variant", "", "variant and private use part")
	}
	fs.StringVar(&p.ipa, "ipa", "", "IPA status: not-ipa, ipa, ipa-phonetic, ipa-phonemic")
	fs.BoolVar(&p.voice, "voice", false, "mark as an audio writing system")
	fs.StringVar(&p.abbreviation, "abbreviation", "", "short label")
	fs.StringVar(&p.name, "name", "", "language name")
	fs.StringVar(&p.keyboard, "keyboard", "", "keyboard layout")
	fs.StringVar(&p.font, "font", "", "default font name")
	fs.Float64Var(&p.fontSize, "font-size", 0, "default font size")
	fs.BoolVar(&p.rtl, "rtl", false, "script is written right to left")
	fs.StringVar(&p.sortUsing, "sort-using", "", "DefaultOrdering, CustomSimple, CustomICU or OtherLanguage")
	fs.StringVar(&p.sortRules, "sort-rules", "", "sort rules text")
	fs.StringVar(&p.spellCheck, "spell-check", "", "spell checking dictionary id")
}

func parseIpaStatus(s string) (writingsystem.IpaStatus, error) {
	for _, st := range []writingsystem.IpaStatus{writingsystem.NotIpa, writingsystem.Ipa, writingsystem.IpaPhonetic, writingsystem.IpaPhonemic} {
		if strings.EqualFold(s, st.String()) {
			return st, nil
		}
	}
	return writingsystem.NotIpa, fmt.Errorf("unknown IPA status %q", s)
}

// apply sets every flag the user passed on def. Tag parts are applied in one
// bulk change so intermediate states need not be valid.
func (p *propertyFlags) apply(fs *pflag.FlagSet, def *writingsystem.Definition) error {
	changed := fs.Changed
	if changed("language") || changed("script") || changed("region") || changed("variant") {
		language, script, region, variant := def.Language(), def.Script(), def.Region(), def.Variant()
		if changed("language") {
			language = p.language
		}
		if changed("script") {
			script = p.script
		}
		if changed("region") {
			region = p.region
		}
		if changed("variant") {
			variant = p.variant
		}
		if err := def.SetAllTagComponents(language, script, region, variant); err != nil {
			return err
		}
	}
	if changed("ipa") {
		st, err := parseIpaStatus(p.ipa)
		if err != nil {
			return err
		}
		if err := def.SetIpaStatus(st); err != nil {
			return err
		}
	}
	if changed("voice") {
		if err := def.SetIsVoice(p.voice); err != nil {
			return err
		}
	}
	if changed("abbreviation") {
		def.SetAbbreviation(p.abbreviation)
	}
	if changed("name") {
		def.SetLanguageName(p.name)
	}
	if changed("keyboard") {
		def.SetKeyboard(p.keyboard)
	}
	if changed("font") {
		def.SetDefaultFontName(p.font)
	}
	if changed("font-size") {
		def.SetDefaultFontSize(p.fontSize)
	}
	if changed("rtl") {
		def.SetRightToLeftScript(p.rtl)
	}
	if changed("sort-using") {
		using, err := writingsystem.ParseSortRulesType(p.sortUsing)
		if err != nil {
			return err
		}
		def.SetSortUsing(using)
	}
	if changed("sort-rules") {
		def.SetSortRules(p.sortRules)
	}
	if changed("spell-check") {
		def.SetSpellCheckingID(p.spellCheck)
	}
	if changed("sort-using") || changed("sort-rules") {
		if err := def.ValidateSortRules(); err != nil {
			return err
		}
	}
	return nil
}

var editFlags propertyFlags

var editCmd = &cobra.Command{
	Use:   "edit <id>",
	Short: "Change properties or the tag of a writing system",
	Long: `Change properties of a writing system and save. Changing a tag part renames
the definition file and records the rename in the change log.

Examples:
  wsrepo edit de --region CH
  wsrepo edit fr --keyboard azerty --font "Charis SIL"
  wsrepo edit en --ipa ipa-phonetic`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(cmd, sessionOptions{}, func(_ context.Context, s *session) error {
			def, err := s.repo.Get(args[0])
			if err != nil {
				return err
			}
			if err := editFlags.apply(cmd.Flags(), def); err != nil {
				return err
			}
			if err := s.repo.Set(def); err != nil {
				return err
			}
			if err := s.save(cmd.ErrOrStderr()); err != nil {
				return err
			}
			return formatter(cmd).FormatDefinition(presentation.FromDefinition(def))
		})
	},
}

func init() {
	editFlags.register(editCmd.Flags(), true)
	rootCmd.AddCommand(editCmd)
}
