package writingsystem

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, tag string) *Definition {
	t.Helper()
	d, err := Parse(tag)
	require.NoError(t, err)
	return d
}

func TestNew_IsEmptyAndUnmodified(t *testing.T) {
	d := New()
	require.Equal(t, "qaa", d.CanonicalTag())
	require.Equal(t, "???", d.DisplayLabel())
	require.False(t, d.Modified())
	require.False(t, d.IsVoice())
	require.Equal(t, NotIpa, d.IpaStatus())
}

func TestParse(t *testing.T) {
	tests := []struct {
		tag  string
		want Subtags
	}{
		{"", Subtags{}},
		{"en", Subtags{Language: "en"}},
		{"en-1901", Subtags{Language: "en", Variant: "1901"}},
		{"en-Kore-US-1901", Subtags{Language: "en", Script: "Kore", Region: "US", Variant: "1901"}},
		{"es-419", Subtags{Language: "es", Region: "419"}},
		{"en-x-foo", Subtags{Language: "en", Variant: "x-foo"}},
		{"x-kal", Subtags{Variant: "x-kal"}},
		{"qaa-Zxxx-US-1901-x-audio", Subtags{Language: "qaa", Script: "Zxxx", Region: "US", Variant: "1901-x-audio"}},
	}
	for _, tt := range tests {
		t.Run(tt.tag, func(t *testing.T) {
			d := mustParse(t, tt.tag)
			require.Equal(t, tt.want, d.Subtags())
			require.False(t, d.Modified())
		})
	}
}

func TestParse_RejectsInvalid(t *testing.T) {
	for _, tag := range []string{
		"en-x-audio", "en-Latn-x-audio", "en-foo_bar",
		"../escaped", "en/../../x-y", `en\x`, "en.US", "x-..", "ñe", "en-toolongvariant",
	} {
		_, err := Parse(tag)
		require.ErrorIs(t, err, ErrInvalidTag, tag)
	}
}

func TestNewFromSubtags_Voice(t *testing.T) {
	d, err := NewFromSubtags("en", "Latn", "US", "1901", true)
	require.NoError(t, err)
	require.True(t, d.IsVoice())
	require.Equal(t, "en-Zxxx-US-1901-x-audio", d.CanonicalTag())
	require.False(t, d.Modified())
}

func TestCanonicalTagAndDisplayLabel(t *testing.T) {
	d := New()
	require.NoError(t, d.SetAllTagComponents("en", "", "", "1901"))
	require.Equal(t, "en-1901", d.CanonicalTag())
	require.Equal(t, "en-1901", d.DisplayLabel())
}

func TestDisplayLabel(t *testing.T) {
	t.Run("abbreviation wins", func(t *testing.T) {
		d := mustParse(t, "en")
		d.SetAbbreviation("eng")
		require.Equal(t, "eng", d.DisplayLabel())
	})
	t.Run("only abbreviation keeps qaa tag", func(t *testing.T) {
		d := New()
		d.SetAbbreviation("abbr")
		require.Equal(t, "qaa", d.CanonicalTag())
		require.Equal(t, "abbr", d.DisplayLabel())
	})
	t.Run("language name truncated", func(t *testing.T) {
		d := New()
		d.SetLanguageName("abcdefghijk")
		require.Equal(t, "abcd", d.DisplayLabel())
	})
	t.Run("short language name", func(t *testing.T) {
		d := New()
		d.SetLanguageName("ab")
		require.Equal(t, "ab", d.DisplayLabel())
	})
	t.Run("empty", func(t *testing.T) {
		require.Equal(t, "???", New().DisplayLabel())
	})
	t.Run("script or region alone is unknown", func(t *testing.T) {
		for _, set := range []func(d *Definition) error{
			func(d *Definition) error { return d.SetScript("Latn") },
			func(d *Definition) error { return d.SetRegion("US") },
		} {
			d := New()
			require.NoError(t, set(d))
			require.Equal(t, "???", d.DisplayLabel())
		}
	})
}

func TestVerboseDescription(t *testing.T) {
	tests := []struct {
		language, script, region, variant, name string
		want                                    string
	}{
		{"", "", "", "", "", "Unknown language. (qaa)"},
		{"en", "", "", "", "", "English. (en)"},
		{"en", "Kore", "", "", "", "English written in Korean script. (en-Kore)"},
		{"", "Kore", "", "", "", "Unknown language written in Korean script. (qaa-Kore)"},
		{"en", "", "US", "", "", "English in US. (en-US)"},
		{"en", "Kore", "US", "1901", "", "English in US written in Korean script. (en-Kore-US-1901)"},
		{"", "Kore", "US", "1901", "Eastern lawa", "Eastern lawa in US written in Korean script. (qaa-Kore-US-1901)"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			d := New()
			require.NoError(t, d.SetAllTagComponents(tt.language, tt.script, tt.region, tt.variant))
			d.SetLanguageName(tt.name)
			require.Equal(t, tt.want, d.VerboseDescription())
		})
	}
}

func TestSetIsVoice(t *testing.T) {
	d := mustParse(t, "qaa-Latn-US-1901")
	require.NoError(t, d.SetIsVoice(true))
	require.True(t, d.IsVoice())
	require.Equal(t, "Zxxx", d.Script())
	require.Equal(t, "US", d.Region())
	require.Equal(t, "1901-x-audio", d.Variant())
	require.Equal(t, "qaa-Zxxx-US-1901-x-audio", d.CanonicalTag())

	require.NoError(t, d.SetIsVoice(true))
	require.Equal(t, "1901-x-audio", d.Variant(), "audio marker must not repeat")

	require.NoError(t, d.SetIsVoice(false))
	require.False(t, d.IsVoice())
	require.Equal(t, "Zxxx", d.Script())
	require.Equal(t, "US", d.Region())
	require.Equal(t, "1901", d.Variant())
}

func TestSetIsVoice_ClearsIpa(t *testing.T) {
	d := mustParse(t, "en")
	require.NoError(t, d.SetIpaStatus(IpaPhonemic))
	require.Equal(t, "fonipa-x-emic", d.Variant())

	require.NoError(t, d.SetIsVoice(true))
	require.Equal(t, NotIpa, d.IpaStatus())
	require.Equal(t, "x-audio", d.Variant())
}

func TestSetScript_NonAudioWhileVoiceFails(t *testing.T) {
	d := mustParse(t, "en")
	require.NoError(t, d.SetIsVoice(true))
	d.AcceptChanges()

	err := d.SetScript("Latn")
	require.ErrorIs(t, err, ErrInvalidTag)
	require.Equal(t, "Zxxx", d.Script())
	require.False(t, d.Modified())

	require.NoError(t, d.SetScript("zXXX"))
	require.Equal(t, "Zxxx", d.Script())
	require.False(t, d.Modified())
}

func TestSetScriptAndRegion_RejectMalformed(t *testing.T) {
	for _, v := range []string{"../x", "La/n", `a\b`, "..", "Łatn", "toolongval"} {
		d := mustParse(t, "en")
		require.ErrorIs(t, d.SetScript(v), ErrInvalidTag, v)
		require.ErrorIs(t, d.SetRegion(v), ErrInvalidTag, v)
		require.Equal(t, "en", d.CanonicalTag())
	}
}

func TestSetAllTagComponents_CaseInsensitiveVoice(t *testing.T) {
	d := New()
	require.NoError(t, d.SetAllTagComponents("", "ZxXx", "", "X-AuDiO"))
	require.True(t, d.IsVoice())
	require.Equal(t, "Zxxx", d.Script())
}

func TestSetAllTagComponents_IsAtomic(t *testing.T) {
	d := mustParse(t, "en-Latn-US")
	err := d.SetAllTagComponents("fr", "Cyrl", "FR", "x-audio")
	require.ErrorIs(t, err, ErrInvalidTag)
	require.Equal(t, Subtags{Language: "en", Script: "Latn", Region: "US"}, d.Subtags())
	require.False(t, d.Modified())
}

func TestSetVariant(t *testing.T) {
	t.Run("non audio value clears voice and keeps script", func(t *testing.T) {
		d := mustParse(t, "en")
		require.NoError(t, d.SetIsVoice(true))
		require.NoError(t, d.SetVariant("change"))
		require.False(t, d.IsVoice())
		require.Equal(t, "Zxxx", d.Script())
	})
	t.Run("audio without audio script fails", func(t *testing.T) {
		d := mustParse(t, "en-Latn")
		require.ErrorIs(t, d.SetVariant("x-audio"), ErrInvalidTag)
		require.Empty(t, d.Variant())
	})
	t.Run("audio with ipa fails", func(t *testing.T) {
		for _, v := range []string{"fonipa-x-audio", "x-audio-etic", "x-emic-audio"} {
			d := mustParse(t, "en-Zxxx")
			require.ErrorIs(t, d.SetVariant(v), ErrInvalidTag, v)
		}
	})
	t.Run("duplicate audio fails", func(t *testing.T) {
		d := mustParse(t, "en-Zxxx")
		require.ErrorIs(t, d.SetVariant("x-audio-audio"), ErrInvalidTag)
	})
	t.Run("underscore fails", func(t *testing.T) {
		d := mustParse(t, "en")
		require.ErrorIs(t, d.SetVariant("a_b"), ErrInvalidTag)
	})
	t.Run("path characters and non ascii fail", func(t *testing.T) {
		for _, v := range []string{"a/b", `a\b`, ".", "..", "x-../..", "1901-x-é", "toolongvar"} {
			d := mustParse(t, "en")
			require.ErrorIs(t, d.SetVariant(v), ErrInvalidTag, v)
			require.Empty(t, d.Variant(), v)
		}
	})
	t.Run("audio in non terminal position is not voice", func(t *testing.T) {
		d := mustParse(t, "en-Zxxx")
		require.NoError(t, d.SetVariant("Prefixx-audioPst"))
		require.False(t, d.IsVoice())
	})
}

func TestSetLanguage(t *testing.T) {
	tests := []struct {
		value   string
		wantErr bool
	}{
		{"fr", false},
		{"zh-yue", false},
		{"", true},
		{"e n", true},
		{"en_US", true},
		{"en-Zxxx", true},
		{"en-fonipa", true},
		{"en-x-audio", true},
		{"en-x-etic", true},
		{"en-x-emic", true},
		{"en/fr", true},
		{`en\fr`, true},
		{".", true},
		{"..", true},
		{"../x", true},
		{"fr-x-a.b", true},
		{"français", true},
		{"abcdefghi", true},
	}
	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			d := mustParse(t, "en")
			err := d.SetLanguage(tt.value)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalidTag)
				require.Equal(t, "en", d.Language())
				require.False(t, d.Modified())
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.value, d.Language())
			require.True(t, d.Modified())
		})
	}
}

func TestSetIpaStatus(t *testing.T) {
	d := mustParse(t, "en-1901-x-foo")
	require.NoError(t, d.SetIpaStatus(Ipa))
	require.Equal(t, "1901-fonipa-x-foo", d.Variant())
	require.Equal(t, Ipa, d.IpaStatus())

	require.NoError(t, d.SetIpaStatus(IpaPhonetic))
	require.Equal(t, "1901-fonipa-x-foo-etic", d.Variant())
	require.Equal(t, IpaPhonetic, d.IpaStatus())

	require.NoError(t, d.SetIpaStatus(NotIpa))
	require.Equal(t, "1901-x-foo", d.Variant())
}

func TestSetIpaStatus_WhileVoiceFails(t *testing.T) {
	d := mustParse(t, "en")
	require.NoError(t, d.SetIsVoice(true))
	for _, s := range []IpaStatus{Ipa, IpaPhonetic, IpaPhonemic} {
		require.ErrorIs(t, d.SetIpaStatus(s), ErrInvalidTag)
	}
	require.NoError(t, d.SetIpaStatus(NotIpa))
	require.True(t, d.IsVoice())
}

func TestBookkeeping_DoesNotMarkModified(t *testing.T) {
	d := mustParse(t, "en")
	d.SetStoreID("en")
	d.SetMarkedForDeletion(true)
	d.SetDateModified(time.Now())
	d.SetDateLastChecked(time.Now())
	d.SetTemplate("/tmp/en.ldml")
	require.False(t, d.Modified())
}

func TestModified_EveryMutator(t *testing.T) {
	mutators := map[string]func(d *Definition) error{
		"language":   func(d *Definition) error { return d.SetLanguage("fr") },
		"script":     func(d *Definition) error { return d.SetScript("Cyrl") },
		"region":     func(d *Definition) error { return d.SetRegion("GB") },
		"variant":    func(d *Definition) error { return d.SetVariant("1996") },
		"voice":      func(d *Definition) error { return d.SetIsVoice(true) },
		"ipa":        func(d *Definition) error { return d.SetIpaStatus(Ipa) },
		"all":        func(d *Definition) error { return d.SetAllTagComponents("de", "", "", "") },
		"abbrev":     func(d *Definition) error { d.SetAbbreviation("x"); return nil },
		"name":       func(d *Definition) error { d.SetLanguageName("x"); return nil },
		"font":       func(d *Definition) error { d.SetDefaultFontName("Charis"); return nil },
		"font size":  func(d *Definition) error { d.SetDefaultFontSize(12); return nil },
		"keyboard":   func(d *Definition) error { d.SetKeyboard("us"); return nil },
		"rtl":        func(d *Definition) error { d.SetRightToLeftScript(true); return nil },
		"spell":      func(d *Definition) error { d.SetSpellCheckingID("en_US"); return nil },
		"sort using": func(d *Definition) error { d.SetSortUsing(CustomICU); return nil },
		"sort rules": func(d *Definition) error { d.SetSortRules("&a<b"); return nil },
	}
	for name, mutate := range mutators {
		t.Run(name, func(t *testing.T) {
			d := mustParse(t, "en-Latn-US-1901")
			require.NoError(t, mutate(d))
			require.True(t, d.Modified())

			d.AcceptChanges()
			require.NoError(t, mutate(d))
			require.False(t, d.Modified(), "same value must not mark modified")
		})
	}
}

func TestReadOnlyViews_DoNotMarkModified(t *testing.T) {
	d := mustParse(t, "en-Kore-US-1901")
	_ = d.CanonicalTag()
	_ = d.DisplayLabel()
	_ = d.VerboseDescription()
	_ = d.IsVoice()
	_ = d.IpaStatus()
	_ = d.Clone()
	require.False(t, d.Modified())
}

func TestClone(t *testing.T) {
	d := mustParse(t, "en-Latn-US-1901")
	d.SetAbbreviation("eng")
	d.SetKeyboard("us")
	d.SetDefaultFontSize(14)
	d.SetSortUsing(CustomSimple)
	d.SetSortRules("a b c")
	d.SetStoreID("en-Latn-US-1901")
	d.SetMarkedForDeletion(true)
	d.SetTemplate("/templates/en.ldml")

	c := d.Clone()
	require.NotSame(t, d, c)
	require.Equal(t, d.Subtags(), c.Subtags())
	require.Equal(t, d.Abbreviation(), c.Abbreviation())
	require.Equal(t, d.Keyboard(), c.Keyboard())
	require.Equal(t, d.DefaultFontSize(), c.DefaultFontSize())
	require.Equal(t, d.SortUsing(), c.SortUsing())
	require.Equal(t, d.SortRules(), c.SortRules())
	require.Equal(t, d.Template(), c.Template())
	require.Equal(t, d.Modified(), c.Modified())
	require.Empty(t, c.StoreID())
	require.False(t, c.MarkedForDeletion())

	require.NoError(t, c.SetRegion("GB"))
	require.Equal(t, "US", d.Region())
}

func TestValidateSortRules(t *testing.T) {
	d := mustParse(t, "en")
	require.NoError(t, d.ValidateSortRules())

	d.SetSortRules("&a<b")
	require.ErrorIs(t, d.ValidateSortRules(), ErrInvalidSortRules)

	d.SetSortUsing(CustomICU)
	require.NoError(t, d.ValidateSortRules())

	d.SetSortUsing(OtherLanguage)
	d.SetSortRules("")
	require.ErrorIs(t, d.ValidateSortRules(), ErrInvalidSortRules)
}

func TestParseSortRulesType(t *testing.T) {
	got, err := ParseSortRulesType("customicu")
	require.NoError(t, err)
	require.Equal(t, CustomICU, got)

	_, err = ParseSortRulesType("bogus")
	require.Error(t, err)
}

func TestConvertLegacyPrivateUse(t *testing.T) {
	tests := []struct {
		in, want string
		ok       bool
	}{
		{"x-kal-Latn-US", "qaa-Latn-US-x-kal", true},
		{"x-kal", "qaa-x-kal", true},
		{"x-kal-1901-x-foo", "qaa-1901-x-kal-foo", true},
		{"en-US", "en-US", false},
		{"x", "x", false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ConvertLegacyPrivateUse(tt.in)
			require.Equal(t, tt.ok, ok)
			require.Equal(t, tt.want, got)
		})
	}
}
