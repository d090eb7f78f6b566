package ldml

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/zjrosen/wsrepo/internal/writingsystem"
)

func TestMapper_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "en-Latn-US-1901"+Extension)
	m := NewMapper()

	src, err := writingsystem.Parse("en-Latn-US-1901")
	require.NoError(t, err)
	src.SetAbbreviation("eng")
	src.SetLanguageName("English")
	src.SetDefaultFontName("Charis SIL")
	src.SetDefaultFontSize(12.5)
	src.SetKeyboard("us")
	src.SetRightToLeftScript(true)
	src.SetSpellCheckingID("en_US")
	src.SetSortUsing(writingsystem.CustomSimple)
	src.SetSortRules("a A\nb B")
	modified := time.Date(2026, 5, 4, 3, 2, 1, 0, time.UTC)
	src.SetDateModified(modified)

	require.NoError(t, m.Write(path, src, nil))

	got := writingsystem.New()
	require.NoError(t, m.Read(path, got))
	require.Equal(t, src.Subtags(), got.Subtags())
	require.Equal(t, "eng", got.Abbreviation())
	require.Equal(t, "English", got.LanguageName())
	require.Equal(t, "Charis SIL", got.DefaultFontName())
	require.Equal(t, 12.5, got.DefaultFontSize())
	require.Equal(t, "us", got.Keyboard())
	require.True(t, got.RightToLeftScript())
	require.Equal(t, "en_US", got.SpellCheckingID())
	require.Equal(t, writingsystem.CustomSimple, got.SortUsing())
	require.Equal(t, "a A\nb B", got.SortRules())
	require.True(t, modified.Equal(got.DateModified()))
}

func TestMapper_RoundTripVoice(t *testing.T) {
	path := filepath.Join(t.TempDir(), "x"+Extension)
	m := NewMapper()

	src, err := writingsystem.NewFromSubtags("", "Latn", "US", "1901", true)
	require.NoError(t, err)
	require.NoError(t, m.Write(path, src, nil))

	got := writingsystem.New()
	require.NoError(t, m.Read(path, got))
	require.True(t, got.IsVoice())
	require.Equal(t, "qaa-Zxxx-US-1901-x-audio", got.CanonicalTag())
}

func TestMapper_PreservesUnknownElements(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fr"+Extension)
	previous := []byte(`<?xml version="1.0" encoding="UTF-8"?>
<ldml>
	<identity><language type="fr"/></identity>
	<collations><collation type="standard"><cr>&amp;a&lt;b</cr></collation></collations>
	<characters><exemplarCharacters>[a-z]</exemplarCharacters></characters>
</ldml>`)
	require.NoError(t, os.WriteFile(path, previous, 0o644))

	def, err := writingsystem.Parse("fr-CA")
	require.NoError(t, err)
	require.NoError(t, NewMapper().Write(path, def, previous))

	out, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(out), "<exemplarCharacters>[a-z]</exemplarCharacters>")
	require.Contains(t, string(out), `<collation type="standard">`)
	require.Contains(t, string(out), `<territory type="CA"></territory>`)

	got := writingsystem.New()
	require.NoError(t, NewMapper().Read(path, got))
	require.Equal(t, "fr-CA", got.CanonicalTag())
}

func TestMapper_UnreadablePreviousStillWrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "de"+Extension)
	def, err := writingsystem.Parse("de")
	require.NoError(t, err)

	require.NoError(t, NewMapper().Write(path, def, []byte("not xml <<<")))
	got := writingsystem.New()
	require.NoError(t, NewMapper().Read(path, got))
	require.Equal(t, "de", got.CanonicalTag())
}

func TestMapper_ReadErrors(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name string
		body string
	}{
		{"garbage", "this is not xml"},
		{"bad tag", `<ldml><identity><language type="en"/><variant type="x-audio"/></identity></ldml>`},
		{"bad date", `<ldml><identity><generation date="yesterday"/><language type="en"/></identity></ldml>`},
		{"bad font size", `<ldml><identity><language type="en"/></identity><special type="wsrepo"><defaultFontSize value="big"/></special></ldml>`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, tt.name+Extension)
			require.NoError(t, os.WriteFile(path, []byte(tt.body), 0o644))
			err := NewMapper().Read(path, writingsystem.New())
			require.ErrorIs(t, err, ErrParse)
		})
	}

	err := NewMapper().Read(filepath.Join(dir, "missing"+Extension), writingsystem.New())
	require.ErrorIs(t, err, ErrParse)
}

func TestMapper_WriteError(t *testing.T) {
	def, err := writingsystem.Parse("en")
	require.NoError(t, err)
	err = NewMapper().Write(filepath.Join(t.TempDir(), "no", "such", "dir", "en"+Extension), def, nil)
	require.ErrorIs(t, err, ErrWrite)
}
