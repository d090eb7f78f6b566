package testutil

import "time"

// WithStandardTestData adds a small mixed folder: three good definitions,
// one corrupt file and one file whose name disagrees with its content.
func (b *Builder) WithStandardTestData() *Builder {
	lastWeek := time.Now().Add(-7 * 24 * time.Hour).Truncate(time.Second)

	return b.
		WithDefinition("en", Abbreviation("eng"), LanguageName("English"), Modified(lastWeek)).
		WithDefinition("fr", Keyboard("azerty"), Modified(lastWeek)).
		WithDefinition("de-CH", Modified(lastWeek)).
		WithRawFile("broken.ldml", "<ldml><identity>").
		WithDefinition("es", FileName("pt"))
}
