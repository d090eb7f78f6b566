package repository

import (
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/zjrosen/wsrepo/internal/writingsystem"
)

var propertyTags = []string{"en", "fr", "de-CH", "es-419", "sr-Cyrl", "qaa-x-kal", "zh-Hant-TW", "en-1901"}

// Saving then reopening yields exactly the held ids, and removed ids stay
// gone even when offered again by the system provider.
func TestProperty_SaveReloadRoundTrip(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		dir, err := os.MkdirTemp(t.TempDir(), "repo")
		require.NoError(rt, err)

		r, err := New(Options{Dir: dir})
		require.NoError(rt, err)

		held := map[string]bool{}
		removed := map[string]bool{}
		steps := rapid.IntRange(1, 20).Draw(rt, "steps")
		for i := 0; i < steps; i++ {
			tag := rapid.SampledFrom(propertyTags).Draw(rt, "tag")
			if held[tag] && rapid.Bool().Draw(rt, "remove") {
				require.NoError(rt, r.Remove(tag))
				delete(held, tag)
				removed[tag] = true
				continue
			}
			if held[tag] {
				continue
			}
			def, err := writingsystem.Parse(tag)
			require.NoError(rt, err)
			require.NoError(rt, r.Set(def))
			held[tag] = true
			delete(removed, tag)
			if rapid.Bool().Draw(rt, "save") {
				require.NoError(rt, r.Save())
			}
		}
		require.NoError(rt, r.Save())

		var system staticSystem
		for tag := range removed {
			system = append(system, tag)
		}
		reopened, err := New(Options{Dir: dir})
		require.NoError(rt, err)
		reopened.SetSystemProvider(system)

		var want []string
		for tag := range held {
			want = append(want, tag)
		}
		sort.Strings(want)
		var got []string
		for _, def := range reopened.All() {
			got = append(got, def.ID())
		}
		require.Equal(rt, want, got)
		require.Empty(rt, reopened.Problems())

		for tag := range removed {
			require.FileExists(rt, filepath.Join(dir, trashDir, tag+Extension))
		}
	})
}
