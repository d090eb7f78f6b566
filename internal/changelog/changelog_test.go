package changelog

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestResolve(t *testing.T) {
	tests := []struct {
		name      string
		entries   []Entry
		id        string
		want      string
		wantAlive bool
	}{
		{
			name:      "unknown id resolves to itself",
			id:        "en",
			want:      "en",
			wantAlive: true,
		},
		{
			name: "rename chain",
			entries: []Entry{
				{Type: TypeRename, From: "de", To: "de-x-foo"},
				{Type: TypeRename, From: "de-x-foo", To: "de-CH"},
			},
			id:        "de",
			want:      "de-CH",
			wantAlive: true,
		},
		{
			name: "delete terminates",
			entries: []Entry{
				{Type: TypeRename, From: "de", To: "de-x-foo"},
				{Type: TypeDelete, From: "de-x-foo"},
			},
			id:        "de",
			want:      "de-x-foo",
			wantAlive: false,
		},
		{
			name: "add revives deleted id",
			entries: []Entry{
				{Type: TypeDelete, From: "en"},
				{Type: TypeAdd, To: "en"},
			},
			id:        "en",
			want:      "en",
			wantAlive: true,
		},
		{
			name: "conflate redirects",
			entries: []Entry{
				{Type: TypeConflate, From: "en-GB", To: "en"},
			},
			id:        "en-GB",
			want:      "en",
			wantAlive: true,
		},
		{
			name: "rename of other id is ignored",
			entries: []Entry{
				{Type: TypeRename, From: "fr", To: "fr-CA"},
			},
			id:        "en",
			want:      "en",
			wantAlive: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, alive := Resolve(tt.entries, tt.id)
			require.Equal(t, tt.want, got)
			require.Equal(t, tt.wantAlive, alive)
		})
	}
}

func TestHasChange(t *testing.T) {
	entries := []Entry{
		{Type: TypeAdd, To: "en"},
		{Type: TypeRename, From: "de", To: "de-CH"},
	}
	require.False(t, HasChange(entries, "en"))
	require.True(t, HasChange(entries, "de"))
	require.False(t, HasChange(entries, "de-CH"))
}

func TestLog_AppendsToStore(t *testing.T) {
	dir := t.TempDir()
	l, err := Open(NewFileStore(dir))
	require.NoError(t, err)

	require.NoError(t, l.LogAdd("en"))
	require.NoError(t, l.LogRename("en", "en-US"))
	require.NoError(t, l.LogConflate("en-GB", "en-US"))
	require.NoError(t, l.LogDelete("fr"))

	entries := l.Entries()
	require.Len(t, entries, 4)
	for _, e := range entries {
		require.NotEmpty(t, e.ID)
		require.False(t, e.Time.IsZero())
	}
	require.True(t, l.HasChangeFor("en"))
	got, ok := l.GetChangeFor("en")
	require.True(t, ok)
	require.Equal(t, "en-US", got)
	_, ok = l.GetChangeFor("fr")
	require.False(t, ok)

	reopened, err := Open(NewFileStore(dir))
	require.NoError(t, err)
	require.Equal(t, entries, reopened.Entries())
}

func TestFileStore_MissingFileIsEmpty(t *testing.T) {
	entries, err := NewFileStore(t.TempDir()).Load()
	require.NoError(t, err)
	require.Empty(t, entries)
}

func TestFileStore_RejectsUnknownType(t *testing.T) {
	dir := t.TempDir()
	body := "version: 1\nentries:\n  - id: a\n    type: teleport\n    from: en\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte(body), 0o644))

	_, err := Open(NewFileStore(dir))
	require.Error(t, err)
}

type failingStore struct{}

func (failingStore) Load() ([]Entry, error) { return nil, nil }
func (failingStore) Append(Entry) error      { return errors.New("disk full") }

func TestLog_FailedAppendIsNotRecorded(t *testing.T) {
	l, err := Open(failingStore{})
	require.NoError(t, err)
	require.Error(t, l.LogAdd("en"))
	require.Empty(t, l.Entries())
}
