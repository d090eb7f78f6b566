package template

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/zjrosen/wsrepo/internal/testutil"
	"github.com/zjrosen/wsrepo/internal/tracing"
)

// fakeStore is a Store backed by a directory and an explicit id set.
type fakeStore struct {
	dir string
	ids map[string]bool
}

func (s fakeStore) Contains(id string) bool   { return s.ids[id] }
func (s fakeStore) FilePath(id string) string { return filepath.Join(s.dir, id+Extension) }

func touch(t *testing.T, dir, id string) string {
	t.Helper()
	require.NoError(t, os.MkdirAll(dir, 0o755))
	path := filepath.Join(dir, id+Extension)
	require.NoError(t, os.WriteFile(path, []byte("<ldml/>"), 0o644))
	return path
}

type staticProvider struct {
	name  string
	path  string
	calls *[]string
}

func (p staticProvider) Name() string { return p.name }

func (p staticProvider) TryResolve(_ context.Context, _ string) (string, bool) {
	*p.calls = append(*p.calls, p.name)
	return p.path, p.path != ""
}

func TestResolver_FirstHitWins(t *testing.T) {
	var calls []string
	r := NewResolver([]Provider{
		staticProvider{name: "a", calls: &calls},
		staticProvider{name: "b", path: "/b/fr.ldml", calls: &calls},
		staticProvider{name: "c", path: "/c/fr.ldml", calls: &calls},
	})

	res, ok := r.Resolve(context.Background(), "fr")
	require.True(t, ok)
	require.Equal(t, Result{Path: "/b/fr.ldml", Provider: "b"}, res)
	require.Equal(t, []string{"a", "b"}, calls)
}

func TestResolver_NoProviders(t *testing.T) {
	_, ok := NewResolver(nil).Resolve(context.Background(), "fr")
	require.False(t, ok)
}

func TestResolver_CancelledContextStops(t *testing.T) {
	var calls []string
	r := NewResolver([]Provider{staticProvider{name: "a", path: "/a", calls: &calls}})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, ok := r.Resolve(ctx, "fr")
	require.False(t, ok)
	require.Empty(t, calls)
}

func TestResolver_RecordsSpans(t *testing.T) {
	rec := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(rec))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

	var calls []string
	r := NewResolver([]Provider{
		staticProvider{name: "miss", calls: &calls},
		staticProvider{name: "hit", path: "/x.ldml", calls: &calls},
	}, WithTracer(tp.Tracer("test")))

	_, ok := r.Resolve(context.Background(), "fr")
	require.True(t, ok)

	var names []string
	for _, s := range rec.Ended() {
		names = append(names, s.Name())
	}
	require.ElementsMatch(t, []string{
		tracing.SpanProvider + "miss",
		tracing.SpanProvider + "hit",
		tracing.SpanResolve,
	}, names)
}

func TestStoreProvider(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "en")

	tests := []struct {
		name string
		ids  map[string]bool
		id   string
		ok   bool
	}{
		{name: "held with file", ids: map[string]bool{"en": true}, id: "en", ok: true},
		{name: "not held", ids: map[string]bool{}, id: "en", ok: false},
		{name: "held without file", ids: map[string]bool{"fr": true}, id: "fr", ok: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewStoreProvider("local", fakeStore{dir: dir, ids: tt.ids})
			path, ok := p.TryResolve(context.Background(), tt.id)
			require.Equal(t, tt.ok, ok)
			if ok {
				require.Equal(t, filepath.Join(dir, tt.id+Extension), path)
			}
		})
	}
}

func TestStoreProvider_NilStore(t *testing.T) {
	_, ok := NewStoreProvider("global", nil).TryResolve(context.Background(), "en")
	require.False(t, ok)
}

func TestRemoteProvider(t *testing.T) {
	cache := t.TempDir()
	fetcher := testutil.NewFakeFetcher(map[string]string{"fr": "<ldml/>"})
	p := NewRemoteProvider(fetcher, cache)

	path, ok := p.TryResolve(context.Background(), "fr")
	require.True(t, ok)
	require.Equal(t, filepath.Join(cache, "fr.ldml"), path)
	require.FileExists(t, path)

	_, ok = p.TryResolve(context.Background(), "qaa-x-none")
	require.False(t, ok)
	require.Equal(t, []string{"fr", "qaa-x-none"}, fetcher.Calls())
}

func TestDirProvider(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "de")

	path, ok := NewFolderProvider(dir).TryResolve(context.Background(), "de")
	require.True(t, ok)
	require.Equal(t, filepath.Join(dir, "de.ldml"), path)

	_, ok = NewCacheProvider(dir).TryResolve(context.Background(), "fr")
	require.False(t, ok)

	_, ok = NewFolderProvider("").TryResolve(context.Background(), "de")
	require.False(t, ok)
}

func TestDefaultChain_Order(t *testing.T) {
	store := fakeStore{dir: t.TempDir(), ids: map[string]bool{}}

	tests := []struct {
		name  string
		chain Chain
		want  []string
	}{
		{
			name: "everything",
			chain: Chain{
				Local:       store,
				Global:      store,
				Fetcher:     testutil.NewFakeFetcher(nil),
				CacheDir:    "/cache",
				TemplateDir: "/templates",
			},
			want: []string{"local", "global", "remote", "cache", "folder"},
		},
		{
			name:  "fetcher without cache dir is skipped",
			chain: Chain{Local: store, Fetcher: testutil.NewFakeFetcher(nil)},
			want:  []string{"local"},
		},
		{
			name:  "offline",
			chain: Chain{Local: store, CacheDir: "/cache"},
			want:  []string{"local", "cache"},
		},
		{
			name:  "empty",
			chain: Chain{},
			want:  []string{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewResolver(DefaultChain(tt.chain)).Providers()
			require.Equal(t, tt.want, got)
		})
	}
}

func TestDefaultChain_LocalBeatsFolder(t *testing.T) {
	localDir := t.TempDir()
	folder := t.TempDir()
	localPath := touch(t, localDir, "en")
	touch(t, folder, "en")
	folderPath := touch(t, folder, "fr")

	r := NewResolver(DefaultChain(Chain{
		Local:       fakeStore{dir: localDir, ids: map[string]bool{"en": true}},
		TemplateDir: folder,
	}))

	res, ok := r.Resolve(context.Background(), "en")
	require.True(t, ok)
	require.Equal(t, Result{Path: localPath, Provider: "local"}, res)

	res, ok = r.Resolve(context.Background(), "fr")
	require.True(t, ok)
	require.Equal(t, Result{Path: folderPath, Provider: "folder"}, res)
}
