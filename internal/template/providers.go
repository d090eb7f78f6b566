package template

import (
	"context"
	"os"
	"path/filepath"

	"github.com/zjrosen/wsrepo/internal/log"
)

// Extension is appended to an identifier to form a template file name.
const Extension = ".ldml"

// Store is the view of a repository a StoreProvider needs.
type Store interface {
	Contains(id string) bool
	FilePath(id string) string
}

// Fetcher downloads a definition for id into dest.
type Fetcher interface {
	Fetch(ctx context.Context, dest, id string) error
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// StoreProvider resolves ids held by a repository whose backing file exists.
type StoreProvider struct {
	name  string
	store Store
}

var _ Provider = (*StoreProvider)(nil)

// NewStoreProvider wraps store under the given provider name ("local", "global").
func NewStoreProvider(name string, store Store) *StoreProvider {
	return &StoreProvider{name: name, store: store}
}

func (p *StoreProvider) Name() string { return p.name }

func (p *StoreProvider) TryResolve(_ context.Context, id string) (string, bool) {
	if p.store == nil || !p.store.Contains(id) {
		return "", false
	}
	path := p.store.FilePath(id)
	if !fileExists(path) {
		return "", false
	}
	return path, true
}

// RemoteProvider downloads into a cache directory through a Fetcher.
type RemoteProvider struct {
	fetcher  Fetcher
	cacheDir string
}

var _ Provider = (*RemoteProvider)(nil)

func NewRemoteProvider(fetcher Fetcher, cacheDir string) *RemoteProvider {
	return &RemoteProvider{fetcher: fetcher, cacheDir: cacheDir}
}

func (p *RemoteProvider) Name() string { return "remote" }

func (p *RemoteProvider) TryResolve(ctx context.Context, id string) (string, bool) {
	dest := filepath.Join(p.cacheDir, id+Extension)
	if err := p.fetcher.Fetch(ctx, dest, id); err != nil {
		log.Debug(log.CatTemplate, "Remote template unavailable", "id", id, "error", err)
		return "", false
	}
	return dest, true
}

// DirProvider resolves ids to <dir>/<id>.ldml when that file exists. It
// serves both the download cache and the configured template folder.
type DirProvider struct {
	name string
	dir  string
}

var _ Provider = (*DirProvider)(nil)

// NewCacheProvider looks in the download cache directory.
func NewCacheProvider(dir string) *DirProvider {
	return &DirProvider{name: "cache", dir: dir}
}

// NewFolderProvider looks in a template folder.
func NewFolderProvider(dir string) *DirProvider {
	return &DirProvider{name: "folder", dir: dir}
}

func (p *DirProvider) Name() string { return p.name }

func (p *DirProvider) TryResolve(_ context.Context, id string) (string, bool) {
	if p.dir == "" {
		return "", false
	}
	path := filepath.Join(p.dir, id+Extension)
	if !fileExists(path) {
		return "", false
	}
	return path, true
}

// Chain is the input to DefaultChain. Nil or empty members are skipped.
type Chain struct {
	Local       Store
	Global      Store
	Fetcher     Fetcher
	CacheDir    string
	TemplateDir string
}

// DefaultChain orders providers local, global, remote, cache, folder.
func DefaultChain(c Chain) []Provider {
	var ps []Provider
	if c.Local != nil {
		ps = append(ps, NewStoreProvider("local", c.Local))
	}
	if c.Global != nil {
		ps = append(ps, NewStoreProvider("global", c.Global))
	}
	if c.Fetcher != nil && c.CacheDir != "" {
		ps = append(ps, NewRemoteProvider(c.Fetcher, c.CacheDir))
	}
	if c.CacheDir != "" {
		ps = append(ps, NewCacheProvider(c.CacheDir))
	}
	if c.TemplateDir != "" {
		ps = append(ps, NewFolderProvider(c.TemplateDir))
	}
	return ps
}
