// Package testutil builds repository folders and collaborators for tests.
package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zjrosen/wsrepo/internal/ldml"
	"github.com/zjrosen/wsrepo/internal/writingsystem"
)

const trashDir = "trash"

type rawFile struct {
	name string
	body string
}

// Builder accumulates fixture files and writes them into a folder.
type Builder struct {
	t       *testing.T
	dir     string
	defs    []definitionData
	trashed []definitionData
	raw     []rawFile
}

// NewBuilder creates a builder writing into dir.
func NewBuilder(t *testing.T, dir string) *Builder {
	t.Helper()
	return &Builder{t: t, dir: dir}
}

// WithDefinition adds <dir>/<tag>.ldml.
func (b *Builder) WithDefinition(tag string, opts ...DefinitionOption) *Builder {
	b.defs = append(b.defs, applyOptions(tag, opts))
	return b
}

// WithTrashed adds <dir>/trash/<tag>.ldml.
func (b *Builder) WithTrashed(tag string, opts ...DefinitionOption) *Builder {
	b.trashed = append(b.trashed, applyOptions(tag, opts))
	return b
}

// WithRawFile adds a file with arbitrary content, e.g. a corrupt definition.
func (b *Builder) WithRawFile(name, body string) *Builder {
	b.raw = append(b.raw, rawFile{name: name, body: body})
	return b
}

func applyOptions(tag string, opts []DefinitionOption) definitionData {
	d := defaultDefinition(tag)
	for _, opt := range opts {
		opt(&d)
	}
	return d
}

// Build writes all accumulated files and returns the folder.
func (b *Builder) Build() string {
	b.t.Helper()
	require.NoError(b.t, os.MkdirAll(b.dir, 0o755))
	for _, d := range b.defs {
		b.write(b.dir, d)
	}
	if len(b.trashed) > 0 {
		trash := filepath.Join(b.dir, trashDir)
		require.NoError(b.t, os.MkdirAll(trash, 0o755))
		for _, d := range b.trashed {
			b.write(trash, d)
		}
	}
	for _, f := range b.raw {
		require.NoError(b.t, os.WriteFile(filepath.Join(b.dir, f.name), []byte(f.body), 0o644))
	}
	return b.dir
}

func (b *Builder) write(dir string, d definitionData) {
	b.t.Helper()
	def := NewDefinition(b.t, d.tag)
	def.SetAbbreviation(d.abbreviation)
	def.SetLanguageName(d.languageName)
	def.SetKeyboard(d.keyboard)
	def.SetDateModified(d.modified)
	path := filepath.Join(dir, d.fileName+ldml.Extension)
	require.NoError(b.t, ldml.NewMapper().Write(path, def, nil))
}

// NewDefinition parses tag or fails the test.
func NewDefinition(t *testing.T, tag string) *writingsystem.Definition {
	t.Helper()
	def, err := writingsystem.Parse(tag)
	require.NoError(t, err)
	return def
}

// ReadDefinition loads a definition file or fails the test.
func ReadDefinition(t *testing.T, path string) *writingsystem.Definition {
	t.Helper()
	def := writingsystem.New()
	require.NoError(t, ldml.NewMapper().Read(path, def))
	return def
}
