package repository

import (
	"context"

	"go.opentelemetry.io/otel/trace"

	"github.com/zjrosen/wsrepo/internal/changelog"
	"github.com/zjrosen/wsrepo/internal/pubsub"
	"github.com/zjrosen/wsrepo/internal/template"
	"github.com/zjrosen/wsrepo/internal/writingsystem"
)

// Mapper reads and writes one definition file. previous carries the bytes
// being replaced so content the mapper does not model can be kept.
type Mapper interface {
	Read(path string, def *writingsystem.Definition) error
	Write(path string, def *writingsystem.Definition, previous []byte) error
}

// CustomDataMapper stores application data alongside each definition. It
// is called after every load, after every write and on removal.
type CustomDataMapper interface {
	Read(def *writingsystem.Definition) error
	Write(def *writingsystem.Definition) error
	Remove(id string) error
}

// SystemProvider offers writing systems derived from the operating system.
type SystemProvider interface {
	WritingSystems() []*writingsystem.Definition
}

// Migrator upgrades a folder in place before its first load.
type Migrator interface {
	Migrate(ctx context.Context, dir string) []Problem
}

// Notice is the payload published for every repository change.
type Notice struct {
	ID       string
	Previous string
}

// Options configures a Repository. Only Dir is required.
type Options struct {
	Dir string

	// Global is the shared store kept in sync after each save and used as a
	// template source. Nil means no shared store and no ignore list.
	Global *Repository

	// ChangeLog overrides the YAML journal in Dir.
	ChangeLog changelog.Store

	Mapper      Mapper
	CustomData  []CustomDataMapper
	Broker      *pubsub.Broker[Notice]
	Tracer      trace.Tracer
	Fetcher     template.Fetcher
	CacheDir    string
	TemplateDir string

	// ProblemHandler receives the merged migration and load problems from
	// Initialize when there are any.
	ProblemHandler func([]Problem)
}
