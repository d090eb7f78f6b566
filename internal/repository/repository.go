// Package repository keeps writing system definitions in a folder, one LDML
// file per identifier. It owns the folder: soft deletes go to a trash
// subfolder, identifier changes rename files as soon as they are Set, and
// every save appends what changed to the change log.
package repository

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/zjrosen/wsrepo/internal/changelog"
	"github.com/zjrosen/wsrepo/internal/ldml"
	"github.com/zjrosen/wsrepo/internal/log"
	"github.com/zjrosen/wsrepo/internal/pubsub"
	"github.com/zjrosen/wsrepo/internal/template"
	"github.com/zjrosen/wsrepo/internal/writingsystem"
)

// Extension is the suffix of every definition file.
const Extension = ldml.Extension

const trashDir = "trash"

// Repository is a folder of definitions. It performs no locking; callers
// serialise access.
type Repository struct {
	dir      string
	mapper   Mapper
	custom   []CustomDataMapper
	changes  *changelog.Log
	global   *Repository
	resolver *template.Resolver
	broker   *pubsub.Broker[Notice]
	tracer   trace.Tracer
	now      func() time.Time

	// defs is keyed by store id, which equals the canonical tag after Set.
	defs map[string]*writingsystem.Definition
	// baseline maps a store id to the id it had at the last save, or "" for
	// definitions never saved.
	baseline map[string]string
	problems []Problem
	ignore   map[string]time.Time
	system   SystemProvider
}

var _ template.Store = (*Repository)(nil)

// New opens the folder at opts.Dir, creating it when its parent exists, and
// loads every definition in it.
func New(opts Options) (*Repository, error) {
	if opts.Dir == "" {
		return nil, errors.New("repository folder is required")
	}
	if err := ensureDir(opts.Dir); err != nil {
		return nil, err
	}

	store := opts.ChangeLog
	if store == nil {
		store = changelog.NewFileStore(opts.Dir)
	}
	changes, err := changelog.Open(store)
	if err != nil {
		return nil, err
	}

	r := &Repository{
		dir:     opts.Dir,
		mapper:  opts.Mapper,
		custom:  opts.CustomData,
		changes: changes,
		global:  opts.Global,
		broker:  opts.Broker,
		tracer:  opts.Tracer,
		now:     time.Now,
		ignore:  map[string]time.Time{},
	}
	if r.mapper == nil {
		r.mapper = ldml.NewMapper()
	}
	if r.tracer == nil {
		r.tracer = noop.NewTracerProvider().Tracer("repository")
	}

	chain := template.Chain{
		Local:       r,
		Fetcher:     opts.Fetcher,
		CacheDir:    opts.CacheDir,
		TemplateDir: opts.TemplateDir,
	}
	if r.global != nil {
		chain.Global = r.global
	}
	r.resolver = template.NewResolver(template.DefaultChain(chain), template.WithTracer(r.tracer))

	if r.global != nil {
		if err := r.readIgnoreList(); err != nil {
			return nil, err
		}
	}
	if err := r.LoadAll(); err != nil {
		return nil, err
	}
	return r, nil
}

// Initialize migrates the folder, opens it, and hands the merged migration
// and load problems to opts.ProblemHandler.
func Initialize(ctx context.Context, opts Options, migrator Migrator) (*Repository, error) {
	var problems []Problem
	if migrator != nil {
		if err := ensureDir(opts.Dir); err != nil {
			return nil, err
		}
		problems = append(problems, migrator.Migrate(ctx, opts.Dir)...)
	}

	r, err := New(opts)
	if err != nil {
		return nil, err
	}

	problems = append(problems, r.Problems()...)
	if len(problems) > 0 && opts.ProblemHandler != nil {
		opts.ProblemHandler(problems)
	}
	return r, nil
}

func ensureDir(dir string) error {
	info, err := os.Stat(dir)
	if err == nil {
		if !info.IsDir() {
			return fmt.Errorf("%s is not a directory", dir)
		}
		return nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("checking %s: %w", dir, err)
	}
	parent := filepath.Dir(filepath.Clean(dir))
	if _, err := os.Stat(parent); err != nil {
		return fmt.Errorf("%w: %s", ErrParentMissing, parent)
	}
	if err := os.Mkdir(dir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", dir, err)
	}
	return nil
}

// Dir returns the repository folder.
func (r *Repository) Dir() string { return r.dir }

// FilePath returns where the definition for id lives.
func (r *Repository) FilePath(id string) string {
	return filepath.Join(r.dir, id+Extension)
}

func (r *Repository) trashPath(id string) string {
	return filepath.Join(r.dir, trashDir, id+Extension)
}

// LoadAll discards in-memory state and reads every definition file again.
// Files that fail to parse are recorded as problems and skipped.
func (r *Repository) LoadAll() error {
	entries, err := os.ReadDir(r.dir)
	if err != nil {
		return fmt.Errorf("reading %s: %w", r.dir, err)
	}

	r.defs = map[string]*writingsystem.Definition{}
	r.baseline = map[string]string{}
	r.problems = nil

	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != Extension {
			continue
		}
		r.loadFile(filepath.Join(r.dir, e.Name()))
	}
	r.addSystemWritingSystems()

	log.Info(log.CatRepo, "Loaded writing systems", "dir", r.dir, "count", len(r.defs), "problems", len(r.problems))
	r.publish(pubsub.ReloadedEvent, Notice{})
	return nil
}

func (r *Repository) loadFile(path string) {
	stem := strings.TrimSuffix(filepath.Base(path), Extension)

	def := writingsystem.New()
	if err := r.mapper.Read(path, def); err != nil {
		r.addProblem(path, err, NotAvailable)
		return
	}
	for _, m := range r.custom {
		if err := m.Read(def); err != nil {
			r.addProblem(path, fmt.Errorf("custom data: %w", err), NotAvailable)
			return
		}
	}
	def.AcceptChanges()

	if !strings.EqualFold(stem, def.ID()) && !isLegacyName(stem, def.ID()) {
		r.addProblem(path, fmt.Errorf("%w: contains %q", ErrNameMismatch, def.ID()), NotAvailable)
	}

	def.SetStoreID(stem)
	r.defs[stem] = def
	r.baseline[stem] = stem
}

func isLegacyName(stem, id string) bool {
	converted, ok := writingsystem.ConvertLegacyPrivateUse(stem)
	return ok && strings.EqualFold(converted, id)
}

func (r *Repository) addProblem(path string, err error, c Consequence) {
	log.Warn(log.CatRepo, "Repository problem", "path", path, "consequence", c.String(), "error", err)
	r.problems = append(r.problems, Problem{FilePath: path, Err: err, Consequence: c})
}

// Problems returns the problems recorded by the most recent LoadAll or Save.
func (r *Repository) Problems() []Problem {
	out := make([]Problem, len(r.problems))
	copy(out, r.problems)
	return out
}

// Get returns the definition stored under id.
func (r *Repository) Get(id string) (*writingsystem.Definition, error) {
	def, ok := r.defs[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return def, nil
}

// TryGet is Get without the error.
func (r *Repository) TryGet(id string) (*writingsystem.Definition, bool) {
	def, ok := r.defs[id]
	return def, ok
}

// Contains reports whether a definition is stored under id.
func (r *Repository) Contains(id string) bool {
	_, ok := r.defs[id]
	return ok
}

// Count returns the number of definitions held.
func (r *Repository) Count() int { return len(r.defs) }

// All returns every definition ordered by store id.
func (r *Repository) All() []*writingsystem.Definition {
	out := make([]*writingsystem.Definition, 0, len(r.defs))
	for _, id := range r.storeIDs() {
		out = append(out, r.defs[id])
	}
	return out
}

func (r *Repository) storeIDs() []string {
	ids := make([]string, 0, len(r.defs))
	for id := range r.defs {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func (r *Repository) holdsTag(tag string) bool {
	for _, def := range r.defs {
		if def.ID() == tag {
			return true
		}
	}
	return false
}

// CanSet reports whether Set would accept def without ErrDuplicateID. The
// id must not be held by another definition, and no file that failed to
// load may sit at its path.
func (r *Repository) CanSet(def *writingsystem.Definition) bool {
	id := def.ID()
	if held, ok := r.defs[id]; ok {
		return held == def
	}
	return !r.strayFile(id, def)
}

// strayFile reports whether a file for id exists on disk that no held
// definition owns. A case-only rename of def's own file does not count.
func (r *Repository) strayFile(id string, def *writingsystem.Definition) bool {
	if old := def.StoreID(); old != "" && r.defs[old] == def && strings.EqualFold(old, id) {
		return false
	}
	return fileExists(r.FilePath(id))
}

// Set stores def under its current canonical tag. When def was already held
// under another id its file is renamed now; its content is rewritten by the
// next Save.
func (r *Repository) Set(def *writingsystem.Definition) error {
	if def == nil {
		return errors.New("nil definition")
	}
	id := def.ID()
	if !r.CanSet(def) {
		if _, held := r.defs[id]; !held {
			return fmt.Errorf("%w: %s exists on disk but is not loaded", ErrDuplicateID, r.FilePath(id))
		}
		return fmt.Errorf("%w: %s", ErrDuplicateID, id)
	}

	old := def.StoreID()
	owned := old != "" && r.defs[old] == def
	if owned && old == id {
		return nil
	}

	if owned {
		if err := r.renameFile(old, id); err != nil {
			return err
		}
		delete(r.defs, old)
		r.baseline[id] = r.baseline[old]
		delete(r.baseline, old)
	} else if _, ok := r.baseline[id]; !ok {
		r.baseline[id] = ""
	}

	def.SetStoreID(id)
	r.defs[id] = def

	if owned {
		log.Debug(log.CatRepo, "Renamed writing system", "from", old, "to", id)
		r.publish(pubsub.RenamedEvent, Notice{ID: id, Previous: old})
	} else {
		r.publish(pubsub.CreatedEvent, Notice{ID: id})
	}
	return nil
}

func (r *Repository) renameFile(from, to string) error {
	src := r.FilePath(from)
	if !fileExists(src) {
		return nil
	}
	if err := os.Rename(src, r.FilePath(to)); err != nil {
		return fmt.Errorf("renaming %s to %s: %w", from, to, err)
	}
	return nil
}

// WritingSystemIDHasChanged reports whether the change log records a rename,
// delete or conflate of id.
func (r *Repository) WritingSystemIDHasChanged(id string) bool {
	return r.changes.HasChangeFor(id)
}

// WritingSystemIDHasChangedTo returns what id refers to now: id itself when
// it is held, otherwise the end of its change chain. The second result is
// false when id was deleted.
func (r *Repository) WritingSystemIDHasChangedTo(id string) (string, bool) {
	if r.holdsTag(id) {
		return id, true
	}
	return r.changes.GetChangeFor(id)
}

// Changes returns the change log entries in append order.
func (r *Repository) Changes() []changelog.Entry {
	return r.changes.Entries()
}

// SetSystemProvider installs p and adds its writing systems. They are added
// again after every LoadAll, except those already held or in the trash.
func (r *Repository) SetSystemProvider(p SystemProvider) {
	r.system = p
	r.addSystemWritingSystems()
}

func (r *Repository) addSystemWritingSystems() {
	if r.system == nil {
		return
	}
	for _, def := range r.system.WritingSystems() {
		id := def.ID()
		if r.holdsTag(id) || fileExists(r.trashPath(id)) {
			continue
		}
		if err := r.Set(def); err != nil {
			log.Warn(log.CatRepo, "System writing system not added", "id", id, "error", err)
		}
	}
}

func (r *Repository) publish(t pubsub.EventType, n Notice) {
	if r.broker != nil {
		r.broker.Publish(t, n)
	}
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
