package repository

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/zjrosen/wsrepo/internal/log"
	"github.com/zjrosen/wsrepo/internal/pubsub"
	"github.com/zjrosen/wsrepo/internal/writingsystem"
)

// IgnoreFileName holds, per id, the global modification date the user last
// declined. It exists only for repositories with a shared store.
const IgnoreFileName = "WritingSystemsToIgnore.yaml"

type ignoreDoc struct {
	WritingSystems []ignoreEntry `yaml:"writing_systems"`
}

type ignoreEntry struct {
	ID           string    `yaml:"id"`
	DateModified time.Time `yaml:"date_modified"`
}

func (r *Repository) ignorePath() string {
	return filepath.Join(r.dir, IgnoreFileName)
}

func (r *Repository) readIgnoreList() error {
	data, err := os.ReadFile(r.ignorePath())
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("reading ignore list: %w", err)
	}
	var doc ignoreDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("parsing ignore list: %w", err)
	}
	for _, e := range doc.WritingSystems {
		r.ignore[e.ID] = e.DateModified.UTC()
	}
	return nil
}

// writeIgnoreList rewrites the whole file, or deletes it when empty.
func (r *Repository) writeIgnoreList() error {
	if r.global == nil {
		return nil
	}
	path := r.ignorePath()
	if len(r.ignore) == 0 {
		if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("removing ignore list: %w", err)
		}
		return nil
	}

	ids := make([]string, 0, len(r.ignore))
	for id := range r.ignore {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	doc := ignoreDoc{}
	for _, id := range ids {
		doc.WritingSystems = append(doc.WritingSystems, ignoreEntry{ID: id, DateModified: r.ignore[id]})
	}

	data, err := yaml.Marshal(&doc)
	if err != nil {
		return fmt.Errorf("encoding ignore list: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing ignore list: %w", err)
	}
	return nil
}

// LastChecked records that the shared copy of id as of t has been seen and
// should not be offered again.
func (r *Repository) LastChecked(id string, t time.Time) error {
	r.ignore[id] = t.UTC().Truncate(time.Second)
	return r.writeIgnoreList()
}

// Ignored returns a copy of the ignore list.
func (r *Repository) Ignored() map[string]time.Time {
	out := make(map[string]time.Time, len(r.ignore))
	for id, t := range r.ignore {
		out[id] = t
	}
	return out
}

// CheckForNewerGlobal returns copies of shared definitions that are newer
// than the local ones and newer than what was last declined. Each one
// returned is marked as checked.
func (r *Repository) CheckForNewerGlobal() ([]*writingsystem.Definition, error) {
	if r.global == nil {
		return nil, nil
	}
	var newer []*writingsystem.Definition
	for _, def := range r.All() {
		g, ok := r.global.TryGet(def.ID())
		if !ok || !g.DateModified().After(def.DateModified()) {
			continue
		}
		if seen, ok := r.ignore[def.ID()]; ok && !g.DateModified().After(seen) {
			continue
		}
		newer = append(newer, g.Clone())
		r.ignore[def.ID()] = g.DateModified().UTC().Truncate(time.Second)
	}
	if len(newer) > 0 {
		if err := r.writeIgnoreList(); err != nil {
			return newer, err
		}
	}
	return newer, nil
}

// UseGlobalCopy replaces the local definition with def, a shared copy
// returned by CheckForNewerGlobal. The shared modification date is kept.
func (r *Repository) UseGlobalCopy(def *writingsystem.Definition) error {
	id := def.ID()
	if !r.holdsTag(id) {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err := r.adopt(def); err != nil {
		return err
	}
	log.Info(log.CatRepo, "Adopted shared copy", "id", id, "modified", def.DateModified())
	r.publish(pubsub.UpdatedEvent, Notice{ID: id})
	return nil
}

// shareWithGlobal copies each definition into the shared store when the
// store lacks it or holds an older version.
func (r *Repository) shareWithGlobal(defs []*writingsystem.Definition) []Problem {
	if r.global == nil {
		return nil
	}
	var problems []Problem
	for _, def := range defs {
		id := def.ID()
		if held, ok := r.global.TryGet(id); ok && !def.DateModified().After(held.DateModified()) {
			continue
		}
		if err := r.global.adopt(def); err != nil {
			p := Problem{FilePath: r.global.FilePath(id), Err: err, Consequence: NotShared}
			log.Warn(log.CatRepo, "Shared store not updated", "id", id, "error", err)
			problems = append(problems, p)
		}
	}
	return problems
}

// adopt writes a copy of def as-is, keeping its modification date.
func (r *Repository) adopt(def *writingsystem.Definition) error {
	id := def.ID()
	path := r.FilePath(id)

	var previous []byte
	if data, err := os.ReadFile(path); err == nil { //nolint:gosec // G304
		previous = data
	}
	clone := def.Clone()
	if err := r.mapper.Write(path, clone, previous); err != nil {
		return err
	}
	clone.AcceptChanges()

	if held, ok := r.defs[id]; ok {
		held.SetStoreID("")
	} else if err := r.changes.LogAdd(id); err != nil {
		return err
	}
	clone.SetStoreID(id)
	r.defs[id] = clone
	r.baseline[id] = id
	return nil
}
