package repository

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"time"

	"github.com/zjrosen/wsrepo/internal/log"
	"github.com/zjrosen/wsrepo/internal/pubsub"
	"github.com/zjrosen/wsrepo/internal/writingsystem"
)

// Save writes the repository to disk. Definitions marked for deletion are
// removed first. Unmodified definitions whose file exists are not
// rewritten. A failure on one file is recorded as a problem and the pass
// continues; the joined errors are returned at the end.
func (r *Repository) Save() error {
	r.problems = nil
	var errs []error
	fail := func(path string, err error, c Consequence) {
		r.addProblem(path, err, c)
		errs = append(errs, err)
	}

	for _, def := range r.All() {
		if !def.MarkedForDeletion() {
			continue
		}
		id := def.StoreID()
		if err := r.Remove(id); err != nil {
			fail(r.FilePath(id), err, NotSaved)
		}
	}

	saved := map[string]bool{}
	var shared []*writingsystem.Definition
	for _, def := range r.All() {
		if err := r.Set(def); err != nil {
			fail(r.FilePath(def.StoreID()), err, NotSaved)
			continue
		}
		path := r.FilePath(def.ID())
		clone, err := r.saveDefinition(def, path)
		if err != nil {
			fail(path, err, NotSaved)
			continue
		}
		saved[def.ID()] = true
		shared = append(shared, clone)
	}

	if err := r.logChanges(saved); err != nil {
		errs = append(errs, err)
	}
	for _, p := range r.shareWithGlobal(shared) {
		r.problems = append(r.problems, p)
		errs = append(errs, p)
	}

	log.Info(log.CatRepo, "Saved writing systems", "dir", r.dir, "saved", len(saved), "problems", len(r.problems))
	return errors.Join(errs...)
}

// saveDefinition writes def to path when it is modified or the file is
// missing. It returns a copy taken before the modified flag is cleared.
func (r *Repository) saveDefinition(def *writingsystem.Definition, path string) (*writingsystem.Definition, error) {
	exists := fileExists(path)
	if !exists && def.Template() != "" {
		if err := copyFile(def.Template(), path); err != nil {
			return nil, fmt.Errorf("copying template %s: %w", def.Template(), err)
		}
		def.SetTemplate("")
		exists = true
	}
	if exists && !def.Modified() {
		return def.Clone(), nil
	}

	var previous []byte
	if exists {
		data, err := os.ReadFile(path) //nolint:gosec // G304: repository-owned file
		if err != nil {
			log.Warn(log.CatRepo, "Previous content unreadable", "path", path, "error", err)
		} else {
			previous = data
		}
	}

	def.SetDateModified(r.now().UTC().Truncate(time.Second))
	if err := r.mapper.Write(path, def, previous); err != nil {
		return nil, err
	}
	for _, m := range r.custom {
		if err := m.Write(def); err != nil {
			return nil, fmt.Errorf("custom data for %s: %w", def.ID(), err)
		}
	}

	clone := def.Clone()
	def.AcceptChanges()
	log.Debug(log.CatRepo, "Wrote writing system", "id", def.ID(), "path", path)
	r.publish(pubsub.UpdatedEvent, Notice{ID: def.ID()})
	return clone, nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src) //nolint:gosec // G304: template path chosen by the resolver
	if err != nil {
		return err
	}
	defer func() { _ = in.Close() }()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644) //nolint:gosec // G304
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		_ = os.Remove(dst)
		return err
	}
	return out.Close()
}

// logChanges appends one Add or Rename per saved definition whose id
// differs from the last save.
func (r *Repository) logChanges(saved map[string]bool) error {
	ids := make([]string, 0, len(saved))
	for id := range saved {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var errs []error
	for _, id := range ids {
		base := r.baseline[id]
		var err error
		switch {
		case base == "":
			err = r.changes.LogAdd(id)
		case base != id:
			err = r.changes.LogRename(base, id)
		default:
			continue
		}
		if err != nil {
			errs = append(errs, err)
			continue
		}
		r.baseline[id] = id
	}
	return errors.Join(errs...)
}

// logPendingRename records a rename of id that has not been saved yet.
func (r *Repository) logPendingRename(id string) error {
	base := r.baseline[id]
	if base == "" || base == id {
		return nil
	}
	if err := r.changes.LogRename(base, id); err != nil {
		return err
	}
	r.baseline[id] = id
	return nil
}

// CanSave reports whether def's file could be written, by opening it or by
// creating and deleting it. It never returns an error.
func (r *Repository) CanSave(def *writingsystem.Definition) bool {
	path := r.FilePath(def.ID())
	if fileExists(path) {
		f, err := os.OpenFile(path, os.O_RDWR, 0) //nolint:gosec // G304
		if err != nil {
			log.Debug(log.CatRepo, "Cannot open for writing", "path", path, "error", err)
			return false
		}
		_ = f.Close()
		return true
	}

	if info, err := os.Stat(r.dir); err == nil && info.IsDir() {
		f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644) //nolint:gosec // G304
		if err != nil {
			log.Debug(log.CatRepo, "Cannot create", "path", path, "error", err)
			return false
		}
		_ = f.Close()
		return os.Remove(path) == nil
	}

	if err := os.MkdirAll(r.dir, 0o755); err != nil {
		log.Debug(log.CatRepo, "Cannot create folder", "dir", r.dir, "error", err)
		return false
	}
	return true
}
