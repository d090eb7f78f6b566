package repository

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/zjrosen/wsrepo/internal/log"
	"github.com/zjrosen/wsrepo/internal/pubsub"
)

// Remove moves the definition stored under id into the trash folder and
// logs a delete. A definition that was never written is written first so
// that the trash copy keeps a system writing system from coming back.
func (r *Repository) Remove(id string) error {
	if err := r.remove(id); err != nil {
		return err
	}
	if err := r.changes.LogDelete(id); err != nil {
		return err
	}
	r.publish(pubsub.DeletedEvent, Notice{ID: id})
	return nil
}

// Conflate merges from into to: from is trashed and a conflate entry is
// logged in place of a delete.
func (r *Repository) Conflate(from, to string) error {
	if from == to {
		return fmt.Errorf("cannot conflate %s with itself", from)
	}
	if !r.Contains(to) {
		return fmt.Errorf("%w: %s", ErrNotFound, to)
	}
	if err := r.remove(from); err != nil {
		return err
	}
	if err := r.changes.LogConflate(from, to); err != nil {
		return err
	}
	r.publish(pubsub.ConflatedEvent, Notice{ID: to, Previous: from})
	return nil
}

func (r *Repository) remove(id string) error {
	def, ok := r.defs[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err := r.logPendingRename(id); err != nil {
		return err
	}

	path := r.FilePath(id)
	if !fileExists(path) {
		if _, err := r.saveDefinition(def, path); err != nil {
			return fmt.Errorf("writing %s before trashing: %w", id, err)
		}
	}
	if err := r.moveToTrash(id); err != nil {
		return err
	}

	for _, m := range r.custom {
		if err := m.Remove(id); err != nil {
			log.Warn(log.CatRepo, "Custom data not removed", "id", id, "error", err)
		}
	}

	delete(r.defs, id)
	delete(r.baseline, id)
	if _, ok := r.ignore[id]; ok {
		delete(r.ignore, id)
		if err := r.writeIgnoreList(); err != nil {
			return err
		}
	}
	log.Debug(log.CatRepo, "Removed writing system", "id", id)
	return nil
}

func (r *Repository) moveToTrash(id string) error {
	if err := os.MkdirAll(filepath.Join(r.dir, trashDir), 0o755); err != nil {
		return fmt.Errorf("creating trash: %w", err)
	}
	dest := r.trashPath(id)
	if err := os.Remove(dest); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("clearing stale trash entry: %w", err)
	}
	if err := os.Rename(r.FilePath(id), dest); err != nil {
		return fmt.Errorf("trashing %s: %w", id, err)
	}
	return nil
}
