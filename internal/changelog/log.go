package changelog

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/zjrosen/wsrepo/internal/log"
)

// Store persists journal entries.
type Store interface {
	Load() ([]Entry, error)
	Append(Entry) error
}

// Log is the in-memory view of a journal backed by a Store.
type Log struct {
	store   Store
	entries []Entry
	now     func() time.Time
}

// Open loads the existing journal from store.
func Open(store Store) (*Log, error) {
	entries, err := store.Load()
	if err != nil {
		return nil, fmt.Errorf("loading change log: %w", err)
	}
	return &Log{store: store, entries: entries, now: time.Now}, nil
}

func (l *Log) LogAdd(id string) error {
	return l.append(Entry{Type: TypeAdd, To: id})
}

func (l *Log) LogRename(from, to string) error {
	return l.append(Entry{Type: TypeRename, From: from, To: to})
}

func (l *Log) LogDelete(id string) error {
	return l.append(Entry{Type: TypeDelete, From: id})
}

func (l *Log) LogConflate(from, to string) error {
	return l.append(Entry{Type: TypeConflate, From: from, To: to})
}

func (l *Log) append(e Entry) error {
	e.ID = uuid.NewString()
	e.Time = l.now().UTC()
	if err := l.store.Append(e); err != nil {
		return fmt.Errorf("appending %s entry: %w", e.Type, err)
	}
	l.entries = append(l.entries, e)
	log.Debug(log.CatChangeLog, "Appended change", "type", e.Type, "from", e.From, "to", e.To)
	return nil
}

// HasChangeFor reports whether id was renamed, deleted or conflated.
func (l *Log) HasChangeFor(id string) bool {
	return HasChange(l.entries, id)
}

// GetChangeFor returns what id maps to now. The second result is false when
// id was deleted.
func (l *Log) GetChangeFor(id string) (string, bool) {
	return Resolve(l.entries, id)
}

// Entries returns a copy of the journal in append order.
func (l *Log) Entries() []Entry {
	out := make([]Entry, len(l.entries))
	copy(out, l.entries)
	return out
}
