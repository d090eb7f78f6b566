// Package changelog is the append-only journal of identifier changes made by
// the repository: additions, renames, deletions and merges. Stale identifiers
// are redirected by replaying the journal with Resolve.
package changelog

import (
	"time"
)

// Type identifies the kind of change an entry records.
type Type string

const (
	TypeAdd      Type = "add"
	TypeRename   Type = "rename"
	TypeDelete   Type = "delete"
	TypeConflate Type = "conflate"
)

// Valid reports whether t is a known entry type.
func (t Type) Valid() bool {
	switch t {
	case TypeAdd, TypeRename, TypeDelete, TypeConflate:
		return true
	}
	return false
}

// Entry is one immutable journal record.
//
// Add sets To; Delete sets From; Rename and Conflate set both.
type Entry struct {
	ID   string    `yaml:"id"`
	Type Type      `yaml:"type"`
	From string    `yaml:"from,omitempty"`
	To   string    `yaml:"to,omitempty"`
	Time time.Time `yaml:"time"`
}

// Resolve replays entries in order and reports what id has become. The
// second result is false when the chain ends in a delete that no later add
// revived. An id that never appears resolves to itself.
func Resolve(entries []Entry, id string) (string, bool) {
	current, alive := id, true
	for _, e := range entries {
		switch e.Type {
		case TypeAdd:
			if !alive && e.To == current {
				alive = true
			}
		case TypeRename, TypeConflate:
			if alive && e.From == current {
				current = e.To
			}
		case TypeDelete:
			if alive && e.From == current {
				alive = false
			}
		}
	}
	return current, alive
}

// HasChange reports whether any rename, delete or conflate names id as its source.
func HasChange(entries []Entry, id string) bool {
	for _, e := range entries {
		if e.Type != TypeAdd && e.From == id {
			return true
		}
	}
	return false
}
