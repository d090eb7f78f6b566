package repository

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned for identifiers the repository does not hold.
	ErrNotFound = errors.New("writing system not found")

	// ErrDuplicateID is returned when a definition would take an identifier
	// already held by a different definition.
	ErrDuplicateID = errors.New("writing system id already in use")

	// ErrParentMissing is returned by New when the folder cannot be created
	// because its parent does not exist.
	ErrParentMissing = errors.New("repository parent folder does not exist")

	// ErrNameMismatch marks a file whose name disagrees with the tag it contains.
	ErrNameMismatch = errors.New("file name does not match content")
)

// Consequence says what a Problem means for the user.
type Consequence int

const (
	// NotAvailable: the writing system could not be loaded.
	NotAvailable Consequence = iota
	// NotSaved: the writing system was not written.
	NotSaved
	// NotShared: the local save succeeded but the shared store was not updated.
	NotShared
)

func (c Consequence) String() string {
	switch c {
	case NotAvailable:
		return "not available"
	case NotSaved:
		return "not saved"
	case NotShared:
		return "not shared"
	default:
		return fmt.Sprintf("Consequence(%d)", int(c))
	}
}

// Problem is a per-file failure recorded during a load, save or migration
// pass. Problems are collected, never raised one at a time.
type Problem struct {
	FilePath    string
	Err         error
	Consequence Consequence
}

func (p Problem) Error() string {
	return fmt.Sprintf("%s (%s): %v", p.FilePath, p.Consequence, p.Err)
}

func (p Problem) Unwrap() error { return p.Err }
