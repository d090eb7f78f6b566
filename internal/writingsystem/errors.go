package writingsystem

import "errors"

var (
	// ErrInvalidTag is returned by any mutator whose value would break tag composition.
	// The definition is left exactly as it was before the call.
	ErrInvalidTag = errors.New("invalid tag")
	// ErrInvalidSortRules is returned by ValidateSortRules.
	ErrInvalidSortRules = errors.New("invalid sort rules")
)
