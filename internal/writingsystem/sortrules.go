package writingsystem

import (
	"fmt"
	"strings"
)

// SortRulesType selects how SortRules is interpreted.
type SortRulesType int

const (
	DefaultOrdering SortRulesType = iota
	CustomSimple
	CustomICU
	OtherLanguage
)

var sortRulesTypeNames = map[SortRulesType]string{
	DefaultOrdering: "DefaultOrdering",
	CustomSimple:    "CustomSimple",
	CustomICU:       "CustomICU",
	OtherLanguage:   "OtherLanguage",
}

func (t SortRulesType) String() string {
	if name, ok := sortRulesTypeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("SortRulesType(%d)", int(t))
}

// ParseSortRulesType is the inverse of String. Matching ignores case.
func ParseSortRulesType(s string) (SortRulesType, error) {
	for t, name := range sortRulesTypeNames {
		if strings.EqualFold(name, s) {
			return t, nil
		}
	}
	return DefaultOrdering, fmt.Errorf("unknown sort rules type %q", s)
}

// ValidateSortRules checks that the rules fit the ordering kind.
func (d *Definition) ValidateSortRules() error {
	switch d.sortUsing {
	case DefaultOrdering:
		if d.sortRules != "" {
			return fmt.Errorf("%w: default ordering takes no rules", ErrInvalidSortRules)
		}
	case OtherLanguage:
		if strings.TrimSpace(d.sortRules) == "" {
			return fmt.Errorf("%w: other-language ordering needs a language tag", ErrInvalidSortRules)
		}
	case CustomSimple, CustomICU:
	default:
		return fmt.Errorf("%w: unknown ordering %s", ErrInvalidSortRules, d.sortUsing)
	}
	return nil
}
