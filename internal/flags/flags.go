// Package flags provides read-only feature flags loaded from configuration.
// Unknown flags fall back to their default, or false.
package flags

import (
	"maps"

	"github.com/zjrosen/wsrepo/internal/log"
)

const (
	// FlagRemoteTemplates lets CreateNew download templates from the remote registry.
	FlagRemoteTemplates = "remote-templates"

	// FlagSystemWritingSystems adds writing systems derived from the locale
	// environment to every load.
	FlagSystemWritingSystems = "system-writing-systems"

	// FlagSQLiteChangeLog keeps the change log in SQLite instead of YAML.
	FlagSQLiteChangeLog = "sqlite-changelog"
)

// Defaults returns the value of each known flag when configuration omits it.
func Defaults() map[string]bool {
	return map[string]bool{
		FlagRemoteTemplates:      true,
		FlagSystemWritingSystems: false,
		FlagSQLiteChangeLog:      false,
	}
}

// Registry holds feature flag state.
type Registry struct {
	flags map[string]bool
}

// New creates a Registry from configured values layered over Defaults.
func New(configured map[string]bool) *Registry {
	merged := Defaults()
	maps.Copy(merged, configured)
	r := &Registry{flags: merged}
	log.Debug(log.CatConfig, "Feature flags initialized", "count", len(merged), "flags", r.All())
	return r
}

// Enabled returns whether name is on. Unknown flags and a nil registry
// report false.
func (r *Registry) Enabled(name string) bool {
	if r == nil || r.flags == nil {
		return false
	}
	value, exists := r.flags[name]
	if !exists {
		log.Debug(log.CatConfig, "Unknown flag accessed", "flag", name)
		return false
	}
	return value
}

// All returns a copy of all flags.
func (r *Registry) All() map[string]bool {
	if r == nil || r.flags == nil {
		return make(map[string]bool)
	}
	result := make(map[string]bool, len(r.flags))
	maps.Copy(result, r.flags)
	return result
}
