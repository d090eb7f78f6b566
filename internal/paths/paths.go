// Package paths resolves the default folders used by wsrepo.
package paths

import (
	"os"
	"path/filepath"
	"strings"
)

// RedirectFile, when present in a repository folder, names the folder to use
// instead, relative to the one containing it.
const RedirectFile = "redirect"

// ResolveRepoDir normalizes path and follows a redirect file if present.
//
//   - "" -> "./WritingSystems"
//   - "/path/project" -> "/path/project"
//   - "/path/project" containing redirect "../shared" -> "/path/shared"
func ResolveRepoDir(path string) string {
	if path == "" {
		path = "WritingSystems"
	}
	return followRedirect(filepath.Clean(path))
}

func followRedirect(dir string) string {
	content, err := os.ReadFile(filepath.Join(dir, RedirectFile)) //nolint:gosec // redirect lives inside the repository folder
	if err != nil {
		return dir
	}
	target := strings.TrimSpace(string(content))
	if target == "" {
		return dir
	}
	if filepath.IsAbs(target) {
		return filepath.Clean(target)
	}
	return filepath.Clean(filepath.Join(dir, target))
}

// DataHome returns $XDG_DATA_HOME or ~/.local/share.
func DataHome() string {
	if d := os.Getenv("XDG_DATA_HOME"); d != "" {
		return d
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".local", "share")
}

// DefaultGlobalDir is the machine-wide shared store of the current user.
func DefaultGlobalDir() string {
	base := DataHome()
	if base == "" {
		return ""
	}
	return filepath.Join(base, "SIL", "WritingSystemRepository", "3")
}

// DefaultCacheDir is where downloaded templates are kept.
func DefaultCacheDir() string {
	base, err := os.UserCacheDir()
	if err != nil {
		base = os.TempDir()
	}
	return filepath.Join(base, "wsrepo", "SldrCache")
}

// DefaultConfigDir is ~/.config/wsrepo, or empty without a home directory.
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "wsrepo")
}

// DefaultTracesFile is the trace export file under the config directory.
func DefaultTracesFile() string {
	dir := DefaultConfigDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "traces", "traces.jsonl")
}
