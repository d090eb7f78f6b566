// Package config provides configuration types, defaults, validation and
// persistence for wsrepo.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/zjrosen/wsrepo/internal/flags"
	"github.com/zjrosen/wsrepo/internal/log"
	"github.com/zjrosen/wsrepo/internal/paths"
	"github.com/zjrosen/wsrepo/internal/sldr"
	"github.com/zjrosen/wsrepo/internal/tracing"
)

// Change log backends.
const (
	BackendYAML   = "yaml"
	BackendSQLite = "sqlite"
)

// Config holds all configuration options for wsrepo.
type Config struct {
	Dir         string          `mapstructure:"dir"`
	GlobalDir   string          `mapstructure:"global_dir"`
	TemplateDir string          `mapstructure:"template_dir"`
	CacheDir    string          `mapstructure:"cache_dir"`
	LogFile     string          `mapstructure:"log_file"`
	LogLevel    string          `mapstructure:"log_level"`
	ChangeLog   ChangeLogConfig `mapstructure:"changelog"`
	Remote      sldr.Config     `mapstructure:"remote"`
	Tracing     tracing.Config  `mapstructure:"tracing"`
	Watch       WatchConfig     `mapstructure:"watch"`
	Flags       map[string]bool `mapstructure:"flags"`
}

// ChangeLogConfig selects where the change log is kept.
type ChangeLogConfig struct {
	Backend string `mapstructure:"backend"` // "yaml" (default) or "sqlite"
	// Path of the SQLite database. Default: <dir>/idchangelog.db
	Path string `mapstructure:"path"`
}

// WatchConfig tunes the watch command.
type WatchConfig struct {
	Debounce time.Duration `mapstructure:"debounce"`
}

// Defaults returns a Config with default values.
func Defaults() Config {
	tr := tracing.DefaultConfig()
	tr.FilePath = paths.DefaultTracesFile()
	return Config{
		Dir:       "",
		GlobalDir: paths.DefaultGlobalDir(),
		CacheDir:  paths.DefaultCacheDir(),
		LogLevel:  "info",
		ChangeLog: ChangeLogConfig{Backend: BackendYAML},
		Remote:    sldr.DefaultConfig(),
		Tracing:   tr,
		Watch:     WatchConfig{Debounce: 500 * time.Millisecond},
		Flags:     flags.Defaults(),
	}
}

// UseSQLite reports whether the change log lives in SQLite, either by
// configuration or by feature flag.
func (c Config) UseSQLite(f *flags.Registry) bool {
	return c.ChangeLog.Backend == BackendSQLite || f.Enabled(flags.FlagSQLiteChangeLog)
}

// Validate checks the whole configuration.
func Validate(c Config) error {
	if err := ValidateChangeLog(c.ChangeLog); err != nil {
		return err
	}
	if err := ValidateRemote(c.Remote); err != nil {
		return err
	}
	if err := ValidateTracing(c.Tracing); err != nil {
		return err
	}
	switch strings.ToLower(c.LogLevel) {
	case "", "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("log_level must be debug, info, warn or error, got %q", c.LogLevel)
	}
	if c.Watch.Debounce < 0 {
		return fmt.Errorf("watch.debounce must not be negative, got %v", c.Watch.Debounce)
	}
	return nil
}

// ValidateChangeLog checks change log configuration.
func ValidateChangeLog(c ChangeLogConfig) error {
	switch c.Backend {
	case "", BackendYAML, BackendSQLite:
	default:
		return fmt.Errorf("changelog.backend must be %q or %q, got %q", BackendYAML, BackendSQLite, c.Backend)
	}
	if c.Path != "" && !filepath.IsAbs(c.Path) {
		return fmt.Errorf("changelog.path must be an absolute path, got %q", c.Path)
	}
	return nil
}

// ValidateRemote checks the remote registry configuration.
func ValidateRemote(c sldr.Config) error {
	if c.Timeout < 0 {
		return fmt.Errorf("remote.timeout must not be negative, got %v", c.Timeout)
	}
	if c.MissTTL < 0 || c.BodyTTL < 0 {
		return fmt.Errorf("remote cache TTLs must not be negative")
	}
	return nil
}

// ValidateTracing checks tracing configuration.
func ValidateTracing(t tracing.Config) error {
	if t.SampleRate < 0.0 || t.SampleRate > 1.0 {
		return fmt.Errorf("tracing.sample_rate must be between 0.0 and 1.0, got %v", t.SampleRate)
	}

	if t.Exporter != "" {
		switch t.Exporter {
		case "none", "file", "stdout", "otlp":
		default:
			return fmt.Errorf("tracing.exporter must be \"none\", \"file\", \"stdout\", or \"otlp\", got %q", t.Exporter)
		}
	}

	if t.Enabled {
		if t.Exporter == "file" && t.FilePath == "" {
			return fmt.Errorf("tracing.file_path is required when exporter is \"file\"")
		}
		if t.Exporter == "otlp" && t.OTLPEndpoint == "" {
			return fmt.Errorf("tracing.otlp_endpoint is required when exporter is \"otlp\"")
		}
	}
	return nil
}

// DefaultConfigTemplate returns the default config as a YAML string with comments.
func DefaultConfigTemplate() string {
	return `# wsrepo configuration

# Repository folder (default: ./WritingSystems, or $WSREPO_DIR)
# dir: /path/to/project/WritingSystems

# Shared store kept in sync after every save (or $WSREPO_GLOBAL_DIR)
# global_dir: ~/.local/share/SIL/WritingSystemRepository/3

# Folder of template definitions tried last by "new" (or $WSREPO_TEMPLATE_DIR)
# template_dir: /path/to/templates

# Debug log file (or $WSREPO_DEBUG)
# log_file: /tmp/wsrepo.log
log_level: info

changelog:
  # "yaml" keeps idchangelog.yaml in the repository folder;
  # "sqlite" uses an SQLite database instead.
  backend: yaml
  # path: /abs/path/idchangelog.db

remote:
  base_url: https://ldml.api.sil.org
  timeout: 10s
  miss_ttl: 30m
  body_ttl: 10m

tracing:
  enabled: false
  exporter: file   # none, file, stdout, otlp
  # file_path: ~/.config/wsrepo/traces/traces.jsonl
  otlp_endpoint: localhost:4317
  sample_rate: 1.0

watch:
  debounce: 500ms

flags:
  remote-templates: true
  system-writing-systems: false
  sqlite-changelog: false
`
}

// WriteDefaultConfig creates a config file at configPath from the commented
// template, creating the parent directory if needed.
func WriteDefaultConfig(configPath string) error {
	log.Debug(log.CatConfig, "Writing default config", "path", configPath)

	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to create config directory", err, "dir", dir)
		return fmt.Errorf("creating config directory: %w", err)
	}

	if err := os.WriteFile(configPath, []byte(DefaultConfigTemplate()), 0o600); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to write config file", err, "path", configPath)
		return fmt.Errorf("writing config file: %w", err)
	}

	log.Info(log.CatConfig, "Created default config", "path", configPath)
	return nil
}
