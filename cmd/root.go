// Package cmd implements the wsrepo command line.
package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/zjrosen/wsrepo/internal/config"
	"github.com/zjrosen/wsrepo/internal/log"
	"github.com/zjrosen/wsrepo/internal/paths"
)

var (
	version   = "dev"
	cfgFile   string
	cfg       config.Config
	jsonOut   bool
	verbose   bool
	noGlobal  bool
	logCloser func()
)

var rootCmd = &cobra.Command{
	Use:   "wsrepo",
	Short: "Manage a folder of writing system definitions",
	Long: `wsrepo keeps a folder of LDML writing system definitions, one file per
language tag, together with a change log of every identifier added, renamed,
merged or removed. Saved definitions are shared with a per-user global store.`,
	Version:           version,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	PersistentPostRun: func(*cobra.Command, []string) {
		if logCloser != nil {
			logCloser()
		}
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&cfgFile, "config", "c", "",
		"config file (default: ./.wsrepo/config.yaml, then ~/.config/wsrepo/config.yaml)")
	pf.StringP("dir", "d", "", "repository folder (default: ./WritingSystems)")
	pf.String("global-dir", "", "shared store kept in sync after each save")
	pf.String("template-dir", "", "folder of template definitions")
	pf.BoolVar(&noGlobal, "no-global", false, "do not use the shared store")
	pf.BoolVar(&jsonOut, "json", false, "write JSON instead of text")
	pf.BoolVarP(&verbose, "verbose", "v", false, "log to stderr")

	_ = viper.BindPFlag("dir", pf.Lookup("dir"))
	_ = viper.BindPFlag("global_dir", pf.Lookup("global-dir"))
	_ = viper.BindPFlag("template_dir", pf.Lookup("template-dir"))
}

func initConfig() {
	defaults := config.Defaults()
	viper.SetDefault("global_dir", defaults.GlobalDir)
	viper.SetDefault("cache_dir", defaults.CacheDir)
	viper.SetDefault("log_level", defaults.LogLevel)
	viper.SetDefault("changelog.backend", defaults.ChangeLog.Backend)
	viper.SetDefault("remote.base_url", defaults.Remote.BaseURL)
	viper.SetDefault("remote.timeout", defaults.Remote.Timeout)
	viper.SetDefault("remote.miss_ttl", defaults.Remote.MissTTL)
	viper.SetDefault("remote.body_ttl", defaults.Remote.BodyTTL)
	viper.SetDefault("tracing.enabled", defaults.Tracing.Enabled)
	viper.SetDefault("tracing.exporter", defaults.Tracing.Exporter)
	viper.SetDefault("tracing.file_path", defaults.Tracing.FilePath)
	viper.SetDefault("tracing.otlp_endpoint", defaults.Tracing.OTLPEndpoint)
	viper.SetDefault("tracing.sample_rate", defaults.Tracing.SampleRate)
	viper.SetDefault("tracing.service_name", defaults.Tracing.ServiceName)
	viper.SetDefault("watch.debounce", defaults.Watch.Debounce)
	viper.SetDefault("flags", defaults.Flags)

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		// Config lookup order:
		// 1. .wsrepo/config.yaml (current directory)
		// 2. ~/.config/wsrepo/config.yaml (user config)
		if _, err := os.Stat(localConfigPath); err == nil {
			viper.SetConfigFile(localConfigPath)
		} else if dir := paths.DefaultConfigDir(); dir != "" {
			viper.AddConfigPath(dir)
			viper.SetConfigName("config")
			viper.SetConfigType("yaml")
		}
	}

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			if path := userConfigPath(); path != "" {
				if writeErr := config.WriteDefaultConfig(path); writeErr == nil {
					viper.SetConfigFile(path)
					_ = viper.ReadInConfig()
				}
			}
		}
		// Otherwise continue with defaults.
	}

	_ = viper.Unmarshal(&cfg)
}

const localConfigPath = ".wsrepo/config.yaml"

func userConfigPath() string {
	dir := paths.DefaultConfigDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "config.yaml")
}

// configPath is the file "config set" edits.
func configPath() string {
	if used := viper.ConfigFileUsed(); used != "" {
		return used
	}
	if path := userConfigPath(); path != "" {
		return path
	}
	return localConfigPath
}

func setup(cmd *cobra.Command, _ []string) error {
	overrides, err := config.ParseEnv()
	if err != nil {
		return err
	}
	overrides.Apply(&cfg)
	// Flags beat the environment.
	for flag, target := range map[string]*string{
		"dir":          &cfg.Dir,
		"global-dir":   &cfg.GlobalDir,
		"template-dir": &cfg.TemplateDir,
	} {
		if f := cmd.Flags().Lookup(flag); f != nil && f.Changed {
			*target = f.Value.String()
		}
	}
	if noGlobal {
		cfg.GlobalDir = ""
	}

	if err := config.Validate(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	switch {
	case cfg.LogFile != "":
		closer, err := log.Init(cfg.LogFile)
		if err != nil {
			return fmt.Errorf("opening log file: %w", err)
		}
		logCloser = closer
		log.SetMinLevel(log.ParseLevel(cfg.LogLevel))
	case verbose:
		log.InitWriter(os.Stderr, log.ParseLevel(cfg.LogLevel))
	default:
		log.SetEnabled(false)
	}
	log.Debug(log.CatConfig, "Configuration loaded", "file", viper.ConfigFileUsed(), "dir", cfg.Dir)
	return nil
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// SetVersion sets the version string (called from main with ldflags)
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}
