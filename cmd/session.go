package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/zjrosen/wsrepo/internal/config"
	"github.com/zjrosen/wsrepo/internal/flags"
	"github.com/zjrosen/wsrepo/internal/infrastructure/sqlite"
	"github.com/zjrosen/wsrepo/internal/log"
	"github.com/zjrosen/wsrepo/internal/migration"
	"github.com/zjrosen/wsrepo/internal/paths"
	"github.com/zjrosen/wsrepo/internal/presentation"
	"github.com/zjrosen/wsrepo/internal/pubsub"
	"github.com/zjrosen/wsrepo/internal/repository"
	"github.com/zjrosen/wsrepo/internal/sldr"
	"github.com/zjrosen/wsrepo/internal/systemws"
	"github.com/zjrosen/wsrepo/internal/tracing"
)

// session is one opened repository and everything it depends on.
type session struct {
	repo    *repository.Repository
	global  *repository.Repository
	broker  *pubsub.Broker[repository.Notice]
	tracing *tracing.Provider
	db      *sqlite.DB
	flags   *flags.Registry
}

// sessionOptions adjusts openSession for commands that need more than the
// defaults.
type sessionOptions struct {
	broker   *pubsub.Broker[repository.Notice]
	problems io.Writer
}

func openSession(ctx context.Context, c config.Config, so sessionOptions) (*session, error) {
	s := &session{flags: flags.New(c.Flags), broker: so.broker}

	tp, err := tracing.NewProvider(c.Tracing)
	if err != nil {
		return nil, fmt.Errorf("starting tracing: %w", err)
	}
	s.tracing = tp

	dir := paths.ResolveRepoDir(c.Dir)
	opts := repository.Options{
		Dir:         dir,
		Broker:      so.broker,
		Tracer:      tp.Tracer(),
		CacheDir:    c.CacheDir,
		TemplateDir: c.TemplateDir,
	}

	if c.GlobalDir != "" {
		global, err := openGlobal(c.GlobalDir, tp)
		if err != nil {
			log.Warn(log.CatRepo, "Shared store unavailable", "dir", c.GlobalDir, "error", err)
		} else {
			s.global = global
			opts.Global = global
		}
	}

	if c.UseSQLite(s.flags) {
		path := c.ChangeLog.Path
		if path == "" {
			path = filepath.Join(dir, sqlite.FileName)
		}
		db, err := sqlite.NewDB(path)
		if err != nil {
			s.close(ctx)
			return nil, fmt.Errorf("opening change log database: %w", err)
		}
		s.db = db
		opts.ChangeLog = db.ChangeLogStore()
	}

	if s.flags.Enabled(flags.FlagRemoteTemplates) {
		opts.Fetcher = sldr.NewClient(c.Remote, sldr.WithTracer(tp.Tracer()))
	}

	if so.problems != nil {
		out := so.problems
		opts.ProblemHandler = func(problems []repository.Problem) {
			_ = presentation.NewFormatter(out, false).FormatProblems(presentation.FromProblems(problems))
		}
	}

	repo, err := repository.Initialize(ctx, opts, migration.LegacyFilenames{})
	if err != nil {
		s.close(ctx)
		return nil, err
	}
	if s.flags.Enabled(flags.FlagSystemWritingSystems) {
		repo.SetSystemProvider(systemws.New())
	}
	s.repo = repo
	log.Debug(log.CatRepo, "Session opened", "dir", dir, "count", repo.Count(),
		"global", c.GlobalDir, "sqlite", s.db != nil, "templates", repo.TemplateProviders())
	return s, nil
}

// openGlobal opens the shared store, creating its folder when missing.
func openGlobal(dir string, tp *tracing.Provider) (*repository.Repository, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, err
	}
	return repository.New(repository.Options{Dir: dir, Tracer: tp.Tracer()})
}

func (s *session) close(ctx context.Context) {
	if s.db != nil {
		if err := s.db.Close(); err != nil {
			log.ErrorErr(log.CatChangeLog, "Closing change log database failed", err)
		}
	}
	if s.tracing != nil {
		shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := s.tracing.Shutdown(shutdownCtx); err != nil && !errors.Is(err, context.Canceled) {
			log.ErrorErr(log.CatConfig, "Flushing traces failed", err)
		}
	}
}

// save writes the repository and prints any per-file problems to stderr.
func (s *session) save(stderr io.Writer) error {
	err := s.repo.Save()
	if problems := s.repo.Problems(); len(problems) > 0 {
		_ = presentation.NewFormatter(stderr, false).FormatProblems(presentation.FromProblems(problems))
	}
	return err
}
