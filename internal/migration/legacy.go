// Package migration upgrades a repository folder before it is first loaded.
package migration

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/zjrosen/wsrepo/internal/log"
	"github.com/zjrosen/wsrepo/internal/repository"
	"github.com/zjrosen/wsrepo/internal/writingsystem"
)

// LegacyFilenames renames files that use the old private-use naming
// ("x-kal-Latn-US.ldml") to the current form ("qaa-Latn-US-x-kal.ldml").
// A rename that would overwrite an existing file is left undone and
// reported as a problem.
type LegacyFilenames struct{}

var _ repository.Migrator = LegacyFilenames{}

func (LegacyFilenames) Migrate(ctx context.Context, dir string) []repository.Problem {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return []repository.Problem{{FilePath: dir, Err: err, Consequence: repository.NotAvailable}}
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() && filepath.Ext(e.Name()) == repository.Extension {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	var problems []repository.Problem
	for _, name := range names {
		if ctx.Err() != nil {
			break
		}
		stem := strings.TrimSuffix(name, repository.Extension)
		converted, ok := writingsystem.ConvertLegacyPrivateUse(stem)
		if !ok || converted == stem {
			continue
		}

		src := filepath.Join(dir, name)
		dst := filepath.Join(dir, converted+repository.Extension)
		if _, err := os.Stat(dst); err == nil {
			problems = append(problems, repository.Problem{
				FilePath:    src,
				Err:         fmt.Errorf("%w: %s already exists", repository.ErrDuplicateID, filepath.Base(dst)),
				Consequence: repository.NotAvailable,
			})
			continue
		}
		if err := os.Rename(src, dst); err != nil {
			problems = append(problems, repository.Problem{FilePath: src, Err: err, Consequence: repository.NotAvailable})
			continue
		}
		log.Info(log.CatMigrate, "Renamed legacy file", "from", name, "to", filepath.Base(dst))
	}
	return problems
}
