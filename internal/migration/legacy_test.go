package migration

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zjrosen/wsrepo/internal/repository"
	"github.com/zjrosen/wsrepo/internal/testutil"
)

func TestLegacyFilenames_Renames(t *testing.T) {
	dir := testutil.NewBuilder(t, t.TempDir()).
		WithDefinition("qaa-Latn-US-x-kal", testutil.FileName("x-kal-Latn-US")).
		WithDefinition("en").
		Build()

	problems := LegacyFilenames{}.Migrate(context.Background(), dir)
	require.Empty(t, problems)
	require.FileExists(t, filepath.Join(dir, "qaa-Latn-US-x-kal.ldml"))
	require.NoFileExists(t, filepath.Join(dir, "x-kal-Latn-US.ldml"))
	require.FileExists(t, filepath.Join(dir, "en.ldml"))
}

func TestLegacyFilenames_CollisionIsAProblem(t *testing.T) {
	dir := testutil.NewBuilder(t, t.TempDir()).
		WithDefinition("qaa-x-kal", testutil.FileName("x-kal")).
		WithDefinition("qaa-x-kal").
		Build()

	problems := LegacyFilenames{}.Migrate(context.Background(), dir)
	require.Len(t, problems, 1)
	require.ErrorIs(t, problems[0].Err, repository.ErrDuplicateID)
	require.Equal(t, filepath.Join(dir, "x-kal.ldml"), problems[0].FilePath)
	require.FileExists(t, filepath.Join(dir, "x-kal.ldml"))
}

func TestLegacyFilenames_WithInitialize(t *testing.T) {
	dir := testutil.NewBuilder(t, t.TempDir()).
		WithDefinition("qaa-x-kal", testutil.FileName("x-kal")).
		Build()

	var reported []repository.Problem
	r, err := repository.Initialize(context.Background(), repository.Options{
		Dir:            dir,
		ProblemHandler: func(p []repository.Problem) { reported = p },
	}, LegacyFilenames{})
	require.NoError(t, err)
	require.Empty(t, reported)
	require.True(t, r.Contains("qaa-x-kal"))
}

func TestLegacyFilenames_MissingDir(t *testing.T) {
	problems := LegacyFilenames{}.Migrate(context.Background(), filepath.Join(t.TempDir(), "nope"))
	require.Len(t, problems, 1)
}
