package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/zjrosen/wsrepo/internal/presentation"
)

// withSession opens the configured repository, runs fn and releases
// everything the session holds.
func withSession(cmd *cobra.Command, so sessionOptions, fn func(ctx context.Context, s *session) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if so.problems == nil {
		so.problems = cmd.ErrOrStderr()
	}
	s, err := openSession(ctx, cfg, so)
	if err != nil {
		return err
	}
	defer s.close(ctx)
	return fn(ctx, s)
}

func formatter(cmd *cobra.Command) *presentation.Formatter {
	return presentation.NewFormatter(cmd.OutOrStdout(), jsonOut)
}
