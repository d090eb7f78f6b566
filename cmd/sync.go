package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/zjrosen/wsrepo/internal/presentation"
)

var syncAdopt bool

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Find shared copies newer than the repository's",
	Long: `List writing systems whose copy in the shared store is newer than the one in
the repository. Each one listed is remembered and not offered again until the
shared copy changes. With --adopt the shared copies replace the local ones.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withSession(cmd, sessionOptions{}, func(_ context.Context, s *session) error {
			if s.global == nil {
				return errors.New("no shared store configured")
			}
			newer, err := s.repo.CheckForNewerGlobal()
			if err != nil {
				return err
			}
			if syncAdopt {
				var errs []error
				for _, def := range newer {
					if err := s.repo.UseGlobalCopy(def); err != nil {
						errs = append(errs, err)
					}
				}
				if err := errors.Join(errs...); err != nil {
					return err
				}
			}
			if len(newer) == 0 && !jsonOut {
				_, err := fmt.Fprintln(cmd.OutOrStdout(), "up to date")
				return err
			}
			return formatter(cmd).FormatDefinitions(presentation.FromDefinitions(newer))
		})
	},
}

func init() {
	syncCmd.Flags().BoolVar(&syncAdopt, "adopt", false, "replace local definitions with the newer shared copies")
	rootCmd.AddCommand(syncCmd)
}
