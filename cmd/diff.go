package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/zjrosen/wsrepo/internal/presentation"
)

var diffCmd = &cobra.Command{
	Use:   "diff <id> [file]",
	Short: "Compare a writing system file with its shared copy or another file",
	Long: `Show a line diff between the repository's file for <id> and the copy in the
shared store, or the given file.

Examples:
  wsrepo diff en
  wsrepo diff en ~/backup/en.ldml`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(cmd, sessionOptions{}, func(_ context.Context, s *session) error {
			id := args[0]
			if !s.repo.Contains(id) {
				return fmt.Errorf("no writing system %s", id)
			}
			local := s.repo.FilePath(id)

			var other string
			switch {
			case len(args) == 2:
				other = args[1]
			case s.global != nil:
				if !s.global.Contains(id) {
					return fmt.Errorf("%s is not in the shared store", id)
				}
				other = s.global.FilePath(id)
			default:
				return errors.New("no shared store configured; pass a file to compare with")
			}

			a, err := os.ReadFile(local) //nolint:gosec // G304: repository file
			if err != nil {
				return err
			}
			b, err := os.ReadFile(other) //nolint:gosec // G304: user-selected file
			if err != nil {
				return err
			}
			lines := presentation.Diff(string(a), string(b))
			if !presentation.Changed(lines) && !jsonOut {
				_, err := fmt.Fprintln(cmd.OutOrStdout(), "identical")
				return err
			}
			return formatter(cmd).FormatDiff(lines)
		})
	},
}

func init() {
	rootCmd.AddCommand(diffCmd)
}
