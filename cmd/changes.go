package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/zjrosen/wsrepo/internal/presentation"
)

var changesCmd = &cobra.Command{
	Use:   "changes [id]",
	Short: "Show the identifier change log",
	Long: `Without arguments, print every entry of the change log oldest first.
With an identifier, print what that identifier refers to now.

Examples:
  wsrepo changes
  wsrepo changes de        # prints "de -> de-CH" after a rename`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(cmd, sessionOptions{}, func(_ context.Context, s *session) error {
			if len(args) == 0 {
				return formatter(cmd).FormatChanges(presentation.FromChanges(s.repo.Changes()))
			}
			id := args[0]
			current, alive := s.repo.WritingSystemIDHasChangedTo(id)
			result := struct {
				ID      string `json:"id"`
				Current string `json:"current,omitempty"`
				Deleted bool   `json:"deleted"`
				Changed bool   `json:"changed"`
			}{ID: id, Deleted: !alive, Changed: s.repo.WritingSystemIDHasChanged(id)}
			if alive {
				result.Current = current
			}
			if jsonOut {
				return formatter(cmd).FormatResult(result)
			}
			switch {
			case !alive:
				_, err := fmt.Fprintf(cmd.OutOrStdout(), "%s (deleted)\n", id)
				return err
			default:
				_, err := fmt.Fprintf(cmd.OutOrStdout(), "%s -> %s\n", id, current)
				return err
			}
		})
	},
}

func init() {
	rootCmd.AddCommand(changesCmd)
}
