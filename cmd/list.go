package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/zjrosen/wsrepo/internal/presentation"
)

var listProblems bool

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the writing systems in the repository",
	Long: `List every writing system in the repository folder, sorted by identifier.
Definitions with unsaved changes are marked with "*".

Examples:
  wsrepo list
  wsrepo list --problems
  wsrepo list --json | jq '.[].id'`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withSession(cmd, sessionOptions{}, func(_ context.Context, s *session) error {
			f := formatter(cmd)
			if err := f.FormatDefinitions(presentation.FromDefinitions(s.repo.All())); err != nil {
				return err
			}
			if listProblems {
				return f.FormatProblems(presentation.FromProblems(s.repo.Problems()))
			}
			return nil
		})
	},
}

func init() {
	listCmd.Flags().BoolVar(&listProblems, "problems", false, "also list files that could not be loaded")
	rootCmd.AddCommand(listCmd)
}
