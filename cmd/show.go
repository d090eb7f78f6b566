package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/zjrosen/wsrepo/internal/presentation"
	"github.com/zjrosen/wsrepo/internal/repository"
)

var showCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one writing system",
	Long: `Show every property of a writing system. An identifier that has since been
renamed or merged is followed through the change log.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(cmd, sessionOptions{}, func(_ context.Context, s *session) error {
			id := args[0]
			def, err := s.repo.Get(id)
			if errors.Is(err, repository.ErrNotFound) {
				current, alive := s.repo.WritingSystemIDHasChangedTo(id)
				if !alive {
					return fmt.Errorf("%s was deleted", id)
				}
				if current == id {
					return err
				}
				_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "%s is now %s\n", id, current)
				def, err = s.repo.Get(current)
			}
			if err != nil {
				return err
			}
			return formatter(cmd).FormatDefinition(presentation.FromDefinition(def))
		})
	},
}

func init() {
	rootCmd.AddCommand(showCmd)
}
