package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/zjrosen/wsrepo/internal/presentation"
	"github.com/zjrosen/wsrepo/internal/repository"
)

var newFlags propertyFlags

var newCmd = &cobra.Command{
	Use:   "new <id>",
	Short: "Create a writing system from the best available template",
	Long: `Create a writing system for a language tag and save it. The definition starts
from the first template found in the repository, the shared store, the remote
registry, the download cache or the template folder, in that order. Without a
template it starts empty.

Examples:
  wsrepo new en-GB
  wsrepo new qaa-x-mine --name "My Language" --abbreviation my`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(cmd, sessionOptions{}, func(ctx context.Context, s *session) error {
			def, err := s.repo.CreateNew(ctx, args[0])
			if err != nil {
				return err
			}
			if tmpl := def.Template(); tmpl != "" {
				_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "using template %s\n", tmpl)
			}
			if err := newFlags.apply(cmd.Flags(), def); err != nil {
				return err
			}
			if !s.repo.CanSet(def) {
				return fmt.Errorf("%w: %s", repository.ErrDuplicateID, def.ID())
			}
			if err := s.repo.Set(def); err != nil {
				return err
			}
			if err := s.save(cmd.ErrOrStderr()); err != nil {
				return err
			}
			return formatter(cmd).FormatDefinition(presentation.FromDefinition(def))
		})
	},
}

func init() {
	newFlags.register(newCmd.Flags(), false)
	rootCmd.AddCommand(newCmd)
}
