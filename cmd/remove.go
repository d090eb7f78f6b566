package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var removeCmd = &cobra.Command{
	Use:   "remove <id>...",
	Short: "Move writing systems to the trash",
	Long: `Remove writing systems. Their files are moved to the trash folder inside the
repository and each removal is recorded in the change log.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(cmd, sessionOptions{}, func(_ context.Context, s *session) error {
			var errs []error
			for _, id := range args {
				if err := s.repo.Remove(id); err != nil {
					errs = append(errs, err)
					continue
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "removed %s\n", id)
			}
			return errors.Join(errs...)
		})
	},
}

var conflateCmd = &cobra.Command{
	Use:   "conflate <from> <to>",
	Short: "Merge one writing system into another",
	Long: `Merge <from> into <to>. The definition of <from> is moved to the trash and
the change log records that references to <from> now mean <to>.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(cmd, sessionOptions{}, func(_ context.Context, s *session) error {
			if err := s.repo.Conflate(args[0], args[1]); err != nil {
				return err
			}
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "%s merged into %s\n", args[0], args[1])
			return err
		})
	},
}

var canSaveCmd = &cobra.Command{
	Use:   "can-save <id>",
	Short: "Check whether a writing system's file is writable",
	Long: `Report whether the file for <id> could be written. Exits with an error when
it could not.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(cmd, sessionOptions{}, func(ctx context.Context, s *session) error {
			def, ok := s.repo.TryGet(args[0])
			if !ok {
				var err error
				def, err = s.repo.CreateNew(ctx, args[0])
				if err != nil {
					return err
				}
			}
			ok = s.repo.CanSave(def)
			if jsonOut {
				if err := formatter(cmd).FormatResult(map[string]any{"id": def.ID(), "can_save": ok}); err != nil {
					return err
				}
			} else {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s: %t\n", s.repo.FilePath(def.ID()), ok)
			}
			if !ok {
				return fmt.Errorf("cannot write %s", s.repo.FilePath(def.ID()))
			}
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(removeCmd, conflateCmd, canSaveCmd)
}
