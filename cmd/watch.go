package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/zjrosen/wsrepo/internal/log"
	"github.com/zjrosen/wsrepo/internal/presentation"
	"github.com/zjrosen/wsrepo/internal/pubsub"
	"github.com/zjrosen/wsrepo/internal/repository"
	"github.com/zjrosen/wsrepo/internal/watcher"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Reload the repository whenever its files change",
	Long: `Watch the repository folder and reload it after every burst of changes to
definition files, printing the repository events and any files that could not
be loaded. Stop with Ctrl-C.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		broker := pubsub.NewBroker[repository.Notice]()
		defer broker.Close()

		return withSession(cmd, sessionOptions{broker: broker}, func(ctx context.Context, s *session) error {
			ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
			defer stop()

			wcfg := watcher.DefaultConfig(s.repo.Dir())
			wcfg.Extension = repository.Extension
			if cfg.Watch.Debounce > 0 {
				wcfg.DebounceDur = cfg.Watch.Debounce
			}
			w, err := watcher.New(wcfg)
			if err != nil {
				return err
			}
			changed, err := w.Start()
			if err != nil {
				return err
			}
			defer func() { _ = w.Stop() }()

			events := broker.Subscribe(ctx)
			f := formatter(cmd)
			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(out, "watching %s\n", s.repo.Dir())

			for {
				select {
				case <-ctx.Done():
					return nil
				case <-changed:
					if err := s.repo.LoadAll(); err != nil {
						log.ErrorErr(log.CatWatcher, "Reload failed", err)
						continue
					}
					if problems := s.repo.Problems(); len(problems) > 0 {
						_ = f.FormatProblems(presentation.FromProblems(problems))
					}
				case ev, ok := <-events:
					if !ok {
						return nil
					}
					if jsonOut {
						_ = f.FormatResult(map[string]any{"type": ev.Type, "id": ev.Payload.ID, "previous": ev.Payload.Previous})
						continue
					}
					_, _ = fmt.Fprintf(out, "%s %s (%d writing systems)\n", ev.Type, ev.Payload.ID, s.repo.Count())
				}
			}
		})
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
}
