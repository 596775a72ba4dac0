package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/macropower/kprof/pkg/log"
	"github.com/macropower/kprof/pkg/profile"
	"github.com/macropower/kprof/pkg/watch"
	"github.com/macropower/kprof/pkg/yaml"
)

func NewWatchCmd(ra *RootArgs) *cobra.Command {
	debounce := watch.DefaultDebounce

	cmd := &cobra.Command{
		Use:               "watch [profile]",
		Short:             "Print a resolved profile every time the profile file changes",
		Args:              cobra.MaximumNArgs(1),
		ValidArgsFunction: completeProfiles(ra, 0),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, cfg, err := ra.newResolver(cmd)
			if err != nil {
				return err
			}

			name := profileArg(args, 0, cfg)

			w, err := watch.New(r, ra.Dir, name, watch.WithDebounce(debounce))
			if err != nil {
				return fmt.Errorf("watch %s: %w", ra.Dir, err)
			}
			defer func() {
				err := w.Close()
				if err != nil {
					slog.Error("close watcher", slog.Any("err", err))
				}
			}()

			out := cmd.OutOrStdout()

			err = w.Run(cmd.Context(), func(ctx context.Context, p *profile.Profile, err error) {
				if err != nil {
					log.WithContext(ctx).ErrorContext(ctx, "resolve profile",
						slog.String("profile", name),
						slog.Any("err", err),
					)

					return
				}

				b, err := yaml.Marshal(p)
				if err != nil {
					log.WithContext(ctx).ErrorContext(ctx, "encode profile", slog.Any("err", err))
					return
				}

				err = writeYAML(out, cfg.Theme, "---\n"+string(b))
				if err != nil {
					log.WithContext(ctx).ErrorContext(ctx, "write profile", slog.Any("err", err))
				}
			})
			if err != nil {
				return fmt.Errorf("watch %s: %w", ra.Dir, err)
			}

			return nil
		},
	}

	cmd.Flags().DurationVar(&debounce, "debounce", watch.DefaultDebounce, "Delay between a file change and re-resolving")

	return cmd
}
