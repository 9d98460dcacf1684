package main

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/odvcencio/pyaudit/internal/config"
	"github.com/odvcencio/pyaudit/internal/ignore"
	"github.com/odvcencio/pyaudit/internal/report"
	"github.com/odvcencio/pyaudit/internal/watch"
)

func newWatchCmd(globals *globalOptions) *cobra.Command {
	var interval time.Duration

	cmd := &cobra.Command{
		Use:   "watch [path]",
		Short: "Re-run the analysis whenever Python sources change",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			target := targetArg(args)
			logger := globals.logger()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			cfg, _, err := loadConfig(globals, target)
			if err != nil {
				return err
			}
			matcher, err := cfg.Matcher(target)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			styled := report.IsTerminal(out)
			rerun := func() {
				// Configuration edits take effect on the next run.
				current, _, err := loadConfig(globals, target)
				if err != nil {
					logger.Error("reload config", "err", err)
					current = cfg
				}
				results, err := analyzeTarget(current, target)
				if err != nil {
					logger.Error("analysis failed", "err", err)
					return
				}
				if err := report.WriteText(out, results, report.TextOptions{Styled: styled}); err != nil {
					logger.Error("write summary", "err", err)
				}
			}

			rerun()
			logger.Info("watching for changes", "path", target, "interval", interval)
			err = watch.Watch(ctx, target, watch.Options{
				Debounce:   interval,
				Extensions: cfg.Extensions,
				Extra:      []string{config.FileName, config.EnvFile, ignore.FileName},
				Ignore:     matcher,
				Logger:     logger,
			}, func(changed []string) {
				logger.Info("change detected", "files", len(changed))
				rerun()
			})
			if ctx.Err() != nil {
				return nil
			}
			return err
		},
	}

	cmd.Flags().DurationVar(&interval, "interval", watch.DefaultDebounce, "quiet period before a batch of changes triggers a run")
	return cmd
}
