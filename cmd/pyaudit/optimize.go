package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/odvcencio/pyaudit/internal/optimize"
)

func newOptimizeCmd(globals *globalOptions) *cobra.Command {
	var inPlace bool
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "optimize [path]",
		Short: "Clean imports, unused variables and formatting with external tools",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			target := targetArg(args)
			logger := globals.logger()

			if _, err := os.Stat(target); err != nil {
				return exitCodeError{code: 2, err: fmt.Errorf("invalid path: %s", target)}
			}

			cfg, _, err := loadConfig(globals, target)
			if err != nil {
				return err
			}

			optimizer := optimize.New(optimize.Options{
				Tools:   cfg.Optimize.Tools,
				InPlace: inPlace,
				Logger:  logger,
			})
			summary, err := optimizer.Run(cmd.Context(), target)
			if err != nil {
				if optimize.IsMissingTools(err) {
					logger.Error("install the missing tools, e.g. pip install autoflake isort black")
				}
				return err
			}

			if jsonOutput {
				if err := emitJSON(cmd.OutOrStdout(), summary); err != nil {
					return err
				}
			} else {
				for _, file := range summary.Files {
					if file.Error != "" {
						fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", file.Path, file.Error)
						continue
					}
					fmt.Fprintf(cmd.OutOrStdout(), "%s -> %s\n", file.Path, file.Target)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "optimize: files=%d optimized=%d failed=%d\n", len(summary.Files), summary.Optimized, summary.Failed)
			}

			if summary.Failed > 0 {
				return fmt.Errorf("%d files failed to optimize", summary.Failed)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&inPlace, "inplace", false, "modify files in place instead of writing *_optimized.py copies")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "emit the optimization summary as JSON")
	return cmd
}
