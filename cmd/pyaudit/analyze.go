package main

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/odvcencio/pyaudit/internal/report"
)

func newAnalyzeCmd(globals *globalOptions) *cobra.Command {
	var jsonOutput bool
	var markdownOutput bool

	cmd := &cobra.Command{
		Use:   "analyze [path]",
		Short: "Analyze Python code quality and structure",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if jsonOutput && markdownOutput {
				return errors.New("--json and --markdown are mutually exclusive")
			}
			target := targetArg(args)
			logger := globals.logger()

			cfg, cfgPath, err := loadConfig(globals, target)
			if err != nil {
				return err
			}
			if cfgPath != "" {
				logger.Debug("loaded config", "path", cfgPath)
			}

			logger.Info("starting analysis", "path", target, "workers", cfg.Workers)
			results, err := analyzeTarget(cfg, target)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			switch {
			case jsonOutput:
				err = report.WriteJSON(out, results)
			case markdownOutput:
				err = report.WriteMarkdown(out, report.RenderMarkdown(results, cfg.Report.Title))
			default:
				err = report.WriteText(out, results, report.TextOptions{Styled: report.IsTerminal(out)})
			}
			if err != nil {
				return err
			}
			logger.Debug("analysis finished", "files", results.FileCount(), "findings", results.FindingCount())
			return invalidRoot(results)
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "emit the results as JSON")
	cmd.Flags().BoolVar(&markdownOutput, "markdown", false, "emit the results as Markdown")
	return cmd
}
