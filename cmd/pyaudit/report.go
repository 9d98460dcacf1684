package main

import (
	"bytes"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/odvcencio/pyaudit/internal/report"
)

var formatLabels = map[string]string{
	"html":     "HTML",
	"markdown": "Markdown",
	"md":       "Markdown",
	"json":     "JSON",
}

func newReportCmd(globals *globalOptions) *cobra.Command {
	var output string
	var format string

	cmd := &cobra.Command{
		Use:     "report [path]",
		Aliases: []string{"report-html"},
		Short:   "Run the analyzer and write an HTML, Markdown or JSON report",
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			target := targetArg(args)
			logger := globals.logger()

			format = strings.ToLower(strings.TrimSpace(format))
			if _, ok := formatLabels[format]; !ok {
				return fmt.Errorf("unsupported report format %q (want html, markdown or json)", format)
			}

			cfg, _, err := loadConfig(globals, target)
			if err != nil {
				return err
			}

			logger.Info("starting analysis", "path", target, "workers", cfg.Workers)
			results, err := analyzeTarget(cfg, target)
			if err != nil {
				return err
			}

			var buf bytes.Buffer
			switch format {
			case "html":
				err = report.RenderHTML(&buf, results, report.HTMLOptions{
					Title:       cfg.Report.Title,
					GeneratedAt: time.Now(),
				})
			case "markdown", "md":
				buf.WriteString(report.RenderMarkdown(results, cfg.Report.Title))
			case "json":
				err = report.WriteJSON(&buf, results)
			}
			if err != nil {
				return fmt.Errorf("render %s report: %w", format, err)
			}

			path := strings.TrimSpace(output)
			if path == "" && format == "html" {
				path = cfg.Report.Output
			}
			if path == "" || path == "-" {
				if _, err := cmd.OutOrStdout().Write(buf.Bytes()); err != nil {
					return err
				}
				return invalidRoot(results)
			}

			if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
				return fmt.Errorf("write report: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s report written to: %s\n", formatLabels[format], path)
			logger.Debug("report written", "path", path, "bytes", buf.Len())
			return invalidRoot(results)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file, - for stdout (default report.output for html, stdout otherwise)")
	cmd.Flags().StringVar(&format, "format", "html", "report format: html, markdown or json")
	return cmd
}
