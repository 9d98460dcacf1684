package main

import (
	"os"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

type exitCodeError struct {
	code int
	err  error
}

func (e exitCodeError) Error() string {
	if e.err == nil {
		return "command failed"
	}
	return e.err.Error()
}

func (e exitCodeError) ExitCode() int {
	if e.code <= 0 {
		return 1
	}
	return e.code
}

func (e exitCodeError) Unwrap() error {
	return e.err
}

// globalOptions holds the persistent flags shared by every subcommand.
type globalOptions struct {
	configPath string
	verbose    bool
	workers    int
}

func (g *globalOptions) logger() *charmlog.Logger {
	logger := charmlog.NewWithOptions(os.Stderr, charmlog.Options{
		Prefix:          "pyaudit",
		ReportTimestamp: true,
		TimeFormat:      "15:04:05",
	})
	if g.verbose {
		logger.SetLevel(charmlog.DebugLevel)
	}
	return logger
}

func newRootCmd() *cobra.Command {
	globals := &globalOptions{}

	cmd := &cobra.Command{
		Use:           "pyaudit",
		Short:         "Static quality analysis for Python projects",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&globals.configPath, "config", "", "configuration file (default <path>/.pyaudit.yaml)")
	cmd.PersistentFlags().BoolVarP(&globals.verbose, "verbose", "v", false, "enable debug logging")
	cmd.PersistentFlags().IntVar(&globals.workers, "workers", 0, "number of parallel file workers (overrides config)")

	cmd.AddCommand(
		newAnalyzeCmd(globals),
		newReportCmd(globals),
		newOptimizeCmd(globals),
		newWatchCmd(globals),
	)
	return cmd
}
