package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/odvcencio/pyaudit/internal/config"
	"github.com/odvcencio/pyaudit/internal/engine"
	"github.com/odvcencio/pyaudit/pkg/model"
)

func targetArg(args []string) string {
	if len(args) == 1 {
		return args[0]
	}
	return "."
}

// loadConfig resolves the configuration for target and applies the --workers override.
func loadConfig(globals *globalOptions, target string) (config.Config, string, error) {
	cfg, path, err := config.Resolve(target, globals.configPath)
	if err != nil {
		return config.Config{}, "", err
	}
	if globals.workers > 0 {
		cfg.Workers = globals.workers
	}
	return cfg, path, nil
}

// analyzeTarget runs one full analysis of target.
func analyzeTarget(cfg config.Config, target string) (*model.Results, error) {
	eng, err := engine.FromConfig(cfg, target)
	if err != nil {
		return nil, err
	}
	return eng.Run(target), nil
}

// invalidRoot converts an unusable analysis root into exit code 2.
func invalidRoot(results *model.Results) error {
	if results == nil || !results.InvalidRoot {
		return nil
	}
	return exitCodeError{code: 2, err: fmt.Errorf("invalid path: %s", results.Root)}
}

func emitJSON(w io.Writer, value any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(value)
}
