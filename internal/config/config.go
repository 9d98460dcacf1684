// Package config loads .pyaudit.yaml: discovery extensions, exclusions, worker count, rule
// thresholds and collaborator settings.
package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/odvcencio/pyaudit/internal/ignore"
	"github.com/odvcencio/pyaudit/internal/rules"
)

// FileName is the configuration file looked up at the analysed root.
const FileName = ".pyaudit.yaml"

// WorkersEnv overrides the configured worker count when set to a positive integer.
const WorkersEnv = "PYAUDIT_WORKERS"

// EnvFile at the analysed root may also set WorkersEnv; the process environment wins.
const EnvFile = ".env"

type Config struct {
	Extensions []string   `yaml:"extensions"`
	Exclude    []string   `yaml:"exclude"`
	Workers    int        `yaml:"workers"`
	Thresholds Thresholds `yaml:"thresholds"`
	Report     Report     `yaml:"report"`
	Optimize   Optimize   `yaml:"optimize"`
}

type Thresholds struct {
	Complexity      int `yaml:"complexity"`
	Nesting         int `yaml:"nesting"`
	LineLength      int `yaml:"line_length"`
	DuplicateWindow int `yaml:"duplicate_window"`
}

type Report struct {
	Title  string `yaml:"title"`
	Output string `yaml:"output"`
}

type Optimize struct {
	Tools []Tool `yaml:"tools"`
}

// Tool is one optimizer step. The target file path is appended to Args.
type Tool struct {
	Name string   `yaml:"name"`
	Args []string `yaml:"args"`
}

func (t Tool) String() string {
	return strings.Join(append([]string{t.Name}, t.Args...), " ")
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		Extensions: []string{".py"},
		Exclude:    []string{},
		Workers:    1,
		Thresholds: Thresholds{
			Complexity:      12,
			Nesting:         4,
			LineLength:      120,
			DuplicateWindow: 10,
		},
		Report: Report{
			Title:  "Code Analysis Report",
			Output: "report.html",
		},
		Optimize: Optimize{Tools: DefaultTools()},
	}
}

// DefaultTools is the autoflake, isort, black pipeline.
func DefaultTools() []Tool {
	return []Tool{
		{Name: "autoflake", Args: []string{
			"--in-place",
			"--remove-all-unused-imports",
			"--ignore-init-module-imports",
			"--remove-unused-variables",
		}},
		{Name: "isort", Args: []string{"--profile", "black"}},
		{Name: "black", Args: []string{"--quiet"}},
	}
}

// Load decodes the file at path over the defaults. Unknown keys are rejected.
func Load(path string) (Config, error) {
	cfg := Default()

	f, err := os.Open(path)
	if err != nil {
		return Config{}, err
	}
	defer f.Close()

	decoder := yaml.NewDecoder(f)
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Resolve picks the configuration for an analysis of root. An explicit path must exist;
// otherwise <root>/.pyaudit.yaml is used when present and the defaults when not. The returned
// string is the file that was loaded, empty for defaults. Environment overrides are applied.
func Resolve(root, explicit string) (Config, string, error) {
	path := strings.TrimSpace(explicit)
	if path == "" {
		candidate := filepath.Join(configDir(root), FileName)
		if _, err := os.Stat(candidate); err != nil {
			if !errors.Is(err, fs.ErrNotExist) {
				return Config{}, "", fmt.Errorf("stat %s: %w", candidate, err)
			}
			cfg := Default()
			cfg.ApplyEnv(root)
			return cfg, "", nil
		}
		path = candidate
	}

	cfg, err := Load(path)
	if err != nil {
		return Config{}, "", fmt.Errorf("load config: %w", err)
	}
	cfg.ApplyEnv(root)
	return cfg, path, nil
}

// ApplyEnv applies PYAUDIT_WORKERS from the process environment or <root>/.env. Values that
// are not positive integers are ignored.
func (c *Config) ApplyEnv(root string) {
	raw := strings.TrimSpace(lookupEnv(root, WorkersEnv))
	if raw == "" {
		return
	}
	if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
		c.Workers = parsed
	}
}

func lookupEnv(root, key string) string {
	if value, ok := os.LookupEnv(key); ok && strings.TrimSpace(value) != "" {
		return value
	}
	values, err := godotenv.Read(filepath.Join(configDir(root), EnvFile))
	if err != nil {
		return ""
	}
	return values[key]
}

// Validate reports the first invalid field.
func (c Config) Validate() error {
	if len(c.Extensions) == 0 {
		return fmt.Errorf("extensions cannot be empty")
	}
	for _, ext := range c.Extensions {
		if !strings.HasPrefix(ext, ".") || len(ext) < 2 {
			return fmt.Errorf("extension %q must start with a dot", ext)
		}
	}
	if c.Workers < 1 {
		return fmt.Errorf("workers must be at least 1, got %d", c.Workers)
	}

	limits := []struct {
		name  string
		value int
	}{
		{"thresholds.complexity", c.Thresholds.Complexity},
		{"thresholds.nesting", c.Thresholds.Nesting},
		{"thresholds.line_length", c.Thresholds.LineLength},
		{"thresholds.duplicate_window", c.Thresholds.DuplicateWindow},
	}
	for _, limit := range limits {
		if limit.value <= 0 {
			return fmt.Errorf("%s must be positive, got %d", limit.name, limit.value)
		}
	}

	for i, tool := range c.Optimize.Tools {
		if strings.TrimSpace(tool.Name) == "" {
			return fmt.Errorf("optimize.tools[%d]: name cannot be empty", i)
		}
	}
	return nil
}

// RuleThresholds converts the configured limits for the rule evaluators.
func (c Config) RuleThresholds() rules.Thresholds {
	return rules.Thresholds{
		Complexity: c.Thresholds.Complexity,
		Nesting:    c.Thresholds.Nesting,
		LineLength: c.Thresholds.LineLength,
	}
}

// Matcher combines the exclude patterns with <root>/.pyauditignore. Patterns from the ignore
// file are evaluated last.
func (c Config) Matcher(root string) (*ignore.Matcher, error) {
	matcher := ignore.ParsePatterns(c.Exclude)
	fromFile, err := ignore.LoadRoot(configDir(root))
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", ignore.FileName, err)
	}
	return matcher.Merge(fromFile), nil
}

// configDir is root itself for a directory and its parent for a file.
func configDir(root string) string {
	info, err := os.Stat(root)
	if err == nil && !info.IsDir() {
		return filepath.Dir(root)
	}
	return root
}
