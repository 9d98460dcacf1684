// Package optimize runs external Python formatters (autoflake, isort, black by default) over a
// file or a directory tree.
package optimize

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	charmlog "github.com/charmbracelet/log"

	"github.com/odvcencio/pyaudit/internal/config"
)

// CopySuffix is appended to the base name of the working copy when not optimizing in place.
const CopySuffix = "_optimized"

// Runner executes one tool invocation and returns its standard error.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) (stderr string, err error)
}

// ExecRunner runs tools as child processes.
type ExecRunner struct{}

func (ExecRunner) Run(ctx context.Context, name string, args ...string) (string, error) {
	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	return stderr.String(), err
}

type Options struct {
	Tools []config.Tool
	// InPlace rewrites the source files. Otherwise each file is copied to
	// <name>_optimized.py and the tools run on the copy.
	InPlace bool
	Runner  Runner
	// LookPath resolves tool names during preflight. Defaults to exec.LookPath.
	LookPath func(string) (string, error)
	Logger   *charmlog.Logger
}

type Optimizer struct {
	tools    []config.Tool
	inPlace  bool
	runner   Runner
	lookPath func(string) (string, error)
	logger   *charmlog.Logger
}

func New(opts Options) *Optimizer {
	o := &Optimizer{
		tools:    opts.Tools,
		inPlace:  opts.InPlace,
		runner:   opts.Runner,
		lookPath: opts.LookPath,
		logger:   opts.Logger,
	}
	if o.tools == nil {
		o.tools = config.DefaultTools()
	}
	if o.runner == nil {
		o.runner = ExecRunner{}
	}
	if o.lookPath == nil {
		o.lookPath = exec.LookPath
	}
	if o.logger == nil {
		o.logger = charmlog.New(io.Discard)
	}
	return o
}

// MissingToolsError lists the configured tools not found on PATH.
type MissingToolsError struct {
	Tools []string
}

func (e *MissingToolsError) Error() string {
	return "missing tools: " + strings.Join(e.Tools, ", ")
}

// Preflight checks that every configured tool is installed.
func (o *Optimizer) Preflight() error {
	var missing []string
	for _, tool := range o.tools {
		if _, err := o.lookPath(tool.Name); err != nil {
			missing = append(missing, tool.Name)
		}
	}
	if len(missing) > 0 {
		return &MissingToolsError{Tools: missing}
	}
	o.logger.Debug("environment validated", "tools", len(o.tools))
	return nil
}

// FileResult is the outcome for one source file. Target is the file the tools ran on.
type FileResult struct {
	Path   string `json:"path"`
	Target string `json:"target"`
	Error  string `json:"error,omitempty"`
}

type Summary struct {
	Files     []FileResult `json:"files"`
	Optimized int          `json:"optimized"`
	Failed    int          `json:"failed"`
}

// Run preflights the tools, then optimizes root. A failing file is recorded in the summary
// and does not stop the others.
func (o *Optimizer) Run(ctx context.Context, root string) (Summary, error) {
	if err := o.Preflight(); err != nil {
		return Summary{}, err
	}

	targets, err := Targets(root, o.inPlace)
	if err != nil {
		return Summary{}, err
	}
	o.logger.Info("starting optimization", "path", root, "files", len(targets), "inplace", o.inPlace)

	summary := Summary{Files: make([]FileResult, 0, len(targets))}
	for _, path := range targets {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		result := o.optimizeFile(ctx, path)
		if result.Error != "" {
			summary.Failed++
			o.logger.Error("optimization failed", "file", filepath.Base(path), "err", result.Error)
		} else {
			summary.Optimized++
			o.logger.Info("optimized", "file", filepath.Base(result.Target))
		}
		summary.Files = append(summary.Files, result)
	}
	return summary, nil
}

func (o *Optimizer) optimizeFile(ctx context.Context, path string) FileResult {
	result := FileResult{Path: path, Target: path}
	if !o.inPlace {
		target := CopyPath(path)
		if err := copyFile(path, target); err != nil {
			result.Error = fmt.Sprintf("copy failed: %v", err)
			return result
		}
		result.Target = target
	}

	for _, tool := range o.tools {
		args := append(append([]string(nil), tool.Args...), result.Target)
		o.logger.Debug("running tool", "tool", tool.Name, "file", result.Target)
		stderr, err := o.runner.Run(ctx, tool.Name, args...)
		if err != nil {
			detail := strings.TrimSpace(stderr)
			if detail == "" {
				detail = err.Error()
			}
			result.Error = fmt.Sprintf("%s failed: %s", tool.Name, detail)
			return result
		}
	}
	return result
}

// CopyPath returns the working-copy path for a source file: dir/name_optimized.ext.
func CopyPath(path string) string {
	ext := filepath.Ext(path)
	return strings.TrimSuffix(path, ext) + CopySuffix + ext
}

// Targets lists the files to optimize. A file root is returned as is; a directory is walked
// for .py files, skipping any venv or .git path component below root. Working copies from an
// earlier run are skipped unless optimizing in place.
func Targets(root string, inPlace bool) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("invalid path %s: %w", root, err)
	}
	if !info.IsDir() {
		return []string{root}, nil
	}

	var files []string
	err = filepath.WalkDir(root, func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if path == root {
			return nil
		}
		name := entry.Name()
		if entry.IsDir() {
			if name == "venv" || name == ".git" {
				return filepath.SkipDir
			}
			return nil
		}
		if filepath.Ext(name) != ".py" {
			return nil
		}
		if !inPlace && strings.HasSuffix(strings.TrimSuffix(name, ".py"), CopySuffix) {
			return nil
		}
		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", root, err)
	}
	return files, nil
}

func copyFile(src, dst string) (err error) {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return err
	}
	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := out.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	_, err = io.Copy(out, in)
	return err
}

// IsMissingTools reports whether err came from a failed preflight.
func IsMissingTools(err error) bool {
	var missing *MissingToolsError
	return errors.As(err, &missing)
}
