// Package engine runs an analysis: it discovers candidate files under a root, evaluates every
// rule per file, then runs the cross-file analyzers over the merged results.
//
// The engine performs no logging or printing. All outcomes, failures included, are recorded as
// findings in the returned model.Results.
package engine

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"golang.org/x/sync/errgroup"

	"github.com/odvcencio/pyaudit/internal/cycles"
	"github.com/odvcencio/pyaudit/internal/duplicates"
	"github.com/odvcencio/pyaudit/internal/ignore"
	"github.com/odvcencio/pyaudit/internal/rules"
	"github.com/odvcencio/pyaudit/pkg/lang"
	"github.com/odvcencio/pyaudit/pkg/lang/python"
	"github.com/odvcencio/pyaudit/pkg/model"
)

type Options struct {
	// Extensions lists the file suffixes analysed. Defaults to ".py".
	Extensions []string
	// Ignore excludes root-relative paths from discovery. Nil excludes nothing.
	Ignore          *ignore.Matcher
	Thresholds      rules.Thresholds
	DuplicateWindow int
	// Workers bounds the per-file pool. Values below 2 process files sequentially.
	Workers int
	// Parser creates one parser per worker. Defaults to the Python parser.
	Parser lang.Factory
	// Rules replaces the default rule set when non-nil.
	Rules []rules.Rule
}

type Engine struct {
	extensions []string
	ignore     *ignore.Matcher
	window     int
	workers    int
	parser     lang.Factory
	rules      []rules.Rule
}

func New(opts Options) *Engine {
	e := &Engine{
		extensions: opts.Extensions,
		ignore:     opts.Ignore,
		window:     opts.DuplicateWindow,
		workers:    opts.Workers,
		parser:     opts.Parser,
		rules:      opts.Rules,
	}
	if len(e.extensions) == 0 {
		e.extensions = []string{".py"}
	}
	if e.window <= 0 {
		e.window = duplicates.DefaultWindow
	}
	if e.workers < 1 {
		e.workers = 1
	}
	if e.parser == nil {
		e.parser = python.Factory
	}
	if e.rules == nil {
		e.rules = rules.Default(opts.Thresholds)
	}
	return e
}

// Run analyses root, which may be a single source file or a directory. Two runs over an
// unchanged tree return equal Results.
func (e *Engine) Run(root string) *model.Results {
	results := model.NewResults(root)

	candidates, ok := e.discover(root)
	if !ok {
		results.InvalidRoot = true
		results.Add(model.FileFinding(model.KindError, root, 0, "Invalid path: "+root))
		return results
	}

	outcomes := e.processAll(candidates)

	units := make([]*model.SourceUnit, 0, len(outcomes))
	moduleFiles := map[string][]string{}
	for _, outcome := range outcomes {
		results.Files = append(results.Files, outcome.unit.Path)
		units = append(units, outcome.unit)
		for _, finding := range outcome.findings {
			results.Add(finding)
		}
		if outcome.hasComplexity {
			results.Complexity[outcome.unit.Path] = outcome.complexity
		}
		if outcome.parsed {
			results.Imports.Add(outcome.unit.Module, outcome.imports...)
			moduleFiles[outcome.unit.Module] = append(moduleFiles[outcome.unit.Module], outcome.unit.Path)
		}
	}

	// Cross-file phase: every slot is filled at this point.
	for _, cycle := range cycles.Detect(results.Imports) {
		results.Add(model.Finding{
			Kind:    model.KindImportCycle,
			Files:   cycleFiles(cycle, moduleFiles),
			Message: cycle.Message(),
		})
	}
	results.ImportClusters = cycles.Clusters(results.Imports)
	for _, group := range duplicates.Detect(units, e.window) {
		results.Add(group.Finding())
	}
	return results
}

func cycleFiles(cycle cycles.Cycle, moduleFiles map[string][]string) []string {
	seen := map[string]bool{}
	var files []string
	for _, module := range cycle.Modules() {
		if seen[module] {
			continue
		}
		seen[module] = true
		files = append(files, moduleFiles[module]...)
	}
	return files
}

// discover resolves root into the ordered candidate list. ok is false when root is neither a
// directory nor a file with a recognised extension.
func (e *Engine) discover(root string) ([]string, bool) {
	if strings.TrimSpace(root) == "" {
		return nil, false
	}
	info, err := os.Stat(root)
	if err != nil {
		return nil, false
	}
	if !info.IsDir() {
		if info.Mode().IsRegular() && e.recognised(root) {
			return []string{root}, true
		}
		return nil, false
	}

	var files []string
	_ = filepath.WalkDir(root, func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			// Unreadable directories are skipped; an unreadable file is still a candidate and
			// fails later as "Cannot read file".
			if entry != nil && entry.IsDir() {
				if path == root {
					return walkErr
				}
				return filepath.SkipDir
			}
			if entry != nil && e.recognised(path) {
				files = append(files, path)
			}
			return nil
		}

		if path == root {
			return nil
		}
		rel, relErr := filepath.Rel(root, path)
		if relErr == nil && e.ignore.Match(filepath.ToSlash(rel), entry.IsDir()) {
			if entry.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if entry.IsDir() || !e.recognised(path) {
			return nil
		}
		files = append(files, path)
		return nil
	})
	return files, true
}

func (e *Engine) recognised(path string) bool {
	base := filepath.Base(path)
	for _, ext := range e.extensions {
		if strings.HasSuffix(base, ext) {
			return true
		}
	}
	return false
}

// outcome is the per-file slot filled by exactly one worker.
type outcome struct {
	unit          *model.SourceUnit
	findings      []model.Finding
	parsed        bool
	complexity    int
	hasComplexity bool
	imports       []string
}

func (e *Engine) processAll(paths []string) []outcome {
	outcomes := make([]outcome, len(paths))
	if len(paths) == 0 {
		return outcomes
	}

	workers := min(e.workers, len(paths))
	if workers <= 1 {
		parser := e.parser()
		defer closeParser(parser)
		for i, path := range paths {
			outcomes[i] = e.process(parser, path)
		}
		return outcomes
	}

	next := make(chan int, len(paths))
	for i := range paths {
		next <- i
	}
	close(next)

	var g errgroup.Group
	g.SetLimit(workers)
	for w := 0; w < workers; w++ {
		g.Go(func() error {
			parser := e.parser()
			defer closeParser(parser)
			for i := range next {
				outcomes[i] = e.process(parser, paths[i])
			}
			return nil
		})
	}
	_ = g.Wait()
	return outcomes
}

func closeParser(parser lang.Parser) {
	if closer, ok := parser.(interface{ Close() }); ok {
		closer.Close()
	}
}

func (e *Engine) process(parser lang.Parser, path string) outcome {
	unit := &model.SourceUnit{
		Path:   path,
		Module: moduleName(path),
	}
	out := outcome{unit: unit}

	src, err := os.ReadFile(path)
	if err != nil || !utf8.Valid(src) {
		out.findings = append(out.findings, model.FileFinding(model.KindError, path, 0, "Cannot read file: "+path))
		return out
	}
	unit.Text = string(src)
	unit.Readable = true

	tree, parseErr := parser.Parse(path, src)
	if parseErr != nil {
		unit.Syntax = asSyntaxError(path, parseErr)
		out.findings = append(out.findings, model.FileFinding(
			model.KindError,
			path,
			unit.Syntax.Line,
			fmt.Sprintf("Syntax error in %s: %s", path, unit.Syntax.Error()),
		))
	} else {
		unit.Tree = tree
		out.parsed = true
	}

	for _, rule := range e.rules {
		if rule.NeedsTree() && unit.Tree == nil {
			continue
		}
		result, failure := evaluate(rule, unit)
		if failure != nil {
			out.findings = append(out.findings, *failure)
			continue
		}
		out.findings = append(out.findings, result.Findings...)
		if result.Scored {
			out.complexity = result.Complexity
			out.hasComplexity = true
		}
		out.imports = append(out.imports, result.Imports...)
	}

	// Only findings outlive the per-file phase; duplicates still need the text.
	unit.Tree = nil
	return out
}

// evaluate runs one rule and converts a panic into an error finding.
func evaluate(rule rules.Rule, unit *model.SourceUnit) (result rules.Result, failure *model.Finding) {
	defer func() {
		if r := recover(); r != nil {
			finding := model.FileFinding(
				model.KindError,
				unit.Path,
				0,
				fmt.Sprintf("Rule '%s' failed on %s: %v", rule.Name(), unit.Path, r),
			)
			result, failure = rules.Result{}, &finding
		}
	}()
	return rule.Check(unit), nil
}

func asSyntaxError(path string, err error) *model.SyntaxError {
	var syntaxErr *model.SyntaxError
	if errors.As(err, &syntaxErr) {
		return syntaxErr
	}
	return &model.SyntaxError{Path: path, Message: err.Error()}
}

// moduleName is the file's base name without its extension.
func moduleName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
