// Package model defines the analysis data types: findings, source units, the import graph, and
// the Results value produced by one engine run.
package model

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/odvcencio/pyaudit/pkg/pyast"
)

// Kind classifies a finding.
type Kind string

const (
	KindError       Kind = "error"
	KindWarning     Kind = "warning"
	KindMissingDoc  Kind = "missing_doc"
	KindStyle       Kind = "style"
	KindDuplicate   Kind = "duplicate"
	KindImportCycle Kind = "import_cycle"
)

// Location is a file path with an optional 1-based line. Line 0 means the finding is
// attached to the whole file.
type Location struct {
	Path string `json:"path,omitempty"`
	Line int    `json:"line,omitempty"`
}

func (l Location) String() string {
	if l.Line > 0 {
		return fmt.Sprintf("%s:%d", l.Path, l.Line)
	}
	return l.Path
}

// Finding is one unit of analysis output. Cross-file findings (cycles, duplicates) list every
// involved file in Files and leave Location empty. Whole-file findings carry Line 0 and name
// the file in Message.
type Finding struct {
	Kind     Kind     `json:"kind"`
	Location Location `json:"location"`
	Files    []string `json:"files,omitempty"`
	Message  string   `json:"message"`
}

func (f Finding) String() string {
	if f.Location.Path == "" || f.Location.Line <= 0 {
		return f.Message
	}
	return f.Location.String() + " -> " + f.Message
}

// FileFinding builds a finding attached to a single file.
func FileFinding(kind Kind, path string, line int, message string) Finding {
	return Finding{
		Kind:     kind,
		Location: Location{Path: path, Line: line},
		Message:  message,
	}
}

// SyntaxError is the parser adapter's failure signal for one file.
type SyntaxError struct {
	Path    string
	Line    int
	Message string
}

func (e *SyntaxError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s (line %d)", e.Message, e.Line)
	}
	return e.Message
}

// SourceUnit is one analysed file. It is immutable once read and lives only for the
// per-file phase of a run.
type SourceUnit struct {
	Path     string
	Module   string
	Text     string
	Readable bool
	Tree     *pyast.Module
	Syntax   *SyntaxError
}

// Lines splits the unit's text like Python's str.splitlines.
func (u *SourceUnit) Lines() []string {
	if u == nil {
		return nil
	}
	return SplitLines(u.Text)
}

// SplitLines splits text on the line boundaries of Python's str.splitlines: \n, \r\n, \r,
// \v, \f, \x1c, \x1d, \x1e, U+0085, U+2028 and U+2029. No trailing empty element is produced.
func SplitLines(text string) []string {
	if text == "" {
		return nil
	}

	lines := make([]string, 0, strings.Count(text, "\n")+1)
	start := 0
	for i, r := range text {
		if i < start {
			// the \n of a \r\n pair
			continue
		}
		switch r {
		case '\r':
			lines = append(lines, text[start:i])
			start = i + 1
			if start < len(text) && text[start] == '\n' {
				start++
			}
		case '\n', '\v', '\f', '\x1c', '\x1d', '\x1e', '\u0085', '\u2028', '\u2029':
			lines = append(lines, text[start:i])
			start = i + utf8.RuneLen(r)
		}
	}
	if start < len(text) {
		lines = append(lines, text[start:])
	}
	return lines
}

// ImportGraph maps module identifiers to the top-level names they import. Modules keeps
// insertion order so that traversals are deterministic.
type ImportGraph struct {
	Modules []string            `json:"modules"`
	Edges   map[string][]string `json:"edges"`
}

// Add appends imports to module's edge list, registering the module on first sight.
// Modules sharing an identifier accumulate their edges in call order.
func (g *ImportGraph) Add(module string, imports ...string) {
	if g.Edges == nil {
		g.Edges = make(map[string][]string)
	}
	existing, ok := g.Edges[module]
	if !ok {
		g.Modules = append(g.Modules, module)
		existing = []string{}
	}
	g.Edges[module] = append(existing, imports...)
}

// Imports returns the ordered imports of module, or nil when the module is not in the graph.
func (g ImportGraph) Imports(module string) []string {
	return g.Edges[module]
}

// Has reports whether module is a node with outgoing edges recorded.
func (g ImportGraph) Has(module string) bool {
	_, ok := g.Edges[module]
	return ok
}

// Len returns the number of modules in the graph.
func (g ImportGraph) Len() int {
	return len(g.Modules)
}

// Counts are the per-kind totals summary builders need.
type Counts struct {
	Files        int `json:"files"`
	Errors       int `json:"errors"`
	Warnings     int `json:"warnings"`
	MissingDocs  int `json:"missing_docs"`
	StyleIssues  int `json:"style_issues"`
	ImportCycles int `json:"import_cycles"`
	Duplicates   int `json:"duplicates"`
}

// Results is the single artifact of an analysis run. It is built by the engine and only read
// by collaborators.
type Results struct {
	Root           string         `json:"root"`
	InvalidRoot    bool           `json:"invalid_root,omitempty"`
	Files          []string       `json:"files"`
	Errors         []Finding      `json:"errors"`
	Warnings       []Finding      `json:"warnings"`
	MissingDocs    []Finding      `json:"missing_docstrings"`
	StyleIssues    []Finding      `json:"style_issues"`
	ImportCycles   []Finding      `json:"import_cycles"`
	Duplicates     []Finding      `json:"duplicates"`
	Complexity     map[string]int `json:"complexity"`
	Imports        ImportGraph    `json:"imports_graph"`
	ImportClusters [][]string     `json:"import_clusters,omitempty"`
}

// NewResults returns an empty Results for root with every collection initialised.
func NewResults(root string) *Results {
	return &Results{
		Root:         root,
		Files:        []string{},
		Errors:       []Finding{},
		Warnings:     []Finding{},
		MissingDocs:  []Finding{},
		StyleIssues:  []Finding{},
		ImportCycles: []Finding{},
		Duplicates:   []Finding{},
		Complexity:   map[string]int{},
		Imports:      ImportGraph{Modules: []string{}, Edges: map[string][]string{}},
	}
}

// Add routes a finding to the collection for its kind.
func (r *Results) Add(f Finding) {
	switch f.Kind {
	case KindError:
		r.Errors = append(r.Errors, f)
	case KindWarning:
		r.Warnings = append(r.Warnings, f)
	case KindMissingDoc:
		r.MissingDocs = append(r.MissingDocs, f)
	case KindStyle:
		r.StyleIssues = append(r.StyleIssues, f)
	case KindDuplicate:
		r.Duplicates = append(r.Duplicates, f)
	case KindImportCycle:
		r.ImportCycles = append(r.ImportCycles, f)
	}
}

// Counts returns the per-kind totals.
func (r *Results) Counts() Counts {
	if r == nil {
		return Counts{}
	}
	return Counts{
		Files:        len(r.Files),
		Errors:       len(r.Errors),
		Warnings:     len(r.Warnings),
		MissingDocs:  len(r.MissingDocs),
		StyleIssues:  len(r.StyleIssues),
		ImportCycles: len(r.ImportCycles),
		Duplicates:   len(r.Duplicates),
	}
}

// FileCount returns the number of discovered candidate files.
func (r *Results) FileCount() int {
	if r == nil {
		return 0
	}
	return len(r.Files)
}

// FindingCount returns the number of findings across every kind.
func (r *Results) FindingCount() int {
	c := r.Counts()
	return c.Errors + c.Warnings + c.MissingDocs + c.StyleIssues + c.ImportCycles + c.Duplicates
}
