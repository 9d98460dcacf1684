// Package ignore implements gitignore-style exclusion patterns for source discovery.
package ignore

import (
	"bufio"
	"errors"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// FileName is the per-root exclusion file merged into the configured patterns.
const FileName = ".pyauditignore"

type pattern struct {
	raw      string
	negated  bool
	dirOnly  bool
	anchored bool
	glob     string
}

// Matcher evaluates root-relative paths against gitignore-style patterns. The last matching
// pattern wins; a nil Matcher excludes nothing.
type Matcher struct {
	patterns []pattern
}

// Load reads patterns from a file, one per line.
func Load(filename string) (*Matcher, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return ParsePatterns(lines), nil
}

// LoadRoot reads <root>/.pyauditignore. A missing file yields an empty matcher.
func LoadRoot(root string) (*Matcher, error) {
	m, err := Load(filepath.Join(root, FileName))
	if errors.Is(err, fs.ErrNotExist) {
		return &Matcher{}, nil
	}
	return m, err
}

// ParsePatterns builds a Matcher from raw pattern lines. Blank lines and # comments are skipped.
func ParsePatterns(lines []string) *Matcher {
	m := &Matcher{}
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		p := pattern{raw: line}
		if strings.HasPrefix(line, "!") {
			p.negated = true
			line = line[1:]
		}
		if strings.HasSuffix(line, "/") {
			p.dirOnly = true
			line = strings.TrimSuffix(line, "/")
		}
		if strings.HasPrefix(line, "/") {
			p.anchored = true
			line = strings.TrimPrefix(line, "/")
		}
		if line == "" {
			continue
		}

		p.glob = line
		m.patterns = append(m.patterns, p)
	}
	return m
}

// Merge returns a matcher holding m's patterns followed by other's, so other takes precedence.
func (m *Matcher) Merge(other *Matcher) *Matcher {
	merged := &Matcher{}
	if m != nil {
		merged.patterns = append(merged.patterns, m.patterns...)
	}
	if other != nil {
		merged.patterns = append(merged.patterns, other.patterns...)
	}
	return merged
}

// Len returns the number of active patterns.
func (m *Matcher) Len() int {
	if m == nil {
		return 0
	}
	return len(m.patterns)
}

// Patterns returns the raw pattern lines in evaluation order.
func (m *Matcher) Patterns() []string {
	if m == nil {
		return nil
	}
	out := make([]string, 0, len(m.patterns))
	for _, p := range m.patterns {
		out = append(out, p.raw)
	}
	return out
}

// Match reports whether rel should be excluded. rel is relative to the analysed root; isDir
// says whether it names a directory.
func (m *Matcher) Match(rel string, isDir bool) bool {
	if m == nil || len(m.patterns) == 0 {
		return false
	}

	rel = strings.TrimPrefix(filepath.ToSlash(rel), "./")
	ignored := false
	for _, p := range m.patterns {
		if p.dirOnly && !isDir {
			continue
		}
		if matchPattern(p, rel) {
			ignored = !p.negated
		}
	}
	return ignored
}

// matchPattern matches slash or anchored patterns against the full path and the rest against
// any single path component.
func matchPattern(p pattern, rel string) bool {
	if p.anchored || strings.Contains(p.glob, "/") {
		matched, _ := path.Match(p.glob, rel)
		return matched
	}

	for _, part := range strings.Split(rel, "/") {
		if matched, _ := path.Match(p.glob, part); matched {
			return true
		}
	}
	return false
}
