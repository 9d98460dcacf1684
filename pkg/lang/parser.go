// Package lang defines the Parser interface for language-specific source file parsing.
package lang

import "github.com/odvcencio/pyaudit/pkg/pyast"

// Parser converts source files into typed syntax trees.
type Parser interface {
	// Language returns the name of the language this parser handles.
	Language() string
	// Extensions returns the file suffixes the parser claims, dot included.
	Extensions() []string
	// Parse turns src into a tree. A syntax problem is reported as *model.SyntaxError.
	Parse(path string, src []byte) (*pyast.Module, error)
}

// Factory creates a fresh parser. Parsers are not safe for concurrent use, so each worker
// asks the factory for its own.
type Factory func() Parser
