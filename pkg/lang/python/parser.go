// Package python implements lang.Parser for Python using the tree-sitter Python grammar and
// converts the concrete syntax tree into pyast's typed node set.
package python

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	tspython "github.com/smacker/go-tree-sitter/python"

	"github.com/odvcencio/pyaudit/pkg/lang"
	"github.com/odvcencio/pyaudit/pkg/model"
	"github.com/odvcencio/pyaudit/pkg/pyast"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Parser parses Python source. A Parser is not safe for concurrent use.
type Parser struct {
	parser *sitter.Parser
}

var _ lang.Parser = (*Parser)(nil)

// NewParser returns a parser configured with the Python grammar.
func NewParser() *Parser {
	p := sitter.NewParser()
	p.SetLanguage(tspython.GetLanguage())
	return &Parser{parser: p}
}

// Factory satisfies lang.Factory.
func Factory() lang.Parser {
	return NewParser()
}

func (p *Parser) Language() string {
	return "python"
}

func (p *Parser) Extensions() []string {
	return []string{".py"}
}

// Parse returns the typed tree for src or a *model.SyntaxError. It never panics.
func (p *Parser) Parse(path string, src []byte) (module *pyast.Module, err error) {
	defer func() {
		if r := recover(); r != nil {
			module = nil
			err = &model.SyntaxError{Path: path, Message: fmt.Sprintf("parser failure: %v", r)}
		}
	}()

	src = bytes.TrimPrefix(src, utf8BOM)
	tree, parseErr := p.parser.ParseCtx(context.Background(), nil, src)
	if parseErr != nil {
		return nil, &model.SyntaxError{Path: path, Message: parseErr.Error()}
	}
	if tree == nil {
		return nil, &model.SyntaxError{Path: path, Message: "parser returned no tree"}
	}
	defer tree.Close()

	root := tree.RootNode()
	if root == nil {
		return nil, &model.SyntaxError{Path: path, Message: "parser returned no tree"}
	}
	if root.HasError() {
		return nil, syntaxError(path, root)
	}
	if err := legacySyntax(path, root, src); err != nil {
		return nil, err
	}

	c := converter{src: src}
	return c.module(root), nil
}

// Close releases the underlying tree-sitter parser.
func (p *Parser) Close() {
	if p != nil && p.parser != nil {
		p.parser.Close()
	}
}

// syntaxError locates the first ERROR or MISSING node in document order.
func syntaxError(path string, root *sitter.Node) *model.SyntaxError {
	node, missing := firstErrorNode(root)
	if node == nil {
		return &model.SyntaxError{Path: path, Line: 1, Message: "invalid syntax"}
	}

	message := "invalid syntax"
	if missing {
		message = fmt.Sprintf("missing %q", node.Type())
	}
	return &model.SyntaxError{
		Path:    path,
		Line:    int(node.StartPoint().Row) + 1,
		Message: message,
	}
}

func firstErrorNode(node *sitter.Node) (*sitter.Node, bool) {
	if node == nil {
		return nil, false
	}
	if node.IsMissing() {
		return node, true
	}
	if node.Type() == "ERROR" {
		return node, false
	}
	if !node.HasError() {
		return nil, false
	}
	for i := 0; i < int(node.ChildCount()); i++ {
		if found, missing := firstErrorNode(node.Child(i)); found != nil {
			return found, missing
		}
	}
	return nil, false
}

// legacySyntax reports the first Python 2 construct the grammar still accepts but Python 3
// rejects: print and exec statements, leading-zero decimal integers and long suffixes.
func legacySyntax(path string, root *sitter.Node, src []byte) *model.SyntaxError {
	var found *model.SyntaxError
	var visit func(n *sitter.Node)
	visit = func(n *sitter.Node) {
		if n == nil || found != nil {
			return
		}
		message := ""
		switch n.Type() {
		case "print_statement":
			message = "Missing parentheses in call to 'print'. Did you mean print(...)?"
		case "exec_statement":
			message = "Missing parentheses in call to 'exec'. Did you mean exec(...)?"
		case "integer":
			message = integerError(n.Content(src))
		}
		if message != "" {
			found = &model.SyntaxError{Path: path, Line: int(n.StartPoint().Row) + 1, Message: message}
			return
		}
		for i := 0; i < int(n.ChildCount()); i++ {
			visit(n.Child(i))
		}
	}
	visit(root)
	return found
}

func integerError(text string) string {
	lower := strings.ToLower(text)
	if strings.HasSuffix(lower, "l") {
		return "invalid decimal literal"
	}
	if strings.HasPrefix(lower, "0x") || strings.HasPrefix(lower, "0o") || strings.HasPrefix(lower, "0b") || strings.HasSuffix(lower, "j") {
		return ""
	}
	digits := strings.ReplaceAll(lower, "_", "")
	if len(digits) > 1 && digits[0] == '0' && strings.Trim(digits, "0") != "" {
		return "leading zeros in decimal integer literals are not permitted; use an 0o prefix for octal integers"
	}
	return ""
}
