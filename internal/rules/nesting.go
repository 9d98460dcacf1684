package rules

import (
	"fmt"

	"github.com/odvcencio/pyaudit/pkg/model"
	"github.com/odvcencio/pyaudit/pkg/pyast"
)

// Nesting warns about if statements whose nested conditional depth exceeds Threshold. Every
// if, elif included, is measured on its own, so one file can produce several warnings.
type Nesting struct {
	Threshold int
}

func (Nesting) Name() string    { return "nesting" }
func (Nesting) NeedsTree() bool { return true }

func (r Nesting) Check(unit *model.SourceUnit) Result {
	var findings []model.Finding
	pyast.Inspect(unit.Tree, func(n pyast.Node) bool {
		node, ok := n.(*pyast.If)
		if !ok {
			return true
		}
		if depth := Depth(node); depth > r.Threshold {
			findings = append(findings, model.FileFinding(
				model.KindWarning,
				unit.Path,
				node.Line,
				fmt.Sprintf("Deep nesting (%d levels)", depth),
			))
		}
		return true
	})
	return Result{Findings: findings}
}

// Depth is 1 for an if with no nested conditional, otherwise 1 plus the deepest nested if
// found in its body or else branch. An elif sits in the else branch, so each one adds a level.
func Depth(node *pyast.If) int {
	if node == nil {
		return 0
	}
	return 1 + max(nestedDepth(node.Body), nestedDepth(node.Orelse))
}

// nestedDepth returns the deepest Depth among the nearest if statements inside body.
func nestedDepth(body []pyast.Stmt) int {
	deepest := 0
	for _, stmt := range body {
		if node, ok := stmt.(*pyast.If); ok {
			deepest = max(deepest, Depth(node))
			continue
		}
		for _, inner := range childBodies(stmt) {
			deepest = max(deepest, nestedDepth(inner))
		}
	}
	return deepest
}

func childBodies(stmt pyast.Stmt) [][]pyast.Stmt {
	switch s := stmt.(type) {
	case *pyast.FunctionDef:
		return [][]pyast.Stmt{s.Body}
	case *pyast.ClassDef:
		return [][]pyast.Stmt{s.Body}
	case *pyast.For:
		return [][]pyast.Stmt{s.Body, s.Orelse}
	case *pyast.While:
		return [][]pyast.Stmt{s.Body, s.Orelse}
	case *pyast.With:
		return [][]pyast.Stmt{s.Body}
	case *pyast.Try:
		bodies := [][]pyast.Stmt{s.Body}
		for _, handler := range s.Handlers {
			if handler != nil {
				bodies = append(bodies, handler.Body)
			}
		}
		return append(bodies, s.Orelse, s.Finally)
	case *pyast.Match:
		bodies := make([][]pyast.Stmt, 0, len(s.Cases))
		for _, c := range s.Cases {
			if c != nil {
				bodies = append(bodies, c.Body)
			}
		}
		return bodies
	case *pyast.SimpleStmt:
		return [][]pyast.Stmt{s.Body}
	}
	return nil
}
