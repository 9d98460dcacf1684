package rules

import (
	"fmt"

	"github.com/odvcencio/pyaudit/pkg/model"
	"github.com/odvcencio/pyaudit/pkg/pyast"
)

// Docstrings reports every function, async function and class without a docstring.
type Docstrings struct{}

func (Docstrings) Name() string    { return "docstring" }
func (Docstrings) NeedsTree() bool { return true }

func (Docstrings) Check(unit *model.SourceUnit) Result {
	var findings []model.Finding
	pyast.Inspect(unit.Tree, func(n pyast.Node) bool {
		var (
			kind string
			name string
			body []pyast.Stmt
		)
		switch def := n.(type) {
		case *pyast.FunctionDef:
			kind, name, body = "function", def.Name, def.Body
			if def.Async {
				kind = "async function"
			}
		case *pyast.ClassDef:
			kind, name, body = "class", def.Name, def.Body
		default:
			return true
		}

		if _, ok := pyast.Docstring(body); !ok {
			findings = append(findings, model.FileFinding(
				model.KindMissingDoc,
				unit.Path,
				n.Position().Line,
				fmt.Sprintf("Missing docstring in %s '%s'", kind, name),
			))
		}
		return true
	})
	return Result{Findings: findings}
}
