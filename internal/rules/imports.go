package rules

import (
	"strings"

	"github.com/odvcencio/pyaudit/pkg/model"
	"github.com/odvcencio/pyaudit/pkg/pyast"
)

// Imports extracts the top-level module names a file imports, in source order. It produces
// graph edges only, never findings.
type Imports struct{}

func (Imports) Name() string    { return "imports" }
func (Imports) NeedsTree() bool { return true }

func (Imports) Check(unit *model.SourceUnit) Result {
	imports := []string{}
	pyast.Inspect(unit.Tree, func(n pyast.Node) bool {
		switch stmt := n.(type) {
		case *pyast.Import:
			for _, alias := range stmt.Names {
				if alias.Name != "" {
					imports = append(imports, topLevel(alias.Name))
				}
			}
		case *pyast.ImportFrom:
			// "from . import x" names no module.
			if stmt.Module != "" {
				imports = append(imports, topLevel(stmt.Module))
			}
		}
		return true
	})
	return Result{Imports: imports}
}

func topLevel(module string) string {
	head, _, _ := strings.Cut(module, ".")
	return head
}
