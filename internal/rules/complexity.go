package rules

import (
	"fmt"

	"github.com/odvcencio/pyaudit/pkg/model"
	"github.com/odvcencio/pyaudit/pkg/pyast"
)

// Complexity scores a whole file: one plus every branching construct in the tree.
type Complexity struct {
	Threshold int
}

func (Complexity) Name() string    { return "complexity" }
func (Complexity) NeedsTree() bool { return true }

func (c Complexity) Check(unit *model.SourceUnit) Result {
	score := Score(unit.Tree)
	result := Result{Complexity: score, Scored: true}
	if score > c.Threshold {
		result.Findings = append(result.Findings, model.FileFinding(
			model.KindWarning,
			unit.Path,
			0,
			fmt.Sprintf("%s has high cyclomatic complexity: %d", unit.Path, score),
		))
	}
	return result
}

// Score counts if/elif, loops, boolean operator chains, try statements, except handlers and
// with statements anywhere below root. Async variants count like their sync forms. A try with
// except* groups is not a try statement; only its handlers count.
func Score(root pyast.Node) int {
	score := 1
	pyast.Inspect(root, func(n pyast.Node) bool {
		switch v := n.(type) {
		case *pyast.If, *pyast.For, *pyast.While, *pyast.BoolOp,
			*pyast.ExceptHandler, *pyast.With:
			score++
		case *pyast.Try:
			if !v.Star {
				score++
			}
		}
		return true
	})
	return score
}
