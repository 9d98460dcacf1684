// Package rules implements the per-file evaluators: docstrings, complexity, nesting, style and
// import extraction. Rules share no mutable state and may run concurrently on different files.
package rules

import "github.com/odvcencio/pyaudit/pkg/model"

// Rule inspects one source unit. Check must not retain the unit.
type Rule interface {
	Name() string
	// NeedsTree reports whether the rule reads unit.Tree. Tree rules are skipped for files that
	// failed to parse.
	NeedsTree() bool
	Check(unit *model.SourceUnit) Result
}

// Result is what one rule contributes for one file. Complexity and Imports are only set by the
// rules that own them; Scored marks a result that carries a complexity score.
type Result struct {
	Findings   []model.Finding
	Complexity int
	Scored     bool
	Imports    []string
}

type Thresholds struct {
	Complexity int
	Nesting    int
	LineLength int
}

// DefaultThresholds are the limits used when no configuration overrides them.
func DefaultThresholds() Thresholds {
	return Thresholds{
		Complexity: 12,
		Nesting:    4,
		LineLength: 120,
	}
}

func (t Thresholds) withDefaults() Thresholds {
	defaults := DefaultThresholds()
	if t.Complexity <= 0 {
		t.Complexity = defaults.Complexity
	}
	if t.Nesting <= 0 {
		t.Nesting = defaults.Nesting
	}
	if t.LineLength <= 0 {
		t.LineLength = defaults.LineLength
	}
	return t
}

// Default returns the fixed-order rule set. Findings of one file are emitted in this order.
func Default(thresholds Thresholds) []Rule {
	thresholds = thresholds.withDefaults()
	return []Rule{
		Docstrings{},
		Complexity{Threshold: thresholds.Complexity},
		Nesting{Threshold: thresholds.Nesting},
		Style{MaxLineLength: thresholds.LineLength},
		Imports{},
	}
}
