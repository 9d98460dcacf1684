// Package report renders analysis results: a prose summary, the plain-text listing, HTML,
// Markdown and JSON.
package report

import (
	"fmt"
	"strings"

	"github.com/odvcencio/pyaudit/pkg/model"
)

// BuildSummary describes the counts in a few sentences followed by improvement suggestions.
func BuildSummary(c model.Counts) string {
	lines := []string{fmt.Sprintf("This project contains %d analyzed Python file(s).", c.Files)}

	if c.Errors > 0 {
		lines = append(lines, fmt.Sprintf("There are %d error(s) that should be fixed first.", c.Errors))
	} else {
		lines = append(lines, "No critical syntax errors were detected.")
	}
	if c.Warnings > 0 {
		lines = append(lines, fmt.Sprintf("The analyzer reported %d warning(s) about code structure or complexity.", c.Warnings))
	}
	if c.MissingDocs > 0 {
		lines = append(lines, fmt.Sprintf("There are %d element(s) without docstrings (functions or classes).", c.MissingDocs))
	}
	if c.StyleIssues > 0 {
		lines = append(lines, fmt.Sprintf("%d PEP8 style issue(s) were found (spacing, line length, tabs, etc.).", c.StyleIssues))
	}
	if c.ImportCycles > 0 {
		lines = append(lines, fmt.Sprintf("%d potential import cycle(s) were detected.", c.ImportCycles))
	}
	if c.Duplicates > 0 {
		lines = append(lines, fmt.Sprintf("%d possible code duplication(s) were identified.", c.Duplicates))
	}

	suggestions := Suggestions(c)
	if len(suggestions) > 0 {
		lines = append(lines, "Main improvement suggestions:")
		for _, s := range suggestions {
			lines = append(lines, "- "+s)
		}
	}
	return strings.Join(lines, " ")
}

// Suggestions lists the follow-up actions implied by the counts.
func Suggestions(c model.Counts) []string {
	var out []string
	if c.MissingDocs > 0 {
		out = append(out, "Add docstrings to undocumented functions and classes.")
	}
	if c.StyleIssues > 0 {
		out = append(out, "Apply a code formatter or fix basic PEP8 issues.")
	}
	if c.Warnings > 0 {
		out = append(out, "Reduce nesting and complexity where the analyzer reported warnings.")
	}
	if c.ImportCycles > 0 {
		out = append(out, "Break import cycles by restructuring modules.")
	}
	return out
}

// Section is one titled list of findings, in display order.
type Section struct {
	Title    string
	Findings []model.Finding
}

// Sections returns the per-kind finding lists in the fixed report order.
func Sections(r *model.Results) []Section {
	if r == nil {
		r = model.NewResults("")
	}
	return []Section{
		{Title: "Errors", Findings: r.Errors},
		{Title: "Warnings", Findings: r.Warnings},
		{Title: "Missing docstrings", Findings: r.MissingDocs},
		{Title: "Style issues", Findings: r.StyleIssues},
		{Title: "Import cycles", Findings: r.ImportCycles},
		{Title: "Duplicate code", Findings: r.Duplicates},
	}
}
