package rules

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/odvcencio/pyaudit/pkg/model"
)

var missingSpaceAfterComma = regexp.MustCompile(`,[A-Za-z0-9_]`)

// Style checks raw text line by line. Each check runs independently, so a single line can
// produce several findings.
type Style struct {
	MaxLineLength int
}

func (Style) Name() string    { return "style" }
func (Style) NeedsTree() bool { return false }

func (r Style) Check(unit *model.SourceUnit) Result {
	var findings []model.Finding
	add := func(line int, message string) {
		findings = append(findings, model.FileFinding(model.KindStyle, unit.Path, line, message))
	}

	for i, line := range unit.Lines() {
		number := i + 1
		if length := utf8.RuneCountInString(line); length > r.MaxLineLength {
			add(number, fmt.Sprintf("Line too long (%d > %d)", length, r.MaxLineLength))
		}
		if strings.HasSuffix(line, " ") {
			add(number, "Trailing whitespace")
		}
		if missingSpaceAfterComma.MatchString(line) {
			add(number, "Missing space after comma")
		}
		if strings.Contains(line, "\t") {
			add(number, "Tab indent found (use 4 spaces)")
		}
	}
	return Result{Findings: findings}
}
