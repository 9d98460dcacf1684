// Package duplicates groups files whose leading lines are identical.
package duplicates

import (
	"strconv"
	"strings"

	"github.com/odvcencio/pyaudit/pkg/model"
)

// DefaultWindow is the number of leading lines compared.
const DefaultWindow = 10

type Group struct {
	Files []string `json:"files"`
}

func (g Group) Message() string {
	return "Possible duplicate code in: " + strings.Join(g.Files, ", ")
}

// Finding converts the group into a duplicate finding.
func (g Group) Finding() model.Finding {
	return model.Finding{
		Kind:    model.KindDuplicate,
		Files:   append([]string(nil), g.Files...),
		Message: g.Message(),
	}
}

// Signature is the first window lines of unit, or all of them for shorter files.
func Signature(unit *model.SourceUnit, window int) string {
	if window <= 0 {
		window = DefaultWindow
	}
	lines := unit.Lines()
	if len(lines) > window {
		lines = lines[:window]
	}
	// the count keeps an empty file apart from a single blank line
	return strconv.Itoa(len(lines)) + "\x00" + strings.Join(lines, "\n")
}

// Detect groups readable units by Signature. Groups appear in order of their first member and
// list members in input order; singletons are dropped.
func Detect(units []*model.SourceUnit, window int) []Group {
	index := map[string]int{}
	var groups []Group
	for _, unit := range units {
		if unit == nil || !unit.Readable {
			continue
		}
		signature := Signature(unit, window)
		at, ok := index[signature]
		if !ok {
			at = len(groups)
			index[signature] = at
			groups = append(groups, Group{})
		}
		groups[at].Files = append(groups[at].Files, unit.Path)
	}

	out := groups[:0]
	for _, group := range groups {
		if len(group.Files) > 1 {
			out = append(out, group)
		}
	}
	return out
}
