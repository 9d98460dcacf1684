package report

import (
	"bufio"
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"

	"github.com/odvcencio/pyaudit/pkg/model"
)

// TextOptions controls the plain-text listing. Styled enables terminal colors for headings.
type TextOptions struct {
	Styled bool
}

var (
	headingStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	errorStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
)

// WriteText prints the analysis listing: the file count, then every non-empty section with
// one "  - " line per finding.
func WriteText(w io.Writer, r *model.Results, opts TextOptions) error {
	out := bufio.NewWriter(w)
	heading := func(s string) string {
		if opts.Styled {
			return headingStyle.Render(s)
		}
		return s
	}

	fmt.Fprintf(out, "\n%s\n", heading("ANALYSIS SUMMARY"))
	fmt.Fprintf(out, "Analyzed files: %d\n", r.FileCount())
	for _, section := range Sections(r) {
		if len(section.Findings) == 0 {
			continue
		}
		title := heading(section.Title + ":")
		if opts.Styled && section.Title == "Errors" {
			title = errorStyle.Render(section.Title + ":")
		}
		fmt.Fprintf(out, "\n%s\n", title)
		for _, finding := range section.Findings {
			fmt.Fprintf(out, "  - %s\n", finding.String())
		}
	}
	fmt.Fprintf(out, "\n%s\n\n", heading("END OF REPORT"))
	return out.Flush()
}
