package report

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"golang.org/x/term"

	"github.com/odvcencio/pyaudit/pkg/model"
)

// RenderMarkdown returns the results as a Markdown document.
func RenderMarkdown(r *model.Results, title string) string {
	title = strings.TrimSpace(title)
	if title == "" {
		title = DefaultTitle
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", title)
	fmt.Fprintf(&b, "%s\n\n", BuildSummary(r.Counts()))
	for _, section := range Sections(r) {
		fmt.Fprintf(&b, "## %s (%d)\n\n", section.Title, len(section.Findings))
		if len(section.Findings) == 0 {
			b.WriteString("No items.\n\n")
			continue
		}
		for _, f := range section.Findings {
			fmt.Fprintf(&b, "- `%s`\n", strings.ReplaceAll(f.String(), "`", "'"))
		}
		b.WriteString("\n")
	}
	if r != nil && len(r.ImportClusters) > 0 {
		b.WriteString("## Import clusters\n\n")
		for _, cluster := range r.ImportClusters {
			fmt.Fprintf(&b, "- %s\n", strings.Join(cluster, ", "))
		}
		b.WriteString("\n")
	}
	return b.String()
}

// IsTerminal reports whether w is a terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// WriteMarkdown writes md to w, styled with glamour when w is a terminal. Rendering failures
// fall back to the raw Markdown.
func WriteMarkdown(w io.Writer, md string) error {
	if IsTerminal(w) {
		md = renderTerminal(md, terminalWidth(w))
	}
	_, err := io.WriteString(w, md)
	return err
}

func renderTerminal(md string, width int) string {
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return md
	}
	rendered, err := renderer.Render(md)
	if err != nil {
		return md
	}
	return rendered
}

func terminalWidth(w io.Writer) int {
	if f, ok := w.(*os.File); ok {
		if width, _, err := term.GetSize(int(f.Fd())); err == nil && width > 0 {
			return width
		}
	}
	return 100
}
