package report

import (
	"html/template"
	"io"
	"strings"
	"time"

	"github.com/odvcencio/pyaudit/pkg/model"
)

// DefaultTitle is used when HTMLOptions.Title is empty.
const DefaultTitle = "Code Analysis Report"

type HTMLOptions struct {
	Title       string
	GeneratedAt time.Time
}

type htmlSection struct {
	Title string
	Items []string
}

type htmlPage struct {
	Title       string
	GeneratedAt string
	Summary     string
	Sections    []htmlSection
	Clusters    []string
}

// RenderHTML writes a standalone HTML document. Text is escaped by html/template.
func RenderHTML(w io.Writer, r *model.Results, opts HTMLOptions) error {
	title := strings.TrimSpace(opts.Title)
	if title == "" {
		title = DefaultTitle
	}
	generated := opts.GeneratedAt
	if generated.IsZero() {
		generated = time.Now()
	}

	page := htmlPage{
		Title:       title,
		GeneratedAt: generated.Format("2006-01-02 15:04:05"),
		Summary:     BuildSummary(r.Counts()),
	}
	for _, section := range Sections(r) {
		items := make([]string, 0, len(section.Findings))
		for _, f := range section.Findings {
			items = append(items, f.String())
		}
		page.Sections = append(page.Sections, htmlSection{Title: section.Title, Items: items})
	}
	if r != nil {
		for _, cluster := range r.ImportClusters {
			page.Clusters = append(page.Clusters, strings.Join(cluster, ", "))
		}
	}
	return htmlTmpl.Execute(w, page)
}

var htmlTmpl = template.Must(template.New("report").Parse(htmlTemplate))

const htmlTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
body { font-family: Arial, sans-serif; padding: 20px; }
h1 { color: #004c97; }
h2 { color: #0077cc; margin-top: 24px; }
ul { margin-left: 20px; }
li { margin-bottom: 4px; }
p { line-height: 1.4; }
</style>
</head>
<body>
<h1>{{.Title}}</h1>
<p>Generated on {{.GeneratedAt}}</p>
<h2>Summary</h2>
<p>{{.Summary}}</p>
{{range .Sections}}<h2>{{.Title}}</h2>
{{if .Items}}<ul>
{{range .Items}}<li>{{.}}</li>
{{end}}</ul>
{{else}}<p>No items.</p>
{{end}}{{end}}<h2>Import clusters</h2>
{{if .Clusters}}<ul>
{{range .Clusters}}<li>{{.}}</li>
{{end}}</ul>
{{else}}<p>No items.</p>
{{end}}</body>
</html>
`
