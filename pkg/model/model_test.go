package model

import (
	"reflect"
	"testing"
)

func TestSplitLines(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{name: "empty", text: "", want: nil},
		{name: "no trailing newline", text: "a\nb", want: []string{"a", "b"}},
		{name: "trailing newline", text: "a\nb\n", want: []string{"a", "b"}},
		{name: "crlf", text: "a\r\nb\r\n", want: []string{"a", "b"}},
		{name: "bare cr", text: "a\rb", want: []string{"a", "b"}},
		{name: "blank lines kept", text: "a\n\n\nb\n", want: []string{"a", "", "", "b"}},
		{name: "only newline", text: "\n", want: []string{""}},
		{name: "crlf at end", text: "a\r\n", want: []string{"a"}},
		{name: "form feed", text: "x = 1\n\x0c\ny = 2 \n", want: []string{"x = 1", "", "", "y = 2 "}},
		{name: "vertical tab and separators", text: "a\vb\x1cc\x1dd\x1ee", want: []string{"a", "b", "c", "d", "e"}},
		{name: "unicode boundaries", text: "a\u0085b\u2028c\u2029d", want: []string{"a", "b", "c", "d"}},
		{name: "other unicode kept", text: "caf\u00e9\n", want: []string{"caf\u00e9"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SplitLines(tt.text); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("SplitLines(%q) = %#v, want %#v", tt.text, got, tt.want)
			}
		})
	}
}

func TestFindingString(t *testing.T) {
	withLine := FileFinding(KindStyle, "pkg/a.py", 3, "Trailing whitespace")
	if got := withLine.String(); got != "pkg/a.py:3 -> Trailing whitespace" {
		t.Errorf("unexpected rendering %q", got)
	}

	noLine := FileFinding(KindWarning, "pkg/a.py", 0, "pkg/a.py has high cyclomatic complexity: 14")
	if got := noLine.String(); got != "pkg/a.py has high cyclomatic complexity: 14" {
		t.Errorf("unexpected rendering %q", got)
	}

	multi := Finding{Kind: KindDuplicate, Files: []string{"a.py", "b.py"}, Message: "Possible duplicate code in: a.py, b.py"}
	if got := multi.String(); got != "Possible duplicate code in: a.py, b.py" {
		t.Errorf("unexpected rendering %q", got)
	}
}

func TestImportGraphAdd(t *testing.T) {
	var g ImportGraph
	g.Add("b", "os")
	g.Add("a")
	g.Add("b", "sys", "os")

	if !reflect.DeepEqual(g.Modules, []string{"b", "a"}) {
		t.Fatalf("unexpected module order %v", g.Modules)
	}
	if got := g.Imports("b"); !reflect.DeepEqual(got, []string{"os", "sys", "os"}) {
		t.Fatalf("expected concatenated edges for colliding module, got %v", got)
	}
	if got := g.Imports("a"); got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil edge list for a, got %#v", got)
	}
	if g.Has("missing") {
		t.Fatal("unexpected module")
	}
	if g.Len() != 2 {
		t.Fatalf("expected 2 modules, got %d", g.Len())
	}
}

func TestResultsAddAndCounts(t *testing.T) {
	r := NewResults("/tmp/project")
	r.Files = append(r.Files, "a.py", "b.py")
	r.Add(FileFinding(KindError, "a.py", 0, "Cannot read file: a.py"))
	r.Add(FileFinding(KindWarning, "b.py", 4, "Deep nesting (5 levels)"))
	r.Add(FileFinding(KindMissingDoc, "b.py", 1, "Missing docstring in function 'f'"))
	r.Add(FileFinding(KindStyle, "b.py", 1, "Trailing whitespace"))
	r.Add(FileFinding(KindStyle, "b.py", 2, "Trailing whitespace"))
	r.Add(Finding{Kind: KindImportCycle, Message: "Cycle detected: a -> b -> a"})
	r.Add(Finding{Kind: KindDuplicate, Message: "Possible duplicate code in: a.py, b.py"})

	want := Counts{Files: 2, Errors: 1, Warnings: 1, MissingDocs: 1, StyleIssues: 2, ImportCycles: 1, Duplicates: 1}
	if got := r.Counts(); got != want {
		t.Fatalf("Counts() = %+v, want %+v", got, want)
	}
	if got := r.FindingCount(); got != 7 {
		t.Fatalf("FindingCount() = %d, want 7", got)
	}
}

func TestNilResultsCounts(t *testing.T) {
	var r *Results
	if got := r.Counts(); got != (Counts{}) {
		t.Fatalf("expected zero counts, got %+v", got)
	}
	if r.FileCount() != 0 {
		t.Fatal("expected zero file count")
	}
}

func TestSyntaxErrorMessage(t *testing.T) {
	err := &SyntaxError{Path: "a.py", Line: 7, Message: "invalid syntax"}
	if got := err.Error(); got != "invalid syntax (line 7)" {
		t.Fatalf("unexpected error text %q", got)
	}
}
