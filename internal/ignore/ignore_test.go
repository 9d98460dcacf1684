package ignore

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestParsePatterns_BlankAndComments(t *testing.T) {
	m := ParsePatterns([]string{"", "  ", "# comment", "  # indented comment", "/", "!"})
	if m.Len() != 0 {
		t.Fatalf("expected 0 patterns, got %d", m.Len())
	}
}

func TestMatch_LiteralName(t *testing.T) {
	m := ParsePatterns([]string{"settings.py"})
	if !m.Match("settings.py", false) {
		t.Error("expected match on exact name")
	}
	if !m.Match("app/settings.py", false) {
		t.Error("expected match on nested path")
	}
	if m.Match("settings.pyc", false) {
		t.Error("unexpected match on different name")
	}
}

func TestMatch_GlobPattern(t *testing.T) {
	m := ParsePatterns([]string{"test_*.py"})
	if !m.Match("test_engine.py", false) {
		t.Error("expected match on test file")
	}
	if !m.Match("tests/test_engine.py", false) {
		t.Error("expected match on nested test file")
	}
	if m.Match("engine.py", false) {
		t.Error("unexpected match on regular file")
	}
}

func TestMatch_DirectoryPattern(t *testing.T) {
	m := ParsePatterns([]string{"venv/"})
	if !m.Match("venv", true) {
		t.Error("expected match on directory")
	}
	if m.Match("venv", false) {
		t.Error("unexpected match on file named venv")
	}
	if !m.Match("services/api/venv", true) {
		t.Error("expected match on nested directory")
	}
}

func TestMatch_Anchored(t *testing.T) {
	m := ParsePatterns([]string{"/build"})
	if !m.Match("build", true) {
		t.Error("expected anchored match at root")
	}
	if m.Match("src/build", true) {
		t.Error("anchored pattern must not match below root")
	}
}

func TestMatch_Negation(t *testing.T) {
	m := ParsePatterns([]string{"*_pb2.py", "!keep_pb2.py"})
	if !m.Match("api_pb2.py", false) {
		t.Error("expected match on generated file")
	}
	if m.Match("keep_pb2.py", false) {
		t.Error("unexpected match on negated file")
	}
}

func TestMatch_PathWithSlash(t *testing.T) {
	m := ParsePatterns([]string{"migrations/versions/*"})
	if !m.Match("migrations/versions/0001_init.py", false) {
		t.Error("expected match on path pattern")
	}
	if m.Match("migrations/env.py", false) {
		t.Error("unexpected match on non-matching path")
	}
	if !m.Match("./migrations/versions/0002.py", false) {
		t.Error("expected leading ./ to be ignored")
	}
}

func TestMatch_NilAndEmpty(t *testing.T) {
	var m *Matcher
	if m.Match("anything", false) {
		t.Error("nil matcher should never match")
	}
	if ParsePatterns(nil).Match("anything", false) {
		t.Error("empty matcher should never match")
	}
}

func TestMerge(t *testing.T) {
	base := ParsePatterns([]string{"*.py"})
	override := ParsePatterns([]string{"!main.py"})
	merged := base.Merge(override)
	if merged.Match("main.py", false) {
		t.Error("later patterns should take precedence")
	}
	if !merged.Match("util.py", false) {
		t.Error("expected base pattern to still apply")
	}
	if !reflect.DeepEqual(merged.Patterns(), []string{"*.py", "!main.py"}) {
		t.Fatalf("unexpected merged patterns %v", merged.Patterns())
	}

	var nilMatcher *Matcher
	if nilMatcher.Merge(base).Len() != 1 {
		t.Error("merging into nil should keep other patterns")
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, FileName)
	content := "*.pyc\n# comment\nbuild/\n!important.pyc\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	m, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if m.Len() != 3 {
		t.Fatalf("expected 3 patterns, got %d", m.Len())
	}
	if !m.Match("cache.pyc", false) {
		t.Error("expected match on .pyc")
	}
	if m.Match("important.pyc", false) {
		t.Error("unexpected match on negated pattern")
	}
	if !m.Match("build", true) {
		t.Error("expected match on build dir")
	}

	fromRoot, err := LoadRoot(dir)
	if err != nil {
		t.Fatal(err)
	}
	if fromRoot.Len() != 3 {
		t.Fatalf("LoadRoot: expected 3 patterns, got %d", fromRoot.Len())
	}
}

func TestLoad_NotFound(t *testing.T) {
	if _, err := Load("/nonexistent/" + FileName); err == nil {
		t.Error("expected error for missing file")
	}

	m, err := LoadRoot(t.TempDir())
	if err != nil {
		t.Fatalf("LoadRoot on a root without the file: %v", err)
	}
	if m.Len() != 0 {
		t.Fatalf("expected empty matcher, got %d patterns", m.Len())
	}
}
