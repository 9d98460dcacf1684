package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/odvcencio/pyaudit/internal/config"
	"github.com/odvcencio/pyaudit/internal/optimize"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func writeProject(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		path := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	return dir
}

func TestRootCmd_HasCommandsAndAliases(t *testing.T) {
	root := newRootCmd()
	for _, name := range []string{"analyze", "report", "report-html", "optimize", "watch"} {
		found, _, err := root.Find([]string{name})
		if err != nil || found == root {
			t.Fatalf("missing command %q (err=%v)", name, err)
		}
	}
	for _, flag := range []string{"config", "verbose", "workers"} {
		if root.PersistentFlags().Lookup(flag) == nil {
			t.Fatalf("missing persistent flag --%s", flag)
		}
	}
}

func TestRootCmd_UnknownCommand(t *testing.T) {
	if _, err := execute(t, "unknown-command"); err == nil {
		t.Fatal("expected unknown command to return error")
	}
}

func TestAnalyze_TextSummary(t *testing.T) {
	dir := writeProject(t, map[string]string{
		"app.py": "def run():\n    return 1\n",
	})

	out, err := execute(t, "analyze", dir)
	if err != nil {
		t.Fatalf("analyze returned error: %v", err)
	}
	for _, want := range []string{
		"ANALYSIS SUMMARY",
		"Analyzed files: 1",
		"Missing docstrings:",
		"Missing docstring in function 'run'",
		"END OF REPORT",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}
	if strings.Contains(out, "\x1b[") {
		t.Fatalf("expected unstyled output for a non-terminal writer:\n%s", out)
	}
}

func TestAnalyze_JSON(t *testing.T) {
	dir := writeProject(t, map[string]string{
		"a.py": "import b\n",
		"b.py": "import a\n",
	})

	out, err := execute(t, "analyze", "--json", dir)
	if err != nil {
		t.Fatalf("analyze returned error: %v", err)
	}
	var payload struct {
		Files        []string          `json:"files"`
		ImportCycles []json.RawMessage `json:"import_cycles"`
		Complexity   map[string]int    `json:"complexity"`
	}
	if err := json.Unmarshal([]byte(out), &payload); err != nil {
		t.Fatalf("decode JSON: %v\n%s", err, out)
	}
	if len(payload.Files) != 2 {
		t.Fatalf("expected 2 files, got %v", payload.Files)
	}
	if len(payload.ImportCycles) != 2 {
		t.Fatalf("expected 2 cycle findings, got %d", len(payload.ImportCycles))
	}
	if len(payload.Complexity) != 2 {
		t.Fatalf("expected complexity for both files, got %v", payload.Complexity)
	}
}

func TestAnalyze_ExclusiveFormats(t *testing.T) {
	dir := writeProject(t, map[string]string{"a.py": "x = 1\n"})
	if _, err := execute(t, "analyze", "--json", "--markdown", dir); err == nil {
		t.Fatal("expected error for --json with --markdown")
	}
}

func TestAnalyze_InvalidRootExitCode(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "missing")

	out, err := execute(t, "analyze", missing)
	if err == nil {
		t.Fatal("expected invalid root error")
	}
	var withCode interface{ ExitCode() int }
	if !errors.As(err, &withCode) || withCode.ExitCode() != 2 {
		t.Fatalf("expected exit code 2, got %v", err)
	}
	if !strings.Contains(out, "Invalid path: "+missing) {
		t.Fatalf("expected invalid path finding in output:\n%s", out)
	}
}

func TestAnalyze_WorkersFlag(t *testing.T) {
	files := map[string]string{}
	for _, name := range []string{"a", "b", "c", "d", "e"} {
		files[name+".py"] = "\"\"\"Doc.\"\"\"\nimport os\n"
	}
	dir := writeProject(t, files)

	sequential, err := execute(t, "analyze", "--json", dir)
	if err != nil {
		t.Fatalf("sequential analyze: %v", err)
	}
	parallel, err := execute(t, "analyze", "--json", "--workers", "4", dir)
	if err != nil {
		t.Fatalf("parallel analyze: %v", err)
	}
	if sequential != parallel {
		t.Fatalf("worker pool changed the results:\n%s\nvs\n%s", sequential, parallel)
	}
}

func TestReport_WritesHTML(t *testing.T) {
	dir := writeProject(t, map[string]string{"app.py": "x = 1 \n"})
	output := filepath.Join(t.TempDir(), "out.html")

	out, err := execute(t, "report-html", dir, "-o", output)
	if err != nil {
		t.Fatalf("report returned error: %v", err)
	}
	if !strings.Contains(out, "HTML report written to: "+output) {
		t.Fatalf("unexpected output %q", out)
	}
	data, err := os.ReadFile(output)
	if err != nil {
		t.Fatalf("read report: %v", err)
	}
	html := string(data)
	if !strings.HasPrefix(html, "<!DOCTYPE html>") {
		t.Fatalf("expected an HTML document, got %q", html[:min(len(html), 40)])
	}
	if !strings.Contains(html, "Trailing whitespace") {
		t.Fatal("expected the style finding in the report")
	}
}

func TestReport_JSONToStdout(t *testing.T) {
	dir := writeProject(t, map[string]string{"app.py": "x = 1\n"})

	out, err := execute(t, "report", "--format", "json", dir)
	if err != nil {
		t.Fatalf("report returned error: %v", err)
	}
	var payload map[string]any
	if err := json.Unmarshal([]byte(out), &payload); err != nil {
		t.Fatalf("decode JSON: %v\n%s", err, out)
	}
	if _, ok := payload["files"]; !ok {
		t.Fatalf("expected files key in %v", payload)
	}
}

func TestReport_MarkdownUsesConfiguredTitle(t *testing.T) {
	dir := writeProject(t, map[string]string{
		"app.py":        "x = 1\n",
		".pyaudit.yaml": "report:\n  title: Nightly Audit\n",
	})

	out, err := execute(t, "report", "--format", "markdown", dir)
	if err != nil {
		t.Fatalf("report returned error: %v", err)
	}
	if !strings.HasPrefix(out, "# Nightly Audit\n") {
		t.Fatalf("expected configured title, got:\n%s", out)
	}
}

func TestReport_UnsupportedFormat(t *testing.T) {
	dir := writeProject(t, map[string]string{"app.py": "x = 1\n"})
	if _, err := execute(t, "report", "--format", "pdf", dir); err == nil {
		t.Fatal("expected unsupported format error")
	}
}

func TestOptimize_MissingTools(t *testing.T) {
	dir := writeProject(t, map[string]string{
		"app.py":        "import os\n",
		".pyaudit.yaml": "optimize:\n  tools:\n    - name: pyaudit-test-missing-tool\n",
	})

	_, err := execute(t, "optimize", dir)
	if err == nil {
		t.Fatal("expected missing tool error")
	}
	if !optimize.IsMissingTools(err) {
		t.Fatalf("expected missing tools error, got %v", err)
	}
	if _, statErr := os.Stat(filepath.Join(dir, "app_optimized.py")); statErr == nil {
		t.Fatal("no copy should be written when preflight fails")
	}
}

func TestOptimize_InvalidPath(t *testing.T) {
	_, err := execute(t, "optimize", filepath.Join(t.TempDir(), "missing"))
	var withCode interface{ ExitCode() int }
	if !errors.As(err, &withCode) || withCode.ExitCode() != 2 {
		t.Fatalf("expected exit code 2, got %v", err)
	}
}

func TestLoadConfig_WorkersOverride(t *testing.T) {
	t.Setenv(config.WorkersEnv, "")
	dir := writeProject(t, map[string]string{".pyaudit.yaml": "workers: 2\n"})

	cfg, path, err := loadConfig(&globalOptions{}, dir)
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if path == "" || cfg.Workers != 2 {
		t.Fatalf("expected config file workers=2, got %d from %q", cfg.Workers, path)
	}

	cfg, _, err = loadConfig(&globalOptions{workers: 6}, dir)
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.Workers != 6 {
		t.Fatalf("expected --workers to win, got %d", cfg.Workers)
	}
}
