package watch

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/odvcencio/pyaudit/internal/ignore"
)

func TestRelevant(t *testing.T) {
	root := "/proj"
	opts := Options{
		Extensions: []string{".py"},
		Extra:      []string{".pyaudit.yaml"},
		Ignore:     ignore.ParsePatterns([]string{"generated/"}),
	}
	tests := []struct {
		path string
		want bool
	}{
		{"/proj/app.py", true},
		{"/proj/pkg/mod.py", true},
		{"/proj/README.md", false},
		{"/proj/.app.py.swp", false},
		{"/proj/.pyaudit.yaml", true},
		{"/proj/generated/x.py", true},
	}
	for _, tt := range tests {
		if got := relevant(root, tt.path, opts); got != tt.want {
			t.Errorf("relevant(%s) = %v, want %v", tt.path, got, tt.want)
		}
	}

	opts.Ignore = ignore.ParsePatterns([]string{"*_pb2.py"})
	if relevant(root, "/proj/api_pb2.py", opts) {
		t.Error("excluded file should not trigger")
	}
}

func TestShouldSkipDir(t *testing.T) {
	matcher := ignore.ParsePatterns([]string{"venv/"})
	if shouldSkipDir("/proj", "/proj", matcher) {
		t.Error("root is never skipped")
	}
	for _, dir := range []string{"/proj/.git", "/proj/pkg/__pycache__", "/proj/venv"} {
		if !shouldSkipDir("/proj", dir, matcher) {
			t.Errorf("expected %s to be skipped", dir)
		}
	}
	if shouldSkipDir("/proj", "/proj/.hidden", matcher) {
		t.Error("hidden directories are analysed and must be watched")
	}
}

func TestWatchDeliversBatch(t *testing.T) {
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, "pkg"), 0o755); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	batches := make(chan []string, 4)
	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, root, Options{Debounce: 50 * time.Millisecond}, func(changed []string) {
			batches <- changed
		})
	}()

	// give the watcher time to register directories
	time.Sleep(200 * time.Millisecond)
	target := filepath.Join(root, "pkg", "mod.py")
	if err := os.WriteFile(target, []byte("x = 1\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(root, "notes.txt"), []byte("ignored"), 0o644); err != nil {
		t.Fatal(err)
	}

	select {
	case changed := <-batches:
		if len(changed) != 1 || changed[0] != target {
			t.Fatalf("unexpected batch %v", changed)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for change batch")
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Watch returned error: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Watch did not stop after cancel")
	}
}

func TestWatchMissingTarget(t *testing.T) {
	err := Watch(context.Background(), filepath.Join(t.TempDir(), "absent"), Options{}, func([]string) {})
	if err == nil {
		t.Fatal("expected error for missing target")
	}
}
