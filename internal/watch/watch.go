// Package watch re-triggers analysis when source files under a root change.
package watch

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	charmlog "github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"

	"github.com/odvcencio/pyaudit/internal/ignore"
)

// DefaultDebounce is the quiet period after the last event before a batch is delivered.
const DefaultDebounce = 250 * time.Millisecond

type Options struct {
	Debounce time.Duration
	// Extensions selects the files whose changes matter. Defaults to ".py".
	Extensions []string
	// Extra names files that always trigger, such as configuration files.
	Extra  []string
	Ignore *ignore.Matcher
	Logger *charmlog.Logger
}

// Watch blocks until ctx is done, calling onChange with the sorted changed paths of every
// settled batch. onChange runs on the watch goroutine, so events arriving during a run are
// collected into the next batch.
func Watch(ctx context.Context, target string, opts Options, onChange func(changed []string)) error {
	root, err := watchRoot(target)
	if err != nil {
		return err
	}
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	if len(opts.Extensions) == 0 {
		opts.Extensions = []string{".py"}
	}
	if opts.Logger == nil {
		opts.Logger = charmlog.New(io.Discard)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := addWatchRecursive(watcher, root, root, opts.Ignore); err != nil {
		return err
	}
	opts.Logger.Debug("watching", "root", root)

	timer := time.NewTimer(time.Hour)
	if !timer.Stop() {
		<-timer.C
	}
	pending := map[string]bool{}

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}

			eventPath := filepath.Clean(event.Name)
			if event.Op&fsnotify.Create != 0 {
				if info, statErr := os.Stat(eventPath); statErr == nil && info.IsDir() {
					if !shouldSkipDir(root, eventPath, opts.Ignore) {
						_ = addWatchRecursive(watcher, eventPath, root, opts.Ignore)
						// files created before the watch was added
						pending[eventPath] = true
						timer.Reset(opts.Debounce)
					}
					continue
				}
			}
			if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			if !relevant(root, eventPath, opts) {
				continue
			}
			opts.Logger.Debug("change", "path", eventPath, "op", event.Op.String())
			pending[eventPath] = true
			timer.Reset(opts.Debounce)
		case <-timer.C:
			if len(pending) == 0 {
				continue
			}
			changed := make([]string, 0, len(pending))
			for path := range pending {
				changed = append(changed, path)
			}
			sort.Strings(changed)
			pending = map[string]bool{}
			onChange(changed)
		case watchErr, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			return watchErr
		}
	}
}

// watchRoot is target for a directory and its parent for a file.
func watchRoot(target string) (string, error) {
	abs, err := filepath.Abs(target)
	if err != nil {
		return "", err
	}
	abs = filepath.Clean(abs)

	info, err := os.Stat(abs)
	if err != nil {
		return "", err
	}
	if info.IsDir() {
		return abs, nil
	}
	return filepath.Dir(abs), nil
}

func addWatchRecursive(watcher *fsnotify.Watcher, dir, root string, matcher *ignore.Matcher) error {
	return filepath.WalkDir(filepath.Clean(dir), func(path string, entry os.DirEntry, walkErr error) error {
		if walkErr != nil {
			if path == dir {
				return walkErr
			}
			return nil
		}
		if !entry.IsDir() {
			return nil
		}
		if shouldSkipDir(root, path, matcher) {
			return filepath.SkipDir
		}
		return watcher.Add(path)
	})
}

func shouldSkipDir(root, path string, matcher *ignore.Matcher) bool {
	if path == root {
		return false
	}
	switch filepath.Base(path) {
	case ".git", ".hg", ".svn", "__pycache__":
		return true
	}
	if rel, err := filepath.Rel(root, path); err == nil {
		return matcher.Match(filepath.ToSlash(rel), true)
	}
	return false
}

// relevant reports whether a changed file should trigger a run.
func relevant(root, path string, opts Options) bool {
	base := filepath.Base(path)
	if base == ".DS_Store" || strings.HasSuffix(base, ".swp") || strings.HasSuffix(base, ".swx") || strings.HasPrefix(base, ".#") {
		return false
	}
	for _, name := range opts.Extra {
		if base == name {
			return true
		}
	}
	if rel, err := filepath.Rel(root, path); err == nil && opts.Ignore.Match(filepath.ToSlash(rel), false) {
		return false
	}
	for _, ext := range opts.Extensions {
		if strings.HasSuffix(base, ext) {
			return true
		}
	}
	return false
}
