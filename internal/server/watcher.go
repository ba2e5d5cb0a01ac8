package server

import (
	"context"
	"io/fs"
	"path/filepath"
	"strings"
	"time"
)

// DefaultPollInterval is how often the watcher compares file
// modification times when no interval is configured.
const DefaultPollInterval = 500 * time.Millisecond

// Watcher polls a directory tree for file changes. Polling keeps the
// behavior identical across platforms at the cost of a small scan
// every interval; preview trees are small.
type Watcher struct {
	root     string
	interval time.Duration
}

// NewWatcher creates a watcher over root. A non-positive interval
// falls back to DefaultPollInterval.
func NewWatcher(root string, interval time.Duration) *Watcher {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	return &Watcher{root: root, interval: interval}
}

// Run polls until ctx is cancelled, invoking onChange with a changed
// path whenever the tree differs from the previous scan. Should be
// run as a goroutine.
func (w *Watcher) Run(ctx context.Context, onChange func(path string)) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	prev := w.snapshot()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			next := w.snapshot()
			if path := firstDiff(prev, next); path != "" {
				prev = next
				onChange(path)
			}
		}
	}
}

// snapshot records the modification time of every regular file under
// root, skipping hidden directories. Unreadable entries are ignored;
// they simply never report changes.
func (w *Watcher) snapshot() map[string]time.Time {
	files := make(map[string]time.Time)
	_ = filepath.WalkDir(w.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if path != w.root && strings.HasPrefix(d.Name(), ".") {
				return fs.SkipDir
			}
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return nil
		}
		files[path] = info.ModTime()
		return nil
	})
	return files
}

// firstDiff returns one path that was added, modified, or removed
// between the two snapshots, or "" when they match.
func firstDiff(prev, next map[string]time.Time) string {
	for path, mtime := range next {
		if old, ok := prev[path]; !ok || !old.Equal(mtime) {
			return path
		}
	}
	for path := range prev {
		if _, ok := next[path]; !ok {
			return path
		}
	}
	return ""
}
