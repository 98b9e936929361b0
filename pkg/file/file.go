// Package file provides a settle.Predicate backed by a list of entries in a
// local file, such as reserved usernames. The list can be reloaded whenever
// the file is written.
//
// The file holds one entry per line. Blank lines and lines starting with '#'
// are ignored:
//
//	# reserved
//	admin
//	root
package file

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/zoobzio/settle"
)

// List reports whether a value appears in a file of entries.
type List struct {
	path     string
	fold     bool
	onReload func(entries int, err error)

	mu      sync.RWMutex
	entries map[string]struct{}
}

// Option configures a List.
type Option func(*List)

// WithCaseFold matches entries case-insensitively.
func WithCaseFold() Option {
	return func(l *List) {
		l.fold = true
	}
}

// OnReload registers fn to be called after every reload attempted by Watch,
// with the new entry count or the error that kept the previous entries.
func OnReload(fn func(entries int, err error)) Option {
	return func(l *List) {
		l.onReload = fn
	}
}

// New creates a List for the file at path. Call Load or Watch before use.
func New(path string, opts ...Option) *List {
	l := &List{
		path:    path,
		entries: make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func (l *List) normalize(s string) string {
	s = strings.TrimSpace(s)
	if l.fold {
		s = strings.ToLower(s)
	}
	return s
}

// Load reads the file and replaces the entries. On error the previous
// entries are kept.
func (l *List) Load() error {
	data, err := os.ReadFile(l.path)
	if err != nil {
		return fmt.Errorf("reading list %s: %w", l.path, err)
	}

	entries := make(map[string]struct{})
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		line := l.normalize(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		entries[line] = struct{}{}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("parsing list %s: %w", l.path, err)
	}

	l.mu.Lock()
	l.entries = entries
	l.mu.Unlock()
	return nil
}

// Watch loads the file and reloads it on every write until ctx ends.
//
// A Validator caches outcomes, so values checked before a reload keep their
// old outcome until evicted.
func (l *List) Watch(ctx context.Context) error {
	if err := l.Load(); err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}
	if err := watcher.Add(l.path); err != nil {
		watcher.Close()
		return fmt.Errorf("failed to watch file %s: %w", l.path, err)
	}

	go func() {
		defer watcher.Close()

		for {
			select {
			case <-ctx.Done():
				return

			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
					continue
				}
				err := l.Load()
				if l.onReload != nil {
					l.onReload(l.Len(), err)
				}

			case _, ok := <-watcher.Errors:
				if !ok {
					return
				}
			}
		}
	}()

	return nil
}

// Len returns the number of entries.
func (l *List) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.entries)
}

// Exists reports whether value is listed.
func (l *List) Exists(_ context.Context, value string) (bool, error) {
	key := l.normalize(value)
	l.mu.RLock()
	defer l.mu.RUnlock()
	_, ok := l.entries[key]
	return ok, nil
}

// Predicate returns Exists as a settle.Predicate.
func (l *List) Predicate() settle.Predicate[string] {
	return l.Exists
}
