package vault

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// LocalStorage serves a vault directory from disk.
type LocalStorage struct {
	root  string
	watch bool

	mu      sync.Mutex
	watcher *fsnotify.Watcher
}

func NewLocalStorage(root string, watch bool) (*LocalStorage, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve vault root: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("stat vault root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("vault root %s is not a directory", abs)
	}
	return &LocalStorage{root: abs, watch: watch}, nil
}

// safePath resolves a vault path against the root and rejects anything that
// would leave it.
func (s *LocalStorage) safePath(p string) (string, error) {
	absPath := filepath.Join(s.root, filepath.FromSlash(p))
	if !strings.HasPrefix(absPath, s.root+string(filepath.Separator)) && absPath != s.root {
		return "", fmt.Errorf("%w: %s", ErrPathEscape, p)
	}
	return absPath, nil
}

func isHidden(name string) bool {
	return strings.HasPrefix(name, ".")
}

func (s *LocalStorage) List(ctx context.Context) ([]Resource, error) {
	resources := make([]Resource, 0)
	err := filepath.WalkDir(s.root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if p == s.root {
			return nil
		}
		if isHidden(d.Name()) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return nil
		}
		rel, err := filepath.Rel(s.root, p)
		if err != nil {
			return nil
		}
		resources = append(resources, NewResource(filepath.ToSlash(rel), info.Size(), info.ModTime()))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk vault directory: %w", err)
	}
	return resources, nil
}

// ListFolders lists every visible directory under the root, empty ones
// included.
func (s *LocalStorage) ListFolders(ctx context.Context) ([]string, error) {
	folders := make([]string, 0)
	err := filepath.WalkDir(s.root, func(p string, d fs.DirEntry, err error) error {
		if err != nil || !d.IsDir() || p == s.root {
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if isHidden(d.Name()) {
			return filepath.SkipDir
		}
		rel, err := filepath.Rel(s.root, p)
		if err != nil {
			return nil
		}
		folders = append(folders, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk vault directory: %w", err)
	}
	return folders, nil
}

func (s *LocalStorage) Read(ctx context.Context, p string) ([]byte, error) {
	absPath, err := s.safePath(p)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(absPath)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNotExist, p)
	}
	return data, err
}

// Write replaces the file through a temporary sibling and a rename.
func (s *LocalStorage) Write(ctx context.Context, p string, data []byte) error {
	absPath, err := s.safePath(p)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(absPath), 0o755); err != nil {
		return fmt.Errorf("create folder: %w", err)
	}
	tmp := absPath + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := os.Rename(tmp, absPath); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}

func (s *LocalStorage) Capabilities() Capabilities {
	return Capabilities{Watch: s.watch, Write: true}
}

// Watch calls onChange after file system activity in the vault has been quiet
// for the debounce interval. It returns once the watcher is running and stops
// when ctx is done.
func (s *LocalStorage) Watch(ctx context.Context, debounce time.Duration, onChange func()) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	if err := s.addWatcherDirs(watcher, s.root); err != nil {
		watcher.Close()
		return fmt.Errorf("add directories to watcher: %w", err)
	}

	s.mu.Lock()
	s.watcher = watcher
	s.mu.Unlock()

	go s.watchLoop(ctx, watcher, debounce, onChange)
	return nil
}

func (s *LocalStorage) addWatcherDirs(watcher *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil || !d.IsDir() {
			return nil
		}
		if isHidden(d.Name()) && p != root {
			return filepath.SkipDir
		}
		return watcher.Add(p)
	})
}

func (s *LocalStorage) watchLoop(ctx context.Context, watcher *fsnotify.Watcher, debounce time.Duration, onChange func()) {
	defer watcher.Close()

	var timer *time.Timer
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if strings.Contains(filepath.ToSlash(strings.TrimPrefix(event.Name, s.root)), "/.") {
				continue
			}
			if event.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := s.addWatcherDirs(watcher, event.Name); err != nil {
						slog.Warn("failed to watch new folder", slog.String("path", event.Name), slog.String("error", err.Error()))
					}
				}
			}
			if timer == nil {
				timer = time.AfterFunc(debounce, onChange)
			} else {
				timer.Reset(debounce)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			slog.Error("vault watcher error", slog.String("error", err.Error()))
		}
	}
}

func (s *LocalStorage) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.watcher != nil {
		err := s.watcher.Close()
		s.watcher = nil
		return err
	}
	return nil
}
