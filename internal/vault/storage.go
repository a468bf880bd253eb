package vault

import (
	"context"
	"maps"
	"slices"
	"sync"
	"time"
)

// Storage is a backend holding the vault files.
type Storage interface {
	List(ctx context.Context) ([]Resource, error)
	Read(ctx context.Context, p string) ([]byte, error)
	Write(ctx context.Context, p string, data []byte) error
	Capabilities() Capabilities
}

// FolderLister is implemented by backends with real directories, so that
// folders holding no files are still known to the index.
type FolderLister interface {
	ListFolders(ctx context.Context) ([]string, error)
}

// MemoryStorage keeps the vault in memory. It backs the render command for
// ad hoc vaults and the tests.
type MemoryStorage struct {
	mu    sync.RWMutex
	files map[string][]byte
	times map[string]time.Time
}

func NewMemoryStorage(files map[string]string) *MemoryStorage {
	s := &MemoryStorage{
		files: make(map[string][]byte, len(files)),
		times: make(map[string]time.Time, len(files)),
	}
	now := time.Now()
	for p, content := range files {
		s.files[p] = []byte(content)
		s.times[p] = now
	}
	return s
}

func (s *MemoryStorage) List(ctx context.Context) ([]Resource, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	resources := make([]Resource, 0, len(s.files))
	for _, p := range slices.Sorted(maps.Keys(s.files)) {
		resources = append(resources, NewResource(p, int64(len(s.files[p])), s.times[p]))
	}
	return resources, nil
}

func (s *MemoryStorage) Read(ctx context.Context, p string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, ok := s.files[p]
	if !ok {
		return nil, ErrNotExist
	}
	return slices.Clone(data), nil
}

func (s *MemoryStorage) Write(ctx context.Context, p string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.files[p] = slices.Clone(data)
	s.times[p] = time.Now()
	return nil
}

func (s *MemoryStorage) Capabilities() Capabilities {
	return Capabilities{Write: true}
}
