package imageloader

import (
	"sync"
)

// Service owns the loader shared by every gallery of the process.
type Service struct {
	fetcher Fetcher
	opts    []Option

	mu     sync.RWMutex
	loader *Loader
}

func NewService(fetcher Fetcher, opts ...Option) *Service {
	return &Service{fetcher: fetcher, opts: opts}
}

// Init creates the shared loader. Calling it again keeps the existing one.
func (s *Service) Init() *Loader {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loader == nil {
		s.loader = New(s.fetcher, s.opts...)
	}
	return s.loader
}

// Loader returns the shared loader, initializing it when needed.
func (s *Service) Loader() *Loader {
	s.mu.RLock()
	loader := s.loader
	s.mu.RUnlock()
	if loader != nil {
		return loader
	}
	return s.Init()
}

// Cleanup waits for background preloads and forgets every cached result.
func (s *Service) Cleanup() {
	s.mu.Lock()
	loader := s.loader
	s.loader = nil
	s.mu.Unlock()

	if loader != nil {
		loader.Wait()
		loader.Clear()
	}
}
