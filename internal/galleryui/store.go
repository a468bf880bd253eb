package galleryui

import (
	"fmt"
	"time"

	"github.com/dgraph-io/ristretto/v2"
	"github.com/google/uuid"
)

// Store keeps live instances between requests. Instances nobody touched for
// the TTL expire.
type Store[T any] struct {
	cache *ristretto.Cache[string, T]
	ttl   time.Duration
}

func NewStore[T any](ttl time.Duration) (*Store[T], error) {
	cache, err := ristretto.NewCache(&ristretto.Config[string, T]{
		NumCounters:            1e5,
		MaxCost:                1e4, // number of instances
		BufferItems:            64,
		TtlTickerDurationInSec: 60,
	})
	if err != nil {
		return nil, fmt.Errorf("fail to initialize instance store: %w", err)
	}
	return &Store[T]{cache: cache, ttl: ttl}, nil
}

func NewID() string {
	return uuid.NewString()
}

func (s *Store[T]) Put(id string, v T) {
	s.cache.SetWithTTL(id, v, 1, s.ttl)
	s.cache.Wait()
}

// Get returns the instance and extends its lifetime.
func (s *Store[T]) Get(id string) (T, bool) {
	v, ok := s.cache.Get(id)
	if ok {
		s.cache.SetWithTTL(id, v, 1, s.ttl)
	}
	return v, ok
}

func (s *Store[T]) Delete(id string) {
	s.cache.Del(id)
}

func (s *Store[T]) Close() {
	s.cache.Close()
}
