package middleware

import (
	"context"
	"sync"
	"time"
)

type windowCounter struct {
	count   int64
	expires time.Time
}

// MemoryStore is a process-local RateLimiterStore used when no redis URL is
// configured. Counters reset when their window elapses.
type MemoryStore struct {
	mu       sync.Mutex
	counters map[string]*windowCounter
	now      func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		counters: make(map[string]*windowCounter),
		now:      time.Now,
	}
}

func (s *MemoryStore) IncrWithTTL(_ context.Context, key string, ttl time.Duration) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	counter, ok := s.counters[key]
	if !ok || (!counter.expires.IsZero() && now.After(counter.expires)) {
		counter = &windowCounter{}
		if ttl > 0 {
			counter.expires = now.Add(ttl)
		}
		s.counters[key] = counter
	}
	counter.count++
	return counter.count, nil
}
