// Package memory implements the db.Store facade with in-process maps.
// It backs local development and tests where no Redis is available, and is
// selected by the database.driver config the same way the redis driver is.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/truescope/devisd/internal/db"
)

// Compile-time check: Store implements db.Store.
var _ db.Store = (*Store)(nil)

// Store is a concurrency-safe in-memory document store.
type Store struct {
	mu   sync.RWMutex
	docs map[string][]byte
}

// NewStore creates an empty in-memory store.
func NewStore() *Store {
	return &Store{docs: make(map[string][]byte)}
}

// Ping always succeeds.
func (s *Store) Ping(_ context.Context) error { return nil }

// Close is a no-op.
func (s *Store) Close() {}

// WaitForReady returns immediately; the store is always ready.
func (s *Store) WaitForReady(_ context.Context, _ time.Duration) error { return nil }

// JSONSet stores a JSON document at the given key.
func (s *Store) JSONSet(_ context.Context, key string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := make([]byte, len(data))
	copy(cp, data)
	s.docs[key] = cp
	return nil
}

// JSONGet retrieves the JSON document stored at key.
func (s *Store) JSONGet(_ context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, ok := s.docs[key]
	if !ok {
		return nil, db.ErrKeyNotFound
	}
	cp := make([]byte, len(data))
	copy(cp, data)
	return cp, nil
}

// Del deletes a key.
func (s *Store) Del(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.docs, key)
	return nil
}

// Exists checks if a key exists.
func (s *Store) Exists(_ context.Context, key string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.docs[key]
	return ok, nil
}

// Scan returns keys matching a glob pattern with '*' wildcards, sorted for
// determinism (Redis SCAN gives no order; sorting here keeps tests stable).
func (s *Store) Scan(_ context.Context, pattern string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var keys []string
	for k := range s.docs {
		if globMatch(pattern, k) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys, nil
}

// globMatch matches a pattern containing '*' wildcards against s.
func globMatch(pattern, s string) bool {
	parts := strings.Split(pattern, "*")
	if len(parts) == 1 {
		return pattern == s
	}
	if !strings.HasPrefix(s, parts[0]) {
		return false
	}
	s = s[len(parts[0]):]
	for i := 1; i < len(parts)-1; i++ {
		idx := strings.Index(s, parts[i])
		if idx < 0 {
			return false
		}
		s = s[idx+len(parts[i]):]
	}
	return strings.HasSuffix(s, parts[len(parts)-1])
}
