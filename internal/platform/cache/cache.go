// Package cache provides the in-process TTL store backing memoized reads.
// Entries are grouped by key prefix so mutating operations can evict whole
// groups at once.
package cache

import (
	"strings"
	"sync"
	"time"
)

const keySeparator = ":"

// Store is a bounded TTL cache. When full, the entry closest to expiry is
// evicted to make room.
type Store struct {
	mu         sync.RWMutex
	entries    map[string]entry
	ttl        time.Duration
	maxEntries int
	now        func() time.Time
}

type entry struct {
	value     any
	expiresAt time.Time
}

// New builds a store with the given entry lifetime and capacity.
func New(ttl time.Duration, maxEntries int) *Store {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	if maxEntries <= 0 {
		maxEntries = 500
	}
	return &Store{
		entries:    map[string]entry{},
		ttl:        ttl,
		maxEntries: maxEntries,
		now:        time.Now,
	}
}

// Key joins a group and its discriminator into a cache key.
func Key(group string, rest ...string) string {
	return group + keySeparator + strings.Join(rest, "_")
}

// Get returns the live value for key, if any.
func (s *Store) Get(key string) (any, bool) {
	s.mu.RLock()
	e, ok := s.entries[key]
	s.mu.RUnlock()
	if !ok || s.now().After(e.expiresAt) {
		return nil, false
	}
	return e.value, true
}

// Set stores value under key for the configured TTL.
func (s *Store) Set(key string, value any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.entries) >= s.maxEntries {
		if _, exists := s.entries[key]; !exists {
			s.evictOldestLocked()
		}
	}
	s.entries[key] = entry{value: value, expiresAt: s.now().Add(s.ttl)}
}

// InvalidateGroups drops every entry whose key belongs to one of the groups.
func (s *Store) InvalidateGroups(groups ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, group := range groups {
		prefix := group + keySeparator
		for key := range s.entries {
			if strings.HasPrefix(key, prefix) {
				delete(s.entries, key)
			}
		}
	}
}

// Len reports the number of stored entries, expired or not.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

func (s *Store) evictOldestLocked() {
	var oldestKey string
	var oldest time.Time
	first := true
	for key, e := range s.entries {
		if first || e.expiresAt.Before(oldest) {
			oldestKey, oldest = key, e.expiresAt
			first = false
		}
	}
	if !first {
		delete(s.entries, oldestKey)
	}
}
