package viewstore

import (
	"container/list"
	"context"
	"sync"
	"time"
)

type memoryEntry struct {
	key       string
	value     []byte
	expiresAt time.Time
}

// MemoryStore is an LRU store with TTL support, bounded by maxEntries.
type MemoryStore struct {
	mu         sync.Mutex
	items      map[string]*list.Element
	order      *list.List
	maxEntries int
	ttl        time.Duration
	now        func() time.Time
}

func NewMemoryStore(maxEntries int, ttl time.Duration) *MemoryStore {
	if maxEntries <= 0 {
		maxEntries = 1024
	}
	return &MemoryStore{
		items:      make(map[string]*list.Element, maxEntries),
		order:      list.New(),
		maxEntries: maxEntries,
		ttl:        ttl,
		now:        time.Now,
	}
}

// WithClock overrides the clock used for expiry.
func (s *MemoryStore) WithClock(now func() time.Time) *MemoryStore {
	s.now = now
	return s
}

func (s *MemoryStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	elem, ok := s.items[key]
	if !ok {
		return nil, false, nil
	}
	entry := elem.Value.(*memoryEntry)
	if !entry.expiresAt.IsZero() && s.now().After(entry.expiresAt) {
		s.removeElement(elem)
		return nil, false, nil
	}
	s.order.MoveToFront(elem)
	return append([]byte(nil), entry.value...), true, nil
}

func (s *MemoryStore) Put(_ context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	exp := time.Time{}
	if s.ttl > 0 {
		exp = s.now().Add(s.ttl)
	}
	stored := append([]byte(nil), value...)

	if elem, ok := s.items[key]; ok {
		entry := elem.Value.(*memoryEntry)
		entry.value = stored
		entry.expiresAt = exp
		s.order.MoveToFront(elem)
		return nil
	}

	elem := s.order.PushFront(&memoryEntry{key: key, value: stored, expiresAt: exp})
	s.items[key] = elem
	if len(s.items) > s.maxEntries {
		s.evictOldest()
	}
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if elem, ok := s.items[key]; ok {
		s.removeElement(elem)
	}
	return nil
}

// Len counts stored entries, expired ones included until they are touched.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

func (s *MemoryStore) evictOldest() {
	elem := s.order.Back()
	if elem == nil {
		return
	}
	s.removeElement(elem)
}

func (s *MemoryStore) removeElement(elem *list.Element) {
	entry := elem.Value.(*memoryEntry)
	delete(s.items, entry.key)
	s.order.Remove(elem)
}
