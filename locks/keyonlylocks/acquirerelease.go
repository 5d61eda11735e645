// Package keyonlylocks holds non-blocking, key-only action locks.
// A second caller for a held key is refused instead of waiting.
package keyonlylocks

import "sync"

// Store is safe for concurrent use; the zero value is ready
type Store struct {
	m sync.Map // map[string]struct{}
}

// TryAcquire takes every key or none. release is nil when refused.
func (s *Store) TryAcquire(keys ...string) (release func(), ok bool) {
	acquired, ok := AcquireLocks(&s.m, keys)
	if !ok {
		return nil, false
	}
	var once sync.Once
	return func() { once.Do(func() { ReleaseLocks(&s.m, acquired) }) }, true
}

func (s *Store) Held(key string) bool {
	_, ok := s.m.Load(key)
	return ok
}

func AcquireLocks(lockStore *sync.Map, keys []string) ([]string, bool) {
	var acquired []string
	for _, key := range keys {
		_, loaded := lockStore.LoadOrStore(key, struct{}{})
		if loaded {
			// rollback previously acquired locks
			ReleaseLocks(lockStore, acquired)
			return nil, false
		}
		acquired = append(acquired, key)
	}
	return acquired, true
}

// ReleaseLocks delete locks from the lockStore *sync.Map
// Wrap this in deferred calls to guarantee to be called even if panic occurs.
func ReleaseLocks(lockStore *sync.Map, keys []string) {
	for _, key := range keys {
		lockStore.Delete(key)
	}
}
