package books

import (
	"sort"
	"sync"
)

// keyLocks serializes writers per book identifier. Entries are reference
// counted and dropped once nobody holds or waits for them.
type keyLocks struct {
	mu    sync.Mutex
	locks map[string]*keyLock
}

type keyLock struct {
	mu   sync.Mutex
	refs int
}

func newKeyLocks() *keyLocks {
	return &keyLocks{locks: make(map[string]*keyLock)}
}

// Lock acquires every key in sorted order and returns the release func.
// Sorting keeps two renames over the same pair of keys from deadlocking.
func (l *keyLocks) Lock(keys ...string) func() {
	unique := make([]string, 0, len(keys))
	seen := make(map[string]bool, len(keys))
	for _, k := range keys {
		if !seen[k] {
			seen[k] = true
			unique = append(unique, k)
		}
	}
	sort.Strings(unique)

	held := make([]*keyLock, 0, len(unique))
	for _, k := range unique {
		l.mu.Lock()
		kl, ok := l.locks[k]
		if !ok {
			kl = &keyLock{}
			l.locks[k] = kl
		}
		kl.refs++
		l.mu.Unlock()

		kl.mu.Lock()
		held = append(held, kl)
	}

	return func() {
		for i := len(held) - 1; i >= 0; i-- {
			held[i].mu.Unlock()
			l.mu.Lock()
			held[i].refs--
			if held[i].refs == 0 {
				delete(l.locks, unique[i])
			}
			l.mu.Unlock()
		}
	}
}
