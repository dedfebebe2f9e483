package locker

import "sync"

// Locker serializes work per key. Lock blocks until the key is free and
// returns the matching unlock func.
type Locker interface {
	Lock(key string) (unlock func())
}

// KeyedLocker hands out one mutex per key so that read-modify-write
// sequences on a single session (append user message, call the completion
// service, append the reply) run as one unit while unrelated sessions
// proceed concurrently.
//
// Entries are reference counted and removed once the last holder unlocks,
// so deleted sessions do not leak mutexes.
type KeyedLocker struct {
	mu    sync.Mutex
	locks map[string]*entry
}

type entry struct {
	mu   sync.Mutex
	refs int
}

func NewKeyedLocker() *KeyedLocker {
	return &KeyedLocker{locks: make(map[string]*entry)}
}

func (l *KeyedLocker) Lock(key string) func() {
	l.mu.Lock()
	e, ok := l.locks[key]
	if !ok {
		e = &entry{}
		l.locks[key] = e
	}
	e.refs++
	l.mu.Unlock()

	e.mu.Lock()
	return func() {
		e.mu.Unlock()
		l.mu.Lock()
		e.refs--
		if e.refs == 0 {
			delete(l.locks, key)
		}
		l.mu.Unlock()
	}
}
