package locker

import (
	"sync"
	"testing"
)

func TestLockSerializesPerKey(t *testing.T) {
	l := NewKeyedLocker()

	const K = 64
	counter := 0
	var wg sync.WaitGroup
	wg.Add(K)
	for i := 0; i < K; i++ {
		go func() {
			defer wg.Done()
			unlock := l.Lock("session-1")
			defer unlock()
			counter++ // data race unless Lock serializes
		}()
	}
	wg.Wait()

	if counter != K {
		t.Fatalf("want %d, got %d", K, counter)
	}
}

func TestLockIndependentKeys(t *testing.T) {
	l := NewKeyedLocker()

	unlockA := l.Lock("a")
	done := make(chan struct{})
	go func() {
		unlockB := l.Lock("b") // must not block on key "a"
		unlockB()
		close(done)
	}()
	<-done
	unlockA()
}

func TestEntriesAreReleased(t *testing.T) {
	l := NewKeyedLocker()

	for i := 0; i < 10; i++ {
		unlock := l.Lock("k")
		unlock()
	}

	l.mu.Lock()
	n := len(l.locks)
	l.mu.Unlock()
	if n != 0 {
		t.Fatalf("unlocked entries must be removed, %d left", n)
	}
}
