package cache

import (
	"context"
	"sync"
)

// KeyLocker hands out one mutex per key inside this process. Entries are
// dropped once nobody holds or waits on them.
type KeyLocker struct {
	mu    sync.Mutex
	locks map[string]*keyLock
}

type keyLock struct {
	mu   sync.Mutex
	refs int
}

var _ Locker = (*KeyLocker)(nil)

func NewKeyLocker() *KeyLocker {
	return &KeyLocker{locks: make(map[string]*keyLock)}
}

// Lock blocks until key is free. It never fails; the error only
// satisfies Locker.
func (kl *KeyLocker) Lock(_ context.Context, key string) (func(), error) {
	kl.mu.Lock()
	l, prs := kl.locks[key]
	if !prs {
		l = &keyLock{}
		kl.locks[key] = l
	}
	l.refs++
	kl.mu.Unlock()

	l.mu.Lock()

	return func() {
		l.mu.Unlock()

		kl.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(kl.locks, key)
		}
		kl.mu.Unlock()
	}, nil
}

func (kl *KeyLocker) Len() int {
	kl.mu.Lock()
	defer kl.mu.Unlock()
	return len(kl.locks)
}
