package inmemory

import (
	"context"
	"sync"

	"github.com/tdex-network/dogecustody/internal/core/ports"
)

type lease struct {
	ch      chan struct{}
	holders int
}

type locker struct {
	lock   *sync.Mutex
	leases map[string]*lease
}

// NewLocker returns an AddressLocker granting leases within the current
// process
func NewLocker() ports.AddressLocker {
	return &locker{
		lock:   &sync.Mutex{},
		leases: make(map[string]*lease),
	}
}

func (l *locker) Lock(ctx context.Context, key string) (func(), error) {
	le := l.acquireRef(key)

	select {
	case le.ch <- struct{}{}:
	case <-ctx.Done():
		l.releaseRef(key, le)
		return nil, ctx.Err()
	}

	once := &sync.Once{}
	unlock := func() {
		once.Do(func() {
			<-le.ch
			l.releaseRef(key, le)
		})
	}
	return unlock, nil
}

// acquireRef returns the lease of the given key, creating it if needed, and
// registers the caller as interested in it
func (l *locker) acquireRef(key string) *lease {
	l.lock.Lock()
	defer l.lock.Unlock()

	le, ok := l.leases[key]
	if !ok {
		le = &lease{ch: make(chan struct{}, 1)}
		l.leases[key] = le
	}
	le.holders++
	return le
}

// releaseRef drops the lease of the given key once nobody holds or waits
// for it
func (l *locker) releaseRef(key string, le *lease) {
	l.lock.Lock()
	defer l.lock.Unlock()

	le.holders--
	if le.holders <= 0 {
		delete(l.leases, key)
	}
}
