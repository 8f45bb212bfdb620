package locker

import (
	"context"
	"sync"
)

type slot struct {
	ch   chan struct{}
	refs int
}

type localLocker struct {
	mu    sync.Mutex
	slots map[string]*slot
	opts  options
}

func newLocal(opts options) *localLocker {
	return &localLocker{
		slots: map[string]*slot{},
		opts:  opts,
	}
}

func (l *localLocker) Acquire(ctx context.Context, key string) (Release, error) {
	s := l.ref(key)

	ctx, cancel := context.WithTimeout(ctx, l.opts.wait)
	defer cancel()

	select {
	case s.ch <- struct{}{}:
	case <-ctx.Done():
		l.unref(key, s)

		return nil, ErrNotAcquired
	}

	var once sync.Once

	return func() {
		once.Do(func() {
			<-s.ch
			l.unref(key, s)
		})
	}, nil
}

func (l *localLocker) ref(key string) *slot {
	l.mu.Lock()
	defer l.mu.Unlock()

	s, ok := l.slots[key]
	if !ok {
		s = &slot{ch: make(chan struct{}, 1)}
		l.slots[key] = s
	}

	s.refs++

	return s
}

func (l *localLocker) unref(key string, s *slot) {
	l.mu.Lock()
	defer l.mu.Unlock()

	s.refs--
	if s.refs == 0 {
		delete(l.slots, key)
	}
}
