package modmail

import (
	"fmt"
	"sync"
)

// openLockSet serializes thread-opening per guild+user so two concurrent
// opens for the same requester cannot both pass the open-thread check.
type openLockSet struct {
	mu    sync.Mutex
	locks map[string]*openLock
}

type openLock struct {
	mu   sync.Mutex
	refs int
}

func newOpenLockSet() *openLockSet {
	return &openLockSet{locks: make(map[string]*openLock)}
}

func (s *openLockSet) lock(guildID, userID string) func() {
	key := fmt.Sprintf("%s:%s", guildID, userID)

	s.mu.Lock()
	l, ok := s.locks[key]
	if !ok {
		l = &openLock{}
		s.locks[key] = l
	}
	l.refs++
	s.mu.Unlock()

	l.mu.Lock()

	return func() {
		l.mu.Unlock()

		s.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(s.locks, key)
		}
		s.mu.Unlock()
	}
}
