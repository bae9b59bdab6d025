package state

import (
	"sync"

	"github.com/khoahotran/folio/internal/domain/user"
)

// Session is the current authenticated principal. Subscribers are called
// synchronously, in subscription order, after every change.
type Session struct {
	mu      sync.Mutex
	current user.Principal
	subs    []subscription
	nextID  int
	closed  bool
}

type subscription struct {
	id int
	fn func(user.Principal)
}

func NewSession() *Session {
	return &Session{}
}

func (s *Session) Current() user.Principal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

func (s *Session) SignIn(p user.Principal) {
	s.set(p)
}

func (s *Session) SignOut() {
	s.set(user.Principal{})
}

// Subscribe registers fn and returns the function that removes it.
func (s *Session) Subscribe(fn func(user.Principal)) (unsubscribe func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return func() {}
	}
	s.nextID++
	id := s.nextID
	s.subs = append(s.subs, subscription{id: id, fn: fn})

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		for i, sub := range s.subs {
			if sub.id == id {
				s.subs = append(s.subs[:i], s.subs[i+1:]...)
				return
			}
		}
	}
}

// Close drops every subscriber. Later changes are ignored.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.subs = nil
}

func (s *Session) set(p user.Principal) {
	s.mu.Lock()
	if s.closed || s.current == p {
		s.mu.Unlock()
		return
	}
	s.current = p
	subs := make([]subscription, len(s.subs))
	copy(subs, s.subs)
	s.mu.Unlock()

	for _, sub := range subs {
		sub.fn(p)
	}
}
