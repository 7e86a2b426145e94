// Package session holds who is signed in and tells interested parties when that changes.
package session

import (
	"sync"

	"github.com/Astemirdum/bookshelf/gateway/internal/model"
)

type EventType string

const (
	SignedIn  EventType = "signedIn"
	SignedOut EventType = "signedOut"
)

type Event struct {
	Type EventType
	User model.User
}

// Session is one signed-in browser. It is the credential source for outgoing catalog
// requests and the place where per-user state is torn down on sign-out.
type Session struct {
	id string

	mu       sync.RWMutex
	user     model.User
	tokens   model.Tokens
	signedIn bool
	subs     map[int]func(Event)
	nextSub  int
}

func newSession(id string, user model.User, tokens model.Tokens) *Session {
	return &Session{
		id:       id,
		user:     user,
		tokens:   tokens,
		signedIn: true,
		subs:     make(map[int]func(Event)),
	}
}

func (s *Session) ID() string { return s.id }

func (s *Session) User() (model.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user, s.signedIn
}

func (s *Session) Tokens() model.Tokens {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tokens
}

func (s *Session) IDToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tokens.IDToken
}

func (s *Session) AccessToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tokens.AccessToken
}

// Subscribe registers fn for SignedIn/SignedOut events. fn runs synchronously on the
// goroutine that changed the session.
func (s *Session) Subscribe(fn func(Event)) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.mu.Unlock()
	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

// Refresh swaps in new tokens and user, announcing SignedIn again.
func (s *Session) Refresh(user model.User, tokens model.Tokens) {
	s.mu.Lock()
	s.user, s.tokens, s.signedIn = user, tokens, true
	subs := s.snapshot()
	s.mu.Unlock()
	notify(subs, Event{Type: SignedIn, User: user})
}

// SignOut forgets the credentials. Only the first call notifies.
func (s *Session) SignOut() {
	s.mu.Lock()
	if !s.signedIn {
		s.mu.Unlock()
		return
	}
	user := s.user
	s.user, s.tokens, s.signedIn = model.User{}, model.Tokens{}, false
	subs := s.snapshot()
	s.mu.Unlock()
	notify(subs, Event{Type: SignedOut, User: user})
}

func (s *Session) snapshot() []func(Event) {
	subs := make([]func(Event), 0, len(s.subs))
	for i := 0; i < s.nextSub; i++ {
		if fn, ok := s.subs[i]; ok {
			subs = append(subs, fn)
		}
	}
	return subs
}

func notify(subs []func(Event), ev Event) {
	for _, fn := range subs {
		fn(ev)
	}
}
