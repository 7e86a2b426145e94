package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jellydator/ttlcache/v3"
	"go.uber.org/zap"

	"github.com/Astemirdum/bookshelf/gateway/internal/model"
	"github.com/Astemirdum/bookshelf/gateway/internal/service/identity"
)

//go:generate go run github.com/golang/mock/mockgen -source=store.go -destination=mocks/mock.go

var _ Identity = (*identity.Service)(nil)

type Identity interface {
	CurrentUser(ctx context.Context, tokens model.Tokens) (model.User, error)
	Logout(ctx context.Context, tokens model.Tokens) error
}

// Store keeps live sessions by id. Sessions expire after ttl without use; expiry signs
// them out like a logout does.
type Store struct {
	log      *zap.Logger
	identity Identity
	cache    *ttlcache.Cache[string, *Session]

	mu      sync.Mutex
	running bool
}

func NewStore(log *zap.Logger, ident Identity, ttl time.Duration) *Store {
	s := &Store{
		log:      log.Named("sessions"),
		identity: ident,
		cache:    ttlcache.New(ttlcache.WithTTL[string, *Session](ttl)),
	}
	s.cache.OnEviction(func(_ context.Context, reason ttlcache.EvictionReason, item *ttlcache.Item[string, *Session]) {
		if reason == ttlcache.EvictionReasonExpired {
			s.log.Debug("session expired", zap.String("session_id", item.Key()))
		}
		item.Value().SignOut()
	})
	return s
}

// Start runs the expiry loop until Stop.
func (s *Store) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return
	}
	s.running = true
	go s.cache.Start()
}

// Stop ends the expiry loop and signs every remaining session out.
func (s *Store) Stop() {
	s.mu.Lock()
	if s.running {
		s.cache.Stop()
		s.running = false
	}
	s.mu.Unlock()
	for _, item := range s.cache.Items() {
		item.Value().SignOut()
	}
	s.cache.DeleteAll()
}

// Create resolves the user behind tokens and opens a session for them.
func (s *Store) Create(ctx context.Context, tokens model.Tokens) (*Session, error) {
	user, err := s.identity.CurrentUser(ctx, tokens)
	if err != nil {
		return nil, err
	}
	sess := newSession(uuid.NewString(), user, tokens)
	s.cache.Set(sess.ID(), sess, ttlcache.DefaultTTL)
	s.log.Debug("session created", zap.String("session_id", sess.ID()), zap.String("user_id", user.ID))
	return sess, nil
}

// Get returns a live session and extends its lifetime.
func (s *Store) Get(id string) (*Session, bool) {
	if id == "" {
		return nil, false
	}
	item := s.cache.Get(id)
	if item == nil {
		return nil, false
	}
	sess := item.Value()
	if _, ok := sess.User(); !ok {
		return nil, false
	}
	return sess, true
}

// Delete logs the session out at the provider and drops it. The local sign-out happens
// even if the provider call fails.
func (s *Store) Delete(ctx context.Context, id string) error {
	item := s.cache.Get(id, ttlcache.WithDisableTouchOnHit[string, *Session]())
	if item == nil {
		return nil
	}
	sess := item.Value()
	err := s.identity.Logout(ctx, sess.Tokens())
	if err != nil {
		s.log.Warn("provider logout", zap.String("session_id", id), zap.Error(err))
	}
	sess.SignOut()
	s.cache.Delete(id)
	return err
}

func (s *Store) Len() int {
	return s.cache.Len()
}
