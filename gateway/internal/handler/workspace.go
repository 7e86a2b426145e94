package handler

import (
	"sync"

	"github.com/jellydator/ttlcache/v3"
	"go.uber.org/zap"

	"github.com/Astemirdum/bookshelf/gateway/internal/catalog"
	"github.com/Astemirdum/bookshelf/gateway/internal/errs"
	"github.com/Astemirdum/bookshelf/gateway/internal/readinglist"
	"github.com/Astemirdum/bookshelf/gateway/internal/review"
	"github.com/Astemirdum/bookshelf/gateway/internal/session"
)

// maxComposers bounds the review composers a session keeps; the least recently used
// one goes first.
const maxComposers = 32

// workspace is the per-session state behind the API: the reading-list coordinator, the
// catalog browser and a review composer per recently reviewed book. It lives until the
// session signs out.
type workspace struct {
	catalog CatalogService
	lists   *readinglist.Coordinator
	browser *catalog.Browser
	reviews *ttlcache.Cache[string, *review.Composer]

	mu           sync.Mutex
	listsReady   bool
	browserReady bool
	closed       bool
}

func newWorkspace(log *zap.Logger, svc CatalogService, events EventPublisher, userID string, pageSize int) *workspace {
	return &workspace{
		catalog: svc,
		lists:   readinglist.NewCoordinator(log, svc, events, userID),
		browser: catalog.NewBrowser(log, pageSize),
		reviews: ttlcache.New(ttlcache.WithCapacity[string, *review.Composer](maxComposers)),
	}
}

func (w *workspace) composer(log *zap.Logger, events EventPublisher, bookID string) (*review.Composer, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return nil, errs.ErrClosed
	}
	if item := w.reviews.Get(bookID); item != nil {
		return item.Value(), nil
	}
	c := review.NewComposer(log, w.catalog, events, bookID)
	w.reviews.Set(bookID, c, ttlcache.NoTTL)
	return c, nil
}

func (w *workspace) alive() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return !w.closed
}

func (w *workspace) listsLoaded() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.listsReady
}

func (w *workspace) markListsLoaded() {
	w.mu.Lock()
	w.listsReady = true
	w.mu.Unlock()
}

func (w *workspace) browserLoaded() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.browserReady
}

func (w *workspace) markBrowserLoaded() {
	w.mu.Lock()
	w.browserReady = true
	w.mu.Unlock()
}

func (w *workspace) close() {
	w.mu.Lock()
	w.closed = true
	w.mu.Unlock()
	w.lists.Close()
	w.reviews.DeleteAll()
}

type workspaces struct {
	mu sync.Mutex
	m  map[string]*workspace
}

func newWorkspaces() *workspaces {
	return &workspaces{m: make(map[string]*workspace)}
}

func (h *Handler) workspace(sess *session.Session) *workspace {
	h.spaces.mu.Lock()
	defer h.spaces.mu.Unlock()
	if ws, ok := h.spaces.m[sess.ID()]; ok {
		return ws
	}
	user, _ := sess.User()
	svc := h.catalogFor(sess)
	ws := newWorkspace(h.log, svc, h.events, user.ID, h.pageSize)
	h.spaces.m[sess.ID()] = ws

	unsubscribe := sess.Subscribe(func(ev session.Event) {
		if ev.Type != session.SignedOut {
			return
		}
		h.spaces.mu.Lock()
		delete(h.spaces.m, sess.ID())
		h.spaces.mu.Unlock()
		ws.close()
	})
	if _, ok := sess.User(); !ok {
		// signed out between the lookup and the subscription
		delete(h.spaces.m, sess.ID())
		ws.close()
		unsubscribe()
	}
	return ws
}

func (h *Handler) workspaceCount() int {
	h.spaces.mu.Lock()
	defer h.spaces.mu.Unlock()
	return len(h.spaces.m)
}
