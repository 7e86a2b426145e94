package readinglist

import (
	"sync"

	"github.com/Astemirdum/bookshelf/gateway/internal/errs"
)

// guard keeps one in-flight call per control, e.g. "update:<listID>".
type guard struct {
	mu   sync.Mutex
	busy map[string]struct{}
}

func newGuard() *guard {
	return &guard{busy: make(map[string]struct{})}
}

func (g *guard) acquire(key string) (func(), error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, ok := g.busy[key]; ok {
		return nil, errs.ErrBusy
	}
	g.busy[key] = struct{}{}
	return func() {
		g.mu.Lock()
		delete(g.busy, key)
		g.mu.Unlock()
	}, nil
}
