package catalog

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/Astemirdum/bookshelf/gateway/internal/model"
)

type BookSource interface {
	ListBooks(ctx context.Context) ([]model.Book, error)
}

// Browser is the stateful catalog page: the full collection, the active criteria and
// the page the user is on.
//
// A new search goes back to page 1. Changing the sort reorders the current result and
// stays on the same page.
type Browser struct {
	log      *zap.Logger
	pageSize int

	mu       sync.RWMutex
	all      []model.Book
	genres   []string
	query    string
	filters  model.SearchFilters
	sortKey  model.SortKey
	filtered []model.Book
	page     int
}

func NewBrowser(log *zap.Logger, pageSize int) *Browser {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &Browser{
		log:      log.Named("browser"),
		pageSize: pageSize,
		sortKey:  DefaultSort,
		page:     1,
		genres:   []string{},
		filtered: []model.Book{},
	}
}

// Load replaces the collection. On failure the previous collection stays.
func (b *Browser) Load(ctx context.Context, src BookSource) error {
	books, err := src.ListBooks(ctx)
	if err != nil {
		b.log.Warn("load books", zap.Error(err))
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.all = books
	b.genres = AvailableGenres(books)
	b.filtered = ComputeView(b.all, b.query, b.filters, b.sortKey)
	b.page = 1
	return nil
}

func (b *Browser) Search(query string, filters model.SearchFilters) model.Page {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.query, b.filters = query, filters
	b.filtered = ComputeView(b.all, query, filters, b.sortKey)
	b.page = 1
	return Paginate(b.filtered, b.page, b.pageSize)
}

func (b *Browser) Sort(key model.SortKey) model.Page {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.sortKey = key
	sorted := append(make([]model.Book, 0, len(b.filtered)), b.filtered...)
	Sort(sorted, key)
	b.filtered = sorted
	return Paginate(b.filtered, b.page, b.pageSize)
}

func (b *Browser) GoTo(page int) model.Page {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.page = page
	return Paginate(b.filtered, b.page, b.pageSize)
}

func (b *Browser) Current() model.Page {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return Paginate(b.filtered, b.page, b.pageSize)
}

func (b *Browser) SortKey() model.SortKey {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.sortKey
}

func (b *Browser) Genres() []string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return append(make([]string, 0, len(b.genres)), b.genres...)
}

// Total is the size of the unfiltered collection.
func (b *Browser) Total() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.all)
}
