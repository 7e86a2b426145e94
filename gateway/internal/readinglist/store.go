package readinglist

import (
	"context"

	"github.com/Astemirdum/bookshelf/gateway/internal/model"
	"github.com/Astemirdum/bookshelf/gateway/internal/service/library"
	"github.com/Astemirdum/bookshelf/pkg/kafka"
)

//go:generate go run github.com/golang/mock/mockgen -source=store.go -destination=mocks/mock.go

var _ Store = (*library.Service)(nil)

// Store is the remote side of reading lists.
type Store interface {
	ListReadingLists(ctx context.Context, userID string) ([]model.ReadingList, error)
	CreateReadingList(ctx context.Context, req model.CreateReadingListRequest) (model.ReadingList, error)
	UpdateReadingList(ctx context.Context, id string, patch model.ReadingListPatch) (model.ReadingList, error)
	DeleteReadingList(ctx context.Context, id string) error
	AddBookToList(ctx context.Context, listID, bookID string) error
	ListBooks(ctx context.Context) ([]model.Book, error)
}

// EventPublisher is told about every mutation the store confirmed. Delivery is best
// effort.
type EventPublisher interface {
	Publish(ctx context.Context, ev kafka.Event)
}
