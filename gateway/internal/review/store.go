package review

import (
	"context"

	"github.com/Astemirdum/bookshelf/gateway/internal/model"
	"github.com/Astemirdum/bookshelf/gateway/internal/service/library"
	"github.com/Astemirdum/bookshelf/pkg/kafka"
)

//go:generate go run github.com/golang/mock/mockgen -source=store.go -destination=mocks/mock.go

var _ Store = (*library.Service)(nil)

type Store interface {
	ListReviews(ctx context.Context, bookID string) ([]model.Review, error)
	CreateReview(ctx context.Context, req model.CreateReviewRequest) (model.Review, error)
}

type EventPublisher interface {
	Publish(ctx context.Context, ev kafka.Event)
}
