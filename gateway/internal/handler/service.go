package handler

import (
	"context"

	"github.com/Astemirdum/bookshelf/gateway/internal/model"
	"github.com/Astemirdum/bookshelf/gateway/internal/readinglist"
	"github.com/Astemirdum/bookshelf/gateway/internal/review"
	"github.com/Astemirdum/bookshelf/gateway/internal/service/identity"
	"github.com/Astemirdum/bookshelf/gateway/internal/service/library"
	"github.com/Astemirdum/bookshelf/gateway/internal/session"
	"github.com/Astemirdum/bookshelf/pkg/kafka"
)

//go:generate go run github.com/golang/mock/mockgen -source=service.go -destination=mocks/mock.go

var (
	_ CatalogService  = (*library.Service)(nil)
	_ IdentityService = (*identity.Service)(nil)
	_ SessionStore    = (*session.Store)(nil)
)

type CatalogService interface {
	readinglist.Store
	review.Store
	GetBook(ctx context.Context, id string) (model.Book, error)
	CreateBook(ctx context.Context, book model.Book) (model.Book, error)
	UpdateBook(ctx context.Context, id string, patch model.BookPatch) (model.Book, error)
	DeleteBook(ctx context.Context, id string) error
	Recommend(ctx context.Context, query string) ([]model.Recommendation, error)
	GetStats(ctx context.Context) model.Stats
}

type IdentityService interface {
	Login(ctx context.Context, email, password string) (model.Tokens, error)
	Signup(ctx context.Context, email, password, name string) error
	ConfirmSignup(ctx context.Context, email, code string) error
	ChangePassword(ctx context.Context, accessToken, oldPassword, newPassword string) error
	ChangeEmail(ctx context.Context, accessToken, newEmail string) error
	ConfirmEmailChange(ctx context.Context, accessToken, code string) error
	RequestPasswordReset(ctx context.Context, email string) error
	ConfirmPasswordReset(ctx context.Context, email, code, newPassword string) error
}

type SessionStore interface {
	Create(ctx context.Context, tokens model.Tokens) (*session.Session, error)
	Get(id string) (*session.Session, bool)
	Delete(ctx context.Context, id string) error
}

type EventPublisher interface {
	Publish(ctx context.Context, ev kafka.Event)
}
