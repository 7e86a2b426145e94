package review

import (
	"context"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/Astemirdum/bookshelf/gateway/internal/errs"
	"github.com/Astemirdum/bookshelf/gateway/internal/model"
	"github.com/Astemirdum/bookshelf/pkg/kafka"
)

const (
	DefaultRating = 5
	AnonymousName = "Anonymous"
)

// Form is what the composer currently holds.
type Form struct {
	Open    bool   `json:"open"`
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

// Composer writes reviews for one book. After a successful post the form is reset and
// the book's reviews are fetched again; the new review is never appended locally.
type Composer struct {
	log    *zap.Logger
	store  Store
	events EventPublisher
	bookID string

	mu         sync.Mutex
	form       Form
	reviews    []model.Review
	submitting bool
}

func NewComposer(log *zap.Logger, store Store, events EventPublisher, bookID string) *Composer {
	return &Composer{
		log:     log.Named("review").With(zap.String("book_id", bookID)),
		store:   store,
		events:  events,
		bookID:  bookID,
		form:    Form{Rating: DefaultRating},
		reviews: []model.Review{},
	}
}

func (c *Composer) Open() {
	c.mu.Lock()
	c.form.Open = true
	c.mu.Unlock()
}

// Close hides the composer and keeps what was typed.
func (c *Composer) Close() {
	c.mu.Lock()
	c.form.Open = false
	c.mu.Unlock()
}

func (c *Composer) SetRating(rating int) error {
	if rating < 1 || rating > 5 {
		return errs.Invalid("rating", "must be between 1 and 5")
	}
	c.mu.Lock()
	c.form.Rating = rating
	c.mu.Unlock()
	return nil
}

func (c *Composer) SetComment(comment string) {
	c.mu.Lock()
	c.form.Comment = comment
	c.mu.Unlock()
}

func (c *Composer) Form() Form {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.form
}

func (c *Composer) Reviews() []model.Review {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append(make([]model.Review, 0, len(c.reviews)), c.reviews...)
}

// Load replaces the collection. On failure the previous one stays.
func (c *Composer) Load(ctx context.Context) error {
	reviews, err := c.store.ListReviews(ctx, c.bookID)
	if err != nil {
		c.log.Warn("load reviews", zap.Error(err))
		return err
	}
	c.mu.Lock()
	c.reviews = reviews
	c.mu.Unlock()
	return nil
}

// SubmitResult is a posted review. Stale is set when the reload that follows the post
// failed; Reviews then still holds the collection from before the post and ReloadErr
// says why.
type SubmitResult struct {
	Review    model.Review
	Stale     bool
	ReloadErr error
}

// Submit posts the form on behalf of user. Validation failures never reach the API and
// a failed post keeps the form as typed. A failed reload after a successful post is not
// an error.
func (c *Composer) Submit(ctx context.Context, user *model.User) (SubmitResult, error) {
	c.mu.Lock()
	form := c.form
	switch {
	case user == nil || user.ID == "":
		c.mu.Unlock()
		return SubmitResult{}, errs.Invalid("user", "please login to write a review")
	case strings.TrimSpace(form.Comment) == "":
		c.mu.Unlock()
		return SubmitResult{}, errs.Invalid("comment", "must not be blank")
	case form.Rating < 1 || form.Rating > 5:
		c.mu.Unlock()
		return SubmitResult{}, errs.Invalid("rating", "must be between 1 and 5")
	case c.submitting:
		c.mu.Unlock()
		return SubmitResult{}, errs.ErrBusy
	}
	c.submitting = true
	c.mu.Unlock()
	defer func() {
		c.mu.Lock()
		c.submitting = false
		c.mu.Unlock()
	}()

	name := user.Name
	if name == "" {
		name = AnonymousName
	}
	created, err := c.store.CreateReview(ctx, model.CreateReviewRequest{
		BookID:   c.bookID,
		UserID:   user.ID,
		UserName: name,
		Rating:   form.Rating,
		Comment:  form.Comment,
	})
	if err != nil {
		return SubmitResult{}, err
	}

	c.mu.Lock()
	c.form = Form{Rating: DefaultRating}
	c.mu.Unlock()

	if c.events != nil {
		c.events.Publish(ctx, kafka.Event{
			Timestamp: time.Now().UTC(),
			EventType: kafka.ReviewCreated,
			UserID:    user.ID,
			BookID:    c.bookID,
			ReviewID:  created.ID,
			Rating:    created.Rating,
		})
	}

	if err := c.Load(ctx); err != nil {
		return SubmitResult{Review: created, Stale: true, ReloadErr: err}, nil
	}
	return SubmitResult{Review: created}, nil
}
