// Package readinglist keeps one user's reading lists in sync with the catalog API.
//
// The local cache changes only after the API confirmed a write, or when it is filled from
// a read:
//   - create, update and delete apply the API's answer to the cache;
//   - add-book and remove-book leave the cache alone and reload list and books afterwards;
//   - delete and remove-book run only after an explicit confirmation.
package readinglist

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Astemirdum/bookshelf/gateway/internal/errs"
	"github.com/Astemirdum/bookshelf/gateway/internal/model"
	"github.com/Astemirdum/bookshelf/pkg/kafka"
)

// LoadResult separates "no lists" from "could not read lists".
type LoadResult struct {
	Lists    []model.ReadingList `json:"lists"`
	Degraded bool                `json:"degraded"`
	Err      error               `json:"-"`
}

type Coordinator struct {
	log    *zap.Logger
	store  Store
	events EventPublisher
	userID string
	guard  *guard

	life   context.Context
	cancel context.CancelFunc

	mu        sync.Mutex
	lists     []model.ReadingList
	pending   *Confirmation
	executing string
	closed    bool
}

func NewCoordinator(log *zap.Logger, store Store, events EventPublisher, userID string) *Coordinator {
	life, cancel := context.WithCancel(context.Background())
	return &Coordinator{
		log:    log.Named("reading_lists").With(zap.String("user_id", userID)),
		store:  store,
		events: events,
		userID: userID,
		guard:  newGuard(),
		life:   life,
		cancel: cancel,
		lists:  []model.ReadingList{},
	}
}

// bind ties ctx to the coordinator's lifetime so Close aborts in-flight requests.
func (c *Coordinator) bind(ctx context.Context) (context.Context, func(), error) {
	c.mu.Lock()
	closed := c.closed
	c.mu.Unlock()
	if closed {
		return nil, nil, errs.ErrClosed
	}
	ctx, cancel := context.WithCancel(ctx)
	stop := context.AfterFunc(c.life, cancel)
	return ctx, func() {
		stop()
		cancel()
	}, nil
}

// apply runs fn under the lock unless the coordinator was closed meanwhile; a result
// that arrives after Close is dropped.
func (c *Coordinator) apply(fn func()) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return errs.ErrClosed
	}
	fn()
	return nil
}

func (c *Coordinator) Lists() []model.ReadingList {
	c.mu.Lock()
	defer c.mu.Unlock()
	return cloneLists(c.lists)
}

func (c *Coordinator) LoadLists(ctx context.Context) LoadResult {
	ctx, done, err := c.bind(ctx)
	if err != nil {
		return LoadResult{Lists: []model.ReadingList{}, Err: err}
	}
	defer done()

	lists, err := c.store.ListReadingLists(ctx, c.userID)
	if err != nil {
		c.log.Warn("load lists", zap.Error(err))
		if aerr := c.apply(func() { c.lists = []model.ReadingList{} }); aerr != nil {
			return LoadResult{Lists: []model.ReadingList{}, Err: aerr}
		}
		return LoadResult{Lists: []model.ReadingList{}, Degraded: true, Err: err}
	}
	if err := c.apply(func() { c.lists = cloneLists(lists) }); err != nil {
		return LoadResult{Lists: []model.ReadingList{}, Err: err}
	}
	return LoadResult{Lists: cloneLists(lists)}
}

// LoadListAndBooks fetches lists and books together and joins them. Ids that match no
// book are skipped.
func (c *Coordinator) LoadListAndBooks(ctx context.Context, listID string) (model.ReadingListDetail, error) {
	ctx, done, err := c.bind(ctx)
	if err != nil {
		return model.ReadingListDetail{}, err
	}
	defer done()
	return c.loadListAndBooks(ctx, listID)
}

func (c *Coordinator) loadListAndBooks(ctx context.Context, listID string) (model.ReadingListDetail, error) {
	var (
		lists []model.ReadingList
		books []model.Book
	)
	gg, gctx := errgroup.WithContext(ctx)
	gg.Go(func() error {
		var err error
		lists, err = c.store.ListReadingLists(gctx, c.userID)
		return err
	})
	gg.Go(func() error {
		var err error
		books, err = c.store.ListBooks(gctx)
		return err
	})
	if err := gg.Wait(); err != nil {
		return model.ReadingListDetail{}, err
	}

	if err := c.apply(func() { c.lists = cloneLists(lists) }); err != nil {
		return model.ReadingListDetail{}, err
	}

	idx := indexOf(lists, listID)
	if idx < 0 {
		return model.ReadingListDetail{}, errors.Wrapf(errs.ErrNotFound, "reading list %s", listID)
	}
	list := lists[idx].Clone()
	byID := make(map[string]model.Book, len(books))
	for _, b := range books {
		byID[b.ID] = b
	}
	detail := model.ReadingListDetail{List: list, Books: make([]model.Book, 0, len(list.BookIDs))}
	seen := make(map[string]struct{}, len(list.BookIDs))
	for _, id := range list.BookIDs {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		if b, ok := byID[id]; ok {
			detail.Books = append(detail.Books, b)
		}
	}
	return detail, nil
}

func (c *Coordinator) CreateList(ctx context.Context, name, description string) (model.ReadingList, error) {
	if strings.TrimSpace(name) == "" {
		return model.ReadingList{}, errs.Invalid("name", "must not be blank")
	}
	release, err := c.guard.acquire("create")
	if err != nil {
		return model.ReadingList{}, err
	}
	defer release()
	ctx, done, err := c.bind(ctx)
	if err != nil {
		return model.ReadingList{}, err
	}
	defer done()

	list, err := c.store.CreateReadingList(ctx, model.CreateReadingListRequest{
		UserID:      c.userID,
		Name:        name,
		Description: description,
		BookIDs:     []string{},
	})
	if err != nil {
		return model.ReadingList{}, err
	}
	if err := c.apply(func() { c.lists = append(c.lists, list.Clone()) }); err != nil {
		return model.ReadingList{}, err
	}
	c.publish(kafka.ListCreated, list.ID, "")
	return list, nil
}

// UpdateList sends patch and, once the API accepted it, swaps the cached entry for the
// API's version.
func (c *Coordinator) UpdateList(ctx context.Context, id string, patch model.ReadingListPatch) (model.ReadingList, error) {
	if patch.Name != nil && strings.TrimSpace(*patch.Name) == "" {
		return model.ReadingList{}, errs.Invalid("name", "must not be blank")
	}
	release, err := c.guard.acquire("update:" + id)
	if err != nil {
		return model.ReadingList{}, err
	}
	defer release()
	ctx, done, err := c.bind(ctx)
	if err != nil {
		return model.ReadingList{}, err
	}
	defer done()

	list, err := c.store.UpdateReadingList(ctx, id, patch)
	if err != nil {
		return model.ReadingList{}, err
	}
	if err := c.apply(func() { c.replace(id, list) }); err != nil {
		return model.ReadingList{}, err
	}
	c.publish(kafka.ListUpdated, id, "")
	return list, nil
}

// AddBookToList appends bookID remotely, then reloads the list with its books. A book
// already on the cached list is rejected before any request.
func (c *Coordinator) AddBookToList(ctx context.Context, listID, bookID string) (model.ReadingListDetail, error) {
	if strings.TrimSpace(bookID) == "" {
		return model.ReadingListDetail{}, errs.Invalid("bookId", "must not be blank")
	}
	c.mu.Lock()
	if i := indexOf(c.lists, listID); i >= 0 && c.lists[i].Contains(bookID) {
		c.mu.Unlock()
		return model.ReadingListDetail{}, errs.Invalid("bookId", "already in the list")
	}
	c.mu.Unlock()

	release, err := c.guard.acquire("add:" + listID)
	if err != nil {
		return model.ReadingListDetail{}, err
	}
	defer release()
	ctx, done, err := c.bind(ctx)
	if err != nil {
		return model.ReadingListDetail{}, err
	}
	defer done()

	if err := c.store.AddBookToList(ctx, listID, bookID); err != nil {
		return model.ReadingListDetail{}, err
	}
	c.publish(kafka.BookAdded, listID, bookID)
	return c.loadListAndBooks(ctx, listID)
}

// RequestDelete opens the confirmation gate for deleting a cached list.
func (c *Coordinator) RequestDelete(listID string) (Confirmation, error) {
	return c.request(listID, func(l model.ReadingList) (Confirmation, error) {
		return deleteListConfirmation(l.ID, l.Name), nil
	})
}

func (c *Coordinator) RequestRemoveBook(listID, bookID string) (Confirmation, error) {
	return c.request(listID, func(l model.ReadingList) (Confirmation, error) {
		if !l.Contains(bookID) {
			return Confirmation{}, errors.Wrapf(errs.ErrNotFound, "book %s in list %s", bookID, listID)
		}
		return removeBookConfirmation(l.ID, l.Name, bookID), nil
	})
}

// request replaces any earlier pending confirmation.
func (c *Coordinator) request(listID string, build func(model.ReadingList) (Confirmation, error)) (Confirmation, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	switch {
	case c.closed:
		return Confirmation{}, errs.ErrClosed
	case c.executing != "":
		return Confirmation{}, errs.ErrBusy
	}
	i := indexOf(c.lists, listID)
	if i < 0 {
		return Confirmation{}, errors.Wrapf(errs.ErrNotFound, "reading list %s", listID)
	}
	conf, err := build(c.lists[i])
	if err != nil {
		return Confirmation{}, err
	}
	c.pending = &conf
	return conf, nil
}

func (c *Coordinator) Pending() (Confirmation, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.pending == nil {
		return Confirmation{}, false
	}
	return *c.pending, true
}

func (c *Coordinator) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	switch {
	case c.executing != "":
		return StateExecuting
	case c.pending != nil:
		return StateConfirmPending
	default:
		return StateIdle
	}
}

// Cancel drops the pending confirmation without side effects.
func (c *Coordinator) Cancel(confirmationID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.executing != "" && c.executing == confirmationID {
		return errs.ErrBusy
	}
	if c.pending == nil || c.pending.ID != confirmationID {
		return errs.ErrNoPendingConfirmation
	}
	c.pending = nil
	return nil
}

// Confirm runs the pending action. The gate is back to Idle afterwards whether the
// action succeeded or not.
func (c *Coordinator) Confirm(ctx context.Context, confirmationID string) (Outcome, error) {
	c.mu.Lock()
	switch {
	case c.closed:
		c.mu.Unlock()
		return Outcome{}, errs.ErrClosed
	case c.executing != "":
		c.mu.Unlock()
		return Outcome{}, errs.ErrBusy
	case c.pending == nil || c.pending.ID != confirmationID:
		c.mu.Unlock()
		return Outcome{}, errs.ErrNoPendingConfirmation
	}
	conf := *c.pending
	c.pending = nil
	c.executing = conf.ID
	var list model.ReadingList
	if i := indexOf(c.lists, conf.ListID); i >= 0 {
		list = c.lists[i].Clone()
	}
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		c.executing = ""
		c.mu.Unlock()
	}()

	ctx, done, err := c.bind(ctx)
	if err != nil {
		return Outcome{}, err
	}
	defer done()

	start := time.Now()
	out := Outcome{Action: conf.Action, ListID: conf.ListID}
	switch conf.Action {
	case ActionDeleteList:
		err = c.deleteList(ctx, conf.ListID)
	case ActionRemoveBook:
		out.Detail, err = c.removeBook(ctx, list, conf.BookID)
	default:
		err = errors.Errorf("unknown action %q", conf.Action)
	}
	c.log.Debug("confirmed",
		zap.String("action", string(conf.Action)),
		zap.String("list_id", conf.ListID),
		zap.Duration("took", time.Since(start)),
		zap.Error(err))
	if err != nil {
		return Outcome{}, err
	}
	return out, nil
}

func (c *Coordinator) deleteList(ctx context.Context, listID string) error {
	if err := c.store.DeleteReadingList(ctx, listID); err != nil {
		return err
	}
	if err := c.apply(func() {
		if i := indexOf(c.lists, listID); i >= 0 {
			c.lists = append(c.lists[:i:i], c.lists[i+1:]...)
		}
	}); err != nil {
		return err
	}
	c.publish(kafka.ListDeleted, listID, "")
	return nil
}

// removeBook sends the whole remaining membership, never a delta.
func (c *Coordinator) removeBook(ctx context.Context, list model.ReadingList, bookID string) (*model.ReadingListDetail, error) {
	if list.ID == "" {
		return nil, errors.Wrap(errs.ErrNotFound, "reading list left the cache")
	}
	remaining := make([]string, 0, len(list.BookIDs))
	for _, id := range list.BookIDs {
		if id != bookID {
			remaining = append(remaining, id)
		}
	}
	if _, err := c.store.UpdateReadingList(ctx, list.ID, model.ReadingListPatch{BookIDs: &remaining}); err != nil {
		return nil, err
	}
	c.publish(kafka.BookRemoved, list.ID, bookID)
	detail, err := c.loadListAndBooks(ctx, list.ID)
	if err != nil {
		return nil, err
	}
	return &detail, nil
}

// Close stops the coordinator. In-flight requests are cancelled and their results
// dropped; every later call fails with errs.ErrClosed.
func (c *Coordinator) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	c.pending = nil
	c.mu.Unlock()
	c.cancel()
}

func (c *Coordinator) publish(t kafka.EventType, listID, bookID string) {
	if c.events == nil {
		return
	}
	c.events.Publish(c.life, kafka.Event{
		Timestamp: time.Now().UTC(),
		EventType: t,
		UserID:    c.userID,
		ListID:    listID,
		BookID:    bookID,
	})
}

func (c *Coordinator) replace(id string, list model.ReadingList) {
	if i := indexOf(c.lists, id); i >= 0 {
		next := cloneLists(c.lists)
		next[i] = list.Clone()
		c.lists = next
	}
}

func indexOf(lists []model.ReadingList, id string) int {
	for i := range lists {
		if lists[i].ID == id {
			return i
		}
	}
	return -1
}

func cloneLists(lists []model.ReadingList) []model.ReadingList {
	out := make([]model.ReadingList, 0, len(lists))
	for _, l := range lists {
		out = append(out, l.Clone())
	}
	return out
}
