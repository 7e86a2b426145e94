package readinglist_test

import (
	"context"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Astemirdum/bookshelf/gateway/internal/errs"
	"github.com/Astemirdum/bookshelf/gateway/internal/model"
	"github.com/Astemirdum/bookshelf/gateway/internal/readinglist"
	mock_readinglist "github.com/Astemirdum/bookshelf/gateway/internal/readinglist/mocks"
	"github.com/Astemirdum/bookshelf/pkg/kafka"
)

const userID = "u1"

func lists() []model.ReadingList {
	return []model.ReadingList{
		{ID: "l1", UserID: userID, Name: "Later", BookIDs: []string{"a", "b", "c"}},
		{ID: "l2", UserID: userID, Name: "Favourites", Description: "best", BookIDs: []string{}},
	}
}

func newCoordinator(t *testing.T, seed []model.ReadingList) (*readinglist.Coordinator, *mock_readinglist.MockStore) {
	t.Helper()
	ctrl := gomock.NewController(t)
	store := mock_readinglist.NewMockStore(ctrl)
	c := readinglist.NewCoordinator(zap.NewNop(), store, nil, userID)
	t.Cleanup(c.Close)
	if seed != nil {
		store.EXPECT().ListReadingLists(gomock.Any(), userID).Return(seed, nil)
		res := c.LoadLists(context.Background())
		require.NoError(t, res.Err)
	}
	return c, store
}

func TestCoordinator_CreateList(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		input   string
		mock    func(s *mock_readinglist.MockStore)
		wantErr bool
		wantLen int
	}{
		{
			name:    "empty name never reaches the store",
			input:   "",
			mock:    func(s *mock_readinglist.MockStore) {},
			wantErr: true,
			wantLen: 2,
		},
		{
			name:    "blank name never reaches the store",
			input:   "  \t",
			mock:    func(s *mock_readinglist.MockStore) {},
			wantErr: true,
			wantLen: 2,
		},
		{
			name:  "created list is appended",
			input: "Summer",
			mock: func(s *mock_readinglist.MockStore) {
				s.EXPECT().
					CreateReadingList(gomock.Any(), model.CreateReadingListRequest{UserID: userID, Name: "Summer", Description: "d", BookIDs: []string{}}).
					Return(model.ReadingList{ID: "l3", UserID: userID, Name: "Summer", Description: "d", BookIDs: []string{}}, nil)
			},
			wantLen: 3,
		},
		{
			name:  "store failure leaves the cache",
			input: "Summer",
			mock: func(s *mock_readinglist.MockStore) {
				s.EXPECT().CreateReadingList(gomock.Any(), gomock.Any()).
					Return(model.ReadingList{}, errs.Transient("create reading list", 500, errors.New("boom")))
			},
			wantErr: true,
			wantLen: 2,
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			c, store := newCoordinator(t, lists())
			tt.mock(store)
			_, err := c.CreateList(context.Background(), tt.input, "d")
			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
			require.Len(t, c.Lists(), tt.wantLen)
		})
	}
}

func TestCoordinator_CreateListBlankIsValidationError(t *testing.T) {
	t.Parallel()
	c, _ := newCoordinator(t, nil)
	_, err := c.CreateList(context.Background(), "", "")
	var ve *errs.ValidationError
	require.True(t, errors.As(err, &ve))
	require.Equal(t, "name", ve.Field)
}

func TestCoordinator_UpdateList(t *testing.T) {
	t.Parallel()
	t.Run("failure leaves the cache equal", func(t *testing.T) {
		t.Parallel()
		c, store := newCoordinator(t, lists())
		before := c.Lists()
		name := "Renamed"
		store.EXPECT().UpdateReadingList(gomock.Any(), "l1", model.ReadingListPatch{Name: &name}).
			Return(model.ReadingList{}, errs.Transient("update reading list", 502, errors.New("bad gateway")))

		_, err := c.UpdateList(context.Background(), "l1", model.ReadingListPatch{Name: &name})
		require.Error(t, err)
		require.Equal(t, before, c.Lists())
	})
	t.Run("success replaces by id", func(t *testing.T) {
		t.Parallel()
		c, store := newCoordinator(t, lists())
		name := "Renamed"
		updated := model.ReadingList{ID: "l1", UserID: userID, Name: name, BookIDs: []string{"a", "b", "c"}}
		store.EXPECT().UpdateReadingList(gomock.Any(), "l1", gomock.Any()).Return(updated, nil)

		got, err := c.UpdateList(context.Background(), "l1", model.ReadingListPatch{Name: &name})
		require.NoError(t, err)
		require.Equal(t, updated, got)
		require.Equal(t, []model.ReadingList{updated, lists()[1]}, c.Lists())
	})
	t.Run("blank rename is rejected", func(t *testing.T) {
		t.Parallel()
		c, _ := newCoordinator(t, lists())
		blank := " "
		_, err := c.UpdateList(context.Background(), "l1", model.ReadingListPatch{Name: &blank})
		require.Equal(t, errs.KindValidation, errs.Classify(err))
	})
}

func TestCoordinator_DeleteRequiresConfirmation(t *testing.T) {
	t.Parallel()
	c, _ := newCoordinator(t, lists())
	before := c.Lists()

	conf, err := c.RequestDelete("l1")
	require.NoError(t, err)
	require.Equal(t, readinglist.ActionDeleteList, conf.Action)
	require.Contains(t, conf.Message, "Later")
	require.Equal(t, readinglist.StateConfirmPending, c.State())

	// no DeleteReadingList expectation: the store must not be touched
	require.Equal(t, before, c.Lists())

	require.NoError(t, c.Cancel(conf.ID))
	require.Equal(t, readinglist.StateIdle, c.State())
	require.Equal(t, before, c.Lists())

	_, err = c.Confirm(context.Background(), conf.ID)
	require.ErrorIs(t, err, errs.ErrNoPendingConfirmation)
}

func TestCoordinator_ConfirmDelete(t *testing.T) {
	t.Parallel()
	t.Run("success removes the entry", func(t *testing.T) {
		t.Parallel()
		c, store := newCoordinator(t, lists())
		conf, err := c.RequestDelete("l1")
		require.NoError(t, err)
		store.EXPECT().DeleteReadingList(gomock.Any(), "l1").Return(nil)

		out, err := c.Confirm(context.Background(), conf.ID)
		require.NoError(t, err)
		require.Equal(t, readinglist.Outcome{Action: readinglist.ActionDeleteList, ListID: "l1"}, out)
		require.Equal(t, []model.ReadingList{lists()[1]}, c.Lists())
		require.Equal(t, readinglist.StateIdle, c.State())
	})
	t.Run("failure keeps the entry and returns to idle", func(t *testing.T) {
		t.Parallel()
		c, store := newCoordinator(t, lists())
		conf, err := c.RequestDelete("l1")
		require.NoError(t, err)
		store.EXPECT().DeleteReadingList(gomock.Any(), "l1").Return(errs.Transient("delete reading list", 500, errors.New("boom")))

		_, err = c.Confirm(context.Background(), conf.ID)
		require.Error(t, err)
		require.Equal(t, lists(), c.Lists())
		require.Equal(t, readinglist.StateIdle, c.State())
	})
	t.Run("unknown list", func(t *testing.T) {
		t.Parallel()
		c, _ := newCoordinator(t, lists())
		_, err := c.RequestDelete("nope")
		require.ErrorIs(t, err, errs.ErrNotFound)
		require.Equal(t, readinglist.StateIdle, c.State())
	})
}

func TestCoordinator_NewerIntentReplacesPending(t *testing.T) {
	t.Parallel()
	c, store := newCoordinator(t, lists())
	first, err := c.RequestDelete("l1")
	require.NoError(t, err)
	second, err := c.RequestDelete("l2")
	require.NoError(t, err)
	require.NotEqual(t, first.ID, second.ID)

	_, err = c.Confirm(context.Background(), first.ID)
	require.ErrorIs(t, err, errs.ErrNoPendingConfirmation)

	pending, ok := c.Pending()
	require.True(t, ok)
	require.Equal(t, second, pending)

	store.EXPECT().DeleteReadingList(gomock.Any(), "l2").Return(nil)
	_, err = c.Confirm(context.Background(), second.ID)
	require.NoError(t, err)
}

func TestCoordinator_RemoveBookSubmitsRemainingMembership(t *testing.T) {
	t.Parallel()
	c, store := newCoordinator(t, lists())
	conf, err := c.RequestRemoveBook("l1", "b")
	require.NoError(t, err)
	require.Equal(t, readinglist.ActionRemoveBook, conf.Action)

	remaining := []string{"a", "c"}
	after := []model.ReadingList{{ID: "l1", UserID: userID, Name: "Later", BookIDs: remaining}, lists()[1]}
	gomock.InOrder(
		store.EXPECT().UpdateReadingList(gomock.Any(), "l1", model.ReadingListPatch{BookIDs: &remaining}).
			Return(after[0], nil),
		store.EXPECT().ListReadingLists(gomock.Any(), userID).Return(after, nil),
	)
	store.EXPECT().ListBooks(gomock.Any()).Return([]model.Book{{ID: "a", Title: "A"}, {ID: "b", Title: "B"}, {ID: "c", Title: "C"}}, nil)

	out, err := c.Confirm(context.Background(), conf.ID)
	require.NoError(t, err)
	require.NotNil(t, out.Detail)
	require.Equal(t, remaining, out.Detail.List.BookIDs)
	require.Equal(t, []model.Book{{ID: "a", Title: "A"}, {ID: "c", Title: "C"}}, out.Detail.Books)
	require.Equal(t, after, c.Lists())
}

func TestCoordinator_RemoveBookNotOnList(t *testing.T) {
	t.Parallel()
	c, _ := newCoordinator(t, lists())
	_, err := c.RequestRemoveBook("l2", "a")
	require.ErrorIs(t, err, errs.ErrNotFound)
}

func TestCoordinator_AddBookToList(t *testing.T) {
	t.Parallel()
	t.Run("duplicate is rejected before any call", func(t *testing.T) {
		t.Parallel()
		c, _ := newCoordinator(t, lists())
		_, err := c.AddBookToList(context.Background(), "l1", "b")
		require.Equal(t, errs.KindValidation, errs.Classify(err))
	})
	t.Run("adds then reloads without touching the cache first", func(t *testing.T) {
		t.Parallel()
		c, store := newCoordinator(t, lists())
		after := lists()
		after[1].BookIDs = []string{"z"}
		gomock.InOrder(
			store.EXPECT().AddBookToList(gomock.Any(), "l2", "z").DoAndReturn(func(context.Context, string, string) error {
				require.Equal(t, lists(), c.Lists())
				return nil
			}),
			store.EXPECT().ListReadingLists(gomock.Any(), userID).Return(after, nil),
		)
		store.EXPECT().ListBooks(gomock.Any()).Return([]model.Book{{ID: "z", Title: "Zed"}}, nil)

		detail, err := c.AddBookToList(context.Background(), "l2", "z")
		require.NoError(t, err)
		require.Equal(t, []model.Book{{ID: "z", Title: "Zed"}}, detail.Books)
		require.Equal(t, after, c.Lists())
	})
}

func TestCoordinator_LoadLists(t *testing.T) {
	t.Parallel()
	t.Run("failure is degraded not empty", func(t *testing.T) {
		t.Parallel()
		c, store := newCoordinator(t, lists())
		store.EXPECT().ListReadingLists(gomock.Any(), userID).Return(nil, errs.Transient("list reading lists", 502, errors.New("down")))
		res := c.LoadLists(context.Background())
		require.True(t, res.Degraded)
		require.Error(t, res.Err)
		require.Empty(t, res.Lists)
		require.Empty(t, c.Lists())
	})
	t.Run("empty is not degraded", func(t *testing.T) {
		t.Parallel()
		c, store := newCoordinator(t, nil)
		store.EXPECT().ListReadingLists(gomock.Any(), userID).Return([]model.ReadingList{}, nil)
		res := c.LoadLists(context.Background())
		require.False(t, res.Degraded)
		require.NoError(t, res.Err)
		require.Empty(t, res.Lists)
	})
}

func TestCoordinator_LoadListAndBooks(t *testing.T) {
	t.Parallel()
	c, store := newCoordinator(t, nil)
	store.EXPECT().ListReadingLists(gomock.Any(), userID).Return(lists(), nil).Times(2)
	store.EXPECT().ListBooks(gomock.Any()).Return([]model.Book{{ID: "c"}, {ID: "a"}}, nil).Times(2)

	detail, err := c.LoadListAndBooks(context.Background(), "l1")
	require.NoError(t, err)
	require.Equal(t, "Later", detail.List.Name)
	// list order, unknown "b" skipped
	require.Equal(t, []model.Book{{ID: "a"}, {ID: "c"}}, detail.Books)

	_, err = c.LoadListAndBooks(context.Background(), "missing")
	require.ErrorIs(t, err, errs.ErrNotFound)
}

func TestCoordinator_BusyGuard(t *testing.T) {
	t.Parallel()
	c, store := newCoordinator(t, lists())
	started := make(chan struct{})
	release := make(chan struct{})
	name := "Renamed"
	store.EXPECT().UpdateReadingList(gomock.Any(), "l1", gomock.Any()).
		DoAndReturn(func(context.Context, string, model.ReadingListPatch) (model.ReadingList, error) {
			close(started)
			<-release
			return model.ReadingList{ID: "l1", Name: name}, nil
		})

	done := make(chan error, 1)
	go func() {
		_, err := c.UpdateList(context.Background(), "l1", model.ReadingListPatch{Name: &name})
		done <- err
	}()
	<-started
	_, err := c.UpdateList(context.Background(), "l1", model.ReadingListPatch{Name: &name})
	require.ErrorIs(t, err, errs.ErrBusy)
	close(release)
	require.NoError(t, <-done)
}

func TestCoordinator_IntentWhileExecutingIsBusy(t *testing.T) {
	t.Parallel()
	c, store := newCoordinator(t, lists())
	conf, err := c.RequestDelete("l1")
	require.NoError(t, err)

	started := make(chan struct{})
	release := make(chan struct{})
	store.EXPECT().DeleteReadingList(gomock.Any(), "l1").DoAndReturn(func(context.Context, string) error {
		close(started)
		<-release
		return nil
	})
	done := make(chan error, 1)
	go func() {
		_, err := c.Confirm(context.Background(), conf.ID)
		done <- err
	}()
	<-started
	require.Equal(t, readinglist.StateExecuting, c.State())
	_, err = c.RequestDelete("l2")
	require.ErrorIs(t, err, errs.ErrBusy)
	require.ErrorIs(t, c.Cancel(conf.ID), errs.ErrBusy)
	close(release)
	require.NoError(t, <-done)
	require.Equal(t, readinglist.StateIdle, c.State())
}

func TestCoordinator_CloseDropsLateResults(t *testing.T) {
	t.Parallel()
	c, store := newCoordinator(t, lists())
	started := make(chan struct{})
	store.EXPECT().CreateReadingList(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, _ model.CreateReadingListRequest) (model.ReadingList, error) {
			close(started)
			select {
			case <-ctx.Done():
			case <-time.After(5 * time.Second):
			}
			return model.ReadingList{ID: "late", Name: "Late"}, nil
		})

	done := make(chan error, 1)
	go func() {
		_, err := c.CreateList(context.Background(), "Late", "")
		done <- err
	}()
	<-started
	c.Close()
	require.ErrorIs(t, <-done, errs.ErrClosed)
	require.Equal(t, lists(), c.Lists())

	_, err := c.RequestDelete("l1")
	require.ErrorIs(t, err, errs.ErrClosed)
	require.Equal(t, errs.ErrClosed, c.LoadLists(context.Background()).Err)
}

func TestCoordinator_PublishesConfirmedMutations(t *testing.T) {
	t.Parallel()
	ctrl := gomock.NewController(t)
	store := mock_readinglist.NewMockStore(ctrl)
	events := mock_readinglist.NewMockEventPublisher(ctrl)
	c := readinglist.NewCoordinator(zap.NewNop(), store, events, userID)
	t.Cleanup(c.Close)

	store.EXPECT().CreateReadingList(gomock.Any(), gomock.Any()).Return(model.ReadingList{ID: "l9", Name: "New"}, nil)
	events.EXPECT().Publish(gomock.Any(), gomock.Any()).Do(func(_ context.Context, ev kafka.Event) {
		require.Equal(t, kafka.ListCreated, ev.EventType)
		require.Equal(t, userID, ev.UserID)
		require.Equal(t, "l9", ev.ListID)
	})
	_, err := c.CreateList(context.Background(), "New", "")
	require.NoError(t, err)

	// failed writes publish nothing
	store.EXPECT().CreateReadingList(gomock.Any(), gomock.Any()).Return(model.ReadingList{}, errs.Transient("create reading list", 500, errors.New("x")))
	_, err = c.CreateList(context.Background(), "New", "")
	require.Error(t, err)
}
