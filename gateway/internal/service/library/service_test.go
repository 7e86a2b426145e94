package library

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Astemirdum/bookshelf/gateway/config"
	"github.com/Astemirdum/bookshelf/gateway/internal/errs"
	"github.com/Astemirdum/bookshelf/gateway/internal/model"
)

type staticCreds struct {
	id, access string
}

func (c staticCreds) IDToken() string     { return c.id }
func (c staticCreds) AccessToken() string { return c.access }

func newTestService(t *testing.T, h http.HandlerFunc) *Service {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewService(zap.NewNop(), config.CatalogAPI{URL: srv.URL + "/", Timeout: 5 * time.Second})
}

func TestService_GetBook(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		status   int
		body     string
		wantBook model.Book
		check    func(t *testing.T, err error)
	}{
		{
			name:     "ok",
			status:   http.StatusOK,
			body:     `{"id":"1","title":"Dune","author":"Frank Herbert","rating":4.6,"publishedYear":1965}`,
			wantBook: model.Book{ID: "1", Title: "Dune", Author: "Frank Herbert", Rating: 4.6, PublishedYear: 1965},
			check:    func(t *testing.T, err error) { require.NoError(t, err) },
		},
		{
			name:   "404 is not found",
			status: http.StatusNotFound,
			body:   `{"message":"no such book"}`,
			check: func(t *testing.T, err error) {
				require.ErrorIs(t, err, errs.ErrNotFound)
				require.Equal(t, errs.KindNotFound, errs.Classify(err))
			},
		},
		{
			name:   "500 is transient",
			status: http.StatusInternalServerError,
			body:   `{"message":"boom"}`,
			check: func(t *testing.T, err error) {
				var te *errs.TransientError
				require.True(t, errors.As(err, &te))
				require.Equal(t, http.StatusInternalServerError, te.Code)
				require.Contains(t, err.Error(), "boom")
			},
		},
		{
			name:   "403 is transient",
			status: http.StatusForbidden,
			body:   `forbidden`,
			check: func(t *testing.T, err error) {
				require.Equal(t, errs.KindTransient, errs.Classify(err))
			},
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/books/1", r.URL.Path)
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})
			book, err := svc.GetBook(context.Background(), "1")
			tt.check(t, err)
			require.Equal(t, tt.wantBook, book)
		})
	}
}

func TestService_Authorization(t *testing.T) {
	t.Parallel()
	var gotBooks, gotRecs atomic.Value
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/books":
			gotBooks.Store(r.Header.Get("Authorization"))
			_, _ = w.Write([]byte(`[]`))
		case "/recommendations":
			gotRecs.Store(r.Header.Get("Authorization"))
			_, _ = w.Write([]byte(`[{"title":"Dune"}]`))
		}
	})
	ctx := context.Background()

	_, err := svc.ListBooks(ctx)
	require.NoError(t, err)
	require.Equal(t, "", gotBooks.Load())

	authed := svc.WithCredentials(staticCreds{id: "id-tok", access: "acc-tok"})
	_, err = authed.ListBooks(ctx)
	require.NoError(t, err)
	require.Equal(t, "Bearer id-tok", gotBooks.Load())

	recs, err := authed.Recommend(ctx, "space opera")
	require.NoError(t, err)
	require.Equal(t, []model.Recommendation{{Title: "Dune"}}, recs)
	require.Equal(t, "Bearer acc-tok", gotRecs.Load())

	// the parent stays anonymous
	_, err = svc.ListBooks(ctx)
	require.NoError(t, err)
	require.Equal(t, "", gotBooks.Load())
}

func TestService_UpdateReadingListSendsFullMembership(t *testing.T) {
	t.Parallel()
	var got map[string]any
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/reading-lists/l1", r.URL.Path)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"id":"l1","name":"n","bookIds":["a","c"]}`))
	})
	ids := []string{"a", "c"}
	list, err := svc.UpdateReadingList(context.Background(), "l1", model.ReadingListPatch{BookIDs: &ids})
	require.NoError(t, err)
	require.Equal(t, []string{"a", "c"}, list.BookIDs)
	require.Equal(t, map[string]any{"bookIds": []any{"a", "c"}}, got)
}

func TestService_ListReadingListsQuery(t *testing.T) {
	t.Parallel()
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "u1", r.URL.Query().Get("userId"))
		_, _ = w.Write([]byte(`[{"id":"l1","userId":"u1","name":"Later","bookIds":[]}]`))
	})
	lists, err := svc.ListReadingLists(context.Background(), "u1")
	require.NoError(t, err)
	require.Len(t, lists, 1)
	require.Equal(t, "Later", lists[0].Name)
}

func TestService_AddBookToList(t *testing.T) {
	t.Parallel()
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/reading-lists/l1/books", r.URL.Path)
		var req model.AddBookRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "b1", req.BookID)
		w.WriteHeader(http.StatusNoContent)
	})
	require.NoError(t, svc.AddBookToList(context.Background(), "l1", "b1"))
}

func TestService_GetStats(t *testing.T) {
	t.Parallel()
	t.Run("fetched", func(t *testing.T) {
		t.Parallel()
		svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"totalUsers":12,"totalLists":30}`))
		})
		require.Equal(t, model.Stats{TotalUsers: 12, TotalLists: 30}, svc.GetStats(context.Background()))
	})
	t.Run("fallback", func(t *testing.T) {
		t.Parallel()
		svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		})
		require.Equal(t, model.Stats{TotalUsers: 1, TotalLists: 0, Degraded: true}, svc.GetStats(context.Background()))
	})
}

func TestService_BreakerOpensOnUpstreamFailures(t *testing.T) {
	t.Parallel()
	var hits atomic.Int32
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	})
	ctx := context.Background()
	// 20% of a 100-call window
	for i := 0; i < 20; i++ {
		_, err := svc.ListReviews(ctx, "1")
		require.Error(t, err)
	}
	_, err := svc.ListReviews(ctx, "1")
	var te *errs.TransientError
	require.True(t, errors.As(err, &te))
	require.Equal(t, http.StatusServiceUnavailable, te.Code)
	require.Equal(t, int32(20), hits.Load())

	// other resource families are unaffected
	_, err = svc.ListBooks(ctx)
	require.Error(t, err)
	require.Equal(t, int32(21), hits.Load())
}

func TestService_NotFoundDoesNotTripBreaker(t *testing.T) {
	t.Parallel()
	var hits atomic.Int32
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusNotFound)
	})
	for i := 0; i < 30; i++ {
		_, err := svc.GetBook(context.Background(), "missing")
		require.ErrorIs(t, err, errs.ErrNotFound)
	}
	require.Equal(t, int32(30), hits.Load())
}
