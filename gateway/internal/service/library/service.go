package library

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/Astemirdum/bookshelf/gateway/config"
	"github.com/Astemirdum/bookshelf/gateway/internal/errs"
	"github.com/Astemirdum/bookshelf/gateway/internal/model"
	"github.com/Astemirdum/bookshelf/pkg/auth0"
	"github.com/Astemirdum/bookshelf/pkg/circuit_breaker"
)

// CredentialSource yields the caller's current tokens. Empty strings mean anonymous.
type CredentialSource interface {
	IDToken() string
	AccessToken() string
}

type breakers struct {
	books   circuit_breaker.CircuitBreaker
	lists   circuit_breaker.CircuitBreaker
	reviews circuit_breaker.CircuitBreaker
	misc    circuit_breaker.CircuitBreaker
}

// Service is the client of the catalog REST API. A zero credential source sends
// requests without Authorization.
type Service struct {
	log     *zap.Logger
	client  *http.Client
	baseURL string
	cb      *breakers
	creds   CredentialSource
}

func NewService(log *zap.Logger, cfg config.CatalogAPI) *Service {
	log = log.Named("catalog_api")
	newCB := func(name string) circuit_breaker.CircuitBreaker {
		return circuit_breaker.New(100, time.Second, 0.2, 2,
			circuit_breaker.WithIgnore(func(err error) bool {
				return !errors.Is(err, errUpstream)
			}),
			circuit_breaker.WithStateHook(func(from, to circuit_breaker.Status) {
				log.Warn("circuit breaker",
					zap.String("resource", name),
					zap.Stringer("from", from),
					zap.Stringer("to", to))
			}),
		)
	}
	return &Service{
		log:     log,
		client:  newHTTPClient(cfg.Timeout),
		baseURL: strings.TrimSuffix(cfg.URL, "/"),
		cb: &breakers{
			books:   newCB("books"),
			lists:   newCB("reading-lists"),
			reviews: newCB("reviews"),
			misc:    newCB("misc"),
		},
	}
}

// WithCredentials returns a copy that authenticates as src. Connections and breakers are
// shared with the parent.
func (s *Service) WithCredentials(src CredentialSource) *Service {
	cp := *s
	cp.creds = src
	return &cp
}

func newHTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = time.Minute
	}
	return &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			Proxy: http.ProxyFromEnvironment,
			DialContext: (&net.Dialer{
				Timeout:   5 * time.Second,
				KeepAlive: 30 * time.Second,
			}).DialContext,
			MaxIdleConns:          100,
			MaxIdleConnsPerHost:   20,
			IdleConnTimeout:       90 * time.Second,
			TLSHandshakeTimeout:   5 * time.Second,
			ExpectContinueTimeout: time.Second,
		},
	}
}

// errUpstream marks failures that count against a breaker: transport errors and 5xx.
var errUpstream = errors.New("upstream unavailable")

type tokenKind int

const (
	idToken tokenKind = iota
	accessToken
)

type call struct {
	op     string
	method string
	path   string
	query  url.Values
	body   any
	out    any
	token  tokenKind
}

func (s *Service) do(ctx context.Context, cb circuit_breaker.CircuitBreaker, c call) error {
	err := cb.Call(func() error {
		return s.roundTrip(ctx, c)
	})
	if errors.Is(err, circuit_breaker.ErrOpenCB) {
		return errs.Transient(c.op, http.StatusServiceUnavailable, err)
	}
	return err
}

func (s *Service) roundTrip(ctx context.Context, c call) error {
	var body io.Reader = http.NoBody
	if c.body != nil {
		b := bytes.NewBuffer(nil)
		if err := json.NewEncoder(b).Encode(c.body); err != nil {
			return errs.Transient(c.op, 0, err)
		}
		body = b
	}
	u := s.baseURL + c.path
	if len(c.query) > 0 {
		u += "?" + c.query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, c.method, u, body)
	if err != nil {
		return errs.Transient(c.op, 0, err)
	}
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSONCharsetUTF8)
	if token := s.token(c.token); token != "" {
		req.Header.Set(auth0.AuthorizationHeader, auth0.Bearer+token)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return errs.Transient(c.op, 0, ctx.Err())
		}
		return errs.Transient(c.op, 0, errors.Wrap(errUpstream, err.Error()))
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return errors.Wrap(errs.ErrNotFound, c.op)
	case resp.StatusCode >= http.StatusInternalServerError:
		return errs.Transient(c.op, resp.StatusCode, errors.Wrap(errUpstream, readMessage(resp.Body)))
	case resp.StatusCode >= http.StatusBadRequest:
		return errs.Transient(c.op, resp.StatusCode, errors.New(readMessage(resp.Body)))
	}

	if c.out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(c.out); err != nil && !errors.Is(err, io.EOF) {
		return errs.Transient(c.op, resp.StatusCode, errors.Wrap(err, "decode response"))
	}
	return nil
}

func (s *Service) token(kind tokenKind) string {
	if s.creds == nil {
		return ""
	}
	if kind == accessToken {
		return s.creds.AccessToken()
	}
	return s.creds.IDToken()
}

// readMessage pulls "message" out of an error body, falling back to the raw text.
func readMessage(r io.Reader) string {
	raw, err := io.ReadAll(io.LimitReader(r, 4<<10))
	if err != nil || len(raw) == 0 {
		return "request failed"
	}
	var body struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if json.Unmarshal(raw, &body) == nil {
		if body.Message != "" {
			return body.Message
		}
		if body.Error != "" {
			return body.Error
		}
	}
	return strings.TrimSpace(string(raw))
}

func (s *Service) ListBooks(ctx context.Context) ([]model.Book, error) {
	books := make([]model.Book, 0)
	err := s.do(ctx, s.cb.books, call{op: "list books", method: http.MethodGet, path: "/books", out: &books})
	return books, err
}

// GetBook returns errs.ErrNotFound for an unknown id.
func (s *Service) GetBook(ctx context.Context, id string) (model.Book, error) {
	var book model.Book
	err := s.do(ctx, s.cb.books, call{
		op:     "get book",
		method: http.MethodGet,
		path:   "/books/" + url.PathEscape(id),
		out:    &book,
	})
	return book, err
}

func (s *Service) CreateBook(ctx context.Context, book model.Book) (model.Book, error) {
	var created model.Book
	book.ID = ""
	err := s.do(ctx, s.cb.books, call{op: "create book", method: http.MethodPost, path: "/books", body: book, out: &created})
	return created, err
}

func (s *Service) UpdateBook(ctx context.Context, id string, patch model.BookPatch) (model.Book, error) {
	var updated model.Book
	err := s.do(ctx, s.cb.books, call{
		op:     "update book",
		method: http.MethodPut,
		path:   "/books/" + url.PathEscape(id),
		body:   patch,
		out:    &updated,
	})
	return updated, err
}

func (s *Service) DeleteBook(ctx context.Context, id string) error {
	return s.do(ctx, s.cb.books, call{op: "delete book", method: http.MethodDelete, path: "/books/" + url.PathEscape(id)})
}

// ListReadingLists fetches the lists of userID, or whatever the API scopes to the
// caller's token when userID is empty.
func (s *Service) ListReadingLists(ctx context.Context, userID string) ([]model.ReadingList, error) {
	lists := make([]model.ReadingList, 0)
	c := call{op: "list reading lists", method: http.MethodGet, path: "/reading-lists", out: &lists}
	if userID != "" {
		c.query = url.Values{"userId": {userID}}
	}
	err := s.do(ctx, s.cb.lists, c)
	return lists, err
}

func (s *Service) CreateReadingList(ctx context.Context, req model.CreateReadingListRequest) (model.ReadingList, error) {
	var list model.ReadingList
	if req.BookIDs == nil {
		req.BookIDs = []string{}
	}
	err := s.do(ctx, s.cb.lists, call{op: "create reading list", method: http.MethodPost, path: "/reading-lists", body: req, out: &list})
	return list, err
}

func (s *Service) UpdateReadingList(ctx context.Context, id string, patch model.ReadingListPatch) (model.ReadingList, error) {
	var list model.ReadingList
	err := s.do(ctx, s.cb.lists, call{
		op:     "update reading list",
		method: http.MethodPut,
		path:   "/reading-lists/" + url.PathEscape(id),
		body:   patch,
		out:    &list,
	})
	return list, err
}

func (s *Service) DeleteReadingList(ctx context.Context, id string) error {
	return s.do(ctx, s.cb.lists, call{op: "delete reading list", method: http.MethodDelete, path: "/reading-lists/" + url.PathEscape(id)})
}

func (s *Service) AddBookToList(ctx context.Context, listID, bookID string) error {
	return s.do(ctx, s.cb.lists, call{
		op:     "add book to list",
		method: http.MethodPost,
		path:   fmt.Sprintf("/reading-lists/%s/books", url.PathEscape(listID)),
		body:   model.AddBookRequest{BookID: bookID},
	})
}

func (s *Service) ListReviews(ctx context.Context, bookID string) ([]model.Review, error) {
	reviews := make([]model.Review, 0)
	err := s.do(ctx, s.cb.reviews, call{
		op:     "list reviews",
		method: http.MethodGet,
		path:   fmt.Sprintf("/books/%s/reviews", url.PathEscape(bookID)),
		out:    &reviews,
	})
	return reviews, err
}

func (s *Service) CreateReview(ctx context.Context, req model.CreateReviewRequest) (model.Review, error) {
	var review model.Review
	err := s.do(ctx, s.cb.reviews, call{
		op:     "create review",
		method: http.MethodPost,
		path:   fmt.Sprintf("/books/%s/reviews", url.PathEscape(req.BookID)),
		body:   req,
		out:    &review,
	})
	return review, err
}

// Recommend authenticates with the access token rather than the id token.
func (s *Service) Recommend(ctx context.Context, query string) ([]model.Recommendation, error) {
	recs := make([]model.Recommendation, 0)
	err := s.do(ctx, s.cb.misc, call{
		op:     "recommendations",
		method: http.MethodPost,
		path:   "/recommendations",
		body:   model.RecommendationRequest{Query: query},
		out:    &recs,
		token:  accessToken,
	})
	return recs, err
}

// GetStats never fails. When the API cannot answer it reports one user and no lists,
// marked Degraded.
func (s *Service) GetStats(ctx context.Context) model.Stats {
	var stats model.Stats
	if err := s.do(ctx, s.cb.misc, call{op: "stats", method: http.MethodGet, path: "/stats", out: &stats}); err != nil {
		s.log.Warn("stats fallback", zap.Error(err))
		return model.Stats{TotalUsers: 1, TotalLists: 0, Degraded: true}
	}
	stats.Degraded = false
	return stats
}
