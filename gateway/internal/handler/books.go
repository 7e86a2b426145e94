package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Astemirdum/bookshelf/gateway/internal/catalog"
	"github.com/Astemirdum/bookshelf/gateway/internal/errs"
	"github.com/Astemirdum/bookshelf/gateway/internal/model"
)

type listBooksQuery struct {
	Query string `query:"q"`
	model.SearchFilters
	Sort     string `query:"sort"`
	Page     int    `query:"page"`
	PageSize int    `query:"pageSize"`
}

// ListBooks godoc
// @Summary search, sort and page the catalog
// @Tags books
// @Produce json
// @Param q query string false "title or author substring"
// @Param genre query string false "genre"
// @Param rating query string false "minimum rating"
// @Param year query string false "year fragment or start-end range"
// @Param sort query string false "title|author|rating|year"
// @Param page query int false "1-indexed page"
// @Param pageSize query int false "page size"
// @Success 200 {object} model.CatalogView
// @Failure 400 {object} errs.Notification
// @Failure 502 {object} errs.Notification
// @Router /api/v1/books [get]
func (h *Handler) ListBooks(c echo.Context) error {
	var q listBooksQuery
	if err := (&echo.DefaultBinder{}).BindQueryParams(c, &q); err != nil {
		return fail(errs.Invalid("", "malformed query"))
	}
	key := catalog.DefaultSort
	if q.Sort != "" {
		var ok bool
		if key, ok = catalog.ParseSortKey(q.Sort); !ok {
			return fail(errs.Invalid("sort", "unknown sort key"))
		}
	}
	if q.Page == 0 {
		q.Page = 1
	}
	if q.PageSize <= 0 {
		q.PageSize = h.pageSize
	}
	if q.Page < 0 || q.PageSize > 100 {
		return fail(errs.Invalid("page", "out of range"))
	}

	books, err := h.catalog.ListBooks(c.Request().Context())
	if err != nil {
		return fail(err)
	}
	view := catalog.ComputeView(books, q.Query, q.SearchFilters, key)
	return c.JSON(http.StatusOK, model.CatalogView{
		Page:   catalog.Paginate(view, q.Page, q.PageSize),
		Genres: catalog.AvailableGenres(books),
		Sort:   key,
	})
}

// GetBook godoc
// @Summary get a book
// @Tags books
// @Produce json
// @Param id path string true "book id"
// @Success 200 {object} model.Book
// @Failure 404 {object} errs.Notification
// @Router /api/v1/books/{id} [get]
func (h *Handler) GetBook(c echo.Context) error {
	book, err := h.catalog.GetBook(c.Request().Context(), c.Param("id"))
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, book)
}

func (h *Handler) CreateBook(c echo.Context) error {
	var req model.Book
	if err := bind(c, &req); err != nil {
		return err
	}
	svc, err := h.catalogAs(c)
	if err != nil {
		return err
	}
	book, err := svc.CreateBook(c.Request().Context(), req)
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusCreated, book)
}

func (h *Handler) UpdateBook(c echo.Context) error {
	var patch model.BookPatch
	if err := bind(c, &patch); err != nil {
		return err
	}
	svc, err := h.catalogAs(c)
	if err != nil {
		return err
	}
	book, err := svc.UpdateBook(c.Request().Context(), c.Param("id"), patch)
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, book)
}

func (h *Handler) DeleteBook(c echo.Context) error {
	svc, err := h.catalogAs(c)
	if err != nil {
		return err
	}
	if err := svc.DeleteBook(c.Request().Context(), c.Param("id")); err != nil {
		return fail(err)
	}
	return c.NoContent(http.StatusNoContent)
}

// GetStats godoc
// @Summary site statistics
// @Description Falls back to placeholder numbers flagged as degraded when the API cannot answer.
// @Tags admin
// @Produce json
// @Param X-Session-ID header string true "session id"
// @Success 200 {object} model.Stats
// @Failure 403 {object} errs.Notification
// @Router /api/v1/stats [get]
func (h *Handler) GetStats(c echo.Context) error {
	svc, err := h.catalogAs(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, svc.GetStats(c.Request().Context()))
}

func (h *Handler) Recommend(c echo.Context) error {
	var req model.RecommendationRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	svc := h.catalog
	if sess, ok := sessionFrom(c); ok {
		svc = h.catalogFor(sess)
	}
	recs, err := svc.Recommend(c.Request().Context(), req.Query)
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, recs)
}

// catalogAs returns the catalog client of the request's session.
func (h *Handler) catalogAs(c echo.Context) (CatalogService, error) {
	sess, ok := sessionFrom(c)
	if !ok {
		return nil, fail(errs.ErrUnauthenticated)
	}
	return h.workspace(sess).catalog, nil
}
