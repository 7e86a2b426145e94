package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Astemirdum/bookshelf/gateway/internal/catalog"
	"github.com/Astemirdum/bookshelf/gateway/internal/errs"
	"github.com/Astemirdum/bookshelf/gateway/internal/model"
)

// The /browse endpoints keep the catalog criteria and current page on the server for
// the session, so a client only sends what changed.

type searchRequest struct {
	Query string `json:"q"`
	model.SearchFilters
}

type sortRequest struct {
	Sort string `json:"sort" validate:"required"`
}

type browsePageQuery struct {
	Page int `query:"page"`
}

func (h *Handler) Browse(c echo.Context) error {
	ws, err := h.browserWorkspace(c)
	if err != nil {
		return err
	}
	var q browsePageQuery
	if err := (&echo.DefaultBinder{}).BindQueryParams(c, &q); err != nil {
		return fail(errs.Invalid("page", "must be a number"))
	}
	page := ws.browser.Current()
	if q.Page != 0 {
		page = ws.browser.GoTo(q.Page)
	}
	return c.JSON(http.StatusOK, browseView(ws, page))
}

// ReloadBrowse fetches the collection again. A failure keeps the previous one.
func (h *Handler) ReloadBrowse(c echo.Context) error {
	ws, err := h.requireWorkspace(c)
	if err != nil {
		return err
	}
	if err := ws.browser.Load(c.Request().Context(), ws.catalog); err != nil {
		return fail(err)
	}
	ws.markBrowserLoaded()
	return c.JSON(http.StatusOK, browseView(ws, ws.browser.Current()))
}

func (h *Handler) SearchBrowse(c echo.Context) error {
	var req searchRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	ws, err := h.browserWorkspace(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, browseView(ws, ws.browser.Search(req.Query, req.SearchFilters)))
}

func (h *Handler) SortBrowse(c echo.Context) error {
	var req sortRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	key, ok := catalog.ParseSortKey(req.Sort)
	if !ok {
		return fail(errs.Invalid("sort", "unknown sort key"))
	}
	ws, err := h.browserWorkspace(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, browseView(ws, ws.browser.Sort(key)))
}

// browserWorkspace loads the collection on the session's first browse request.
func (h *Handler) browserWorkspace(c echo.Context) (*workspace, error) {
	ws, err := h.requireWorkspace(c)
	if err != nil {
		return nil, err
	}
	if ws.browserLoaded() {
		return ws, nil
	}
	if err := ws.browser.Load(c.Request().Context(), ws.catalog); err != nil {
		return nil, fail(err)
	}
	ws.markBrowserLoaded()
	return ws, nil
}

func browseView(ws *workspace, page model.Page) model.CatalogView {
	return model.CatalogView{Page: page, Genres: ws.browser.Genres(), Sort: ws.browser.SortKey()}
}
