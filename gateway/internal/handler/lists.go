package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Astemirdum/bookshelf/gateway/internal/errs"
	"github.com/Astemirdum/bookshelf/gateway/internal/model"
)

type listsResponse struct {
	Lists    []model.ReadingList `json:"lists"`
	Degraded bool                `json:"degraded"`
	Notice   *errs.Notification  `json:"notice,omitempty"`
}

type createListRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// ListReadingLists godoc
// @Summary the signed-in user's reading lists
// @Description A failed read answers 200 with degraded=true, an empty list and a notice.
// @Tags reading-lists
// @Produce json
// @Param X-Session-ID header string true "session id"
// @Success 200 {object} listsResponse
// @Failure 401 {object} errs.Notification
// @Router /api/v1/reading-lists [get]
func (h *Handler) ListReadingLists(c echo.Context) error {
	ws, err := h.requireWorkspace(c)
	if err != nil {
		return err
	}
	res := ws.lists.LoadLists(c.Request().Context())
	ws.markListsLoaded()
	if res.Err != nil && !res.Degraded {
		return fail(res.Err)
	}
	resp := listsResponse{Lists: res.Lists, Degraded: res.Degraded}
	if res.Err != nil {
		n := errs.Notice(res.Err)
		resp.Notice = &n
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *Handler) CreateReadingList(c echo.Context) error {
	var req createListRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	ws, err := h.requireWorkspace(c)
	if err != nil {
		return err
	}
	ctx := c.Request().Context()
	h.ensureLists(ctx, ws)
	list, err := ws.lists.CreateList(ctx, req.Name, req.Description)
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusCreated, list)
}

func (h *Handler) GetReadingList(c echo.Context) error {
	ws, err := h.requireWorkspace(c)
	if err != nil {
		return err
	}
	detail, err := ws.lists.LoadListAndBooks(c.Request().Context(), c.Param("id"))
	if err != nil {
		return fail(err)
	}
	ws.markListsLoaded()
	return c.JSON(http.StatusOK, detail)
}

func (h *Handler) UpdateReadingList(c echo.Context) error {
	var patch model.ReadingListPatch
	if err := bind(c, &patch); err != nil {
		return err
	}
	ws, err := h.requireWorkspace(c)
	if err != nil {
		return err
	}
	ctx := c.Request().Context()
	h.ensureLists(ctx, ws)
	list, err := ws.lists.UpdateList(ctx, c.Param("id"), patch)
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, list)
}

// DeleteReadingList godoc
// @Summary ask to delete a reading list
// @Description Nothing is deleted yet. The answer is the confirmation to POST to /confirmations/{confirmationId}.
// @Tags reading-lists
// @Produce json
// @Param X-Session-ID header string true "session id"
// @Param id path string true "list id"
// @Success 202 {object} readinglist.Confirmation
// @Failure 404 {object} errs.Notification
// @Failure 409 {object} errs.Notification
// @Router /api/v1/reading-lists/{id} [delete]
func (h *Handler) DeleteReadingList(c echo.Context) error {
	ws, err := h.requireWorkspace(c)
	if err != nil {
		return err
	}
	h.ensureLists(c.Request().Context(), ws)
	conf, err := ws.lists.RequestDelete(c.Param("id"))
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusAccepted, conf)
}

func (h *Handler) AddBookToList(c echo.Context) error {
	var req model.AddBookRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	ws, err := h.requireWorkspace(c)
	if err != nil {
		return err
	}
	ctx := c.Request().Context()
	h.ensureLists(ctx, ws)
	detail, err := ws.lists.AddBookToList(ctx, c.Param("id"), req.BookID)
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, detail)
}

func (h *Handler) RemoveBookFromList(c echo.Context) error {
	ws, err := h.requireWorkspace(c)
	if err != nil {
		return err
	}
	h.ensureLists(c.Request().Context(), ws)
	conf, err := ws.lists.RequestRemoveBook(c.Param("id"), c.Param("bookId"))
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusAccepted, conf)
}

func (h *Handler) PendingConfirmation(c echo.Context) error {
	ws, err := h.requireWorkspace(c)
	if err != nil {
		return err
	}
	conf, ok := ws.lists.Pending()
	if !ok {
		return c.NoContent(http.StatusNoContent)
	}
	return c.JSON(http.StatusOK, conf)
}

// Confirm godoc
// @Summary run the pending destructive action
// @Tags reading-lists
// @Produce json
// @Param X-Session-ID header string true "session id"
// @Param confirmationId path string true "confirmation id"
// @Success 200 {object} readinglist.Outcome
// @Failure 400 {object} errs.Notification
// @Failure 502 {object} errs.Notification
// @Router /api/v1/confirmations/{confirmationId} [post]
func (h *Handler) Confirm(c echo.Context) error {
	ws, err := h.requireWorkspace(c)
	if err != nil {
		return err
	}
	out, err := ws.lists.Confirm(c.Request().Context(), c.Param("confirmationId"))
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *Handler) CancelConfirmation(c echo.Context) error {
	ws, err := h.requireWorkspace(c)
	if err != nil {
		return err
	}
	if err := ws.lists.Cancel(c.Param("confirmationId")); err != nil {
		return fail(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) requireWorkspace(c echo.Context) (*workspace, error) {
	sess, ok := sessionFrom(c)
	if !ok {
		return nil, fail(errs.ErrUnauthenticated)
	}
	ws := h.workspace(sess)
	if !ws.alive() {
		// signed out while the request was in flight
		return nil, fail(errs.ErrUnauthenticated)
	}
	return ws, nil
}

// ensureLists fills the coordinator's cache on the first write of a session, so that
// requests may target lists without listing them first.
func (h *Handler) ensureLists(ctx context.Context, ws *workspace) {
	if ws.listsLoaded() {
		return
	}
	if res := ws.lists.LoadLists(ctx); res.Err == nil {
		ws.markListsLoaded()
	}
}
