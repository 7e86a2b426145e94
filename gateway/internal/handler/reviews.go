package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Astemirdum/bookshelf/gateway/internal/errs"
	"github.com/Astemirdum/bookshelf/gateway/internal/model"
)

// reviewRequest leaves validation to the composer. A zero rating keeps the form's rating.
type reviewRequest struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

// reviewResponse carries the created review and the book's reviews. When the reload
// after the post failed, Stale is set and Notice says why.
type reviewResponse struct {
	Review  model.Review       `json:"review"`
	Reviews []model.Review     `json:"reviews"`
	Stale   bool               `json:"stale"`
	Notice  *errs.Notification `json:"notice,omitempty"`
}

func (h *Handler) ListReviews(c echo.Context) error {
	reviews, err := h.catalog.ListReviews(c.Request().Context(), c.Param("id"))
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, reviews)
}

// CreateReview godoc
// @Summary review a book
// @Description Answers with the created review and the book's reviews as fetched again afterwards.
// @Tags reviews
// @Accept json
// @Produce json
// @Param X-Session-ID header string true "session id"
// @Param id path string true "book id"
// @Param body body reviewRequest true "review"
// @Success 201 {object} reviewResponse
// @Failure 400 {object} errs.Notification
// @Failure 409 {object} errs.Notification
// @Router /api/v1/books/{id}/reviews [post]
func (h *Handler) CreateReview(c echo.Context) error {
	var req reviewRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	sess, ok := sessionFrom(c)
	if !ok {
		return fail(errs.ErrUnauthenticated)
	}
	user, _ := sess.User()
	ws, err := h.requireWorkspace(c)
	if err != nil {
		return err
	}
	composer, err := ws.composer(h.log, h.events, c.Param("id"))
	if err != nil {
		return fail(err)
	}
	composer.Open()
	if req.Rating != 0 {
		if err := composer.SetRating(req.Rating); err != nil {
			return fail(err)
		}
	}
	composer.SetComment(req.Comment)

	res, err := composer.Submit(c.Request().Context(), &user)
	if err != nil {
		return fail(err)
	}
	resp := reviewResponse{Review: res.Review, Reviews: composer.Reviews(), Stale: res.Stale}
	if res.ReloadErr != nil {
		n := errs.Notice(res.ReloadErr)
		resp.Notice = &n
	}
	return c.JSON(http.StatusCreated, resp)
}
