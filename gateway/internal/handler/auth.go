package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/Astemirdum/bookshelf/gateway/internal/model"
)

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type loginResponse struct {
	SessionID string     `json:"sessionId"`
	User      model.User `json:"user"`
}

type signupRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Name     string `json:"name" validate:"notblank"`
}

type confirmSignupRequest struct {
	Email string `json:"email" validate:"required,email"`
	Code  string `json:"code" validate:"notblank"`
}

type changePasswordRequest struct {
	OldPassword string `json:"oldPassword" validate:"required"`
	NewPassword string `json:"newPassword" validate:"required,min=8"`
}

type changeEmailRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type codeRequest struct {
	Code string `json:"code" validate:"notblank"`
}

type resetPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type confirmResetRequest struct {
	Email       string `json:"email" validate:"required,email"`
	Code        string `json:"code" validate:"notblank"`
	NewPassword string `json:"newPassword" validate:"required,min=8"`
}

// Login godoc
// @Summary sign in
// @Description Exchanges credentials for a session. Send the returned id as X-Session-ID.
// @Tags auth
// @Accept json
// @Produce json
// @Param body body loginRequest true "credentials"
// @Success 200 {object} loginResponse
// @Failure 401 {object} errs.Notification
// @Router /api/v1/auth/login [post]
func (h *Handler) Login(c echo.Context) error {
	var req loginRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	ctx := c.Request().Context()
	tokens, err := h.identity.Login(ctx, req.Email, req.Password)
	if err != nil {
		return fail(err)
	}
	sess, err := h.sessions.Create(ctx, tokens)
	if err != nil {
		return fail(err)
	}
	user, _ := sess.User()
	h.log.Info("signed in", zap.String("user_id", user.ID))
	c.Response().Header().Set(HeaderSessionID, sess.ID())
	return c.JSON(http.StatusOK, loginResponse{SessionID: sess.ID(), User: user})
}

// Logout signs the session out locally even when the provider refuses the logout.
func (h *Handler) Logout(c echo.Context) error {
	sess, ok := sessionFrom(c)
	if !ok {
		return c.NoContent(http.StatusNoContent)
	}
	if err := h.sessions.Delete(c.Request().Context(), sess.ID()); err != nil {
		h.log.Warn("logout", zap.String("session_id", sess.ID()), zap.Error(err))
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) Me(c echo.Context) error {
	user, _ := currentUser(c)
	return c.JSON(http.StatusOK, user)
}

func (h *Handler) Signup(c echo.Context) error {
	var req signupRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	if err := h.identity.Signup(c.Request().Context(), req.Email, req.Password, req.Name); err != nil {
		return fail(err)
	}
	return c.NoContent(http.StatusAccepted)
}

func (h *Handler) ConfirmSignup(c echo.Context) error {
	var req confirmSignupRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	if err := h.identity.ConfirmSignup(c.Request().Context(), req.Email, req.Code); err != nil {
		return fail(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) ChangePassword(c echo.Context) error {
	var req changePasswordRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	sess, _ := sessionFrom(c)
	if err := h.identity.ChangePassword(c.Request().Context(), sess.AccessToken(), req.OldPassword, req.NewPassword); err != nil {
		return fail(err)
	}
	return c.NoContent(http.StatusNoContent)
}

// ChangeEmail starts an email change; the provider mails a code to the new address.
func (h *Handler) ChangeEmail(c echo.Context) error {
	var req changeEmailRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	sess, _ := sessionFrom(c)
	if err := h.identity.ChangeEmail(c.Request().Context(), sess.AccessToken(), req.Email); err != nil {
		return fail(err)
	}
	return c.NoContent(http.StatusAccepted)
}

func (h *Handler) ConfirmEmailChange(c echo.Context) error {
	var req codeRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	sess, _ := sessionFrom(c)
	if err := h.identity.ConfirmEmailChange(c.Request().Context(), sess.AccessToken(), req.Code); err != nil {
		return fail(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) RequestPasswordReset(c echo.Context) error {
	var req resetPasswordRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	if err := h.identity.RequestPasswordReset(c.Request().Context(), req.Email); err != nil {
		return fail(err)
	}
	return c.NoContent(http.StatusAccepted)
}

func (h *Handler) ConfirmPasswordReset(c echo.Context) error {
	var req confirmResetRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	if err := h.identity.ConfirmPasswordReset(c.Request().Context(), req.Email, req.Code, req.NewPassword); err != nil {
		return fail(err)
	}
	return c.NoContent(http.StatusNoContent)
}
