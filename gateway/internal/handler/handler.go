package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/Astemirdum/bookshelf/gateway/internal/errs"
	"github.com/Astemirdum/bookshelf/gateway/internal/service/library"
	"github.com/Astemirdum/bookshelf/pkg/validate"
	_ "github.com/Astemirdum/bookshelf/swagger"
)

// Services are the collaborators behind the API. CatalogFor returns a catalog client
// that authenticates as the given session.
type Services struct {
	Catalog    CatalogService
	CatalogFor func(src library.CredentialSource) CatalogService
	Identity   IdentityService
	Sessions   SessionStore
	Events     EventPublisher
}

type Handler struct {
	log        *zap.Logger
	catalog    CatalogService
	catalogFor func(src library.CredentialSource) CatalogService
	identity   IdentityService
	sessions   SessionStore
	events     EventPublisher
	pageSize   int
	rps        float64

	spaces *workspaces
}

func New(log *zap.Logger, svc Services, pageSize int, rps float64) *Handler {
	return &Handler{
		log:        log.Named("handler"),
		catalog:    svc.Catalog,
		catalogFor: svc.CatalogFor,
		identity:   svc.Identity,
		sessions:   svc.Sessions,
		events:     svc.Events,
		pageSize:   pageSize,
		rps:        rps,
		spaces:     newWorkspaces(),
	}
}

func (h *Handler) NewRouter() *echo.Echo {
	e := echo.New()
	const baseRPS = 10
	apiRPS := h.rps
	if apiRPS <= 0 {
		apiRPS = 100
	}
	e.HideBanner = true
	e.HTTPErrorHandler = h.errorHandler
	e.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{
		StackSize: 4 << 10, // 4 KB
	}))
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{http.MethodGet, http.MethodOptions, http.MethodHead, http.MethodPut, http.MethodPatch, http.MethodPost, http.MethodDelete},
		AllowHeaders:     []string{echo.HeaderContentType, echo.HeaderAuthorization, HeaderSessionID},
		ExposeHeaders:    []string{HeaderSessionID},
		AllowCredentials: true,
	}))

	base := e.Group("", newRateLimiterMW(baseRPS))
	base.GET("/manage/health", h.Health)
	base.GET("/swagger/*", echoSwagger.WrapHandler)

	e.Validator = validate.NewCustomValidator()

	api := e.Group("/api/v1",
		middleware.RequestLoggerWithConfig(requestLoggerConfig(h.log)),
		middleware.RequestID(),
		newRateLimiterMW(rate.Limit(apiRPS)),
	)
	api.GET("/books", h.ListBooks)
	api.GET("/books/:id", h.GetBook)
	api.GET("/books/:id/reviews", h.ListReviews)
	api.POST("/recommendations", h.Recommend, h.optionalSessionMW)

	auth := api.Group("/auth")
	auth.POST("/login", h.Login)
	auth.POST("/signup", h.Signup)
	auth.POST("/signup/confirm", h.ConfirmSignup)
	auth.POST("/password/reset", h.RequestPasswordReset)
	auth.POST("/password/reset/confirm", h.ConfirmPasswordReset)

	private := api.Group("", h.sessionMW)
	private.GET("/auth/me", h.Me)
	private.POST("/auth/logout", h.Logout)
	private.PUT("/auth/password", h.ChangePassword)
	private.PUT("/auth/email", h.ChangeEmail)
	private.POST("/auth/email/confirm", h.ConfirmEmailChange)

	private.GET("/reading-lists", h.ListReadingLists)
	private.POST("/reading-lists", h.CreateReadingList)
	private.GET("/reading-lists/:id", h.GetReadingList)
	private.PUT("/reading-lists/:id", h.UpdateReadingList)
	private.DELETE("/reading-lists/:id", h.DeleteReadingList)
	private.POST("/reading-lists/:id/books", h.AddBookToList)
	private.DELETE("/reading-lists/:id/books/:bookId", h.RemoveBookFromList)

	private.GET("/confirmations", h.PendingConfirmation)
	private.POST("/confirmations/:confirmationId", h.Confirm)
	private.DELETE("/confirmations/:confirmationId", h.CancelConfirmation)

	private.POST("/books/:id/reviews", h.CreateReview)

	private.GET("/browse", h.Browse)
	private.POST("/browse/reload", h.ReloadBrowse)
	private.POST("/browse/search", h.SearchBrowse)
	private.PUT("/browse/sort", h.SortBrowse)

	admin := private.Group("", adminMW)
	admin.GET("/stats", h.GetStats)
	admin.POST("/books", h.CreateBook)
	admin.PUT("/books/:id", h.UpdateBook)
	admin.DELETE("/books/:id", h.DeleteBook)

	// The groups above register catch-alls on /api/v1 that would run their session and
	// role checks for unknown paths. These replace them, so unknown paths are plain 404s.
	api.RouteNotFound("", notFound)
	api.RouteNotFound("/*", notFound)

	return e
}

func notFound(echo.Context) error {
	return echo.ErrNotFound
}

// Health godoc
// @Summary health check
// @Tags manage
// @Success 200 {string} string "OK"
// @Router /manage/health [get]
func (h *Handler) Health(c echo.Context) error {
	return c.String(http.StatusOK, "OK")
}

// fail wraps a domain error into the HTTP error every endpoint answers with.
func fail(err error) error {
	return httpError(err)
}

func httpError(err error) *echo.HTTPError {
	n := errs.Notice(err)
	return echo.NewHTTPError(errs.HTTPStatus(n.Kind, err), n)
}

// bind decodes and validates a request body. Every failure is a validation error.
func bind(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return fail(errs.Invalid("", "malformed request"))
	}
	if err := c.Validate(req); err != nil {
		if field, reason, ok := validate.Describe(err); ok {
			return fail(errs.Invalid(field, reason))
		}
		return fail(errs.Invalid("", err.Error()))
	}
	return nil
}

// errorHandler renders echo's own errors (unknown route, rate limit, bad method) in the
// same shape as domain errors.
func (h *Handler) errorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	var he *echo.HTTPError
	if !errors.As(err, &he) {
		he = httpError(err)
	}
	if msg, ok := he.Message.(string); ok {
		he = echo.NewHTTPError(he.Code, errs.Notification{
			Kind:        kindOf(he.Code),
			Message:     msg,
			Dismissible: he.Code == http.StatusTooManyRequests || he.Code >= http.StatusInternalServerError,
		})
	}
	if he.Code >= http.StatusInternalServerError {
		h.log.Warn("request failed", zap.Int("status", he.Code), zap.Error(err))
	}
	if c.Request().Method == http.MethodHead {
		err = c.NoContent(he.Code)
	} else {
		err = c.JSON(he.Code, he.Message)
	}
	if err != nil {
		h.log.Error("write error response", zap.Error(err))
	}
}

func kindOf(code int) errs.Kind {
	switch {
	case code == http.StatusNotFound:
		return errs.KindNotFound
	case code == http.StatusUnauthorized:
		return errs.KindUnauthorized
	case code == http.StatusForbidden:
		return errs.KindForbidden
	case code == http.StatusTooManyRequests, code == http.StatusConflict:
		return errs.KindBusy
	case code < http.StatusInternalServerError:
		return errs.KindValidation
	default:
		return errs.KindTransient
	}
}
