package handler

import (
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/time/rate"

	"github.com/Astemirdum/bookshelf/gateway/internal/errs"
	"github.com/Astemirdum/bookshelf/gateway/internal/model"
	"github.com/Astemirdum/bookshelf/gateway/internal/session"
)

const (
	HeaderSessionID = "X-Session-ID"

	sessionKey = "session"
)

// sessionMW rejects requests without a live session and stores it in the context.
func (h *Handler) sessionMW(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		sess, ok := h.sessions.Get(c.Request().Header.Get(HeaderSessionID))
		if !ok {
			return fail(errs.ErrUnauthenticated)
		}
		c.Set(sessionKey, sess)
		return next(c)
	}
}

// optionalSessionMW attaches the session when there is one and lets the request through
// either way.
func (h *Handler) optionalSessionMW(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if sess, ok := h.sessions.Get(c.Request().Header.Get(HeaderSessionID)); ok {
			c.Set(sessionKey, sess)
		}
		return next(c)
	}
}

// adminMW must run after sessionMW.
func adminMW(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		user, ok := currentUser(c)
		if !ok {
			return fail(errs.ErrUnauthenticated)
		}
		if !user.IsAdmin() {
			return fail(errs.ErrForbidden)
		}
		return next(c)
	}
}

func sessionFrom(c echo.Context) (*session.Session, bool) {
	sess, ok := c.Get(sessionKey).(*session.Session)
	return sess, ok
}

func currentUser(c echo.Context) (model.User, bool) {
	sess, ok := sessionFrom(c)
	if !ok {
		return model.User{}, false
	}
	return sess.User()
}

func requestLoggerConfig(log *zap.Logger) middleware.RequestLoggerConfig {
	log = log.Named("echo")
	return middleware.RequestLoggerConfig{
		LogURI:       true,
		LogMethod:    true,
		LogStatus:    true,
		HandleError:  true,
		LogError:     true,
		LogLatency:   true,
		LogRequestID: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			level := zapcore.InfoLevel
			if v.Error != nil {
				level = zapcore.ErrorLevel
				if v.Status < 500 {
					level = zapcore.WarnLevel
				}
			}
			log.Log(level, "request",
				zap.String("URI", v.URI),
				zap.String("Method", v.Method),
				zap.Int("status", v.Status),
				zap.Duration("latency", v.Latency),
				zap.Error(v.Error),
				zap.String("request_id", v.RequestID),
			)
			return nil
		},
	}
}

func newRateLimiterMW(rps rate.Limit) echo.MiddlewareFunc {
	return middleware.RateLimiter(middleware.NewRateLimiterMemoryStore(rps))
}
