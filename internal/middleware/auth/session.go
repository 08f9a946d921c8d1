package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/qr_menu/internal/logging"
	"github.com/Skotchmaster/qr_menu/internal/models"
	"github.com/Skotchmaster/qr_menu/internal/service"
)

const (
	CookieName = "session_token"
	userKey    = "user"
)

type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*models.User, error)
}

// Token reads the session token from the cookie, then from a bearer header.
func Token(c echo.Context) string {
	if ck, err := c.Cookie(CookieName); err == nil && ck.Value != "" {
		return ck.Value
	}
	h := c.Request().Header.Get(echo.HeaderAuthorization)
	if strings.HasPrefix(h, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
	}
	return ""
}

func RequireSession(a Authenticator) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := c.Request().Context()
			l := logging.FromContext(ctx).With("middleware", "auth.require_session")

			token := Token(c)
			if token == "" {
				l.Warn("auth_error", "status", 401, "reason", "missing session token")
				return echo.NewHTTPError(http.StatusUnauthorized, "not authenticated")
			}

			user, err := a.Authenticate(ctx, token)
			if err != nil {
				if errors.Is(err, service.ErrUnauthenticated) {
					l.Warn("auth_error", "status", 401, "reason", "invalid session", "error", err)
					return echo.NewHTTPError(http.StatusUnauthorized, "invalid or expired session")
				}
				l.Error("auth_error", "status", 500, "reason", "session lookup failed", "error", err)
				return echo.NewHTTPError(http.StatusInternalServerError, "session lookup failed")
			}

			c.Set(userKey, user)
			c.SetRequest(c.Request().WithContext(logging.IntoContext(ctx, logging.FromContext(ctx).With("user_id", user.ID))))
			return next(c)
		}
	}
}

func User(c echo.Context) (*models.User, bool) {
	u, ok := c.Get(userKey).(*models.User)
	return u, ok && u != nil
}
