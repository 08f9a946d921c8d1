package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/qr_menu/internal/logging"
	authmw "github.com/Skotchmaster/qr_menu/internal/middleware/auth"
	"github.com/Skotchmaster/qr_menu/internal/service"
	"github.com/Skotchmaster/qr_menu/internal/transport"
)

type AuthHTTP struct {
	Svc          *service.AuthService
	CookieSecure bool
}

func (h *AuthHTTP) CreateSession(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.create_session")

	sessionID := c.Request().Header.Get("X-Session-ID")
	if sessionID == "" {
		l.Warn("create_session_error", "status", 400, "reason", "missing X-Session-ID")
		return echo.NewHTTPError(http.StatusBadRequest, "X-Session-ID header required")
	}

	s, err := h.Svc.CreateSession(ctx, sessionID)
	if err != nil {
		return fail(l, "create_session", err, "")
	}

	c.SetCookie(authmw.CreateCookie(s.Token, s.ExpiresAt, h.CookieSecure))

	l.Info("create_session_success", "user_id", s.User.ID)
	return c.JSON(http.StatusOK, transport.SessionResponse{User: s.User, SessionToken: s.Token})
}

func (h *AuthHTTP) Me(c echo.Context) error {
	user, ok := authmw.User(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "not authenticated")
	}
	return c.JSON(http.StatusOK, user)
}

func (h *AuthHTTP) Logout(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.logout")

	if err := h.Svc.Logout(ctx, authmw.Token(c)); err != nil {
		l.Warn("logout_error", "reason", "cannot delete session", "error", err)
	}
	c.SetCookie(authmw.DeleteCookie(h.CookieSecure))

	l.Info("logout_success")
	return c.JSON(http.StatusOK, map[string]string{"message": "logged out"})
}
