package httpserver

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/qr_menu/internal/service"
)

// fail logs err under op and converts it to the matching HTTP error.
func fail(l *slog.Logger, op string, err error, notFoundMsg string) error {
	switch {
	case errors.Is(err, service.ErrValidation):
		l.Warn(op+"_error", "status", 400, "reason", "invalid input", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, validationMessage(err))
	case errors.Is(err, service.ErrNotFound):
		l.Warn(op+"_error", "status", 404, "reason", notFoundMsg, "error", err)
		return echo.NewHTTPError(http.StatusNotFound, notFoundMsg)
	case errors.Is(err, service.ErrUnauthenticated), errors.Is(err, service.ErrUpstreamAuth):
		l.Warn(op+"_error", "status", 401, "reason", "authentication failed", "error", err)
		return echo.NewHTTPError(http.StatusUnauthorized, "authentication failed")
	default:
		l.Error(op+"_error", "status", 500, "reason", "internal error", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}
}

// validationMessage strips the sentinel prefix so clients see only the detail.
func validationMessage(err error) string {
	msg := err.Error()
	prefix := service.ErrValidation.Error() + ": "
	if len(msg) > len(prefix) && msg[:len(prefix)] == prefix {
		return msg[len(prefix):]
	}
	return msg
}
