package server

import (
	"errors"
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/labstack/echo/v4"
	"github.com/nfrund/flavorfusion/internal/middleware"
)

// setupErrorHandling installs an error handler that logs unhandled errors
// with a stack trace and answers with a plain message.
func setupErrorHandling(e *echo.Echo) {
	e.HTTPErrorHandler = func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}
		logger := middleware.FromContext(c.Request().Context())

		code := http.StatusInternalServerError
		message := http.StatusText(code)
		var he *echo.HTTPError
		if errors.As(err, &he) {
			code = he.Code
			if m, ok := he.Message.(string); ok {
				message = m
			} else {
				message = http.StatusText(code)
			}
			if code >= http.StatusInternalServerError {
				logger.Error("Internal Server Error", "error", err, "internal", he.Internal)
			}
		} else {
			logger.Error("Internal Server Error (Unhandled)",
				slog.String("error", err.Error()),
				slog.String("stack_trace", string(debug.Stack())),
			)
		}

		if c.Request().Method == http.MethodHead {
			err = c.NoContent(code)
		} else {
			err = c.String(code, message)
		}
		if err != nil {
			logger.Error("Failed to send error response", "error", err)
		}
	}
}
