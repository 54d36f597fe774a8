package handler

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	apperrors "socialnet/internal/errors"
	"socialnet/internal/logging"
)

// NewErrorHandler renders every error as {"error": message}. Internal
// failures are logged in full and only exposed to clients in debug mode.
func NewErrorHandler(debug bool, logger *slog.Logger) echo.HTTPErrorHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		var status int
		var body apperrors.ErrorResponse

		var he *echo.HTTPError
		if errors.As(err, &he) {
			status = he.Code
			body = apperrors.ErrorResponse{Error: fmt.Sprint(he.Message)}
			if status >= http.StatusInternalServerError && !debug {
				body.Error = "internal server error"
			}
		} else {
			httpErr := apperrors.MapErrorToHTTP(err, debug)
			status = httpErr.StatusCode
			body = httpErr.ToErrorResponse()
		}

		reqLogger := logging.FromContext(c.Request().Context(), logger)
		if status >= http.StatusInternalServerError {
			reqLogger.ErrorContext(c.Request().Context(), "request failed",
				"method", c.Request().Method,
				"uri", c.Request().RequestURI,
				"kind", apperrors.KindOf(err).String(),
				"error", err,
			)
		}

		var writeErr error
		if c.Request().Method == http.MethodHead {
			writeErr = c.NoContent(status)
		} else {
			writeErr = c.JSON(status, body)
		}
		if writeErr != nil {
			reqLogger.Error("failed to write error response", "error", writeErr)
		}
	}
}

func parseID(c echo.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, apperrors.Validation("invalid " + name)
	}
	return uint(id), nil
}
