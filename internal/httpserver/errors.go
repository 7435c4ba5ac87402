package httpserver

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/luna/taskmanager/internal/apperr"
	"github.com/luna/taskmanager/internal/logging"
	"github.com/luna/taskmanager/internal/transport"
)

const internalErrorMessage = "Something went wrong. Please try again later."

type kindMapping struct {
	kind   error
	status int
	code   string
}

// Order matters: a failed login wraps PrincipalNotFound in BadCredentials.
var kindMappings = []kindMapping{
	{apperr.ErrBadCredentials, http.StatusUnauthorized, "BAD_CREDENTIALS"},
	{apperr.ErrInvalidToken, http.StatusUnauthorized, "INVALID_TOKEN"},
	{apperr.ErrPrincipalNotFound, http.StatusUnauthorized, "USER_NOT_FOUND"},
	{apperr.ErrUnauthenticated, http.StatusUnauthorized, "UNAUTHORIZED"},
	{apperr.ErrInvalidValue, http.StatusUnprocessableEntity, "INVALID_VALUE"},
	{apperr.ErrResourceNotFound, http.StatusNotFound, "RESOURCE_NOT_FOUND"},
	{apperr.ErrDuplicate, http.StatusConflict, "DUPLICATE_FOUND"},
}

func statusCode(status int) string {
	return strings.ToUpper(strings.ReplaceAll(http.StatusText(status), " ", "_"))
}

// classify maps err to its response. The status depends only on the failure
// kind; anything unrecognised is an internal error with a generic message.
func classify(err error) (int, transport.ErrorResponse) {
	for _, m := range kindMappings {
		if errors.Is(err, m.kind) {
			return m.status, transport.ErrorResponse{Code: m.code, Message: apperr.Message(err, m.kind.Error())}
		}
	}

	var he *echo.HTTPError
	if errors.As(err, &he) {
		msg := http.StatusText(he.Code)
		if s, ok := he.Message.(string); ok && s != "" {
			msg = s
		}
		return he.Code, transport.ErrorResponse{Code: statusCode(he.Code), Message: msg}
	}

	return http.StatusInternalServerError, transport.ErrorResponse{Code: "INTERNAL_SERVER_ERROR", Message: internalErrorMessage}
}

func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status, body := classify(err)
	if status >= http.StatusInternalServerError {
		logging.FromContext(c.Request().Context()).Error("unhandled_error", "status", status, "error", err)
	}

	var werr error
	if c.Request().Method == http.MethodHead {
		werr = c.NoContent(status)
	} else {
		werr = c.JSON(status, body)
	}
	if werr != nil {
		logging.FromContext(c.Request().Context()).Error("write_error_response_failed", "error", werr)
	}
}

// fail logs a handler failure at a level that matches its status and returns
// err unchanged for the error handler to render.
func fail(l *slog.Logger, event string, err error) error {
	status, body := classify(err)
	if status >= http.StatusInternalServerError {
		l.Error(event, "status", status, "error", err)
	} else {
		l.Warn(event, "status", status, "reason", body.Message, "error", err)
	}
	return err
}

func invalidBody(l *slog.Logger, event string, err error) error {
	l.Warn(event, "status", 400, "reason", "invalid body", "error", err)
	return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
}
