package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/haatos/resource-hub/internal/views"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

type apiError struct {
	Error string `json:"error"`
}

func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status := http.StatusInternalServerError
	message := "Something went wrong"
	internal := err
	var he *echo.HTTPError
	if errors.As(err, &he) {
		status = he.Code
		message = fmt.Sprint(he.Message)
		internal = he.Internal
	}

	logger := zerolog.Ctx(c.Request().Context())
	event := logger.Warn()
	if status >= http.StatusInternalServerError {
		event = logger.Error()
	}
	event.
		Err(internal).
		Int("status", status).
		Str("path", c.Request().URL.Path).
		Msg(message)

	if c.Request().Method == http.MethodHead {
		err = c.NoContent(status)
	} else if isAPIRequest(c) {
		err = c.JSON(status, apiError{Error: message})
	} else {
		err = renderStatus(c, status, views.ErrorPage(getCtxSession(c), status, message))
	}
	if err != nil {
		logger.Error().Err(err).Msg("failed to write error response")
	}
}

func isAPIRequest(c echo.Context) bool {
	return strings.HasPrefix(c.Request().URL.Path, "/api/")
}

func newError(c echo.Context, err error, status int, message string) error {
	e := echo.NewHTTPError(status, message)
	if err != nil {
		e = e.WithInternal(err)
	}
	return e
}
