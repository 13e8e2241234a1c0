package rest

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/hazelwood-labs/chatgate/internal/domain"
	"github.com/hazelwood-labs/chatgate/internal/present/rest/presenter"
)

// ErrorHandler normalizes every error escaping a handler or middleware to
// the single wire shape. Domain errors pass through; router 404/405 become
// NotFound; everything else is logged server-side and flattened to the
// generic internal error with no detail leaked.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	var apiErr *domain.APIError
	if !errors.As(err, &apiErr) {
		var httpErr *echo.HTTPError
		if errors.As(err, &httpErr) && (httpErr.Code == http.StatusNotFound || httpErr.Code == http.StatusMethodNotAllowed) {
			apiErr = domain.ErrNotFound
		} else {
			slog.Error(
				"unexpected error",
				slog.String("error", err.Error()),
				slog.String("method", c.Request().Method),
				slog.String("path", c.Request().URL.Path),
			)
			apiErr = domain.ErrInternal
		}
	}

	if writeErr := presenter.Error(c, apiErr); writeErr != nil {
		slog.Error("failed to write error response", slog.String("error", writeErr.Error()))
	}
}
