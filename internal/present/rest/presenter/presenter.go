package presenter

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/hazelwood-labs/chatgate/internal/domain"
)

// OK wraps a successful response.
func OK(c echo.Context, payload any) error {
	return c.JSON(http.StatusOK, payload)
}

// Error writes a domain error in the canonical shape
// {status, error_code, message}.
func Error(c echo.Context, apiErr *domain.APIError) error {
	return c.JSON(apiErr.Status, apiErr)
}
