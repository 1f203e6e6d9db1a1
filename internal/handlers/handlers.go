// Package handlers holds one handler struct per resource. Every write
// route follows the same pipeline: bind and validate the body, derive
// computed fields, call the persistence gateway with bound values, map
// the outcome to a status code.
package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/bchaput/rest-shop/internal/logging"
	"github.com/bchaput/rest-shop/internal/store"
	"github.com/bchaput/rest-shop/internal/validation"
)

func invalidBody(c echo.Context) error {
	return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
}

// validationFailed renders the per-field detail of a schema violation.
// These are client errors and are never logged as server failures.
func validationFailed(c echo.Context, err error) error {
	var verr *validation.Error
	if errors.As(err, &verr) {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error":  "validation failed",
			"fields": verr.Fields,
		})
	}
	return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
}

func fieldFailure(c echo.Context, field, reason string) error {
	return c.JSON(http.StatusBadRequest, echo.Map{
		"error":  "validation failed",
		"fields": map[string]string{field: reason},
	})
}

func notFound(c echo.Context, resource string) error {
	return c.JSON(http.StatusNotFound, echo.Map{"message": resource + " not found"})
}

// serverError logs the underlying failure and answers with a generic
// message; store and network details never reach the client.
func serverError(c echo.Context, scope string, err error) error {
	logging.FromContext(c.Request().Context()).Error(scope, "error", err)
	return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal server error"})
}

// respondOrNotFound maps the gateway's zero-row sentinel for id-targeted
// operations.
func respondOrNotFound(c echo.Context, resource string, err error, scope string) error {
	if errors.Is(err, store.ErrNotFound) {
		return notFound(c, resource)
	}
	return serverError(c, scope, err)
}
