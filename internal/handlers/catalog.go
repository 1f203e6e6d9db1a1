package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/bchaput/rest-shop/internal/catalog"
	"github.com/bchaput/rest-shop/internal/logging"
)

type CatalogHandler struct {
	Client *catalog.Client
}

func (h *CatalogHandler) List(c echo.Context) error {
	body, err := h.Client.Games(c.Request().Context())
	if err != nil {
		return fetchFailed(c, err)
	}
	return c.JSONBlob(http.StatusOK, body)
}

func (h *CatalogHandler) Get(c echo.Context) error {
	body, err := h.Client.Game(c.Request().Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			return notFound(c, "game")
		}
		return fetchFailed(c, err)
	}
	return c.JSONBlob(http.StatusOK, body)
}

func fetchFailed(c echo.Context, err error) error {
	logging.FromContext(c.Request().Context()).Error("catalog fetch", "error", err)
	return c.JSON(http.StatusInternalServerError, echo.Map{"message": "fetch failed"})
}
