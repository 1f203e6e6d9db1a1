package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/bchaput/rest-shop/internal/models"
	"github.com/bchaput/rest-shop/internal/store"
	"github.com/bchaput/rest-shop/internal/transport"
)

type CategoryHandler struct {
	Store store.Store
}

func (h *CategoryHandler) Create(c echo.Context) error {
	var req transport.CreateCategory
	if err := c.Bind(&req); err != nil {
		return invalidBody(c)
	}
	if err := c.Validate(&req); err != nil {
		return validationFailed(c, err)
	}

	cat := models.Category{Name: *req.Name}
	if err := h.Store.CreateCategory(c.Request().Context(), &cat); err != nil {
		return serverError(c, "create category", err)
	}
	return c.JSON(http.StatusOK, cat)
}

func (h *CategoryHandler) List(c echo.Context) error {
	items, err := h.Store.Categories(c.Request().Context())
	if err != nil {
		return serverError(c, "list categories", err)
	}
	if items == nil {
		items = []models.Category{}
	}
	return c.JSON(http.StatusOK, items)
}
