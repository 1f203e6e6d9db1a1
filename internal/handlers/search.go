package handlers

import (
	"net/http"

	"github.com/elastic/go-elasticsearch/v9"
	"github.com/labstack/echo/v4"

	"github.com/bchaput/rest-shop/internal/search"
)

type SearchHandler struct {
	ES    *elasticsearch.Client
	Index string
}

func (h *SearchHandler) Search(c echo.Context) error {
	q := c.QueryParam("q")
	if q == "" {
		return fieldFailure(c, "q", "is required")
	}

	items, err := search.Products(c.Request().Context(), h.ES, h.Index, q)
	if err != nil {
		return serverError(c, "search products", err)
	}
	return c.JSON(http.StatusOK, items)
}
