package handlers

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/bchaput/rest-shop/internal/events"
	"github.com/bchaput/rest-shop/internal/models"
	"github.com/bchaput/rest-shop/internal/store"
	"github.com/bchaput/rest-shop/internal/transport"
)

type ProductHandler struct {
	Store  store.Store
	Events *events.Broadcaster
}

func (h *ProductHandler) publish(op events.Op, p models.Product) {
	if h.Events == nil {
		return
	}
	h.Events.Publish(events.New(op, "product", p.ID, p))
}

func (h *ProductHandler) Create(c echo.Context) error {
	var req transport.CreateProduct
	if err := c.Bind(&req); err != nil {
		return invalidBody(c)
	}
	if err := c.Validate(&req); err != nil {
		return validationFailed(c, err)
	}

	prod := models.Product{
		Name:        *req.Name,
		About:       *req.About,
		Price:       *req.Price,
		CategoryIDs: models.StringList(req.CategoryIDs),
	}
	if err := h.Store.CreateProduct(c.Request().Context(), &prod); err != nil {
		return serverError(c, "create product", err)
	}

	h.publish(events.OpCreate, prod)
	return c.JSON(http.StatusCreated, prod)
}

func (h *ProductHandler) List(c echo.Context) error {
	var filter store.ProductFilter
	filter.Name = c.QueryParam("name")
	filter.About = c.QueryParam("about")
	if raw := c.QueryParam("price"); raw != "" {
		price, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return fieldFailure(c, "price", "must be a number")
		}
		filter.MaxPrice = &price
	}

	items, err := h.Store.Products(c.Request().Context(), filter)
	if err != nil {
		return serverError(c, "list products", err)
	}
	if items == nil {
		items = []models.Product{}
	}
	return c.JSON(http.StatusOK, items)
}

func (h *ProductHandler) Get(c echo.Context) error {
	prod, err := h.Store.ProductByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return respondOrNotFound(c, "product", err, "get product")
	}
	return c.JSON(http.StatusOK, prod)
}

// Put replaces every mutable field; the body must satisfy the create
// schema.
func (h *ProductHandler) Put(c echo.Context) error {
	var req transport.CreateProduct
	if err := c.Bind(&req); err != nil {
		return invalidBody(c)
	}
	if err := c.Validate(&req); err != nil {
		return validationFailed(c, err)
	}

	fields := store.Fields{
		"name":        *req.Name,
		"about":       *req.About,
		"price":       *req.Price,
		"categoryIds": req.CategoryIDs,
	}
	prod, err := h.Store.UpdateProduct(c.Request().Context(), c.Param("id"), fields)
	if err != nil {
		return respondOrNotFound(c, "product", err, "update product")
	}

	h.publish(events.OpUpdate, *prod)
	return c.JSON(http.StatusOK, prod)
}

// Patch merges only the supplied fields into the stored record.
func (h *ProductHandler) Patch(c echo.Context) error {
	var req transport.UpdateProduct
	if err := c.Bind(&req); err != nil {
		return invalidBody(c)
	}
	if err := c.Validate(&req); err != nil {
		return validationFailed(c, err)
	}

	fields := store.Fields{}
	if req.Name != nil {
		fields["name"] = *req.Name
	}
	if req.About != nil {
		fields["about"] = *req.About
	}
	if req.Price != nil {
		fields["price"] = *req.Price
	}
	if req.CategoryIDs != nil {
		fields["categoryIds"] = req.CategoryIDs
	}

	prod, err := h.Store.UpdateProduct(c.Request().Context(), c.Param("id"), fields)
	if err != nil {
		return respondOrNotFound(c, "product", err, "update product")
	}

	h.publish(events.OpUpdate, *prod)
	return c.JSON(http.StatusOK, prod)
}

func (h *ProductHandler) Delete(c echo.Context) error {
	prod, err := h.Store.DeleteProduct(c.Request().Context(), c.Param("id"))
	if err != nil {
		return respondOrNotFound(c, "product", err, "delete product")
	}

	h.publish(events.OpDelete, *prod)
	return c.JSON(http.StatusOK, prod)
}
