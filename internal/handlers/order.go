package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/bchaput/rest-shop/internal/models"
	"github.com/bchaput/rest-shop/internal/store"
	"github.com/bchaput/rest-shop/internal/transport"
)

// markup is the fixed factor applied to the sum of product prices when
// an order total is computed.
var markup = decimal.NewFromFloat(1.2)

type OrderHandler struct {
	Store store.Store
}

// total recomputes the order amount from current product prices. Client
// payloads never carry a total; stale client-side amounts are ignored by
// construction.
func total(products []models.Product) float64 {
	sum := decimal.Zero
	for _, p := range products {
		sum = sum.Add(decimal.NewFromFloat(p.Price))
	}
	return sum.Mul(markup).Round(2).InexactFloat64()
}

// dedupe keeps productIds a set while preserving order.
func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// resolveProducts loads every referenced product and reports whether all
// ids resolved.
func (h *OrderHandler) resolveProducts(ctx context.Context, ids []string) ([]models.Product, bool, error) {
	products, err := h.Store.ProductsByIDs(ctx, ids)
	if err != nil {
		return nil, false, err
	}
	return products, len(products) == len(ids), nil
}

func (h *OrderHandler) view(ctx context.Context, o models.Order) transport.OrderView {
	v := transport.OrderView{Order: o, Products: []models.Product{}}
	if user, err := h.Store.UserByID(ctx, o.UserID); err == nil {
		uv := transport.NewUserView(*user)
		v.User = &uv
	}
	if products, err := h.Store.ProductsByIDs(ctx, o.ProductIDs); err == nil && products != nil {
		v.Products = products
	}
	return v
}

func (h *OrderHandler) Create(c echo.Context) error {
	var req transport.CreateOrder
	if err := c.Bind(&req); err != nil {
		return invalidBody(c)
	}
	if err := c.Validate(&req); err != nil {
		return validationFailed(c, err)
	}

	ctx := c.Request().Context()
	user, err := h.Store.UserByID(ctx, *req.UserID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return fieldFailure(c, "userId", "references an unknown user")
		}
		return serverError(c, "create order", err)
	}

	ids := dedupe(req.ProductIDs)
	products, complete, err := h.resolveProducts(ctx, ids)
	if err != nil {
		return serverError(c, "create order", err)
	}
	if !complete {
		return fieldFailure(c, "productIds", "references an unknown product")
	}

	order := models.Order{
		UserID:     user.ID,
		ProductIDs: models.StringList(ids),
		Total:      total(products),
		Payment:    req.Payment != nil && *req.Payment,
	}
	if err := h.Store.CreateOrder(ctx, &order); err != nil {
		return serverError(c, "create order", err)
	}

	view := transport.OrderView{Order: order, Products: products}
	uv := transport.NewUserView(*user)
	view.User = &uv
	return c.JSON(http.StatusCreated, view)
}

func (h *OrderHandler) List(c echo.Context) error {
	ctx := c.Request().Context()
	orders, err := h.Store.Orders(ctx)
	if err != nil {
		return serverError(c, "list orders", err)
	}

	views := make([]transport.OrderView, len(orders))
	for i, o := range orders {
		views[i] = h.view(ctx, o)
	}
	return c.JSON(http.StatusOK, views)
}

func (h *OrderHandler) Get(c echo.Context) error {
	ctx := c.Request().Context()
	order, err := h.Store.OrderByID(ctx, c.Param("id"))
	if err != nil {
		return respondOrNotFound(c, "order", err, "get order")
	}
	return c.JSON(http.StatusOK, h.view(ctx, *order))
}

// Put replaces the mutable fields and recomputes the total from a fresh
// price lookup.
func (h *OrderHandler) Put(c echo.Context) error {
	var req transport.CreateOrder
	if err := c.Bind(&req); err != nil {
		return invalidBody(c)
	}
	if err := c.Validate(&req); err != nil {
		return validationFailed(c, err)
	}

	ctx := c.Request().Context()
	user, err := h.Store.UserByID(ctx, *req.UserID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return fieldFailure(c, "userId", "references an unknown user")
		}
		return serverError(c, "update order", err)
	}

	ids := dedupe(req.ProductIDs)
	products, complete, err := h.resolveProducts(ctx, ids)
	if err != nil {
		return serverError(c, "update order", err)
	}
	if !complete {
		return fieldFailure(c, "productIds", "references an unknown product")
	}

	fields := store.Fields{
		"userId":     user.ID,
		"productIds": ids,
		"total":      total(products),
		"payment":    req.Payment != nil && *req.Payment,
	}
	order, err := h.Store.UpdateOrder(ctx, c.Param("id"), fields)
	if err != nil {
		return respondOrNotFound(c, "order", err, "update order")
	}

	view := transport.OrderView{Order: *order, Products: products}
	uv := transport.NewUserView(*user)
	view.User = &uv
	return c.JSON(http.StatusOK, view)
}

// Patch merges the supplied fields. The total is still recomputed from
// the current prices of whatever products the order ends up referencing.
func (h *OrderHandler) Patch(c echo.Context) error {
	var req transport.UpdateOrder
	if err := c.Bind(&req); err != nil {
		return invalidBody(c)
	}
	if err := c.Validate(&req); err != nil {
		return validationFailed(c, err)
	}

	ctx := c.Request().Context()
	existing, err := h.Store.OrderByID(ctx, c.Param("id"))
	if err != nil {
		return respondOrNotFound(c, "order", err, "update order")
	}

	userID := existing.UserID
	if req.UserID != nil {
		userID = *req.UserID
		if _, err := h.Store.UserByID(ctx, userID); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return fieldFailure(c, "userId", "references an unknown user")
			}
			return serverError(c, "update order", err)
		}
	}

	ids := []string(existing.ProductIDs)
	if req.ProductIDs != nil {
		ids = dedupe(req.ProductIDs)
	}
	products, complete, err := h.resolveProducts(ctx, ids)
	if err != nil {
		return serverError(c, "update order", err)
	}
	if req.ProductIDs != nil && !complete {
		return fieldFailure(c, "productIds", "references an unknown product")
	}

	fields := store.Fields{
		"userId":     userID,
		"productIds": ids,
		"total":      total(products),
	}
	if req.Payment != nil {
		fields["payment"] = *req.Payment
	}

	order, err := h.Store.UpdateOrder(ctx, c.Param("id"), fields)
	if err != nil {
		return respondOrNotFound(c, "order", err, "update order")
	}
	return c.JSON(http.StatusOK, h.view(ctx, *order))
}

func (h *OrderHandler) Delete(c echo.Context) error {
	ctx := c.Request().Context()
	order, err := h.Store.DeleteOrder(ctx, c.Param("id"))
	if err != nil {
		return respondOrNotFound(c, "order", err, "delete order")
	}
	return c.JSON(http.StatusOK, h.view(ctx, *order))
}
