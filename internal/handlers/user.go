package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/bchaput/rest-shop/internal/hash"
	"github.com/bchaput/rest-shop/internal/models"
	"github.com/bchaput/rest-shop/internal/store"
	"github.com/bchaput/rest-shop/internal/transport"
)

type UserHandler struct {
	Store store.Store
}

func (h *UserHandler) Create(c echo.Context) error {
	var req transport.CreateUser
	if err := c.Bind(&req); err != nil {
		return invalidBody(c)
	}
	if err := c.Validate(&req); err != nil {
		return validationFailed(c, err)
	}

	user := models.User{
		Username:     *req.Username,
		PasswordHash: hash.Digest(*req.Password),
		Email:        *req.Email,
	}
	if err := h.Store.CreateUser(c.Request().Context(), &user); err != nil {
		return serverError(c, "create user", err)
	}
	return c.JSON(http.StatusCreated, user)
}

func (h *UserHandler) List(c echo.Context) error {
	items, err := h.Store.Users(c.Request().Context())
	if err != nil {
		return serverError(c, "list users", err)
	}
	if items == nil {
		items = []models.User{}
	}
	return c.JSON(http.StatusOK, items)
}

func (h *UserHandler) Get(c echo.Context) error {
	user, err := h.Store.UserByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return respondOrNotFound(c, "user", err, "get user")
	}
	return c.JSON(http.StatusOK, user)
}

func (h *UserHandler) Put(c echo.Context) error {
	var req transport.CreateUser
	if err := c.Bind(&req); err != nil {
		return invalidBody(c)
	}
	if err := c.Validate(&req); err != nil {
		return validationFailed(c, err)
	}

	fields := store.Fields{
		"username": *req.Username,
		"password": hash.Digest(*req.Password),
		"email":    *req.Email,
	}
	user, err := h.Store.UpdateUser(c.Request().Context(), c.Param("id"), fields)
	if err != nil {
		return respondOrNotFound(c, "user", err, "update user")
	}
	return c.JSON(http.StatusOK, user)
}

// Patch merges the supplied fields; an absent password leaves the stored
// digest untouched.
func (h *UserHandler) Patch(c echo.Context) error {
	var req transport.UpdateUser
	if err := c.Bind(&req); err != nil {
		return invalidBody(c)
	}
	if err := c.Validate(&req); err != nil {
		return validationFailed(c, err)
	}

	fields := store.Fields{}
	if req.Username != nil {
		fields["username"] = *req.Username
	}
	if req.Password != nil {
		fields["password"] = hash.Digest(*req.Password)
	}
	if req.Email != nil {
		fields["email"] = *req.Email
	}

	user, err := h.Store.UpdateUser(c.Request().Context(), c.Param("id"), fields)
	if err != nil {
		return respondOrNotFound(c, "user", err, "update user")
	}
	return c.JSON(http.StatusOK, user)
}

func (h *UserHandler) Delete(c echo.Context) error {
	user, err := h.Store.DeleteUser(c.Request().Context(), c.Param("id"))
	if err != nil {
		return respondOrNotFound(c, "user", err, "delete user")
	}
	return c.JSON(http.StatusOK, user)
}
