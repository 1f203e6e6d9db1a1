// Package transport holds the request and response shapes of the HTTP
// surface. Create variants require every mutable field; update variants
// make them all optional (merge semantics). Identifiers and derived
// fields (order total, password digest) are never accepted from the
// client: they simply do not exist on these shapes.
package transport

import "github.com/bchaput/rest-shop/internal/models"

type CreateProduct struct {
	Name        *string  `json:"name" validate:"required"`
	About       *string  `json:"about" validate:"required"`
	Price       *float64 `json:"price" validate:"required,gt=0"`
	CategoryIDs []string `json:"categoryIds" validate:"omitempty,dive,required"`
}

type UpdateProduct struct {
	Name        *string  `json:"name"`
	About       *string  `json:"about"`
	Price       *float64 `json:"price" validate:"omitempty,gt=0"`
	CategoryIDs []string `json:"categoryIds" validate:"omitempty,dive,required"`
}

type CreateUser struct {
	Username *string `json:"username" validate:"required"`
	Password *string `json:"password" validate:"required"`
	Email    *string `json:"email" validate:"required,email"`
}

type UpdateUser struct {
	Username *string `json:"username"`
	Password *string `json:"password"`
	Email    *string `json:"email" validate:"omitempty,email"`
}

type CreateOrder struct {
	UserID     *string  `json:"userId" validate:"required"`
	ProductIDs []string `json:"productIds" validate:"required,min=1,dive,required"`
	Payment    *bool    `json:"payment"`
}

type UpdateOrder struct {
	UserID     *string  `json:"userId"`
	ProductIDs []string `json:"productIds" validate:"omitempty,min=1,dive,required"`
	Payment    *bool    `json:"payment"`
}

type CreateCategory struct {
	Name *string `json:"name" validate:"required"`
}

// UserView is the user as embedded in order responses: identifier,
// username and email only.
type UserView struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

func NewUserView(u models.User) UserView {
	return UserView{ID: u.ID, Username: u.Username, Email: u.Email}
}

// OrderView is an order expanded with its user and the full referenced
// products.
type OrderView struct {
	models.Order
	User     *UserView        `json:"user,omitempty"`
	Products []models.Product `json:"products"`
}
