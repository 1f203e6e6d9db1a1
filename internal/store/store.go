// Package store defines the persistence gateway. It is the only layer
// allowed to issue datastore operations; handlers never build queries.
// Two implementations exist: gormstore (postgres, sqlite in tests) and
// mongostore (documents, with category expansion).
package store

import (
	"context"
	"errors"

	"github.com/bchaput/rest-shop/internal/models"
)

// ErrNotFound reports that an id-targeted operation matched zero rows.
// Zero rows are a client-visible condition, never a server error.
var ErrNotFound = errors.New("record not found")

// Fields carries a partial-update set. Keys follow the JSON field names
// of the resource; values are already derived (password holds the digest,
// total holds the recomputed amount).
type Fields map[string]any

// ProductFilter narrows a product listing. Absent members impose no
// constraint; present members combine with AND.
type ProductFilter struct {
	Name     string
	About    string
	MaxPrice *float64
}

type Store interface {
	CreateProduct(ctx context.Context, p *models.Product) error
	Products(ctx context.Context, f ProductFilter) ([]models.Product, error)
	ProductByID(ctx context.Context, id string) (*models.Product, error)
	ProductsByIDs(ctx context.Context, ids []string) ([]models.Product, error)
	UpdateProduct(ctx context.Context, id string, f Fields) (*models.Product, error)
	DeleteProduct(ctx context.Context, id string) (*models.Product, error)

	CreateUser(ctx context.Context, u *models.User) error
	Users(ctx context.Context) ([]models.User, error)
	UserByID(ctx context.Context, id string) (*models.User, error)
	UpdateUser(ctx context.Context, id string, f Fields) (*models.User, error)
	DeleteUser(ctx context.Context, id string) (*models.User, error)

	CreateOrder(ctx context.Context, o *models.Order) error
	Orders(ctx context.Context) ([]models.Order, error)
	OrderByID(ctx context.Context, id string) (*models.Order, error)
	UpdateOrder(ctx context.Context, id string, f Fields) (*models.Order, error)
	DeleteOrder(ctx context.Context, id string) (*models.Order, error)

	CreateCategory(ctx context.Context, cat *models.Category) error
	Categories(ctx context.Context) ([]models.Category, error)

	Close(ctx context.Context) error
}
