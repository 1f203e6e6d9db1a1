package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/bchaput/rest-shop/internal/handlers"
	"github.com/bchaput/rest-shop/internal/ws"
)

type Deps struct {
	Products   *handlers.ProductHandler
	Users      *handlers.UserHandler
	Orders     *handlers.OrderHandler
	Categories *handlers.CategoryHandler
	Catalog    *handlers.CatalogHandler

	// optional: registered only when configured
	Search *handlers.SearchHandler
	Hub    *ws.Hub
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/", func(c echo.Context) error { return c.String(http.StatusOK, "Hello World!") })
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusNoContent) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(http.StatusNoContent) })

	products := e.Group("/products")
	if d.Search != nil {
		products.GET("/search", d.Search.Search)
	}
	products.POST("", d.Products.Create)
	products.GET("", d.Products.List)
	products.GET("/:id", d.Products.Get)
	products.PUT("/:id", d.Products.Put)
	products.PATCH("/:id", d.Products.Patch)
	products.DELETE("/:id", d.Products.Delete)

	users := e.Group("/users")
	users.POST("", d.Users.Create)
	users.GET("", d.Users.List)
	users.GET("/:id", d.Users.Get)
	users.PUT("/:id", d.Users.Put)
	users.PATCH("/:id", d.Users.Patch)
	users.DELETE("/:id", d.Users.Delete)

	orders := e.Group("/orders")
	orders.POST("", d.Orders.Create)
	orders.GET("", d.Orders.List)
	orders.GET("/:id", d.Orders.Get)
	orders.PUT("/:id", d.Orders.Put)
	orders.PATCH("/:id", d.Orders.Patch)
	orders.DELETE("/:id", d.Orders.Delete)

	categories := e.Group("/categories")
	categories.POST("", d.Categories.Create)
	categories.GET("", d.Categories.List)

	e.GET("/f2p-games", d.Catalog.List)
	e.GET("/f2p-games/:id", d.Catalog.Get)

	if d.Hub != nil {
		e.GET("/ws", d.Hub.Handle)
	}
}
