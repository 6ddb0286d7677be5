package httpserver

import (
	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/storefront/internal/middleware/auth"
)

func Register(g *echo.Group, h *CatalogHTTP, authMW *auth.Middleware) {
	g.GET("/categories", h.GetCategories)
	g.GET("/products", h.GetProducts)

	admin := g.Group("/admin", authMW.RequireAdmin)

	admin.POST("/categories", h.CreateCategory)
	admin.PATCH("/categories/:id", h.PatchCategory)
	admin.DELETE("/categories/:id", h.DeleteCategory)

	admin.POST("/subcategories", h.CreateSubcategory)
	admin.PATCH("/subcategories/:id", h.PatchSubcategory)
	admin.DELETE("/subcategories/:id", h.DeleteSubcategory)

	admin.POST("/products", h.CreateProduct)
	admin.PATCH("/products/:id", h.PatchProduct)
	admin.DELETE("/products/:id", h.DeleteProduct)
}
