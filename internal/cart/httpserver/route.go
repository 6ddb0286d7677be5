package httpserver

import (
	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/storefront/internal/middleware/auth"
)

func Register(g *echo.Group, h *CartHTTP, authMW *auth.Middleware) {
	cart := g.Group("/cart", authMW.RequireAuth)

	cart.GET("", h.GetCart)
	cart.POST("/add", h.AddItem)
	cart.PUT("/update", h.UpdateItem)
	cart.DELETE("/remove", h.RemoveItem)
	cart.DELETE("/clear", h.Clear)
}
