package httpserver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/storefront/internal/cart/service"
	"github.com/Skotchmaster/storefront/internal/cart/transport"
	"github.com/Skotchmaster/storefront/internal/events"
	"github.com/Skotchmaster/storefront/internal/logging"
	"github.com/Skotchmaster/storefront/internal/media"
	"github.com/Skotchmaster/storefront/internal/middleware/auth"
)

type CartHTTP struct {
	Svc      *service.CartService
	Storage  media.Storage
	Producer events.Publisher
}

func (h *CartHTTP) publish(ctx context.Context, userID uint, event map[string]any) {
	event["userID"] = userID
	events.Publish(ctx, h.Producer, events.TopicCart, fmt.Sprint(userID), event)
}

func fail(l *slog.Logger, event string, err error) error {
	switch {
	case errors.Is(err, service.ErrValidation):
		l.Warn(event, "status", 400, "reason", "invalid input", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrUnknownUser):
		l.Warn(event, "status", 401, "reason", "unknown user", "error", err)
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	case errors.Is(err, service.ErrNotFound):
		l.Warn(event, "status", 404, "reason", "not found", "error", err)
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	default:
		l.Error(event, "status", 500, "reason", "unexpected error", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}
}

func (h *CartHTTP) GetCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.get")

	userID, err := auth.UserID(c)
	if err != nil {
		l.Warn("get_cart_error", "status", 401, "error", err)
		return err
	}

	cart, err := h.Svc.GetCart(ctx, userID)
	if err != nil {
		return fail(l, "get_cart_error", err)
	}

	l.Debug("get_cart_success", "user_id", userID, "items", len(cart.Items))
	return c.JSON(http.StatusOK, transport.NewCartResponse(*cart, h.Storage.URL))
}

func (h *CartHTTP) AddItem(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.add")

	userID, err := auth.UserID(c)
	if err != nil {
		l.Warn("add_item_error", "status", 401, "error", err)
		return err
	}

	var req transport.ItemRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("add_item_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if err := c.Validate(&req); err != nil {
		l.Warn("add_item_error", "status", 400, "reason", "validation failed", "error", err)
		return err
	}

	item, err := h.Svc.AddItem(ctx, userID, req.ProductID, uint(*req.Quantity))
	if err != nil {
		return fail(l, "add_item_error", err)
	}

	h.publish(ctx, userID, map[string]any{
		"type":      "add_cart_items",
		"productID": item.ProductID,
		"added":     *req.Quantity,
		"quantity":  item.Quantity,
	})

	l.Info("add_item_success", "user_id", userID, "product_id", item.ProductID, "quantity", item.Quantity)
	return c.JSON(http.StatusCreated, transport.NewItemResponse(*item, h.Storage.URL))
}

func (h *CartHTTP) UpdateItem(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.update")

	userID, err := auth.UserID(c)
	if err != nil {
		l.Warn("update_item_error", "status", 401, "error", err)
		return err
	}

	var req transport.ItemRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("update_item_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if err := c.Validate(&req); err != nil {
		l.Warn("update_item_error", "status", 400, "reason", "validation failed", "error", err)
		return err
	}

	item, err := h.Svc.UpdateItem(ctx, userID, req.ProductID, uint(*req.Quantity))
	if err != nil {
		return fail(l, "update_item_error", err)
	}

	h.publish(ctx, userID, map[string]any{
		"type":      "update_cart_item",
		"productID": item.ProductID,
		"quantity":  item.Quantity,
	})

	l.Info("update_item_success", "user_id", userID, "product_id", item.ProductID, "quantity", item.Quantity)
	return c.JSON(http.StatusOK, transport.NewItemResponse(*item, h.Storage.URL))
}

func (h *CartHTTP) RemoveItem(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.remove")

	userID, err := auth.UserID(c)
	if err != nil {
		l.Warn("remove_item_error", "status", 401, "error", err)
		return err
	}

	var req transport.RemoveRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("remove_item_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if err := c.Validate(&req); err != nil {
		l.Warn("remove_item_error", "status", 400, "reason", "validation failed", "error", err)
		return err
	}

	if err := h.Svc.RemoveItem(ctx, userID, req.ProductID); err != nil {
		return fail(l, "remove_item_error", err)
	}

	h.publish(ctx, userID, map[string]any{
		"type":      "delete_cart_item",
		"productID": req.ProductID,
	})

	l.Info("remove_item_success", "user_id", userID, "product_id", req.ProductID)
	return c.NoContent(http.StatusNoContent)
}

func (h *CartHTTP) Clear(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.clear")

	userID, err := auth.UserID(c)
	if err != nil {
		l.Warn("clear_cart_error", "status", 401, "error", err)
		return err
	}

	removed, err := h.Svc.Clear(ctx, userID)
	if err != nil {
		return fail(l, "clear_cart_error", err)
	}

	h.publish(ctx, userID, map[string]any{
		"type":    "clear_cart",
		"removed": removed,
	})

	l.Info("clear_cart_success", "user_id", userID, "removed", removed)
	return c.NoContent(http.StatusNoContent)
}
