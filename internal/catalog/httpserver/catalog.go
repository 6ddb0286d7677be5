package httpserver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/storefront/internal/catalog/service"
	"github.com/Skotchmaster/storefront/internal/catalog/transport"
	"github.com/Skotchmaster/storefront/internal/events"
	"github.com/Skotchmaster/storefront/internal/logging"
	"github.com/Skotchmaster/storefront/internal/media"
	"github.com/Skotchmaster/storefront/internal/util"
)

type CatalogHTTP struct {
	Svc      *service.CatalogService
	Storage  media.Storage
	Producer events.Publisher
}

func (h *CatalogHTTP) publish(ctx context.Context, productID uint, event map[string]any) {
	events.Publish(ctx, h.Producer, events.TopicProduct, fmt.Sprint(productID), event)
}

func (h *CatalogHTTP) GetCategories(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.get_categories")

	page := util.ParseIntDefault(c.QueryParam("page"), 1)
	size := util.ParseIntDefault(c.QueryParam("size"), util.DefaultPageSize)
	page, offset, limit := util.Calculate(page, size)

	total, items, err := h.Svc.GetCategories(ctx, offset, limit)
	if err != nil {
		l.Error("get_categories_error", "status", 500, "reason", "cannot load categories", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot load categories")
	}

	data := make([]transport.CategoryResponse, 0, len(items))
	for _, item := range items {
		data = append(data, transport.NewCategoryResponse(item, h.Storage.URL))
	}

	l.Debug("get_categories_success", "count", len(data))
	return c.JSON(http.StatusOK, transport.Page[transport.CategoryResponse]{
		Data: data,
		Meta: transport.NewPageMeta(page, offset, limit, total),
	})
}

func (h *CatalogHTTP) GetProducts(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.get_products")

	page := util.ParseIntDefault(c.QueryParam("page"), 1)
	size := util.ParseIntDefault(c.QueryParam("size"), util.DefaultPageSize)
	page, offset, limit := util.Calculate(page, size)

	total, items, err := h.Svc.GetProducts(ctx, offset, limit)
	if err != nil {
		l.Error("get_products_error", "status", 500, "reason", "cannot load products", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot load products")
	}

	data := make([]transport.ProductResponse, 0, len(items))
	for _, item := range items {
		data = append(data, transport.NewProductResponse(item, h.Storage.URL))
	}

	l.Debug("get_products_success", "count", len(data))
	return c.JSON(http.StatusOK, transport.Page[transport.ProductResponse]{
		Data: data,
		Meta: transport.NewPageMeta(page, offset, limit, total),
	})
}

// fail logs err under event and converts it to the matching HTTP error.
func fail(l *slog.Logger, event string, err error) error {
	switch {
	case errors.Is(err, service.ErrValidation):
		l.Warn(event, "status", 400, "reason", "invalid input", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, media.ErrUnsupportedImage):
		l.Warn(event, "status", 400, "reason", "bad image", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "image: upload a valid image")
	case errors.Is(err, service.ErrNotFound):
		l.Warn(event, "status", 404, "reason", "not found", "error", err)
		return echo.NewHTTPError(http.StatusNotFound, "not found")
	case errors.Is(err, service.ErrConflict):
		l.Warn(event, "status", 409, "reason", "already exists", "error", err)
		return echo.NewHTTPError(http.StatusConflict, "already exists")
	case errors.Is(err, media.ErrImageProcessing):
		l.Error(event, "status", 500, "reason", "cannot process image", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot process image")
	default:
		l.Error(event, "status", 500, "reason", "unexpected error", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}
}

func parseID(c echo.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("%w: id must be a positive integer", service.ErrValidation)
	}
	return uint(id), nil
}
