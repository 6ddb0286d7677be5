package httpserver

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/Skotchmaster/storefront/internal/catalog/service"
	"github.com/Skotchmaster/storefront/internal/catalog/transport"
	"github.com/Skotchmaster/storefront/internal/logging"
	"github.com/Skotchmaster/storefront/internal/media"
)

const imageField = "image"

// saveUpload stores the multipart "image" file under dir. It returns "" when the
// request carries no file.
func (h *CatalogHTTP) saveUpload(c echo.Context, dir string) (string, error) {
	fh, err := c.FormFile(imageField)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return "", nil
		}
		return "", fmt.Errorf("%w: %w", service.ErrValidation, err)
	}

	f, err := fh.Open()
	if err != nil {
		return "", err
	}
	defer f.Close()

	if err := media.Sniff(f); err != nil {
		return "", err
	}
	return h.Storage.Save(media.UploadName(dir, fh.Filename), f)
}

func (h *CatalogHTTP) dropUpload(name string) {
	if name != "" {
		_ = h.Storage.Remove(name)
	}
}

func optionalString(form url.Values, key string) *string {
	v, ok := form[key]
	if !ok || len(v) == 0 {
		return nil
	}
	return &v[0]
}

func optionalUint(form url.Values, key string) (*uint, error) {
	s := optionalString(form, key)
	if s == nil {
		return nil, nil
	}
	v, err := strconv.ParseUint(*s, 10, 64)
	if err != nil || v == 0 {
		return nil, fmt.Errorf("%w: %s must be a positive integer", service.ErrValidation, key)
	}
	id := uint(v)
	return &id, nil
}

func parsePrice(s string) (decimal.Decimal, error) {
	p, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: price must be a decimal number", service.ErrValidation)
	}
	return p, nil
}

func (h *CatalogHTTP) CreateCategory(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.create_category")

	var req transport.CreateCategoryForm
	if err := c.Bind(&req); err != nil {
		l.Warn("create_category_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if err := c.Validate(&req); err != nil {
		l.Warn("create_category_error", "status", 400, "reason", "validation failed", "error", err)
		return err
	}

	image, err := h.saveUpload(c, media.CategoryDir)
	if err != nil {
		return fail(l, "create_category_error", err)
	}

	category, err := h.Svc.CreateCategory(ctx, req.Name, image)
	if err != nil {
		h.dropUpload(image)
		return fail(l, "create_category_error", err)
	}

	l.Info("create_category_success", "category_id", category.ID)
	return c.JSON(http.StatusCreated, transport.NewCategoryResponse(*category, h.Storage.URL))
}

func (h *CatalogHTTP) PatchCategory(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.patch_category")

	id, err := parseID(c)
	if err != nil {
		return fail(l, "patch_category_error", err)
	}
	form, err := c.FormParams()
	if err != nil {
		l.Warn("patch_category_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	image, err := h.saveUpload(c, media.CategoryDir)
	if err != nil {
		return fail(l, "patch_category_error", err)
	}

	patch := service.CategoryPatch{Name: optionalString(form, "name")}
	if image != "" {
		patch.Image = &image
	}

	category, err := h.Svc.PatchCategory(ctx, id, patch)
	if err != nil {
		h.dropUpload(image)
		return fail(l, "patch_category_error", err)
	}

	l.Info("patch_category_success", "category_id", category.ID)
	return c.JSON(http.StatusOK, transport.NewCategoryResponse(*category, h.Storage.URL))
}

func (h *CatalogHTTP) DeleteCategory(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.delete_category")

	id, err := parseID(c)
	if err != nil {
		return fail(l, "delete_category_error", err)
	}
	if err := h.Svc.DeleteCategory(ctx, id); err != nil {
		return fail(l, "delete_category_error", err)
	}

	l.Info("delete_category_success", "category_id", id)
	return c.NoContent(http.StatusNoContent)
}

func (h *CatalogHTTP) CreateSubcategory(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.create_subcategory")

	var req transport.CreateSubcategoryForm
	if err := c.Bind(&req); err != nil {
		l.Warn("create_subcategory_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if err := c.Validate(&req); err != nil {
		l.Warn("create_subcategory_error", "status", 400, "reason", "validation failed", "error", err)
		return err
	}

	image, err := h.saveUpload(c, media.SubcategoryDir)
	if err != nil {
		return fail(l, "create_subcategory_error", err)
	}

	sub, err := h.Svc.CreateSubcategory(ctx, req.CategoryID, req.Name, image)
	if err != nil {
		h.dropUpload(image)
		return fail(l, "create_subcategory_error", err)
	}

	l.Info("create_subcategory_success", "subcategory_id", sub.ID)
	return c.JSON(http.StatusCreated, transport.NewSubcategoryResponse(*sub, h.Storage.URL))
}

func (h *CatalogHTTP) PatchSubcategory(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.patch_subcategory")

	id, err := parseID(c)
	if err != nil {
		return fail(l, "patch_subcategory_error", err)
	}
	form, err := c.FormParams()
	if err != nil {
		l.Warn("patch_subcategory_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	categoryID, err := optionalUint(form, "category_id")
	if err != nil {
		return fail(l, "patch_subcategory_error", err)
	}

	image, err := h.saveUpload(c, media.SubcategoryDir)
	if err != nil {
		return fail(l, "patch_subcategory_error", err)
	}

	patch := service.SubcategoryPatch{CategoryID: categoryID, Name: optionalString(form, "name")}
	if image != "" {
		patch.Image = &image
	}

	sub, err := h.Svc.PatchSubcategory(ctx, id, patch)
	if err != nil {
		h.dropUpload(image)
		return fail(l, "patch_subcategory_error", err)
	}

	l.Info("patch_subcategory_success", "subcategory_id", sub.ID)
	return c.JSON(http.StatusOK, transport.NewSubcategoryResponse(*sub, h.Storage.URL))
}

func (h *CatalogHTTP) DeleteSubcategory(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.delete_subcategory")

	id, err := parseID(c)
	if err != nil {
		return fail(l, "delete_subcategory_error", err)
	}
	if err := h.Svc.DeleteSubcategory(ctx, id); err != nil {
		return fail(l, "delete_subcategory_error", err)
	}

	l.Info("delete_subcategory_success", "subcategory_id", id)
	return c.NoContent(http.StatusNoContent)
}

func (h *CatalogHTTP) CreateProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.create_product")

	var req transport.CreateProductForm
	if err := c.Bind(&req); err != nil {
		l.Warn("create_product_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if err := c.Validate(&req); err != nil {
		l.Warn("create_product_error", "status", 400, "reason", "validation failed", "error", err)
		return err
	}
	price, err := parsePrice(req.Price)
	if err != nil {
		return fail(l, "create_product_error", err)
	}

	image, err := h.saveUpload(c, media.OriginalDir)
	if err != nil {
		return fail(l, "create_product_error", err)
	}

	prod, err := h.Svc.CreateProduct(ctx, service.ProductInput{
		SubcategoryID: req.SubcategoryID,
		Name:          req.Name,
		Price:         price,
		Image:         image,
	})
	if err != nil {
		h.dropUpload(image)
		return fail(l, "create_product_error", err)
	}

	h.publish(ctx, prod.ID, map[string]any{
		"type":      "product_created",
		"productID": prod.ID,
		"slug":      prod.Slug,
		"price":     prod.Price.StringFixed(2),
	})

	l.Info("create_product_success", "product_id", prod.ID)
	return c.JSON(http.StatusCreated, transport.NewProductResponse(*prod, h.Storage.URL))
}

func (h *CatalogHTTP) PatchProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.patch_product")

	id, err := parseID(c)
	if err != nil {
		return fail(l, "patch_product_error", err)
	}
	form, err := c.FormParams()
	if err != nil {
		l.Warn("patch_product_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	var patch service.ProductPatch
	if patch.SubcategoryID, err = optionalUint(form, "subcategory_id"); err != nil {
		return fail(l, "patch_product_error", err)
	}
	patch.Name = optionalString(form, "name")
	if s := optionalString(form, "price"); s != nil {
		price, err := parsePrice(*s)
		if err != nil {
			return fail(l, "patch_product_error", err)
		}
		patch.Price = &price
	}

	image, err := h.saveUpload(c, media.OriginalDir)
	if err != nil {
		return fail(l, "patch_product_error", err)
	}
	if image != "" {
		patch.Image = &image
	}

	prod, err := h.Svc.PatchProduct(ctx, id, patch)
	if err != nil {
		h.dropUpload(image)
		return fail(l, "patch_product_error", err)
	}

	h.publish(ctx, prod.ID, map[string]any{
		"type":      "product_updated",
		"productID": prod.ID,
		"slug":      prod.Slug,
		"price":     prod.Price.StringFixed(2),
	})

	l.Info("patch_product_success", "product_id", prod.ID)
	return c.JSON(http.StatusOK, transport.NewProductResponse(*prod, h.Storage.URL))
}

func (h *CatalogHTTP) DeleteProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.delete_product")

	id, err := parseID(c)
	if err != nil {
		return fail(l, "delete_product_error", err)
	}
	if err := h.Svc.DeleteProduct(ctx, id); err != nil {
		return fail(l, "delete_product_error", err)
	}

	h.publish(ctx, id, map[string]any{
		"type":      "product_deleted",
		"productID": id,
	})

	l.Info("delete_product_success", "product_id", id)
	return c.NoContent(http.StatusNoContent)
}
