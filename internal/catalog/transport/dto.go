package transport

import (
	"github.com/Skotchmaster/storefront/internal/models"
)

// URLFunc turns a stored media name into a public URL.
type URLFunc func(name string) string

type SubcategorySummary struct {
	ID    uint    `json:"id"`
	Name  string  `json:"name"`
	Slug  string  `json:"slug"`
	Image *string `json:"image"`
}

type CategoryResponse struct {
	ID            uint                 `json:"id"`
	Name          string               `json:"name"`
	Slug          string               `json:"slug"`
	Image         *string              `json:"image"`
	Subcategories []SubcategorySummary `json:"subcategories"`
}

type SubcategoryResponse struct {
	ID         uint    `json:"id"`
	CategoryID uint    `json:"category_id"`
	Name       string  `json:"name"`
	Slug       string  `json:"slug"`
	Image      *string `json:"image"`
}

type ProductImages struct {
	Original  *string `json:"original"`
	Medium    *string `json:"medium"`
	Thumbnail *string `json:"thumbnail"`
}

type ProductResponse struct {
	ID          uint          `json:"id"`
	Name        string        `json:"name"`
	Slug        string        `json:"slug"`
	Price       string        `json:"price"`
	Category    string        `json:"category"`
	Subcategory string        `json:"subcategory"`
	Images      ProductImages `json:"images"`
}

type PageMeta struct {
	Page       int   `json:"page"`
	Size       int   `json:"size"`
	Total      int64 `json:"total"`
	TotalPages int64 `json:"total_pages"`
	HasPrev    bool  `json:"has_prev"`
	HasNext    bool  `json:"has_next"`
}

type Page[T any] struct {
	Data []T      `json:"data"`
	Meta PageMeta `json:"meta"`
}

func NewPageMeta(page, offset, limit int, total int64) PageMeta {
	return PageMeta{
		Page:       page,
		Size:       limit,
		Total:      total,
		TotalPages: (total + int64(limit) - 1) / int64(limit),
		HasPrev:    page > 1,
		HasNext:    int64(offset+limit) < total,
	}
}

type CreateCategoryForm struct {
	Name string `form:"name" validate:"required,max=100"`
}

type CreateSubcategoryForm struct {
	CategoryID uint   `form:"category_id" validate:"required"`
	Name       string `form:"name"        validate:"required,max=100"`
}

type CreateProductForm struct {
	SubcategoryID uint   `form:"subcategory_id" validate:"required"`
	Name          string `form:"name"           validate:"required,max=255"`
	Price         string `form:"price"          validate:"required"`
}

func NewCategoryResponse(c models.Category, url URLFunc) CategoryResponse {
	subs := make([]SubcategorySummary, 0, len(c.Subcategories))
	for _, s := range c.Subcategories {
		subs = append(subs, SubcategorySummary{
			ID:    s.ID,
			Name:  s.Name,
			Slug:  s.Slug,
			Image: mediaURL(s.Image, url),
		})
	}
	return CategoryResponse{
		ID:            c.ID,
		Name:          c.Name,
		Slug:          c.Slug,
		Image:         mediaURL(c.Image, url),
		Subcategories: subs,
	}
}

func NewSubcategoryResponse(s models.Subcategory, url URLFunc) SubcategoryResponse {
	return SubcategoryResponse{
		ID:         s.ID,
		CategoryID: s.CategoryID,
		Name:       s.Name,
		Slug:       s.Slug,
		Image:      mediaURL(s.Image, url),
	}
}

// NewProductResponse flattens p. Subcategory and its Category should be preloaded,
// otherwise the names are left empty.
func NewProductResponse(p models.Product, url URLFunc) ProductResponse {
	resp := ProductResponse{
		ID:    p.ID,
		Name:  p.Name,
		Slug:  p.Slug,
		Price: p.Price.StringFixed(2),
		Images: ProductImages{
			Original:  mediaURL(p.ImageOriginal, url),
			Medium:    optionalURL(p.ImageMedium, url),
			Thumbnail: optionalURL(p.ImageThumbnail, url),
		},
	}
	if p.Subcategory != nil {
		resp.Subcategory = p.Subcategory.Name
		if p.Subcategory.Category != nil {
			resp.Category = p.Subcategory.Category.Name
		}
	}
	return resp
}

func mediaURL(name string, url URLFunc) *string {
	if name == "" {
		return nil
	}
	u := url(name)
	return &u
}

func optionalURL(name *string, url URLFunc) *string {
	if name == nil {
		return nil
	}
	return mediaURL(*name, url)
}
