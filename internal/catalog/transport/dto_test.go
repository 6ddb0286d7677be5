package transport

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/Skotchmaster/storefront/internal/models"
)

func testURL(name string) string { return "/media/" + name }

func TestNewProductResponse(t *testing.T) {
	medium := "products/medium/a.png"
	p := models.Product{
		ID:            7,
		Name:          "X",
		Slug:          "electronics-phones-x",
		Price:         decimal.RequireFromString("10"),
		ImageOriginal: "products/original/a.png",
		ImageMedium:   &medium,
		Subcategory: &models.Subcategory{
			Name:     "Phones",
			Category: &models.Category{Name: "Electronics"},
		},
	}

	resp := NewProductResponse(p, testURL)

	assert.Equal(t, "10.00", resp.Price)
	assert.Equal(t, "Electronics", resp.Category)
	assert.Equal(t, "Phones", resp.Subcategory)
	if assert.NotNil(t, resp.Images.Original) {
		assert.Equal(t, "/media/products/original/a.png", *resp.Images.Original)
	}
	if assert.NotNil(t, resp.Images.Medium) {
		assert.Equal(t, "/media/products/medium/a.png", *resp.Images.Medium)
	}
	assert.Nil(t, resp.Images.Thumbnail)
}

func TestNewCategoryResponse_NoImage(t *testing.T) {
	c := models.Category{
		ID:   1,
		Name: "Electronics",
		Slug: "electronics",
		Subcategories: []models.Subcategory{
			{ID: 2, Name: "Phones", Slug: "electronics-phones", Image: "subcategories/p.png"},
		},
	}

	resp := NewCategoryResponse(c, testURL)

	assert.Nil(t, resp.Image)
	assert.Len(t, resp.Subcategories, 1)
	assert.Equal(t, "/media/subcategories/p.png", *resp.Subcategories[0].Image)
}

func TestNewPageMeta(t *testing.T) {
	m := NewPageMeta(2, 10, 10, 25)
	assert.Equal(t, int64(3), m.TotalPages)
	assert.True(t, m.HasPrev)
	assert.True(t, m.HasNext)

	m = NewPageMeta(1, 0, 20, 0)
	assert.Equal(t, int64(0), m.TotalPages)
	assert.False(t, m.HasPrev)
	assert.False(t, m.HasNext)
}
