package transport

import (
	catalog "github.com/Skotchmaster/storefront/internal/catalog/transport"
	"github.com/Skotchmaster/storefront/internal/models"
)

type ItemRequest struct {
	ProductID uint `json:"product_id" validate:"required"`
	Quantity  *int `json:"quantity"   validate:"required,min=1,max=2147483647"`
}

type RemoveRequest struct {
	ProductID uint `json:"product_id" query:"product_id" validate:"required"`
}

type ItemResponse struct {
	Product  catalog.ProductResponse `json:"product"`
	Quantity uint                    `json:"quantity"`
}

type CartResponse struct {
	Items      []ItemResponse `json:"items"`
	TotalItems uint           `json:"total_items"`
	TotalSum   string         `json:"total_sum"`
}

func NewItemResponse(item models.CartItem, url catalog.URLFunc) ItemResponse {
	resp := ItemResponse{Quantity: item.Quantity}
	if item.Product != nil {
		resp.Product = catalog.NewProductResponse(*item.Product, url)
	}
	return resp
}

func NewCartResponse(cart models.Cart, url catalog.URLFunc) CartResponse {
	items := make([]ItemResponse, 0, len(cart.Items))
	for _, item := range cart.Items {
		items = append(items, NewItemResponse(item, url))
	}
	return CartResponse{
		Items:      items,
		TotalItems: cart.TotalItems(),
		TotalSum:   cart.TotalSum().StringFixed(2),
	}
}
