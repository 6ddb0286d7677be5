package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type User struct {
	ID           uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Username     string `gorm:"unique;not null"          json:"username"`
	PasswordHash string `gorm:"not null"                 json:"-"`
	Role         string `gorm:"not null"                 json:"role"`
}

type Category struct {
	ID            uint          `gorm:"primaryKey;autoIncrement"      json:"id"`
	Name          string        `gorm:"size:100;uniqueIndex;not null" json:"name"`
	Slug          string        `gorm:"size:255;uniqueIndex;not null" json:"slug"`
	Image         string        `gorm:"size:255"                      json:"image"`
	Subcategories []Subcategory `gorm:"constraint:OnDelete:CASCADE"   json:"subcategories,omitempty"`
}

type Subcategory struct {
	ID         uint      `gorm:"primaryKey;autoIncrement"                                  json:"id"`
	CategoryID uint      `gorm:"not null;uniqueIndex:idx_subcategory_category_slug"        json:"category_id"`
	Category   *Category `json:"category,omitempty"`
	Name       string    `gorm:"size:100;not null"                                         json:"name"`
	Slug       string    `gorm:"size:255;not null;uniqueIndex:idx_subcategory_category_slug" json:"slug"`
	Image      string    `gorm:"size:255"                                                  json:"image"`
	Products   []Product `gorm:"constraint:OnDelete:CASCADE"                               json:"products,omitempty"`
}

type Product struct {
	ID             uint            `gorm:"primaryKey;autoIncrement"     json:"id"`
	SubcategoryID  uint            `gorm:"not null;index"               json:"subcategory_id"`
	Subcategory    *Subcategory    `json:"subcategory,omitempty"`
	Name           string          `gorm:"size:255;not null"            json:"name"`
	Slug           string          `gorm:"size:255;not null;uniqueIndex" json:"slug"`
	Price          decimal.Decimal `gorm:"type:decimal(10,2);not null"  json:"price"`
	ImageOriginal  string          `gorm:"size:255"                     json:"image_original"`
	ImageMedium    *string         `gorm:"size:255"                     json:"image_medium"`
	ImageThumbnail *string         `gorm:"size:255"                     json:"image_thumbnail"`
}

// NeedsDerivatives reports whether the medium or thumbnail copy still has to be
// generated from the original image.
func (p *Product) NeedsDerivatives() bool {
	if p.ImageOriginal == "" {
		return false
	}
	return isBlank(p.ImageMedium) || isBlank(p.ImageThumbnail)
}

func isBlank(s *string) bool {
	return s == nil || *s == ""
}

type Cart struct {
	ID        uint       `gorm:"primaryKey;autoIncrement"     json:"id"`
	UserID    uint       `gorm:"not null;uniqueIndex"         json:"user_id"`
	User      *User      `gorm:"constraint:OnDelete:CASCADE"  json:"-"`
	UpdatedAt time.Time  `json:"updated_at"`
	Items     []CartItem `gorm:"constraint:OnDelete:CASCADE"  json:"items,omitempty"`
}

// TotalItems is the sum of quantities over the loaded items.
func (c *Cart) TotalItems() uint {
	var n uint
	for _, it := range c.Items {
		n += it.Quantity
	}
	return n
}

// TotalSum prices every loaded item at its product's current price.
func (c *Cart) TotalSum() decimal.Decimal {
	sum := decimal.Zero
	for _, it := range c.Items {
		sum = sum.Add(it.Total())
	}
	return sum
}

// MaxQuantity bounds a single line item's quantity to a 32-bit positive integer.
const MaxQuantity = 2147483647

type CartItem struct {
	ID        uint     `gorm:"primaryKey;autoIncrement"                         json:"id"`
	CartID    uint     `gorm:"not null;uniqueIndex:idx_cart_item_cart_product"  json:"cart_id"`
	ProductID uint     `gorm:"not null;uniqueIndex:idx_cart_item_cart_product"  json:"product_id"`
	Product   *Product `gorm:"constraint:OnDelete:CASCADE"                      json:"product,omitempty"`
	Quantity  uint     `gorm:"not null;default:1;check:quantity>0"              json:"quantity"`
}

func (i *CartItem) Total() decimal.Decimal {
	if i.Product == nil {
		return decimal.Zero
	}
	return i.Product.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

func (CartItem) TableName() string {
	return "cart_items"
}

// All lists every persisted model in migration order.
func All() []any {
	return []any{&User{}, &Category{}, &Subcategory{}, &Product{}, &Cart{}, &CartItem{}}
}
