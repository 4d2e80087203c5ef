package domain

import "github.com/shopspring/decimal"

// LineItem is one unit-group of a specific product variant in the cart.
// Price, name and image are a display snapshot taken at add time; billing
// never trusts them, the checkout service recomputes everything.
type LineItem struct {
	ProductID string          `json:"product_id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Currency  string          `json:"currency"`
	Image     string          `json:"image"`
	Color     *string         `json:"color"`
	Size      *string         `json:"size"`
	Quantity  int             `json:"quantity"`
}

// SameVariant reports whether the item matches the (productID, color, size)
// variant identity. A nil discriminator only matches nil.
func (li LineItem) SameVariant(productID string, color, size *string) bool {
	return li.ProductID == productID &&
		discriminatorEqual(li.Color, color) &&
		discriminatorEqual(li.Size, size)
}

func discriminatorEqual(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
