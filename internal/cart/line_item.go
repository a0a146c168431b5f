package cart

import (
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/cartcore/internal/catalog"
)

// LineItem is one product entry in a cart. Name, price, and stock are
// snapshots taken when the product was added; later catalog changes do not
// alter them. The JSON field names match previously persisted storefront
// data and must not change.
type LineItem struct {
	ID        string  `json:"id"`
	ProductID int64   `json:"productId"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
	StockCap  int     `json:"stock"`
	ImageURL  string  `json:"imageUrl,omitempty"`
	Category  string  `json:"category,omitempty"`
}

// Subtotal returns price × quantity without rounding.
func (li LineItem) Subtotal() decimal.Decimal {
	return decimal.NewFromFloat(li.Price).Mul(decimal.NewFromInt(int64(li.Quantity)))
}

func newLineItem(id string, product catalog.Product, quantity int) LineItem {
	cap := product.StockCap()
	return LineItem{
		ID:        id,
		ProductID: product.ID,
		Name:      product.Name,
		Price:     product.Price,
		Quantity:  clampQuantity(quantity, cap),
		StockCap:  cap,
		ImageURL:  product.ImageRef(),
		Category:  product.Category,
	}
}

// clampQuantity bounds a requested quantity to [1, cap]. Requests below one
// count as one; the original storefront left that case ambiguous.
func clampQuantity(quantity, cap int) int {
	if quantity < 1 {
		quantity = 1
	}
	if quantity > cap {
		return cap
	}
	return quantity
}
