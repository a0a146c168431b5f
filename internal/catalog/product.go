package catalog

import (
	"github.com/go-playground/validator/v10"

	pkgerrors "github.com/angelmondragon/cartcore/pkg/errors"
)

// DefaultStockCap bounds quantities when the catalog does not report stock.
const DefaultStockCap = 99

var validate = validator.New(validator.WithRequiredStructEnabled())

// Product is the read-only record supplied by the external catalog. Older
// feeds populate "image" instead of "imageUrl"; ImageRef resolves that once
// so the ambiguity never reaches the cart.
type Product struct {
	ID          int64   `json:"id" validate:"required"`
	Name        string  `json:"name" validate:"required"`
	Price       float64 `json:"price" validate:"gte=0"`
	Stock       int     `json:"stock" validate:"gte=0"`
	ImageURL    string  `json:"imageUrl"`
	Image       string  `json:"image"`
	Category    string  `json:"category"`
	Description string  `json:"description"`
}

// Validate checks the snapshot fields the cart depends on.
func (p Product) Validate() error {
	if err := validate.Struct(p); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid product snapshot")
	}
	return nil
}

// ImageRef returns the canonical image reference, preferring the current
// field over the legacy one.
func (p Product) ImageRef() string {
	if p.ImageURL != "" {
		return p.ImageURL
	}
	return p.Image
}

// StockCap returns the quantity ceiling for this product. A catalog that
// reports no stock yields the default cap.
func (p Product) StockCap() int {
	if p.Stock <= 0 {
		return DefaultStockCap
	}
	return p.Stock
}
