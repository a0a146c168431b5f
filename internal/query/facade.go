package query

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/angelmondragon/cartcore/internal/cart"
	"github.com/angelmondragon/cartcore/internal/session"
)

// CartReader is the read-only slice of the cart aggregate the facade exposes.
type CartReader interface {
	TotalItems() int
	TotalPrice() decimal.Decimal
	IsInCart(productID int64) bool
	ProductQuantity(productID int64) int
	Items() []cart.LineItem
	Namespace() string
}

// SessionReader exposes the active session without its mutators.
type SessionReader interface {
	IsAuthenticated() bool
	Namespace() string
	CachedProfile(ctx context.Context) (session.Profile, error)
}

// Summary is a point-in-time snapshot of the active cart. Totals and line
// items are computed from the same read so they never disagree.
type Summary struct {
	Namespace     string
	Authenticated bool
	TotalItems    int
	TotalPrice    decimal.Decimal
	Items         []cart.LineItem
}

// Facade bundles the read-only cart and session views consumers render
// from. It never mutates either collaborator.
type Facade struct {
	cart    CartReader
	session SessionReader
}

func NewFacade(cartReader CartReader, sessionReader SessionReader) (*Facade, error) {
	if cartReader == nil {
		return nil, fmt.Errorf("cart reader required")
	}
	if sessionReader == nil {
		return nil, fmt.Errorf("session reader required")
	}
	return &Facade{cart: cartReader, session: sessionReader}, nil
}

// Summary captures the active cart in one pass.
func (f *Facade) Summary() Summary {
	return Summary{
		Namespace:     f.cart.Namespace(),
		Authenticated: f.session.IsAuthenticated(),
		TotalItems:    f.cart.TotalItems(),
		TotalPrice:    f.cart.TotalPrice(),
		Items:         f.cart.Items(),
	}
}

// TotalItems returns the sum of quantities across line items.
func (f *Facade) TotalItems() int {
	return f.cart.TotalItems()
}

// TotalPrice returns the exact sum of line subtotals.
func (f *Facade) TotalPrice() decimal.Decimal {
	return f.cart.TotalPrice()
}

// IsInCart reports whether any line item references the product.
func (f *Facade) IsInCart(productID int64) bool {
	return f.cart.IsInCart(productID)
}

// ProductQuantity returns the quantity held for the product, zero when absent.
func (f *Facade) ProductQuantity(productID int64) int {
	return f.cart.ProductQuantity(productID)
}

// Items returns a snapshot of the cart's line items.
func (f *Facade) Items() []cart.LineItem {
	return f.cart.Items()
}

// IsAuthenticated reports whether a resolved identity is active.
func (f *Facade) IsAuthenticated() bool {
	return f.session.IsAuthenticated()
}

// Profile returns the cached profile persisted at login.
func (f *Facade) Profile(ctx context.Context) (session.Profile, error) {
	return f.session.CachedProfile(ctx)
}
