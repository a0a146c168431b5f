package cart

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
)

func TestLineItemJSONFieldContract(t *testing.T) {
	item := LineItem{
		ID:        "li-1",
		ProductID: 42,
		Name:      "Keyboard",
		Price:     59.9,
		Quantity:  2,
		StockCap:  5,
		ImageURL:  "https://cdn/kb.png",
		Category:  "peripherals",
	}

	raw, err := json.Marshal(item)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var fields map[string]any
	if err := json.Unmarshal(raw, &fields); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	// Field names are shared with previously persisted storefront data.
	for _, key := range []string{"id", "productId", "name", "price", "quantity", "stock", "imageUrl", "category"} {
		if _, ok := fields[key]; !ok {
			t.Fatalf("expected field %q in %s", key, raw)
		}
	}
	if fields["stock"] != float64(5) {
		t.Fatalf("stock snapshot not serialized, got %v", fields["stock"])
	}
}

func TestLineItemSubtotal(t *testing.T) {
	item := LineItem{Price: 19.99, Quantity: 3}
	if got := item.Subtotal(); !got.Equal(decimal.RequireFromString("59.97")) {
		t.Fatalf("expected 59.97, got %s", got)
	}
}

func TestClampQuantity(t *testing.T) {
	tests := []struct {
		quantity, cap, want int
	}{
		{quantity: 0, cap: 5, want: 1},
		{quantity: -4, cap: 5, want: 1},
		{quantity: 3, cap: 5, want: 3},
		{quantity: 9, cap: 5, want: 5},
		{quantity: 1, cap: 1, want: 1},
	}
	for _, tt := range tests {
		if got := clampQuantity(tt.quantity, tt.cap); got != tt.want {
			t.Fatalf("clampQuantity(%d, %d) = %d, want %d", tt.quantity, tt.cap, got, tt.want)
		}
	}
}
