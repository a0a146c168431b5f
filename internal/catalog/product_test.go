package catalog

import (
	"testing"

	pkgerrors "github.com/angelmondragon/cartcore/pkg/errors"
)

func TestProductValidate(t *testing.T) {
	valid := Product{ID: 1, Name: "Keyboard", Price: 59.9, Stock: 5}
	if err := valid.Validate(); err != nil {
		t.Fatalf("expected valid product, got %v", err)
	}

	tests := []struct {
		name    string
		product Product
	}{
		{name: "missing id", product: Product{Name: "Keyboard", Price: 1}},
		{name: "missing name", product: Product{ID: 1, Price: 1}},
		{name: "negative price", product: Product{ID: 1, Name: "Keyboard", Price: -0.5}},
		{name: "negative stock", product: Product{ID: 1, Name: "Keyboard", Price: 1, Stock: -1}},
	}
	for _, tt := range tests {
		err := tt.product.Validate()
		if err == nil {
			t.Fatalf("%s: expected validation error", tt.name)
		}
		if !pkgerrors.HasCode(err, pkgerrors.CodeValidation) {
			t.Fatalf("%s: expected validation code, got %v", tt.name, err)
		}
	}
}

func TestImageRefNormalization(t *testing.T) {
	both := Product{ImageURL: "https://cdn/new.png", Image: "https://cdn/old.png"}
	if got := both.ImageRef(); got != "https://cdn/new.png" {
		t.Fatalf("expected imageUrl to win, got %q", got)
	}

	legacy := Product{Image: "https://cdn/old.png"}
	if got := legacy.ImageRef(); got != "https://cdn/old.png" {
		t.Fatalf("expected legacy image fallback, got %q", got)
	}

	if got := (Product{}).ImageRef(); got != "" {
		t.Fatalf("expected empty ref, got %q", got)
	}
}

func TestStockCap(t *testing.T) {
	if got := (Product{Stock: 5}).StockCap(); got != 5 {
		t.Fatalf("expected cap 5, got %d", got)
	}
	if got := (Product{Stock: 0}).StockCap(); got != DefaultStockCap {
		t.Fatalf("unknown stock should fall back to %d, got %d", DefaultStockCap, got)
	}
}
