package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// Money travels as JSON numbers, matching what the dashboard sends.
	decimal.MarshalJSONWithoutQuotes = true
}

// Product categories accepted by the validator.
var ProductCategories = []string{
	"Electronics",
	"Clothing",
	"Home & Garden",
	"Sports",
	"Books",
}

// Product is a catalogue item. Name is unique across the store.
type Product struct {
	ID          string          `json:"id"`
	UserID      string          `json:"userId,omitempty"`
	Name        string          `json:"name"`
	Category    string          `json:"category"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock"`
	SKU         string          `json:"sku,omitempty"`
	Description string          `json:"description,omitempty"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

// ProductRequest is the body of POST /products and PUT /products/{id}.
// Pointer fields distinguish "absent" from zero.
type ProductRequest struct {
	Name        string           `json:"name"`
	Category    string           `json:"category"`
	Price       *decimal.Decimal `json:"price"`
	Stock       *int             `json:"stock"`
	SKU         string           `json:"sku"`
	Description string           `json:"description"`
}

// ProductRepository defines the data-access contract for products.
type ProductRepository interface {
	// List returns all products, newest first.
	List(ctx context.Context) ([]Product, error)

	// GetByID returns (nil, nil) when the product does not exist.
	GetByID(ctx context.Context, id string) (*Product, error)

	// Create inserts p. Returns ErrDuplicate when the name is taken.
	Create(ctx context.Context, p *Product) error

	// Update overwrites the mutable fields of the product with p.ID and returns
	// the stored record, or (nil, nil) when it does not exist.
	Update(ctx context.Context, p *Product) (*Product, error)

	// Delete returns false when the product does not exist.
	Delete(ctx context.Context, id string) (bool, error)

	// InsertMany bulk-inserts products and returns how many were stored.
	InsertMany(ctx context.Context, products []Product) (int, error)
}
