package product

import (
	"context"
	"strings"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

var (
	// ErrNotFound is returned when a requested product does not exist.
	ErrNotFound = errors.New("product not found")
	// ErrNameRequired is returned when a product is created without a name.
	ErrNameRequired = errors.New("name is required")
	// ErrNegativePrice is returned when a product price is below zero.
	ErrNegativePrice = errors.New("price must not be negative")
)

// Product is a menu item. Prices have no update path once created.
type Product struct {
	ID    int64
	Name  string
	Price decimal.Decimal
}

// Validate checks name presence and a non-negative price.
func (p *Product) Validate() error {
	p.Name = strings.TrimSpace(p.Name)
	if p.Name == "" {
		return ErrNameRequired
	}
	if p.Price.IsNegative() {
		return ErrNegativePrice
	}
	return nil
}

// Repository defines operations on the product catalog.
type Repository interface {
	List(ctx context.Context) ([]Product, error)
	GetByID(ctx context.Context, id int64) (*Product, error)
	// GetByIDs returns the products that exist among ids; unknown ids are
	// absent from the result.
	GetByIDs(ctx context.Context, ids []int64) ([]Product, error)
	// Create inserts p and sets its ID.
	Create(ctx context.Context, p *Product) error
	Delete(ctx context.Context, id int64) error
}
