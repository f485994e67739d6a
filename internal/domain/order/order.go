package order

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// StatusOpen is stored on every new order. No operation moves an order out
// of it.
const StatusOpen = "OPEN"

// Order is a placed order. Items keeps the raw "productId:qty;..." encoding
// exactly as submitted.
type Order struct {
	ID         int64
	CustomerID int64
	Items      string
	Total      decimal.Decimal
	Discount   decimal.Decimal
	Status     string
	CreatedAt  time.Time
}

// Summary is an order joined with the identity of its customer.
type Summary struct {
	Order
	CustomerName    string
	CustomerCPF     string
	CustomerAddress string
}

// Repository defines persistence operations for orders.
type Repository interface {
	// Create inserts o and fills ID, Status, CreatedAt and the stored
	// amounts. A missing customer yields an error matching
	// customer.ErrNotFound.
	Create(ctx context.Context, o *Order) error
	GetByID(ctx context.Context, id int64) (*Order, error)
	// ListByCustomer returns the customer's orders, newest first.
	ListByCustomer(ctx context.Context, customerID int64) ([]Order, error)
	List(ctx context.Context) ([]Summary, error)
}

// Transactor runs fn inside a store transaction. Repositories called with
// the context passed to fn take part in it.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// PlacedEvent is published after an order and its receipt are committed.
type PlacedEvent struct {
	OrderID    int64
	CustomerID int64
	Items      string
	Total      decimal.Decimal
	Discount   decimal.Decimal
	PlacedAt   time.Time
}

// EventPublisher announces placed orders to other systems.
type EventPublisher interface {
	PublishOrderPlaced(ctx context.Context, e PlacedEvent) error
}

type nopPublisher struct{}

func (nopPublisher) PublishOrderPlaced(context.Context, PlacedEvent) error { return nil }
