package customer

import (
	"context"
	"strings"

	"github.com/go-faster/errors"
)

var (
	// ErrNotFound is returned when a requested customer does not exist.
	ErrNotFound = errors.New("customer not found")
	// ErrDuplicateCPF is returned when another customer already holds the
	// tax id.
	ErrDuplicateCPF = errors.New("cpf already registered")
	// ErrNameRequired is returned when a customer is saved without a name.
	ErrNameRequired = errors.New("name is required")
	// ErrCPFRequired is returned when a customer is saved without a tax id.
	ErrCPFRequired = errors.New("cpf is required")
)

// Customer is a registered pizzeria client. CPF is the Brazilian national
// tax id; only its uniqueness is enforced.
type Customer struct {
	ID      int64
	Name    string
	Phone   string
	CPF     string
	Address string
}

// Normalize trims surrounding whitespace from every field.
func (c *Customer) Normalize() {
	c.Name = strings.TrimSpace(c.Name)
	c.Phone = strings.TrimSpace(c.Phone)
	c.CPF = strings.TrimSpace(c.CPF)
	c.Address = strings.TrimSpace(c.Address)
}

// Validate checks the fields required by the schema.
func (c *Customer) Validate() error {
	if c.Name == "" {
		return ErrNameRequired
	}
	if c.CPF == "" {
		return ErrCPFRequired
	}
	return nil
}

// Repository defines persistence operations for customers.
type Repository interface {
	List(ctx context.Context) ([]Customer, error)
	GetByID(ctx context.Context, id int64) (*Customer, error)
	// Create inserts c and sets its ID.
	Create(ctx context.Context, c *Customer) error
	Update(ctx context.Context, c *Customer) error
	// Delete removes the customer together with its orders and receipts.
	Delete(ctx context.Context, id int64) error
}
