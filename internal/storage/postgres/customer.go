package postgres

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/xenking/pizzaria/internal/domain/customer"
)

const (
	listCustomersSQL = `SELECT id, nome, COALESCE(telefone, ''), cpf, COALESCE(endereco, '')
		FROM clientes ORDER BY id`

	getCustomerByIDSQL = `SELECT id, nome, COALESCE(telefone, ''), cpf, COALESCE(endereco, '')
		FROM clientes WHERE id = $1`

	createCustomerSQL = `INSERT INTO clientes (nome, telefone, cpf, endereco)
		VALUES ($1, $2, $3, $4) RETURNING id`

	updateCustomerSQL = `UPDATE clientes SET nome = $2, telefone = $3, cpf = $4, endereco = $5
		WHERE id = $1`

	deleteCustomerSQL = `DELETE FROM clientes WHERE id = $1`
)

var _ customer.Repository = (*CustomerRepository)(nil)

// CustomerRepository implements customer.Repository backed by PostgreSQL.
type CustomerRepository struct {
	pool *pgxpool.Pool
}

// NewCustomerRepository returns a CustomerRepository that uses the given pool.
func NewCustomerRepository(pool *pgxpool.Pool) *CustomerRepository {
	return &CustomerRepository{pool: pool}
}

// List returns all customers ordered by ID.
func (r *CustomerRepository) List(ctx context.Context) ([]customer.Customer, error) {
	rows, err := conn(ctx, r.pool).Query(ctx, listCustomersSQL)
	if err != nil {
		return nil, fmt.Errorf("listing customers: %w", err)
	}
	return pgx.CollectRows(rows, scanCustomer)
}

// GetByID returns customer.ErrNotFound when no row matches.
func (r *CustomerRepository) GetByID(ctx context.Context, id int64) (*customer.Customer, error) {
	if !storableID(id) {
		return nil, customer.ErrNotFound
	}
	rows, err := conn(ctx, r.pool).Query(ctx, getCustomerByIDSQL, id)
	if err != nil {
		return nil, fmt.Errorf("getting customer %d: %w", id, err)
	}

	c, err := pgx.CollectExactlyOneRow(rows, scanCustomer)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, customer.ErrNotFound
		}
		return nil, fmt.Errorf("getting customer %d: %w", id, err)
	}
	return &c, nil
}

// Create inserts c and sets its ID. A taken CPF yields
// customer.ErrDuplicateCPF.
func (r *CustomerRepository) Create(ctx context.Context, c *customer.Customer) error {
	err := conn(ctx, r.pool).QueryRow(ctx, createCustomerSQL,
		c.Name, c.Phone, c.CPF, c.Address,
	).Scan(&c.ID)
	if err != nil {
		if pgCode(err) == codeUniqueViolation {
			return fmt.Errorf("creating customer: %w: %w", customer.ErrDuplicateCPF, err)
		}
		return fmt.Errorf("creating customer: %w", err)
	}
	return nil
}

// Update overwrites every column of the customer row.
func (r *CustomerRepository) Update(ctx context.Context, c *customer.Customer) error {
	if !storableID(c.ID) {
		return customer.ErrNotFound
	}
	tag, err := conn(ctx, r.pool).Exec(ctx, updateCustomerSQL,
		c.ID, c.Name, c.Phone, c.CPF, c.Address,
	)
	if err != nil {
		if pgCode(err) == codeUniqueViolation {
			return fmt.Errorf("updating customer %d: %w: %w", c.ID, customer.ErrDuplicateCPF, err)
		}
		return fmt.Errorf("updating customer %d: %w", c.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return customer.ErrNotFound
	}
	return nil
}

// Delete removes the customer; the schema cascades to orders and receipts.
func (r *CustomerRepository) Delete(ctx context.Context, id int64) error {
	if !storableID(id) {
		return customer.ErrNotFound
	}
	tag, err := conn(ctx, r.pool).Exec(ctx, deleteCustomerSQL, id)
	if err != nil {
		return fmt.Errorf("deleting customer %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return customer.ErrNotFound
	}
	return nil
}

func scanCustomer(row pgx.CollectableRow) (customer.Customer, error) {
	var c customer.Customer
	err := row.Scan(&c.ID, &c.Name, &c.Phone, &c.CPF, &c.Address)
	return c, err
}
