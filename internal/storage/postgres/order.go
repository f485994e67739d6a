package postgres

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/xenking/pizzaria/internal/domain/customer"
	"github.com/xenking/pizzaria/internal/domain/order"
)

const (
	createOrderSQL = `INSERT INTO pedidos (id_cliente, itens, total, desconto)
		VALUES ($1, $2, $3, $4)
		RETURNING id, total, desconto, status, data`

	getOrderByIDSQL = `SELECT id, id_cliente, itens, total, desconto, status, data
		FROM pedidos WHERE id = $1`

	listOrdersByCustomerSQL = `SELECT id, id_cliente, itens, total, desconto, status, data
		FROM pedidos WHERE id_cliente = $1 ORDER BY data DESC, id DESC`

	listOrdersSQL = `SELECT p.id, p.id_cliente, p.itens, p.total, p.desconto, p.status, p.data,
			c.nome, c.cpf, COALESCE(c.endereco, '')
		FROM pedidos p
		JOIN clientes c ON c.id = p.id_cliente
		ORDER BY p.id`
)

var _ order.Repository = (*OrderRepository)(nil)

// OrderRepository implements order.Repository backed by PostgreSQL.
type OrderRepository struct {
	pool *pgxpool.Pool
}

// NewOrderRepository returns an OrderRepository that uses the given pool.
func NewOrderRepository(pool *pgxpool.Pool) *OrderRepository {
	return &OrderRepository{pool: pool}
}

// Create persists a new order. The stored amounts, rounded by the NUMERIC
// columns, are written back to o along with the generated fields.
func (r *OrderRepository) Create(ctx context.Context, o *order.Order) error {
	if !storableID(o.CustomerID) {
		return fmt.Errorf("creating order for customer %d: %w", o.CustomerID, customer.ErrNotFound)
	}
	err := conn(ctx, r.pool).QueryRow(ctx, createOrderSQL,
		o.CustomerID, o.Items, o.Total, o.Discount,
	).Scan(&o.ID, &o.Total, &o.Discount, &o.Status, &o.CreatedAt)
	if err != nil {
		if pgCode(err) == codeForeignKeyViolation {
			return fmt.Errorf("creating order for customer %d: %w: %w", o.CustomerID, customer.ErrNotFound, err)
		}
		return fmt.Errorf("creating order for customer %d: %w", o.CustomerID, err)
	}
	return nil
}

// GetByID returns order.ErrNotFound when no row matches.
func (r *OrderRepository) GetByID(ctx context.Context, id int64) (*order.Order, error) {
	if !storableID(id) {
		return nil, order.ErrNotFound
	}
	rows, err := conn(ctx, r.pool).Query(ctx, getOrderByIDSQL, id)
	if err != nil {
		return nil, fmt.Errorf("getting order %d: %w", id, err)
	}

	o, err := pgx.CollectExactlyOneRow(rows, scanOrder)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, order.ErrNotFound
		}
		return nil, fmt.Errorf("getting order %d: %w", id, err)
	}
	return &o, nil
}

// ListByCustomer returns the customer's orders, newest first.
func (r *OrderRepository) ListByCustomer(ctx context.Context, customerID int64) ([]order.Order, error) {
	if !storableID(customerID) {
		return []order.Order{}, nil
	}
	rows, err := conn(ctx, r.pool).Query(ctx, listOrdersByCustomerSQL, customerID)
	if err != nil {
		return nil, fmt.Errorf("listing orders of customer %d: %w", customerID, err)
	}
	return pgx.CollectRows(rows, scanOrder)
}

// List returns every order joined with its customer, in ID order.
func (r *OrderRepository) List(ctx context.Context) ([]order.Summary, error) {
	rows, err := conn(ctx, r.pool).Query(ctx, listOrdersSQL)
	if err != nil {
		return nil, fmt.Errorf("listing orders: %w", err)
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (order.Summary, error) {
		var s order.Summary
		err := row.Scan(
			&s.ID, &s.CustomerID, &s.Items, &s.Total, &s.Discount, &s.Status, &s.CreatedAt,
			&s.CustomerName, &s.CustomerCPF, &s.CustomerAddress,
		)
		return s, err
	})
}

func scanOrder(row pgx.CollectableRow) (order.Order, error) {
	var o order.Order
	err := row.Scan(&o.ID, &o.CustomerID, &o.Items, &o.Total, &o.Discount, &o.Status, &o.CreatedAt)
	return o, err
}
