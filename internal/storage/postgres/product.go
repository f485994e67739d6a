package postgres

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/xenking/pizzaria/internal/domain/product"
)

const (
	listProductsSQL = `SELECT id, nome, preco FROM produtos ORDER BY id`

	getProductByIDSQL = `SELECT id, nome, preco FROM produtos WHERE id = $1`

	getProductsByIDsSQL = `SELECT id, nome, preco FROM produtos WHERE id = ANY($1)`

	createProductSQL = `INSERT INTO produtos (nome, preco) VALUES ($1, $2) RETURNING id, preco`

	deleteProductSQL = `DELETE FROM produtos WHERE id = $1`
)

var _ product.Repository = (*ProductRepository)(nil)

// ProductRepository implements product.Repository backed by PostgreSQL.
type ProductRepository struct {
	pool *pgxpool.Pool
}

// NewProductRepository returns a ProductRepository that uses the given pool.
func NewProductRepository(pool *pgxpool.Pool) *ProductRepository {
	return &ProductRepository{pool: pool}
}

// List returns all products from the catalog ordered by ID.
func (r *ProductRepository) List(ctx context.Context) ([]product.Product, error) {
	rows, err := conn(ctx, r.pool).Query(ctx, listProductsSQL)
	if err != nil {
		return nil, fmt.Errorf("listing products: %w", err)
	}
	return pgx.CollectRows(rows, scanProduct)
}

// GetByID returns a single product by its identifier.
func (r *ProductRepository) GetByID(ctx context.Context, id int64) (*product.Product, error) {
	if !storableID(id) {
		return nil, product.ErrNotFound
	}
	rows, err := conn(ctx, r.pool).Query(ctx, getProductByIDSQL, id)
	if err != nil {
		return nil, fmt.Errorf("getting product %d: %w", id, err)
	}

	p, err := pgx.CollectExactlyOneRow(rows, scanProduct)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, product.ErrNotFound
		}
		return nil, fmt.Errorf("getting product %d: %w", id, err)
	}
	return &p, nil
}

// GetByIDs returns products matching any of the given IDs. Unknown IDs are
// simply absent from the result.
func (r *ProductRepository) GetByIDs(ctx context.Context, ids []int64) ([]product.Product, error) {
	keys := make([]int64, 0, len(ids))
	for _, id := range ids {
		if storableID(id) {
			keys = append(keys, id)
		}
	}
	if len(keys) == 0 {
		return nil, nil
	}
	rows, err := conn(ctx, r.pool).Query(ctx, getProductsByIDsSQL, keys)
	if err != nil {
		return nil, fmt.Errorf("getting products by ids: %w", err)
	}
	return pgx.CollectRows(rows, scanProduct)
}

// Create inserts p, setting its ID and the price as stored.
func (r *ProductRepository) Create(ctx context.Context, p *product.Product) error {
	err := conn(ctx, r.pool).QueryRow(ctx, createProductSQL, p.Name, p.Price).Scan(&p.ID, &p.Price)
	if err != nil {
		return fmt.Errorf("creating product: %w", err)
	}
	return nil
}

// Delete removes a product. Orders keep their raw item encoding.
func (r *ProductRepository) Delete(ctx context.Context, id int64) error {
	if !storableID(id) {
		return product.ErrNotFound
	}
	tag, err := conn(ctx, r.pool).Exec(ctx, deleteProductSQL, id)
	if err != nil {
		return fmt.Errorf("deleting product %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return product.ErrNotFound
	}
	return nil
}

func scanProduct(row pgx.CollectableRow) (product.Product, error) {
	var (
		p     product.Product
		price decimal.Decimal
	)
	err := row.Scan(&p.ID, &p.Name, &price)
	p.Price = price
	return p, err
}
