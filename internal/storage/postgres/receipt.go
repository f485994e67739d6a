package postgres

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/xenking/pizzaria/internal/domain/order"
	"github.com/xenking/pizzaria/internal/domain/receipt"
)

const (
	createReceiptSQL = `INSERT INTO comprovantes (id_pedido, conteudo, data_geracao)
		VALUES ($1, $2, $3) RETURNING id`

	getReceiptByOrderIDSQL = `SELECT id, id_pedido, conteudo, data_geracao
		FROM comprovantes WHERE id_pedido = $1`

	listReceiptsSQL = `SELECT id, id_pedido, conteudo, data_geracao
		FROM comprovantes ORDER BY id`
)

var _ receipt.Repository = (*ReceiptRepository)(nil)

// ReceiptRepository implements receipt.Repository backed by PostgreSQL.
type ReceiptRepository struct {
	pool *pgxpool.Pool
}

// NewReceiptRepository returns a ReceiptRepository that uses the given pool.
func NewReceiptRepository(pool *pgxpool.Pool) *ReceiptRepository {
	return &ReceiptRepository{pool: pool}
}

// Create inserts r and sets its ID. A missing order yields
// order.ErrNotFound.
func (r *ReceiptRepository) Create(ctx context.Context, rc *receipt.Receipt) error {
	if !storableID(rc.OrderID) {
		return fmt.Errorf("creating receipt for order %d: %w", rc.OrderID, order.ErrNotFound)
	}
	err := conn(ctx, r.pool).QueryRow(ctx, createReceiptSQL,
		rc.OrderID, rc.Content, rc.GeneratedAt,
	).Scan(&rc.ID)
	if err != nil {
		if pgCode(err) == codeForeignKeyViolation {
			return fmt.Errorf("creating receipt for order %d: %w: %w", rc.OrderID, order.ErrNotFound, err)
		}
		return fmt.Errorf("creating receipt for order %d: %w", rc.OrderID, err)
	}
	return nil
}

// GetByOrderID returns receipt.ErrNotFound when the order has no receipt.
func (r *ReceiptRepository) GetByOrderID(ctx context.Context, orderID int64) (*receipt.Receipt, error) {
	if !storableID(orderID) {
		return nil, receipt.ErrNotFound
	}
	rows, err := conn(ctx, r.pool).Query(ctx, getReceiptByOrderIDSQL, orderID)
	if err != nil {
		return nil, fmt.Errorf("getting receipt of order %d: %w", orderID, err)
	}

	rc, err := pgx.CollectExactlyOneRow(rows, scanReceipt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, receipt.ErrNotFound
		}
		return nil, fmt.Errorf("getting receipt of order %d: %w", orderID, err)
	}
	return &rc, nil
}

// Each streams receipts in ID order without loading them all in memory.
func (r *ReceiptRepository) Each(ctx context.Context, fn func(receipt.Receipt) error) error {
	rows, err := conn(ctx, r.pool).Query(ctx, listReceiptsSQL)
	if err != nil {
		return fmt.Errorf("listing receipts: %w", err)
	}
	var rc receipt.Receipt
	_, err = pgx.ForEachRow(rows, []any{&rc.ID, &rc.OrderID, &rc.Content, &rc.GeneratedAt}, func() error {
		return fn(rc)
	})
	if err != nil {
		return fmt.Errorf("listing receipts: %w", err)
	}
	return nil
}

func scanReceipt(row pgx.CollectableRow) (receipt.Receipt, error) {
	var rc receipt.Receipt
	err := row.Scan(&rc.ID, &rc.OrderID, &rc.Content, &rc.GeneratedAt)
	return rc, err
}
