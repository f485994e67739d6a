package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/xenking/pizzaria/internal/domain/report"
)

// Both windows use the database clock so the API and the console agree.
const salesSQL = `SELECT
		COUNT(*) FILTER (WHERE data >= date_trunc('day', now())),
		COALESCE(SUM(total) FILTER (WHERE data >= date_trunc('day', now())), 0),
		COUNT(*) FILTER (WHERE data >= date_trunc('month', now())),
		COALESCE(SUM(total) FILTER (WHERE data >= date_trunc('month', now())), 0)
	FROM pedidos`

var _ report.Repository = (*ReportRepository)(nil)

// ReportRepository implements report.Repository backed by PostgreSQL.
type ReportRepository struct {
	pool *pgxpool.Pool
}

// NewReportRepository returns a ReportRepository that uses the given pool.
func NewReportRepository(pool *pgxpool.Pool) *ReportRepository {
	return &ReportRepository{pool: pool}
}

// Sales returns order counts and revenue for today and the current month.
func (r *ReportRepository) Sales(ctx context.Context) (*report.Sales, error) {
	var s report.Sales
	err := conn(ctx, r.pool).QueryRow(ctx, salesSQL).Scan(
		&s.Today.Orders, &s.Today.Total,
		&s.Month.Orders, &s.Month.Total,
	)
	if err != nil {
		return nil, fmt.Errorf("computing sales report: %w", err)
	}
	return &s, nil
}
