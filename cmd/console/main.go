// Command console runs the interactive pizzeria menu against the same
// database as the API server.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/xenking/pizzaria/internal/app"
	"github.com/xenking/pizzaria/internal/console"
	"github.com/xenking/pizzaria/internal/domain/order"
	"github.com/xenking/pizzaria/internal/domain/receipt"
	"github.com/xenking/pizzaria/internal/storage/postgres"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "console: %+v\n", err)
		os.Exit(1)
	}
}

// newLogger keeps stdout for the menu; only warnings and errors reach stderr.
func newLogger() (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	cfg.OutputPaths = []string{"stderr"}
	cfg.Encoding = "console"
	return cfg.Build()
}

func run(ctx context.Context) error {
	lg, err := newLogger()
	if err != nil {
		return errors.Wrap(err, "create logger")
	}
	defer func() { _ = lg.Sync() }()
	ctx = zctx.Base(ctx, lg)

	cfg, err := app.LoadConfig()
	if err != nil {
		return err
	}
	rule, err := cfg.DiscountRule()
	if err != nil {
		return errors.Wrap(err, "discount rule")
	}
	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		return errors.Wrap(err, "connect to database")
	}
	defer pool.Close()

	if err := postgres.RunMigrations(ctx, pool); err != nil {
		return errors.Wrap(err, "run migrations")
	}

	customers := postgres.NewCustomerRepository(pool)
	products := postgres.NewProductRepository(pool)
	orders := postgres.NewOrderRepository(pool)

	svc := order.NewService(order.Repositories{
		Customers: customers,
		Products:  products,
		Orders:    orders,
		Receipts:  postgres.NewReceiptRepository(pool),
		Tx:        postgres.NewTransactor(pool),
	}, rule, receipt.NewRenderer(cfg.Receipt.StoreName, loc))

	c := console.New(os.Stdin, os.Stdout, console.Deps{
		Customers: customers,
		Products:  products,
		Orders:    orders,
		Reports:   postgres.NewReportRepository(pool),
		Placer:    svc,
		Location:  loc,
	})
	if err := c.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return errors.Wrap(err, "console")
	}
	return nil
}
