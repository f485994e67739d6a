package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"github.com/shopspring/decimal"

	"github.com/xenking/pizzaria/internal/domain/product"
	"github.com/xenking/pizzaria/internal/storage/postgres"
)

func main() {
	var (
		databaseURL  string
		productsFile string
	)

	flag.StringVar(&databaseURL, "database-url", "", "PostgreSQL connection URL (or DATABASE_URL env)")
	flag.StringVar(&productsFile, "products-file", "db/seed/products.json", "path to products JSON file")
	flag.Parse()

	if databaseURL == "" {
		databaseURL = os.Getenv("DATABASE_URL")
	}
	if databaseURL == "" {
		slog.Error("database URL is required: set --database-url or DATABASE_URL")
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := run(ctx, databaseURL, productsFile); err != nil {
		slog.Error("seed failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.Info("seed completed successfully")
}

func run(ctx context.Context, databaseURL, productsFile string) error {
	slog.Info("connecting to database")

	pool, err := postgres.NewPool(ctx, databaseURL)
	if err != nil {
		return errors.Wrap(err, "connect to database")
	}
	defer pool.Close()

	slog.Info("running migrations")

	if err := postgres.RunMigrations(ctx, pool); err != nil {
		return errors.Wrap(err, "run migrations")
	}

	slog.Info("reading products file", slog.String("path", productsFile))

	data, err := os.ReadFile(productsFile)
	if err != nil {
		return errors.Wrap(err, "read products file")
	}
	products, err := parseProducts(data)
	if err != nil {
		return errors.Wrap(err, "parse products JSON")
	}

	repo := postgres.NewProductRepository(pool)
	n, err := seedProducts(ctx, repo, products)
	if err != nil {
		return errors.Wrap(err, "seed products")
	}
	slog.Info("products seeded", slog.Int("inserted", n), slog.Int("total", len(products)))
	return nil
}

// parseProducts reads [{"nome": ..., "preco": ...}, ...].
func parseProducts(data []byte) ([]product.Product, error) {
	var products []product.Product
	err := jx.DecodeBytes(data).Arr(func(d *jx.Decoder) error {
		var p product.Product
		if err := d.Obj(func(d *jx.Decoder, key string) error {
			switch key {
			case "nome":
				v, err := d.Str()
				p.Name = v
				return err
			case "preco":
				n, err := d.Num()
				if err != nil {
					return err
				}
				p.Price, err = decimal.NewFromString(n.String())
				return err
			default:
				return d.Skip()
			}
		}); err != nil {
			return err
		}
		if err := p.Validate(); err != nil {
			return errors.Wrapf(err, "product %q", p.Name)
		}
		products = append(products, p)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return products, nil
}

// seedProducts inserts the products whose name is not in the catalog yet,
// so running the seed twice does not duplicate the menu.
func seedProducts(ctx context.Context, repo product.Repository, products []product.Product) (int, error) {
	existing, err := repo.List(ctx)
	if err != nil {
		return 0, errors.Wrap(err, "list products")
	}
	have := make(map[string]struct{}, len(existing))
	for _, p := range existing {
		have[strings.ToLower(p.Name)] = struct{}{}
	}

	inserted := 0
	for _, p := range products {
		if _, ok := have[strings.ToLower(p.Name)]; ok {
			slog.Info("skipped existing product", slog.String("name", p.Name))
			continue
		}
		if err := repo.Create(ctx, &p); err != nil {
			return inserted, errors.Wrapf(err, "create product %q", p.Name)
		}
		have[strings.ToLower(p.Name)] = struct{}{}
		inserted++

		slog.Info("inserted product", slog.Int64("id", p.ID), slog.String("name", p.Name))
	}
	return inserted, nil
}
