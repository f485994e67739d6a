package main

import (
	"context"
	"flag"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/go-faster/errors"

	"github.com/xenking/pizzaria/internal/domain/receipt"
	"github.com/xenking/pizzaria/internal/storage/postgres"
)

func main() {
	var (
		databaseURL string
		output      string
	)

	flag.StringVar(&databaseURL, "database-url", "", "PostgreSQL connection URL (or DATABASE_URL env)")
	flag.StringVar(&output, "output", "comprovantes.txt.gz", `archive path, "-" for stdout`)
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

	if err := run(ctx, databaseURL, output); err != nil {
		slog.Error("export failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(ctx context.Context, databaseURL, output string) error {
	pool, err := postgres.NewPool(ctx, databaseURL)
	if err != nil {
		return errors.Wrap(err, "connect to database")
	}
	defer pool.Close()

	repo := postgres.NewReceiptRepository(pool)

	if output == "-" {
		n, err := receipt.Export(ctx, repo, os.Stdout)
		if err != nil {
			return err
		}
		slog.Info("receipts exported", slog.Int("count", n))
		return nil
	}

	n, err := exportFile(ctx, repo, output)
	if err != nil {
		return err
	}
	slog.Info("receipts exported", slog.Int("count", n), slog.String("path", output))
	return nil
}

// exportFile writes the archive next to path and renames it into place, so
// an interrupted run never leaves a truncated archive behind.
func exportFile(ctx context.Context, repo receipt.Repository, path string) (int, error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*.tmp")
	if err != nil {
		return 0, errors.Wrap(err, "create temp file")
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	n, err := export(ctx, repo, tmp)
	if cerr := tmp.Close(); err == nil && cerr != nil {
		err = errors.Wrap(cerr, "close temp file")
	}
	if err != nil {
		return n, err
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return n, errors.Wrap(err, "rename archive")
	}
	return n, nil
}

func export(ctx context.Context, repo receipt.Repository, w io.Writer) (int, error) {
	n, err := receipt.Export(ctx, repo, w)
	if err != nil {
		return n, errors.Wrap(err, "export receipts")
	}
	return n, nil
}
