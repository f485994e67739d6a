package receipt

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/go-faster/errors"
	"github.com/klauspost/pgzip"
	"golang.org/x/sync/errgroup"
)

// exportBuffer bounds how many receipts are read ahead of the compressor.
const exportBuffer = 64

// Export writes every stored receipt into a gzip stream on w and returns the
// number of receipts written. Reading from the store and compressing run
// concurrently.
func Export(ctx context.Context, repo Repository, w io.Writer) (int, error) {
	zw := pgzip.NewWriter(w)
	zw.Name = "comprovantes.txt"
	zw.ModTime = time.Now()

	ch := make(chan Receipt, exportBuffer)
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		defer close(ch)
		return repo.Each(ctx, func(r Receipt) error {
			select {
			case ch <- r:
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		})
	})

	var written int
	g.Go(func() error {
		for r := range ch {
			if err := writeEntry(zw, r); err != nil {
				return errors.Wrapf(err, "write receipt %d", r.ID)
			}
			written++
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		_ = zw.Close()
		return written, err
	}
	if err := zw.Close(); err != nil {
		return written, errors.Wrap(err, "close gzip stream")
	}
	return written, nil
}

func writeEntry(w io.Writer, r Receipt) error {
	_, err := fmt.Fprintf(w, "### comprovante %d pedido %d gerado %s\n%s\n",
		r.ID, r.OrderID, r.GeneratedAt.UTC().Format(time.RFC3339), r.Content)
	return err
}
