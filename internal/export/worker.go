package export

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"forecourt/internal/core"
	"forecourt/internal/storage"
)

// Worker pushes finalized daily sales into the configured destination.
// The nightly cron run exports the previous business day; drafts are
// skipped since the numbers may still change.
type Worker struct {
	storage *storage.SQLiteRepository
	writer  SaleWriter
}

func NewWorker(storage *storage.SQLiteRepository, writer SaleWriter) *Worker {
	return &Worker{storage: storage, writer: writer}
}

// RunDay exports the finalized sales of one business day.
func (w *Worker) RunDay(ctx context.Context, day core.Date) (int, error) {
	sales, err := w.storage.SalesBetween(ctx, day, day)
	if err != nil {
		return 0, fmt.Errorf("load sales for %s: %w", day, err)
	}

	final := sales[:0]
	for _, s := range sales {
		if s.Status == core.SaleFinal {
			final = append(final, s)
		}
	}
	if len(final) == 0 {
		slog.InfoContext(ctx, "No finalized sales to export", "date", day.String())
		return 0, nil
	}

	n, err := w.writer.AppendSales(ctx, final)
	if err != nil {
		return 0, fmt.Errorf("append sales: %w", err)
	}

	slog.InfoContext(ctx, "Exported daily sales",
		"date", day.String(),
		"rows", n)
	return n, nil
}

// RunYesterday is the nightly cron entry point.
func (w *Worker) RunYesterday(ctx context.Context) error {
	y := time.Now().UTC().AddDate(0, 0, -1)
	_, err := w.RunDay(ctx, core.NewDate(y.Year(), int(y.Month()), y.Day()))
	return err
}
