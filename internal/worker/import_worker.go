// Package worker turns uploaded register close files into draft daily
// sales. It consumes batch jobs from the queue, parses every file in
// the batch concurrently and aggregates the totals into one draft per
// business day.
package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"forecourt/internal/amqp"
	"forecourt/internal/core"
	"forecourt/internal/sft"
	"forecourt/internal/storage"
)

const defaultConcurrency = 4

type ImportWorker struct {
	storage     *storage.SQLiteRepository
	concurrency int
}

func NewImportWorker(storage *storage.SQLiteRepository, concurrency int) *ImportWorker {
	if concurrency <= 0 {
		concurrency = defaultConcurrency
	}
	return &ImportWorker{storage: storage, concurrency: concurrency}
}

type fileResult struct {
	totals sft.Totals
	err    error
}

// HandleImportJob processes one batch job. Errors wrapped with
// amqp.ErrDrop are permanent and must not be requeued; plain errors are
// transient storage failures and the delivery comes back.
func (w *ImportWorker) HandleImportJob(ctx context.Context, msg *amqp.ImportJobMessage) error {
	date, err := core.ParseDate(msg.Date)
	if err != nil {
		return fmt.Errorf("%w: bad batch date %q", amqp.ErrDrop, msg.Date)
	}

	batch, err := w.storage.GetBatch(ctx, msg.BatchID)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return fmt.Errorf("%w: unknown batch %d", amqp.ErrDrop, msg.BatchID)
		}
		return fmt.Errorf("load batch %d: %w", msg.BatchID, err)
	}

	files, err := w.storage.BatchFiles(ctx, batch.ID)
	if err != nil {
		return fmt.Errorf("load batch files: %w", err)
	}
	if len(files) == 0 {
		slog.WarnContext(ctx, "Batch has no files", "batch_id", batch.ID)
		return fmt.Errorf("%w: batch %d has no files", amqp.ErrDrop, batch.ID)
	}

	if err := w.storage.SetBatchStatus(ctx, batch.ID, core.BatchRunning); err != nil {
		return fmt.Errorf("mark batch running: %w", err)
	}

	// Parse every file concurrently. Per-file failures land in the
	// result slot; only context cancellation aborts the group.
	results := make([]fileResult, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(w.concurrency)
	for i, f := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = parseFile(filepath.Join(batch.Dir, f.Filename))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return fmt.Errorf("parse batch files: %w", err)
	}

	var totals sft.Totals
	okCount := 0
	for i := range results {
		if results[i].err == nil {
			totals = totals.Add(results[i].totals)
			okCount++
		}
	}

	saleID := int64(0)
	if okCount > 0 {
		saleID, err = w.upsertDraft(ctx, totals.Sale(date))
		if err != nil {
			if errors.Is(err, errDayFinalized) {
				// The day was closed by hand; retrying cannot help.
				for i := range results {
					if results[i].err == nil {
						results[i].err = errDayFinalized
					}
				}
				okCount = 0
				saleID = 0
			} else {
				return fmt.Errorf("store draft sale: %w", err)
			}
		}
	}

	for i, f := range files {
		status, message, id := core.FileOK, "", saleID
		if results[i].err != nil {
			status, message, id = core.FileError, results[i].err.Error(), 0
		}
		if err := w.storage.SetFileResult(ctx, f.ID, status, message, id); err != nil {
			return fmt.Errorf("record file result: %w", err)
		}
	}

	batchStatus := core.BatchDone
	if okCount == 0 {
		batchStatus = core.BatchFailed
	}
	if err := w.storage.SetBatchStatus(ctx, batch.ID, batchStatus); err != nil {
		return fmt.Errorf("mark batch %s: %w", batchStatus, err)
	}

	slog.InfoContext(ctx, "Import batch processed",
		"batch_id", batch.ID,
		"date", msg.Date,
		"files", len(files),
		"ok", okCount,
		"sale_id", saleID,
		"status", batchStatus)

	return nil
}

var errDayFinalized = errors.New("a finalized sale already exists for this date")

// upsertDraft creates the draft sale, or replaces the totals of an
// existing draft so reprocessing a batch stays idempotent.
func (w *ImportWorker) upsertDraft(ctx context.Context, sale core.DailySale) (int64, error) {
	existing, err := w.storage.GetSaleByDate(ctx, sale.Date)
	switch {
	case err == nil:
		if existing.Status == core.SaleFinal {
			return 0, errDayFinalized
		}
		sale.ID = existing.ID
		sale.Notes = existing.Notes
		updated, err := w.storage.UpdateSale(ctx, sale)
		if err != nil {
			return 0, err
		}
		return updated.ID, nil
	case errors.Is(err, core.ErrNotFound):
		created, err := w.storage.CreateSale(ctx, sale)
		if err != nil {
			return 0, err
		}
		return created.ID, nil
	default:
		return 0, err
	}
}

func parseFile(path string) fileResult {
	f, err := os.Open(path)
	if err != nil {
		return fileResult{err: fmt.Errorf("open file: %w", err)}
	}
	defer f.Close()

	totals, err := sft.Parse(f)
	if err != nil {
		return fileResult{err: err}
	}
	return fileResult{totals: totals}
}
