package storage

import (
	"context"
	"database/sql"
	"fmt"

	"forecourt/internal/core"
)

// CreateBatch records a new upload and one pending row per file, in a
// single transaction so a half-written batch never becomes visible.
func (r *SQLiteRepository) CreateBatch(ctx context.Context, dir string, filenames []string) (core.ImportBatch, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return core.ImportBatch{}, fmt.Errorf("begin batch tx: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `INSERT INTO import_batches (dir, status) VALUES (?, ?)`,
		dir, core.BatchPending)
	if err != nil {
		return core.ImportBatch{}, fmt.Errorf("insert batch: %w", err)
	}
	batchID, err := res.LastInsertId()
	if err != nil {
		return core.ImportBatch{}, fmt.Errorf("last insert id: %w", err)
	}

	for _, name := range filenames {
		if _, err := tx.ExecContext(ctx, `INSERT INTO import_files (batch_id, filename, status) VALUES (?, ?, ?)`,
			batchID, name, core.FilePending); err != nil {
			return core.ImportBatch{}, fmt.Errorf("insert batch file: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return core.ImportBatch{}, fmt.Errorf("commit batch: %w", err)
	}
	return r.GetBatch(ctx, batchID)
}

func (r *SQLiteRepository) GetBatch(ctx context.Context, id int64) (core.ImportBatch, error) {
	row := r.db.QueryRowContext(ctx, `SELECT id, dir, status, created_at, completed_at
		FROM import_batches WHERE id = ?`, id)
	var b core.ImportBatch
	var completed sql.NullTime
	if err := row.Scan(&b.ID, &b.Dir, &b.Status, &b.CreatedAt, &completed); err != nil {
		return core.ImportBatch{}, mapErr(err)
	}
	if completed.Valid {
		b.CompletedAt = completed.Time
	}
	return b, nil
}

func (r *SQLiteRepository) BatchFiles(ctx context.Context, batchID int64) ([]core.ImportFile, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, batch_id, filename, status, message, sale_id
		FROM import_files WHERE batch_id = ? ORDER BY id`, batchID)
	if err != nil {
		return nil, fmt.Errorf("batch files: %w", err)
	}
	defer rows.Close()

	var files []core.ImportFile
	for rows.Next() {
		var f core.ImportFile
		if err := rows.Scan(&f.ID, &f.BatchID, &f.Filename, &f.Status, &f.Message, &f.SaleID); err != nil {
			return nil, fmt.Errorf("scan batch file: %w", err)
		}
		files = append(files, f)
	}
	return files, rows.Err()
}

// SetBatchStatus moves a batch through its lifecycle. Terminal states
// stamp completed_at.
func (r *SQLiteRepository) SetBatchStatus(ctx context.Context, id int64, status string) error {
	if status == core.BatchDone || status == core.BatchFailed {
		return affectedOrNotFound(r.db.ExecContext(ctx,
			`UPDATE import_batches SET status = ?, completed_at = CURRENT_TIMESTAMP WHERE id = ?`,
			status, id))
	}
	return affectedOrNotFound(r.db.ExecContext(ctx,
		`UPDATE import_batches SET status = ? WHERE id = ?`, status, id))
}

// SetFileResult records the outcome of processing one file.
func (r *SQLiteRepository) SetFileResult(ctx context.Context, fileID int64, status, message string, saleID int64) error {
	return affectedOrNotFound(r.db.ExecContext(ctx,
		`UPDATE import_files SET status = ?, message = ?, sale_id = ? WHERE id = ?`,
		status, message, saleID, fileID))
}
