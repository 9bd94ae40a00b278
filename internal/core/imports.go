package core

import "time"

// Batch states move pending -> running -> done or failed. A batch is
// failed only when every file in it errored.
const (
	BatchPending = "pending"
	BatchRunning = "running"
	BatchDone    = "done"
	BatchFailed  = "failed"
)

// Per-file states within a batch.
const (
	FilePending = "pending"
	FileOK      = "ok"
	FileError   = "error"
)

// ImportBatch is one upload of register export files awaiting
// background processing.
type ImportBatch struct {
	ID          int64     `json:"id"`
	Dir         string    `json:"dir"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	CompletedAt time.Time `json:"completed_at"`
}

// ImportFile tracks one file inside a batch. SaleID is set when the
// file produced a draft sale.
type ImportFile struct {
	ID       int64  `json:"id"`
	BatchID  int64  `json:"batch_id"`
	Filename string `json:"filename"`
	Status   string `json:"status"`
	Message  string `json:"message"`
	SaleID   int64  `json:"sale_id,omitempty"`
}
