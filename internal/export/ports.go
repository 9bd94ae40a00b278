// Package export renders daily-sales reports for destinations outside
// the API: a Google Sheet the owner's accountant reads, and xlsx
// downloads. Outbound destinations are ports so the worker can run
// against an in-memory stand-in.
package export

import (
	"context"

	"forecourt/internal/core"
)

// SaleWriter appends finalized daily sales to a report destination and
// reports how many rows were written.
type SaleWriter interface {
	AppendSales(ctx context.Context, sales []core.DailySale) (int, error)
}
