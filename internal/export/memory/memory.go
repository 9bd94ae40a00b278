// Package memory is the in-process stand-in for the Google Sheets
// writer, used in tests and when the export is not configured.
package memory

import (
	"context"
	"sync"

	"forecourt/internal/core"
)

type Store struct {
	mu    sync.Mutex
	sales []core.DailySale
}

func New() *Store {
	return &Store{}
}

// AppendSales records the rows that would have been written.
func (s *Store) AppendSales(_ context.Context, sales []core.DailySale) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sales = append(s.sales, sales...)
	return len(sales), nil
}

// Sales returns a copy of everything appended so far.
func (s *Store) Sales() []core.DailySale {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.DailySale(nil), s.sales...)
}
