package http

import (
	"fmt"
	"net/http"
	"strconv"

	"forecourt/internal/core"
	"forecourt/internal/export"
	"forecourt/internal/log"
	"forecourt/internal/reconcile"
)

// handleReconciliation serves the period-over-period sold report for one
// stock family. Results are cached per (family, days) until a snapshot
// or category mutation purges the cache.
func (s *Server) handleReconciliation(w http.ResponseWriter, r *http.Request) {
	family := core.StockFamily(r.URL.Query().Get("family"))
	if err := family.Validate(); err != nil {
		respondValidation(w, map[string][]string{
			"family": {"family must be lottery or smoke"},
		})
		return
	}

	days := reconcile.DefaultDays
	if raw := r.URL.Query().Get("days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			respondValidation(w, map[string][]string{
				"days": {"days must be a positive integer"},
			})
			return
		}
		days = parsed
	}

	key := fmt.Sprintf("%s:%d", family, days)
	if cached, ok := s.reports.Get(key); ok {
		respondJSON(w, http.StatusOK, reconciliationResponse{Family: family, Days: days, Report: cached})
		return
	}

	snapshots, err := s.store.SnapshotsByFamily(r.Context(), family)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	var order []string
	if family == core.FamilySmoke {
		order, err = s.store.CategoryOrder(r.Context(), family)
		if err != nil {
			respondDomainError(w, err)
			return
		}
	}

	report := reconcile.Report(family, snapshots, days, order)
	s.reports.Set(key, report)
	respondJSON(w, http.StatusOK, reconciliationResponse{Family: family, Days: days, Report: report})
}

type reconciliationResponse struct {
	Family core.StockFamily      `json:"family"`
	Days   int                   `json:"days"`
	Report []reconcile.DayReport `json:"report"`
}

// handleSalesWorkbook streams an xlsx of the sales inside an inclusive
// date range. Both bounds are required.
func (s *Server) handleSalesWorkbook(w http.ResponseWriter, r *http.Request) {
	start, err := core.ParseDate(r.URL.Query().Get("start_date"))
	if err != nil {
		respondValidation(w, map[string][]string{
			"start_date": {"start_date must be YYYY-MM-DD"},
		})
		return
	}
	end, err := core.ParseDate(r.URL.Query().Get("end_date"))
	if err != nil {
		respondValidation(w, map[string][]string{
			"end_date": {"end_date must be YYYY-MM-DD"},
		})
		return
	}
	if end.Time.Before(start.Time) {
		respondValidation(w, map[string][]string{
			"end_date": {"end_date must not precede start_date"},
		})
		return
	}

	sales, err := s.store.SalesBetween(r.Context(), start, end)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	workbook, err := export.SalesWorkbook(sales)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to build workbook")
		return
	}
	defer workbook.Close()

	filename := fmt.Sprintf("sales_%s_%s.xlsx", start, end)
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	if err := workbook.Write(w); err != nil {
		log.FromContext(r.Context()).Error("write workbook", "error", err)
	}
}
