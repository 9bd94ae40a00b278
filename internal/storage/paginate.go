package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"forecourt/internal/listing"
)

// listSpec describes how one table maps onto the shared list-query
// contract. Sort fields and filter keys are whitelisted here; anything
// not in the maps is ignored rather than interpolated.
type listSpec struct {
	table       string
	columns     string
	sortable    map[string]string
	defaultSort string
	searchCols  []string
	dateCol     string
	filterCols  map[string]string
}

func (s listSpec) where(q listing.Query) (string, []any) {
	var conds []string
	var args []any

	if q.Search != "" && len(s.searchCols) > 0 {
		likes := make([]string, len(s.searchCols))
		for i, col := range s.searchCols {
			likes[i] = col + " LIKE ?"
			args = append(args, "%"+q.Search+"%")
		}
		conds = append(conds, "("+strings.Join(likes, " OR ")+")")
	}
	if s.dateCol != "" {
		if !q.StartDate.IsZero() {
			conds = append(conds, s.dateCol+" >= ?")
			args = append(args, q.StartDate.String())
		}
		if !q.EndDate.IsZero() {
			conds = append(conds, s.dateCol+" <= ?")
			args = append(args, q.EndDate.String())
		}
	}
	for key, col := range s.filterCols {
		if v := q.Filters[key]; v != "" {
			conds = append(conds, col+" = ?")
			args = append(args, v)
		}
	}

	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func (s listSpec) orderBy(q listing.Query) string {
	col, ok := s.sortable[q.SortField]
	if !ok {
		col = s.defaultSort
	}
	dir := "DESC"
	if q.SortDirection == listing.Ascending {
		dir = "ASC"
	}
	// Secondary id sort keeps pagination stable across equal keys
	return fmt.Sprintf(" ORDER BY %s %s, id %s", col, dir, dir)
}

// listRows runs the count plus page query for a spec and wraps the
// result in the standard envelope. A page request past the end is
// clamped onto the last page, matching what the envelope reports.
func listRows[T any](ctx context.Context, db *sql.DB, s listSpec, q listing.Query, scan func(*sql.Rows) (T, error)) (listing.Page[T], error) {
	where, args := s.where(q)

	var total int64
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+s.table+where, args...).Scan(&total); err != nil {
		return listing.Page[T]{}, fmt.Errorf("count %s: %w", s.table, err)
	}

	page := q.Page
	if last := listing.LastPageFor(total, q.PerPage); page > last {
		page = last
	}
	offset := (page - 1) * q.PerPage

	query := "SELECT " + s.columns + " FROM " + s.table + where + s.orderBy(q) + " LIMIT ? OFFSET ?"
	rows, err := db.QueryContext(ctx, query, append(args, q.PerPage, offset)...)
	if err != nil {
		return listing.Page[T]{}, fmt.Errorf("list %s: %w", s.table, err)
	}
	defer rows.Close()

	data := []T{}
	for rows.Next() {
		item, err := scan(rows)
		if err != nil {
			return listing.Page[T]{}, fmt.Errorf("scan %s: %w", s.table, err)
		}
		data = append(data, item)
	}
	if err := rows.Err(); err != nil {
		return listing.Page[T]{}, fmt.Errorf("iterate %s: %w", s.table, err)
	}

	return listing.NewPage(data, q, total), nil
}
