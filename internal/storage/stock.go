package storage

import (
	"context"
	"database/sql"
	"fmt"

	"forecourt/internal/core"
	"forecourt/internal/listing"
)

var snapshotsSpec = listSpec{
	table:   "stock_snapshots",
	columns: "id, family, item_name, date, shift, start_qty, added_qty, end_qty",
	sortable: map[string]string{
		"date":     "date",
		"itemName": "item_name",
		"start":    "start_qty",
		"added":    "added_qty",
		"end":      "end_qty",
	},
	defaultSort: "date",
	searchCols:  []string{"item_name"},
	dateCol:     "date",
	filterCols:  map[string]string{"type": "family"},
}

var categoriesSpec = listSpec{
	table:   "stock_categories",
	columns: "id, family, name, position",
	sortable: map[string]string{
		"name":     "name",
		"position": "position",
	},
	defaultSort: "position",
	searchCols:  []string{"name"},
	filterCols:  map[string]string{"type": "family"},
}

func scanSnapshot(rows *sql.Rows) (core.StockSnapshot, error) {
	var s core.StockSnapshot
	var date string
	err := rows.Scan(&s.ID, &s.Family, &s.ItemName, &date, &s.Shift, &s.Start, &s.Added, &s.End)
	s.Date = parseStoredDate(date)
	return s, err
}

func scanCategory(rows *sql.Rows) (core.StockCategory, error) {
	var c core.StockCategory
	err := rows.Scan(&c.ID, &c.Family, &c.Name, &c.Position)
	return c, err
}

func (r *SQLiteRepository) ListSnapshots(ctx context.Context, q listing.Query) (listing.Page[core.StockSnapshot], error) {
	return listRows(ctx, r.db, snapshotsSpec, q, scanSnapshot)
}

func (r *SQLiteRepository) GetSnapshot(ctx context.Context, id int64) (core.StockSnapshot, error) {
	row := r.db.QueryRowContext(ctx, `SELECT id, family, item_name, date, shift, start_qty, added_qty, end_qty
		FROM stock_snapshots WHERE id = ?`, id)
	var s core.StockSnapshot
	var date string
	if err := row.Scan(&s.ID, &s.Family, &s.ItemName, &date, &s.Shift, &s.Start, &s.Added, &s.End); err != nil {
		return core.StockSnapshot{}, mapErr(err)
	}
	s.Date = parseStoredDate(date)
	return s, nil
}

func (r *SQLiteRepository) CreateSnapshot(ctx context.Context, s core.StockSnapshot) (core.StockSnapshot, error) {
	res, err := r.db.ExecContext(ctx, `INSERT INTO stock_snapshots
		(family, item_name, date, shift, start_qty, added_qty, end_qty)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		s.Family, s.ItemName, s.Date.String(), s.Shift, s.Start, s.Added, s.End)
	if err != nil {
		return core.StockSnapshot{}, mapErr(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return core.StockSnapshot{}, fmt.Errorf("last insert id: %w", err)
	}
	return r.GetSnapshot(ctx, id)
}

func (r *SQLiteRepository) UpdateSnapshot(ctx context.Context, s core.StockSnapshot) (core.StockSnapshot, error) {
	err := affectedOrNotFound(r.db.ExecContext(ctx, `UPDATE stock_snapshots SET
		family = ?, item_name = ?, date = ?, shift = ?, start_qty = ?, added_qty = ?, end_qty = ?
		WHERE id = ?`,
		s.Family, s.ItemName, s.Date.String(), s.Shift, s.Start, s.Added, s.End, s.ID))
	if err != nil {
		return core.StockSnapshot{}, err
	}
	return r.GetSnapshot(ctx, s.ID)
}

func (r *SQLiteRepository) DeleteSnapshot(ctx context.Context, id int64) error {
	return affectedOrNotFound(r.db.ExecContext(ctx, `DELETE FROM stock_snapshots WHERE id = ?`, id))
}

// SnapshotsByFamily returns every snapshot of one family, newest dates
// first. The reconciliation report windows the result itself.
func (r *SQLiteRepository) SnapshotsByFamily(ctx context.Context, family core.StockFamily) ([]core.StockSnapshot, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, family, item_name, date, shift, start_qty, added_qty, end_qty
		FROM stock_snapshots WHERE family = ? ORDER BY date DESC, item_name`, family)
	if err != nil {
		return nil, fmt.Errorf("snapshots by family: %w", err)
	}
	defer rows.Close()

	var snapshots []core.StockSnapshot
	for rows.Next() {
		s, err := scanSnapshot(rows)
		if err != nil {
			return nil, fmt.Errorf("scan snapshot: %w", err)
		}
		snapshots = append(snapshots, s)
	}
	return snapshots, rows.Err()
}

func (r *SQLiteRepository) ListCategories(ctx context.Context, q listing.Query) (listing.Page[core.StockCategory], error) {
	return listRows(ctx, r.db, categoriesSpec, q, scanCategory)
}

func (r *SQLiteRepository) GetCategory(ctx context.Context, id int64) (core.StockCategory, error) {
	row := r.db.QueryRowContext(ctx, `SELECT id, family, name, position FROM stock_categories WHERE id = ?`, id)
	var c core.StockCategory
	if err := row.Scan(&c.ID, &c.Family, &c.Name, &c.Position); err != nil {
		return core.StockCategory{}, mapErr(err)
	}
	return c, nil
}

func (r *SQLiteRepository) CreateCategory(ctx context.Context, c core.StockCategory) (core.StockCategory, error) {
	res, err := r.db.ExecContext(ctx, `INSERT INTO stock_categories (family, name, position) VALUES (?, ?, ?)`,
		c.Family, c.Name, c.Position)
	if err != nil {
		return core.StockCategory{}, mapErr(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return core.StockCategory{}, fmt.Errorf("last insert id: %w", err)
	}
	return r.GetCategory(ctx, id)
}

func (r *SQLiteRepository) UpdateCategory(ctx context.Context, c core.StockCategory) (core.StockCategory, error) {
	err := affectedOrNotFound(r.db.ExecContext(ctx, `UPDATE stock_categories SET
		family = ?, name = ?, position = ? WHERE id = ?`,
		c.Family, c.Name, c.Position, c.ID))
	if err != nil {
		return core.StockCategory{}, err
	}
	return r.GetCategory(ctx, c.ID)
}

func (r *SQLiteRepository) DeleteCategory(ctx context.Context, id int64) error {
	return affectedOrNotFound(r.db.ExecContext(ctx, `DELETE FROM stock_categories WHERE id = ?`, id))
}

// CategoryOrder returns the user-maintained item ordering for a family,
// lowest position first.
func (r *SQLiteRepository) CategoryOrder(ctx context.Context, family core.StockFamily) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT name FROM stock_categories
		WHERE family = ? ORDER BY position, name`, family)
	if err != nil {
		return nil, fmt.Errorf("category order: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan category name: %w", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}
