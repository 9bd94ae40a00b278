package storage

import (
	"context"
	"database/sql"
	"fmt"

	"forecourt/internal/core"
	"forecourt/internal/listing"
)

var fuelsSpec = listSpec{
	table:   "fuel_deliveries",
	columns: "id, date, grade, gallons, unit_cost_cents, vendor",
	sortable: map[string]string{
		"date":     "date",
		"grade":    "grade",
		"gallons":  "gallons",
		"unitCost": "unit_cost_cents",
		"vendor":   "vendor",
	},
	defaultSort: "date",
	searchCols:  []string{"grade", "vendor"},
	dateCol:     "date",
	filterCols:  map[string]string{"vendor": "vendor"},
}

func scanFuel(rows *sql.Rows) (core.FuelDelivery, error) {
	var f core.FuelDelivery
	var date string
	err := rows.Scan(&f.ID, &date, &f.Grade, &f.Gallons, &f.UnitCost.Cents, &f.Vendor)
	f.Date = parseStoredDate(date)
	return f, err
}

func (r *SQLiteRepository) ListFuels(ctx context.Context, q listing.Query) (listing.Page[core.FuelDelivery], error) {
	return listRows(ctx, r.db, fuelsSpec, q, scanFuel)
}

func (r *SQLiteRepository) GetFuel(ctx context.Context, id int64) (core.FuelDelivery, error) {
	row := r.db.QueryRowContext(ctx, `SELECT id, date, grade, gallons, unit_cost_cents, vendor
		FROM fuel_deliveries WHERE id = ?`, id)
	var f core.FuelDelivery
	var date string
	if err := row.Scan(&f.ID, &date, &f.Grade, &f.Gallons, &f.UnitCost.Cents, &f.Vendor); err != nil {
		return core.FuelDelivery{}, mapErr(err)
	}
	f.Date = parseStoredDate(date)
	return f, nil
}

func (r *SQLiteRepository) CreateFuel(ctx context.Context, f core.FuelDelivery) (core.FuelDelivery, error) {
	res, err := r.db.ExecContext(ctx, `INSERT INTO fuel_deliveries
		(date, grade, gallons, unit_cost_cents, vendor) VALUES (?, ?, ?, ?, ?)`,
		f.Date.String(), f.Grade, f.Gallons, f.UnitCost.Cents, f.Vendor)
	if err != nil {
		return core.FuelDelivery{}, mapErr(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return core.FuelDelivery{}, fmt.Errorf("last insert id: %w", err)
	}
	return r.GetFuel(ctx, id)
}

func (r *SQLiteRepository) UpdateFuel(ctx context.Context, f core.FuelDelivery) (core.FuelDelivery, error) {
	err := affectedOrNotFound(r.db.ExecContext(ctx, `UPDATE fuel_deliveries SET
		date = ?, grade = ?, gallons = ?, unit_cost_cents = ?, vendor = ? WHERE id = ?`,
		f.Date.String(), f.Grade, f.Gallons, f.UnitCost.Cents, f.Vendor, f.ID))
	if err != nil {
		return core.FuelDelivery{}, err
	}
	return r.GetFuel(ctx, f.ID)
}

func (r *SQLiteRepository) DeleteFuel(ctx context.Context, id int64) error {
	return affectedOrNotFound(r.db.ExecContext(ctx, `DELETE FROM fuel_deliveries WHERE id = ?`, id))
}
