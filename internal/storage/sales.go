package storage

import (
	"context"
	"database/sql"
	"fmt"

	"forecourt/internal/core"
	"forecourt/internal/listing"
)

var salesSpec = listSpec{
	table: "daily_sales",
	columns: "id, date, fuel_gallons, fuel_revenue_cents, inside_sales_cents, " +
		"lottery_sales_cents, lottery_paid_cents, tax_cents, card_total_cents, " +
		"cash_total_cents, notes, status, created_at",
	sortable: map[string]string{
		"date":        "date",
		"fuelRevenue": "fuel_revenue_cents",
		"insideSales": "inside_sales_cents",
		"cardTotal":   "card_total_cents",
		"cashTotal":   "cash_total_cents",
	},
	defaultSort: "date",
	searchCols:  []string{"notes"},
	dateCol:     "date",
	filterCols:  map[string]string{"status": "status"},
}

func scanSale(rows *sql.Rows) (core.DailySale, error) {
	var s core.DailySale
	var date string
	err := rows.Scan(&s.ID, &date, &s.FuelGallons, &s.FuelRevenue.Cents,
		&s.InsideSales.Cents, &s.LotterySales.Cents, &s.LotteryPaid.Cents,
		&s.Tax.Cents, &s.CardTotal.Cents, &s.CashTotal.Cents,
		&s.Notes, &s.Status, &s.CreatedAt)
	s.Date = parseStoredDate(date)
	return s, err
}

func (r *SQLiteRepository) ListSales(ctx context.Context, q listing.Query) (listing.Page[core.DailySale], error) {
	return listRows(ctx, r.db, salesSpec, q, scanSale)
}

func (r *SQLiteRepository) GetSale(ctx context.Context, id int64) (core.DailySale, error) {
	row := r.db.QueryRowContext(ctx, `SELECT id, date, fuel_gallons, fuel_revenue_cents,
		inside_sales_cents, lottery_sales_cents, lottery_paid_cents, tax_cents,
		card_total_cents, cash_total_cents, notes, status, created_at
		FROM daily_sales WHERE id = ?`, id)

	var s core.DailySale
	var date string
	err := row.Scan(&s.ID, &date, &s.FuelGallons, &s.FuelRevenue.Cents,
		&s.InsideSales.Cents, &s.LotterySales.Cents, &s.LotteryPaid.Cents,
		&s.Tax.Cents, &s.CardTotal.Cents, &s.CashTotal.Cents,
		&s.Notes, &s.Status, &s.CreatedAt)
	if err != nil {
		return core.DailySale{}, mapErr(err)
	}
	s.Date = parseStoredDate(date)
	return s, nil
}

// GetSaleByDate looks a sale up by its business date. Used by the
// import worker to avoid duplicating a day that was entered by hand.
func (r *SQLiteRepository) GetSaleByDate(ctx context.Context, date core.Date) (core.DailySale, error) {
	row := r.db.QueryRowContext(ctx, `SELECT id FROM daily_sales WHERE date = ?`, date.String())
	var id int64
	if err := row.Scan(&id); err != nil {
		return core.DailySale{}, mapErr(err)
	}
	return r.GetSale(ctx, id)
}

func (r *SQLiteRepository) CreateSale(ctx context.Context, s core.DailySale) (core.DailySale, error) {
	res, err := r.db.ExecContext(ctx, `INSERT INTO daily_sales
		(date, fuel_gallons, fuel_revenue_cents, inside_sales_cents,
		 lottery_sales_cents, lottery_paid_cents, tax_cents,
		 card_total_cents, cash_total_cents, notes, status)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		s.Date.String(), s.FuelGallons, s.FuelRevenue.Cents, s.InsideSales.Cents,
		s.LotterySales.Cents, s.LotteryPaid.Cents, s.Tax.Cents,
		s.CardTotal.Cents, s.CashTotal.Cents, s.Notes, s.Status)
	if err != nil {
		return core.DailySale{}, mapErr(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return core.DailySale{}, fmt.Errorf("last insert id: %w", err)
	}
	return r.GetSale(ctx, id)
}

func (r *SQLiteRepository) UpdateSale(ctx context.Context, s core.DailySale) (core.DailySale, error) {
	err := affectedOrNotFound(r.db.ExecContext(ctx, `UPDATE daily_sales SET
		date = ?, fuel_gallons = ?, fuel_revenue_cents = ?, inside_sales_cents = ?,
		lottery_sales_cents = ?, lottery_paid_cents = ?, tax_cents = ?,
		card_total_cents = ?, cash_total_cents = ?, notes = ?, status = ?
		WHERE id = ?`,
		s.Date.String(), s.FuelGallons, s.FuelRevenue.Cents, s.InsideSales.Cents,
		s.LotterySales.Cents, s.LotteryPaid.Cents, s.Tax.Cents,
		s.CardTotal.Cents, s.CashTotal.Cents, s.Notes, s.Status, s.ID))
	if err != nil {
		return core.DailySale{}, err
	}
	return r.GetSale(ctx, s.ID)
}

func (r *SQLiteRepository) DeleteSale(ctx context.Context, id int64) error {
	return affectedOrNotFound(r.db.ExecContext(ctx, `DELETE FROM daily_sales WHERE id = ?`, id))
}

// SalesBetween returns all sales inside an inclusive date range ordered
// by date, for the spreadsheet exports.
func (r *SQLiteRepository) SalesBetween(ctx context.Context, start, end core.Date) ([]core.DailySale, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, date, fuel_gallons, fuel_revenue_cents,
		inside_sales_cents, lottery_sales_cents, lottery_paid_cents, tax_cents,
		card_total_cents, cash_total_cents, notes, status, created_at
		FROM daily_sales WHERE date >= ? AND date <= ? ORDER BY date`,
		start.String(), end.String())
	if err != nil {
		return nil, fmt.Errorf("sales between: %w", err)
	}
	defer rows.Close()

	var sales []core.DailySale
	for rows.Next() {
		s, err := scanSale(rows)
		if err != nil {
			return nil, fmt.Errorf("scan sale: %w", err)
		}
		sales = append(sales, s)
	}
	return sales, rows.Err()
}
