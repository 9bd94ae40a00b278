package storage

import (
	"context"
	"database/sql"
	"fmt"

	"forecourt/internal/core"
	"forecourt/internal/listing"
)

var invoicesSpec = listSpec{
	table:   "invoices",
	columns: "id, vendor, number, date, due_date, amount_cents, status",
	sortable: map[string]string{
		"date":    "date",
		"dueDate": "due_date",
		"vendor":  "vendor",
		"amount":  "amount_cents",
	},
	defaultSort: "date",
	searchCols:  []string{"vendor", "number"},
	dateCol:     "date",
	filterCols:  map[string]string{"status": "status", "vendor": "vendor"},
}

func scanInvoice(rows *sql.Rows) (core.Invoice, error) {
	var i core.Invoice
	var date, dueDate string
	err := rows.Scan(&i.ID, &i.Vendor, &i.Number, &date, &dueDate, &i.Amount.Cents, &i.Status)
	i.Date = parseStoredDate(date)
	i.DueDate = parseStoredDate(dueDate)
	return i, err
}

func (r *SQLiteRepository) ListInvoices(ctx context.Context, q listing.Query) (listing.Page[core.Invoice], error) {
	return listRows(ctx, r.db, invoicesSpec, q, scanInvoice)
}

func (r *SQLiteRepository) GetInvoice(ctx context.Context, id int64) (core.Invoice, error) {
	row := r.db.QueryRowContext(ctx, `SELECT id, vendor, number, date, due_date, amount_cents, status
		FROM invoices WHERE id = ?`, id)
	var i core.Invoice
	var date, dueDate string
	if err := row.Scan(&i.ID, &i.Vendor, &i.Number, &date, &dueDate, &i.Amount.Cents, &i.Status); err != nil {
		return core.Invoice{}, mapErr(err)
	}
	i.Date = parseStoredDate(date)
	i.DueDate = parseStoredDate(dueDate)
	return i, nil
}

func (r *SQLiteRepository) CreateInvoice(ctx context.Context, i core.Invoice) (core.Invoice, error) {
	res, err := r.db.ExecContext(ctx, `INSERT INTO invoices (vendor, number, date, due_date, amount_cents, status)
		VALUES (?, ?, ?, ?, ?, ?)`,
		i.Vendor, i.Number, i.Date.String(), dateOrEmpty(i.DueDate), i.Amount.Cents, i.Status)
	if err != nil {
		return core.Invoice{}, mapErr(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return core.Invoice{}, fmt.Errorf("last insert id: %w", err)
	}
	return r.GetInvoice(ctx, id)
}

func (r *SQLiteRepository) UpdateInvoice(ctx context.Context, i core.Invoice) (core.Invoice, error) {
	err := affectedOrNotFound(r.db.ExecContext(ctx, `UPDATE invoices SET
		vendor = ?, number = ?, date = ?, due_date = ?, amount_cents = ?, status = ? WHERE id = ?`,
		i.Vendor, i.Number, i.Date.String(), dateOrEmpty(i.DueDate), i.Amount.Cents, i.Status, i.ID))
	if err != nil {
		return core.Invoice{}, err
	}
	return r.GetInvoice(ctx, i.ID)
}

func (r *SQLiteRepository) DeleteInvoice(ctx context.Context, id int64) error {
	return affectedOrNotFound(r.db.ExecContext(ctx, `DELETE FROM invoices WHERE id = ?`, id))
}
