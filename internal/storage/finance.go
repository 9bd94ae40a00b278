package storage

import (
	"context"
	"database/sql"
	"fmt"

	"forecourt/internal/core"
	"forecourt/internal/listing"
)

var loansSpec = listSpec{
	table:   "loans",
	columns: "id, lender, principal_cents, balance_cents, rate_bps, status",
	sortable: map[string]string{
		"lender":    "lender",
		"principal": "principal_cents",
		"balance":   "balance_cents",
		"rate":      "rate_bps",
	},
	defaultSort: "lender",
	searchCols:  []string{"lender"},
	filterCols:  map[string]string{"status": "status"},
}

var accountsSpec = listSpec{
	table:   "bank_accounts",
	columns: "id, name, bank, last4, balance_cents, type",
	sortable: map[string]string{
		"name":    "name",
		"bank":    "bank",
		"balance": "balance_cents",
	},
	defaultSort: "name",
	searchCols:  []string{"name", "bank"},
	filterCols:  map[string]string{"type": "type"},
}

var equitySpec = listSpec{
	table:   "equity_entries",
	columns: "id, owner, date, amount_cents, kind",
	sortable: map[string]string{
		"date":   "date",
		"owner":  "owner",
		"amount": "amount_cents",
	},
	defaultSort: "date",
	searchCols:  []string{"owner"},
	dateCol:     "date",
	filterCols:  map[string]string{"type": "kind"},
}

func scanLoan(rows *sql.Rows) (core.Loan, error) {
	var l core.Loan
	err := rows.Scan(&l.ID, &l.Lender, &l.Principal.Cents, &l.Balance.Cents, &l.RateBps, &l.Status)
	return l, err
}

func scanAccount(rows *sql.Rows) (core.BankAccount, error) {
	var a core.BankAccount
	err := rows.Scan(&a.ID, &a.Name, &a.Bank, &a.Last4, &a.Balance.Cents, &a.Type)
	return a, err
}

func scanEquity(rows *sql.Rows) (core.EquityEntry, error) {
	var e core.EquityEntry
	var date string
	err := rows.Scan(&e.ID, &e.Owner, &date, &e.Amount.Cents, &e.Kind)
	e.Date = parseStoredDate(date)
	return e, err
}

func (r *SQLiteRepository) ListLoans(ctx context.Context, q listing.Query) (listing.Page[core.Loan], error) {
	return listRows(ctx, r.db, loansSpec, q, scanLoan)
}

func (r *SQLiteRepository) GetLoan(ctx context.Context, id int64) (core.Loan, error) {
	row := r.db.QueryRowContext(ctx, `SELECT id, lender, principal_cents, balance_cents, rate_bps, status
		FROM loans WHERE id = ?`, id)
	var l core.Loan
	if err := row.Scan(&l.ID, &l.Lender, &l.Principal.Cents, &l.Balance.Cents, &l.RateBps, &l.Status); err != nil {
		return core.Loan{}, mapErr(err)
	}
	return l, nil
}

func (r *SQLiteRepository) CreateLoan(ctx context.Context, l core.Loan) (core.Loan, error) {
	res, err := r.db.ExecContext(ctx, `INSERT INTO loans (lender, principal_cents, balance_cents, rate_bps, status)
		VALUES (?, ?, ?, ?, ?)`,
		l.Lender, l.Principal.Cents, l.Balance.Cents, l.RateBps, l.Status)
	if err != nil {
		return core.Loan{}, mapErr(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return core.Loan{}, fmt.Errorf("last insert id: %w", err)
	}
	return r.GetLoan(ctx, id)
}

func (r *SQLiteRepository) UpdateLoan(ctx context.Context, l core.Loan) (core.Loan, error) {
	err := affectedOrNotFound(r.db.ExecContext(ctx, `UPDATE loans SET
		lender = ?, principal_cents = ?, balance_cents = ?, rate_bps = ?, status = ? WHERE id = ?`,
		l.Lender, l.Principal.Cents, l.Balance.Cents, l.RateBps, l.Status, l.ID))
	if err != nil {
		return core.Loan{}, err
	}
	return r.GetLoan(ctx, l.ID)
}

func (r *SQLiteRepository) DeleteLoan(ctx context.Context, id int64) error {
	return affectedOrNotFound(r.db.ExecContext(ctx, `DELETE FROM loans WHERE id = ?`, id))
}

func (r *SQLiteRepository) ListAccounts(ctx context.Context, q listing.Query) (listing.Page[core.BankAccount], error) {
	return listRows(ctx, r.db, accountsSpec, q, scanAccount)
}

func (r *SQLiteRepository) GetAccount(ctx context.Context, id int64) (core.BankAccount, error) {
	row := r.db.QueryRowContext(ctx, `SELECT id, name, bank, last4, balance_cents, type
		FROM bank_accounts WHERE id = ?`, id)
	var a core.BankAccount
	if err := row.Scan(&a.ID, &a.Name, &a.Bank, &a.Last4, &a.Balance.Cents, &a.Type); err != nil {
		return core.BankAccount{}, mapErr(err)
	}
	return a, nil
}

func (r *SQLiteRepository) CreateAccount(ctx context.Context, a core.BankAccount) (core.BankAccount, error) {
	res, err := r.db.ExecContext(ctx, `INSERT INTO bank_accounts (name, bank, last4, balance_cents, type)
		VALUES (?, ?, ?, ?, ?)`,
		a.Name, a.Bank, a.Last4, a.Balance.Cents, a.Type)
	if err != nil {
		return core.BankAccount{}, mapErr(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return core.BankAccount{}, fmt.Errorf("last insert id: %w", err)
	}
	return r.GetAccount(ctx, id)
}

func (r *SQLiteRepository) UpdateAccount(ctx context.Context, a core.BankAccount) (core.BankAccount, error) {
	err := affectedOrNotFound(r.db.ExecContext(ctx, `UPDATE bank_accounts SET
		name = ?, bank = ?, last4 = ?, balance_cents = ?, type = ? WHERE id = ?`,
		a.Name, a.Bank, a.Last4, a.Balance.Cents, a.Type, a.ID))
	if err != nil {
		return core.BankAccount{}, err
	}
	return r.GetAccount(ctx, a.ID)
}

func (r *SQLiteRepository) DeleteAccount(ctx context.Context, id int64) error {
	return affectedOrNotFound(r.db.ExecContext(ctx, `DELETE FROM bank_accounts WHERE id = ?`, id))
}

func (r *SQLiteRepository) ListEquity(ctx context.Context, q listing.Query) (listing.Page[core.EquityEntry], error) {
	return listRows(ctx, r.db, equitySpec, q, scanEquity)
}

func (r *SQLiteRepository) GetEquity(ctx context.Context, id int64) (core.EquityEntry, error) {
	row := r.db.QueryRowContext(ctx, `SELECT id, owner, date, amount_cents, kind
		FROM equity_entries WHERE id = ?`, id)
	var e core.EquityEntry
	var date string
	if err := row.Scan(&e.ID, &e.Owner, &date, &e.Amount.Cents, &e.Kind); err != nil {
		return core.EquityEntry{}, mapErr(err)
	}
	e.Date = parseStoredDate(date)
	return e, nil
}

func (r *SQLiteRepository) CreateEquity(ctx context.Context, e core.EquityEntry) (core.EquityEntry, error) {
	res, err := r.db.ExecContext(ctx, `INSERT INTO equity_entries (owner, date, amount_cents, kind)
		VALUES (?, ?, ?, ?)`,
		e.Owner, e.Date.String(), e.Amount.Cents, e.Kind)
	if err != nil {
		return core.EquityEntry{}, mapErr(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return core.EquityEntry{}, fmt.Errorf("last insert id: %w", err)
	}
	return r.GetEquity(ctx, id)
}

func (r *SQLiteRepository) UpdateEquity(ctx context.Context, e core.EquityEntry) (core.EquityEntry, error) {
	err := affectedOrNotFound(r.db.ExecContext(ctx, `UPDATE equity_entries SET
		owner = ?, date = ?, amount_cents = ?, kind = ? WHERE id = ?`,
		e.Owner, e.Date.String(), e.Amount.Cents, e.Kind, e.ID))
	if err != nil {
		return core.EquityEntry{}, err
	}
	return r.GetEquity(ctx, e.ID)
}

func (r *SQLiteRepository) DeleteEquity(ctx context.Context, id int64) error {
	return affectedOrNotFound(r.db.ExecContext(ctx, `DELETE FROM equity_entries WHERE id = ?`, id))
}
