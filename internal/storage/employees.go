package storage

import (
	"context"
	"database/sql"
	"fmt"

	"forecourt/internal/core"
	"forecourt/internal/listing"
)

var employeesSpec = listSpec{
	table:   "employees",
	columns: "id, name, role, pay_rate_cents, active, hire_date",
	sortable: map[string]string{
		"name":     "name",
		"role":     "role",
		"payRate":  "pay_rate_cents",
		"hireDate": "hire_date",
	},
	defaultSort: "name",
	searchCols:  []string{"name", "role"},
	dateCol:     "hire_date",
	filterCols:  map[string]string{"status": "active"},
}

var schedulesSpec = listSpec{
	table:   "shift_assignments",
	columns: "id, employee_id, date, shift, start_time, end_time",
	sortable: map[string]string{
		"date":      "date",
		"shift":     "shift",
		"startTime": "start_time",
	},
	defaultSort: "date",
	dateCol:     "date",
	filterCols:  map[string]string{"type": "shift"},
}

func scanEmployee(rows *sql.Rows) (core.Employee, error) {
	var e core.Employee
	var hireDate string
	err := rows.Scan(&e.ID, &e.Name, &e.Role, &e.PayRate.Cents, &e.Active, &hireDate)
	e.HireDate = parseStoredDate(hireDate)
	return e, err
}

func scanAssignment(rows *sql.Rows) (core.ShiftAssignment, error) {
	var a core.ShiftAssignment
	var date string
	err := rows.Scan(&a.ID, &a.EmployeeID, &date, &a.Shift, &a.StartTime, &a.EndTime)
	a.Date = parseStoredDate(date)
	return a, err
}

func (r *SQLiteRepository) ListEmployees(ctx context.Context, q listing.Query) (listing.Page[core.Employee], error) {
	return listRows(ctx, r.db, employeesSpec, q, scanEmployee)
}

func (r *SQLiteRepository) GetEmployee(ctx context.Context, id int64) (core.Employee, error) {
	row := r.db.QueryRowContext(ctx, `SELECT id, name, role, pay_rate_cents, active, hire_date
		FROM employees WHERE id = ?`, id)
	var e core.Employee
	var hireDate string
	if err := row.Scan(&e.ID, &e.Name, &e.Role, &e.PayRate.Cents, &e.Active, &hireDate); err != nil {
		return core.Employee{}, mapErr(err)
	}
	e.HireDate = parseStoredDate(hireDate)
	return e, nil
}

func (r *SQLiteRepository) CreateEmployee(ctx context.Context, e core.Employee) (core.Employee, error) {
	res, err := r.db.ExecContext(ctx, `INSERT INTO employees (name, role, pay_rate_cents, active, hire_date)
		VALUES (?, ?, ?, ?, ?)`,
		e.Name, e.Role, e.PayRate.Cents, e.Active, e.HireDate.String())
	if err != nil {
		return core.Employee{}, mapErr(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return core.Employee{}, fmt.Errorf("last insert id: %w", err)
	}
	return r.GetEmployee(ctx, id)
}

func (r *SQLiteRepository) UpdateEmployee(ctx context.Context, e core.Employee) (core.Employee, error) {
	err := affectedOrNotFound(r.db.ExecContext(ctx, `UPDATE employees SET
		name = ?, role = ?, pay_rate_cents = ?, active = ?, hire_date = ? WHERE id = ?`,
		e.Name, e.Role, e.PayRate.Cents, e.Active, e.HireDate.String(), e.ID))
	if err != nil {
		return core.Employee{}, err
	}
	return r.GetEmployee(ctx, e.ID)
}

func (r *SQLiteRepository) DeleteEmployee(ctx context.Context, id int64) error {
	return affectedOrNotFound(r.db.ExecContext(ctx, `DELETE FROM employees WHERE id = ?`, id))
}

func (r *SQLiteRepository) ListAssignments(ctx context.Context, q listing.Query) (listing.Page[core.ShiftAssignment], error) {
	return listRows(ctx, r.db, schedulesSpec, q, scanAssignment)
}

func (r *SQLiteRepository) GetAssignment(ctx context.Context, id int64) (core.ShiftAssignment, error) {
	row := r.db.QueryRowContext(ctx, `SELECT id, employee_id, date, shift, start_time, end_time
		FROM shift_assignments WHERE id = ?`, id)
	var a core.ShiftAssignment
	var date string
	if err := row.Scan(&a.ID, &a.EmployeeID, &date, &a.Shift, &a.StartTime, &a.EndTime); err != nil {
		return core.ShiftAssignment{}, mapErr(err)
	}
	a.Date = parseStoredDate(date)
	return a, nil
}

func (r *SQLiteRepository) CreateAssignment(ctx context.Context, a core.ShiftAssignment) (core.ShiftAssignment, error) {
	res, err := r.db.ExecContext(ctx, `INSERT INTO shift_assignments
		(employee_id, date, shift, start_time, end_time) VALUES (?, ?, ?, ?, ?)`,
		a.EmployeeID, a.Date.String(), a.Shift, a.StartTime, a.EndTime)
	if err != nil {
		return core.ShiftAssignment{}, mapErr(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return core.ShiftAssignment{}, fmt.Errorf("last insert id: %w", err)
	}
	return r.GetAssignment(ctx, id)
}

func (r *SQLiteRepository) UpdateAssignment(ctx context.Context, a core.ShiftAssignment) (core.ShiftAssignment, error) {
	err := affectedOrNotFound(r.db.ExecContext(ctx, `UPDATE shift_assignments SET
		employee_id = ?, date = ?, shift = ?, start_time = ?, end_time = ? WHERE id = ?`,
		a.EmployeeID, a.Date.String(), a.Shift, a.StartTime, a.EndTime, a.ID))
	if err != nil {
		return core.ShiftAssignment{}, err
	}
	return r.GetAssignment(ctx, a.ID)
}

func (r *SQLiteRepository) DeleteAssignment(ctx context.Context, id int64) error {
	return affectedOrNotFound(r.db.ExecContext(ctx, `DELETE FROM shift_assignments WHERE id = ?`, id))
}
