package http

import (
	"net/http"

	"forecourt/internal/auth"
	"forecourt/internal/core"
	"forecourt/internal/listing"
)

func dateDefaults() listing.Defaults {
	return listing.Defaults{PerPage: 50, SortField: "date", SortDirection: listing.Descending}
}

func nameDefaults(field string) listing.Defaults {
	return listing.Defaults{PerPage: 50, SortField: field, SortDirection: listing.Ascending}
}

func (s *Server) salesResource() *resource[core.DailySale] {
	return &resource[core.DailySale]{
		srv:      s,
		name:     auth.ResourceSales,
		defaults: dateDefaults(),
		list: func(r *http.Request, q listing.Query) (listing.Page[core.DailySale], error) {
			return s.store.ListSales(r.Context(), q)
		},
		create: func(r *http.Request, record core.DailySale) (core.DailySale, error) {
			return s.store.CreateSale(r.Context(), record)
		},
		update: func(r *http.Request, record core.DailySale) (core.DailySale, error) {
			return s.store.UpdateSale(r.Context(), record)
		},
		remove: func(r *http.Request, id int64) error {
			return s.store.DeleteSale(r.Context(), id)
		},
		validate: core.DailySale.Validate,
		setID:    func(record *core.DailySale, id int64) { record.ID = id },
	}
}

func (s *Server) fuelsResource() *resource[core.FuelDelivery] {
	return &resource[core.FuelDelivery]{
		srv:      s,
		name:     auth.ResourceFuels,
		defaults: dateDefaults(),
		list: func(r *http.Request, q listing.Query) (listing.Page[core.FuelDelivery], error) {
			return s.store.ListFuels(r.Context(), q)
		},
		create: func(r *http.Request, record core.FuelDelivery) (core.FuelDelivery, error) {
			return s.store.CreateFuel(r.Context(), record)
		},
		update: func(r *http.Request, record core.FuelDelivery) (core.FuelDelivery, error) {
			return s.store.UpdateFuel(r.Context(), record)
		},
		remove: func(r *http.Request, id int64) error {
			return s.store.DeleteFuel(r.Context(), id)
		},
		validate: core.FuelDelivery.Validate,
		setID:    func(record *core.FuelDelivery, id int64) { record.ID = id },
	}
}

func (s *Server) snapshotsResource() *resource[core.StockSnapshot] {
	return &resource[core.StockSnapshot]{
		srv:      s,
		name:     auth.ResourceStock,
		defaults: dateDefaults(),
		list: func(r *http.Request, q listing.Query) (listing.Page[core.StockSnapshot], error) {
			return s.store.ListSnapshots(r.Context(), q)
		},
		create: func(r *http.Request, record core.StockSnapshot) (core.StockSnapshot, error) {
			return s.store.CreateSnapshot(r.Context(), record)
		},
		update: func(r *http.Request, record core.StockSnapshot) (core.StockSnapshot, error) {
			return s.store.UpdateSnapshot(r.Context(), record)
		},
		remove: func(r *http.Request, id int64) error {
			return s.store.DeleteSnapshot(r.Context(), id)
		},
		validate: core.StockSnapshot.Validate,
		setID:    func(record *core.StockSnapshot, id int64) { record.ID = id },
		// Snapshot edits change what the reconciliation report derives.
		onChange: s.reports.Purge,
	}
}

func (s *Server) categoriesResource() *resource[core.StockCategory] {
	return &resource[core.StockCategory]{
		srv:      s,
		name:     auth.ResourceStock,
		defaults: listing.Defaults{PerPage: 50, SortField: "position", SortDirection: listing.Ascending},
		list: func(r *http.Request, q listing.Query) (listing.Page[core.StockCategory], error) {
			return s.store.ListCategories(r.Context(), q)
		},
		create: func(r *http.Request, record core.StockCategory) (core.StockCategory, error) {
			return s.store.CreateCategory(r.Context(), record)
		},
		update: func(r *http.Request, record core.StockCategory) (core.StockCategory, error) {
			return s.store.UpdateCategory(r.Context(), record)
		},
		remove: func(r *http.Request, id int64) error {
			return s.store.DeleteCategory(r.Context(), id)
		},
		validate: core.StockCategory.Validate,
		setID:    func(record *core.StockCategory, id int64) { record.ID = id },
		// Category order affects smoke report ordering.
		onChange: s.reports.Purge,
	}
}

func (s *Server) employeesResource() *resource[core.Employee] {
	return &resource[core.Employee]{
		srv:      s,
		name:     auth.ResourceEmployees,
		defaults: nameDefaults("name"),
		list: func(r *http.Request, q listing.Query) (listing.Page[core.Employee], error) {
			return s.store.ListEmployees(r.Context(), q)
		},
		create: func(r *http.Request, record core.Employee) (core.Employee, error) {
			return s.store.CreateEmployee(r.Context(), record)
		},
		update: func(r *http.Request, record core.Employee) (core.Employee, error) {
			return s.store.UpdateEmployee(r.Context(), record)
		},
		remove: func(r *http.Request, id int64) error {
			return s.store.DeleteEmployee(r.Context(), id)
		},
		validate: core.Employee.Validate,
		setID:    func(record *core.Employee, id int64) { record.ID = id },
	}
}

func (s *Server) schedulesResource() *resource[core.ShiftAssignment] {
	return &resource[core.ShiftAssignment]{
		srv:      s,
		name:     auth.ResourceSchedules,
		defaults: dateDefaults(),
		list: func(r *http.Request, q listing.Query) (listing.Page[core.ShiftAssignment], error) {
			return s.store.ListAssignments(r.Context(), q)
		},
		create: func(r *http.Request, record core.ShiftAssignment) (core.ShiftAssignment, error) {
			return s.store.CreateAssignment(r.Context(), record)
		},
		update: func(r *http.Request, record core.ShiftAssignment) (core.ShiftAssignment, error) {
			return s.store.UpdateAssignment(r.Context(), record)
		},
		remove: func(r *http.Request, id int64) error {
			return s.store.DeleteAssignment(r.Context(), id)
		},
		validate: core.ShiftAssignment.Validate,
		setID:    func(record *core.ShiftAssignment, id int64) { record.ID = id },
	}
}

func (s *Server) loansResource() *resource[core.Loan] {
	return &resource[core.Loan]{
		srv:      s,
		name:     auth.ResourceLoans,
		defaults: nameDefaults("lender"),
		list: func(r *http.Request, q listing.Query) (listing.Page[core.Loan], error) {
			return s.store.ListLoans(r.Context(), q)
		},
		create: func(r *http.Request, record core.Loan) (core.Loan, error) {
			return s.store.CreateLoan(r.Context(), record)
		},
		update: func(r *http.Request, record core.Loan) (core.Loan, error) {
			return s.store.UpdateLoan(r.Context(), record)
		},
		remove: func(r *http.Request, id int64) error {
			return s.store.DeleteLoan(r.Context(), id)
		},
		validate: core.Loan.Validate,
		setID:    func(record *core.Loan, id int64) { record.ID = id },
	}
}

func (s *Server) accountsResource() *resource[core.BankAccount] {
	return &resource[core.BankAccount]{
		srv:      s,
		name:     auth.ResourceAccounts,
		defaults: nameDefaults("name"),
		list: func(r *http.Request, q listing.Query) (listing.Page[core.BankAccount], error) {
			return s.store.ListAccounts(r.Context(), q)
		},
		create: func(r *http.Request, record core.BankAccount) (core.BankAccount, error) {
			return s.store.CreateAccount(r.Context(), record)
		},
		update: func(r *http.Request, record core.BankAccount) (core.BankAccount, error) {
			return s.store.UpdateAccount(r.Context(), record)
		},
		remove: func(r *http.Request, id int64) error {
			return s.store.DeleteAccount(r.Context(), id)
		},
		validate: core.BankAccount.Validate,
		setID:    func(record *core.BankAccount, id int64) { record.ID = id },
	}
}

func (s *Server) equityResource() *resource[core.EquityEntry] {
	return &resource[core.EquityEntry]{
		srv:      s,
		name:     auth.ResourceEquity,
		defaults: dateDefaults(),
		list: func(r *http.Request, q listing.Query) (listing.Page[core.EquityEntry], error) {
			return s.store.ListEquity(r.Context(), q)
		},
		create: func(r *http.Request, record core.EquityEntry) (core.EquityEntry, error) {
			return s.store.CreateEquity(r.Context(), record)
		},
		update: func(r *http.Request, record core.EquityEntry) (core.EquityEntry, error) {
			return s.store.UpdateEquity(r.Context(), record)
		},
		remove: func(r *http.Request, id int64) error {
			return s.store.DeleteEquity(r.Context(), id)
		},
		validate: core.EquityEntry.Validate,
		setID:    func(record *core.EquityEntry, id int64) { record.ID = id },
	}
}

func (s *Server) invoicesResource() *resource[core.Invoice] {
	return &resource[core.Invoice]{
		srv:      s,
		name:     auth.ResourceInvoices,
		defaults: dateDefaults(),
		list: func(r *http.Request, q listing.Query) (listing.Page[core.Invoice], error) {
			return s.store.ListInvoices(r.Context(), q)
		},
		create: func(r *http.Request, record core.Invoice) (core.Invoice, error) {
			return s.store.CreateInvoice(r.Context(), record)
		},
		update: func(r *http.Request, record core.Invoice) (core.Invoice, error) {
			return s.store.UpdateInvoice(r.Context(), record)
		},
		remove: func(r *http.Request, id int64) error {
			return s.store.DeleteInvoice(r.Context(), id)
		},
		validate: core.Invoice.Validate,
		setID:    func(record *core.Invoice, id int64) { record.ID = id },
	}
}
