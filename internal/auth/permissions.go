package auth

// Resource names a guarded area of the API.
type Resource string

const (
	ResourceSales     Resource = "sales"
	ResourceFuels     Resource = "fuels"
	ResourceStock     Resource = "stock"
	ResourceEmployees Resource = "employees"
	ResourceSchedules Resource = "schedules"
	ResourceLoans     Resource = "loans"
	ResourceAccounts  Resource = "accounts"
	ResourceEquity    Resource = "equity"
	ResourceInvoices  Resource = "invoices"
	ResourceReports   Resource = "reports"
	ResourceImports   Resource = "imports"
	ResourceUsers     Resource = "users"
)

// Action is what the caller wants to do with a resource.
type Action string

const (
	ActionRead   Action = "read"
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

// Can reports whether a role may perform an action on a resource.
//
// Owners can do everything. Managers run day-to-day operations but
// cannot touch the financial ledgers (loans, accounts, equity) or user
// accounts. Cashiers record sales and stock counts and read the
// schedule; everything else is off limits.
func Can(role Role, resource Resource, action Action) bool {
	switch role {
	case RoleOwner:
		return true
	case RoleManager:
		switch resource {
		case ResourceLoans, ResourceAccounts, ResourceEquity, ResourceUsers:
			return false
		case ResourceEmployees:
			return action != ActionDelete
		}
		return true
	case RoleCashier:
		switch resource {
		case ResourceSales, ResourceStock:
			return action == ActionRead || action == ActionCreate || action == ActionUpdate
		case ResourceSchedules, ResourceReports:
			return action == ActionRead
		}
		return false
	}
	return false
}
