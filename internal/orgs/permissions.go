package orgs

import "github.com/dayo/shopstack/internal/database/models"

// Capability names one boolean permission a membership may carry.
type Capability string

const (
	ManageSales     Capability = "manage_sales"
	ManageInventory Capability = "manage_inventory"
	ManageServices  Capability = "manage_services"
	ViewReports     Capability = "view_reports"
	ManageUsers     Capability = "manage_users"
	CreateCustomers Capability = "create_customers"
	EditPreference  Capability = "edit_preference"
)

// Allows is the single authorization decision point for tenant-scoped
// operations: role owner grants every capability unconditionally, any
// other role is decided by the matching flag.
func Allows(m *models.Membership, c Capability) bool {
	if m == nil {
		return false
	}
	if m.Role == models.RoleOwner {
		return true
	}
	switch c {
	case ManageSales:
		return m.CanManageSales
	case ManageInventory:
		return m.CanManageInventory
	case ManageServices:
		return m.CanManageServices
	case ViewReports:
		return m.CanViewReports
	case ManageUsers:
		return m.CanManageUsers
	case CreateCustomers:
		return m.CanCreateCustomers
	case EditPreference:
		return m.CanEditPreference
	}
	return false
}

// IsOwner reports whether the membership carries the owner role.
func IsOwner(m *models.Membership) bool {
	return m != nil && m.Role == models.RoleOwner
}
