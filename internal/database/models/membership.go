package models

import "github.com/google/uuid"

// Membership roles, ordered from most to least privileged.
const (
	RoleOwner  = "owner"
	RoleAdmin  = "admin"
	RoleStaff  = "staff"
	RoleViewer = "viewer"
)

// ValidRoles enumerates the roles a membership may carry.
var ValidRoles = map[string]bool{
	RoleOwner:  true,
	RoleAdmin:  true,
	RoleStaff:  true,
	RoleViewer: true,
}

// Membership grants one user a role and capability flags within one
// organization. The (user, organization) pair is unique; a user may hold
// memberships in several organizations but the API always acts on the
// user's current organization.
type Membership struct {
	Base
	UserID         uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_user_org" json:"user_id"`
	OrganizationID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_user_org" json:"organization_id"`
	Role           string    `gorm:"not null;default:'staff'" json:"role"`

	// Capability flags, each independent of role except that role=owner
	// implies all of them.
	CanManageSales     bool `gorm:"default:false" json:"can_manage_sales"`
	CanManageInventory bool `gorm:"default:false" json:"can_manage_inventory"`
	CanManageServices  bool `gorm:"default:false" json:"can_manage_services"`
	CanViewReports     bool `gorm:"default:false" json:"can_view_reports"`
	CanManageUsers     bool `gorm:"default:false" json:"can_manage_users"`
	CanCreateCustomers bool `gorm:"default:false" json:"can_create_customers"`
	CanEditPreference  bool `gorm:"default:false" json:"can_edit_preference"`

	// Relationships
	User         *User         `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"user,omitempty"`
	Organization *Organization `gorm:"foreignKey:OrganizationID;constraint:OnDelete:CASCADE" json:"organization,omitempty"`
}

func (Membership) TableName() string {
	return "memberships"
}
