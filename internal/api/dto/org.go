package dto

import "github.com/dayo/shopstack/internal/api/validation"

type AddStaffRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role,omitempty"`

	CanManageSales     bool `json:"can_manage_sales"`
	CanManageInventory bool `json:"can_manage_inventory"`
	CanManageServices  bool `json:"can_manage_services"`
	CanViewReports     bool `json:"can_view_reports"`
	CanManageUsers     bool `json:"can_manage_users"`
	CanCreateCustomers bool `json:"can_create_customers"`
	CanEditPreference  bool `json:"can_edit_preference"`
}

func (r AddStaffRequest) Validate() map[string]string {
	errors := make(map[string]string)

	if r.Username == "" {
		errors["username"] = "Username is required"
	} else if !validation.IsValidUsername(r.Username) {
		errors["username"] = "Username must be 3-50 letters, digits, '.', '-' or '_'"
	}
	if r.Email == "" {
		errors["email"] = "Email is required"
	} else if !validation.IsValidEmail(r.Email) {
		errors["email"] = "Email is not valid"
	}
	if r.Password == "" {
		errors["password"] = "Password is required"
	} else if ok, msg := validation.IsValidPassword(r.Password); !ok {
		errors["password"] = msg
	}

	return errors
}

type MembershipDTO struct {
	ID             string `json:"id"`
	UserID         string `json:"user_id"`
	Username       string `json:"username"`
	Email          string `json:"email"`
	OrganizationID string `json:"organization_id"`
	Organization   string `json:"organization,omitempty"`
	Role           string `json:"role"`

	CanManageSales     bool `json:"can_manage_sales"`
	CanManageInventory bool `json:"can_manage_inventory"`
	CanManageServices  bool `json:"can_manage_services"`
	CanViewReports     bool `json:"can_view_reports"`
	CanManageUsers     bool `json:"can_manage_users"`
	CanCreateCustomers bool `json:"can_create_customers"`
	CanEditPreference  bool `json:"can_edit_preference"`

	CreatedAt string `json:"created_at"`
}

type SetPreferencesRequest struct {
	Preferences []string `json:"preferences"`
}

func (r SetPreferencesRequest) Validate() map[string]string {
	errors := make(map[string]string)
	if len(r.Preferences) == 0 {
		errors["preferences"] = "At least one business preference is required"
	}
	return errors
}
