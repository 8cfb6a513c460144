package dto

import "github.com/dayo/shopstack/internal/api/validation"

type SignupRequest struct {
	Username     string   `json:"username"`
	Email        string   `json:"email"`
	Password     string   `json:"password"`
	CompanyName  string   `json:"company_name,omitempty"`
	Address      string   `json:"address,omitempty"`
	Phone        string   `json:"phone,omitempty"`
	Preferences  []string `json:"preferences"`
	PurposeOfUse []string `json:"purpose_of_use,omitempty"`
}

func (r SignupRequest) Validate() map[string]string {
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
	if r.Phone != "" && !validation.IsValidPhone(r.Phone) {
		errors["phone"] = "Enter a valid phone number with 7-15 digits, e.g. +2348012345678"
	}
	if len(r.Preferences) == 0 {
		errors["preferences"] = "At least one business preference is required"
	}

	return errors
}

type LoginRequest struct {
	Identifier string `json:"identifier"`
	Password   string `json:"password"`
}

func (r LoginRequest) Validate() map[string]string {
	errors := make(map[string]string)

	if r.Identifier == "" {
		errors["identifier"] = "Username or email is required"
	}
	if r.Password == "" {
		errors["password"] = "Password is required"
	}

	return errors
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

func (r RefreshRequest) Validate() map[string]string {
	errors := make(map[string]string)
	if r.RefreshToken == "" {
		errors["refresh_token"] = "Refresh token is required"
	}
	return errors
}

type ChangePasswordRequest struct {
	OldPassword     string `json:"old_password"`
	NewPassword     string `json:"new_password"`
	ConfirmPassword string `json:"confirm_password"`
}

func (r ChangePasswordRequest) Validate() map[string]string {
	errors := make(map[string]string)

	if r.OldPassword == "" {
		errors["old_password"] = "Old password is required"
	}
	if r.NewPassword == "" {
		errors["new_password"] = "New password is required"
	} else if ok, msg := validation.IsValidPassword(r.NewPassword); !ok {
		errors["new_password"] = msg
	}
	if r.ConfirmPassword != r.NewPassword {
		errors["confirm_password"] = "Passwords do not match"
	}

	return errors
}

type TokenPairDTO struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type AuthResponse struct {
	Tokens TokenPairDTO `json:"tokens"`
	User   UserDTO      `json:"user"`
}

type RefreshResponse struct {
	AccessToken string `json:"access_token"`
}

type UserDTO struct {
	ID             string   `json:"id"`
	Username       string   `json:"username"`
	Email          string   `json:"email"`
	CompanyName    string   `json:"company_name,omitempty"`
	Address        string   `json:"address,omitempty"`
	Phone          string   `json:"phone,omitempty"`
	IsSuperuser    bool     `json:"is_superuser"`
	IsStaff        bool     `json:"is_staff"`
	PurposeOfUse   []string `json:"purpose_of_use,omitempty"`
	OrganizationID string   `json:"organization_id,omitempty"`
	OrgName        string   `json:"org_name,omitempty"`
}
