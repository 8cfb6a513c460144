package models

import "github.com/google/uuid"

type User struct {
	Base
	Username     string `gorm:"uniqueIndex;not null" json:"username"`
	Email        string `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string `gorm:"not null" json:"-"`
	CompanyName  string `json:"company_name"`
	Address      string `json:"address"`
	Phone        string `json:"phone"`

	// IsSuperuser marks the organization owner; IsStaff marks any account
	// allowed to use the backoffice. Both are set at creation time.
	IsSuperuser bool `gorm:"default:false" json:"is_superuser"`
	IsStaff     bool `gorm:"default:false" json:"is_staff"`

	PurposeOfUse StringList `gorm:"type:text" json:"purpose_of_use"`

	CurrentOrganizationID *uuid.UUID `gorm:"type:uuid;index" json:"current_organization_id"`

	// Relationships
	CurrentOrganization *Organization `gorm:"foreignKey:CurrentOrganizationID" json:"current_organization,omitempty"`
	Memberships         []Membership  `gorm:"foreignKey:UserID" json:"-"`
}

func (User) TableName() string {
	return "users"
}

// OrgID returns the user's current organization ID, or uuid.Nil when the
// user has none.
func (u *User) OrgID() uuid.UUID {
	if u.CurrentOrganizationID == nil {
		return uuid.Nil
	}
	return *u.CurrentOrganizationID
}
