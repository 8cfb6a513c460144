package models

import "github.com/google/uuid"

// Preference tags an organization can declare at signup.
const (
	PreferenceHospitality       = "hospitality"
	PreferenceCommerce          = "commerce"
	PreferencePharmacy          = "pharmacy"
	PreferenceAgriculture       = "agriculture"
	PreferenceTourism           = "tourism"
	PreferenceTechnicalServices = "technical_services"
	PreferenceOther             = "other"
)

// ValidPreferences is the fixed enumeration of business-preference tags.
var ValidPreferences = map[string]bool{
	PreferenceHospitality:       true,
	PreferenceCommerce:          true,
	PreferencePharmacy:          true,
	PreferenceAgriculture:       true,
	PreferenceTourism:           true,
	PreferenceTechnicalServices: true,
	PreferenceOther:             true,
}

type Organization struct {
	Base
	Name        string     `gorm:"not null" json:"name"`
	Preferences StringList `gorm:"type:text" json:"preferences"`
	OwnerID     uuid.UUID  `gorm:"type:uuid;not null;index" json:"owner_id"`

	// Relationships
	Owner       *User        `gorm:"foreignKey:OwnerID" json:"owner,omitempty"`
	Memberships []Membership `gorm:"foreignKey:OrganizationID" json:"-"`
	Products    []Product    `gorm:"foreignKey:OrganizationID" json:"-"`
}

func (Organization) TableName() string {
	return "organizations"
}
