package models

import (
	"time"

	"github.com/google/uuid"
)

// Product categories.
const (
	CategoryElectronics = "electronics"
	CategoryFashion     = "fashion"
	CategoryHealth      = "health"
	CategoryAgriculture = "agriculture"
	CategoryFood        = "food"
	CategoryServices    = "services"
	CategoryOther       = "other"
)

// ValidCategories is the fixed enumeration of product categories.
var ValidCategories = map[string]bool{
	CategoryElectronics: true,
	CategoryFashion:     true,
	CategoryHealth:      true,
	CategoryAgriculture: true,
	CategoryFood:        true,
	CategoryServices:    true,
	CategoryOther:       true,
}

// Product is an inventory record. It belongs to exactly one organization;
// every query and every write must filter or assign by OrganizationID.
type Product struct {
	Base
	OrganizationID uuid.UUID `gorm:"type:uuid;not null;index" json:"organization_id"`

	Name         string  `gorm:"not null" json:"name"`
	Model        string  `json:"model"`
	SerialNumber string  `gorm:"uniqueIndex;not null" json:"serial_number"`
	Footnote     string  `json:"footnote"`
	Category     string  `gorm:"not null;default:'other'" json:"category"`
	Quantity     uint    `gorm:"default:0" json:"quantity"`
	UnitPrice    float64 `gorm:"type:decimal(10,2)" json:"unit_price"`

	// Supplier details entered inline with the product.
	SupplierName    string     `json:"supplier_name"`
	SupplierContact string     `json:"supplier_contact"`
	SupplierPhone   string     `json:"supplier_phone"`
	SupplierEmail   string     `json:"supplier_email"`
	SupplierAddress string     `json:"supplier_address"`
	DateSupplied    *time.Time `json:"date_supplied"`

	CreatedByID *uuid.UUID `gorm:"type:uuid" json:"created_by_id"`

	// Relationships
	Organization *Organization `gorm:"foreignKey:OrganizationID;constraint:OnDelete:CASCADE" json:"-"`
	CreatedBy    *User         `gorm:"foreignKey:CreatedByID;constraint:OnDelete:SET NULL" json:"created_by,omitempty"`
}

func (Product) TableName() string {
	return "products"
}

// TotalValue is derived on read and never stored.
func (p *Product) TotalValue() float64 {
	return float64(p.Quantity) * p.UnitPrice
}
