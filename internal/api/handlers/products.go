package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dayo/shopstack/internal/api/dto"
	"github.com/dayo/shopstack/internal/api/middleware"
	"github.com/dayo/shopstack/internal/database/models"
	"github.com/dayo/shopstack/internal/orgs"
)

const dateLayout = "2006-01-02"

type ProductHandler struct {
	db         *gorm.DB
	orgService *orgs.Service
}

func NewProductHandler(db *gorm.DB, orgService *orgs.Service) *ProductHandler {
	return &ProductHandler{db: db, orgService: orgService}
}

// CreateProductRequest represents the request to create a product. UnitPrice
// is a pointer so "price omitted" and "price zero" stay distinguishable;
// only the organization owner may provide it.
type CreateProductRequest struct {
	Name         string   `json:"name"`
	Model        string   `json:"model,omitempty"`
	SerialNumber string   `json:"serial_number"`
	Footnote     string   `json:"footnote,omitempty"`
	Category     string   `json:"category,omitempty"`
	Quantity     uint     `json:"quantity"`
	UnitPrice    *float64 `json:"unit_price,omitempty"`

	SupplierName    string `json:"supplier_name,omitempty"`
	SupplierContact string `json:"supplier_contact,omitempty"`
	SupplierPhone   string `json:"supplier_phone,omitempty"`
	SupplierEmail   string `json:"supplier_email,omitempty"`
	SupplierAddress string `json:"supplier_address,omitempty"`
	DateSupplied    string `json:"date_supplied,omitempty"`
}

func (r CreateProductRequest) Validate() map[string]string {
	errors := make(map[string]string)
	if r.Name == "" {
		errors["name"] = "Name is required"
	}
	if r.SerialNumber == "" {
		errors["serial_number"] = "Serial number is required"
	}
	if r.Category != "" && !models.ValidCategories[r.Category] {
		errors["category"] = "Invalid product category"
	}
	if r.UnitPrice != nil && *r.UnitPrice < 0 {
		errors["unit_price"] = "Unit price cannot be negative"
	}
	if r.DateSupplied != "" {
		if _, err := time.Parse(dateLayout, r.DateSupplied); err != nil {
			errors["date_supplied"] = "Date must be formatted YYYY-MM-DD"
		}
	}
	return errors
}

// UpdateProductRequest is a partial update; nil fields are left untouched.
type UpdateProductRequest struct {
	Name         *string  `json:"name,omitempty"`
	Model        *string  `json:"model,omitempty"`
	SerialNumber *string  `json:"serial_number,omitempty"`
	Footnote     *string  `json:"footnote,omitempty"`
	Category     *string  `json:"category,omitempty"`
	Quantity     *uint    `json:"quantity,omitempty"`
	UnitPrice    *float64 `json:"unit_price,omitempty"`

	SupplierName    *string `json:"supplier_name,omitempty"`
	SupplierContact *string `json:"supplier_contact,omitempty"`
	SupplierPhone   *string `json:"supplier_phone,omitempty"`
	SupplierEmail   *string `json:"supplier_email,omitempty"`
	SupplierAddress *string `json:"supplier_address,omitempty"`
	DateSupplied    *string `json:"date_supplied,omitempty"`
}

func (r UpdateProductRequest) Validate() map[string]string {
	errors := make(map[string]string)
	if r.Name != nil && *r.Name == "" {
		errors["name"] = "Name cannot be empty"
	}
	if r.SerialNumber != nil && *r.SerialNumber == "" {
		errors["serial_number"] = "Serial number cannot be empty"
	}
	if r.Category != nil && !models.ValidCategories[*r.Category] {
		errors["category"] = "Invalid product category"
	}
	if r.UnitPrice != nil && *r.UnitPrice < 0 {
		errors["unit_price"] = "Unit price cannot be negative"
	}
	if r.DateSupplied != nil && *r.DateSupplied != "" {
		if _, err := time.Parse(dateLayout, *r.DateSupplied); err != nil {
			errors["date_supplied"] = "Date must be formatted YYYY-MM-DD"
		}
	}
	return errors
}

// ProductResponse represents a product in API responses. TotalValue is
// recomputed on every read.
type ProductResponse struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	Model        string  `json:"model,omitempty"`
	SerialNumber string  `json:"serial_number"`
	Footnote     string  `json:"footnote,omitempty"`
	Category     string  `json:"category"`
	Quantity     uint    `json:"quantity"`
	UnitPrice    float64 `json:"unit_price"`
	TotalValue   float64 `json:"total_value"`

	SupplierName    string `json:"supplier_name,omitempty"`
	SupplierContact string `json:"supplier_contact,omitempty"`
	SupplierPhone   string `json:"supplier_phone,omitempty"`
	SupplierEmail   string `json:"supplier_email,omitempty"`
	SupplierAddress string `json:"supplier_address,omitempty"`
	DateSupplied    string `json:"date_supplied,omitempty"`

	OrganizationID string  `json:"organization_id"`
	CreatedByID    *string `json:"created_by_id,omitempty"`
	CreatedAt      string  `json:"created_at"`
	UpdatedAt      string  `json:"updated_at"`
}

func productToResponse(p *models.Product) ProductResponse {
	resp := ProductResponse{
		ID:              p.ID.String(),
		Name:            p.Name,
		Model:           p.Model,
		SerialNumber:    p.SerialNumber,
		Footnote:        p.Footnote,
		Category:        p.Category,
		Quantity:        p.Quantity,
		UnitPrice:       p.UnitPrice,
		TotalValue:      p.TotalValue(),
		SupplierName:    p.SupplierName,
		SupplierContact: p.SupplierContact,
		SupplierPhone:   p.SupplierPhone,
		SupplierEmail:   p.SupplierEmail,
		SupplierAddress: p.SupplierAddress,
		OrganizationID:  p.OrganizationID.String(),
		CreatedAt:       p.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:       p.UpdatedAt.UTC().Format(time.RFC3339),
	}
	if p.DateSupplied != nil {
		resp.DateSupplied = p.DateSupplied.Format(dateLayout)
	}
	if p.CreatedByID != nil {
		s := p.CreatedByID.String()
		resp.CreatedByID = &s
	}
	return resp
}

// List handles GET /api/v1/products. Always scoped to the caller's
// organization; callers without one get an empty page, not an error.
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	orgID := middleware.GetOrganizationID(r.Context())

	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	perPage, _ := strconv.Atoi(r.URL.Query().Get("per_page"))
	pagination := dto.PaginationParams{Page: page, PerPage: perPage}
	pagination.Normalize()

	if orgID == uuid.Nil {
		writeJSON(w, http.StatusOK, dto.PaginatedResponse{
			Data:    []ProductResponse{},
			Total:   0,
			Page:    pagination.Page,
			PerPage: pagination.PerPage,
		})
		return
	}

	query := h.db.Model(&models.Product{}).Where("organization_id = ?", orgID)

	if category := r.URL.Query().Get("category"); category != "" {
		query = query.Where("category = ?", category)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to count products"})
		return
	}

	var products []models.Product
	if err := query.
		Order("created_at DESC").
		Offset(pagination.Offset()).
		Limit(pagination.PerPage).
		Find(&products).Error; err != nil {
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to list products"})
		return
	}

	response := make([]ProductResponse, len(products))
	for i := range products {
		response[i] = productToResponse(&products[i])
	}

	totalPages := int(total) / pagination.PerPage
	if int(total)%pagination.PerPage > 0 {
		totalPages++
	}

	writeJSON(w, http.StatusOK, dto.PaginatedResponse{
		Data:       response,
		Total:      total,
		Page:       pagination.Page,
		PerPage:    pagination.PerPage,
		TotalPages: totalPages,
	})
}

// Create handles POST /api/v1/products.
func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	orgID := middleware.GetOrganizationID(r.Context())

	membership, ok := h.requireCapability(w, r, userID, orgID, orgs.ManageInventory)
	if !ok {
		return
	}

	var req CreateProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request body"})
		return
	}

	if errs := req.Validate(); len(errs) > 0 {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Validation failed", Details: errs})
		return
	}

	if req.UnitPrice != nil && !orgs.IsOwner(membership) {
		writeJSON(w, http.StatusForbidden, dto.ErrorResponse{Error: "Only the owner may set prices"})
		return
	}

	category := req.Category
	if category == "" {
		category = models.CategoryOther
	}

	product := models.Product{
		OrganizationID:  orgID,
		Name:            req.Name,
		Model:           req.Model,
		SerialNumber:    req.SerialNumber,
		Footnote:        req.Footnote,
		Category:        category,
		Quantity:        req.Quantity,
		SupplierName:    req.SupplierName,
		SupplierContact: req.SupplierContact,
		SupplierPhone:   req.SupplierPhone,
		SupplierEmail:   req.SupplierEmail,
		SupplierAddress: req.SupplierAddress,
		CreatedByID:     &userID,
	}
	if req.UnitPrice != nil {
		product.UnitPrice = *req.UnitPrice
	}
	if req.DateSupplied != "" {
		supplied, _ := time.Parse(dateLayout, req.DateSupplied)
		product.DateSupplied = &supplied
	}

	if err := h.db.Create(&product).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{
				Error:   "Validation failed",
				Details: map[string]string{"serial_number": "Serial number already in use"},
			})
			return
		}
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to create product"})
		return
	}

	writeJSON(w, http.StatusCreated, productToResponse(&product))
}

// Get handles GET /api/v1/products/{id}.
func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	orgID := middleware.GetOrganizationID(r.Context())

	product, ok := h.findScoped(w, r, orgID)
	if !ok {
		return
	}

	writeJSON(w, http.StatusOK, productToResponse(product))
}

// Update handles PUT and PATCH /api/v1/products/{id}. Both apply a partial
// update; a unit price change is gated to the organization owner.
func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	orgID := middleware.GetOrganizationID(r.Context())

	membership, ok := h.requireCapability(w, r, userID, orgID, orgs.ManageInventory)
	if !ok {
		return
	}

	var req UpdateProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request body"})
		return
	}

	if errs := req.Validate(); len(errs) > 0 {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Validation failed", Details: errs})
		return
	}

	if req.UnitPrice != nil && !orgs.IsOwner(membership) {
		writeJSON(w, http.StatusForbidden, dto.ErrorResponse{Error: "Only the owner may set prices"})
		return
	}

	product, ok := h.findScoped(w, r, orgID)
	if !ok {
		return
	}

	applyProductUpdate(product, &req)

	if err := h.db.Save(product).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{
				Error:   "Validation failed",
				Details: map[string]string{"serial_number": "Serial number already in use"},
			})
			return
		}
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to update product"})
		return
	}

	writeJSON(w, http.StatusOK, productToResponse(product))
}

// Delete handles DELETE /api/v1/products/{id}.
func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	orgID := middleware.GetOrganizationID(r.Context())

	if _, ok := h.requireCapability(w, r, userID, orgID, orgs.ManageInventory); !ok {
		return
	}

	productID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid product ID"})
		return
	}

	result := h.db.
		Where("id = ? AND organization_id = ?", productID, orgID).
		Delete(&models.Product{})

	if result.Error != nil {
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to delete product"})
		return
	}
	if result.RowsAffected == 0 {
		writeJSON(w, http.StatusNotFound, dto.ErrorResponse{Error: "Product not found"})
		return
	}

	writeJSON(w, http.StatusOK, dto.SuccessResponse{Message: "Product deleted"})
}

// requireCapability resolves the caller's membership and enforces the given
// capability, writing the error response itself on failure.
func (h *ProductHandler) requireCapability(w http.ResponseWriter, r *http.Request, userID, orgID uuid.UUID, c orgs.Capability) (*models.Membership, bool) {
	if orgID == uuid.Nil {
		writeJSON(w, http.StatusForbidden, dto.ErrorResponse{Error: "No organization"})
		return nil, false
	}
	membership, err := h.orgService.GetMembership(r.Context(), userID, orgID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to check permissions"})
		return nil, false
	}
	if !orgs.Allows(membership, c) {
		writeJSON(w, http.StatusForbidden, dto.ErrorResponse{Error: "Missing the " + string(c) + " capability"})
		return nil, false
	}
	return membership, true
}

// findScoped loads the product by URL id restricted to the caller's
// organization. A product in another tenant is indistinguishable from an
// absent one.
func (h *ProductHandler) findScoped(w http.ResponseWriter, r *http.Request, orgID uuid.UUID) (*models.Product, bool) {
	productID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid product ID"})
		return nil, false
	}

	var product models.Product
	if err := h.db.Where("id = ? AND organization_id = ?", productID, orgID).First(&product).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeJSON(w, http.StatusNotFound, dto.ErrorResponse{Error: "Product not found"})
			return nil, false
		}
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to load product"})
		return nil, false
	}
	return &product, true
}

func applyProductUpdate(p *models.Product, req *UpdateProductRequest) {
	if req.Name != nil {
		p.Name = *req.Name
	}
	if req.Model != nil {
		p.Model = *req.Model
	}
	if req.SerialNumber != nil {
		p.SerialNumber = *req.SerialNumber
	}
	if req.Footnote != nil {
		p.Footnote = *req.Footnote
	}
	if req.Category != nil {
		p.Category = *req.Category
	}
	if req.Quantity != nil {
		p.Quantity = *req.Quantity
	}
	if req.UnitPrice != nil {
		p.UnitPrice = *req.UnitPrice
	}
	if req.SupplierName != nil {
		p.SupplierName = *req.SupplierName
	}
	if req.SupplierContact != nil {
		p.SupplierContact = *req.SupplierContact
	}
	if req.SupplierPhone != nil {
		p.SupplierPhone = *req.SupplierPhone
	}
	if req.SupplierEmail != nil {
		p.SupplierEmail = *req.SupplierEmail
	}
	if req.SupplierAddress != nil {
		p.SupplierAddress = *req.SupplierAddress
	}
	if req.DateSupplied != nil {
		if *req.DateSupplied == "" {
			p.DateSupplied = nil
		} else {
			supplied, _ := time.Parse(dateLayout, *req.DateSupplied)
			p.DateSupplied = &supplied
		}
	}
}
