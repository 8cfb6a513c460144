package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/dayo/shopstack/internal/api/dto"
	"github.com/dayo/shopstack/internal/api/middleware"
	"github.com/dayo/shopstack/internal/auth"
	"github.com/dayo/shopstack/internal/database/models"
	"github.com/dayo/shopstack/internal/orgs"
)

type OrgHandler struct {
	orgService *orgs.Service
}

func NewOrgHandler(orgService *orgs.Service) *OrgHandler {
	return &OrgHandler{orgService: orgService}
}

// AddStaff handles POST /api/v1/orgs/staff. Owner only.
func (h *OrgHandler) AddStaff(w http.ResponseWriter, r *http.Request) {
	var req dto.AddStaffRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request body"})
		return
	}

	if errs := req.Validate(); len(errs) > 0 {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Validation failed", Details: errs})
		return
	}

	userID := middleware.GetUserID(r.Context())
	orgID := middleware.GetOrganizationID(r.Context())

	membership, err := h.orgService.AddStaff(r.Context(), userID, orgID, orgs.AddStaffInput{
		Username:           req.Username,
		Email:              req.Email,
		Password:           req.Password,
		Role:               req.Role,
		CanManageSales:     req.CanManageSales,
		CanManageInventory: req.CanManageInventory,
		CanManageServices:  req.CanManageServices,
		CanViewReports:     req.CanViewReports,
		CanManageUsers:     req.CanManageUsers,
		CanCreateCustomers: req.CanCreateCustomers,
		CanEditPreference:  req.CanEditPreference,
	})

	if err != nil {
		switch {
		case errors.Is(err, orgs.ErrNotOwner):
			writeJSON(w, http.StatusForbidden, dto.ErrorResponse{Error: "Only the organization owner can add staff"})
		case errors.Is(err, orgs.ErrUserExists):
			writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{
				Error:   "Validation failed",
				Details: map[string]string{"username": "Username or email already taken"},
			})
		case errors.Is(err, orgs.ErrInvalidRole):
			writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{
				Error:   "Validation failed",
				Details: map[string]string{"role": "Unknown role"},
			})
		default:
			writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to add staff"})
		}
		return
	}

	writeJSON(w, http.StatusCreated, membershipToDTO(membership))
}

// ListStaff handles GET /api/v1/orgs/staff.
func (h *OrgHandler) ListStaff(w http.ResponseWriter, r *http.Request) {
	orgID := middleware.GetOrganizationID(r.Context())

	memberships, err := h.orgService.ListStaff(r.Context(), orgID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to list staff"})
		return
	}

	response := make([]dto.MembershipDTO, len(memberships))
	for i := range memberships {
		response[i] = membershipToDTO(&memberships[i])
	}

	writeJSON(w, http.StatusOK, response)
}

// Profile handles GET /api/v1/orgs/profile.
func (h *OrgHandler) Profile(w http.ResponseWriter, r *http.Request) {
	orgID := middleware.GetOrganizationID(r.Context())

	profile, err := h.orgService.Profile(r.Context(), orgID)
	if err != nil {
		if errors.Is(err, orgs.ErrNoOrganization) {
			writeJSON(w, http.StatusNotFound, dto.ErrorResponse{Error: "No organization"})
			return
		}
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to load organization"})
		return
	}

	writeJSON(w, http.StatusOK, profile)
}

// SetPreferences handles PUT /api/v1/orgs/preferences. Requires the owner
// role or the edit_preference capability.
func (h *OrgHandler) SetPreferences(w http.ResponseWriter, r *http.Request) {
	var req dto.SetPreferencesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request body"})
		return
	}

	if errs := req.Validate(); len(errs) > 0 {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Validation failed", Details: errs})
		return
	}

	userID := middleware.GetUserID(r.Context())
	orgID := middleware.GetOrganizationID(r.Context())

	err := h.orgService.SetPreferences(r.Context(), userID, orgID, req.Preferences)
	if err != nil {
		switch {
		case errors.Is(err, orgs.ErrForbidden):
			writeJSON(w, http.StatusForbidden, dto.ErrorResponse{Error: "Missing the edit_preference capability"})
		case errors.Is(err, orgs.ErrNoOrganization), errors.Is(err, orgs.ErrOrgNotFound):
			writeJSON(w, http.StatusNotFound, dto.ErrorResponse{Error: "No organization"})
		case errors.Is(err, auth.ErrInvalidPreference):
			writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{
				Error:   "Validation failed",
				Details: map[string]string{"preferences": err.Error()},
			})
		default:
			writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to update preferences"})
		}
		return
	}

	writeJSON(w, http.StatusOK, dto.SuccessResponse{Message: "Preferences updated"})
}

func membershipToDTO(m *models.Membership) dto.MembershipDTO {
	out := dto.MembershipDTO{
		ID:                 m.ID.String(),
		UserID:             m.UserID.String(),
		OrganizationID:     m.OrganizationID.String(),
		Role:               m.Role,
		CanManageSales:     m.CanManageSales,
		CanManageInventory: m.CanManageInventory,
		CanManageServices:  m.CanManageServices,
		CanViewReports:     m.CanViewReports,
		CanManageUsers:     m.CanManageUsers,
		CanCreateCustomers: m.CanCreateCustomers,
		CanEditPreference:  m.CanEditPreference,
		CreatedAt:          m.CreatedAt.UTC().Format(time.RFC3339),
	}
	if m.User != nil {
		out.Username = m.User.Username
		out.Email = m.User.Email
	}
	if m.Organization != nil {
		out.Organization = m.Organization.Name
	}
	return out
}
