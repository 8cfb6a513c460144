package orgs

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dayo/shopstack/internal/auth"
	"github.com/dayo/shopstack/internal/database/models"
)

var (
	ErrNotOwner       = errors.New("only the organization owner may do this")
	ErrForbidden      = errors.New("missing the required capability")
	ErrNoOrganization = errors.New("user has no organization")
	ErrUserExists     = errors.New("username or email already taken")
	ErrOrgNotFound    = errors.New("organization not found")
	ErrInvalidRole    = errors.New("unknown membership role")
)

type Service struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewService(db *gorm.DB, logger *slog.Logger) *Service {
	return &Service{db: db, logger: logger}
}

// GetMembership returns the caller's membership in the given organization,
// or nil when there is none.
func (s *Service) GetMembership(ctx context.Context, userID, orgID uuid.UUID) (*models.Membership, error) {
	if orgID == uuid.Nil {
		return nil, nil
	}
	var m models.Membership
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND organization_id = ?", userID, orgID).
		First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

type AddStaffInput struct {
	Username string
	Email    string
	Password string
	Role     string

	CanManageSales     bool
	CanManageInventory bool
	CanManageServices  bool
	CanViewReports     bool
	CanManageUsers     bool
	CanCreateCustomers bool
	CanEditPreference  bool
}

// AddStaff creates a staff user inside the requester's organization. Only
// the organization owner may call it.
func (s *Service) AddStaff(ctx context.Context, requesterID, orgID uuid.UUID, input AddStaffInput) (*models.Membership, error) {
	requester, err := s.GetMembership(ctx, requesterID, orgID)
	if err != nil {
		return nil, err
	}
	if !IsOwner(requester) {
		return nil, ErrNotOwner
	}

	role := input.Role
	if role == "" {
		role = models.RoleStaff
	}
	// The owning membership is created once, at signup. Staff can never be
	// granted a second owner role.
	if role == models.RoleOwner || !models.ValidRoles[role] {
		return nil, ErrInvalidRole
	}

	var org models.Organization
	if err := s.db.WithContext(ctx).First(&org, "id = ?", orgID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrgNotFound
		}
		return nil, err
	}

	email := strings.ToLower(strings.TrimSpace(input.Email))

	var count int64
	if err := s.db.WithContext(ctx).Model(&models.User{}).
		Where("username = ? OR lower(email) = ?", input.Username, email).
		Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrUserExists
	}

	hash, err := auth.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	var membership models.Membership
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		user := models.User{
			Username:              input.Username,
			Email:                 email,
			PasswordHash:          hash,
			CompanyName:           org.Name,
			IsSuperuser:           false,
			IsStaff:               true,
			CurrentOrganizationID: &org.ID,
		}
		if err := tx.Create(&user).Error; err != nil {
			return err
		}

		membership = models.Membership{
			UserID:             user.ID,
			OrganizationID:     org.ID,
			Role:               role,
			CanManageSales:     input.CanManageSales,
			CanManageInventory: input.CanManageInventory,
			CanManageServices:  input.CanManageServices,
			CanViewReports:     input.CanViewReports,
			CanManageUsers:     input.CanManageUsers,
			CanCreateCustomers: input.CanCreateCustomers,
			CanEditPreference:  input.CanEditPreference,
		}
		if err := tx.Create(&membership).Error; err != nil {
			return err
		}

		membership.User = &user
		membership.Organization = &org
		return nil
	})

	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrUserExists
		}
		return nil, err
	}

	s.logger.Info("staff added",
		"organization_id", org.ID,
		"user_id", membership.UserID,
		"role", membership.Role,
	)

	return &membership, nil
}

// ListStaff returns every membership in the organization, user preloaded.
// Callers without an organization get an empty slice, not an error.
func (s *Service) ListStaff(ctx context.Context, orgID uuid.UUID) ([]models.Membership, error) {
	if orgID == uuid.Nil {
		return []models.Membership{}, nil
	}
	var memberships []models.Membership
	if err := s.db.WithContext(ctx).
		Preload("User").
		Where("organization_id = ?", orgID).
		Order("created_at ASC").
		Find(&memberships).Error; err != nil {
		return nil, err
	}
	return memberships, nil
}

// OrgProfile is the read-only projection of an organization.
type OrgProfile struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	Preferences   []string  `json:"preferences"`
	OwnerUsername string    `json:"owner_username"`
	CreatedAt     string    `json:"created_at"`
}

// Profile returns the caller's organization projection.
func (s *Service) Profile(ctx context.Context, orgID uuid.UUID) (*OrgProfile, error) {
	if orgID == uuid.Nil {
		return nil, ErrNoOrganization
	}
	var org models.Organization
	if err := s.db.WithContext(ctx).
		Preload("Owner").
		First(&org, "id = ?", orgID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoOrganization
		}
		return nil, err
	}

	profile := &OrgProfile{
		ID:          org.ID,
		Name:        org.Name,
		Preferences: org.Preferences,
		CreatedAt:   org.CreatedAt.UTC().Format(time.RFC3339),
	}
	if org.Owner != nil {
		profile.OwnerUsername = org.Owner.Username
	}
	return profile, nil
}

// SetPreferences replaces the organization's preference set. The caller must
// be the owner or hold the edit_preference capability.
func (s *Service) SetPreferences(ctx context.Context, userID, orgID uuid.UUID, prefs []string) error {
	if orgID == uuid.Nil {
		return ErrNoOrganization
	}
	membership, err := s.GetMembership(ctx, userID, orgID)
	if err != nil {
		return err
	}
	if !Allows(membership, EditPreference) {
		return ErrForbidden
	}
	if err := auth.ValidatePreferences(prefs); err != nil {
		return err
	}

	result := s.db.WithContext(ctx).Model(&models.Organization{}).
		Where("id = ?", orgID).
		Update("preferences", models.StringList(prefs))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrOrgNotFound
	}
	return nil
}
