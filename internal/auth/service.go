package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/dayo/shopstack/internal/database/models"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrUserExists         = errors.New("username or email already taken")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidPreference  = errors.New("preferences must be a non-empty list of known business preferences")
	ErrTokenRevoked       = errors.New("refresh token has been revoked")
	ErrPasswordMismatch   = errors.New("new password and confirmation do not match")
	ErrPasswordTooShort   = errors.New("password must be at least 6 characters")
)

type Service struct {
	db    *gorm.DB
	jwt   *JWTService
	redis *redis.Client // optional: refresh-token revocation list
}

func NewService(db *gorm.DB, jwt *JWTService, redisClient *redis.Client) *Service {
	return &Service{db: db, jwt: jwt, redis: redisClient}
}

type SignupInput struct {
	Username     string
	Email        string
	Password     string
	CompanyName  string
	Address      string
	Phone        string
	Preferences  []string
	PurposeOfUse []string
}

type LoginInput struct {
	// Identifier is a username or an email address. Emails are matched
	// case-insensitively.
	Identifier string
	Password   string
}

type AuthResponse struct {
	Tokens *TokenPair   `json:"tokens"`
	User   *models.User `json:"user"`
}

// Signup provisions a user, their organization and the owning membership in
// a single transaction. Either all three records exist afterwards or none do.
func (s *Service) Signup(ctx context.Context, input SignupInput) (*AuthResponse, error) {
	if err := ValidatePreferences(input.Preferences); err != nil {
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

	hash, err := HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	orgName := input.CompanyName
	if orgName == "" {
		orgName = input.Username + "'s Organization"
	}

	var user models.User
	var org models.Organization
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		user = models.User{
			Username:     input.Username,
			Email:        email,
			PasswordHash: hash,
			CompanyName:  orgName,
			Address:      input.Address,
			Phone:        input.Phone,
			IsSuperuser:  true,
			IsStaff:      true,
			PurposeOfUse: models.StringList(input.PurposeOfUse),
		}
		if err := tx.Create(&user).Error; err != nil {
			return err
		}

		org = models.Organization{
			Name:        orgName,
			Preferences: models.StringList(input.Preferences),
			OwnerID:     user.ID,
		}
		if err := tx.Create(&org).Error; err != nil {
			return err
		}

		if err := tx.Model(&user).Update("current_organization_id", org.ID).Error; err != nil {
			return err
		}
		user.CurrentOrganizationID = &org.ID

		membership := models.Membership{
			UserID:             user.ID,
			OrganizationID:     org.ID,
			Role:               models.RoleOwner,
			CanManageSales:     true,
			CanManageInventory: true,
			CanManageServices:  true,
			CanViewReports:     true,
			CanManageUsers:     true,
			CanCreateCustomers: true,
			CanEditPreference:  true,
		}
		return tx.Create(&membership).Error
	})

	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrUserExists
		}
		return nil, err
	}

	tokens, err := s.jwt.GenerateTokenPair(user.ID, org.ID, user.Email, models.RoleOwner)
	if err != nil {
		return nil, err
	}

	user.CurrentOrganization = &org

	return &AuthResponse{Tokens: tokens, User: &user}, nil
}

func (s *Service) Login(ctx context.Context, input LoginInput) (*AuthResponse, error) {
	var user models.User
	if err := s.db.WithContext(ctx).
		Preload("CurrentOrganization").
		Where("username = ? OR lower(email) = ?", input.Identifier, strings.ToLower(input.Identifier)).
		First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !CheckPassword(input.Password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	tokens, err := s.jwt.GenerateTokenPair(user.ID, user.OrgID(), user.Email, s.roleOf(ctx, &user))
	if err != nil {
		return nil, err
	}

	return &AuthResponse{Tokens: tokens, User: &user}, nil
}

// Refresh exchanges a valid, unrevoked refresh token for a new access token.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (string, error) {
	claims, err := s.jwt.ValidateRefreshToken(refreshToken)
	if err != nil {
		return "", err
	}

	if s.redis != nil {
		revoked, err := s.redis.Exists(ctx, revocationKey(claims.ID)).Result()
		if err == nil && revoked > 0 {
			return "", ErrTokenRevoked
		}
	}

	// Re-read the user so a refreshed token reflects the current
	// organization and role, not the ones at login time.
	user, err := s.GetUserByID(ctx, claims.UserID)
	if err != nil {
		return "", err
	}

	return s.jwt.GenerateToken(user.ID, user.OrgID(), user.Email, s.roleOf(ctx, user))
}

// RevokeRefreshToken blacklists the token until its natural expiry. Without
// a Redis client revocation is a no-op and tokens expire on their own.
func (s *Service) RevokeRefreshToken(ctx context.Context, refreshToken string) error {
	if s.redis == nil {
		return nil
	}
	claims, err := s.jwt.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil // already unusable
	}
	ttl := time.Until(claims.ExpiresAt.Time)
	if ttl <= 0 {
		return nil
	}
	return s.redis.Set(ctx, revocationKey(claims.ID), "1", ttl).Err()
}

type ChangePasswordInput struct {
	OldPassword     string
	NewPassword     string
	ConfirmPassword string
}

// ChangePassword verifies the old password and stores the new hash. The
// shape rules (new == confirm, minimum length) are enforced here as well as
// in the request DTO so callers other than the HTTP handler get the same
// contract.
func (s *Service) ChangePassword(ctx context.Context, userID uuid.UUID, input ChangePasswordInput) error {
	if input.NewPassword != input.ConfirmPassword {
		return ErrPasswordMismatch
	}
	if len(input.NewPassword) < 6 {
		return ErrPasswordTooShort
	}

	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	if !CheckPassword(input.OldPassword, user.PasswordHash) {
		return ErrInvalidCredentials
	}

	hash, err := HashPassword(input.NewPassword)
	if err != nil {
		return err
	}

	return s.db.WithContext(ctx).Model(&user).Update("password_hash", hash).Error
}

func (s *Service) GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).
		Preload("CurrentOrganization").
		First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// roleOf resolves the user's role in their current organization. Users
// without an organization authenticate fine but carry no role.
func (s *Service) roleOf(ctx context.Context, user *models.User) string {
	if user.CurrentOrganizationID == nil {
		return ""
	}
	var membership models.Membership
	if err := s.db.WithContext(ctx).
		Where("user_id = ? AND organization_id = ?", user.ID, *user.CurrentOrganizationID).
		First(&membership).Error; err != nil {
		return ""
	}
	return membership.Role
}

// ValidatePreferences checks the list is non-empty and every element is a
// known business preference.
func ValidatePreferences(prefs []string) error {
	if len(prefs) == 0 {
		return ErrInvalidPreference
	}
	for _, p := range prefs {
		if !models.ValidPreferences[p] {
			return ErrInvalidPreference
		}
	}
	return nil
}

func revocationKey(jti string) string {
	return "auth:revoked:" + jti
}
