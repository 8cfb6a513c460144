package testutil

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/dayo/shopstack/internal/auth"
	"github.com/dayo/shopstack/internal/database/models"
)

// SetupTestDB creates an in-memory SQLite database for testing
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	err = db.AutoMigrate(
		&models.User{},
		&models.Organization{},
		&models.Membership{},
		&models.Product{},
	)
	if err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}

// CreateTestOwner creates an organization together with its owner user and
// the owning membership, the same shape the signup flow produces.
func CreateTestOwner(t *testing.T, db *gorm.DB) (*models.User, *models.Organization) {
	t.Helper()

	hash, err := auth.HashPassword("testpassword123")
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	suffix := uuid.New().String()[:8]
	owner := &models.User{
		Base:         models.Base{ID: uuid.New()},
		Username:     "owner-" + suffix,
		Email:        "owner-" + suffix + "@example.com",
		PasswordHash: hash,
		CompanyName:  "Test Organization",
		IsSuperuser:  true,
		IsStaff:      true,
	}
	if err := db.Create(owner).Error; err != nil {
		t.Fatalf("failed to create test owner: %v", err)
	}

	org := &models.Organization{
		Base:        models.Base{ID: uuid.New()},
		Name:        "Test Organization",
		Preferences: models.StringList{models.PreferenceCommerce},
		OwnerID:     owner.ID,
	}
	if err := db.Create(org).Error; err != nil {
		t.Fatalf("failed to create test organization: %v", err)
	}

	if err := db.Model(owner).Update("current_organization_id", org.ID).Error; err != nil {
		t.Fatalf("failed to link owner to organization: %v", err)
	}
	owner.CurrentOrganizationID = &org.ID

	membership := &models.Membership{
		Base:               models.Base{ID: uuid.New()},
		UserID:             owner.ID,
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
	if err := db.Create(membership).Error; err != nil {
		t.Fatalf("failed to create owner membership: %v", err)
	}

	owner.CurrentOrganization = org
	return owner, org
}

// CreateTestStaff creates a staff user with a membership in the given
// organization. Capability flags can be adjusted through mutate.
func CreateTestStaff(t *testing.T, db *gorm.DB, org *models.Organization, mutate func(*models.Membership)) *models.User {
	t.Helper()

	hash, err := auth.HashPassword("testpassword123")
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	suffix := uuid.New().String()[:8]
	staff := &models.User{
		Base:                  models.Base{ID: uuid.New()},
		Username:              "staff-" + suffix,
		Email:                 "staff-" + suffix + "@example.com",
		PasswordHash:          hash,
		CompanyName:           org.Name,
		IsStaff:               true,
		CurrentOrganizationID: &org.ID,
	}
	if err := db.Create(staff).Error; err != nil {
		t.Fatalf("failed to create test staff: %v", err)
	}

	membership := &models.Membership{
		Base:           models.Base{ID: uuid.New()},
		UserID:         staff.ID,
		OrganizationID: org.ID,
		Role:           models.RoleStaff,
	}
	if mutate != nil {
		mutate(membership)
	}
	if err := db.Create(membership).Error; err != nil {
		t.Fatalf("failed to create staff membership: %v", err)
	}

	staff.CurrentOrganization = org
	return staff
}

// CreateTestProduct creates a product in the given organization.
func CreateTestProduct(t *testing.T, db *gorm.DB, orgID uuid.UUID, name string, quantity uint, unitPrice float64) *models.Product {
	t.Helper()

	product := &models.Product{
		Base:           models.Base{ID: uuid.New()},
		OrganizationID: orgID,
		Name:           name,
		SerialNumber:   "SN-" + uuid.New().String()[:13],
		Category:       models.CategoryOther,
		Quantity:       quantity,
		UnitPrice:      unitPrice,
	}
	if err := db.Create(product).Error; err != nil {
		t.Fatalf("failed to create test product: %v", err)
	}
	return product
}

// CreateTestJWTService creates a JWT service for testing
func CreateTestJWTService() *auth.JWTService {
	return auth.NewJWTService("test-secret-key-for-testing", 24*time.Hour, 7*24*time.Hour)
}

// GenerateTestToken generates a valid access token for the given user.
func GenerateTestToken(t *testing.T, jwtService *auth.JWTService, user *models.User, role string) string {
	t.Helper()

	token, err := jwtService.GenerateToken(user.ID, user.OrgID(), user.Email, role)
	if err != nil {
		t.Fatalf("failed to generate test token: %v", err)
	}
	return token
}

// AuthenticatedRequest creates an HTTP request with authentication
func AuthenticatedRequest(t *testing.T, method, path string, body interface{}, token string) *http.Request {
	t.Helper()

	var reqBody *bytes.Buffer
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal request body: %v", err)
		}
		reqBody = bytes.NewBuffer(jsonData)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	return req
}

// UnauthenticatedRequest creates an HTTP request without authentication
func UnauthenticatedRequest(t *testing.T, method, path string, body interface{}) *http.Request {
	t.Helper()
	return AuthenticatedRequest(t, method, path, body, "")
}

// ParseJSONResponse parses the response body into the given struct
func ParseJSONResponse(t *testing.T, rr *httptest.ResponseRecorder, v interface{}) {
	t.Helper()

	if err := json.Unmarshal(rr.Body.Bytes(), v); err != nil {
		t.Fatalf("failed to parse response body: %v. Body: %s", err, rr.Body.String())
	}
}

// TestContext creates a context with a timeout for tests
func TestContext(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	t.Cleanup(cancel)
	return ctx
}

// TestSetup holds all the common test dependencies
type TestSetup struct {
	DB         *gorm.DB
	JWTService *auth.JWTService
	Org        *models.Organization
	Owner      *models.User
	Token      string
}

// NewTestContext creates a complete test setup with DB, org, owner and token
func NewTestContext(t *testing.T) *TestSetup {
	t.Helper()

	db := SetupTestDB(t)
	jwtService := CreateTestJWTService()
	owner, org := CreateTestOwner(t, db)
	token := GenerateTestToken(t, jwtService, owner, models.RoleOwner)

	return &TestSetup{
		DB:         db,
		JWTService: jwtService,
		Org:        org,
		Owner:      owner,
		Token:      token,
	}
}

// Cleanup closes the test database
func (ts *TestSetup) Cleanup() {
	if ts.DB != nil {
		sqlDB, err := ts.DB.DB()
		if err == nil {
			sqlDB.Close()
		}
	}
}
