package orgs_test

import (
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dayo/shopstack/internal/auth"
	"github.com/dayo/shopstack/internal/database/models"
	"github.com/dayo/shopstack/internal/orgs"
	"github.com/dayo/shopstack/internal/testutil"
)

func newTestService(t *testing.T) (*orgs.Service, *testutil.TestSetup) {
	tc := testutil.NewTestContext(t)
	return orgs.NewService(tc.DB, slog.Default()), tc
}

func TestService_AddStaff(t *testing.T) {
	svc, tc := newTestService(t)
	defer tc.Cleanup()
	ctx := testutil.TestContext(t)

	t.Run("owner adds staff with flags", func(t *testing.T) {
		m, err := svc.AddStaff(ctx, tc.Owner.ID, tc.Org.ID, orgs.AddStaffInput{
			Username:           "clerk",
			Email:              "clerk@example.com",
			Password:           "Secret1",
			Role:               models.RoleStaff,
			CanManageInventory: true,
		})
		require.NoError(t, err)
		assert.Equal(t, models.RoleStaff, m.Role)
		assert.True(t, m.CanManageInventory)
		assert.False(t, m.CanManageSales)
		require.NotNil(t, m.User)
		assert.False(t, m.User.IsSuperuser)
		assert.True(t, m.User.IsStaff)
		assert.Equal(t, tc.Org.Name, m.User.CompanyName)
		require.NotNil(t, m.User.CurrentOrganizationID)
		assert.Equal(t, tc.Org.ID, *m.User.CurrentOrganizationID)
	})

	t.Run("defaults role to staff", func(t *testing.T) {
		m, err := svc.AddStaff(ctx, tc.Owner.ID, tc.Org.ID, orgs.AddStaffInput{
			Username: "helper",
			Email:    "helper@example.com",
			Password: "Secret1",
		})
		require.NoError(t, err)
		assert.Equal(t, models.RoleStaff, m.Role)
	})

	t.Run("rejects the owner role", func(t *testing.T) {
		_, err := svc.AddStaff(ctx, tc.Owner.ID, tc.Org.ID, orgs.AddStaffInput{
			Username: "usurper",
			Email:    "usurper@example.com",
			Password: "Secret1",
			Role:     models.RoleOwner,
		})
		assert.ErrorIs(t, err, orgs.ErrInvalidRole)

		// The organization keeps exactly one owner membership, and it
		// belongs to the organization's owner.
		var owners []models.Membership
		require.NoError(t, tc.DB.
			Where("organization_id = ? AND role = ?", tc.Org.ID, models.RoleOwner).
			Find(&owners).Error)
		require.Len(t, owners, 1)
		assert.Equal(t, tc.Owner.ID, owners[0].UserID)
	})

	t.Run("rejects unknown role", func(t *testing.T) {
		_, err := svc.AddStaff(ctx, tc.Owner.ID, tc.Org.ID, orgs.AddStaffInput{
			Username: "weird",
			Email:    "weird@example.com",
			Password: "Secret1",
			Role:     "superhero",
		})
		assert.ErrorIs(t, err, orgs.ErrInvalidRole)
	})

	t.Run("rejects duplicate identity", func(t *testing.T) {
		_, err := svc.AddStaff(ctx, tc.Owner.ID, tc.Org.ID, orgs.AddStaffInput{
			Username: "clerk",
			Email:    "elsewhere@example.com",
			Password: "Secret1",
		})
		assert.ErrorIs(t, err, orgs.ErrUserExists)
	})

	t.Run("non-owner staff may not add staff", func(t *testing.T) {
		staff := testutil.CreateTestStaff(t, tc.DB, tc.Org, func(m *models.Membership) {
			m.CanManageUsers = true // flag alone is not enough
		})

		_, err := svc.AddStaff(ctx, staff.ID, tc.Org.ID, orgs.AddStaffInput{
			Username: "minion",
			Email:    "minion@example.com",
			Password: "Secret1",
		})
		assert.ErrorIs(t, err, orgs.ErrNotOwner)
	})

	t.Run("user without membership may not add staff", func(t *testing.T) {
		_, err := svc.AddStaff(ctx, uuid.New(), tc.Org.ID, orgs.AddStaffInput{
			Username: "stranger",
			Email:    "stranger@example.com",
			Password: "Secret1",
		})
		assert.ErrorIs(t, err, orgs.ErrNotOwner)
	})
}

func TestService_ListStaff(t *testing.T) {
	svc, tc := newTestService(t)
	defer tc.Cleanup()
	ctx := testutil.TestContext(t)

	t.Run("no organization yields empty slice", func(t *testing.T) {
		memberships, err := svc.ListStaff(ctx, uuid.Nil)
		require.NoError(t, err)
		assert.Empty(t, memberships)
	})

	t.Run("lists owner and staff", func(t *testing.T) {
		testutil.CreateTestStaff(t, tc.DB, tc.Org, nil)

		memberships, err := svc.ListStaff(ctx, tc.Org.ID)
		require.NoError(t, err)
		require.Len(t, memberships, 2)

		owners := 0
		for _, m := range memberships {
			require.NotNil(t, m.User)
			if m.Role == models.RoleOwner {
				owners++
				assert.Equal(t, tc.Owner.ID, m.UserID)
			}
		}
		assert.Equal(t, 1, owners)
	})
}

func TestService_Profile(t *testing.T) {
	svc, tc := newTestService(t)
	defer tc.Cleanup()
	ctx := testutil.TestContext(t)

	t.Run("returns projection", func(t *testing.T) {
		profile, err := svc.Profile(ctx, tc.Org.ID)
		require.NoError(t, err)
		assert.Equal(t, tc.Org.Name, profile.Name)
		assert.Equal(t, []string{models.PreferenceCommerce}, profile.Preferences)
		assert.Equal(t, tc.Owner.Username, profile.OwnerUsername)
		assert.NotEmpty(t, profile.CreatedAt)
	})

	t.Run("no organization", func(t *testing.T) {
		_, err := svc.Profile(ctx, uuid.Nil)
		assert.ErrorIs(t, err, orgs.ErrNoOrganization)
	})
}

func TestService_SetPreferences(t *testing.T) {
	svc, tc := newTestService(t)
	defer tc.Cleanup()
	ctx := testutil.TestContext(t)

	t.Run("owner replaces preferences", func(t *testing.T) {
		err := svc.SetPreferences(ctx, tc.Owner.ID, tc.Org.ID,
			[]string{models.PreferenceTourism, models.PreferenceHospitality})
		require.NoError(t, err)

		var org models.Organization
		require.NoError(t, tc.DB.First(&org, "id = ?", tc.Org.ID).Error)
		assert.Equal(t, models.StringList{models.PreferenceTourism, models.PreferenceHospitality}, org.Preferences)
	})

	t.Run("flagged staff may edit", func(t *testing.T) {
		editor := testutil.CreateTestStaff(t, tc.DB, tc.Org, func(m *models.Membership) {
			m.CanEditPreference = true
		})

		err := svc.SetPreferences(ctx, editor.ID, tc.Org.ID, []string{models.PreferenceAgriculture})
		assert.NoError(t, err)
	})

	t.Run("unflagged staff is forbidden", func(t *testing.T) {
		staff := testutil.CreateTestStaff(t, tc.DB, tc.Org, nil)

		err := svc.SetPreferences(ctx, staff.ID, tc.Org.ID, []string{models.PreferenceCommerce})
		assert.ErrorIs(t, err, orgs.ErrForbidden)
	})

	t.Run("rejects invalid preference list", func(t *testing.T) {
		err := svc.SetPreferences(ctx, tc.Owner.ID, tc.Org.ID, []string{"mining"})
		assert.ErrorIs(t, err, auth.ErrInvalidPreference)

		err = svc.SetPreferences(ctx, tc.Owner.ID, tc.Org.ID, nil)
		assert.ErrorIs(t, err, auth.ErrInvalidPreference)
	})
}
